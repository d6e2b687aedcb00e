package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/legal-digest/internal/domain"
)

// TagRepo defines the persistence operations for Tags.
// Links between tags and cases are written by CaseRepo; deleting a tag here
// removes its links through ON DELETE CASCADE.
type TagRepo interface {
	// Create inserts a tag. Returns domain.ErrConflict if the name (ignoring
	// case) or the slug is already taken.
	Create(ctx context.Context, name, slug string) (domain.Tag, error)

	// GetBySlug retrieves a single tag.
	// Returns domain.ErrNotFound if no tag has that slug.
	GetBySlug(ctx context.Context, slug string) (domain.Tag, error)

	// Rename overwrites name and slug of the tag with the given id.
	// Returns domain.ErrNotFound if it does not exist.
	Rename(ctx context.Context, id uuid.UUID, name, slug string) (domain.Tag, error)

	// Delete removes a tag and its case links.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns all tags ordered by name.
	List(ctx context.Context) ([]domain.Tag, error)

	// ListStats returns all tags ordered by name with their case counts.
	ListStats(ctx context.Context) ([]domain.TagStat, error)

	// Count returns the number of tags.
	Count(ctx context.Context) (int64, error)

	// CountCases returns how many cases are linked to the tag.
	CountCases(ctx context.Context, id uuid.UUID) (int64, error)

	// NameTaken reports whether another tag already uses name, compared
	// case-insensitively. A non-nil exclude skips that tag (used on rename).
	NameTaken(ctx context.Context, name string, exclude *uuid.UUID) (bool, error)

	// SlugTaken reports whether another tag already uses slug.
	// A non-nil exclude skips that tag.
	SlugTaken(ctx context.Context, slug string, exclude *uuid.UUID) (bool, error)
}

// pgTagRepo is the Postgres implementation of TagRepo.
type pgTagRepo struct {
	db db
}

// NewTagRepo constructs a TagRepo backed by the provided db connection.
func NewTagRepo(db db) TagRepo {
	return &pgTagRepo{db: db}
}

// Create inserts a tag. Uniqueness is enforced by tags_name_lower_idx and the slug key.
func (r *pgTagRepo) Create(ctx context.Context, name, slug string) (domain.Tag, error) {
	const q = `
		INSERT INTO tags (name, slug)
		VALUES (@name, @slug)
		RETURNING id, name, slug, created_at`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"name": name, "slug": slug})
	result, err := scanTag(row)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("repo.TagRepo.Create: %w", mapWriteErr(err))
	}
	return result, nil
}

// GetBySlug retrieves a tag by its slug.
func (r *pgTagRepo) GetBySlug(ctx context.Context, slug string) (domain.Tag, error) {
	const q = `SELECT id, name, slug, created_at FROM tags WHERE slug = @slug`

	result, err := scanTag(r.db.QueryRow(ctx, q, pgx.NamedArgs{"slug": slug}))
	if err != nil {
		return domain.Tag{}, fmt.Errorf("repo.TagRepo.GetBySlug: %w", err)
	}
	return result, nil
}

// Rename replaces name and slug; the previous slug is discarded.
func (r *pgTagRepo) Rename(ctx context.Context, id uuid.UUID, name, slug string) (domain.Tag, error) {
	const q = `
		UPDATE tags
		SET name = @name,
		    slug = @slug
		WHERE id = @id
		RETURNING id, name, slug, created_at`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "name": name, "slug": slug})
	result, err := scanTag(row)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("repo.TagRepo.Rename: %w", mapWriteErr(err))
	}
	return result, nil
}

// Delete removes a tag by primary key.
func (r *pgTagRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM tags WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TagRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TagRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// List returns all tags ordered by name.
func (r *pgTagRepo) List(ctx context.Context) ([]domain.Tag, error) {
	const q = `
		SELECT id, name, slug, created_at
		FROM tags
		ORDER BY name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TagRepo.List: %w", err)
	}
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TagRepo.List: scan: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TagRepo.List: rows: %w", err)
	}
	return tags, nil
}

// ListStats counts linked and published cases per tag in one grouped query.
func (r *pgTagRepo) ListStats(ctx context.Context) ([]domain.TagStat, error) {
	const q = `
		SELECT t.id, t.name, t.slug, t.created_at,
		       count(c.id),
		       count(c.id) FILTER (WHERE c.status <> 'draft')
		FROM tags t
		LEFT JOIN case_tags ct ON ct.tag_id = t.id
		LEFT JOIN cases c ON c.id = ct.case_id
		GROUP BY t.id
		ORDER BY t.name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TagRepo.ListStats: %w", err)
	}
	defer rows.Close()

	stats := []domain.TagStat{}
	for rows.Next() {
		var (
			s  domain.TagStat
			id pgtype.UUID
		)
		if err := rows.Scan(&id, &s.Name, &s.Slug, &s.CreatedAt, &s.CaseCount, &s.PublishedCount); err != nil {
			return nil, fmt.Errorf("repo.TagRepo.ListStats: scan: %w", err)
		}
		s.ID = uuid.UUID(id.Bytes)
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TagRepo.ListStats: rows: %w", err)
	}
	return stats, nil
}

// Count returns the total number of tags.
func (r *pgTagRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM tags`).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.TagRepo.Count: %w", err)
	}
	return n, nil
}

// CountCases returns the number of case links for a tag.
func (r *pgTagRepo) CountCases(ctx context.Context, id uuid.UUID) (int64, error) {
	const q = `SELECT count(*) FROM case_tags WHERE tag_id = @id`

	var n int64
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.TagRepo.CountCases: %w", err)
	}
	return n, nil
}

// NameTaken compares lower(name) so "AI Ethics" and "ai ethics" collide.
func (r *pgTagRepo) NameTaken(ctx context.Context, name string, exclude *uuid.UUID) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM tags
			WHERE lower(name) = lower(@name)
			  AND (@exclude::uuid IS NULL OR id <> @exclude::uuid))`

	var taken bool
	args := pgx.NamedArgs{"name": name, "exclude": optionalUUID(exclude)}
	if err := r.db.QueryRow(ctx, q, args).Scan(&taken); err != nil {
		return false, fmt.Errorf("repo.TagRepo.NameTaken: %w", err)
	}
	return taken, nil
}

// SlugTaken checks the unique slug column ahead of a write.
func (r *pgTagRepo) SlugTaken(ctx context.Context, slug string, exclude *uuid.UUID) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM tags
			WHERE slug = @slug
			  AND (@exclude::uuid IS NULL OR id <> @exclude::uuid))`

	var taken bool
	args := pgx.NamedArgs{"slug": slug, "exclude": optionalUUID(exclude)}
	if err := r.db.QueryRow(ctx, q, args).Scan(&taken); err != nil {
		return false, fmt.Errorf("repo.TagRepo.SlugTaken: %w", err)
	}
	return taken, nil
}

// scanTag maps a single database row into a domain.Tag.
func scanTag(s scanner) (domain.Tag, error) {
	var (
		t  domain.Tag
		id pgtype.UUID
	)
	err := s.Scan(&id, &t.Name, &t.Slug, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Tag{}, domain.ErrNotFound
		}
		return domain.Tag{}, err
	}
	t.ID = uuid.UUID(id.Bytes)
	return t, nil
}
