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

// CaseRepo defines the persistence operations for Cases and their tag links.
// The service layer depends on this interface, not the concrete Postgres implementation,
// which allows the service to be unit-tested with a mock.
type CaseRepo interface {
	// Create inserts a case and links it to tagIDs in one transaction.
	// Returns domain.ErrConflict if the slug is already taken.
	Create(ctx context.Context, c domain.Case, tagIDs []uuid.UUID) (domain.Case, error)

	// GetBySlug retrieves a single case with its tags.
	// Returns domain.ErrNotFound if no case has that slug.
	GetBySlug(ctx context.Context, slug string) (domain.Case, error)

	// Update overwrites the mutable fields of a case (everything except slug)
	// and replaces its tag links, in one transaction.
	// Returns domain.ErrNotFound if no case with that ID exists.
	Update(ctx context.Context, c domain.Case, tagIDs []uuid.UUID) (domain.Case, error)

	// Delete removes a case and its tag links.
	// Returns domain.ErrNotFound if no case with that ID exists.
	Delete(ctx context.Context, id uuid.UUID) error

	// SlugExists reports whether any case already uses slug.
	SlugExists(ctx context.Context, slug string) (bool, error)

	// Find returns one page of cases matching f, in f.Order, plus the total
	// number of matches. Each returned case has its tags loaded.
	Find(ctx context.Context, f domain.CaseFilter, p domain.PaginationParams) ([]domain.Case, int64, error)

	// CountByStatus counts the cases matching f grouped by status.
	// The Tags field of the result is left at zero.
	CountByStatus(ctx context.Context, f domain.CaseFilter) (domain.CaseStats, error)

	// ListCourts returns the distinct non-empty court names, alphabetically.
	ListCourts(ctx context.Context, publishedOnly bool) ([]string, error)

	// Related returns up to limit published cases sharing at least one tag
	// with the case identified by id, excluding that case.
	Related(ctx context.Context, id uuid.UUID, limit int) ([]domain.Case, error)
}

// pgCaseRepo is the Postgres implementation of CaseRepo.
type pgCaseRepo struct {
	db db
}

// NewCaseRepo constructs a CaseRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewCaseRepo(db db) CaseRepo {
	return &pgCaseRepo{db: db}
}

const caseColumns = `c.id, c.title, c.slug, c.citation, c.court, c.jurisdiction,
	c.docket_number, c.decision_date, c.parties, c.status,
	c.summary_short, c.summary_long, c.created_at, c.updated_at`

// Create inserts the case row and its tag links inside one transaction.
func (r *pgCaseRepo) Create(ctx context.Context, c domain.Case, tagIDs []uuid.UUID) (domain.Case, error) {
	const q = `
		INSERT INTO cases AS c (title, slug, citation, court, jurisdiction, docket_number,
		                        decision_date, parties, status, summary_short, summary_long)
		VALUES (@title, @slug, @citation, @court, @jurisdiction, @docket_number,
		        @decision_date, @parties, @status, @summary_short, @summary_long)
		RETURNING ` + caseColumns

	var created domain.Case
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		created, err = scanCase(tx.QueryRow(ctx, q, caseArgs(c)))
		if err != nil {
			return err
		}
		if err := replaceCaseTags(ctx, tx, created.ID, tagIDs); err != nil {
			return err
		}
		created.Tags, err = listCaseTags(ctx, tx, created.ID)
		return err
	})
	if err != nil {
		return domain.Case{}, fmt.Errorf("repo.CaseRepo.Create: %w", mapWriteErr(err))
	}
	return created, nil
}

// GetBySlug retrieves a case by slug together with its tags.
func (r *pgCaseRepo) GetBySlug(ctx context.Context, slug string) (domain.Case, error) {
	const q = `SELECT ` + caseColumns + ` FROM cases c WHERE c.slug = @slug`

	c, err := scanCase(r.db.QueryRow(ctx, q, pgx.NamedArgs{"slug": slug}))
	if err != nil {
		return domain.Case{}, fmt.Errorf("repo.CaseRepo.GetBySlug: %w", err)
	}
	c.Tags, err = listCaseTags(ctx, r.db, c.ID)
	if err != nil {
		return domain.Case{}, fmt.Errorf("repo.CaseRepo.GetBySlug: tags: %w", err)
	}
	return c, nil
}

// Update overwrites the case row and replaces its tag links.
func (r *pgCaseRepo) Update(ctx context.Context, c domain.Case, tagIDs []uuid.UUID) (domain.Case, error) {
	const q = `
		UPDATE cases AS c
		SET title         = @title,
		    citation      = @citation,
		    court         = @court,
		    jurisdiction  = @jurisdiction,
		    docket_number = @docket_number,
		    decision_date = @decision_date,
		    parties       = @parties,
		    status        = @status,
		    summary_short = @summary_short,
		    summary_long  = @summary_long,
		    updated_at    = now()
		WHERE c.id = @id
		RETURNING ` + caseColumns

	args := caseArgs(c)
	args["id"] = c.ID

	var updated domain.Case
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		updated, err = scanCase(tx.QueryRow(ctx, q, args))
		if err != nil {
			return err
		}
		if err := replaceCaseTags(ctx, tx, updated.ID, tagIDs); err != nil {
			return err
		}
		updated.Tags, err = listCaseTags(ctx, tx, updated.ID)
		return err
	})
	if err != nil {
		return domain.Case{}, fmt.Errorf("repo.CaseRepo.Update: %w", mapWriteErr(err))
	}
	return updated, nil
}

// Delete removes a case by primary key. case_tags rows go with it via ON DELETE CASCADE.
func (r *pgCaseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM cases WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.CaseRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.CaseRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// SlugExists checks the unique slug column ahead of an insert.
func (r *pgCaseRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM cases WHERE slug = @slug)`

	var exists bool
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"slug": slug}).Scan(&exists); err != nil {
		return false, fmt.Errorf("repo.CaseRepo.SlugExists: %w", err)
	}
	return exists, nil
}

// Find runs the filter query twice: once for the total and once for the page.
func (r *pgCaseRepo) Find(ctx context.Context, f domain.CaseFilter, p domain.PaginationParams) ([]domain.Case, int64, error) {
	where, args := buildCaseWhere(f)

	var total int64
	countQ := `SELECT count(*) FROM cases c ` + where
	if err := r.db.QueryRow(ctx, countQ, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.CaseRepo.Find: count: %w", err)
	}

	args["limit"] = p.Limit
	args["offset"] = p.Offset()
	q := `SELECT ` + caseColumns + `
		FROM cases c
		` + where + `
		` + caseOrderBy(f.Order) + `
		LIMIT @limit OFFSET @offset`

	cases, err := queryCases(ctx, r.db, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.CaseRepo.Find: %w", err)
	}
	if err := loadCaseTags(ctx, r.db, cases); err != nil {
		return nil, 0, fmt.Errorf("repo.CaseRepo.Find: tags: %w", err)
	}
	return cases, total, nil
}

// CountByStatus groups the filtered set by status.
func (r *pgCaseRepo) CountByStatus(ctx context.Context, f domain.CaseFilter) (domain.CaseStats, error) {
	where, args := buildCaseWhere(f)
	q := `SELECT c.status, count(*) FROM cases c ` + where + ` GROUP BY c.status`

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return domain.CaseStats{}, fmt.Errorf("repo.CaseRepo.CountByStatus: %w", err)
	}
	defer rows.Close()

	var stats domain.CaseStats
	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return domain.CaseStats{}, fmt.Errorf("repo.CaseRepo.CountByStatus: scan: %w", err)
		}
		switch domain.CaseStatus(status) {
		case domain.StatusOpen:
			stats.Open = n
		case domain.StatusClosed:
			stats.Closed = n
		case domain.StatusDraft:
			stats.Draft = n
		case domain.StatusArchived:
			stats.Archived = n
		}
	}
	if err := rows.Err(); err != nil {
		return domain.CaseStats{}, fmt.Errorf("repo.CaseRepo.CountByStatus: rows: %w", err)
	}
	return stats, nil
}

// ListCourts feeds the court filter dropdowns.
func (r *pgCaseRepo) ListCourts(ctx context.Context, publishedOnly bool) ([]string, error) {
	const q = `
		SELECT DISTINCT court
		FROM cases
		WHERE court <> ''
		  AND (NOT @published_only OR status <> 'draft')
		ORDER BY court`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"published_only": publishedOnly})
	if err != nil {
		return nil, fmt.Errorf("repo.CaseRepo.ListCourts: %w", err)
	}
	courts, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("repo.CaseRepo.ListCourts: rows: %w", err)
	}
	return courts, nil
}

// Related finds published cases that share a tag with the given case.
func (r *pgCaseRepo) Related(ctx context.Context, id uuid.UUID, limit int) ([]domain.Case, error) {
	q := `SELECT ` + caseColumns + `
		FROM cases c
		WHERE c.status <> 'draft'
		  AND c.id <> @id
		  AND EXISTS (
			SELECT 1
			FROM case_tags mine
			JOIN case_tags theirs ON theirs.tag_id = mine.tag_id
			WHERE mine.case_id = @id AND theirs.case_id = c.id)
		` + caseOrderBy(domain.OrderDecisionDate) + `
		LIMIT @limit`

	cases, err := queryCases(ctx, r.db, q, pgx.NamedArgs{"id": id, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("repo.CaseRepo.Related: %w", err)
	}
	if err := loadCaseTags(ctx, r.db, cases); err != nil {
		return nil, fmt.Errorf("repo.CaseRepo.Related: tags: %w", err)
	}
	return cases, nil
}

// caseArgs binds the writable columns of c.
func caseArgs(c domain.Case) pgx.NamedArgs {
	return pgx.NamedArgs{
		"title":         c.Title,
		"slug":          c.Slug,
		"citation":      c.Citation,
		"court":         c.Court,
		"jurisdiction":  c.Jurisdiction,
		"docket_number": c.DocketNumber,
		"decision_date": c.DecisionDate, // nil becomes NULL
		"parties":       c.Parties,
		"status":        string(c.Status),
		"summary_short": c.SummaryShort,
		"summary_long":  c.SummaryLong,
	}
}

// queryCases runs q and scans every row. Always returns a non-nil slice.
func queryCases(ctx context.Context, q db, sql string, args pgx.NamedArgs) ([]domain.Case, error) {
	rows, err := q.Query(ctx, sql, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cases := []domain.Case{}
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return cases, nil
}

// replaceCaseTags makes tagIDs the exact set of tags linked to caseID.
func replaceCaseTags(ctx context.Context, q db, caseID uuid.UUID, tagIDs []uuid.UUID) error {
	if _, err := q.Exec(ctx, `DELETE FROM case_tags WHERE case_id = @case_id`,
		pgx.NamedArgs{"case_id": caseID}); err != nil {
		return fmt.Errorf("clear tags: %w", err)
	}
	if len(tagIDs) == 0 {
		return nil
	}

	const ins = `
		INSERT INTO case_tags (case_id, tag_id)
		SELECT @case_id::uuid, unnest(@tag_ids::uuid[])
		ON CONFLICT (case_id, tag_id) DO NOTHING`

	if _, err := q.Exec(ctx, ins, pgx.NamedArgs{"case_id": caseID, "tag_ids": uuidStrings(tagIDs)}); err != nil {
		return fmt.Errorf("link tags: %w", err)
	}
	return nil
}

// listCaseTags returns the tags of a single case ordered by name.
func listCaseTags(ctx context.Context, q db, caseID uuid.UUID) ([]domain.Tag, error) {
	const sql = `
		SELECT t.id, t.name, t.slug, t.created_at
		FROM tags t
		JOIN case_tags ct ON ct.tag_id = t.id
		WHERE ct.case_id = @case_id
		ORDER BY t.name`

	rows, err := q.Query(ctx, sql, pgx.NamedArgs{"case_id": caseID})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// loadCaseTags fills the Tags field of every case with a single query.
func loadCaseTags(ctx context.Context, q db, cases []domain.Case) error {
	if len(cases) == 0 {
		return nil
	}

	index := make(map[uuid.UUID]int, len(cases))
	ids := make([]uuid.UUID, len(cases))
	for i := range cases {
		cases[i].Tags = []domain.Tag{}
		index[cases[i].ID] = i
		ids[i] = cases[i].ID
	}

	const sql = `
		SELECT ct.case_id, t.id, t.name, t.slug, t.created_at
		FROM case_tags ct
		JOIN tags t ON t.id = ct.tag_id
		WHERE ct.case_id = ANY(@ids::uuid[])
		ORDER BY t.name`

	rows, err := q.Query(ctx, sql, pgx.NamedArgs{"ids": uuidStrings(ids)})
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			caseID pgtype.UUID
			tagID  pgtype.UUID
			t      domain.Tag
		)
		if err := rows.Scan(&caseID, &tagID, &t.Name, &t.Slug, &t.CreatedAt); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		t.ID = uuid.UUID(tagID.Bytes)
		i := index[uuid.UUID(caseID.Bytes)]
		cases[i].Tags = append(cases[i].Tags, t)
	}
	return rows.Err()
}

// scanCase maps a single database row into a domain.Case.
// It handles the UUID and nullable decision_date conversions.
func scanCase(s scanner) (domain.Case, error) {
	var (
		c        domain.Case
		id       pgtype.UUID
		decision pgtype.Date
		status   string
	)

	err := s.Scan(&id, &c.Title, &c.Slug, &c.Citation, &c.Court, &c.Jurisdiction,
		&c.DocketNumber, &decision, &c.Parties, &status,
		&c.SummaryShort, &c.SummaryLong, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Case{}, domain.ErrNotFound
		}
		return domain.Case{}, err
	}

	c.ID = uuid.UUID(id.Bytes)
	c.Status = domain.CaseStatus(status)
	if decision.Valid {
		d := decision.Time
		c.DecisionDate = &d
	}
	return c, nil
}
