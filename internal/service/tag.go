package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/pkordes/legal-digest/internal/domain"
	"github.com/pkordes/legal-digest/internal/repo"
)

// TagService implements business logic for Tag operations.
// Its primary responsibility is name uniqueness: two tags may not share a
// name ignoring case, and every tag's slug is derived from its name.
type TagService struct {
	tags repo.TagRepo
}

// NewTagService constructs a TagService backed by the provided TagRepo.
func NewTagService(tags repo.TagRepo) *TagService {
	return &TagService{tags: tags}
}

// Create validates name and stores a new tag.
// A case-insensitive name collision returns an error matching both
// domain.ErrConflict and a *domain.ValidationError on the "name" field.
func (s *TagService) Create(ctx context.Context, name string) (domain.Tag, error) {
	name, slug, err := s.check(ctx, name, nil)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("service.TagService.Create: %w", err)
	}

	tag, err := s.tags.Create(ctx, name, slug)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("service.TagService.Create: %w", err)
	}
	return tag, nil
}

// Rename changes the name of the tag identified by slug and regenerates its
// slug. The tag's own current name never counts as a collision.
func (s *TagService) Rename(ctx context.Context, slug, name string) (domain.Tag, error) {
	existing, err := s.tags.GetBySlug(ctx, slug)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("service.TagService.Rename: %w", err)
	}

	name, newSlug, err := s.check(ctx, name, &existing.ID)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("service.TagService.Rename: %w", err)
	}

	tag, err := s.tags.Rename(ctx, existing.ID, name, newSlug)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("service.TagService.Rename: %w", err)
	}
	return tag, nil
}

// GetBySlug returns a single tag.
func (s *TagService) GetBySlug(ctx context.Context, slug string) (domain.Tag, error) {
	tag, err := s.tags.GetBySlug(ctx, slug)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("service.TagService.GetBySlug: %w", err)
	}
	return tag, nil
}

// DeletePreview returns the tag identified by slug and the number of cases
// that would lose it, for the delete confirmation page.
func (s *TagService) DeletePreview(ctx context.Context, slug string) (domain.Tag, int64, error) {
	tag, err := s.tags.GetBySlug(ctx, slug)
	if err != nil {
		return domain.Tag{}, 0, fmt.Errorf("service.TagService.DeletePreview: %w", err)
	}
	n, err := s.tags.CountCases(ctx, tag.ID)
	if err != nil {
		return domain.Tag{}, 0, fmt.Errorf("service.TagService.DeletePreview: %w", err)
	}
	return tag, n, nil
}

// Delete removes the tag identified by slug. Linked cases are kept; only
// their association with the tag is removed.
func (s *TagService) Delete(ctx context.Context, slug string) (domain.Tag, error) {
	tag, err := s.tags.GetBySlug(ctx, slug)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("service.TagService.Delete: %w", err)
	}
	if err := s.tags.Delete(ctx, tag.ID); err != nil {
		return domain.Tag{}, fmt.Errorf("service.TagService.Delete: %w", err)
	}
	return tag, nil
}

// List returns every tag ordered by name.
func (s *TagService) List(ctx context.Context) ([]domain.Tag, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TagService.List: %w", err)
	}
	return tags, nil
}

// ListStats returns every tag with its total and published case counts.
func (s *TagService) ListStats(ctx context.Context) ([]domain.TagStat, error) {
	stats, err := s.tags.ListStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TagService.ListStats: %w", err)
	}
	return stats, nil
}

// check normalises name, derives its slug and runs the uniqueness checks.
// exclude is the id of the tag being renamed, nil on create.
func (s *TagService) check(ctx context.Context, name string, exclude *uuid.UUID) (string, string, error) {
	name = strings.TrimSpace(name)

	fe := domain.FieldErrors{}
	if name == "" {
		fe.Add("name", "This field is required.")
		return "", "", fe.Err()
	}
	if n := utf8.RuneCountInString(name); n > domain.TagNameMaxLen {
		fe.Add("name", maxLenMessage(domain.TagNameMaxLen, n))
		return "", "", fe.Err()
	}

	taken, err := s.tags.NameTaken(ctx, name, exclude)
	if err != nil {
		return "", "", err
	}
	if taken {
		fe.Add("name", "A tag with this name already exists.")
		return "", "", fmt.Errorf("%w: %w", domain.ErrConflict, fe.Err())
	}

	slug := domain.Slugify(name, domain.TagSlugMaxLen)
	if slug == "" {
		fe.Add("name", "The name must contain at least one letter or number.")
		return "", "", fe.Err()
	}
	taken, err = s.tags.SlugTaken(ctx, slug, exclude)
	if err != nil {
		return "", "", err
	}
	if taken {
		fe.Add("name", "A tag with a similar name already exists.")
		return "", "", fmt.Errorf("%w: %w", domain.ErrConflict, fe.Err())
	}

	return name, slug, nil
}
