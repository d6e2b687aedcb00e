// Package service contains the business logic for the Legal Digest application.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here. Services depend on repo interfaces, not implementations.
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

const (
	landingRecentLimit   = 3
	dashboardRecentLimit = 6
	relatedLimit         = 3

	// reservedSlug collides with the dashboard's new-case route.
	reservedSlug = "new"
)

// CaseService implements business logic for Case operations: validation of
// the case form, slug assignment on create, and the public/dashboard views
// built from filtered case queries.
type CaseService struct {
	cases repo.CaseRepo
	tags  repo.TagRepo
}

// NewCaseService constructs a CaseService backed by the provided repos.
func NewCaseService(cases repo.CaseRepo, tags repo.TagRepo) *CaseService {
	return &CaseService{cases: cases, tags: tags}
}

// Landing is the data shown on the home page.
type Landing struct {
	PublishedCount int64
	Recent         []domain.Case
}

// Dashboard is the data shown on the dashboard index.
// Stats, Recent and RecentlyUpdated all respect the submitted filter.
type Dashboard struct {
	Stats           domain.CaseStats
	Total           int64
	Recent          []domain.Case
	RecentlyUpdated []domain.Case
	Courts          []string
}

// Landing returns the published case count and the most recently added
// published cases.
func (s *CaseService) Landing(ctx context.Context) (Landing, error) {
	f := domain.CaseFilter{PublishedOnly: true, Order: domain.OrderCreated}
	recent, total, err := s.cases.Find(ctx, f, domain.PaginationParams{Page: 1, Limit: landingRecentLimit})
	if err != nil {
		return Landing{}, fmt.Errorf("service.CaseService.Landing: %w", err)
	}
	return Landing{PublishedCount: total, Recent: recent}, nil
}

// PublishedCount returns the number of cases visible to the public.
func (s *CaseService) PublishedCount(ctx context.Context) (int64, error) {
	_, total, err := s.cases.Find(ctx, domain.CaseFilter{PublishedOnly: true}, domain.PaginationParams{Page: 1, Limit: 1})
	if err != nil {
		return 0, fmt.Errorf("service.CaseService.PublishedCount: %w", err)
	}
	return total, nil
}

// ListPublished returns one page of published cases matching f.
// Drafts are always excluded and tag names are never searched, whatever f
// says. A page past the end is clamped to the last page.
func (s *CaseService) ListPublished(ctx context.Context, f domain.CaseFilter, page, limit int) (domain.Page[domain.Case], error) {
	f.PublishedOnly = true
	f.SearchTags = false
	f.Status = ""

	res, err := s.list(ctx, f, page, limit)
	if err != nil {
		return domain.Page[domain.Case]{}, fmt.Errorf("service.CaseService.ListPublished: %w", err)
	}
	return res, nil
}

// List returns one page of cases matching f, drafts included.
func (s *CaseService) List(ctx context.Context, f domain.CaseFilter, page, limit int) (domain.Page[domain.Case], error) {
	res, err := s.list(ctx, f, page, limit)
	if err != nil {
		return domain.Page[domain.Case]{}, fmt.Errorf("service.CaseService.List: %w", err)
	}
	return res, nil
}

func (s *CaseService) list(ctx context.Context, f domain.CaseFilter, page, limit int) (domain.Page[domain.Case], error) {
	p := domain.NewPaginationParams(&page, &limit)

	items, total, err := s.cases.Find(ctx, f, p)
	if err != nil {
		return domain.Page[domain.Case]{}, err
	}

	last := p.TotalPages(total)
	if p.Page > last {
		p.Page = last
		items, total, err = s.cases.Find(ctx, f, p)
		if err != nil {
			return domain.Page[domain.Case]{}, err
		}
	}

	return domain.Page[domain.Case]{
		Items:      items,
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: p.TotalPages(total),
	}, nil
}

// GetPublished returns a published case by slug.
// Drafts are reported as domain.ErrNotFound.
func (s *CaseService) GetPublished(ctx context.Context, slug string) (domain.Case, error) {
	c, err := s.cases.GetBySlug(ctx, slug)
	if err != nil {
		return domain.Case{}, fmt.Errorf("service.CaseService.GetPublished: %w", err)
	}
	if !c.Published() {
		return domain.Case{}, fmt.Errorf("service.CaseService.GetPublished: %w", domain.ErrNotFound)
	}
	return c, nil
}

// Get returns any case by slug, drafts included.
func (s *CaseService) Get(ctx context.Context, slug string) (domain.Case, error) {
	c, err := s.cases.GetBySlug(ctx, slug)
	if err != nil {
		return domain.Case{}, fmt.Errorf("service.CaseService.Get: %w", err)
	}
	return c, nil
}

// Related returns up to three published cases sharing a tag with c.
func (s *CaseService) Related(ctx context.Context, c domain.Case) ([]domain.Case, error) {
	if len(c.Tags) == 0 {
		return []domain.Case{}, nil
	}
	related, err := s.cases.Related(ctx, c.ID, relatedLimit)
	if err != nil {
		return nil, fmt.Errorf("service.CaseService.Related: %w", err)
	}
	return related, nil
}

// Courts returns the distinct non-empty court names, optionally only those
// of published cases.
func (s *CaseService) Courts(ctx context.Context, publishedOnly bool) ([]string, error) {
	courts, err := s.cases.ListCourts(ctx, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("service.CaseService.Courts: %w", err)
	}
	return courts, nil
}

// Dashboard assembles the dashboard index for the filtered case set.
func (s *CaseService) Dashboard(ctx context.Context, f domain.CaseFilter) (Dashboard, error) {
	f.PublishedOnly = false
	f.SearchTags = true

	stats, err := s.cases.CountByStatus(ctx, f)
	if err != nil {
		return Dashboard{}, fmt.Errorf("service.CaseService.Dashboard: stats: %w", err)
	}
	stats.Tags, err = s.tags.Count(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("service.CaseService.Dashboard: tag count: %w", err)
	}

	top := domain.PaginationParams{Page: 1, Limit: dashboardRecentLimit}

	f.Order = domain.OrderDecisionDate
	recent, total, err := s.cases.Find(ctx, f, top)
	if err != nil {
		return Dashboard{}, fmt.Errorf("service.CaseService.Dashboard: recent: %w", err)
	}

	f.Order = domain.OrderUpdated
	updated, _, err := s.cases.Find(ctx, f, top)
	if err != nil {
		return Dashboard{}, fmt.Errorf("service.CaseService.Dashboard: updated: %w", err)
	}

	courts, err := s.cases.ListCourts(ctx, false)
	if err != nil {
		return Dashboard{}, fmt.Errorf("service.CaseService.Dashboard: courts: %w", err)
	}

	return Dashboard{
		Stats:           stats,
		Total:           total,
		Recent:          recent,
		RecentlyUpdated: updated,
		Courts:          courts,
	}, nil
}

// Create validates in, assigns the slug and persists the case with its tags.
// An empty slug is derived from the title. A slug that is already taken is a
// validation error; nothing is written when validation fails.
func (s *CaseService) Create(ctx context.Context, in domain.CaseInput) (domain.Case, error) {
	c, tagIDs, fe, err := s.validate(ctx, in)
	if err != nil {
		return domain.Case{}, fmt.Errorf("service.CaseService.Create: %w", err)
	}

	c.Slug = strings.TrimSpace(in.Slug)
	if c.Slug == "" {
		c.Slug = domain.Slugify(c.Title, domain.CaseSlugMaxLen)
	}
	switch {
	case c.Slug == "" && c.Title != "":
		fe.Add("slug", "Could not derive a slug from the title; enter one.")
	case c.Slug == "":
		// title error already reported
	case len(c.Slug) > domain.CaseSlugMaxLen:
		fe.Add("slug", maxLenMessage(domain.CaseSlugMaxLen, utf8.RuneCountInString(c.Slug)))
	case !domain.ValidSlug(c.Slug):
		fe.Add("slug", "Enter a valid slug of lowercase letters, numbers and hyphens.")
	case c.Slug == reservedSlug:
		fe.Add("slug", "This slug is reserved; choose another.")
	default:
		taken, err := s.cases.SlugExists(ctx, c.Slug)
		if err != nil {
			return domain.Case{}, fmt.Errorf("service.CaseService.Create: %w", err)
		}
		if taken {
			fe.Add("slug", "A case with this slug already exists.")
		}
	}
	if err := fe.Err(); err != nil {
		return domain.Case{}, fmt.Errorf("service.CaseService.Create: %w", err)
	}

	created, err := s.cases.Create(ctx, c, tagIDs)
	if err != nil {
		return domain.Case{}, fmt.Errorf("service.CaseService.Create: %w", err)
	}
	return created, nil
}

// Update validates in and overwrites the case identified by slug.
// The slug itself never changes; in.Slug is ignored.
func (s *CaseService) Update(ctx context.Context, slug string, in domain.CaseInput) (domain.Case, error) {
	existing, err := s.cases.GetBySlug(ctx, slug)
	if err != nil {
		return domain.Case{}, fmt.Errorf("service.CaseService.Update: %w", err)
	}

	c, tagIDs, fe, err := s.validate(ctx, in)
	if err != nil {
		return domain.Case{}, fmt.Errorf("service.CaseService.Update: %w", err)
	}
	if err := fe.Err(); err != nil {
		return domain.Case{}, fmt.Errorf("service.CaseService.Update: %w", err)
	}

	c.ID = existing.ID
	c.Slug = existing.Slug
	updated, err := s.cases.Update(ctx, c, tagIDs)
	if err != nil {
		return domain.Case{}, fmt.Errorf("service.CaseService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes the case identified by slug. Its tags are kept.
func (s *CaseService) Delete(ctx context.Context, slug string) (domain.Case, error) {
	c, err := s.cases.GetBySlug(ctx, slug)
	if err != nil {
		return domain.Case{}, fmt.Errorf("service.CaseService.Delete: %w", err)
	}
	if err := s.cases.Delete(ctx, c.ID); err != nil {
		return domain.Case{}, fmt.Errorf("service.CaseService.Delete: %w", err)
	}
	return c, nil
}

// validate checks every field of in except the slug. It returns the case to
// persist, the de-duplicated tag ids and the field errors found so far.
// The returned error is only set for infrastructure failures.
func (s *CaseService) validate(ctx context.Context, in domain.CaseInput) (domain.Case, []uuid.UUID, domain.FieldErrors, error) {
	fe := domain.FieldErrors{}

	c := domain.Case{
		Title:        strings.TrimSpace(in.Title),
		Citation:     strings.TrimSpace(in.Citation),
		Court:        strings.TrimSpace(in.Court),
		Jurisdiction: strings.TrimSpace(in.Jurisdiction),
		DocketNumber: strings.TrimSpace(in.DocketNumber),
		DecisionDate: in.DecisionDate,
		Parties:      strings.TrimSpace(in.Parties),
		Status:       in.Status,
		SummaryShort: strings.TrimSpace(in.SummaryShort),
		SummaryLong:  strings.TrimSpace(in.SummaryLong),
	}

	if c.Title == "" {
		fe.Add("title", "This field is required.")
	}
	checkMaxLen(fe, "title", c.Title, domain.CaseTitleMaxLen)
	checkMaxLen(fe, "citation", c.Citation, domain.CaseTextMaxLen)
	checkMaxLen(fe, "court", c.Court, domain.CaseTextMaxLen)
	checkMaxLen(fe, "jurisdiction", c.Jurisdiction, domain.CaseTextMaxLen)
	checkMaxLen(fe, "docket_number", c.DocketNumber, domain.CaseDocketMaxLen)

	if c.Status == "" {
		c.Status = domain.StatusDraft
	}
	if !c.Status.Valid() {
		fe.Add("status", fmt.Sprintf("Select a valid choice. %q is not one of the available choices.", string(c.Status)))
	}

	tagIDs, err := s.checkTags(ctx, fe, in.TagIDs)
	if err != nil {
		return domain.Case{}, nil, nil, err
	}
	return c, tagIDs, fe, nil
}

// checkTags de-duplicates ids and reports any id that is not a known tag.
func (s *CaseService) checkTags(ctx context.Context, fe domain.FieldErrors, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	all, err := s.tags.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	known := make(map[uuid.UUID]bool, len(all))
	for _, t := range all {
		known[t.ID] = true
	}

	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if !known[id] {
			fe.Add("tags", fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", id))
			continue
		}
		out = append(out, id)
	}
	return out, nil
}

func checkMaxLen(fe domain.FieldErrors, field, value string, limit int) {
	if n := utf8.RuneCountInString(value); n > limit {
		fe.Add(field, maxLenMessage(limit, n))
	}
}

func maxLenMessage(limit, n int) string {
	return fmt.Sprintf("Ensure this value has at most %d characters (it has %d).", limit, n)
}
