package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pkordes/legal-digest/internal/domain"
	"github.com/pkordes/legal-digest/internal/repo"
)

// exportBatchSize is the page size used while walking the filtered case set.
const exportBatchSize = 100

// ExportService assembles a flat export of the cases matching a filter.
type ExportService struct {
	cases repo.CaseRepo
}

// NewExportService constructs an ExportService backed by the provided repo.
func NewExportService(cases repo.CaseRepo) *ExportService {
	return &ExportService{cases: cases}
}

// Export returns one ExportRow per case matching f, in the filter's order.
// The filter is applied the way the dashboard applies it: every status is
// included and the search also matches tag names. Always returns a non-nil
// slice.
func (s *ExportService) Export(ctx context.Context, f domain.CaseFilter) ([]domain.ExportRow, error) {
	f.PublishedOnly = false
	f.SearchTags = true

	rows := []domain.ExportRow{}
	p := domain.PaginationParams{Page: 1, Limit: exportBatchSize}

	for {
		cases, total, err := s.cases.Find(ctx, f, p)
		if err != nil {
			return nil, fmt.Errorf("service.ExportService.Export: page %d: %w", p.Page, err)
		}
		for _, c := range cases {
			rows = append(rows, exportRow(c))
		}
		if len(cases) == 0 || int64(p.Page*p.Limit) >= total {
			return rows, nil
		}
		p.Page++
	}
}

func exportRow(c domain.Case) domain.ExportRow {
	row := domain.ExportRow{
		Slug:         c.Slug,
		Title:        c.Title,
		Citation:     c.Citation,
		Court:        c.Court,
		Jurisdiction: c.Jurisdiction,
		DocketNumber: c.DocketNumber,
		Parties:      c.Parties,
		Status:       string(c.Status),
		SummaryShort: c.SummaryShort,
		SummaryLong:  c.SummaryLong,
		CreatedAt:    c.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    c.UpdatedAt.UTC().Format(time.RFC3339),
		Tags:         make([]string, 0, len(c.Tags)),
	}
	if c.DecisionDate != nil {
		row.DecisionDate = c.DecisionDate.Format(time.DateOnly)
	}
	for _, t := range c.Tags {
		row.Tags = append(row.Tags, t.Slug)
	}
	return row
}
