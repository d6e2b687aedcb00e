package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/legal-digest/internal/domain"
)

type tagResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

type caseResponse struct {
	ID           uuid.UUID     `json:"id"`
	Title        string        `json:"title"`
	Slug         string        `json:"slug"`
	Citation     string        `json:"citation,omitempty"`
	Court        string        `json:"court,omitempty"`
	Jurisdiction string        `json:"jurisdiction,omitempty"`
	DocketNumber string        `json:"docket_number,omitempty"`
	DecisionDate *string       `json:"decision_date"`
	Parties      string        `json:"parties,omitempty"`
	Status       string        `json:"status"`
	SummaryShort string        `json:"summary_short,omitempty"`
	SummaryLong  string        `json:"summary_long,omitempty"`
	Tags         []tagResponse `json:"tags"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

type paginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type caseListResponse struct {
	Data       []caseResponse `json:"data"`
	Pagination paginationMeta `json:"pagination"`
}

// apiListCases handles GET /api/cases.
// Query params are those of the public case list plus limit (default 12, max 100).
func (s *Server) apiListCases(w http.ResponseWriter, r *http.Request) {
	q := queryValues(r)
	f, _ := publicFilter(q)

	limit := domain.PublicPageSize
	if l := limitParam(q); l != nil {
		limit = *l
	}

	page, err := s.cases.ListPublished(r.Context(), f, pageParam(q), limit)
	if err != nil {
		s.apiError(w, r, err, "")
		return
	}

	data := make([]caseResponse, len(page.Items))
	for i, c := range page.Items {
		data[i] = caseToResponse(c)
	}
	writeJSON(w, http.StatusOK, caseListResponse{
		Data: data,
		Pagination: paginationMeta{
			Page:       page.Page,
			Limit:      page.Limit,
			Total:      page.Total,
			TotalPages: page.TotalPages,
		},
	})
}

// apiGetCase handles GET /api/cases/{slug}. Drafts are reported as missing.
func (s *Server) apiGetCase(w http.ResponseWriter, r *http.Request) {
	c, err := s.cases.GetPublished(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.apiError(w, r, err, "case not found")
		return
	}
	writeJSON(w, http.StatusOK, caseToResponse(c))
}

// caseToResponse maps a domain.Case to its JSON form.
// An unknown decision date is encoded as null.
func caseToResponse(c domain.Case) caseResponse {
	resp := caseResponse{
		ID:           c.ID,
		Title:        c.Title,
		Slug:         c.Slug,
		Citation:     c.Citation,
		Court:        c.Court,
		Jurisdiction: c.Jurisdiction,
		DocketNumber: c.DocketNumber,
		Parties:      c.Parties,
		Status:       string(c.Status),
		SummaryShort: c.SummaryShort,
		SummaryLong:  c.SummaryLong,
		Tags:         make([]tagResponse, len(c.Tags)),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
	if c.DecisionDate != nil {
		d := c.DecisionDate.Format(time.DateOnly)
		resp.DecisionDate = &d
	}
	for i, t := range c.Tags {
		resp.Tags[i] = tagResponse{ID: t.ID, Name: t.Name, Slug: t.Slug}
	}
	return resp
}
