package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/legal-digest/internal/domain"
)

// index handles GET /.
func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	landing, err := s.cases.Landing(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "index", indexView{
		baseView:       s.base(w, r, ""),
		PublishedCount: landing.PublishedCount,
		Recent:         landing.Recent,
	})
}

// about handles GET /about/.
func (s *Server) about(w http.ResponseWriter, r *http.Request) {
	n, err := s.cases.PublishedCount(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "about", aboutView{
		baseView:       s.base(w, r, "About"),
		PublishedCount: n,
	})
}

// publicCaseList handles GET /cases/.
// Query params: search, court, tag (tag id), page. A page past the end shows
// the last page.
func (s *Server) publicCaseList(w http.ResponseWriter, r *http.Request) {
	q := queryValues(r)
	f, pq := publicFilter(q)

	page, err := s.cases.ListPublished(r.Context(), f, pageParam(q), domain.PublicPageSize)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	courts, err := s.cases.Courts(r.Context(), true)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	tags, err := s.tags.List(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, "case_list", caseListView{
		baseView: s.base(w, r, "Cases"),
		Query:    pq,
		Courts:   courts,
		Tags:     tags,
		Page:     page,
	})
}

// publicCaseDetail handles GET /cases/{slug}/. Drafts are reported as missing.
func (s *Server) publicCaseDetail(w http.ResponseWriter, r *http.Request) {
	c, err := s.cases.GetPublished(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	related, err := s.cases.Related(r.Context(), c)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "case_detail", caseDetailView{
		baseView: s.base(w, r, c.Title),
		Case:     c,
		Related:  related,
	})
}
