package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/legal-digest/internal/domain"
)

// dashboard handles GET /dashboard/.
// Query params: search (also matches tag names), court, status, date_from,
// date_to (inclusive, YYYY-MM-DD) and tag (tag id).
func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	tags, err := s.tags.List(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	f, dq, fe := dashboardFilter(queryValues(r), tags)

	d, err := s.cases.Dashboard(r.Context(), f)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, "dashboard", dashboardView{
		baseView:        s.base(w, r, "Dashboard"),
		Stats:           d.Stats,
		Filter:          dq,
		FilterErrors:    fe,
		Courts:          d.Courts,
		Tags:            tags,
		Total:           d.Total,
		Recent:          d.Recent,
		RecentlyUpdated: d.RecentlyUpdated,
	})
}

// caseDetail handles GET /dashboard/cases/{slug}/. Drafts are visible here.
func (s *Server) caseDetail(w http.ResponseWriter, r *http.Request) {
	c, err := s.cases.Get(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "dashboard_case", caseView{
		baseView: s.base(w, r, c.Title),
		Case:     c,
	})
}

// caseNewForm handles GET /dashboard/cases/new/.
func (s *Server) caseNewForm(w http.ResponseWriter, r *http.Request) {
	s.renderCaseForm(w, r, http.StatusOK, "", caseForm{Status: string(domain.StatusDraft)}, nil)
}

// caseCreate handles POST /dashboard/cases/new/.
func (s *Server) caseCreate(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	form := caseFormFromRequest(r)
	in, fe := form.input()
	if fe != nil {
		s.renderCaseForm(w, r, http.StatusUnprocessableEntity, "", form, fe)
		return
	}

	c, err := s.cases.Create(r.Context(), in)
	if fe, ok := domain.FieldErrorsOf(err); ok {
		s.renderCaseForm(w, r, http.StatusUnprocessableEntity, "", form, fe)
		return
	}
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.setFlash(w, flashSuccess, "Case \""+c.Title+"\" was created.")
	http.Redirect(w, r, "/dashboard/cases/"+c.Slug+"/", http.StatusSeeOther)
}

// caseEditForm handles GET /dashboard/cases/{slug}/edit/.
func (s *Server) caseEditForm(w http.ResponseWriter, r *http.Request) {
	c, err := s.cases.Get(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.renderCaseForm(w, r, http.StatusOK, c.Slug, caseFormFromCase(c), nil)
}

// caseUpdate handles POST /dashboard/cases/{slug}/edit/. The slug never changes.
func (s *Server) caseUpdate(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if !s.parseForm(w, r) {
		return
	}
	form := caseFormFromRequest(r)
	in, fe := form.input()
	if fe != nil {
		s.renderCaseForm(w, r, http.StatusUnprocessableEntity, slug, form, fe)
		return
	}

	c, err := s.cases.Update(r.Context(), slug, in)
	if fe, ok := domain.FieldErrorsOf(err); ok {
		s.renderCaseForm(w, r, http.StatusUnprocessableEntity, slug, form, fe)
		return
	}
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.setFlash(w, flashSuccess, "Case \""+c.Title+"\" was updated.")
	http.Redirect(w, r, "/dashboard/cases/"+c.Slug+"/", http.StatusSeeOther)
}

// caseDeleteConfirm handles GET /dashboard/cases/{slug}/delete/.
func (s *Server) caseDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	c, err := s.cases.Get(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "case_delete", caseView{
		baseView: s.base(w, r, "Delete "+c.Title),
		Case:     c,
	})
}

// caseDelete handles POST /dashboard/cases/{slug}/delete/. Linked tags are kept.
func (s *Server) caseDelete(w http.ResponseWriter, r *http.Request) {
	c, err := s.cases.Delete(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.setFlash(w, flashSuccess, "Case \""+c.Title+"\" was deleted.")
	http.Redirect(w, r, "/dashboard/", http.StatusSeeOther)
}

// renderCaseForm renders the create form when slug is empty and the edit
// form of that case otherwise.
func (s *Server) renderCaseForm(w http.ResponseWriter, r *http.Request, status int, slug string, form caseForm, fe domain.FieldErrors) {
	tags, err := s.tags.List(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	v := caseFormView{
		Form:   form,
		Errors: fe,
		Tags:   tags,
	}
	if slug == "" {
		v.baseView = s.base(w, r, "New case")
		v.Action = "/dashboard/cases/new/"
		v.SubmitLabel = "Create case"
		v.CancelURL = "/dashboard/"
	} else {
		v.baseView = s.base(w, r, "Edit case")
		v.Action = "/dashboard/cases/" + slug + "/edit/"
		v.SubmitLabel = "Save changes"
		v.CancelURL = "/dashboard/cases/" + slug + "/"
		v.Editing = true
	}
	if len(fe) > 0 {
		v.Flash = &Flash{Kind: flashError, Message: msgFixErrors}
	}
	s.render(w, r, status, "case_form", v)
}
