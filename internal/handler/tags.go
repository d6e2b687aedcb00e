package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/legal-digest/internal/domain"
)

// tagList handles GET /dashboard/tags/.
func (s *Server) tagList(w http.ResponseWriter, r *http.Request) {
	stats, err := s.tags.ListStats(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "tag_list", tagListView{
		baseView: s.base(w, r, "Tags"),
		Stats:    stats,
	})
}

// tagNewForm handles GET /dashboard/tags/new/.
func (s *Server) tagNewForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "tag_form", tagFormView{
		baseView: s.base(w, r, "New tag"),
		Action:   "/dashboard/tags/new/",
	})
}

// tagCreate handles POST /dashboard/tags/new/.
// A name that differs from an existing one only by case is rejected.
func (s *Server) tagCreate(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	name := r.PostForm.Get("name")

	t, err := s.tags.Create(r.Context(), name)
	if fe, ok := domain.FieldErrorsOf(err); ok {
		s.render(w, r, http.StatusUnprocessableEntity, "tag_form", tagFormView{
			baseView: s.invalidBase(w, r, "New tag"),
			Action:   "/dashboard/tags/new/",
			Name:     name,
			Errors:   fe,
		})
		return
	}
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.setFlash(w, flashSuccess, "Tag \""+t.Name+"\" was created.")
	http.Redirect(w, r, "/dashboard/tags/", http.StatusSeeOther)
}

// tagEditForm handles GET /dashboard/tags/{slug}/edit/.
func (s *Server) tagEditForm(w http.ResponseWriter, r *http.Request) {
	t, err := s.tags.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "tag_form", tagFormView{
		baseView: s.base(w, r, "Edit tag"),
		Action:   "/dashboard/tags/" + t.Slug + "/edit/",
		Name:     t.Name,
	})
}

// tagRename handles POST /dashboard/tags/{slug}/edit/.
// The slug is re-derived from the new name, so the tag's URL may change.
func (s *Server) tagRename(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if !s.parseForm(w, r) {
		return
	}
	name := r.PostForm.Get("name")

	t, err := s.tags.Rename(r.Context(), slug, name)
	if fe, ok := domain.FieldErrorsOf(err); ok {
		s.render(w, r, http.StatusUnprocessableEntity, "tag_form", tagFormView{
			baseView: s.invalidBase(w, r, "Edit tag"),
			Action:   "/dashboard/tags/" + slug + "/edit/",
			Name:     name,
			Errors:   fe,
		})
		return
	}
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.setFlash(w, flashSuccess, "Tag \""+t.Name+"\" was updated.")
	http.Redirect(w, r, "/dashboard/tags/", http.StatusSeeOther)
}

// tagDeleteConfirm handles GET /dashboard/tags/{slug}/delete/ and shows how
// many cases will lose the tag.
func (s *Server) tagDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	t, n, err := s.tags.DeletePreview(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "tag_delete", tagDeleteView{
		baseView:  s.base(w, r, "Delete "+t.Name),
		Tag:       t,
		CaseCount: n,
	})
}

// tagDelete handles POST /dashboard/tags/{slug}/delete/. Cases are kept.
func (s *Server) tagDelete(w http.ResponseWriter, r *http.Request) {
	t, err := s.tags.Delete(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.setFlash(w, flashSuccess, "Tag \""+t.Name+"\" was deleted.")
	http.Redirect(w, r, "/dashboard/tags/", http.StatusSeeOther)
}
