package handler

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/legal-digest/internal/domain"
)

// render writes page with the given status. The page is rendered into a
// buffer first so a template error can still produce a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	var buf bytes.Buffer
	if err := s.pages.Render(&buf, page, data); err != nil {
		s.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// errorPage renders the error page. If even that fails, a plain-text body is sent.
func (s *Server) errorPage(w http.ResponseWriter, r *http.Request, status int, message string) {
	data := errorView{
		baseView: s.base(w, r, http.StatusText(status)),
		Status:   status,
		Message:  message,
	}
	var buf bytes.Buffer
	if err := s.pages.Render(&buf, "error", data); err != nil {
		s.logger.ErrorContext(r.Context(), "render error page",
			"error", err,
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
		http.Error(w, message, status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// handleError maps a service error to an error page.
// Validation errors with field messages are handled by the form handlers
// before they get here; anything unrecognised is logged and becomes a 500.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.errorPage(w, r, http.StatusNotFound, "The page you requested could not be found.")
	case errors.Is(err, domain.ErrConflict):
		s.errorPage(w, r, http.StatusConflict, "Someone else saved a conflicting change. Please try again.")
	case errors.Is(err, domain.ErrValidation):
		s.errorPage(w, r, http.StatusUnprocessableEntity, "The submitted data was not valid.")
	default:
		s.serverError(w, r, err)
	}
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.ErrorContext(r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
		"request_id", chimiddleware.GetReqID(r.Context()),
	)
	s.errorPage(w, r, http.StatusInternalServerError, "Something went wrong on our side. Please try again later.")
}

// notFound serves unmatched paths. A GET for a known route that only lacks
// its trailing slash is redirected permanently, the way the public site has
// always addressed its pages.
func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if r.Method == http.MethodGet && path != "/" && path[len(path)-1] != '/' {
		if s.router.Match(chi.NewRouteContext(), r.Method, path+"/") {
			target := path + "/"
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, target, http.StatusMovedPermanently)
			return
		}
	}
	s.errorPage(w, r, http.StatusNotFound, "The page you requested could not be found.")
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.errorPage(w, r, http.StatusMethodNotAllowed, "This method is not allowed here.")
}

// parseForm parses a POST body. It reports false after writing the error
// response when the body is too large or malformed.
func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorPage(w, r, http.StatusRequestEntityTooLarge, "The submitted form is too large.")
			return false
		}
		s.errorPage(w, r, http.StatusBadRequest, "The submitted form could not be read.")
		return false
	}
	return true
}
