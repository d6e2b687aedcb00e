package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkordes/legal-digest/internal/domain"
)

const (
	sessionCookie = "ld_session"
	loginPath     = "/accounts/login/"
	defaultNext   = "/dashboard/"

	msgBadLogin = "Please enter a correct username and password. Note that both fields may be case-sensitive."
)

type ctxKey int

const userKey ctxKey = iota

// UserFromContext returns the logged-in user stored by LoadUser.
func UserFromContext(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(userKey).(domain.User)
	return u, ok
}

// LoadUser resolves the session cookie and stores the user in the request
// context. Requests without a valid session continue anonymously and a stale
// cookie is cleared.
func (s *Server) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(sessionCookie)
		if err != nil || c.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		u, err := s.auth.Authenticate(r.Context(), c.Value)
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			s.clearSessionCookie(w)
			next.ServeHTTP(w, r)
		case err != nil:
			s.serverError(w, r, err)
		default:
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
		}
	})
}

// RequireUser redirects anonymous requests to the login page. Must run after LoadUser.
func (s *Server) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			http.Redirect(w, r, loginPath+"?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// loginForm handles GET /accounts/login/.
func (s *Server) loginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login", loginView{
		baseView: s.base(w, r, "Log in"),
		Next:     safeNext(r.URL.Query().Get("next")),
	})
}

// login handles POST /accounts/login/.
// Unknown users and wrong passwords get the same message.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	username := strings.TrimSpace(r.PostForm.Get("username"))
	password := r.PostForm.Get("password")
	next := safeNext(r.PostForm.Get("next"))

	sess, err := s.auth.Login(r.Context(), username, password)
	if errors.Is(err, domain.ErrUnauthorized) {
		s.render(w, r, http.StatusUnauthorized, "login", loginView{
			baseView: s.base(w, r, "Log in"),
			Error:    msgBadLogin,
			Next:     next,
			Username: username,
		})
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// logout handles GET and POST on /logout/ and /accounts/logout/.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if err := s.auth.Logout(r.Context(), c.Value); err != nil {
			s.serverError(w, r, err)
			return
		}
	}
	s.clearSessionCookie(w)
	s.setFlash(w, flashSuccess, "You have been logged out.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// safeNext returns next if it is a local path, otherwise the dashboard.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.ContainsAny(next, "\\\r\n") {
		return defaultNext
	}
	return next
}
