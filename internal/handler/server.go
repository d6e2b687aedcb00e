// Package handler implements the HTTP handlers for the Legal Digest application.
// All handlers are methods on Server. Methods are split into domain-specific
// files (public.go, cases.go, tags.go, etc.) but all share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/legal-digest/internal/domain"
	"github.com/pkordes/legal-digest/internal/middleware"
	"github.com/pkordes/legal-digest/internal/service"
)

// CaseServicer defines the case operations the handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type CaseServicer interface {
	Landing(ctx context.Context) (service.Landing, error)
	PublishedCount(ctx context.Context) (int64, error)
	ListPublished(ctx context.Context, f domain.CaseFilter, page, limit int) (domain.Page[domain.Case], error)
	GetPublished(ctx context.Context, slug string) (domain.Case, error)
	Related(ctx context.Context, c domain.Case) ([]domain.Case, error)
	Courts(ctx context.Context, publishedOnly bool) ([]string, error)
	Dashboard(ctx context.Context, f domain.CaseFilter) (service.Dashboard, error)
	Get(ctx context.Context, slug string) (domain.Case, error)
	Create(ctx context.Context, in domain.CaseInput) (domain.Case, error)
	Update(ctx context.Context, slug string, in domain.CaseInput) (domain.Case, error)
	Delete(ctx context.Context, slug string) (domain.Case, error)
}

// TagServicer defines the tag operations the handlers depend on.
type TagServicer interface {
	Create(ctx context.Context, name string) (domain.Tag, error)
	Rename(ctx context.Context, slug, name string) (domain.Tag, error)
	GetBySlug(ctx context.Context, slug string) (domain.Tag, error)
	DeletePreview(ctx context.Context, slug string) (domain.Tag, int64, error)
	Delete(ctx context.Context, slug string) (domain.Tag, error)
	List(ctx context.Context) ([]domain.Tag, error)
	ListStats(ctx context.Context) ([]domain.TagStat, error)
}

// AuthServicer defines the login and session operations.
type AuthServicer interface {
	Login(ctx context.Context, username, password string) (domain.Session, error)
	Authenticate(ctx context.Context, token string) (domain.User, error)
	Logout(ctx context.Context, token string) error
}

// ExportServicer defines the export operation for GET /dashboard/export/.
type ExportServicer interface {
	Export(ctx context.Context, f domain.CaseFilter) ([]domain.ExportRow, error)
}

// Pages renders a named HTML page. Satisfied by *web.Renderer.
type Pages interface {
	Render(w io.Writer, name string, data any) error
}

// Deps carries everything the Server needs. Cases, Tags, Auth, Export and
// Pages are required; the rest have usable zero values.
type Deps struct {
	Cases  CaseServicer
	Tags   TagServicer
	Auth   AuthServicer
	Export ExportServicer
	Pages  Pages

	// Logger receives one line per request. Defaults to slog.Default().
	Logger *slog.Logger
	// Metrics, when set, instruments every route and serves GET /metrics.
	Metrics *middleware.Metrics
	// Ping backs GET /healthz. Nil means the check always passes.
	Ping func(ctx context.Context) error

	CORSOrigins   []string
	SecureCookies bool
	// MaxBodyBytes caps request bodies. Zero means 1 MiB.
	MaxBodyBytes int64
}

// Server holds the dependencies of every handler.
type Server struct {
	cases  CaseServicer
	tags   TagServicer
	auth   AuthServicer
	export ExportServicer
	pages  Pages

	logger        *slog.Logger
	metrics       *middleware.Metrics
	ping          func(ctx context.Context) error
	corsOrigins   []string
	secureCookies bool
	maxBodyBytes  int64

	router chi.Router
}

// NewServer constructs the Server with all its dependencies.
func NewServer(d Deps) *Server {
	s := &Server{
		cases:         d.Cases,
		tags:          d.Tags,
		auth:          d.Auth,
		export:        d.Export,
		pages:         d.Pages,
		logger:        d.Logger,
		metrics:       d.Metrics,
		ping:          d.Ping,
		corsOrigins:   d.CORSOrigins,
		secureCookies: d.SecureCookies,
		maxBodyBytes:  d.MaxBodyBytes,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.maxBodyBytes <= 0 {
		s.maxBodyBytes = 1 << 20
	}
	s.router = s.routes()
	return s
}

// ServeHTTP makes Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// routes builds the chi router.
// Middleware is applied in order: RequestID → RealIP → Logger → Metrics →
// Recoverer → MaxBodySize. RequestID generates a unique trace ID per request.
// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
// Recoverer catches panics and returns HTTP 500 instead of crashing.
func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(s.logger))
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
	}
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewMaxBodySizeHandler(s.maxBodyBytes))

	r.NotFound(s.notFound)
	r.MethodNotAllowed(s.methodNotAllowed)

	r.Get("/healthz", s.health)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NewCORSHandler(s.corsOrigins))
		r.Get("/cases", s.apiListCases)
		r.Get("/cases/{slug}", s.apiGetCase)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.LoadUser)

		r.Get("/", s.index)
		r.Get("/about/", s.about)
		r.Get("/cases/", s.publicCaseList)
		r.Get("/cases/{slug}/", s.publicCaseDetail)

		r.Get("/accounts/login/", s.loginForm)
		r.Post("/accounts/login/", s.login)
		for _, path := range []string{"/logout/", "/accounts/logout/"} {
			r.Get(path, s.logout)
			r.Post(path, s.logout)
		}

		r.Route("/dashboard", func(r chi.Router) {
			r.Use(s.RequireUser)

			r.Get("/", s.dashboard)
			r.Get("/export/", s.exportCases)

			r.Get("/cases/new/", s.caseNewForm)
			r.Post("/cases/new/", s.caseCreate)
			r.Get("/cases/{slug}/", s.caseDetail)
			r.Get("/cases/{slug}/edit/", s.caseEditForm)
			r.Post("/cases/{slug}/edit/", s.caseUpdate)
			r.Get("/cases/{slug}/delete/", s.caseDeleteConfirm)
			r.Post("/cases/{slug}/delete/", s.caseDelete)

			r.Get("/tags/", s.tagList)
			r.Get("/tags/new/", s.tagNewForm)
			r.Post("/tags/new/", s.tagCreate)
			r.Get("/tags/{slug}/edit/", s.tagEditForm)
			r.Post("/tags/{slug}/edit/", s.tagRename)
			r.Get("/tags/{slug}/delete/", s.tagDeleteConfirm)
			r.Post("/tags/{slug}/delete/", s.tagDelete)
		})
	})

	return r
}
