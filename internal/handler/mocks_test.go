package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/legal-digest/internal/domain"
	"github.com/pkordes/legal-digest/internal/handler"
	"github.com/pkordes/legal-digest/internal/service"
	"github.com/pkordes/legal-digest/internal/web"
)

// ---- mock CaseServicer -----------------------------------------------------

// mockCaseServicer is a test double for handler.CaseServicer.
// Set only the method fields your test needs.
type mockCaseServicer struct {
	landing        func(ctx context.Context) (service.Landing, error)
	publishedCount func(ctx context.Context) (int64, error)
	listPublished  func(ctx context.Context, f domain.CaseFilter, page, limit int) (domain.Page[domain.Case], error)
	getPublished   func(ctx context.Context, slug string) (domain.Case, error)
	related        func(ctx context.Context, c domain.Case) ([]domain.Case, error)
	courts         func(ctx context.Context, publishedOnly bool) ([]string, error)
	dashboard      func(ctx context.Context, f domain.CaseFilter) (service.Dashboard, error)
	get            func(ctx context.Context, slug string) (domain.Case, error)
	create         func(ctx context.Context, in domain.CaseInput) (domain.Case, error)
	update         func(ctx context.Context, slug string, in domain.CaseInput) (domain.Case, error)
	delete         func(ctx context.Context, slug string) (domain.Case, error)
}

func (m *mockCaseServicer) Landing(ctx context.Context) (service.Landing, error) {
	return m.landing(ctx)
}
func (m *mockCaseServicer) PublishedCount(ctx context.Context) (int64, error) {
	return m.publishedCount(ctx)
}
func (m *mockCaseServicer) ListPublished(ctx context.Context, f domain.CaseFilter, page, limit int) (domain.Page[domain.Case], error) {
	return m.listPublished(ctx, f, page, limit)
}
func (m *mockCaseServicer) GetPublished(ctx context.Context, slug string) (domain.Case, error) {
	return m.getPublished(ctx, slug)
}
func (m *mockCaseServicer) Related(ctx context.Context, c domain.Case) ([]domain.Case, error) {
	return m.related(ctx, c)
}
func (m *mockCaseServicer) Courts(ctx context.Context, publishedOnly bool) ([]string, error) {
	return m.courts(ctx, publishedOnly)
}
func (m *mockCaseServicer) Dashboard(ctx context.Context, f domain.CaseFilter) (service.Dashboard, error) {
	return m.dashboard(ctx, f)
}
func (m *mockCaseServicer) Get(ctx context.Context, slug string) (domain.Case, error) {
	return m.get(ctx, slug)
}
func (m *mockCaseServicer) Create(ctx context.Context, in domain.CaseInput) (domain.Case, error) {
	return m.create(ctx, in)
}
func (m *mockCaseServicer) Update(ctx context.Context, slug string, in domain.CaseInput) (domain.Case, error) {
	return m.update(ctx, slug, in)
}
func (m *mockCaseServicer) Delete(ctx context.Context, slug string) (domain.Case, error) {
	return m.delete(ctx, slug)
}

// compile-time check: mockCaseServicer must satisfy handler.CaseServicer.
var _ handler.CaseServicer = (*mockCaseServicer)(nil)

// ---- mock TagServicer ------------------------------------------------------

type mockTagServicer struct {
	create        func(ctx context.Context, name string) (domain.Tag, error)
	rename        func(ctx context.Context, slug, name string) (domain.Tag, error)
	getBySlug     func(ctx context.Context, slug string) (domain.Tag, error)
	deletePreview func(ctx context.Context, slug string) (domain.Tag, int64, error)
	delete        func(ctx context.Context, slug string) (domain.Tag, error)
	list          func(ctx context.Context) ([]domain.Tag, error)
	listStats     func(ctx context.Context) ([]domain.TagStat, error)
}

func (m *mockTagServicer) Create(ctx context.Context, name string) (domain.Tag, error) {
	return m.create(ctx, name)
}
func (m *mockTagServicer) Rename(ctx context.Context, slug, name string) (domain.Tag, error) {
	return m.rename(ctx, slug, name)
}
func (m *mockTagServicer) GetBySlug(ctx context.Context, slug string) (domain.Tag, error) {
	return m.getBySlug(ctx, slug)
}
func (m *mockTagServicer) DeletePreview(ctx context.Context, slug string) (domain.Tag, int64, error) {
	return m.deletePreview(ctx, slug)
}
func (m *mockTagServicer) Delete(ctx context.Context, slug string) (domain.Tag, error) {
	return m.delete(ctx, slug)
}
func (m *mockTagServicer) List(ctx context.Context) ([]domain.Tag, error) {
	return m.list(ctx)
}
func (m *mockTagServicer) ListStats(ctx context.Context) ([]domain.TagStat, error) {
	return m.listStats(ctx)
}

var _ handler.TagServicer = (*mockTagServicer)(nil)

// ---- mock AuthServicer -----------------------------------------------------

type mockAuthServicer struct {
	login        func(ctx context.Context, username, password string) (domain.Session, error)
	authenticate func(ctx context.Context, token string) (domain.User, error)
	logout       func(ctx context.Context, token string) error
}

func (m *mockAuthServicer) Login(ctx context.Context, username, password string) (domain.Session, error) {
	return m.login(ctx, username, password)
}
func (m *mockAuthServicer) Authenticate(ctx context.Context, token string) (domain.User, error) {
	return m.authenticate(ctx, token)
}
func (m *mockAuthServicer) Logout(ctx context.Context, token string) error {
	return m.logout(ctx, token)
}

var _ handler.AuthServicer = (*mockAuthServicer)(nil)

// ---- mock ExportServicer ---------------------------------------------------

type mockExportServicer struct {
	export func(ctx context.Context, f domain.CaseFilter) ([]domain.ExportRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context, f domain.CaseFilter) ([]domain.ExportRow, error) {
	return m.export(ctx, f)
}

var _ handler.ExportServicer = (*mockExportServicer)(nil)

// ---- fixture ---------------------------------------------------------------

const validToken = "valid-session-token"

var editor = domain.User{ID: uuid.New(), Username: "editor", IsSuperuser: true}

// fixture bundles the mocks behind one Server. The auth mock accepts
// validToken; the tag mock lists no tags. Everything else is left unset.
type fixture struct {
	cases  *mockCaseServicer
	tags   *mockTagServicer
	auth   *mockAuthServicer
	export *mockExportServicer
	deps   handler.Deps
}

func newFixture() *fixture {
	f := &fixture{
		cases: &mockCaseServicer{},
		tags: &mockTagServicer{
			list: func(_ context.Context) ([]domain.Tag, error) { return nil, nil },
		},
		auth: &mockAuthServicer{
			authenticate: func(_ context.Context, token string) (domain.User, error) {
				if token == validToken {
					return editor, nil
				}
				return domain.User{}, domain.ErrUnauthorized
			},
		},
		export: &mockExportServicer{},
	}
	return f
}

// handler wires the Server with the real page templates.
func (f *fixture) handler(t *testing.T) http.Handler {
	t.Helper()
	pages, err := web.NewRenderer()
	require.NoError(t, err)

	d := f.deps
	d.Cases = f.cases
	d.Tags = f.tags
	d.Auth = f.auth
	d.Export = f.export
	d.Pages = pages
	return handler.NewServer(d)
}

// loggedIn attaches the session cookie accepted by the fixture's auth mock.
func loggedIn(r *http.Request) *http.Request {
	r.AddCookie(&http.Cookie{Name: "ld_session", Value: validToken})
	return r
}

// caseFixture returns a published case for rendering.
func caseFixture(title, slug string) domain.Case {
	decided := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return domain.Case{
		ID:           uuid.New(),
		Title:        title,
		Slug:         slug,
		Court:        "Court of Appeal",
		DecisionDate: &decided,
		Status:       domain.StatusOpen,
		SummaryShort: "Facial recognition in public spaces.",
		CreatedAt:    decided,
		UpdatedAt:    decided,
	}
}

// cookieNamed returns the Set-Cookie of the response with the given name, or nil.
func cookieNamed(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
