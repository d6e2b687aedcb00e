package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/legal-digest/internal/domain"
	"github.com/pkordes/legal-digest/internal/repo"
)

// Hand-written test doubles for the repo interfaces.
// Each method is a function field; set only the ones your test needs.

// ---- CaseRepo --------------------------------------------------------------

type mockCaseRepo struct {
	create        func(ctx context.Context, c domain.Case, tagIDs []uuid.UUID) (domain.Case, error)
	getBySlug     func(ctx context.Context, slug string) (domain.Case, error)
	update        func(ctx context.Context, c domain.Case, tagIDs []uuid.UUID) (domain.Case, error)
	delete        func(ctx context.Context, id uuid.UUID) error
	slugExists    func(ctx context.Context, slug string) (bool, error)
	find          func(ctx context.Context, f domain.CaseFilter, p domain.PaginationParams) ([]domain.Case, int64, error)
	countByStatus func(ctx context.Context, f domain.CaseFilter) (domain.CaseStats, error)
	listCourts    func(ctx context.Context, publishedOnly bool) ([]string, error)
	related       func(ctx context.Context, id uuid.UUID, limit int) ([]domain.Case, error)
}

func (m *mockCaseRepo) Create(ctx context.Context, c domain.Case, tagIDs []uuid.UUID) (domain.Case, error) {
	return m.create(ctx, c, tagIDs)
}
func (m *mockCaseRepo) GetBySlug(ctx context.Context, slug string) (domain.Case, error) {
	return m.getBySlug(ctx, slug)
}
func (m *mockCaseRepo) Update(ctx context.Context, c domain.Case, tagIDs []uuid.UUID) (domain.Case, error) {
	return m.update(ctx, c, tagIDs)
}
func (m *mockCaseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockCaseRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	return m.slugExists(ctx, slug)
}
func (m *mockCaseRepo) Find(ctx context.Context, f domain.CaseFilter, p domain.PaginationParams) ([]domain.Case, int64, error) {
	return m.find(ctx, f, p)
}
func (m *mockCaseRepo) CountByStatus(ctx context.Context, f domain.CaseFilter) (domain.CaseStats, error) {
	return m.countByStatus(ctx, f)
}
func (m *mockCaseRepo) ListCourts(ctx context.Context, publishedOnly bool) ([]string, error) {
	return m.listCourts(ctx, publishedOnly)
}
func (m *mockCaseRepo) Related(ctx context.Context, id uuid.UUID, limit int) ([]domain.Case, error) {
	return m.related(ctx, id, limit)
}

// compile-time check: mockCaseRepo must satisfy repo.CaseRepo.
var _ repo.CaseRepo = (*mockCaseRepo)(nil)

// ---- TagRepo ---------------------------------------------------------------

type mockTagRepo struct {
	create     func(ctx context.Context, name, slug string) (domain.Tag, error)
	getBySlug  func(ctx context.Context, slug string) (domain.Tag, error)
	rename     func(ctx context.Context, id uuid.UUID, name, slug string) (domain.Tag, error)
	delete     func(ctx context.Context, id uuid.UUID) error
	list       func(ctx context.Context) ([]domain.Tag, error)
	listStats  func(ctx context.Context) ([]domain.TagStat, error)
	count      func(ctx context.Context) (int64, error)
	countCases func(ctx context.Context, id uuid.UUID) (int64, error)
	nameTaken  func(ctx context.Context, name string, exclude *uuid.UUID) (bool, error)
	slugTaken  func(ctx context.Context, slug string, exclude *uuid.UUID) (bool, error)
}

func (m *mockTagRepo) Create(ctx context.Context, name, slug string) (domain.Tag, error) {
	return m.create(ctx, name, slug)
}
func (m *mockTagRepo) GetBySlug(ctx context.Context, slug string) (domain.Tag, error) {
	return m.getBySlug(ctx, slug)
}
func (m *mockTagRepo) Rename(ctx context.Context, id uuid.UUID, name, slug string) (domain.Tag, error) {
	return m.rename(ctx, id, name, slug)
}
func (m *mockTagRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockTagRepo) List(ctx context.Context) ([]domain.Tag, error) {
	return m.list(ctx)
}
func (m *mockTagRepo) ListStats(ctx context.Context) ([]domain.TagStat, error) {
	return m.listStats(ctx)
}
func (m *mockTagRepo) Count(ctx context.Context) (int64, error) {
	return m.count(ctx)
}
func (m *mockTagRepo) CountCases(ctx context.Context, id uuid.UUID) (int64, error) {
	return m.countCases(ctx, id)
}
func (m *mockTagRepo) NameTaken(ctx context.Context, name string, exclude *uuid.UUID) (bool, error) {
	return m.nameTaken(ctx, name, exclude)
}
func (m *mockTagRepo) SlugTaken(ctx context.Context, slug string, exclude *uuid.UUID) (bool, error) {
	return m.slugTaken(ctx, slug, exclude)
}

// compile-time check: mockTagRepo must satisfy repo.TagRepo.
var _ repo.TagRepo = (*mockTagRepo)(nil)

// ---- UserRepo / SessionRepo ------------------------------------------------

type mockUserRepo struct {
	create          func(ctx context.Context, u domain.User) (domain.User, error)
	getByUsername   func(ctx context.Context, username string) (domain.User, error)
	getByID         func(ctx context.Context, id uuid.UUID) (domain.User, error)
	countSuperusers func(ctx context.Context) (int64, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	return m.create(ctx, u)
}
func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	return m.getByUsername(ctx, username)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserRepo) CountSuperusers(ctx context.Context) (int64, error) {
	return m.countSuperusers(ctx)
}

var _ repo.UserRepo = (*mockUserRepo)(nil)

type mockSessionRepo struct {
	create        func(ctx context.Context, s domain.Session) error
	get           func(ctx context.Context, token string) (domain.Session, error)
	delete        func(ctx context.Context, token string) error
	deleteExpired func(ctx context.Context, now time.Time) (int64, error)
}

func (m *mockSessionRepo) Create(ctx context.Context, s domain.Session) error {
	return m.create(ctx, s)
}
func (m *mockSessionRepo) Get(ctx context.Context, token string) (domain.Session, error) {
	return m.get(ctx, token)
}
func (m *mockSessionRepo) Delete(ctx context.Context, token string) error {
	return m.delete(ctx, token)
}
func (m *mockSessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return m.deleteExpired(ctx, now)
}

var _ repo.SessionRepo = (*mockSessionRepo)(nil)
