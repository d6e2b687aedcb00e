package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/legal-digest/internal/domain"
	"github.com/pkordes/legal-digest/internal/service"
)

// ---- helpers ---------------------------------------------------------------

func validInput() domain.CaseInput {
	decided := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return domain.CaseInput{
		Title:        "Doe v. Acme Corp",
		Citation:     "123 F.3d 456",
		Court:        "Court of Appeal",
		DecisionDate: &decided,
		Status:       domain.StatusOpen,
	}
}

// noTags is a TagRepo whose List returns only the given tags.
func noTags(tags ...domain.Tag) *mockTagRepo {
	return &mockTagRepo{
		list: func(_ context.Context) ([]domain.Tag, error) { return tags, nil },
	}
}

func echoCreate(captured *domain.Case, capturedTags *[]uuid.UUID) func(context.Context, domain.Case, []uuid.UUID) (domain.Case, error) {
	return func(_ context.Context, c domain.Case, tagIDs []uuid.UUID) (domain.Case, error) {
		*captured = c
		if capturedTags != nil {
			*capturedTags = tagIDs
		}
		c.ID = uuid.New()
		return c, nil
	}
}

func fieldErrors(t *testing.T, err error) domain.FieldErrors {
	t.Helper()
	fe, ok := domain.FieldErrorsOf(err)
	require.True(t, ok, "expected a validation error, got %v", err)
	return fe
}

// ---- Create ----------------------------------------------------------------

func TestCaseService_Create_DerivesSlugFromTitle(t *testing.T) {
	var saved domain.Case
	svc := service.NewCaseService(&mockCaseRepo{
		slugExists: func(_ context.Context, slug string) (bool, error) {
			assert.Equal(t, "doe-v-acme-corp", slug)
			return false, nil
		},
		create: echoCreate(&saved, nil),
	}, noTags())

	got, err := svc.Create(context.Background(), validInput())

	require.NoError(t, err)
	assert.Equal(t, "doe-v-acme-corp", saved.Slug)
	assert.Equal(t, "doe-v-acme-corp", got.Slug)
	assert.Equal(t, domain.StatusOpen, saved.Status)
}

func TestCaseService_Create_KeepsExplicitSlug(t *testing.T) {
	var saved domain.Case
	svc := service.NewCaseService(&mockCaseRepo{
		slugExists: func(_ context.Context, _ string) (bool, error) { return false, nil },
		create:     echoCreate(&saved, nil),
	}, noTags())

	in := validInput()
	in.Slug = "doe-2024"
	_, err := svc.Create(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, "doe-2024", saved.Slug)
}

func TestCaseService_Create_DefaultsToDraft(t *testing.T) {
	var saved domain.Case
	svc := service.NewCaseService(&mockCaseRepo{
		slugExists: func(_ context.Context, _ string) (bool, error) { return false, nil },
		create:     echoCreate(&saved, nil),
	}, noTags())

	in := validInput()
	in.Status = ""
	_, err := svc.Create(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, saved.Status)
}

func TestCaseService_Create_TrimsFields(t *testing.T) {
	var saved domain.Case
	svc := service.NewCaseService(&mockCaseRepo{
		slugExists: func(_ context.Context, _ string) (bool, error) { return false, nil },
		create:     echoCreate(&saved, nil),
	}, noTags())

	in := validInput()
	in.Title = "  Doe v. Acme Corp  "
	in.Court = " Supreme Court\t"
	_, err := svc.Create(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, "Doe v. Acme Corp", saved.Title)
	assert.Equal(t, "Supreme Court", saved.Court)
}

func TestCaseService_Create_MissingTitle(t *testing.T) {
	svc := service.NewCaseService(&mockCaseRepo{
		create: func(_ context.Context, _ domain.Case, _ []uuid.UUID) (domain.Case, error) {
			t.Fatal("repo.Create must not be called when validation fails")
			return domain.Case{}, nil
		},
	}, noTags())

	in := validInput()
	in.Title = "   "
	_, err := svc.Create(context.Background(), in)

	assert.ErrorIs(t, err, domain.ErrValidation)
	fe := fieldErrors(t, err)
	assert.Contains(t, fe, "title")
	assert.NotContains(t, fe, "slug", "no second error for the derived slug")
}

func TestCaseService_Create_InvalidStatus(t *testing.T) {
	svc := service.NewCaseService(&mockCaseRepo{
		slugExists: func(_ context.Context, _ string) (bool, error) { return false, nil },
	}, noTags())

	in := validInput()
	in.Status = "pending"
	_, err := svc.Create(context.Background(), in)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, fieldErrors(t, err), "status")
}

func TestCaseService_Create_FieldTooLong(t *testing.T) {
	svc := service.NewCaseService(&mockCaseRepo{
		slugExists: func(_ context.Context, _ string) (bool, error) { return false, nil },
	}, noTags())

	in := validInput()
	in.DocketNumber = strings.Repeat("9", domain.CaseDocketMaxLen+1)
	_, err := svc.Create(context.Background(), in)

	fe := fieldErrors(t, err)
	assert.Contains(t, fe["docket_number"], "at most 100 characters")
}

func TestCaseService_Create_SlugTaken(t *testing.T) {
	svc := service.NewCaseService(&mockCaseRepo{
		slugExists: func(_ context.Context, _ string) (bool, error) { return true, nil },
		create: func(_ context.Context, _ domain.Case, _ []uuid.UUID) (domain.Case, error) {
			t.Fatal("repo.Create must not be called for a taken slug")
			return domain.Case{}, nil
		},
	}, noTags())

	_, err := svc.Create(context.Background(), validInput())

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, fieldErrors(t, err), "slug")
}

func TestCaseService_Create_InvalidExplicitSlug(t *testing.T) {
	svc := service.NewCaseService(&mockCaseRepo{}, noTags())

	in := validInput()
	in.Slug = "Not A Slug"
	_, err := svc.Create(context.Background(), in)

	assert.Contains(t, fieldErrors(t, err), "slug")
}

func TestCaseService_Create_ReservedSlug(t *testing.T) {
	svc := service.NewCaseService(&mockCaseRepo{}, noTags())

	in := validInput()
	in.Title = "New"
	_, err := svc.Create(context.Background(), in)

	assert.Equal(t, "This slug is reserved; choose another.", fieldErrors(t, err)["slug"])
}

func TestCaseService_Create_UnderivableSlug(t *testing.T) {
	svc := service.NewCaseService(&mockCaseRepo{}, noTags())

	in := validInput()
	in.Title = "!!!"
	_, err := svc.Create(context.Background(), in)

	assert.Contains(t, fieldErrors(t, err), "slug")
}

func TestCaseService_Create_DedupesAndChecksTags(t *testing.T) {
	known := domain.Tag{ID: uuid.New(), Name: "Known", Slug: "known"}
	var linked []uuid.UUID
	var saved domain.Case
	svc := service.NewCaseService(&mockCaseRepo{
		slugExists: func(_ context.Context, _ string) (bool, error) { return false, nil },
		create:     echoCreate(&saved, &linked),
	}, noTags(known))

	in := validInput()
	in.TagIDs = []uuid.UUID{known.ID, known.ID}
	_, err := svc.Create(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{known.ID}, linked)

	in.TagIDs = []uuid.UUID{uuid.New()}
	_, err = svc.Create(context.Background(), in)
	assert.Contains(t, fieldErrors(t, err), "tags")
}

func TestCaseService_Create_RepoConflictPropagates(t *testing.T) {
	svc := service.NewCaseService(&mockCaseRepo{
		slugExists: func(_ context.Context, _ string) (bool, error) { return false, nil },
		create: func(_ context.Context, _ domain.Case, _ []uuid.UUID) (domain.Case, error) {
			return domain.Case{}, domain.ErrConflict
		},
	}, noTags())

	_, err := svc.Create(context.Background(), validInput())

	assert.ErrorIs(t, err, domain.ErrConflict)
}

// ---- Update ----------------------------------------------------------------

func TestCaseService_Update_KeepsSlug(t *testing.T) {
	existing := domain.Case{ID: uuid.New(), Slug: "doe-v-acme-corp", Title: "Doe v. Acme Corp"}
	var saved domain.Case
	svc := service.NewCaseService(&mockCaseRepo{
		getBySlug: func(_ context.Context, slug string) (domain.Case, error) {
			assert.Equal(t, existing.Slug, slug)
			return existing, nil
		},
		update: func(_ context.Context, c domain.Case, _ []uuid.UUID) (domain.Case, error) {
			saved = c
			return c, nil
		},
	}, noTags())

	in := validInput()
	in.Title = "Doe v. Acme Corporation"
	in.Slug = "something-else"
	got, err := svc.Update(context.Background(), existing.Slug, in)

	require.NoError(t, err)
	assert.Equal(t, existing.ID, saved.ID)
	assert.Equal(t, "doe-v-acme-corp", saved.Slug)
	assert.Equal(t, "Doe v. Acme Corporation", got.Title)
}

func TestCaseService_Update_NotFound(t *testing.T) {
	svc := service.NewCaseService(&mockCaseRepo{
		getBySlug: func(_ context.Context, _ string) (domain.Case, error) {
			return domain.Case{}, domain.ErrNotFound
		},
	}, noTags())

	_, err := svc.Update(context.Background(), "missing", validInput())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCaseService_Update_ValidationError(t *testing.T) {
	svc := service.NewCaseService(&mockCaseRepo{
		getBySlug: func(_ context.Context, _ string) (domain.Case, error) {
			return domain.Case{ID: uuid.New(), Slug: "x"}, nil
		},
		update: func(_ context.Context, _ domain.Case, _ []uuid.UUID) (domain.Case, error) {
			t.Fatal("repo.Update must not be called when validation fails")
			return domain.Case{}, nil
		},
	}, noTags())

	in := validInput()
	in.Title = ""
	_, err := svc.Update(context.Background(), "x", in)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- Delete ----------------------------------------------------------------

func TestCaseService_Delete(t *testing.T) {
	existing := domain.Case{ID: uuid.New(), Slug: "gone", Title: "Gone"}
	var deleted uuid.UUID
	svc := service.NewCaseService(&mockCaseRepo{
		getBySlug: func(_ context.Context, _ string) (domain.Case, error) { return existing, nil },
		delete: func(_ context.Context, id uuid.UUID) error {
			deleted = id
			return nil
		},
	}, noTags())

	got, err := svc.Delete(context.Background(), "gone")

	require.NoError(t, err)
	assert.Equal(t, existing.ID, deleted)
	assert.Equal(t, "Gone", got.Title)
}

func TestCaseService_Delete_NotFound(t *testing.T) {
	svc := service.NewCaseService(&mockCaseRepo{
		getBySlug: func(_ context.Context, _ string) (domain.Case, error) {
			return domain.Case{}, domain.ErrNotFound
		},
	}, noTags())

	_, err := svc.Delete(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- public views ----------------------------------------------------------

func TestCaseService_ListPublished_ForcesPublishedOnly(t *testing.T) {
	var captured domain.CaseFilter
	svc := service.NewCaseService(&mockCaseRepo{
		find: func(_ context.Context, f domain.CaseFilter, _ domain.PaginationParams) ([]domain.Case, int64, error) {
			captured = f
			return []domain.Case{}, 0, nil
		},
	}, noTags())

	f := domain.CaseFilter{Search: "acme", Status: domain.StatusDraft, SearchTags: true}
	got, err := svc.ListPublished(context.Background(), f, 1, domain.PublicPageSize)

	require.NoError(t, err)
	assert.True(t, captured.PublishedOnly)
	assert.False(t, captured.SearchTags)
	assert.Empty(t, captured.Status)
	assert.Equal(t, "acme", captured.Search)
	assert.Equal(t, 1, got.TotalPages)
}

func TestCaseService_ListPublished_ClampsPageToLast(t *testing.T) {
	var pages []int
	svc := service.NewCaseService(&mockCaseRepo{
		find: func(_ context.Context, _ domain.CaseFilter, p domain.PaginationParams) ([]domain.Case, int64, error) {
			pages = append(pages, p.Page)
			if p.Page > 3 {
				return []domain.Case{}, 30, nil
			}
			return []domain.Case{{Slug: "x"}}, 30, nil
		},
	}, noTags())

	got, err := svc.ListPublished(context.Background(), domain.CaseFilter{}, 99, domain.PublicPageSize)

	require.NoError(t, err)
	assert.Equal(t, []int{99, 3}, pages)
	assert.Equal(t, 3, got.Page)
	assert.Equal(t, 3, got.TotalPages)
	assert.False(t, got.HasNext())
	assert.True(t, got.HasPrev())
}

func TestCaseService_GetPublished_HidesDrafts(t *testing.T) {
	svc := service.NewCaseService(&mockCaseRepo{
		getBySlug: func(_ context.Context, _ string) (domain.Case, error) {
			return domain.Case{Slug: "secret", Status: domain.StatusDraft}, nil
		},
	}, noTags())

	_, err := svc.GetPublished(context.Background(), "secret")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCaseService_GetPublished_OK(t *testing.T) {
	svc := service.NewCaseService(&mockCaseRepo{
		getBySlug: func(_ context.Context, _ string) (domain.Case, error) {
			return domain.Case{Slug: "public", Status: domain.StatusArchived}, nil
		},
	}, noTags())

	got, err := svc.GetPublished(context.Background(), "public")

	require.NoError(t, err)
	assert.Equal(t, "public", got.Slug)
}

func TestCaseService_Landing(t *testing.T) {
	svc := service.NewCaseService(&mockCaseRepo{
		find: func(_ context.Context, f domain.CaseFilter, p domain.PaginationParams) ([]domain.Case, int64, error) {
			assert.True(t, f.PublishedOnly)
			assert.Equal(t, domain.OrderCreated, f.Order)
			assert.Equal(t, 3, p.Limit)
			return []domain.Case{{Slug: "a"}, {Slug: "b"}, {Slug: "c"}}, 42, nil
		},
	}, noTags())

	got, err := svc.Landing(context.Background())

	require.NoError(t, err)
	assert.EqualValues(t, 42, got.PublishedCount)
	assert.Len(t, got.Recent, 3)
}

func TestCaseService_Related_SkipsUntaggedCases(t *testing.T) {
	svc := service.NewCaseService(&mockCaseRepo{
		related: func(_ context.Context, _ uuid.UUID, _ int) ([]domain.Case, error) {
			t.Fatal("no query needed for a case without tags")
			return nil, nil
		},
	}, noTags())

	got, err := svc.Related(context.Background(), domain.Case{ID: uuid.New()})

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCaseService_Related_LimitsToThree(t *testing.T) {
	svc := service.NewCaseService(&mockCaseRepo{
		related: func(_ context.Context, _ uuid.UUID, limit int) ([]domain.Case, error) {
			assert.Equal(t, 3, limit)
			return []domain.Case{{Slug: "r"}}, nil
		},
	}, noTags())

	got, err := svc.Related(context.Background(), domain.Case{ID: uuid.New(), Tags: []domain.Tag{{Slug: "t"}}})

	require.NoError(t, err)
	assert.Len(t, got, 1)
}

// ---- Dashboard -------------------------------------------------------------

func TestCaseService_Dashboard(t *testing.T) {
	var orders []domain.CaseOrder
	svc := service.NewCaseService(&mockCaseRepo{
		countByStatus: func(_ context.Context, f domain.CaseFilter) (domain.CaseStats, error) {
			assert.Equal(t, domain.StatusClosed, f.Status)
			assert.True(t, f.SearchTags, "dashboard search covers tag names")
			return domain.CaseStats{Closed: 2}, nil
		},
		find: func(_ context.Context, f domain.CaseFilter, p domain.PaginationParams) ([]domain.Case, int64, error) {
			orders = append(orders, f.Order)
			assert.False(t, f.PublishedOnly)
			assert.Equal(t, 6, p.Limit)
			return []domain.Case{{Slug: "a"}, {Slug: "b"}}, 2, nil
		},
		listCourts: func(_ context.Context, publishedOnly bool) ([]string, error) {
			assert.False(t, publishedOnly)
			return []string{"Supreme Court"}, nil
		},
	}, &mockTagRepo{
		count: func(_ context.Context) (int64, error) { return 20, nil },
	})

	got, err := svc.Dashboard(context.Background(), domain.CaseFilter{Status: domain.StatusClosed, PublishedOnly: true})

	require.NoError(t, err)
	assert.EqualValues(t, 2, got.Stats.Closed)
	assert.EqualValues(t, 20, got.Stats.Tags)
	assert.EqualValues(t, 2, got.Total)
	assert.Equal(t, []domain.CaseOrder{domain.OrderDecisionDate, domain.OrderUpdated}, orders)
	assert.Equal(t, []string{"Supreme Court"}, got.Courts)
}

func TestCaseService_Dashboard_RepoError(t *testing.T) {
	boom := errors.New("db down")
	svc := service.NewCaseService(&mockCaseRepo{
		countByStatus: func(_ context.Context, _ domain.CaseFilter) (domain.CaseStats, error) {
			return domain.CaseStats{}, boom
		},
	}, noTags())

	_, err := svc.Dashboard(context.Background(), domain.CaseFilter{})

	assert.ErrorIs(t, err, boom)
}
