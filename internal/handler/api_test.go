package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/legal-digest/internal/domain"
)

type apiCase struct {
	Slug         string  `json:"slug"`
	Title        string  `json:"title"`
	DecisionDate *string `json:"decision_date"`
	Status       string  `json:"status"`
	Tags         []struct {
		Slug string `json:"slug"`
	} `json:"tags"`
}

func TestAPIListCases_ReturnsPublishedPage(t *testing.T) {
	f := newFixture()
	c := caseFixture("Doe v. Acme Corp", "doe-v-acme-corp")
	c.Tags = []domain.Tag{tagFixture("Surveillance", "surveillance")}
	var gotLimit int
	f.cases.listPublished = func(_ context.Context, filter domain.CaseFilter, page, limit int) (domain.Page[domain.Case], error) {
		assert.Equal(t, "bias", filter.Search)
		gotLimit = limit
		return domain.Page[domain.Case]{Items: []domain.Case{c}, Page: page, Limit: limit, Total: 1, TotalPages: 1}, nil
	}

	rec := httptest.NewRecorder()
	f.handler(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cases?search=bias&limit=5", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.Equal(t, 5, gotLimit)

	var body struct {
		Data       []apiCase `json:"data"`
		Pagination struct {
			Page  int   `json:"page"`
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "doe-v-acme-corp", body.Data[0].Slug)
	require.NotNil(t, body.Data[0].DecisionDate)
	assert.Equal(t, "2024-03-01", *body.Data[0].DecisionDate)
	require.Len(t, body.Data[0].Tags, 1)
	assert.Equal(t, "surveillance", body.Data[0].Tags[0].Slug)
	assert.Equal(t, 1, body.Pagination.Page)
	assert.Equal(t, int64(1), body.Pagination.Total)
}

func TestAPIListCases_DefaultLimit(t *testing.T) {
	f := newFixture()
	var gotLimit int
	f.cases.listPublished = func(_ context.Context, _ domain.CaseFilter, page, limit int) (domain.Page[domain.Case], error) {
		gotLimit = limit
		return domain.Page[domain.Case]{Page: page, Limit: limit, TotalPages: 1}, nil
	}

	rec := httptest.NewRecorder()
	f.handler(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cases", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.PublicPageSize, gotLimit)
	assert.Contains(t, rec.Body.String(), `"data":[]`)
}

func TestAPIGetCase_UnknownDecisionDateIsNull(t *testing.T) {
	f := newFixture()
	c := caseFixture("Doe v. Acme Corp", "doe-v-acme-corp")
	c.DecisionDate = nil
	f.cases.getPublished = func(_ context.Context, _ string) (domain.Case, error) { return c, nil }

	rec := httptest.NewRecorder()
	f.handler(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cases/doe-v-acme-corp", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"decision_date":null`)
	assert.Contains(t, rec.Body.String(), `"tags":[]`)
}

func TestAPIGetCase_NotFound_JSONError(t *testing.T) {
	f := newFixture()
	f.cases.getPublished = func(_ context.Context, _ string) (domain.Case, error) {
		return domain.Case{}, fmt.Errorf("service.CaseService.GetPublished: %w", domain.ErrNotFound)
	}

	rec := httptest.NewRecorder()
	f.handler(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cases/draft", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "not_found", body.Error.Code)
	assert.Equal(t, "case not found", body.Error.Message)
}

func TestAPI_InternalError_HidesDetails(t *testing.T) {
	f := newFixture()
	f.cases.getPublished = func(_ context.Context, _ string) (domain.Case, error) {
		return domain.Case{}, fmt.Errorf("pq: password authentication failed")
	}

	rec := httptest.NewRecorder()
	f.handler(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cases/x", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestAPI_CORSAllowedOrigin(t *testing.T) {
	f := newFixture()
	f.deps.CORSOrigins = []string{"https://digest.example.org"}
	f.cases.getPublished = func(_ context.Context, _ string) (domain.Case, error) {
		return caseFixture("Doe v. Acme Corp", "doe-v-acme-corp"), nil
	}

	req := httptest.NewRequest(http.MethodGet, "/api/cases/doe-v-acme-corp", nil)
	req.Header.Set("Origin", "https://digest.example.org")
	rec := httptest.NewRecorder()
	f.handler(t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://digest.example.org", rec.Header().Get("Access-Control-Allow-Origin"))
}
