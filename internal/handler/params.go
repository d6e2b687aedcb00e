package handler

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/legal-digest/internal/domain"
)

const (
	msgInvalidDate   = "Enter a valid date."
	msgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
)

// queryValues returns the request's query parameters with blank values
// dropped, so a filter form submitted with empty fields binds as if those
// fields were absent.
func queryValues(r *http.Request) url.Values {
	q := url.Values{}
	for k, vs := range r.URL.Query() {
		for _, v := range vs {
			if v = strings.TrimSpace(v); v != "" {
				q.Add(k, v)
			}
		}
	}
	return q
}

// pageParam binds ?page. Anything that is not a positive integer means page 1.
func pageParam(q url.Values) int {
	var page *int
	if err := runtime.BindQueryParameter("form", true, false, "page", q, &page); err != nil || page == nil || *page < 1 {
		return 1
	}
	return *page
}

// limitParam binds ?limit for the JSON API. Out-of-range values are clamped
// by domain.NewPaginationParams.
func limitParam(q url.Values) *int {
	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &limit); err != nil {
		return nil
	}
	return limit
}

// dateParam binds an optional YYYY-MM-DD parameter.
func dateParam(q url.Values, name string) (*time.Time, error) {
	var d *openapi_types.Date
	if err := runtime.BindQueryParameter("form", true, false, name, q, &d); err != nil {
		return nil, err
	}
	if d == nil {
		return nil, nil
	}
	t := d.Time
	return &t, nil
}

// publicQuery is the filter form of the public case list, echoed back into
// the form controls.
type publicQuery struct {
	Search string
	Court  string
	Tag    string
}

func (pq publicQuery) values() url.Values {
	q := url.Values{}
	setIfNotEmpty(q, "search", pq.Search)
	setIfNotEmpty(q, "court", pq.Court)
	setIfNotEmpty(q, "tag", pq.Tag)
	return q
}

// publicFilter builds the filter for the public list and the JSON API.
// A tag that is not a valid id matches no case rather than being ignored.
func publicFilter(q url.Values) (domain.CaseFilter, publicQuery) {
	pq := publicQuery{
		Search: q.Get("search"),
		Court:  q.Get("court"),
		Tag:    q.Get("tag"),
	}
	f := domain.CaseFilter{Search: pq.Search, Court: pq.Court}
	if pq.Tag != "" {
		id, err := uuid.Parse(pq.Tag)
		if err != nil {
			id = uuid.Nil
		}
		f.TagID = &id
	}
	return f, pq
}

// dashboardQuery is the raw dashboard filter form.
type dashboardQuery struct {
	Search   string
	Court    string
	Status   string
	DateFrom string
	DateTo   string
	Tag      string
}

func (dq dashboardQuery) values() url.Values {
	q := url.Values{}
	setIfNotEmpty(q, "search", dq.Search)
	setIfNotEmpty(q, "court", dq.Court)
	setIfNotEmpty(q, "status", dq.Status)
	setIfNotEmpty(q, "date_from", dq.DateFrom)
	setIfNotEmpty(q, "date_to", dq.DateTo)
	setIfNotEmpty(q, "tag", dq.Tag)
	return q
}

// dashboardFilter validates the dashboard filter form against the known tags.
// When any field is invalid the returned filter is empty: the dashboard then
// shows the unfiltered set next to the field errors.
func dashboardFilter(q url.Values, tags []domain.Tag) (domain.CaseFilter, dashboardQuery, domain.FieldErrors) {
	dq := dashboardQuery{
		Search:   q.Get("search"),
		Court:    q.Get("court"),
		Status:   q.Get("status"),
		DateFrom: q.Get("date_from"),
		DateTo:   q.Get("date_to"),
		Tag:      q.Get("tag"),
	}
	fe := domain.FieldErrors{}
	f := domain.CaseFilter{Search: dq.Search, Court: dq.Court}

	if dq.Status != "" {
		st, err := domain.ParseCaseStatus(dq.Status)
		if err != nil {
			fe.Add("status", "Select a valid choice. "+dq.Status+" is not one of the available choices.")
		}
		f.Status = st
	}

	var err error
	if f.DateFrom, err = dateParam(q, "date_from"); err != nil {
		fe.Add("date_from", msgInvalidDate)
	}
	if f.DateTo, err = dateParam(q, "date_to"); err != nil {
		fe.Add("date_to", msgInvalidDate)
	}

	if dq.Tag != "" {
		id, err := uuid.Parse(dq.Tag)
		if err != nil || !containsTag(tags, id) {
			fe.Add("tag", msgInvalidChoice)
		} else {
			f.TagID = &id
		}
	}

	if len(fe) > 0 {
		return domain.CaseFilter{}, dq, fe
	}
	return f, dq, nil
}

func containsTag(tags []domain.Tag, id uuid.UUID) bool {
	for _, t := range tags {
		if t.ID == id {
			return true
		}
	}
	return false
}
