package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkordes/legal-digest/internal/domain"
)

// baseView is embedded in every page view. The layout reads Title, User and Flash.
type baseView struct {
	Title string
	User  *domain.User
	Flash *Flash
}

// base builds the shared part of a page view. It consumes the pending flash
// message, so call it once per rendered page.
func (s *Server) base(w http.ResponseWriter, r *http.Request, title string) baseView {
	v := baseView{Title: title, Flash: s.popFlash(w, r)}
	if u, ok := UserFromContext(r.Context()); ok {
		v.User = &u
	}
	return v
}

// invalidBase is base for a form re-rendered with validation errors. The
// error message takes the place of any pending flash.
func (s *Server) invalidBase(w http.ResponseWriter, r *http.Request, title string) baseView {
	v := s.base(w, r, title)
	v.Flash = &Flash{Kind: flashError, Message: msgFixErrors}
	return v
}

type errorView struct {
	baseView
	Status  int
	Message string
}

type indexView struct {
	baseView
	PublishedCount int64
	Recent         []domain.Case
}

type aboutView struct {
	baseView
	PublishedCount int64
}

type caseListView struct {
	baseView
	Query  publicQuery
	Courts []string
	Tags   []domain.Tag
	Page   domain.Page[domain.Case]
}

// PageURL links to page n of the current result set, keeping the filters.
func (v caseListView) PageURL(n int) string {
	q := v.Query.values()
	q.Set("page", strconv.Itoa(n))
	return "/cases/?" + q.Encode()
}

type caseDetailView struct {
	baseView
	Case    domain.Case
	Related []domain.Case
}

type loginView struct {
	baseView
	Error    string
	Next     string
	Username string
}

type dashboardView struct {
	baseView
	Stats           domain.CaseStats
	Filter          dashboardQuery
	FilterErrors    domain.FieldErrors
	Courts          []string
	Tags            []domain.Tag
	Total           int64
	Recent          []domain.Case
	RecentlyUpdated []domain.Case
}

// ExportURL links to the export of the current filter in the given format.
func (v dashboardView) ExportURL(format string) string {
	q := v.Filter.values()
	q.Set("format", format)
	return "/dashboard/export/?" + q.Encode()
}

type caseView struct {
	baseView
	Case domain.Case
}

type caseFormView struct {
	baseView
	Action      string
	SubmitLabel string
	CancelURL   string
	Editing     bool
	Form        caseForm
	Errors      domain.FieldErrors
	Tags        []domain.Tag
}

type tagListView struct {
	baseView
	Stats []domain.TagStat
}

type tagFormView struct {
	baseView
	Action string
	Name   string
	Errors domain.FieldErrors
}

type tagDeleteView struct {
	baseView
	Tag       domain.Tag
	CaseCount int64
}

// setIfNotEmpty adds key=value to q unless value is empty.
func setIfNotEmpty(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
