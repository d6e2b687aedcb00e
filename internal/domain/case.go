// Package domain contains the core data types for the Legal Digest application:
// cases, tags, users and the filter specification shared by every list view.
// It is imported by every other internal package (repo, service, handler).
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CaseStatus is the editorial state of a case. Draft cases are never shown
// on public pages.
type CaseStatus string

const (
	StatusDraft    CaseStatus = "draft"
	StatusOpen     CaseStatus = "open"
	StatusClosed   CaseStatus = "closed"
	StatusArchived CaseStatus = "archived"
)

// CaseStatuses lists every status in display order.
var CaseStatuses = []CaseStatus{StatusDraft, StatusOpen, StatusClosed, StatusArchived}

// Valid reports whether s is one of the known statuses.
func (s CaseStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusOpen, StatusClosed, StatusArchived:
		return true
	}
	return false
}

// Label is the human-readable form of s, e.g. "Open".
func (s CaseStatus) Label() string {
	switch s {
	case StatusDraft:
		return "Draft"
	case StatusOpen:
		return "Open"
	case StatusClosed:
		return "Closed"
	case StatusArchived:
		return "Archived"
	}
	return string(s)
}

// ParseCaseStatus converts raw form input into a CaseStatus.
func ParseCaseStatus(s string) (CaseStatus, error) {
	st := CaseStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrValidation, s)
	}
	return st, nil
}

// Case is a tracked legal matter.
// Slug is assigned once when the case is first saved and never changes.
// DecisionDate is nil when the decision date is unknown.
type Case struct {
	ID           uuid.UUID
	Title        string
	Slug         string
	Citation     string
	Court        string
	Jurisdiction string
	DocketNumber string
	DecisionDate *time.Time
	Parties      string
	Status       CaseStatus
	SummaryShort string
	SummaryLong  string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Tags is ordered by name. Nil when the query did not load tags.
	Tags []Tag
}

// Published reports whether the case may appear on public pages.
func (c Case) Published() bool {
	return c.Status != StatusDraft
}

// TagIDs returns the ids of the linked tags in name order.
func (c Case) TagIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(c.Tags))
	for i, t := range c.Tags {
		ids[i] = t.ID
	}
	return ids
}

// CaseInput is the writable part of a Case as submitted through the case form.
// Slug is only honoured on create; an empty Slug is derived from Title.
type CaseInput struct {
	Title        string
	Slug         string
	Citation     string
	Court        string
	Jurisdiction string
	DocketNumber string
	DecisionDate *time.Time
	Parties      string
	Status       CaseStatus
	SummaryShort string
	SummaryLong  string
	TagIDs       []uuid.UUID
}

// InputFromCase returns the form input that would reproduce c, used to
// pre-fill the edit form.
func InputFromCase(c Case) CaseInput {
	return CaseInput{
		Title:        c.Title,
		Slug:         c.Slug,
		Citation:     c.Citation,
		Court:        c.Court,
		Jurisdiction: c.Jurisdiction,
		DocketNumber: c.DocketNumber,
		DecisionDate: c.DecisionDate,
		Parties:      c.Parties,
		Status:       c.Status,
		SummaryShort: c.SummaryShort,
		SummaryLong:  c.SummaryLong,
		TagIDs:       c.TagIDs(),
	}
}

// CaseStats holds the dashboard counters. Status counts cover the filtered
// case set; Tags is the total number of tags.
type CaseStats struct {
	Open     int64
	Closed   int64
	Draft    int64
	Archived int64
	Tags     int64
}
