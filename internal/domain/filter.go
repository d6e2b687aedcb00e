package domain

import (
	"time"

	"github.com/google/uuid"
)

// CaseOrder selects the sort order of a case query.
type CaseOrder int

const (
	// OrderDecisionDate is the default: decision_date DESC (unknown dates
	// last), then created_at DESC.
	OrderDecisionDate CaseOrder = iota
	// OrderCreated lists the most recently created cases first.
	OrderCreated
	// OrderUpdated lists the most recently edited cases first.
	OrderUpdated
)

// CaseFilter is the complete specification of a case list query.
// Zero-valued fields do not restrict the result; all set fields are AND'ed.
type CaseFilter struct {
	// Search matches title, citation, docket number or parties
	// (case-insensitive substring). With SearchTags it also matches tag names.
	Search string
	// Court is a case-insensitive substring of the court name.
	Court string
	// Status, when non-empty, must match exactly.
	Status CaseStatus
	// DateFrom and DateTo are inclusive bounds on the decision date.
	DateFrom *time.Time
	DateTo   *time.Time
	// TagID, when set, keeps only cases linked to that tag.
	TagID *uuid.UUID

	// PublishedOnly excludes drafts. Set by the public service methods,
	// never from request parameters.
	PublishedOnly bool
	// SearchTags extends Search to tag names (dashboard only).
	SearchTags bool

	Order CaseOrder
}
