package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tag is a label that can be applied to any number of cases.
// Tags live independently of cases: deleting either side only removes the link.
// Slug is derived from Name and regenerated whenever the tag is renamed.
type Tag struct {
	ID        uuid.UUID
	Name      string
	Slug      string
	CreatedAt time.Time
}

// TagStat is a Tag with the number of cases linked to it, as shown on the
// dashboard tag list.
type TagStat struct {
	Tag
	CaseCount      int64
	PublishedCount int64
}
