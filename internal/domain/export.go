package domain

// ExportRow is a single row in the case export.
// It is a flat view of one case: dates are pre-formatted and Tags holds the
// slugs of the linked tags, ordered alphabetically by tag name.
// Callers that need a joined string (e.g. CSV) should join with "|".
type ExportRow struct {
	Slug         string   `json:"slug" yaml:"slug"`
	Title        string   `json:"title" yaml:"title"`
	Citation     string   `json:"citation,omitempty" yaml:"citation,omitempty"`
	Court        string   `json:"court,omitempty" yaml:"court,omitempty"`
	Jurisdiction string   `json:"jurisdiction,omitempty" yaml:"jurisdiction,omitempty"`
	DocketNumber string   `json:"docket_number,omitempty" yaml:"docket_number,omitempty"`
	DecisionDate string   `json:"decision_date,omitempty" yaml:"decision_date,omitempty"` // "2006-01-02", empty when unknown
	Parties      string   `json:"parties,omitempty" yaml:"parties,omitempty"`
	Status       string   `json:"status" yaml:"status"`
	SummaryShort string   `json:"summary_short,omitempty" yaml:"summary_short,omitempty"`
	SummaryLong  string   `json:"summary_long,omitempty" yaml:"summary_long,omitempty"`
	CreatedAt    string   `json:"created_at" yaml:"created_at"` // RFC 3339
	UpdatedAt    string   `json:"updated_at" yaml:"updated_at"` // RFC 3339
	Tags         []string `json:"tags" yaml:"tags"`
}
