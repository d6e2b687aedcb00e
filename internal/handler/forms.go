package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/legal-digest/internal/domain"
)

// caseForm holds the case form exactly as submitted, so it can be echoed back
// when the form is re-rendered with errors.
type caseForm struct {
	Title        string
	Slug         string
	Citation     string
	Court        string
	Jurisdiction string
	DocketNumber string
	DecisionDate string
	Status       string
	Parties      string
	SummaryShort string
	SummaryLong  string
	TagIDs       []string
}

// HasTag reports whether the tag checkbox with the given id is ticked.
func (f caseForm) HasTag(id uuid.UUID) bool {
	s := id.String()
	for _, t := range f.TagIDs {
		if t == s {
			return true
		}
	}
	return false
}

// caseFormFromRequest reads the case form from a parsed POST body.
func caseFormFromRequest(r *http.Request) caseForm {
	return caseForm{
		Title:        r.PostForm.Get("title"),
		Slug:         r.PostForm.Get("slug"),
		Citation:     r.PostForm.Get("citation"),
		Court:        r.PostForm.Get("court"),
		Jurisdiction: r.PostForm.Get("jurisdiction"),
		DocketNumber: r.PostForm.Get("docket_number"),
		DecisionDate: r.PostForm.Get("decision_date"),
		Status:       r.PostForm.Get("status"),
		Parties:      r.PostForm.Get("parties"),
		SummaryShort: r.PostForm.Get("summary_short"),
		SummaryLong:  r.PostForm.Get("summary_long"),
		TagIDs:       r.PostForm["tags"],
	}
}

// caseFormFromCase pre-fills the edit form.
func caseFormFromCase(c domain.Case) caseForm {
	in := domain.InputFromCase(c)
	f := caseForm{
		Title:        in.Title,
		Slug:         in.Slug,
		Citation:     in.Citation,
		Court:        in.Court,
		Jurisdiction: in.Jurisdiction,
		DocketNumber: in.DocketNumber,
		Status:       string(in.Status),
		Parties:      in.Parties,
		SummaryShort: in.SummaryShort,
		SummaryLong:  in.SummaryLong,
	}
	if in.DecisionDate != nil {
		f.DecisionDate = in.DecisionDate.Format(time.DateOnly)
	}
	for _, id := range in.TagIDs {
		f.TagIDs = append(f.TagIDs, id.String())
	}
	return f
}

// input converts the raw form into a CaseInput. Only values that cannot be
// converted at all are reported here; everything else is validated by the
// case service.
func (f caseForm) input() (domain.CaseInput, domain.FieldErrors) {
	fe := domain.FieldErrors{}
	in := domain.CaseInput{
		Title:        f.Title,
		Slug:         f.Slug,
		Citation:     f.Citation,
		Court:        f.Court,
		Jurisdiction: f.Jurisdiction,
		DocketNumber: f.DocketNumber,
		Status:       domain.CaseStatus(strings.TrimSpace(f.Status)),
		Parties:      f.Parties,
		SummaryShort: f.SummaryShort,
		SummaryLong:  f.SummaryLong,
	}

	if d := strings.TrimSpace(f.DecisionDate); d != "" {
		t, err := time.Parse(time.DateOnly, d)
		if err != nil {
			fe.Add("decision_date", msgInvalidDate)
		} else {
			in.DecisionDate = &t
		}
	}

	for _, raw := range f.TagIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			fe.Add("tags", "Select a valid choice. "+raw+" is not one of the available choices.")
			continue
		}
		in.TagIDs = append(in.TagIDs, id)
	}

	if len(fe) > 0 {
		return in, fe
	}
	return in, nil
}
