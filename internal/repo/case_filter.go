package repo

import (
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/legal-digest/internal/domain"
)

// buildCaseWhere translates a CaseFilter into a WHERE clause over the "cases c"
// alias plus its named arguments. Every set field adds one AND'ed predicate.
// Tag predicates use EXISTS sub-queries rather than joins so a case linked to
// several matching tags still yields a single row.
// An empty filter returns an empty clause.
func buildCaseWhere(f domain.CaseFilter) (string, pgx.NamedArgs) {
	var conds []string
	args := pgx.NamedArgs{}

	if f.PublishedOnly {
		conds = append(conds, "c.status <> 'draft'")
	}

	if s := strings.TrimSpace(f.Search); s != "" {
		args["search"] = containsPattern(s)
		anyOf := []string{
			"c.title ILIKE @search",
			"c.citation ILIKE @search",
			"c.docket_number ILIKE @search",
			"c.parties ILIKE @search",
		}
		if f.SearchTags {
			anyOf = append(anyOf, `EXISTS (
				SELECT 1 FROM case_tags sct
				JOIN tags st ON st.id = sct.tag_id
				WHERE sct.case_id = c.id AND st.name ILIKE @search)`)
		}
		conds = append(conds, "("+strings.Join(anyOf, " OR ")+")")
	}

	if court := strings.TrimSpace(f.Court); court != "" {
		args["court"] = containsPattern(court)
		conds = append(conds, "c.court ILIKE @court")
	}

	if f.Status != "" {
		args["status"] = string(f.Status)
		conds = append(conds, "c.status = @status")
	}

	if f.DateFrom != nil {
		args["date_from"] = *f.DateFrom
		conds = append(conds, "c.decision_date >= @date_from")
	}

	if f.DateTo != nil {
		args["date_to"] = *f.DateTo
		conds = append(conds, "c.decision_date <= @date_to")
	}

	if f.TagID != nil {
		args["tag_id"] = f.TagID.String()
		conds = append(conds, `EXISTS (
			SELECT 1 FROM case_tags fct
			WHERE fct.case_id = c.id AND fct.tag_id = @tag_id::uuid)`)
	}

	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, "\n\t\t  AND "), args
}

// caseOrderBy returns the ORDER BY clause for o. The trailing id keeps
// pagination stable when timestamps tie.
func caseOrderBy(o domain.CaseOrder) string {
	switch o {
	case domain.OrderCreated:
		return "ORDER BY c.created_at DESC, c.id"
	case domain.OrderUpdated:
		return "ORDER BY c.updated_at DESC, c.id"
	default:
		return "ORDER BY c.decision_date DESC NULLS LAST, c.created_at DESC, c.id"
	}
}
