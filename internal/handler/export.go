// Package handler: export.go implements GET /dashboard/export/.
// Returns the cases matching the dashboard filter as a flat table.
// Supports ?format=csv, ?format=yaml or JSON (the default).
package handler

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pkordes/legal-digest/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"slug", "title", "citation", "court", "jurisdiction", "docket_number",
	"decision_date", "parties", "status", "summary_short", "summary_long",
	"created_at", "updated_at", "tags",
}

// exportCases handles GET /dashboard/export/.
// It accepts the same filter params as the dashboard. An invalid filter
// exports every case, as the dashboard itself would show them.
func (s *Server) exportCases(w http.ResponseWriter, r *http.Request) {
	q := queryValues(r)

	format := q.Get("format")
	if format == "" {
		format = "json"
	}
	switch format {
	case "csv", "json", "yaml":
	default:
		s.errorPage(w, r, http.StatusBadRequest, "Unknown export format "+format+". Use csv, json or yaml.")
		return
	}

	tags, err := s.tags.List(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	f, _, _ := dashboardFilter(q, tags)

	rows, err := s.export.Export(r.Context(), f)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if rows == nil {
		rows = []domain.ExportRow{}
	}

	var (
		body        []byte
		contentType string
	)
	switch format {
	case "csv":
		body, err = buildCSV(rows)
		contentType = "text/csv; charset=utf-8"
	case "yaml":
		body, err = yaml.Marshal(rows)
		contentType = "application/yaml"
	default:
		body, err = json.MarshalIndent(rows, "", "  ")
		contentType = "application/json"
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="cases.`+format+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// buildCSV encodes rows as CSV with a header row.
// Tags within a row are pipe-separated ("|") to keep each case on a single CSV line.
func buildCSV(rows []domain.ExportRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeaders); err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := w.Write(csvRecord(r)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// csvRecord encodes a domain.ExportRow as a flat string slice in csvHeaders order.
func csvRecord(r domain.ExportRow) []string {
	return []string{
		r.Slug,
		r.Title,
		r.Citation,
		r.Court,
		r.Jurisdiction,
		r.DocketNumber,
		r.DecisionDate,
		r.Parties,
		r.Status,
		r.SummaryShort,
		r.SummaryLong,
		r.CreatedAt,
		r.UpdatedAt,
		strings.Join(r.Tags, "|"),
	}
}
