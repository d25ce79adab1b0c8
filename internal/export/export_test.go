package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/lutinemgmt/nhcma-intake/internal/models"
)

func samplePosters() []PosterRow {
	created := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	return []PosterRow{
		{
			Poster: models.Poster{
				ID: 2, CreatedAt: created, Category: "Resident",
				LeadAuthor: "John Roe", Title: "Sepsis Outcomes",
				Abstract: "Short abstract.", ContactEmail: "john@example.org",
				PosterKey: "posters/20251001T120000Z_roe.pdf",
			},
			PosterURL: "https://store.example.com/signed/roe",
		},
		{
			Poster: models.Poster{
				ID: 1, CreatedAt: created, Category: "Student",
				LeadAuthor: "Jane Doe", Title: "Novel Biomarker",
				Abstract: "Another abstract.", ContactEmail: "jane@example.edu",
			},
		},
	}
}

func sampleGrants() []GrantRow {
	created := time.Date(2025, 10, 10, 12, 0, 0, 0, time.UTC)
	return []GrantRow{
		{
			GrantSubmission: models.GrantSubmission{
				ID: 5, CreatedAt: created, Track: models.TrackOrganization,
				ApplicantName: "Ana Silva", Email: "ana@healthorg.org", Phone: "203-555-0100",
				Payload: map[string]any{
					"org_name":      "Health Org",
					"project_title": "Mobile Clinic",
					"budget_total":  "2500",
				},
			},
			UploadURLs: map[string]string{"proposal": "https://store.example.com/signed/prop"},
		},
	}
}

func TestPostersCSVLineCount(t *testing.T) {
	var buf bytes.Buffer
	if err := PostersCSV(&buf, samplePosters()); err != nil {
		t.Fatalf("export: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 rows", len(lines))
	}
	if !strings.Contains(lines[1], "https://store.example.com/signed/roe") {
		t.Error("attachment column must carry the literal URL text")
	}
}

func TestPostersCSVColumns(t *testing.T) {
	var buf bytes.Buffer
	if err := PostersCSV(&buf, samplePosters()); err != nil {
		t.Fatalf("export: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	header := records[0]
	if header[0] != "id" || header[len(header)-1] != "contact_email" {
		t.Errorf("header = %v", header)
	}
	for i, rec := range records[1:] {
		if len(rec) != len(header) {
			t.Errorf("row %d has %d fields, want %d", i, len(rec), len(header))
		}
	}
	// No file attached: empty URL cell, not a fabricated link.
	if records[2][13] != "" {
		t.Errorf("poster without file should export an empty url cell, got %q", records[2][13])
	}
}

func TestGrantsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := GrantsCSV(&buf, sampleGrants()); err != nil {
		t.Fatalf("export: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want header + 1", len(records))
	}
	row := records[1]
	for _, want := range []string{"Health Org", "Mobile Clinic", "2500", "https://store.example.com/signed/prop"} {
		if !containsField(row, want) {
			t.Errorf("row missing %q: %v", want, row)
		}
	}
}

func TestScoringCSVSubset(t *testing.T) {
	var buf bytes.Buffer
	if err := ScoringCSV(&buf, sampleGrants()); err != nil {
		t.Fatalf("export: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	header := records[0]
	if len(header) != 10 {
		t.Errorf("scoring export has %d columns, want 10", len(header))
	}
	for _, col := range header {
		if strings.HasPrefix(col, "upload_") {
			t.Errorf("scoring export must not carry upload columns, got %q", col)
		}
	}
}

func TestPostersXLSXHyperlink(t *testing.T) {
	var buf bytes.Buffer
	if err := PostersXLSX(&buf, samplePosters()); err != nil {
		t.Fatalf("export: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}

	// Row 2 carries the poster with a file: its url cell is a hyperlink.
	ok, link, err := f.GetCellHyperLink(sheet, "N2")
	if err != nil {
		t.Fatalf("hyperlink: %v", err)
	}
	if !ok || link != "https://store.example.com/signed/roe" {
		t.Errorf("N2 hyperlink = %v %q", ok, link)
	}

	// Row 3 has no file and must not carry a link.
	ok, _, err = f.GetCellHyperLink(sheet, "N3")
	if err != nil {
		t.Fatalf("hyperlink: %v", err)
	}
	if ok {
		t.Error("row without file must not carry a hyperlink")
	}
}

func TestGrantsXLSXHyperlink(t *testing.T) {
	var buf bytes.Buffer
	if err := GrantsXLSX(&buf, sampleGrants()); err != nil {
		t.Fatalf("export: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer f.Close()

	// upload_proposal is column 11 = K.
	ok, link, err := f.GetCellHyperLink(sheet, "K2")
	if err != nil {
		t.Fatalf("hyperlink: %v", err)
	}
	if !ok || link != "https://store.example.com/signed/prop" {
		t.Errorf("K2 hyperlink = %v %q", ok, link)
	}
}

func containsField(rec []string, v string) bool {
	for _, f := range rec {
		if f == v {
			return true
		}
	}
	return false
}
