// Package export renders admin exports. CSV carries attachment links as
// plain URL text; the spreadsheet export carries them as native clickable
// hyperlinks. A reduced "scoring" export keeps only the curated columns.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/lutinemgmt/nhcma-intake/internal/models"
)

// PosterRow is a poster with its attachment key already resolved to a
// signed URL (empty when no file was attached).
type PosterRow struct {
	models.Poster
	PosterURL string
}

// GrantRow is a grant submission with its upload keys resolved to signed
// URLs, keyed by document type.
type GrantRow struct {
	models.GrantSubmission
	UploadURLs map[string]string
}

// Upload document types, in export column order.
var UploadKinds = []string{"proposal", "budget", "cv", "support_letter", "other"}

var posterHeader = []string{
	"id", "created_at", "category", "lead_author",
	"coauthor1", "coauthor2", "coauthor3",
	"institution_lead", "institution_co1", "institution_co2", "institution_co3",
	"title", "abstract", "poster_url", "contact_email",
}

func posterRecord(r PosterRow) []string {
	return []string{
		fmt.Sprintf("%d", r.ID),
		r.CreatedAt.UTC().Format(time.RFC3339),
		r.Category, r.LeadAuthor,
		r.CoAuthor1, r.CoAuthor2, r.CoAuthor3,
		r.InstitutionLead, r.InstitutionCo1, r.InstitutionCo2, r.InstitutionCo3,
		r.Title, r.Abstract, r.PosterURL, r.ContactEmail,
	}
}

// PostersCSV writes header + one line per poster.
func PostersCSV(w io.Writer, rows []PosterRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(posterHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(posterRecord(r)); err != nil {
			return fmt.Errorf("write poster %d: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func grantHeader() []string {
	h := []string{
		"id", "created_at", "track", "applicant_name", "email", "phone",
		"org_name", "school", "project_title", "budget_total",
	}
	for _, kind := range UploadKinds {
		h = append(h, "upload_"+kind)
	}
	return h
}

func grantRecord(r GrantRow) []string {
	rec := []string{
		fmt.Sprintf("%d", r.ID),
		r.CreatedAt.UTC().Format(time.RFC3339),
		r.Track, r.ApplicantName, r.Email, r.Phone,
		r.PayloadString("org_name"),
		r.PayloadString("school"),
		r.PayloadString("project_title"),
		r.PayloadString("budget_total"),
	}
	for _, kind := range UploadKinds {
		rec = append(rec, r.UploadURLs[kind])
	}
	return rec
}

// GrantsCSV writes header + one line per grant submission, with the
// flattened payload columns and upload URLs as plain text.
func GrantsCSV(w io.Writer, rows []GrantRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(grantHeader()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(grantRecord(r)); err != nil {
			return fmt.Errorf("write submission %d: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

var scoringHeader = []string{
	"id", "track", "created_at", "applicant_name", "email", "phone",
	"org_name", "school", "project_title", "budget_total",
}

// ScoringCSV writes the reduced scoring export: key columns only, no
// abstracts and no attachment links.
func ScoringCSV(w io.Writer, rows []GrantRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(scoringHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			fmt.Sprintf("%d", r.ID),
			r.Track,
			r.CreatedAt.UTC().Format(time.RFC3339),
			r.ApplicantName, r.Email, r.Phone,
			r.PayloadString("org_name"),
			r.PayloadString("school"),
			r.PayloadString("project_title"),
			r.PayloadString("budget_total"),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write submission %d: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
