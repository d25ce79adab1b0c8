package mailer

import (
	"strings"
	"testing"
	"time"

	"github.com/lutinemgmt/nhcma-intake/internal/models"
)

func TestPosterConfirmation(t *testing.T) {
	p := &models.Poster{
		ID:           7,
		CreatedAt:    time.Date(2025, 10, 1, 18, 30, 0, 0, time.UTC),
		Category:     "Student",
		LeadAuthor:   "Jane Doe",
		Title:        "Novel Biomarker",
		ContactEmail: "jane@example.edu",
	}

	subject, body, err := PosterConfirmation(p, "https://store.example.com/signed/abc")
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if subject != "NHCMA — Poster Submission Received" {
		t.Errorf("subject = %q", subject)
	}
	for _, want := range []string{"Jane Doe", "Student", "Novel Biomarker", "https://store.example.com/signed/abc"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestPosterConfirmationNoFile(t *testing.T) {
	p := &models.Poster{
		CreatedAt:  time.Now(),
		Category:   "Fellow",
		LeadAuthor: "Jane Doe",
		Title:      "Novel Biomarker",
	}
	_, body, err := PosterConfirmation(p, "")
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if strings.Contains(body, "Poster file") {
		t.Error("body should omit the file link when no file was uploaded")
	}
}

func TestPosterConfirmationEscapesHTML(t *testing.T) {
	p := &models.Poster{
		CreatedAt:  time.Now(),
		Category:   "Student",
		LeadAuthor: "Jane Doe",
		Title:      `<script>alert("x")</script>`,
	}
	_, body, err := PosterConfirmation(p, "")
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if strings.Contains(body, "<script>") {
		t.Error("submitted values must be escaped in the email body")
	}
}

func TestGrantConfirmation(t *testing.T) {
	g := &models.GrantSubmission{
		ID:            42,
		CreatedAt:     time.Date(2025, 10, 10, 12, 0, 0, 0, time.UTC),
		Track:         models.TrackOrganization,
		ApplicantName: "Ana Silva",
		Email:         "ana@healthorg.org",
		Payload: map[string]any{
			"org_name":      "Health Org",
			"project_title": "Mobile Clinic",
		},
	}

	subject, body, err := GrantConfirmation(g)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if subject != "NHCMA Foundation — Organization Application Received" {
		t.Errorf("subject = %q", subject)
	}
	for _, want := range []string{"Ana Silva", "Health Org", "Mobile Clinic", "Submission ID:</strong> 42"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
	if strings.Contains(body, "School:") {
		t.Error("organization confirmation should not carry a school line")
	}
}

func TestGrantConfirmationStudentTrack(t *testing.T) {
	g := &models.GrantSubmission{
		ID:            43,
		CreatedAt:     time.Now(),
		Track:         models.TrackStudent,
		ApplicantName: "Sam Lee",
		Payload: map[string]any{
			"school":        "Yale School of Medicine",
			"project_title": "Community Health Mapping",
		},
	}
	subject, body, err := GrantConfirmation(g)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if !strings.Contains(subject, "Student") {
		t.Errorf("subject = %q", subject)
	}
	if !strings.Contains(body, "Yale School of Medicine") {
		t.Error("body missing school")
	}
}

func TestMailerEnabled(t *testing.T) {
	m := New("smtp.office365.com", 587, "", "", "", "NHCMA", "cc@example.com")
	if m.Enabled() {
		t.Error("mailer without credentials must report disabled")
	}
	m = New("smtp.office365.com", 587, "user", "pass", "from@example.com", "NHCMA", "cc@example.com")
	if !m.Enabled() {
		t.Error("configured mailer must report enabled")
	}
}
