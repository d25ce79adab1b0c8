package mailer

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/lutinemgmt/nhcma-intake/internal/models"
)

const contactAddr = "nhcma@lutinemanagement.com"

// Timestamps in confirmations are shown in Eastern time, matching the
// foundation's published deadlines.
var eastern = func() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.UTC
	}
	return loc
}()

var posterTmpl = template.Must(template.New("poster").Parse(`
<p>Dear {{.LeadAuthor}},</p>
<p>Thank you for submitting your <strong>{{.Category}}</strong> research poster to the NHCMA Foundation.</p>
<p>
    <strong>Title:</strong> {{.Title}}<br>
    <strong>Submitted:</strong> {{.When}}{{if .PosterURL}}<br>
    <strong>Poster file:</strong> <a href="{{.PosterURL}}">View</a>{{end}}
</p>
<p>We will contact you if additional information is needed.<br>
Questions: <a href="mailto:{{.Contact}}">{{.Contact}}</a></p>
<p>— NHCMA Foundation</p>
`))

// PosterConfirmation composes the confirmation for a persisted poster.
// posterURL is the signed link to the uploaded file, empty when none was
// attached.
func PosterConfirmation(p *models.Poster, posterURL string) (subject, body string, err error) {
	var b strings.Builder
	data := struct {
		LeadAuthor, Category, Title, When, PosterURL, Contact string
	}{
		LeadAuthor: p.LeadAuthor,
		Category:   p.Category,
		Title:      p.Title,
		When:       p.CreatedAt.In(eastern).Format("Jan 02, 2006 03:04 PM MST"),
		PosterURL:  posterURL,
		Contact:    contactAddr,
	}
	if err := posterTmpl.Execute(&b, data); err != nil {
		return "", "", fmt.Errorf("compose poster confirmation: %w", err)
	}
	return "NHCMA — Poster Submission Received", b.String(), nil
}

var grantTmpl = template.Must(template.New("grant").Parse(`
<p>Dear {{.Applicant}},</p>
<p>Thank you for your submission to the <strong>NHCMA Foundation — Public Health Innovation Grants</strong>.</p>
<p>
    <strong>Track:</strong> {{.Track}}<br>
    <strong>Project Title:</strong> {{.Title}}<br>
    {{if .Org}}<strong>Organization:</strong> {{.Org}}<br>{{end}}
    {{if .School}}<strong>School:</strong> {{.School}}<br>{{end}}
    <strong>Timestamp:</strong> {{.When}}<br>
    <strong>Submission ID:</strong> {{.ID}}
</p>
<p>We will contact you if additional information is needed. Questions may be directed to <a href="mailto:{{.Contact}}">{{.Contact}}</a>.</p>
<p>— NHCMA Foundation</p>
`))

// GrantConfirmation composes the confirmation for a persisted grant
// application.
func GrantConfirmation(g *models.GrantSubmission) (subject, body string, err error) {
	var org, school string
	if g.Track == models.TrackOrganization {
		org = g.PayloadString("org_name")
	}
	if g.Track == models.TrackStudent {
		school = g.PayloadString("school")
	}
	title := g.PayloadString("project_title")
	if title == "" {
		title = "—"
	}

	var b strings.Builder
	data := struct {
		Applicant, Track, Title, Org, School, When, Contact string
		ID                                                  int64
	}{
		Applicant: g.ApplicantName,
		Track:     titleCase(g.Track),
		Title:     title,
		Org:       org,
		School:    school,
		When:      g.CreatedAt.In(eastern).Format("Jan 02, 2006 03:04 PM MST"),
		Contact:   contactAddr,
		ID:        g.ID,
	}
	if err := grantTmpl.Execute(&b, data); err != nil {
		return "", "", fmt.Errorf("compose grant confirmation: %w", err)
	}
	subject = fmt.Sprintf("NHCMA Foundation — %s Application Received", titleCase(g.Track))
	return subject, b.String(), nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
