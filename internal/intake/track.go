package intake

import (
	"strconv"
	"time"

	"github.com/lutinemgmt/nhcma-intake/internal/models"
)

// Kind is the validation behavior of a field.
type Kind string

const (
	KindText     Kind = "text"
	KindEmail    Kind = "email"
	KindLongText Kind = "longtext"
	KindSelect   Kind = "select"
	KindCheckbox Kind = "checkbox"
)

// FieldDef describes one form field and how to validate it.
type FieldDef struct {
	Name      string   `json:"name"`
	Label     string   `json:"label"`
	Kind      Kind     `json:"kind"`
	Required  bool     `json:"required,omitempty"`
	Options   []string `json:"options,omitempty"`
	WordLimit int      `json:"wordLimit,omitempty"`
}

// FileDef describes one optional upload slot. Folder is the object-store
// prefix the stored key is placed under.
type FileDef struct {
	Name   string   `json:"name"`
	Label  string   `json:"label"`
	Folder string   `json:"folder"`
	Accept []string `json:"accept,omitempty"`
}

// Track is one intake form: a named field set, its upload slots, and an
// optional submission deadline (zero means always open).
type Track struct {
	Name     string     `json:"name"`
	Title    string     `json:"title"`
	Fields   []FieldDef `json:"fields"`
	Files    []FileDef  `json:"files,omitempty"`
	Deadline time.Time  `json:"deadline,omitempty"`
}

// Open reports whether submissions are still accepted at now.
func (t Track) Open(now time.Time) bool {
	return t.Deadline.IsZero() || !now.After(t.Deadline)
}

// Field returns the definition named name, if any.
func (t Track) Field(name string) (FieldDef, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDef{}, false
}

// Track names, also used as URL segments.
const (
	TrackPoster       = "poster"
	TrackOrganization = models.TrackOrganization
	TrackStudent      = models.TrackStudent
)

// MaxCoAuthors is the number of optional co-author/institution pairs on
// the poster form.
const MaxCoAuthors = 3

// AbstractWordLimit caps the poster abstract.
const AbstractWordLimit = 250

// Schools eligible for the student grant track.
var Schools = []string{
	"Frank H. Netter MD School of Medicine at Quinnipiac University",
	"Yale School of Medicine",
}

// Registry holds the configured tracks, keyed by name.
type Registry map[string]Track

// NewRegistry builds the three tracks. Grant deadlines come from
// configuration; the poster form has none.
func NewRegistry(orgDeadline, studentDeadline time.Time) Registry {
	return Registry{
		TrackPoster:       posterTrack(),
		TrackOrganization: organizationTrack(orgDeadline),
		TrackStudent:      studentTrack(studentDeadline),
	}
}

func posterTrack() Track {
	fields := []FieldDef{
		{Name: "category", Label: "Category", Kind: KindSelect, Required: true, Options: models.PosterCategories},
		{Name: "lead_author", Label: "Full Name", Kind: KindText, Required: true},
		{Name: "contact_email", Label: "Contact Email", Kind: KindEmail, Required: true},
		{Name: "institution_lead", Label: "Institution (Lead)", Kind: KindText},
	}
	for i := 1; i <= MaxCoAuthors; i++ {
		n := strconv.Itoa(i)
		fields = append(fields,
			FieldDef{Name: "coauthor" + n, Label: "Co-Author " + n, Kind: KindText},
			FieldDef{Name: "institution_co" + n, Label: "Institution " + n, Kind: KindText},
		)
	}
	fields = append(fields,
		FieldDef{Name: "title", Label: "Title of Project", Kind: KindText, Required: true},
		FieldDef{Name: "abstract", Label: "Brief Abstract", Kind: KindLongText, Required: true, WordLimit: AbstractWordLimit},
	)
	return Track{
		Name:   TrackPoster,
		Title:  "NHCMA — Research Poster Presentations",
		Fields: fields,
		Files: []FileDef{
			{Name: "poster", Label: "Poster File", Folder: "posters", Accept: []string{".pdf"}},
		},
	}
}

func organizationTrack(deadline time.Time) Track {
	return Track{
		Name:     TrackOrganization,
		Title:    "Organization Application",
		Deadline: deadline,
		Fields: []FieldDef{
			{Name: "org_name", Label: "Name of Organization", Kind: KindText, Required: true},
			{Name: "applicant_name", Label: "Name of Applicant", Kind: KindText, Required: true},
			{Name: "email", Label: "Applicant Email", Kind: KindEmail, Required: true},
			{Name: "phone", Label: "Applicant Phone", Kind: KindText},
			{Name: "exec_dir", Label: "Executive Director", Kind: KindText},
			{Name: "exec_email", Label: "Executive Director Email", Kind: KindEmail},
			{Name: "exec_phone", Label: "Executive Director Phone", Kind: KindText},
			{Name: "mission", Label: "Organization Mission", Kind: KindLongText},
			{Name: "elig_nonprofit", Label: "Organization is a not-for-profit", Kind: KindCheckbox, Required: true},
			{Name: "elig_report", Label: "Recipient will present final report at the NHCMA winter meeting", Kind: KindCheckbox, Required: true},
			{Name: "elig_benefit", Label: "Funding will benefit residents of the Greater New Haven area", Kind: KindCheckbox, Required: true},
			{Name: "q1_issue", Label: "Public health issue addressed", Kind: KindLongText},
			{Name: "q2_align", Label: "Alignment with NHCMA Foundation mission", Kind: KindLongText},
			{Name: "q3_benefit", Label: "Direct benefit to Greater New Haven residents", Kind: KindLongText},
			{Name: "project_title", Label: "Project Title", Kind: KindText, Required: true},
			{Name: "description", Label: "Detailed project description", Kind: KindLongText},
			{Name: "budget_text", Label: "Itemized budget", Kind: KindLongText},
			{Name: "budget_total", Label: "Budget total (USD)", Kind: KindText},
			{Name: "timeline", Label: "Project timeline", Kind: KindLongText},
			{Name: "evaluation", Label: "Evaluation plan", Kind: KindLongText},
		},
		Files: []FileDef{
			{Name: "proposal", Label: "Proposal / Narrative", Folder: "org_proposal", Accept: []string{".pdf", ".doc", ".docx"}},
			{Name: "budget", Label: "Budget", Folder: "org_budget", Accept: []string{".pdf", ".xls", ".xlsx", ".csv"}},
			{Name: "other", Label: "Additional Materials", Folder: "org_other", Accept: []string{".pdf", ".doc", ".docx", ".zip"}},
		},
	}
}

func studentTrack(deadline time.Time) Track {
	return Track{
		Name:     TrackStudent,
		Title:    "Medical Student Application",
		Deadline: deadline,
		Fields: []FieldDef{
			{Name: "applicant_name", Label: "Applicant Name", Kind: KindText, Required: true},
			{Name: "school", Label: "Medical School", Kind: KindSelect, Required: true, Options: Schools},
			{Name: "grad_date", Label: "Projected Graduation Date", Kind: KindText},
			{Name: "email", Label: "School Email", Kind: KindEmail, Required: true},
			{Name: "phone", Label: "Phone", Kind: KindText, Required: true},
			{Name: "advisor_name", Label: "Advisor Name", Kind: KindText},
			{Name: "advisor_title", Label: "Advisor Title/Role", Kind: KindText},
			{Name: "advisor_email", Label: "Advisor Email", Kind: KindEmail},
			{Name: "elig_enrolled", Label: "Currently enrolled at Quinnipiac (Netter) or Yale SOM", Kind: KindCheckbox, Required: true},
			{Name: "elig_report", Label: "Will present results at the NHCMA winter meeting", Kind: KindCheckbox, Required: true},
			{Name: "q1_issue", Label: "Public health issue addressed", Kind: KindLongText},
			{Name: "q2_align", Label: "Alignment with NHCMA Foundation mission", Kind: KindLongText},
			{Name: "q3_benefit", Label: "Direct benefit to Greater New Haven residents", Kind: KindLongText},
			{Name: "project_title", Label: "Project Title", Kind: KindText, Required: true},
			{Name: "description", Label: "Detailed project/research description", Kind: KindLongText},
			{Name: "budget_text", Label: "Itemized budget", Kind: KindLongText},
			{Name: "budget_total", Label: "Budget total (USD)", Kind: KindText},
			{Name: "timeline", Label: "Timeline", Kind: KindLongText},
			{Name: "evaluation", Label: "Evaluation plan", Kind: KindLongText},
		},
		Files: []FileDef{
			{Name: "proposal", Label: "Proposal / Narrative", Folder: "stu_proposal", Accept: []string{".pdf", ".doc", ".docx"}},
			{Name: "budget", Label: "Budget", Folder: "stu_budget", Accept: []string{".pdf", ".xls", ".xlsx", ".csv"}},
			{Name: "cv", Label: "Curriculum Vitae", Folder: "stu_cv", Accept: []string{".pdf", ".doc", ".docx"}},
			{Name: "support_letter", Label: "Letter of Support", Folder: "stu_support", Accept: []string{".pdf", ".doc", ".docx"}},
		},
	}
}
