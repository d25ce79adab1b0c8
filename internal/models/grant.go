package models

import "time"

// Grant tracks sharing the submissions table.
const (
	TrackOrganization = "organization"
	TrackStudent      = "student"
)

// GrantSubmission is one grant application. Both tracks share the table:
// the track-specific answers live in Payload and the object-store keys of
// the uploaded documents live in Uploads, keyed by document type
// (proposal, budget, cv, support_letter, other).
type GrantSubmission struct {
	ID            int64             `json:"id,omitempty"`
	CreatedAt     time.Time         `json:"createdAt,omitempty"`
	Track         string            `json:"track"`
	ApplicantName string            `json:"applicantName"`
	Email         string            `json:"email"`
	Phone         string            `json:"phone,omitempty"`
	Payload       map[string]any    `json:"payload"`
	Uploads       map[string]string `json:"uploads,omitempty"`
}

// PayloadString returns a string payload field, or "" when absent.
func (g *GrantSubmission) PayloadString(key string) string {
	if g.Payload == nil {
		return ""
	}
	s, _ := g.Payload[key].(string)
	return s
}
