package models

import "time"

// Poster categories accepted by the posters table check constraint.
var PosterCategories = []string{"Student", "Resident", "Fellow"}

// Poster is one research-poster submission. PosterKey is the object-store
// key of the uploaded PDF (empty when no file was attached); it is resolved
// to a signed URL on read, never stored as a URL.
type Poster struct {
	ID              int64     `json:"id,omitempty"`
	CreatedAt       time.Time `json:"createdAt,omitempty"`
	Category        string    `json:"category"`
	LeadAuthor      string    `json:"leadAuthor"`
	CoAuthor1       string    `json:"coauthor1,omitempty"`
	CoAuthor2       string    `json:"coauthor2,omitempty"`
	CoAuthor3       string    `json:"coauthor3,omitempty"`
	InstitutionLead string    `json:"institutionLead,omitempty"`
	InstitutionCo1  string    `json:"institutionCo1,omitempty"`
	InstitutionCo2  string    `json:"institutionCo2,omitempty"`
	InstitutionCo3  string    `json:"institutionCo3,omitempty"`
	Title           string    `json:"title"`
	Abstract        string    `json:"abstract"`
	PosterKey       string    `json:"posterKey,omitempty"`
	ContactEmail    string    `json:"contactEmail"`
}
