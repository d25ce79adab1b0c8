package handler

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lutinemgmt/nhcma-intake/internal/intake"
	"github.com/lutinemgmt/nhcma-intake/internal/mailer"
	"github.com/lutinemgmt/nhcma-intake/internal/models"
	"github.com/lutinemgmt/nhcma-intake/internal/session"
)

const maxUploadBytes = 32 << 20

// ObjectStore is the slice of the storage adapter the submission path uses.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, folder, filename string, data []byte, contentType string) (string, error)
	SignedURL(ctx context.Context, bucket, key string) (string, error)
}

// PosterWriter inserts validated poster records.
type PosterWriter interface {
	Insert(ctx context.Context, p *models.Poster) (int64, error)
}

// GrantWriter inserts validated grant submissions.
type GrantWriter interface {
	Insert(ctx context.Context, g *models.GrantSubmission) (int64, error)
}

// Sender delivers confirmation email.
type Sender interface {
	Enabled() bool
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SubmissionHandler runs the intake pipeline: deadline check, duplicate
// guard, validation, optional uploads, the single row insert, and the
// confirmation email. Steps run sequentially; a failure halts the rest.
type SubmissionHandler struct {
	tracks        intake.Registry
	guard         *session.Guard
	store         ObjectStore
	posters       PosterWriter
	grants        GrantWriter
	mail          Sender
	postersBucket string
	uploadsBucket string
	now           func() time.Time
}

func NewSubmissionHandler(
	tracks intake.Registry,
	guard *session.Guard,
	store ObjectStore,
	posters PosterWriter,
	grants GrantWriter,
	mail Sender,
	postersBucket, uploadsBucket string,
) *SubmissionHandler {
	return &SubmissionHandler{
		tracks:        tracks,
		guard:         guard,
		store:         store,
		posters:       posters,
		grants:        grants,
		mail:          mail,
		postersBucket: postersBucket,
		uploadsBucket: uploadsBucket,
		now:           time.Now,
	}
}

func (h *SubmissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "track")
	track, ok := h.tracks[name]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown form")
		return
	}
	if !track.Open(h.now()) {
		writeError(w, http.StatusForbidden, "the submission deadline has passed")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	token := r.FormValue("session_token")
	if err := h.guard.Check(token); err != nil {
		switch {
		case errors.Is(err, session.ErrDuplicate):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	raw := make(map[string]string, len(track.Fields))
	for _, f := range track.Fields {
		raw[f.Name] = r.FormValue(f.Name)
	}
	values, fieldErrs := intake.Validate(track, raw)
	if fieldErrs != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": fieldErrs})
		return
	}

	// Uploads before the insert: an upload failure aborts the submission
	// and no row is written. The uploaded object is not deleted on a later
	// failure; see the cycle reset for cleanup.
	uploads, err := h.storeFiles(r, track)
	if err != nil {
		log.Printf("Warning: upload failed: %v", err)
		writeError(w, http.StatusInternalServerError, "file upload failed, please try again")
		return
	}

	switch name {
	case intake.TrackPoster:
		h.createPoster(w, r, token, values, uploads)
	default:
		h.createGrant(w, r, track, token, values, uploads)
	}
}

// storeFiles uploads each provided file slot and returns slot name → key.
func (h *SubmissionHandler) storeFiles(r *http.Request, track intake.Track) (map[string]string, error) {
	bucket := h.bucketFor(track.Name)
	uploads := make(map[string]string)
	for _, def := range track.Files {
		file, header, err := r.FormFile(def.Name)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, err
		}
		key, err := h.store.Upload(r.Context(), bucket, def.Folder, header.Filename, data, header.Header.Get("Content-Type"))
		if err != nil {
			return nil, err
		}
		uploads[def.Name] = key
	}
	return uploads, nil
}

func (h *SubmissionHandler) bucketFor(trackName string) string {
	if trackName == intake.TrackPoster {
		return h.postersBucket
	}
	return h.uploadsBucket
}

func (h *SubmissionHandler) createPoster(w http.ResponseWriter, r *http.Request, token string, values, uploads map[string]string) {
	p := &models.Poster{
		Category:        values["category"],
		LeadAuthor:      values["lead_author"],
		CoAuthor1:       values["coauthor1"],
		CoAuthor2:       values["coauthor2"],
		CoAuthor3:       values["coauthor3"],
		InstitutionLead: values["institution_lead"],
		InstitutionCo1:  values["institution_co1"],
		InstitutionCo2:  values["institution_co2"],
		InstitutionCo3:  values["institution_co3"],
		Title:           values["title"],
		Abstract:        values["abstract"],
		PosterKey:       uploads["poster"],
		ContactEmail:    values["contact_email"],
	}

	id, err := h.posters.Insert(r.Context(), p)
	if err != nil {
		log.Printf("Warning: poster insert failed: %v", err)
		writeError(w, http.StatusInternalServerError, "there was a problem saving your submission, please try again")
		return
	}
	h.guard.Consume(token)

	var posterURL string
	if p.PosterKey != "" {
		posterURL, err = h.store.SignedURL(r.Context(), h.postersBucket, p.PosterKey)
		if err != nil {
			log.Printf("Warning: could not sign %s: %v", p.PosterKey, err)
		}
	}

	subject, body, err := mailer.PosterConfirmation(p, posterURL)
	if err != nil {
		log.Printf("Warning: compose confirmation failed: %v", err)
	} else {
		h.notify(r.Context(), p.ContactEmail, subject, body)
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":      id,
		"message": "Thank you! Your poster has been submitted.",
	})
}

func (h *SubmissionHandler) createGrant(w http.ResponseWriter, r *http.Request, track intake.Track, token string, values, uploads map[string]string) {
	payload := make(map[string]any, len(values))
	eligibility := make(map[string]bool)
	for _, f := range track.Fields {
		if f.Kind == intake.KindCheckbox {
			eligibility[strings.TrimPrefix(f.Name, "elig_")] = values[f.Name] == "true"
			continue
		}
		payload[f.Name] = values[f.Name]
	}
	payload["eligibility"] = eligibility

	g := &models.GrantSubmission{
		Track:         track.Name,
		ApplicantName: values["applicant_name"],
		Email:         values["email"],
		Phone:         values["phone"],
		Payload:       payload,
		Uploads:       uploads,
	}

	id, err := h.grants.Insert(r.Context(), g)
	if err != nil {
		log.Printf("Warning: submission insert failed: %v", err)
		writeError(w, http.StatusInternalServerError, "there was a problem saving your submission, please try again")
		return
	}
	h.guard.Consume(token)

	subject, body, err := mailer.GrantConfirmation(g)
	if err != nil {
		log.Printf("Warning: compose confirmation failed: %v", err)
	} else {
		h.notify(r.Context(), g.Email, subject, body)
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":      id,
		"message": "Thank you! Your application has been submitted.",
	})
}

// notify sends the confirmation. The row is already committed: failures
// are warnings, never rollbacks.
func (h *SubmissionHandler) notify(ctx context.Context, to, subject, body string) {
	if !h.mail.Enabled() {
		log.Printf("Warning: email not sent to %s: SMTP credentials are missing", to)
		return
	}
	if err := h.mail.Send(ctx, to, subject, body); err != nil {
		log.Printf("Warning: email send failed: %v", err)
	}
}
