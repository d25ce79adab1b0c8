package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/lutinemgmt/nhcma-intake/internal/auth"
	"github.com/lutinemgmt/nhcma-intake/internal/export"
	"github.com/lutinemgmt/nhcma-intake/internal/intake"
	"github.com/lutinemgmt/nhcma-intake/internal/models"
	"github.com/lutinemgmt/nhcma-intake/internal/repository"
)

// PosterReader is the admin read/reset surface over the posters table.
type PosterReader interface {
	List(ctx context.Context, f repository.Filter) ([]models.Poster, error)
	Truncate(ctx context.Context) error
}

// GrantReader is the admin read/reset surface over the submissions table.
type GrantReader interface {
	List(ctx context.Context, f repository.Filter) ([]models.GrantSubmission, error)
	Truncate(ctx context.Context) error
}

// BucketStore is the slice of the storage adapter the admin surface uses.
type BucketStore interface {
	SignedURL(ctx context.Context, bucket, key string) (string, error)
	Clear(ctx context.Context, bucket string) error
}

// AdminHandler gates the read side behind the configured credential and
// serves listings, exports, and the cycle reset.
type AdminHandler struct {
	verifier      auth.Verifier
	jwtSecret     string
	posters       PosterReader
	grants        GrantReader
	store         BucketStore
	postersBucket string
	uploadsBucket string
}

func NewAdminHandler(
	verifier auth.Verifier,
	jwtSecret string,
	posters PosterReader,
	grants GrantReader,
	store BucketStore,
	postersBucket, uploadsBucket string,
) *AdminHandler {
	return &AdminHandler{
		verifier:      verifier,
		jwtSecret:     jwtSecret,
		posters:       posters,
		grants:        grants,
		store:         store,
		postersBucket: postersBucket,
		uploadsBucket: uploadsBucket,
	}
}

// Login exchanges the admin password for a session token. Rejection is
// generic regardless of why the password did not match.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !h.verifier.Verify(req.Password) {
		writeError(w, http.StatusUnauthorized, "access denied")
		return
	}
	token, err := auth.GenerateToken(h.jwtSecret)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// List returns posters and grant submissions newest-first, attachment keys
// resolved to signed URLs. Query params: track, category, from, to.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := map[string]any{}

	if filter.Track == "" || filter.Track == intake.TrackPoster {
		posters, err := h.posters.List(r.Context(), repository.Filter{
			Category: filter.Category, From: filter.From, To: filter.To,
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not load posters")
			return
		}
		resp["posters"] = h.posterRows(r.Context(), posters)
	}

	if filter.Track != intake.TrackPoster {
		grants, err := h.grants.List(r.Context(), repository.Filter{
			Track: grantTrackFilter(filter.Track), From: filter.From, To: filter.To,
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not load submissions")
			return
		}
		resp["grants"] = h.grantRows(r.Context(), grants)
	}

	writeJSON(w, http.StatusOK, resp)
}

// ExportCSV streams the full CSV export: posters for ?track=poster,
// grants otherwise. Attachment columns carry the signed URL as text.
func (h *AdminHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if filter.Track == intake.TrackPoster {
		posters, err := h.posters.List(r.Context(), repository.Filter{Category: filter.Category, From: filter.From, To: filter.To})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not load posters")
			return
		}
		setDownload(w, "nhcma_posters.csv", "text/csv")
		if err := export.PostersCSV(w, h.posterRows(r.Context(), posters)); err != nil {
			log.Printf("Warning: poster csv export failed: %v", err)
		}
		return
	}

	grants, err := h.grants.List(r.Context(), repository.Filter{Track: grantTrackFilter(filter.Track), From: filter.From, To: filter.To})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not load submissions")
		return
	}
	setDownload(w, "nhcma_grants_submissions.csv", "text/csv")
	if err := export.GrantsCSV(w, h.grantRows(r.Context(), grants)); err != nil {
		log.Printf("Warning: grants csv export failed: %v", err)
	}
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportXLSX streams the spreadsheet export with attachment cells as
// native clickable hyperlinks.
func (h *AdminHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if filter.Track == intake.TrackPoster {
		posters, err := h.posters.List(r.Context(), repository.Filter{Category: filter.Category, From: filter.From, To: filter.To})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not load posters")
			return
		}
		setDownload(w, "nhcma_posters.xlsx", xlsxContentType)
		if err := export.PostersXLSX(w, h.posterRows(r.Context(), posters)); err != nil {
			log.Printf("Warning: poster xlsx export failed: %v", err)
		}
		return
	}

	grants, err := h.grants.List(r.Context(), repository.Filter{Track: grantTrackFilter(filter.Track), From: filter.From, To: filter.To})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not load submissions")
		return
	}
	setDownload(w, "nhcma_grants_submissions.xlsx", xlsxContentType)
	if err := export.GrantsXLSX(w, h.grantRows(r.Context(), grants)); err != nil {
		log.Printf("Warning: grants xlsx export failed: %v", err)
	}
}

// ExportScoring streams the reduced scoring export for grants.
func (h *AdminHandler) ExportScoring(w http.ResponseWriter, r *http.Request) {
	grants, err := h.grants.List(r.Context(), repository.Filter{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not load submissions")
		return
	}
	setDownload(w, "nhcma_grants_scoring_export.csv", "text/csv")
	if err := export.ScoringCSV(w, h.grantRows(r.Context(), grants)); err != nil {
		log.Printf("Warning: scoring export failed: %v", err)
	}
}

// Reset starts a new submission cycle: truncates both tables (restarting
// identity) and clears both buckets.
func (h *AdminHandler) Reset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.posters.Truncate(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "reset failed: posters table")
		return
	}
	if err := h.grants.Truncate(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "reset failed: submissions table")
		return
	}
	for _, bucket := range []string{h.postersBucket, h.uploadsBucket} {
		if err := h.store.Clear(ctx, bucket); err != nil {
			writeError(w, http.StatusInternalServerError, "reset failed: bucket "+bucket)
			return
		}
	}
	log.Printf("cycle reset: tables truncated, buckets cleared")
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset complete"})
}

func (h *AdminHandler) posterRows(ctx context.Context, posters []models.Poster) []export.PosterRow {
	rows := make([]export.PosterRow, 0, len(posters))
	for _, p := range posters {
		row := export.PosterRow{Poster: p}
		if p.PosterKey != "" {
			url, err := h.store.SignedURL(ctx, h.postersBucket, p.PosterKey)
			if err != nil {
				log.Printf("Warning: could not sign %s: %v", p.PosterKey, err)
			} else {
				row.PosterURL = url
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func (h *AdminHandler) grantRows(ctx context.Context, grants []models.GrantSubmission) []export.GrantRow {
	rows := make([]export.GrantRow, 0, len(grants))
	for _, g := range grants {
		row := export.GrantRow{GrantSubmission: g, UploadURLs: make(map[string]string, len(g.Uploads))}
		for kind, key := range g.Uploads {
			if key == "" {
				continue
			}
			url, err := h.store.SignedURL(ctx, h.uploadsBucket, key)
			if err != nil {
				log.Printf("Warning: could not sign %s: %v", key, err)
				continue
			}
			row.UploadURLs[kind] = url
		}
		rows = append(rows, row)
	}
	return rows
}

type listFilter struct {
	Track    string
	Category string
	From     time.Time
	To       time.Time
}

func parseFilter(r *http.Request) (listFilter, error) {
	q := r.URL.Query()
	f := listFilter{
		Track:    q.Get("track"),
		Category: q.Get("category"),
	}
	var err error
	if f.From, err = parseDate(q.Get("from"), false); err != nil {
		return f, err
	}
	if f.To, err = parseDate(q.Get("to"), true); err != nil {
		return f, err
	}
	return f, nil
}

// parseDate accepts RFC3339 or a bare date; a bare "to" date means end of
// that day.
func parseDate(s string, endOfDay bool) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

func grantTrackFilter(track string) string {
	if track == intake.TrackOrganization || track == intake.TrackStudent {
		return track
	}
	return ""
}

func setDownload(w http.ResponseWriter, filename, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
}
