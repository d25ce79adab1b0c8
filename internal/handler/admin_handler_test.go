package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lutinemgmt/nhcma-intake/internal/auth"
	"github.com/lutinemgmt/nhcma-intake/internal/models"
)

func adminEnv(t *testing.T) (*AdminHandler, *fakePosters, *fakeGrants, *fakeStore) {
	t.Helper()
	posters := &fakePosters{rows: []models.Poster{
		{
			ID: 1, CreatedAt: time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC),
			Category: "Student", LeadAuthor: "Jane Doe", Title: "Novel Biomarker",
			Abstract: "Abstract.", ContactEmail: "jane@example.edu",
			PosterKey: "posters/20251001T120000Z_doe.pdf",
		},
		{
			ID: 2, CreatedAt: time.Date(2025, 10, 2, 12, 0, 0, 0, time.UTC),
			Category: "Fellow", LeadAuthor: "John Roe", Title: "Sepsis Outcomes",
			Abstract: "Abstract.", ContactEmail: "john@example.org",
		},
	}}
	grants := &fakeGrants{rows: []models.GrantSubmission{
		{
			ID: 1, CreatedAt: time.Date(2025, 10, 10, 12, 0, 0, 0, time.UTC),
			Track: models.TrackOrganization, ApplicantName: "Ana Silva",
			Email: "ana@healthorg.org", Phone: "203-555-0100",
			Payload: map[string]any{"org_name": "Health Org", "project_title": "Mobile Clinic", "budget_total": "2500"},
			Uploads: map[string]string{"proposal": "org_proposal/20251010T120000Z_prop.pdf"},
		},
	}}
	store := &fakeStore{}
	h := NewAdminHandler(auth.NewSharedSecret("hunter2"), "jwt-secret", posters, grants, store, "nhcma-posters", "nhcma-uploads")
	return h, posters, grants, store
}

func TestAdminLogin(t *testing.T) {
	h, _, _, _ := adminEnv(t)

	body, _ := json.Marshal(map[string]string{"password": "hunter2"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, err := auth.ValidateToken("jwt-secret", resp.Token); err != nil {
		t.Fatalf("issued token invalid: %v", err)
	}
}

func TestAdminLoginRejectionIsGeneric(t *testing.T) {
	h, _, _, _ := adminEnv(t)

	for _, pw := range []string{"", "wrong", "hunter"} {
		body, _ := json.Marshal(map[string]string{"password": pw})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		h.Login(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("password %q: status = %d, want 401", pw, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "access denied") {
			t.Errorf("password %q: body %q should stay generic", pw, rec.Body)
		}
	}
}

func TestAdminListResolvesSignedURLs(t *testing.T) {
	h, _, _, store := adminEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/submissions", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Posters []struct {
			PosterURL string `json:"PosterURL"`
		} `json:"posters"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Posters) != 2 {
		t.Fatalf("posters = %d", len(resp.Posters))
	}
	if !strings.HasPrefix(resp.Posters[0].PosterURL, "https://signed.example.com/") {
		t.Errorf("poster url = %q, want signed", resp.Posters[0].PosterURL)
	}
	if resp.Posters[1].PosterURL != "" {
		t.Errorf("poster without file must have no url, got %q", resp.Posters[1].PosterURL)
	}
	if len(store.signedFor) == 0 {
		t.Error("signing should be on demand at read time")
	}
}

func TestAdminListBadDateFilter(t *testing.T) {
	h, _, _, _ := adminEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/submissions?from=yesterday", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAdminExportCSVPosters(t *testing.T) {
	h, _, _, _ := adminEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/export/csv?track=poster", nil)
	rec := httptest.NewRecorder()
	h.ExportCSV(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("content type = %q", ct)
	}
	lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want header + 2 rows", len(lines))
	}
	if !strings.Contains(rec.Body.String(), "https://signed.example.com/") {
		t.Error("csv should carry signed URLs as plain text")
	}
}

func TestAdminExportScoring(t *testing.T) {
	h, _, _, _ := adminEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/export/scoring.csv", nil)
	rec := httptest.NewRecorder()
	h.ExportScoring(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Mobile Clinic") || !strings.Contains(body, "2500") {
		t.Errorf("scoring export missing key columns: %s", body)
	}
	if strings.Contains(body, "https://signed.example.com/") {
		t.Error("scoring export must not carry attachment links")
	}
}

func TestAdminReset(t *testing.T) {
	h, posters, grants, store := adminEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/reset", nil)
	rec := httptest.NewRecorder()
	h.Reset(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(posters.rows) != 0 || len(grants.rows) != 0 {
		t.Error("reset must truncate both tables")
	}
	if len(store.cleared) != 2 {
		t.Errorf("cleared buckets = %v, want both", store.cleared)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	h, _, _, _ := adminEnv(t)

	mux := chi.NewRouter()
	mux.Group(func(r chi.Router) {
		r.Use(auth.Middleware("jwt-secret"))
		r.Get("/api/v1/admin/submissions", h.List)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/submissions", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 without a token", rec.Code)
	}

	token, err := auth.GenerateToken("jwt-secret")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/submissions", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d with a valid token", rec.Code)
	}
}
