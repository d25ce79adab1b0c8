package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lutinemgmt/nhcma-intake/internal/intake"
	"github.com/lutinemgmt/nhcma-intake/internal/session"
)

func formMux(orgDeadline time.Time) (*chi.Mux, *session.Guard) {
	guard := session.NewGuard(0)
	tracks := intake.NewRegistry(orgDeadline, time.Now().Add(48*time.Hour))
	h := NewFormHandler(tracks, guard)
	mux := chi.NewRouter()
	mux.Get("/api/v1/forms/{track}", h.Get)
	return mux, guard
}

func getForm(t *testing.T, mux *chi.Mux, track string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/forms/"+track, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	var resp map[string]any
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return rec, resp
}

func TestGetFormMintsToken(t *testing.T) {
	mux, guard := formMux(time.Now().Add(24 * time.Hour))

	rec, resp := getForm(t, mux, "poster")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	token, _ := resp["sessionToken"].(string)
	if token == "" {
		t.Fatal("response missing session token")
	}
	if err := guard.Check(token); err != nil {
		t.Fatalf("minted token should be valid: %v", err)
	}
	if open, _ := resp["open"].(bool); !open {
		t.Error("poster form is always open")
	}
}

func TestGetFormDistinctTokensPerRender(t *testing.T) {
	mux, _ := formMux(time.Now().Add(24 * time.Hour))

	_, a := getForm(t, mux, "poster")
	_, b := getForm(t, mux, "poster")
	if a["sessionToken"] == b["sessionToken"] {
		t.Fatal("each render must mint a fresh token")
	}
}

func TestGetFormClosedTrack(t *testing.T) {
	mux, _ := formMux(time.Now().Add(-time.Hour))

	rec, resp := getForm(t, mux, "organization")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if open, _ := resp["open"].(bool); open {
		t.Error("organization track past its deadline should report closed")
	}
}

func TestGetFormUnknownTrack(t *testing.T) {
	mux, _ := formMux(time.Now())
	rec, _ := getForm(t, mux, "fellowship")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
