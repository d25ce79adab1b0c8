package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lutinemgmt/nhcma-intake/internal/intake"
	"github.com/lutinemgmt/nhcma-intake/internal/session"
)

// FormHandler serves form descriptors. Rendering a form mints the session
// token the subsequent submission must carry.
type FormHandler struct {
	tracks intake.Registry
	guard  *session.Guard
	now    func() time.Time
}

func NewFormHandler(tracks intake.Registry, guard *session.Guard) *FormHandler {
	return &FormHandler{tracks: tracks, guard: guard, now: time.Now}
}

func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "track")
	track, ok := h.tracks[name]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown form")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"track":        track,
		"open":         track.Open(h.now()),
		"sessionToken": h.guard.Mint(),
	})
}
