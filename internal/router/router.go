package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/lutinemgmt/nhcma-intake/internal/auth"
	"github.com/lutinemgmt/nhcma-intake/internal/handler"
	mw "github.com/lutinemgmt/nhcma-intake/internal/middleware"
)

func New(
	jwtSecret string,
	formH *handler.FormHandler,
	subH *handler.SubmissionHandler,
	adminH *handler.AdminHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Get("/forms/{track}", formH.Get)
		r.Post("/submissions/{track}", subH.Create)
		r.Post("/admin/login", adminH.Login)

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(jwtSecret))

			r.Get("/admin/submissions", adminH.List)
			r.Get("/admin/export/csv", adminH.ExportCSV)
			r.Get("/admin/export/xlsx", adminH.ExportXLSX)
			r.Get("/admin/export/scoring.csv", adminH.ExportScoring)
			r.Post("/admin/reset", adminH.Reset)
		})
	})

	return r
}
