package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/lutinemgmt/nhcma-intake/internal/auth"
	"github.com/lutinemgmt/nhcma-intake/internal/config"
	"github.com/lutinemgmt/nhcma-intake/internal/db"
	"github.com/lutinemgmt/nhcma-intake/internal/gelf"
	"github.com/lutinemgmt/nhcma-intake/internal/handler"
	"github.com/lutinemgmt/nhcma-intake/internal/intake"
	"github.com/lutinemgmt/nhcma-intake/internal/mailer"
	"github.com/lutinemgmt/nhcma-intake/internal/repository"
	"github.com/lutinemgmt/nhcma-intake/internal/router"
	"github.com/lutinemgmt/nhcma-intake/internal/session"
	"github.com/lutinemgmt/nhcma-intake/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// GELF UDP logging
	if cfg.GelfAddr != "" {
		gelfWriter, err := gelf.New(cfg.GelfAddr)
		if err != nil {
			log.Printf("Warning: GELF init failed: %v", err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stderr, gelfWriter))
			log.Printf("GELF logging: enabled (%s)", cfg.GelfAddr)
		}
	}

	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()
	if err := db.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}
	log.Printf("Connected to database")

	store, err := storage.New(cfg.StorageEndpoint, cfg.StorageAccessKey, cfg.StorageSecretKey, cfg.StorageUseSSL, cfg.SignedURLExpiry)
	if err != nil {
		log.Fatalf("Failed to create storage client: %v", err)
	}
	for _, bucket := range []string{cfg.PostersBucket, cfg.UploadsBucket} {
		if err := store.EnsureBucket(ctx, bucket); err != nil {
			log.Printf("Warning: ensure bucket %s failed: %v", bucket, err)
		}
	}

	// Repositories
	posterRepo := repository.NewPosterRepo(pool)
	grantRepo := repository.NewGrantRepo(pool)

	// Intake pipeline pieces
	tracks := intake.NewRegistry(cfg.OrgDeadline, cfg.StudentDeadline)
	guard := session.NewGuard(session.DefaultTTL)
	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.FromEmail, cfg.FromName, cfg.CCEmail)
	if !mail.Enabled() {
		log.Printf("Warning: SMTP credentials missing, confirmations will be skipped")
	}
	verifier := auth.NewSharedSecret(cfg.AdminPassword)

	// Handlers
	formH := handler.NewFormHandler(tracks, guard)
	subH := handler.NewSubmissionHandler(tracks, guard, store, posterRepo, grantRepo, mail, cfg.PostersBucket, cfg.UploadsBucket)
	adminH := handler.NewAdminHandler(verifier, cfg.JWTSecret, posterRepo, grantRepo, store, cfg.PostersBucket, cfg.UploadsBucket)

	r := router.New(cfg.JWTSecret, formH, subH, adminH)

	log.Printf("Intake server starting on %s", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
