package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every environment-driven setting the service needs.
// Secrets (service-role DSN, storage keys, SMTP password, admin password,
// JWT secret) are expected to come from the deployment's secret store.
type Config struct {
	HTTPAddr string `env:"INTAKE_ADDR" envDefault:":8080"`
	GelfAddr string `env:"INTAKE_GELF_ADDR"`

	// Service-role connection string. Bypasses row-level security and
	// must never be exposed to clients.
	DatabaseURL string `env:"DATABASE_URL,required"`

	StorageEndpoint  string        `env:"STORAGE_ENDPOINT,required"`
	StorageAccessKey string        `env:"STORAGE_ACCESS_KEY,required"`
	StorageSecretKey string        `env:"STORAGE_SECRET_KEY,required"`
	StorageUseSSL    bool          `env:"STORAGE_USE_SSL" envDefault:"true"`
	PostersBucket    string        `env:"POSTERS_BUCKET" envDefault:"nhcma-posters"`
	UploadsBucket    string        `env:"UPLOADS_BUCKET" envDefault:"nhcma-uploads"`
	SignedURLExpiry  time.Duration `env:"SIGNED_URL_EXPIRY" envDefault:"168h"`

	SMTPHost     string `env:"SMTP_HOST" envDefault:"smtp.office365.com"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	FromEmail    string `env:"SMTP_FROM_EMAIL"`
	FromName     string `env:"SMTP_FROM_NAME" envDefault:"NHCMA Foundation"`
	CCEmail      string `env:"CC_EMAIL" envDefault:"nhcma@lutinemanagement.com"`

	AdminPassword string `env:"ADMIN_PASSWORD,required"`
	JWTSecret     string `env:"INTAKE_JWT_SECRET,required"`

	// Grant submission deadlines, RFC3339. Posters have no deadline.
	OrgDeadline     time.Time `env:"ORG_DEADLINE" envDefault:"2025-10-17T16:59:00-04:00"`
	StudentDeadline time.Time `env:"STUDENT_DEADLINE" envDefault:"2025-10-19T23:59:00-04:00"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.FromEmail == "" {
		cfg.FromEmail = cfg.SMTPUser
	}
	return &cfg, nil
}
