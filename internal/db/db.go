// Package db owns the service-role connection pool and the schema
// bootstrap. The DSN carries elevated credentials that bypass row-level
// security; it is only ever used server-side.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens and verifies a pgx pool for the given DSN.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the submission tables if they do not exist. The id
// columns are store-assigned; the category check constraint mirrors the
// poster form's fixed category set.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS posters (
			id               bigserial PRIMARY KEY,
			created_at       timestamptz NOT NULL DEFAULT now(),
			category         text NOT NULL CHECK (category IN ('Student', 'Resident', 'Fellow')),
			lead_author      text NOT NULL,
			coauthor1        text NOT NULL DEFAULT '',
			coauthor2        text NOT NULL DEFAULT '',
			coauthor3        text NOT NULL DEFAULT '',
			institution_lead text NOT NULL DEFAULT '',
			institution_co1  text NOT NULL DEFAULT '',
			institution_co2  text NOT NULL DEFAULT '',
			institution_co3  text NOT NULL DEFAULT '',
			title            text NOT NULL,
			abstract         text NOT NULL,
			poster_key       text,
			contact_email    text NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS submissions (
			id             bigserial PRIMARY KEY,
			created_at     timestamptz NOT NULL DEFAULT now(),
			track          text NOT NULL CHECK (track IN ('organization', 'student')),
			applicant_name text NOT NULL,
			email          text NOT NULL,
			phone          text NOT NULL DEFAULT '',
			payload_json   jsonb NOT NULL DEFAULT '{}',
			uploads_json   jsonb NOT NULL DEFAULT '{}'
		)`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
