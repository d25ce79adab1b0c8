package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lutinemgmt/nhcma-intake/internal/models"
)

// GrantRepo reads and writes the shared grants submissions table.
type GrantRepo struct {
	pool *pgxpool.Pool
}

func NewGrantRepo(pool *pgxpool.Pool) *GrantRepo {
	return &GrantRepo{pool: pool}
}

// Insert writes exactly one row and returns the store-assigned id.
func (r *GrantRepo) Insert(ctx context.Context, g *models.GrantSubmission) (int64, error) {
	payload, err := json.Marshal(g.Payload)
	if err != nil {
		return 0, fmt.Errorf("encode payload: %w", err)
	}
	uploads, err := json.Marshal(g.Uploads)
	if err != nil {
		return 0, fmt.Errorf("encode uploads: %w", err)
	}

	const q = `INSERT INTO submissions (track, applicant_name, email, phone, payload_json, uploads_json)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	var id int64
	var createdAt time.Time
	err = r.pool.QueryRow(ctx, q, g.Track, g.ApplicantName, g.Email, g.Phone, payload, uploads).
		Scan(&id, &createdAt)
	if err != nil {
		return 0, fmt.Errorf("insert submission: %w", err)
	}
	g.ID = id
	g.CreatedAt = createdAt
	return id, nil
}

// List returns submissions newest-first, optionally filtered by track and
// creation-date range.
func (r *GrantRepo) List(ctx context.Context, f Filter) ([]models.GrantSubmission, error) {
	q := `SELECT id, created_at, track, applicant_name, email, phone, payload_json, uploads_json
		FROM submissions WHERE true`
	var args []any
	if f.Track != "" {
		args = append(args, f.Track)
		q += fmt.Sprintf(" AND track = $%d", len(args))
	}
	if !f.From.IsZero() {
		args = append(args, f.From)
		q += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if !f.To.IsZero() {
		args = append(args, f.To)
		q += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	q += " ORDER BY id DESC"

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var subs []models.GrantSubmission
	for rows.Next() {
		var g models.GrantSubmission
		var payload, uploads []byte
		if err := rows.Scan(&g.ID, &g.CreatedAt, &g.Track, &g.ApplicantName, &g.Email, &g.Phone, &payload, &uploads); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		if err := json.Unmarshal(payload, &g.Payload); err != nil {
			return nil, fmt.Errorf("decode payload for %d: %w", g.ID, err)
		}
		if err := json.Unmarshal(uploads, &g.Uploads); err != nil {
			return nil, fmt.Errorf("decode uploads for %d: %w", g.ID, err)
		}
		subs = append(subs, g)
	}
	return subs, rows.Err()
}

// Count returns the number of submission rows.
func (r *GrantRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM submissions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return n, nil
}

// Truncate empties the table and restarts the identity sequence. Part of
// the administrative cycle reset.
func (r *GrantRepo) Truncate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `TRUNCATE submissions RESTART IDENTITY`); err != nil {
		return fmt.Errorf("truncate submissions: %w", err)
	}
	return nil
}
