package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lutinemgmt/nhcma-intake/internal/models"
)

// Filter narrows admin listings. Zero values mean "no constraint".
type Filter struct {
	Category string // posters: Student / Resident / Fellow
	Track    string // grants: organization / student
	From     time.Time
	To       time.Time
}

// PosterRepo reads and writes the posters table.
type PosterRepo struct {
	pool *pgxpool.Pool
}

func NewPosterRepo(pool *pgxpool.Pool) *PosterRepo {
	return &PosterRepo{pool: pool}
}

// Insert writes exactly one row and returns the store-assigned id.
func (r *PosterRepo) Insert(ctx context.Context, p *models.Poster) (int64, error) {
	const q = `INSERT INTO posters (
			category, lead_author, coauthor1, coauthor2, coauthor3,
			institution_lead, institution_co1, institution_co2, institution_co3,
			title, abstract, poster_key, contact_email
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULLIF($12, ''), $13)
		RETURNING id, created_at`

	var id int64
	var createdAt time.Time
	err := r.pool.QueryRow(ctx, q,
		p.Category, p.LeadAuthor, p.CoAuthor1, p.CoAuthor2, p.CoAuthor3,
		p.InstitutionLead, p.InstitutionCo1, p.InstitutionCo2, p.InstitutionCo3,
		p.Title, p.Abstract, p.PosterKey, p.ContactEmail,
	).Scan(&id, &createdAt)
	if err != nil {
		return 0, fmt.Errorf("insert poster: %w", err)
	}
	p.ID = id
	p.CreatedAt = createdAt
	return id, nil
}

// List returns posters newest-first, optionally filtered by category and
// creation-date range.
func (r *PosterRepo) List(ctx context.Context, f Filter) ([]models.Poster, error) {
	q := `SELECT id, created_at, category, lead_author, coauthor1, coauthor2, coauthor3,
			institution_lead, institution_co1, institution_co2, institution_co3,
			title, abstract, COALESCE(poster_key, ''), contact_email
		FROM posters WHERE true`
	var args []any
	if f.Category != "" {
		args = append(args, f.Category)
		q += fmt.Sprintf(" AND category = $%d", len(args))
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
		return nil, fmt.Errorf("list posters: %w", err)
	}
	defer rows.Close()

	var posters []models.Poster
	for rows.Next() {
		var p models.Poster
		if err := rows.Scan(
			&p.ID, &p.CreatedAt, &p.Category, &p.LeadAuthor,
			&p.CoAuthor1, &p.CoAuthor2, &p.CoAuthor3,
			&p.InstitutionLead, &p.InstitutionCo1, &p.InstitutionCo2, &p.InstitutionCo3,
			&p.Title, &p.Abstract, &p.PosterKey, &p.ContactEmail,
		); err != nil {
			return nil, fmt.Errorf("scan poster: %w", err)
		}
		posters = append(posters, p)
	}
	return posters, rows.Err()
}

// Count returns the number of poster rows.
func (r *PosterRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM posters`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count posters: %w", err)
	}
	return n, nil
}

// Truncate empties the table and restarts the identity sequence. Part of
// the administrative cycle reset.
func (r *PosterRepo) Truncate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `TRUNCATE posters RESTART IDENTITY`); err != nil {
		return fmt.Errorf("truncate posters: %w", err)
	}
	return nil
}
