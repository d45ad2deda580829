package repository

import (
	"context"
	"fmt"

	"github.com/cpatestos/bloomrn-app-esrvct/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ReflectionRepository handles the barriers and challenges tables, which
// share a row shape and differ only in their category enum. One instance
// is bound to one table.
type ReflectionRepository struct {
	db    *pgxpool.Pool
	table string
}

// NewBarrierRepository creates a repository over the barriers table.
func NewBarrierRepository(db *pgxpool.Pool) *ReflectionRepository {
	return &ReflectionRepository{db: db, table: "barriers"}
}

// NewChallengeRepository creates a repository over the challenges table.
func NewChallengeRepository(db *pgxpool.Pool) *ReflectionRepository {
	return &ReflectionRepository{db: db, table: "challenges"}
}

// Insert writes one entry row. Append-only.
func (r *ReflectionRepository) Insert(ctx context.Context, userID string, e *models.ReflectionEntry) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, date, category, description, action_step, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
	`, r.table)
	if _, err := r.db.Exec(ctx, query, e.ID, userID, e.Date, e.Category, e.Description, e.ActionStep); err != nil {
		return fmt.Errorf("failed to insert %s entry: %w", r.table, err)
	}
	return nil
}

// List retrieves the user's entries, newest date first.
func (r *ReflectionRepository) List(ctx context.Context, userID string) ([]models.ReflectionEntry, error) {
	query := fmt.Sprintf(`
		SELECT id, date, category, description, action_step, created_at
		FROM %s
		WHERE user_id = $1
		ORDER BY date DESC
	`, r.table)
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s entries: %w", r.table, err)
	}
	defer rows.Close()

	var entries []models.ReflectionEntry
	for rows.Next() {
		var e models.ReflectionEntry
		if err := rows.Scan(&e.ID, &e.Date, &e.Category, &e.Description, &e.ActionStep, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan %s entry: %w", r.table, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s entries: %w", r.table, err)
	}
	return entries, nil
}
