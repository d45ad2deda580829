package repository

import (
	"context"
	"fmt"

	"github.com/cpatestos/bloomrn-app-esrvct/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ShiftRepository handles the shifts table. Append-only.
type ShiftRepository struct {
	db *pgxpool.Pool
}

// NewShiftRepository creates a new shift repository.
func NewShiftRepository(db *pgxpool.Pool) *ShiftRepository {
	return &ShiftRepository{db: db}
}

// Insert writes one shift row.
func (r *ShiftRepository) Insert(ctx context.Context, userID string, s *models.Shift) error {
	query := `
		INSERT INTO shifts (id, user_id, date, start_time, end_time, type, proud_of, releasing, meaningful_moment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
	`
	_, err := r.db.Exec(ctx, query,
		s.ID, userID, s.Date, s.StartTime, s.EndTime, s.Type, s.ProudOf, s.Releasing, s.MeaningfulMoment,
	)
	if err != nil {
		return fmt.Errorf("failed to insert shift: %w", err)
	}
	return nil
}

// List retrieves the user's shifts, newest date first.
func (r *ShiftRepository) List(ctx context.Context, userID string) ([]models.Shift, error) {
	query := `
		SELECT id, date, start_time, end_time, type, proud_of, releasing, meaningful_moment, created_at
		FROM shifts
		WHERE user_id = $1
		ORDER BY date DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	var shifts []models.Shift
	for rows.Next() {
		var s models.Shift
		if err := rows.Scan(&s.ID, &s.Date, &s.StartTime, &s.EndTime, &s.Type, &s.ProudOf, &s.Releasing, &s.MeaningfulMoment, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shifts: %w", err)
	}
	return shifts, nil
}
