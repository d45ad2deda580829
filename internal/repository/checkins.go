package repository

import (
	"context"
	"fmt"

	"github.com/cpatestos/bloomrn-app-esrvct/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CheckInRepository handles the daily_checkins table, unique on
// (user_id, date). A same-day resubmission overwrites, never duplicates.
type CheckInRepository struct {
	db *pgxpool.Pool
}

// NewCheckInRepository creates a new check-in repository.
func NewCheckInRepository(db *pgxpool.Pool) *CheckInRepository {
	return &CheckInRepository{db: db}
}

// Upsert writes one check-in row, last write wins per (user_id, date).
func (r *CheckInRepository) Upsert(ctx context.Context, userID string, c *models.DailyCheckIn) error {
	query := `
		INSERT INTO daily_checkins (id, user_id, date, mood, stress, energy, note, gratitude, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		ON CONFLICT (user_id, date) DO UPDATE SET
			mood = EXCLUDED.mood,
			stress = EXCLUDED.stress,
			energy = EXCLUDED.energy,
			note = EXCLUDED.note,
			gratitude = EXCLUDED.gratitude
	`
	_, err := r.db.Exec(ctx, query,
		c.ID, userID, c.Date, c.Mood, c.Stress, c.Energy, c.Note, c.Gratitude,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert check-in: %w", err)
	}
	return nil
}

// List retrieves the user's check-ins, newest date first.
func (r *CheckInRepository) List(ctx context.Context, userID string) ([]models.DailyCheckIn, error) {
	query := `
		SELECT id, date, mood, stress, energy, note, gratitude, created_at
		FROM daily_checkins
		WHERE user_id = $1
		ORDER BY date DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}
	defer rows.Close()

	var checkIns []models.DailyCheckIn
	for rows.Next() {
		var c models.DailyCheckIn
		if err := rows.Scan(&c.ID, &c.Date, &c.Mood, &c.Stress, &c.Energy, &c.Note, &c.Gratitude, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan check-in: %w", err)
		}
		checkIns = append(checkIns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating check-ins: %w", err)
	}
	return checkIns, nil
}

// GetByDate retrieves a single check-in without pulling the whole history.
// Returns (nil, nil) when no check-in exists for the date.
func (r *CheckInRepository) GetByDate(ctx context.Context, userID, date string) (*models.DailyCheckIn, error) {
	query := `
		SELECT id, date, mood, stress, energy, note, gratitude, created_at
		FROM daily_checkins
		WHERE user_id = $1 AND date = $2
	`
	var c models.DailyCheckIn
	err := r.db.QueryRow(ctx, query, userID, date).Scan(
		&c.ID, &c.Date, &c.Mood, &c.Stress, &c.Energy, &c.Note, &c.Gratitude, &c.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get check-in by date: %w", err)
	}
	return &c, nil
}
