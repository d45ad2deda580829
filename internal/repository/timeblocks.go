package repository

import (
	"context"
	"fmt"

	"github.com/cpatestos/bloomrn-app-esrvct/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TimeBlockRepository handles the time_blocks table. Saves replace a whole
// day's blocks inside a transaction; there is no per-block append path.
type TimeBlockRepository struct {
	db *pgxpool.Pool
}

// NewTimeBlockRepository creates a new time block repository.
func NewTimeBlockRepository(db *pgxpool.Pool) *TimeBlockRepository {
	return &TimeBlockRepository{db: db}
}

// List retrieves all of the user's planner blocks.
func (r *TimeBlockRepository) List(ctx context.Context, userID string) ([]models.TimeBlock, error) {
	query := `
		SELECT id, day, start_time, end_time, type, title, created_at
		FROM time_blocks
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list time blocks: %w", err)
	}
	defer rows.Close()

	var blocks []models.TimeBlock
	for rows.Next() {
		var b models.TimeBlock
		if err := rows.Scan(&b.ID, &b.Day, &b.StartTime, &b.EndTime, &b.Type, &b.Title, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan time block: %w", err)
		}
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating time blocks: %w", err)
	}
	return blocks, nil
}

// ReplaceDay atomically swaps the user's blocks for one day. Blocks whose
// Day differs from day are ignored.
func (r *TimeBlockRepository) ReplaceDay(ctx context.Context, userID, day string, blocks []models.TimeBlock) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin time block tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM time_blocks WHERE user_id = $1 AND day = $2`, userID, day); err != nil {
		return fmt.Errorf("failed to clear day: %w", err)
	}

	query := `
		INSERT INTO time_blocks (id, user_id, day, start_time, end_time, type, title, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
	`
	for _, b := range blocks {
		if b.Day != day {
			continue
		}
		if _, err := tx.Exec(ctx, query, b.ID, userID, b.Day, b.StartTime, b.EndTime, b.Type, b.Title); err != nil {
			return fmt.Errorf("failed to insert time block: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit time block tx: %w", err)
	}
	return nil
}
