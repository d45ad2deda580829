package repository

import (
	"context"
	"fmt"

	"github.com/cpatestos/bloomrn-app-esrvct/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// JournalRepository handles the journal_entries table. Entries are
// append-only; no update or delete path exists.
type JournalRepository struct {
	db *pgxpool.Pool
}

// NewJournalRepository creates a new journal repository.
func NewJournalRepository(db *pgxpool.Pool) *JournalRepository {
	return &JournalRepository{db: db}
}

// Insert writes one journal entry row.
func (r *JournalRepository) Insert(ctx context.Context, userID string, e *models.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (id, user_id, date, title, content, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
	`
	if _, err := r.db.Exec(ctx, query, e.ID, userID, e.Date, e.Title, e.Content); err != nil {
		return fmt.Errorf("failed to insert journal entry: %w", err)
	}
	return nil
}

// List retrieves the user's journal entries, newest date first.
func (r *JournalRepository) List(ctx context.Context, userID string) ([]models.JournalEntry, error) {
	query := `
		SELECT id, date, title, content, created_at
		FROM journal_entries
		WHERE user_id = $1
		ORDER BY date DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []models.JournalEntry
	for rows.Next() {
		var e models.JournalEntry
		if err := rows.Scan(&e.ID, &e.Date, &e.Title, &e.Content, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal entries: %w", err)
	}
	return entries, nil
}
