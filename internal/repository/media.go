package repository

import (
	"context"
	"fmt"

	"github.com/cpatestos/bloomrn-app-esrvct/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MediaRepository handles the media_recordings table. Every row references
// exactly one blob in a type-specific storage bucket.
type MediaRepository struct {
	db *pgxpool.Pool
}

// NewMediaRepository creates a new media repository.
func NewMediaRepository(db *pgxpool.Pool) *MediaRepository {
	return &MediaRepository{db: db}
}

// Insert writes one metadata row after its blob has been uploaded.
func (r *MediaRepository) Insert(ctx context.Context, rec *models.MediaRecording) error {
	query := `
		INSERT INTO media_recordings (id, user_id, media_type, file_path, title, description,
		                              duration_seconds, file_size_bytes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
	`
	_, err := r.db.Exec(ctx, query,
		rec.ID, rec.UserID, rec.MediaType, rec.FilePath,
		rec.Title, rec.Description, rec.DurationSeconds, rec.FileSizeBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to insert media recording: %w", err)
	}
	return nil
}

// List retrieves the user's recordings newest first, optionally filtered
// by media type (nil means both).
func (r *MediaRepository) List(ctx context.Context, userID string, mediaType *models.MediaType) ([]models.MediaRecording, error) {
	query := `
		SELECT id, user_id, media_type, file_path, title, description,
		       duration_seconds, file_size_bytes, created_at, updated_at
		FROM media_recordings
		WHERE user_id = $1 AND ($2::text IS NULL OR media_type = $2)
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID, mediaType)
	if err != nil {
		return nil, fmt.Errorf("failed to list media recordings: %w", err)
	}
	defer rows.Close()

	var recordings []models.MediaRecording
	for rows.Next() {
		var rec models.MediaRecording
		err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.MediaType, &rec.FilePath, &rec.Title, &rec.Description,
			&rec.DurationSeconds, &rec.FileSizeBytes, &rec.CreatedAt, &rec.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan media recording: %w", err)
		}
		recordings = append(recordings, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating media recordings: %w", err)
	}
	return recordings, nil
}

// Get retrieves one recording owned by the user.
func (r *MediaRepository) Get(ctx context.Context, userID, id string) (*models.MediaRecording, error) {
	query := `
		SELECT id, user_id, media_type, file_path, title, description,
		       duration_seconds, file_size_bytes, created_at, updated_at
		FROM media_recordings
		WHERE user_id = $1 AND id = $2
	`
	var rec models.MediaRecording
	err := r.db.QueryRow(ctx, query, userID, id).Scan(
		&rec.ID, &rec.UserID, &rec.MediaType, &rec.FilePath, &rec.Title, &rec.Description,
		&rec.DurationSeconds, &rec.FileSizeBytes, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("media recording not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get media recording: %w", err)
	}
	return &rec, nil
}

// Delete removes one metadata row owned by the user.
func (r *MediaRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM media_recordings WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete media recording: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("media recording not found")
	}
	return nil
}
