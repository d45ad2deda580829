package repository

import (
	"context"
	"fmt"

	"github.com/cpatestos/bloomrn-app-esrvct/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ActivityRepository handles the self_care_activities table: the user's
// copy of the catalog, including favorite flags.
type ActivityRepository struct {
	db *pgxpool.Pool
}

// NewActivityRepository creates a new activity repository.
func NewActivityRepository(db *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Upsert writes one catalog row, keyed on (user_id, id) so that favorite
// toggles on seeded entries overwrite rather than duplicate.
func (r *ActivityRepository) Upsert(ctx context.Context, userID string, a *models.SelfCareActivity) error {
	query := `
		INSERT INTO self_care_activities (id, user_id, title, description, duration_minutes, category, role_tag, is_favorite, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		ON CONFLICT (user_id, id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			duration_minutes = EXCLUDED.duration_minutes,
			category = EXCLUDED.category,
			role_tag = EXCLUDED.role_tag,
			is_favorite = EXCLUDED.is_favorite
	`
	_, err := r.db.Exec(ctx, query,
		a.ID, userID, a.Title, a.Description, a.DurationMinutes, a.Category, a.RoleTag, a.IsFavorite,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert activity: %w", err)
	}
	return nil
}

// List retrieves the user's catalog, newest first.
func (r *ActivityRepository) List(ctx context.Context, userID string) ([]models.SelfCareActivity, error) {
	query := `
		SELECT id, title, description, duration_minutes, category, role_tag, is_favorite, created_at
		FROM self_care_activities
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var activities []models.SelfCareActivity
	for rows.Next() {
		var a models.SelfCareActivity
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.DurationMinutes, &a.Category, &a.RoleTag, &a.IsFavorite, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activities: %w", err)
	}
	return activities, nil
}
