// Package repository contains the typed remote record clients. Each client
// translates between the app's in-memory records and the backend's
// snake_case rows, scoped to the owning user on every query. Optional
// record fields map to NULL columns and back; nothing is rescaled or
// reshaped in between.
package repository

import (
	"context"
	"fmt"

	"github.com/cpatestos/bloomrn-app-esrvct/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileRepository handles the profiles table. One row per user.
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Get retrieves the profile row for a user. Returns (nil, nil) when the
// user has no remote profile yet.
func (r *ProfileRepository) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	query := `
		SELECT first_name, role, priorities, has_completed_onboarding,
		       program_type, semester, year, years_experience, setting,
		       created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`
	var (
		p                           models.UserProfile
		programType, semester, year *string
		yearsExperience, setting    *string
	)
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.FirstName, &p.Role, &p.Priorities, &p.HasCompletedOnboarding,
		&programType, &semester, &year, &yearsExperience, &setting,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	// Role-specific columns collapse into the matching sub-profile.
	if p.Role == models.RoleStudent && programType != nil {
		p.StudentProfile = &models.StudentProfile{
			ProgramType: *programType,
			Semester:    deref(semester),
			Year:        deref(year),
		}
	}
	if p.Role == models.RoleRN && yearsExperience != nil {
		p.RNProfile = &models.RNProfile{
			YearsExperience: *yearsExperience,
			Setting:         deref(setting),
		}
	}
	return &p, nil
}

// Upsert writes the whole profile row, keyed on user_id.
func (r *ProfileRepository) Upsert(ctx context.Context, userID string, p *models.UserProfile) error {
	var programType, semester, year, yearsExperience, setting *string
	if p.StudentProfile != nil {
		programType = &p.StudentProfile.ProgramType
		semester = &p.StudentProfile.Semester
		year = &p.StudentProfile.Year
	}
	if p.RNProfile != nil {
		yearsExperience = &p.RNProfile.YearsExperience
		setting = &p.RNProfile.Setting
	}

	query := `
		INSERT INTO profiles (user_id, first_name, role, priorities, has_completed_onboarding,
		                      program_type, semester, year, years_experience, setting,
		                      created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
		ON CONFLICT (user_id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			role = EXCLUDED.role,
			priorities = EXCLUDED.priorities,
			has_completed_onboarding = EXCLUDED.has_completed_onboarding,
			program_type = EXCLUDED.program_type,
			semester = EXCLUDED.semester,
			year = EXCLUDED.year,
			years_experience = EXCLUDED.years_experience,
			setting = EXCLUDED.setting,
			updated_at = now()
	`
	_, err := r.db.Exec(ctx, query,
		userID, p.FirstName, p.Role, p.Priorities, p.HasCompletedOnboarding,
		programType, semester, year, yearsExperience, setting,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// Delete removes the profile row. Used by the reset-role flow.
func (r *ProfileRepository) Delete(ctx context.Context, userID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
