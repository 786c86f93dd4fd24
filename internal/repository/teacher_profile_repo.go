package repository

import (
	"context"

	"github.com/arminshz/TutorAppBack/internal/models"
)

type TeacherProfileRepository struct {
	db DBTX
}

func NewTeacherProfileRepository(db DBTX) *TeacherProfileRepository {
	return &TeacherProfileRepository{db: db}
}

func (r *TeacherProfileRepository) CreateEmpty(ctx context.Context, userID int64) error {
	query := `INSERT INTO teacher_profiles (user_id) VALUES ($1)`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

func (r *TeacherProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.TeacherProfile, error) {
	query := `
		SELECT user_id, display_name, hourly_rate_cents, created_at, updated_at
		FROM teacher_profiles
		WHERE user_id = $1
	`
	var profile models.TeacherProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.DisplayName,
		&profile.HourlyRateCents,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *TeacherProfileRepository) UpdateRate(
	ctx context.Context,
	userID int64,
	displayName *string,
	hourlyRateCents int64,
) (*models.TeacherProfile, error) {
	query := `
		UPDATE teacher_profiles
		SET display_name = COALESCE($2, display_name),
			hourly_rate_cents = $3,
			updated_at = NOW()
		WHERE user_id = $1
		RETURNING user_id, display_name, hourly_rate_cents, created_at, updated_at
	`
	var profile models.TeacherProfile
	err := r.db.QueryRow(ctx, query, userID, displayName, hourlyRateCents).Scan(
		&profile.UserID,
		&profile.DisplayName,
		&profile.HourlyRateCents,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
