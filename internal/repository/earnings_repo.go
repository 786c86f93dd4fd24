package repository

import (
	"context"

	"github.com/arminshz/TutorAppBack/internal/models"
)

type TeacherEarningsRepository struct {
	db DBTX
}

func NewTeacherEarningsRepository(db DBTX) *TeacherEarningsRepository {
	return &TeacherEarningsRepository{db: db}
}

func (r *TeacherEarningsRepository) GetByTeacherID(
	ctx context.Context,
	teacherID int64,
) (*models.TeacherEarnings, error) {
	query := `
		SELECT teacher_id, balance_cents, total_earned_cents, created_at, updated_at
		FROM teacher_earnings
		WHERE teacher_id = $1
	`
	var earnings models.TeacherEarnings
	err := r.db.QueryRow(ctx, query, teacherID).Scan(
		&earnings.TeacherID,
		&earnings.BalanceCents,
		&earnings.TotalEarnedCents,
		&earnings.CreatedAt,
		&earnings.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &earnings, nil
}

// Credit upserts so the first completed lesson creates the record.
func (r *TeacherEarningsRepository) Credit(
	ctx context.Context,
	teacherID int64,
	amountCents int64,
) (*models.TeacherEarnings, error) {
	query := `
		INSERT INTO teacher_earnings (teacher_id, balance_cents, total_earned_cents)
		VALUES ($1, $2, $2)
		ON CONFLICT (teacher_id) DO UPDATE
		SET balance_cents = teacher_earnings.balance_cents + EXCLUDED.balance_cents,
			total_earned_cents = teacher_earnings.total_earned_cents + EXCLUDED.total_earned_cents,
			updated_at = NOW()
		RETURNING teacher_id, balance_cents, total_earned_cents, created_at, updated_at
	`
	var earnings models.TeacherEarnings
	err := r.db.QueryRow(ctx, query, teacherID, amountCents).Scan(
		&earnings.TeacherID,
		&earnings.BalanceCents,
		&earnings.TotalEarnedCents,
		&earnings.CreatedAt,
		&earnings.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &earnings, nil
}
