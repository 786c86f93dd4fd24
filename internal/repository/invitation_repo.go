package repository

import (
	"context"
	"time"

	"github.com/arminshz/TutorAppBack/internal/models"
)

type GroupInvitationRepository struct {
	db DBTX
}

func NewGroupInvitationRepository(db DBTX) *GroupInvitationRepository {
	return &GroupInvitationRepository{db: db}
}

func (r *GroupInvitationRepository) Create(
	ctx context.Context,
	lessonID int64,
	token string,
	targetSeats int,
	expiresAt time.Time,
) (*models.GroupInvitation, error) {
	query := `
		INSERT INTO group_invitations (lesson_id, token, target_seats, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, lesson_id, token, target_seats, expires_at, created_at
	`
	var invitation models.GroupInvitation
	err := r.db.QueryRow(ctx, query, lessonID, token, targetSeats, expiresAt).Scan(
		&invitation.ID,
		&invitation.LessonID,
		&invitation.Token,
		&invitation.TargetSeats,
		&invitation.ExpiresAt,
		&invitation.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

// GetByToken resolves the opaque join token. A token maps to exactly one
// lesson; there is no way to redeem it against another one.
func (r *GroupInvitationRepository) GetByToken(
	ctx context.Context,
	token string,
) (*models.GroupInvitation, error) {
	query := `
		SELECT id, lesson_id, token, target_seats, expires_at, created_at
		FROM group_invitations
		WHERE token = $1
	`
	var invitation models.GroupInvitation
	err := r.db.QueryRow(ctx, query, token).Scan(
		&invitation.ID,
		&invitation.LessonID,
		&invitation.Token,
		&invitation.TargetSeats,
		&invitation.ExpiresAt,
		&invitation.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

func (r *GroupInvitationRepository) GetByLessonID(
	ctx context.Context,
	lessonID int64,
) (*models.GroupInvitation, error) {
	query := `
		SELECT id, lesson_id, token, target_seats, expires_at, created_at
		FROM group_invitations
		WHERE lesson_id = $1
	`
	var invitation models.GroupInvitation
	err := r.db.QueryRow(ctx, query, lessonID).Scan(
		&invitation.ID,
		&invitation.LessonID,
		&invitation.Token,
		&invitation.TargetSeats,
		&invitation.ExpiresAt,
		&invitation.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}
