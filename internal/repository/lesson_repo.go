package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/arminshz/TutorAppBack/internal/models"
)

const lessonColumns = `id, teacher_id, creator_id, scheduled_at, duration_min, status,
	gross_price_cents, is_group, target_seats, group_status, meeting_url,
	earnings_credited, commission_cents, teacher_earning_cents,
	cancelled_by, cancelled_role, cancelled_at, cancel_reason,
	refund_percent, refunded_cents, created_at, updated_at`

type lessonScanner interface {
	Scan(dest ...any) error
}

func scanLesson(row lessonScanner) (*models.Lesson, error) {
	var lesson models.Lesson
	err := row.Scan(
		&lesson.ID,
		&lesson.TeacherID,
		&lesson.CreatorID,
		&lesson.ScheduledAt,
		&lesson.DurationMinutes,
		&lesson.Status,
		&lesson.GrossPriceCents,
		&lesson.IsGroup,
		&lesson.TargetSeats,
		&lesson.GroupStatus,
		&lesson.MeetingURL,
		&lesson.EarningsCredited,
		&lesson.CommissionCents,
		&lesson.TeacherEarningCents,
		&lesson.CancelledBy,
		&lesson.CancelledRole,
		&lesson.CancelledAt,
		&lesson.CancelReason,
		&lesson.RefundPercent,
		&lesson.RefundedCents,
		&lesson.CreatedAt,
		&lesson.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

type CreateLessonInput struct {
	TeacherID       int64
	CreatorID       int64
	ScheduledAt     time.Time
	DurationMinutes int
	GrossPriceCents int64
	IsGroup         bool
	TargetSeats     int
}

type LessonListFilter struct {
	ActorID   int64
	Role      string
	Status    string
	Timeframe string
}

type LessonRepository struct {
	db DBTX
}

func NewLessonRepository(db DBTX) *LessonRepository {
	return &LessonRepository{db: db}
}

func (r *LessonRepository) Create(
	ctx context.Context,
	input CreateLessonInput,
) (*models.Lesson, error) {
	groupStatus := any(nil)
	if input.IsGroup {
		groupStatus = string(models.GroupOpen)
	}
	query := fmt.Sprintf(`
		INSERT INTO lessons (teacher_id, creator_id, scheduled_at, duration_min, status,
			gross_price_cents, is_group, target_seats, group_status)
		VALUES ($1, $2, $3, $4, 'pending', $5, $6, $7, $8)
		RETURNING %s
	`, lessonColumns)
	return scanLesson(r.db.QueryRow(
		ctx,
		query,
		input.TeacherID,
		input.CreatorID,
		input.ScheduledAt,
		input.DurationMinutes,
		input.GrossPriceCents,
		input.IsGroup,
		input.TargetSeats,
		groupStatus,
	))
}

func (r *LessonRepository) GetByID(ctx context.Context, lessonID int64) (*models.Lesson, error) {
	query := fmt.Sprintf(`SELECT %s FROM lessons WHERE id = $1`, lessonColumns)
	return scanLesson(r.db.QueryRow(ctx, query, lessonID))
}

// GetByIDForUpdate takes the row-level exclusive lock that serializes every
// concurrent mutation of one lesson: group joins, seat cancellations,
// deadline resolution, and status changes all go through here first.
func (r *LessonRepository) GetByIDForUpdate(
	ctx context.Context,
	lessonID int64,
) (*models.Lesson, error) {
	query := fmt.Sprintf(`SELECT %s FROM lessons WHERE id = $1 FOR UPDATE`, lessonColumns)
	return scanLesson(r.db.QueryRow(ctx, query, lessonID))
}

func (r *LessonRepository) List(
	ctx context.Context,
	filter LessonListFilter,
) ([]models.Lesson, error) {
	args := []any{filter.ActorID}
	var whereParts []string
	if filter.Role == "teacher" {
		whereParts = append(whereParts, "teacher_id = $1")
	} else {
		whereParts = append(
			whereParts,
			"id IN (SELECT lesson_id FROM seats WHERE student_id = $1)",
		)
	}

	if status := strings.TrimSpace(filter.Status); status != "" {
		args = append(args, status)
		whereParts = append(whereParts, fmt.Sprintf("status = $%d", len(args)))
	}

	switch strings.TrimSpace(filter.Timeframe) {
	case "upcoming":
		whereParts = append(
			whereParts,
			"(scheduled_at + (duration_min * INTERVAL '1 minute')) > NOW()",
		)
	case "past":
		whereParts = append(
			whereParts,
			"(scheduled_at + (duration_min * INTERVAL '1 minute')) <= NOW()",
		)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM lessons
		WHERE %s
		ORDER BY scheduled_at ASC, id ASC
	`, lessonColumns, strings.Join(whereParts, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lessons := make([]models.Lesson, 0)
	for rows.Next() {
		lesson, err := scanLesson(rows)
		if err != nil {
			return nil, err
		}
		lessons = append(lessons, *lesson)
	}
	return lessons, rows.Err()
}

func (r *LessonRepository) UpdateStatusIfCurrent(
	ctx context.Context,
	lessonID int64,
	currentStatus models.LessonStatus,
	nextStatus models.LessonStatus,
) (*models.Lesson, error) {
	query := fmt.Sprintf(`
		UPDATE lessons
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING %s
	`, lessonColumns)
	return scanLesson(r.db.QueryRow(ctx, query, lessonID, currentStatus, nextStatus))
}

type CancelLessonInput struct {
	LessonID      int64
	CancelledBy   int64
	CancelledRole string
	Reason        *string
	RefundPercent int
	RefundedCents int64
}

func (r *LessonRepository) MarkCancelled(
	ctx context.Context,
	input CancelLessonInput,
) (*models.Lesson, error) {
	query := fmt.Sprintf(`
		UPDATE lessons
		SET status = 'cancelled',
			cancelled_by = $2,
			cancelled_role = $3,
			cancelled_at = NOW(),
			cancel_reason = $4,
			refund_percent = $5,
			refunded_cents = $6,
			updated_at = NOW()
		WHERE id = $1 AND status IN ('pending', 'confirmed')
		RETURNING %s
	`, lessonColumns)
	return scanLesson(r.db.QueryRow(
		ctx,
		query,
		input.LessonID,
		input.CancelledBy,
		input.CancelledRole,
		input.Reason,
		input.RefundPercent,
		input.RefundedCents,
	))
}

// MarkCompleted flips the lesson to completed and records the settlement
// split. The earnings_credited guard makes crediting idempotent even if two
// completion requests race past the service-level check.
func (r *LessonRepository) MarkCompleted(
	ctx context.Context,
	lessonID int64,
	commissionCents int64,
	teacherEarningCents int64,
) (*models.Lesson, error) {
	query := fmt.Sprintf(`
		UPDATE lessons
		SET status = 'completed',
			earnings_credited = TRUE,
			commission_cents = $2,
			teacher_earning_cents = $3,
			updated_at = NOW()
		WHERE id = $1 AND status = 'confirmed' AND earnings_credited = FALSE
		RETURNING %s
	`, lessonColumns)
	return scanLesson(r.db.QueryRow(ctx, query, lessonID, commissionCents, teacherEarningCents))
}

func (r *LessonRepository) SetMeetingURL(
	ctx context.Context,
	lessonID int64,
	url string,
) error {
	query := `
		UPDATE lessons
		SET meeting_url = $2, updated_at = NOW()
		WHERE id = $1 AND meeting_url IS NULL
	`
	_, err := r.db.Exec(ctx, query, lessonID, url)
	return err
}

func (r *LessonRepository) SetGroupStatusIfCurrent(
	ctx context.Context,
	lessonID int64,
	currentStatus models.GroupStatus,
	nextStatus models.GroupStatus,
) (*models.Lesson, error) {
	query := fmt.Sprintf(`
		UPDATE lessons
		SET group_status = $3, updated_at = NOW()
		WHERE id = $1 AND group_status = $2
		RETURNING %s
	`, lessonColumns)
	return scanLesson(r.db.QueryRow(ctx, query, lessonID, currentStatus, nextStatus))
}

// ConvertToPrivate rewrites a group lesson as a single-seat full-price
// booking. Used when the creator resolves a missed formation deadline by
// paying the full rate.
func (r *LessonRepository) ConvertToPrivate(
	ctx context.Context,
	lessonID int64,
) (*models.Lesson, error) {
	query := fmt.Sprintf(`
		UPDATE lessons
		SET is_group = FALSE,
			target_seats = 1,
			group_status = NULL,
			updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, lessonColumns)
	return scanLesson(r.db.QueryRow(ctx, query, lessonID))
}

// ListOverlappingForTeacher returns the teacher's non-cancelled lessons whose
// window intersects the buffered search window. The strict overlap test runs
// in the service so the buffer stays advisory padding around the fetch.
func (r *LessonRepository) ListOverlappingForTeacher(
	ctx context.Context,
	teacherID int64,
	windowStart time.Time,
	windowEnd time.Time,
) ([]models.Lesson, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM lessons
		WHERE teacher_id = $1
		  AND status <> 'cancelled'
		  AND scheduled_at < $3
		  AND (scheduled_at + (duration_min * INTERVAL '1 minute')) > $2
	`, lessonColumns)
	return r.queryLessons(ctx, query, teacherID, windowStart, windowEnd)
}

func (r *LessonRepository) ListOverlappingForStudent(
	ctx context.Context,
	studentID int64,
	windowStart time.Time,
	windowEnd time.Time,
) ([]models.Lesson, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM lessons
		WHERE status <> 'cancelled'
		  AND scheduled_at < $3
		  AND (scheduled_at + (duration_min * INTERVAL '1 minute')) > $2
		  AND id IN (
			SELECT lesson_id FROM seats WHERE student_id = $1 AND status = 'active'
		  )
	`, lessonColumns)
	return r.queryLessons(ctx, query, studentID, windowStart, windowEnd)
}

// ListPendingCreatedBefore feeds the auto-cancel sweep: pending lessons whose
// booking was never confirmed inside the confirmation window.
func (r *LessonRepository) ListPendingCreatedBefore(
	ctx context.Context,
	cutoff time.Time,
	limit int,
) ([]models.Lesson, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM lessons
		WHERE status = 'pending' AND created_at < $1
		ORDER BY created_at ASC
		LIMIT $2
	`, lessonColumns)
	return r.queryLessons(ctx, query, cutoff, limit)
}

// ListOpenGroupsPastDeadline feeds the deadline sweep. Seat counts are
// re-checked by the caller under the lesson lock.
func (r *LessonRepository) ListOpenGroupsPastDeadline(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]models.Lesson, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM lessons
		WHERE is_group = TRUE
		  AND group_status = 'open'
		  AND status IN ('pending', 'confirmed')
		  AND id IN (
			SELECT lesson_id FROM group_invitations WHERE expires_at <= $1
		  )
		ORDER BY scheduled_at ASC
		LIMIT $2
	`, lessonColumns)
	return r.queryLessons(ctx, query, now, limit)
}

// ListJoinableGroups backs the live listing: open groups with a live
// deadline and at least one free seat.
func (r *LessonRepository) ListJoinableGroups(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]models.Lesson, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM lessons l
		WHERE l.is_group = TRUE
		  AND l.group_status = 'open'
		  AND l.status IN ('pending', 'confirmed')
		  AND l.id IN (
			SELECT lesson_id FROM group_invitations WHERE expires_at > $1
		  )
		  AND (
			SELECT COUNT(*) FROM seats WHERE lesson_id = l.id AND status = 'active'
		  ) < l.target_seats
		ORDER BY l.scheduled_at ASC
		LIMIT $2
	`, lessonColumns)
	return r.queryLessons(ctx, query, now, limit)
}

func (r *LessonRepository) ListDueForReminder(
	ctx context.Context,
	windowStart time.Time,
	windowEnd time.Time,
	limit int,
) ([]models.Lesson, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM lessons
		WHERE status = 'confirmed'
		  AND reminder_sent = FALSE
		  AND scheduled_at >= $1
		  AND scheduled_at < $2
		ORDER BY scheduled_at ASC
		LIMIT $3
	`, lessonColumns)
	return r.queryLessons(ctx, query, windowStart, windowEnd, limit)
}

func (r *LessonRepository) MarkReminderSent(ctx context.Context, lessonID int64) error {
	query := `UPDATE lessons SET reminder_sent = TRUE, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, lessonID)
	return err
}

func (r *LessonRepository) queryLessons(
	ctx context.Context,
	query string,
	args ...any,
) ([]models.Lesson, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lessons := make([]models.Lesson, 0)
	for rows.Next() {
		lesson, err := scanLesson(rows)
		if err != nil {
			return nil, err
		}
		lessons = append(lessons, *lesson)
	}
	return lessons, rows.Err()
}
