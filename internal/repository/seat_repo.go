package repository

import (
	"context"
	"fmt"

	"github.com/arminshz/TutorAppBack/internal/models"
)

const seatColumns = `id, lesson_id, student_id, role, status, price_cents, commission_cents,
	payment_method, payment_ref, topup_payment_ref, topup_cents, refund_percent, refunded_cents,
	created_at, updated_at`

func scanSeat(row lessonScanner) (*models.Seat, error) {
	var seat models.Seat
	err := row.Scan(
		&seat.ID,
		&seat.LessonID,
		&seat.StudentID,
		&seat.Role,
		&seat.Status,
		&seat.PriceCents,
		&seat.CommissionCents,
		&seat.PaymentMethod,
		&seat.PaymentRef,
		&seat.TopUpPaymentRef,
		&seat.TopUpCents,
		&seat.RefundPercent,
		&seat.RefundedCents,
		&seat.CreatedAt,
		&seat.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &seat, nil
}

type CreateSeatInput struct {
	LessonID        int64
	StudentID       int64
	Role            models.SeatRole
	PriceCents      int64
	CommissionCents int64
	PaymentMethod   string
	PaymentRef      *string
}

type SeatRepository struct {
	db DBTX
}

func NewSeatRepository(db DBTX) *SeatRepository {
	return &SeatRepository{db: db}
}

func (r *SeatRepository) Create(ctx context.Context, input CreateSeatInput) (*models.Seat, error) {
	query := fmt.Sprintf(`
		INSERT INTO seats (lesson_id, student_id, role, status, price_cents, commission_cents,
			payment_method, payment_ref)
		VALUES ($1, $2, $3, 'active', $4, $5, $6, $7)
		RETURNING %s
	`, seatColumns)
	return scanSeat(r.db.QueryRow(
		ctx,
		query,
		input.LessonID,
		input.StudentID,
		input.Role,
		input.PriceCents,
		input.CommissionCents,
		input.PaymentMethod,
		input.PaymentRef,
	))
}

func (r *SeatRepository) GetByID(ctx context.Context, seatID int64) (*models.Seat, error) {
	query := fmt.Sprintf(`SELECT %s FROM seats WHERE id = $1`, seatColumns)
	return scanSeat(r.db.QueryRow(ctx, query, seatID))
}

func (r *SeatRepository) GetActiveByLessonAndStudent(
	ctx context.Context,
	lessonID int64,
	studentID int64,
) (*models.Seat, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM seats
		WHERE lesson_id = $1 AND student_id = $2 AND status = 'active'
	`, seatColumns)
	return scanSeat(r.db.QueryRow(ctx, query, lessonID, studentID))
}

func (r *SeatRepository) ListByLesson(ctx context.Context, lessonID int64) ([]models.Seat, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM seats
		WHERE lesson_id = $1
		ORDER BY id ASC
	`, seatColumns)
	rows, err := r.db.Query(ctx, query, lessonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]models.Seat, 0)
	for rows.Next() {
		seat, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		seats = append(seats, *seat)
	}
	return seats, rows.Err()
}

func (r *SeatRepository) ListActiveByLesson(
	ctx context.Context,
	lessonID int64,
) ([]models.Seat, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM seats
		WHERE lesson_id = $1 AND status = 'active'
		ORDER BY id ASC
	`, seatColumns)
	rows, err := r.db.Query(ctx, query, lessonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]models.Seat, 0)
	for rows.Next() {
		seat, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		seats = append(seats, *seat)
	}
	return seats, rows.Err()
}

// CountActiveByLesson must run inside the transaction that holds the lesson
// row lock; outside of it the count is immediately stale.
func (r *SeatRepository) CountActiveByLesson(ctx context.Context, lessonID int64) (int, error) {
	query := `SELECT COUNT(*) FROM seats WHERE lesson_id = $1 AND status = 'active'`
	var count int
	if err := r.db.QueryRow(ctx, query, lessonID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SeatRepository) MarkCancelled(
	ctx context.Context,
	seatID int64,
	refundPercent int,
	refundedCents int64,
) (*models.Seat, error) {
	query := fmt.Sprintf(`
		UPDATE seats
		SET status = 'cancelled',
			refund_percent = $2,
			refunded_cents = $3,
			updated_at = NOW()
		WHERE id = $1 AND status = 'active'
		RETURNING %s
	`, seatColumns)
	return scanSeat(r.db.QueryRow(ctx, query, seatID, refundPercent, refundedCents))
}

// ConvertToFullPrice upgrades the creator's seat on the pay-full deadline
// path. The difference charged for the upgrade is recorded on the seat, with
// its own gateway reference when it was an external charge, so refunds can be
// split across both charges later.
func (r *SeatRepository) ConvertToFullPrice(
	ctx context.Context,
	seatID int64,
	priceCents int64,
	commissionCents int64,
	topUpRef *string,
	topUpCents int64,
) (*models.Seat, error) {
	query := fmt.Sprintf(`
		UPDATE seats
		SET price_cents = $2,
			commission_cents = $3,
			topup_payment_ref = $4,
			topup_cents = $5,
			updated_at = NOW()
		WHERE id = $1 AND status = 'active'
		RETURNING %s
	`, seatColumns)
	return scanSeat(r.db.QueryRow(ctx, query, seatID, priceCents, commissionCents, topUpRef, topUpCents))
}
