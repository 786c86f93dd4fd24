package models

import "time"

type LessonStatus string

const (
	LessonPending   LessonStatus = "pending"
	LessonConfirmed LessonStatus = "confirmed"
	LessonCompleted LessonStatus = "completed"
	LessonCancelled LessonStatus = "cancelled"
)

// CanTransition reports whether moving from s to next is a legal lifecycle
// step. Completed and cancelled are terminal.
func (s LessonStatus) CanTransition(next LessonStatus) bool {
	switch s {
	case LessonPending:
		return next == LessonConfirmed || next == LessonCancelled
	case LessonConfirmed:
		return next == LessonCompleted || next == LessonCancelled
	default:
		return false
	}
}

func (s LessonStatus) Terminal() bool {
	return s == LessonCompleted || s == LessonCancelled
}

type GroupStatus string

const (
	GroupOpen           GroupStatus = "open"
	GroupFull           GroupStatus = "full"
	GroupDeadlinePassed GroupStatus = "deadline_passed"
)

type SeatStatus string

const (
	SeatActive    SeatStatus = "active"
	SeatCancelled SeatStatus = "cancelled"
)

type SeatRole string

const (
	SeatRoleCreator     SeatRole = "creator"
	SeatRoleParticipant SeatRole = "participant"
)

type Lesson struct {
	ID                  int64        `json:"id"`
	TeacherID           int64        `json:"teacher_id"`
	CreatorID           int64        `json:"creator_id"`
	ScheduledAt         time.Time    `json:"scheduled_at"`
	DurationMinutes     int          `json:"duration_minutes"`
	Status              LessonStatus `json:"status"`
	GrossPriceCents     int64        `json:"gross_price_cents"`
	IsGroup             bool         `json:"is_group"`
	TargetSeats         int          `json:"target_seats"`
	GroupStatus         *GroupStatus `json:"group_status,omitempty"`
	MeetingURL          *string      `json:"meeting_url,omitempty"`
	EarningsCredited    bool         `json:"earnings_credited"`
	CommissionCents     *int64       `json:"commission_cents,omitempty"`
	TeacherEarningCents *int64       `json:"teacher_earning_cents,omitempty"`
	CancelledBy         *int64       `json:"cancelled_by,omitempty"`
	CancelledRole       *string      `json:"cancelled_role,omitempty"`
	CancelledAt         *time.Time   `json:"cancelled_at,omitempty"`
	CancelReason        *string      `json:"cancel_reason,omitempty"`
	RefundPercent       *int         `json:"refund_percent,omitempty"`
	RefundedCents       *int64       `json:"refunded_cents,omitempty"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

func (l *Lesson) EndsAt() time.Time {
	return l.ScheduledAt.Add(time.Duration(l.DurationMinutes) * time.Minute)
}

// InProgressAt reports whether now falls inside [scheduled_at, end).
// Cancellation is not allowed while a lesson is underway.
func (l *Lesson) InProgressAt(now time.Time) bool {
	return !now.Before(l.ScheduledAt) && now.Before(l.EndsAt())
}

type Seat struct {
	ID              int64      `json:"id"`
	LessonID        int64      `json:"lesson_id"`
	StudentID       int64      `json:"student_id"`
	Role            SeatRole   `json:"role"`
	Status          SeatStatus `json:"status"`
	PriceCents      int64      `json:"price_cents"`
	CommissionCents int64      `json:"commission_cents"`
	PaymentMethod   string     `json:"payment_method"`
	PaymentRef      *string    `json:"payment_ref,omitempty"`
	TopUpPaymentRef *string    `json:"topup_payment_ref,omitempty"`
	TopUpCents      int64      `json:"topup_cents"`
	RefundPercent   *int       `json:"refund_percent,omitempty"`
	RefundedCents   *int64     `json:"refunded_cents,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type GroupInvitation struct {
	ID          int64     `json:"id"`
	LessonID    int64     `json:"lesson_id"`
	Token       string    `json:"token"`
	TargetSeats int       `json:"target_seats"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

type LessonDetail struct {
	Lesson
	Seats      []Seat           `json:"seats,omitempty"`
	Invitation *GroupInvitation `json:"invitation,omitempty"`
}
