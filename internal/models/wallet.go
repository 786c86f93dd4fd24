package models

import "time"

type Wallet struct {
	StudentID          int64     `json:"student_id"`
	BalanceCents       int64     `json:"balance_cents"`
	TotalTopUpCents    int64     `json:"total_topup_cents"`
	TotalSpentCents    int64     `json:"total_spent_cents"`
	TotalRefundedCents int64     `json:"total_refunded_cents"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type LedgerEntryType string

const (
	LedgerTopUp         LedgerEntryType = "top_up"
	LedgerLessonPayment LedgerEntryType = "lesson_payment"
	LedgerRefund        LedgerEntryType = "refund"
	LedgerAdjustment    LedgerEntryType = "adjustment"
)

// LedgerEntry is an append-only record of one wallet balance change.
// AmountCents is signed: debits are negative, credits positive.
type LedgerEntry struct {
	ID                int64           `json:"id"`
	StudentID         int64           `json:"student_id"`
	LessonID          *int64          `json:"lesson_id,omitempty"`
	EntryType         LedgerEntryType `json:"entry_type"`
	AmountCents       int64           `json:"amount_cents"`
	BalanceAfterCents int64           `json:"balance_after_cents"`
	IdempotencyKey    *string         `json:"idempotency_key,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

type TeacherEarnings struct {
	TeacherID        int64     `json:"teacher_id"`
	BalanceCents     int64     `json:"balance_cents"`
	TotalEarnedCents int64     `json:"total_earned_cents"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
