package services

import "time"

// Refund tiers. This table is the single source of truth for every
// cancellation path; nothing else derives percentages.
const (
	RefundFull = 100
	RefundHalf = 50
	RefundNone = 0

	fullRefundLead = 24 * time.Hour
	halfRefundLead = 2 * time.Hour
)

// RefundPercent returns the percentage of a payment returned when
// cancellingRole cancels with untilStart remaining before the lesson.
// Teacher- and system-caused cancellations are never penalized against the
// payer.
func RefundPercent(cancellingRole string, untilStart time.Duration) int {
	if cancellingRole == "teacher" || cancellingRole == "system" {
		return RefundFull
	}
	switch {
	case untilStart >= fullRefundLead:
		return RefundFull
	case untilStart >= halfRefundLead:
		return RefundHalf
	default:
		return RefundNone
	}
}

// RefundAmountCents applies a tier percentage to a paid amount.
func RefundAmountCents(paidCents int64, percent int) int64 {
	return paidCents * int64(percent) / 100
}
