package services

// Commission rates are integer numerators over a fixed denominator so
// currency math never touches floating point. Truncation from the integer
// division always lands in the platform's favor and is applied exactly once:
// earnings are derived as gross minus commission.
const (
	commissionDenominator = 1000

	// StandardCommission is the platform's 12.5% cut.
	StandardCommission = 125
	// ReducedCommission is the 2.5% promotional rate. Callers must ask for
	// it explicitly; nothing in the core ever infers it.
	ReducedCommission = 25
)

// CommissionSplit returns the platform commission and the teacher's net
// earnings for a gross amount. commission + earnings == gross always holds.
func CommissionSplit(grossCents int64, rateNumerator int64) (commissionCents, earningsCents int64) {
	commissionCents = grossCents * rateNumerator / commissionDenominator
	earningsCents = grossCents - commissionCents
	return commissionCents, earningsCents
}

// Per-seat share of the teacher's full rate for group lessons. Two seats at
// 60% or three at 45% both net the teacher more than one private lesson
// while each participant pays less.
const (
	seatShareDenominator = 100
	seatShareForTwo      = 60
	seatShareForThree    = 45
	GroupTargetSeatsMin  = 2
	GroupTargetSeatsMax  = 3
)

// GroupSeatPriceCents returns the per-seat price for a group lesson with the
// given target size. Target sizes outside {2, 3} are a caller bug.
func GroupSeatPriceCents(fullPriceCents int64, targetSeats int) (int64, error) {
	switch targetSeats {
	case 2:
		return fullPriceCents * seatShareForTwo / seatShareDenominator, nil
	case 3:
		return fullPriceCents * seatShareForThree / seatShareDenominator, nil
	default:
		return 0, ErrInvalidInput
	}
}
