package services

import (
	"errors"
	"testing"
)

func TestCommissionSplitStandardRate(t *testing.T) {
	commission, earnings := CommissionSplit(10000, StandardCommission)
	if commission != 1250 {
		t.Fatalf("expected commission 1250, got %d", commission)
	}
	if earnings != 8750 {
		t.Fatalf("expected earnings 8750, got %d", earnings)
	}
}

func TestCommissionSplitReducedRate(t *testing.T) {
	commission, earnings := CommissionSplit(10000, ReducedCommission)
	if commission != 250 {
		t.Fatalf("expected commission 250, got %d", commission)
	}
	if earnings != 9750 {
		t.Fatalf("expected earnings 9750, got %d", earnings)
	}
}

func TestCommissionSplitTruncatesTowardPlatform(t *testing.T) {
	// 999 * 125 / 1000 = 124.875, truncated to 124. The fractional cent
	// stays with the teacher because earnings are derived as the remainder.
	commission, earnings := CommissionSplit(999, StandardCommission)
	if commission != 124 {
		t.Fatalf("expected commission 124, got %d", commission)
	}
	if earnings != 875 {
		t.Fatalf("expected earnings 875, got %d", earnings)
	}
}

func TestCommissionSplitSumsToGross(t *testing.T) {
	for _, gross := range []int64{0, 1, 7, 999, 10000, 123457, 999999999} {
		for _, rate := range []int64{StandardCommission, ReducedCommission} {
			commission, earnings := CommissionSplit(gross, rate)
			if commission+earnings != gross {
				t.Fatalf("gross %d rate %d: commission %d + earnings %d != gross",
					gross, rate, commission, earnings)
			}
			if commission < 0 || earnings < 0 {
				t.Fatalf("gross %d rate %d: negative split %d/%d", gross, rate, commission, earnings)
			}
		}
	}
}

func TestGroupSeatPriceCents(t *testing.T) {
	price, err := GroupSeatPriceCents(10000, 2)
	if err != nil {
		t.Fatalf("two seats: %v", err)
	}
	if price != 6000 {
		t.Fatalf("expected 6000 for two seats, got %d", price)
	}

	price, err = GroupSeatPriceCents(10000, 3)
	if err != nil {
		t.Fatalf("three seats: %v", err)
	}
	if price != 4500 {
		t.Fatalf("expected 4500 for three seats, got %d", price)
	}
}

func TestGroupSeatPriceCentsTruncates(t *testing.T) {
	// 1001 * 45 / 100 = 450.45, truncated.
	price, err := GroupSeatPriceCents(1001, 3)
	if err != nil {
		t.Fatalf("GroupSeatPriceCents: %v", err)
	}
	if price != 450 {
		t.Fatalf("expected 450, got %d", price)
	}
}

func TestGroupSeatPriceCentsRejectsBadTargets(t *testing.T) {
	for _, target := range []int{0, 1, 4, -2} {
		if _, err := GroupSeatPriceCents(10000, target); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("target %d: expected ErrInvalidInput, got %v", target, err)
		}
	}
}
