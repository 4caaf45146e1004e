package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMonthsLate(t *testing.T) {
	cases := []struct {
		days, want int
	}{
		{-3, 0},
		{0, 0},
		{15, 0},
		{29, 0},
		{30, 1},
		{59, 1},
		{60, 2},
		{95, 3},
	}
	for _, c := range cases {
		if got := MonthsLate(c.days); got != c.want {
			t.Fatalf("MonthsLate(%d) = %d, want %d", c.days, got, c.want)
		}
	}
}

func TestComputeLateFee(t *testing.T) {
	rate := decimal.RequireFromString("0.02")

	fee := ComputeLateFee(decimal.NewFromInt(300), rate, 3)
	if !fee.Equal(decimal.RequireFromString("18.00")) {
		t.Fatalf("300 at 2%% over 3 months = %s, want 18.00", fee)
	}

	fee = ComputeLateFee(decimal.NewFromInt(300), rate, 0)
	if !fee.IsZero() {
		t.Fatalf("zero months should charge nothing, got %s", fee)
	}

	fee = ComputeLateFee(decimal.RequireFromString("123.45"), rate, 1)
	if !fee.Equal(decimal.RequireFromString("2.47")) {
		t.Fatalf("123.45 at 2%% for 1 month = %s, want 2.47", fee)
	}
}
