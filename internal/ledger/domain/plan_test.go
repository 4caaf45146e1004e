package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSplitInstallmentsEven(t *testing.T) {
	parts := SplitInstallments(decimal.NewFromInt(600), 6)
	if len(parts) != 6 {
		t.Fatalf("expected 6 parts, got %d", len(parts))
	}
	for i, p := range parts {
		if !p.Equal(decimal.NewFromInt(100)) {
			t.Fatalf("part %d = %s, want 100", i, p)
		}
	}
}

func TestSplitInstallmentsRemainder(t *testing.T) {
	total := decimal.NewFromInt(100)
	parts := SplitInstallments(total, 3)
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(parts))
	}
	if !parts[0].Equal(decimal.RequireFromString("33.33")) {
		t.Fatalf("first part = %s, want 33.33", parts[0])
	}
	if !parts[2].Equal(decimal.RequireFromString("33.34")) {
		t.Fatalf("last part = %s, want 33.34", parts[2])
	}
	sum := decimal.Zero
	for _, p := range parts {
		sum = sum.Add(p)
	}
	if !sum.Equal(total) {
		t.Fatalf("parts sum to %s, want %s", sum, total)
	}
}

func TestSplitInstallmentsConservation(t *testing.T) {
	totals := []string{"0.01", "1.00", "99.99", "457.13", "1234.56"}
	for _, raw := range totals {
		total := decimal.RequireFromString(raw)
		for count := 1; count <= 12; count++ {
			parts := SplitInstallments(total, count)
			sum := decimal.Zero
			for _, p := range parts {
				sum = sum.Add(p)
			}
			if !sum.Equal(total) {
				t.Fatalf("total %s over %d parts sums to %s", raw, count, sum)
			}
		}
	}
}

func TestSplitInstallmentsInvalidCount(t *testing.T) {
	if parts := SplitInstallments(decimal.NewFromInt(100), 0); parts != nil {
		t.Fatalf("expected nil for zero count, got %v", parts)
	}
	if parts := SplitInstallments(decimal.NewFromInt(100), -2); parts != nil {
		t.Fatalf("expected nil for negative count, got %v", parts)
	}
}
