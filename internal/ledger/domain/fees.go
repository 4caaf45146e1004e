package ledger

import "github.com/shopspring/decimal"

// MonthsLate converts days overdue into whole 30-day months.
func MonthsLate(daysOverdue int) int {
	if daysOverdue <= 0 {
		return 0
	}
	return daysOverdue / 30
}

// ComputeLateFee derives the penalty for a member's aggregated overdue
// amount: totalOverdue x ratePerMonth x monthsLate, rounded to cents.
func ComputeLateFee(totalOverdue, ratePerMonth decimal.Decimal, monthsLate int) decimal.Decimal {
	if monthsLate <= 0 {
		return decimal.Zero
	}
	return totalOverdue.Mul(ratePerMonth).Mul(decimal.NewFromInt(int64(monthsLate))).Round(2)
}
