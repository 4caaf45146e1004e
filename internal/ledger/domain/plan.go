package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PlanStatusActive    = "active"
	PlanStatusCompleted = "completed"
	PlanStatusCancelled = "cancelled"
)

// PaymentPlan restructures a member's open arrears into equal monthly
// installments. Sum of installment amounts always equals TotalAmount.
type PaymentPlan struct {
	ID                string
	BuildingID        string
	MemberID          string
	TotalAmount       decimal.Decimal
	InstallmentCount  int
	InstallmentAmount decimal.Decimal
	StartDate         time.Time
	Status            string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// SplitInstallments divides total into count parts rounded to cents.
// The final part absorbs the rounding remainder so the parts always sum
// back to total exactly.
func SplitInstallments(total decimal.Decimal, count int) []decimal.Decimal {
	if count <= 0 {
		return nil
	}
	base := total.Div(decimal.NewFromInt(int64(count))).RoundDown(2)
	parts := make([]decimal.Decimal, count)
	running := decimal.Zero
	for i := 0; i < count-1; i++ {
		parts[i] = base
		running = running.Add(base)
	}
	parts[count-1] = total.Sub(running)
	return parts
}
