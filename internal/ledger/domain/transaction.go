package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind classifies a monetary event in the ledger.
type Kind string

const (
	KindQuota           Kind = "quota"
	KindExpense         Kind = "expense"
	KindLateFee         Kind = "late_fee"
	KindInstallment     Kind = "installment"
	KindPaymentReceived Kind = "payment_received"
)

// Status is the lifecycle state of a transaction.
type Status string

const (
	StatusPending     Status = "pending"
	StatusOverdue     Status = "overdue"
	StatusPaymentPlan Status = "payment_plan"
	StatusPaid        Status = "paid"
)

// CanTransition reports whether a status change is legal.
// Paid is terminal; overdue never regresses to pending.
func CanTransition(from, to Status) bool {
	if from == to {
		return false
	}
	switch from {
	case StatusPending:
		return to == StatusOverdue || to == StatusPaymentPlan || to == StatusPaid
	case StatusOverdue:
		return to == StatusPaymentPlan || to == StatusPaid
	case StatusPaymentPlan:
		return to == StatusPaid
	default:
		return false
	}
}

// ValidKind reports whether value is a known transaction kind.
func ValidKind(value string) bool {
	switch Kind(value) {
	case KindQuota, KindExpense, KindLateFee, KindInstallment, KindPaymentReceived:
		return true
	default:
		return false
	}
}

// Transaction is one monetary event. Amounts are unsigned; Kind implies
// direction. A transaction is never deleted: it is the audit trail.
type Transaction struct {
	ID                string
	BuildingID        string
	MemberID          string // empty for building-wide expenses
	Kind              Kind
	Amount            decimal.Decimal
	ReserveFundAmount decimal.Decimal
	Description       string
	DueDate           time.Time
	TransactionDate   time.Time
	Status            Status
	PaymentPlanID     string
	FiscalYear        int
	PaymentMethod     string
	PaymentReference  string
	PaidAt            time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// DaysOverdue returns whole days elapsed since the due date, zero if not due.
func (t Transaction) DaysOverdue(asOf time.Time) int {
	if t.DueDate.IsZero() || !asOf.After(t.DueDate) {
		return 0
	}
	return int(asOf.Sub(t.DueDate).Hours() / 24)
}

// IsOpen reports whether the transaction still counts toward a member's
// arrears: overdue quotas and unpaid late fees outside any payment plan.
func (t Transaction) IsOpen() bool {
	if t.PaymentPlanID != "" {
		return false
	}
	switch t.Kind {
	case KindQuota:
		return t.Status == StatusOverdue
	case KindLateFee:
		return t.Status == StatusPending || t.Status == StatusOverdue
	default:
		return false
	}
}
