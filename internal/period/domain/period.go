package period

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	PeriodStatusOpen   = "open"
	PeriodStatusClosed = "closed"
)

// FinancialPeriod is one fiscal year of a building. ClosingBalance
// carries forward as the next year's OpeningBalance.
type FinancialPeriod struct {
	ID             string
	BuildingID     string
	Year           int
	StartDate      time.Time
	EndDate        time.Time
	Status         string
	OpeningBalance decimal.Decimal
	ClosingBalance decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

const (
	BalancePaid    = "paid"
	BalancePartial = "partial"
	BalanceUnpaid  = "unpaid"
)

// MemberPeriodBalance is a member's position within one fiscal year.
// It is a read model recomputed from the transaction store on demand.
// OpeningBalance is the member's real balance carried in from prior
// years; BalanceTotalReal is OpeningBalance plus the year's Balance.
type MemberPeriodBalance struct {
	MemberID         string          `json:"member_id"`
	BuildingID       string          `json:"building_id"`
	Year             int             `json:"year"`
	OpeningBalance   decimal.Decimal `json:"opening_balance"`
	TotalCharged     decimal.Decimal `json:"total_charged"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	Balance          decimal.Decimal `json:"balance"`
	BalanceTotalReal decimal.Decimal `json:"balance_total_real"`
	Status           string          `json:"status"`
}

// ClassifyBalance labels a member's period position.
func ClassifyBalance(charged, paid decimal.Decimal) string {
	if !charged.IsPositive() || paid.GreaterThanOrEqual(charged) {
		return BalancePaid
	}
	if !paid.IsPositive() {
		return BalanceUnpaid
	}
	return BalancePartial
}

// MemberTotals are one member's aggregated charges and payments for a
// fiscal year. Charges exclude transactions restructured into plans;
// their installments count instead.
type MemberTotals struct {
	MemberID string
	Charged  decimal.Decimal
	Paid     decimal.Decimal
}

// BalanceSource reads aggregated figures from the transaction store.
type BalanceSource interface {
	MemberTotals(ctx context.Context, buildingID string, year int) ([]MemberTotals, error)
	// Years returns the fiscal years with any activity, ascending.
	Years(ctx context.Context, buildingID string) ([]int, error)
}

// PeriodRepository persists closed fiscal periods.
type PeriodRepository interface {
	Get(ctx context.Context, buildingID string, year int) (*FinancialPeriod, error)
	Save(ctx context.Context, p *FinancialPeriod) error
}
