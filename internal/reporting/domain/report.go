package reporting

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidRange is returned when a report range ends before it starts.
var ErrInvalidRange = errors.New("reporting: end date before start date")

// StatusBucket counts delinquency records sharing one status.
type StatusBucket struct {
	Status string          `json:"status"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

// DebtorLine is one member in the top debtors ranking.
type DebtorLine struct {
	MemberID      string          `json:"member_id"`
	MemberName    string          `json:"member_name,omitempty"`
	Total         decimal.Decimal `json:"total"`
	Count         int             `json:"count"`
	OldestDueDate time.Time       `json:"oldest_due_date"`
}

// MonthPoint is one month in the arrears evolution series.
type MonthPoint struct {
	Month         string          `json:"month"`
	Created       int             `json:"created"`
	CreatedAmount decimal.Decimal `json:"created_amount"`
	Settled       int             `json:"settled"`
	SettledAmount decimal.Decimal `json:"settled_amount"`
}

// ArrearsReport is the management overview of a building's delinquency.
type ArrearsReport struct {
	BuildingID       string         `json:"building_id"`
	GeneratedAt      time.Time      `json:"generated_at"`
	ByStatus         []StatusBucket `json:"by_status"`
	TopDebtors       []DebtorLine   `json:"top_debtors"`
	MonthlyEvolution []MonthPoint   `json:"monthly_evolution"`
}

// ReportRange optionally bounds the monthly evolution series. Zero
// values fall back to the trailing twelve months.
type ReportRange struct {
	StartDate time.Time
	EndDate   time.Time
}

// ReportSource reads aggregated delinquency figures from the store.
type ReportSource interface {
	StatusTotals(ctx context.Context, buildingID string) ([]StatusBucket, error)
	TopDebtors(ctx context.Context, buildingID string, limit int) ([]DebtorLine, error)
	MonthlyEvolution(ctx context.Context, buildingID string, rng ReportRange) ([]MonthPoint, error)
}
