package postgres

import (
	"context"
	"database/sql"
	"errors"

	period "condoledger/internal/period/domain"
)

// BalanceSource aggregates period figures straight from the
// transactions table. Charges restructured into a payment plan are
// excluded; their installments count instead.
type BalanceSource struct {
	db *sql.DB
}

// NewBalanceSource constructs the source.
func NewBalanceSource(db *sql.DB) (*BalanceSource, error) {
	if db == nil {
		return nil, errors.New("postgres balance source: nil db")
	}
	return &BalanceSource{db: db}, nil
}

// MemberTotals returns per-member charged and paid sums for a year.
func (s *BalanceSource) MemberTotals(ctx context.Context, buildingID string, year int) ([]period.MemberTotals, error) {
	const query = `
SELECT member_id,
       COALESCE(SUM(amount), 0) AS charged,
       COALESCE(SUM(CASE WHEN status = 'paid' THEN amount ELSE 0 END), 0) AS paid
FROM transactions
WHERE building_id = $1
  AND fiscal_year = $2
  AND member_id IS NOT NULL
  AND kind IN ('quota', 'late_fee', 'installment')
  AND status <> 'payment_plan'
GROUP BY member_id
ORDER BY member_id`

	rows, err := s.db.QueryContext(ctx, query, buildingID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []period.MemberTotals
	for rows.Next() {
		var t period.MemberTotals
		if err := rows.Scan(&t.MemberID, &t.Charged, &t.Paid); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// Years returns the fiscal years with activity, ascending.
func (s *BalanceSource) Years(ctx context.Context, buildingID string) ([]int, error) {
	const query = `
SELECT DISTINCT fiscal_year
FROM transactions
WHERE building_id = $1
ORDER BY fiscal_year`

	rows, err := s.db.QueryContext(ctx, query, buildingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	return years, rows.Err()
}
