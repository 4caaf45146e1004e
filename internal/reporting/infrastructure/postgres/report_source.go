package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	reporting "condoledger/internal/reporting/domain"
)

// ReportSource aggregates delinquency figures from arrears_records.
type ReportSource struct {
	db *sql.DB
}

// NewReportSource constructs the source.
func NewReportSource(db *sql.DB) (*ReportSource, error) {
	if db == nil {
		return nil, errors.New("postgres report source: nil db")
	}
	return &ReportSource{db: db}, nil
}

// StatusTotals returns record count and amount per status.
func (s *ReportSource) StatusTotals(ctx context.Context, buildingID string) ([]reporting.StatusBucket, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT status, COUNT(*), COALESCE(SUM(amount), 0)
FROM arrears_records
WHERE building_id = $1
GROUP BY status
ORDER BY status`, buildingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []reporting.StatusBucket
	for rows.Next() {
		var b reporting.StatusBucket
		if err := rows.Scan(&b.Status, &b.Count, &b.Total); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// TopDebtors ranks members by pending delinquency amount.
func (s *ReportSource) TopDebtors(ctx context.Context, buildingID string, limit int) ([]reporting.DebtorLine, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT a.member_id,
       COALESCE(m.name, ''),
       COALESCE(SUM(a.amount), 0),
       COUNT(*),
       MIN(a.due_date)
FROM arrears_records a
LEFT JOIN members m ON m.id = a.member_id
WHERE a.building_id = $1 AND a.status = 'pending'
GROUP BY a.member_id, m.name
ORDER BY SUM(a.amount) DESC
LIMIT $2`, buildingID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var debtors []reporting.DebtorLine
	for rows.Next() {
		var d reporting.DebtorLine
		if err := rows.Scan(&d.MemberID, &d.MemberName, &d.Total, &d.Count, &d.OldestDueDate); err != nil {
			return nil, err
		}
		d.OldestDueDate = d.OldestDueDate.UTC()
		debtors = append(debtors, d)
	}
	return debtors, rows.Err()
}

// MonthlyEvolution returns created and settled figures per month. An
// unbounded range covers the trailing twelve months; explicit bounds
// are widened to whole months.
func (s *ReportSource) MonthlyEvolution(ctx context.Context, buildingID string, rng reporting.ReportRange) ([]reporting.MonthPoint, error) {
	end := rng.EndDate
	if end.IsZero() {
		end = time.Now().UTC()
	}
	endExclusive := monthStart(end).AddDate(0, 1, 0)
	start := rng.StartDate
	if start.IsZero() {
		start = monthStart(end).AddDate(0, -11, 0)
	} else {
		start = monthStart(start)
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT to_char(date_trunc('month', created_at), 'YYYY-MM') AS month,
       COUNT(*),
       COALESCE(SUM(amount), 0),
       COUNT(*) FILTER (WHERE status = 'settled'),
       COALESCE(SUM(amount) FILTER (WHERE status = 'settled'), 0)
FROM arrears_records
WHERE building_id = $1
  AND created_at >= $2
  AND created_at < $3
GROUP BY 1
ORDER BY 1`, buildingID, start, endExclusive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []reporting.MonthPoint
	for rows.Next() {
		var p reporting.MonthPoint
		if err := rows.Scan(&p.Month, &p.Created, &p.CreatedAmount, &p.Settled, &p.SettledAmount); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
