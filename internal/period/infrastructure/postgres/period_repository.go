package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	period "condoledger/internal/period/domain"
)

// PeriodRepository is the Postgres store for closed fiscal periods.
type PeriodRepository struct {
	db *sql.DB
}

// NewPeriodRepository constructs a repository.
func NewPeriodRepository(db *sql.DB) *PeriodRepository {
	return &PeriodRepository{db: db}
}

// Get fetches one building-year period, nil when absent.
func (r *PeriodRepository) Get(ctx context.Context, buildingID string, year int) (*period.FinancialPeriod, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("period repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT id, building_id, year, start_date, end_date, status,
       opening_balance, closing_balance, created_at, updated_at
FROM financial_periods
WHERE building_id = $1 AND year = $2
LIMIT 1`, buildingID, year)

	var p period.FinancialPeriod
	err := row.Scan(
		&p.ID,
		&p.BuildingID,
		&p.Year,
		&p.StartDate,
		&p.EndDate,
		&p.Status,
		&p.OpeningBalance,
		&p.ClosingBalance,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	p.StartDate = p.StartDate.UTC()
	p.EndDate = p.EndDate.UTC()
	return &p, nil
}

// Save upserts a period on (building_id, year).
func (r *PeriodRepository) Save(ctx context.Context, p *period.FinancialPeriod) error {
	if r == nil || r.db == nil {
		return errors.New("period repo: nil db")
	}
	if p == nil {
		return period.ErrNilPeriod
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO financial_periods (
	id, building_id, year, start_date, end_date, status,
	opening_balance, closing_balance, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$9)
ON CONFLICT (building_id, year) DO UPDATE SET
	status = EXCLUDED.status,
	opening_balance = EXCLUDED.opening_balance,
	closing_balance = EXCLUDED.closing_balance,
	updated_at = EXCLUDED.updated_at`,
		p.ID, p.BuildingID, p.Year, p.StartDate.UTC(), p.EndDate.UTC(), p.Status,
		p.OpeningBalance, p.ClosingBalance, time.Now().UTC())
	return err
}
