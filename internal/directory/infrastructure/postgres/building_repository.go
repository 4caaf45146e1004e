package postgres

import (
	"context"
	"database/sql"
	"errors"

	directory "condoledger/internal/directory/domain"
)

// BuildingRepository reads buildings from the shared store.
type BuildingRepository struct {
	db *sql.DB
}

// NewBuildingRepository constructs a repository.
func NewBuildingRepository(db *sql.DB) *BuildingRepository {
	return &BuildingRepository{db: db}
}

// Get returns one building.
func (r *BuildingRepository) Get(ctx context.Context, id string) (*directory.Building, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("building repo: nil db")
	}
	var b directory.Building
	err := r.db.QueryRowContext(ctx, `
SELECT id, name, monthly_quota, reserve_fund_percentage, is_active
FROM buildings
WHERE id = $1
LIMIT 1`, id).Scan(&b.ID, &b.Name, &b.MonthlyQuota, &b.ReserveFundPercentage, &b.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, directory.ErrBuildingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ListActive returns active buildings.
func (r *BuildingRepository) ListActive(ctx context.Context) ([]directory.Building, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("building repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, monthly_quota, reserve_fund_percentage, is_active
FROM buildings
WHERE is_active
ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []directory.Building
	for rows.Next() {
		var b directory.Building
		if err := rows.Scan(&b.ID, &b.Name, &b.MonthlyQuota, &b.ReserveFundPercentage, &b.IsActive); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
