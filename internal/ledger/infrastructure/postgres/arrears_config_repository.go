package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	ledger "condoledger/internal/ledger/domain"
)

// ArrearsConfigRepository stores per-building delinquency policy.
type ArrearsConfigRepository struct {
	db *sql.DB
}

// NewArrearsConfigRepository constructs a repository.
func NewArrearsConfigRepository(db *sql.DB) *ArrearsConfigRepository {
	return &ArrearsConfigRepository{db: db}
}

// GetOrDefault loads the building config, inserting defaults on first
// read so administrators always have a row to edit.
func (r *ArrearsConfigRepository) GetOrDefault(ctx context.Context, buildingID string) (*ledger.ArrearsConfig, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("arrears config repo: nil db")
	}
	if buildingID == "" {
		return nil, ledger.ErrEmptyBuildingID
	}

	cfg, err := r.get(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		return cfg, nil
	}

	def := ledger.DefaultArrearsConfig(buildingID)
	_, err = r.db.ExecContext(ctx, `
INSERT INTO arrears_configs (
	building_id, grace_period_days, late_fee_percent_per_month,
	auto_generate_arrears, reminder_frequency_days, max_reminders, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (building_id) DO NOTHING`,
		def.BuildingID, def.GracePeriodDays, def.LateFeePercentPerMonth,
		def.AutoGenerateArrears, def.ReminderFrequencyDays, def.MaxReminders, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	// re-read in case a concurrent writer won the insert
	cfg, err = r.get(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return def, nil
	}
	return cfg, nil
}

// Save upserts the building config.
func (r *ArrearsConfigRepository) Save(ctx context.Context, cfg *ledger.ArrearsConfig) error {
	if r == nil || r.db == nil {
		return errors.New("arrears config repo: nil db")
	}
	if cfg == nil || cfg.BuildingID == "" {
		return ledger.ErrEmptyBuildingID
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO arrears_configs (
	building_id, grace_period_days, late_fee_percent_per_month,
	auto_generate_arrears, reminder_frequency_days, max_reminders, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,NOW())
ON CONFLICT (building_id)
DO UPDATE SET
	grace_period_days = EXCLUDED.grace_period_days,
	late_fee_percent_per_month = EXCLUDED.late_fee_percent_per_month,
	auto_generate_arrears = EXCLUDED.auto_generate_arrears,
	reminder_frequency_days = EXCLUDED.reminder_frequency_days,
	max_reminders = EXCLUDED.max_reminders,
	updated_at = NOW()`,
		cfg.BuildingID, cfg.GracePeriodDays, cfg.LateFeePercentPerMonth,
		cfg.AutoGenerateArrears, cfg.ReminderFrequencyDays, cfg.MaxReminders)
	return err
}

func (r *ArrearsConfigRepository) get(ctx context.Context, buildingID string) (*ledger.ArrearsConfig, error) {
	var cfg ledger.ArrearsConfig
	err := r.db.QueryRowContext(ctx, `
SELECT building_id, grace_period_days, late_fee_percent_per_month,
	auto_generate_arrears, reminder_frequency_days, max_reminders, updated_at
FROM arrears_configs
WHERE building_id = $1
LIMIT 1`, buildingID).Scan(
		&cfg.BuildingID,
		&cfg.GracePeriodDays,
		&cfg.LateFeePercentPerMonth,
		&cfg.AutoGenerateArrears,
		&cfg.ReminderFrequencyDays,
		&cfg.MaxReminders,
		&cfg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	cfg.UpdatedAt = cfg.UpdatedAt.UTC()
	return &cfg, nil
}
