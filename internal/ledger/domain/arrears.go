package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ArrearsStatusPending = "pending"
	ArrearsStatusSettled = "settled"
)

// ArrearsRecord is one delinquency instance for a single overdue
// transaction. At most one record ever references a transaction.
type ArrearsRecord struct {
	ID                      string
	BuildingID              string
	MemberID                string
	Amount                  decimal.Decimal
	OriginalAmount          decimal.Decimal
	DueDate                 time.Time
	Status                  string
	ReminderCount           int
	LastReminderAt          time.Time
	SettlementTransactionID string
	SettledAt               time.Time
	CreatedAt               time.Time
}

// ArrearsConfig holds per-building delinquency policy.
type ArrearsConfig struct {
	BuildingID               string
	GracePeriodDays          int
	LateFeePercentPerMonth   decimal.Decimal
	AutoGenerateArrears      bool
	ReminderFrequencyDays    int
	MaxReminders             int
	UpdatedAt                time.Time
}

// DefaultArrearsConfig returns the policy applied to buildings that have
// never been configured.
func DefaultArrearsConfig(buildingID string) *ArrearsConfig {
	return &ArrearsConfig{
		BuildingID:             buildingID,
		GracePeriodDays:        10,
		LateFeePercentPerMonth: decimal.NewFromFloat(0.02),
		AutoGenerateArrears:    true,
		ReminderFrequencyDays:  7,
		MaxReminders:           3,
	}
}

// ReminderDue reports whether a pending record qualifies for another
// reminder under the given policy.
func (r ArrearsRecord) ReminderDue(cfg *ArrearsConfig, asOf time.Time) bool {
	if cfg == nil || r.Status != ArrearsStatusPending {
		return false
	}
	if r.ReminderCount >= cfg.MaxReminders {
		return false
	}
	if r.LastReminderAt.IsZero() {
		return true
	}
	next := r.LastReminderAt.AddDate(0, 0, cfg.ReminderFrequencyDays)
	return !asOf.Before(next)
}
