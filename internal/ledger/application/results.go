package application

import (
	"time"

	"github.com/shopspring/decimal"

	ledger "condoledger/internal/ledger/domain"
)

// ItemError reports one failed unit inside a batch run. Batch jobs
// collect these and keep going; they never abort the whole run.
type ItemError struct {
	BuildingID string `json:"building_id,omitempty"`
	MemberID   string `json:"member_id,omitempty"`
	Reason     string `json:"reason"`
}

// QuotaRunResult summarizes one monthly quota generation run.
type QuotaRunResult struct {
	Generated int         `json:"generated"`
	Period    string      `json:"period"`
	Errors    []ItemError `json:"errors,omitempty"`
}

// SweepResult summarizes one arrears sweep run.
type SweepResult struct {
	ProcessedBuildings int         `json:"processed_buildings"`
	MarkedOverdue      int         `json:"marked_overdue"`
	ArrearsCreated     int         `json:"arrears_created"`
	RemindersSent      int         `json:"reminders_sent"`
	Errors             []ItemError `json:"errors,omitempty"`
}

// LateFeeRunResult summarizes one late fee calculation run.
type LateFeeRunResult struct {
	FeesCharged  int             `json:"fees_charged"`
	TotalCharged decimal.Decimal `json:"total_charged"`
	Errors       []ItemError     `json:"errors,omitempty"`
}

// ArrearsItem is one open debt item of a member.
type ArrearsItem struct {
	TransactionID string          `json:"transaction_id"`
	Kind          ledger.Kind     `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	DueDate       time.Time       `json:"due_date"`
	DaysOverdue   int             `json:"days_overdue"`
}

// MemberArrearsResult aggregates a member's open debt.
type MemberArrearsResult struct {
	MemberID      string          `json:"member_id"`
	Items         []ArrearsItem   `json:"items"`
	Total         decimal.Decimal `json:"total"`
	Count         int             `json:"count"`
	OldestDueDate time.Time       `json:"oldest_due_date,omitempty"`
}

// MemberArrearsSummary is one member's line in a building aggregate.
type MemberArrearsSummary struct {
	MemberID      string          `json:"member_id"`
	Total         decimal.Decimal `json:"total"`
	Count         int             `json:"count"`
	OldestDueDate time.Time       `json:"oldest_due_date"`
}

// BuildingArrearsResult aggregates open debt across a building.
type BuildingArrearsResult struct {
	BuildingID  string                 `json:"building_id"`
	Members     []MemberArrearsSummary `json:"members"`
	Total       decimal.Decimal        `json:"total"`
	MemberCount int                    `json:"member_count"`
}

// PlanResult is the outcome of a debt restructuring.
type PlanResult struct {
	Plan         *ledger.PaymentPlan  `json:"payment_plan"`
	Installments []ledger.Transaction `json:"installments"`
}
