package ledger

import (
	"context"
	"time"
)

// TransactionRepository persists ledger transactions.
type TransactionRepository interface {
	Insert(ctx context.Context, t *Transaction) error
	GetByID(ctx context.Context, id string) (*Transaction, error)
	// QuotaExists reports whether a quota was already generated for the
	// member in the given due month.
	QuotaExists(ctx context.Context, buildingID, memberID string, month time.Time) (bool, error)
	// LateFeeExistsInMonth reports whether a late fee was already charged
	// to the member in the given calendar month.
	LateFeeExistsInMonth(ctx context.Context, memberID string, month time.Time) (bool, error)
	// MarkQuotasOverdue flips pending quotas past their due date to
	// overdue. Conditional on current status, so re-runs touch nothing.
	MarkQuotasOverdue(ctx context.Context, buildingID string, asOf time.Time) (int, error)
	ListOverdueQuotas(ctx context.Context, buildingID string) ([]Transaction, error)
	ListOpenByMember(ctx context.Context, memberID string) ([]Transaction, error)
	ListOpenByBuilding(ctx context.Context, buildingID string) ([]Transaction, error)
}

// ArrearsRecordRepository persists delinquency records.
type ArrearsRecordRepository interface {
	// InsertIfAbsent creates the record unless one already references the
	// same settlement transaction. Returns true when a row was created.
	InsertIfAbsent(ctx context.Context, rec *ArrearsRecord) (bool, error)
	ListPendingByMember(ctx context.Context, memberID string) ([]ArrearsRecord, error)
	ListPendingByBuilding(ctx context.Context, buildingID string) ([]ArrearsRecord, error)
	MarkReminded(ctx context.Context, id string, at time.Time) error
}

// ArrearsConfigRepository stores per-building delinquency policy.
// GetOrDefault creates the row lazily with defaults on first read.
type ArrearsConfigRepository interface {
	GetOrDefault(ctx context.Context, buildingID string) (*ArrearsConfig, error)
	Save(ctx context.Context, cfg *ArrearsConfig) error
}

// PaymentPlanRepository persists payment plans atomically with their
// installment transactions and the relabeling of the originals.
type PaymentPlanRepository interface {
	CreateWithInstallments(ctx context.Context, plan *PaymentPlan, installments []Transaction, originalIDs []string) error
	GetByID(ctx context.Context, id string) (*PaymentPlan, error)
}

// SettlementResult reports the effects of settling one payment.
type SettlementResult struct {
	Transaction    *Transaction
	ArrearsSettled bool
	PlanCompleted  bool
	AlreadyPaid    bool
}

// SettlementRepository applies a payment atomically: transaction goes
// paid, the matching pending arrears record (if any) settles, one
// history row is appended, and a fully paid plan completes.
type SettlementRepository interface {
	SettlePayment(ctx context.Context, transactionID string, details PaymentDetails) (*SettlementResult, error)
}

// PaymentHistoryRepository reads the settlement audit trail.
type PaymentHistoryRepository interface {
	ListByMember(ctx context.Context, memberID string) ([]PaymentHistoryEntry, error)
}
