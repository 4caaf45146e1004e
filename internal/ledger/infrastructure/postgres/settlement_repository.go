package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	ledger "condoledger/internal/ledger/domain"
)

// SettlementRepository applies payments against the ledger.
type SettlementRepository struct {
	db *sql.DB
}

// NewSettlementRepository constructs a repository.
func NewSettlementRepository(db *sql.DB) *SettlementRepository {
	return &SettlementRepository{db: db}
}

// SettlePayment marks the transaction paid, settles the matching pending
// arrears record, appends one history row, and completes the plan when
// its last installment is paid. Conditional updates keep a lost race
// with the sweep from corrupting state; re-invoking on a paid
// transaction is a no-op.
func (r *SettlementRepository) SettlePayment(ctx context.Context, transactionID string, details ledger.PaymentDetails) (*ledger.SettlementResult, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("settlement repo: nil db")
	}
	if transactionID == "" {
		return nil, ledger.ErrEmptyTransactionID
	}
	paidAt := details.PaymentDate
	if paidAt.IsZero() {
		paidAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRowContext(ctx, `
UPDATE transactions
SET status = 'paid', payment_method = NULLIF($1,''), payment_reference = NULLIF($2,''),
	paid_at = $3, updated_at = NOW()
WHERE id = $4 AND status <> 'paid'
RETURNING `+transactionColumns, details.Method, details.Reference, paidAt.UTC(), transactionID)

	settled, err := scanTransaction(row)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	if settled == nil {
		// nothing updated: either unknown id or already paid
		_ = tx.Rollback()
		existing, err := r.getByID(ctx, transactionID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, ledger.ErrTransactionNotFound
		}
		return &ledger.SettlementResult{Transaction: existing, AlreadyPaid: true}, nil
	}

	result := &ledger.SettlementResult{Transaction: settled}

	arrearsRes, err := tx.ExecContext(ctx, `
UPDATE arrears_records
SET status = 'settled', settled_at = $1
WHERE settlement_transaction_id = $2 AND status = 'pending'`, paidAt.UTC(), transactionID)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	if affected, err := arrearsRes.RowsAffected(); err == nil && affected > 0 {
		result.ArrearsSettled = true
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO payment_history (
	id, transaction_id, member_id, building_id, amount, payment_date,
	method, reference, notes, created_at
) VALUES ($1,$2,NULLIF($3,''),$4,$5,$6,$7,$8,$9,NOW())`,
		uuid.NewString(), settled.ID, settled.MemberID, settled.BuildingID, settled.Amount,
		paidAt.UTC(), details.Method, details.Reference, details.Notes)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if settled.Kind == ledger.KindInstallment && settled.PaymentPlanID != "" {
		var remaining int
		err := tx.QueryRowContext(ctx, `
SELECT COUNT(*)
FROM transactions
WHERE payment_plan_id = $1 AND kind = 'installment' AND status <> 'paid'`,
			settled.PaymentPlanID).Scan(&remaining)
		if err != nil {
			_ = tx.Rollback()
			return nil, err
		}
		if remaining == 0 {
			_, err := tx.ExecContext(ctx, `
UPDATE payment_plans
SET status = 'completed', updated_at = NOW()
WHERE id = $1 AND status = 'active'`, settled.PaymentPlanID)
			if err != nil {
				_ = tx.Rollback()
				return nil, err
			}
			result.PlanCompleted = true
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SettlementRepository) getByID(ctx context.Context, id string) (*ledger.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+transactionColumns+`
FROM transactions
WHERE id = $1
LIMIT 1`, id)
	return scanTransaction(row)
}
