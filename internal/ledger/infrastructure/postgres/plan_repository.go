package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	ledger "condoledger/internal/ledger/domain"
)

// PaymentPlanRepository is the Postgres store for payment plans.
type PaymentPlanRepository struct {
	db *sql.DB
}

// NewPaymentPlanRepository constructs a repository.
func NewPaymentPlanRepository(db *sql.DB) *PaymentPlanRepository {
	return &PaymentPlanRepository{db: db}
}

// CreateWithInstallments inserts the plan, its installment transactions,
// and relabels the originals, all in one transaction. The status
// condition on the originals keeps a racing settlement from being
// overwritten.
func (r *PaymentPlanRepository) CreateWithInstallments(ctx context.Context, plan *ledger.PaymentPlan, installments []ledger.Transaction, originalIDs []string) error {
	if r == nil || r.db == nil {
		return errors.New("plan repo: nil db")
	}
	if plan == nil {
		return errors.New("plan repo: nil plan")
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
INSERT INTO payment_plans (
	id, building_id, member_id, total_amount, installment_count,
	installment_amount, start_date, status, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$9)`,
		plan.ID, plan.BuildingID, plan.MemberID, plan.TotalAmount, plan.InstallmentCount,
		plan.InstallmentAmount, plan.StartDate.UTC(), plan.Status, now)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	for _, inst := range installments {
		_, err := tx.ExecContext(ctx, `
INSERT INTO transactions (
	id, building_id, member_id, kind, amount, reserve_fund_amount, description,
	due_date, transaction_date, status, payment_plan_id, fiscal_year,
	created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,0,$6,$7,$8,$9,$10,$11,$12,$12)`,
			inst.ID, inst.BuildingID, inst.MemberID, string(inst.Kind), inst.Amount, inst.Description,
			inst.DueDate.UTC(), inst.TransactionDate.UTC(), string(inst.Status), plan.ID, inst.FiscalYear, now)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	for _, id := range originalIDs {
		_, err := tx.ExecContext(ctx, `
UPDATE transactions
SET payment_plan_id = $1, status = 'payment_plan', updated_at = NOW()
WHERE id = $2 AND status IN ('pending','overdue')`, plan.ID, id)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// GetByID fetches a plan.
func (r *PaymentPlanRepository) GetByID(ctx context.Context, id string) (*ledger.PaymentPlan, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("plan repo: nil db")
	}
	var plan ledger.PaymentPlan
	err := r.db.QueryRowContext(ctx, `
SELECT id, building_id, member_id, total_amount, installment_count,
	installment_amount, start_date, status, created_at, updated_at
FROM payment_plans
WHERE id = $1
LIMIT 1`, id).Scan(
		&plan.ID,
		&plan.BuildingID,
		&plan.MemberID,
		&plan.TotalAmount,
		&plan.InstallmentCount,
		&plan.InstallmentAmount,
		&plan.StartDate,
		&plan.Status,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	plan.StartDate = plan.StartDate.UTC()
	plan.CreatedAt = plan.CreatedAt.UTC()
	plan.UpdatedAt = plan.UpdatedAt.UTC()
	return &plan, nil
}
