package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	ledger "condoledger/internal/ledger/domain"
)

// TransactionRepository is the Postgres store for ledger transactions.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository constructs a repository.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `
id, building_id, member_id, kind, amount, reserve_fund_amount, description,
due_date, transaction_date, status, payment_plan_id, fiscal_year,
payment_method, payment_reference, paid_at, created_at, updated_at`

// Insert appends a transaction to the ledger.
func (r *TransactionRepository) Insert(ctx context.Context, t *ledger.Transaction) error {
	if r == nil || r.db == nil {
		return errors.New("transaction repo: nil db")
	}
	if t == nil {
		return ledger.ErrNilTransaction
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO transactions (
	id, building_id, member_id, kind, amount, reserve_fund_amount, description,
	due_date, transaction_date, status, payment_plan_id, fiscal_year,
	payment_method, payment_reference, paid_at, created_at, updated_at
) VALUES (
	$1,$2,NULLIF($3,''),$4,$5,$6,$7,$8,$9,$10,NULLIF($11,''),$12,$13,$14,$15,$16,$16
)`,
		t.ID, t.BuildingID, t.MemberID, string(t.Kind), t.Amount, t.ReserveFundAmount, t.Description,
		t.DueDate.UTC(), t.TransactionDate.UTC(), string(t.Status), t.PaymentPlanID, t.FiscalYear,
		t.PaymentMethod, t.PaymentReference, nullTime(t.PaidAt), time.Now().UTC())
	return err
}

// GetByID fetches one transaction.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*ledger.Transaction, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("transaction repo: nil db")
	}
	if id == "" {
		return nil, ledger.ErrEmptyTransactionID
	}
	row := r.db.QueryRowContext(ctx, `
SELECT `+transactionColumns+`
FROM transactions
WHERE id = $1
LIMIT 1`, id)
	return scanTransaction(row)
}

// QuotaExists reports whether a quota was generated for the member in the
// due month. Backs the monthly generation idempotency check.
func (r *TransactionRepository) QuotaExists(ctx context.Context, buildingID, memberID string, month time.Time) (bool, error) {
	if r == nil || r.db == nil {
		return false, errors.New("transaction repo: nil db")
	}
	start := ledger.MonthStart(month)
	end := start.AddDate(0, 1, 0)
	var exists bool
	err := r.db.QueryRowContext(ctx, `
SELECT EXISTS (
	SELECT 1 FROM transactions
	WHERE building_id = $1 AND member_id = $2 AND kind = 'quota'
		AND due_date >= $3 AND due_date < $4
)`, buildingID, memberID, start, end).Scan(&exists)
	return exists, err
}

// LateFeeExistsInMonth reports whether a late fee was already charged to
// the member in the given calendar month.
func (r *TransactionRepository) LateFeeExistsInMonth(ctx context.Context, memberID string, month time.Time) (bool, error) {
	if r == nil || r.db == nil {
		return false, errors.New("transaction repo: nil db")
	}
	start := ledger.MonthStart(month)
	end := start.AddDate(0, 1, 0)
	var exists bool
	err := r.db.QueryRowContext(ctx, `
SELECT EXISTS (
	SELECT 1 FROM transactions
	WHERE member_id = $1 AND kind = 'late_fee'
		AND transaction_date >= $2 AND transaction_date < $3
)`, memberID, start, end).Scan(&exists)
	return exists, err
}

// MarkQuotasOverdue flips pending quotas past due to overdue. The status
// condition makes re-runs a no-op.
func (r *TransactionRepository) MarkQuotasOverdue(ctx context.Context, buildingID string, asOf time.Time) (int, error) {
	if r == nil || r.db == nil {
		return 0, errors.New("transaction repo: nil db")
	}
	result, err := r.db.ExecContext(ctx, `
UPDATE transactions
SET status = 'overdue', updated_at = NOW()
WHERE building_id = $1 AND kind = 'quota' AND status = 'pending' AND due_date < $2`,
		buildingID, ledger.DayStart(asOf))
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

// ListOverdueQuotas returns overdue quota transactions outside any plan.
func (r *TransactionRepository) ListOverdueQuotas(ctx context.Context, buildingID string) ([]ledger.Transaction, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("transaction repo: nil db")
	}
	return r.list(ctx, `
SELECT `+transactionColumns+`
FROM transactions
WHERE building_id = $1 AND kind = 'quota' AND status = 'overdue'
	AND payment_plan_id IS NULL
ORDER BY due_date ASC`, buildingID)
}

// ListOpenByMember returns the member's open arrears items: overdue
// quotas plus unpaid late fees, excluding anything already in a plan.
func (r *TransactionRepository) ListOpenByMember(ctx context.Context, memberID string) ([]ledger.Transaction, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("transaction repo: nil db")
	}
	return r.list(ctx, `
SELECT `+transactionColumns+`
FROM transactions
WHERE member_id = $1 AND payment_plan_id IS NULL
	AND ((kind = 'quota' AND status = 'overdue')
		OR (kind = 'late_fee' AND status IN ('pending','overdue')))
ORDER BY due_date ASC`, memberID)
}

// ListOpenByBuilding returns all open arrears items in a building.
func (r *TransactionRepository) ListOpenByBuilding(ctx context.Context, buildingID string) ([]ledger.Transaction, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("transaction repo: nil db")
	}
	return r.list(ctx, `
SELECT `+transactionColumns+`
FROM transactions
WHERE building_id = $1 AND payment_plan_id IS NULL
	AND ((kind = 'quota' AND status = 'overdue')
		OR (kind = 'late_fee' AND status IN ('pending','overdue')))
ORDER BY member_id ASC, due_date ASC`, buildingID)
}

func (r *TransactionRepository) list(ctx context.Context, query string, args ...any) ([]ledger.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ledger.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		if t != nil {
			result = append(result, *t)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*ledger.Transaction, error) {
	var t ledger.Transaction
	var memberID sql.NullString
	var kind string
	var status string
	var planID sql.NullString
	var method sql.NullString
	var reference sql.NullString
	var paidAt sql.NullTime
	err := row.Scan(
		&t.ID,
		&t.BuildingID,
		&memberID,
		&kind,
		&t.Amount,
		&t.ReserveFundAmount,
		&t.Description,
		&t.DueDate,
		&t.TransactionDate,
		&status,
		&planID,
		&t.FiscalYear,
		&method,
		&reference,
		&paidAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	t.Kind = ledger.Kind(kind)
	t.Status = ledger.Status(status)
	if memberID.Valid {
		t.MemberID = memberID.String
	}
	if planID.Valid {
		t.PaymentPlanID = planID.String
	}
	if method.Valid {
		t.PaymentMethod = method.String
	}
	if reference.Valid {
		t.PaymentReference = reference.String
	}
	if paidAt.Valid {
		t.PaidAt = paidAt.Time.UTC()
	}
	t.DueDate = t.DueDate.UTC()
	t.TransactionDate = t.TransactionDate.UTC()
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}
