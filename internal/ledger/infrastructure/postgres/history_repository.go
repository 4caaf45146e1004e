package postgres

import (
	"context"
	"database/sql"
	"errors"

	ledger "condoledger/internal/ledger/domain"
)

// PaymentHistoryRepository reads the settlement audit trail.
type PaymentHistoryRepository struct {
	db *sql.DB
}

// NewPaymentHistoryRepository constructs a repository.
func NewPaymentHistoryRepository(db *sql.DB) *PaymentHistoryRepository {
	return &PaymentHistoryRepository{db: db}
}

// ListByMember returns a member's payment history, newest first.
func (r *PaymentHistoryRepository) ListByMember(ctx context.Context, memberID string) ([]ledger.PaymentHistoryEntry, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("history repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, transaction_id, member_id, building_id, amount, payment_date,
	method, reference, notes, created_at
FROM payment_history
WHERE member_id = $1
ORDER BY payment_date DESC`, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ledger.PaymentHistoryEntry
	for rows.Next() {
		var entry ledger.PaymentHistoryEntry
		var method, reference, notes sql.NullString
		if err := rows.Scan(
			&entry.ID,
			&entry.TransactionID,
			&entry.MemberID,
			&entry.BuildingID,
			&entry.Amount,
			&entry.PaymentDate,
			&method,
			&reference,
			&notes,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		if method.Valid {
			entry.Method = method.String
		}
		if reference.Valid {
			entry.Reference = reference.String
		}
		if notes.Valid {
			entry.Notes = notes.String
		}
		entry.PaymentDate = entry.PaymentDate.UTC()
		entry.CreatedAt = entry.CreatedAt.UTC()
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
