package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	ledger "condoledger/internal/ledger/domain"
)

// ArrearsRecordRepository is the Postgres store for delinquency records.
type ArrearsRecordRepository struct {
	db *sql.DB
}

// NewArrearsRecordRepository constructs a repository.
func NewArrearsRecordRepository(db *sql.DB) *ArrearsRecordRepository {
	return &ArrearsRecordRepository{db: db}
}

const arrearsColumns = `
id, building_id, member_id, amount, original_amount, due_date, status,
reminder_count, last_reminder_at, settlement_transaction_id, settled_at, created_at`

// InsertIfAbsent creates the record unless one already references the
// same settlement transaction. The unique index on
// settlement_transaction_id makes repeated sweeps safe.
func (r *ArrearsRecordRepository) InsertIfAbsent(ctx context.Context, rec *ledger.ArrearsRecord) (bool, error) {
	if r == nil || r.db == nil {
		return false, errors.New("arrears repo: nil db")
	}
	if rec == nil {
		return false, errors.New("arrears repo: nil record")
	}
	result, err := r.db.ExecContext(ctx, `
INSERT INTO arrears_records (
	id, building_id, member_id, amount, original_amount, due_date, status,
	reminder_count, settlement_transaction_id, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,0,$8,$9)
ON CONFLICT (settlement_transaction_id) DO NOTHING`,
		rec.ID, rec.BuildingID, rec.MemberID, rec.Amount, rec.OriginalAmount,
		rec.DueDate.UTC(), rec.Status, rec.SettlementTransactionID, time.Now().UTC())
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// ListPendingByMember returns open delinquency records for a member.
func (r *ArrearsRecordRepository) ListPendingByMember(ctx context.Context, memberID string) ([]ledger.ArrearsRecord, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("arrears repo: nil db")
	}
	return r.list(ctx, `
SELECT `+arrearsColumns+`
FROM arrears_records
WHERE member_id = $1 AND status = 'pending'
ORDER BY due_date ASC`, memberID)
}

// ListPendingByBuilding returns open delinquency records in a building.
func (r *ArrearsRecordRepository) ListPendingByBuilding(ctx context.Context, buildingID string) ([]ledger.ArrearsRecord, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("arrears repo: nil db")
	}
	return r.list(ctx, `
SELECT `+arrearsColumns+`
FROM arrears_records
WHERE building_id = $1 AND status = 'pending'
ORDER BY due_date ASC`, buildingID)
}

// MarkReminded bumps the reminder counter after a successful dispatch.
func (r *ArrearsRecordRepository) MarkReminded(ctx context.Context, id string, at time.Time) error {
	if r == nil || r.db == nil {
		return errors.New("arrears repo: nil db")
	}
	_, err := r.db.ExecContext(ctx, `
UPDATE arrears_records
SET reminder_count = reminder_count + 1, last_reminder_at = $1
WHERE id = $2 AND status = 'pending'`, at.UTC(), id)
	return err
}

func (r *ArrearsRecordRepository) list(ctx context.Context, query string, args ...any) ([]ledger.ArrearsRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ledger.ArrearsRecord
	for rows.Next() {
		rec, err := scanArrearsRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanArrearsRecord(row rowScanner) (*ledger.ArrearsRecord, error) {
	var rec ledger.ArrearsRecord
	var lastReminder sql.NullTime
	var settledAt sql.NullTime
	err := row.Scan(
		&rec.ID,
		&rec.BuildingID,
		&rec.MemberID,
		&rec.Amount,
		&rec.OriginalAmount,
		&rec.DueDate,
		&rec.Status,
		&rec.ReminderCount,
		&lastReminder,
		&rec.SettlementTransactionID,
		&settledAt,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lastReminder.Valid {
		rec.LastReminderAt = lastReminder.Time.UTC()
	}
	if settledAt.Valid {
		rec.SettledAt = settledAt.Time.UTC()
	}
	rec.DueDate = rec.DueDate.UTC()
	rec.CreatedAt = rec.CreatedAt.UTC()
	return &rec, nil
}
