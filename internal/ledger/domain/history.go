package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentHistoryEntry is an append-only audit row written once per
// settled payment. Never mutated.
type PaymentHistoryEntry struct {
	ID            string
	TransactionID string
	MemberID      string
	BuildingID    string
	Amount        decimal.Decimal
	PaymentDate   time.Time
	Method        string
	Reference     string
	Notes         string
	CreatedAt     time.Time
}

// PaymentDetails carries the metadata recorded when a payment settles a
// transaction.
type PaymentDetails struct {
	PaymentDate time.Time
	Method      string
	Reference   string
	Notes       string
}
