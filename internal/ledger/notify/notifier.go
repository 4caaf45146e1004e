package notify

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ReminderMessage carries one payment reminder for a member.
type ReminderMessage struct {
	BuildingID     string
	MemberID       string
	MemberName     string
	Email          string
	AmountDue      decimal.Decimal
	DueDate        time.Time
	DaysOverdue    int
	ReminderNumber int
}

// Notifier dispatches payment reminders. Implementations are
// fire-and-forget: a failed dispatch never rolls back the financial
// operation that triggered it.
type Notifier interface {
	Notify(ctx context.Context, msg ReminderMessage) error
}
