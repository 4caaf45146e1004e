package ledger

import (
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusOverdue, true},
		{StatusPending, StatusPaymentPlan, true},
		{StatusPending, StatusPaid, true},
		{StatusOverdue, StatusPaymentPlan, true},
		{StatusOverdue, StatusPaid, true},
		{StatusPaymentPlan, StatusPaid, true},
		{StatusOverdue, StatusPending, false},
		{StatusPaymentPlan, StatusPending, false},
		{StatusPaymentPlan, StatusOverdue, false},
		{StatusPaid, StatusPending, false},
		{StatusPaid, StatusOverdue, false},
		{StatusPaid, StatusPaymentPlan, false},
		{StatusPending, StatusPending, false},
		{StatusPaid, StatusPaid, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Fatalf("CanTransition(%s, %s) = %t, want %t", c.from, c.to, got, c.want)
		}
	}
}

func TestDaysOverdue(t *testing.T) {
	due := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	tx := Transaction{DueDate: due}

	if got := tx.DaysOverdue(due); got != 0 {
		t.Fatalf("on due date: got %d, want 0", got)
	}
	if got := tx.DaysOverdue(due.AddDate(0, 0, -5)); got != 0 {
		t.Fatalf("before due date: got %d, want 0", got)
	}
	if got := tx.DaysOverdue(due.AddDate(0, 0, 15)); got != 15 {
		t.Fatalf("15 days later: got %d, want 15", got)
	}
	if got := (Transaction{}).DaysOverdue(due); got != 0 {
		t.Fatalf("zero due date: got %d, want 0", got)
	}
}

func TestIsOpen(t *testing.T) {
	cases := []struct {
		name string
		tx   Transaction
		want bool
	}{
		{"overdue quota", Transaction{Kind: KindQuota, Status: StatusOverdue}, true},
		{"pending quota", Transaction{Kind: KindQuota, Status: StatusPending}, false},
		{"paid quota", Transaction{Kind: KindQuota, Status: StatusPaid}, false},
		{"pending late fee", Transaction{Kind: KindLateFee, Status: StatusPending}, true},
		{"overdue late fee", Transaction{Kind: KindLateFee, Status: StatusOverdue}, true},
		{"paid late fee", Transaction{Kind: KindLateFee, Status: StatusPaid}, false},
		{"quota in plan", Transaction{Kind: KindQuota, Status: StatusOverdue, PaymentPlanID: "plan-1"}, false},
		{"installment", Transaction{Kind: KindInstallment, Status: StatusPending, PaymentPlanID: "plan-1"}, false},
		{"expense", Transaction{Kind: KindExpense, Status: StatusOverdue}, false},
	}
	for _, c := range cases {
		if got := c.tx.IsOpen(); got != c.want {
			t.Fatalf("%s: IsOpen() = %t, want %t", c.name, got, c.want)
		}
	}
}

func TestValidKind(t *testing.T) {
	for _, v := range []string{"quota", "expense", "late_fee", "installment", "payment_received"} {
		if !ValidKind(v) {
			t.Fatalf("expected %q to be valid", v)
		}
	}
	if ValidKind("refund") {
		t.Fatal("expected refund to be invalid")
	}
}
