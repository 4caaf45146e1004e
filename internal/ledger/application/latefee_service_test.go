package application

import (
	"context"
	"testing"
	"time"

	directory "condoledger/internal/directory/domain"
	ledger "condoledger/internal/ledger/domain"
	"condoledger/internal/ledger/infrastructure/memory"
)

func newLateFeeFixture(t *testing.T, clock *fakeClock) (*LateFeeService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	buildings := &fakeBuildings{items: []directory.Building{testBuilding("b1", "100")}}
	svc, err := NewLateFeeService(store, store, buildings, clock, nil)
	if err != nil {
		t.Fatalf("NewLateFeeService: %v", err)
	}
	return svc, store
}

func TestLateFeeChargesAggregatedDebt(t *testing.T) {
	oldest := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: oldest.AddDate(0, 0, 95)}
	svc, store := newLateFeeFixture(t, clock)
	seedQuota(t, store, "t1", "b1", "m1", "100", oldest, ledger.StatusOverdue)
	seedQuota(t, store, "t2", "b1", "m1", "200", oldest.AddDate(0, 1, 0), ledger.StatusOverdue)

	run, err := svc.Apply(context.Background(), "b1")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if run.FeesCharged != 1 {
		t.Fatalf("fees charged = %d, want 1", run.FeesCharged)
	}
	// 300 total, 95 days from the oldest due date is 3 months at 2%.
	if run.TotalCharged.StringFixed(2) != "18.00" {
		t.Fatalf("total charged = %s, want 18.00", run.TotalCharged.StringFixed(2))
	}

	open, err := store.ListOpenByMember(context.Background(), "m1")
	if err != nil {
		t.Fatalf("ListOpenByMember: %v", err)
	}
	var fee *ledger.Transaction
	for i := range open {
		if open[i].Kind == ledger.KindLateFee {
			fee = &open[i]
		}
	}
	if fee == nil {
		t.Fatal("expected a late fee transaction among open arrears")
	}
	if fee.Status != ledger.StatusPending {
		t.Fatalf("fee status = %s, want pending", fee.Status)
	}
	if fee.FiscalYear != 2025 {
		t.Fatalf("fee fiscal year = %d", fee.FiscalYear)
	}
}

func TestLateFeeOncePerCalendarMonth(t *testing.T) {
	oldest := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: oldest.AddDate(0, 0, 40)}
	svc, store := newLateFeeFixture(t, clock)
	seedQuota(t, store, "t1", "b1", "m1", "100", oldest, ledger.StatusOverdue)

	first, err := svc.Apply(context.Background(), "b1")
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.FeesCharged != 1 {
		t.Fatalf("first run charged = %d, want 1", first.FeesCharged)
	}

	clock.now = clock.now.AddDate(0, 0, 3)
	second, err := svc.Apply(context.Background(), "b1")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.FeesCharged != 0 {
		t.Fatalf("second run in same month charged = %d, want 0", second.FeesCharged)
	}

	clock.now = time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	third, err := svc.Apply(context.Background(), "b1")
	if err != nil {
		t.Fatalf("third run: %v", err)
	}
	if third.FeesCharged != 1 {
		t.Fatalf("next month charged = %d, want 1", third.FeesCharged)
	}
}

func TestLateFeeSkipsInsideFirstMonth(t *testing.T) {
	oldest := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: oldest.AddDate(0, 0, 20)}
	svc, store := newLateFeeFixture(t, clock)
	seedQuota(t, store, "t1", "b1", "m1", "100", oldest, ledger.StatusOverdue)

	run, err := svc.Apply(context.Background(), "b1")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if run.FeesCharged != 0 {
		t.Fatalf("charged = %d, want 0 before a full month", run.FeesCharged)
	}
}

func TestLateFeeIgnoresQuotasInPlans(t *testing.T) {
	oldest := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: oldest.AddDate(0, 0, 95)}
	svc, store := newLateFeeFixture(t, clock)

	tx := &ledger.Transaction{
		ID:            "t1",
		BuildingID:    "b1",
		MemberID:      "m1",
		Kind:          ledger.KindQuota,
		Amount:        dec("100"),
		DueDate:       oldest,
		Status:        ledger.StatusOverdue,
		PaymentPlanID: "plan-1",
		FiscalYear:    2025,
	}
	if err := store.Insert(context.Background(), tx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	run, err := svc.Apply(context.Background(), "b1")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if run.FeesCharged != 0 {
		t.Fatalf("charged = %d, want 0 for restructured debt", run.FeesCharged)
	}
}
