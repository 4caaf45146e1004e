package application

import (
	"context"
	"testing"
	"time"

	ledger "condoledger/internal/ledger/domain"
	"condoledger/internal/ledger/infrastructure/memory"
)

func newPlanFixture(t *testing.T, clock *fakeClock) (*PlanService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc, err := NewPlanService(store, store.Plans(), clock, nil)
	if err != nil {
		t.Fatalf("NewPlanService: %v", err)
	}
	return svc, store
}

func TestPlanCreateSplitsDebtEvenly(t *testing.T) {
	due := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)}
	svc, store := newPlanFixture(t, clock)
	seedQuota(t, store, "t1", "b1", "m1", "200", due, ledger.StatusOverdue)
	seedQuota(t, store, "t2", "b1", "m1", "200", due.AddDate(0, 1, 0), ledger.StatusOverdue)
	seedQuota(t, store, "t3", "b1", "m1", "200", due.AddDate(0, 2, 0), ledger.StatusOverdue)

	res, err := svc.Create(context.Background(), "m1", PlanOptions{IncludeLateFees: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	plan := res.Plan
	if plan.TotalAmount.StringFixed(2) != "600.00" {
		t.Fatalf("total = %s, want 600.00", plan.TotalAmount.StringFixed(2))
	}
	if plan.InstallmentCount != 6 {
		t.Fatalf("count = %d, want default 6", plan.InstallmentCount)
	}
	if plan.InstallmentAmount.StringFixed(2) != "100.00" {
		t.Fatalf("installment = %s, want 100.00", plan.InstallmentAmount.StringFixed(2))
	}
	if plan.Status != ledger.PlanStatusActive {
		t.Fatalf("status = %s, want active", plan.Status)
	}
	if len(res.Installments) != 6 {
		t.Fatalf("installments = %d, want 6", len(res.Installments))
	}
	start := ledger.DayStart(clock.now)
	for i, inst := range res.Installments {
		want := start.AddDate(0, i, 0)
		if !inst.DueDate.Equal(want) {
			t.Fatalf("installment %d due %s, want %s", i, inst.DueDate, want)
		}
		if inst.Kind != ledger.KindInstallment || inst.Status != ledger.StatusPending {
			t.Fatalf("installment %d: %+v", i, inst)
		}
		if inst.PaymentPlanID != plan.ID {
			t.Fatalf("installment %d not bound to plan", i)
		}
	}

	// The originals leave the member's open arrears.
	open, err := store.ListOpenByMember(context.Background(), "m1")
	if err != nil {
		t.Fatalf("ListOpenByMember: %v", err)
	}
	if len(open) != 0 {
		t.Fatalf("open arrears after restructure = %d, want 0", len(open))
	}
	original, err := store.GetByID(context.Background(), "t1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if original.Status != ledger.StatusPaymentPlan || original.PaymentPlanID != plan.ID {
		t.Fatalf("original not relabeled: %+v", original)
	}
}

func TestPlanCreateWithoutLateFees(t *testing.T) {
	due := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)}
	svc, store := newPlanFixture(t, clock)
	seedQuota(t, store, "t1", "b1", "m1", "300", due, ledger.StatusOverdue)
	err := store.Insert(context.Background(), &ledger.Transaction{
		ID:         "f1",
		BuildingID: "b1",
		MemberID:   "m1",
		Kind:       ledger.KindLateFee,
		Amount:     dec("18"),
		DueDate:    due.AddDate(0, 3, 0),
		Status:     ledger.StatusPending,
		FiscalYear: 2025,
	})
	if err != nil {
		t.Fatalf("seed fee: %v", err)
	}

	res, err := svc.Create(context.Background(), "m1", PlanOptions{Installments: 3, IncludeLateFees: false})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.Plan.TotalAmount.StringFixed(2) != "300.00" {
		t.Fatalf("total = %s, want 300.00 without the fee", res.Plan.TotalAmount.StringFixed(2))
	}

	// The excluded fee stays open.
	open, err := store.ListOpenByMember(context.Background(), "m1")
	if err != nil {
		t.Fatalf("ListOpenByMember: %v", err)
	}
	if len(open) != 1 || open[0].ID != "f1" {
		t.Fatalf("open after restructure = %v, want just f1", open)
	}
}

func TestPlanCreateNoArrears(t *testing.T) {
	clock := &fakeClock{now: time.Now().UTC()}
	svc, _ := newPlanFixture(t, clock)
	if _, err := svc.Create(context.Background(), "m1", PlanOptions{IncludeLateFees: true}); err != ledger.ErrNoArrearsFound {
		t.Fatalf("err = %v, want ErrNoArrearsFound", err)
	}
	if _, err := svc.Create(context.Background(), "", PlanOptions{}); err != ledger.ErrEmptyMemberID {
		t.Fatalf("err = %v, want ErrEmptyMemberID", err)
	}
}

func TestPlanGet(t *testing.T) {
	due := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)}
	svc, store := newPlanFixture(t, clock)
	seedQuota(t, store, "t1", "b1", "m1", "100", due, ledger.StatusOverdue)

	res, err := svc.Create(context.Background(), "m1", PlanOptions{IncludeLateFees: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := svc.Get(context.Background(), res.Plan.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != res.Plan.ID || got.MemberID != "m1" {
		t.Fatalf("got %+v", got)
	}

	if _, err := svc.Get(context.Background(), ""); err != ledger.ErrPlanNotFound {
		t.Fatalf("empty id err = %v, want ErrPlanNotFound", err)
	}
	if _, err := svc.Get(context.Background(), "missing"); err != ledger.ErrPlanNotFound {
		t.Fatalf("missing err = %v, want ErrPlanNotFound", err)
	}
}
