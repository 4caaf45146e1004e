package application

import (
	"context"
	"testing"
	"time"

	directory "condoledger/internal/directory/domain"
	ledger "condoledger/internal/ledger/domain"
	"condoledger/internal/ledger/infrastructure/memory"
)

func TestQuotaServiceGeneratesProRataQuotas(t *testing.T) {
	store := memory.NewStore()
	clock := &fakeClock{now: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)}
	buildings := &fakeBuildings{items: []directory.Building{testBuilding("b1", "100")}}
	members := &fakeMembers{items: []directory.Member{
		testMember("m1", "b1", "0.6"),
		testMember("m2", "b1", "0.4"),
	}}

	svc, err := NewQuotaService(store, buildings, members, clock, 10, nil)
	if err != nil {
		t.Fatalf("NewQuotaService: %v", err)
	}

	run, err := svc.GenerateMonthly(context.Background(), "", time.Time{})
	if err != nil {
		t.Fatalf("GenerateMonthly: %v", err)
	}
	if run.Generated != 2 {
		t.Fatalf("generated = %d, want 2", run.Generated)
	}
	if run.Period != "2025-03" {
		t.Fatalf("period = %q, want 2025-03", run.Period)
	}
	if len(run.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", run.Errors)
	}

	open, err := store.ListOpenByMember(context.Background(), "m1")
	if err != nil {
		t.Fatalf("ListOpenByMember: %v", err)
	}
	if len(open) != 0 {
		t.Fatal("fresh quotas must not count as arrears")
	}

	marked, err := store.MarkQuotasOverdue(context.Background(), "b1", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("MarkQuotasOverdue: %v", err)
	}
	if marked != 2 {
		t.Fatalf("marked = %d, want 2", marked)
	}
	overdue, err := store.ListOverdueQuotas(context.Background(), "b1")
	if err != nil {
		t.Fatalf("ListOverdueQuotas: %v", err)
	}
	amounts := map[string]string{}
	for _, tx := range overdue {
		amounts[tx.MemberID] = tx.Amount.StringFixed(2)
		if tx.Kind != ledger.KindQuota {
			t.Fatalf("kind = %s, want quota", tx.Kind)
		}
		if tx.DueDate.Day() != 10 {
			t.Fatalf("due day = %d, want 10", tx.DueDate.Day())
		}
		if tx.FiscalYear != 2025 {
			t.Fatalf("fiscal year = %d, want 2025", tx.FiscalYear)
		}
	}
	if amounts["m1"] != "60.00" || amounts["m2"] != "40.00" {
		t.Fatalf("amounts = %v, want m1=60.00 m2=40.00", amounts)
	}
}

func TestQuotaServiceIdempotentPerMonth(t *testing.T) {
	store := memory.NewStore()
	clock := &fakeClock{now: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)}
	buildings := &fakeBuildings{items: []directory.Building{testBuilding("b1", "100")}}
	members := &fakeMembers{items: []directory.Member{testMember("m1", "b1", "1")}}

	svc, err := NewQuotaService(store, buildings, members, clock, 10, nil)
	if err != nil {
		t.Fatalf("NewQuotaService: %v", err)
	}

	first, err := svc.GenerateMonthly(context.Background(), "b1", clock.now)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Generated != 1 {
		t.Fatalf("first run generated = %d, want 1", first.Generated)
	}

	second, err := svc.GenerateMonthly(context.Background(), "b1", clock.now)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Generated != 0 {
		t.Fatalf("second run generated = %d, want 0", second.Generated)
	}

	next, err := svc.GenerateMonthly(context.Background(), "b1", clock.now.AddDate(0, 1, 0))
	if err != nil {
		t.Fatalf("next month run: %v", err)
	}
	if next.Generated != 1 {
		t.Fatalf("next month generated = %d, want 1", next.Generated)
	}
}

func TestQuotaServiceSkipsZeroQuotaAndShare(t *testing.T) {
	store := memory.NewStore()
	clock := &fakeClock{now: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)}
	buildings := &fakeBuildings{items: []directory.Building{
		testBuilding("b1", "0"),
		testBuilding("b2", "100"),
	}}
	members := &fakeMembers{items: []directory.Member{
		testMember("m1", "b1", "1"),
		testMember("m2", "b2", "0"),
		testMember("m3", "b2", "0.5"),
	}}

	svc, err := NewQuotaService(store, buildings, members, clock, 10, nil)
	if err != nil {
		t.Fatalf("NewQuotaService: %v", err)
	}

	run, err := svc.GenerateMonthly(context.Background(), "", time.Time{})
	if err != nil {
		t.Fatalf("GenerateMonthly: %v", err)
	}
	if run.Generated != 1 {
		t.Fatalf("generated = %d, want 1 (m3 only)", run.Generated)
	}
}

func TestQuotaServiceUnknownBuilding(t *testing.T) {
	store := memory.NewStore()
	clock := &fakeClock{now: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)}
	svc, err := NewQuotaService(store, &fakeBuildings{}, &fakeMembers{}, clock, 10, nil)
	if err != nil {
		t.Fatalf("NewQuotaService: %v", err)
	}
	if _, err := svc.GenerateMonthly(context.Background(), "nope", time.Time{}); err == nil {
		t.Fatal("expected error for unknown building")
	}
}
