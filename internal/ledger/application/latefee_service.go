package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	directory "condoledger/internal/directory/domain"
	ledger "condoledger/internal/ledger/domain"
	"condoledger/internal/observability/metrics"
)

// LateFeeService charges monthly penalties on aggregated overdue debt.
// At most one late fee per member per calendar month.
type LateFeeService struct {
	transactions ledger.TransactionRepository
	configs      ledger.ArrearsConfigRepository
	buildings    directory.BuildingRepository
	clock        ledger.Clock
	logger       *log.Logger
}

// NewLateFeeService constructs the service.
func NewLateFeeService(
	transactions ledger.TransactionRepository,
	configs ledger.ArrearsConfigRepository,
	buildings directory.BuildingRepository,
	clock ledger.Clock,
	logger *log.Logger,
) (*LateFeeService, error) {
	if transactions == nil {
		return nil, errors.New("late fee service: nil transaction repository")
	}
	if configs == nil {
		return nil, errors.New("late fee service: nil config repository")
	}
	if buildings == nil {
		return nil, errors.New("late fee service: nil building repository")
	}
	if clock == nil {
		clock = ledger.SystemClock{}
	}
	return &LateFeeService{
		transactions: transactions,
		configs:      configs,
		buildings:    buildings,
		clock:        clock,
		logger:       logger,
	}, nil
}

type memberDebt struct {
	memberID string
	total    decimal.Decimal
	oldest   time.Time
	count    int
}

// Apply charges late fees across all active buildings, or one building
// when buildingID is set. A member failure is recorded and the run
// continues with the next member.
func (s *LateFeeService) Apply(ctx context.Context, buildingID string) (*LateFeeRunResult, error) {
	result := resultSuccess
	defer func() {
		metrics.ObserveLateFeeRun(result)
	}()

	targets, err := s.targetBuildings(ctx, buildingID)
	if err != nil {
		result = resultError
		return nil, err
	}

	now := s.clock.Now()
	today := ledger.DayStart(now)
	run := &LateFeeRunResult{TotalCharged: decimal.Zero}
	for _, b := range targets {
		cfg, err := s.configs.GetOrDefault(ctx, b.ID)
		if err != nil {
			run.Errors = append(run.Errors, ItemError{BuildingID: b.ID, Reason: err.Error()})
			continue
		}
		overdue, err := s.transactions.ListOverdueQuotas(ctx, b.ID)
		if err != nil {
			run.Errors = append(run.Errors, ItemError{BuildingID: b.ID, Reason: err.Error()})
			continue
		}
		for _, debt := range groupByMember(overdue) {
			fee, err := s.chargeMember(ctx, b.ID, cfg, debt, now, today)
			if err != nil {
				run.Errors = append(run.Errors, ItemError{BuildingID: b.ID, MemberID: debt.memberID, Reason: err.Error()})
				continue
			}
			if fee.IsPositive() {
				run.FeesCharged++
				run.TotalCharged = run.TotalCharged.Add(fee)
			}
		}
	}

	metrics.AddLateFeesCharged(run.FeesCharged)
	if len(run.Errors) > 0 {
		result = resultError
	}
	if s.logger != nil {
		s.logger.Printf("late fee run finished charged=%d total=%s errors=%d",
			run.FeesCharged, run.TotalCharged.StringFixed(2), len(run.Errors))
	}
	return run, nil
}

// chargeMember returns the fee amount inserted, or zero when the member
// does not qualify this month.
func (s *LateFeeService) chargeMember(ctx context.Context, buildingID string, cfg *ledger.ArrearsConfig, debt memberDebt, now, today time.Time) (decimal.Decimal, error) {
	days := int(today.Sub(ledger.DayStart(debt.oldest)).Hours() / 24)
	months := ledger.MonthsLate(days)
	fee := ledger.ComputeLateFee(debt.total, cfg.LateFeePercentPerMonth, months)
	if !fee.IsPositive() {
		return decimal.Zero, nil
	}
	exists, err := s.transactions.LateFeeExistsInMonth(ctx, debt.memberID, now)
	if err != nil {
		return decimal.Zero, err
	}
	if exists {
		return decimal.Zero, nil
	}
	t := &ledger.Transaction{
		ID:              uuid.NewString(),
		BuildingID:      buildingID,
		MemberID:        debt.memberID,
		Kind:            ledger.KindLateFee,
		Amount:          fee,
		Description:     fmt.Sprintf("Late fee on %d overdue quota(s), %d month(s) late", debt.count, months),
		DueDate:         today,
		TransactionDate: now,
		Status:          ledger.StatusPending,
		FiscalYear:      now.Year(),
	}
	if err := s.transactions.Insert(ctx, t); err != nil {
		return decimal.Zero, err
	}
	return fee, nil
}

func (s *LateFeeService) targetBuildings(ctx context.Context, buildingID string) ([]directory.Building, error) {
	if buildingID == "" {
		return s.buildings.ListActive(ctx)
	}
	b, err := s.buildings.Get(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, directory.ErrBuildingNotFound
	}
	return []directory.Building{*b}, nil
}

func groupByMember(overdue []ledger.Transaction) []memberDebt {
	byMember := make(map[string]*memberDebt)
	order := make([]string, 0)
	for _, t := range overdue {
		if t.MemberID == "" {
			continue
		}
		d, ok := byMember[t.MemberID]
		if !ok {
			d = &memberDebt{memberID: t.MemberID, total: decimal.Zero, oldest: t.DueDate}
			byMember[t.MemberID] = d
			order = append(order, t.MemberID)
		}
		d.total = d.total.Add(t.Amount)
		d.count++
		if t.DueDate.Before(d.oldest) {
			d.oldest = t.DueDate
		}
	}
	debts := make([]memberDebt, 0, len(order))
	for _, id := range order {
		debts = append(debts, *byMember[id])
	}
	return debts
}
