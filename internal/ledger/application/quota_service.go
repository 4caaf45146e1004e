package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	directory "condoledger/internal/directory/domain"
	ledger "condoledger/internal/ledger/domain"
	"condoledger/internal/observability/metrics"
)

// QuotaService generates the monthly quota transactions for every
// active member of every active building.
type QuotaService struct {
	transactions ledger.TransactionRepository
	buildings    directory.BuildingRepository
	members      directory.MemberRepository
	clock        ledger.Clock
	dueDay       int
	logger       *log.Logger
}

// NewQuotaService constructs the service. dueDay is the day of month
// quotas fall due; values outside 1..28 fall back to 10.
func NewQuotaService(
	transactions ledger.TransactionRepository,
	buildings directory.BuildingRepository,
	members directory.MemberRepository,
	clock ledger.Clock,
	dueDay int,
	logger *log.Logger,
) (*QuotaService, error) {
	if transactions == nil {
		return nil, errors.New("quota service: nil transaction repository")
	}
	if buildings == nil {
		return nil, errors.New("quota service: nil building repository")
	}
	if members == nil {
		return nil, errors.New("quota service: nil member repository")
	}
	if clock == nil {
		clock = ledger.SystemClock{}
	}
	if dueDay < 1 || dueDay > 28 {
		dueDay = 10
	}
	return &QuotaService{
		transactions: transactions,
		buildings:    buildings,
		members:      members,
		clock:        clock,
		dueDay:       dueDay,
		logger:       logger,
	}, nil
}

// GenerateMonthly creates the quota transactions for the given month.
// A zero month means the current one; an empty buildingID means all
// active buildings. Re-runs skip members that already have a quota for
// the month, so the operation is idempotent.
func (s *QuotaService) GenerateMonthly(ctx context.Context, buildingID string, month time.Time) (*QuotaRunResult, error) {
	start := time.Now()
	result := resultSuccess
	defer func() {
		metrics.ObserveQuotaRun(result, time.Since(start))
	}()

	now := s.clock.Now()
	if month.IsZero() {
		month = now
	}
	month = ledger.MonthStart(month)

	targets, err := s.targetBuildings(ctx, buildingID)
	if err != nil {
		result = resultError
		return nil, err
	}

	run := &QuotaRunResult{Period: month.Format("2006-01")}
	for _, b := range targets {
		if !b.MonthlyQuota.IsPositive() {
			continue
		}
		members, err := s.members.ListActiveByBuilding(ctx, b.ID)
		if err != nil {
			run.Errors = append(run.Errors, ItemError{BuildingID: b.ID, Reason: err.Error()})
			continue
		}
		for _, m := range members {
			created, err := s.generateFor(ctx, b, m, month, now)
			if err != nil {
				run.Errors = append(run.Errors, ItemError{BuildingID: b.ID, MemberID: m.ID, Reason: err.Error()})
				continue
			}
			if created {
				run.Generated++
			}
		}
	}

	metrics.AddQuotasGenerated(run.Generated)
	if len(run.Errors) > 0 {
		result = resultError
	}
	if s.logger != nil {
		s.logger.Printf("quota run finished period=%s generated=%d errors=%d",
			run.Period, run.Generated, len(run.Errors))
	}
	return run, nil
}

// generateFor reports whether a quota was actually inserted. A quota
// already present for the month and a non-positive pro-rata amount are
// both skips, not insertions.
func (s *QuotaService) generateFor(ctx context.Context, b directory.Building, m directory.Member, month, now time.Time) (bool, error) {
	exists, err := s.transactions.QuotaExists(ctx, b.ID, m.ID, month)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	amount := b.MonthlyQuota.Mul(m.OwnershipShare).Round(2)
	if !amount.IsPositive() {
		return false, nil
	}
	reserve := amount.Mul(b.ReserveFundPercentage).Round(2)
	due := time.Date(month.Year(), month.Month(), s.dueDay, 0, 0, 0, 0, time.UTC)
	t := &ledger.Transaction{
		ID:                uuid.NewString(),
		BuildingID:        b.ID,
		MemberID:          m.ID,
		Kind:              ledger.KindQuota,
		Amount:            amount,
		ReserveFundAmount: reserve,
		Description:       fmt.Sprintf("Monthly quota %s", month.Format("2006-01")),
		DueDate:           due,
		TransactionDate:   now,
		Status:            ledger.StatusPending,
		FiscalYear:        month.Year(),
	}
	if err := s.transactions.Insert(ctx, t); err != nil {
		return false, err
	}
	return true, nil
}

func (s *QuotaService) targetBuildings(ctx context.Context, buildingID string) ([]directory.Building, error) {
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

const (
	resultSuccess = metrics.ResultSuccess
	resultError   = metrics.ResultError
)
