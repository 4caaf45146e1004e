package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	ledger "condoledger/internal/ledger/domain"
	"condoledger/internal/observability/metrics"
)

const defaultInstallmentCount = 6

// PlanOptions control a debt restructuring request.
type PlanOptions struct {
	// Installments defaults to 6 when non-positive.
	Installments int
	// StartDate defaults to today when zero.
	StartDate time.Time
	// IncludeLateFees folds unpaid late fees into the plan total.
	IncludeLateFees bool
}

// PlanService restructures a member's open arrears into a payment plan
// of equal monthly installments.
type PlanService struct {
	transactions ledger.TransactionRepository
	plans        ledger.PaymentPlanRepository
	clock        ledger.Clock
	logger       *log.Logger
}

// NewPlanService constructs the service.
func NewPlanService(
	transactions ledger.TransactionRepository,
	plans ledger.PaymentPlanRepository,
	clock ledger.Clock,
	logger *log.Logger,
) (*PlanService, error) {
	if transactions == nil {
		return nil, errors.New("plan service: nil transaction repository")
	}
	if plans == nil {
		return nil, errors.New("plan service: nil plan repository")
	}
	if clock == nil {
		clock = ledger.SystemClock{}
	}
	return &PlanService{
		transactions: transactions,
		plans:        plans,
		clock:        clock,
		logger:       logger,
	}, nil
}

// Create builds a plan over the member's open debt. The originals are
// relabeled, the installments inserted, and the plan row written in one
// transaction, so a failure leaves the ledger untouched.
func (s *PlanService) Create(ctx context.Context, memberID string, opts PlanOptions) (*PlanResult, error) {
	start := time.Now()
	result := resultSuccess
	defer func() {
		metrics.ObservePlanCreate(result, time.Since(start))
	}()

	if memberID == "" {
		result = resultError
		return nil, ledger.ErrEmptyMemberID
	}
	count := opts.Installments
	if count <= 0 {
		count = defaultInstallmentCount
	}
	startDate := opts.StartDate
	if startDate.IsZero() {
		startDate = ledger.DayStart(s.clock.Now())
	}

	open, err := s.transactions.ListOpenByMember(ctx, memberID)
	if err != nil {
		result = resultError
		return nil, err
	}
	originals := make([]ledger.Transaction, 0, len(open))
	total := decimal.Zero
	for _, t := range open {
		if !opts.IncludeLateFees && t.Kind == ledger.KindLateFee {
			continue
		}
		originals = append(originals, t)
		total = total.Add(t.Amount)
	}
	if len(originals) == 0 {
		result = resultError
		return nil, ledger.ErrNoArrearsFound
	}

	parts := ledger.SplitInstallments(total, count)
	now := s.clock.Now()
	plan := &ledger.PaymentPlan{
		ID:                uuid.NewString(),
		BuildingID:        originals[0].BuildingID,
		MemberID:          memberID,
		TotalAmount:       total,
		InstallmentCount:  count,
		InstallmentAmount: parts[0],
		StartDate:         startDate,
		Status:            ledger.PlanStatusActive,
	}
	installments := make([]ledger.Transaction, count)
	originalIDs := make([]string, len(originals))
	for i, t := range originals {
		originalIDs[i] = t.ID
	}
	for i := 0; i < count; i++ {
		due := startDate.AddDate(0, i, 0)
		installments[i] = ledger.Transaction{
			ID:              uuid.NewString(),
			BuildingID:      plan.BuildingID,
			MemberID:        memberID,
			Kind:            ledger.KindInstallment,
			Amount:          parts[i],
			Description:     fmt.Sprintf("Installment %d/%d", i+1, count),
			DueDate:         due,
			TransactionDate: now,
			Status:          ledger.StatusPending,
			PaymentPlanID:   plan.ID,
			FiscalYear:      due.Year(),
		}
	}

	if err := s.plans.CreateWithInstallments(ctx, plan, installments, originalIDs); err != nil {
		result = resultError
		return nil, err
	}
	if s.logger != nil {
		s.logger.Printf("payment plan created plan=%s member=%s total=%s installments=%d",
			plan.ID, memberID, total.StringFixed(2), count)
	}
	return &PlanResult{Plan: plan, Installments: installments}, nil
}

// Get returns a plan by id.
func (s *PlanService) Get(ctx context.Context, id string) (*ledger.PaymentPlan, error) {
	if id == "" {
		return nil, ledger.ErrPlanNotFound
	}
	plan, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ledger.ErrPlanNotFound
	}
	return plan, nil
}
