package application

import (
	"context"
	"errors"
	"log"
	"time"

	ledger "condoledger/internal/ledger/domain"
	"condoledger/internal/observability/metrics"
)

// SettlementService records member payments against open transactions.
type SettlementService struct {
	settlements ledger.SettlementRepository
	history     ledger.PaymentHistoryRepository
	clock       ledger.Clock
	logger      *log.Logger
}

// NewSettlementService constructs the service.
func NewSettlementService(
	settlements ledger.SettlementRepository,
	history ledger.PaymentHistoryRepository,
	clock ledger.Clock,
	logger *log.Logger,
) (*SettlementService, error) {
	if settlements == nil {
		return nil, errors.New("settlement service: nil settlement repository")
	}
	if history == nil {
		return nil, errors.New("settlement service: nil history repository")
	}
	if clock == nil {
		clock = ledger.SystemClock{}
	}
	return &SettlementService{
		settlements: settlements,
		history:     history,
		clock:       clock,
		logger:      logger,
	}, nil
}

// MarkPaid settles one transaction. Settling an already paid
// transaction is a no-op reported through the result, not an error.
func (s *SettlementService) MarkPaid(ctx context.Context, transactionID string, details ledger.PaymentDetails) (*ledger.SettlementResult, error) {
	start := time.Now()
	result := resultSuccess
	defer func() {
		metrics.ObserveSettlement(result, time.Since(start))
	}()

	if transactionID == "" {
		result = resultError
		return nil, ledger.ErrEmptyTransactionID
	}
	if details.PaymentDate.IsZero() {
		details.PaymentDate = s.clock.Now()
	}
	res, err := s.settlements.SettlePayment(ctx, transactionID, details)
	if err != nil {
		result = resultError
		return nil, err
	}
	if s.logger != nil && !res.AlreadyPaid {
		s.logger.Printf("payment settled transaction=%s arrears_settled=%t plan_completed=%t",
			transactionID, res.ArrearsSettled, res.PlanCompleted)
	}
	return res, nil
}

// History returns a member's settlement trail, newest first.
func (s *SettlementService) History(ctx context.Context, memberID string) ([]ledger.PaymentHistoryEntry, error) {
	if memberID == "" {
		return nil, ledger.ErrEmptyMemberID
	}
	return s.history.ListByMember(ctx, memberID)
}
