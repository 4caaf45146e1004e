package application

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	directory "condoledger/internal/directory/domain"
	ledger "condoledger/internal/ledger/domain"
	"condoledger/internal/ledger/notify"
	"condoledger/internal/observability/metrics"
)

// SweepService runs the daily arrears sweep: quotas past their due date
// go overdue, quotas past the grace period get a delinquency record,
// and qualifying records get a payment reminder.
type SweepService struct {
	transactions ledger.TransactionRepository
	arrears      ledger.ArrearsRecordRepository
	configs      ledger.ArrearsConfigRepository
	buildings    directory.BuildingRepository
	members      directory.MemberRepository
	notifier     notify.Notifier
	clock        ledger.Clock
	logger       *log.Logger
}

// NewSweepService constructs the service. notifier may be nil, in which
// case reminders are skipped.
func NewSweepService(
	transactions ledger.TransactionRepository,
	arrears ledger.ArrearsRecordRepository,
	configs ledger.ArrearsConfigRepository,
	buildings directory.BuildingRepository,
	members directory.MemberRepository,
	notifier notify.Notifier,
	clock ledger.Clock,
	logger *log.Logger,
) (*SweepService, error) {
	if transactions == nil {
		return nil, errors.New("sweep service: nil transaction repository")
	}
	if arrears == nil {
		return nil, errors.New("sweep service: nil arrears repository")
	}
	if configs == nil {
		return nil, errors.New("sweep service: nil config repository")
	}
	if buildings == nil {
		return nil, errors.New("sweep service: nil building repository")
	}
	if members == nil {
		return nil, errors.New("sweep service: nil member repository")
	}
	if clock == nil {
		clock = ledger.SystemClock{}
	}
	return &SweepService{
		transactions: transactions,
		arrears:      arrears,
		configs:      configs,
		buildings:    buildings,
		members:      members,
		notifier:     notifier,
		clock:        clock,
		logger:       logger,
	}, nil
}

// Sweep processes every active building. Failures in one building are
// recorded and the sweep moves on; the run is idempotent so a retry
// after partial failure is always safe.
func (s *SweepService) Sweep(ctx context.Context) (*SweepResult, error) {
	start := time.Now()
	result := resultSuccess
	defer func() {
		metrics.ObserveSweep(result, time.Since(start))
	}()

	buildings, err := s.buildings.ListActive(ctx)
	if err != nil {
		result = resultError
		return nil, err
	}

	now := s.clock.Now()
	today := ledger.DayStart(now)
	run := &SweepResult{}
	for _, b := range buildings {
		if err := s.sweepBuilding(ctx, b.ID, now, today, run); err != nil {
			run.Errors = append(run.Errors, ItemError{BuildingID: b.ID, Reason: err.Error()})
			continue
		}
		run.ProcessedBuildings++
	}

	metrics.AddSweepCounts(run.MarkedOverdue, run.ArrearsCreated)
	if len(run.Errors) > 0 {
		result = resultError
	}
	if s.logger != nil {
		s.logger.Printf("sweep finished buildings=%d marked_overdue=%d arrears_created=%d reminders=%d errors=%d",
			run.ProcessedBuildings, run.MarkedOverdue, run.ArrearsCreated, run.RemindersSent, len(run.Errors))
	}
	return run, nil
}

func (s *SweepService) sweepBuilding(ctx context.Context, buildingID string, now, today time.Time, run *SweepResult) error {
	cfg, err := s.configs.GetOrDefault(ctx, buildingID)
	if err != nil {
		return err
	}

	marked, err := s.transactions.MarkQuotasOverdue(ctx, buildingID, today)
	if err != nil {
		return err
	}
	run.MarkedOverdue += marked

	if cfg.AutoGenerateArrears {
		// Scan all overdue quotas, not just the newly marked ones: a
		// quota crosses the grace boundary days after it went overdue.
		overdue, err := s.transactions.ListOverdueQuotas(ctx, buildingID)
		if err != nil {
			return err
		}
		for _, t := range overdue {
			if t.DaysOverdue(today) <= cfg.GracePeriodDays {
				continue
			}
			created, err := s.arrears.InsertIfAbsent(ctx, &ledger.ArrearsRecord{
				ID:                      uuid.NewString(),
				BuildingID:              t.BuildingID,
				MemberID:                t.MemberID,
				Amount:                  t.Amount,
				OriginalAmount:          t.Amount,
				DueDate:                 t.DueDate,
				Status:                  ledger.ArrearsStatusPending,
				SettlementTransactionID: t.ID,
			})
			if err != nil {
				return err
			}
			if created {
				run.ArrearsCreated++
			}
		}
	}

	if s.notifier != nil {
		s.sendReminders(ctx, buildingID, cfg, now, today, run)
	}
	return nil
}

func (s *SweepService) sendReminders(ctx context.Context, buildingID string, cfg *ledger.ArrearsConfig, now, today time.Time, run *SweepResult) {
	records, err := s.arrears.ListPendingByBuilding(ctx, buildingID)
	if err != nil {
		run.Errors = append(run.Errors, ItemError{BuildingID: buildingID, Reason: err.Error()})
		return
	}
	for _, rec := range records {
		if !rec.ReminderDue(cfg, now) {
			continue
		}
		msg := notify.ReminderMessage{
			BuildingID:     rec.BuildingID,
			MemberID:       rec.MemberID,
			AmountDue:      rec.Amount,
			DueDate:        rec.DueDate,
			DaysOverdue:    int(today.Sub(ledger.DayStart(rec.DueDate)).Hours() / 24),
			ReminderNumber: rec.ReminderCount + 1,
		}
		if m, err := s.members.Get(ctx, rec.MemberID); err == nil && m != nil {
			msg.MemberName = m.Name
			msg.Email = m.Email
		}
		if err := s.notifier.Notify(ctx, msg); err != nil {
			metrics.IncReminderSent(resultError)
			if s.logger != nil {
				s.logger.Printf("reminder dispatch failed member=%s: %v", rec.MemberID, err)
			}
			continue
		}
		if err := s.arrears.MarkReminded(ctx, rec.ID, now); err != nil {
			run.Errors = append(run.Errors, ItemError{BuildingID: buildingID, MemberID: rec.MemberID, Reason: err.Error()})
			continue
		}
		metrics.IncReminderSent(resultSuccess)
		run.RemindersSent++
	}
}

// MemberArrears aggregates a member's open debt items.
func (s *SweepService) MemberArrears(ctx context.Context, memberID string) (*MemberArrearsResult, error) {
	if memberID == "" {
		return nil, ledger.ErrEmptyMemberID
	}
	open, err := s.transactions.ListOpenByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	today := ledger.DayStart(s.clock.Now())
	res := &MemberArrearsResult{
		MemberID: memberID,
		Items:    make([]ArrearsItem, 0, len(open)),
		Total:    decimal.Zero,
	}
	for _, t := range open {
		res.Items = append(res.Items, ArrearsItem{
			TransactionID: t.ID,
			Kind:          t.Kind,
			Amount:        t.Amount,
			DueDate:       t.DueDate,
			DaysOverdue:   t.DaysOverdue(today),
		})
		res.Total = res.Total.Add(t.Amount)
		if res.OldestDueDate.IsZero() || t.DueDate.Before(res.OldestDueDate) {
			res.OldestDueDate = t.DueDate
		}
	}
	res.Count = len(res.Items)
	return res, nil
}

// BuildingArrears aggregates open debt per member across a building.
func (s *SweepService) BuildingArrears(ctx context.Context, buildingID string) (*BuildingArrearsResult, error) {
	if buildingID == "" {
		return nil, ledger.ErrEmptyBuildingID
	}
	open, err := s.transactions.ListOpenByBuilding(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	byMember := make(map[string]*MemberArrearsSummary)
	order := make([]string, 0)
	total := decimal.Zero
	for _, t := range open {
		sum, ok := byMember[t.MemberID]
		if !ok {
			sum = &MemberArrearsSummary{MemberID: t.MemberID, Total: decimal.Zero}
			byMember[t.MemberID] = sum
			order = append(order, t.MemberID)
		}
		sum.Total = sum.Total.Add(t.Amount)
		sum.Count++
		if sum.OldestDueDate.IsZero() || t.DueDate.Before(sum.OldestDueDate) {
			sum.OldestDueDate = t.DueDate
		}
		total = total.Add(t.Amount)
	}
	res := &BuildingArrearsResult{
		BuildingID:  buildingID,
		Members:     make([]MemberArrearsSummary, 0, len(order)),
		Total:       total,
		MemberCount: len(order),
	}
	for _, id := range order {
		res.Members = append(res.Members, *byMember[id])
	}
	return res, nil
}
