package application

import (
	"context"
	"log"
	"time"
)

// Scheduler triggers the daily sweep, the late fee run and the monthly
// quota generation on schedule.
type Scheduler struct {
	quotas   *QuotaService
	sweep    *SweepService
	lateFees *LateFeeService
	sweepAt  string
	quotaAt  string
	quotaDay int
	logger   *log.Logger
}

// NewScheduler constructs a Scheduler. sweepAt and quotaAt are "HH:MM"
// times in UTC; quotaDay is the day of month quotas are generated.
func NewScheduler(quotas *QuotaService, sweep *SweepService, lateFees *LateFeeService, sweepAt, quotaAt string, quotaDay int, logger *log.Logger) *Scheduler {
	if quotaDay < 1 || quotaDay > 28 {
		quotaDay = 1
	}
	return &Scheduler{
		quotas:   quotas,
		sweep:    sweep,
		lateFees: lateFees,
		sweepAt:  sweepAt,
		quotaAt:  quotaAt,
		quotaDay: quotaDay,
		logger:   logger,
	}
}

// Start begins the scheduler loop.
func (s *Scheduler) Start(ctx context.Context) {
	if s == nil {
		return
	}
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.tick(ctx, now.UTC())
		}
	}
}

func (s *Scheduler) tick(ctx context.Context, now time.Time) {
	if matchesDailyAt(s.sweepAt, now) {
		s.runSweep(ctx)
	}
	if now.Day() == s.quotaDay && matchesDailyAt(s.quotaAt, now) {
		s.runQuotas(ctx, now)
	}
}

func (s *Scheduler) runSweep(ctx context.Context) {
	if s.sweep != nil {
		if _, err := s.sweep.Sweep(ctx); err != nil && s.logger != nil {
			s.logger.Printf("scheduled sweep error: %v", err)
		}
	}
	// Fees are charged right after the sweep so the aggregates they
	// read already include today's newly overdue quotas.
	if s.lateFees != nil {
		if _, err := s.lateFees.Apply(ctx, ""); err != nil && s.logger != nil {
			s.logger.Printf("scheduled late fee error: %v", err)
		}
	}
}

func (s *Scheduler) runQuotas(ctx context.Context, now time.Time) {
	if s.quotas == nil {
		return
	}
	if _, err := s.quotas.GenerateMonthly(ctx, "", now); err != nil && s.logger != nil {
		s.logger.Printf("scheduled quota generation error: %v", err)
	}
}

func matchesDailyAt(value string, now time.Time) bool {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return false
	}
	return now.Hour() == t.Hour() && now.Minute() == t.Minute()
}
