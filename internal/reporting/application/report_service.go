package application

import (
	"context"
	"errors"
	"log"

	ledger "condoledger/internal/ledger/domain"
	reporting "condoledger/internal/reporting/domain"
)

const defaultTopDebtors = 10

// ReportService builds the arrears management report.
type ReportService struct {
	source reporting.ReportSource
	clock  ledger.Clock
	logger *log.Logger
}

// NewReportService constructs the service.
func NewReportService(source reporting.ReportSource, clock ledger.Clock, logger *log.Logger) (*ReportService, error) {
	if source == nil {
		return nil, errors.New("report service: nil report source")
	}
	if clock == nil {
		clock = ledger.SystemClock{}
	}
	return &ReportService{source: source, clock: clock, logger: logger}, nil
}

// ArrearsReport assembles the status breakdown, the top debtors and the
// monthly evolution series for one building. rng bounds the evolution
// series; a zero range means the trailing twelve months.
func (s *ReportService) ArrearsReport(ctx context.Context, buildingID string, rng reporting.ReportRange) (*reporting.ArrearsReport, error) {
	if buildingID == "" {
		return nil, ledger.ErrEmptyBuildingID
	}
	if !rng.StartDate.IsZero() && !rng.EndDate.IsZero() && rng.EndDate.Before(rng.StartDate) {
		return nil, reporting.ErrInvalidRange
	}
	byStatus, err := s.source.StatusTotals(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	debtors, err := s.source.TopDebtors(ctx, buildingID, defaultTopDebtors)
	if err != nil {
		return nil, err
	}
	evolution, err := s.source.MonthlyEvolution(ctx, buildingID, rng)
	if err != nil {
		return nil, err
	}
	return &reporting.ArrearsReport{
		BuildingID:       buildingID,
		GeneratedAt:      s.clock.Now(),
		ByStatus:         byStatus,
		TopDebtors:       debtors,
		MonthlyEvolution: evolution,
	}, nil
}
