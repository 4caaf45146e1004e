package application

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	period "condoledger/internal/period/domain"
)

// PeriodSummary is a building's position for one fiscal year.
type PeriodSummary struct {
	BuildingID     string                       `json:"building_id"`
	Year           int                          `json:"year"`
	OpeningBalance decimal.Decimal              `json:"opening_balance"`
	TotalCharged   decimal.Decimal              `json:"total_charged"`
	TotalPaid      decimal.Decimal              `json:"total_paid"`
	ClosingBalance decimal.Decimal              `json:"closing_balance"`
	CollectionRate decimal.Decimal              `json:"collection_rate"`
	Members        []period.MemberPeriodBalance `json:"members"`
}

// Dashboard is the building-wide arrears overview.
type Dashboard struct {
	BuildingID       string                       `json:"building_id"`
	Year             int                          `json:"year"`
	TotalCharged     decimal.Decimal              `json:"total_charged"`
	TotalPaid        decimal.Decimal              `json:"total_paid"`
	TotalOutstanding decimal.Decimal              `json:"total_outstanding"`
	CollectionRate   decimal.Decimal              `json:"collection_rate"`
	DebtorCount      int                          `json:"debtor_count"`
	SettledCount     int                          `json:"settled_count"`
	Debtors          []period.MemberPeriodBalance `json:"debtors"`
}

// Aggregator recomputes period balances from the transaction store.
// Balances are never written on the transactional path; the store is
// the single source of truth and the aggregate is derived on read.
type Aggregator struct {
	source  period.BalanceSource
	periods period.PeriodRepository
	logger  *log.Logger
}

// NewAggregator constructs the aggregator. periods may be nil, in which
// case opening balances are always recomputed from scratch.
func NewAggregator(source period.BalanceSource, periods period.PeriodRepository, logger *log.Logger) (*Aggregator, error) {
	if source == nil {
		return nil, errors.New("period aggregator: nil balance source")
	}
	return &Aggregator{source: source, periods: periods, logger: logger}, nil
}

// GetPeriodSummary returns a building's fiscal year summary. The
// opening balance carries forward from prior years: a stored closed
// period is used when present, otherwise prior years are replayed
// ascending from the earliest activity.
func (a *Aggregator) GetPeriodSummary(ctx context.Context, buildingID string, year int) (*PeriodSummary, error) {
	if buildingID == "" {
		return nil, period.ErrEmptyBuildingID
	}
	if year <= 0 {
		return nil, period.ErrInvalidYear
	}

	openings, err := a.memberOpenings(ctx, buildingID, year)
	if err != nil {
		return nil, err
	}
	opening, err := a.openingBalance(ctx, buildingID, year, openings)
	if err != nil {
		return nil, err
	}
	totals, err := a.source.MemberTotals(ctx, buildingID, year)
	if err != nil {
		return nil, err
	}

	summary := &PeriodSummary{
		BuildingID:     buildingID,
		Year:           year,
		OpeningBalance: opening,
		TotalCharged:   decimal.Zero,
		TotalPaid:      decimal.Zero,
		Members:        make([]period.MemberPeriodBalance, 0, len(totals)),
	}
	for _, t := range totals {
		summary.TotalCharged = summary.TotalCharged.Add(t.Charged)
		summary.TotalPaid = summary.TotalPaid.Add(t.Paid)
		memberOpening := openings[t.MemberID]
		delete(openings, t.MemberID)
		balance := t.Paid.Sub(t.Charged)
		summary.Members = append(summary.Members, period.MemberPeriodBalance{
			MemberID:         t.MemberID,
			BuildingID:       buildingID,
			Year:             year,
			OpeningBalance:   memberOpening,
			TotalCharged:     t.Charged,
			TotalPaid:        t.Paid,
			Balance:          balance,
			BalanceTotalReal: memberOpening.Add(balance),
			Status:           period.ClassifyBalance(t.Charged, t.Paid),
		})
	}
	// Members with carried-forward debt or credit but no activity this
	// year still belong in the summary.
	carryOnly := make([]string, 0, len(openings))
	for id, memberOpening := range openings {
		if !memberOpening.IsZero() {
			carryOnly = append(carryOnly, id)
		}
	}
	sort.Strings(carryOnly)
	for _, id := range carryOnly {
		memberOpening := openings[id]
		summary.Members = append(summary.Members, period.MemberPeriodBalance{
			MemberID:         id,
			BuildingID:       buildingID,
			Year:             year,
			OpeningBalance:   memberOpening,
			TotalCharged:     decimal.Zero,
			TotalPaid:        decimal.Zero,
			Balance:          decimal.Zero,
			BalanceTotalReal: memberOpening,
			Status:           period.ClassifyBalance(decimal.Zero, decimal.Zero),
		})
	}
	summary.ClosingBalance = opening.Add(summary.TotalPaid).Sub(summary.TotalCharged)
	summary.CollectionRate = collectionRate(summary.TotalCharged, summary.TotalPaid)
	return summary, nil
}

// BuildingDashboard returns the arrears overview for one fiscal year.
func (a *Aggregator) BuildingDashboard(ctx context.Context, buildingID string, year int) (*Dashboard, error) {
	summary, err := a.GetPeriodSummary(ctx, buildingID, year)
	if err != nil {
		return nil, err
	}
	d := &Dashboard{
		BuildingID:       buildingID,
		Year:             year,
		TotalCharged:     summary.TotalCharged,
		TotalPaid:        summary.TotalPaid,
		TotalOutstanding: decimal.Zero,
		CollectionRate:   summary.CollectionRate,
		Debtors:          make([]period.MemberPeriodBalance, 0),
	}
	for _, m := range summary.Members {
		if m.BalanceTotalReal.IsNegative() {
			d.DebtorCount++
			d.TotalOutstanding = d.TotalOutstanding.Add(m.BalanceTotalReal.Neg())
			d.Debtors = append(d.Debtors, m)
		} else {
			d.SettledCount++
		}
	}
	return d, nil
}

// ClosePeriod computes a fiscal year's closing balance and persists the
// period as closed, making it the next year's opening balance.
func (a *Aggregator) ClosePeriod(ctx context.Context, buildingID string, year int) (*period.FinancialPeriod, error) {
	if a.periods == nil {
		return nil, errors.New("period aggregator: no period repository configured")
	}
	summary, err := a.GetPeriodSummary(ctx, buildingID, year)
	if err != nil {
		return nil, err
	}
	p := &period.FinancialPeriod{
		ID:             uuid.NewString(),
		BuildingID:     buildingID,
		Year:           year,
		StartDate:      time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
		Status:         period.PeriodStatusClosed,
		OpeningBalance: summary.OpeningBalance,
		ClosingBalance: summary.ClosingBalance,
	}
	if existing, err := a.periods.Get(ctx, buildingID, year); err == nil && existing != nil {
		p.ID = existing.ID
	}
	if err := a.periods.Save(ctx, p); err != nil {
		return nil, err
	}
	if a.logger != nil {
		a.logger.Printf("period closed building=%s year=%d closing=%s",
			buildingID, year, p.ClosingBalance.StringFixed(2))
	}
	return p, nil
}

// openingBalance is the building-level carry-in. A stored closed period
// wins; otherwise it is the sum of the per-member openings.
func (a *Aggregator) openingBalance(ctx context.Context, buildingID string, year int, openings map[string]decimal.Decimal) (decimal.Decimal, error) {
	if a.periods != nil {
		prior, err := a.periods.Get(ctx, buildingID, year-1)
		if err != nil {
			return decimal.Zero, err
		}
		if prior != nil && prior.Status == period.PeriodStatusClosed {
			return prior.ClosingBalance, nil
		}
	}
	opening := decimal.Zero
	for _, memberOpening := range openings {
		opening = opening.Add(memberOpening)
	}
	return opening, nil
}

// memberOpenings replays every prior year's totals and accumulates each
// member's paid minus charged. Stored closed periods only carry the
// building-level figure, so the per-member carry-in is always replayed.
func (a *Aggregator) memberOpenings(ctx context.Context, buildingID string, year int) (map[string]decimal.Decimal, error) {
	years, err := a.source.Years(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	openings := make(map[string]decimal.Decimal)
	for _, y := range years {
		if y >= year {
			break
		}
		totals, err := a.source.MemberTotals(ctx, buildingID, y)
		if err != nil {
			return nil, err
		}
		for _, t := range totals {
			openings[t.MemberID] = openings[t.MemberID].Add(t.Paid).Sub(t.Charged)
		}
	}
	return openings, nil
}

func collectionRate(charged, paid decimal.Decimal) decimal.Decimal {
	if !charged.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return paid.Div(charged).Round(4)
}
