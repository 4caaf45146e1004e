package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	ledger "condoledger/internal/ledger/domain"
)

// Store is an in-memory ledger store implementing every repository
// interface of the ledger domain. It mirrors the Postgres semantics
// closely enough for service-level tests.
type Store struct {
	mu           sync.RWMutex
	transactions map[string]*ledger.Transaction
	arrears      map[string]*ledger.ArrearsRecord // keyed by settlement transaction id
	configs      map[string]*ledger.ArrearsConfig
	plans        map[string]*ledger.PaymentPlan
	history      []ledger.PaymentHistoryEntry
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{
		transactions: make(map[string]*ledger.Transaction),
		arrears:      make(map[string]*ledger.ArrearsRecord),
		configs:      make(map[string]*ledger.ArrearsConfig),
		plans:        make(map[string]*ledger.PaymentPlan),
	}
}

// Insert stores a transaction.
func (s *Store) Insert(_ context.Context, t *ledger.Transaction) error {
	if t == nil {
		return ledger.ErrNilTransaction
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *t
	s.transactions[t.ID] = &copy
	return nil
}

// GetByID fetches a transaction.
func (s *Store) GetByID(_ context.Context, id string) (*ledger.Transaction, error) {
	if id == "" {
		return nil, ledger.ErrEmptyTransactionID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.transactions[id]
	if !ok {
		return nil, nil
	}
	copy := *t
	return &copy, nil
}

// QuotaExists reports whether a quota exists for the member in the month.
func (s *Store) QuotaExists(_ context.Context, buildingID, memberID string, month time.Time) (bool, error) {
	start := ledger.MonthStart(month)
	end := start.AddDate(0, 1, 0)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.transactions {
		if t.BuildingID == buildingID && t.MemberID == memberID && t.Kind == ledger.KindQuota &&
			!t.DueDate.Before(start) && t.DueDate.Before(end) {
			return true, nil
		}
	}
	return false, nil
}

// LateFeeExistsInMonth reports whether a late fee was charged in the month.
func (s *Store) LateFeeExistsInMonth(_ context.Context, memberID string, month time.Time) (bool, error) {
	start := ledger.MonthStart(month)
	end := start.AddDate(0, 1, 0)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.transactions {
		if t.MemberID == memberID && t.Kind == ledger.KindLateFee &&
			!t.TransactionDate.Before(start) && t.TransactionDate.Before(end) {
			return true, nil
		}
	}
	return false, nil
}

// MarkQuotasOverdue flips pending quotas past due to overdue.
func (s *Store) MarkQuotasOverdue(_ context.Context, buildingID string, asOf time.Time) (int, error) {
	day := ledger.DayStart(asOf)
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, t := range s.transactions {
		if t.BuildingID == buildingID && t.Kind == ledger.KindQuota &&
			t.Status == ledger.StatusPending && t.DueDate.Before(day) {
			t.Status = ledger.StatusOverdue
			t.UpdatedAt = asOf
			count++
		}
	}
	return count, nil
}

// ListOverdueQuotas returns overdue quotas outside any plan.
func (s *Store) ListOverdueQuotas(_ context.Context, buildingID string) ([]ledger.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []ledger.Transaction
	for _, t := range s.transactions {
		if t.BuildingID == buildingID && t.Kind == ledger.KindQuota &&
			t.Status == ledger.StatusOverdue && t.PaymentPlanID == "" {
			result = append(result, *t)
		}
	}
	sortByDueDate(result)
	return result, nil
}

// ListOpenByMember returns the member's open arrears items.
func (s *Store) ListOpenByMember(_ context.Context, memberID string) ([]ledger.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []ledger.Transaction
	for _, t := range s.transactions {
		if t.MemberID == memberID && t.IsOpen() {
			result = append(result, *t)
		}
	}
	sortByDueDate(result)
	return result, nil
}

// ListOpenByBuilding returns open arrears items in a building.
func (s *Store) ListOpenByBuilding(_ context.Context, buildingID string) ([]ledger.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []ledger.Transaction
	for _, t := range s.transactions {
		if t.BuildingID == buildingID && t.IsOpen() {
			result = append(result, *t)
		}
	}
	sortByDueDate(result)
	return result, nil
}

// InsertIfAbsent creates an arrears record unless the transaction is
// already referenced.
func (s *Store) InsertIfAbsent(_ context.Context, rec *ledger.ArrearsRecord) (bool, error) {
	if rec == nil {
		return false, ledger.ErrNilTransaction
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.arrears[rec.SettlementTransactionID]; exists {
		return false, nil
	}
	copy := *rec
	if copy.CreatedAt.IsZero() {
		copy.CreatedAt = time.Now().UTC()
	}
	s.arrears[rec.SettlementTransactionID] = &copy
	return true, nil
}

// ListPendingByMember returns open delinquency records for a member.
func (s *Store) ListPendingByMember(_ context.Context, memberID string) ([]ledger.ArrearsRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []ledger.ArrearsRecord
	for _, rec := range s.arrears {
		if rec.MemberID == memberID && rec.Status == ledger.ArrearsStatusPending {
			result = append(result, *rec)
		}
	}
	sortArrears(result)
	return result, nil
}

// ListPendingByBuilding returns open delinquency records in a building.
func (s *Store) ListPendingByBuilding(_ context.Context, buildingID string) ([]ledger.ArrearsRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []ledger.ArrearsRecord
	for _, rec := range s.arrears {
		if rec.BuildingID == buildingID && rec.Status == ledger.ArrearsStatusPending {
			result = append(result, *rec)
		}
	}
	sortArrears(result)
	return result, nil
}

// MarkReminded bumps the reminder counter.
func (s *Store) MarkReminded(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.arrears {
		if rec.ID == id && rec.Status == ledger.ArrearsStatusPending {
			rec.ReminderCount++
			rec.LastReminderAt = at
			return nil
		}
	}
	return nil
}

// GetOrDefault loads or lazily creates a building config.
func (s *Store) GetOrDefault(_ context.Context, buildingID string) (*ledger.ArrearsConfig, error) {
	if buildingID == "" {
		return nil, ledger.ErrEmptyBuildingID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if cfg, ok := s.configs[buildingID]; ok {
		copy := *cfg
		return &copy, nil
	}
	cfg := ledger.DefaultArrearsConfig(buildingID)
	s.configs[buildingID] = cfg
	copy := *cfg
	return &copy, nil
}

// Save upserts a building config.
func (s *Store) Save(_ context.Context, cfg *ledger.ArrearsConfig) error {
	if cfg == nil || cfg.BuildingID == "" {
		return ledger.ErrEmptyBuildingID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *cfg
	s.configs[cfg.BuildingID] = &copy
	return nil
}

// CreateWithInstallments atomically creates a plan with its installments
// and relabels the originals.
func (s *Store) CreateWithInstallments(_ context.Context, plan *ledger.PaymentPlan, installments []ledger.Transaction, originalIDs []string) error {
	if plan == nil {
		return ledger.ErrPlanNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	planCopy := *plan
	s.plans[plan.ID] = &planCopy
	for _, inst := range installments {
		copy := inst
		copy.PaymentPlanID = plan.ID
		s.transactions[inst.ID] = &copy
	}
	for _, id := range originalIDs {
		t, ok := s.transactions[id]
		if !ok {
			continue
		}
		if t.Status == ledger.StatusPending || t.Status == ledger.StatusOverdue {
			t.Status = ledger.StatusPaymentPlan
			t.PaymentPlanID = plan.ID
		}
	}
	return nil
}

// GetPlanByID fetches a plan.
func (s *Store) GetPlanByID(_ context.Context, id string) (*ledger.PaymentPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	plan, ok := s.plans[id]
	if !ok {
		return nil, nil
	}
	copy := *plan
	return &copy, nil
}

// PlanStore adapts the store to the payment plan repository interface,
// whose GetByID signature collides with the transaction one.
type PlanStore struct {
	s *Store
}

// Plans returns the payment plan view of the store.
func (s *Store) Plans() *PlanStore {
	return &PlanStore{s: s}
}

func (p *PlanStore) CreateWithInstallments(ctx context.Context, plan *ledger.PaymentPlan, installments []ledger.Transaction, originalIDs []string) error {
	return p.s.CreateWithInstallments(ctx, plan, installments, originalIDs)
}

func (p *PlanStore) GetByID(ctx context.Context, id string) (*ledger.PaymentPlan, error) {
	return p.s.GetPlanByID(ctx, id)
}

// SettlePayment applies a payment the way the Postgres repository does.
func (s *Store) SettlePayment(_ context.Context, transactionID string, details ledger.PaymentDetails) (*ledger.SettlementResult, error) {
	if transactionID == "" {
		return nil, ledger.ErrEmptyTransactionID
	}
	paidAt := details.PaymentDate
	if paidAt.IsZero() {
		paidAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[transactionID]
	if !ok {
		return nil, ledger.ErrTransactionNotFound
	}
	if t.Status == ledger.StatusPaid {
		copy := *t
		return &ledger.SettlementResult{Transaction: &copy, AlreadyPaid: true}, nil
	}

	t.Status = ledger.StatusPaid
	t.PaymentMethod = details.Method
	t.PaymentReference = details.Reference
	t.PaidAt = paidAt
	t.UpdatedAt = paidAt

	result := &ledger.SettlementResult{}
	if rec, ok := s.arrears[transactionID]; ok && rec.Status == ledger.ArrearsStatusPending {
		rec.Status = ledger.ArrearsStatusSettled
		rec.SettledAt = paidAt
		result.ArrearsSettled = true
	}

	s.history = append(s.history, ledger.PaymentHistoryEntry{
		ID:            uuid.NewString(),
		TransactionID: t.ID,
		MemberID:      t.MemberID,
		BuildingID:    t.BuildingID,
		Amount:        t.Amount,
		PaymentDate:   paidAt,
		Method:        details.Method,
		Reference:     details.Reference,
		Notes:         details.Notes,
		CreatedAt:     paidAt,
	})

	if t.Kind == ledger.KindInstallment && t.PaymentPlanID != "" {
		remaining := 0
		for _, other := range s.transactions {
			if other.PaymentPlanID == t.PaymentPlanID && other.Kind == ledger.KindInstallment &&
				other.Status != ledger.StatusPaid {
				remaining++
			}
		}
		if remaining == 0 {
			if plan, ok := s.plans[t.PaymentPlanID]; ok && plan.Status == ledger.PlanStatusActive {
				plan.Status = ledger.PlanStatusCompleted
				result.PlanCompleted = true
			}
		}
	}

	copy := *t
	result.Transaction = &copy
	return result, nil
}

// ListByMember returns a member's payment history, newest first.
func (s *Store) ListByMember(_ context.Context, memberID string) ([]ledger.PaymentHistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []ledger.PaymentHistoryEntry
	for _, entry := range s.history {
		if entry.MemberID == memberID {
			result = append(result, entry)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].PaymentDate.After(result[j].PaymentDate)
	})
	return result, nil
}

// ArrearsRecordFor returns the record referencing a transaction, for
// assertion convenience.
func (s *Store) ArrearsRecordFor(transactionID string) *ledger.ArrearsRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.arrears[transactionID]
	if !ok {
		return nil
	}
	copy := *rec
	return &copy
}

func sortByDueDate(items []ledger.Transaction) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].DueDate.Equal(items[j].DueDate) {
			return items[i].ID < items[j].ID
		}
		return items[i].DueDate.Before(items[j].DueDate)
	})
}

func sortArrears(items []ledger.ArrearsRecord) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].DueDate.Equal(items[j].DueDate) {
			return items[i].ID < items[j].ID
		}
		return items[i].DueDate.Before(items[j].DueDate)
	})
}
