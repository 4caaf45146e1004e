package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	directory "condoledger/internal/directory/domain"
	ledgerapp "condoledger/internal/ledger/application"
	ledger "condoledger/internal/ledger/domain"
)

// Handler provides the ledger APIs: quota generation, the arrears
// sweep, late fees, payment plans and settlements.
type Handler struct {
	quotas      *ledgerapp.QuotaService
	sweep       *ledgerapp.SweepService
	lateFees    *ledgerapp.LateFeeService
	plans       *ledgerapp.PlanService
	settlements *ledgerapp.SettlementService
}

// NewHandler constructs a handler.
func NewHandler(
	quotas *ledgerapp.QuotaService,
	sweep *ledgerapp.SweepService,
	lateFees *ledgerapp.LateFeeService,
	plans *ledgerapp.PlanService,
	settlements *ledgerapp.SettlementService,
) (*Handler, error) {
	if quotas == nil || sweep == nil || lateFees == nil || plans == nil || settlements == nil {
		return nil, errors.New("ledger handler: nil dependency")
	}
	return &Handler{
		quotas:      quotas,
		sweep:       sweep,
		lateFees:    lateFees,
		plans:       plans,
		settlements: settlements,
	}, nil
}

// ServeHTTP routes ledger endpoints.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/v1/quotas/generate" && r.Method == http.MethodPost:
		h.handleGenerateQuotas(w, r)
	case r.URL.Path == "/api/v1/arrears/sweep" && r.Method == http.MethodPost:
		h.handleSweep(w, r)
	case r.URL.Path == "/api/v1/arrears/late-fees" && r.Method == http.MethodPost:
		h.handleLateFees(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/v1/arrears/members/") && r.Method == http.MethodGet:
		h.handleMemberArrears(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/v1/arrears/buildings/") && r.Method == http.MethodGet:
		h.handleBuildingArrears(w, r)
	case r.URL.Path == "/api/v1/payment-plans" && r.Method == http.MethodPost:
		h.handleCreatePlan(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/v1/payment-plans/") && r.Method == http.MethodGet:
		h.handleGetPlan(w, r)
	case r.URL.Path == "/api/v1/payments" && r.Method == http.MethodPost:
		h.handlePayment(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/v1/payments/members/") && r.Method == http.MethodGet:
		h.handlePaymentHistory(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) handleGenerateQuotas(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BuildingID string `json:"building_id"`
		Month      string `json:"month"`
	}
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var month time.Time
	if req.Month != "" {
		parsed, err := time.Parse("2006-01", req.Month)
		if err != nil {
			http.Error(w, "month must be YYYY-MM", http.StatusBadRequest)
			return
		}
		month = parsed
	}
	result, err := h.quotas.GenerateMonthly(r.Context(), req.BuildingID, month)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleSweep(w http.ResponseWriter, r *http.Request) {
	result, err := h.sweep.Sweep(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleLateFees(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BuildingID string `json:"building_id"`
	}
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	result, err := h.lateFees.Apply(r.Context(), req.BuildingID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleMemberArrears(w http.ResponseWriter, r *http.Request) {
	memberID := strings.TrimPrefix(r.URL.Path, "/api/v1/arrears/members/")
	result, err := h.sweep.MemberArrears(r.Context(), memberID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleBuildingArrears(w http.ResponseWriter, r *http.Request) {
	buildingID := strings.TrimPrefix(r.URL.Path, "/api/v1/arrears/buildings/")
	result, err := h.sweep.BuildingArrears(r.Context(), buildingID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MemberID        string `json:"member_id"`
		Installments    int    `json:"installments"`
		StartDate       string `json:"start_date"`
		IncludeLateFees *bool  `json:"include_late_fees"`
	}
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	opts := ledgerapp.PlanOptions{
		Installments:    req.Installments,
		IncludeLateFees: true,
	}
	if req.IncludeLateFees != nil {
		opts.IncludeLateFees = *req.IncludeLateFees
	}
	if req.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			http.Error(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		opts.StartDate = parsed
	}
	result, err := h.plans.Create(r.Context(), req.MemberID, opts)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

func (h *Handler) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/payment-plans/")
	plan, err := h.plans.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, plan)
}

func (h *Handler) handlePayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TransactionID string `json:"transaction_id"`
		PaymentDate   string `json:"payment_date"`
		Method        string `json:"method"`
		Reference     string `json:"reference"`
		Notes         string `json:"notes"`
	}
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	details := ledger.PaymentDetails{
		Method:    req.Method,
		Reference: req.Reference,
		Notes:     req.Notes,
	}
	if req.PaymentDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.PaymentDate)
		if err != nil {
			http.Error(w, "payment_date must be RFC3339", http.StatusBadRequest)
			return
		}
		details.PaymentDate = parsed
	}
	result, err := h.settlements.MarkPaid(r.Context(), req.TransactionID, details)
	if err != nil {
		respondError(w, err)
		return
	}
	resp := map[string]any{
		"transaction_id":  req.TransactionID,
		"already_paid":    result.AlreadyPaid,
		"arrears_settled": result.ArrearsSettled,
		"plan_completed":  result.PlanCompleted,
	}
	if result.Transaction != nil {
		resp["status"] = result.Transaction.Status
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePaymentHistory(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/payments/members/")
	memberID := strings.TrimSuffix(path, "/history")
	if memberID == "" || memberID == path {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	entries, err := h.settlements.History(r.Context(), memberID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("invalid json")
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrTransactionNotFound),
		errors.Is(err, ledger.ErrPlanNotFound),
		errors.Is(err, ledger.ErrNoArrearsFound),
		errors.Is(err, directory.ErrBuildingNotFound),
		errors.Is(err, directory.ErrMemberNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ledger.ErrEmptyBuildingID),
		errors.Is(err, ledger.ErrEmptyMemberID),
		errors.Is(err, ledger.ErrEmptyTransactionID),
		errors.Is(err, ledger.ErrInvalidInstallments):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ledger.ErrIllegalTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
