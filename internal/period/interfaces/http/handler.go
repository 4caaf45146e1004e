package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	periodapp "condoledger/internal/period/application"
	period "condoledger/internal/period/domain"
)

// Handler provides the period summary and building dashboard APIs.
type Handler struct {
	aggregator *periodapp.Aggregator
}

// NewHandler constructs a handler.
func NewHandler(aggregator *periodapp.Aggregator) (*Handler, error) {
	if aggregator == nil {
		return nil, errors.New("period handler: nil aggregator")
	}
	return &Handler{aggregator: aggregator}, nil
}

// ServeHTTP routes period endpoints.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/v1/periods/summary" && r.Method == http.MethodGet:
		h.handleSummary(w, r)
	case r.URL.Path == "/api/v1/periods/close" && r.Method == http.MethodPost:
		h.handleClose(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/v1/buildings/") &&
		strings.HasSuffix(r.URL.Path, "/dashboard") && r.Method == http.MethodGet:
		h.handleDashboard(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	buildingID := r.URL.Query().Get("building_id")
	year, err := parseYear(r.URL.Query().Get("year"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	summary, err := h.aggregator.GetPeriodSummary(r.Context(), buildingID, year)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/buildings/")
	buildingID := strings.TrimSuffix(path, "/dashboard")
	year, err := parseYear(r.URL.Query().Get("year"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	dashboard, err := h.aggregator.BuildingDashboard(r.Context(), buildingID, year)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dashboard)
}

func (h *Handler) handleClose(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BuildingID string `json:"building_id"`
		Year       int    `json:"year"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	closed, err := h.aggregator.ClosePeriod(r.Context(), req.BuildingID, req.Year)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, closed)
}

func parseYear(value string) (int, error) {
	if value == "" {
		return time.Now().UTC().Year(), nil
	}
	year, err := strconv.Atoi(value)
	if err != nil || year <= 0 {
		return 0, errors.New("year must be a positive integer")
	}
	return year, nil
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, period.ErrEmptyBuildingID), errors.Is(err, period.ErrInvalidYear):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
