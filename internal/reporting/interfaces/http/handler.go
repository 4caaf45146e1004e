package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	ledger "condoledger/internal/ledger/domain"
	"condoledger/internal/observability/metrics"
	reportapp "condoledger/internal/reporting/application"
	reporting "condoledger/internal/reporting/domain"
	"condoledger/internal/reporting/interfaces"
)

// Handler serves the arrears report and its exports.
type Handler struct {
	reports *reportapp.ReportService
}

// NewHandler constructs a handler.
func NewHandler(reports *reportapp.ReportService) (*Handler, error) {
	if reports == nil {
		return nil, errors.New("reporting handler: nil report service")
	}
	return &Handler{reports: reports}, nil
}

// ServeHTTP routes reporting endpoints.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	switch r.URL.Path {
	case "/api/v1/reports/arrears":
		h.handleReport(w, r)
	case "/api/v1/reports/arrears.csv":
		h.handleExport(w, r, "csv")
	case "/api/v1/reports/arrears.xlsx":
		h.handleExport(w, r, "xlsx")
	case "/api/v1/reports/arrears.pdf":
		h.handleExport(w, r, "pdf")
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	report, err := h.reports.ArrearsReport(r.Context(), r.URL.Query().Get("building_id"), rng)
	if err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(report)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request, format string) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveReportExport(format, result, time.Since(start))
	}()

	rng, err := parseRange(r)
	if err != nil {
		result = metrics.ResultError
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	report, err := h.reports.ArrearsReport(r.Context(), r.URL.Query().Get("building_id"), rng)
	if err != nil {
		result = metrics.ResultError
		respondError(w, err)
		return
	}

	var data []byte
	var contentType string
	switch format {
	case "csv":
		data, err = interfaces.BuildArrearsCSV(report)
		contentType = "text/csv; charset=utf-8"
	case "xlsx":
		data, err = interfaces.BuildArrearsXLSX(report)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "pdf":
		data, err = interfaces.BuildArrearsPDF(report)
		contentType = "application/pdf"
	}
	if err != nil {
		result = metrics.ResultError
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="arrears-report.`+format+`"`)
	_, _ = w.Write(data)
}

// parseRange reads the optional start_date and end_date query
// parameters. Both are YYYY-MM-DD; either may be omitted.
func parseRange(r *http.Request) (reporting.ReportRange, error) {
	var rng reporting.ReportRange
	if raw := r.URL.Query().Get("start_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return rng, errors.New("start_date must be YYYY-MM-DD")
		}
		rng.StartDate = t
	}
	if raw := r.URL.Query().Get("end_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return rng, errors.New("end_date must be YYYY-MM-DD")
		}
		rng.EndDate = t
	}
	return rng, nil
}

func respondError(w http.ResponseWriter, err error) {
	if errors.Is(err, ledger.ErrEmptyBuildingID) || errors.Is(err, reporting.ErrInvalidRange) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Error(w, "internal error", http.StatusInternalServerError)
}
