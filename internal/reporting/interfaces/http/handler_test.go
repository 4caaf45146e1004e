package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	reportapp "condoledger/internal/reporting/application"
	reporting "condoledger/internal/reporting/domain"
	reporthttp "condoledger/internal/reporting/interfaces/http"
)

type recordingSource struct {
	gotRange reporting.ReportRange
}

func (s *recordingSource) StatusTotals(_ context.Context, _ string) ([]reporting.StatusBucket, error) {
	return nil, nil
}

func (s *recordingSource) TopDebtors(_ context.Context, _ string, _ int) ([]reporting.DebtorLine, error) {
	return nil, nil
}

func (s *recordingSource) MonthlyEvolution(_ context.Context, _ string, rng reporting.ReportRange) ([]reporting.MonthPoint, error) {
	s.gotRange = rng
	return nil, nil
}

func newReportHandler(t *testing.T) (*reporthttp.Handler, *recordingSource) {
	t.Helper()
	source := &recordingSource{}
	svc, err := reportapp.NewReportService(source, nil, nil)
	if err != nil {
		t.Fatalf("NewReportService: %v", err)
	}
	h, err := reporthttp.NewHandler(svc)
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	return h, source
}

func TestReportHandlerDateRange(t *testing.T) {
	h, source := newReportHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/reports/arrears?building_id=b1&start_date=2025-03-01&end_date=2025-09-30", nil)
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	wantStart := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2025, time.September, 30, 0, 0, 0, 0, time.UTC)
	if !source.gotRange.StartDate.Equal(wantStart) || !source.gotRange.EndDate.Equal(wantEnd) {
		t.Fatalf("range = %v/%v, want %v/%v",
			source.gotRange.StartDate, source.gotRange.EndDate, wantStart, wantEnd)
	}

	var body struct {
		BuildingID string `json:"building_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.BuildingID != "b1" {
		t.Fatalf("building_id = %s, want b1", body.BuildingID)
	}
}

func TestReportHandlerRejectsBadDates(t *testing.T) {
	h, _ := newReportHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/reports/arrears?building_id=b1&start_date=March", nil)
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad start_date status = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet,
		"/api/v1/reports/arrears?building_id=b1&start_date=2025-06-01&end_date=2025-01-01", nil)
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("inverted range status = %d, want 400", rec.Code)
	}
}
