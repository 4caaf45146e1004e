package interfaces

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	reporting "condoledger/internal/reporting/domain"
)

func sampleReport() *reporting.ArrearsReport {
	return &reporting.ArrearsReport{
		BuildingID:  "b1",
		GeneratedAt: time.Date(2025, 4, 15, 10, 0, 0, 0, time.UTC),
		ByStatus: []reporting.StatusBucket{
			{Status: "pending", Count: 3, Total: decimal.RequireFromString("450.00")},
			{Status: "settled", Count: 5, Total: decimal.RequireFromString("900.00")},
		},
		TopDebtors: []reporting.DebtorLine{
			{MemberID: "m1", MemberName: "Ana Duarte", Total: decimal.RequireFromString("300.00"), Count: 2, OldestDueDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)},
		},
		MonthlyEvolution: []reporting.MonthPoint{
			{Month: "2025-03", Created: 2, CreatedAmount: decimal.RequireFromString("250.00"), Settled: 1, SettledAmount: decimal.RequireFromString("100.00")},
		},
	}
}

func TestBuildArrearsCSV(t *testing.T) {
	data, err := BuildArrearsCSV(sampleReport())
	if err != nil {
		t.Fatalf("BuildArrearsCSV: %v", err)
	}
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	// Header, two status rows, one debtor, one month point.
	if len(rows) != 5 {
		t.Fatalf("rows = %d, want 5", len(rows))
	}
	if rows[0][0] != "section" {
		t.Fatalf("header = %v", rows[0])
	}
	if rows[1][0] != "by_status" || rows[1][1] != "pending" || rows[1][3] != "450.00" {
		t.Fatalf("status row = %v", rows[1])
	}
	if rows[3][0] != "top_debtors" || rows[3][4] != "2025-01-10" {
		t.Fatalf("debtor row = %v", rows[3])
	}
	if !strings.Contains(rows[4][4], "settled=1") {
		t.Fatalf("evolution extra = %q", rows[4][4])
	}
}

func TestBuildArrearsXLSX(t *testing.T) {
	data, err := BuildArrearsXLSX(sampleReport())
	if err != nil {
		t.Fatalf("BuildArrearsXLSX: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	for _, sheet := range []string{"by_status", "top_debtors", "monthly_evolution"} {
		if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
			t.Fatalf("missing sheet %q (idx=%d err=%v)", sheet, idx, err)
		}
	}
	got, err := f.GetCellValue("top_debtors", "B2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if got != "Ana Duarte" {
		t.Fatalf("debtor name = %q", got)
	}
}

func TestBuildArrearsPDF(t *testing.T) {
	data, err := BuildArrearsPDF(sampleReport())
	if err != nil {
		t.Fatalf("BuildArrearsPDF: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("output is not a pdf")
	}
}
