package interfaces

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	reporting "condoledger/internal/reporting/domain"
)

// BuildArrearsCSV renders the report as CSV, one section per part.
func BuildArrearsCSV(report *reporting.ArrearsReport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	_ = writer.Write([]string{"section", "key", "count", "amount", "extra"})
	for _, b := range report.ByStatus {
		_ = writer.Write([]string{
			"by_status",
			b.Status,
			fmt.Sprintf("%d", b.Count),
			b.Total.StringFixed(2),
			"",
		})
	}
	for _, d := range report.TopDebtors {
		_ = writer.Write([]string{
			"top_debtors",
			d.MemberID,
			fmt.Sprintf("%d", d.Count),
			d.Total.StringFixed(2),
			d.OldestDueDate.Format("2006-01-02"),
		})
	}
	for _, p := range report.MonthlyEvolution {
		_ = writer.Write([]string{
			"monthly_evolution",
			p.Month,
			fmt.Sprintf("%d", p.Created),
			p.CreatedAmount.StringFixed(2),
			fmt.Sprintf("settled=%d;settled_amount=%s", p.Settled, p.SettledAmount.StringFixed(2)),
		})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildArrearsXLSX renders the report as a workbook, one sheet per part.
func BuildArrearsXLSX(report *reporting.ArrearsReport) ([]byte, error) {
	f := excelize.NewFile()
	statusSheet := "by_status"
	debtorsSheet := "top_debtors"
	evolutionSheet := "monthly_evolution"
	f.SetSheetName("Sheet1", statusSheet)
	f.NewSheet(debtorsSheet)
	f.NewSheet(evolutionSheet)

	_ = f.SetCellValue(statusSheet, "A1", "Status")
	_ = f.SetCellValue(statusSheet, "B1", "Count")
	_ = f.SetCellValue(statusSheet, "C1", "Amount")
	for i, b := range report.ByStatus {
		row := i + 2
		_ = f.SetCellValue(statusSheet, fmt.Sprintf("A%d", row), b.Status)
		_ = f.SetCellValue(statusSheet, fmt.Sprintf("B%d", row), b.Count)
		_ = f.SetCellValue(statusSheet, fmt.Sprintf("C%d", row), b.Total.StringFixed(2))
	}

	_ = f.SetCellValue(debtorsSheet, "A1", "Member")
	_ = f.SetCellValue(debtorsSheet, "B1", "Name")
	_ = f.SetCellValue(debtorsSheet, "C1", "Amount")
	_ = f.SetCellValue(debtorsSheet, "D1", "Records")
	_ = f.SetCellValue(debtorsSheet, "E1", "Oldest Due")
	for i, d := range report.TopDebtors {
		row := i + 2
		_ = f.SetCellValue(debtorsSheet, fmt.Sprintf("A%d", row), d.MemberID)
		_ = f.SetCellValue(debtorsSheet, fmt.Sprintf("B%d", row), d.MemberName)
		_ = f.SetCellValue(debtorsSheet, fmt.Sprintf("C%d", row), d.Total.StringFixed(2))
		_ = f.SetCellValue(debtorsSheet, fmt.Sprintf("D%d", row), d.Count)
		_ = f.SetCellValue(debtorsSheet, fmt.Sprintf("E%d", row), d.OldestDueDate.Format("2006-01-02"))
	}

	_ = f.SetCellValue(evolutionSheet, "A1", "Month")
	_ = f.SetCellValue(evolutionSheet, "B1", "Created")
	_ = f.SetCellValue(evolutionSheet, "C1", "Created Amount")
	_ = f.SetCellValue(evolutionSheet, "D1", "Settled")
	_ = f.SetCellValue(evolutionSheet, "E1", "Settled Amount")
	for i, p := range report.MonthlyEvolution {
		row := i + 2
		_ = f.SetCellValue(evolutionSheet, fmt.Sprintf("A%d", row), p.Month)
		_ = f.SetCellValue(evolutionSheet, fmt.Sprintf("B%d", row), p.Created)
		_ = f.SetCellValue(evolutionSheet, fmt.Sprintf("C%d", row), p.CreatedAmount.StringFixed(2))
		_ = f.SetCellValue(evolutionSheet, fmt.Sprintf("D%d", row), p.Settled)
		_ = f.SetCellValue(evolutionSheet, fmt.Sprintf("E%d", row), p.SettledAmount.StringFixed(2))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildArrearsPDF renders a minimal PDF of the report.
func BuildArrearsPDF(report *reporting.ArrearsReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Arrears Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Building: %s", report.BuildingID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", report.GeneratedAt.Format(time.RFC3339)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(50, 6, "Status", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Count", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Amount", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, b := range report.ByStatus {
		pdf.CellFormat(50, 6, b.Status, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%d", b.Count), "1", 0, "R", false, 0, "")
		pdf.CellFormat(50, 6, b.Total.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(60, 6, "Member", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Amount", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Oldest Due", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, d := range report.TopDebtors {
		name := d.MemberName
		if name == "" {
			name = d.MemberID
		}
		pdf.CellFormat(60, 6, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, d.Total.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, d.OldestDueDate.Format("2006-01-02"), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
