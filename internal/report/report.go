package report

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

var (
	ErrInvalidMonth = errors.New("month must be in YYYY-MM form")
	ErrEmptyReport  = errors.New("no work logs found for the requested month")
)

// MonthlySummary is one employee's payroll totals for a calendar month.
type MonthlySummary struct {
	UserID       string  `json:"user_id"`
	UserName     string  `json:"user_name"`
	Email        string  `json:"email"`
	ShiftCount   int     `json:"shift_count"`
	TotalHours   float64 `json:"total_hours"`
	TotalPayment int64   `json:"total_payment"`
}

// MonthlyReport bundles the month with the per-employee rows and grand totals.
type MonthlyReport struct {
	Month        string            `json:"month"`
	Summaries    []*MonthlySummary `json:"summaries"`
	TotalHours   float64           `json:"total_hours"`
	TotalPayment int64             `json:"total_payment"`
}

var excelHeaders = []string{"Employee", "Email", "Shifts", "Total Hours", "Total Payment"}

// GenerateExcelReport renders the monthly report into a single-sheet XLSX
// workbook. The sheet is named after the month.
func GenerateExcelReport(r *MonthlyReport) (*bytes.Buffer, error) {
	if len(r.Summaries) == 0 {
		return nil, ErrEmptyReport
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := r.Month
	if _, err := f.NewSheet(sheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet %q: %w", sheet, err)
	}

	if err := setupSheet(f, sheet, len(r.Summaries)); err != nil {
		return nil, err
	}

	for i, s := range r.Summaries {
		rowData := []interface{}{
			s.UserName,
			s.Email,
			s.ShiftCount,
			s.TotalHours,
			s.TotalPayment,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &rowData); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	// Grand total row below the table
	totalRow := len(r.Summaries) + 2
	totals := []interface{}{"Total", "", "", r.TotalHours, r.TotalPayment}
	cell, _ := excelize.CoordinatesToCellName(1, totalRow)
	if err := f.SetSheetRow(sheet, cell, &totals); err != nil {
		return nil, fmt.Errorf("failed to write totals row: %w", err)
	}

	f.SetActiveSheet(0)
	if idx, _ := f.GetSheetIndex("Sheet1"); idx != -1 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return nil, fmt.Errorf("failed to delete default sheet: %w", err)
		}
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buffer, nil
}

func setupSheet(f *excelize.File, sheet string, rowCount int) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "center", Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err = f.SetSheetRow(sheet, "A1", &excelHeaders); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	if err = f.SetCellStyle(sheet, "A1", "E1", headerStyle); err != nil {
		return fmt.Errorf("failed to style headers: %w", err)
	}

	widths := map[string]float64{"A": 28, "B": 32, "C": 10, "D": 14, "E": 16}
	for col, width := range widths {
		if err = f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	return nil
}
