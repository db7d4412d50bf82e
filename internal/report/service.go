package report

import (
	"log/slog"
	"time"

	"github.com/eunbikang/worklog-management/internal/auth"
	"github.com/eunbikang/worklog-management/internal/metrics"
)

// Repository aggregates work log rows into per-employee monthly totals.
type Repository interface {
	MonthlyTotals(month string, employeeID string) ([]*MonthlySummary, error)
}

type Service struct {
	repo    Repository
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewService(repo Repository, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{repo: repo, metrics: m, logger: logger}
}

// GetMonthlyReport assembles the payroll report for a calendar month.
// Administrators see every employee, or one employee when employeeID is set.
// Everyone else gets their own totals regardless of the requested filter.
func (s *Service) GetMonthlyReport(caller auth.Identity, month, employeeID string) (*MonthlyReport, error) {
	if _, err := time.Parse("2006-01", month); err != nil {
		return nil, ErrInvalidMonth
	}

	if !caller.IsAdmin() {
		employeeID = caller.ID
	}

	start := time.Now()
	summaries, err := s.repo.MonthlyTotals(month, employeeID)
	if err != nil {
		s.logger.Error("failed to aggregate monthly totals", "month", month, "error", err)
		return nil, err
	}
	s.metrics.ObserveReport("json", time.Since(start).Seconds())

	result := &MonthlyReport{Month: month, Summaries: summaries}
	for _, sum := range summaries {
		result.TotalHours += sum.TotalHours
		result.TotalPayment += sum.TotalPayment
	}

	s.logger.Info("monthly report generated",
		"month", month,
		"employees", len(summaries),
		"caller_id", caller.ID)
	return result, nil
}

// ExportMonthlyReport renders the same report as an XLSX workbook.
func (s *Service) ExportMonthlyReport(caller auth.Identity, month, employeeID string) ([]byte, error) {
	r, err := s.GetMonthlyReport(caller, month, employeeID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	buf, err := GenerateExcelReport(r)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveReport("xlsx", time.Since(start).Seconds())

	return buf.Bytes(), nil
}
