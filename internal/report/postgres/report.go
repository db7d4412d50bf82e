package postgres

import (
	"time"

	"github.com/eunbikang/worklog-management/internal/report"
	"gorm.io/gorm"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) report.Repository {
	return &ReportRepository{db: db}
}

// MonthlyTotals sums hours and payment per employee for the month. The month
// is turned into a date range so the query works on any SQL dialect.
func (r *ReportRepository) MonthlyTotals(month string, employeeID string) ([]*report.MonthlySummary, error) {
	first, err := time.Parse("2006-01", month)
	if err != nil {
		return nil, report.ErrInvalidMonth
	}
	from := first.Format("2006-01-02")
	to := first.AddDate(0, 1, 0).Format("2006-01-02")

	q := r.db.Table("work_logs").
		Select(`work_logs.user_id AS user_id,
			users.name AS user_name,
			users.email AS email,
			COUNT(*) AS shift_count,
			SUM(work_logs.work_hours) AS total_hours,
			SUM(work_logs.payment_amount) AS total_payment`).
		Joins("JOIN users ON users.id = work_logs.user_id").
		Where("work_logs.work_date >= ? AND work_logs.work_date < ?", from, to)
	if employeeID != "" {
		q = q.Where("work_logs.user_id = ?", employeeID)
	}

	var summaries []*report.MonthlySummary
	err = q.Group("work_logs.user_id, users.name, users.email").
		Order("users.name ASC").
		Find(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}
