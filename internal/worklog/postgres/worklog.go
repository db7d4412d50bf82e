package postgres

import (
	"errors"

	worklogDatamodel "github.com/eunbikang/worklog-management/internal/core/datamodel/worklog"
	"github.com/eunbikang/worklog-management/internal/worklog"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WorkLogRepository implements the worklog.Repository interface using GORM.
// The exclusive writes lock the employee's rows for the work date inside a
// transaction so the overlap check and the write cannot be interleaved by a
// concurrent request.
type WorkLogRepository struct {
	db *gorm.DB
}

func NewWorkLogRepository(db *gorm.DB) worklog.Repository {
	return &WorkLogRepository{db: db}
}

// dayShifts loads all shifts for the employee on the date, taking FOR UPDATE
// row locks on dialects that support them.
func dayShifts(tx *gorm.DB, employeeID, date string) ([]*worklogDatamodel.WorkLog, error) {
	var rows []*worklogDatamodel.WorkLog
	q := tx.Where("user_id = ? AND work_date = ?", employeeID, date)
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *WorkLogRepository) CreateExclusive(w *worklog.WorkLog) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	dm := worklog.ToDataModel(w)

	err := r.db.Transaction(func(tx *gorm.DB) error {
		existing, err := dayShifts(tx, w.UserID, w.WorkDate)
		if err != nil {
			return err
		}

		startMin, err := worklog.ParseClock(w.StartTime)
		if err != nil {
			return err
		}
		endMin, err := worklog.ParseClock(w.EndTime)
		if err != nil {
			return err
		}

		conflict, err := worklog.ConflictsWith(worklog.FromDataModelSlice(existing), startMin, endMin, "")
		if err != nil {
			return err
		}
		if conflict {
			return worklog.ErrOverlap
		}

		return tx.Create(dm).Error
	})
	if err != nil {
		return err
	}

	w.CreatedAt = dm.CreatedAt
	return nil
}

func (r *WorkLogRepository) UpdateExclusive(w *worklog.WorkLog) error {
	dm := worklog.ToDataModel(w)

	return r.db.Transaction(func(tx *gorm.DB) error {
		var current worklogDatamodel.WorkLog
		if err := tx.Where("id = ?", w.ID).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return worklog.ErrNotFound
			}
			return err
		}

		existing, err := dayShifts(tx, w.UserID, w.WorkDate)
		if err != nil {
			return err
		}

		startMin, err := worklog.ParseClock(w.StartTime)
		if err != nil {
			return err
		}
		endMin, err := worklog.ParseClock(w.EndTime)
		if err != nil {
			return err
		}

		conflict, err := worklog.ConflictsWith(worklog.FromDataModelSlice(existing), startMin, endMin, w.ID)
		if err != nil {
			return err
		}
		if conflict {
			return worklog.ErrOverlap
		}

		return tx.Model(&worklogDatamodel.WorkLog{}).
			Where("id = ?", w.ID).
			Updates(map[string]interface{}{
				"work_date":      dm.WorkDate,
				"start_time":     dm.StartTime,
				"end_time":       dm.EndTime,
				"work_hours":     dm.WorkHours,
				"hourly_rate":    dm.HourlyRate,
				"payment_amount": dm.PaymentAmount,
				"memo":           dm.Memo,
			}).Error
	})
}

// workLogRow carries the joined employee display name alongside the shift.
type workLogRow struct {
	worklogDatamodel.WorkLog
	UserName string
}

func (r *WorkLogRepository) GetByID(id string) (*worklog.WorkLog, error) {
	var row workLogRow
	err := r.db.Table("work_logs").
		Select("work_logs.*, users.name AS user_name").
		Joins("JOIN users ON users.id = work_logs.user_id").
		Where("work_logs.id = ?", id).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, worklog.ErrNotFound
		}
		return nil, err
	}

	result := worklog.FromDataModel(&row.WorkLog)
	result.UserName = row.UserName
	return result, nil
}

// List returns shifts in the date range, most recent day first and earliest
// shift first within a day.
func (r *WorkLogRepository) List(filter worklog.ListFilter) ([]*worklog.WorkLog, error) {
	var rows []workLogRow
	q := r.db.Table("work_logs").
		Select("work_logs.*, users.name AS user_name").
		Joins("JOIN users ON users.id = work_logs.user_id").
		Where("work_logs.work_date >= ? AND work_logs.work_date <= ?", filter.StartDate, filter.EndDate)
	if filter.EmployeeID != "" {
		q = q.Where("work_logs.user_id = ?", filter.EmployeeID)
	}
	if err := q.Order("work_logs.work_date DESC, work_logs.start_time ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]*worklog.WorkLog, len(rows))
	for i := range rows {
		w := worklog.FromDataModel(&rows[i].WorkLog)
		w.UserName = rows[i].UserName
		result[i] = w
	}
	return result, nil
}

func (r *WorkLogRepository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&worklogDatamodel.WorkLog{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return worklog.ErrNotFound
	}
	return nil
}
