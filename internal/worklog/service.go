package worklog

import (
	"log/slog"

	"github.com/eunbikang/worklog-management/internal/auth"
	"github.com/eunbikang/worklog-management/internal/employee"
	"github.com/eunbikang/worklog-management/internal/metrics"
)

// ListFilter is the storage-level shape of a scoped listing.
type ListFilter struct {
	StartDate  string
	EndDate    string
	EmployeeID string // empty means all employees
}

// Repository defines the data access methods for work logs. CreateExclusive
// and UpdateExclusive run the overlap check and the write inside one
// transaction with the employee's day locked, so two concurrent requests for
// the same window cannot both pass the check.
type Repository interface {
	CreateExclusive(w *WorkLog) error
	UpdateExclusive(w *WorkLog) error
	GetByID(id string) (*WorkLog, error)
	List(filter ListFilter) ([]*WorkLog, error)
	Delete(id string) error
}

// EmployeeDirectory is the slice of the employee store the recorder needs:
// default rates and display names.
type EmployeeDirectory interface {
	GetByID(id string) (*employee.Employee, error)
}

// Service validates and computes work-log entries: the no-overlap constraint
// per employee per day, and the hours/payment derivation.
type Service struct {
	repo      Repository
	employees EmployeeDirectory
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewService(repo Repository, employees EmployeeDirectory, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		employees: employees,
		metrics:   m,
		logger:    logger,
	}
}

// RecordShift validates, computes and persists a new shift.
//
// Validation order: required fields, date/time format, end > start, effective
// rate, then the overlap check inside the insert transaction.
func (s *Service) RecordShift(caller auth.Identity, dto CreateWorkLogDTO) (*WorkLog, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("shift validation failed", "error", err, "caller_id", caller.ID)
		return nil, err
	}

	if !caller.IsAdmin() && caller.ID != dto.UserID {
		s.logger.Warn("shift create denied", "caller_id", caller.ID, "employee_id", dto.UserID)
		return nil, ErrForbidden
	}

	owner, err := s.employees.GetByID(dto.UserID)
	if err != nil {
		s.logger.Warn("shift create: owner lookup failed", "error", err, "employee_id", dto.UserID)
		return nil, ErrEmployeeNotFound
	}

	workDate, startMin, endMin, err := parseWindow(dto.WorkDate, dto.StartTime, dto.EndTime)
	if err != nil {
		return nil, err
	}

	rate, err := effectiveRate(dto.HourlyRate, owner)
	if err != nil {
		return nil, err
	}

	hours := ComputeHours(startMin, endMin)
	log := &WorkLog{
		UserID:        dto.UserID,
		UserName:      owner.Name,
		WorkDate:      workDate,
		StartTime:     dto.StartTime,
		EndTime:       dto.EndTime,
		WorkHours:     hours,
		HourlyRate:    rate,
		PaymentAmount: ComputePayment(hours, rate),
		Memo:          dto.Memo,
	}

	if err := s.repo.CreateExclusive(log); err != nil {
		if err == ErrOverlap {
			s.metrics.IncShiftConflict()
			s.logger.Info("shift rejected: overlapping window",
				"employee_id", dto.UserID,
				"work_date", workDate,
				"start_time", dto.StartTime,
				"end_time", dto.EndTime)
			return nil, err
		}
		s.logger.Error("failed to insert shift", "error", err, "employee_id", dto.UserID, "work_date", workDate)
		return nil, err
	}

	s.metrics.IncShiftOp("create")
	s.logger.Info("shift recorded",
		"shift_id", log.ID,
		"employee_id", dto.UserID,
		"work_date", workDate,
		"work_hours", hours,
		"payment_amount", log.PaymentAmount)

	return log, nil
}

// UpdateShift replaces a shift's window, rate and memo, recomputing hours and
// payment. Authorization checks the existing shift's owner, with admin
// override; the overlap check excludes the shift itself.
func (s *Service) UpdateShift(caller auth.Identity, shiftID string, dto UpdateWorkLogDTO) (*WorkLog, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("shift update validation failed", "error", err, "shift_id", shiftID)
		return nil, err
	}

	existing, err := s.repo.GetByID(shiftID)
	if err != nil {
		s.logger.Warn("shift update: not found", "shift_id", shiftID)
		return nil, err
	}

	if !caller.IsAdmin() && caller.ID != existing.UserID {
		s.logger.Warn("shift update denied", "caller_id", caller.ID, "shift_id", shiftID, "owner_id", existing.UserID)
		return nil, ErrForbidden
	}

	owner, err := s.employees.GetByID(existing.UserID)
	if err != nil {
		return nil, ErrEmployeeNotFound
	}

	workDate, startMin, endMin, err := parseWindow(dto.WorkDate, dto.StartTime, dto.EndTime)
	if err != nil {
		return nil, err
	}

	rate, err := effectiveRate(dto.HourlyRate, owner)
	if err != nil {
		return nil, err
	}

	hours := ComputeHours(startMin, endMin)
	updated := &WorkLog{
		ID:            existing.ID,
		UserID:        existing.UserID,
		UserName:      owner.Name,
		WorkDate:      workDate,
		StartTime:     dto.StartTime,
		EndTime:       dto.EndTime,
		WorkHours:     hours,
		HourlyRate:    rate,
		PaymentAmount: ComputePayment(hours, rate),
		Memo:          dto.Memo,
		CreatedAt:     existing.CreatedAt,
	}

	if err := s.repo.UpdateExclusive(updated); err != nil {
		if err == ErrOverlap {
			s.metrics.IncShiftConflict()
			s.logger.Info("shift update rejected: overlapping window",
				"shift_id", shiftID,
				"work_date", workDate)
			return nil, err
		}
		s.logger.Error("failed to update shift", "error", err, "shift_id", shiftID)
		return nil, err
	}

	s.metrics.IncShiftOp("update")
	s.logger.Info("shift updated",
		"shift_id", shiftID,
		"employee_id", existing.UserID,
		"work_hours", hours,
		"payment_amount", updated.PaymentAmount,
		"by", caller.ID)

	return updated, nil
}

// DeleteShift removes a shift; admin or the shift's own employee. A missing
// id fails with ErrNotFound rather than succeeding silently.
func (s *Service) DeleteShift(caller auth.Identity, shiftID string) error {
	existing, err := s.repo.GetByID(shiftID)
	if err != nil {
		return err
	}

	if !caller.IsAdmin() && caller.ID != existing.UserID {
		s.logger.Warn("shift delete denied", "caller_id", caller.ID, "shift_id", shiftID, "owner_id", existing.UserID)
		return ErrForbidden
	}

	if err := s.repo.Delete(shiftID); err != nil {
		s.logger.Error("failed to delete shift", "error", err, "shift_id", shiftID)
		return err
	}

	s.metrics.IncShiftOp("delete")
	s.logger.Info("shift deleted", "shift_id", shiftID, "by", caller.ID)
	return nil
}

// ListShifts returns shifts in the date range. Non-admin callers are always
// scoped to their own shifts; an employee filter from them is ignored, not
// rejected. Ordering: work date descending, start time ascending.
func (s *Service) ListShifts(caller auth.Identity, q ListQuery) ([]*WorkLog, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	startDate, err := ParseDate(q.StartDate)
	if err != nil {
		return nil, ValidationError{Msg: "start date must be YYYY-MM-DD"}
	}
	endDate, err := ParseDate(q.EndDate)
	if err != nil {
		return nil, ValidationError{Msg: "end date must be YYYY-MM-DD"}
	}

	filter := ListFilter{StartDate: startDate, EndDate: endDate}
	if caller.IsAdmin() {
		filter.EmployeeID = q.EmployeeID
	} else {
		filter.EmployeeID = caller.ID
	}

	logs, err := s.repo.List(filter)
	if err != nil {
		s.logger.Error("failed to list shifts", "error", err, "caller_id", caller.ID)
		return nil, err
	}
	return logs, nil
}

// parseWindow validates the date and clock fields and enforces end > start.
// Shifts do not cross midnight.
func parseWindow(date, start, end string) (string, int, int, error) {
	workDate, err := ParseDate(date)
	if err != nil {
		return "", 0, 0, ValidationError{Msg: "work_date must be YYYY-MM-DD"}
	}
	startMin, err := ParseClock(start)
	if err != nil {
		return "", 0, 0, ValidationError{Msg: "start_time must be HH:MM"}
	}
	endMin, err := ParseClock(end)
	if err != nil {
		return "", 0, 0, ValidationError{Msg: "end_time must be HH:MM"}
	}
	if endMin <= startMin {
		return "", 0, 0, ErrInvalidTimeRange
	}
	return workDate, startMin, endMin, nil
}

// effectiveRate resolves the rate actually used for the computation: an
// explicit positive override, else the employee's stored default.
func effectiveRate(override int64, owner *employee.Employee) (int64, error) {
	if override > 0 {
		return override, nil
	}
	if rate, ok := owner.DefaultRate(); ok {
		return rate, nil
	}
	return 0, ErrMissingRate
}
