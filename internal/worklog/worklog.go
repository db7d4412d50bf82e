package worklog

import (
	"errors"
	"fmt"
	"math"
	"time"

	worklogDatamodel "github.com/eunbikang/worklog-management/internal/core/datamodel/worklog"
)

// WorkLog is one recorded work interval for one employee on one date. The
// hourly rate and payment amount are snapshots taken at write time; later
// changes to the employee's default rate never touch stored rows.
type WorkLog struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	UserName      string    `json:"user_name,omitempty"`
	WorkDate      string    `json:"work_date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	WorkHours     float64   `json:"work_hours"`
	HourlyRate    int64     `json:"hourly_rate"`
	PaymentAmount int64     `json:"payment_amount"`
	Memo          string    `json:"memo,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

var (
	ErrNotFound         = errors.New("work log not found")
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrForbidden        = errors.New("not allowed to access this work log")
	ErrOverlap          = errors.New("an overlapping shift already exists")
	ErrInvalidTimeRange = errors.New("end time must be after start time")
	ErrMissingRate      = errors.New("no hourly rate available for this shift")
)

// ParseDate validates a calendar date in YYYY-MM-DD form and returns it
// normalized.
func ParseDate(s string) (string, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t.Format(dateLayout), nil
}

// ParseClock converts an HH:MM (or HH:MM:SS) time of day into minutes since
// midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		t, err = time.Parse("15:04:05", s)
		if err != nil {
			return 0, fmt.Errorf("invalid time %q: %w", s, err)
		}
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ComputeHours returns the wall-clock difference between two minute offsets in
// hours, rounded to 2 decimal places.
func ComputeHours(startMin, endMin int) float64 {
	return math.Round(float64(endMin-startMin)/60*100) / 100
}

// ComputePayment returns round(hours * rate) in whole currency units.
func ComputePayment(hours float64, rate int64) int64 {
	return int64(math.Round(hours * float64(rate)))
}

// Typed DATE and TIME columns come back from some drivers as time values,
// which database/sql renders into strings as RFC3339 timestamps or HH:MM:SS.
// The read path normalizes them back to the YYYY-MM-DD and HH:MM wire shapes.
var (
	dateScanLayouts  = []string{dateLayout, time.RFC3339Nano, "2006-01-02 15:04:05"}
	clockScanLayouts = []string{clockLayout, "15:04:05", time.RFC3339Nano}
)

func normalizeDate(s string) string {
	for _, layout := range dateScanLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(dateLayout)
		}
	}
	return s
}

func normalizeClock(s string) string {
	for _, layout := range clockScanLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(clockLayout)
		}
	}
	return s
}

// Overlaps reports whether two half-open [start, end) minute intervals
// intersect. Boundary-touching shifts (a.end == b.start) do not conflict.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// ConflictsWith reports whether the candidate interval overlaps any of the
// existing shifts, skipping the shift with excludeID (used on update).
// It is shared by the transactional repositories and the service tests so the
// boundary policy cannot drift between code paths.
func ConflictsWith(existing []*WorkLog, startMin, endMin int, excludeID string) (bool, error) {
	for _, shift := range existing {
		if excludeID != "" && shift.ID == excludeID {
			continue
		}
		s, err := ParseClock(shift.StartTime)
		if err != nil {
			return false, err
		}
		e, err := ParseClock(shift.EndTime)
		if err != nil {
			return false, err
		}
		if Overlaps(startMin, endMin, s, e) {
			return true, nil
		}
	}
	return false, nil
}

func ToDataModel(w *WorkLog) *worklogDatamodel.WorkLog {
	return &worklogDatamodel.WorkLog{
		ID:            w.ID,
		UserID:        w.UserID,
		WorkDate:      w.WorkDate,
		StartTime:     w.StartTime,
		EndTime:       w.EndTime,
		WorkHours:     w.WorkHours,
		HourlyRate:    w.HourlyRate,
		PaymentAmount: w.PaymentAmount,
		Memo:          w.Memo,
		CreatedAt:     w.CreatedAt,
	}
}

func FromDataModel(w *worklogDatamodel.WorkLog) *WorkLog {
	return &WorkLog{
		ID:            w.ID,
		UserID:        w.UserID,
		WorkDate:      normalizeDate(w.WorkDate),
		StartTime:     normalizeClock(w.StartTime),
		EndTime:       normalizeClock(w.EndTime),
		WorkHours:     w.WorkHours,
		HourlyRate:    w.HourlyRate,
		PaymentAmount: w.PaymentAmount,
		Memo:          w.Memo,
		CreatedAt:     w.CreatedAt,
	}
}

func FromDataModelSlice(logs []*worklogDatamodel.WorkLog) []*WorkLog {
	result := make([]*WorkLog, len(logs))
	for i, w := range logs {
		result[i] = FromDataModel(w)
	}
	return result
}
