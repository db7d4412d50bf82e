package worklog

// ValidationError is a user-correctable input error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

// CreateWorkLogDTO is the wire payload for recording a shift. Fields use the
// snake_case names of the storage schema; hourly_rate is an optional override
// that falls back to the employee's stored default when absent or <= 0.
type CreateWorkLogDTO struct {
	UserID     string `json:"user_id"`
	WorkDate   string `json:"work_date"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	HourlyRate int64  `json:"hourly_rate,omitempty"`
	Memo       string `json:"memo,omitempty"`
}

func (dto CreateWorkLogDTO) Validate() error {
	if dto.UserID == "" {
		return ValidationError{Msg: "user_id is required"}
	}
	if dto.WorkDate == "" {
		return ValidationError{Msg: "work_date is required"}
	}
	if dto.StartTime == "" {
		return ValidationError{Msg: "start_time is required"}
	}
	if dto.EndTime == "" {
		return ValidationError{Msg: "end_time is required"}
	}
	return nil
}

// UpdateWorkLogDTO carries the full replacement state for a shift. The rate
// policy matches creation: an explicit positive hourly_rate wins, otherwise
// the owner's stored default applies.
type UpdateWorkLogDTO struct {
	WorkDate   string `json:"work_date"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	HourlyRate int64  `json:"hourly_rate,omitempty"`
	Memo       string `json:"memo,omitempty"`
}

func (dto UpdateWorkLogDTO) Validate() error {
	if dto.WorkDate == "" {
		return ValidationError{Msg: "work_date is required"}
	}
	if dto.StartTime == "" {
		return ValidationError{Msg: "start_time is required"}
	}
	if dto.EndTime == "" {
		return ValidationError{Msg: "end_time is required"}
	}
	return nil
}

// ListQuery scopes a shift listing. EmployeeID is honored for admins only;
// for regular users it is silently replaced with their own id.
type ListQuery struct {
	StartDate  string
	EndDate    string
	EmployeeID string
}

func (q ListQuery) Validate() error {
	if q.StartDate == "" || q.EndDate == "" {
		return ValidationError{Msg: "start and end dates are required"}
	}
	return nil
}
