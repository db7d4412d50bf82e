package employee

import (
	"regexp"
	"strings"
)

// ValidationError is a user-correctable input error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// CreateEmployeeDTO is the admin-facing payload for creating an employee.
type CreateEmployeeDTO struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	Role        string  `json:"role,omitempty"`
	HourlyRate  *int64  `json:"hourly_rate,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
}

func (dto CreateEmployeeDTO) Validate() error {
	if strings.TrimSpace(dto.Name) == "" {
		return ValidationError{Msg: "name is required"}
	}
	if dto.Email == "" {
		return ValidationError{Msg: "email is required"}
	}
	if !emailPattern.MatchString(dto.Email) {
		return ValidationError{Msg: "email format is invalid"}
	}
	if len(dto.Password) < 8 {
		return ValidationError{Msg: "password must be at least 8 characters"}
	}
	if dto.HourlyRate != nil && *dto.HourlyRate < 0 {
		return ValidationError{Msg: "hourly rate must not be negative"}
	}
	return nil
}

// UpdateEmployeeDTO carries partial updates; nil fields are left unchanged.
// An absent hourly_rate keeps the stored rate; clear_hourly_rate=true removes
// it so the employee falls back to per-shift rates.
type UpdateEmployeeDTO struct {
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Password    *string `json:"password,omitempty"`
	Role        *string `json:"role,omitempty"`
	HourlyRate  *int64  `json:"hourly_rate,omitempty"`
	ClearRate   bool    `json:"clear_hourly_rate,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
}

func (dto UpdateEmployeeDTO) Validate() error {
	if dto.Name != nil && strings.TrimSpace(*dto.Name) == "" {
		return ValidationError{Msg: "name must not be empty"}
	}
	if dto.Email != nil && !emailPattern.MatchString(*dto.Email) {
		return ValidationError{Msg: "email format is invalid"}
	}
	if dto.Password != nil && len(*dto.Password) < 8 {
		return ValidationError{Msg: "password must be at least 8 characters"}
	}
	if dto.HourlyRate != nil && *dto.HourlyRate < 0 {
		return ValidationError{Msg: "hourly rate must not be negative"}
	}
	return nil
}
