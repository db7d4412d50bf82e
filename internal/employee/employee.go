package employee

import (
	"errors"
	"time"

	"github.com/eunbikang/worklog-management/internal/auth"
	employeeDatamodel "github.com/eunbikang/worklog-management/internal/core/datamodel/employee"
)

type Employee struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         auth.Role `json:"role"`
	PhoneNumber  *string   `json:"phone_number,omitempty"`
	HourlyRate   *int64    `json:"hourly_rate,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// DefaultRate returns the stored hourly rate and whether one is set.
func (e *Employee) DefaultRate() (int64, bool) {
	if e.HourlyRate == nil || *e.HourlyRate <= 0 {
		return 0, false
	}
	return *e.HourlyRate, true
}

var (
	ErrNotFound   = errors.New("employee not found")
	ErrEmailTaken = errors.New("email already in use")
)

func ToDataModel(e *Employee) *employeeDatamodel.Employee {
	return &employeeDatamodel.Employee{
		ID:           e.ID,
		Name:         e.Name,
		Email:        e.Email,
		PasswordHash: e.PasswordHash,
		Role:         e.Role.String(),
		PhoneNumber:  e.PhoneNumber,
		HourlyRate:   e.HourlyRate,
		CreatedAt:    e.CreatedAt,
	}
}

func FromDataModel(e *employeeDatamodel.Employee) *Employee {
	return &Employee{
		ID:           e.ID,
		Name:         e.Name,
		Email:        e.Email,
		PasswordHash: e.PasswordHash,
		Role:         auth.ParseRole(e.Role),
		PhoneNumber:  e.PhoneNumber,
		HourlyRate:   e.HourlyRate,
		CreatedAt:    e.CreatedAt,
	}
}

func FromDataModelSlice(employees []*employeeDatamodel.Employee) []*Employee {
	result := make([]*Employee, len(employees))
	for i, e := range employees {
		result[i] = FromDataModel(e)
	}
	return result
}
