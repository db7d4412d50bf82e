package employee

import (
	"errors"
	"log/slog"

	"github.com/eunbikang/worklog-management/internal/auth"
	"github.com/eunbikang/worklog-management/internal/metrics"
)

var (
	ErrForbidden      = errors.New("not allowed to access this employee")
	ErrSelfDelete     = errors.New("administrators cannot delete their own account")
	ErrSelfRoleChange = errors.New("administrators cannot change their own role")
)

// Repository defines the data access methods for employees.
type Repository interface {
	Create(e *Employee) error
	GetByID(id string) (*Employee, error)
	GetAll() ([]*Employee, error)
	EmailExists(email string, excludeID string) (bool, error)
	Update(e *Employee) error
	Delete(id string) error
}

type Service struct {
	repo       Repository
	bcryptCost int
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

func NewService(repo Repository, bcryptCost int, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		metrics:    m,
		logger:     logger,
	}
}

// GetAll lists every employee; admin only.
func (s *Service) GetAll(caller auth.Identity) ([]*Employee, error) {
	if !caller.IsAdmin() {
		s.logger.Warn("employee list denied", "caller_id", caller.ID, "role", caller.Role)
		return nil, ErrForbidden
	}
	return s.repo.GetAll()
}

// GetByID returns one employee; admin or the employee themself.
func (s *Service) GetByID(caller auth.Identity, id string) (*Employee, error) {
	if !caller.IsAdmin() && caller.ID != id {
		s.logger.Warn("employee read denied", "caller_id", caller.ID, "employee_id", id)
		return nil, ErrForbidden
	}

	e, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get employee", "error", err, "employee_id", id)
		return nil, err
	}
	return e, nil
}

// Create registers a new employee; admin only.
func (s *Service) Create(caller auth.Identity, dto CreateEmployeeDTO) (*Employee, error) {
	if !caller.IsAdmin() {
		s.logger.Warn("employee create denied", "caller_id", caller.ID, "role", caller.Role)
		return nil, ErrForbidden
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	taken, err := s.repo.EmailExists(dto.Email, "")
	if err != nil {
		s.logger.Error("email lookup failed", "error", err, "email", dto.Email)
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		s.logger.Error("password hash failed", "error", err)
		return nil, err
	}

	e := &Employee{
		Name:         dto.Name,
		Email:        dto.Email,
		PasswordHash: hash,
		Role:         auth.ParseRole(dto.Role),
		PhoneNumber:  dto.PhoneNumber,
		HourlyRate:   dto.HourlyRate,
	}

	if err := s.repo.Create(e); err != nil {
		s.logger.Error("failed to create employee", "error", err, "email", dto.Email)
		return nil, err
	}

	s.metrics.IncEmployeeCreated()
	s.logger.Info("employee created", "employee_id", e.ID, "email", e.Email, "role", e.Role)
	return e, nil
}

// Update mutates an employee; admin may edit anyone, a user only themself.
// Role changes require admin and never apply to the caller's own account.
func (s *Service) Update(caller auth.Identity, id string, dto UpdateEmployeeDTO) (*Employee, error) {
	if !caller.IsAdmin() && caller.ID != id {
		s.logger.Warn("employee update denied", "caller_id", caller.ID, "employee_id", id)
		return nil, ErrForbidden
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	e, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if dto.Email != nil && *dto.Email != e.Email {
		taken, err := s.repo.EmailExists(*dto.Email, id)
		if err != nil {
			s.logger.Error("email lookup failed", "error", err, "email", *dto.Email)
			return nil, err
		}
		if taken {
			return nil, ErrEmailTaken
		}
		e.Email = *dto.Email
	}

	if dto.Name != nil {
		e.Name = *dto.Name
	}
	if dto.PhoneNumber != nil {
		e.PhoneNumber = dto.PhoneNumber
	}
	if dto.ClearRate {
		e.HourlyRate = nil
	} else if dto.HourlyRate != nil {
		e.HourlyRate = dto.HourlyRate
	}

	if dto.Role != nil {
		if !caller.IsAdmin() {
			return nil, ErrForbidden
		}
		if caller.ID == id {
			return nil, ErrSelfRoleChange
		}
		e.Role = auth.ParseRole(*dto.Role)
	}

	if dto.Password != nil {
		hash, err := auth.HashPassword(*dto.Password, s.bcryptCost)
		if err != nil {
			s.logger.Error("password hash failed", "error", err)
			return nil, err
		}
		e.PasswordHash = hash
	}

	if err := s.repo.Update(e); err != nil {
		s.logger.Error("failed to update employee", "error", err, "employee_id", id)
		return nil, err
	}

	s.logger.Info("employee updated", "employee_id", id, "by", caller.ID)
	return e, nil
}

// Delete removes an employee and, via the FK cascade, all their work logs.
// Admin only, and never the admin's own account.
func (s *Service) Delete(caller auth.Identity, id string) error {
	if !caller.IsAdmin() {
		s.logger.Warn("employee delete denied", "caller_id", caller.ID, "employee_id", id)
		return ErrForbidden
	}
	if caller.ID == id {
		s.logger.Warn("employee self-delete rejected", "caller_id", caller.ID)
		return ErrSelfDelete
	}

	if _, err := s.repo.GetByID(id); err != nil {
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete employee", "error", err, "employee_id", id)
		return err
	}

	s.logger.Info("employee deleted", "employee_id", id, "by", caller.ID)
	return nil
}
