package postgres

import (
	"errors"

	employeeDatamodel "github.com/eunbikang/worklog-management/internal/core/datamodel/employee"
	"github.com/eunbikang/worklog-management/internal/employee"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmployeeRepository implements the employee.Repository interface using GORM.
type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.Repository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Create(e *employee.Employee) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	dm := employee.ToDataModel(e)
	if err := r.db.Create(dm).Error; err != nil {
		return err
	}
	e.CreatedAt = dm.CreatedAt
	return nil
}

func (r *EmployeeRepository) GetByID(id string) (*employee.Employee, error) {
	var dm employeeDatamodel.Employee
	err := r.db.Where("id = ?", id).First(&dm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employee.ErrNotFound
		}
		return nil, err
	}
	return employee.FromDataModel(&dm), nil
}

func (r *EmployeeRepository) GetAll() ([]*employee.Employee, error) {
	var dms []*employeeDatamodel.Employee
	err := r.db.Order("created_at ASC").Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return employee.FromDataModelSlice(dms), nil
}

// EmailExists reports whether another employee already uses the email.
// excludeID lets updates skip the row being edited.
func (r *EmployeeRepository) EmailExists(email string, excludeID string) (bool, error) {
	var count int64
	q := r.db.Model(&employeeDatamodel.Employee{}).Where("email = ?", email)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *EmployeeRepository) Update(e *employee.Employee) error {
	dm := employee.ToDataModel(e)
	result := r.db.Model(&employeeDatamodel.Employee{}).
		Where("id = ?", e.ID).
		Select("name", "email", "password_hash", "role", "phone_number", "hourly_rate").
		Updates(map[string]interface{}{
			"name":          dm.Name,
			"email":         dm.Email,
			"password_hash": dm.PasswordHash,
			"role":          dm.Role,
			"phone_number":  dm.PhoneNumber,
			"hourly_rate":   dm.HourlyRate,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return employee.ErrNotFound
	}
	return nil
}

func (r *EmployeeRepository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&employeeDatamodel.Employee{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return employee.ErrNotFound
	}
	return nil
}
