package postgres

import (
	"errors"

	"github.com/eunbikang/worklog-management/internal/auth"
	employeeDatamodel "github.com/eunbikang/worklog-management/internal/core/datamodel/employee"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) auth.RepositoryAPI {
	return &AuthRepository{db: db}
}

func (r *AuthRepository) GetCredentialsByEmail(email string) (string, string, error) {
	var user employeeDatamodel.Employee
	err := r.db.Where("email = ?", email).Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", auth.ErrInvalidCredentials
		}
		return "", "", err
	}
	return user.ID, user.PasswordHash, nil
}

// GetIdentity reads role and profile from the store, not from token claims, so
// a role change takes effect on the subject's next request.
func (r *AuthRepository) GetIdentity(id string) (auth.Identity, error) {
	var user employeeDatamodel.Employee
	err := r.db.Where("id = ?", id).Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return auth.Identity{}, auth.ErrUnknownSubject
		}
		return auth.Identity{}, err
	}
	return auth.Identity{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  auth.ParseRole(user.Role),
	}, nil
}

func (r *AuthRepository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&employeeDatamodel.Employee{}).
		Where("email = ?", email).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *AuthRepository) CreateUser(name, email, passwordHash string) (auth.Identity, error) {
	user := employeeDatamodel.Employee{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         string(auth.RoleUser),
	}
	if err := r.db.Create(&user).Error; err != nil {
		return auth.Identity{}, err
	}
	return auth.Identity{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  auth.RoleUser,
	}, nil
}
