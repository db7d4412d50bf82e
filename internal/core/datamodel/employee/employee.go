package employee

import "time"

type Employee struct {
	ID           string    `gorm:"primaryKey;type:uuid"`
	Name         string    `gorm:"column:name;not null"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Role         string    `gorm:"column:role;not null;default:user"`
	PhoneNumber  *string   `gorm:"column:phone_number"`
	HourlyRate   *int64    `gorm:"column:hourly_rate"`
	CreatedAt    time.Time `gorm:"column:created_at;default:now()"`
}

func (Employee) TableName() string {
	return "users"
}
