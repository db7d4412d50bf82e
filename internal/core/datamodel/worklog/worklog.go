package worklog

import "time"

type WorkLog struct {
	ID            string    `gorm:"primaryKey;type:uuid"`
	UserID        string    `gorm:"column:user_id;type:uuid;not null;index:idx_work_logs_user_date"`
	WorkDate      string    `gorm:"column:work_date;type:date;not null;index:idx_work_logs_user_date"`
	StartTime     string    `gorm:"column:start_time;type:time;not null"`
	EndTime       string    `gorm:"column:end_time;type:time;not null"`
	WorkHours     float64   `gorm:"column:work_hours;type:numeric(4,2);not null"`
	HourlyRate    int64     `gorm:"column:hourly_rate;not null"`
	PaymentAmount int64     `gorm:"column:payment_amount;not null"`
	Memo          string    `gorm:"column:memo"`
	CreatedAt     time.Time `gorm:"column:created_at;default:now()"`
}

func (WorkLog) TableName() string {
	return "work_logs"
}
