package postgres

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/eunbikang/worklog-management/internal/worklog"
)

func TestWorkLogRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "WorkLogRepository Suite")
}

type SQLiteUser struct {
	ID           string    `gorm:"primaryKey"`
	Name         string    `gorm:"column:name;not null"`
	Email        string    `gorm:"column:email;not null"`
	PasswordHash string    `gorm:"column:password_hash"`
	Role         string    `gorm:"column:role;default:user"`
	HourlyRate   *int64    `gorm:"column:hourly_rate"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (SQLiteUser) TableName() string {
	return "users"
}

type SQLiteWorkLog struct {
	ID            string    `gorm:"primaryKey"`
	UserID        string    `gorm:"column:user_id;not null"`
	WorkDate      string    `gorm:"column:work_date;not null"`
	StartTime     string    `gorm:"column:start_time;not null"`
	EndTime       string    `gorm:"column:end_time;not null"`
	WorkHours     float64   `gorm:"column:work_hours"`
	HourlyRate    int64     `gorm:"column:hourly_rate"`
	PaymentAmount int64     `gorm:"column:payment_amount"`
	Memo          string    `gorm:"column:memo"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (SQLiteWorkLog) TableName() string {
	return "work_logs"
}

func newLog(userID, date, start, end string) *worklog.WorkLog {
	startMin, err := worklog.ParseClock(start)
	Expect(err).NotTo(HaveOccurred())
	endMin, err := worklog.ParseClock(end)
	Expect(err).NotTo(HaveOccurred())
	hours := worklog.ComputeHours(startMin, endMin)
	return &worklog.WorkLog{
		UserID:        userID,
		WorkDate:      date,
		StartTime:     start,
		EndTime:       end,
		WorkHours:     hours,
		HourlyRate:    1000,
		PaymentAmount: worklog.ComputePayment(hours, 1000),
	}
}

var _ = Describe("WorkLogRepository", func() {
	var (
		db   *gorm.DB
		repo worklog.Repository
	)

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteUser{}, &SQLiteWorkLog{})
		Expect(err).NotTo(HaveOccurred())

		Expect(db.Create(&SQLiteUser{ID: "alice-1", Name: "Alice", Email: "alice@example.com"}).Error).To(Succeed())
		Expect(db.Create(&SQLiteUser{ID: "bob-1", Name: "Bob", Email: "bob@example.com"}).Error).To(Succeed())

		repo = NewWorkLogRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("CreateExclusive", func() {
		It("persists a shift and assigns an id", func() {
			log := newLog("alice-1", "2026-08-03", "09:00", "12:00")
			Expect(repo.CreateExclusive(log)).To(Succeed())
			Expect(log.ID).NotTo(BeEmpty())

			fetched, err := repo.GetByID(log.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(fetched.UserID).To(Equal("alice-1"))
			Expect(fetched.UserName).To(Equal("Alice"))
			Expect(fetched.PaymentAmount).To(Equal(int64(3000)))
		})

		It("rejects an overlapping shift inside the transaction", func() {
			Expect(repo.CreateExclusive(newLog("alice-1", "2026-08-03", "10:00", "12:00"))).To(Succeed())

			err := repo.CreateExclusive(newLog("alice-1", "2026-08-03", "11:00", "13:00"))
			Expect(err).To(MatchError(worklog.ErrOverlap))

			var count int64
			Expect(db.Model(&SQLiteWorkLog{}).Count(&count).Error).To(Succeed())
			Expect(count).To(Equal(int64(1)))
		})

		It("allows a shift starting exactly when another ends", func() {
			Expect(repo.CreateExclusive(newLog("alice-1", "2026-08-03", "10:00", "12:00"))).To(Succeed())
			Expect(repo.CreateExclusive(newLog("alice-1", "2026-08-03", "12:00", "14:00"))).To(Succeed())
		})

		It("ignores shifts of other employees and other dates", func() {
			Expect(repo.CreateExclusive(newLog("alice-1", "2026-08-03", "10:00", "12:00"))).To(Succeed())
			Expect(repo.CreateExclusive(newLog("bob-1", "2026-08-03", "10:00", "12:00"))).To(Succeed())
			Expect(repo.CreateExclusive(newLog("alice-1", "2026-08-04", "10:00", "12:00"))).To(Succeed())
		})
	})

	Describe("UpdateExclusive", func() {
		It("excludes the shift itself from the overlap check", func() {
			log := newLog("alice-1", "2026-08-03", "10:00", "12:00")
			Expect(repo.CreateExclusive(log)).To(Succeed())

			log.StartTime = "11:00"
			log.EndTime = "13:00"
			Expect(repo.UpdateExclusive(log)).To(Succeed())

			fetched, err := repo.GetByID(log.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(fetched.StartTime).To(Equal("11:00"))
		})

		It("rejects a window colliding with a different shift", func() {
			first := newLog("alice-1", "2026-08-03", "09:00", "11:00")
			Expect(repo.CreateExclusive(first)).To(Succeed())
			second := newLog("alice-1", "2026-08-03", "13:00", "15:00")
			Expect(repo.CreateExclusive(second)).To(Succeed())

			second.StartTime = "10:00"
			second.EndTime = "12:00"
			Expect(repo.UpdateExclusive(second)).To(MatchError(worklog.ErrOverlap))
		})

		It("fails on a missing shift", func() {
			ghost := newLog("alice-1", "2026-08-03", "09:00", "11:00")
			ghost.ID = "missing"
			Expect(repo.UpdateExclusive(ghost)).To(MatchError(worklog.ErrNotFound))
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			Expect(repo.CreateExclusive(newLog("alice-1", "2026-08-03", "13:00", "15:00"))).To(Succeed())
			Expect(repo.CreateExclusive(newLog("alice-1", "2026-08-03", "09:00", "11:00"))).To(Succeed())
			Expect(repo.CreateExclusive(newLog("alice-1", "2026-08-05", "09:00", "11:00"))).To(Succeed())
			Expect(repo.CreateExclusive(newLog("bob-1", "2026-08-04", "09:00", "11:00"))).To(Succeed())
		})

		It("orders by work date descending then start time ascending", func() {
			logs, err := repo.List(worklog.ListFilter{
				StartDate: "2026-08-01", EndDate: "2026-08-31", EmployeeID: "alice-1",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(logs).To(HaveLen(3))
			Expect(logs[0].WorkDate).To(Equal("2026-08-05"))
			Expect(logs[1].WorkDate).To(Equal("2026-08-03"))
			Expect(logs[1].StartTime).To(Equal("09:00"))
			Expect(logs[2].StartTime).To(Equal("13:00"))
		})

		It("filters by the date range inclusively", func() {
			logs, err := repo.List(worklog.ListFilter{
				StartDate: "2026-08-03", EndDate: "2026-08-04",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(logs).To(HaveLen(3))
		})

		It("joins the employee display name", func() {
			logs, err := repo.List(worklog.ListFilter{
				StartDate: "2026-08-04", EndDate: "2026-08-04",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(logs).To(HaveLen(1))
			Expect(logs[0].UserName).To(Equal("Bob"))
		})
	})

	Describe("Delete", func() {
		It("removes the row", func() {
			log := newLog("alice-1", "2026-08-03", "09:00", "11:00")
			Expect(repo.CreateExclusive(log)).To(Succeed())
			Expect(repo.Delete(log.ID)).To(Succeed())

			_, err := repo.GetByID(log.ID)
			Expect(err).To(MatchError(worklog.ErrNotFound))
		})

		It("fails on a missing id", func() {
			Expect(repo.Delete("missing")).To(MatchError(worklog.ErrNotFound))
		})
	})
})

// The production schema declares work_date DATE and start_time/end_time TIME.
// sqlite hands typed date columns back as time values, which scan into strings
// as RFC3339 timestamps, so this suite creates the table with typed columns to
// prove reads still carry the YYYY-MM-DD and HH:MM shapes.
var _ = Describe("WorkLogRepository with typed date and time columns", func() {
	var (
		db   *gorm.DB
		repo worklog.Repository
	)

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		Expect(db.Exec(`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			password_hash TEXT,
			role TEXT DEFAULT 'user',
			hourly_rate INTEGER,
			created_at DATETIME
		)`).Error).To(Succeed())
		Expect(db.Exec(`CREATE TABLE work_logs (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			work_date DATE NOT NULL,
			start_time TIME NOT NULL,
			end_time TIME NOT NULL,
			work_hours REAL,
			hourly_rate INTEGER,
			payment_amount INTEGER,
			memo TEXT,
			created_at DATETIME
		)`).Error).To(Succeed())
		Expect(db.Exec(`INSERT INTO users (id, name, email) VALUES ('alice-1', 'Alice', 'alice@example.com')`).Error).To(Succeed())

		repo = NewWorkLogRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	It("keeps the dates and times in wire shape on reads", func() {
		log := newLog("alice-1", "2026-08-03", "09:00", "12:00")
		Expect(repo.CreateExclusive(log)).To(Succeed())

		fetched, err := repo.GetByID(log.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(fetched.WorkDate).To(Equal("2026-08-03"))
		Expect(fetched.StartTime).To(Equal("09:00"))
		Expect(fetched.EndTime).To(Equal("12:00"))

		logs, err := repo.List(worklog.ListFilter{StartDate: "2026-08-01", EndDate: "2026-08-31"})
		Expect(err).NotTo(HaveOccurred())
		Expect(logs).To(HaveLen(1))
		Expect(logs[0].WorkDate).To(Equal("2026-08-03"))
		Expect(logs[0].StartTime).To(Equal("09:00"))
	})

	It("still enforces the overlap check over typed columns", func() {
		Expect(repo.CreateExclusive(newLog("alice-1", "2026-08-03", "10:00", "12:00"))).To(Succeed())
		Expect(repo.CreateExclusive(newLog("alice-1", "2026-08-03", "11:00", "13:00"))).To(MatchError(worklog.ErrOverlap))
		Expect(repo.CreateExclusive(newLog("alice-1", "2026-08-03", "12:00", "14:00"))).To(Succeed())
	})
})
