package cmd

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample accounts for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open gorm connection: %v", err)
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), cfg.Security.BCryptCost)

		seedUser(db, "admin@example.com", "Admin", "admin", string(hash), nil)
		rate := int64(1200)
		seedUser(db, "eunbi@example.com", "Eunbi Kang", "user", string(hash), &rate)

		fmt.Println("Seeding complete")
	},
}

func seedUser(db *gorm.DB, email, name, role, passwordHash string, hourlyRate *int64) {
	var exists int
	row := db.Raw("SELECT 1 FROM users WHERE email = ?", email).Row()
	if err := row.Scan(&exists); err == nil {
		fmt.Printf("user %s already exists, skipping\n", email)
		return
	}

	err := db.Exec(
		"INSERT INTO users (id, name, email, password_hash, role, hourly_rate, created_at) VALUES (?, ?, ?, ?, ?, ?, now())",
		uuid.NewString(), name, email, passwordHash, role, hourlyRate,
	).Error
	if err != nil {
		log.Fatalf("failed to insert user %s: %v", email, err)
	}
	fmt.Printf("Seeded %s user: %s\n", role, email)
}
