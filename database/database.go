package database

import (
	"fmt"
	"log"
	"os"

	"worksafe/config"
	"worksafe/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb establishes a connection to PostgreSQL
func ConnectDb() {
	cfg := config.AppConfig
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
	)

	db, err := Open(postgres.Open(dsn))
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		os.Exit(2)
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)   // Maximum open connections
	sqlDB.SetMaxIdleConns(5)    // Maximum idle connections
	sqlDB.SetConnMaxLifetime(0) // No timeout

	if err := SeedAdmin(db, cfg.AdminUsername, cfg.AdminPassword, cfg.SaltRound); err != nil {
		log.Printf("Failed to seed admin user: %v", err)
	}

	// Save database instance globally
	Database = DbInstance{Db: db}
}

// Open connects through the given dialector and migrates the schema.
// Tests pass an in-memory sqlite dialector.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return db, nil
}

// runMigrations performs database migrations
func runMigrations(db *gorm.DB) error {
	log.Println("Running Migrations...")

	err := db.AutoMigrate(
		&models.Entity{},
		&models.Subject{},
		&models.Course{},
		&models.CertificateRecord{},
		&models.StaffUser{},
		&models.LoginTracking{},
	)
	if err != nil {
		return err
	}

	log.Println("Migrations completed successfully.")
	return nil
}

// SeedAdmin creates the first admin account when the staff table is empty
func SeedAdmin(db *gorm.DB, username, password string, saltRound int) error {
	if username == "" || password == "" {
		return nil
	}

	var count int64
	if err := db.Model(&models.StaffUser{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), saltRound)
	if err != nil {
		return err
	}
	admin := models.StaffUser{Username: username, PasswordHash: string(hash), Role: models.RoleAdmin}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Printf("Seeded admin user %q", username)
	return nil
}
