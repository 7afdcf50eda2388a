package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/config"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	slog.Info("database connected", "host", cfg.DBHost, "db", cfg.DBName)
	return nil
}

// legacySubjectIndex duplicated the leading column of idx_progress_subject_technique.
const legacySubjectIndex = "idx_progress_records_subject"

// Migrate runs AutoMigrate for every model the service owns.
// Techniques must come before progress records for the foreign key.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Technique{},
		&models.UserProfile{},
		&models.ProgressRecord{},
		&models.SystemLog{},
	); err != nil {
		return err
	}

	m := db.Migrator()
	if m.HasIndex(&models.ProgressRecord{}, legacySubjectIndex) {
		if err := m.DropIndex(&models.ProgressRecord{}, legacySubjectIndex); err != nil {
			return fmt.Errorf("failed to drop %s: %w", legacySubjectIndex, err)
		}
	}
	return nil
}

func Ping() error {
	if DB == nil {
		return fmt.Errorf("database not connected")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
