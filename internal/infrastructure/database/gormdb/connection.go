package gormdb

import (
	"fmt"
	"time"

	"medreminder/internal/domain/entity"
	"medreminder/internal/pkg/config"
	"medreminder/internal/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB opens the GORM connection for the configured driver and migrates the schema.
func NewDB(cfg config.DatabaseConfig, log logger.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.URL)
	case "sqlite", "":
		dialector = sqlite.Open(cfg.URL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	newLogger := gormlogger.New(
		log,
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true, // not-found is an expected outcome for the reminder job
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info(fmt.Sprintf("Successfully connected to %s database", cfg.Driver))

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	log.Info("Database schema migration completed.")
	return db, nil
}

// AutoMigrate automatically migrates the database schema for the defined entities.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&entity.User{},
		&entity.Appointment{},
		&entity.ReminderDelivery{},
	)
	if err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}
	return nil
}

// CloseDB closes the underlying connection pool.
func CloseDB(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying *sql.DB: %w", err)
	}
	return sqlDB.Close()
}
