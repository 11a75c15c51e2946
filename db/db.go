package db

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"mini-social/config"
	"mini-social/models"
	"mini-social/utils"
)

// Open connects to Postgres. Every statement inherits the configured statement_timeout.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database URL is not configured")
	}

	gormDB, err := gorm.Open(postgres.Open(withStatementTimeout(cfg.URL, cfg.StatementTimeout)), &gorm.Config{
		Logger: utils.GetGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to the database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	utils.LogSuccess("Database connection successful")
	return gormDB, nil
}

// Migrate creates the tables with their unique indexes and foreign keys.
func Migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
	); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	utils.LogSuccess("Database migrated")
	return nil
}

// Close releases the connection pool.
func Close(gormDB *gorm.DB) {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		utils.LogError(err, "Closing database connection")
	}
}

func withStatementTimeout(dsn string, timeout time.Duration) string {
	if timeout <= 0 || strings.Contains(dsn, "statement_timeout") {
		return dsn
	}
	ms := timeout.Milliseconds()
	if !strings.Contains(dsn, "://") {
		return fmt.Sprintf("%s statement_timeout=%d", dsn, ms)
	}
	if strings.Contains(dsn, "?") {
		return fmt.Sprintf("%s&statement_timeout=%d", dsn, ms)
	}
	return fmt.Sprintf("%s?statement_timeout=%d", dsn, ms)
}
