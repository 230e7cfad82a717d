// Package postgres opens the PostgreSQL connection used by the profile store and
// prepares its schema.
package postgres

import (
	"context"
	"fmt"
	"time"

	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"dispatch/internal/adapters/out/postgres/profilerepo"
)

// Open connects to dsn, checks the connection and migrates the schema.
//
// Example:
//
//	db, err := postgres.Open(ctx, "host=localhost user=dispatch dbname=dispatch sslmode=disable")
//	if err != nil {
//	    return err
//	}
//	store := profilerepo.NewGormProfileStore(db, logger)
func Open(ctx context.Context, dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the tables the adapters use.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&profilerepo.ProfileDTO{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Close releases the pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
