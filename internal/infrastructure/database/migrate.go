package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Darryldn9/direla-backend/internal/domain/model"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	if err := createExtensions(db); err != nil {
		logger.Error("Failed to create extensions", zap.Error(err))
		return err
	}

	if err := createCustomTypes(db); err != nil {
		logger.Error("Failed to create custom types", zap.Error(err))
		return err
	}

	err := db.AutoMigrate(
		&model.Account{},
		&model.BNPLTerms{},
		&model.Notification{},
		&model.AuditLog{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createCustomIndexes creates partial indexes GORM doesn't handle automatically
func createCustomIndexes(db *gorm.DB) error {
	// The expiry sweep only ever touches pending rows past their window
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_bnpl_terms_pending_expiry ON bnpl_terms (expires_at) WHERE status = 'PENDING'`).Error; err != nil {
		return err
	}

	// Unread-notification badge query
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_notifications_unread ON notifications (user_id) WHERE read = false`).Error; err != nil {
		return err
	}

	return nil
}

// createExtensions creates required PostgreSQL extensions
func createExtensions(db *gorm.DB) error {
	return db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error
}

// createCustomTypes creates custom PostgreSQL types
func createCustomTypes(db *gorm.DB) error {
	var exists bool
	db.Raw(`SELECT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'terms_status')`).Scan(&exists)
	if !exists {
		if err := db.Exec(`CREATE TYPE terms_status AS ENUM ('PENDING', 'ACCEPTED', 'REJECTED', 'EXPIRED', 'COMPLETED')`).Error; err != nil {
			return err
		}
	}
	return nil
}
