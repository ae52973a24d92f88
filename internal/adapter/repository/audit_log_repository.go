package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Darryldn9/direla-backend/internal/domain/model"
	"github.com/Darryldn9/direla-backend/internal/domain/repository"
)

// auditLogRepository implements the AuditLogRepository interface
type auditLogRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *gorm.DB, logger *zap.Logger) repository.AuditLogRepository {
	return &auditLogRepository{
		db:     db,
		logger: logger,
	}
}

func (r *auditLogRepository) Append(ctx context.Context, entry *model.AuditLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		r.logger.Error("failed to append audit log entry",
			zap.String("action", entry.Action),
			zap.Error(err))
		return fmt.Errorf("failed to append audit log entry: %w", err)
	}
	return nil
}
