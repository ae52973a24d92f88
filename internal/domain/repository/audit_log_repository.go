package repository

import (
	"context"

	"github.com/Darryldn9/direla-backend/internal/domain/model"
)

// AuditLogRepository defines the interface for the append-only audit log
type AuditLogRepository interface {
	Append(ctx context.Context, entry *model.AuditLog) error
}
