package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/Darryldn9/direla-backend/internal/domain/model"
)

// NotificationRepository defines the interface for notification persistence
type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	GetByUser(ctx context.Context, userID string, limit, offset int) ([]model.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID, userID string) error
}
