package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Darryldn9/direla-backend/internal/domain/model"
	"github.com/Darryldn9/direla-backend/internal/domain/repository"
)

// notificationRepository implements the NotificationRepository interface
type notificationRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB, logger *zap.Logger) repository.NotificationRepository {
	return &notificationRepository{
		db:     db,
		logger: logger,
	}
}

func (r *notificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		r.logger.Error("failed to insert notification",
			zap.String("user_id", notification.UserID),
			zap.Error(err))
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) GetByUser(ctx context.Context, userID string, limit, offset int) ([]model.Notification, error) {
	var notifications []model.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	if err != nil {
		r.logger.Error("failed to get notifications",
			zap.String("user_id", userID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}
	return notifications, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID, userID string) error {
	err := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true).Error
	if err != nil {
		r.logger.Error("failed to mark notification read",
			zap.String("notification_id", id.String()),
			zap.Error(err))
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}
