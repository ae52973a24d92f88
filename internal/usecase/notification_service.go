package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Darryldn9/direla-backend/internal/domain/model"
	"github.com/Darryldn9/direla-backend/internal/domain/repository"
)

// NotificationPublisher pushes a notification to the live delivery channel.
// Delivery is best-effort on top of the persisted record.
type NotificationPublisher interface {
	Publish(ctx context.Context, notification *model.Notification) error
}

// NotificationService records user-facing events and fans them out to the
// delivery channel.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	publisher        NotificationPublisher
	logger           *zap.Logger
}

// NewNotificationService creates a new notification service. The publisher is
// optional; without one notifications are persisted only.
func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	publisher NotificationPublisher,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		publisher:        publisher,
		logger:           logger,
	}
}

// Create persists a notification and publishes it. A publish failure is
// logged and swallowed; the stored record is the durable copy.
func (s *NotificationService) Create(
	ctx context.Context,
	userID string,
	notificationType model.NotificationType,
	title string,
	body string,
	metadata model.JSONB,
) (*model.Notification, error) {
	notification := &model.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      notificationType,
		Title:     title,
		Body:      body,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		s.logger.Error("failed to store notification",
			zap.String("user_id", userID),
			zap.String("type", string(notificationType)),
			zap.Error(err))
		return nil, fmt.Errorf("failed to store notification: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, notification); err != nil {
			s.logger.Warn("failed to publish notification",
				zap.String("notification_id", notification.ID.String()),
				zap.String("user_id", userID),
				zap.Error(err))
		}
	}

	return notification, nil
}

// GetByUser retrieves a page of a user's notifications
func (s *NotificationService) GetByUser(ctx context.Context, userID string, limit, offset int) ([]model.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	notifications, err := s.notificationRepo.GetByUser(ctx, userID, limit, offset)
	if err != nil {
		s.logger.Error("failed to get notifications",
			zap.String("user_id", userID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead marks one of the user's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, id uuid.UUID, userID string) error {
	if err := s.notificationRepo.MarkRead(ctx, id, userID); err != nil {
		s.logger.Error("failed to mark notification read",
			zap.String("notification_id", id.String()),
			zap.String("user_id", userID),
			zap.Error(err))
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}
