// Package messaging delivers notifications over Redis pub/sub channels.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/Darryldn9/direla-backend/internal/domain/model"
)

// RedisPublisher publishes notifications to a per-user channel and to the
// firehose channel. Implements usecase.NotificationPublisher.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

// NewRedisPublisher creates a new Redis notification publisher
func NewRedisPublisher(addr, password string, db int, channel string, logger *zap.Logger) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisPublisher{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

// Publish sends the notification to the user's channel and the firehose
func (p *RedisPublisher) Publish(ctx context.Context, notification *model.Notification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	userChannel := fmt.Sprintf("%s:%s", p.channel, notification.UserID)
	if err := p.client.Publish(ctx, userChannel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to user channel: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to firehose channel: %w", err)
	}

	p.logger.Debug("notification published",
		zap.String("notification_id", notification.ID.String()),
		zap.String("channel", userChannel))
	return nil
}

// Ping verifies the Redis connection
func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close closes the underlying Redis client
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
