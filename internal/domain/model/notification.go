package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType represents the kind of user-facing event
type NotificationType string

const (
	NotificationTypePaymentPosted NotificationType = "payment_posted"
	NotificationTypePaymentFailed NotificationType = "payment_failed"
	NotificationTypeTermsCreated  NotificationType = "terms_created"
	NotificationTypeTermsAccepted NotificationType = "terms_accepted"
	NotificationTypeTermsRejected NotificationType = "terms_rejected"
	NotificationTypeTermsExpired  NotificationType = "terms_expired"
)

// Notification represents a user-facing event record
type Notification struct {
	ID        uuid.UUID        `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string           `gorm:"size:100;not null;index:idx_notifications_user_created" json:"user_id"`
	Type      NotificationType `gorm:"size:50;not null" json:"type"`
	Title     string           `gorm:"size:200;not null" json:"title"`
	Body      string           `gorm:"not null" json:"body"`
	Metadata  JSONB            `gorm:"type:jsonb;default:'{}'" json:"metadata"`
	Read      bool             `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time        `gorm:"default:now();index:idx_notifications_user_created" json:"created_at"`
}

// TableName specifies the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}
