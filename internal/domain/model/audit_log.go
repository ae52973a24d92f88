package model

import (
	"time"

	"github.com/google/uuid"
)

// Audit actions recorded for the BNPL terms lifecycle
const (
	AuditActionTermsCreated  = "TERMS_CREATED"
	AuditActionTermsAccepted = "TERMS_ACCEPTED"
	AuditActionTermsRejected = "TERMS_REJECTED"
	AuditActionTermsExpired  = "TERMS_EXPIRED"
)

// AuditLog represents an immutable audit log entry. Writes are best-effort:
// a failed append never fails the business operation that produced it.
type AuditLog struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Action    string     `gorm:"not null;size:100;index:idx_audit_log_action_created" json:"action"`
	TermsID   *uuid.UUID `gorm:"type:uuid;index" json:"terms_id,omitempty"`
	AccountID *string    `gorm:"size:100" json:"account_id,omitempty"`
	Details   JSONB      `gorm:"type:jsonb;default:'{}'" json:"details"`
	CreatedAt time.Time  `gorm:"default:now();index:idx_audit_log_action_created" json:"created_at"`
}

// TableName specifies the table name for GORM
func (AuditLog) TableName() string {
	return "audit_log"
}
