package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Darryldn9/direla-backend/internal/adapter/repository"
	domainRepo "github.com/Darryldn9/direla-backend/internal/domain/repository"
)

// Repositories holds all repository instances
type Repositories struct {
	Terms        domainRepo.TermsRepository
	Account      domainRepo.AccountRepository
	Notification domainRepo.NotificationRepository
	AuditLog     domainRepo.AuditLogRepository
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		Terms:        repository.NewTermsRepository(db, logger),
		Account:      repository.NewAccountRepository(db, logger),
		Notification: repository.NewNotificationRepository(db, logger),
		AuditLog:     repository.NewAuditLogRepository(db, logger),
	}
}
