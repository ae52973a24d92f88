package repository

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Darryldn9/direla-backend/internal/domain/model"
	"github.com/Darryldn9/direla-backend/internal/domain/repository"
)

// accountRepository implements the AccountRepository interface
type accountRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB, logger *zap.Logger) repository.AccountRepository {
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		r.logger.Error("failed to insert account",
			zap.String("hedera_account_id", account.HederaAccountID),
			zap.Error(err))
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

func (r *accountRepository) GetByHederaAccountID(ctx context.Context, hederaAccountID string) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).
		Where("hedera_account_id = ?", hederaAccountID).
		First(&account).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Error("failed to get account",
			zap.String("hedera_account_id", hederaAccountID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *accountRepository) UpdatePreferredCurrency(ctx context.Context, hederaAccountID, currency string) error {
	err := r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("hedera_account_id = ?", hederaAccountID).
		Updates(map[string]interface{}{
			"preferred_currency": currency,
			"updated_at":         time.Now(),
		}).Error
	if err != nil {
		r.logger.Error("failed to update preferred currency",
			zap.String("hedera_account_id", hederaAccountID),
			zap.String("currency", currency),
			zap.Error(err))
		return fmt.Errorf("failed to update preferred currency: %w", err)
	}
	return nil
}
