package repository

import (
	"context"

	"github.com/Darryldn9/direla-backend/internal/domain/model"
)

// AccountRepository defines the interface for custodial account persistence
type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	GetByHederaAccountID(ctx context.Context, hederaAccountID string) (*model.Account, error)
	UpdatePreferredCurrency(ctx context.Context, hederaAccountID, currency string) error
}
