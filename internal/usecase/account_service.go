package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/Darryldn9/direla-backend/internal/domain/errors"
	"github.com/Darryldn9/direla-backend/internal/domain/ledger"
	"github.com/Darryldn9/direla-backend/internal/domain/model"
	"github.com/Darryldn9/direla-backend/internal/domain/repository"
	"github.com/Darryldn9/direla-backend/internal/infrastructure/crypto"
)

// AccountService manages custodial ledger accounts. Private keys are stored
// encrypted and only decrypted to build a transaction signer.
type AccountService struct {
	accountRepo repository.AccountRepository
	tokenLedger ledger.TokenLedger
	keyCipher   crypto.KeyCipher
	logger      *zap.Logger
}

// NewAccountService creates a new account service
func NewAccountService(
	accountRepo repository.AccountRepository,
	tokenLedger ledger.TokenLedger,
	keyCipher crypto.KeyCipher,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		tokenLedger: tokenLedger,
		keyCipher:   keyCipher,
		logger:      logger,
	}
}

// Register stores a custodial account with its private key encrypted at rest
func (s *AccountService) Register(
	ctx context.Context,
	userID uuid.UUID,
	hederaAccountID string,
	publicKey string,
	privateKey string,
	preferredCurrency string,
) (*model.Account, error) {
	encryptedKey, iv, err := s.keyCipher.Encrypt(privateKey)
	if err != nil {
		s.logger.Error("failed to encrypt account key",
			zap.String("hedera_account_id", hederaAccountID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to encrypt account key: %w", err)
	}

	account := &model.Account{
		UserID:              userID,
		HederaAccountID:     hederaAccountID,
		PublicKey:           publicKey,
		EncryptedPrivateKey: encryptedKey,
		EncryptionIV:        iv,
		PreferredCurrency:   preferredCurrency,
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		s.logger.Error("failed to save account",
			zap.String("hedera_account_id", hederaAccountID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.logger.Info("custodial account registered",
		zap.String("hedera_account_id", hederaAccountID),
		zap.String("preferred_currency", preferredCurrency))

	return account, nil
}

// SetPreferredCurrency updates the currency the account is charged in by default
func (s *AccountService) SetPreferredCurrency(ctx context.Context, hederaAccountID, currency string) error {
	account, err := s.accountRepo.GetByHederaAccountID(ctx, hederaAccountID)
	if err != nil {
		return err
	}
	if account == nil {
		return domainErrors.ErrAccountNotFound
	}
	return s.accountRepo.UpdatePreferredCurrency(ctx, hederaAccountID, currency)
}

// PreferredCurrency returns the stored preferred currency for an account
func (s *AccountService) PreferredCurrency(ctx context.Context, hederaAccountID string) (string, error) {
	account, err := s.accountRepo.GetByHederaAccountID(ctx, hederaAccountID)
	if err != nil {
		return "", err
	}
	if account == nil {
		return "", domainErrors.ErrAccountNotFound
	}
	return account.PreferredCurrency, nil
}

// Signer decrypts the stored private key and returns a transaction signer for
// the account. The plaintext key never leaves the returned value.
func (s *AccountService) Signer(ctx context.Context, hederaAccountID string) (ledger.Signer, error) {
	account, err := s.accountRepo.GetByHederaAccountID(ctx, hederaAccountID)
	if err != nil {
		return ledger.Signer{}, err
	}
	if account == nil {
		return ledger.Signer{}, domainErrors.ErrAccountNotFound
	}

	privateKey, err := s.keyCipher.Decrypt(account.EncryptedPrivateKey, account.EncryptionIV)
	if err != nil {
		s.logger.Error("failed to decrypt account key",
			zap.String("hedera_account_id", hederaAccountID),
			zap.Error(err))
		return ledger.Signer{}, fmt.Errorf("failed to decrypt account key: %w", err)
	}

	return ledger.Signer{AccountID: hederaAccountID, PrivateKey: privateKey}, nil
}

// Balances returns the account's token balances from the ledger
func (s *AccountService) Balances(ctx context.Context, hederaAccountID string) ([]ledger.TokenBalance, error) {
	balances, err := s.tokenLedger.AccountBalances(ctx, hederaAccountID)
	if err != nil {
		s.logger.Error("failed to get account balances",
			zap.String("hedera_account_id", hederaAccountID),
			zap.Error(err))
		return nil, domainErrors.NewExternalServiceError("ledger", "account balances", err)
	}
	return balances, nil
}
