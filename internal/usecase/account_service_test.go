package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domainErrors "github.com/Darryldn9/direla-backend/internal/domain/errors"
	"github.com/Darryldn9/direla-backend/internal/domain/model"
	"github.com/Darryldn9/direla-backend/internal/infrastructure/crypto"
	"github.com/Darryldn9/direla-backend/internal/usecase"
)

// MockAccountRepository is a mock implementation of repository.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, account *model.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByHederaAccountID(ctx context.Context, hederaAccountID string) (*model.Account, error) {
	args := m.Called(ctx, hederaAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdatePreferredCurrency(ctx context.Context, hederaAccountID, currency string) error {
	args := m.Called(ctx, hederaAccountID, currency)
	return args.Error(0)
}

const testCipherKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestAccountService_RegisterAndSigner(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	keyCipher, err := crypto.NewAESKeyCipher(testCipherKey)
	require.NoError(t, err)

	t.Run("registered key round-trips through the signer", func(t *testing.T) {
		repo := new(MockAccountRepository)
		tokens := new(MockTokenLedger)
		service := usecase.NewAccountService(repo, tokens, keyCipher, logger)

		var stored *model.Account
		repo.On("Create", ctx, mock.AnythingOfType("*model.Account")).
			Run(func(args mock.Arguments) {
				stored = args.Get(1).(*model.Account)
			}).Return(nil)

		privateKey := "302e020100300506032b657004220420cafe"
		account, err := service.Register(ctx, uuid.New(), "0.0.3001", "pub-key", privateKey, "ZAR")

		require.NoError(t, err)
		assert.NotEqual(t, privateKey, account.EncryptedPrivateKey, "key must not be stored in the clear")
		assert.NotEmpty(t, account.EncryptionIV)

		repo.On("GetByHederaAccountID", ctx, "0.0.3001").Return(stored, nil)

		signer, err := service.Signer(ctx, "0.0.3001")
		require.NoError(t, err)
		assert.Equal(t, "0.0.3001", signer.AccountID)
		assert.Equal(t, privateKey, signer.PrivateKey)
	})

	t.Run("signer for an unknown account", func(t *testing.T) {
		repo := new(MockAccountRepository)
		service := usecase.NewAccountService(repo, new(MockTokenLedger), keyCipher, logger)

		repo.On("GetByHederaAccountID", ctx, "0.0.404").Return(nil, nil)

		_, err := service.Signer(ctx, "0.0.404")
		assert.ErrorIs(t, err, domainErrors.ErrAccountNotFound)
	})

	t.Run("preferred currency from the stored account", func(t *testing.T) {
		repo := new(MockAccountRepository)
		service := usecase.NewAccountService(repo, new(MockTokenLedger), keyCipher, logger)

		repo.On("GetByHederaAccountID", ctx, "0.0.3001").
			Return(&model.Account{HederaAccountID: "0.0.3001", PreferredCurrency: "USD"}, nil)

		currency, err := service.PreferredCurrency(ctx, "0.0.3001")
		require.NoError(t, err)
		assert.Equal(t, "USD", currency)
	})

	t.Run("setting preferred currency on a missing account fails", func(t *testing.T) {
		repo := new(MockAccountRepository)
		service := usecase.NewAccountService(repo, new(MockTokenLedger), keyCipher, logger)

		repo.On("GetByHederaAccountID", ctx, "0.0.404").Return(nil, nil)

		err := service.SetPreferredCurrency(ctx, "0.0.404", "EUR")
		assert.ErrorIs(t, err, domainErrors.ErrAccountNotFound)
		repo.AssertNotCalled(t, "UpdatePreferredCurrency")
	})
}
