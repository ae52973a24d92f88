package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Darryldn9/direla-backend/internal/domain/contract"
	"github.com/Darryldn9/direla-backend/internal/domain/dto"
	domainErrors "github.com/Darryldn9/direla-backend/internal/domain/errors"
	"github.com/Darryldn9/direla-backend/internal/domain/model"
	"github.com/Darryldn9/direla-backend/internal/domain/repository"
	"github.com/Darryldn9/direla-backend/internal/usecase"
)

// MockTermsRepository is a mock implementation of repository.TermsRepository
type MockTermsRepository struct {
	mock.Mock
}

func (m *MockTermsRepository) Create(ctx context.Context, terms *model.BNPLTerms) error {
	args := m.Called(ctx, terms)
	return args.Error(0)
}

func (m *MockTermsRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.BNPLTerms, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BNPLTerms), args.Error(1)
}

func (m *MockTermsRepository) GetByAccount(ctx context.Context, accountID string, limit, offset int) ([]model.BNPLTerms, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BNPLTerms), args.Error(1)
}

func (m *MockTermsRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, expected, next model.TermsStatus, update repository.TermsUpdate) (bool, error) {
	args := m.Called(ctx, id, expected, next, update)
	return args.Bool(0), args.Error(1)
}

func (m *MockTermsRepository) SetAgreement(ctx context.Context, id uuid.UUID, agreementID, agreementTxID string) error {
	args := m.Called(ctx, id, agreementID, agreementTxID)
	return args.Error(0)
}

func (m *MockTermsRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockAuditLogRepository is a mock implementation of repository.AuditLogRepository
type MockAuditLogRepository struct {
	mock.Mock
}

func (m *MockAuditLogRepository) Append(ctx context.Context, entry *model.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// MockInstallmentPayer is a mock implementation of usecase.InstallmentPayer
type MockInstallmentPayer struct {
	mock.Mock
}

func (m *MockInstallmentPayer) PayInstallment(ctx context.Context, req dto.InstallmentRequest) (*dto.SettlementResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SettlementResult), args.Error(1)
}

type termsMocks struct {
	repo        *MockTermsRepository
	audit       *MockAuditLogRepository
	agreements  *MockAgreementContract
	settlements *MockInstallmentPayer
	notifier    *MockNotifier
}

func newTermsService(t *testing.T, validity time.Duration) (*usecase.TermsService, *termsMocks) {
	t.Helper()
	m := &termsMocks{
		repo:        new(MockTermsRepository),
		audit:       new(MockAuditLogRepository),
		agreements:  new(MockAgreementContract),
		settlements: new(MockInstallmentPayer),
		notifier:    new(MockNotifier),
	}
	service := usecase.NewTermsService(
		m.repo, m.audit, m.agreements, m.settlements, m.notifier,
		testTokens, testTreasury, validity, zap.NewNop(),
	)
	return service, m
}

func standardOffer() dto.TermsOffer {
	return dto.TermsOffer{
		PaymentReference:  "order-7781",
		BuyerAccountID:    payerAccount,
		MerchantAccountID: payeeAccount,
		Principal:         decimal.RequireFromString("1000.00"),
		Currency:          "ZAR",
		InstallmentCount:  3,
		InterestRate:      decimal.RequireFromString("5"),
	}
}

func pendingTerms(validity time.Duration) *model.BNPLTerms {
	offer := standardOffer()
	return model.NewBNPLTerms(
		offer.PaymentReference,
		offer.BuyerAccountID,
		offer.MerchantAccountID,
		offer.Principal,
		offer.Currency,
		offer.InstallmentCount,
		offer.InterestRate,
		validity,
	)
}

func TestTermsService_CreateTerms(t *testing.T) {
	ctx := context.Background()

	t.Run("derived amounts computed from the offer", func(t *testing.T) {
		service, m := newTermsService(t, 24*time.Hour)

		m.repo.On("Create", ctx, mock.AnythingOfType("*model.BNPLTerms")).Return(nil)
		m.audit.On("Append", ctx, mock.AnythingOfType("*model.AuditLog")).Return(nil)
		m.notifier.On("Create", ctx, payerAccount, model.NotificationTypeTermsCreated, mock.Anything, mock.Anything, mock.Anything).
			Return(&model.Notification{}, nil)

		terms, err := service.CreateTerms(ctx, standardOffer())

		require.NoError(t, err)
		assert.Equal(t, model.TermsStatusPending, terms.Status)
		// 1000.00 at 5% over 3 installments
		assert.True(t, terms.TotalInterest.Equal(decimal.RequireFromString("50.00")), "got %s", terms.TotalInterest)
		assert.True(t, terms.TotalWithInterest.Equal(decimal.RequireFromString("1050.00")), "got %s", terms.TotalWithInterest)
		assert.True(t, terms.InstallmentAmount.Equal(decimal.RequireFromString("350.00")), "got %s", terms.InstallmentAmount)
		assert.WithinDuration(t, time.Now().Add(24*time.Hour), terms.ExpiresAt, time.Minute)
		m.repo.AssertExpectations(t)
		m.audit.AssertExpectations(t)
		m.notifier.AssertExpectations(t)
	})

	t.Run("buyer is told about the new offer", func(t *testing.T) {
		service, m := newTermsService(t, 24*time.Hour)

		m.repo.On("Create", ctx, mock.Anything).Return(nil)
		m.audit.On("Append", ctx, mock.Anything).Return(nil)
		m.notifier.On("Create", ctx, payerAccount, model.NotificationTypeTermsCreated, "New BNPL offer", mock.Anything, mock.Anything).
			Return(&model.Notification{}, nil)

		_, err := service.CreateTerms(ctx, standardOffer())

		require.NoError(t, err)
		m.notifier.AssertExpectations(t)
	})

	t.Run("notification failure does not fail creation", func(t *testing.T) {
		service, m := newTermsService(t, 24*time.Hour)

		m.repo.On("Create", ctx, mock.Anything).Return(nil)
		m.audit.On("Append", ctx, mock.Anything).Return(nil)
		m.notifier.On("Create", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("redis down"))

		terms, err := service.CreateTerms(ctx, standardOffer())

		require.NoError(t, err)
		assert.NotNil(t, terms)
	})

	t.Run("installments sum back to the financed total", func(t *testing.T) {
		service, m := newTermsService(t, 24*time.Hour)

		m.repo.On("Create", ctx, mock.Anything).Return(nil)
		m.audit.On("Append", ctx, mock.Anything).Return(nil)
		m.notifier.On("Create", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(&model.Notification{}, nil)

		offer := standardOffer()
		offer.Principal = decimal.RequireFromString("999.99")
		offer.InstallmentCount = 7

		terms, err := service.CreateTerms(ctx, offer)

		require.NoError(t, err)
		total := terms.InstallmentAmount.Mul(decimal.NewFromInt(int64(terms.InstallmentCount)))
		diff := total.Sub(terms.TotalWithInterest).Abs()
		// Rounding may shift the sum by at most one cent per installment.
		assert.True(t, diff.LessThanOrEqual(decimal.RequireFromString("0.07")), "diff %s", diff)
	})

	t.Run("rejects non-positive principal", func(t *testing.T) {
		service, m := newTermsService(t, 24*time.Hour)

		offer := standardOffer()
		offer.Principal = decimal.Zero

		_, err := service.CreateTerms(ctx, offer)

		var vErr *domainErrors.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "principal", vErr.Field)
		m.repo.AssertNotCalled(t, "Create")
	})

	t.Run("rejects installment count below one", func(t *testing.T) {
		service, _ := newTermsService(t, 24*time.Hour)

		offer := standardOffer()
		offer.InstallmentCount = 0

		_, err := service.CreateTerms(ctx, offer)

		var vErr *domainErrors.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "installment_count", vErr.Field)
	})

	t.Run("rejects buyer equal to merchant", func(t *testing.T) {
		service, _ := newTermsService(t, 24*time.Hour)

		offer := standardOffer()
		offer.MerchantAccountID = offer.BuyerAccountID

		_, err := service.CreateTerms(ctx, offer)

		var vErr *domainErrors.ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("rejects currency without a configured token", func(t *testing.T) {
		service, _ := newTermsService(t, 24*time.Hour)

		offer := standardOffer()
		offer.Currency = "GBP"

		_, err := service.CreateTerms(ctx, offer)

		var vErr *domainErrors.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "currency", vErr.Field)
	})
}

func TestTermsService_AcceptTerms(t *testing.T) {
	ctx := context.Background()

	t.Run("acceptance creates the agreement and pays the first installment", func(t *testing.T) {
		service, m := newTermsService(t, 24*time.Hour)
		terms := pendingTerms(24 * time.Hour)

		m.repo.On("GetByID", ctx, terms.ID).Return(terms, nil)
		m.repo.On("UpdateStatusIf", ctx, terms.ID, model.TermsStatusPending, model.TermsStatusAccepted, mock.Anything).
			Return(true, nil)
		// 1000.00 -> 100000 base units, 5% -> 500 bps
		m.agreements.On("CreateAgreement", ctx, terms.BuyerAccountID, terms.MerchantAccountID,
			int64(100000), int64(500), 3, testTokens["ZAR"], testTreasury).
			Return(&contract.CreateAgreementResult{AgreementID: "agr-1", TxID: "create-tx"}, nil)
		m.repo.On("SetAgreement", ctx, terms.ID, "agr-1", "create-tx").Return(nil)
		m.audit.On("Append", ctx, mock.Anything).Return(nil)
		// Buyer accepts, so the merchant gets told.
		m.notifier.On("Create", ctx, payeeAccount, model.NotificationTypeTermsAccepted, mock.Anything, mock.Anything, mock.Anything).
			Return(&model.Notification{}, nil)
		m.settlements.On("PayInstallment", ctx, mock.MatchedBy(func(req dto.InstallmentRequest) bool {
			return req.AgreementRef == "agr-1" &&
				req.PayerAccountID == terms.BuyerAccountID &&
				req.PayeeAccountID == terms.MerchantAccountID &&
				req.Amount.Equal(decimal.RequireFromString("350.00")) &&
				req.SettlementCurrency == "ZAR"
		})).Return(&dto.SettlementResult{AgreementID: "agr-1"}, nil)

		result, err := service.AcceptTerms(ctx, terms.ID, terms.BuyerAccountID)

		require.NoError(t, err)
		assert.Equal(t, terms.ID, result.ID)
		m.repo.AssertExpectations(t)
		m.agreements.AssertExpectations(t)
		m.settlements.AssertExpectations(t)
		m.notifier.AssertExpectations(t)
	})

	t.Run("contract failure compensates the acceptance", func(t *testing.T) {
		service, m := newTermsService(t, 24*time.Hour)
		terms := pendingTerms(24 * time.Hour)

		m.repo.On("GetByID", ctx, terms.ID).Return(terms, nil)
		m.repo.On("UpdateStatusIf", ctx, terms.ID, model.TermsStatusPending, model.TermsStatusAccepted, mock.Anything).
			Return(true, nil)
		m.agreements.On("CreateAgreement", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("contract revert"))
		m.repo.On("UpdateStatusIf", ctx, terms.ID, model.TermsStatusAccepted, model.TermsStatusPending,
			repository.TermsUpdate{ClearAcceptedAt: true}).Return(true, nil)

		result, err := service.AcceptTerms(ctx, terms.ID, terms.BuyerAccountID)

		assert.Nil(t, result)
		var extErr *domainErrors.ExternalServiceError
		require.ErrorAs(t, err, &extErr)
		assert.Equal(t, "contract", extErr.Service)
		m.repo.AssertExpectations(t)
		m.repo.AssertNotCalled(t, "SetAgreement")
		m.settlements.AssertNotCalled(t, "PayInstallment")
		m.notifier.AssertNotCalled(t, "Create")
	})

	t.Run("losing the status race reports the winning status", func(t *testing.T) {
		service, m := newTermsService(t, 24*time.Hour)
		terms := pendingTerms(24 * time.Hour)

		m.repo.On("GetByID", ctx, terms.ID).Return(terms, nil).Once()
		m.repo.On("UpdateStatusIf", ctx, terms.ID, model.TermsStatusPending, model.TermsStatusAccepted, mock.Anything).
			Return(false, nil)

		rejected := *terms
		rejected.Status = model.TermsStatusRejected
		m.repo.On("GetByID", ctx, terms.ID).Return(&rejected, nil).Once()

		result, err := service.AcceptTerms(ctx, terms.ID, terms.BuyerAccountID)

		assert.Nil(t, result)
		var stateErr *domainErrors.InvalidStateError
		require.ErrorAs(t, err, &stateErr)
		assert.Equal(t, string(model.TermsStatusRejected), stateErr.Current)
		m.agreements.AssertNotCalled(t, "CreateAgreement")
	})

	t.Run("expired offer is refused and flipped on read", func(t *testing.T) {
		service, m := newTermsService(t, 24*time.Hour)
		terms := pendingTerms(24 * time.Hour)
		terms.ExpiresAt = time.Now().Add(-time.Minute)

		m.repo.On("GetByID", ctx, terms.ID).Return(terms, nil)
		m.repo.On("UpdateStatusIf", ctx, terms.ID, model.TermsStatusPending, model.TermsStatusExpired, repository.TermsUpdate{}).
			Return(true, nil)

		result, err := service.AcceptTerms(ctx, terms.ID, terms.BuyerAccountID)

		assert.Nil(t, result)
		var expErr *domainErrors.ExpiredError
		require.ErrorAs(t, err, &expErr)
		m.repo.AssertExpectations(t)
		m.agreements.AssertNotCalled(t, "CreateAgreement")
	})

	t.Run("non-party account is refused", func(t *testing.T) {
		service, m := newTermsService(t, 24*time.Hour)
		terms := pendingTerms(24 * time.Hour)

		m.repo.On("GetByID", ctx, terms.ID).Return(terms, nil)

		result, err := service.AcceptTerms(ctx, terms.ID, "0.0.9999")

		assert.Nil(t, result)
		var authErr *domainErrors.UnauthorizedError
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, "0.0.9999", authErr.AccountID)
		m.repo.AssertNotCalled(t, "UpdateStatusIf")
	})

	t.Run("missing terms record", func(t *testing.T) {
		service, m := newTermsService(t, 24*time.Hour)
		id := uuid.New()

		m.repo.On("GetByID", ctx, id).Return(nil, nil)

		result, err := service.AcceptTerms(ctx, id, payerAccount)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, domainErrors.ErrTermsNotFound)
	})

	t.Run("first installment failure does not undo the acceptance", func(t *testing.T) {
		service, m := newTermsService(t, 24*time.Hour)
		terms := pendingTerms(24 * time.Hour)

		m.repo.On("GetByID", ctx, terms.ID).Return(terms, nil)
		m.repo.On("UpdateStatusIf", ctx, terms.ID, model.TermsStatusPending, model.TermsStatusAccepted, mock.Anything).
			Return(true, nil)
		m.agreements.On("CreateAgreement", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(&contract.CreateAgreementResult{AgreementID: "agr-1", TxID: "create-tx"}, nil)
		m.repo.On("SetAgreement", ctx, terms.ID, "agr-1", "create-tx").Return(nil)
		m.audit.On("Append", ctx, mock.Anything).Return(nil)
		m.notifier.On("Create", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(&model.Notification{}, nil)
		m.settlements.On("PayInstallment", ctx, mock.Anything).
			Return(nil, errors.New("ledger unavailable"))

		result, err := service.AcceptTerms(ctx, terms.ID, terms.BuyerAccountID)

		require.NoError(t, err)
		assert.NotNil(t, result)
		m.repo.AssertNotCalled(t, "UpdateStatusIf", ctx, terms.ID, model.TermsStatusAccepted, model.TermsStatusPending, mock.Anything)
	})
}

func TestTermsService_RejectTerms(t *testing.T) {
	ctx := context.Background()

	t.Run("rejection stores the reason", func(t *testing.T) {
		service, m := newTermsService(t, 24*time.Hour)
		terms := pendingTerms(24 * time.Hour)

		m.repo.On("GetByID", ctx, terms.ID).Return(terms, nil)
		m.repo.On("UpdateStatusIf", ctx, terms.ID, model.TermsStatusPending, model.TermsStatusRejected,
			mock.MatchedBy(func(u repository.TermsUpdate) bool {
				return u.RejectedAt != nil && u.RejectionReason != nil && *u.RejectionReason == "changed my mind"
			})).Return(true, nil)
		m.audit.On("Append", ctx, mock.Anything).Return(nil)
		// Merchant rejects, so the buyer gets told.
		m.notifier.On("Create", ctx, payerAccount, model.NotificationTypeTermsRejected, mock.Anything, mock.Anything, mock.Anything).
			Return(&model.Notification{}, nil)

		result, err := service.RejectTerms(ctx, terms.ID, terms.MerchantAccountID, "changed my mind")

		require.NoError(t, err)
		assert.NotNil(t, result)
		m.repo.AssertExpectations(t)
		m.notifier.AssertExpectations(t)
	})

	t.Run("rejection by a stranger leaves the record pending", func(t *testing.T) {
		service, m := newTermsService(t, 24*time.Hour)
		terms := pendingTerms(24 * time.Hour)

		m.repo.On("GetByID", ctx, terms.ID).Return(terms, nil)

		result, err := service.RejectTerms(ctx, terms.ID, "0.0.9999", "not mine")

		assert.Nil(t, result)
		var authErr *domainErrors.UnauthorizedError
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, model.TermsStatusPending, terms.Status)
		m.repo.AssertNotCalled(t, "UpdateStatusIf")
	})

	t.Run("rejecting already-rejected terms fails", func(t *testing.T) {
		service, m := newTermsService(t, 24*time.Hour)
		terms := pendingTerms(24 * time.Hour)
		terms.Status = model.TermsStatusRejected

		m.repo.On("GetByID", ctx, terms.ID).Return(terms, nil)

		result, err := service.RejectTerms(ctx, terms.ID, terms.BuyerAccountID, "")

		assert.Nil(t, result)
		var stateErr *domainErrors.InvalidStateError
		require.ErrorAs(t, err, &stateErr)
		assert.Equal(t, string(model.TermsStatusRejected), stateErr.Current)
	})
}

func TestTermsService_Expiry(t *testing.T) {
	ctx := context.Background()

	t.Run("late timer on an accepted record is a no-op", func(t *testing.T) {
		service, m := newTermsService(t, 24*time.Hour)
		terms := pendingTerms(24 * time.Hour)
		terms.Status = model.TermsStatusAccepted
		terms.ExpiresAt = time.Now().Add(-time.Minute)

		m.repo.On("GetByID", ctx, terms.ID).Return(terms, nil)

		err := service.ExpireTerms(ctx, terms.ID)

		assert.NoError(t, err)
		m.repo.AssertNotCalled(t, "UpdateStatusIf")
	})

	t.Run("timer on a record still inside its window is a no-op", func(t *testing.T) {
		service, m := newTermsService(t, 24*time.Hour)
		terms := pendingTerms(24 * time.Hour)

		m.repo.On("GetByID", ctx, terms.ID).Return(terms, nil)

		err := service.ExpireTerms(ctx, terms.ID)

		assert.NoError(t, err)
		m.repo.AssertNotCalled(t, "UpdateStatusIf")
	})

	t.Run("due pending record is expired", func(t *testing.T) {
		service, m := newTermsService(t, 24*time.Hour)
		terms := pendingTerms(24 * time.Hour)
		terms.ExpiresAt = time.Now().Add(-time.Minute)

		m.repo.On("GetByID", ctx, terms.ID).Return(terms, nil)
		m.repo.On("UpdateStatusIf", ctx, terms.ID, model.TermsStatusPending, model.TermsStatusExpired, repository.TermsUpdate{}).
			Return(true, nil)
		m.audit.On("Append", ctx, mock.Anything).Return(nil)
		m.notifier.On("Create", ctx, payerAccount, model.NotificationTypeTermsExpired, mock.Anything, mock.Anything, mock.Anything).
			Return(&model.Notification{}, nil)
		m.notifier.On("Create", ctx, payeeAccount, model.NotificationTypeTermsExpired, mock.Anything, mock.Anything, mock.Anything).
			Return(&model.Notification{}, nil)

		err := service.ExpireTerms(ctx, terms.ID)

		assert.NoError(t, err)
		m.repo.AssertExpectations(t)
		m.notifier.AssertExpectations(t)
	})

	t.Run("sweep reports the number of expired records", func(t *testing.T) {
		service, m := newTermsService(t, 24*time.Hour)

		m.repo.On("ExpireDue", ctx, mock.AnythingOfType("time.Time")).Return(int64(4), nil)

		expired, err := service.CleanupExpiredTerms(ctx)

		assert.NoError(t, err)
		assert.Equal(t, int64(4), expired)
	})
}
