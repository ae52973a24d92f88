package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	domainErrors "github.com/Darryldn9/direla-backend/internal/domain/errors"
	"github.com/Darryldn9/direla-backend/internal/retry"
	"github.com/Darryldn9/direla-backend/internal/usecase"
)

// MockRateSource is a mock implementation of exchange.RateSource
type MockRateSource struct {
	mock.Mock
}

func (m *MockRateSource) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func TestQuoteService_Quote(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	policy := retry.Policy{Attempts: 3, BaseDelay: time.Millisecond}

	t.Run("cross-currency quote converts and rounds", func(t *testing.T) {
		rates := new(MockRateSource)
		service := usecase.NewQuoteService(rates, 70*time.Second, policy, logger)

		rates.On("Rate", ctx, "ZAR", "USD").Return(decimal.RequireFromString("0.0553"), nil)

		quote, err := service.Quote(ctx, "ZAR", "USD", decimal.RequireFromString("350.00"))

		assert.NoError(t, err)
		assert.Equal(t, "ZAR", quote.FromCurrency)
		assert.Equal(t, "USD", quote.ToCurrency)
		// 350.00 * 0.0553 = 19.355 -> 19.36
		assert.True(t, quote.ToAmount.Equal(decimal.RequireFromString("19.36")),
			"got %s", quote.ToAmount)
		assert.True(t, quote.Rate.Equal(decimal.RequireFromString("0.0553")))
		rates.AssertExpectations(t)
	})

	t.Run("same currency skips the rate source", func(t *testing.T) {
		rates := new(MockRateSource)
		service := usecase.NewQuoteService(rates, 70*time.Second, policy, logger)

		quote, err := service.Quote(ctx, "ZAR", "ZAR", decimal.RequireFromString("100.00"))

		assert.NoError(t, err)
		assert.True(t, quote.Rate.Equal(decimal.NewFromInt(1)))
		assert.True(t, quote.ToAmount.Equal(decimal.RequireFromString("100.00")))
		rates.AssertNotCalled(t, "Rate")
	})

	t.Run("quote carries the configured expiry window", func(t *testing.T) {
		rates := new(MockRateSource)
		service := usecase.NewQuoteService(rates, 70*time.Second, policy, logger)

		rates.On("Rate", ctx, "USD", "EUR").Return(decimal.RequireFromString("0.92"), nil)

		before := time.Now()
		quote, err := service.Quote(ctx, "USD", "EUR", decimal.NewFromInt(10))

		assert.NoError(t, err)
		assert.False(t, quote.Expired(time.Now()))
		assert.True(t, quote.Expired(before.Add(71*time.Second)))
		window := quote.ExpiresAt.Sub(quote.IssuedAt)
		assert.Equal(t, 70*time.Second, window)
	})

	t.Run("rate source failure retried then surfaced as external error", func(t *testing.T) {
		rates := new(MockRateSource)
		service := usecase.NewQuoteService(rates, 70*time.Second, policy, logger)

		upstream := errors.New("503 from provider")
		rates.On("Rate", ctx, "ZAR", "USD").Return(decimal.Zero, upstream).Times(3)

		quote, err := service.Quote(ctx, "ZAR", "USD", decimal.NewFromInt(100))

		assert.Nil(t, quote)
		var extErr *domainErrors.ExternalServiceError
		assert.ErrorAs(t, err, &extErr)
		assert.Equal(t, "exchange", extErr.Service)
		assert.ErrorIs(t, err, upstream)
		rates.AssertExpectations(t)
	})

	t.Run("transient rate failure recovers within the budget", func(t *testing.T) {
		rates := new(MockRateSource)
		service := usecase.NewQuoteService(rates, 70*time.Second, policy, logger)

		rates.On("Rate", ctx, "ZAR", "USD").Return(decimal.Zero, errors.New("timeout")).Once()
		rates.On("Rate", ctx, "ZAR", "USD").Return(decimal.RequireFromString("0.055"), nil).Once()

		quote, err := service.Quote(ctx, "ZAR", "USD", decimal.NewFromInt(100))

		assert.NoError(t, err)
		assert.True(t, quote.Rate.Equal(decimal.RequireFromString("0.055")))
		rates.AssertExpectations(t)
	})
}
