package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	domainErrors "github.com/Darryldn9/direla-backend/internal/domain/errors"
	"github.com/Darryldn9/direla-backend/internal/domain/exchange"
	"github.com/Darryldn9/direla-backend/internal/domain/model"
	"github.com/Darryldn9/direla-backend/internal/retry"
)

// QuoteService produces time-boxed cross-currency quotes from an external
// rate source. Quotes are ephemeral: generated per request, used once within
// their window and discarded.
type QuoteService struct {
	rates       exchange.RateSource
	ttl         time.Duration
	retryPolicy retry.Policy
	logger      *zap.Logger
}

// NewQuoteService creates a new quote service
func NewQuoteService(rates exchange.RateSource, ttl time.Duration, retryPolicy retry.Policy, logger *zap.Logger) *QuoteService {
	return &QuoteService{
		rates:       rates,
		ttl:         ttl,
		retryPolicy: retryPolicy,
		logger:      logger,
	}
}

// Quote converts amount from one currency to another at the current rate.
// The converted amount is rounded to two decimal places and the quote expires
// after the configured window.
func (s *QuoteService) Quote(ctx context.Context, from, to string, amount decimal.Decimal) (*model.CurrencyQuote, error) {
	rate := decimal.NewFromInt(1)
	if from != to {
		fetched, err := retry.Do(ctx, s.retryPolicy, retry.Always, func(ctx context.Context) (decimal.Decimal, error) {
			return s.rates.Rate(ctx, from, to)
		})
		if err != nil {
			s.logger.Error("failed to fetch exchange rate",
				zap.String("from", from),
				zap.String("to", to),
				zap.Error(err))
			return nil, domainErrors.NewExternalServiceError("exchange", "rate", err)
		}
		rate = fetched
	}

	now := time.Now()
	quote := &model.CurrencyQuote{
		ID:           uuid.New(),
		FromCurrency: from,
		ToCurrency:   to,
		FromAmount:   amount,
		ToAmount:     amount.Mul(rate).Round(2),
		Rate:         rate,
		IssuedAt:     now,
		ExpiresAt:    now.Add(s.ttl),
	}

	s.logger.Debug("currency quote issued",
		zap.String("quote_id", quote.ID.String()),
		zap.String("from", from),
		zap.String("to", to),
		zap.String("rate", rate.String()),
		zap.Time("expires_at", quote.ExpiresAt))

	return quote, nil
}
