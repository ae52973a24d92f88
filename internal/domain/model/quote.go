package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CurrencyQuote is an ephemeral cross-currency conversion. It is generated per
// request, used once and discarded; it is never persisted. The short expiry
// window guarantees settlement always charges at a fresh rate.
type CurrencyQuote struct {
	ID           uuid.UUID       `json:"quote_id"`
	FromCurrency string          `json:"from_currency"`
	ToCurrency   string          `json:"to_currency"`
	FromAmount   decimal.Decimal `json:"from_amount"`
	ToAmount     decimal.Decimal `json:"to_amount"`
	Rate         decimal.Decimal `json:"rate"`
	IssuedAt     time.Time       `json:"issued_at"`
	ExpiresAt    time.Time       `json:"expires_at"`
}

// Expired reports whether the quote window has closed. An expired quote must
// never be applied to a settlement.
func (q *CurrencyQuote) Expired(now time.Time) bool {
	return now.After(q.ExpiresAt)
}
