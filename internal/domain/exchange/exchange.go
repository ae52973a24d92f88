package exchange

import (
	"context"

	"github.com/shopspring/decimal"
)

// RateSource defines the interface to the external exchange-rate provider
type RateSource interface {
	// Rate returns how many units of the target currency one unit of the
	// source currency buys.
	Rate(ctx context.Context, from, to string) (decimal.Decimal, error)
}
