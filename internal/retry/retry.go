// Package retry provides the exponential-backoff executor wrapped around
// every external call that can fail transiently.
package retry

import (
	"context"
	"time"
)

// Policy bounds a retried operation: at most Attempts tries, starting at
// BaseDelay and doubling between tries.
type Policy struct {
	Attempts  int
	BaseDelay time.Duration
}

// DefaultPolicy matches the retry budget used for ledger calls
var DefaultPolicy = Policy{Attempts: 3, BaseDelay: 500 * time.Millisecond}

// Do runs op until it succeeds, the attempt budget is exhausted, the context
// is cancelled, or the error is not retryable. Only errors the predicate
// accepts are retried; everything else propagates immediately. The last error
// is returned when attempts run out. A policy with fewer than one attempt
// still runs the operation once, so op always executes.
func Do[T any](ctx context.Context, policy Policy, retryable func(error) bool, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}

	delay := policy.BaseDelay
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		if !retryable(err) {
			return zero, err
		}
		lastErr = err
	}

	return zero, lastErr
}

// Always retries every error. Used where the upstream has no typed error
// classification, such as the exchange-rate source.
func Always(error) bool { return true }
