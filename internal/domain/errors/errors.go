package errors

import "errors"

var (
	// ErrTermsNotFound indicates that the requested terms record does not exist
	ErrTermsNotFound = errors.New("bnpl terms not found")

	// ErrAccountNotFound indicates that the referenced account does not exist
	ErrAccountNotFound = errors.New("account not found")

	// ErrAgreementNotFound indicates that no on-chain agreement matches the identifier
	ErrAgreementNotFound = errors.New("agreement not found")

	// ErrTokenNotConfigured indicates that no token is configured for a currency code
	ErrTokenNotConfigured = errors.New("no token configured for currency")
)
