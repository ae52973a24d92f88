package errors

import (
	"fmt"
	"time"
)

// ValidationError is returned for malformed input. It is never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// InvalidStateError is returned when a terms record is not in the status a
// transition requires. Transitions are one-shot, so a concurrent accept loses
// with this error rather than overwriting.
type InvalidStateError struct {
	TermsID  string
	Current  string
	Expected string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("terms %s is %s, expected %s", e.TermsID, e.Current, e.Expected)
}

// NewInvalidStateError creates a new InvalidStateError
func NewInvalidStateError(termsID, current, expected string) *InvalidStateError {
	return &InvalidStateError{TermsID: termsID, Current: current, Expected: expected}
}

// UnauthorizedError is returned when the acting account is neither the buyer
// nor the merchant on the terms record.
type UnauthorizedError struct {
	TermsID   string
	AccountID string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("account %s is not a party to terms %s", e.AccountID, e.TermsID)
}

// NewUnauthorizedError creates a new UnauthorizedError
func NewUnauthorizedError(termsID, accountID string) *UnauthorizedError {
	return &UnauthorizedError{TermsID: termsID, AccountID: accountID}
}

// ExpiredError is returned when the offer window of a terms record has passed.
type ExpiredError struct {
	TermsID   string
	ExpiredAt time.Time
}

func (e *ExpiredError) Error() string {
	return fmt.Sprintf("terms %s expired at %s", e.TermsID, e.ExpiredAt.Format(time.RFC3339))
}

// NewExpiredError creates a new ExpiredError
func NewExpiredError(termsID string, expiredAt time.Time) *ExpiredError {
	return &ExpiredError{TermsID: termsID, ExpiredAt: expiredAt}
}
