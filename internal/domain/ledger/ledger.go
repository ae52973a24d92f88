package ledger

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Signer is the key material authorizing a ledger transaction. Burn is signed
// by the paying account's key, mint and association by the token supply key
// (held by the platform treasury).
type Signer struct {
	AccountID  string
	PrivateKey string
}

// TransferResult carries the ledger transaction id of an applied operation
type TransferResult struct {
	TxID string
}

// TokenBalance is one fungible-token balance on an account
type TokenBalance struct {
	TokenID string          `json:"token_id"`
	Code    string          `json:"code"`
	Amount  decimal.Decimal `json:"amount"`
}

// TokenLedger defines the interface for fungible-token operations on the
// public ledger. Amounts are in base units (two-decimal fixed point for the
// fiat-pegged tokens). Associate is idempotent: an already-associated account
// is success, not failure.
type TokenLedger interface {
	Burn(ctx context.Context, tokenID string, amount int64, from Signer) (*TransferResult, error)
	Mint(ctx context.Context, tokenID string, amount int64, toAccountID string, supply Signer) (*TransferResult, error)
	Associate(ctx context.Context, accountID, tokenID string, signer Signer) error
	AccountBalances(ctx context.Context, accountID string) ([]TokenBalance, error)
}

// Error codes surfaced by ledger operations. Transient codes are retried by
// the retry executor; everything else propagates immediately.
const (
	CodeInvalidSignature  = "INVALID_SIGNATURE"
	CodeBusy              = "BUSY"
	CodeTimeout           = "TIMEOUT"
	CodeReceiptNotFound   = "RECEIPT_NOT_FOUND"
	CodeAlreadyAssociated = "TOKEN_ALREADY_ASSOCIATED_TO_ACCOUNT"
	CodeInsufficientFunds = "INSUFFICIENT_TOKEN_BALANCE"
	CodeInvalidAccount    = "INVALID_ACCOUNT_ID"
)

// Error is a typed ledger failure. Retry eligibility is a property of the
// code, not of the message text.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

var transientCodes = map[string]bool{
	CodeInvalidSignature: true,
	CodeBusy:             true,
	CodeTimeout:          true,
	CodeReceiptNotFound:  true,
}

// IsTransient reports whether the error is a ledger failure worth retrying
func IsTransient(err error) bool {
	var lerr *Error
	if errors.As(err, &lerr) {
		return transientCodes[lerr.Code]
	}
	return false
}

// IsAlreadyAssociated reports whether an associate call failed only because
// the account already holds the token.
func IsAlreadyAssociated(err error) bool {
	var lerr *Error
	return errors.As(err, &lerr) && lerr.Code == CodeAlreadyAssociated
}
