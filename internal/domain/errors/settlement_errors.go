package errors

import "fmt"

// ExternalServiceError is returned when a call to the ledger, the agreement
// contract or the rate source failed after the retry budget was exhausted.
type ExternalServiceError struct {
	Service string
	Op      string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Service, e.Op, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// NewExternalServiceError creates a new ExternalServiceError
func NewExternalServiceError(service, op string, err error) *ExternalServiceError {
	return &ExternalServiceError{Service: service, Op: op, Err: err}
}

// PartialSettlementError marks the one state this system cannot repair on its
// own: the payer's tokens were burned but the mint or the contract update did
// not land. It must surface to both parties for manual reconciliation and must
// never be silently retried without idempotency protection.
type PartialSettlementError struct {
	AgreementID string
	BurnTxID    string
	Step        string
	Err         error
}

func (e *PartialSettlementError) Error() string {
	return fmt.Sprintf("partial settlement on agreement %s: burn %s applied but %s failed: %v",
		e.AgreementID, e.BurnTxID, e.Step, e.Err)
}

func (e *PartialSettlementError) Unwrap() error {
	return e.Err
}

// NewPartialSettlementError creates a new PartialSettlementError
func NewPartialSettlementError(agreementID, burnTxID, step string, err error) *PartialSettlementError {
	return &PartialSettlementError{AgreementID: agreementID, BurnTxID: burnTxID, Step: step, Err: err}
}
