package contract

import (
	"context"

	"github.com/Darryldn9/direla-backend/internal/domain/ledger"
)

// Agreement is the on-chain record of a BNPL contract. The contract holds the
// source of truth for payment progress; the orchestrator validates against it
// before and after moving token balances.
type Agreement struct {
	ID               string `json:"agreement_id"`
	ConsumerAccount  string `json:"consumer_account"`
	MerchantAccount  string `json:"merchant_account"`
	Principal        int64  `json:"principal"`
	InstallmentCount int    `json:"installment_count"`
	InstallmentsPaid int    `json:"installments_paid"`
	Completed        bool   `json:"completed"`
	TokenID          string `json:"token_id"`
}

// CreateAgreementResult carries the new agreement id and the transaction that
// instantiated it.
type CreateAgreementResult struct {
	AgreementID string `json:"agreement_id"`
	TxID        string `json:"tx_id"`
}

// AgreementContract defines the interface to the BNPL smart contract.
// RecordPayment is authorization-scoped to the treasury signer; neither
// counterparty can advance an agreement.
type AgreementContract interface {
	CreateAgreement(ctx context.Context, consumerAccount, merchantAccount string, principal int64, rateBps int64, installments int, tokenID string, signer ledger.Signer) (*CreateAgreementResult, error)
	GetAgreement(ctx context.Context, agreementID string) (*Agreement, error)
	RecordPayment(ctx context.Context, agreementID, payerAccount, payeeAccount string, amount int64, tokenID string, treasury ledger.Signer) (*ledger.TransferResult, error)

	// ResolveAgreementIDFromTxHash maps a ledger transaction hash to the
	// agreement it created. Resolution is idempotent: the same hash always
	// yields the same agreement id.
	ResolveAgreementIDFromTxHash(ctx context.Context, txHash string) (string, error)
}
