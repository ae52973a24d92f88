package dto

import "github.com/shopspring/decimal"

// PayInstallmentRequest is one installment payment as submitted over HTTP
type PayInstallmentRequest struct {
	AgreementRef       string `json:"agreement_ref" validate:"required"`
	PayerAccountID     string `json:"payer_account_id" validate:"required"`
	PayeeAccountID     string `json:"payee_account_id" validate:"required"`
	Amount             string `json:"amount" validate:"required"`
	SettlementCurrency string `json:"settlement_currency" validate:"required,len=3"`
	PayerCurrency      string `json:"payer_currency,omitempty" validate:"omitempty,len=3"`
}

// InstallmentRequest is the parsed form handed to the settlement orchestrator.
// AgreementRef may be an agreement id or the ledger transaction hash that
// created the agreement; the orchestrator resolves it. PayerCurrency is
// optional and defaults to the payer account's preferred currency.
type InstallmentRequest struct {
	AgreementRef       string
	PayerAccountID     string
	PayeeAccountID     string
	Amount             decimal.Decimal
	SettlementCurrency string
	PayerCurrency      string
}

// SettlementResult describes a fully applied installment
type SettlementResult struct {
	AgreementID        string          `json:"agreement_id"`
	ChargedAmount      decimal.Decimal `json:"charged_amount"`
	PayerCurrency      string          `json:"payer_currency"`
	SettlementAmount   decimal.Decimal `json:"settlement_amount"`
	SettlementCurrency string          `json:"settlement_currency"`
	QuoteRate          decimal.Decimal `json:"quote_rate,omitempty"`
	BurnTxID           string          `json:"burn_tx_id"`
	MintTxID           string          `json:"mint_tx_id"`
	ContractTxID       string          `json:"contract_tx_id"`
	InstallmentsPaid   int             `json:"installments_paid"`
	Completed          bool            `json:"completed"`
}
