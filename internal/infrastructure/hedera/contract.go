package hedera

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/Darryldn9/direla-backend/internal/domain/contract"
	"github.com/Darryldn9/direla-backend/internal/domain/ledger"
)

type createAgreementRequest struct {
	ConsumerAccount  string `json:"consumer_account"`
	MerchantAccount  string `json:"merchant_account"`
	Principal        int64  `json:"principal"`
	RateBps          int64  `json:"rate_bps"`
	InstallmentCount int    `json:"installment_count"`
	TokenID          string `json:"token_id"`
	SignerAccountID  string `json:"signer_account_id"`
	SignerPrivateKey string `json:"signer_private_key"`
}

// CreateAgreement instantiates a BNPL agreement on the contract
func (c *BridgeClient) CreateAgreement(ctx context.Context, consumerAccount, merchantAccount string, principal int64, rateBps int64, installments int, tokenID string, signer ledger.Signer) (*contract.CreateAgreementResult, error) {
	var resp contract.CreateAgreementResult
	err := c.do(ctx, http.MethodPost, "/contract/bnpl/agreements", createAgreementRequest{
		ConsumerAccount:  consumerAccount,
		MerchantAccount:  merchantAccount,
		Principal:        principal,
		RateBps:          rateBps,
		InstallmentCount: installments,
		TokenID:          tokenID,
		SignerAccountID:  signer.AccountID,
		SignerPrivateKey: signer.PrivateKey,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.logger.Info("bnpl agreement created on contract",
		zap.String("agreement_id", resp.AgreementID),
		zap.String("tx_id", resp.TxID),
		zap.String("consumer", consumerAccount),
		zap.String("merchant", merchantAccount))
	return &resp, nil
}

// GetAgreement reads the agreement state from the contract
func (c *BridgeClient) GetAgreement(ctx context.Context, agreementID string) (*contract.Agreement, error) {
	var agreement contract.Agreement
	path := fmt.Sprintf("/contract/bnpl/agreements/%s", url.PathEscape(agreementID))
	if err := c.do(ctx, http.MethodGet, path, nil, &agreement); err != nil {
		return nil, err
	}
	return &agreement, nil
}

type recordPaymentRequest struct {
	PayerAccount     string `json:"payer_account"`
	PayeeAccount     string `json:"payee_account"`
	Amount           int64  `json:"amount"`
	TokenID          string `json:"token_id"`
	SignerAccountID  string `json:"signer_account_id"`
	SignerPrivateKey string `json:"signer_private_key"`
}

// RecordPayment advances installments-paid on the agreement. The contract
// only accepts the treasury signer for this call.
func (c *BridgeClient) RecordPayment(ctx context.Context, agreementID, payerAccount, payeeAccount string, amount int64, tokenID string, treasury ledger.Signer) (*ledger.TransferResult, error) {
	var resp transferResponse
	path := fmt.Sprintf("/contract/bnpl/agreements/%s/payments", url.PathEscape(agreementID))
	err := c.do(ctx, http.MethodPost, path, recordPaymentRequest{
		PayerAccount:     payerAccount,
		PayeeAccount:     payeeAccount,
		Amount:           amount,
		TokenID:          tokenID,
		SignerAccountID:  treasury.AccountID,
		SignerPrivateKey: treasury.PrivateKey,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.logger.Info("agreement payment recorded",
		zap.String("agreement_id", agreementID),
		zap.String("tx_id", resp.TxID))
	return &ledger.TransferResult{TxID: resp.TxID}, nil
}

// ResolveAgreementIDFromTxHash maps the transaction that created an agreement
// back to its agreement id. The bridge derives this from the transaction
// record, so the same hash always resolves to the same id.
func (c *BridgeClient) ResolveAgreementIDFromTxHash(ctx context.Context, txHash string) (string, error) {
	var resp struct {
		AgreementID string `json:"agreement_id"`
	}
	path := fmt.Sprintf("/contract/bnpl/agreements/resolve?tx=%s", url.QueryEscape(txHash))
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return "", err
	}
	return resp.AgreementID, nil
}
