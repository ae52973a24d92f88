package hedera

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/Darryldn9/direla-backend/internal/domain/ledger"
)

type transferResponse struct {
	TxID string `json:"tx_id"`
}

type tokenTransferRequest struct {
	TokenID          string `json:"token_id"`
	Amount           int64  `json:"amount"`
	AccountID        string `json:"account_id"`
	SignerAccountID  string `json:"signer_account_id"`
	SignerPrivateKey string `json:"signer_private_key"`
}

// Burn destroys token units at the payer's account, signed by the payer's key
func (c *BridgeClient) Burn(ctx context.Context, tokenID string, amount int64, from ledger.Signer) (*ledger.TransferResult, error) {
	var resp transferResponse
	err := c.do(ctx, http.MethodPost, "/tokens/burn", tokenTransferRequest{
		TokenID:          tokenID,
		Amount:           amount,
		AccountID:        from.AccountID,
		SignerAccountID:  from.AccountID,
		SignerPrivateKey: from.PrivateKey,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.logger.Info("token burn submitted",
		zap.String("token_id", tokenID),
		zap.Int64("amount", amount),
		zap.String("account_id", from.AccountID),
		zap.String("tx_id", resp.TxID))
	return &ledger.TransferResult{TxID: resp.TxID}, nil
}

// Mint creates token units into the target account, signed by the supply key
func (c *BridgeClient) Mint(ctx context.Context, tokenID string, amount int64, toAccountID string, supply ledger.Signer) (*ledger.TransferResult, error) {
	var resp transferResponse
	err := c.do(ctx, http.MethodPost, "/tokens/mint", tokenTransferRequest{
		TokenID:          tokenID,
		Amount:           amount,
		AccountID:        toAccountID,
		SignerAccountID:  supply.AccountID,
		SignerPrivateKey: supply.PrivateKey,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.logger.Info("token mint submitted",
		zap.String("token_id", tokenID),
		zap.Int64("amount", amount),
		zap.String("account_id", toAccountID),
		zap.String("tx_id", resp.TxID))
	return &ledger.TransferResult{TxID: resp.TxID}, nil
}

// Associate opts the account into the token. The bridge reports an already
// associated account as TOKEN_ALREADY_ASSOCIATED_TO_ACCOUNT, which callers
// treat as success.
func (c *BridgeClient) Associate(ctx context.Context, accountID, tokenID string, signer ledger.Signer) error {
	return c.do(ctx, http.MethodPost, "/tokens/associate", tokenTransferRequest{
		TokenID:          tokenID,
		AccountID:        accountID,
		SignerAccountID:  signer.AccountID,
		SignerPrivateKey: signer.PrivateKey,
	}, nil)
}

// AccountBalances returns the fungible-token balances of an account
func (c *BridgeClient) AccountBalances(ctx context.Context, accountID string) ([]ledger.TokenBalance, error) {
	var resp struct {
		Balances []ledger.TokenBalance `json:"balances"`
	}
	path := fmt.Sprintf("/accounts/%s/balances", accountID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Balances, nil
}
