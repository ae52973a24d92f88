// Package hedera implements the token-ledger and agreement-contract ports
// against the platform's Hedera node bridge.
package hedera

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Darryldn9/direla-backend/internal/domain/ledger"
)

const bridgeAPIVersion = "v1"

// BridgeClient talks to the Hedera node bridge over HTTP. It implements both
// ledger.TokenLedger and contract.AgreementContract.
type BridgeClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// NewBridgeClient creates a new bridge client
func NewBridgeClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *BridgeClient {
	return &BridgeClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type bridgeError struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// do sends one bridge request and decodes the response into out. Non-2xx
// responses become typed ledger errors keyed by the bridge status code, so
// retry eligibility never depends on message text.
func (c *BridgeClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode bridge request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	url := fmt.Sprintf("%s/%s%s", c.baseURL, bridgeAPIVersion, path)
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create bridge request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("bridge request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return &ledger.Error{Code: ledger.CodeTimeout, Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read bridge response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var bridgeErr bridgeError
		if err := json.Unmarshal(respBody, &bridgeErr); err != nil || bridgeErr.Status == "" {
			return &ledger.Error{
				Code:    fmt.Sprintf("HTTP_%d", resp.StatusCode),
				Message: string(respBody),
			}
		}
		c.logger.Warn("bridge call rejected",
			zap.String("path", path),
			zap.String("status", bridgeErr.Status),
			zap.String("message", bridgeErr.Message))
		return &ledger.Error{Code: bridgeErr.Status, Message: bridgeErr.Message}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode bridge response: %w", err)
		}
	}
	return nil
}
