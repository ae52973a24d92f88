// Package exchange implements the exchange-rate port against a hosted FX API.
package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Client fetches spot rates from the configured FX rate API
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates a new exchange-rate client
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type rateResponse struct {
	Success bool                       `json:"success"`
	Rates   map[string]decimal.Decimal `json:"rates"`
	Error   *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error,omitempty"`
}

// Rate returns how many units of to one unit of from buys
func (c *Client) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	query := url.Values{}
	query.Set("base", from)
	query.Set("symbols", to)
	if c.apiKey != "" {
		query.Set("access_key", c.apiKey)
	}

	reqURL := fmt.Sprintf("%s/latest?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to create rate request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("rate request failed",
			zap.String("from", from),
			zap.String("to", to),
			zap.Error(err))
		return decimal.Zero, fmt.Errorf("rate request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read rate response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("rate API returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed rateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode rate response: %w", err)
	}
	if parsed.Error != nil {
		return decimal.Zero, fmt.Errorf("rate API error %s: %s", parsed.Error.Code, parsed.Error.Info)
	}

	rate, ok := parsed.Rates[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("rate API returned no rate for %s/%s", from, to)
	}
	return rate, nil
}
