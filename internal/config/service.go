package config

import (
	"fmt"
	"time"
)

// ServiceConfig holds the Direla platform configuration: the Hedera bridge,
// the tokens backing each supported currency, the exchange-rate source and
// the BNPL product parameters.
type ServiceConfig struct {
	Name        string         `yaml:"name"`
	Environment string         `yaml:"environment"`
	ClientURL   string         `yaml:"client_url"`
	Hedera      HederaConfig   `yaml:"hedera"`
	Exchange    ExchangeConfig `yaml:"exchange"`
	BNPL        BNPLConfig     `yaml:"bnpl"`
	MasterKey   string         `yaml:"master_key"`
}

// HederaConfig holds the node bridge endpoint, the treasury signer and the
// fiat-pegged token ids keyed by currency code.
type HederaConfig struct {
	BridgeURL          string            `yaml:"bridge_url"`
	BridgeAPIKey       string            `yaml:"bridge_api_key"`
	BridgeTimeout      time.Duration     `yaml:"bridge_timeout"`
	TreasuryAccountID  string            `yaml:"treasury_account_id"`
	TreasuryPrivateKey string            `yaml:"treasury_private_key"`
	Tokens             map[string]string `yaml:"tokens"`
}

// ExchangeConfig holds the FX rate API endpoint and the quote window
type ExchangeConfig struct {
	BaseURL  string        `yaml:"base_url"`
	APIKey   string        `yaml:"api_key"`
	Timeout  time.Duration `yaml:"timeout"`
	QuoteTTL time.Duration `yaml:"quote_ttl"`
}

// BNPLConfig holds the financing product parameters
type BNPLConfig struct {
	OfferValidity  time.Duration `yaml:"offer_validity"`
	SweepInterval  time.Duration `yaml:"sweep_interval"`
	RetryAttempts  int           `yaml:"retry_attempts"`
	RetryBaseDelay time.Duration `yaml:"retry_base_delay"`
}

// Validate checks the fields without which the platform cannot settle
func (c *ServiceConfig) Validate() error {
	if c.Hedera.BridgeURL == "" {
		return fmt.Errorf("service.hedera.bridge_url is required")
	}
	if c.Hedera.TreasuryAccountID == "" || c.Hedera.TreasuryPrivateKey == "" {
		return fmt.Errorf("service.hedera treasury signer is required")
	}
	if len(c.Hedera.Tokens) == 0 {
		return fmt.Errorf("service.hedera.tokens must map at least one currency")
	}
	if c.MasterKey == "" {
		return fmt.Errorf("service.master_key is required")
	}
	return nil
}
