// Package payout turns an approved cashout into an off-system money
// movement. Providers are selected by configuration and share one contract.
package payout

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/osse101/TapStake_Go/internal/domain"
	"github.com/osse101/TapStake_Go/internal/logger"
)

// Provider names
const (
	ProviderManual = "manual"
	ProviderStripe = "stripe"
	ProviderCrypto = "crypto"
)

// Request describes one payout
type Request struct {
	CashoutID string
	PlayerID  string
	Amount    decimal.Decimal
	Currency  domain.Currency
}

// Provider creates payouts. On failure it returns a *domain.PayoutError.
type Provider interface {
	Name() string
	CreatePayout(ctx context.Context, req Request) (ref string, err error)
}

// Config selects and configures a provider
type Config struct {
	Provider        string
	StripeEndpoint  string
	StripeAPIKey    string
	TreasuryAddress string
}

// NewProvider builds the configured provider. Unknown names fall back to
// manual with a warning.
func NewProvider(cfg Config) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderManual:
		return NewManualProvider(), nil
	case ProviderStripe:
		return NewStripeProvider(cfg.StripeEndpoint, cfg.StripeAPIKey), nil
	case ProviderCrypto:
		return NewCryptoProvider(cfg.TreasuryAddress)
	default:
		logger.Warn(LogMsgUnknownProvider, "provider", cfg.Provider)
		return NewManualProvider(), nil
	}
}

func failure(provider, msg string) error {
	return &domain.PayoutError{Provider: provider, Message: msg}
}
