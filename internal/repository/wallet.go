package repository

import (
	"context"

	"github.com/osse101/TapStake_Go/internal/domain"
)

// Wallet defines the data access required by the wallet ledger.
// GetWallet returns domain.ErrNotFound when the player has no wallet yet.
type Wallet interface {
	GetWallet(ctx context.Context, playerID string) (*domain.Wallet, error)
	SaveWallet(ctx context.Context, wallet *domain.Wallet) error
	ListWallets(ctx context.Context) ([]*domain.Wallet, error)
	ReplaceWallets(ctx context.Context, wallets []*domain.Wallet) error
}
