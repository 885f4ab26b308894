package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/TapStake_Go/internal/domain"
	"github.com/osse101/TapStake_Go/internal/snapshot"
)

// WalletRestorer is the part of the wallet service used at startup
type WalletRestorer interface {
	All(ctx context.Context) ([]*domain.Wallet, error)
	Restore(ctx context.Context, wallets []*domain.Wallet) error
}

// CashoutRestorer is the part of the cashout service used at startup
type CashoutRestorer interface {
	All(ctx context.Context) ([]*domain.CashoutRequest, error)
	Restore(ctx context.Context, reqs []*domain.CashoutRequest) error
}

// RegisterSnapshotSources binds the persisted collections to the services
// that own them.
func RegisterSnapshotSources(w *snapshot.Writer, wallets WalletRestorer, cashouts CashoutRestorer) {
	w.Register(snapshot.CollectionWallets, func(ctx context.Context) (interface{}, error) {
		return wallets.All(ctx)
	})
	w.Register(snapshot.CollectionCashouts, func(ctx context.Context) (interface{}, error) {
		return cashouts.All(ctx)
	})
}

// RestoreSnapshots loads wallets and cashouts once at startup. A missing or
// unreadable snapshot leaves the collection empty; only a failure to apply
// loaded data is returned.
func RestoreSnapshots(ctx context.Context, store snapshot.Store, wallets WalletRestorer, cashouts CashoutRestorer) error {
	ws, err := snapshot.LoadItems[*domain.Wallet](ctx, store, snapshot.CollectionWallets)
	if err != nil {
		slog.Warn(LogMsgSnapshotUnreadable, "collection", snapshot.CollectionWallets, "error", err)
		ws = nil
	}
	if err := wallets.Restore(ctx, ws); err != nil {
		return fmt.Errorf("%s %s: %w", ErrMsgFailedRestore, snapshot.CollectionWallets, err)
	}

	cs, err := snapshot.LoadItems[*domain.CashoutRequest](ctx, store, snapshot.CollectionCashouts)
	if err != nil {
		slog.Warn(LogMsgSnapshotUnreadable, "collection", snapshot.CollectionCashouts, "error", err)
		cs = nil
	}
	if err := cashouts.Restore(ctx, cs); err != nil {
		return fmt.Errorf("%s %s: %w", ErrMsgFailedRestore, snapshot.CollectionCashouts, err)
	}

	slog.Info(LogMsgSnapshotRestored, "wallets", len(ws), "cashouts", len(cs))
	return nil
}
