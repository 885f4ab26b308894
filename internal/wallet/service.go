// Package wallet is the per-player ledger: available balances, held funds,
// and the primitive money moves the rest of the system is built on.
package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/osse101/TapStake_Go/internal/concurrency"
	"github.com/osse101/TapStake_Go/internal/domain"
	"github.com/osse101/TapStake_Go/internal/logger"
	"github.com/osse101/TapStake_Go/internal/metrics"
	"github.com/osse101/TapStake_Go/internal/repository"
	"github.com/osse101/TapStake_Go/internal/snapshot"
)

// Service defines the ledger operations. Every mutation is atomic per player
// and schedules a best-effort snapshot.
type Service interface {
	GetOrCreate(ctx context.Context, playerID string) (*domain.Wallet, error)
	Get(ctx context.Context, playerID string) (*domain.Wallet, error)
	Fund(ctx context.Context, playerID string, amount decimal.Decimal, cur domain.Currency) (*domain.Wallet, error)
	Credit(ctx context.Context, playerID string, amount decimal.Decimal, cur domain.Currency) (*domain.Wallet, error)
	Take(ctx context.Context, playerID string, amount decimal.Decimal, cur domain.Currency) (bool, error)
	Hold(ctx context.Context, playerID string, amount decimal.Decimal, cur domain.Currency) (*domain.Wallet, error)
	Release(ctx context.Context, playerID string, amount decimal.Decimal, cur domain.Currency) (*domain.Wallet, error)
	Capture(ctx context.Context, playerID string, amount decimal.Decimal, cur domain.Currency) (*domain.Wallet, error)
	All(ctx context.Context) ([]*domain.Wallet, error)
	Restore(ctx context.Context, wallets []*domain.Wallet) error
}

type service struct {
	repo  repository.Wallet
	locks *concurrency.LockManager
	dirty snapshot.Dirtier
}

func NewService(repo repository.Wallet, locks *concurrency.LockManager, dirty snapshot.Dirtier) Service {
	if dirty == nil {
		dirty = snapshot.Nop{}
	}
	return &service{repo: repo, locks: locks, dirty: dirty}
}

func (s *service) GetOrCreate(ctx context.Context, playerID string) (*domain.Wallet, error) {
	playerID, err := domain.NormalizePlayerID(playerID)
	if err != nil {
		return nil, err
	}

	var (
		w       *domain.Wallet
		created bool
	)
	err = s.locks.WithLock(concurrency.WalletKey(playerID), func() error {
		var lerr error
		w, created, lerr = s.load(ctx, playerID)
		if lerr != nil || !created {
			return lerr
		}
		return s.repo.SaveWallet(ctx, w)
	})
	if err != nil {
		return nil, err
	}

	if created {
		logger.FromContext(ctx).Debug(LogMsgWalletCreated, "playerID", playerID)
		s.dirty.MarkDirty(snapshot.CollectionWallets)
	}
	return w, nil
}

func (s *service) Get(ctx context.Context, playerID string) (*domain.Wallet, error) {
	return s.GetOrCreate(ctx, playerID)
}

// Fund adds externally supplied money to the available balance
func (s *service) Fund(ctx context.Context, playerID string, amount decimal.Decimal, cur domain.Currency) (*domain.Wallet, error) {
	return s.mutate(ctx, OpFund, playerID, amount, cur, func(w *domain.Wallet) error {
		w.Balances[cur] = w.Balance(cur).Add(amount)
		return nil
	})
}

// Credit adds money moved from inside the system, such as escrow payouts
func (s *service) Credit(ctx context.Context, playerID string, amount decimal.Decimal, cur domain.Currency) (*domain.Wallet, error) {
	return s.mutate(ctx, OpCredit, playerID, amount, cur, func(w *domain.Wallet) error {
		w.Balances[cur] = w.Balance(cur).Add(amount)
		return nil
	})
}

// Take debits the available balance. It reports false, with no change,
// when the balance is short.
func (s *service) Take(ctx context.Context, playerID string, amount decimal.Decimal, cur domain.Currency) (bool, error) {
	_, err := s.mutate(ctx, OpTake, playerID, amount, cur, func(w *domain.Wallet) error {
		bal := w.Balance(cur)
		if bal.LessThan(amount) {
			return domain.ErrInsufficientFunds
		}
		w.Balances[cur] = bal.Sub(amount)
		return nil
	})
	if errors.Is(err, domain.ErrInsufficientFunds) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Hold moves funds from available to held
func (s *service) Hold(ctx context.Context, playerID string, amount decimal.Decimal, cur domain.Currency) (*domain.Wallet, error) {
	return s.mutate(ctx, OpHold, playerID, amount, cur, func(w *domain.Wallet) error {
		bal := w.Balance(cur)
		if bal.LessThan(amount) {
			return domain.ErrInsufficientFunds
		}
		w.Balances[cur] = bal.Sub(amount)
		w.Held[cur] = w.HeldAmount(cur).Add(amount)
		return nil
	})
}

// Release moves held funds back to available
func (s *service) Release(ctx context.Context, playerID string, amount decimal.Decimal, cur domain.Currency) (*domain.Wallet, error) {
	return s.mutate(ctx, OpRelease, playerID, amount, cur, func(w *domain.Wallet) error {
		held := w.HeldAmount(cur)
		if held.LessThan(amount) {
			return domain.ErrInsufficientHeld
		}
		w.Held[cur] = held.Sub(amount)
		w.Balances[cur] = w.Balance(cur).Add(amount)
		return nil
	})
}

// Capture removes held funds from the system
func (s *service) Capture(ctx context.Context, playerID string, amount decimal.Decimal, cur domain.Currency) (*domain.Wallet, error) {
	return s.mutate(ctx, OpCapture, playerID, amount, cur, func(w *domain.Wallet) error {
		held := w.HeldAmount(cur)
		if held.LessThan(amount) {
			return domain.ErrInsufficientHeld
		}
		w.Held[cur] = held.Sub(amount)
		return nil
	})
}

func (s *service) All(ctx context.Context) ([]*domain.Wallet, error) {
	return s.repo.ListWallets(ctx)
}

// Restore replaces every wallet with a loaded snapshot. Negative amounts,
// which the ledger can never produce, are zeroed.
func (s *service) Restore(ctx context.Context, wallets []*domain.Wallet) error {
	log := logger.FromContext(ctx)
	for _, w := range wallets {
		if w == nil {
			continue
		}
		w.Normalize()
		for cur, v := range w.Balances {
			if v.IsNegative() {
				log.Warn(LogMsgNegativeRestored, "playerID", w.PlayerID, "currency", cur, "bucket", "balances")
				w.Balances[cur] = decimal.Zero
			}
		}
		for cur, v := range w.Held {
			if v.IsNegative() {
				log.Warn(LogMsgNegativeRestored, "playerID", w.PlayerID, "currency", cur, "bucket", "held")
				w.Held[cur] = decimal.Zero
			}
		}
	}
	return s.repo.ReplaceWallets(ctx, wallets)
}

// load returns the stored wallet or a fresh one. Caller holds the wallet lock.
func (s *service) load(ctx context.Context, playerID string) (*domain.Wallet, bool, error) {
	w, err := s.repo.GetWallet(ctx, playerID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewWallet(playerID), true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", ErrMsgLoadWallet, err)
	}
	w.Normalize()
	return w, false, nil
}

func (s *service) mutate(ctx context.Context, op, playerID string, amount decimal.Decimal, cur domain.Currency, apply func(w *domain.Wallet) error) (w *domain.Wallet, err error) {
	defer func() {
		metrics.LedgerOperations.WithLabelValues(op, metrics.ResultLabel(err)).Inc()
	}()

	if playerID, err = domain.NormalizePlayerID(playerID); err != nil {
		return nil, err
	}
	if cur != domain.CurrencyUSD {
		return nil, domain.ErrBadCurrency
	}
	if err = domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	err = s.locks.WithLock(concurrency.WalletKey(playerID), func() error {
		var lerr error
		if w, _, lerr = s.load(ctx, playerID); lerr != nil {
			return lerr
		}
		if lerr = apply(w); lerr != nil {
			return lerr
		}
		return s.repo.SaveWallet(ctx, w)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Debug(LogMsgLedgerOp, "op", op, "playerID", playerID, "amount", amount.String(), "currency", cur)
	s.dirty.MarkDirty(snapshot.CollectionWallets)
	return w, nil
}
