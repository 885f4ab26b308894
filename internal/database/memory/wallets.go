// Package memory holds the process-local stores that back the ledger,
// cashout and match services. Every read returns a copy so callers can
// mutate freely and write back under their own entity lock.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/osse101/TapStake_Go/internal/domain"
)

// WalletStore is an in-memory repository.Wallet
type WalletStore struct {
	mu      sync.RWMutex
	wallets map[string]*domain.Wallet
}

func NewWalletStore() *WalletStore {
	return &WalletStore{wallets: make(map[string]*domain.Wallet)}
}

func (s *WalletStore) GetWallet(_ context.Context, playerID string) (*domain.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.wallets[playerID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return w.Clone(), nil
}

func (s *WalletStore) SaveWallet(_ context.Context, wallet *domain.Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.wallets[wallet.PlayerID] = wallet.Clone()
	return nil
}

// ListWallets returns all wallets ordered by player id.
func (s *WalletStore) ListWallets(_ context.Context) ([]*domain.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Wallet, 0, len(s.wallets))
	for _, w := range s.wallets {
		out = append(out, w.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out, nil
}

// ReplaceWallets swaps the whole collection, skipping entries without a player id.
func (s *WalletStore) ReplaceWallets(_ context.Context, wallets []*domain.Wallet) error {
	next := make(map[string]*domain.Wallet, len(wallets))
	for _, w := range wallets {
		if w == nil || w.PlayerID == "" {
			continue
		}
		c := w.Clone()
		c.Normalize()
		next[c.PlayerID] = c
	}

	s.mu.Lock()
	s.wallets = next
	s.mu.Unlock()
	return nil
}
