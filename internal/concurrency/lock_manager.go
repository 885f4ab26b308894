// Package concurrency provides the per-entity locks that serialize
// read-modify-write cycles on wallets, cashouts and matches.
package concurrency

import (
	"sync"
)

const (
	walletPrefix  = "wallet:"
	cashoutPrefix = "cashout:"
	matchPrefix   = "match:"
	settlePrefix  = "settle:"
)

// WalletKey returns the lock key for a player's wallet
func WalletKey(playerID string) string { return walletPrefix + playerID }

// CashoutKey returns the lock key for a cashout request
func CashoutKey(id string) string { return cashoutPrefix + id }

// MatchKey returns the lock key for a match
func MatchKey(id string) string { return matchPrefix + id }

// SettleKey returns the lock key that serializes ending and paying out a
// match. It is distinct from MatchKey so the match service can take its own
// lock while settlement is in progress.
func SettleKey(matchID string) string { return settlePrefix + matchID }

// LockManager hands out one mutex per key. Locks are never reclaimed;
// the key space is bounded by the number of wallets, cashouts and matches.
type LockManager struct {
	locks sync.Map
}

func NewLockManager() *LockManager {
	return &LockManager{}
}

// GetLock returns the mutex for key, creating it on first use
func (lm *LockManager) GetLock(key string) *sync.Mutex {
	lock, _ := lm.locks.LoadOrStore(key, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// WithLock runs fn while holding the lock for key
func (lm *LockManager) WithLock(key string, fn func() error) error {
	mu := lm.GetLock(key)
	mu.Lock()
	defer mu.Unlock()
	return fn()
}
