package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Wallet tracks a player's available and held funds per currency.
// Both maps only ever hold non-negative values.
type Wallet struct {
	PlayerID string                       `json:"playerId"`
	Balances map[Currency]decimal.Decimal `json:"balances"`
	Held     map[Currency]decimal.Decimal `json:"held"`
}

// NewWallet returns an empty wallet for playerID.
func NewWallet(playerID string) *Wallet {
	return &Wallet{
		PlayerID: playerID,
		Balances: make(map[Currency]decimal.Decimal),
		Held:     make(map[Currency]decimal.Decimal),
	}
}

// Balance returns the available amount in cur.
func (w *Wallet) Balance(cur Currency) decimal.Decimal {
	return w.Balances[cur]
}

// HeldAmount returns the frozen amount in cur.
func (w *Wallet) HeldAmount(cur Currency) decimal.Decimal {
	return w.Held[cur]
}

// Clone returns a deep copy safe to hand out of a store.
func (w *Wallet) Clone() *Wallet {
	if w == nil {
		return nil
	}
	c := NewWallet(w.PlayerID)
	for k, v := range w.Balances {
		c.Balances[k] = v
	}
	for k, v := range w.Held {
		c.Held[k] = v
	}
	return c
}

// Normalize fills nil maps, e.g. after decoding an old snapshot.
func (w *Wallet) Normalize() {
	if w.Balances == nil {
		w.Balances = make(map[Currency]decimal.Decimal)
	}
	if w.Held == nil {
		w.Held = make(map[Currency]decimal.Decimal)
	}
}

// NormalizePlayerID trims id and rejects empty values.
func NormalizePlayerID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrBadPlayerID
	}
	return id, nil
}
