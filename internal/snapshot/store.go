// Package snapshot persists whole collections (wallets, cashouts) as JSON
// documents. Writes are write-behind and best-effort: the in-memory state
// stays authoritative and a failed write is only logged and counted.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Collection names
const (
	CollectionWallets  = "wallets"
	CollectionCashouts = "cashouts"
)

// ErrNoSnapshot is returned by Store.Load when nothing was saved yet
var ErrNoSnapshot = errors.New("snapshot: not found")

// Store is a durable home for collection snapshots
type Store interface {
	Load(ctx context.Context, collection string) ([]byte, error)
	Save(ctx context.Context, collection string, data []byte) error
}

type envelope struct {
	Items json.RawMessage `json:"items"`
}

// Encode wraps items in the {"items":[...]} document format
func Encode(items interface{}) ([]byte, error) {
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(envelope{Items: raw}, "", "  ")
}

// Decode reads either the {"items":[...]} format or a bare array
func Decode[T any](data []byte) ([]T, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err == nil && env.Items != nil {
		data = env.Items
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return items, nil
}

// LoadItems fetches and decodes a collection. A missing snapshot yields
// no items and no error.
func LoadItems[T any](ctx context.Context, store Store, collection string) ([]T, error) {
	data, err := store.Load(ctx, collection)
	if errors.Is(err, ErrNoSnapshot) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return Decode[T](data)
}
