// Package redisstore keeps collection snapshots under plain redis keys.
package redisstore

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/osse101/TapStake_Go/internal/snapshot"
)

// KeyPrefix namespaces snapshot keys
const KeyPrefix = "tapstake:snapshot:"

// ClientConfig holds connection parameters for the Redis client
type ClientConfig struct {
	Addr       string
	Password   string
	DB         int
	TLSEnabled bool
}

// KV is the subset of redis.Cmdable the store uses
type KV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Store implements snapshot.Store on redis
type Store struct {
	kv KV
}

// New connects and pings redis
func New(ctx context.Context, cfg ClientConfig) (*Store, *redis.Client, error) {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.TLSEnabled {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis: ping: %w", err)
	}
	return NewWithKV(rdb), rdb, nil
}

func NewWithKV(kv KV) *Store {
	return &Store{kv: kv}
}

func (s *Store) Load(ctx context.Context, collection string) ([]byte, error) {
	data, err := s.kv.Get(ctx, KeyPrefix+collection).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, snapshot.ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get %s: %w", collection, err)
	}
	return data, nil
}

// Save stores the document without expiry
func (s *Store) Save(ctx context.Context, collection string, data []byte) error {
	if err := s.kv.Set(ctx, KeyPrefix+collection, data, 0).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", collection, err)
	}
	return nil
}
