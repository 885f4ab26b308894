package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/osse101/TapStake_Go/internal/config"
	"github.com/osse101/TapStake_Go/internal/database"
	"github.com/osse101/TapStake_Go/internal/database/memory"
	"github.com/osse101/TapStake_Go/internal/database/postgres"
	"github.com/osse101/TapStake_Go/internal/handler"
	"github.com/osse101/TapStake_Go/internal/repository"
	"github.com/osse101/TapStake_Go/internal/snapshot"
	"github.com/osse101/TapStake_Go/internal/snapshot/redisstore"
	"github.com/osse101/TapStake_Go/internal/snapshot/s3store"
)

// Repositories holds the live stores the services mutate. They are always
// in memory; durability comes from the snapshot backend.
type Repositories struct {
	Wallets  repository.Wallet
	Matches  repository.Match
	Cashouts repository.Cashout
}

// InitializeRepositories creates empty in-memory stores
func InitializeRepositories() *Repositories {
	return &Repositories{
		Wallets:  memory.NewWalletStore(),
		Matches:  memory.NewMatchStore(),
		Cashouts: memory.NewCashoutStore(),
	}
}

// Storage is the selected snapshot backend. Ready is nil for backends with
// nothing to ping.
type Storage struct {
	Snapshots snapshot.Store
	Ready     handler.Pinger
	Closer    io.Closer
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type closeFunc func() error

func (f closeFunc) Close() error { return f() }

// InitializeStorage connects the snapshot backend named by
// cfg.SnapshotBackend. Postgres is migrated before use.
func InitializeStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	slog.Info(LogMsgSnapshotBackend, "backend", cfg.SnapshotBackend)

	switch cfg.SnapshotBackend {
	case config.BackendFile, "":
		if err := os.MkdirAll(cfg.DataDir, DirPermission); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateDataDir, err)
		}
		return &Storage{Snapshots: snapshot.NewFileStore(cfg.DataDir)}, nil

	case config.BackendPostgres:
		pool, err := database.NewPool(ctx, cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectDB, err)
		}
		if err := database.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrate, err)
		}
		slog.Info(LogMsgMigrationsApplied)
		return &Storage{
			Snapshots: postgres.NewSnapshotStore(pool),
			Ready:     pool,
			Closer:    closeFunc(func() error { pool.Close(); return nil }),
		}, nil

	case config.BackendRedis:
		store, rdb, err := redisstore.New(ctx, redisstore.ClientConfig{
			Addr:       cfg.RedisAddr,
			Password:   cfg.RedisPassword,
			DB:         cfg.RedisDB,
			TLSEnabled: cfg.RedisTLS,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectRedis, err)
		}
		return &Storage{
			Snapshots: store,
			Ready:     pingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
			Closer:    rdb,
		}, nil

	case config.BackendS3:
		store, err := s3store.New(ctx, s3store.ClientConfig{
			Endpoint:       cfg.S3Endpoint,
			Region:         cfg.S3Region,
			Bucket:         cfg.S3Bucket,
			AccessKey:      cfg.S3AccessKey,
			SecretKey:      cfg.S3SecretKey,
			UseSSL:         cfg.S3UseSSL,
			ForcePathStyle: cfg.S3ForcePathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectS3, err)
		}
		return &Storage{Snapshots: store}, nil

	default:
		return nil, fmt.Errorf("%s: %q", ErrMsgUnknownBackend, cfg.SnapshotBackend)
	}
}
