package postgres

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/osse101/TapStake_Go/internal/database"
	"github.com/osse101/TapStake_Go/internal/snapshot"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	terminate := setup(ctx)
	code := m.Run()
	terminate()
	os.Exit(code)
}

func setup(ctx context.Context) (terminate func()) {
	terminate = func() {}
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic starting postgres (likely Docker issue): %v\n", r)
		}
	}()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		fmt.Printf("WARNING: Failed to start postgres container: %v\n", err)
		return terminate
	}
	terminate = func() { _ = pgContainer.Terminate(ctx) }

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return terminate
	}
	pool, err := database.NewPool(ctx, connStr, 4, time.Minute, 5*time.Minute)
	if err != nil {
		return terminate
	}
	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		return terminate
	}

	testPool = pool
	return func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}
}

func TestSnapshotStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if testPool == nil {
		t.Skip("Skipping integration test: database not available")
	}

	ctx := context.Background()
	s := NewSnapshotStore(testPool)

	_, err := s.Load(ctx, snapshot.CollectionWallets)
	assert.ErrorIs(t, err, snapshot.ErrNoSnapshot)

	require.NoError(t, s.Save(ctx, snapshot.CollectionWallets, []byte(`{"items":[{"playerId":"a"}]}`)))
	require.NoError(t, s.Save(ctx, snapshot.CollectionWallets, []byte(`{"items":[{"playerId":"b"}]}`)))

	type w struct {
		PlayerID string `json:"playerId"`
	}
	items, err := snapshot.LoadItems[w](ctx, s, snapshot.CollectionWallets)
	require.NoError(t, err)
	assert.Equal(t, []w{{PlayerID: "b"}}, items)

	assert.Error(t, s.Save(ctx, snapshot.CollectionCashouts, []byte(`not json`)))
}
