// Package postgres stores collection snapshots in a single jsonb table.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/osse101/TapStake_Go/internal/snapshot"
)

// Querier is satisfied by *pgxpool.Pool and pgx.Tx
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const (
	loadSnapshotSQL = `SELECT data FROM snapshots WHERE collection = $1`
	saveSnapshotSQL = `
INSERT INTO snapshots (collection, data, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (collection) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`
)

// SnapshotStore implements snapshot.Store on the snapshots table
type SnapshotStore struct {
	db Querier
}

func NewSnapshotStore(db Querier) *SnapshotStore {
	return &SnapshotStore{db: db}
}

func (s *SnapshotStore) Load(ctx context.Context, collection string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(ctx, loadSnapshotSQL, collection).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, snapshot.ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", ErrMsgFailedToLoadSnapshot, collection, err)
	}
	return data, nil
}

// Save upserts the document. data must be valid JSON.
func (s *SnapshotStore) Save(ctx context.Context, collection string, data []byte) error {
	if _, err := s.db.Exec(ctx, saveSnapshotSQL, collection, string(data)); err != nil {
		return fmt.Errorf("%s %s: %w", ErrMsgFailedToSaveSnapshot, collection, err)
	}
	return nil
}
