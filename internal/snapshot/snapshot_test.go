package snapshot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/TapStake_Go/internal/worker"
)

type item struct {
	ID string `json:"id"`
}

func TestDecode_Formats(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"envelope", `{"items":[{"id":"a"},{"id":"b"}]}`, 2, false},
		{"bare array", `[{"id":"a"}]`, 1, false},
		{"empty envelope", `{"items":[]}`, 0, false},
		{"corrupt", `{"items":`, 0, true},
		{"object without items", `{"foo":1}`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := Decode[item]([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, items, tt.want)
		})
	}
}

func TestFileStore_SaveLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	s := NewFileStore(dir)
	ctx := context.Background()

	items, err := LoadItems[item](ctx, s, CollectionWallets)
	require.NoError(t, err)
	assert.Nil(t, items)

	data, err := Encode([]item{{ID: "w1"}})
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, CollectionWallets, data))

	_, err = os.Stat(filepath.Join(dir, "wallets.json.tmp"))
	assert.True(t, os.IsNotExist(err), "temp file is renamed away")

	items, err = LoadItems[item](ctx, s, CollectionWallets)
	require.NoError(t, err)
	assert.Equal(t, []item{{ID: "w1"}}, items)
}

type memStore struct {
	mu    sync.Mutex
	saves map[string][]byte
	count int32
	err   error
}

func (m *memStore) Load(_ context.Context, c string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.saves[c]
	if !ok {
		return nil, ErrNoSnapshot
	}
	return d, nil
}

func (m *memStore) Save(_ context.Context, c string, data []byte) error {
	atomic.AddInt32(&m.count, 1)
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves[c] = data
	return nil
}

func TestWriter_MarkDirtySavesLatest(t *testing.T) {
	store := &memStore{saves: map[string][]byte{}}
	pool := worker.NewPool(2, 16)
	pool.Start()
	defer pool.Stop()

	var mu sync.Mutex
	current := []item{{ID: "a"}}

	w := NewWriter(store, pool, time.Second)
	w.Register(CollectionWallets, func(context.Context) (interface{}, error) {
		mu.Lock()
		defer mu.Unlock()
		return append([]item(nil), current...), nil
	})

	w.MarkDirty(CollectionWallets)
	mu.Lock()
	current = append(current, item{ID: "b"})
	mu.Unlock()
	w.MarkDirty(CollectionWallets)

	assert.Eventually(t, func() bool {
		items, err := LoadItems[item](context.Background(), store, CollectionWallets)
		return err == nil && len(items) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestWriter_UnregisteredAndFailures(t *testing.T) {
	store := &memStore{saves: map[string][]byte{}, err: errors.New("disk full")}
	pool := worker.NewPool(1, 4)
	pool.Start()
	defer pool.Stop()

	w := NewWriter(store, pool, 0)
	w.MarkDirty("unknown")

	w.Register(CollectionCashouts, func(context.Context) (interface{}, error) { return []item{}, nil })
	assert.Error(t, w.Flush(context.Background()), "flush surfaces the error")

	// background failures are swallowed
	w.MarkDirty(CollectionCashouts)
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&store.count) == 2 }, time.Second, 5*time.Millisecond)
}

func TestWriter_FullQueueDropsMark(t *testing.T) {
	store := &memStore{saves: map[string][]byte{}}
	pool := worker.NewPool(1, 1) // never started

	w := NewWriter(store, pool, 0)
	w.Register(CollectionWallets, func(context.Context) (interface{}, error) { return []item{}, nil })
	w.Register(CollectionCashouts, func(context.Context) (interface{}, error) { return []item{}, nil })

	w.MarkDirty(CollectionWallets)
	w.MarkDirty(CollectionWallets) // coalesced
	w.MarkDirty(CollectionCashouts) // queue full

	require.NoError(t, w.Flush(context.Background()))
	assert.Equal(t, int32(2), atomic.LoadInt32(&store.count))
}
