package snapshot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/TapStake_Go/internal/logger"
	"github.com/osse101/TapStake_Go/internal/metrics"
	"github.com/osse101/TapStake_Go/internal/worker"
)

// Source returns the current items of a collection
type Source func(ctx context.Context) (interface{}, error)

// Dirtier is what mutating services see of the writer
type Dirtier interface {
	MarkDirty(collection string)
}

// Enqueuer accepts background jobs without blocking
type Enqueuer interface {
	TryEnqueue(job worker.Job) bool
}

type registration struct {
	source  Source
	mu      sync.Mutex // serializes read+save so a stale read never lands last
	pending bool
}

// Writer coalesces dirty marks into background saves on a worker pool
type Writer struct {
	store   Store
	jobs    Enqueuer
	timeout time.Duration

	mu   sync.Mutex
	regs map[string]*registration
}

func NewWriter(store Store, jobs Enqueuer, timeout time.Duration) *Writer {
	return &Writer{
		store:   store,
		jobs:    jobs,
		timeout: timeout,
		regs:    make(map[string]*registration),
	}
}

// Register binds a collection to the function that produces its items
func (w *Writer) Register(collection string, source Source) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.regs[collection] = &registration{source: source}
}

// MarkDirty schedules a save of collection. It never blocks; marks that
// arrive while a save is already queued are folded into it.
func (w *Writer) MarkDirty(collection string) {
	w.mu.Lock()
	reg, ok := w.regs[collection]
	if !ok || reg.pending {
		w.mu.Unlock()
		return
	}
	reg.pending = true
	w.mu.Unlock()

	job := worker.JobFunc(func(ctx context.Context) error {
		w.mu.Lock()
		reg.pending = false
		w.mu.Unlock()
		w.save(ctx, collection, reg)
		return nil
	})

	if !w.jobs.TryEnqueue(job) {
		w.mu.Lock()
		reg.pending = false
		w.mu.Unlock()
		metrics.SnapshotWrites.WithLabelValues(collection, metrics.ResultError).Inc()
		logger.Warn(LogMsgSnapshotQueueFull, "collection", collection)
	}
}

// Flush saves every registered collection synchronously
func (w *Writer) Flush(ctx context.Context) error {
	w.mu.Lock()
	regs := make(map[string]*registration, len(w.regs))
	for k, v := range w.regs {
		regs[k] = v
	}
	w.mu.Unlock()

	var firstErr error
	for collection, reg := range regs {
		if err := w.save(ctx, collection, reg); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (w *Writer) save(ctx context.Context, collection string, reg *registration) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	err := w.write(ctx, collection, reg.source)
	metrics.SnapshotWrites.WithLabelValues(collection, metrics.ResultLabel(err)).Inc()
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgSnapshotWriteFailed, "collection", collection, "error", err)
	}
	return err
}

func (w *Writer) write(ctx context.Context, collection string, source Source) error {
	items, err := source(ctx)
	if err != nil {
		return fmt.Errorf("read %s: %w", collection, err)
	}
	data, err := Encode(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}
	return w.store.Save(ctx, collection, data)
}

// Nop discards dirty marks. Useful for tests and tools.
type Nop struct{}

func (Nop) MarkDirty(string) {}
