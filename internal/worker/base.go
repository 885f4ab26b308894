package worker

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/TapStake_Go/internal/logger"
)

// armedTimer pairs a timer with the generation it was armed under.
// A callback only runs if its generation is still the armed one.
type armedTimer struct {
	timer *time.Timer
	gen   uint64
}

// BaseWorker manages one-shot timers keyed by entity id
type BaseWorker struct {
	mu       sync.Mutex
	timers   map[string]armedTimer
	nextGen  uint64
	shutdown chan struct{}
	closed   bool
	wg       sync.WaitGroup
}

func (w *BaseWorker) init() {
	if w.timers == nil {
		w.timers = make(map[string]armedTimer)
	}
	if w.shutdown == nil {
		w.shutdown = make(chan struct{})
	}
}

// arm schedules fn after d, replacing any timer already armed for id.
// It returns false once the worker is shutting down.
func (w *BaseWorker) arm(id string, d time.Duration, fn func()) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return false
	}
	if existing, ok := w.timers[id]; ok {
		existing.timer.Stop()
	}

	w.nextGen++
	gen := w.nextGen
	w.timers[id] = armedTimer{
		gen: gen,
		timer: time.AfterFunc(d, func() {
			if !w.claim(id, gen) {
				return
			}
			defer w.wg.Done()
			fn()
		}),
	}
	return true
}

// claim removes the timer for id if gen is still current and registers
// the execution as in-flight.
func (w *BaseWorker) claim(id string, gen uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return false
	}
	cur, ok := w.timers[id]
	if !ok || cur.gen != gen {
		return false
	}
	delete(w.timers, id)
	w.wg.Add(1)
	return true
}

// disarm cancels the timer for id and reports whether one was armed
func (w *BaseWorker) disarm(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	cur, ok := w.timers[id]
	if !ok {
		return false
	}
	cur.timer.Stop()
	delete(w.timers, id)
	return true
}

func (w *BaseWorker) isArmed(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.timers[id]
	return ok
}

func (w *BaseWorker) shutdownInternal(ctx context.Context, workerName string) error {
	log := logger.FromContext(ctx)
	log.Info("Shutting down " + workerName)

	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.shutdown)
	}
	for id, t := range w.timers {
		t.timer.Stop()
		log.Info("Cancelled pending "+workerName+" execution", "id", id)
	}
	w.timers = make(map[string]armedTimer)
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info(workerName + " shutdown complete")
		return nil
	case <-ctx.Done():
		log.Warn(workerName + " shutdown timeout")
		return ctx.Err()
	}
}
