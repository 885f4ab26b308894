package event

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/TapStake_Go/internal/logger"
)

type retryEntry struct {
	event    Event
	attempts int
	lastErr  error
}

// ResilientPublisher publishes through an inner bus and retries failures
// in the background with exponential backoff. Events that exhaust their
// retries, or that arrive while the queue is full, go to the dead-letter file.
type ResilientPublisher struct {
	bus        Bus
	retryQueue chan retryEntry
	maxRetries int
	retryDelay time.Duration
	deadLetter *DeadLetterWriter
	shutdown   chan struct{}
	once       sync.Once
	wg         sync.WaitGroup
}

func NewResilientPublisher(bus Bus, maxRetries int, retryDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dl, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, err
	}

	rp := &ResilientPublisher{
		bus:        bus,
		retryQueue: make(chan retryEntry, RetryQueueBufferSize),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		deadLetter: dl,
		shutdown:   make(chan struct{}),
	}

	rp.wg.Add(1)
	go rp.retryWorker()
	return rp, nil
}

// PublishWithRetry never blocks on a failing bus; failures are queued
func (rp *ResilientPublisher) PublishWithRetry(ctx context.Context, evt Event) {
	err := rp.bus.Publish(ctx, evt)
	if err == nil {
		return
	}

	logger.FromContext(ctx).Warn(LogMsgEventPublishFailed, "event_type", evt.Type, "error", err)
	rp.enqueue(retryEntry{event: evt, attempts: 1, lastErr: err})
}

// Publish satisfies Bus. It always returns nil.
func (rp *ResilientPublisher) Publish(ctx context.Context, evt Event) error {
	rp.PublishWithRetry(ctx, evt)
	return nil
}

// Subscribe delegates to the inner bus
func (rp *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	rp.bus.Subscribe(eventType, handler)
}

func (rp *ResilientPublisher) enqueue(entry retryEntry) {
	select {
	case rp.retryQueue <- entry:
	default:
		logger.Warn(LogMsgRetryQueueFull, "event_type", entry.event.Type)
		if err := rp.deadLetter.Write(entry.event, entry.attempts, entry.lastErr); err != nil {
			logger.Error(LogMsgDeadLetterWriteFailed, "error", err)
		}
	}
}

func (rp *ResilientPublisher) retryWorker() {
	defer rp.wg.Done()

	for {
		select {
		case entry := <-rp.retryQueue:
			rp.retry(entry)
		case <-rp.shutdown:
			rp.drain()
			return
		}
	}
}

func (rp *ResilientPublisher) retry(entry retryEntry) {
	for entry.attempts <= rp.maxRetries {
		delay := CalculateRetryDelay(rp.retryDelay, entry.attempts)
		select {
		case <-time.After(delay):
		case <-rp.shutdown:
			// last chance without waiting
			if err := rp.bus.Publish(context.Background(), entry.event); err != nil {
				rp.writeDeadLetter(entry.event, entry.attempts+1, err)
			}
			return
		}

		err := rp.bus.Publish(context.Background(), entry.event)
		entry.attempts++
		if err == nil {
			logger.Info(LogMsgEventRetrySucceeded, "event_type", entry.event.Type, "attempts", entry.attempts)
			return
		}
		entry.lastErr = err
		logger.Warn(LogMsgEventRetryFailed, "event_type", entry.event.Type, "attempt", entry.attempts, "error", err)
	}

	logger.Warn(LogMsgEventRetryExhausted, "event_type", entry.event.Type)
	rp.writeDeadLetter(entry.event, entry.attempts, entry.lastErr)
}

func (rp *ResilientPublisher) drain() {
	n := 0
	for {
		select {
		case entry := <-rp.retryQueue:
			n++
			if err := rp.bus.Publish(context.Background(), entry.event); err != nil {
				rp.writeDeadLetter(entry.event, entry.attempts+1, err)
			}
		default:
			if n > 0 {
				logger.Info(LogMsgQueueDrainedShutdown, "count", n)
			}
			return
		}
	}
}

func (rp *ResilientPublisher) writeDeadLetter(evt Event, attempts int, err error) {
	if werr := rp.deadLetter.Write(evt, attempts, err); werr != nil {
		logger.Error(LogMsgDeadLetterWriteFailed, "error", werr)
	}
}

// Shutdown stops the retry worker, drains the queue and closes the dead-letter file
func (rp *ResilientPublisher) Shutdown(ctx context.Context) error {
	rp.once.Do(func() { close(rp.shutdown) })

	done := make(chan struct{})
	go func() {
		rp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return rp.deadLetter.Close()
	case <-ctx.Done():
		logger.Warn(LogMsgShutdownTimeout)
		return ctx.Err()
	}
}
