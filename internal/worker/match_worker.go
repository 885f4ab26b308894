package worker

import (
	"context"
	"time"

	"github.com/osse101/TapStake_Go/internal/domain"
	"github.com/osse101/TapStake_Go/internal/event"
	"github.com/osse101/TapStake_Go/internal/logger"
)

// MatchEnder force-ends a match whose deadline passed
type MatchEnder interface {
	ForceEnd(ctx context.Context, matchID string) error
}

// MatchWorker arms a one-shot deadline per started match and force-ends
// it when the deadline fires. Ending a match through any other path
// should call Disarm first.
type MatchWorker struct {
	BaseWorker
	ender    MatchEnder
	grace    time.Duration
	minDelay time.Duration
	timeout  time.Duration
}

func NewMatchWorker(grace time.Duration) *MatchWorker {
	w := &MatchWorker{grace: grace, minDelay: MinAutoEndDelay, timeout: DefaultForceEndTimeout}
	w.init()
	return w
}

// Register wires the ender and subscribes to match starts
func (w *MatchWorker) Register(bus event.Bus, ender MatchEnder) {
	w.ender = ender
	bus.Subscribe(domain.EventTypeMatchStarted, w.handleMatchStarted)
}

func (w *MatchWorker) handleMatchStarted(ctx context.Context, e event.Event) error {
	p, err := event.DecodePayload[event.MatchPayloadV1](e.Payload)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgBadMatchStartedPayload, "error", err)
		return nil
	}
	w.Arm(p.MatchID, time.Duration(p.DurationMs)*time.Millisecond)
	return nil
}

// ArmDelay is the wait before auto-ending a match of the given length
func (w *MatchWorker) ArmDelay(duration time.Duration) time.Duration {
	d := duration + w.grace
	if d < w.minDelay {
		d = w.minDelay
	}
	return d
}

// Arm schedules the auto-end for matchID, replacing any earlier arm
func (w *MatchWorker) Arm(matchID string, duration time.Duration) {
	delay := w.ArmDelay(duration)
	if !w.arm(matchID, delay, func() { w.fire(matchID) }) {
		return
	}
	logger.Info(LogMsgAutoEndArmed, "matchID", matchID, "delay", delay)
}

// Disarm cancels the auto-end for matchID. A callback that has not yet
// claimed its timer will not run.
func (w *MatchWorker) Disarm(matchID string) {
	if w.disarm(matchID) {
		logger.Debug(LogMsgAutoEndDisarmed, "matchID", matchID)
	}
}

// Armed reports whether matchID has a pending auto-end
func (w *MatchWorker) Armed(matchID string) bool {
	return w.isArmed(matchID)
}

func (w *MatchWorker) fire(matchID string) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	log := logger.FromContext(ctx)
	log.Info(LogMsgAutoEndFiring, "matchID", matchID)

	if w.ender == nil {
		return
	}
	if err := w.ender.ForceEnd(ctx, matchID); err != nil {
		log.Error(LogMsgAutoEndFailed, "matchID", matchID, "error", err)
	}
}

// Shutdown cancels all pending deadlines and waits for running ones
func (w *MatchWorker) Shutdown(ctx context.Context) error {
	return w.shutdownInternal(ctx, "match worker")
}
