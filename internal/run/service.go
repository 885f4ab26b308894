// Package run verifies submitted game runs, keeps a bounded history of the
// verified ones, and picks the best run of a match.
package run

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/TapStake_Go/internal/domain"
	"github.com/osse101/TapStake_Go/internal/event"
	"github.com/osse101/TapStake_Go/internal/logger"
	"github.com/osse101/TapStake_Go/internal/metrics"
)

// Service defines run verification and lookup
type Service interface {
	Verify(ctx context.Context, sub domain.RunSubmission) (int, error)
	Store(ctx context.Context, sub domain.RunSubmission, serverScore int) *domain.StoredRun
	Get(ctx context.Context, id string) (*domain.StoredRun, bool)
	BestRunForMatch(ctx context.Context, matchID string) (*domain.StoredRun, bool)
	RunsForMatch(ctx context.Context, matchID string, limit int) []*domain.StoredRun
}

// EventPublisher defines the interface for publishing events with retry
type EventPublisher interface {
	PublishWithRetry(ctx context.Context, evt event.Event)
}

type service struct {
	history   *history
	publisher EventPublisher
	now       func() time.Time
}

// NewService keeps at most capacity runs; non-positive means the default
func NewService(capacity int, publisher EventPublisher) Service {
	return &service{
		history:   newHistory(capacity),
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Verify(ctx context.Context, sub domain.RunSubmission) (int, error) {
	score, err := Verify(sub)
	if err != nil {
		metrics.RunVerifications.WithLabelValues(domain.CodeOf(err)).Inc()
		logger.FromContext(ctx).Info(LogMsgRunRejected, "playerID", sub.PlayerID, "reason", domain.CodeOf(err))
		return 0, err
	}
	metrics.RunVerifications.WithLabelValues(metrics.ResultOK).Inc()
	return score, nil
}

// Store records a verified run. The stored copy is never modified.
func (s *service) Store(ctx context.Context, sub domain.RunSubmission, serverScore int) *domain.StoredRun {
	r := &domain.StoredRun{
		ID:            uuid.NewString(),
		CreatedAt:     s.now(),
		GameID:        normalizeGameID(sub.GameID),
		MatchID:       normalizeMatchID(sub.MatchID),
		PlayerID:      strings.TrimSpace(sub.PlayerID),
		Seed:          value(sub.Seed),
		Hits:          value(sub.Hits),
		Misses:        value(sub.Misses),
		AvgReactionMs: sub.AvgReactionMs,
		DurationMs:    value(sub.DurationMs),
		SpawnCount:    value(sub.SpawnCount),
		TapCount:      value(sub.TapCount),
		ServerScore:   serverScore,
	}
	s.history.add(r)

	logger.FromContext(ctx).Debug(LogMsgRunStored, "runID", r.ID, "playerID", r.PlayerID, "serverScore", serverScore)
	if s.publisher != nil {
		s.publisher.PublishWithRetry(ctx, event.NewRunVerifiedEvent(r))
	}
	return r
}

func (s *service) Get(_ context.Context, id string) (*domain.StoredRun, bool) {
	return s.history.get(id)
}

// BestRunForMatch returns the highest scoring run. The earliest run wins a tie.
func (s *service) BestRunForMatch(_ context.Context, matchID string) (*domain.StoredRun, bool) {
	var best *domain.StoredRun
	for _, r := range s.history.forMatch(matchID) {
		if best == nil || r.ServerScore > best.ServerScore {
			best = r
		}
	}
	return best, best != nil
}

// RunsForMatch returns up to limit runs, newest first
func (s *service) RunsForMatch(_ context.Context, matchID string, limit int) []*domain.StoredRun {
	if limit <= 0 {
		limit = domain.DefaultRunsPageSize
	}
	runs := s.history.forMatch(matchID)

	out := make([]*domain.StoredRun, 0, min(limit, len(runs)))
	for i := len(runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, runs[i])
	}
	return out
}

func normalizeGameID(v *string) string {
	if v == nil {
		return domain.DefaultGameID
	}
	if s := strings.TrimSpace(*v); s != "" {
		return s
	}
	return domain.DefaultGameID
}

func normalizeMatchID(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}
