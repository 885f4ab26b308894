// Package match owns the match state machine: created, started, ended.
// It records stakes and results but never moves wallet money.
package match

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/osse101/TapStake_Go/internal/concurrency"
	"github.com/osse101/TapStake_Go/internal/domain"
	"github.com/osse101/TapStake_Go/internal/event"
	"github.com/osse101/TapStake_Go/internal/logger"
	"github.com/osse101/TapStake_Go/internal/repository"
)

// Service defines the match lifecycle operations
type Service interface {
	Create(ctx context.Context, gameID string, cur domain.Currency, durationMs int64) (*domain.Match, error)
	Get(ctx context.Context, id string) (*domain.Match, error)
	PlaceStake(ctx context.Context, id, playerID string, amount decimal.Decimal) (*domain.Match, error)
	Start(ctx context.Context, id string) (m *domain.Match, alreadyStarted bool, err error)
	End(ctx context.Context, id string, result domain.MatchResult) (*domain.Match, error)
	RecordPayout(ctx context.Context, id, playerID string, amount decimal.Decimal) (*domain.Match, error)
	RecordRefund(ctx context.Context, id string) (*domain.Match, error)
}

// EventPublisher defines the interface for publishing events with retry
type EventPublisher interface {
	PublishWithRetry(ctx context.Context, evt event.Event)
}

type service struct {
	repo      repository.Match
	locks     *concurrency.LockManager
	publisher EventPublisher
	now       func() time.Time
}

func NewService(repo repository.Match, locks *concurrency.LockManager, publisher EventPublisher) Service {
	return &service{
		repo:      repo,
		locks:     locks,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create allocates a match with no stakes. A non-positive duration means
// the default; the value is clamped when the match starts.
func (s *service) Create(ctx context.Context, gameID string, cur domain.Currency, durationMs int64) (*domain.Match, error) {
	if cur == "" {
		cur = domain.CurrencyUSD
	}
	if cur != domain.CurrencyUSD {
		return nil, domain.ErrBadCurrency
	}
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		gameID = domain.DefaultGameID
	}
	if durationMs <= 0 {
		durationMs = domain.DefaultMatchDurationMs
	}

	m := &domain.Match{
		ID:          uuid.NewString(),
		Status:      domain.MatchStatusCreated,
		CreatedAt:   s.now(),
		DurationMs:  durationMs,
		GameID:      gameID,
		Currency:    cur,
		EscrowTotal: decimal.Zero,
		Stakes:      []domain.Stake{},
	}
	if err := s.repo.CreateMatch(ctx, m); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgMatchCreated, "matchID", m.ID, "gameID", gameID)
	s.publish(ctx, event.NewMatchEvent(domain.EventTypeMatchCreated, m))
	return m, nil
}

func (s *service) Get(ctx context.Context, id string) (*domain.Match, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrBadID
	}
	return s.repo.GetMatch(ctx, id)
}

// PlaceStake adds amount to the player's cumulative stake. The caller has
// already debited the wallet.
func (s *service) PlaceStake(ctx context.Context, id, playerID string, amount decimal.Decimal) (*domain.Match, error) {
	playerID, err := domain.NormalizePlayerID(playerID)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	return s.update(ctx, id, func(m *domain.Match) error {
		if m.Status != domain.MatchStatusCreated {
			return domain.ErrMatchNotAcceptingStakes
		}
		addStake(m, playerID, amount)
		return nil
	})
}

// Start moves a ready match to started. Starting a started match is a no-op
// reported through alreadyStarted.
func (s *service) Start(ctx context.Context, id string) (*domain.Match, bool, error) {
	var alreadyStarted bool
	m, err := s.update(ctx, id, func(m *domain.Match) error {
		switch m.Status {
		case domain.MatchStatusEnded:
			return domain.ErrMatchEnded
		case domain.MatchStatusStarted:
			alreadyStarted = true
			return errNoChange
		}

		if ready := EscrowReady(m); !ready.OK {
			return &domain.EscrowNotReadyError{Readiness: ready}
		}

		now := s.now()
		m.Status = domain.MatchStatusStarted
		m.StartedAt = &now
		m.DurationMs = domain.ClampDuration(m.DurationMs)
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if !alreadyStarted {
		logger.FromContext(ctx).Info(LogMsgMatchStarted, "matchID", m.ID, "escrowTotal", m.EscrowTotal.String(), "durationMs", m.DurationMs)
		s.publish(ctx, event.NewMatchEvent(domain.EventTypeMatchStarted, m))
	}
	return m, alreadyStarted, nil
}

// End marks the match ended and records result. It does not check the
// prior status; callers decide whether ending again is allowed.
func (s *service) End(ctx context.Context, id string, result domain.MatchResult) (*domain.Match, error) {
	return s.update(ctx, id, func(m *domain.Match) error {
		now := s.now()
		score := result.ServerScore
		m.Status = domain.MatchStatusEnded
		m.EndedAt = &now
		m.ServerScore = &score
		m.WinnerRunID = result.WinnerRunID
		m.WinnerPlayerID = result.WinnerPlayerID
		m.NoWinner = result.NoWinner
		return nil
	})
}

// RecordPayout writes the payout bookkeeping once
func (s *service) RecordPayout(ctx context.Context, id, playerID string, amount decimal.Decimal) (*domain.Match, error) {
	return s.update(ctx, id, func(m *domain.Match) error {
		if m.IsPaidOut() {
			return domain.ErrAlreadyPaidOut
		}
		now := s.now()
		m.PaidOutAt = &now
		m.PaidOutTo = playerID
		m.PaidOutAmount = &amount
		return nil
	})
}

// RecordRefund marks the escrow as returned to the stakers
func (s *service) RecordRefund(ctx context.Context, id string) (*domain.Match, error) {
	return s.update(ctx, id, func(m *domain.Match) error {
		if m.IsPaidOut() {
			return domain.ErrAlreadyPaidOut
		}
		now := s.now()
		m.RefundedAt = &now
		return nil
	})
}

// update applies fn to the stored match under its lock. fn may return
// errNoChange to skip the write.
func (s *service) update(ctx context.Context, id string, fn func(m *domain.Match) error) (*domain.Match, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrBadID
	}

	var m *domain.Match
	err := s.locks.WithLock(concurrency.MatchKey(id), func() error {
		var err error
		if m, err = s.repo.GetMatch(ctx, id); err != nil {
			return err
		}
		if err = fn(m); err != nil {
			return err
		}
		return s.repo.UpdateMatch(ctx, m)
	})
	if err == errNoChange {
		return m, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishWithRetry(ctx, evt)
}

func addStake(m *domain.Match, playerID string, amount decimal.Decimal) {
	found := false
	for i := range m.Stakes {
		if m.Stakes[i].PlayerID == playerID {
			m.Stakes[i].Amount = m.Stakes[i].Amount.Add(amount)
			found = true
			break
		}
	}
	if !found {
		m.Stakes = append(m.Stakes, domain.Stake{PlayerID: playerID, Amount: amount})
	}

	total := decimal.Zero
	for _, st := range m.Stakes {
		total = total.Add(st.Amount)
	}
	m.EscrowTotal = total
}
