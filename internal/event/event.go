package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/osse101/TapStake_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata map[string]interface{}

// Event represents a domain event published on the bus
type Event struct {
	Version  string      `json:"version"`
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata,omitempty"`
}

// AggregateID returns the id of the entity the event is about, if known
func (e Event) AggregateID() string {
	switch p := e.Payload.(type) {
	case MatchPayloadV1:
		return p.MatchID
	case MatchEndedPayloadV1:
		return p.MatchID
	case MatchPaidOutPayloadV1:
		return p.MatchID
	case CashoutPayloadV1:
		return p.CashoutID
	case RunVerifiedPayloadV1:
		return p.RunID
	}
	if v, ok := e.Metadata[MetadataKeyAggregateID].(string); ok {
		return v
	}
	return ""
}

// MetadataKeyAggregateID lets untyped payloads carry a routing key
const MetadataKeyAggregateID = "aggregate_id"

// MatchPayloadV1 is the payload for match.created and match.started
type MatchPayloadV1 struct {
	MatchID     string          `json:"matchId"`
	Status      string          `json:"status"`
	GameID      string          `json:"gameId"`
	EscrowTotal decimal.Decimal `json:"escrowTotal"`
	DurationMs  int64           `json:"durationMs"`
	StartedAt   *time.Time      `json:"startedAt,omitempty"`
	Timestamp   int64           `json:"timestamp"`
}

// MatchEndedPayloadV1 is the payload for match.ended
type MatchEndedPayloadV1 struct {
	MatchID        string `json:"matchId"`
	ServerScore    int    `json:"serverScore"`
	WinnerRunID    string `json:"winnerRunId"`
	WinnerPlayerID string `json:"winnerPlayerId"`
	NoWinner       bool   `json:"noWinner"`
	Forced         bool   `json:"forced"`
	Timestamp      int64  `json:"timestamp"`
}

// MatchPaidOutPayloadV1 is the payload for match.paid_out
type MatchPaidOutPayloadV1 struct {
	MatchID  string          `json:"matchId"`
	PlayerID string          `json:"playerId"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Refund   bool            `json:"refund,omitempty"`
}

// CashoutPayloadV1 is the payload for cashout.* events
type CashoutPayloadV1 struct {
	CashoutID string          `json:"cashoutId"`
	PlayerID  string          `json:"playerId"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Status    string          `json:"status"`
	DecidedBy string          `json:"decidedBy,omitempty"`
	PayoutRef string          `json:"payoutRef,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// RunVerifiedPayloadV1 is the payload for run.verified
type RunVerifiedPayloadV1 struct {
	RunID       string  `json:"runId"`
	MatchID     *string `json:"matchId"`
	PlayerID    string  `json:"playerId"`
	ServerScore int     `json:"serverScore"`
	Timestamp   int64   `json:"timestamp"`
}

// NewMatchEvent builds a match.created or match.started event
func NewMatchEvent(eventType Type, m *domain.Match) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    eventType,
		Payload: MatchPayloadV1{
			MatchID:     m.ID,
			Status:      string(m.Status),
			GameID:      m.GameID,
			EscrowTotal: m.EscrowTotal,
			DurationMs:  m.DurationMs,
			StartedAt:   m.StartedAt,
			Timestamp:   time.Now().Unix(),
		},
	}
}

// NewMatchEndedEvent builds a match.ended event
func NewMatchEndedEvent(matchID string, result domain.MatchResult, forced bool) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    domain.EventTypeMatchEnded,
		Payload: MatchEndedPayloadV1{
			MatchID:        matchID,
			ServerScore:    result.ServerScore,
			WinnerRunID:    result.WinnerRunID,
			WinnerPlayerID: result.WinnerPlayerID,
			NoWinner:       result.NoWinner,
			Forced:         forced,
			Timestamp:      time.Now().Unix(),
		},
	}
}

// NewMatchPaidOutEvent builds a match.paid_out event. Refunds reuse the type.
func NewMatchPaidOutEvent(matchID string, p domain.Payout, refund bool) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    domain.EventTypeMatchPaidOut,
		Payload: MatchPaidOutPayloadV1{
			MatchID:  matchID,
			PlayerID: p.PlayerID,
			Amount:   p.Amount,
			Currency: string(p.Currency),
			Refund:   refund,
		},
	}
}

// NewCashoutEvent builds a cashout.requested, cashout.approved or cashout.rejected event
func NewCashoutEvent(eventType Type, req *domain.CashoutRequest) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    eventType,
		Payload: CashoutPayloadV1{
			CashoutID: req.ID,
			PlayerID:  req.PlayerID,
			Amount:    req.Amount,
			Currency:  string(req.Currency),
			Status:    string(req.Status),
			DecidedBy: req.DecidedBy,
			PayoutRef: req.PayoutRef,
			Timestamp: time.Now().Unix(),
		},
	}
}

// NewRunVerifiedEvent builds a run.verified event
func NewRunVerifiedEvent(run *domain.StoredRun) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    domain.EventTypeRunVerified,
		Payload: RunVerifiedPayloadV1{
			RunID:       run.ID,
			MatchID:     run.MatchID,
			PlayerID:    run.PlayerID,
			ServerScore: run.ServerScore,
			Timestamp:   run.CreatedAt.Unix(),
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish runs every subscriber synchronously and joins their errors
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type]...)
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}
	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
