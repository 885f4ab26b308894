package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/TapStake_Go/internal/domain"
)

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryBus()
	var got []Event

	bus.Subscribe(domain.EventTypeMatchStarted, func(ctx context.Context, e Event) error {
		got = append(got, e)
		return nil
	})
	bus.Subscribe(domain.EventTypeMatchStarted, func(ctx context.Context, e Event) error {
		got = append(got, e)
		return nil
	})

	m := &domain.Match{ID: "m1", Status: domain.MatchStatusStarted, EscrowTotal: decimal.NewFromInt(20)}
	require.NoError(t, bus.Publish(context.Background(), NewMatchEvent(domain.EventTypeMatchStarted, m)))

	require.Len(t, got, 2)
	assert.Equal(t, "m1", got[0].AggregateID())

	// no subscribers is not an error
	assert.NoError(t, bus.Publish(context.Background(), Event{Type: "nobody.listens"}))
}

func TestMemoryBus_JoinsHandlerErrors(t *testing.T) {
	bus := NewMemoryBus()
	bus.Subscribe("x", func(context.Context, Event) error { return errors.New("boom") })
	bus.Subscribe("x", func(context.Context, Event) error { return nil })

	err := bus.Publish(context.Background(), Event{Type: "x"})
	assert.ErrorContains(t, err, "1 errors")
}

func TestAggregateID(t *testing.T) {
	matchID := "m9"
	tests := []struct {
		name string
		evt  Event
		want string
	}{
		{"cashout", NewCashoutEvent(domain.EventTypeCashoutRequested, &domain.CashoutRequest{ID: "c1"}), "c1"},
		{"ended", NewMatchEndedEvent("m2", domain.NoWinnerResult(), true), "m2"},
		{"paid out", NewMatchPaidOutEvent("m3", domain.Payout{PlayerID: "p"}, false), "m3"},
		{"run", NewRunVerifiedEvent(&domain.StoredRun{ID: "r1", MatchID: &matchID}), "r1"},
		{"metadata", Event{Metadata: Metadata{MetadataKeyAggregateID: "z"}}, "z"},
		{"unknown", Event{Payload: "plain"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.evt.AggregateID())
		})
	}
}

func TestDecodePayload_FromMap(t *testing.T) {
	raw := map[string]interface{}{"cashoutId": "c1", "playerId": "p1", "amount": 12.5, "status": "pending"}

	p, err := DecodePayload[CashoutPayloadV1](raw)
	require.NoError(t, err)
	assert.Equal(t, "c1", p.CashoutID)
	assert.True(t, p.Amount.Equal(decimal.RequireFromString("12.5")))

	direct, err := DecodePayload[CashoutPayloadV1](p)
	require.NoError(t, err)
	assert.Equal(t, p, direct)
}

type fakeWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestKafkaForwarder_ForwardsKeyedMessages(t *testing.T) {
	w := &fakeWriter{}
	bus := NewMemoryBus()
	NewKafkaForwarder(w, 0).Register(bus)

	req := &domain.CashoutRequest{ID: "c7", PlayerID: "p1", Amount: decimal.NewFromInt(5), Status: domain.CashoutStatusPending}
	require.NoError(t, bus.Publish(context.Background(), NewCashoutEvent(domain.EventTypeCashoutRequested, req)))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "c7", string(w.msgs[0].Key))
	assert.Contains(t, string(w.msgs[0].Value), `"type":"cashout.requested"`)
	assert.Contains(t, string(w.msgs[0].Value), `"amount":5`)
}

func TestKafkaForwarder_SwallowsWriteErrors(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	f := NewKafkaForwarder(w, 0)

	err := f.Handle(context.Background(), NewMatchEndedEvent("m1", domain.NoWinnerResult(), false))
	assert.NoError(t, err)
}
