package metrics

import (
	"context"

	"github.com/osse101/TapStake_Go/internal/domain"
	"github.com/osse101/TapStake_Go/internal/event"
	"github.com/osse101/TapStake_Go/internal/logger"
)

// EventMetricsCollector turns domain events into business metrics
type EventMetricsCollector struct{}

func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all domain events
func (e *EventMetricsCollector) Register(bus event.Bus) {
	for _, t := range domain.AllEventTypes {
		bus.Subscribe(event.Type(t), e.HandleEvent)
	}
}

// HandleEvent never fails; a payload it cannot read is only logged
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case domain.EventTypeCashoutApproved, domain.EventTypeCashoutRejected:
		p, err := event.DecodePayload[event.CashoutPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecode, "type", evt.Type, "error", err)
			return nil
		}
		CashoutDecisions.WithLabelValues(p.Status).Inc()

	case domain.EventTypeMatchEnded:
		p, err := event.DecodePayload[event.MatchEndedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecode, "type", evt.Type, "error", err)
			return nil
		}
		path := EndPathManual
		if p.Forced {
			path = EndPathForced
		}
		MatchesEnded.WithLabelValues(path).Inc()

	case domain.EventTypeMatchPaidOut:
		p, err := event.DecodePayload[event.MatchPaidOutPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecode, "type", evt.Type, "error", err)
			return nil
		}
		if !p.Refund {
			EscrowPaidOut.Add(p.Amount.InexactFloat64())
		}
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
