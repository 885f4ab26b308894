package bootstrap

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/osse101/TapStake_Go/internal/config"
	"github.com/osse101/TapStake_Go/internal/event"
	"github.com/osse101/TapStake_Go/internal/metrics"
	"github.com/osse101/TapStake_Go/internal/notify"
	"github.com/osse101/TapStake_Go/internal/worker"
)

// EventHandlerDependencies holds what the bus subscribers need
type EventHandlerDependencies struct {
	EventBus    event.Bus
	MatchWorker *worker.MatchWorker
	MatchEnder  worker.MatchEnder
	Config      *config.Config
}

// RegisterEventHandlers subscribes every consumer of domain events:
//   - metrics collector (always)
//   - match auto-end worker (always)
//   - kafka forwarder (when brokers are configured)
//   - discord cashout notifier (when a webhook is configured)
//
// The returned closers release the outbound clients and must be closed on
// shutdown.
func RegisterEventHandlers(deps EventHandlerDependencies) ([]io.Closer, error) {
	var closers []io.Closer

	metrics.NewEventMetricsCollector().Register(deps.EventBus)
	slog.Info(LogMsgMetricsCollectorRegistered)

	deps.MatchWorker.Register(deps.EventBus, deps.MatchEnder)
	slog.Info(LogMsgMatchWorkerRegistered, "grace", deps.Config.AutoEndGrace)

	if deps.Config.KafkaBrokers != "" {
		forwarder := event.NewKafkaForwarder(
			event.NewKafkaWriter(deps.Config.KafkaBrokers, deps.Config.KafkaTopic),
			KafkaWriteTimeout,
		)
		forwarder.Register(deps.EventBus)
		closers = append(closers, forwarder)
		slog.Info(LogMsgKafkaForwarderRegistered,
			"brokers", deps.Config.KafkaBrokers,
			"topic", deps.Config.KafkaTopic)
	}

	if deps.Config.DiscordWebhookID != "" && deps.Config.DiscordWebhookToken != "" {
		session, err := notify.NewDiscordSession()
		if err != nil {
			return closers, fmt.Errorf("%s: %w", ErrMsgFailedCreateDiscordSession, err)
		}
		notify.NewDiscordNotifier(session, deps.Config.DiscordWebhookID, deps.Config.DiscordWebhookToken).Register(deps.EventBus)
		slog.Info(LogMsgDiscordNotifierRegistered)
	}

	return closers, nil
}
