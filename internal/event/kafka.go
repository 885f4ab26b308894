package event

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/osse101/TapStake_Go/internal/domain"
	"github.com/osse101/TapStake_Go/internal/logger"
)

// MessageWriter is the part of *kafka.Writer the forwarder needs
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaWriter builds a writer for a comma-separated broker list
func NewKafkaWriter(brokers, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(strings.Split(brokers, ",")...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}

// KafkaForwarder copies every domain event onto a Kafka topic,
// keyed by aggregate id so one match or cashout stays on one partition.
type KafkaForwarder struct {
	writer  MessageWriter
	timeout time.Duration
}

func NewKafkaForwarder(w MessageWriter, timeout time.Duration) *KafkaForwarder {
	return &KafkaForwarder{writer: w, timeout: timeout}
}

// Register subscribes the forwarder to all domain event types
func (f *KafkaForwarder) Register(bus Bus) {
	for _, t := range domain.AllEventTypes {
		bus.Subscribe(Type(t), f.Handle)
	}
	logger.Info(LogMsgKafkaForwarderStarted, "types", len(domain.AllEventTypes))
}

// Handle writes evt to Kafka. Errors are logged, not returned,
// so a broker outage never fails the publishing request.
func (f *KafkaForwarder) Handle(ctx context.Context, evt Event) error {
	log := logger.FromContext(ctx)

	value, err := json.Marshal(evt)
	if err != nil {
		log.Error(LogMsgKafkaWriteFailed, "event_type", evt.Type, "error", err)
		return nil
	}

	wctx := context.WithoutCancel(ctx)
	if f.timeout > 0 {
		var cancel context.CancelFunc
		wctx, cancel = context.WithTimeout(wctx, f.timeout)
		defer cancel()
	}

	msg := kafka.Message{
		Key:   []byte(evt.AggregateID()),
		Value: value,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(evt.Type)},
			{Key: "version", Value: []byte(evt.Version)},
		},
	}
	if err := f.writer.WriteMessages(wctx, msg); err != nil {
		log.Warn(LogMsgKafkaWriteFailed, "event_type", evt.Type, "error", err)
	}
	return nil
}

func (f *KafkaForwarder) Close() error {
	return f.writer.Close()
}
