package event

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/osse101/TapStake_Go/internal/logger"
)

// DeadLetterSchemaVersion is bumped when DeadLetterEntry changes shape
const DeadLetterSchemaVersion = "1.1"

// DeadLetterEntry is one JSONL record of an event the publisher gave up on
type DeadLetterEntry struct {
	SchemaVersion string    `json:"schemaVersion"`
	RecordedAt    time.Time `json:"recordedAt"`
	AggregateID   string    `json:"aggregateId,omitempty"`
	Event         Event     `json:"event"`
	Attempts      int       `json:"attempts"`
	LastError     string    `json:"lastError,omitempty"`
}

// DeadLetterWriter appends undeliverable events to a file so a money
// movement that nobody heard about can still be replayed by hand.
type DeadLetterWriter struct {
	mu   sync.Mutex
	file *os.File
	now  func() time.Time
}

func NewDeadLetterWriter(path string) (*DeadLetterWriter, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, DeadLetterFilePermissions)
	if err != nil {
		return nil, err
	}
	return &DeadLetterWriter{file: f, now: time.Now}, nil
}

func (d *DeadLetterWriter) Write(evt Event, attempts int, lastErr error) error {
	entry := DeadLetterEntry{
		SchemaVersion: DeadLetterSchemaVersion,
		RecordedAt:    d.now().UTC(),
		AggregateID:   evt.AggregateID(),
		Event:         evt,
		Attempts:      attempts,
	}
	if lastErr != nil {
		entry.LastError = lastErr.Error()
	}

	logger.Warn(LogMsgEventDeadLettered,
		"eventType", evt.Type,
		"aggregateID", entry.AggregateID,
		"attempts", attempts,
		"error", entry.LastError)

	line, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	_, err = d.file.Write(append(line, '\n'))
	return err
}

func (d *DeadLetterWriter) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.file.Close()
}
