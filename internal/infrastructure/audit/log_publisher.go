package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/wacky6382/diabetes-risk-calculator/internal/domain/event"
)

// Envelope is one line of the audit trail.
type Envelope struct {
	Payload   interface{} `json:"payload"`
	EventType string      `json:"event_type"`
}

// LogPublisher implements port.EventPublisher by appending events as JSON lines to
// an audit writer. With a nil writer events are only logged.
type LogPublisher struct {
	out    io.Writer
	logger *slog.Logger
	mu     sync.Mutex
}

// NewLogPublisher creates a new audit publisher.
func NewLogPublisher(out io.Writer, logger *slog.Logger) *LogPublisher {
	return &LogPublisher{
		out:    out,
		logger: logger,
	}
}

// Publish writes the events in order. It stops at the first write failure.
func (p *LogPublisher) Publish(ctx context.Context, events ...interface{}) error {
	for _, evt := range events {
		eventType := "unknown"
		switch e := evt.(type) {
		case event.RiskAssessed:
			eventType = e.EventType()
		case event.HighRiskFlagged:
			eventType = e.EventType()
		}

		payload, err := json.Marshal(Envelope{EventType: eventType, Payload: evt})
		if err != nil {
			return fmt.Errorf("failed to marshal event %s: %w", eventType, err)
		}

		p.logger.DebugContext(ctx, "publishing event",
			slog.String("event_type", eventType),
			slog.Int("payload_size", len(payload)),
		)

		if p.out == nil {
			continue
		}

		p.mu.Lock()
		_, err = p.out.Write(append(payload, '\n'))
		p.mu.Unlock()
		if err != nil {
			return fmt.Errorf("failed to write event %s: %w", eventType, err)
		}
	}

	return nil
}
