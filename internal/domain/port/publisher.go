package port

import (
	"context"
)

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	// Publish hands one or more domain events to the outbound adapter.
	Publish(ctx context.Context, events ...interface{}) error
}
