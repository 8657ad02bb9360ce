package ports

import (
	"context"

	"hawker/internal/core/events"
)

// EventPublisher sends events to the fanout exchange. Every coordinator
// process, the publishing one included, receives what is published here
// through its own subscription.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}
