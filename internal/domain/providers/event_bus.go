package providers

import (
	"context"

	"github.com/saudehub/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to agenda
// lifecycle events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.AgendaEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.AgendaEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelAgenda is the channel carrying all agenda lifecycle events
const EventChannelAgenda = "agenda:events"

// GetUserChannel returns the channel name for a specific user's agenda
func GetUserChannel(userID string) string {
	return "agenda:user:" + userID
}
