package providers

import (
	"context"

	"github.com/cutmatch/cutmatch-backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to
// listing events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.ListingEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.ListingEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelListingUpdates is the channel for all listing updates
const EventChannelListingUpdates = "listing:updates"
