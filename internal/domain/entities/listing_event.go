package entities

import "time"

// Listing event types published on the event bus.
const (
	ListingEventCreated = "created"
	ListingEventUpdated = "updated"
	ListingEventDeleted = "deleted"
	ListingEventReindex = "reindex"
)

// ListingEvent signals that the listing corpus changed. Consumers use it
// to drop cached search results that may now be stale.
type ListingEvent struct {
	ID         string    `json:"id"`
	ListingID  int64     `json:"listing_id,omitempty"`
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
}
