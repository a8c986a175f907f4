package repositories

import (
	"context"
	"time"

	"github.com/cutmatch/cutmatch-backend/internal/domain/entities"
)

// SearchAnalyticsRepository holds the bounded search-event buffer. The
// buffer is append-mostly: reads always work on a snapshot copy so
// aggregate scans never race with concurrent appends.
type SearchAnalyticsRepository interface {
	// LogEvent appends an event, evicting the oldest past the capacity
	LogEvent(ctx context.Context, event *entities.SearchEvent) error

	// AppendClick records a click on the originating event. A click on
	// an evicted or unknown event is a no-op, not an error.
	AppendClick(ctx context.Context, eventID string, click entities.ClickedResult) error

	// Events returns a snapshot of all buffered events, oldest first
	Events(ctx context.Context) ([]entities.SearchEvent, error)

	// EventsSince returns a snapshot of events at or after the cutoff
	EventsSince(ctx context.Context, since time.Time) ([]entities.SearchEvent, error)
}
