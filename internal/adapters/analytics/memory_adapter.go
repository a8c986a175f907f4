package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cutmatch/cutmatch-backend/internal/domain/entities"
	"github.com/cutmatch/cutmatch-backend/internal/domain/repositories"
)

// DefaultMaxEvents bounds the event buffer when no capacity is supplied.
const DefaultMaxEvents = 10000

// MemoryAdapter implements SearchAnalyticsRepository as a bounded
// in-process ring buffer: once the capacity is exceeded the oldest event
// is evicted. Analytics is best-effort telemetry, not a durable log.
type MemoryAdapter struct {
	mu        sync.RWMutex
	maxEvents int
	events    []*entities.SearchEvent
	byID      map[string]*entities.SearchEvent
}

// NewMemoryAdapter creates an event buffer holding at most maxEvents
// events
func NewMemoryAdapter(maxEvents int) *MemoryAdapter {
	if maxEvents <= 0 {
		maxEvents = DefaultMaxEvents
	}
	return &MemoryAdapter{
		maxEvents: maxEvents,
		byID:      make(map[string]*entities.SearchEvent),
	}
}

// LogEvent appends an event, evicting the oldest past the capacity
func (a *MemoryAdapter) LogEvent(ctx context.Context, event *entities.SearchEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.events = append(a.events, event)
	a.byID[event.ID] = event

	for len(a.events) > a.maxEvents {
		evicted := a.events[0]
		a.events = a.events[1:]
		delete(a.byID, evicted.ID)
	}
	return nil
}

// AppendClick records a click on the originating event. Unknown or
// evicted event ids are silently ignored.
func (a *MemoryAdapter) AppendClick(ctx context.Context, eventID string, click entities.ClickedResult) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	event, ok := a.byID[eventID]
	if !ok {
		return nil
	}
	event.ClickedResults = append(event.ClickedResults, click)
	return nil
}

// Events returns a snapshot of all buffered events, oldest first
func (a *MemoryAdapter) Events(ctx context.Context) ([]entities.SearchEvent, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.copyEvents(a.events), nil
}

// EventsSince returns a snapshot of events at or after the cutoff
func (a *MemoryAdapter) EventsSince(ctx context.Context, since time.Time) ([]entities.SearchEvent, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	// Timestamps are caller-supplied, so append order is not guaranteed
	// to be time order. Filter rather than binary-search.
	matched := make([]*entities.SearchEvent, 0, len(a.events))
	for _, event := range a.events {
		if !event.Timestamp.Before(since) {
			matched = append(matched, event)
		}
	}
	return a.copyEvents(matched), nil
}

// copyEvents deep-copies events so aggregate scans never observe
// concurrent click appends. Callers must hold at least a read lock.
func (a *MemoryAdapter) copyEvents(events []*entities.SearchEvent) []entities.SearchEvent {
	snapshot := make([]entities.SearchEvent, len(events))
	for i, event := range events {
		snapshot[i] = *event
		if len(event.ClickedResults) > 0 {
			clicks := make([]entities.ClickedResult, len(event.ClickedResults))
			copy(clicks, event.ClickedResults)
			snapshot[i].ClickedResults = clicks
		}
	}
	return snapshot
}

// Len returns the number of buffered events
func (a *MemoryAdapter) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.events)
}

var _ repositories.SearchAnalyticsRepository = (*MemoryAdapter)(nil)
