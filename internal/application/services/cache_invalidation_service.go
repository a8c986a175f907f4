package services

import (
	"context"
	"sync"

	"github.com/cutmatch/cutmatch-backend/internal/domain/entities"
	"github.com/cutmatch/cutmatch-backend/internal/domain/providers"
	"github.com/cutmatch/cutmatch-backend/internal/infrastructure/observability"
)

// CacheInvalidationService listens for listing change events and drops
// cached search results. Invalidation is coarse: any corpus change wipes
// the whole search result namespace, which is the safe default given
// that a single listing can appear in arbitrarily many cached pages.
type CacheInvalidationService struct {
	cache    *SearchCacheService
	eventBus providers.EventBus

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

// NewCacheInvalidationService wires the invalidation listener
func NewCacheInvalidationService(cache *SearchCacheService, eventBus providers.EventBus) *CacheInvalidationService {
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
	}
}

// Start subscribes to listing updates and begins invalidating. Calling
// Start twice is a no-op.
func (s *CacheInvalidationService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)

	eventChan, err := s.eventBus.Subscribe(runCtx, providers.EventChannelListingUpdates)
	if err != nil {
		cancel()
		return err
	}

	s.cancel = cancel
	s.done = make(chan struct{})
	s.started = true

	go s.run(runCtx, eventChan)
	return nil
}

func (s *CacheInvalidationService) run(ctx context.Context, eventChan <-chan *entities.ListingEvent) {
	defer close(s.done)

	logger := observability.GetLogger()
	logger.Info().Str("channel", providers.EventChannelListingUpdates).Msg("Cache invalidation listener started")

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			if err := s.cache.Invalidate(ctx, "*"); err != nil {
				logger.Error().Err(err).
					Str("event_type", event.EventType).
					Int64("listing_id", event.ListingID).
					Msg("Failed to invalidate search cache")
				continue
			}
			logger.Info().
				Str("event_type", event.EventType).
				Int64("listing_id", event.ListingID).
				Msg("Search cache invalidated")
		}
	}
}

// Stop cancels the listener and waits for it to drain
func (s *CacheInvalidationService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}

	s.cancel()
	<-s.done
	s.started = false
}
