package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cutmatch/cutmatch-backend/internal/adapters/cache"
	"github.com/cutmatch/cutmatch-backend/internal/adapters/events"
	"github.com/cutmatch/cutmatch-backend/internal/domain/entities"
	"github.com/cutmatch/cutmatch-backend/internal/domain/providers"
)

func TestCacheInvalidation_ListingEventDropsCache(t *testing.T) {
	ctx := context.Background()
	searchCache := NewSearchCacheService(cache.NewMemoryAdapter(), 300, nil)
	bus := events.NewMemoryEventBus()
	t.Cleanup(func() { _ = bus.Close() })

	svc := NewCacheInvalidationService(searchCache, bus)
	require.NoError(t, svc.Start(ctx))
	t.Cleanup(svc.Stop)

	query := entities.SearchQuery{Query: "カット"}
	searchCache.Set(ctx, query, &entities.SearchResult{Total: 2})
	require.NotNil(t, searchCache.Get(ctx, query))

	require.NoError(t, bus.Publish(ctx, providers.EventChannelListingUpdates, &entities.ListingEvent{
		ID:         "evt-1",
		ListingID:  42,
		EventType:  entities.ListingEventUpdated,
		OccurredAt: time.Now(),
	}))

	require.Eventually(t, func() bool {
		return searchCache.Get(ctx, query) == nil
	}, 2*time.Second, 5*time.Millisecond, "cached result survives a listing update")
}

func TestCacheInvalidation_StartIsIdempotent(t *testing.T) {
	searchCache := NewSearchCacheService(cache.NewMemoryAdapter(), 300, nil)
	bus := events.NewMemoryEventBus()
	t.Cleanup(func() { _ = bus.Close() })

	svc := NewCacheInvalidationService(searchCache, bus)
	require.NoError(t, svc.Start(context.Background()))
	assert.NoError(t, svc.Start(context.Background()))
	svc.Stop()
}

func TestCacheInvalidation_StopWithoutStart(t *testing.T) {
	svc := NewCacheInvalidationService(
		NewSearchCacheService(cache.NewMemoryAdapter(), 300, nil),
		events.NewMemoryEventBus(),
	)
	// must not panic or block
	svc.Stop()
}
