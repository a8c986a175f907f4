package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cutmatch/cutmatch-backend/internal/adapters/analytics"
	"github.com/cutmatch/cutmatch-backend/internal/adapters/cache"
	"github.com/cutmatch/cutmatch-backend/internal/adapters/database"
	"github.com/cutmatch/cutmatch-backend/internal/adapters/events"
	"github.com/cutmatch/cutmatch-backend/internal/domain/entities"
	"github.com/cutmatch/cutmatch-backend/internal/domain/providers"
)

type searchServiceFixture struct {
	service *SearchService
	events  *analytics.MemoryAdapter
	bus     providers.EventBus
}

func newSearchServiceFixture(t *testing.T) *searchServiceFixture {
	t.Helper()

	store := analytics.NewMemoryAdapter(1000)
	listings := database.NewMemoryListingAdapter(engineCorpus())
	bus := events.NewMemoryEventBus()
	t.Cleanup(func() { _ = bus.Close() })

	service := NewSearchService(
		NewSearchEngineService(engineCorpus()),
		NewSearchCacheService(cache.NewMemoryAdapter(), 300, nil),
		NewSearchHistoryService(100),
		NewSearchAnalyticsService(store, nil),
		listings,
		bus,
		nil,
	)
	return &searchServiceFixture{service: service, events: store, bus: bus}
}

func waitForEvents(t *testing.T, store *analytics.MemoryAdapter, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return store.Len() >= want
	}, 2*time.Second, 5*time.Millisecond)
}

func TestSearchService_SearchMissThenHit(t *testing.T) {
	fx := newSearchServiceFixture(t)
	ctx := context.Background()
	req := SearchRequest{
		Query:     entities.SearchQuery{Query: "カット"},
		SessionID: "s1",
		Source:    entities.SourceSearchBox,
	}

	first, err := fx.service.Search(ctx, req)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.NotEmpty(t, first.SearchEventID)
	require.NotNil(t, first.Result)
	assert.Positive(t, first.Result.Total)

	second, err := fx.service.Search(ctx, req)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Zero(t, second.Result.SearchTimeMs, "cache hits report zero search time")
	assert.Equal(t, first.Result.Total, second.Result.Total)
	assert.NotEqual(t, first.SearchEventID, second.SearchEventID, "every search gets its own event")

	waitForEvents(t, fx.events, 2)
}

func TestSearchService_TrackedEventCarriesContext(t *testing.T) {
	fx := newSearchServiceFixture(t)
	ctx := context.Background()

	resp, err := fx.service.Search(ctx, SearchRequest{
		Query:      entities.SearchQuery{Query: "パーマ"},
		SessionID:  "session-7",
		UserID:     "user-9",
		Source:     entities.SourceSuggestion,
		DeviceType: "mobile",
		Location:   "大阪府",
	})
	require.NoError(t, err)
	waitForEvents(t, fx.events, 1)

	logged, err := fx.events.Events(ctx)
	require.NoError(t, err)
	require.Len(t, logged, 1)
	event := logged[0]
	assert.Equal(t, resp.SearchEventID, event.ID)
	assert.Equal(t, "session-7", event.SessionID)
	assert.Equal(t, "user-9", event.UserID)
	assert.Equal(t, entities.SourceSuggestion, event.Source)
	assert.Equal(t, "mobile", event.DeviceType)
	assert.Equal(t, "大阪府", event.Location)
	assert.Equal(t, resp.Result.Total, event.ResultCount)
}

func TestSearchService_ZeroResultSearchIsTracked(t *testing.T) {
	fx := newSearchServiceFixture(t)
	ctx := context.Background()

	resp, err := fx.service.Search(ctx, SearchRequest{
		Query:     entities.SearchQuery{Query: "該当なしの検索文字列"},
		SessionID: "s1",
	})
	require.NoError(t, err)
	assert.Zero(t, resp.Result.Total)

	waitForEvents(t, fx.events, 1)
	logged, err := fx.events.Events(ctx)
	require.NoError(t, err)
	assert.True(t, logged[0].NoResults)
	assert.Zero(t, logged[0].ResultCount)
}

func TestSearchService_ClickRoundTrip(t *testing.T) {
	fx := newSearchServiceFixture(t)
	ctx := context.Background()

	resp, err := fx.service.Search(ctx, SearchRequest{
		Query:     entities.SearchQuery{Query: "カット"},
		SessionID: "s1",
	})
	require.NoError(t, err)
	waitForEvents(t, fx.events, 1)

	require.NoError(t, fx.service.TrackClick(ctx, resp.SearchEventID, 1, 0))

	logged, err := fx.events.Events(ctx)
	require.NoError(t, err)
	require.Len(t, logged, 1)
	require.Len(t, logged[0].ClickedResults, 1)
	assert.Equal(t, int64(1), logged[0].ClickedResults[0].ItemID)
}

func TestSearchService_TrackClickRequiresEventID(t *testing.T) {
	fx := newSearchServiceFixture(t)

	err := fx.service.TrackClick(context.Background(), "", 1, 0)
	assert.Error(t, err)
}

func TestSearchService_SearchFeedsHistory(t *testing.T) {
	fx := newSearchServiceFixture(t)
	ctx := context.Background()

	_, err := fx.service.Search(ctx, SearchRequest{Query: entities.SearchQuery{Query: "ボブ"}, SessionID: "s1"})
	require.NoError(t, err)

	recent := fx.service.RecentSearches(ctx, 5)
	require.Len(t, recent, 1)
	assert.Equal(t, "ボブ", recent[0].Query)
}

func TestSearchService_ReindexSwapsCorpusAndDropsCache(t *testing.T) {
	fx := newSearchServiceFixture(t)
	ctx := context.Background()
	req := SearchRequest{Query: entities.SearchQuery{Query: "カット"}, SessionID: "s1"}

	sub, err := fx.bus.Subscribe(ctx, providers.EventChannelListingUpdates)
	require.NoError(t, err)

	before, err := fx.service.Search(ctx, req)
	require.NoError(t, err)
	assert.False(t, before.Cached)

	count, err := fx.service.Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count, "corpus reloaded from the listing store")

	select {
	case event := <-sub:
		assert.Equal(t, entities.ListingEventReindex, event.EventType)
	case <-time.After(time.Second):
		t.Fatal("expected a reindex event on the bus")
	}

	after, err := fx.service.Search(ctx, req)
	require.NoError(t, err)
	assert.False(t, after.Cached, "reindex invalidates cached results")
}
