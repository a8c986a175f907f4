package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cutmatch/cutmatch-backend/internal/domain/entities"
	"github.com/cutmatch/cutmatch-backend/internal/domain/providers"
	"github.com/cutmatch/cutmatch-backend/internal/domain/repositories"
	"github.com/cutmatch/cutmatch-backend/internal/infrastructure/observability"
	"github.com/cutmatch/cutmatch-backend/pkg/errors"
)

// trackTimeout bounds the background analytics write spawned per search.
const trackTimeout = 5 * time.Second

// SearchRequest is one search call with its caller identity. The session
// id correlates searches and clicks into one analytics session.
type SearchRequest struct {
	Query      entities.SearchQuery
	SessionID  string
	UserID     string
	Source     string
	DeviceType string
	Location   string
}

// SearchResponse carries the result page plus the analytics event id the
// caller needs to report clicks against.
type SearchResponse struct {
	Result        *entities.SearchResult `json:"result"`
	SearchEventID string                 `json:"search_event_id"`
	Cached        bool                   `json:"cached"`
}

// SearchService is the façade over the engine, cache, history and
// analytics: consult the cache, fall through to the engine, store the
// page, log history and track the event in the background.
type SearchService struct {
	engine    *SearchEngineService
	cache     *SearchCacheService
	history   *SearchHistoryService
	analytics *SearchAnalyticsService
	listings  repositories.ListingRepository
	eventBus  providers.EventBus
	metrics   *observability.Metrics
}

// NewSearchService wires the search façade
func NewSearchService(
	engine *SearchEngineService,
	cache *SearchCacheService,
	history *SearchHistoryService,
	analytics *SearchAnalyticsService,
	listings repositories.ListingRepository,
	eventBus providers.EventBus,
	metrics *observability.Metrics,
) *SearchService {
	return &SearchService{
		engine:    engine,
		cache:     cache,
		history:   history,
		analytics: analytics,
		listings:  listings,
		eventBus:  eventBus,
		metrics:   metrics,
	}
}

// Search runs one search: cache hit or engine execution, then history and
// background analytics. Cache hits report zero search time and are still
// tracked.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	ctx, span := observability.StartSpan(ctx, "SearchService.Search")
	defer span.End()

	query := req.Query.Normalized()

	if cached := s.cache.Get(ctx, query); cached != nil {
		cached.SearchTimeMs = 0
		eventID := s.trackSearchAsync(ctx, req, query, cached)
		return &SearchResponse{Result: cached, SearchEventID: eventID, Cached: true}, nil
	}

	start := time.Now()
	result, err := s.engine.Search(ctx, query)
	if err != nil {
		return nil, errors.NewInternalError("search execution failed", err)
	}

	observability.RecordSearchMetric(ctx, s.metrics, query.SortBy, result.Total, time.Since(start))

	s.cache.Set(ctx, query, result)
	s.history.Add(ctx, query.Query, result.Total)

	eventID := s.trackSearchAsync(ctx, req, query, result)
	return &SearchResponse{Result: result, SearchEventID: eventID}, nil
}

// trackSearchAsync records the search event off the request path. The
// event id is assigned up front so the caller can correlate clicks
// without waiting for the analytics write.
func (s *SearchService) trackSearchAsync(ctx context.Context, req SearchRequest, query entities.SearchQuery, result *entities.SearchResult) string {
	event := &entities.SearchEvent{
		ID:           uuid.New().String(),
		UserID:       req.UserID,
		SessionID:    req.SessionID,
		Query:        query.Query,
		Filters:      query,
		ResultCount:  result.Total,
		SearchTimeMs: result.SearchTimeMs,
		Source:       req.Source,
		DeviceType:   req.DeviceType,
		Location:     req.Location,
	}

	logger := observability.LoggerFromContext(ctx)
	go func() {
		trackCtx, cancel := context.WithTimeout(context.Background(), trackTimeout)
		defer cancel()

		if err := s.analytics.TrackSearch(trackCtx, event); err != nil {
			logger.Warn().Err(err).Str("event_id", event.ID).Msg("Failed to track search event")
		}
	}()
	return event.ID
}

// TrackClick reports that a result was clicked. Unknown event ids are
// accepted and dropped; clicks are best-effort telemetry.
func (s *SearchService) TrackClick(ctx context.Context, searchEventID string, itemID int64, position int) error {
	if searchEventID == "" {
		return errors.NewValidationError("search_event_id is required")
	}
	return s.analytics.TrackClick(ctx, searchEventID, itemID, position)
}

// RecentSearches returns the newest history entries
func (s *SearchService) RecentSearches(ctx context.Context, limit int) []HistoryEntry {
	return s.history.Recent(ctx, limit)
}

// PopularSearches returns the most frequent recent query texts
func (s *SearchService) PopularSearches(ctx context.Context, limit int) []PopularSearch {
	return s.history.Popular(ctx, limit)
}

// GetListing returns one listing by id
func (s *SearchService) GetListing(ctx context.Context, id int64) (*entities.Listing, error) {
	return s.listings.GetByID(ctx, id)
}

// ListListings returns listings matching the filter without scoring
func (s *SearchService) ListListings(ctx context.Context, filter repositories.ListingFilter) ([]*entities.Listing, error) {
	return s.listings.List(ctx, filter)
}

// Reindex swaps the engine corpus from the listing store, drops every
// cached search result and announces the change on the event bus.
func (s *SearchService) Reindex(ctx context.Context) (int, error) {
	ctx, span := observability.StartSpan(ctx, "SearchService.Reindex")
	defer span.End()

	corpus, err := s.listings.Snapshot(ctx)
	if err != nil {
		return 0, errors.NewInternalError("failed to snapshot listings", err)
	}

	s.engine.ReplaceCorpus(corpus)

	if err := s.cache.Invalidate(ctx, "*"); err != nil {
		logger := observability.LoggerFromContext(ctx)
		logger.Warn().Err(err).Msg("Failed to invalidate search cache after reindex")
	}

	if s.eventBus != nil {
		event := &entities.ListingEvent{
			ID:         uuid.New().String(),
			EventType:  entities.ListingEventReindex,
			OccurredAt: time.Now(),
		}
		if err := s.eventBus.Publish(ctx, providers.EventChannelListingUpdates, event); err != nil {
			logger := observability.LoggerFromContext(ctx)
			logger.Warn().Err(err).Msg("Failed to publish reindex event")
		}
	}

	logger := observability.LoggerFromContext(ctx)
	logger.Info().Int("listings", len(corpus)).Msg("Search corpus reindexed")
	return len(corpus), nil
}
