package services

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/cutmatch/cutmatch-backend/internal/domain/entities"
	"github.com/cutmatch/cutmatch-backend/internal/domain/providers"
	"github.com/cutmatch/cutmatch-backend/internal/infrastructure/observability"
)

// searchCacheKeyPrefix namespaces all search result entries so pattern
// invalidation never touches unrelated cache keys.
const searchCacheKeyPrefix = "search:result:"

// SearchCacheService caches search result pages under a canonical key
// derived from the normalized query. Two queries with identical filter
// values always map to the same key, independent of field or slice order.
type SearchCacheService struct {
	cache      providers.CacheProvider
	ttlSeconds int
	metrics    *observability.Metrics
}

// NewSearchCacheService creates a search result cache with the given TTL.
// metrics may be nil.
func NewSearchCacheService(cache providers.CacheProvider, ttlSeconds int, metrics *observability.Metrics) *SearchCacheService {
	return &SearchCacheService{
		cache:      cache,
		ttlSeconds: ttlSeconds,
		metrics:    metrics,
	}
}

// Key builds the canonical cache key for a query. Slice-valued filters
// are sorted so key equality matches query-value equality, and fields
// are emitted in a fixed order. The key is kept human-readable rather
// than hashed so pattern invalidation can match on its parts.
func (s *SearchCacheService) Key(query entities.SearchQuery) string {
	q := query.Normalized()

	services := append([]string(nil), q.Services...)
	sort.Strings(services)
	requirements := append([]string(nil), q.Requirements...)
	sort.Strings(requirements)

	var b strings.Builder
	b.WriteString(searchCacheKeyPrefix)
	writeKeyPart(&b, "q", q.Query)
	writeKeyPart(&b, "loc", q.Location)
	writeKeyPart(&b, "svc", strings.Join(services, ","))
	writeKeyPart(&b, "pmin", itoa(q.PriceMin))
	writeKeyPart(&b, "pmax", itoa(q.PriceMax))
	writeKeyPart(&b, "rating", ftoa(q.Rating))
	writeKeyPart(&b, "status", q.Status)
	writeKeyPart(&b, "urgency", q.Urgency)
	writeKeyPart(&b, "exp", q.ExperienceLevel)
	writeKeyPart(&b, "date", q.AvailableDate)
	writeKeyPart(&b, "time", q.AvailableTime)
	writeKeyPart(&b, "dist", ftoa(q.MaxDistance))
	writeKeyPart(&b, "req", strings.Join(requirements, ","))
	writeKeyPart(&b, "sort", q.SortBy)
	writeKeyPart(&b, "order", q.SortOrder)
	writeKeyPart(&b, "limit", itoa(q.Limit))
	writeKeyPart(&b, "offset", itoa(q.Offset))
	return strings.TrimSuffix(b.String(), "|")
}

// Get returns the cached result for a query, or nil on a miss. Cache
// errors degrade to a miss; the caller recomputes.
func (s *SearchCacheService) Get(ctx context.Context, query entities.SearchQuery) *entities.SearchResult {
	key := s.Key(query)

	data, err := s.cache.Get(ctx, key)
	if err != nil || data == nil {
		observability.RecordCacheMiss(ctx, s.metrics)
		return nil
	}

	var result entities.SearchResult
	if err := json.Unmarshal(data, &result); err != nil {
		logger := observability.LoggerFromContext(ctx)
		logger.Warn().Err(err).Str("key", key).Msg("Discarding undecodable cache entry")
		_ = s.cache.Delete(ctx, key)
		observability.RecordCacheMiss(ctx, s.metrics)
		return nil
	}

	observability.RecordCacheHit(ctx, s.metrics)
	return &result
}

// Set stores a result page under the query's canonical key
func (s *SearchCacheService) Set(ctx context.Context, query entities.SearchQuery, result *entities.SearchResult) {
	if result == nil {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		return
	}

	key := s.Key(query)
	if err := s.cache.Set(ctx, key, data, s.ttlSeconds); err != nil {
		logger := observability.LoggerFromContext(ctx)
		logger.Warn().Err(err).Str("key", key).Msg("Failed to cache search result")
	}
}

// Invalidate removes cached results whose key contains the pattern.
// "*" or "" wipes the whole search result namespace. Patterns never
// reach outside the search:result: prefix.
func (s *SearchCacheService) Invalidate(ctx context.Context, pattern string) error {
	glob := searchCacheKeyPrefix + "*"
	if pattern != "" && pattern != "*" {
		glob = searchCacheKeyPrefix + "*" + pattern + "*"
	}

	if err := s.cache.DeletePattern(ctx, glob); err != nil {
		return err
	}

	logger := observability.LoggerFromContext(ctx)
	logger.Debug().Str("pattern", glob).Msg("Invalidated search result cache")
	return nil
}

func writeKeyPart(b *strings.Builder, name, value string) {
	b.WriteString(name)
	b.WriteString("=")
	b.WriteString(value)
	b.WriteString("|")
}

func itoa(v int) string {
	return strconv.Itoa(v)
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
