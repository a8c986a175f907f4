package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// HistoryEntry is one logged search: the raw query text, how many
// listings it matched and when it ran.
type HistoryEntry struct {
	Query       string    `json:"query"`
	ResultCount int       `json:"result_count"`
	Timestamp   time.Time `json:"timestamp"`
}

// PopularSearch aggregates history entries sharing the same query text
type PopularSearch struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// SearchHistoryService keeps a bounded rolling log of issued queries.
// It is a cheap source for recent/popular search suggestions that does
// not require the full analytics pipeline. Capacity eviction drops the
// oldest entry first; there is no other deletion.
type SearchHistoryService struct {
	mu       sync.Mutex
	entries  []HistoryEntry
	capacity int
}

const defaultHistoryCapacity = 100

// NewSearchHistoryService creates a history log holding up to capacity
// entries. Non-positive capacities fall back to the default.
func NewSearchHistoryService(capacity int) *SearchHistoryService {
	if capacity <= 0 {
		capacity = defaultHistoryCapacity
	}
	return &SearchHistoryService{
		entries:  make([]HistoryEntry, 0, capacity),
		capacity: capacity,
	}
}

// Add appends one search to the log. Blank queries are not recorded;
// filter-only searches carry no reusable text.
func (s *SearchHistoryService) Add(ctx context.Context, query string, resultCount int) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, HistoryEntry{
		Query:       query,
		ResultCount: resultCount,
		Timestamp:   time.Now(),
	})
	if len(s.entries) > s.capacity {
		s.entries = s.entries[len(s.entries)-s.capacity:]
	}
}

// Recent returns up to limit entries, newest first
func (s *SearchHistoryService) Recent(ctx context.Context, limit int) []HistoryEntry {
	if limit <= 0 {
		limit = defaultHistoryCapacity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.entries)
	if limit > n {
		limit = n
	}
	recent := make([]HistoryEntry, limit)
	for i := 0; i < limit; i++ {
		recent[i] = s.entries[n-1-i]
	}
	return recent
}

// Popular returns the most frequent query texts currently in the log,
// ties broken alphabetically for a stable order.
func (s *SearchHistoryService) Popular(ctx context.Context, limit int) []PopularSearch {
	if limit <= 0 {
		limit = 10
	}

	s.mu.Lock()
	counts := make(map[string]int, len(s.entries))
	for _, entry := range s.entries {
		counts[entry.Query]++
	}
	s.mu.Unlock()

	popular := make([]PopularSearch, 0, len(counts))
	for query, count := range counts {
		popular = append(popular, PopularSearch{Query: query, Count: count})
	}
	sort.Slice(popular, func(i, j int) bool {
		if popular[i].Count != popular[j].Count {
			return popular[i].Count > popular[j].Count
		}
		return popular[i].Query < popular[j].Query
	})

	if limit < len(popular) {
		popular = popular[:limit]
	}
	return popular
}

// Len reports the number of retained entries
func (s *SearchHistoryService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
