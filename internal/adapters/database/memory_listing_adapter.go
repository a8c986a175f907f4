package database

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/cutmatch/cutmatch-backend/internal/domain/entities"
	"github.com/cutmatch/cutmatch-backend/internal/domain/repositories"
	apperrors "github.com/cutmatch/cutmatch-backend/pkg/errors"
)

// MemoryListingAdapter implements ListingRepository over an in-process
// map. It is the mock listing store the reference deployment runs on and
// the fixture source for tests.
type MemoryListingAdapter struct {
	mu       sync.RWMutex
	listings map[int64]entities.Listing
}

// NewMemoryListingAdapter creates a listing store seeded with the given
// corpus. SearchableText is derived from title and description when the
// seed leaves it empty.
func NewMemoryListingAdapter(seed []entities.Listing) *MemoryListingAdapter {
	listings := make(map[int64]entities.Listing, len(seed))
	for _, listing := range seed {
		if listing.SearchableText == "" {
			listing.SearchableText = BuildSearchableText(listing)
		}
		listings[listing.ID] = listing
	}
	return &MemoryListingAdapter{listings: listings}
}

// BuildSearchableText precomputes the full-text blob matched by the
// search engine so it is never re-concatenated per query.
func BuildSearchableText(listing entities.Listing) string {
	return strings.ToLower(strings.TrimSpace(listing.Title + " " + listing.Description))
}

// GetByID retrieves a single listing
func (a *MemoryListingAdapter) GetByID(ctx context.Context, id int64) (*entities.Listing, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	listing, ok := a.listings[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("listing %d not found", id))
	}
	return &listing, nil
}

// List retrieves listings matching the filter, ordered by id
func (a *MemoryListingAdapter) List(ctx context.Context, filter repositories.ListingFilter) ([]*entities.Listing, error) {
	a.mu.RLock()
	matched := make([]entities.Listing, 0, len(a.listings))
	for _, listing := range a.listings {
		if filter.Status != "" && listing.Status != filter.Status {
			continue
		}
		matched = append(matched, listing)
	}
	a.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[filter.Offset:]
		}
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}

	result := make([]*entities.Listing, len(matched))
	for i := range matched {
		listing := matched[i]
		result[i] = &listing
	}
	return result, nil
}

// Snapshot returns the full corpus for an engine swap
func (a *MemoryListingAdapter) Snapshot(ctx context.Context) ([]entities.Listing, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	corpus := make([]entities.Listing, 0, len(a.listings))
	for _, listing := range a.listings {
		corpus = append(corpus, listing)
	}
	sort.Slice(corpus, func(i, j int) bool { return corpus[i].ID < corpus[j].ID })
	return corpus, nil
}

// Upsert stores a listing, replacing any existing snapshot with the same
// id. Callers are expected to follow up with a corpus swap and cache
// invalidation.
func (a *MemoryListingAdapter) Upsert(ctx context.Context, listing entities.Listing) error {
	if listing.SearchableText == "" {
		listing.SearchableText = BuildSearchableText(listing)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.listings[listing.ID] = listing
	return nil
}

// Delete removes a listing
func (a *MemoryListingAdapter) Delete(ctx context.Context, id int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.listings, id)
	return nil
}
