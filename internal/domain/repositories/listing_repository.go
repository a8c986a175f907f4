package repositories

import (
	"context"

	"github.com/cutmatch/cutmatch-backend/internal/domain/entities"
)

// ListingFilter narrows listing list queries.
type ListingFilter struct {
	Status string
	Limit  int
	Offset int
}

// ListingRepository supplies recruitment listings to the search engine.
// The engine consumes the corpus via Snapshot; per-listing reads serve
// the passthrough HTTP endpoints.
type ListingRepository interface {
	// GetByID retrieves a single listing
	GetByID(ctx context.Context, id int64) (*entities.Listing, error)

	// List retrieves listings matching the filter
	List(ctx context.Context, filter ListingFilter) ([]*entities.Listing, error)

	// Snapshot returns the full corpus for an engine swap
	Snapshot(ctx context.Context) ([]entities.Listing, error)
}
