package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"

	"github.com/cutmatch/cutmatch-backend/internal/domain/entities"
	"github.com/cutmatch/cutmatch-backend/internal/domain/repositories"
	"github.com/cutmatch/cutmatch-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/cutmatch/cutmatch-backend/pkg/errors"
)

// ListingAdapter implements ListingRepository on Postgres. It is the
// corpus source for deployments where listings outlive the process; the
// engine still works on in-memory snapshots taken from here.
type ListingAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewListingAdapter creates a new Postgres-backed listing adapter
func NewListingAdapter(client *postgres.Client) repositories.ListingRepository {
	return &ListingAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var listingColumns = []interface{}{
	"id", "title", "description",
	"station", "address", "prefecture", "distance_km", "latitude", "longitude",
	"price", "original_price", "services", "keywords",
	"rating", "review_count",
	"assistant_name", "assistant_experience", "salon_name", "salon_rating",
	"status", "urgency", "posted_at",
	"available_dates", "available_times", "requirements",
	"model_count", "applied_count", "duration_minutes",
}

// GetByID retrieves a single listing
func (a *ListingAdapter) GetByID(ctx context.Context, id int64) (*entities.Listing, error) {
	query, args, err := a.db.From("listings").
		Select(listingColumns...).
		Where(goqu.C("id").Eq(id)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build listing query", err)
	}

	row := a.client.DB().QueryRowContext(ctx, query, args...)
	listing, err := scanListing(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("listing %d not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get listing", err)
	}
	return listing, nil
}

// List retrieves listings matching the filter, ordered by id
func (a *ListingAdapter) List(ctx context.Context, filter repositories.ListingFilter) ([]*entities.Listing, error) {
	ds := a.db.From("listings").
		Select(listingColumns...).
		Order(goqu.C("id").Asc())

	if filter.Status != "" {
		ds = ds.Where(goqu.C("status").Eq(filter.Status))
	}
	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build listing list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list listings", err)
	}
	defer rows.Close()

	var listings []*entities.Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan listing", err)
		}
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate listings", err)
	}
	return listings, nil
}

// Snapshot returns the full corpus for an engine swap
func (a *ListingAdapter) Snapshot(ctx context.Context) ([]entities.Listing, error) {
	listings, err := a.List(ctx, repositories.ListingFilter{})
	if err != nil {
		return nil, err
	}

	corpus := make([]entities.Listing, len(listings))
	for i, listing := range listings {
		corpus[i] = *listing
	}
	return corpus, nil
}

// scanTarget is satisfied by both *sql.Row and *sql.Rows
type scanTarget interface {
	Scan(dest ...interface{}) error
}

func scanListing(row scanTarget) (*entities.Listing, error) {
	var listing entities.Listing

	err := row.Scan(
		&listing.ID,
		&listing.Title,
		&listing.Description,
		&listing.Location.Station,
		&listing.Location.Address,
		&listing.Location.Prefecture,
		&listing.Location.DistanceKm,
		&listing.Location.Latitude,
		&listing.Location.Longitude,
		&listing.Price,
		&listing.OriginalPrice,
		pq.Array(&listing.Services),
		pq.Array(&listing.Keywords),
		&listing.Rating,
		&listing.ReviewCount,
		&listing.Assistant.Name,
		&listing.Assistant.ExperienceLevel,
		&listing.Salon.Name,
		&listing.Salon.Rating,
		&listing.Status,
		&listing.Urgency,
		&listing.PostedAt,
		pq.Array(&listing.AvailableDates),
		pq.Array(&listing.AvailableTimes),
		pq.Array(&listing.Requirements),
		&listing.ModelCount,
		&listing.AppliedCount,
		&listing.DurationMinutes,
	)
	if err != nil {
		return nil, err
	}

	// The searchable blob is derived, not stored
	listing.SearchableText = BuildSearchableText(listing)
	return &listing, nil
}
