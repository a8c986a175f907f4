package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cutmatch/cutmatch-backend/internal/domain/entities"
	"github.com/cutmatch/cutmatch-backend/internal/domain/repositories"
	apperrors "github.com/cutmatch/cutmatch-backend/pkg/errors"
)

func TestMemoryListingAdapter_GetByID(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryListingAdapter(SampleListings())

	listing, err := adapter.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), listing.ID)
	assert.Contains(t, listing.SearchableText, "ボブカット練習モデル募集")

	_, err = adapter.GetByID(ctx, 999)
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}

func TestMemoryListingAdapter_ListFilterAndPagination(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryListingAdapter(SampleListings())

	all, err := adapter.List(ctx, repositories.ListingFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	page, err := adapter.List(ctx, repositories.ListingFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(2), page[0].ID)
	assert.Equal(t, int64(3), page[1].ID)

	none, err := adapter.List(ctx, repositories.ListingFilter{Status: entities.StatusClosed})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryListingAdapter_SnapshotIsSortedCopy(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryListingAdapter(SampleListings())

	corpus, err := adapter.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, corpus, 3)
	assert.Equal(t, int64(1), corpus[0].ID)
	assert.Equal(t, int64(3), corpus[2].ID)

	// Mutating the snapshot must not affect the store
	corpus[0].Title = "changed"
	fresh, err := adapter.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.NotEqual(t, "changed", fresh.Title)
}

func TestMemoryListingAdapter_UpsertDelete(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryListingAdapter(nil)

	require.NoError(t, adapter.Upsert(ctx, entities.Listing{
		ID:          7,
		Title:       "パーマモデル募集",
		Description: "新宿のサロンです",
		Status:      entities.StatusRecruiting,
	}))

	listing, err := adapter.GetByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "パーマモデル募集 新宿のサロンです", listing.SearchableText)

	require.NoError(t, adapter.Delete(ctx, 7))
	_, err = adapter.GetByID(ctx, 7)
	assert.Error(t, err)
}
