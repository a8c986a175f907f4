package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchHistory_AddAndRecent(t *testing.T) {
	history := NewSearchHistoryService(10)
	ctx := context.Background()

	history.Add(ctx, "カット", 3)
	history.Add(ctx, "カラー", 0)
	history.Add(ctx, "パーマ", 1)

	recent := history.Recent(ctx, 2)
	require.Len(t, recent, 2)
	assert.Equal(t, "パーマ", recent[0].Query, "newest first")
	assert.Equal(t, "カラー", recent[1].Query)
	assert.Equal(t, 0, recent[1].ResultCount)
	assert.False(t, recent[0].Timestamp.IsZero())
}

func TestSearchHistory_IgnoresBlankQueries(t *testing.T) {
	history := NewSearchHistoryService(10)
	ctx := context.Background()

	history.Add(ctx, "", 5)
	history.Add(ctx, "   ", 5)

	assert.Zero(t, history.Len())
}

func TestSearchHistory_CapacityEvictsOldestFirst(t *testing.T) {
	history := NewSearchHistoryService(3)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		history.Add(ctx, fmt.Sprintf("query-%d", i), i)
	}

	assert.Equal(t, 3, history.Len())

	recent := history.Recent(ctx, 10)
	require.Len(t, recent, 3)
	assert.Equal(t, "query-5", recent[0].Query)
	assert.Equal(t, "query-3", recent[2].Query, "query-1 and query-2 were evicted")
}

func TestSearchHistory_Popular(t *testing.T) {
	history := NewSearchHistoryService(20)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		history.Add(ctx, "カット", 2)
	}
	for i := 0; i < 2; i++ {
		history.Add(ctx, "カラー", 1)
	}
	history.Add(ctx, "パーマ", 1)

	popular := history.Popular(ctx, 2)
	require.Len(t, popular, 2)
	assert.Equal(t, PopularSearch{Query: "カット", Count: 3}, popular[0])
	assert.Equal(t, PopularSearch{Query: "カラー", Count: 2}, popular[1])
}

func TestSearchHistory_PopularTiesAreStable(t *testing.T) {
	history := NewSearchHistoryService(20)
	ctx := context.Background()

	history.Add(ctx, "b-query", 1)
	history.Add(ctx, "a-query", 1)

	popular := history.Popular(ctx, 10)
	require.Len(t, popular, 2)
	assert.Equal(t, "a-query", popular[0].Query)
}
