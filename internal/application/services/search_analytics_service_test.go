package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cutmatch/cutmatch-backend/internal/adapters/analytics"
	"github.com/cutmatch/cutmatch-backend/internal/domain/entities"
)

func newTestAnalytics(t *testing.T) *SearchAnalyticsService {
	t.Helper()
	return NewSearchAnalyticsService(analytics.NewMemoryAdapter(1000), nil)
}

func trackAt(t *testing.T, svc *SearchAnalyticsService, at time.Time, event entities.SearchEvent) *entities.SearchEvent {
	t.Helper()
	svc.now = func() time.Time { return at }
	require.NoError(t, svc.TrackSearch(context.Background(), &event))
	return &event
}

func TestAnalytics_TrackSearchAssignsIdentity(t *testing.T) {
	svc := newTestAnalytics(t)

	event := &entities.SearchEvent{Query: "カット", SessionID: "s1", ResultCount: 0}
	require.NoError(t, svc.TrackSearch(context.Background(), event))

	assert.NotEmpty(t, event.ID)
	assert.False(t, event.Timestamp.IsZero())
	assert.True(t, event.NoResults, "zero results flags the event")
}

func TestAnalytics_TrackSearchKeepsCallerID(t *testing.T) {
	svc := newTestAnalytics(t)

	event := &entities.SearchEvent{ID: "fixed-id", Query: "カット", SessionID: "s1", ResultCount: 2}
	require.NoError(t, svc.TrackSearch(context.Background(), event))

	assert.Equal(t, "fixed-id", event.ID)
	assert.False(t, event.NoResults)
}

func TestAnalytics_TrackClickOnUnknownEventIsNoop(t *testing.T) {
	svc := newTestAnalytics(t)

	assert.NoError(t, svc.TrackClick(context.Background(), "never-logged", 1, 0))
}

func TestAnalytics_PopularKeywords(t *testing.T) {
	svc := newTestAnalytics(t)
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 3; i++ {
		event := trackAt(t, svc, now, entities.SearchEvent{
			Query: "ボブ カット", SessionID: "s1", ResultCount: 5,
		})
		if i == 0 {
			require.NoError(t, svc.TrackClick(ctx, event.ID, 1, 0))
		}
	}
	trackAt(t, svc, now, entities.SearchEvent{Query: "パーマ", SessionID: "s2", ResultCount: 1})
	// outside the timeframe
	trackAt(t, svc, now.Add(-48*time.Hour), entities.SearchEvent{Query: "カラー", SessionID: "s3", ResultCount: 1})

	svc.now = func() time.Time { return now }
	popular, err := svc.GetPopularKeywords(ctx, 24*time.Hour, 10)
	require.NoError(t, err)

	require.Len(t, popular, 3)
	assert.Equal(t, "カット", popular[0].Keyword, "count ties break alphabetically")
	assert.Equal(t, 3, popular[0].Count)
	assert.InDelta(t, 1.0/3.0, popular[0].ClickThroughRate, 1e-9)
	assert.Equal(t, "ボブ", popular[1].Keyword)

	for _, kw := range popular {
		assert.NotEqual(t, "カラー", kw.Keyword, "stale events fall outside the window")
	}
}

func TestAnalytics_TrendGrowthRates(t *testing.T) {
	svc := newTestAnalytics(t)
	ctx := context.Background()
	now := time.Now()
	previous := now.Add(-36 * time.Hour)

	// カット: 2 previous, 4 current -> +100%
	for i := 0; i < 2; i++ {
		trackAt(t, svc, previous, entities.SearchEvent{Query: "カット", SessionID: "s1", ResultCount: 1})
	}
	for i := 0; i < 4; i++ {
		trackAt(t, svc, now, entities.SearchEvent{Query: "カット", SessionID: "s1", ResultCount: 1})
	}
	// ボブ: new this period -> 100
	trackAt(t, svc, now, entities.SearchEvent{Query: "ボブ", SessionID: "s2", ResultCount: 1})
	// パーマ: flat -> 0
	trackAt(t, svc, previous, entities.SearchEvent{Query: "パーマ", SessionID: "s3", ResultCount: 1})
	trackAt(t, svc, now, entities.SearchEvent{Query: "パーマ", SessionID: "s3", ResultCount: 1})

	svc.now = func() time.Time { return now.Add(time.Minute) }
	trends, err := svc.GetTrends(ctx, 24*time.Hour)
	require.NoError(t, err)

	rates := make(map[string]float64, len(trends))
	for _, trend := range trends {
		rates[trend.Keyword] = trend.GrowthRate
	}
	assert.Equal(t, 100.0, rates["カット"])
	assert.Equal(t, 100.0, rates["ボブ"])
	assert.Equal(t, 0.0, rates["パーマ"])

	assert.Greater(t, rates[trends[0].Keyword], rates[trends[len(trends)-1].Keyword]-1,
		"sorted by growth rate descending")
}

func TestAnalytics_TrendCategoriesAndRelatedTerms(t *testing.T) {
	svc := newTestAnalytics(t)
	ctx := context.Background()
	now := time.Now()

	trackAt(t, svc, now, entities.SearchEvent{Query: "カット モデル", SessionID: "s1", ResultCount: 1})
	trackAt(t, svc, now, entities.SearchEvent{Query: "カット 渋谷", SessionID: "s1", ResultCount: 1})

	svc.now = func() time.Time { return now.Add(time.Minute) }
	trends, err := svc.GetTrends(ctx, 24*time.Hour)
	require.NoError(t, err)

	var cut *entities.SearchTrend
	for i := range trends {
		if trends[i].Keyword == "カット" {
			cut = &trends[i]
		}
	}
	require.NotNil(t, cut)
	assert.Equal(t, "services", cut.Category)
	assert.ElementsMatch(t, []string{"モデル", "渋谷"}, cut.RelatedTerms)
}

func TestAnalytics_CategorizeFallsBackToOther(t *testing.T) {
	assert.Equal(t, "other", categorize("xyz"))
	assert.Equal(t, "locations", categorize("渋谷駅"))
	assert.Equal(t, "styles", categorize("ボブ"))
}

func TestAnalytics_LowPerformingQueries(t *testing.T) {
	svc := newTestAnalytics(t)
	ctx := context.Background()
	now := time.Now()

	// five zero-result searches for the same query
	for i := 0; i < 5; i++ {
		trackAt(t, svc, now, entities.SearchEvent{Query: "存在しない髪型", SessionID: "s1", ResultCount: 0})
	}
	// five searches with results but no clicks
	for i := 0; i < 5; i++ {
		trackAt(t, svc, now, entities.SearchEvent{Query: "カット", SessionID: "s2", ResultCount: 8})
	}
	// below the occurrence threshold
	for i := 0; i < 4; i++ {
		trackAt(t, svc, now, entities.SearchEvent{Query: "パーマ", SessionID: "s3", ResultCount: 0})
	}

	low, err := svc.GetLowPerformingQueries(ctx, 10)
	require.NoError(t, err)

	require.Len(t, low, 2)
	assert.Equal(t, "存在しない髪型", low[0].Query, "zero-result query sorts first")
	assert.Zero(t, low[0].AvgResultCount)
	assert.Equal(t, 5, low[0].Count)
	assert.Equal(t, "カット", low[1].Query)
	assert.Equal(t, 8.0, low[1].AvgResultCount)
}

func TestAnalytics_BehaviorInsights(t *testing.T) {
	svc := newTestAnalytics(t)
	ctx := context.Background()
	base := time.Now()

	// session s1: "カット" refined to "カット モデル", second query clicked
	trackAt(t, svc, base, entities.SearchEvent{Query: "カット", SessionID: "s1", ResultCount: 3})
	refined := trackAt(t, svc, base.Add(10*time.Second), entities.SearchEvent{
		Query: "カット モデル", SessionID: "s1", ResultCount: 2,
	})
	svc.now = func() time.Time { return base.Add(12 * time.Second) }
	require.NoError(t, svc.TrackClick(ctx, refined.ID, 7, 0))

	// session s2: a single abandoned zero-result query
	trackAt(t, svc, base, entities.SearchEvent{Query: "レアな検索", SessionID: "s2", ResultCount: 0})

	insights, err := svc.GetUserBehaviorInsights(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, insights.SessionCount)
	assert.InDelta(t, 1.5, insights.AvgQueriesPerSession, 1e-9)
	assert.InDelta(t, 2000, insights.AvgTimeToClickMs, 1.0)
	assert.Equal(t, 1.0, insights.RefinementRate, "token superset counts as refinement")
	assert.InDelta(t, 1.0/3.0, insights.AbandonmentRate, 1e-9)
}

func TestAnalytics_BehaviorInsightsEmptyBuffer(t *testing.T) {
	svc := newTestAnalytics(t)

	insights, err := svc.GetUserBehaviorInsights(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &entities.BehaviorInsights{}, insights)
}

func TestAnalytics_FilterSupersetCountsAsRefinement(t *testing.T) {
	prev := entities.SearchEvent{
		Query:   "表参道",
		Filters: entities.SearchQuery{Location: "表参道"},
	}
	cur := entities.SearchEvent{
		Query:   "銀座",
		Filters: entities.SearchQuery{Location: "銀座", PriceMax: 2000},
	}
	assert.True(t, isRefinement(prev, cur))
}

func TestAnalytics_GeographicTrends(t *testing.T) {
	svc := newTestAnalytics(t)
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 3; i++ {
		trackAt(t, svc, now, entities.SearchEvent{
			Query: "カット モデル", SessionID: "s1", ResultCount: 1, Location: "東京都",
		})
	}
	trackAt(t, svc, now, entities.SearchEvent{
		Query: "パーマ", SessionID: "s2", ResultCount: 1, Location: "大阪府",
	})
	trackAt(t, svc, now, entities.SearchEvent{
		Query: "ノーロケーション", SessionID: "s3", ResultCount: 1,
	})

	trends, err := svc.GetGeographicTrends(ctx)
	require.NoError(t, err)

	require.Len(t, trends, 2)
	assert.Equal(t, "東京都", trends[0].Prefecture, "busiest region first")
	assert.Equal(t, 3, trends[0].SearchCount)
	assert.Equal(t, []string{"カット", "モデル"}, trends[0].TopKeywords)
	assert.Equal(t, trends[0].TopKeywords[:2], trends[0].UniquePreferences)
}

func TestAnalytics_SeasonalTrends(t *testing.T) {
	svc := newTestAnalytics(t)
	ctx := context.Background()

	march := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	august := time.Date(2026, time.August, 10, 12, 0, 0, 0, time.UTC)

	trackAt(t, svc, march, entities.SearchEvent{Query: "カラー", SessionID: "s1", ResultCount: 1})
	trackAt(t, svc, august, entities.SearchEvent{Query: "カラー", SessionID: "s1", ResultCount: 1})
	trackAt(t, svc, august, entities.SearchEvent{Query: "カラー", SessionID: "s2", ResultCount: 1})

	trends, err := svc.GetSeasonalTrends(ctx)
	require.NoError(t, err)

	require.Len(t, trends, 1)
	trend := trends[0]
	assert.Equal(t, "カラー", trend.Keyword)
	assert.Equal(t, time.August, trend.PeakMonth)
	assert.Equal(t, 1, trend.MonthlyCounts[int(time.March)-1])
	assert.Equal(t, 2, trend.MonthlyCounts[int(time.August)-1])
}

func TestAnalytics_ImprovementSuggestions(t *testing.T) {
	svc := newTestAnalytics(t)
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 5; i++ {
		trackAt(t, svc, now, entities.SearchEvent{Query: "謎の検索", SessionID: "s1", ResultCount: 0})
	}
	for i := 0; i < 5; i++ {
		trackAt(t, svc, now, entities.SearchEvent{Query: "カット", SessionID: "s2", ResultCount: 10})
	}

	suggestions, err := svc.GetSearchImprovementSuggestions(ctx)
	require.NoError(t, err)

	require.Len(t, suggestions, 2)
	byQuery := make(map[string]entities.ImprovementSuggestion, len(suggestions))
	for _, suggestion := range suggestions {
		byQuery[suggestion.Query] = suggestion
	}
	assert.Equal(t, entities.ImpactHigh, byQuery["謎の検索"].Impact)
	assert.Equal(t, entities.ImpactMedium, byQuery["カット"].Impact)
}

func TestAnalytics_AggregatesToleratesEmptyBuffer(t *testing.T) {
	svc := newTestAnalytics(t)
	ctx := context.Background()

	popular, err := svc.GetPopularKeywords(ctx, time.Hour, 5)
	require.NoError(t, err)
	assert.Empty(t, popular)

	trends, err := svc.GetTrends(ctx, time.Hour)
	require.NoError(t, err)
	assert.Empty(t, trends)

	low, err := svc.GetLowPerformingQueries(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, low)

	geo, err := svc.GetGeographicTrends(ctx)
	require.NoError(t, err)
	assert.Empty(t, geo)

	seasonal, err := svc.GetSeasonalTrends(ctx)
	require.NoError(t, err)
	assert.Empty(t, seasonal)
}

func TestAnalytics_EvictionPastCapacity(t *testing.T) {
	svc := NewSearchAnalyticsService(analytics.NewMemoryAdapter(3), nil)
	ctx := context.Background()

	var first *entities.SearchEvent
	for i := 0; i < 5; i++ {
		event := &entities.SearchEvent{Query: fmt.Sprintf("query-%d", i), SessionID: "s1", ResultCount: 1}
		require.NoError(t, svc.TrackSearch(ctx, event))
		if i == 0 {
			first = event
		}
	}

	// clicking the evicted event neither errors nor resurrects it
	require.NoError(t, svc.TrackClick(ctx, first.ID, 1, 0))

	low, err := svc.GetLowPerformingQueries(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, low, "no query reaches the occurrence threshold")
}
