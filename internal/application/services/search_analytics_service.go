package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cutmatch/cutmatch-backend/internal/domain/entities"
	"github.com/cutmatch/cutmatch-backend/internal/domain/repositories"
	"github.com/cutmatch/cutmatch-backend/internal/infrastructure/observability"
	"github.com/cutmatch/cutmatch-backend/pkg/keywords"
)

const (
	// lowPerformingMinOccurrences is the minimum number of times a query
	// must appear before it is judged low-performing. One-off queries are
	// noise.
	lowPerformingMinOccurrences = 5

	// lowCTRThreshold marks queries whose results exist but are rarely
	// clicked.
	lowCTRThreshold = 0.1

	// refinementSimilarity is the Jaccard threshold above which two
	// consecutive queries in a session count as a refinement.
	refinementSimilarity = 0.5

	maxRelatedTerms   = 5
	maxRegionKeywords = 5
	maxRegionUnique   = 3
)

// trendCategories maps keyword fragments to a coarse category. Checked
// in declaration order; the first matching fragment wins.
var trendCategories = []struct {
	category  string
	fragments []string
}{
	{"services", []string{"カット", "カラー", "パーマ", "トリートメント", "縮毛矯正", "ヘッドスパ", "セット"}},
	{"locations", []string{"渋谷", "新宿", "表参道", "原宿", "銀座", "梅田", "心斎橋", "東京", "大阪", "横浜", "名古屋", "福岡"}},
	{"styles", []string{"ボブ", "ショート", "ロング", "ミディアム", "レイヤー", "ウルフ", "マッシュ"}},
	{"techniques", []string{"バレイヤージュ", "ハイライト", "インナーカラー", "グラデーション", "ブリーチ"}},
	{"demographics", []string{"メンズ", "レディース", "学生", "キッズ", "ミセス"}},
}

// SearchAnalyticsService ingests search and click events and derives
// aggregate views on demand. Every aggregate method scans a snapshot of
// the bounded event buffer; sparse or empty data yields zero-valued
// structures, never an error.
type SearchAnalyticsService struct {
	events  repositories.SearchAnalyticsRepository
	metrics *observability.Metrics
	now     func() time.Time
}

// NewSearchAnalyticsService creates the analytics engine over the given
// event store. metrics may be nil.
func NewSearchAnalyticsService(events repositories.SearchAnalyticsRepository, metrics *observability.Metrics) *SearchAnalyticsService {
	return &SearchAnalyticsService{
		events:  events,
		metrics: metrics,
		now:     time.Now,
	}
}

// TrackSearch records one search interaction. Missing identifiers and
// timestamps are filled in; zero-result searches are flagged and logged
// as a lightweight real-time signal.
func (s *SearchAnalyticsService) TrackSearch(ctx context.Context, event *entities.SearchEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	event.NoResults = event.ResultCount == 0

	if err := s.events.LogEvent(ctx, event); err != nil {
		return err
	}

	observability.RecordTrackedEvent(ctx, s.metrics, event.Source)

	if event.NoResults && event.Query != "" {
		logger := observability.LoggerFromContext(ctx)
		logger.Info().
			Str("query", event.Query).
			Str("session_id", event.SessionID).
			Msg("Zero-result search")
	}
	return nil
}

// TrackClick appends a click to the originating search event. Clicks on
// evicted or unknown events are dropped silently; events are best-effort
// telemetry.
func (s *SearchAnalyticsService) TrackClick(ctx context.Context, searchEventID string, itemID int64, position int) error {
	return s.events.AppendClick(ctx, searchEventID, entities.ClickedResult{
		ItemID:    itemID,
		Position:  position,
		Timestamp: s.now(),
	})
}

type keywordStat struct {
	count  int
	clicks int
}

// GetPopularKeywords returns the most frequent query keywords within the
// timeframe, each with its aggregate click-through rate.
func (s *SearchAnalyticsService) GetPopularKeywords(ctx context.Context, timeframe time.Duration, limit int) ([]entities.PopularKeyword, error) {
	if limit <= 0 {
		limit = 10
	}

	events, err := s.events.EventsSince(ctx, s.now().Add(-timeframe))
	if err != nil {
		return nil, err
	}

	stats := make(map[string]*keywordStat)
	for _, event := range events {
		clicks := len(event.ClickedResults)
		for _, token := range keywords.Extract(event.Query) {
			stat, ok := stats[token]
			if !ok {
				stat = &keywordStat{}
				stats[token] = stat
			}
			stat.count++
			stat.clicks += clicks
		}
	}

	popular := make([]entities.PopularKeyword, 0, len(stats))
	for token, stat := range stats {
		popular = append(popular, entities.PopularKeyword{
			Keyword:          token,
			Count:            stat.count,
			ClickThroughRate: float64(stat.clicks) / float64(stat.count),
		})
	}
	sort.Slice(popular, func(i, j int) bool {
		if popular[i].Count != popular[j].Count {
			return popular[i].Count > popular[j].Count
		}
		return popular[i].Keyword < popular[j].Keyword
	})

	if limit < len(popular) {
		popular = popular[:limit]
	}
	return popular, nil
}

// GetTrends compares keyword frequency in the current timeframe against
// the immediately preceding period of equal length, sorted by growth
// rate descending.
func (s *SearchAnalyticsService) GetTrends(ctx context.Context, timeframe time.Duration) ([]entities.SearchTrend, error) {
	now := s.now()

	events, err := s.events.EventsSince(ctx, now.Add(-2*timeframe))
	if err != nil {
		return nil, err
	}

	periodStart := now.Add(-timeframe)
	current := make(map[string]int)
	previous := make(map[string]int)
	cooccur := make(map[string]map[string]int)

	for _, event := range events {
		tokens := keywords.Extract(event.Query)
		inCurrent := !event.Timestamp.Before(periodStart)
		for _, token := range tokens {
			if inCurrent {
				current[token]++
				related, ok := cooccur[token]
				if !ok {
					related = make(map[string]int)
					cooccur[token] = related
				}
				for _, other := range tokens {
					if other != token {
						related[other]++
					}
				}
			} else {
				previous[token]++
			}
		}
	}

	trends := make([]entities.SearchTrend, 0, len(current))
	for token, count := range current {
		trends = append(trends, entities.SearchTrend{
			Keyword:      token,
			Count:        count,
			GrowthRate:   growthRate(previous[token], count),
			Timeframe:    timeframe.String(),
			Category:     categorize(token),
			RelatedTerms: topRelated(cooccur[token], maxRelatedTerms),
		})
	}
	sort.Slice(trends, func(i, j int) bool {
		if trends[i].GrowthRate != trends[j].GrowthRate {
			return trends[i].GrowthRate > trends[j].GrowthRate
		}
		if trends[i].Count != trends[j].Count {
			return trends[i].Count > trends[j].Count
		}
		return trends[i].Keyword < trends[j].Keyword
	})
	return trends, nil
}

// growthRate computes the period-over-period change percentage. A
// keyword appearing from nothing grows 100%; absent in both periods is
// flat.
func growthRate(previous, current int) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return float64(current-previous) / float64(previous) * 100
}

func categorize(token string) string {
	for _, group := range trendCategories {
		for _, fragment := range group.fragments {
			if strings.Contains(token, fragment) {
				return group.category
			}
		}
	}
	return "other"
}

func topRelated(related map[string]int, limit int) []string {
	if len(related) == 0 {
		return nil
	}
	terms := make([]string, 0, len(related))
	for term := range related {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if related[terms[i]] != related[terms[j]] {
			return related[terms[i]] > related[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if limit < len(terms) {
		terms = terms[:limit]
	}
	return terms
}

// GetLowPerformingQueries surfaces queries that recur at least five
// times yet return few results or attract few clicks. Sorted by average
// result count ascending, then CTR ascending.
func (s *SearchAnalyticsService) GetLowPerformingQueries(ctx context.Context, limit int) ([]entities.LowPerformingQuery, error) {
	if limit <= 0 {
		limit = 10
	}

	events, err := s.events.Events(ctx)
	if err != nil {
		return nil, err
	}

	type queryStat struct {
		count   int
		results int
		clicks  int
	}
	stats := make(map[string]*queryStat)
	for _, event := range events {
		query := strings.ToLower(strings.TrimSpace(event.Query))
		if query == "" {
			continue
		}
		stat, ok := stats[query]
		if !ok {
			stat = &queryStat{}
			stats[query] = stat
		}
		stat.count++
		stat.results += event.ResultCount
		stat.clicks += len(event.ClickedResults)
	}

	low := make([]entities.LowPerformingQuery, 0, len(stats))
	for query, stat := range stats {
		if stat.count < lowPerformingMinOccurrences {
			continue
		}
		low = append(low, entities.LowPerformingQuery{
			Query:            query,
			Count:            stat.count,
			AvgResultCount:   float64(stat.results) / float64(stat.count),
			ClickThroughRate: float64(stat.clicks) / float64(stat.count),
		})
	}
	sort.Slice(low, func(i, j int) bool {
		if low[i].AvgResultCount != low[j].AvgResultCount {
			return low[i].AvgResultCount < low[j].AvgResultCount
		}
		if low[i].ClickThroughRate != low[j].ClickThroughRate {
			return low[i].ClickThroughRate < low[j].ClickThroughRate
		}
		return low[i].Query < low[j].Query
	})

	if limit < len(low) {
		low = low[:limit]
	}
	return low, nil
}

// GetUserBehaviorInsights reconstructs sessions from the event buffer
// and aggregates query, click and refinement behavior across them.
func (s *SearchAnalyticsService) GetUserBehaviorInsights(ctx context.Context) (*entities.BehaviorInsights, error) {
	events, err := s.events.Events(ctx)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return &entities.BehaviorInsights{}, nil
	}

	sessions := make(map[string][]entities.SearchEvent)
	for _, event := range events {
		sessions[event.SessionID] = append(sessions[event.SessionID], event)
	}

	var (
		clickCount    int
		timeToClickMs float64
		refined       int
		followUps     int
		abandoned     int
	)

	for _, event := range events {
		for _, click := range event.ClickedResults {
			clickCount++
			timeToClickMs += float64(click.Timestamp.Sub(event.Timestamp).Milliseconds())
		}
		if event.ResultCount == 0 && len(event.ClickedResults) == 0 {
			abandoned++
		}
	}

	for _, session := range sessions {
		sort.Slice(session, func(i, j int) bool {
			return session[i].Timestamp.Before(session[j].Timestamp)
		})
		for i := 1; i < len(session); i++ {
			followUps++
			if isRefinement(session[i-1], session[i]) {
				refined++
			}
		}
	}

	insights := &entities.BehaviorInsights{
		SessionCount:         len(sessions),
		AvgQueriesPerSession: float64(len(events)) / float64(len(sessions)),
		AbandonmentRate:      float64(abandoned) / float64(len(events)),
	}
	if clickCount > 0 {
		insights.AvgTimeToClickMs = timeToClickMs / float64(clickCount)
	}
	if followUps > 0 {
		insights.RefinementRate = float64(refined) / float64(followUps)
	}
	return insights, nil
}

// isRefinement judges whether cur reformulates prev: near-identical
// token sets, a strict token superset (the user typed more), or the same
// search with strictly more filters applied.
func isRefinement(prev, cur entities.SearchEvent) bool {
	prevTokens := keywords.Extract(prev.Query)
	curTokens := keywords.Extract(cur.Query)

	if keywords.Jaccard(prevTokens, curTokens) > refinementSimilarity {
		return true
	}
	if keywords.IsSuperset(curTokens, prevTokens) {
		return true
	}
	return keywords.IsSuperset(cur.Filters.ActiveFilters(), prev.Filters.ActiveFilters())
}

// GetGeographicTrends breaks searches down by the caller-supplied
// region. Unique preferences are the region's own top keywords; true
// cross-region uniqueness is out of scope for now.
func (s *SearchAnalyticsService) GetGeographicTrends(ctx context.Context) ([]entities.GeographicTrend, error) {
	events, err := s.events.Events(ctx)
	if err != nil {
		return nil, err
	}

	regions := make(map[string]map[string]int)
	counts := make(map[string]int)
	for _, event := range events {
		if event.Location == "" {
			continue
		}
		counts[event.Location]++
		tokens, ok := regions[event.Location]
		if !ok {
			tokens = make(map[string]int)
			regions[event.Location] = tokens
		}
		for _, token := range keywords.Extract(event.Query) {
			tokens[token]++
		}
	}

	trends := make([]entities.GeographicTrend, 0, len(regions))
	for region, tokens := range regions {
		top := topRelated(tokens, maxRegionKeywords)
		unique := top
		if len(unique) > maxRegionUnique {
			unique = unique[:maxRegionUnique]
		}
		trends = append(trends, entities.GeographicTrend{
			Prefecture:        region,
			SearchCount:       counts[region],
			TopKeywords:       top,
			UniquePreferences: unique,
		})
	}
	sort.Slice(trends, func(i, j int) bool {
		if trends[i].SearchCount != trends[j].SearchCount {
			return trends[i].SearchCount > trends[j].SearchCount
		}
		return trends[i].Prefecture < trends[j].Prefecture
	})
	return trends, nil
}

// GetSeasonalTrends buckets keyword occurrences into calendar-month bins
// regardless of year and reports each keyword's peak month.
func (s *SearchAnalyticsService) GetSeasonalTrends(ctx context.Context) ([]entities.SeasonalTrend, error) {
	events, err := s.events.Events(ctx)
	if err != nil {
		return nil, err
	}

	monthly := make(map[string]*[12]int)
	for _, event := range events {
		month := int(event.Timestamp.Month()) - 1
		for _, token := range keywords.Extract(event.Query) {
			bins, ok := monthly[token]
			if !ok {
				bins = &[12]int{}
				monthly[token] = bins
			}
			bins[month]++
		}
	}

	trends := make([]entities.SeasonalTrend, 0, len(monthly))
	for token, bins := range monthly {
		peak := 0
		for month, count := range bins {
			if count > bins[peak] {
				peak = month
			}
		}
		trends = append(trends, entities.SeasonalTrend{
			Keyword:       token,
			MonthlyCounts: *bins,
			PeakMonth:     time.Month(peak + 1),
		})
	}
	sort.Slice(trends, func(i, j int) bool {
		return trends[i].Keyword < trends[j].Keyword
	})
	return trends, nil
}

// GetSearchImprovementSuggestions derives actionable signals from
// low-performing queries: zero-result queries need synonym or spelling
// expansion, queries with results but few clicks need better ranking or
// categorization.
func (s *SearchAnalyticsService) GetSearchImprovementSuggestions(ctx context.Context) ([]entities.ImprovementSuggestion, error) {
	low, err := s.GetLowPerformingQueries(ctx, 100)
	if err != nil {
		return nil, err
	}

	suggestions := make([]entities.ImprovementSuggestion, 0, len(low))
	for _, query := range low {
		switch {
		case query.AvgResultCount == 0:
			suggestions = append(suggestions, entities.ImprovementSuggestion{
				Query:      query.Query,
				Issue:      "no results",
				Suggestion: "Add synonyms or spelling variants so this query matches existing listings",
				Impact:     entities.ImpactHigh,
			})
		case query.ClickThroughRate < lowCTRThreshold:
			suggestions = append(suggestions, entities.ImprovementSuggestion{
				Query:      query.Query,
				Issue:      "results are rarely clicked",
				Suggestion: "Review result ranking and categorization for this query",
				Impact:     entities.ImpactMedium,
			})
		}
	}
	return suggestions, nil
}
