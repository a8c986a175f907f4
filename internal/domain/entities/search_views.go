package entities

import "time"

// PopularKeyword is a keyword ranked by occurrence within a timeframe.
type PopularKeyword struct {
	Keyword          string  `json:"keyword"`
	Count            int     `json:"count"`
	ClickThroughRate float64 `json:"click_through_rate"`
}

// SearchTrend compares a keyword's current-period count to the
// immediately preceding period of equal length. Derived, never stored.
type SearchTrend struct {
	Keyword      string   `json:"keyword"`
	Count        int      `json:"count"`
	GrowthRate   float64  `json:"growth_rate"`
	Timeframe    string   `json:"timeframe"`
	Category     string   `json:"category"`
	RelatedTerms []string `json:"related_terms,omitempty"`
}

// LowPerformingQuery is a query string that returns few results and/or
// is rarely clicked.
type LowPerformingQuery struct {
	Query            string  `json:"query"`
	Count            int     `json:"count"`
	AvgResultCount   float64 `json:"avg_result_count"`
	ClickThroughRate float64 `json:"click_through_rate"`
}

// BehaviorInsights aggregates reconstructed user sessions.
type BehaviorInsights struct {
	SessionCount         int     `json:"session_count"`
	AvgQueriesPerSession float64 `json:"avg_queries_per_session"`
	AvgTimeToClickMs     float64 `json:"avg_time_to_click_ms"`
	RefinementRate       float64 `json:"refinement_rate"`
	AbandonmentRate      float64 `json:"abandonment_rate"`
}

// GeographicTrend is the per-prefecture search breakdown. The unique
// preference list is a naive simplification (the region's own top
// keywords, not a true cross-region comparison).
type GeographicTrend struct {
	Prefecture        string   `json:"prefecture"`
	SearchCount       int      `json:"search_count"`
	TopKeywords       []string `json:"top_keywords"`
	UniquePreferences []string `json:"unique_preferences"`
}

// SeasonalTrend buckets one keyword's occurrences into calendar-month
// bins (by event month, not year-aware).
type SeasonalTrend struct {
	Keyword       string     `json:"keyword"`
	MonthlyCounts [12]int    `json:"monthly_counts"`
	PeakMonth     time.Month `json:"peak_month"`
}

// Improvement suggestion impact levels.
const (
	ImpactHigh   = "high"
	ImpactMedium = "medium"
)

// ImprovementSuggestion is an actionable signal derived from
// low-performing queries.
type ImprovementSuggestion struct {
	Query      string `json:"query"`
	Issue      string `json:"issue"`
	Suggestion string `json:"suggestion"`
	Impact     string `json:"impact"`
}

// AnalyticsReport bundles every derived view for bulk export.
type AnalyticsReport struct {
	GeneratedAt          time.Time               `json:"generated_at"`
	PopularKeywords      []PopularKeyword        `json:"popular_keywords"`
	Trends               []SearchTrend           `json:"trends"`
	LowPerformingQueries []LowPerformingQuery    `json:"low_performing_queries"`
	Behavior             *BehaviorInsights       `json:"behavior"`
	GeographicTrends     []GeographicTrend       `json:"geographic_trends"`
	SeasonalTrends       []SeasonalTrend         `json:"seasonal_trends"`
	Suggestions          []ImprovementSuggestion `json:"suggestions"`
}
