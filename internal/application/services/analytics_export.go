package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strconv"
	"time"

	"github.com/cutmatch/cutmatch-backend/internal/domain/entities"
	"github.com/cutmatch/cutmatch-backend/pkg/errors"
)

// Export formats.
const (
	ExportFormatJSON = "json"
	ExportFormatCSV  = "csv"
)

// exportTimeframe is the window the bulk report covers for the
// timeframe-scoped views.
const exportTimeframe = 30 * 24 * time.Hour

// BuildReport assembles every derived analytics view into one report
func (s *SearchAnalyticsService) BuildReport(ctx context.Context) (*entities.AnalyticsReport, error) {
	popular, err := s.GetPopularKeywords(ctx, exportTimeframe, 20)
	if err != nil {
		return nil, err
	}
	trends, err := s.GetTrends(ctx, exportTimeframe)
	if err != nil {
		return nil, err
	}
	low, err := s.GetLowPerformingQueries(ctx, 20)
	if err != nil {
		return nil, err
	}
	behavior, err := s.GetUserBehaviorInsights(ctx)
	if err != nil {
		return nil, err
	}
	geographic, err := s.GetGeographicTrends(ctx)
	if err != nil {
		return nil, err
	}
	seasonal, err := s.GetSeasonalTrends(ctx)
	if err != nil {
		return nil, err
	}
	suggestions, err := s.GetSearchImprovementSuggestions(ctx)
	if err != nil {
		return nil, err
	}

	return &entities.AnalyticsReport{
		GeneratedAt:          s.now(),
		PopularKeywords:      popular,
		Trends:               trends,
		LowPerformingQueries: low,
		Behavior:             behavior,
		GeographicTrends:     geographic,
		SeasonalTrends:       seasonal,
		Suggestions:          suggestions,
	}, nil
}

// Export serializes the full report as JSON or CSV. The CSV flattens the
// report to one row per derived figure; columns that do not apply to a
// row type stay empty.
func (s *SearchAnalyticsService) Export(ctx context.Context, format string) ([]byte, error) {
	report, err := s.BuildReport(ctx)
	if err != nil {
		return nil, err
	}

	switch format {
	case ExportFormatJSON, "":
		return json.MarshalIndent(report, "", "  ")
	case ExportFormatCSV:
		return reportToCSV(report)
	default:
		return nil, errors.NewValidationError("unsupported export format: " + format)
	}
}

func reportToCSV(report *entities.AnalyticsReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"type", "keyword", "count", "ctr", "growth_rate", "confidence"}); err != nil {
		return nil, err
	}

	for _, kw := range report.PopularKeywords {
		if err := w.Write([]string{
			"popular_keyword", kw.Keyword, strconv.Itoa(kw.Count),
			formatRate(kw.ClickThroughRate), "", countConfidence(kw.Count),
		}); err != nil {
			return nil, err
		}
	}
	for _, trend := range report.Trends {
		if err := w.Write([]string{
			"trend", trend.Keyword, strconv.Itoa(trend.Count),
			"", formatRate(trend.GrowthRate), countConfidence(trend.Count),
		}); err != nil {
			return nil, err
		}
	}
	for _, low := range report.LowPerformingQueries {
		if err := w.Write([]string{
			"low_performing", low.Query, strconv.Itoa(low.Count),
			formatRate(low.ClickThroughRate), "", countConfidence(low.Count),
		}); err != nil {
			return nil, err
		}
	}
	for _, region := range report.GeographicTrends {
		if err := w.Write([]string{
			"geographic", region.Prefecture, strconv.Itoa(region.SearchCount),
			"", "", countConfidence(region.SearchCount),
		}); err != nil {
			return nil, err
		}
	}
	for _, seasonal := range report.SeasonalTrends {
		total := 0
		for _, monthly := range seasonal.MonthlyCounts {
			total += monthly
		}
		if err := w.Write([]string{
			"seasonal", seasonal.Keyword, strconv.Itoa(total),
			"", "", countConfidence(total),
		}); err != nil {
			return nil, err
		}
	}
	if report.Behavior != nil {
		// One row per session metric; the value lands in the column
		// matching its unit (counts in count, rates in ctr, averages
		// in growth_rate).
		behaviorRows := [][]string{
			{"behavior", "session_count", strconv.Itoa(report.Behavior.SessionCount), "", "", ""},
			{"behavior", "avg_queries_per_session", "", "", formatRate(report.Behavior.AvgQueriesPerSession), ""},
			{"behavior", "avg_time_to_click_ms", "", "", formatRate(report.Behavior.AvgTimeToClickMs), ""},
			{"behavior", "refinement_rate", "", formatRate(report.Behavior.RefinementRate), "", ""},
			{"behavior", "abandonment_rate", "", formatRate(report.Behavior.AbandonmentRate), "", ""},
		}
		for _, row := range behaviorRows {
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	for _, suggestion := range report.Suggestions {
		if err := w.Write([]string{
			"suggestion", suggestion.Query, "", "", "", suggestion.Impact,
		}); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', 4, 64)
}

// countConfidence grades how much data backs a derived figure. Ten or
// more observations count as full confidence.
func countConfidence(count int) string {
	confidence := float64(count) / 10
	if confidence > 1 {
		confidence = 1
	}
	return strconv.FormatFloat(confidence, 'f', 2, 64)
}
