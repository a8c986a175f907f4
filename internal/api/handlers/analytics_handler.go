package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cutmatch/cutmatch-backend/internal/application/services"
)

// AnalyticsHandler exposes the derived search analytics views
type AnalyticsHandler struct {
	analytics *services.SearchAnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analytics *services.SearchAnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics: analytics,
	}
}

// GetPopularKeywords handles GET /api/analytics/keywords
func (h *AnalyticsHandler) GetPopularKeywords(w http.ResponseWriter, r *http.Request) {
	timeframe, err := parseTimeframe(r.URL.Query().Get("timeframe"), 24*time.Hour)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := parseIntParam(r.URL.Query().Get("limit"), "limit")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	keywords, err := h.analytics.GetPopularKeywords(r.Context(), timeframe, limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"keywords":  keywords,
		"timeframe": timeframe.String(),
	})
}

// GetTrends handles GET /api/analytics/trends
func (h *AnalyticsHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	timeframe, err := parseTimeframe(r.URL.Query().Get("timeframe"), 7*24*time.Hour)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	trends, err := h.analytics.GetTrends(r.Context(), timeframe)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"trends": trends,
	})
}

// GetLowPerformingQueries handles GET /api/analytics/low-performing
func (h *AnalyticsHandler) GetLowPerformingQueries(w http.ResponseWriter, r *http.Request) {
	limit, err := parseIntParam(r.URL.Query().Get("limit"), "limit")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	queries, err := h.analytics.GetLowPerformingQueries(r.Context(), limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"queries": queries,
	})
}

// GetBehaviorInsights handles GET /api/analytics/behavior
func (h *AnalyticsHandler) GetBehaviorInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := h.analytics.GetUserBehaviorInsights(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, insights)
}

// GetGeographicTrends handles GET /api/analytics/geographic
func (h *AnalyticsHandler) GetGeographicTrends(w http.ResponseWriter, r *http.Request) {
	trends, err := h.analytics.GetGeographicTrends(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"regions": trends,
	})
}

// GetSeasonalTrends handles GET /api/analytics/seasonal
func (h *AnalyticsHandler) GetSeasonalTrends(w http.ResponseWriter, r *http.Request) {
	trends, err := h.analytics.GetSeasonalTrends(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"trends": trends,
	})
}

// GetSuggestions handles GET /api/analytics/suggestions
func (h *AnalyticsHandler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.analytics.GetSearchImprovementSuggestions(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": suggestions,
	})
}

// Export handles GET /api/analytics/export
func (h *AnalyticsHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")

	data, err := h.analytics.Export(r.Context(), format)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	switch format {
	case services.ExportFormatCSV:
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="search-analytics.csv"`)
	default:
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// parseTimeframe accepts Go duration syntax plus a day suffix ("7d")
func parseTimeframe(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}

	if strings.HasSuffix(raw, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(raw, "d"))
		if err != nil || days <= 0 {
			return 0, &paramError{"timeframe must be a positive duration"}
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}

	timeframe, err := time.ParseDuration(raw)
	if err != nil || timeframe <= 0 {
		return 0, &paramError{"timeframe must be a positive duration"}
	}
	return timeframe, nil
}
