package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/cutmatch/cutmatch-backend/internal/application/services"
	"github.com/cutmatch/cutmatch-backend/internal/domain/entities"
)

// maxPageSize caps the limit parameter
const maxPageSize = 100

// SearchHandler handles search-related HTTP requests
type SearchHandler struct {
	searchService *services.SearchService
	defaultLimit  int
}

// NewSearchHandler creates a new search handler. defaultLimit is the
// page size applied when the request omits the limit parameter.
func NewSearchHandler(searchService *services.SearchService, defaultLimit int) *SearchHandler {
	if defaultLimit <= 0 || defaultLimit > maxPageSize {
		defaultLimit = entities.DefaultLimit
	}
	return &SearchHandler{
		searchService: searchService,
		defaultLimit:  defaultLimit,
	}
}

// Search handles GET /api/listings/search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query, err := parseSearchQuery(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if query.Limit == 0 {
		query.Limit = h.defaultLimit
	}

	params := r.URL.Query()
	sessionID := params.Get("session_id")
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	source := params.Get("source")
	if source == "" {
		source = entities.SourceSearchBox
	}
	if !validSource(source) {
		respondWithError(w, http.StatusBadRequest, "invalid source")
		return
	}

	resp, err := h.searchService.Search(r.Context(), services.SearchRequest{
		Query:      query,
		SessionID:  sessionID,
		UserID:     params.Get("user_id"),
		Source:     source,
		DeviceType: params.Get("device_type"),
		Location:   params.Get("location"),
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"items":           resp.Result.Items,
		"total":           resp.Result.Total,
		"search_time_ms":  resp.Result.SearchTimeMs,
		"search_event_id": resp.SearchEventID,
		"session_id":      sessionID,
		"cached":          resp.Cached,
	})
}

// clickRequest is the POST /api/search/clicks body
type clickRequest struct {
	SearchEventID string `json:"search_event_id"`
	ItemID        int64  `json:"item_id"`
	Position      int    `json:"position"`
}

// TrackClick handles POST /api/search/clicks
func (h *SearchHandler) TrackClick(w http.ResponseWriter, r *http.Request) {
	var req clickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SearchEventID == "" {
		respondWithError(w, http.StatusBadRequest, "search_event_id is required")
		return
	}

	if err := h.searchService.TrackClick(r.Context(), req.SearchEventID, req.ItemID, req.Position); err != nil {
		respondWithAppError(w, err)
		return
	}

	// Clicks are telemetry; accepted is all the caller needs to know
	respondWithJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// GetHistory handles GET /api/search/history
func (h *SearchHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	limit := 20
	if raw := params.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondWithError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	switch params.Get("type") {
	case "", "recent":
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"searches": h.searchService.RecentSearches(r.Context(), limit),
		})
	case "popular":
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"searches": h.searchService.PopularSearches(r.Context(), limit),
		})
	default:
		respondWithError(w, http.StatusBadRequest, "type must be recent or popular")
	}
}

// Reindex handles POST /api/admin/reindex
func (h *SearchHandler) Reindex(w http.ResponseWriter, r *http.Request) {
	count, err := h.searchService.Reindex(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "reindexed",
		"listings": count,
	})
}

// parseSearchQuery builds a typed SearchQuery from flat request
// parameters. Malformed numbers and unknown enum values are rejected
// here; the engine assumes a well-typed query.
func parseSearchQuery(r *http.Request) (entities.SearchQuery, error) {
	params := r.URL.Query()
	query := entities.SearchQuery{
		Query:         params.Get("q"),
		Location:      params.Get("location"),
		AvailableDate: params.Get("available_date"),
		AvailableTime: params.Get("available_time"),
	}

	if raw := params.Get("services"); raw != "" {
		query.Services = splitCSV(raw)
	}
	if raw := params.Get("requirements"); raw != "" {
		query.Requirements = splitCSV(raw)
	}

	var err error
	if query.PriceMin, err = parseIntParam(params.Get("price_min"), "price_min"); err != nil {
		return query, err
	}
	if query.PriceMax, err = parseIntParam(params.Get("price_max"), "price_max"); err != nil {
		return query, err
	}
	if query.Rating, err = parseFloatParam(params.Get("rating"), "rating"); err != nil {
		return query, err
	}
	if query.MaxDistance, err = parseFloatParam(params.Get("max_distance"), "max_distance"); err != nil {
		return query, err
	}
	if query.Limit, err = parseIntParam(params.Get("limit"), "limit"); err != nil {
		return query, err
	}
	if query.Offset, err = parseIntParam(params.Get("offset"), "offset"); err != nil {
		return query, err
	}
	if query.Limit > maxPageSize {
		query.Limit = maxPageSize
	}

	query.Status = params.Get("status")
	if !validEnum(query.Status, entities.StatusRecruiting, entities.StatusFull, entities.StatusClosed) {
		return query, &paramError{"invalid status"}
	}
	query.Urgency = params.Get("urgency")
	if !validEnum(query.Urgency, entities.UrgencyNormal, entities.UrgencyUrgent) {
		return query, &paramError{"invalid urgency"}
	}
	query.ExperienceLevel = params.Get("experience_level")
	if !validEnum(query.ExperienceLevel, entities.ExperienceBeginner, entities.ExperienceIntermediate, entities.ExperienceAdvanced) {
		return query, &paramError{"invalid experience_level"}
	}
	query.SortBy = params.Get("sort_by")
	if !validChoice(query.SortBy,
		entities.SortByRelevance, entities.SortByDate, entities.SortByPrice,
		entities.SortByRating, entities.SortByDistance, entities.SortByPopularity) {
		return query, &paramError{"invalid sort_by"}
	}
	query.SortOrder = params.Get("sort_order")
	if !validChoice(query.SortOrder, entities.SortOrderAsc, entities.SortOrderDesc) {
		return query, &paramError{"invalid sort_order"}
	}

	return query, nil
}

type paramError struct {
	message string
}

func (e *paramError) Error() string {
	return e.message
}

func parseIntParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, &paramError{name + " must be a non-negative integer"}
	}
	return value, nil
}

func parseFloatParam(raw, name string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 {
		return 0, &paramError{name + " must be a non-negative number"}
	}
	return value, nil
}

// validEnum accepts the empty string (defaulted later), "all", or one of
// the allowed values
func validEnum(value string, allowed ...string) bool {
	if value == entities.FilterAll {
		return true
	}
	return validChoice(value, allowed...)
}

// validChoice accepts the empty string (defaulted later) or one of the
// allowed values
func validChoice(value string, allowed ...string) bool {
	if value == "" {
		return true
	}
	for _, candidate := range allowed {
		if value == candidate {
			return true
		}
	}
	return false
}

func validSource(source string) bool {
	switch source {
	case entities.SourceSearchBox, entities.SourceFilter, entities.SourceSuggestion,
		entities.SourceVoice, entities.SourceBarcode:
		return true
	}
	return false
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
