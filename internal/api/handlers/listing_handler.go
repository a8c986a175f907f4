package handlers

import (
	"net/http"
	"strconv"

	"github.com/cutmatch/cutmatch-backend/internal/application/services"
	"github.com/cutmatch/cutmatch-backend/internal/domain/entities"
	"github.com/cutmatch/cutmatch-backend/internal/domain/repositories"
)

// ListingHandler handles listing passthrough HTTP requests
type ListingHandler struct {
	searchService *services.SearchService
}

// NewListingHandler creates a new listing handler
func NewListingHandler(searchService *services.SearchService) *ListingHandler {
	return &ListingHandler{
		searchService: searchService,
	}
}

// GetListing handles GET /api/listings/{id}
func (h *ListingHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "listing ID must be an integer")
		return
	}

	listing, err := h.searchService.GetListing(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, listing)
}

// ListListings handles GET /api/listings
func (h *ListingHandler) ListListings(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	status := params.Get("status")
	if !validEnum(status, entities.StatusRecruiting, entities.StatusFull, entities.StatusClosed) {
		respondWithError(w, http.StatusBadRequest, "invalid status")
		return
	}
	if status == entities.FilterAll {
		status = ""
	}

	limit, err := parseIntParam(params.Get("limit"), "limit")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	offset, err := parseIntParam(params.Get("offset"), "offset")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if limit <= 0 {
		limit = entities.DefaultLimit
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	listings, err := h.searchService.ListListings(r.Context(), repositories.ListingFilter{
		Status: status,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"listings": listings,
		"count":    len(listings),
	})
}
