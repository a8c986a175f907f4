package routes

import (
	"net/http"

	"github.com/cutmatch/cutmatch-backend/internal/api/handlers"
	"github.com/cutmatch/cutmatch-backend/internal/api/middleware"
	"github.com/cutmatch/cutmatch-backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	searchHandler    *handlers.SearchHandler
	analyticsHandler *handlers.AnalyticsHandler
	listingHandler   *handlers.ListingHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	searchHandler *handlers.SearchHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	listingHandler *handlers.ListingHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		searchHandler:    searchHandler,
		analyticsHandler: analyticsHandler,
		listingHandler:   listingHandler,

		metrics: metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)

		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Search endpoints
	r.mux.HandleFunc("GET /api/listings/search", r.searchHandler.Search)
	r.mux.HandleFunc("POST /api/search/clicks", r.searchHandler.TrackClick)
	r.mux.HandleFunc("GET /api/search/history", r.searchHandler.GetHistory)

	// Listing passthrough endpoints
	r.mux.HandleFunc("GET /api/listings", r.listingHandler.ListListings)
	r.mux.HandleFunc("GET /api/listings/{id}", r.listingHandler.GetListing)

	// Analytics endpoints
	r.mux.HandleFunc("GET /api/analytics/keywords", r.analyticsHandler.GetPopularKeywords)
	r.mux.HandleFunc("GET /api/analytics/trends", r.analyticsHandler.GetTrends)
	r.mux.HandleFunc("GET /api/analytics/low-performing", r.analyticsHandler.GetLowPerformingQueries)
	r.mux.HandleFunc("GET /api/analytics/behavior", r.analyticsHandler.GetBehaviorInsights)
	r.mux.HandleFunc("GET /api/analytics/geographic", r.analyticsHandler.GetGeographicTrends)
	r.mux.HandleFunc("GET /api/analytics/seasonal", r.analyticsHandler.GetSeasonalTrends)
	r.mux.HandleFunc("GET /api/analytics/suggestions", r.analyticsHandler.GetSuggestions)
	r.mux.HandleFunc("GET /api/analytics/export", r.analyticsHandler.Export)

	// Admin endpoints
	r.mux.HandleFunc("POST /api/admin/reindex", r.searchHandler.Reindex)

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so error responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
