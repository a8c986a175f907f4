package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cutmatch/cutmatch-backend/internal/adapters/analytics"
	"github.com/cutmatch/cutmatch-backend/internal/adapters/cache"
	"github.com/cutmatch/cutmatch-backend/internal/adapters/database"
	"github.com/cutmatch/cutmatch-backend/internal/adapters/events"
	"github.com/cutmatch/cutmatch-backend/internal/api/handlers"
	"github.com/cutmatch/cutmatch-backend/internal/api/routes"
	"github.com/cutmatch/cutmatch-backend/internal/application/services"
	"github.com/cutmatch/cutmatch-backend/internal/domain/providers"
	"github.com/cutmatch/cutmatch-backend/internal/domain/repositories"
	"github.com/cutmatch/cutmatch-backend/internal/infrastructure/clients/postgres"
	"github.com/cutmatch/cutmatch-backend/internal/infrastructure/clients/redis"
	"github.com/cutmatch/cutmatch-backend/internal/infrastructure/observability"
	"github.com/cutmatch/cutmatch-backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env, cfg.Server.LogLevel)
	logger := observability.GetLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// OpenTelemetry traces are optional; the service runs fine without a
	// collector.
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(shutdownCtx); err != nil {
					logger.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Redis backs both the result cache and the event bus when available;
	// otherwise in-memory fallbacks keep a single-node deployment working.
	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable, using in-memory cache and event bus")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient)
			eventBus = events.NewRedisEventBus(redisClient)
			logger.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Redis connected")
		}
	}
	if cacheProvider == nil {
		cacheProvider = cache.NewMemoryAdapter()
	}
	if eventBus == nil {
		eventBus = events.NewMemoryEventBus()
	}
	defer eventBus.Close()

	// The listing corpus comes from Postgres when configured, otherwise
	// from the bundled sample data.
	var listingRepo repositories.ListingRepository
	if cfg.Database.Enabled {
		pgClient, err := postgres.NewClient(&cfg.Database)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pgClient.Close()
		listingRepo = database.NewListingAdapter(pgClient)
		logger.Info().Msg("PostgreSQL listing store connected")
	} else {
		listingRepo = database.NewMemoryListingAdapter(database.SampleListings())
		logger.Info().Msg("Using in-memory listing store with sample data")
	}

	corpus, err := listingRepo.Snapshot(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load the listing corpus")
	}

	engine := services.NewSearchEngineService(corpus)
	searchCache := services.NewSearchCacheService(cacheProvider, cfg.Search.CacheTTLSeconds, metrics)
	history := services.NewSearchHistoryService(cfg.Search.HistorySize)
	analyticsService := services.NewSearchAnalyticsService(analytics.NewMemoryAdapter(cfg.Analytics.MaxEvents), metrics)
	searchService := services.NewSearchService(engine, searchCache, history, analyticsService, listingRepo, eventBus, metrics)

	invalidation := services.NewCacheInvalidationService(searchCache, eventBus)
	if err := invalidation.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start the cache invalidation listener")
	}
	defer invalidation.Stop()

	router := routes.NewRouter(
		handlers.NewSearchHandler(searchService, cfg.Search.DefaultLimit),
		handlers.NewAnalyticsHandler(analyticsService),
		handlers.NewListingHandler(searchService),
		metrics,
	)

	server := &http.Server{
		Addr:         cfg.Server.ServerAddr(),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("addr", server.Addr).
			Int("listings", engine.Size()).
			Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
