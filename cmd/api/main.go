package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Hash-621/TEAM202507-01-Final/internal/adapters/cache"
	"github.com/Hash-621/TEAM202507-01-Final/internal/adapters/database"
	"github.com/Hash-621/TEAM202507-01-Final/internal/adapters/directory"
	"github.com/Hash-621/TEAM202507-01-Final/internal/adapters/providers/geolocation"
	"github.com/Hash-621/TEAM202507-01-Final/internal/api/handlers"
	"github.com/Hash-621/TEAM202507-01-Final/internal/api/routes"
	"github.com/Hash-621/TEAM202507-01-Final/internal/application/services"
	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/entities"
	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/providers"
	"github.com/Hash-621/TEAM202507-01-Final/internal/infrastructure/clients/postgres"
	"github.com/Hash-621/TEAM202507-01-Final/internal/infrastructure/clients/redis"
	"github.com/Hash-621/TEAM202507-01-Final/internal/infrastructure/observability"
	"github.com/Hash-621/TEAM202507-01-Final/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to set up OpenTelemetry: %v\n", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
		}
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.App.Env, cfg.App.LogLevel)

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Geocode cache backend
	var cacheProvider providers.CacheProvider
	switch cfg.Geolocation.CacheBackend {
	case "redis":
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			// Continue without Redis - geocoding works uncached
			log.Warn().Err(err).Msg("Failed to initialize Redis client, geocoding uncached")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient, metrics)
			log.Info().Msg("Redis geocode cache initialized")
		}
	case "postgres":
		pgClient, err := postgres.NewClient(ctx, &cfg.Database)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize PostgreSQL client, geocoding uncached")
		} else {
			defer pgClient.Close()
			pgCache := database.NewGeocodeCacheAdapter(pgClient, metrics)
			if err := pgCache.EnsureSchema(ctx); err != nil {
				log.Warn().Err(err).Msg("Failed to create geocode cache table, geocoding uncached")
			} else {
				cacheProvider = pgCache
				log.Info().Msg("PostgreSQL geocode cache initialized")
			}
		}
	}

	baseGeocoder, err := geolocation.NewProvider(&cfg.Geolocation)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize geolocation provider")
	}
	geocoder := geolocation.NewCachedProvider(baseGeocoder, cacheProvider, cfg.Geolocation.CacheTTLSeconds())
	log.Info().Str("provider", cfg.Geolocation.Provider).Str("cache", cfg.Geolocation.CacheBackend).Msg("Geolocation provider initialized")

	// Initialize services
	hoursService := services.NewBusinessHoursService(cfg.App.Location(), nil)
	directoryClient := directory.NewHTTPClient(cfg.Directory.BaseURL, cfg.Directory.Timeout())
	orchestrator := services.NewGeocodeOrchestrator(geocoder, cfg.Geolocation.MaxConcurrency, metrics)
	recommendationService := services.NewRecommendationService(
		directoryClient,
		orchestrator,
		services.NewUrgencyClassifier(nil),
		services.NewFacilityRanker(cfg.Recommend.TopN),
		hoursService,
		services.NewSessionRegistry(cfg.Recommend.SessionIdleTTL(), nil),
		metrics,
	)

	if interval := cfg.Geolocation.WarmInterval(); interval > 0 && cacheProvider != nil {
		services.NewCacheWarmingService(directoryClient, orchestrator).
			StartPeriodicWarming(ctx, interval, entities.DomainHospital, entities.DomainRestaurant)
	}

	// Set up router
	router := routes.NewRouter(
		handlers.NewFacilityHandler(recommendationService),
		handlers.NewRecommendationHandler(recommendationService),
		handlers.NewHoursHandler(hoursService),
		handlers.NewGeolocationHandler(geocoder),
		cfg.Server.AllowedOrigins,
		metrics,
	)

	handler := router.SetupRoutes()

	// Create HTTP server. Session loads geocode a whole listing, so writes get
	// more room than reads.
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}
