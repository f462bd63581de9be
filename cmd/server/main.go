package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/gameday-tracker/internal/api"
	"github.com/jstittsworth/gameday-tracker/internal/api/handlers"
	"github.com/jstittsworth/gameday-tracker/internal/api/middleware"
	"github.com/jstittsworth/gameday-tracker/internal/providers"
	"github.com/jstittsworth/gameday-tracker/internal/services"
	"github.com/jstittsworth/gameday-tracker/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	if cfg.IsDevelopment() {
		logrus.SetLevel(logrus.DebugLevel)
		gin.SetMode(gin.DebugMode)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
		gin.SetMode(gin.ReleaseMode)
	}
	logger := logrus.StandardLogger()

	loc, err := cfg.Location()
	if err != nil {
		logrus.Fatalf("Invalid timezone %q: %v", cfg.Timezone, err)
	}

	// Pick the cache backend. No Redis URL, or an unreachable Redis, means
	// the in-process cache; the service never refuses to start over caching.
	cache, cacheBackend := buildCache(cfg, logger)

	// Shared upstream plumbing
	limiter := services.NewRequestLimiter(cfg.RateLimitInterval)
	breaker := services.NewCircuitBreakerService(cfg.CircuitBreakerThreshold, cfg.ExternalAPITimeout, logger)
	statsAPI := providers.NewStatsAPIClient(cfg.MLBAPIBaseURL, cfg.MLBAPIKey, cfg.ExternalAPITimeout, limiter, breaker, logger)

	ttls := services.CacheTTLs{
		LiveGames:     time.Duration(cfg.CacheTTLLiveGames) * time.Second,
		UpcomingGames: time.Duration(cfg.CacheTTLUpcomingGames) * time.Second,
		FinishedGames: time.Duration(cfg.CacheTTLFinishedGames) * time.Second,
		TeamStats:     time.Duration(cfg.CacheTTLTeamStats) * time.Second,
		PlayerStats:   time.Duration(cfg.CacheTTLPlayerStats) * time.Second,
	}

	// Fetch layer
	teamDirectory := services.NewTeamDirectoryService(statsAPI, cache, ttls.TeamStats, logger)
	teamStats := services.NewTeamStatsService(statsAPI, cache, ttls.TeamStats, logger)
	gameService := services.NewGameService(statsAPI, cache, teamDirectory, teamStats, ttls, logger, loc)
	if cfg.EnableFallbackData {
		gameService.SetFallback(services.NewFallbackGenerator(logger))
	}

	// Cache warmer
	warmer := services.NewCacheWarmer(gameService, logger, loc)
	if cfg.EnablePrewarm {
		go warmer.Prewarm(context.Background())
		if err := warmer.Start(); err != nil {
			logrus.Errorf("Failed to start cache warmer: %v", err)
		}
		defer warmer.Stop()
	}

	// Subscriptions
	notifier := buildNotifier(cfg, logger)
	subscriptions := services.NewSubscriptionService(notifier, logger)
	summarizer := services.NewTemplateSummaryGenerator()

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CorsOrigins))

	healthHandler := handlers.NewHealthHandler(cacheBackend, breaker, warmer)
	router.GET("/health", healthHandler.GetHealth)

	apiV1 := router.Group("/api/v1")
	api.SetupRoutes(apiV1, gameService, teamDirectory, summarizer, subscriptions, logger)

	// Setup server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logrus.Infof("Starting server on port %s (cache backend: %s)", cfg.Port, cacheBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

// buildCache connects to Redis when configured and reachable, otherwise
// returns the in-process cache.
func buildCache(cfg *config.Config, logger *logrus.Logger) (services.Cache, string) {
	if cfg.RedisURL == "" {
		logger.Info("No Redis URL configured, using in-memory cache")
		return services.NewMemoryCache(), "memory"
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.WithError(err).Warn("Invalid Redis URL, falling back to in-memory cache")
		return services.NewMemoryCache(), "memory"
	}

	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("Redis unreachable, falling back to in-memory cache")
		client.Close()
		return services.NewMemoryCache(), "memory"
	}

	return services.NewRedisCache(client, logger), "redis"
}

// buildNotifier selects the SMS provider. Twilio requires complete
// credentials; anything else falls back to the mock.
func buildNotifier(cfg *config.Config, logger *logrus.Logger) services.Notifier {
	if cfg.SMSProvider == "twilio" && cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" && cfg.TwilioFromNumber != "" {
		logger.Info("Using Twilio SMS notifier")
		return services.NewTwilioNotifier(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, logger)
	}
	logger.Info("Using mock SMS notifier")
	return services.NewMockNotifier(logger)
}
