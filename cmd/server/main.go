// backend-go/cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/cesto-ai/backend-go/internal/api"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/cache"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/config"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/forecast"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/insights"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/inventory"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/metrics"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/pricing"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/service"
	"github.com/andresuchdata/cesto-ai/backend-go/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	if cfg.Server.LogFormat == "json" {
		logger.UseJSON(os.Stdout)
	}
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	resultCache, err := cache.NewResultCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Redis unavailable, continuing without cache")
		resultCache = cache.NewNoopResultCache()
	}

	ctx := context.Background()
	generator, err := insights.NewGenerator(ctx, cfg.AI)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("AI provider unavailable, insights disabled")
		generator = nil
	}
	if generator != nil {
		defer generator.Close()
	}
	insightsSvc := insights.NewService(generator, resultCache)

	collector := metrics.NewCollector()

	// Initialize services
	forecastService := service.NewForecastService(
		postgres.NewSalesRepository(db),
		forecast.NewEngine(cfg.ForecastEngineConfig()),
		insightsSvc,
		resultCache,
		collector,
		service.ForecastOptions{
			MaxForecastDays:  cfg.Forecast.MaxPredictionDays,
			BatchConcurrency: cfg.Forecast.BatchConcurrency,
		},
	)
	inventoryService := service.NewInventoryService(
		postgres.NewInventoryRepository(db),
		inventory.NewOptimizer(cfg.OptimizerConfig()),
		collector,
	)
	pricingService := service.NewPricingService(
		postgres.NewMarketRepository(db),
		pricing.NewRecommender(cfg.RecommenderConfig()),
		collector,
		cfg.Pricing.PeerLimit,
	)
	insightsService := service.NewInsightsService(insightsSvc, resultCache, collector)

	router := api.NewRouter(&api.Services{
		Forecast:  forecastService,
		Inventory: inventoryService,
		Pricing:   pricingService,
		Insights:  insightsService,
		DB:        db,
		Metrics:   collector.Handler(),
	}, cfg.Server.AllowedOrigins)

	// Initialize HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().
			Str("port", cfg.Server.Port).
			Bool("ai_available", insightsSvc.Available()).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
