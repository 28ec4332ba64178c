// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/cesto-ai/backend-go/internal/api/handlers"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/api/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const Version = "1.0.0"

type Services struct {
	Forecast  handlers.ForecastService
	Inventory handlers.InventoryService
	Pricing   handlers.PricingService
	Insights  handlers.InsightsService
	DB        handlers.Pinger
	Metrics   http.Handler
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:4400", "http://localhost:3400"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	if services == nil {
		return router
	}

	if services.Metrics != nil {
		router.GET("/metrics", gin.WrapH(services.Metrics))
	}

	var insightsHandler *handlers.InsightsHandler
	if services.Insights != nil {
		insightsHandler = handlers.NewInsightsHandler(services.Insights, services.DB, Version)
		router.GET("/", insightsHandler.Root)
		router.GET("/health", insightsHandler.Health)
	}

	aiGroup := router.Group("/ai")
	{
		if services.Forecast != nil {
			forecastHandler := handlers.NewForecastHandler(services.Forecast)
			aiGroup.POST("/demand-forecast", forecastHandler.DemandForecast)
			aiGroup.POST("/demand-forecast/batch", forecastHandler.BatchForecast)
		}

		if services.Inventory != nil {
			inventoryHandler := handlers.NewInventoryHandler(services.Inventory)
			aiGroup.POST("/inventory-optimization", inventoryHandler.Optimize)
		}

		if services.Pricing != nil {
			pricingHandler := handlers.NewPricingHandler(services.Pricing)
			aiGroup.POST("/price-recommendations", pricingHandler.Recommend)
		}

		if insightsHandler != nil {
			aiGroup.GET("/cache/clear", insightsHandler.ClearCache)
			aiGroup.POST("/groq-insights", insightsHandler.Ask)
			aiGroup.GET("/status", insightsHandler.Status)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
