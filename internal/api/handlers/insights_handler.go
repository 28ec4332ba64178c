package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/andresuchdata/cesto-ai/backend-go/internal/domain"
	"github.com/gin-gonic/gin"
)

type InsightsService interface {
	Ask(ctx context.Context, req domain.InsightsRequest) (*domain.InsightsResponse, error)
	Status(ctx context.Context) domain.ServiceStatus
	ClearCache(ctx context.Context) error
}

// Pinger is satisfied by the database pool.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type InsightsHandler struct {
	service InsightsService
	db      Pinger
	version string
}

func NewInsightsHandler(service InsightsService, db Pinger, version string) *InsightsHandler {
	return &InsightsHandler{service: service, db: db, version: version}
}

func (h *InsightsHandler) Ask(c *gin.Context) {
	var req domain.InsightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.service.Ask(c.Request.Context(), req)
	if err != nil {
		respondError(c, "error getting AI insights", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InsightsHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Status(c.Request.Context()))
}

func (h *InsightsHandler) ClearCache(c *gin.Context) {
	if err := h.service.ClearCache(c.Request.Context()); err != nil {
		respondError(c, "failed to clear cache", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "Cache cleared successfully",
		"timestamp": time.Now(),
	})
}

func (h *InsightsHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Cesto AI Services API",
		"version": h.version,
	})
}

func (h *InsightsHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()
	status := h.service.Status(ctx)

	database := "not_configured"
	if h.db != nil {
		database = "connected"
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(pingCtx); err != nil {
			database = "disconnected"
		}
	}

	redis := "disconnected"
	if status.RedisAvailable {
		redis = "connected"
	}
	ai := "unavailable"
	if status.AIServiceAvailable {
		ai = "available"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": status.Timestamp,
		"version":   h.version,
		"services": gin.H{
			"database":   database,
			"redis":      redis,
			"ai_service": ai,
		},
	})
}
