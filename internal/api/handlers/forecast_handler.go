package handlers

import (
	"context"
	"net/http"

	"github.com/andresuchdata/cesto-ai/backend-go/internal/domain"
	"github.com/gin-gonic/gin"
)

type ForecastService interface {
	ParseQuery(productID, startDate, endDate string, days int) (domain.ForecastQuery, error)
	Forecast(ctx context.Context, q domain.ForecastQuery) (*domain.DemandForecastResponse, error)
	ForecastBatch(ctx context.Context, req domain.BatchForecastRequest) ([]domain.DemandForecastResponse, error)
}

type ForecastHandler struct {
	service ForecastService
}

func NewForecastHandler(service ForecastService) *ForecastHandler {
	return &ForecastHandler{service: service}
}

func (h *ForecastHandler) DemandForecast(c *gin.Context) {
	var req domain.DemandForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	q, err := h.service.ParseQuery(req.ProductID, req.StartDate, req.EndDate, req.ForecastDays)
	if err != nil {
		respondError(c, "invalid forecast request", err)
		return
	}

	resp, err := h.service.Forecast(c.Request.Context(), q)
	if err != nil {
		respondError(c, "error generating demand forecast", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ForecastHandler) BatchForecast(c *gin.Context) {
	var req domain.BatchForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	results, err := h.service.ForecastBatch(c.Request.Context(), req)
	if err != nil {
		respondError(c, "error generating demand forecasts", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"forecasts": results,
		"count":     len(results),
	})
}
