package handlers

import (
	"context"
	"net/http"

	"github.com/andresuchdata/cesto-ai/backend-go/internal/domain"
	"github.com/gin-gonic/gin"
)

type PricingService interface {
	Recommend(ctx context.Context, productID string) (*domain.PriceRecommendationResponse, error)
}

type PricingHandler struct {
	service PricingService
}

func NewPricingHandler(service PricingService) *PricingHandler {
	return &PricingHandler{service: service}
}

func (h *PricingHandler) Recommend(c *gin.Context) {
	var req domain.PriceRecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.service.Recommend(c.Request.Context(), req.ProductID)
	if err != nil {
		respondError(c, "error generating price recommendations", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
