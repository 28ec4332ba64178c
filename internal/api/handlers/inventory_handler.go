package handlers

import (
	"context"
	"net/http"

	"github.com/andresuchdata/cesto-ai/backend-go/internal/domain"
	"github.com/gin-gonic/gin"
)

type InventoryService interface {
	Optimize(ctx context.Context, buyerID string) (*domain.InventoryOptimizationResponse, error)
}

type InventoryHandler struct {
	service InventoryService
}

func NewInventoryHandler(service InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

func (h *InventoryHandler) Optimize(c *gin.Context) {
	var req domain.InventoryOptimizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.service.Optimize(c.Request.Context(), req.BuyerID)
	if err != nil {
		respondError(c, "error optimizing inventory", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
