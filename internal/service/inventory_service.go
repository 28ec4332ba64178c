package service

import (
	"context"
	"strings"

	"github.com/andresuchdata/cesto-ai/backend-go/internal/domain"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/inventory"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/metrics"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
)

type InventoryService struct {
	repo      repository.InventoryRepository
	optimizer *inventory.Optimizer
	metrics   *metrics.Collector
}

func NewInventoryService(repo repository.InventoryRepository, optimizer *inventory.Optimizer, collector *metrics.Collector) *InventoryService {
	return &InventoryService{repo: repo, optimizer: optimizer, metrics: collector}
}

func (s *InventoryService) Optimize(ctx context.Context, buyerID string) (*domain.InventoryOptimizationResponse, error) {
	buyerID = strings.TrimSpace(buyerID)
	if buyerID == "" {
		return nil, invalid("buyer_id is required")
	}

	items, err := s.repo.GetBuyerInventory(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		log.Warn().Str("buyer_id", buyerID).Msg("inventory: no inventory data found")
	}

	plan := s.optimizer.Optimize(items)
	s.metrics.RecordInventoryPlan(plan)

	log.Info().
		Str("buyer_id", buyerID).
		Int("items", len(items)).
		Int("recommendations", len(plan.Recommendations)).
		Msg("inventory: optimization completed")

	return &domain.InventoryOptimizationResponse{
		BuyerID:       buyerID,
		InventoryPlan: plan,
	}, nil
}
