package service

import (
	"context"
	"strings"

	"github.com/andresuchdata/cesto-ai/backend-go/internal/domain"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/metrics"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/pricing"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
)

type PricingService struct {
	repo        repository.MarketRepository
	recommender *pricing.Recommender
	metrics     *metrics.Collector
	peerLimit   int
}

func NewPricingService(repo repository.MarketRepository, recommender *pricing.Recommender, collector *metrics.Collector, peerLimit int) *PricingService {
	return &PricingService{repo: repo, recommender: recommender, metrics: collector, peerLimit: peerLimit}
}

// Recommend prices a product against its category peers. An unknown product
// is priced at 0.
func (s *PricingService) Recommend(ctx context.Context, productID string) (*domain.PriceRecommendationResponse, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, invalid("product_id is required")
	}

	comparables, err := s.repo.GetMarketComparables(ctx, productID, s.peerLimit)
	if err != nil {
		return nil, err
	}

	price, found, err := s.repo.GetProductPrice(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !found {
		log.Warn().Str("product_id", productID).Msg("pricing: product not found, using price 0")
	}

	rec := s.recommender.Recommend(comparables, price)
	s.metrics.RecordPriceRecommendation(rec)

	log.Info().
		Str("product_id", productID).
		Int("peers", len(comparables)).
		Float64("recommended_price", rec.RecommendedPrice).
		Msg("pricing: recommendations generated")

	return &domain.PriceRecommendationResponse{
		ProductID:           productID,
		PriceRecommendation: rec,
	}, nil
}
