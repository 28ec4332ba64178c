// Package pricing compares a product's price with its category peers.
package pricing

import (
	"fmt"
	"math"
	"sort"

	"github.com/andresuchdata/cesto-ai/backend-go/internal/domain"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

const (
	NarrativeMarketPositioning   = "market_positioning"
	NarrativeCompetitiveAnalysis = "competitive_analysis"

	ImpactMedium = "medium"
	ImpactHigh   = "high"

	MessageIncrease     = "Increase price to be more competitive"
	MessageReduce       = "Consider reducing price to increase sales"
	MessageWellPosition = "Price is well positioned in market"
)

// Config holds the price bands, expressed as ratios of the peer mean.
type Config struct {
	UnderpricedRatio float64
	OverpricedRatio  float64
	RaiseToRatio     float64
	LowerToRatio     float64
}

func DefaultConfig() Config {
	return Config{
		UnderpricedRatio: 0.9,
		OverpricedRatio:  1.1,
		RaiseToRatio:     0.95,
		LowerToRatio:     1.05,
	}
}

type Recommender struct {
	cfg Config
}

func NewRecommender(cfg Config) *Recommender {
	d := DefaultConfig()
	if cfg.UnderpricedRatio <= 0 {
		cfg.UnderpricedRatio = d.UnderpricedRatio
	}
	if cfg.OverpricedRatio <= 0 {
		cfg.OverpricedRatio = d.OverpricedRatio
	}
	if cfg.RaiseToRatio <= 0 {
		cfg.RaiseToRatio = d.RaiseToRatio
	}
	if cfg.LowerToRatio <= 0 {
		cfg.LowerToRatio = d.LowerToRatio
	}
	return &Recommender{cfg: cfg}
}

// Statistics summarizes the positive peer prices. It returns nil when no
// peer has a usable price.
func Statistics(comparables []domain.MarketComparable) *domain.MarketStatistics {
	prices := make([]float64, 0, len(comparables))
	for _, c := range comparables {
		if c.Price > 0 && !math.IsInf(c.Price, 0) {
			prices = append(prices, c.Price)
		}
	}
	if len(prices) == 0 {
		return nil
	}

	mean, std := stat.PopMeanStdDev(prices, nil)
	return &domain.MarketStatistics{
		AveragePrice:      mean,
		MedianPrice:       median(prices),
		StandardDeviation: std,
		PeerCount:         len(comparables),
	}
}

// Recommend positions currentPrice against the peer mean.
func (r *Recommender) Recommend(comparables []domain.MarketComparable, currentPrice float64) domain.PriceRecommendation {
	result := domain.PriceRecommendation{
		CurrentPrice:     currentPrice,
		RecommendedPrice: currentPrice,
		Recommendations:  []domain.PriceNarrative{},
	}

	stats := Statistics(comparables)
	if stats == nil {
		return result
	}
	result.MarketAnalysis = stats

	mean := stats.AveragePrice
	var message string
	switch {
	case currentPrice < mean*r.cfg.UnderpricedRatio:
		result.RecommendedPrice = roundPrice(mean * r.cfg.RaiseToRatio)
		message = MessageIncrease
	case currentPrice > mean*r.cfg.OverpricedRatio:
		result.RecommendedPrice = roundPrice(mean * r.cfg.LowerToRatio)
		message = MessageReduce
	default:
		message = MessageWellPosition
	}
	result.RecommendedPrice = math.Max(0, result.RecommendedPrice)

	result.Recommendations = append(result.Recommendations,
		domain.PriceNarrative{
			Type:        NarrativeMarketPositioning,
			Description: message,
			Impact:      ImpactMedium,
		},
		domain.PriceNarrative{
			Type:        NarrativeCompetitiveAnalysis,
			Description: deltaDescription(currentPrice, mean),
			Impact:      ImpactHigh,
		},
	)
	return result
}

func deltaDescription(current, mean float64) string {
	delta := (current - mean) / mean * 100
	direction := "below"
	if current > mean {
		direction = "above"
	}
	return fmt.Sprintf("Your price is %.1f%% %s market average", math.Abs(delta), direction)
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func roundPrice(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
