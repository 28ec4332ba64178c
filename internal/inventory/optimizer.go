// Package inventory turns a buyer's stock lines into reorder and drawdown
// recommendations.
package inventory

import (
	"math"

	"github.com/andresuchdata/cesto-ai/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	ReasonBelowOptimal = "Below optimal level"
	ReasonOverstocked  = "Overstocked - reduce ordering"
)

// Config holds the stocking rules.
type Config struct {
	// ThresholdMultiplier scales the minimum stock threshold into a target.
	ThresholdMultiplier float64
	// LeadTimeDailyUnits is the assumed daily usage covered during lead time.
	LeadTimeDailyUnits float64
	// OverstockMultiplier of the optimal stock above which a line is overstocked.
	OverstockMultiplier float64
	// CarryingCostRate is the share of excess stock value saved by destocking.
	CarryingCostRate float64
}

func DefaultConfig() Config {
	return Config{
		ThresholdMultiplier: 2,
		LeadTimeDailyUnits:  5,
		OverstockMultiplier: 1.5,
		CarryingCostRate:    0.10,
	}
}

// Optimizer evaluates inventory lines against their optimal stock level.
type Optimizer struct {
	cfg Config
}

func NewOptimizer(cfg Config) *Optimizer {
	d := DefaultConfig()
	if cfg.ThresholdMultiplier <= 0 {
		cfg.ThresholdMultiplier = d.ThresholdMultiplier
	}
	if cfg.LeadTimeDailyUnits <= 0 {
		cfg.LeadTimeDailyUnits = d.LeadTimeDailyUnits
	}
	if cfg.OverstockMultiplier <= 0 {
		cfg.OverstockMultiplier = d.OverstockMultiplier
	}
	if cfg.CarryingCostRate < 0 {
		cfg.CarryingCostRate = d.CarryingCostRate
	}
	return &Optimizer{cfg: cfg}
}

// OptimalStock is max(threshold × min stock, daily units × lead time).
func (o *Optimizer) OptimalStock(item domain.InventoryItem) int {
	byThreshold := o.cfg.ThresholdMultiplier * float64(item.MinStockThreshold)
	byLeadTime := o.cfg.LeadTimeDailyUnits * float64(item.LeadTimeDays)
	return int(math.Ceil(math.Max(byThreshold, byLeadTime)))
}

// Optimize emits at most one recommendation per item. Items between the
// optimal level and the overstock limit need no action.
func (o *Optimizer) Optimize(items []domain.InventoryItem) domain.InventoryPlan {
	plan := domain.InventoryPlan{
		Recommendations: []domain.InventoryRecommendation{},
	}
	if len(items) == 0 {
		return plan
	}

	totalSavings := decimal.Zero
	for _, item := range items {
		rec, savings, ok := o.evaluate(item)
		if !ok {
			continue
		}
		plan.Recommendations = append(plan.Recommendations, rec)
		totalSavings = totalSavings.Add(savings)
	}

	plan.TotalCostSavings = totalSavings.InexactFloat64()
	plan.OptimizationScore = float64(len(plan.Recommendations)) / float64(len(items))
	return plan
}

func (o *Optimizer) evaluate(item domain.InventoryItem) (domain.InventoryRecommendation, decimal.Decimal, bool) {
	optimal := o.OptimalStock(item)
	price := decimal.NewFromFloat(item.UnitPrice)

	rec := domain.InventoryRecommendation{
		ProductID:        item.ProductID,
		ProductName:      item.ProductName,
		CurrentStock:     item.CurrentStock,
		RecommendedStock: optimal,
	}

	switch {
	case item.CurrentStock < optimal:
		order := optimal - item.CurrentStock
		rec.RecommendedOrderQuantity = order
		rec.EstimatedCost = price.Mul(decimal.NewFromInt(int64(order))).InexactFloat64()
		rec.Reason = ReasonBelowOptimal
		return rec, decimal.Zero, true

	case float64(item.CurrentStock) > o.cfg.OverstockMultiplier*float64(optimal):
		excess := item.CurrentStock - optimal
		savings := price.
			Mul(decimal.NewFromInt(int64(excess))).
			Mul(decimal.NewFromFloat(o.cfg.CarryingCostRate))
		rec.RecommendedOrderQuantity = -excess
		rec.EstimatedCost = savings.Neg().InexactFloat64()
		rec.Reason = ReasonOverstocked
		return rec, savings, true
	}

	return rec, decimal.Zero, false
}
