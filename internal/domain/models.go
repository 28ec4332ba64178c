// backend-go/internal/domain/models.go
package domain

import "time"

// SaleRecord is a single order line for a product
type SaleRecord struct {
	ProductID   string    `json:"product_id" db:"product_id"`
	ProductName string    `json:"product_name,omitempty" db:"product_name"`
	Category    string    `json:"category,omitempty" db:"category"`
	Timestamp   time.Time `json:"created_at" db:"created_at"`
	Quantity    int       `json:"quantity" db:"quantity"`
}

// DailyDemand is the total quantity sold on one calendar date
type DailyDemand struct {
	Date  time.Time `json:"date"`
	Total float64   `json:"total"`
}

// ForecastPoint is one day of predicted demand
type ForecastPoint struct {
	Date            time.Time `json:"date"`
	PredictedDemand float64   `json:"predicted_demand"`
}

// InventoryItem represents a buyer's stock line joined with its product
type InventoryItem struct {
	ProductID         string  `json:"product_id" db:"product_id"`
	ProductName       string  `json:"product_name" db:"product_name"`
	Category          string  `json:"category" db:"category"`
	CurrentStock      int     `json:"current_stock" db:"current_stock"`
	MinStockThreshold int     `json:"min_stock_threshold" db:"min_stock_threshold"`
	UnitPrice         float64 `json:"price" db:"price"`
	LeadTimeDays      int     `json:"lead_time_days" db:"lead_time_days"`
}

// InventoryRecommendation suggests an order (positive quantity) or a
// drawdown (negative quantity) for one inventory line
type InventoryRecommendation struct {
	ProductID                string  `json:"product_id"`
	ProductName              string  `json:"product_name"`
	CurrentStock             int     `json:"current_stock"`
	RecommendedStock         int     `json:"recommended_stock"`
	RecommendedOrderQuantity int     `json:"recommended_order_quantity"`
	EstimatedCost            float64 `json:"estimated_cost"`
	Reason                   string  `json:"reason"`
}

// InventoryPlan is the outcome of optimizing a buyer's inventory.
// OptimizationScore is the share of lines that need action, not a
// measure of how good the stock levels are.
type InventoryPlan struct {
	Recommendations   []InventoryRecommendation `json:"recommendations"`
	TotalCostSavings  float64                   `json:"total_cost_savings"`
	OptimizationScore float64                   `json:"optimization_score"`
}

// MarketComparable is a peer product in the same category with order history
type MarketComparable struct {
	ProductID       string  `json:"product_id" db:"id"`
	Name            string  `json:"name" db:"name"`
	Category        string  `json:"category" db:"category"`
	Price           float64 `json:"price" db:"price"`
	AvgQuantitySold float64 `json:"avg_quantity_sold" db:"avg_quantity_sold"`
	OrderCount      int     `json:"order_count" db:"order_count"`
}

// MarketStatistics summarizes peer prices
type MarketStatistics struct {
	AveragePrice      float64 `json:"average_market_price"`
	MedianPrice       float64 `json:"median_market_price"`
	StandardDeviation float64 `json:"price_standard_deviation"`
	PeerCount         int     `json:"competitor_count"`
}

// PriceNarrative is a human readable pricing hint
type PriceNarrative struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
}

// PriceRecommendation is the outcome of comparing a price to its peers
type PriceRecommendation struct {
	CurrentPrice     float64           `json:"current_price"`
	RecommendedPrice float64           `json:"recommended_price"`
	MarketAnalysis   *MarketStatistics `json:"market_analysis,omitempty"`
	Recommendations  []PriceNarrative  `json:"recommendations"`
}
