package domain

import "time"

// DemandForecastRequest is the body of POST /ai/demand-forecast
type DemandForecastRequest struct {
	ProductID    string `json:"product_id" binding:"required"`
	StartDate    string `json:"start_date" binding:"required"`
	EndDate      string `json:"end_date" binding:"required"`
	ForecastDays int    `json:"forecast_days"`
}

// BatchForecastRequest forecasts several products over the same period
type BatchForecastRequest struct {
	ProductIDs   []string `json:"product_ids" binding:"required,min=1"`
	StartDate    string   `json:"start_date" binding:"required"`
	EndDate      string   `json:"end_date" binding:"required"`
	ForecastDays int      `json:"forecast_days"`
}

// ForecastQuery is a parsed and validated forecast request
type ForecastQuery struct {
	ProductID    string
	Start        time.Time
	End          time.Time
	ForecastDays int
}

// DemandForecastResponse is returned by the demand forecast endpoints
type DemandForecastResponse struct {
	ProductID       string          `json:"product_id"`
	ForecastPeriod  int             `json:"forecast_period"`
	Predictions     []ForecastPoint `json:"predictions"`
	ConfidenceScore float64         `json:"confidence_score"`
	ModelUsed       string          `json:"model_used"`
	AIInsights      *string         `json:"ai_insights,omitempty"`
}

// InventoryOptimizationRequest is the body of POST /ai/inventory-optimization
type InventoryOptimizationRequest struct {
	BuyerID           string   `json:"buyer_id" binding:"required"`
	OptimizationGoals []string `json:"optimization_goals"`
}

// InventoryOptimizationResponse wraps an InventoryPlan for a buyer
type InventoryOptimizationResponse struct {
	BuyerID string `json:"buyer_id"`
	InventoryPlan
}

// PriceRecommendationRequest is the body of POST /ai/price-recommendations
type PriceRecommendationRequest struct {
	ProductID           string `json:"product_id" binding:"required"`
	MarketAnalysisDepth string `json:"market_analysis_depth"`
}

// PriceRecommendationResponse wraps a PriceRecommendation for a product
type PriceRecommendationResponse struct {
	ProductID string `json:"product_id"`
	PriceRecommendation
}

// InsightsRequest is the body of POST /ai/groq-insights
type InsightsRequest struct {
	Prompt  string         `json:"prompt"`
	Context map[string]any `json:"context"`
}

// InsightsResponse carries generated business insights
type InsightsResponse struct {
	Insights           string    `json:"insights"`
	Timestamp          time.Time `json:"timestamp"`
	ModelUsed          string    `json:"model_used"`
	AIServiceAvailable bool      `json:"ai_service_available"`
}

// ServiceStatus reports collaborator availability
type ServiceStatus struct {
	AIServiceAvailable bool      `json:"ai_service_available"`
	RedisAvailable     bool      `json:"redis_available"`
	Timestamp          time.Time `json:"timestamp"`
}
