package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andresuchdata/cesto-ai/backend-go/internal/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordForecast(t *testing.T) {
	c := NewCollector()

	c.RecordForecast("random_forest", 0.8, 120*time.Millisecond)
	c.RecordForecast("random_forest", 0.7, 80*time.Millisecond)
	c.RecordForecast("default", 0.5, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.forecasts.WithLabelValues("random_forest")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.forecasts.WithLabelValues("default")))
}

func TestRecordInventoryPlan(t *testing.T) {
	c := NewCollector()

	c.RecordInventoryPlan(domain.InventoryPlan{Recommendations: []domain.InventoryRecommendation{
		{Reason: "Below optimal level"},
		{Reason: "Below optimal level"},
		{Reason: "Overstocked - reduce ordering"},
	}})

	assert.Equal(t, 2.0, testutil.ToFloat64(c.inventoryRecs.WithLabelValues("Below optimal level")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.inventoryRecs.WithLabelValues("Overstocked - reduce ordering")))
}

func TestPosition(t *testing.T) {
	stats := &domain.MarketStatistics{AveragePrice: 10}

	tests := []struct {
		name string
		rec  domain.PriceRecommendation
		want string
	}{
		{"no peers", domain.PriceRecommendation{CurrentPrice: 5, RecommendedPrice: 5}, PositionNoMarketData},
		{"raise", domain.PriceRecommendation{CurrentPrice: 7, RecommendedPrice: 9.5, MarketAnalysis: stats}, PositionRaise},
		{"lower", domain.PriceRecommendation{CurrentPrice: 12, RecommendedPrice: 10.5, MarketAnalysis: stats}, PositionLower},
		{"hold", domain.PriceRecommendation{CurrentPrice: 10, RecommendedPrice: 10, MarketAnalysis: stats}, PositionHold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Position(tt.rec))
		})
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := NewCollector()
	c.RecordPriceRecommendation(domain.PriceRecommendation{CurrentPrice: 1, RecommendedPrice: 1})
	c.RecordInsight("generated")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `cesto_ai_price_recommendations_total{position="no_market_data"} 1`)
	assert.Contains(t, rec.Body.String(), `cesto_ai_insight_requests_total{outcome="generated"} 1`)
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.RecordForecast("default", 0.5, time.Second)
		c.RecordInventoryPlan(domain.InventoryPlan{})
		c.RecordPriceRecommendation(domain.PriceRecommendation{})
		c.RecordInsight("unavailable")
	})
}
