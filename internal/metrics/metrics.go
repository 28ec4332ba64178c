// Package metrics exposes prometheus counters for the decision engines.
package metrics

import (
	"net/http"
	"time"

	"github.com/andresuchdata/cesto-ai/backend-go/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cesto_ai"

const (
	PositionRaise        = "raise"
	PositionLower        = "lower"
	PositionHold         = "hold"
	PositionNoMarketData = "no_market_data"
)

// Collector owns a private registry so tests and multiple servers never
// collide on the default one.
type Collector struct {
	registry *prometheus.Registry

	forecasts          *prometheus.CounterVec
	forecastConfidence prometheus.Histogram
	forecastDuration   *prometheus.HistogramVec
	inventoryRecs      *prometheus.CounterVec
	priceRecs          *prometheus.CounterVec
	insightRequests    *prometheus.CounterVec
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		forecasts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "forecasts_total",
				Help:      "Demand forecasts served, by model label",
			},
			[]string{"model"},
		),
		forecastConfidence: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "forecast_confidence",
				Help:      "Confidence score of served forecasts",
				Buckets:   prometheus.LinearBuckets(0.1, 0.1, 9),
			},
		),
		forecastDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "forecast_duration_seconds",
				Help:      "Time spent training and rolling out a forecast",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"model"},
		),
		inventoryRecs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "inventory_recommendations_total",
				Help:      "Inventory recommendations emitted, by reason",
			},
			[]string{"reason"},
		),
		priceRecs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "price_recommendations_total",
				Help:      "Price recommendations emitted, by positioning",
			},
			[]string{"position"},
		),
		insightRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "insight_requests_total",
				Help:      "Insight generation attempts, by outcome",
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(
		c.forecasts,
		c.forecastConfidence,
		c.forecastDuration,
		c.inventoryRecs,
		c.priceRecs,
		c.insightRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) RecordForecast(model string, confidence float64, took time.Duration) {
	if c == nil {
		return
	}
	c.forecasts.WithLabelValues(model).Inc()
	c.forecastConfidence.Observe(confidence)
	c.forecastDuration.WithLabelValues(model).Observe(took.Seconds())
}

func (c *Collector) RecordInventoryPlan(plan domain.InventoryPlan) {
	if c == nil {
		return
	}
	for _, rec := range plan.Recommendations {
		c.inventoryRecs.WithLabelValues(rec.Reason).Inc()
	}
}

func (c *Collector) RecordPriceRecommendation(rec domain.PriceRecommendation) {
	if c == nil {
		return
	}
	c.priceRecs.WithLabelValues(Position(rec)).Inc()
}

func (c *Collector) RecordInsight(outcome string) {
	if c == nil {
		return
	}
	c.insightRequests.WithLabelValues(outcome).Inc()
}

// Position classifies a recommendation by the direction of the price move.
func Position(rec domain.PriceRecommendation) string {
	switch {
	case rec.MarketAnalysis == nil:
		return PositionNoMarketData
	case rec.RecommendedPrice > rec.CurrentPrice:
		return PositionRaise
	case rec.RecommendedPrice < rec.CurrentPrice:
		return PositionLower
	default:
		return PositionHold
	}
}
