package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/cesto-ai/backend-go/internal/cache"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/domain"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/forecast"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/insights"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/metrics"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultForecastDays     = 30
	defaultMaxForecastDays  = 365
	defaultBatchConcurrency = 4
)

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

type ForecastOptions struct {
	MaxForecastDays  int
	BatchConcurrency int
}

type ForecastService struct {
	sales    repository.SalesRepository
	engine   *forecast.Engine
	insights *insights.Service
	cache    cache.ResultCache
	metrics  *metrics.Collector
	opts     ForecastOptions
}

func NewForecastService(
	sales repository.SalesRepository,
	engine *forecast.Engine,
	insightsSvc *insights.Service,
	cacheImpl cache.ResultCache,
	collector *metrics.Collector,
	opts ForecastOptions,
) *ForecastService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopResultCache()
	}
	if opts.MaxForecastDays <= 0 {
		opts.MaxForecastDays = defaultMaxForecastDays
	}
	if opts.BatchConcurrency <= 0 {
		opts.BatchConcurrency = defaultBatchConcurrency
	}
	return &ForecastService{
		sales:    sales,
		engine:   engine,
		insights: insightsSvc,
		cache:    cacheImpl,
		metrics:  collector,
		opts:     opts,
	}
}

// ParseQuery validates a forecast request. forecast_days defaults to 30.
func (s *ForecastService) ParseQuery(productID, startDate, endDate string, days int) (domain.ForecastQuery, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return domain.ForecastQuery{}, invalid("product_id is required")
	}

	start, err := parseDate(startDate)
	if err != nil {
		return domain.ForecastQuery{}, invalid("start_date: %v", err)
	}
	end, err := parseDate(endDate)
	if err != nil {
		return domain.ForecastQuery{}, invalid("end_date: %v", err)
	}
	if end.Before(start) {
		return domain.ForecastQuery{}, invalid("end_date must not be before start_date")
	}

	if days == 0 {
		days = DefaultForecastDays
	}
	if days < 1 || days > s.opts.MaxForecastDays {
		return domain.ForecastQuery{}, invalid("forecast_days must be between 1 and %d", s.opts.MaxForecastDays)
	}

	return domain.ForecastQuery{
		ProductID:    productID,
		Start:        start,
		End:          end,
		ForecastDays: days,
	}, nil
}

// Forecast loads the product's sales history and forecasts demand for it.
func (s *ForecastService) Forecast(ctx context.Context, q domain.ForecastQuery) (*domain.DemandForecastResponse, error) {
	records, err := s.sales.GetSalesHistory(ctx, q.ProductID, q.Start, q.End)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		log.Warn().Str("product_id", q.ProductID).Msg("forecast: no historical data found")
	}

	return s.ForecastRecords(ctx, q.ProductID, records, q.ForecastDays), nil
}

// ForecastRecords forecasts from already loaded records.
func (s *ForecastService) ForecastRecords(ctx context.Context, productID string, records []domain.SaleRecord, days int) *domain.DemandForecastResponse {
	start := time.Now()
	res := s.engine.Forecast(records, days)
	s.metrics.RecordForecast(res.Model, res.Confidence, time.Since(start))

	log.Info().
		Str("product_id", productID).
		Str("model", res.Model).
		Float64("confidence", res.Confidence).
		Int("records", len(records)).
		Msg("forecast: generated")

	resp := &domain.DemandForecastResponse{
		ProductID:       productID,
		ForecastPeriod:  days,
		Predictions:     res.Points,
		ConfidenceScore: res.Confidence,
		ModelUsed:       res.Model,
	}

	if len(records) > 0 && s.insights.Available() {
		history := forecast.DailySeries(records)
		text, err := s.insights.DemandForecastInsights(ctx, history, res.Points)
		if err != nil {
			s.metrics.RecordInsight("error")
			log.Warn().Err(err).Str("product_id", productID).Msg("forecast: insight generation failed")
		} else {
			s.metrics.RecordInsight("generated")
			resp.AIInsights = &text
			if err := s.cache.Set(ctx, cache.DemandInsightsKey(productID), text); err != nil {
				log.Warn().Err(err).Msg("forecast: cache set insights failed")
			}
		}
	}

	return resp
}

// ForecastBatch forecasts several products concurrently. Results keep the
// order of the requested product ids.
func (s *ForecastService) ForecastBatch(ctx context.Context, req domain.BatchForecastRequest) ([]domain.DemandForecastResponse, error) {
	queries := make([]domain.ForecastQuery, len(req.ProductIDs))
	for i, id := range req.ProductIDs {
		q, err := s.ParseQuery(id, req.StartDate, req.EndDate, req.ForecastDays)
		if err != nil {
			return nil, err
		}
		queries[i] = q
	}

	results := make([]domain.DemandForecastResponse, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.BatchConcurrency)

	for i, q := range queries {
		g.Go(func() error {
			resp, err := s.Forecast(gctx, q)
			if err != nil {
				return fmt.Errorf("forecast %s: %w", q.ProductID, err)
			}
			results[i] = *resp
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", value)
}
