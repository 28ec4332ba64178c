package service

import (
	"context"
	"time"

	"github.com/andresuchdata/cesto-ai/backend-go/internal/cache"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/domain"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/insights"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/metrics"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// InsightsService answers free-form questions and reports collaborator health.
type InsightsService struct {
	insights *insights.Service
	cache    cache.ResultCache
	metrics  *metrics.Collector
	now      func() time.Time
}

func NewInsightsService(insightsSvc *insights.Service, cacheImpl cache.ResultCache, collector *metrics.Collector) *InsightsService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopResultCache()
	}
	return &InsightsService{insights: insightsSvc, cache: cacheImpl, metrics: collector, now: time.Now}
}

func (s *InsightsService) Ask(ctx context.Context, req domain.InsightsRequest) (*domain.InsightsResponse, error) {
	if req.Prompt == "" {
		return nil, invalid("prompt is required")
	}

	text, err := s.insights.BusinessInsights(ctx, req.Prompt, req.Context)
	switch {
	case errors.Is(err, insights.ErrUnavailable):
		s.metrics.RecordInsight("unavailable")
	case err != nil:
		s.metrics.RecordInsight("error")
		return nil, err
	default:
		s.metrics.RecordInsight("generated")
	}

	return &domain.InsightsResponse{
		Insights:           text,
		Timestamp:          s.now(),
		ModelUsed:          s.insights.Model(),
		AIServiceAvailable: s.insights.Available(),
	}, nil
}

func (s *InsightsService) Status(ctx context.Context) domain.ServiceStatus {
	return domain.ServiceStatus{
		AIServiceAvailable: s.insights.Available(),
		RedisAvailable:     s.CacheAvailable(ctx),
		Timestamp:          s.now(),
	}
}

func (s *InsightsService) CacheAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.cache.Ping(ctx) == nil
}

// ClearCache drops every cached insight.
func (s *InsightsService) ClearCache(ctx context.Context) error {
	log.Info().Msg("insights: clearing cache")
	if err := s.cache.InvalidateAll(ctx); err != nil {
		return errors.Wrap(err, "failed to clear cache")
	}
	return nil
}
