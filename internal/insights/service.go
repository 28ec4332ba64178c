// Package insights generates narrative business commentary from a text
// generation provider and caches it.
package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/andresuchdata/cesto-ai/backend-go/internal/cache"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/domain"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// UnavailableMessage is returned in place of insights when no provider is configured.
const UnavailableMessage = "AI service not available"

const historyContextPoints = 30

var ErrUnavailable = errors.New("ai service not available")

const promptTemplate = `You are an AI business analyst for Cesto AI, a food & beverage B2B platform.

Context: %s

Question/Analysis: %s

Please provide:
1. Key insights
2. Recommendations
3. Potential risks or opportunities

Keep the response concise and actionable.`

const demandPrompt = `Analyze this demand forecasting data and provide insights:
- What patterns do you see in the historical data?
- Are the predictions realistic based on the historical trends?
- What factors might influence future demand?
- Any recommendations for inventory management?`

type Service struct {
	gen   TextGenerator
	cache cache.ResultCache
}

// NewService accepts a nil generator, in which case every call reports
// ErrUnavailable.
func NewService(gen TextGenerator, cacheImpl cache.ResultCache) *Service {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopResultCache()
	}
	return &Service{gen: gen, cache: cacheImpl}
}

func (s *Service) Available() bool {
	return s != nil && s.gen != nil
}

// Model names the provider model, empty when unavailable.
func (s *Service) Model() string {
	if !s.Available() {
		return ""
	}
	return s.gen.Model()
}

// BusinessInsights answers a free-form question about the given context.
func (s *Service) BusinessInsights(ctx context.Context, prompt string, data map[string]any) (string, error) {
	if !s.Available() {
		return UnavailableMessage, ErrUnavailable
	}

	full, err := BuildPrompt(prompt, data)
	if err != nil {
		return "", err
	}

	// Keyed on the rendered prompt so the same question over different
	// context never shares an answer.
	key := cache.InsightsKey(full)
	if cached, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		log.Debug().Str("key", key).Msg("insights: returning cached result")
		return cached, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("insights: cache get failed")
	}

	start := time.Now()
	text, err := s.gen.Generate(ctx, full)
	if err != nil {
		return "", fmt.Errorf("error generating insights: %w", err)
	}
	log.Info().
		Str("model", s.gen.Model()).
		Dur("took", time.Since(start)).
		Msg("insights: generated new insights")

	if err := s.cache.Set(ctx, key, text); err != nil {
		log.Warn().Err(err).Msg("insights: cache set failed")
	}
	return text, nil
}

// DemandForecastInsights comments on a forecast given the recent history.
func (s *Service) DemandForecastInsights(ctx context.Context, history []domain.DailyDemand, predictions []domain.ForecastPoint) (string, error) {
	recent := history
	if len(recent) > historyContextPoints {
		recent = recent[len(recent)-historyContextPoints:]
	}

	data := map[string]any{
		"historical_demand": recent,
		"predictions":       predictions,
		"data_points":       len(history),
	}
	return s.BusinessInsights(ctx, demandPrompt, data)
}

// BuildPrompt wraps a question in the analyst instructions.
func BuildPrompt(prompt string, data map[string]any) (string, error) {
	ctxText := "No additional context"
	if len(data) > 0 {
		raw, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", fmt.Errorf("could not encode insight context: %w", err)
		}
		ctxText = string(raw)
	}
	return fmt.Sprintf(promptTemplate, ctxText, prompt), nil
}
