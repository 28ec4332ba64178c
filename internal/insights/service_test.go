package insights

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/andresuchdata/cesto-ai/backend-go/internal/cache"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/config"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	mu      sync.Mutex
	prompts []string
	reply   string
	err     error
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func (f *fakeGenerator) Model() string { return "fake-model" }

func (f *fakeGenerator) Close() error { return nil }

type memoryCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryCache() *memoryCache { return &memoryCache{data: map[string]string{}} }

func (m *memoryCache) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryCache) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memoryCache) InvalidateAll(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = map[string]string{}
	return nil
}

func (m *memoryCache) Ping(context.Context) error { return nil }

func TestBusinessInsights_Unavailable(t *testing.T) {
	svc := NewService(nil, nil)

	text, err := svc.BusinessInsights(context.Background(), "how are sales?", nil)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, UnavailableMessage, text)
	assert.False(t, svc.Available())
	assert.Empty(t, svc.Model())
}

func TestBusinessInsights_CachesByPrompt(t *testing.T) {
	gen := &fakeGenerator{reply: "sell more coffee"}
	mem := newMemoryCache()
	svc := NewService(gen, mem)
	ctx := context.Background()
	data := map[string]any{"region": "north"}

	first, err := svc.BusinessInsights(ctx, "what to stock?", data)
	require.NoError(t, err)
	second, err := svc.BusinessInsights(ctx, "what to stock?", data)
	require.NoError(t, err)

	assert.Equal(t, "sell more coffee", first)
	assert.Equal(t, first, second)
	assert.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], `"region": "north"`)

	full, err := BuildPrompt("what to stock?", data)
	require.NoError(t, err)
	assert.Contains(t, mem.data, cache.InsightsKey(full))
}

func TestBusinessInsights_ContextChangesCacheKey(t *testing.T) {
	gen := &fakeGenerator{reply: "north answer"}
	svc := NewService(gen, newMemoryCache())
	ctx := context.Background()

	north, err := svc.BusinessInsights(ctx, "what to stock?", map[string]any{"region": "north"})
	require.NoError(t, err)
	gen.reply = "south answer"
	south, err := svc.BusinessInsights(ctx, "what to stock?", map[string]any{"region": "south"})
	require.NoError(t, err)

	assert.Equal(t, "north answer", north)
	assert.Equal(t, "south answer", south)
	assert.Len(t, gen.prompts, 2)
}

func TestDemandForecastInsights_SeparatePerProduct(t *testing.T) {
	gen := &fakeGenerator{reply: "insights for product A"}
	svc := NewService(gen, newMemoryCache())
	ctx := context.Background()
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	series := func(total float64) []domain.DailyDemand {
		out := make([]domain.DailyDemand, 7)
		for i := range out {
			out[i] = domain.DailyDemand{Date: day.AddDate(0, 0, i), Total: total}
		}
		return out
	}
	preds := []domain.ForecastPoint{{Date: day.AddDate(0, 0, 7), PredictedDemand: 5}}

	a, err := svc.DemandForecastInsights(ctx, series(5), preds)
	require.NoError(t, err)
	gen.reply = "insights for product B"
	b, err := svc.DemandForecastInsights(ctx, series(900), preds)
	require.NoError(t, err)
	again, err := svc.DemandForecastInsights(ctx, series(5), preds)
	require.NoError(t, err)

	assert.Equal(t, "insights for product A", a)
	assert.Equal(t, "insights for product B", b)
	assert.Equal(t, a, again)
	assert.Len(t, gen.prompts, 2)
}

func TestBusinessInsights_GeneratorError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("rate limited")}
	svc := NewService(gen, newMemoryCache())

	_, err := svc.BusinessInsights(context.Background(), "q", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestDemandForecastInsights_TrimsHistory(t *testing.T) {
	gen := &fakeGenerator{reply: "steady demand"}
	svc := NewService(gen, nil)

	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	history := make([]domain.DailyDemand, 40)
	for i := range history {
		history[i] = domain.DailyDemand{Date: day.AddDate(0, 0, i), Total: float64(i)}
	}

	text, err := svc.DemandForecastInsights(context.Background(), history, nil)
	require.NoError(t, err)
	assert.Equal(t, "steady demand", text)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], `"data_points": 40`)
	assert.Contains(t, gen.prompts[0], "2024-01-11")
	assert.NotContains(t, gen.prompts[0], "2024-01-10")
}

func TestBuildPrompt_NoContext(t *testing.T) {
	p, err := BuildPrompt("why?", nil)
	require.NoError(t, err)
	assert.Contains(t, p, "No additional context")
	assert.Contains(t, p, "Question/Analysis: why?")
}

func TestNewGenerator_Selection(t *testing.T) {
	ctx := context.Background()

	gen, err := NewGenerator(ctx, config.AIConfig{})
	require.NoError(t, err)
	assert.Nil(t, gen)

	_, err = NewGenerator(ctx, config.AIConfig{Provider: "groq"})
	assert.Error(t, err)

	_, err = NewGenerator(ctx, config.AIConfig{Provider: "bard"})
	assert.Error(t, err)

	gen, err = NewGenerator(ctx, config.AIConfig{
		GroqAPIKey:  "test-key",
		GroqModel:   "llama-3.3-70b-versatile",
		GroqBaseURL: "https://api.groq.com/openai/v1",
	})
	require.NoError(t, err)
	assert.Equal(t, "llama-3.3-70b-versatile", gen.Model())
}
