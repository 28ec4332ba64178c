package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestNew_Defaults(t *testing.T) {
	cfg := New(viper.New())

	assert.Equal(t, "8001", cfg.Server.Port)
	assert.Equal(t, 3600, cfg.Cache.TTLSeconds)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.AI.GroqModel)
	assert.Equal(t, 500, cfg.AI.MaxTokens)
	assert.Equal(t, 365, cfg.Forecast.MaxPredictionDays)
	assert.Equal(t, 7, cfg.Forecast.WindowSize)
	assert.Equal(t, 100, cfg.Forecast.Trees)
	assert.EqualValues(t, 42, cfg.Forecast.Seed)
	assert.Equal(t, 10, cfg.Pricing.PeerLimit)
}

func TestNew_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("FORECAST_WINDOW_SIZE", "14")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("INVENTORY_CARRYING_COST_RATE", "0.2")

	cfg := New(viper.New())

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 14, cfg.Forecast.WindowSize)
	assert.True(t, cfg.Cache.Enabled)
	assert.InDelta(t, 0.2, cfg.Inventory.CarryingCostRate, 1e-9)
}

func TestConverters(t *testing.T) {
	t.Setenv("FORECAST_TREES", "25")
	t.Setenv("PRICING_OVERPRICED_RATIO", "1.2")

	cfg := New(viper.New())

	fc := cfg.ForecastEngineConfig()
	assert.Equal(t, 25, fc.Model.NumTrees)
	assert.Equal(t, 7, fc.WindowSize)
	assert.InDelta(t, 10.0, fc.DefaultDemand, 1e-9)

	assert.InDelta(t, 2.0, cfg.OptimizerConfig().ThresholdMultiplier, 1e-9)
	assert.InDelta(t, 1.2, cfg.RecommenderConfig().OverpricedRatio, 1e-9)
}
