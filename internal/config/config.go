// backend-go/internal/config/config.go
package config

import (
	"sync"

	"github.com/andresuchdata/cesto-ai/backend-go/internal/forecast"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/inventory"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/pricing"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	AI        AIConfig
	Forecast  ForecastConfig
	Inventory InventoryConfig
	Pricing   PricingConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	LogFormat      string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled       bool
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	TTLSeconds    int
}

// AIConfig selects the text-generation provider used for business insights.
// An empty provider disables insights.
type AIConfig struct {
	Provider    string
	GroqAPIKey  string
	GroqModel   string
	GroqBaseURL string
	GeminiKey   string
	GeminiModel string
	Temperature float64
	MaxTokens   int
}

type ForecastConfig struct {
	WindowSize        int
	MinRecords        int
	MinTrainingPairs  int
	DefaultDemand     float64
	MaxPredictionDays int
	Trees             int
	MaxDepth          int
	MinSamplesSplit   int
	MinSamplesLeaf    int
	Seed              int64
	Workers           int
	BatchConcurrency  int
}

type InventoryConfig struct {
	ThresholdMultiplier float64
	LeadTimeDailyUnits  float64
	OverstockMultiplier float64
	CarryingCostRate    float64
}

type PricingConfig struct {
	UnderpricedRatio float64
	OverpricedRatio  float64
	RaiseToRatio     float64
	LowerToRatio     float64
	PeerLimit        int
}

var (
	once     sync.Once
	instance *Config
)

// Load reads the process configuration once from the environment (and an
// optional .env file).
func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		instance = New(viper.GetViper())
	})

	return instance
}

// New builds a Config from the given viper instance after registering the
// defaults. Tests pass a fresh viper.New().
func New(v *viper.Viper) *Config {
	setDefaults(v)

	// Read from environment variables
	v.AutomaticEnv()

	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			LogFormat:      v.GetString("LOG_FORMAT"),
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: v.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			URL:      v.GetString("DATABASE_URL"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Cache: CacheConfig{
			Enabled:       v.GetBool("CACHE_ENABLED"),
			RedisURL:      v.GetString("REDIS_URL"),
			RedisHost:     v.GetString("REDIS_HOST"),
			RedisPort:     v.GetString("REDIS_PORT"),
			RedisPassword: v.GetString("REDIS_PASSWORD"),
			RedisDB:       v.GetInt("REDIS_DB"),
			TTLSeconds:    v.GetInt("AI_MODEL_CACHE_TTL_SECONDS"),
		},
		AI: AIConfig{
			Provider:    v.GetString("AI_PROVIDER"),
			GroqAPIKey:  v.GetString("GROQ_API_KEY"),
			GroqModel:   v.GetString("GROQ_MODEL"),
			GroqBaseURL: v.GetString("GROQ_BASE_URL"),
			GeminiKey:   v.GetString("GEMINI_API_KEY"),
			GeminiModel: v.GetString("GEMINI_MODEL"),
			Temperature: v.GetFloat64("AI_TEMPERATURE"),
			MaxTokens:   v.GetInt("AI_MAX_TOKENS"),
		},
		Forecast: ForecastConfig{
			WindowSize:        v.GetInt("FORECAST_WINDOW_SIZE"),
			MinRecords:        v.GetInt("FORECAST_MIN_RECORDS"),
			MinTrainingPairs:  v.GetInt("FORECAST_MIN_TRAINING_PAIRS"),
			DefaultDemand:     v.GetFloat64("FORECAST_DEFAULT_DEMAND"),
			MaxPredictionDays: v.GetInt("FORECAST_MAX_PREDICTION_DAYS"),
			Trees:             v.GetInt("FORECAST_TREES"),
			MaxDepth:          v.GetInt("FORECAST_MAX_DEPTH"),
			MinSamplesSplit:   v.GetInt("FORECAST_MIN_SAMPLES_SPLIT"),
			MinSamplesLeaf:    v.GetInt("FORECAST_MIN_SAMPLES_LEAF"),
			Seed:              v.GetInt64("FORECAST_SEED"),
			Workers:           v.GetInt("FORECAST_WORKERS"),
			BatchConcurrency:  v.GetInt("FORECAST_BATCH_CONCURRENCY"),
		},
		Inventory: InventoryConfig{
			ThresholdMultiplier: v.GetFloat64("INVENTORY_THRESHOLD_MULTIPLIER"),
			LeadTimeDailyUnits:  v.GetFloat64("INVENTORY_LEAD_TIME_DAILY_UNITS"),
			OverstockMultiplier: v.GetFloat64("INVENTORY_OVERSTOCK_MULTIPLIER"),
			CarryingCostRate:    v.GetFloat64("INVENTORY_CARRYING_COST_RATE"),
		},
		Pricing: PricingConfig{
			UnderpricedRatio: v.GetFloat64("PRICING_UNDERPRICED_RATIO"),
			OverpricedRatio:  v.GetFloat64("PRICING_OVERPRICED_RATIO"),
			RaiseToRatio:     v.GetFloat64("PRICING_RAISE_TO_RATIO"),
			LowerToRatio:     v.GetFloat64("PRICING_LOWER_TO_RATIO"),
			PeerLimit:        v.GetInt("PRICING_PEER_LIMIT"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	fc := forecast.DefaultConfig()
	ic := inventory.DefaultConfig()
	pc := pricing.DefaultConfig()

	// Set default values
	v.SetDefault("SERVER_PORT", "8001")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("SERVER_READ_TIMEOUT", 30)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 60)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"http://localhost:4400", "http://localhost:3400"})
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "cesto_user")
	v.SetDefault("DB_PASSWORD", "cesto_password")
	v.SetDefault("DB_NAME", "cesto_ai")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("AI_MODEL_CACHE_TTL_SECONDS", 3600)
	v.SetDefault("AI_PROVIDER", "")
	v.SetDefault("GROQ_API_KEY", "")
	v.SetDefault("GROQ_MODEL", "llama-3.3-70b-versatile")
	v.SetDefault("GROQ_BASE_URL", "https://api.groq.com/openai/v1")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-pro")
	v.SetDefault("AI_TEMPERATURE", 0.7)
	v.SetDefault("AI_MAX_TOKENS", 500)
	v.SetDefault("FORECAST_WINDOW_SIZE", fc.WindowSize)
	v.SetDefault("FORECAST_MIN_RECORDS", fc.MinRecords)
	v.SetDefault("FORECAST_MIN_TRAINING_PAIRS", fc.Model.MinTrainingPairs)
	v.SetDefault("FORECAST_DEFAULT_DEMAND", fc.DefaultDemand)
	v.SetDefault("FORECAST_MAX_PREDICTION_DAYS", 365)
	v.SetDefault("FORECAST_TREES", fc.Model.NumTrees)
	v.SetDefault("FORECAST_MAX_DEPTH", fc.Model.MaxDepth)
	v.SetDefault("FORECAST_MIN_SAMPLES_SPLIT", fc.Model.MinSamplesSplit)
	v.SetDefault("FORECAST_MIN_SAMPLES_LEAF", fc.Model.MinSamplesLeaf)
	v.SetDefault("FORECAST_SEED", fc.Model.Seed)
	v.SetDefault("FORECAST_WORKERS", fc.Model.Workers)
	v.SetDefault("FORECAST_BATCH_CONCURRENCY", 4)
	v.SetDefault("INVENTORY_THRESHOLD_MULTIPLIER", ic.ThresholdMultiplier)
	v.SetDefault("INVENTORY_LEAD_TIME_DAILY_UNITS", ic.LeadTimeDailyUnits)
	v.SetDefault("INVENTORY_OVERSTOCK_MULTIPLIER", ic.OverstockMultiplier)
	v.SetDefault("INVENTORY_CARRYING_COST_RATE", ic.CarryingCostRate)
	v.SetDefault("PRICING_UNDERPRICED_RATIO", pc.UnderpricedRatio)
	v.SetDefault("PRICING_OVERPRICED_RATIO", pc.OverpricedRatio)
	v.SetDefault("PRICING_RAISE_TO_RATIO", pc.RaiseToRatio)
	v.SetDefault("PRICING_LOWER_TO_RATIO", pc.LowerToRatio)
	v.SetDefault("PRICING_PEER_LIMIT", 10)
}

// ForecastEngineConfig maps the env-level settings onto the engine config.
func (c *Config) ForecastEngineConfig() forecast.Config {
	fc := forecast.DefaultConfig()
	fc.WindowSize = c.Forecast.WindowSize
	fc.MinRecords = c.Forecast.MinRecords
	fc.DefaultDemand = c.Forecast.DefaultDemand
	fc.Model.MinTrainingPairs = c.Forecast.MinTrainingPairs
	fc.Model.NumTrees = c.Forecast.Trees
	fc.Model.MaxDepth = c.Forecast.MaxDepth
	fc.Model.MinSamplesSplit = c.Forecast.MinSamplesSplit
	fc.Model.MinSamplesLeaf = c.Forecast.MinSamplesLeaf
	fc.Model.Seed = c.Forecast.Seed
	fc.Model.Workers = c.Forecast.Workers
	return fc
}

func (c *Config) OptimizerConfig() inventory.Config {
	return inventory.Config{
		ThresholdMultiplier: c.Inventory.ThresholdMultiplier,
		LeadTimeDailyUnits:  c.Inventory.LeadTimeDailyUnits,
		OverstockMultiplier: c.Inventory.OverstockMultiplier,
		CarryingCostRate:    c.Inventory.CarryingCostRate,
	}
}

func (c *Config) RecommenderConfig() pricing.Config {
	return pricing.Config{
		UnderpricedRatio: c.Pricing.UnderpricedRatio,
		OverpricedRatio:  c.Pricing.OverpricedRatio,
		RaiseToRatio:     c.Pricing.RaiseToRatio,
		LowerToRatio:     c.Pricing.LowerToRatio,
	}
}
