package forecast

// Config holds the forecasting constants. Zero fields fall back to the
// values in DefaultConfig.
type Config struct {
	// WindowSize is the number of consecutive daily totals fed to the model.
	WindowSize int
	// MinRecords is the minimum number of raw sale records needed before
	// feature construction is attempted.
	MinRecords int
	// DefaultDemand is the flat per-day demand emitted by fallback forecasts.
	DefaultDemand float64

	NoHistoryConfidence    float64
	InsufficientConfidence float64
	FailureConfidence      float64

	Model ModelConfig
}

// ModelConfig holds the fixed random forest hyperparameters and the
// bounds applied to the in-sample confidence score.
type ModelConfig struct {
	NumTrees        int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	// MaxFeatures limits the features considered per split; 0 uses all.
	MaxFeatures int
	Seed        int64
	// Workers bounds the number of trees fitted concurrently.
	Workers int

	MinTrainingPairs int
	MinConfidence    float64
	MaxConfidence    float64
}

func DefaultConfig() Config {
	return Config{
		WindowSize:             7,
		MinRecords:             10,
		DefaultDemand:          10,
		NoHistoryConfidence:    0.5,
		InsufficientConfidence: 0.3,
		FailureConfidence:      0.1,
		Model:                  DefaultModelConfig(),
	}
}

func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		NumTrees:         100,
		MaxDepth:         10,
		MinSamplesSplit:  5,
		MinSamplesLeaf:   2,
		Seed:             42,
		Workers:          4,
		MinTrainingPairs: 10,
		MinConfidence:    0.1,
		MaxConfidence:    0.9,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.WindowSize <= 0 {
		c.WindowSize = d.WindowSize
	}
	if c.MinRecords <= 0 {
		c.MinRecords = d.MinRecords
	}
	if c.DefaultDemand <= 0 {
		c.DefaultDemand = d.DefaultDemand
	}
	if c.NoHistoryConfidence <= 0 {
		c.NoHistoryConfidence = d.NoHistoryConfidence
	}
	if c.InsufficientConfidence <= 0 {
		c.InsufficientConfidence = d.InsufficientConfidence
	}
	if c.FailureConfidence <= 0 {
		c.FailureConfidence = d.FailureConfidence
	}
	c.Model = c.Model.withDefaults()
	return c
}

func (c ModelConfig) withDefaults() ModelConfig {
	d := DefaultModelConfig()
	if c.NumTrees <= 0 {
		c.NumTrees = d.NumTrees
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = d.MaxDepth
	}
	if c.MinSamplesSplit <= 0 {
		c.MinSamplesSplit = d.MinSamplesSplit
	}
	if c.MinSamplesLeaf <= 0 {
		c.MinSamplesLeaf = d.MinSamplesLeaf
	}
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	if c.MinTrainingPairs <= 0 {
		c.MinTrainingPairs = d.MinTrainingPairs
	}
	if c.MinConfidence <= 0 && c.MaxConfidence <= 0 {
		c.MinConfidence, c.MaxConfidence = d.MinConfidence, d.MaxConfidence
	}
	return c
}
