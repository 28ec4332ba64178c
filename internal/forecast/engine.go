package forecast

import (
	"math"
	"time"

	"github.com/andresuchdata/cesto-ai/backend-go/internal/domain"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// State is the path the engine took to produce a forecast.
type State int

const (
	StateNoHistory State = iota
	StateInsufficientFeatures
	StateTrained
	StateTrainingFailed
)

// Model labels reported alongside a forecast.
const (
	ModelDefault          = "default"
	ModelInsufficientData = "insufficient_data"
	ModelRandomForest     = "random_forest"
	ModelError            = "error"
)

func (s State) String() string {
	switch s {
	case StateNoHistory:
		return "no_history"
	case StateInsufficientFeatures:
		return "insufficient_features"
	case StateTrained:
		return "trained"
	case StateTrainingFailed:
		return "training_failed"
	default:
		return "unknown"
	}
}

// Result is a demand forecast and the path that produced it.
type Result struct {
	Points          []domain.ForecastPoint
	Confidence      float64
	Model           string
	State           State
	TrainingSamples int
}

// Engine picks between the trained and fallback forecasts and rolls the
// trained model forward. It keeps no state between calls.
type Engine struct {
	cfg     Config
	builder *FeatureBuilder
	now     func() time.Time
}

type Option func(*Engine)

// WithClock overrides the time the forecast dates are counted from.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(cfg Config, opts ...Option) *Engine {
	cfg = cfg.withDefaults()
	e := &Engine{
		cfg:     cfg,
		builder: NewFeatureBuilder(cfg.WindowSize, cfg.MinRecords),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Config() Config {
	return e.cfg
}

// Forecast produces days points of predicted demand from the sale records.
func (e *Engine) Forecast(records []domain.SaleRecord, days int) Result {
	now := e.now()

	if len(records) == 0 {
		return e.fallback(StateNoHistory, now, days)
	}

	fs, err := e.builder.Build(records)
	if err != nil {
		log.Debug().Err(err).Int("records", len(records)).Msg("forecast: using default forecast")
		return e.fallback(StateInsufficientFeatures, now, days)
	}
	return e.fromFeatures(fs, now, days)
}

// fromFeatures trains on a built feature set and rolls the model forward,
// downgrading to a fallback forecast when training is not possible.
func (e *Engine) fromFeatures(fs *FeatureSet, now time.Time, days int) Result {
	if len(fs.Windows) < e.cfg.Model.MinTrainingPairs {
		log.Debug().
			Int("pairs", len(fs.Windows)).
			Int("required", e.cfg.Model.MinTrainingPairs).
			Msg("forecast: too few feature pairs, using default forecast")
		return e.fallback(StateInsufficientFeatures, now, days)
	}

	model, err := e.train(fs)
	if err != nil {
		log.Error().Stack().Err(err).Msg("forecast: training failed, using default forecast")
		return e.fallback(StateTrainingFailed, now, days)
	}

	return Result{
		Points:          Rollout(model, fs.LatestWindow(e.cfg.WindowSize), now, days),
		Confidence:      model.Confidence,
		Model:           ModelRandomForest,
		State:           StateTrained,
		TrainingSamples: model.Samples,
	}
}

func (e *Engine) train(fs *FeatureSet) (model *TrainedModel, err error) {
	defer func() {
		if r := recover(); r != nil {
			model = nil
			err = errors.Wrapf(ErrTraining, "recovered: %v", r)
		}
	}()
	return Train(fs.Windows, fs.Labels, e.cfg.Model)
}

func (e *Engine) fallback(state State, now time.Time, days int) Result {
	res := Result{
		Points: FlatForecast(e.cfg.DefaultDemand, now, days),
		State:  state,
	}
	switch state {
	case StateNoHistory:
		res.Confidence = e.cfg.NoHistoryConfidence
		res.Model = ModelDefault
	case StateInsufficientFeatures:
		res.Confidence = e.cfg.InsufficientConfidence
		res.Model = ModelInsufficientData
	default:
		res.Confidence = e.cfg.FailureConfidence
		res.Model = ModelError
	}
	return res
}

// Rollout predicts days points autoregressively. After each step the
// oldest value leaves the window and the clamped prediction joins it, so
// later steps are conditioned on earlier predictions rather than actuals.
func Rollout(p Predictor, seed FeatureWindow, start time.Time, days int) []domain.ForecastPoint {
	if days <= 0 {
		return []domain.ForecastPoint{}
	}

	window := make(FeatureWindow, len(seed))
	copy(window, seed)

	points := make([]domain.ForecastPoint, 0, days)
	for i := 0; i < days; i++ {
		predicted := math.Max(0, p.Predict(window))

		points = append(points, domain.ForecastPoint{
			Date:            start.AddDate(0, 0, i+1),
			PredictedDemand: round2(predicted),
		})

		if len(window) > 0 {
			copy(window, window[1:])
			window[len(window)-1] = predicted
		}
	}
	return points
}

// FlatForecast emits the same demand for each of the next days.
func FlatForecast(demand float64, start time.Time, days int) []domain.ForecastPoint {
	if days <= 0 {
		return []domain.ForecastPoint{}
	}
	points := make([]domain.ForecastPoint, days)
	for i := range points {
		points[i] = domain.ForecastPoint{
			Date:            start.AddDate(0, 0, i+1),
			PredictedDemand: demand,
		}
	}
	return points
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
