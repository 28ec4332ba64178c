package forecast

import (
	"math"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"
)

// Predictor produces the next daily total from a feature window.
type Predictor interface {
	Predict(window FeatureWindow) float64
}

// TrainedModel is a fitted scaler and forest for one forecast request.
// Confidence is the in-sample R² clamped to the configured bounds; it
// measures training fit, not held-out accuracy.
type TrainedModel struct {
	forest *RandomForest
	scaler *StandardScaler

	Confidence float64
	R2         float64
	MSE        float64
	Samples    int
}

// Train fits the scaler once and the forest on the scaled windows.
func Train(windows []FeatureWindow, labels []float64, cfg ModelConfig) (*TrainedModel, error) {
	cfg = cfg.withDefaults()

	if len(windows) != len(labels) {
		return nil, errors.Wrapf(ErrTraining, "%d windows but %d labels", len(windows), len(labels))
	}
	if len(windows) < cfg.MinTrainingPairs {
		return nil, errors.Wrapf(ErrTraining, "%d training pairs, need %d", len(windows), cfg.MinTrainingPairs)
	}
	if err := checkFinite(windows, labels); err != nil {
		return nil, err
	}

	scaler := FitScaler(windows)
	x := scaler.TransformAll(windows)

	forest, err := FitForest(x, labels, cfg)
	if err != nil {
		return nil, err
	}

	fitted := make([]float64, len(x))
	for i, row := range x {
		fitted[i] = forest.Predict(row)
	}

	r2, mse := inSampleScore(labels, fitted)
	if math.IsNaN(r2) || math.IsInf(r2, 0) || math.IsNaN(mse) {
		return nil, errors.Wrapf(ErrTraining, "non-finite fit score r2=%v mse=%v", r2, mse)
	}

	confidence := math.Max(cfg.MinConfidence, math.Min(cfg.MaxConfidence, r2))

	log.Debug().
		Int("samples", len(labels)).
		Float64("mse", mse).
		Float64("r2", r2).
		Float64("confidence", confidence).
		Msg("forecast model trained")

	return &TrainedModel{
		forest:     forest,
		scaler:     scaler,
		Confidence: confidence,
		R2:         r2,
		MSE:        mse,
		Samples:    len(labels),
	}, nil
}

// Predict scales the window with the training statistics and averages the
// forest's trees.
func (m *TrainedModel) Predict(window FeatureWindow) float64 {
	return m.forest.Predict(m.scaler.Transform(window))
}

// inSampleScore returns R² and MSE of fitted against actual. Constant
// labels score 1 for a perfect fit and 0 otherwise.
func inSampleScore(actual, fitted []float64) (float64, float64) {
	var sse float64
	for i := range actual {
		d := actual[i] - fitted[i]
		sse += d * d
	}
	mse := sse / float64(len(actual))

	_, variance := stat.PopMeanVariance(actual, nil)
	if variance == 0 {
		if sse <= 1e-12 {
			return 1, mse
		}
		return 0, mse
	}
	return stat.RSquaredFrom(fitted, actual, nil), mse
}

func checkFinite(windows []FeatureWindow, labels []float64) error {
	for i, w := range windows {
		for _, v := range w {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.Wrapf(ErrTraining, "non-finite feature in window %d", i)
			}
		}
	}
	for i, v := range labels {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Wrapf(ErrTraining, "non-finite label %d", i)
		}
	}
	return nil
}
