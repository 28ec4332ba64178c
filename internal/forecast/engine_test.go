package forecast

import (
	"math"
	"testing"
	"time"

	"github.com/andresuchdata/cesto-ai/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

func newTestEngine() *Engine {
	return NewEngine(DefaultConfig(), WithClock(func() time.Time { return fixedNow }))
}

type predictorFunc func(FeatureWindow) float64

func (f predictorFunc) Predict(w FeatureWindow) float64 { return f(w) }

func TestEngine_Forecast_FallbackStates(t *testing.T) {
	tests := []struct {
		name       string
		records    []domain.SaleRecord
		wantState  State
		wantModel  string
		confidence float64
	}{
		{name: "no history", records: nil, wantState: StateNoHistory, wantModel: ModelDefault, confidence: 0.5},
		{name: "below record minimum", records: constantRecords(9, 4), wantState: StateInsufficientFeatures, wantModel: ModelInsufficientData, confidence: 0.3},
		{name: "fewer than ten pairs", records: constantRecords(16, 4), wantState: StateInsufficientFeatures, wantModel: ModelInsufficientData, confidence: 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newTestEngine().Forecast(tt.records, 5)

			assert.Equal(t, tt.wantState, res.State)
			assert.Equal(t, tt.wantModel, res.Model)
			assert.Equal(t, tt.confidence, res.Confidence)
			require.Len(t, res.Points, 5)
			for i, p := range res.Points {
				assert.Equal(t, 10.0, p.PredictedDemand)
				assert.Equal(t, fixedNow.AddDate(0, 0, i+1), p.Date)
			}
		})
	}
}

func TestEngine_TrainingFailureDowngrades(t *testing.T) {
	tests := []struct {
		name  string
		spoil func(fs *FeatureSet)
	}{
		{name: "non-finite label", spoil: func(fs *FeatureSet) { fs.Labels[3] = math.NaN() }},
		{name: "infinite feature", spoil: func(fs *FeatureSet) { fs.Windows[0][2] = math.Inf(1) }},
		{name: "label count mismatch", spoil: func(fs *FeatureSet) { fs.Labels = fs.Labels[:len(fs.Labels)-1] }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine()
			fs, err := e.builder.Build(constantRecords(30, 5))
			require.NoError(t, err)
			tt.spoil(fs)

			res := e.fromFeatures(fs, fixedNow, 6)

			assert.Equal(t, StateTrainingFailed, res.State)
			assert.Equal(t, ModelError, res.Model)
			assert.Equal(t, 0.1, res.Confidence)
			assert.Zero(t, res.TrainingSamples)
			require.Len(t, res.Points, 6)
			for i, p := range res.Points {
				assert.Equal(t, 10.0, p.PredictedDemand)
				assert.Equal(t, fixedNow.AddDate(0, 0, i+1), p.Date)
			}
		})
	}
}

func TestEngine_Forecast_ConstantHistory(t *testing.T) {
	res := newTestEngine().Forecast(constantRecords(30, 5), 3)

	assert.Equal(t, StateTrained, res.State)
	assert.Equal(t, ModelRandomForest, res.Model)
	assert.Equal(t, 23, res.TrainingSamples)
	assert.InDelta(t, 0.9, res.Confidence, 1e-9)
	require.Len(t, res.Points, 3)
	for _, p := range res.Points {
		assert.InDelta(t, 5.0, p.PredictedDemand, 0.01)
	}
}

func TestEngine_Forecast_HorizonLengthAndNonNegative(t *testing.T) {
	records := dailyRecords(seasonalQuantities(60)...)

	for _, days := range []int{1, 7, 8, 30} {
		res := newTestEngine().Forecast(records, days)

		assert.Equal(t, StateTrained, res.State)
		assert.GreaterOrEqual(t, res.Confidence, 0.1)
		assert.LessOrEqual(t, res.Confidence, 0.9)
		require.Len(t, res.Points, days)
		for _, p := range res.Points {
			assert.GreaterOrEqual(t, p.PredictedDemand, 0.0)
		}
	}
}

func TestEngine_Forecast_Deterministic(t *testing.T) {
	records := dailyRecords(seasonalQuantities(50)...)

	first := newTestEngine().Forecast(records, 14)
	second := newTestEngine().Forecast(records, 14)

	assert.Equal(t, first, second)
}

func TestEngine_Forecast_ZeroHorizon(t *testing.T) {
	res := newTestEngine().Forecast(constantRecords(30, 5), 0)

	assert.Empty(t, res.Points)
}

func TestRollout_FeedsPredictionsBack(t *testing.T) {
	next := predictorFunc(func(w FeatureWindow) float64 { return w[len(w)-1] + 1 })

	points := Rollout(next, FeatureWindow{1, 2, 3}, fixedNow, 5)

	require.Len(t, points, 5)
	for i, p := range points {
		assert.Equal(t, float64(4+i), p.PredictedDemand)
	}
}

func TestRollout_WindowSlidesOverOwnPredictions(t *testing.T) {
	var seen []FeatureWindow
	mean := predictorFunc(func(w FeatureWindow) float64 {
		seen = append(seen, append(FeatureWindow(nil), w...))
		var sum float64
		for _, v := range w {
			sum += v
		}
		return sum / float64(len(w))
	})

	Rollout(mean, FeatureWindow{3, 6}, fixedNow, 3)

	require.Len(t, seen, 3)
	assert.Equal(t, FeatureWindow{3, 6}, seen[0])
	assert.Equal(t, FeatureWindow{6, 4.5}, seen[1])
	assert.Equal(t, FeatureWindow{4.5, 5.25}, seen[2])
}

func TestRollout_ClampsAndRounds(t *testing.T) {
	var last FeatureWindow
	negative := predictorFunc(func(w FeatureWindow) float64 {
		last = append(FeatureWindow(nil), w...)
		return -3.14159
	})

	points := Rollout(negative, FeatureWindow{1, 1}, fixedNow, 2)
	assert.Equal(t, 0.0, points[0].PredictedDemand)
	assert.Equal(t, FeatureWindow{1, 0}, last)

	third := predictorFunc(func(FeatureWindow) float64 { return 10.0 / 3 })
	points = Rollout(third, FeatureWindow{1}, fixedNow, 1)
	assert.Equal(t, 3.33, points[0].PredictedDemand)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "no_history", StateNoHistory.String())
	assert.Equal(t, "trained", StateTrained.String())
	assert.Equal(t, "unknown", State(42).String())
}
