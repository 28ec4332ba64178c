package forecast

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seasonalQuantities(days int) []int {
	q := make([]int, days)
	for i := range q {
		q[i] = 20 + (i%7)*3 + (i % 3)
	}
	return q
}

func TestFitScaler_ConstantColumnTransformsToZero(t *testing.T) {
	s := FitScaler([]FeatureWindow{{1, 5}, {3, 5}})

	assert.Equal(t, []float64{2, 5}, s.Mean)
	assert.Equal(t, []float64{1, 1}, s.Scale)
	assert.Equal(t, []float64{-1, 0}, s.Transform(FeatureWindow{1, 5}))
}

func TestTrain_ConstantSeriesFitsPerfectly(t *testing.T) {
	fs, err := NewFeatureBuilder(7, 10).Build(constantRecords(30, 5))
	require.NoError(t, err)

	m, err := Train(fs.Windows, fs.Labels, DefaultModelConfig())
	require.NoError(t, err)

	assert.Equal(t, 23, m.Samples)
	assert.Equal(t, 1.0, m.R2)
	assert.Equal(t, 0.9, m.Confidence)
	assert.InDelta(t, 5.0, m.Predict(FeatureWindow{5, 5, 5, 5, 5, 5, 5}), 1e-9)
}

func TestTrain_ConfidenceWithinBounds(t *testing.T) {
	fs, err := NewFeatureBuilder(7, 10).Build(dailyRecords(seasonalQuantities(60)...))
	require.NoError(t, err)

	m, err := Train(fs.Windows, fs.Labels, DefaultModelConfig())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, m.Confidence, 0.1)
	assert.LessOrEqual(t, m.Confidence, 0.9)
	assert.False(t, math.IsNaN(m.MSE))
}

func TestTrain_Errors(t *testing.T) {
	windows := make([]FeatureWindow, 12)
	labels := make([]float64, 12)
	for i := range windows {
		windows[i] = FeatureWindow{1, 2, 3}
		labels[i] = float64(i)
	}

	tests := []struct {
		name    string
		windows []FeatureWindow
		labels  []float64
	}{
		{name: "too few pairs", windows: windows[:5], labels: labels[:5]},
		{name: "length mismatch", windows: windows, labels: labels[:11]},
		{
			name:    "non-finite label",
			windows: windows,
			labels: func() []float64 {
				l := append([]float64(nil), labels...)
				l[3] = math.NaN()
				return l
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Train(tt.windows, tt.labels, DefaultModelConfig())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrTraining))
		})
	}
}

func TestFitForest_DeterministicAcrossWorkerCounts(t *testing.T) {
	fs, err := NewFeatureBuilder(7, 10).Build(dailyRecords(seasonalQuantities(45)...))
	require.NoError(t, err)
	x := FitScaler(fs.Windows).TransformAll(fs.Windows)

	serial := DefaultModelConfig()
	serial.Workers = 1
	parallel := DefaultModelConfig()
	parallel.Workers = 8

	a, err := FitForest(x, fs.Labels, serial)
	require.NoError(t, err)
	b, err := FitForest(x, fs.Labels, parallel)
	require.NoError(t, err)

	for _, row := range x {
		assert.Equal(t, a.Predict(row), b.Predict(row))
	}
}

func TestRegressionTree_RespectsMinLeaf(t *testing.T) {
	x := [][]float64{{0}, {1}, {2}, {3}, {4}, {5}}
	y := []float64{0, 0, 0, 10, 10, 10}
	idx := []int{0, 1, 2, 3, 4, 5}

	tree := fitTree(x, y, idx, treeParams{maxDepth: 10, minSamplesSplit: 2, minSamplesLeaf: 3}, nil)

	assert.Equal(t, 0.0, tree.predict([]float64{1}))
	assert.Equal(t, 10.0, tree.predict([]float64{4}))
	assert.Len(t, tree.nodes, 3)
}
