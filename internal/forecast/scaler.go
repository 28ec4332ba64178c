package forecast

import "gonum.org/v1/gonum/stat"

// StandardScaler centers each feature on its training mean and divides by
// its population standard deviation.
type StandardScaler struct {
	Mean  []float64
	Scale []float64
}

// FitScaler computes per-column statistics. Constant columns get a scale of
// 1 so they transform to zero instead of NaN.
func FitScaler(rows []FeatureWindow) *StandardScaler {
	if len(rows) == 0 {
		return &StandardScaler{}
	}

	width := len(rows[0])
	s := &StandardScaler{
		Mean:  make([]float64, width),
		Scale: make([]float64, width),
	}

	col := make([]float64, len(rows))
	for j := 0; j < width; j++ {
		for i, row := range rows {
			col[i] = row[j]
		}
		mean, std := stat.PopMeanStdDev(col, nil)
		if std == 0 {
			std = 1
		}
		s.Mean[j] = mean
		s.Scale[j] = std
	}
	return s
}

func (s *StandardScaler) Transform(w FeatureWindow) []float64 {
	out := make([]float64, len(w))
	for j, v := range w {
		if j >= len(s.Mean) {
			out[j] = v
			continue
		}
		out[j] = (v - s.Mean[j]) / s.Scale[j]
	}
	return out
}

func (s *StandardScaler) TransformAll(rows []FeatureWindow) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = s.Transform(row)
	}
	return out
}
