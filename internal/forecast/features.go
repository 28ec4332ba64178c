package forecast

import (
	"sort"
	"time"

	"github.com/andresuchdata/cesto-ai/backend-go/internal/domain"
	"github.com/pkg/errors"
)

// FeatureWindow is a run of consecutive daily totals, oldest first.
type FeatureWindow []float64

// FeatureSet is the training material derived from a product's sales.
type FeatureSet struct {
	Series  []domain.DailyDemand
	Windows []FeatureWindow
	Labels  []float64
}

// LatestWindow returns the most recent size daily totals of the series.
func (fs *FeatureSet) LatestWindow(size int) FeatureWindow {
	if size > len(fs.Series) {
		size = len(fs.Series)
	}
	window := make(FeatureWindow, 0, size)
	for _, d := range fs.Series[len(fs.Series)-size:] {
		window = append(window, d.Total)
	}
	return window
}

// FeatureBuilder turns raw sale records into sliding-window training pairs.
type FeatureBuilder struct {
	windowSize int
	minRecords int
}

func NewFeatureBuilder(windowSize, minRecords int) *FeatureBuilder {
	return &FeatureBuilder{windowSize: windowSize, minRecords: minRecords}
}

// Build aggregates the records into a daily series and emits one window and
// label per series entry after the first windowSize entries.
func (b *FeatureBuilder) Build(records []domain.SaleRecord) (*FeatureSet, error) {
	if len(records) < b.minRecords {
		return nil, errors.Wrapf(ErrInsufficientHistory, "%d sale records, need %d", len(records), b.minRecords)
	}

	series := DailySeries(records)
	if len(series) < b.windowSize+1 {
		return nil, errors.Wrapf(ErrInsufficientHistory, "%d sale dates, need %d", len(series), b.windowSize+1)
	}

	windows, labels := SlidingWindows(series, b.windowSize)
	return &FeatureSet{
		Series:  series,
		Windows: windows,
		Labels:  labels,
	}, nil
}

// DailySeries sums quantities per calendar date in ascending date order.
// Dates without sales are not synthesized.
func DailySeries(records []domain.SaleRecord) []domain.DailyDemand {
	totals := make(map[time.Time]float64)
	for _, r := range records {
		totals[calendarDate(r.Timestamp)] += float64(r.Quantity)
	}

	series := make([]domain.DailyDemand, 0, len(totals))
	for date, total := range totals {
		series = append(series, domain.DailyDemand{Date: date, Total: total})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	return series
}

// SlidingWindows emits len(series)-size windows; window i covers
// series[i-size:i] and its label is series[i].
func SlidingWindows(series []domain.DailyDemand, size int) ([]FeatureWindow, []float64) {
	if size <= 0 || len(series) <= size {
		return nil, nil
	}

	windows := make([]FeatureWindow, 0, len(series)-size)
	labels := make([]float64, 0, len(series)-size)
	for i := size; i < len(series); i++ {
		window := make(FeatureWindow, size)
		for j := 0; j < size; j++ {
			window[j] = series[i-size+j].Total
		}
		windows = append(windows, window)
		labels = append(labels, series[i].Total)
	}
	return windows, labels
}

// calendarDate drops the time of day, keeping the date as recorded.
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
