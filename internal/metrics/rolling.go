package metrics

import (
	"math"

	"MarketFlash/internal/model"
)

// rollingMean computes a trailing simple mean over window values at each
// position. Positions where fewer than minPeriods values are available are
// NaN: a short window is undefined, never a noisy partial average.
func rollingMean(vals []float64, window, minPeriods int) []float64 {
	out := make([]float64, len(vals))
	var sum float64
	var count int
	for i := range vals {
		if !math.IsNaN(vals[i]) {
			sum += vals[i]
			count++
		}
		if i >= window {
			if !math.IsNaN(vals[i-window]) {
				sum -= vals[i-window]
				count--
			}
		}
		if count >= minPeriods {
			out[i] = sum / float64(count)
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// trueRanges computes the per-bar true range:
// max(high-low, |high-prevClose|, |low-prevClose|).
// The first bar has no previous close; high-low is used alone.
func trueRanges(bars []model.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		tr := b.High - b.Low
		if i > 0 {
			prev := bars[i-1].Close
			tr = math.Max(tr, math.Max(math.Abs(b.High-prev), math.Abs(b.Low-prev)))
		}
		out[i] = tr
	}
	return out
}

// extractCloses pulls the close column from a bar series.
func extractCloses(bars []model.Bar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
