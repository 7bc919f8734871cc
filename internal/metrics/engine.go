package metrics

import (
	"math"
	"sort"

	"MarketFlash/internal/model"
)

// Window lengths and their minimum-period floors. Below the floor an
// indicator is NaN rather than computed on a partial window.
const (
	WindowMA20  = 20
	WindowMA50  = 50
	WindowMA120 = 120
	WindowMA240 = 240
	WindowATR   = 14

	minPeriodsMA20  = 5
	minPeriodsMA50  = 10
	minPeriodsMA120 = 30
	minPeriodsMA240 = 60
	minPeriodsATR   = 5
)

// Blend weights. These are policy constants, tuned by eye rather than
// derived from any calibration.
const (
	WeightGap20  = 0.6
	WeightGap50  = 0.4
	WeightGap120 = 0.5
	WeightGap240 = 0.5

	WeightIATrendST = 0.5
	WeightIATrendLT = 0.3
	WeightIAPct7D   = 0.1
	WeightIAPct30D  = 0.1
)

// maxSane1DayMove discards 1-day returns that are almost certainly data
// artifacts (corporate actions, bad ticks) rather than real moves.
const maxSane1DayMove = 0.40

// Compute reduces long-format daily bars to one current-state MetricsRow per
// ticker. Input order does not matter. Bars missing their identifying fields
// (ticker, date, close) are dropped; a ticker with too little history for a
// given indicator still appears, with that indicator NaN. Never panics; an
// empty or fully malformed input yields an empty result.
func Compute(bars []model.Bar) []model.MetricsRow {
	clean := make([]model.Bar, 0, len(bars))
	for _, b := range bars {
		if b.Ticker == "" || b.Date.IsZero() || !model.Defined(b.Close) {
			continue
		}
		clean = append(clean, b)
	}
	if len(clean) == 0 {
		return []model.MetricsRow{}
	}

	sort.Slice(clean, func(i, j int) bool {
		if clean[i].Ticker != clean[j].Ticker {
			return clean[i].Ticker < clean[j].Ticker
		}
		return clean[i].Date.Before(clean[j].Date)
	})

	rows := make([]model.MetricsRow, 0, 16)
	start := 0
	for i := 1; i <= len(clean); i++ {
		if i == len(clean) || clean[i].Ticker != clean[start].Ticker {
			rows = append(rows, computeOne(clean[start:i]))
			start = i
		}
	}
	return rows
}

func computeOne(series []model.Bar) model.MetricsRow {
	closes := extractCloses(series)
	ma20 := rollingMean(closes, WindowMA20, minPeriodsMA20)
	ma50 := rollingMean(closes, WindowMA50, minPeriodsMA50)
	ma120 := rollingMean(closes, WindowMA120, minPeriodsMA120)
	ma240 := rollingMean(closes, WindowMA240, minPeriodsMA240)
	atr := rollingMean(trueRanges(series), WindowATR, minPeriodsATR)

	last := len(series) - 1
	latest := series[last]

	row := model.MetricsRow{
		Ticker: latest.Ticker,
		Date:   latest.Date,
		Close:  latest.Close,
		MA20:   ma20[last],
		MA50:   ma50[last],
		MA120:  ma120[last],
		MA240:  ma240[last],
		ATR14:  atr[last],
		Bars:   len(series),
	}

	row.Gap20 = gap(latest.Close, row.MA20)
	row.Gap50 = gap(latest.Close, row.MA50)
	row.Gap120 = gap(latest.Close, row.MA120)
	row.Gap240 = gap(latest.Close, row.MA240)

	row.TrendST = blend2(row.Gap20, WeightGap20, row.Gap50, WeightGap50)
	row.TrendLT = blend2(row.Gap120, WeightGap120, row.Gap240, WeightGap240)

	row.Pct1D = calendarReturn(series, 1)
	if model.Defined(row.Pct1D) && math.Abs(row.Pct1D) > maxSane1DayMove {
		row.Pct1D = math.NaN()
	}
	row.Pct7D = calendarReturn(series, 7)
	row.Pct30D = calendarReturn(series, 30)

	row.IAScore = iaScore(row)
	return row
}

// gap is the fractional distance of close from a moving average, NaN when the
// average itself is undefined or zero.
func gap(close, ma float64) float64 {
	if !model.Defined(ma) || ma == 0 {
		return math.NaN()
	}
	return close/ma - 1
}

// blend2 is a two-term weighted sum that stays defined when only one term is:
// the defined term keeps its weight, the missing one contributes nothing.
// Both missing means NaN.
func blend2(a, wa, b, wb float64) float64 {
	aOK, bOK := model.Defined(a), model.Defined(b)
	switch {
	case aOK && bOK:
		return wa*a + wb*b
	case aOK:
		return wa * a
	case bOK:
		return wb * b
	default:
		return math.NaN()
	}
}

// calendarReturn computes the return of the latest close versus the most
// recent bar dated at or before latest-days calendar days. Uses nearest prior
// trading date rather than bar counts so weekends and holidays don't skew the
// horizon. Falls back to the earliest bar when the history is too short.
func calendarReturn(series []model.Bar, days int) float64 {
	last := len(series) - 1
	latest := series[last]
	cutoff := latest.Date.AddDate(0, 0, -days)

	ref := series[0]
	for i := last - 1; i >= 0; i-- {
		if !series[i].Date.After(cutoff) {
			ref = series[i]
			break
		}
	}
	if ref.Date.Equal(latest.Date) || !model.Defined(ref.Close) || ref.Close == 0 {
		return math.NaN()
	}
	return latest.Close/ref.Close - 1
}

// iaScore maps the trend and momentum blend onto 0-100 for display.
// Deliberately uncalibrated; a linear squash, nothing more.
func iaScore(row model.MetricsRow) float64 {
	if !model.Defined(row.TrendST) && !model.Defined(row.TrendLT) {
		return math.NaN()
	}
	score := 50 + 100*(WeightIATrendST*orZero(row.TrendST)+
		WeightIATrendLT*orZero(row.TrendLT)+
		WeightIAPct7D*orZero(row.Pct7D)+
		WeightIAPct30D*orZero(row.Pct30D))
	return math.Max(0, math.Min(100, score))
}

func orZero(v float64) float64 {
	if model.Defined(v) {
		return v
	}
	return 0
}
