package model

import (
	"math"
	"time"
)

// MetricsRow is the current-state indicator summary for one ticker, reduced
// from its full daily bar history. Float fields whose required window is not
// available are NaN rather than a partial-window estimate.
type MetricsRow struct {
	Ticker string
	Name   string
	Index  string
	Date   time.Time
	Close  float64

	MA20  float64
	MA50  float64
	MA120 float64
	MA240 float64
	ATR14 float64

	Gap20  float64
	Gap50  float64
	Gap120 float64
	Gap240 float64

	// TrendST blends the short-horizon gaps, TrendLT the long-horizon ones.
	TrendST float64
	TrendLT float64

	// Calendar-aligned trailing returns (fractions, not percentages).
	Pct1D  float64
	Pct7D  float64
	Pct30D float64

	// IAScore is an uncalibrated 0-100 blend of trend and momentum,
	// meant for display ordering only.
	IAScore float64

	Bars int
}

// Defined reports whether a float indicator carries a usable value.
func Defined(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// VolRatio is the ATR-to-price volatility estimate, with the conventional
// 3% fallback when the ATR window never filled.
func (m MetricsRow) VolRatio() float64 {
	if Defined(m.ATR14) && Defined(m.Close) && m.Close > 0 {
		return m.ATR14 / m.Close
	}
	return 0.03
}
