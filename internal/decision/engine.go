package decision

import (
	"math"

	"MarketFlash/internal/model"
)

// Scoring weights and label thresholds. One canonical table; the held and
// candidate ladders differ because exiting a position warrants more caution
// than skipping one.
const (
	weightTrend = 0.5
	weightCost  = 0.2
	weightVol   = 0.3

	heldBuyAbove        = 0.5
	heldSellBelow       = -0.2
	candidateBuyAbove   = 0.3
	candidateAvoidBelow = -0.2

	costBandUp   = 1.02
	costBandDown = 0.98
)

// Levels derives entry/target/stop suggestions from a metrics row under a
// profile. The reference price is the 20-period moving average when defined,
// else the latest close; with neither, all three levels are NaN, which
// callers read as "cannot evaluate".
func Levels(m model.MetricsRow, p Profile) model.Levels {
	base := m.MA20
	if !model.Defined(base) {
		base = m.Close
	}
	if !model.Defined(base) {
		nan := math.NaN()
		return model.Levels{Entry: nan, Target: nan, Stop: nan}
	}
	return model.Levels{
		Entry:  round2(base * p.EntryMult),
		Target: round2(base * p.TargetMult),
		Stop:   round2(base * p.StopMult),
	}
}

// Decide maps a metrics row onto the closed advice set. held indicates an
// existing position; avgCost is its average cost (NaN when unknown or not
// held). Deterministic: same inputs, same label.
//
// Trend strength counts the moving averages the close sits strictly above;
// a price sitting exactly on its averages (flat series) reads as neutral.
func Decide(m model.MetricsRow, held bool, avgCost float64, p Profile) model.Advice {
	if !model.Defined(m.Close) {
		return model.AdviceWatch
	}

	trend := 0
	if model.Defined(m.MA20) && m.Close > m.MA20 {
		trend++
	}
	if model.Defined(m.MA50) && m.Close > m.MA50 {
		trend++
	}

	score := 0.0
	switch trend {
	case 2:
		score += weightTrend
	case 0:
		score -= weightTrend
	}

	if held && model.Defined(avgCost) && avgCost > 0 {
		switch {
		case m.Close > avgCost*costBandUp:
			score += weightCost
		case m.Close < avgCost*costBandDown:
			score -= weightCost
		}
	}

	if m.VolRatio() > p.VolMax {
		score -= weightVol
	} else {
		score += weightVol
	}

	if held {
		switch {
		case score > heldBuyAbove:
			return model.AdviceBuy
		case score < heldSellBelow:
			return model.AdviceSell
		default:
			return model.AdviceHold
		}
	}
	switch {
	case score > candidateBuyAbove:
		return model.AdviceBuy
	case score < candidateAvoidBelow:
		return model.AdviceAvoid
	default:
		return model.AdviceWatch
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
