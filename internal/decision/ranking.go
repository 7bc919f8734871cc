package decision

import (
	"math"
	"sort"

	"MarketFlash/internal/model"
)

// Composite selection weights and filters. Policy constants, exposed for
// tuning, not derived values.
const (
	SelectWeightTrendST = 0.35
	SelectWeightTrendLT = 0.25
	SelectWeightPct7D   = 0.20
	SelectWeightPct30D  = 0.20
	SelectWeightVol     = 0.10

	// Candidates more volatile than 1.5x the profile tolerance are dropped
	// outright rather than merely penalized.
	volFilterFactor = 1.5

	proximityNearPct  = 2.0
	proximityWatchPct = 5.0
)

// SelectTop ranks candidate rows under a profile and returns at most n picks
// with price levels, entry proximity and an advice label attached. Rows with
// an undefined close or excessive volatility are excluded. Ties on the
// composite score break alphabetically by ticker so ranking is reproducible.
// Empty input or a fully filtered table yields an empty, non-nil result.
func SelectTop(rows []model.MetricsRow, p Profile, n int) []model.Pick {
	picks := make([]model.Pick, 0, len(rows))
	for _, m := range rows {
		if !model.Defined(m.Close) {
			continue
		}
		vol := m.VolRatio()
		if vol > volFilterFactor*p.VolMax {
			continue
		}
		picks = append(picks, model.Pick{
			MetricsRow: m,
			Score:      compositeScore(m, vol),
		})
	}

	sort.Slice(picks, func(i, j int) bool {
		if picks[i].Score != picks[j].Score {
			return picks[i].Score > picks[j].Score
		}
		return picks[i].Ticker < picks[j].Ticker
	})
	if n >= 0 && len(picks) > n {
		picks = picks[:n]
	}

	for i := range picks {
		lv := Levels(picks[i].MetricsRow, p)
		picks[i].Levels = lv
		picks[i].Proximity, picks[i].Signal = Proximity(picks[i].Close, lv.Entry)
		picks[i].Advice = Decide(picks[i].MetricsRow, false, math.NaN(), p)
	}
	return picks
}

func compositeScore(m model.MetricsRow, vol float64) float64 {
	score := SelectWeightTrendST*orZero(m.TrendST) +
		SelectWeightTrendLT*orZero(m.TrendLT) +
		SelectWeightPct7D*orZero(m.Pct7D) +
		SelectWeightPct30D*orZero(m.Pct30D)
	return score - SelectWeightVol*vol
}

// Proximity returns the percent distance of the current price from the
// suggested entry and its qualitative bucket: NEAR within 2%, WATCH within
// 5%, FAR beyond.
func Proximity(close, entry float64) (float64, model.EntrySignal) {
	if !model.Defined(close) || !model.Defined(entry) || entry == 0 {
		return math.NaN(), model.SignalUnknown
	}
	// Round away float noise so prices sitting exactly on a threshold
	// land in the tighter bucket (102 vs 100 is NEAR, not 2.0000000018).
	prox := math.Round((close/entry-1)*1e8) / 1e6
	switch {
	case math.Abs(prox) <= proximityNearPct:
		return prox, model.SignalNear
	case math.Abs(prox) <= proximityWatchPct:
		return prox, model.SignalWatch
	default:
		return prox, model.SignalFar
	}
}

func orZero(v float64) float64 {
	if model.Defined(v) {
		return v
	}
	return 0
}
