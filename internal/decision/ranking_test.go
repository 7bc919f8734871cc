package decision

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketFlash/internal/model"
)

func candidate(ticker string, close, trendST, trendLT, pct7, pct30, atr float64) model.MetricsRow {
	return model.MetricsRow{
		Ticker:  ticker,
		Date:    time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		Close:   close,
		MA20:    close * 0.98,
		MA50:    close * 0.97,
		ATR14:   atr,
		TrendST: trendST,
		TrendLT: trendLT,
		Pct7D:   pct7,
		Pct30D:  pct30,
	}
}

func TestSelectTop_SizeAndOrdering(t *testing.T) {
	p := GetProfile(ProfileNeutral)
	rows := []model.MetricsRow{
		candidate("CCC", 100, 0.01, 0.01, 0.01, 0.01, 1),
		candidate("AAA", 100, 0.05, 0.03, 0.02, 0.04, 1),
		candidate("BBB", 100, 0.03, 0.02, 0.01, 0.02, 1),
	}
	picks := SelectTop(rows, p, 2)
	require.Len(t, picks, 2)
	assert.Equal(t, "AAA", picks[0].Ticker)
	assert.Equal(t, "BBB", picks[1].Ticker)
	assert.GreaterOrEqual(t, picks[0].Score, picks[1].Score)
}

func TestSelectTop_TieBreaksByTicker(t *testing.T) {
	p := GetProfile(ProfileNeutral)
	rows := []model.MetricsRow{
		candidate("ZZZ", 100, 0.02, 0.02, 0.01, 0.01, 1),
		candidate("MMM", 100, 0.02, 0.02, 0.01, 0.01, 1),
		candidate("AAA", 100, 0.02, 0.02, 0.01, 0.01, 1),
	}
	picks := SelectTop(rows, p, 3)
	require.Len(t, picks, 3)
	assert.Equal(t, []string{"AAA", "MMM", "ZZZ"},
		[]string{picks[0].Ticker, picks[1].Ticker, picks[2].Ticker})
}

func TestSelectTop_VolatilityFilterInvariant(t *testing.T) {
	p := GetProfile(ProfileConservative) // volMax 0.03, cutoff 0.045
	rows := []model.MetricsRow{
		candidate("CALM", 100, 0.02, 0.01, 0, 0, 2.0),   // 2% vol
		candidate("EDGE", 100, 0.02, 0.01, 0, 0, 4.4),   // 4.4%: just inside
		candidate("WILD", 100, 0.09, 0.05, 0.1, 0.1, 8), // 8%: dropped despite score
	}
	picks := SelectTop(rows, p, 10)
	require.Len(t, picks, 2)
	for _, pk := range picks {
		assert.LessOrEqual(t, pk.VolRatio(), 1.5*p.VolMax, "ticker %s", pk.Ticker)
		assert.NotEqual(t, "WILD", pk.Ticker)
	}
}

func TestSelectTop_EmptyAndUndefinedInput(t *testing.T) {
	p := GetProfile(ProfileNeutral)

	picks := SelectTop(nil, p, 5)
	require.NotNil(t, picks)
	assert.Empty(t, picks)

	undef := []model.MetricsRow{{Ticker: "NX", Close: math.NaN()}}
	assert.Empty(t, SelectTop(undef, p, 5))
}

func TestSelectTop_AttachesLevelsAndProximity(t *testing.T) {
	p := GetProfile(ProfileNeutral)
	rows := []model.MetricsRow{candidate("AIR.PA", 100, 0.02, 0.01, 0.01, 0.01, 1)}
	picks := SelectTop(rows, p, 1)
	require.Len(t, picks, 1)

	pk := picks[0]
	// Reference is MA20 = 98: entry 97.02, target 104.86, stop 93.10.
	assert.InDelta(t, 97.02, pk.Levels.Entry, 0.001)
	assert.InDelta(t, 104.86, pk.Levels.Target, 0.001)
	assert.InDelta(t, 93.10, pk.Levels.Stop, 0.001)
	assert.InDelta(t, (100.0/97.02-1)*100, pk.Proximity, 0.001)
	assert.Equal(t, model.SignalWatch, pk.Signal)
	assert.Equal(t, model.AdviceBuy, pk.Advice)
}

func TestProximity_Buckets(t *testing.T) {
	tests := []struct {
		close, entry float64
		want         model.EntrySignal
	}{
		{100, 100, model.SignalNear},
		{102, 100, model.SignalNear}, // exactly +2%
		{98, 100, model.SignalNear},  // exactly -2%
		{103, 100, model.SignalWatch},
		{105, 100, model.SignalWatch}, // exactly +5%
		{106, 100, model.SignalFar},
		{90, 100, model.SignalFar},
		{100, math.NaN(), model.SignalUnknown},
	}
	for _, tt := range tests {
		_, got := Proximity(tt.close, tt.entry)
		assert.Equalf(t, tt.want, got, "close=%.1f entry=%.1f", tt.close, tt.entry)
	}
}
