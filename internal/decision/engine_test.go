package decision

import (
	"math"
	"testing"
	"time"

	"MarketFlash/internal/model"
)

func row(close, ma20, ma50, atr float64) model.MetricsRow {
	return model.MetricsRow{
		Ticker: "TEST",
		Date:   time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		Close:  close,
		MA20:   ma20,
		MA50:   ma50,
		ATR14:  atr,
	}
}

func TestDecide_FlatSeriesIsNeutral(t *testing.T) {
	// Price exactly on both averages: trend strength must read as neutral,
	// not bullish, so a constant series yields Watch.
	m := row(100, 100, 100, 0)
	if got := Decide(m, false, math.NaN(), GetProfile(ProfileNeutral)); got != model.AdviceWatch {
		t.Errorf("flat series: expected WATCH, got %s", got)
	}
}

func TestDecide_StrongUptrendCandidate(t *testing.T) {
	m := row(110, 105, 100, 1.0) // vol ratio < 1%, price above both MAs
	if got := Decide(m, false, math.NaN(), GetProfile(ProfileNeutral)); got != model.AdviceBuy {
		t.Errorf("expected BUY, got %s", got)
	}
}

func TestDecide_DowntrendHighVolCandidate(t *testing.T) {
	m := row(90, 100, 105, 9.0) // below both MAs, vol ratio 10%
	if got := Decide(m, false, math.NaN(), GetProfile(ProfileNeutral)); got != model.AdviceAvoid {
		t.Errorf("expected AVOID, got %s", got)
	}
}

func TestDecide_HeldLadder(t *testing.T) {
	p := GetProfile(ProfileNeutral)

	// Uptrend, in profit, calm: 0.5 + 0.2 + 0.3 = 1.0 -> BUY (reinforce).
	up := row(110, 105, 100, 1.0)
	if got := Decide(up, true, 100, p); got != model.AdviceBuy {
		t.Errorf("held uptrend: expected BUY, got %s", got)
	}

	// Downtrend, losing, volatile: -0.5 - 0.2 - 0.3 = -1.0 -> SELL.
	down := row(90, 100, 105, 9.0)
	if got := Decide(down, true, 100, p); got != model.AdviceSell {
		t.Errorf("held downtrend: expected SELL, got %s", got)
	}

	// Mixed trend, price inside the cost band: hold.
	mid := row(100, 99, 101, 1.0)
	if got := Decide(mid, true, 100, p); got != model.AdviceHold {
		t.Errorf("held mixed: expected HOLD, got %s", got)
	}
}

func TestDecide_UndefinedCloseAlwaysWatch(t *testing.T) {
	m := row(math.NaN(), 100, 100, 2)
	for _, held := range []bool{false, true} {
		if got := Decide(m, held, 100, GetProfile(ProfileAggressive)); got != model.AdviceWatch {
			t.Errorf("held=%v: expected WATCH for undefined close, got %s", held, got)
		}
	}
}

func TestDecide_ATRFallback(t *testing.T) {
	// Undefined ATR falls back to a 3% ratio, which sits inside every
	// profile's tolerance (Conservative is exactly 3%, not above it).
	m := row(110, 105, 100, math.NaN())
	if got := Decide(m, false, math.NaN(), GetProfile(ProfileNeutral)); got != model.AdviceBuy {
		t.Errorf("neutral: expected BUY, got %s", got)
	}
	// Just over the Conservative tolerance flips the volatility term.
	hot := row(110, 105, 100, 110*0.035)
	if got := Decide(hot, false, math.NaN(), GetProfile(ProfileConservative)); got != model.AdviceWatch {
		t.Errorf("conservative: expected WATCH above tolerance, got %s", got)
	}
}

func TestLevels_ReferenceSelection(t *testing.T) {
	p := GetProfile(ProfileNeutral)

	// MA20 defined: it is the reference.
	lv := Levels(row(102, 100, 100, 1), p)
	if lv.Entry != 99.0 || lv.Target != 107.0 || lv.Stop != 95.0 {
		t.Errorf("MA20 reference: got %+v", lv)
	}

	// MA20 undefined: close is the reference.
	lv = Levels(row(200, math.NaN(), math.NaN(), 1), p)
	if lv.Entry != 198.0 || lv.Target != 214.0 || lv.Stop != 190.0 {
		t.Errorf("close reference: got %+v", lv)
	}

	// Neither defined: cannot evaluate.
	lv = Levels(row(math.NaN(), math.NaN(), math.NaN(), 1), p)
	if model.Defined(lv.Entry) || model.Defined(lv.Target) || model.Defined(lv.Stop) {
		t.Errorf("expected NaN levels, got %+v", lv)
	}
}

func TestGetProfile_FallbackToNeutral(t *testing.T) {
	for _, name := range []string{"", "Banana", "neutral"} {
		if p := GetProfile(name); p.Name != ProfileNeutral {
			t.Errorf("%q: expected Neutral fallback, got %s", name, p.Name)
		}
	}
	if p := GetProfile(ProfileConservative); p.VolMax != 0.03 {
		t.Errorf("conservative volmax: got %.3f", p.VolMax)
	}
}
