package model

// Advice is the closed set of recommendation labels.
type Advice string

const (
	AdviceBuy   Advice = "BUY"
	AdviceHold  Advice = "HOLD"
	AdviceSell  Advice = "SELL"
	AdviceWatch Advice = "WATCH"
	AdviceAvoid Advice = "AVOID"
)

// EntrySignal buckets how close the current price sits to the suggested entry.
type EntrySignal string

const (
	SignalNear    EntrySignal = "NEAR"
	SignalWatch   EntrySignal = "WATCH"
	SignalFar     EntrySignal = "FAR"
	SignalUnknown EntrySignal = "UNKNOWN"
)

// Levels holds suggested entry/target/stop prices for one ticker under one
// risk profile. All three are NaN when no reference price is available.
type Levels struct {
	Entry  float64
	Target float64
	Stop   float64
}

// Pick is one ranked row returned by the top-N selection.
type Pick struct {
	MetricsRow
	Score     float64
	Levels    Levels
	Proximity float64 // percent distance of close from entry
	Signal    EntrySignal
	Advice    Advice
}
