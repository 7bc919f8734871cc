package model

import "time"

// Bar represents a single daily OHLC observation for one ticker.
// At most one bar exists per (ticker, date) pair.
type Bar struct {
	Ticker string
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Constituent is one member of an index universe.
type Constituent struct {
	Ticker string
	Name   string
}
