package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding is one real-portfolio position, persisted as JSON.
type Holding struct {
	Ticker  string  `json:"ticker"`
	Account string  `json:"account"` // "PEA" or "CTO"
	Qty     float64 `json:"qty"`
	AvgCost float64 `json:"avg_cost"`
	Name    string  `json:"name"`
}

// PaperTrade is one simulated position in the virtual ledger.
// Money fields use decimal so fee math stays exact.
type PaperTrade struct {
	ID        string          `json:"id"`
	Ticker    string          `json:"ticker"`
	Name      string          `json:"name"`
	Entry     decimal.Decimal `json:"entry"`
	Target    decimal.Decimal `json:"target"`
	Stop      decimal.Decimal `json:"stop"`
	Amount    decimal.Decimal `json:"amount"`
	FeeIn     decimal.Decimal `json:"fee_in"`
	FeeOut    decimal.Decimal `json:"fee_out"`
	Qty       decimal.Decimal `json:"qty"`
	EstYield  decimal.Decimal `json:"est_yield_pct"`
	IAScore   float64         `json:"ia_score"`
	Profile   string          `json:"profile"`
	Horizon   string          `json:"horizon"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewsItem is one headline from the company news feed.
type NewsItem struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Published string `json:"published"`
}
