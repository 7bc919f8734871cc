package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"MarketFlash/internal/model"
)

// Flat brokerage fees applied to every simulated line, in euros.
var (
	feeIn  = decimal.NewFromInt(1)
	feeOut = decimal.NewFromInt(1)
)

func (s *Store) loadPaperTrades() []model.PaperTrade {
	var list []model.PaperTrade
	readJSON(s.path(ledgerFile), &list)
	return list
}

func (s *Store) storePaperTrades(list []model.PaperTrade) error {
	if list == nil {
		list = []model.PaperTrade{}
	}
	return writeJSON(s.path(ledgerFile), list)
}

// PaperTrades returns the virtual ledger, empty when unset.
func (s *Store) PaperTrades() []model.PaperTrade {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadPaperTrades()
}

func (s *Store) SavePaperTrades(list []model.PaperTrade) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storePaperTrades(list)
}

// OpenPaperTrade simulates buying `amount` euros of a pick: entry fee comes
// off the ticket, quantity is what the net capital buys at the entry price,
// and the estimated net yield prices in both fees against the target.
func (s *Store) OpenPaperTrade(pick model.Pick, amount decimal.Decimal, profile, horizon string) (model.PaperTrade, error) {
	if !model.Defined(pick.Levels.Entry) || pick.Levels.Entry <= 0 {
		return model.PaperTrade{}, fmt.Errorf("pick %s has no usable entry price", pick.Ticker)
	}
	entry := decimal.NewFromFloat(pick.Levels.Entry)
	target := decimal.NewFromFloat(pick.Levels.Target)
	stop := decimal.NewFromFloat(pick.Levels.Stop)

	netCapital := amount.Sub(feeIn)
	if netCapital.IsNegative() {
		netCapital = decimal.Zero
	}
	qty := netCapital.DivRound(entry, 6)

	// ((target-entry)/entry - totalFees/entry) in percent.
	estYield := target.Sub(entry).Sub(feeIn.Add(feeOut)).
		DivRound(entry, 8).
		Mul(decimal.NewFromInt(100)).
		Round(2)

	// NaN would poison the JSON encode of every later ledger read.
	iaScore := pick.IAScore
	if !model.Defined(iaScore) {
		iaScore = 0
	}

	trade := model.PaperTrade{
		ID:        uuid.NewString(),
		Ticker:    pick.Ticker,
		Name:      pick.Name,
		Entry:     entry.Round(4),
		Target:    target,
		Stop:      stop,
		Amount:    amount,
		FeeIn:     feeIn,
		FeeOut:    feeOut,
		Qty:       qty,
		EstYield:  estYield,
		IAScore:   iaScore,
		Profile:   profile,
		Horizon:   horizon,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return trade, s.storePaperTrades(append(s.loadPaperTrades(), trade))
}

// ClosePaperTrade removes a ledger line by id.
func (s *Store) ClosePaperTrade(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.loadPaperTrades()
	kept := list[:0]
	removed := false
	for _, tr := range list {
		if tr.ID == id {
			removed = true
			continue
		}
		kept = append(kept, tr)
	}
	if !removed {
		return false, nil
	}
	return true, s.storePaperTrades(kept)
}

// PaperValue marks a trade to a last price: current value net of the exit
// fee, and P&L percent against the original ticket.
func PaperValue(tr model.PaperTrade, lastClose float64) (value, pnlPct decimal.Decimal, ok bool) {
	if !model.Defined(lastClose) || tr.Amount.IsZero() {
		return decimal.Zero, decimal.Zero, false
	}
	last := decimal.NewFromFloat(lastClose)
	value = tr.Qty.Mul(last).Sub(tr.FeeOut)
	pnlPct = value.Sub(tr.Amount).DivRound(tr.Amount, 6).Mul(decimal.NewFromInt(100)).Round(2)
	return value, pnlPct, true
}
