package market

import (
	"context"

	"go.uber.org/zap"

	"MarketFlash/internal/fetcher"
	"MarketFlash/internal/metrics"
	"MarketFlash/internal/model"
	"MarketFlash/internal/universe"
)

// WatchlistSource supplies the personal ticker list backing the
// "LS Exchange" pseudo-universe.
type WatchlistSource interface {
	Watchlist() []string
}

// SymbolMapper turns a stored watchlist identifier into a fetchable symbol.
type SymbolMapper interface {
	Lookup(raw string) string
}

// WatchlistUniverse is the pseudo-universe backed by the user's own list
// rather than a scraped constituent table.
const WatchlistUniverse = "LS Exchange"

// Aggregator composes constituent resolution, price fetching and metrics
// computation across several named universes.
type Aggregator struct {
	Fetcher   fetcher.Fetcher
	Universes universe.Provider
	Watchlist WatchlistSource
	Mapper    SymbolMapper
	log       *zap.SugaredLogger
}

func NewAggregator(f fetcher.Fetcher, u universe.Provider, w WatchlistSource, m SymbolMapper, log *zap.SugaredLogger) *Aggregator {
	return &Aggregator{Fetcher: f, Universes: u, Watchlist: w, Mapper: m, log: log}
}

// FetchAll produces the unified metrics table across the requested
// universes, each row tagged with its source universe and display name.
// A universe that fails or yields nothing contributes zero rows without
// aborting the rest; unknown names are silently skipped. All universes
// failing yields an empty table, never an error.
func (a *Aggregator) FetchAll(ctx context.Context, names []string, days int) []model.MetricsRow {
	out := make([]model.MetricsRow, 0, 64)
	for _, name := range names {
		members := a.constituents(ctx, name)
		if len(members) == 0 {
			continue
		}

		tickers := make([]string, 0, len(members))
		byTicker := make(map[string]string, len(members))
		for _, m := range members {
			if m.Ticker == "" {
				continue
			}
			tickers = append(tickers, m.Ticker)
			byTicker[m.Ticker] = m.Name
		}

		bars, err := a.Fetcher.FetchDailyBars(ctx, tickers, days)
		if err != nil {
			if a.log != nil {
				a.log.Warnw("universe fetch failed", "universe", name, "err", err)
			}
			continue
		}
		if len(bars) == 0 {
			continue
		}

		for _, row := range metrics.Compute(bars) {
			row.Index = name
			if display, ok := byTicker[row.Ticker]; ok && display != "" {
				row.Name = display
			} else {
				row.Name = row.Ticker
			}
			out = append(out, row)
		}
	}
	return out
}

func (a *Aggregator) constituents(ctx context.Context, name string) []model.Constituent {
	if name == WatchlistUniverse {
		if a.Watchlist == nil {
			return nil
		}
		var members []model.Constituent
		for _, raw := range a.Watchlist.Watchlist() {
			symbol := raw
			if a.Mapper != nil {
				if mapped := a.Mapper.Lookup(raw); mapped != "" {
					symbol = mapped
				}
			}
			members = append(members, model.Constituent{Ticker: symbol, Name: raw})
		}
		return members
	}

	members, err := a.Universes.Constituents(ctx, name)
	if err != nil {
		if a.log != nil {
			a.log.Warnw("constituents unavailable", "universe", name, "err", err)
		}
		return nil
	}
	return members
}
