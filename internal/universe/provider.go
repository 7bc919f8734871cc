package universe

import (
	"context"

	"MarketFlash/internal/model"
)

// Universe names accepted by providers. "LS Exchange" is not listed here:
// it is the personal watchlist, resolved by the aggregator, not scraped.
const (
	CAC40     = "CAC 40"
	DAX       = "DAX"
	Nasdaq100 = "NASDAQ 100"
	SP500     = "S&P 500"
)

// BenchmarkSymbol maps a universe name to its index ticker, empty when the
// universe has no benchmark.
func BenchmarkSymbol(name string) string {
	switch name {
	case CAC40:
		return "^FCHI"
	case DAX:
		return "^GDAXI"
	case Nasdaq100:
		return "^NDX"
	case SP500:
		return "^GSPC"
	}
	return ""
}

// Provider resolves an index universe name to its constituent list.
// The scraping fragility lives entirely behind this interface. An unknown
// universe name yields (nil, nil): silently skipped, not an error.
type Provider interface {
	Constituents(ctx context.Context, name string) ([]model.Constituent, error)
}
