package fetcher

import (
	"context"

	"MarketFlash/internal/model"
)

// Fetcher retrieves daily price history for a set of tickers.
//
// Implementations never treat "no data" as an error: a ticker that cannot be
// fetched simply contributes no bars, and a fully failed request yields an
// empty slice. Callers rely on that to degrade to "nothing to show".
type Fetcher interface {
	FetchDailyBars(ctx context.Context, tickers []string, days int) ([]model.Bar, error)
	Name() string
}
