package fetcher

import (
	"context"
	"time"

	"MarketFlash/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars  []model.Bar
	Price float64
	Calls int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, tickers []string, days int) ([]model.Bar, error) {
	m.Calls++
	if m.Bars != nil {
		return m.Bars, nil
	}
	var out []model.Bar
	for _, t := range tickers {
		out = append(out, GenerateBars(t, m.Price, days)...)
	}
	return out, nil
}

// GenerateBars builds a gently drifting synthetic daily series ending today.
func GenerateBars(ticker string, basePrice float64, count int) []model.Bar {
	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.Bar{
			Ticker: ticker,
			Date:   time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// GenerateFlatBars builds a constant-price series, useful for boundary tests.
func GenerateFlatBars(ticker string, price float64, count int) []model.Bar {
	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		bars[i] = model.Bar{
			Ticker: ticker,
			Date:   time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -(count - i)),
			Open:   price,
			High:   price,
			Low:    price,
			Close:  price,
			Volume: 1000,
		}
	}
	return bars
}
