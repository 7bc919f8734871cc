package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"go.uber.org/zap"

	"MarketFlash/internal/model"
)

// YahooFetcher implements Fetcher using the Yahoo Finance chart API.
// The chart endpoint serves one symbol per request, so a multi-ticker fetch
// is a sequential loop; a symbol that fails is skipped, never fatal.
type YahooFetcher struct {
	Client *http.Client
	log    *zap.SugaredLogger
}

// NewYahooFetcher creates a new Yahoo Finance fetcher with optional proxy support.
func NewYahooFetcher(proxyURL string, timeout time.Duration, log *zap.SugaredLogger) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &YahooFetcher{
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		log: log,
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from the Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
				Adjclose []struct {
					Adjclose []interface{} `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

// rangeForDays maps a calendar-day lookback onto Yahoo's range strings.
func rangeForDays(days int) string {
	switch {
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 180:
		return "6mo"
	case days <= 365:
		return "1y"
	case days <= 730:
		return "2y"
	default:
		return "5y"
	}
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol, rng string) ([]model.Bar, error) {
	u := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=1d&range=%s",
		url.PathEscape(symbol), rng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d for %s", resp.StatusCode, symbol)
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo: no data for %s", symbol)
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no quote block for %s", symbol)
	}
	quote := result.Indicators.Quote[0]

	var adj []interface{}
	if len(result.Indicators.Adjclose) > 0 {
		adj = result.Indicators.Adjclose[0].Adjclose
	}

	bars := make([]model.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o := toFloat(quote.Open[i])
		h := toFloat(quote.High[i])
		l := toFloat(quote.Low[i])
		c := toFloat(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // skip null bars (holidays etc.)
		}
		// Back-adjust the whole bar by the adjclose ratio so splits and
		// dividends don't show up as phantom returns. Applied uniformly:
		// every downstream indicator sees adjusted prices.
		if i < len(adj) {
			if a := toFloat(adj[i]); a > 0 && c > 0 {
				ratio := a / c
				o *= ratio
				h *= ratio
				l *= ratio
				c = a
			}
		}
		bars = append(bars, model.Bar{
			Ticker: "",
			Date:   time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: toFloat(quote.Volume[i]),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

// Probe reports whether a symbol returns any chart data at all. The symbol
// resolver uses this to confirm a heuristic guess before learning it.
func (f *YahooFetcher) Probe(ctx context.Context, symbol string) bool {
	bars, err := f.fetchChart(ctx, symbol, "1mo")
	return err == nil && len(bars) > 0
}

// FetchDailyBars returns long-format daily bars for all requested tickers.
// An empty ticker set returns immediately without network I/O. Per-ticker
// failures are logged and skipped; the method errors only on a nil context
// misuse, never on missing data.
func (f *YahooFetcher) FetchDailyBars(ctx context.Context, tickers []string, days int) ([]model.Bar, error) {
	if len(tickers) == 0 || days <= 0 {
		return nil, nil
	}
	rng := rangeForDays(days)

	var out []model.Bar
	for _, t := range tickers {
		bars, err := f.fetchChart(ctx, t, rng)
		if err != nil {
			if f.log != nil {
				f.log.Warnw("ticker fetch failed", "ticker", t, "err", err)
			}
			continue
		}
		// Trim to the requested calendar window.
		cutoff := time.Now().UTC().AddDate(0, 0, -days)
		for _, b := range bars {
			if b.Date.Before(cutoff) {
				continue
			}
			b.Ticker = t
			out = append(out, b)
		}
	}
	return out, nil
}
