package universe

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"MarketFlash/internal/model"
)

// Reference pages for each supported universe.
var wikipediaPages = map[string]string{
	CAC40:     "https://en.wikipedia.org/wiki/CAC_40",
	DAX:       "https://en.wikipedia.org/wiki/DAX",
	Nasdaq100: "https://en.wikipedia.org/wiki/Nasdaq-100",
	SP500:     "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies",
}

// WikipediaProvider scrapes index constituent tables from reference pages.
// Column detection is a best-effort heuristic: the first table carrying both
// a name-like and a ticker-like header wins. Results are memoized with a TTL
// because constituent lists change on the order of quarters, not minutes.
type WikipediaProvider struct {
	Client *http.Client
	log    *zap.SugaredLogger

	mu    sync.Mutex
	cache map[string]wikiCacheEntry
	ttl   time.Duration
}

type wikiCacheEntry struct {
	members  []model.Constituent
	storedAt time.Time
}

func NewWikipediaProvider(log *zap.SugaredLogger) *WikipediaProvider {
	return &WikipediaProvider{
		Client: &http.Client{Timeout: 20 * time.Second},
		log:    log,
		cache:  make(map[string]wikiCacheEntry),
		ttl:    12 * time.Hour,
	}
}

// Constituents returns the member list for a named universe, or nil for an
// unknown name.
func (w *WikipediaProvider) Constituents(ctx context.Context, name string) ([]model.Constituent, error) {
	page, ok := wikipediaPages[name]
	if !ok {
		return nil, nil
	}

	w.mu.Lock()
	if e, hit := w.cache[name]; hit && time.Since(e.storedAt) < w.ttl {
		w.mu.Unlock()
		return e.members, nil
	}
	w.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, page, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := w.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch constituents page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("constituents page: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse constituents page: %w", err)
	}

	members := ExtractConstituents(doc)
	for i := range members {
		members[i].Ticker = fixSuffix(name, members[i].Ticker)
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("no constituent table recognized on %s", page)
	}
	if w.log != nil {
		w.log.Infow("constituents scraped", "universe", name, "count", len(members))
	}

	w.mu.Lock()
	w.cache[name] = wikiCacheEntry{members: members, storedAt: time.Now()}
	w.mu.Unlock()
	return members, nil
}

// Clear drops the memoized constituent lists.
func (w *WikipediaProvider) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cache = make(map[string]wikiCacheEntry)
}

// ExtractConstituents finds the first table whose headers include a
// name-like and a ticker-like column and pulls (ticker, name) pairs from it.
func ExtractConstituents(doc *goquery.Document) []model.Constituent {
	var out []model.Constituent
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		tickerCol, nameCol := headerColumns(table)
		if tickerCol < 0 || nameCol < 0 {
			return true // keep looking
		}
		seen := make(map[string]bool)
		table.Find("tr").Each(func(i int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() <= tickerCol || cells.Length() <= nameCol {
				return
			}
			ticker := strings.TrimSpace(cells.Eq(tickerCol).Text())
			name := strings.TrimSpace(cells.Eq(nameCol).Text())
			if ticker == "" || name == "" || seen[ticker] {
				return
			}
			seen[ticker] = true
			out = append(out, model.Constituent{Ticker: ticker, Name: name})
		})
		return len(out) == 0
	})
	return out
}

// headerColumns inspects a table's header row for ticker/symbol and
// company/name columns. Returns (-1, -1) when either is missing.
func headerColumns(table *goquery.Selection) (tickerCol, nameCol int) {
	tickerCol, nameCol = -1, -1
	table.Find("tr").First().Find("th").Each(func(i int, th *goquery.Selection) {
		h := strings.ToLower(strings.TrimSpace(th.Text()))
		switch {
		case tickerCol < 0 && (strings.Contains(h, "ticker") || strings.Contains(h, "symbol")):
			tickerCol = i
		case nameCol < 0 && (strings.Contains(h, "company") || strings.Contains(h, "name")):
			nameCol = i
		}
	})
	return tickerCol, nameCol
}

// fixSuffix appends the exchange suffix Yahoo expects for European listings.
// US universes use bare symbols.
func fixSuffix(universe, ticker string) string {
	if strings.Contains(ticker, ".") {
		return ticker
	}
	switch universe {
	case CAC40:
		return ticker + ".PA"
	case DAX:
		return ticker + ".DE"
	}
	return ticker
}
