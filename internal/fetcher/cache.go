package fetcher

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"MarketFlash/internal/model"
)

type cacheEntry struct {
	bars     []model.Bar
	storedAt time.Time
}

// CachedFetcher wraps another Fetcher with a TTL-bounded, capacity-bounded
// memo keyed by the normalized request signature. Clear is wired to the
// dashboard's reload action.
type CachedFetcher struct {
	inner Fetcher
	ttl   time.Duration
	cap   int

	mu      sync.Mutex
	entries map[string]cacheEntry
	order   []string // insertion order, oldest first
}

// NewCachedFetcher creates a cache in front of inner. cap is the maximum
// number of distinct request signatures retained.
func NewCachedFetcher(inner Fetcher, ttl time.Duration, capacity int) *CachedFetcher {
	if capacity <= 0 {
		capacity = 64
	}
	return &CachedFetcher{
		inner:   inner,
		ttl:     ttl,
		cap:     capacity,
		entries: make(map[string]cacheEntry),
	}
}

func (c *CachedFetcher) Name() string { return c.inner.Name() + "+cache" }

// key normalizes the request: ticker order must not matter.
func key(tickers []string, days int) string {
	sorted := make([]string, len(tickers))
	copy(sorted, tickers)
	sort.Strings(sorted)
	return fmt.Sprintf("%dd|%s", days, strings.Join(sorted, ","))
}

func (c *CachedFetcher) FetchDailyBars(ctx context.Context, tickers []string, days int) ([]model.Bar, error) {
	if len(tickers) == 0 {
		return nil, nil
	}
	k := key(tickers, days)

	c.mu.Lock()
	if e, ok := c.entries[k]; ok && time.Since(e.storedAt) < c.ttl {
		c.mu.Unlock()
		return e.bars, nil
	}
	c.mu.Unlock()

	bars, err := c.inner.FetchDailyBars(ctx, tickers, days)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[k]; !exists {
		c.order = append(c.order, k)
	}
	c.entries[k] = cacheEntry{bars: bars, storedAt: time.Now()}
	for len(c.order) > c.cap {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	return bars, nil
}

// Clear drops every cached entry.
func (c *CachedFetcher) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
	c.order = nil
}

// Len reports how many request signatures are currently cached.
func (c *CachedFetcher) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
