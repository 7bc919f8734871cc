package fetcher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedFetcher_HitAndClear(t *testing.T) {
	mock := &MockFetcher{Price: 100}
	c := NewCachedFetcher(mock, time.Minute, 8)

	ctx := context.Background()
	first, err := c.FetchDailyBars(ctx, []string{"AIR.PA", "MC.PA"}, 60)
	require.NoError(t, err)
	require.NotEmpty(t, first)
	assert.Equal(t, 1, mock.Calls)

	// Same set, different order: must hit the cache.
	_, err = c.FetchDailyBars(ctx, []string{"MC.PA", "AIR.PA"}, 60)
	require.NoError(t, err)
	assert.Equal(t, 1, mock.Calls)

	// Different window is a different signature.
	_, err = c.FetchDailyBars(ctx, []string{"MC.PA", "AIR.PA"}, 30)
	require.NoError(t, err)
	assert.Equal(t, 2, mock.Calls)

	c.Clear()
	assert.Equal(t, 0, c.Len())
	_, err = c.FetchDailyBars(ctx, []string{"AIR.PA", "MC.PA"}, 60)
	require.NoError(t, err)
	assert.Equal(t, 3, mock.Calls)
}

func TestCachedFetcher_CapacityEviction(t *testing.T) {
	mock := &MockFetcher{Price: 50}
	c := NewCachedFetcher(mock, time.Minute, 2)

	ctx := context.Background()
	for _, tk := range []string{"A", "B", "C"} {
		_, err := c.FetchDailyBars(ctx, []string{tk}, 30)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, c.Len())

	// "A" was evicted, so this refetches.
	_, err := c.FetchDailyBars(ctx, []string{"A"}, 30)
	require.NoError(t, err)
	assert.Equal(t, 4, mock.Calls)
}

func TestCachedFetcher_EmptyTickerSetSkipsNetwork(t *testing.T) {
	mock := &MockFetcher{Price: 100}
	c := NewCachedFetcher(mock, time.Minute, 8)

	bars, err := c.FetchDailyBars(context.Background(), nil, 30)
	require.NoError(t, err)
	assert.Empty(t, bars)
	assert.Equal(t, 0, mock.Calls)
}
