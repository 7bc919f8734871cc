package market

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketFlash/internal/fetcher"
	"MarketFlash/internal/model"
	"MarketFlash/internal/universe"
)

type stubProvider struct {
	members map[string][]model.Constituent
	err     map[string]error
}

func (s *stubProvider) Constituents(_ context.Context, name string) ([]model.Constituent, error) {
	if err := s.err[name]; err != nil {
		return nil, err
	}
	return s.members[name], nil
}

type stubWatchlist struct{ items []string }

func (s *stubWatchlist) Watchlist() []string { return s.items }

type stubMapper struct{ m map[string]string }

func (s *stubMapper) Lookup(raw string) string { return s.m[raw] }

func TestFetchAll_TagsAndJoinsNames(t *testing.T) {
	prov := &stubProvider{members: map[string][]model.Constituent{
		universe.CAC40: {
			{Ticker: "AI.PA", Name: "Air Liquide"},
			{Ticker: "TTE.PA", Name: "TotalEnergies"},
		},
	}}
	bars := append(
		fetcher.GenerateBars("AI.PA", 180, 60),
		fetcher.GenerateBars("TTE.PA", 60, 60)...,
	)
	agg := NewAggregator(&fetcher.MockFetcher{Bars: bars}, prov, nil, nil, nil)

	rows := agg.FetchAll(context.Background(), []string{universe.CAC40}, 90)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, universe.CAC40, r.Index)
	}
	assert.Equal(t, "Air Liquide", rows[0].Name)
	assert.Equal(t, "TotalEnergies", rows[1].Name)
}

func TestFetchAll_FailedUniverseContributesZeroRows(t *testing.T) {
	prov := &stubProvider{
		members: map[string][]model.Constituent{
			universe.DAX: {{Ticker: "SAP.DE", Name: "SAP"}},
		},
		err: map[string]error{universe.CAC40: errors.New("scrape failed")},
	}
	agg := NewAggregator(&fetcher.MockFetcher{Bars: fetcher.GenerateBars("SAP.DE", 120, 60)}, prov, nil, nil, nil)

	rows := agg.FetchAll(context.Background(), []string{universe.CAC40, universe.DAX}, 90)
	require.Len(t, rows, 1)
	assert.Equal(t, "SAP.DE", rows[0].Ticker)
	assert.Equal(t, universe.DAX, rows[0].Index)
}

func TestFetchAll_UnknownUniverseSkipped(t *testing.T) {
	prov := &stubProvider{}
	agg := NewAggregator(&fetcher.MockFetcher{Price: 10}, prov, nil, nil, nil)

	rows := agg.FetchAll(context.Background(), []string{"IBEX 35"}, 90)
	assert.Empty(t, rows)
	assert.NotNil(t, rows, "schema-stable empty table")
}

func TestFetchAll_WatchlistUniverseResolvesSymbols(t *testing.T) {
	wl := &stubWatchlist{items: []string{"TTE", "BAYB"}}
	mapper := &stubMapper{m: map[string]string{"TTE": "TTE.PA", "BAYB": "BAYB.F"}}
	bars := append(
		fetcher.GenerateBars("TTE.PA", 60, 60),
		fetcher.GenerateBars("BAYB.F", 50, 60)...,
	)
	agg := NewAggregator(&fetcher.MockFetcher{Bars: bars}, &stubProvider{}, wl, mapper, nil)

	rows := agg.FetchAll(context.Background(), []string{WatchlistUniverse}, 90)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, WatchlistUniverse, r.Index)
	}
	// Display name keeps the user's original identifier.
	assert.ElementsMatch(t,
		[]string{"TTE", "BAYB"},
		[]string{rows[0].Name, rows[1].Name})
}
