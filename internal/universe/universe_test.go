package universe

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturePage = `
<html><body>
<table>
  <tr><th>Rank</th><th>Country</th></tr>
  <tr><td>1</td><td>France</td></tr>
</table>
<table>
  <tr><th>Company</th><th>Sector</th><th>Ticker</th></tr>
  <tr><td>Air Liquide</td><td>Chemicals</td><td>AI</td></tr>
  <tr><td>Airbus</td><td>Aerospace</td><td>AIR</td></tr>
  <tr><td>TotalEnergies</td><td>Oil</td><td>TTE</td></tr>
  <tr><td>Airbus</td><td>Aerospace</td><td>AIR</td></tr>
</table>
</body></html>`

func TestExtractConstituents_HeuristicColumnDetection(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fixturePage))
	require.NoError(t, err)

	members := ExtractConstituents(doc)
	require.Len(t, members, 3, "first table lacks ticker/name headers and duplicates collapse")
	assert.Equal(t, "AI", members[0].Ticker)
	assert.Equal(t, "Air Liquide", members[0].Name)
	assert.Equal(t, "TTE", members[2].Ticker)
}

func TestExtractConstituents_NoUsableTable(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><table><tr><th>A</th></tr></table></html>"))
	require.NoError(t, err)
	assert.Empty(t, ExtractConstituents(doc))
}

func TestFixSuffix(t *testing.T) {
	assert.Equal(t, "AI.PA", fixSuffix(CAC40, "AI"))
	assert.Equal(t, "SAP.DE", fixSuffix(DAX, "SAP"))
	assert.Equal(t, "AAPL", fixSuffix(Nasdaq100, "AAPL"))
	// Already qualified symbols pass through.
	assert.Equal(t, "BRK.B", fixSuffix(SP500, "BRK.B"))
	assert.Equal(t, "OR.PA", fixSuffix(CAC40, "OR.PA"))
}

func TestWikipediaProvider_UnknownUniverseSkipped(t *testing.T) {
	p := NewWikipediaProvider(nil)
	members, err := p.Constituents(context.Background(), "FTSE MIB")
	require.NoError(t, err)
	assert.Nil(t, members)
}

func TestGuessYahoo(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"AIR", "AIR.PA"},      // Paris blue chip
		{"tte", "TTE.PA"},      // normalization
		{"VOD.LS", "VOD.L"},    // LS suffix maps to London
		{"TOTB", "TOTB.F"},     // explicit exception
		{"BAYB", "BAYB.F"},     // *B heuristic -> Frankfurt
		{"SAP.DE", "SAP.DE"},   // already qualified
		{"ZZZZ", "ZZZZ.PA"},    // short alpha defaults to Paris
		{"ABCDEFG", "ABCDEFG"}, // too long for the Paris default
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, GuessYahoo(tt.in), "input %q", tt.in)
	}
}

func TestRankHits(t *testing.T) {
	hits := []SearchHit{
		{Symbol: "TTE", Name: "TotalEnergies SE", Exchange: "NYSE", Type: "Equity"},
		{Symbol: "TTE.PA", Name: "TotalEnergies SE", Exchange: "Paris", Type: "Equity"},
		{Symbol: "TTEF", Name: "Total Fund", Exchange: "Milan", Type: "ETF"},
	}
	ranked := RankHits("TotalEnergies", hits)
	require.Len(t, ranked, 2, "non-equity hits are dropped")
	// Both are on preferred exchanges with matching names; the symbol
	// substring does not apply, so API order decides between equals.
	assert.Equal(t, "TTE", ranked[0].Symbol)
	assert.Equal(t, "TTE.PA", ranked[1].Symbol)
}

type fakeMapping struct {
	m     map[string]string
	saved int
}

func (f *fakeMapping) Mapping() map[string]string { return f.m }
func (f *fakeMapping) SaveMapping(m map[string]string) error {
	f.m = m
	f.saved++
	return nil
}

type fakeProber struct{ ok map[string]bool }

func (f *fakeProber) Probe(_ context.Context, symbol string) bool { return f.ok[symbol] }

func TestResolver_MappingWinsOverHeuristic(t *testing.T) {
	store := &fakeMapping{m: map[string]string{"AIR": "AIR.DE"}}
	r := NewResolver(store, &fakeProber{}, nil, nil)
	assert.Equal(t, "AIR.DE", r.Lookup("air"))
}

func TestResolver_ConfirmedGuessIsLearned(t *testing.T) {
	store := &fakeMapping{m: map[string]string{}}
	r := NewResolver(store, &fakeProber{ok: map[string]bool{"TTE.PA": true}}, nil, nil)

	got := r.Resolve(context.Background(), "TTE")
	assert.Equal(t, "TTE.PA", got)
	assert.Equal(t, 1, store.saved)
	assert.Equal(t, "TTE.PA", store.m["TTE"])
}

func TestResolver_FallsBackToRawEcho(t *testing.T) {
	store := &fakeMapping{m: map[string]string{}}
	r := NewResolver(store, &fakeProber{}, nil, nil)
	assert.Equal(t, "UNKNOWNX", r.Resolve(context.Background(), "unknownx"))
	assert.Zero(t, store.saved)
}
