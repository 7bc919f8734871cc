package universe

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const yahooSearchURL = "https://query2.finance.yahoo.com/v1/finance/search"

// SearchHit is one symbol candidate from the search endpoint.
type SearchHit struct {
	Symbol   string
	Name     string
	Exchange string
	Type     string
}

// Exchanges preferred when ranking hits for a European retail user.
var preferredExchanges = []string{"paris", "xetra", "frankfurt", "nasdaqgs", "nyse"}

// SearchClient queries the Yahoo symbol-search endpoint. Best effort: any
// failure yields an empty result set.
type SearchClient struct {
	Client *http.Client
	Region string
	Lang   string
}

func NewSearchClient() *SearchClient {
	return &SearchClient{
		Client: &http.Client{Timeout: 12 * time.Second},
		Region: "FR",
		Lang:   "fr-FR",
	}
}

// FindTicker searches for a company name or identifier and returns equity
// hits ranked by exchange preference and name match.
func (s *SearchClient) FindTicker(ctx context.Context, query string) []SearchHit {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	params := url.Values{
		"q":           {query},
		"quotesCount": {"20"},
		"newsCount":   {"0"},
		"lang":        {s.Lang},
		"region":      {s.Region},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, yahooSearchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}

	var hits []SearchHit
	gjson.GetBytes(body, "quotes").ForEach(func(_, q gjson.Result) bool {
		sym := q.Get("symbol").String()
		if sym == "" {
			return true
		}
		name := q.Get("shortname").String()
		if name == "" {
			name = q.Get("longname").String()
		}
		hits = append(hits, SearchHit{
			Symbol:   sym,
			Name:     name,
			Exchange: q.Get("exchDisp").String(),
			Type:     q.Get("typeDisp").String(),
		})
		return true
	})

	return RankHits(query, hits)
}

// RankHits orders equity hits: preferred exchange first, then name and
// symbol substring matches. Stable so equal scores keep API order.
func RankHits(query string, hits []SearchHit) []SearchHit {
	q := strings.ToLower(strings.TrimSpace(query))
	eq := make([]SearchHit, 0, len(hits))
	for _, h := range hits {
		t := strings.ToLower(h.Type)
		if t == "" || t == "equity" || t == "action" || t == "stock" || t == "actions" {
			eq = append(eq, h)
		}
	}
	score := func(h SearchHit) int {
		s := 0
		exch := strings.ToLower(h.Exchange)
		for _, pm := range preferredExchanges {
			if strings.Contains(exch, pm) {
				s += 3
				break
			}
		}
		if q != "" && strings.Contains(strings.ToLower(h.Name), q) {
			s += 2
		}
		if q != "" && strings.Contains(strings.ToLower(h.Symbol), q) {
			s++
		}
		return s
	}
	sort.SliceStable(eq, func(i, j int) bool { return score(eq[i]) > score(eq[j]) })
	return eq
}
