// Package news pulls recent company headlines from the Google News RSS feed
// and scores them with a small keyword heuristic. Everything here is best
// effort: any failure degrades to an empty list, never an error.
package news

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"MarketFlash/internal/model"
)

const maxHeadlines = 10

// Sentiment keyword lists, matched against lowercased titles. The feed is
// queried in French, so the vocabulary is too.
var (
	positiveWords = []string{
		"résultats", "bénéfice", "contrat", "relève", "guidance",
		"record", "upgrade", "partenariat", "dividende", "approbation",
	}
	negativeWords = []string{
		"profit warning", "retard", "procès", "amende", "downgrade",
		"abaisse", "enquête", "rappel", "départ", "incident",
	}
)

type rssDoc struct {
	Channel struct {
		Items []struct {
			Title   string `xml:"title"`
			Link    string `xml:"link"`
			PubDate string `xml:"pubDate"`
		} `xml:"item"`
	} `xml:"channel"`
}

// Client fetches headlines for a company.
type Client struct {
	HTTP *http.Client
	Lang string
}

func NewClient() *Client {
	return &Client{
		HTTP: &http.Client{Timeout: 12 * time.Second},
		Lang: "fr",
	}
}

// Headlines queries the feed for "name ticker" and falls back to the bare
// name, keeping only titles that mention the company.
func (c *Client) Headlines(ctx context.Context, name, ticker string) []model.NewsItem {
	items := c.search(ctx, strings.TrimSpace(name+" "+ticker))
	items = FilterCompany(ticker, name, items)
	if len(items) == 0 && name != "" {
		items = FilterCompany(ticker, name, c.search(ctx, name))
	}
	return items
}

func (c *Client) search(ctx context.Context, query string) []model.NewsItem {
	if query == "" {
		return nil
	}
	lang := c.Lang
	up := strings.ToUpper(lang)
	u := fmt.Sprintf("https://news.google.com/rss/search?q=%s&hl=%s-%s&gl=%s&ceid=%s:%s",
		url.QueryEscape(query), lang, up, up, up, up)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.HTTP.Do(req)
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

	var doc rssDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil
	}

	out := make([]model.NewsItem, 0, maxHeadlines)
	for _, it := range doc.Channel.Items {
		out = append(out, model.NewsItem{Title: it.Title, Link: it.Link, Published: it.PubDate})
		if len(out) == maxHeadlines {
			break
		}
	}
	return out
}

// FilterCompany keeps headlines whose title mentions the ticker, the full
// company name, or its leading word.
func FilterCompany(ticker, name string, items []model.NewsItem) []model.NewsItem {
	tkr := strings.ToLower(strings.TrimSpace(ticker))
	full := strings.ToLower(strings.TrimSpace(name))
	short := ""
	if full != "" {
		short = strings.Fields(full)[0]
	}

	var keep []model.NewsItem
	for _, it := range items {
		tl := strings.ToLower(it.Title)
		if (tkr != "" && strings.Contains(tl, tkr)) ||
			(full != "" && strings.Contains(tl, full)) ||
			(short != "" && strings.Contains(tl, short)) {
			keep = append(keep, it)
		}
	}
	return keep
}

// Summarize scores the headlines and returns a one-line reading plus the
// mean sentiment. No headlines reads as a technical move, score zero.
func Summarize(items []model.NewsItem) (string, float64) {
	if len(items) == 0 {
		return "Pas d'actualité saillante — mouvement technique / macro.", 0
	}
	var total float64
	for _, it := range items {
		total += scoreTitle(it.Title)
	}
	mean := total / float64(len(items))
	switch {
	case mean > 0.15:
		return "Hausse soutenue par des nouvelles positives.", mean
	case mean < -0.15:
		return "Baisse liée à des nouvelles défavorables.", mean
	default:
		return "Actualité mitigée/neutre — mouvement surtout technique.", mean
	}
}

func scoreTitle(title string) float64 {
	tl := strings.ToLower(title)
	var s float64
	for _, w := range positiveWords {
		if strings.Contains(tl, w) {
			s += 0.2
			break
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(tl, w) {
			s -= 0.2
			break
		}
	}
	return s
}
