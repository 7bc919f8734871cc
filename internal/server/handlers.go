package server

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"MarketFlash/internal/decision"
	"MarketFlash/internal/metrics"
	"MarketFlash/internal/model"
	"MarketFlash/internal/news"
	"MarketFlash/internal/store"
	"MarketFlash/internal/universe"
)

// fnum maps an undefined indicator onto JSON null instead of failing the
// whole encode, which is what encoding/json does with a bare NaN.
func fnum(v float64) *float64 {
	if !model.Defined(v) {
		return nil
	}
	return &v
}

type metricsJSON struct {
	Ticker  string   `json:"ticker"`
	Name    string   `json:"name"`
	Market  string   `json:"market"`
	Date    string   `json:"date"`
	Close   *float64 `json:"close"`
	MA20    *float64 `json:"ma20"`
	MA50    *float64 `json:"ma50"`
	MA120   *float64 `json:"ma120"`
	MA240   *float64 `json:"ma240"`
	ATR14   *float64 `json:"atr14"`
	TrendST *float64 `json:"trend_st"`
	TrendLT *float64 `json:"trend_lt"`
	Pct1D   *float64 `json:"pct_1d"`
	Pct7D   *float64 `json:"pct_7d"`
	Pct30D  *float64 `json:"pct_30d"`
	IAScore *float64 `json:"ia_score"`
	Bars    int      `json:"bars"`
}

type pickJSON struct {
	metricsJSON
	Score     *float64 `json:"score"`
	Entry     *float64 `json:"entry"`
	Target    *float64 `json:"target"`
	Stop      *float64 `json:"stop"`
	Proximity *float64 `json:"proximity_pct"`
	Signal    string   `json:"signal"`
	Advice    string   `json:"advice"`
}

func toMetricsJSON(m model.MetricsRow) metricsJSON {
	date := ""
	if !m.Date.IsZero() {
		date = m.Date.Format("2006-01-02")
	}
	return metricsJSON{
		Ticker:  m.Ticker,
		Name:    m.Name,
		Market:  m.Index,
		Date:    date,
		Close:   fnum(m.Close),
		MA20:    fnum(m.MA20),
		MA50:    fnum(m.MA50),
		MA120:   fnum(m.MA120),
		MA240:   fnum(m.MA240),
		ATR14:   fnum(m.ATR14),
		TrendST: fnum(m.TrendST),
		TrendLT: fnum(m.TrendLT),
		Pct1D:   fnum(m.Pct1D),
		Pct7D:   fnum(m.Pct7D),
		Pct30D:  fnum(m.Pct30D),
		IAScore: fnum(m.IAScore),
		Bars:    m.Bars,
	}
}

func toPickJSON(p model.Pick) pickJSON {
	return pickJSON{
		metricsJSON: toMetricsJSON(p.MetricsRow),
		Score:       fnum(p.Score),
		Entry:       fnum(p.Levels.Entry),
		Target:      fnum(p.Levels.Target),
		Stop:        fnum(p.Levels.Stop),
		Proximity:   fnum(p.Proximity),
		Signal:      string(p.Signal),
		Advice:      string(p.Advice),
	}
}

func (s *Server) markets(r *http.Request) []string {
	if v := r.URL.Query().Get("markets"); v != "" {
		var out []string
		for _, m := range strings.Split(v, ",") {
			if m = strings.TrimSpace(m); m != "" {
				out = append(out, m)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return s.Markets
}

func (s *Server) days(r *http.Request) int {
	if v := r.URL.Query().Get("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return s.Days
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	markets, days := s.markets(r), s.days(r)
	rows := s.Agg.FetchAll(r.Context(), markets, days)
	out := make([]metricsJSON, 0, len(rows))
	for _, m := range rows {
		out = append(out, toMetricsJSON(m))
	}

	benches := s.benchmarkRows(r.Context(), markets, days)
	benchOut := make([]metricsJSON, 0, len(benches))
	for _, m := range benches {
		benchOut = append(benchOut, toMetricsJSON(m))
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"rows":       out,
		"benchmarks": benchOut,
	})
}

// benchmarkRows computes the same indicator set for each market's index so
// the overview can show constituents against their benchmark. Best effort.
func (s *Server) benchmarkRows(ctx context.Context, markets []string, days int) []model.MetricsRow {
	var symbols []string
	bySymbol := map[string]string{}
	for _, m := range markets {
		if b := universe.BenchmarkSymbol(m); b != "" {
			symbols = append(symbols, b)
			bySymbol[b] = m
		}
	}
	if len(symbols) == 0 {
		return nil
	}
	bars, err := s.Agg.Fetcher.FetchDailyBars(ctx, symbols, days)
	if err != nil {
		return nil
	}
	rows := metrics.Compute(bars)
	for i := range rows {
		rows[i].Index = bySymbol[rows[i].Ticker]
		rows[i].Name = rows[i].Ticker
	}
	return rows
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	profileName := r.URL.Query().Get("profile")
	if profileName == "" {
		profileName = s.Store.Profile()
	}
	n := 10
	if v := r.URL.Query().Get("n"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			n = parsed
		}
	}

	rows := s.Agg.FetchAll(r.Context(), s.markets(r), s.days(r))
	picks := decision.SelectTop(rows, decision.GetProfile(profileName), n)

	out := make([]pickJSON, 0, len(picks))
	for _, p := range picks {
		out = append(out, toPickJSON(p))
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"profile": profileName,
		"picks":   out,
	})
}

type tickerResponse struct {
	metricsJSON
	Held        bool             `json:"held"`
	Advice      string           `json:"advice"`
	Entry       *float64         `json:"entry"`
	Target      *float64         `json:"target"`
	Stop        *float64         `json:"stop"`
	Proximity   *float64         `json:"proximity_pct"`
	Signal      string           `json:"signal"`
	News        []model.NewsItem `json:"news"`
	NewsSummary string           `json:"news_summary"`
	NewsScore   *float64         `json:"news_score"`
}

func (s *Server) handleTicker(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("sym")
	if raw == "" {
		s.writeError(w, http.StatusBadRequest, "missing symbol")
		return
	}
	symbol := s.Resolver.Resolve(r.Context(), raw)

	bars, err := s.Agg.Fetcher.FetchDailyBars(r.Context(), []string{symbol}, s.days(r))
	if err != nil {
		s.writeError(w, http.StatusBadGateway, "fetch failed: "+err.Error())
		return
	}
	rows := metrics.Compute(bars)
	if len(rows) == 0 {
		s.writeError(w, http.StatusNotFound, "no data for "+symbol)
		return
	}
	m := rows[0]
	_ = s.Store.SaveLastSearch(raw)

	held := false
	avgCost := math.NaN()
	for _, h := range s.Store.Holdings() {
		if strings.EqualFold(h.Ticker, symbol) || strings.EqualFold(h.Ticker, raw) {
			held = true
			avgCost = h.AvgCost
			break
		}
	}

	profile := decision.GetProfile(s.Store.Profile())
	advice := decision.Decide(m, held, avgCost, profile)
	lv := decision.Levels(m, profile)
	prox, signal := decision.Proximity(m.Close, lv.Entry)

	var items []model.NewsItem
	var summary string
	var newsScore *float64
	if s.News != nil {
		items = s.News.Headlines(r.Context(), m.Name, symbol)
		var score float64
		summary, score = news.Summarize(items)
		if len(items) > 0 {
			newsScore = fnum(score)
		}
	}

	s.writeJSON(w, http.StatusOK, tickerResponse{
		metricsJSON: toMetricsJSON(m),
		Held:        held,
		Advice:      string(advice),
		Entry:       fnum(lv.Entry),
		Target:      fnum(lv.Target),
		Stop:        fnum(lv.Stop),
		Proximity:   fnum(prox),
		Signal:      string(signal),
		News:        items,
		NewsSummary: summary,
		NewsScore:   newsScore,
	})
}

func (s *Server) handlePortfolioGet(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Store.Holdings())
}

func (s *Server) handlePortfolioPost(w http.ResponseWriter, r *http.Request) {
	var h model.Holding
	if err := json.NewDecoder(r.Body).Decode(&h); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	if err := s.Store.AddHolding(h); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, s.Store.Holdings())
}

func (s *Server) handlePortfolioDelete(w http.ResponseWriter, r *http.Request) {
	ticker := r.URL.Query().Get("ticker")
	if ticker == "" {
		s.writeError(w, http.StatusBadRequest, "missing ticker")
		return
	}
	removed, err := s.Store.RemoveHolding(ticker)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !removed {
		s.writeError(w, http.StatusNotFound, "not held: "+ticker)
		return
	}
	s.writeJSON(w, http.StatusOK, s.Store.Holdings())
}

func (s *Server) handleWatchlistGet(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Store.Watchlist())
}

func (s *Server) handleWatchlistPost(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Ticker string `json:"ticker"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	raw := strings.ToUpper(strings.TrimSpace(body.Ticker))
	if raw == "" {
		s.writeError(w, http.StatusBadRequest, "missing ticker")
		return
	}

	// Resolving up front learns the Yahoo mapping before the next snapshot.
	symbol := s.Resolver.Resolve(r.Context(), raw)

	list := s.Store.Watchlist()
	for _, t := range list {
		if t == raw {
			s.writeJSON(w, http.StatusOK, map[string]interface{}{"watchlist": list, "symbol": symbol})
			return
		}
	}
	list = append(list, raw)
	if err := s.Store.SaveWatchlist(list); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"watchlist": list, "symbol": symbol})
}

func (s *Server) handleWatchlistDelete(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("ticker")))
	if ticker == "" {
		s.writeError(w, http.StatusBadRequest, "missing ticker")
		return
	}
	list := s.Store.Watchlist()
	kept := list[:0]
	removed := false
	for _, t := range list {
		if t == ticker {
			removed = true
			continue
		}
		kept = append(kept, t)
	}
	if !removed {
		s.writeError(w, http.StatusNotFound, "not watched: "+ticker)
		return
	}
	if err := s.Store.SaveWatchlist(kept); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, kept)
}

type ledgerLine struct {
	model.PaperTrade
	Value  *string `json:"current_value,omitempty"`
	PnLPct *string `json:"pnl_pct,omitempty"`
}

func (s *Server) handleLedgerGet(w http.ResponseWriter, r *http.Request) {
	trades := s.Store.PaperTrades()
	out := make([]ledgerLine, 0, len(trades))

	// Mark to market only when asked, one fetch for all tickers.
	lastClose := map[string]float64{}
	if r.URL.Query().Get("mark") == "true" && len(trades) > 0 {
		tickers := make([]string, 0, len(trades))
		seen := map[string]bool{}
		for _, tr := range trades {
			if !seen[tr.Ticker] {
				seen[tr.Ticker] = true
				tickers = append(tickers, tr.Ticker)
			}
		}
		if bars, err := s.Agg.Fetcher.FetchDailyBars(r.Context(), tickers, s.days(r)); err == nil {
			for _, row := range metrics.Compute(bars) {
				lastClose[row.Ticker] = row.Close
			}
		}
	}

	for _, tr := range trades {
		line := ledgerLine{PaperTrade: tr}
		if last, ok := lastClose[tr.Ticker]; ok {
			if value, pnl, valid := store.PaperValue(tr, last); valid {
				v, p := value.Round(2).String(), pnl.String()
				line.Value, line.PnLPct = &v, &p
			}
		}
		out = append(out, line)
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLedgerPost(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Ticker  string  `json:"ticker"`
		Amount  float64 `json:"amount"`
		Horizon string  `json:"horizon"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	if body.Ticker == "" || body.Amount <= 0 {
		s.writeError(w, http.StatusBadRequest, "ticker and positive amount required")
		return
	}
	symbol := s.Resolver.Resolve(r.Context(), strings.ToUpper(strings.TrimSpace(body.Ticker)))

	bars, err := s.Agg.Fetcher.FetchDailyBars(r.Context(), []string{symbol}, s.days(r))
	if err != nil {
		s.writeError(w, http.StatusBadGateway, "fetch failed: "+err.Error())
		return
	}
	rows := metrics.Compute(bars)
	if len(rows) == 0 {
		s.writeError(w, http.StatusNotFound, "no data for "+symbol)
		return
	}
	m := rows[0]

	profileName := s.Store.Profile()
	profile := decision.GetProfile(profileName)
	pick := model.Pick{MetricsRow: m, Levels: decision.Levels(m, profile)}
	pick.Proximity, pick.Signal = decision.Proximity(m.Close, pick.Levels.Entry)
	pick.Advice = decision.Decide(m, false, math.NaN(), profile)

	trade, err := s.Store.OpenPaperTrade(pick, decimal.NewFromFloat(body.Amount), profileName, body.Horizon)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusCreated, trade)
}

func (s *Server) handleLedgerDelete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		s.writeError(w, http.StatusBadRequest, "missing id")
		return
	}
	removed, err := s.Store.ClosePaperTrade(id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !removed {
		s.writeError(w, http.StatusNotFound, "no trade with id "+id)
		return
	}
	s.writeJSON(w, http.StatusOK, s.Store.PaperTrades())
}

func (s *Server) handleProfileGet(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"profile":   s.Store.Profile(),
		"available": decision.ProfileNames(),
	})
}

func (s *Server) handleProfilePut(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Profile string `json:"profile"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	valid := false
	for _, name := range decision.ProfileNames() {
		if name == body.Profile {
			valid = true
			break
		}
	}
	if !valid {
		s.writeError(w, http.StatusBadRequest, "unknown profile: "+body.Profile)
		return
	}
	if err := s.Store.SaveProfile(body.Profile); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"profile": body.Profile})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	for _, c := range s.Caches {
		c.Clear()
	}
	s.log.Info("caches flushed on request")
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}
