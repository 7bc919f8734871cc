package universe

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// MappingStore persists learned identifier corrections so an ambiguous ticker
// resolved once stays resolved.
type MappingStore interface {
	Mapping() map[string]string
	SaveMapping(map[string]string) error
}

// Prober checks whether a candidate Yahoo symbol actually trades. The price
// fetcher satisfies this with a short history request.
type Prober interface {
	Probe(ctx context.Context, symbol string) bool
}

// Paris blue chips that trade on LS Exchange under their bare mnemonic.
var parisMnemonics = map[string]bool{
	"AIR": true, "ORA": true, "MC": true, "TTE": true, "BNP": true,
	"SGO": true, "ENGI": true, "SU": true, "DG": true, "ACA": true,
	"GLE": true, "RI": true, "KER": true, "HO": true, "EN": true,
	"CAP": true, "AI": true, "PUB": true, "VIE": true, "VIV": true,
	"STM": true,
}

// GuessYahoo maps an LS-Exchange style identifier onto a Yahoo symbol using
// suffix heuristics. Returns "" when no guess applies. The chain is ordered
// from most to least specific; the raw input survives as the last resort.
func GuessYahoo(ticker string) string {
	t := norm(ticker)
	if t == "" {
		return ""
	}
	if strings.Contains(t, ".") && !strings.HasSuffix(t, ".LS") {
		return t
	}
	if strings.HasSuffix(t, ".LS") {
		return strings.TrimSuffix(t, ".LS") + ".L"
	}
	if t == "TOTB" {
		return "TOTB.F"
	}
	if strings.HasSuffix(t, "B") && !strings.HasSuffix(t, "AB") {
		return t + ".F"
	}
	if parisMnemonics[t] {
		return t + ".PA"
	}
	if len(t) <= 6 && isAlpha(t) {
		return t + ".PA"
	}
	return t
}

// Resolver turns user-entered identifiers (LS tickers, names, raw Yahoo
// symbols) into Yahoo symbols. Resolution never fails hard: the worst case
// echoes the normalized input back.
type Resolver struct {
	Store  MappingStore
	Prober Prober
	Search *SearchClient
	log    *zap.SugaredLogger
}

func NewResolver(store MappingStore, prober Prober, search *SearchClient, log *zap.SugaredLogger) *Resolver {
	return &Resolver{Store: store, Prober: prober, Search: search, log: log}
}

// Lookup consults the learned mapping first, then the suffix heuristics.
func (r *Resolver) Lookup(raw string) string {
	key := norm(raw)
	if key == "" {
		return ""
	}
	if r.Store != nil {
		if mapped, ok := r.Store.Mapping()[key]; ok && mapped != "" {
			return mapped
		}
	}
	return GuessYahoo(key)
}

// Resolve confirms a guess against live data and records it in the mapping
// on success. Unconfirmed guesses fall through to a name search, and finally
// to the raw echo.
func (r *Resolver) Resolve(ctx context.Context, raw string) string {
	key := norm(raw)
	if key == "" {
		return ""
	}
	if r.Store != nil {
		if mapped, ok := r.Store.Mapping()[key]; ok && mapped != "" {
			return mapped
		}
	}

	if guess := GuessYahoo(key); guess != "" && r.Prober != nil && r.Prober.Probe(ctx, guess) {
		r.remember(key, guess)
		return guess
	}

	if r.Search != nil {
		if hits := r.Search.FindTicker(ctx, raw); len(hits) > 0 {
			r.remember(key, hits[0].Symbol)
			return hits[0].Symbol
		}
	}
	return key
}

func (r *Resolver) remember(key, symbol string) {
	if r.Store == nil || key == symbol {
		return
	}
	m := r.Store.Mapping()
	if m == nil {
		m = map[string]string{}
	}
	m[key] = symbol
	if err := r.Store.SaveMapping(m); err != nil && r.log != nil {
		r.log.Warnw("mapping save failed", "err", err)
	}
}

func norm(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func isAlpha(s string) bool {
	for _, c := range s {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return len(s) > 0
}
