package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"MarketFlash/internal/market"
	"MarketFlash/internal/news"
	"MarketFlash/internal/store"
	"MarketFlash/internal/universe"
)

// CacheClearer is anything holding memoized data that /api/refresh flushes.
type CacheClearer interface {
	Clear()
}

// Server exposes the aggregated market data and the personal stores over a
// JSON API.
type Server struct {
	Agg      *market.Aggregator
	Store    *store.Store
	Resolver *universe.Resolver
	News     *news.Client
	Markets  []string
	Days     int
	Caches   []CacheClearer

	router *http.ServeMux
	server *http.Server
	log    *zap.SugaredLogger
}

// New creates the HTTP server with all routes registered.
func New(addr string, agg *market.Aggregator, st *store.Store, res *universe.Resolver, nc *news.Client, markets []string, days int, log *zap.SugaredLogger) *Server {
	s := &Server{
		Agg:      agg,
		Store:    st,
		Resolver: res,
		News:     nc,
		Markets:  markets,
		Days:     days,
		log:      log,
	}

	s.router = s.setupRoutes()

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// AddCache registers a cache to be flushed by /api/refresh.
func (s *Server) AddCache(c CacheClearer) {
	if c != nil {
		s.Caches = append(s.Caches, c)
	}
}

func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/overview", s.handleOverview)
	mux.HandleFunc("GET /api/selection", s.handleSelection)
	mux.HandleFunc("GET /api/ticker/{sym}", s.handleTicker)

	mux.HandleFunc("GET /api/portfolio", s.handlePortfolioGet)
	mux.HandleFunc("POST /api/portfolio", s.handlePortfolioPost)
	mux.HandleFunc("DELETE /api/portfolio", s.handlePortfolioDelete)

	mux.HandleFunc("GET /api/watchlist", s.handleWatchlistGet)
	mux.HandleFunc("POST /api/watchlist", s.handleWatchlistPost)
	mux.HandleFunc("DELETE /api/watchlist", s.handleWatchlistDelete)

	mux.HandleFunc("GET /api/ledger", s.handleLedgerGet)
	mux.HandleFunc("POST /api/ledger", s.handleLedgerPost)
	mux.HandleFunc("DELETE /api/ledger", s.handleLedgerDelete)

	mux.HandleFunc("GET /api/profile", s.handleProfileGet)
	mux.HandleFunc("PUT /api/profile", s.handleProfilePut)

	mux.HandleFunc("POST /api/refresh", s.handleRefresh)

	return mux
}

// Start blocks serving HTTP until Shutdown or an error.
func (s *Server) Start() error {
	s.log.Infow("http server starting", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down http server")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Errorw("encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
