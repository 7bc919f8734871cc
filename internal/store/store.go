// Package store owns every flat-file persisted concern: active risk profile,
// personal watchlist, learned ticker mapping, last search, real portfolio and
// the paper-trade ledger. One file per concern, rewritten wholesale on each
// change, single writer guarded by a mutex.
package store

import (
	"path/filepath"
	"sync"
)

const (
	profileFile    = "profile.json"
	watchlistFile  = "watchlist_ls.json"
	mappingFile    = "id_mapping.json"
	lastSearchFile = "last_search.json"
	portfolioFile  = "portfolio.json"
	ledgerFile     = "paper_trades.json"

	defaultProfile = "Neutral"
)

// Store reads and writes the dashboard's flat JSON files under one data
// directory. Reads are permissive: a missing or corrupt file yields the
// hardcoded default and heals on the next save.
type Store struct {
	dir string
	mu  sync.Mutex
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

type profileDoc struct {
	Profile string `json:"profile"`
}

// Profile returns the persisted risk-profile name, defaulting to Neutral.
func (s *Store) Profile() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var doc profileDoc
	if !readJSON(s.path(profileFile), &doc) || doc.Profile == "" {
		return defaultProfile
	}
	return doc.Profile
}

func (s *Store) SaveProfile(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSON(s.path(profileFile), profileDoc{Profile: name})
}

// Watchlist returns the personal ticker list, empty when unset.
func (s *Store) Watchlist() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []string
	readJSON(s.path(watchlistFile), &list)
	return list
}

func (s *Store) SaveWatchlist(list []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if list == nil {
		list = []string{}
	}
	return writeJSON(s.path(watchlistFile), list)
}

// Mapping returns the learned identifier corrections.
func (s *Store) Mapping() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := map[string]string{}
	readJSON(s.path(mappingFile), &m)
	return m
}

func (s *Store) SaveMapping(m map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m == nil {
		m = map[string]string{}
	}
	return writeJSON(s.path(mappingFile), m)
}

type lastSearchDoc struct {
	Last string `json:"last"`
}

// LastSearch returns the most recently searched symbol, empty when unset.
func (s *Store) LastSearch() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var doc lastSearchDoc
	readJSON(s.path(lastSearchFile), &doc)
	return doc.Last
}

func (s *Store) SaveLastSearch(symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSON(s.path(lastSearchFile), lastSearchDoc{Last: symbol})
}
