package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"MarketFlash/internal/model"
)

func (s *Store) loadHoldings() []model.Holding {
	var list []model.Holding
	readJSON(s.path(portfolioFile), &list)
	return list
}

func (s *Store) storeHoldings(list []model.Holding) error {
	if list == nil {
		list = []model.Holding{}
	}
	return writeJSON(s.path(portfolioFile), list)
}

// Holdings returns the persisted portfolio, empty when unset.
func (s *Store) Holdings() []model.Holding {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadHoldings()
}

func (s *Store) SaveHoldings(list []model.Holding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storeHoldings(list)
}

// AddHolding appends a position. The ticker is normalized to upper case and
// must be non-empty; that is the only invariant these records carry.
func (s *Store) AddHolding(h model.Holding) error {
	h.Ticker = strings.ToUpper(strings.TrimSpace(h.Ticker))
	if h.Ticker == "" {
		return fmt.Errorf("holding ticker must not be empty")
	}
	if h.Account == "" {
		h.Account = "PEA"
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storeHoldings(append(s.loadHoldings(), h))
}

// RemoveHolding deletes every position for a ticker, reporting whether any
// was present.
func (s *Store) RemoveHolding(ticker string) (bool, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.loadHoldings()
	kept := list[:0]
	removed := false
	for _, h := range list {
		if h.Ticker == ticker {
			removed = true
			continue
		}
		kept = append(kept, h)
	}
	if !removed {
		return false, nil
	}
	return true, s.storeHoldings(kept)
}

// ExportHoldings serializes the portfolio for download. Importing the result
// back yields equivalent records.
func (s *Store) ExportHoldings() ([]byte, error) {
	return json.MarshalIndent(s.Holdings(), "", "  ")
}

// ImportHoldings replaces the portfolio with records parsed from an exported
// file. Records with an empty ticker are rejected wholesale so a bad file
// cannot half-overwrite a good portfolio.
func (s *Store) ImportHoldings(data []byte) error {
	var list []model.Holding
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("parse portfolio import: %w", err)
	}
	for i, h := range list {
		if strings.TrimSpace(h.Ticker) == "" {
			return fmt.Errorf("record %d: ticker must not be empty", i)
		}
	}
	return s.SaveHoldings(list)
}
