// Package favorites keeps the user's quick-access symbol list. The list is
// bounded: adding beyond capacity evicts the oldest entry, so it behaves as a
// small FIFO of recently pinned symbols.
package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"stockwatch/internal/store"
)

// Capacity is the maximum number of pinned symbols.
const Capacity = 4

// Set is the persisted favorites list. All methods are safe for concurrent
// use; the persisted form is a JSON array of uppercase symbols, oldest first.
type Set struct {
	kv store.KV

	mu      sync.Mutex
	symbols []string
	loaded  bool
}

// NewSet creates a favorites set over the given store.
func NewSet(kv store.KV) *Set {
	return &Set{kv: kv}
}

// load reads the persisted list once. Later calls are no-ops.
func (s *Set) load(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	raw, ok, err := s.kv.Get(ctx, store.KeyFavorites)
	if err != nil {
		return fmt.Errorf("loading favorites: %w", err)
	}
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &s.symbols); err != nil {
			return fmt.Errorf("decoding favorites: %w", err)
		}
	}
	s.loaded = true
	return nil
}

func (s *Set) persist(ctx context.Context) error {
	raw, err := json.Marshal(s.symbols)
	if err != nil {
		return fmt.Errorf("encoding favorites: %w", err)
	}
	if err := s.kv.Set(ctx, store.KeyFavorites, string(raw)); err != nil {
		return fmt.Errorf("persisting favorites: %w", err)
	}
	return nil
}

// Add pins a symbol. Already-pinned symbols keep their position; when the
// list is full the oldest entry is evicted to make room.
func (s *Set) Add(ctx context.Context, symbol string) error {
	symbol = normalize(symbol)
	if symbol == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(ctx); err != nil {
		return err
	}
	for _, have := range s.symbols {
		if have == symbol {
			return nil
		}
	}
	if len(s.symbols) >= Capacity {
		s.symbols = s.symbols[len(s.symbols)-Capacity+1:]
	}
	s.symbols = append(s.symbols, symbol)
	return s.persist(ctx)
}

// Remove unpins a symbol. Removing an absent symbol is not an error.
func (s *Set) Remove(ctx context.Context, symbol string) error {
	symbol = normalize(symbol)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(ctx); err != nil {
		return err
	}
	kept := s.symbols[:0]
	removed := false
	for _, have := range s.symbols {
		if have == symbol {
			removed = true
			continue
		}
		kept = append(kept, have)
	}
	s.symbols = kept
	if !removed {
		return nil
	}
	return s.persist(ctx)
}

// Contains reports whether symbol is pinned.
func (s *Set) Contains(ctx context.Context, symbol string) (bool, error) {
	symbol = normalize(symbol)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(ctx); err != nil {
		return false, err
	}
	for _, have := range s.symbols {
		if have == symbol {
			return true, nil
		}
	}
	return false, nil
}

// List returns the pinned symbols, oldest first.
func (s *Set) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	out := make([]string, len(s.symbols))
	copy(out, s.symbols)
	return out, nil
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
