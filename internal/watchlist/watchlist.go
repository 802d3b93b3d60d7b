// Package watchlist fronts the backend watchlist with a read-through cache
// and a polling refresher, so screens can read it cheaply and mutations stay
// consistent with the server.
package watchlist

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"stockwatch/internal/api"
	"stockwatch/internal/domain"
)

// DefaultPollInterval is how often the background refresher re-reads the
// watchlist while the screen is visible.
const DefaultPollInterval = 30 * time.Second

// Backend is the slice of the API client the service calls.
type Backend interface {
	Watchlist(ctx context.Context) ([]domain.WatchlistEntry, error)
	AddWatchlist(ctx context.Context, symbol string, buyPrice float64, note string) (*domain.WatchlistEntry, error)
	UpdateWatchlist(ctx context.Context, id, symbol string, buyPrice float64, note string) (*domain.WatchlistEntry, error)
	DeleteWatchlist(ctx context.Context, id string) error
}

var _ Backend = (*api.Client)(nil)

// Service is the cached watchlist. The cache fills on first read and is
// invalidated by every mutation, so the next read goes back to the server.
type Service struct {
	backend Backend
	log     *slog.Logger

	mu      sync.Mutex
	entries []domain.WatchlistEntry
	valid   bool
}

// NewService creates a watchlist service over the given backend.
func NewService(backend Backend, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{backend: backend, log: logger.With("component", "watchlist")}
}

// Entries returns the watchlist, from cache when warm. The returned slice is
// a copy.
func (s *Service) Entries(ctx context.Context) ([]domain.WatchlistEntry, error) {
	s.mu.Lock()
	if s.valid {
		out := make([]domain.WatchlistEntry, len(s.entries))
		copy(out, s.entries)
		s.mu.Unlock()
		return out, nil
	}
	s.mu.Unlock()
	return s.refresh(ctx)
}

// refresh re-reads the watchlist from the backend and warms the cache.
func (s *Service) refresh(ctx context.Context) ([]domain.WatchlistEntry, error) {
	entries, err := s.backend.Watchlist(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.entries = entries
	s.valid = true
	s.mu.Unlock()

	out := make([]domain.WatchlistEntry, len(entries))
	copy(out, entries)
	return out, nil
}

// Symbols returns the cached symbols, uppercased. Used to flag search rows.
func (s *Service) Symbols(ctx context.Context) ([]string, error) {
	entries, err := s.Entries(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, strings.ToUpper(e.Code))
	}
	return out, nil
}

// Contains reports whether symbol is on the watchlist, case-insensitively.
func (s *Service) Contains(ctx context.Context, symbol string) (bool, error) {
	entries, err := s.Entries(ctx)
	if err != nil {
		return false, err
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	for _, e := range entries {
		if strings.ToUpper(e.Code) == symbol {
			return true, nil
		}
	}
	return false, nil
}

// Add creates a watchlist row and invalidates the cache.
func (s *Service) Add(ctx context.Context, symbol string, buyPrice float64, note string) (*domain.WatchlistEntry, error) {
	entry, err := s.backend.AddWatchlist(ctx, strings.ToUpper(strings.TrimSpace(symbol)), buyPrice, note)
	if err != nil {
		return nil, err
	}
	s.invalidate()
	return entry, nil
}

// Update rewrites a watchlist row and invalidates the cache.
func (s *Service) Update(ctx context.Context, id, symbol string, buyPrice float64, note string) (*domain.WatchlistEntry, error) {
	entry, err := s.backend.UpdateWatchlist(ctx, id, strings.ToUpper(strings.TrimSpace(symbol)), buyPrice, note)
	if err != nil {
		return nil, err
	}
	s.invalidate()
	return entry, nil
}

// Remove deletes a watchlist row and invalidates the cache.
func (s *Service) Remove(ctx context.Context, id string) error {
	if err := s.backend.DeleteWatchlist(ctx, id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *Service) invalidate() {
	s.mu.Lock()
	s.valid = false
	s.mu.Unlock()
}

// Poll re-reads the watchlist on a fixed cadence until ctx is cancelled,
// delivering each fresh read to onUpdate. Auth failures stop the loop; other
// errors are logged and the cadence continues.
func (s *Service) Poll(ctx context.Context, interval time.Duration, onUpdate func([]domain.WatchlistEntry)) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			entries, err := s.refresh(ctx)
			if err != nil {
				if api.IsAuthRequired(err) {
					return err
				}
				s.log.Warn("watchlist poll failed", "error", err)
				continue
			}
			if onUpdate != nil {
				onUpdate(entries)
			}
		}
	}
}
