package watchlist

import (
	"context"
	"sync"
	"testing"
	"time"

	"stockwatch/internal/api"
	"stockwatch/internal/domain"
)

type fakeBackend struct {
	mu      sync.Mutex
	entries []domain.WatchlistEntry
	reads   int
	err     error
	nextID  int
}

func (f *fakeBackend) Watchlist(_ context.Context) ([]domain.WatchlistEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.WatchlistEntry, len(f.entries))
	copy(out, f.entries)
	return out, nil
}

func (f *fakeBackend) AddWatchlist(_ context.Context, symbol string, buyPrice float64, note string) (*domain.WatchlistEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	e := domain.WatchlistEntry{ID: string(rune('a' + f.nextID)), Code: symbol, BuyPrice: buyPrice, Note: note}
	f.entries = append(f.entries, e)
	return &e, nil
}

func (f *fakeBackend) UpdateWatchlist(_ context.Context, id, symbol string, buyPrice float64, note string) (*domain.WatchlistEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.entries {
		if f.entries[i].ID == id {
			f.entries[i].Code = symbol
			f.entries[i].BuyPrice = buyPrice
			f.entries[i].Note = note
			e := f.entries[i]
			return &e, nil
		}
	}
	return nil, &api.Error{Kind: api.KindBackendReported, Message: "Không tìm thấy danh mục"}
}

func (f *fakeBackend) DeleteWatchlist(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.entries[:0]
	for _, e := range f.entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	f.entries = kept
	return nil
}

func (f *fakeBackend) readCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

func TestEntriesReadThroughCache(t *testing.T) {
	ctx := context.Background()
	b := &fakeBackend{entries: []domain.WatchlistEntry{{ID: "1", Code: "FPT", BuyPrice: 100}}}
	s := NewService(b, nil)

	for range 3 {
		got, err := s.Entries(ctx)
		if err != nil {
			t.Fatalf("Entries: %v", err)
		}
		if len(got) != 1 || got[0].Code != "FPT" {
			t.Errorf("Entries() = %+v", got)
		}
	}
	if b.readCount() != 1 {
		t.Errorf("backend reads = %d, want 1 (cache warm)", b.readCount())
	}
}

func TestMutationsInvalidateCache(t *testing.T) {
	ctx := context.Background()
	b := &fakeBackend{}
	s := NewService(b, nil)

	if _, err := s.Entries(ctx); err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if _, err := s.Add(ctx, "fpt", 100, "mua thử"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := s.Entries(ctx)
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(got) != 1 || got[0].Code != "FPT" {
		t.Errorf("Entries() after Add = %+v, want refreshed row with uppercased code", got)
	}
	if b.readCount() != 2 {
		t.Errorf("backend reads = %d, want 2 (cache invalidated)", b.readCount())
	}

	if err := s.Remove(ctx, got[0].ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	got, _ = s.Entries(ctx)
	if len(got) != 0 {
		t.Errorf("Entries() after Remove = %+v, want empty", got)
	}
}

func TestContainsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	b := &fakeBackend{entries: []domain.WatchlistEntry{{ID: "1", Code: "FPT"}}}
	s := NewService(b, nil)

	for _, q := range []string{"FPT", "fpt", " Fpt "} {
		ok, err := s.Contains(ctx, q)
		if err != nil {
			t.Fatalf("Contains(%q): %v", q, err)
		}
		if !ok {
			t.Errorf("Contains(%q) = false, want true", q)
		}
	}
	if ok, _ := s.Contains(ctx, "VCB"); ok {
		t.Error("Contains(VCB) = true, want false")
	}
}

func TestPollDeliversUpdatesAndStopsOnAuth(t *testing.T) {
	b := &fakeBackend{entries: []domain.WatchlistEntry{{ID: "1", Code: "FPT"}}}
	s := NewService(b, nil)

	updates := make(chan []domain.WatchlistEntry, 8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Poll(ctx, 10*time.Millisecond, func(e []domain.WatchlistEntry) { updates <- e })
	}()

	select {
	case got := <-updates:
		if len(got) != 1 || got[0].Code != "FPT" {
			t.Errorf("poll update = %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("no poll update")
	}

	// A rejected token ends the loop with the auth error.
	b.mu.Lock()
	b.err = &api.Error{Kind: api.KindAuthRequired, StatusCode: 401}
	b.mu.Unlock()

	select {
	case err := <-errCh:
		if !api.IsAuthRequired(err) {
			t.Errorf("Poll returned %v, want auth-required", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Poll did not stop on auth failure")
	}
}
