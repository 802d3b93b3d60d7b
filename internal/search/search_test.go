package search

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"stockwatch/internal/domain"
)

type fakeBackend struct {
	mu       sync.Mutex
	searches []string
	byCode   map[string]domain.StockSummary
	codeErr  map[string]error
	results  map[string][]domain.StockSummary
	delay    time.Duration
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		byCode:  map[string]domain.StockSummary{},
		codeErr: map[string]error{},
		results: map[string][]domain.StockSummary{},
	}
}

func (f *fakeBackend) SearchStocks(_ context.Context, symbol string) ([]domain.StockSummary, error) {
	f.mu.Lock()
	f.searches = append(f.searches, symbol)
	rows := f.results[symbol]
	delay := f.delay
	f.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}
	return rows, nil
}

func (f *fakeBackend) StocksByCodes(_ context.Context, codes []string) ([]domain.StockSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.StockSummary
	for _, c := range codes {
		if err := f.codeErr[c]; err != nil {
			return nil, err
		}
		if s, ok := f.byCode[c]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeBackend) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.searches)
}

func collect(o *Orchestrator) (<-chan []Suggestion, func()) {
	ch := make(chan []Suggestion, 16)
	o.OnResults = func(_ string, rows []Suggestion) { ch <- rows }
	return ch, func() { close(ch) }
}

func TestDebounceCoalescesKeystrokes(t *testing.T) {
	b := newFakeBackend()
	b.results["FPT"] = []domain.StockSummary{{Symbol: "FPT", Name: "FPT Corp", Price: 101000}}

	o := NewOrchestrator(b, Options{Debounce: 40 * time.Millisecond})
	ch, done := collect(o)
	defer done()

	ctx := context.Background()
	// Three keystrokes inside one debounce window: only the last survives.
	o.SetQuery(ctx, "F")
	time.Sleep(10 * time.Millisecond)
	o.SetQuery(ctx, "FP")
	time.Sleep(10 * time.Millisecond)
	o.SetQuery(ctx, "FPT")

	select {
	case rows := <-ch:
		if len(rows) != 1 || rows[0].Symbol != "FPT" {
			t.Errorf("rows = %+v, want single FPT", rows)
		}
	case <-time.After(time.Second):
		t.Fatal("no results delivered")
	}

	if got := b.searchCount(); got != 1 {
		t.Errorf("backend searches = %d, want 1 (debounced)", got)
	}
}

func TestStaleResultsAreDropped(t *testing.T) {
	b := newFakeBackend()
	b.results["OLD"] = []domain.StockSummary{{Symbol: "OLD"}}
	b.results["NEW"] = []domain.StockSummary{{Symbol: "NEW"}}
	b.delay = 30 * time.Millisecond

	o := NewOrchestrator(b, Options{Debounce: 5 * time.Millisecond})

	var delivered atomic.Int32
	last := make(chan string, 16)
	o.OnResults = func(_ string, rows []Suggestion) {
		delivered.Add(1)
		if len(rows) > 0 {
			last <- rows[0].Symbol
		}
	}

	ctx := context.Background()
	o.SetQuery(ctx, "OLD")
	// Let the OLD lookup start, then supersede it while it is in flight.
	time.Sleep(15 * time.Millisecond)
	o.SetQuery(ctx, "NEW")

	select {
	case sym := <-last:
		if sym != "NEW" {
			t.Errorf("delivered %q, want only the newest query's rows", sym)
		}
	case <-time.After(time.Second):
		t.Fatal("no results delivered")
	}
	time.Sleep(50 * time.Millisecond)
	if n := delivered.Load(); n != 1 {
		t.Errorf("deliveries = %d, want 1 (stale dropped)", n)
	}
}

func TestEmptyQueryClearsWithoutLookup(t *testing.T) {
	b := newFakeBackend()
	o := NewOrchestrator(b, Options{Debounce: 10 * time.Millisecond})
	ch, done := collect(o)
	defer done()

	ctx := context.Background()
	o.SetQuery(ctx, "FPT")
	o.SetQuery(ctx, "   ")

	select {
	case rows := <-ch:
		if rows != nil {
			t.Errorf("rows = %+v, want nil clear", rows)
		}
	case <-time.After(time.Second):
		t.Fatal("no clear delivered")
	}
	time.Sleep(30 * time.Millisecond)
	if got := b.searchCount(); got != 0 {
		t.Errorf("backend searches = %d, want 0 (pending lookup cancelled)", got)
	}
}

func TestFocusEmptySamplesWithPlaceholders(t *testing.T) {
	b := newFakeBackend()
	b.byCode["FPT"] = domain.StockSummary{Symbol: "FPT", Name: "FPT Corp", Price: 101000, PercentChange: 1.2}
	b.byCode["VCB"] = domain.StockSummary{Symbol: "VCB", Name: "Vietcombank", Price: 89000}
	b.codeErr["HPG"] = errors.New("timeout")

	o := NewOrchestrator(b, Options{
		Universe:   []string{"FPT", "VCB", "HPG"},
		SampleSize: 3,
	})
	ch, done := collect(o)
	defer done()

	o.FocusEmpty(context.Background())

	var rows []Suggestion
	select {
	case rows = <-ch:
	case <-time.After(time.Second):
		t.Fatal("no sample delivered")
	}
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}
	byName := map[string]Suggestion{}
	for _, r := range rows {
		byName[r.Symbol] = r
	}
	if s := byName["FPT"]; s.Price == nil || *s.Price != 101000 {
		t.Errorf("FPT row = %+v, want fetched price", s)
	}
	if s := byName["HPG"]; s.Price != nil {
		t.Errorf("HPG row = %+v, want nil-price placeholder after fetch failure", s)
	}
}

func TestWatchlistFlag(t *testing.T) {
	b := newFakeBackend()
	b.results["FPT"] = []domain.StockSummary{
		{Symbol: "FPT", Name: "FPT Corp"},
		{Symbol: "FTS", Name: "FPT Securities"},
	}

	o := NewOrchestrator(b, Options{Debounce: 5 * time.Millisecond})
	o.SetWatchlist([]string{"fpt"})
	ch, done := collect(o)
	defer done()

	o.SetQuery(context.Background(), "FPT")

	var rows []Suggestion
	select {
	case rows = <-ch:
	case <-time.After(time.Second):
		t.Fatal("no results delivered")
	}
	for _, r := range rows {
		want := r.Symbol == "FPT"
		if r.InWatchlist != want {
			t.Errorf("%s InWatchlist = %v, want %v", r.Symbol, r.InWatchlist, want)
		}
	}
}
