// Package search runs the symbol search box: keystrokes are debounced, the
// in-flight lookup is versioned so stale responses never overwrite newer
// ones, and an empty focused box shows a random sample of the market.
package search

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"stockwatch/internal/domain"
	"stockwatch/internal/market"
)

// DefaultDebounce is the pause after the last keystroke before a lookup runs.
const DefaultDebounce = 300 * time.Millisecond

// defaultSampleSize is how many random symbols an empty focused box shows.
const defaultSampleSize = 5

// Suggestion is one row of the search dropdown. Price fields are nil when the
// quote fetch for that symbol failed; the row still renders as a name-only
// placeholder.
type Suggestion struct {
	Symbol        string
	Name          string
	Price         *float64
	PercentChange *float64
	InWatchlist   bool
}

// Backend is the slice of the API client the orchestrator calls.
type Backend interface {
	SearchStocks(ctx context.Context, symbol string) ([]domain.StockSummary, error)
	StocksByCodes(ctx context.Context, codes []string) ([]domain.StockSummary, error)
}

// Options configures an Orchestrator.
type Options struct {
	// Debounce overrides the keystroke settle time. Zero means DefaultDebounce.
	Debounce time.Duration

	// Universe is the symbol pool sampled for an empty focused box. Nil means
	// market.DefaultUniverse.
	Universe []string

	// SampleSize overrides how many random symbols to show. Zero means 5.
	SampleSize int

	Logger *slog.Logger
}

// Orchestrator owns the search box state. OnResults delivers suggestion rows
// for the newest query only; superseded lookups are dropped silently.
type Orchestrator struct {
	backend    Backend
	debounce   time.Duration
	universe   []string
	sampleSize int
	log        *slog.Logger

	// OnResults receives the rows for the query that produced them. Called
	// from lookup goroutines; set before the first keystroke.
	OnResults func(query string, rows []Suggestion)

	mu    sync.Mutex
	seq   uint64
	timer *time.Timer
	watch map[string]bool
}

// NewOrchestrator creates a search orchestrator over the given backend.
func NewOrchestrator(backend Backend, opts Options) *Orchestrator {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Universe == nil {
		opts.Universe = market.DefaultUniverse
	}
	if opts.SampleSize <= 0 {
		opts.SampleSize = defaultSampleSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		backend:    backend,
		debounce:   opts.Debounce,
		universe:   opts.Universe,
		sampleSize: opts.SampleSize,
		log:        logger.With("component", "search"),
		watch:      map[string]bool{},
	}
}

// SetWatchlist updates the membership set used to flag suggestion rows.
func (o *Orchestrator) SetWatchlist(symbols []string) {
	set := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		set[strings.ToUpper(s)] = true
	}
	o.mu.Lock()
	o.watch = set
	o.mu.Unlock()
}

// SetQuery records a keystroke. The lookup fires only after the debounce
// window passes with no further keystrokes; every keystroke supersedes any
// lookup still in flight. An emptied box cancels the pending lookup and
// clears the results immediately.
func (o *Orchestrator) SetQuery(ctx context.Context, query string) {
	query = strings.TrimSpace(query)

	o.mu.Lock()
	o.seq++
	mySeq := o.seq
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	if query == "" {
		o.mu.Unlock()
		o.emit(mySeq, "", nil)
		return
	}
	o.timer = time.AfterFunc(o.debounce, func() {
		o.lookup(ctx, mySeq, query)
	})
	o.mu.Unlock()
}

func (o *Orchestrator) lookup(ctx context.Context, mySeq uint64, query string) {
	rows, err := o.backend.SearchStocks(ctx, query)
	if err != nil {
		o.log.Warn("search lookup failed", "query", query, "error", err)
		o.emit(mySeq, query, nil)
		return
	}
	o.emit(mySeq, query, o.toSuggestions(rows))
}

// FocusEmpty fills an empty focused box with a random market sample. Each
// symbol's quote is fetched concurrently; a failed fetch still yields a row,
// just without price data.
func (o *Orchestrator) FocusEmpty(ctx context.Context) {
	o.mu.Lock()
	o.seq++
	mySeq := o.seq
	o.mu.Unlock()

	symbols := market.Sample(o.universe, o.sampleSize)
	rows := make([]Suggestion, len(symbols))

	var wg sync.WaitGroup
	for i, sym := range symbols {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rows[i] = o.fetchOne(ctx, sym)
		}()
	}
	wg.Wait()

	o.emit(mySeq, "", rows)
}

func (o *Orchestrator) fetchOne(ctx context.Context, symbol string) Suggestion {
	got, err := o.backend.StocksByCodes(ctx, []string{symbol})
	if err != nil || len(got) == 0 {
		if err != nil {
			o.log.Warn("sample quote failed", "symbol", symbol, "error", err)
		}
		return Suggestion{Symbol: symbol}
	}
	s := o.toSuggestions(got[:1])
	return s[0]
}

// emit delivers rows unless a newer keystroke or focus superseded mySeq.
func (o *Orchestrator) emit(mySeq uint64, query string, rows []Suggestion) {
	o.mu.Lock()
	stale := mySeq != o.seq
	o.mu.Unlock()
	if stale || o.OnResults == nil {
		return
	}
	o.OnResults(query, rows)
}

func (o *Orchestrator) toSuggestions(rows []domain.StockSummary) []Suggestion {
	o.mu.Lock()
	watch := o.watch
	o.mu.Unlock()

	out := make([]Suggestion, 0, len(rows))
	for _, r := range rows {
		sym := strings.ToUpper(r.Symbol)
		price := r.Price
		pct := r.PercentChange
		out = append(out, Suggestion{
			Symbol:        sym,
			Name:          r.Name,
			Price:         &price,
			PercentChange: &pct,
			InWatchlist:   watch[sym],
		})
	}
	return out
}
