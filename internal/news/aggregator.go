// Package news aggregates per-symbol headlines into the market news feed:
// a random sample of the universe is fetched concurrently, merged, deduped
// by article link, windowed to the last day, and paged for display.
package news

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"stockwatch/internal/api"
	"stockwatch/internal/domain"
	"stockwatch/internal/market"
)

// Feed tuning defaults, overridable through Options.
const (
	defaultSampleSize     = 10
	defaultPerSymbolLimit = 12
	defaultMaxItems       = 18
	defaultPageSize       = 6
	defaultWindow         = 24 * time.Hour
)

// thumbnailPool decorates feed cards. Every aggregated item gets a random
// pool image; feed-supplied thumbnails are display data only and are not
// carried into the aggregated feed.
var thumbnailPool = []string{
	"https://static.stockwatch.vn/news/thumb-market-1.jpg",
	"https://static.stockwatch.vn/news/thumb-market-2.jpg",
	"https://static.stockwatch.vn/news/thumb-market-3.jpg",
	"https://static.stockwatch.vn/news/thumb-chart-1.jpg",
	"https://static.stockwatch.vn/news/thumb-chart-2.jpg",
	"https://static.stockwatch.vn/news/thumb-trading-1.jpg",
}

// State describes where the feed is in its fetch cycle.
type State string

const (
	StateIdle     State = "idle"
	StateFetching State = "fetching"
	StateSuccess  State = "success"
	// StatePartial means some symbol fetches failed; the feed still shows
	// what arrived.
	StatePartial State = "partial"
)

// Fetcher is the per-symbol news call the aggregator fans out over.
type Fetcher interface {
	NewsBySymbol(ctx context.Context, symbol string, opts api.NewsOptions) ([]domain.NewsItem, error)
}

var _ Fetcher = (*api.Client)(nil)

// Options configures an Aggregator. Zero values take the package defaults.
type Options struct {
	Universe       []string
	SampleSize     int
	PerSymbolLimit int
	MaxItems       int
	PageSize       int
	Window         time.Duration
	Language       string
	Region         string

	// Now overrides the clock used for the freshness window, for tests.
	Now func() time.Time

	Logger *slog.Logger
}

// Aggregator builds and holds the current news feed.
type Aggregator struct {
	fetcher Fetcher
	opts    Options
	log     *slog.Logger

	mu    sync.Mutex
	state State
	items []domain.NewsItem
}

// NewAggregator creates a feed aggregator over the given fetcher.
func NewAggregator(fetcher Fetcher, opts Options) *Aggregator {
	if opts.Universe == nil {
		opts.Universe = market.DefaultUniverse
	}
	if opts.SampleSize <= 0 {
		opts.SampleSize = defaultSampleSize
	}
	if opts.PerSymbolLimit <= 0 {
		opts.PerSymbolLimit = defaultPerSymbolLimit
	}
	if opts.MaxItems <= 0 {
		opts.MaxItems = defaultMaxItems
	}
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.Window <= 0 {
		opts.Window = defaultWindow
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		fetcher: fetcher,
		opts:    opts,
		log:     logger.With("component", "news"),
		state:   StateIdle,
	}
}

// State returns the current fetch state.
func (a *Aggregator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Items returns the current feed, newest first.
func (a *Aggregator) Items() []domain.NewsItem {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.NewsItem, len(a.items))
	copy(out, a.items)
	return out
}

// Page returns one display page of the feed. Pages are zero-indexed; a page
// past the end is empty.
func (a *Aggregator) Page(n int) []domain.NewsItem {
	a.mu.Lock()
	defer a.mu.Unlock()
	size := a.opts.PageSize
	start := n * size
	if n < 0 || start >= len(a.items) {
		return nil
	}
	end := min(start+size, len(a.items))
	out := make([]domain.NewsItem, end-start)
	copy(out, a.items[start:end])
	return out
}

// Refresh rebuilds the feed: it samples the universe, fetches each symbol's
// headlines concurrently, and replaces the feed with the merged result. The
// state ends at StateSuccess, or StatePartial when some fetches failed but
// at least the merge could proceed.
func (a *Aggregator) Refresh(ctx context.Context) error {
	a.mu.Lock()
	a.state = StateFetching
	a.mu.Unlock()

	symbols := market.Sample(a.opts.Universe, a.opts.SampleSize)
	perSymbol := make([][]domain.NewsItem, len(symbols))
	var failures int
	var failMu sync.Mutex

	callOpts := api.NewsOptions{
		Range:    "1d",
		Language: a.opts.Language,
		Region:   a.opts.Region,
		Limit:    a.opts.PerSymbolLimit,
	}

	var wg sync.WaitGroup
	for i, sym := range symbols {
		wg.Add(1)
		go func() {
			defer wg.Done()
			items, err := a.fetcher.NewsBySymbol(ctx, sym, callOpts)
			if err != nil {
				a.log.Warn("symbol news fetch failed", "symbol", sym, "error", err)
				failMu.Lock()
				failures++
				failMu.Unlock()
				return
			}
			perSymbol[i] = items
		}()
	}
	wg.Wait()

	merged := a.merge(perSymbol)

	a.mu.Lock()
	a.items = merged
	if failures > 0 {
		a.state = StatePartial
	} else {
		a.state = StateSuccess
	}
	a.mu.Unlock()

	a.log.Info("news feed refreshed", "symbols", len(symbols), "failures", failures, "items", len(merged))
	return ctx.Err()
}

// merge dedupes by link (first occurrence wins), drops items older than the
// freshness window, sorts newest first, caps the feed, and assigns each item
// a decorative thumbnail.
func (a *Aggregator) merge(perSymbol [][]domain.NewsItem) []domain.NewsItem {
	cutoff := a.opts.Now().Add(-a.opts.Window)
	seen := map[string]bool{}
	var merged []domain.NewsItem

	for _, items := range perSymbol {
		for _, it := range items {
			if it.Link == "" || seen[it.Link] {
				continue
			}
			seen[it.Link] = true
			if it.PubDate.Before(cutoff) {
				continue
			}
			merged = append(merged, it)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].PubDate.After(merged[j].PubDate)
	})

	if len(merged) > a.opts.MaxItems {
		merged = merged[:a.opts.MaxItems]
	}
	for i := range merged {
		merged[i].ThumbnailURL = thumbnailPool[rand.IntN(len(thumbnailPool))]
	}
	return merged
}
