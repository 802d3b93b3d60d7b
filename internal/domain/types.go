// Package domain defines the shared data types of the stockwatch client:
// quotes, candles, watchlist entries, news items, and chat messages.
package domain

import "time"

// ---------------------------------------------------------------------------
// Market data
// ---------------------------------------------------------------------------

// Quote is the normalized shape of a single stock lookup. All numeric fields
// are optional: the backend omits data it does not have, and absent values
// are rendered as placeholders, never as zeroes.
type Quote struct {
	Symbol        string   `json:"symbol"`
	Date          string   `json:"date,omitempty"` // YYYY-MM-DD
	Open          *float64 `json:"open,omitempty"`
	High          *float64 `json:"high,omitempty"`
	Low           *float64 `json:"low,omitempty"`
	Close         *float64 `json:"close,omitempty"`
	Change        *float64 `json:"change,omitempty"`
	PercentChange *float64 `json:"percentChange,omitempty"`
	Volume        *float64 `json:"volume,omitempty"`
	Value         *float64 `json:"value,omitempty"`
}

// Candle is one OHLCV bar of a symbol's price history.
type Candle struct {
	Symbol    string
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}

// StockSummary is a lightweight per-symbol row as returned by search and
// top-gainer/top-loser endpoints.
type StockSummary struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name,omitempty"`
	Price         float64 `json:"price"`
	PercentChange float64 `json:"percentChange"`
}

// IndexSummary is a market index snapshot (VN-Index, HNX-Index, ...).
type IndexSummary struct {
	Name          string  `json:"name"`
	Value         float64 `json:"value"`
	Change        float64 `json:"change"`
	PercentChange float64 `json:"percentChange"`
}

// ---------------------------------------------------------------------------
// Watchlist
// ---------------------------------------------------------------------------

// WatchlistEntry is a backend-owned watchlist row. The diff percentages are
// derived on read and never persisted.
type WatchlistEntry struct {
	ID             string  `json:"id"`
	Code           string  `json:"code"`
	BuyPrice       float64 `json:"buyPrice"`
	CurrentPrice   float64 `json:"currentPrice"`
	YesterdayPrice float64 `json:"yesterdayPrice"`
	Note           string  `json:"note,omitempty"`
}

// DiffFromBuyPct returns the percentage difference between the current price
// and the recorded buy price. ok is false when the buy price is zero.
func (w WatchlistEntry) DiffFromBuyPct() (pct float64, ok bool) {
	if w.BuyPrice == 0 {
		return 0, false
	}
	return (w.CurrentPrice - w.BuyPrice) / w.BuyPrice * 100, true
}

// DiffFromYesterdayPct returns the percentage difference between the current
// price and yesterday's close. ok is false when yesterday's price is zero.
func (w WatchlistEntry) DiffFromYesterdayPct() (pct float64, ok bool) {
	if w.YesterdayPrice == 0 {
		return 0, false
	}
	return (w.CurrentPrice - w.YesterdayPrice) / w.YesterdayPrice * 100, true
}

// ---------------------------------------------------------------------------
// News
// ---------------------------------------------------------------------------

// NewsItem is a single aggregated news article. Link is the identity key:
// deduplication across sources is by this field.
type NewsItem struct {
	Link         string    `json:"link"`
	Title        string    `json:"title"`
	PubDate      time.Time `json:"pubDate"`
	Source       string    `json:"source"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
}

// ---------------------------------------------------------------------------
// Chat
// ---------------------------------------------------------------------------

// Sender identifies which side of the conversation a message belongs to.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// ChatMessage is one entry of the chat transcript. A bot reply starts as a
// Typing placeholder and is mutated in place once the final text is known:
// the ID is stable across that update.
type ChatMessage struct {
	ID     string `json:"id"`
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
	Typing bool   `json:"isTyping"`
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

// User is the authenticated account record persisted alongside the token.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Float64 returns a pointer to v. Convenience for building optional Quote
// fields.
func Float64(v float64) *float64 { return &v }
