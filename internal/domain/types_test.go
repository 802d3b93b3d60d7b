package domain

import (
	"math"
	"testing"
)

func TestWatchlistEntryDiffs(t *testing.T) {
	e := WatchlistEntry{Code: "FPT", BuyPrice: 90000, CurrentPrice: 100300, YesterdayPrice: 99500}

	pct, ok := e.DiffFromBuyPct()
	if !ok {
		t.Fatal("DiffFromBuyPct ok = false, want true")
	}
	want := (100300.0 - 90000.0) / 90000.0 * 100
	if math.Abs(pct-want) > 1e-9 {
		t.Errorf("DiffFromBuyPct = %v, want %v", pct, want)
	}

	pct, ok = e.DiffFromYesterdayPct()
	if !ok {
		t.Fatal("DiffFromYesterdayPct ok = false, want true")
	}
	want = (100300.0 - 99500.0) / 99500.0 * 100
	if math.Abs(pct-want) > 1e-9 {
		t.Errorf("DiffFromYesterdayPct = %v, want %v", pct, want)
	}
}

func TestWatchlistEntryDiffsZeroBase(t *testing.T) {
	e := WatchlistEntry{Code: "HPG", CurrentPrice: 30200}

	if _, ok := e.DiffFromBuyPct(); ok {
		t.Error("DiffFromBuyPct ok = true for zero buy price, want false")
	}
	if _, ok := e.DiffFromYesterdayPct(); ok {
		t.Error("DiffFromYesterdayPct ok = true for zero yesterday price, want false")
	}
}

func TestQuoteOptionalFields(t *testing.T) {
	q := Quote{Symbol: "FPT", Open: Float64(100)}
	if q.Open == nil || *q.Open != 100 {
		t.Errorf("Open = %v, want 100", q.Open)
	}
	if q.Close != nil {
		t.Errorf("Close = %v, want nil", *q.Close)
	}
}
