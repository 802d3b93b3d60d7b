package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"stockwatch/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestKVRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, KeyToken); err != nil || ok {
		t.Fatalf("Get on empty store = ok %v, err %v; want absent", ok, err)
	}

	if err := s.Set(ctx, KeyToken, "tok-1"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	v, ok, err := s.Get(ctx, KeyToken)
	if err != nil || !ok || v != "tok-1" {
		t.Fatalf("Get = (%q, %v, %v), want (tok-1, true, nil)", v, ok, err)
	}

	// Overwrite.
	if err := s.Set(ctx, KeyToken, "tok-2"); err != nil {
		t.Fatalf("Set() overwrite error: %v", err)
	}
	v, _, _ = s.Get(ctx, KeyToken)
	if v != "tok-2" {
		t.Errorf("Get after overwrite = %q, want tok-2", v)
	}
}

func TestKVDeleteMultiple(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, k := range []string{KeyToken, KeyUser, KeyFavorites} {
		if err := s.Set(ctx, k, "x"); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Delete(ctx, KeyToken, KeyUser); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, ok, _ := s.Get(ctx, KeyToken); ok {
		t.Error("token still present after Delete")
	}
	if _, ok, _ := s.Get(ctx, KeyUser); ok {
		t.Error("user still present after Delete")
	}
	if _, ok, _ := s.Get(ctx, KeyFavorites); !ok {
		t.Error("favorites should survive Delete of other keys")
	}
}

func TestHistoryArchiveRoundTrip(t *testing.T) {
	a := NewHistoryArchive(t.TempDir())

	day := func(d int) time.Time {
		return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC)
	}
	candles := []domain.Candle{
		{Symbol: "FPT", Timestamp: day(25), Open: 100000, High: 104200, Low: 99800, Close: 103400, Volume: 2000000},
		{Symbol: "FPT", Timestamp: day(26), Open: 103400, High: 105000, Low: 103000, Close: 104100, Volume: 1500000},
	}
	if err := a.WriteCandles(candles); err != nil {
		t.Fatalf("WriteCandles() error: %v", err)
	}

	// Rewrite one day with corrected data; merge must replace, not duplicate.
	if err := a.WriteCandles([]domain.Candle{
		{Symbol: "FPT", Timestamp: day(26), Open: 103400, High: 105500, Low: 103000, Close: 104500, Volume: 1600000},
	}); err != nil {
		t.Fatalf("WriteCandles() merge error: %v", err)
	}

	got, err := a.ReadCandles("fpt", day(1), day(31))
	if err != nil {
		t.Fatalf("ReadCandles() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(candles) = %d, want 2", len(got))
	}
	if got[1].Close != 104500 {
		t.Errorf("merged close = %v, want 104500 (incoming wins)", got[1].Close)
	}

	syms, err := a.ListSymbols()
	if err != nil {
		t.Fatalf("ListSymbols() error: %v", err)
	}
	if len(syms) != 1 || syms[0] != "FPT" {
		t.Errorf("ListSymbols = %v, want [FPT]", syms)
	}
}

func TestHistoryArchiveWindowFilter(t *testing.T) {
	a := NewHistoryArchive(t.TempDir())
	day := func(d int) time.Time {
		return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC)
	}
	err := a.WriteCandles([]domain.Candle{
		{Symbol: "HPG", Timestamp: day(10), Close: 30000},
		{Symbol: "HPG", Timestamp: day(20), Close: 30200},
		{Symbol: "HPG", Timestamp: day(30), Close: 30500},
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := a.ReadCandles("HPG", day(15), day(25))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || !got[0].Timestamp.Equal(day(20)) {
		t.Errorf("window read returned %d rows, want exactly the day-20 row", len(got))
	}
}
