package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"stockwatch/internal/domain"
)

// HistoryArchive stores exported price history as Parquet files on disk, one
// file per symbol and year, for offline charting.
type HistoryArchive struct {
	DataDir string
}

// NewHistoryArchive creates an archive rooted at the given data directory.
func NewHistoryArchive(dataDir string) *HistoryArchive {
	return &HistoryArchive{DataDir: dataDir}
}

// CandleRecord is the Parquet schema for one daily candle.
type CandleRecord struct {
	Symbol    string  `parquet:"symbol"`
	Timestamp int64   `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	Open      float64 `parquet:"open"`
	High      float64 `parquet:"high"`
	Low       float64 `parquet:"low"`
	Close     float64 `parquet:"close"`
	Volume    int64   `parquet:"volume"`
}

// WriteCandles merges candles into the archive, grouped by symbol and year.
// Existing rows for the same (symbol, timestamp) are replaced.
func (a *HistoryArchive) WriteCandles(candles []domain.Candle) error {
	if len(candles) == 0 {
		return nil
	}

	type key struct {
		symbol string
		year   int
	}
	groups := make(map[key][]CandleRecord)
	for _, c := range candles {
		k := key{symbol: strings.ToUpper(c.Symbol), year: c.Timestamp.Year()}
		groups[k] = append(groups[k], CandleRecord{
			Symbol:    k.symbol,
			Timestamp: c.Timestamp.UnixMilli(),
			Open:      c.Open,
			High:      c.High,
			Low:       c.Low,
			Close:     c.Close,
			Volume:    c.Volume,
		})
	}

	for k, records := range groups {
		path := a.candlePath(k.symbol, k.year)

		existing, _ := readParquetFile[CandleRecord](path)
		merged := mergeCandleRecords(existing, records)

		if err := writeParquetFile(path, merged); err != nil {
			return fmt.Errorf("writing history for %s/%d: %w", k.symbol, k.year, err)
		}
	}
	return nil
}

// ReadCandles returns archived candles for the symbol within [start, end],
// sorted by timestamp.
func (a *HistoryArchive) ReadCandles(symbol string, start, end time.Time) ([]domain.Candle, error) {
	var candles []domain.Candle
	for year := start.Year(); year <= end.Year(); year++ {
		records, err := readParquetFile[CandleRecord](a.candlePath(strings.ToUpper(symbol), year))
		if err != nil {
			// No file for this year.
			continue
		}
		for _, r := range records {
			ts := time.UnixMilli(r.Timestamp)
			if ts.Before(start) || ts.After(end) {
				continue
			}
			candles = append(candles, domain.Candle{
				Symbol:    r.Symbol,
				Timestamp: ts,
				Open:      r.Open,
				High:      r.High,
				Low:       r.Low,
				Close:     r.Close,
				Volume:    r.Volume,
			})
		}
	}
	return candles, nil
}

// ListSymbols lists all symbols present in the archive.
func (a *HistoryArchive) ListSymbols() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(a.DataDir, "history"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var symbols []string
	for _, e := range entries {
		if e.IsDir() {
			symbols = append(symbols, e.Name())
		}
	}
	sort.Strings(symbols)
	return symbols, nil
}

// candlePath returns the archive path for a symbol/year.
// Layout: <DataDir>/history/<SYMBOL>/<YYYY>.parquet
func (a *HistoryArchive) candlePath(symbol string, year int) string {
	return filepath.Join(a.DataDir, "history", symbol, fmt.Sprintf("%d.parquet", year))
}

// mergeCandleRecords deduplicates by (symbol, timestamp), preferring incoming
// records, and sorts by timestamp.
func mergeCandleRecords(existing, incoming []CandleRecord) []CandleRecord {
	type key struct {
		symbol string
		ts     int64
	}
	seen := make(map[key]CandleRecord, len(existing)+len(incoming))
	for _, r := range existing {
		seen[key{r.Symbol, r.Timestamp}] = r
	}
	for _, r := range incoming {
		seen[key{r.Symbol, r.Timestamp}] = r
	}

	merged := make([]CandleRecord, 0, len(seen))
	for _, r := range seen {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Timestamp < merged[j].Timestamp
	})
	return merged
}

func writeParquetFile[T any](path string, records []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return parquet.WriteFile(path, records)
}

func readParquetFile[T any](path string) ([]T, error) {
	return parquet.ReadFile[T](path)
}
