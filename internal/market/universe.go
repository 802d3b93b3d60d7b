// Package market holds the static symbol universe used for suggestions and
// batch tooling, with an optional CSV override.
package market

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
)

// DefaultUniverse is the built-in HOSE/HNX large-cap set used when no CSV
// override is configured.
var DefaultUniverse = []string{
	"ACB", "BCM", "BID", "BVH", "CTG", "FPT", "GAS", "GVR", "HDB", "HPG",
	"MBB", "MSN", "MWG", "PLX", "POW", "SAB", "SHB", "SSB", "SSI", "STB",
	"TCB", "TPB", "VCB", "VHM", "VIB", "VIC", "VJC", "VNM", "VPB", "VRE",
}

// LoadCSVUniverse reads one symbol per row from the first CSV column. A
// header row named "symbol" or "code" is skipped. Symbols are uppercased;
// blank rows are ignored.
func LoadCSVUniverse(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening universe csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading universe csv: %w", err)
	}

	var symbols []string
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		sym := strings.ToUpper(strings.TrimSpace(row[0]))
		if sym == "" {
			continue
		}
		if i == 0 && (sym == "SYMBOL" || sym == "CODE") {
			continue
		}
		symbols = append(symbols, sym)
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("universe csv %s: no symbols", path)
	}
	return symbols, nil
}

// Sample returns n distinct symbols drawn at random from universe. When the
// universe has n or fewer symbols, a copy of the whole universe is returned.
func Sample(universe []string, n int) []string {
	if n >= len(universe) {
		out := make([]string, len(universe))
		copy(out, universe)
		return out
	}
	idx := rand.Perm(len(universe))[:n]
	out := make([]string, 0, n)
	for _, i := range idx {
		out = append(out, universe[i])
	}
	return out
}
