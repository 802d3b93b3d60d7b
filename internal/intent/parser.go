// Package intent classifies free-text chat input into typed stock queries.
// Classification is a deterministic, ordered set of pattern checks: the first
// matching rule wins, and anything unrecognized falls through to free-form
// chat so the assistant backend gets a chance at it.
package intent

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind tags the Intent variant.
type Kind string

const (
	Empty     Kind = "empty"
	Today     Kind = "today"
	Yesterday Kind = "yesterday"
	ByDate    Kind = "by_date"
	Range     Kind = "range"
	FreeForm  Kind = "free_form"
)

// Intent is the parsed, typed representation of a chat command. Only the
// fields of the tagged variant are set: Symbol for all stock lookups, Date
// for ByDate, Days for Range, Query for FreeForm.
type Intent struct {
	Kind   Kind
	Symbol string
	Date   string // YYYY-MM-DD
	Days   int
	Query  string // the original, untouched input
}

var (
	symbolRe = regexp.MustCompile(`^[A-Za-z]{2,5}$`)
	dateRe   = regexp.MustCompile(`(?:\bby\s+)?(\d{4}-\d{2}-\d{2})`)
	dayRe    = regexp.MustCompile(`(?i)\b(\d+)\s*(ngày|ngay|days?)\b`)
	monthRe  = regexp.MustCompile(`(?i)\b(\d+)\s*(tháng|thang|months?)\b`)
)

// Keyword synonyms, matched case-insensitively against the text after the
// symbol token. Both accented and unaccented Vietnamese spellings count.
var (
	todaySynonyms     = []string{"hôm nay", "hom nay", "today"}
	yesterdaySynonyms = []string{"hôm qua", "hom qua", "yesterday"}
)

// Parse classifies raw chat input. Exactly one variant is produced per input.
func Parse(raw string) Intent {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Intent{Kind: Empty}
	}

	fields := strings.Fields(trimmed)
	first := fields[0]

	symbol := ""
	if symbolRe.MatchString(first) {
		symbol = strings.ToUpper(first)
	}

	rest := strings.ToLower(strings.TrimSpace(trimmed[len(first):]))

	if symbol != "" {
		if containsAny(rest, todaySynonyms) {
			return Intent{Kind: Today, Symbol: symbol}
		}
		if containsAny(rest, yesterdaySynonyms) {
			return Intent{Kind: Yesterday, Symbol: symbol}
		}
		if m := dateRe.FindStringSubmatch(rest); m != nil {
			return Intent{Kind: ByDate, Symbol: symbol, Date: m[1]}
		}
		if days, ok := parseDayCount(rest); ok {
			return Intent{Kind: Range, Symbol: symbol, Days: days}
		}
		// A bare ticker defaults to today's lookup.
		if len(fields) == 1 {
			return Intent{Kind: Today, Symbol: symbol}
		}
	}

	return Intent{Kind: FreeForm, Query: raw}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// parseDayCount extracts "<N> ngày" or "<N> tháng" spans. Months are a fixed
// 30-day approximation, not calendar months.
func parseDayCount(s string) (int, bool) {
	if m := dayRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 0 {
			return n, true
		}
	}
	if m := monthRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 0 {
			return n * 30, true
		}
	}
	return 0, false
}
