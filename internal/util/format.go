package util

import (
	"fmt"
	"strings"
)

// FormatVND formats a price in the vi-VN convention: thousands grouped with
// dots, no decimals (VND quotes are whole numbers).
func FormatVND(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.0f", v)
	if len(s) > 3 {
		var b strings.Builder
		start := len(s) % 3
		if start > 0 {
			b.WriteString(s[:start])
		}
		for i := start; i < len(s); i += 3 {
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(s[i : i+3])
		}
		s = b.String()
	}
	if neg {
		return "-" + s
	}
	return s
}

// FormatChange formats a price change with an explicit sign, vi-VN grouped.
func FormatChange(v float64) string {
	if v > 0 {
		return "+" + FormatVND(v)
	}
	return FormatVND(v)
}

// FormatPercent formats a percentage with an explicit sign and two decimals.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

// FormatQuantity formats a share quantity or turnover with B/M/K suffixes
// to keep wide numbers compact.
func FormatQuantity(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.1fK", v/1e3)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}
