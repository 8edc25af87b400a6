// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/mgy583/account-book/internal/model"
)

// FormatAmount formats a money amount with thousands separators and at most
// two decimals, trailing zeros dropped: 1234.5 -> "1,234.5", 10 -> "10".
func FormatAmount(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		return "0"
	}
	return humanize.CommafWithDigits(v, 2)
}

// FormatMoney formats an amount followed by its currency code.
func FormatMoney(v float64, currency string) string {
	if currency == "" {
		return FormatAmount(v)
	}
	return FormatAmount(v) + " " + currency
}

// FormatCurrency shows a currency code with its display label when known,
// e.g. "CNY" -> "CNY 人民币".
func FormatCurrency(code string) string {
	if label, ok := model.LabelForCode(code); ok {
		return code + " " + label
	}
	if code == "" {
		return "-"
	}
	return code
}

// FormatNumber adds comma separators to an integer.
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatFetchedAt describes when data was fetched relative to now,
// e.g. "3 minutes ago".
func FormatFetchedAt(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// OrDash returns s, or "-" when s is empty.
func OrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
