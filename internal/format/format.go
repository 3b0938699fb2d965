// Package format turns raw listing values into display strings.
//
// Every formatter accepts a missing value and renders Dash instead of
// failing, so table cells and cards never need their own nil checks.
package format

import (
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Dash is the placeholder rendered for missing values.
const Dash = "—"

var printer = message.NewPrinter(language.English)

// Currency formats whole dollars, e.g. "$1,250,000".
func Currency(v *float64) string {
	if v == nil || math.IsNaN(*v) {
		return Dash
	}
	return Dollars(*v)
}

// Dollars formats a non-nil amount rounded to whole dollars.
func Dollars(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return sign + "$" + printer.Sprintf("%d", int64(math.Round(v)))
}

// CurrencyCents formats an amount with cents, e.g. "$2,022.62".
func CurrencyCents(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return sign + "$" + printer.Sprintf("%.2f", v)
}

// CompactCurrency abbreviates large amounts for narrow cells: "$1.3M", "$850K".
func CompactCurrency(v *float64) string {
	if v == nil || math.IsNaN(*v) {
		return Dash
	}
	abs := math.Abs(*v)
	switch {
	case abs >= 1e9:
		return compact(*v/1e9, "B")
	case abs >= 1e6:
		return compact(*v/1e6, "M")
	case abs >= 1e3:
		return compact(*v/1e3, "K")
	default:
		return Dollars(*v)
	}
}

func compact(v float64, suffix string) string {
	s := strconv.FormatFloat(v, 'f', 1, 64)
	s = strings.TrimSuffix(s, ".0")
	if strings.HasPrefix(s, "-") {
		return "-$" + s[1:] + suffix
	}
	return "$" + s + suffix
}

// SquareFeet formats an area, e.g. "12,500 SF".
func SquareFeet(v *float64) string {
	if v == nil || math.IsNaN(*v) {
		return Dash
	}
	return printer.Sprintf("%d", int64(math.Round(*v))) + " SF"
}

// Count formats an integer with thousands separators.
func Count(n *int64) string {
	if n == nil {
		return Dash
	}
	return printer.Sprintf("%d", *n)
}

// Int formats a non-nil integer with thousands separators.
func Int(n int) string {
	return printer.Sprintf("%d", n)
}

// Percent formats a percentage value with two decimals, e.g. "6.50%".
func Percent(v *float64) string {
	if v == nil || math.IsNaN(*v) {
		return Dash
	}
	return strconv.FormatFloat(*v, 'f', 2, 64) + "%"
}

// Text returns the trimmed string or Dash.
func Text(s *string) string {
	if s == nil {
		return Dash
	}
	return OrDash(*s)
}

// OrDash returns the trimmed string or Dash when it is blank.
func OrDash(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return Dash
	}
	return s
}

// Date formats an ISO date (YYYY-MM-DD or RFC 3339) as "Jan 02, 2006".
// Unparseable input is returned unchanged.
func Date(s *string) string {
	if s == nil {
		return Dash
	}
	raw := strings.TrimSpace(*s)
	if raw == "" {
		return Dash
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("Jan 02, 2006")
		}
	}
	return raw
}

// Bool renders a yes/no flag.
func Bool(b *bool) string {
	if b == nil {
		return Dash
	}
	if *b {
		return "Yes"
	}
	return "No"
}

// Truncate shortens s to max runes, ending with "..." when cut.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max < 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// Title capitalizes each word of a lowercase category, "core-plus" -> "Core-Plus".
func Title(s string) string {
	return cases.Title(language.English).String(strings.TrimSpace(s))
}
