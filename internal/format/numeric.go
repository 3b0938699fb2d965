package format

import (
	"math"
	"strconv"
	"strings"
)

// SanitizeNumeric strips everything except digits and the first decimal
// point, so "$12,500.50/yr" becomes "12500.50".
func SanitizeNumeric(s string) string {
	var b strings.Builder
	seenDot := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' && !seenDot:
			seenDot = true
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseBound reads a range bound typed by the user. Input that does not
// yield a number falls back to 0 for a minimum bound and to ceiling for a
// maximum bound. Results are clamped to [0, ceiling] when ceiling > 0.
func ParseBound(s string, isMax bool, ceiling float64) float64 {
	fallback := 0.0
	if isMax {
		fallback = ceiling
	}
	cleaned := SanitizeNumeric(s)
	if cleaned == "" || cleaned == "." {
		return fallback
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	if ceiling > 0 && v > ceiling {
		v = ceiling
	}
	return v
}

// BoundLabel renders a range bound, marking the ceiling as open-ended
// ("$2,000+").
func BoundLabel(v, ceiling float64) string {
	if ceiling > 0 && v >= ceiling {
		return Dollars(ceiling) + "+"
	}
	return Dollars(v)
}

// AreaBoundLabel is BoundLabel for square-footage ranges.
func AreaBoundLabel(v, ceiling float64) string {
	label := printer.Sprintf("%d", int64(math.Round(v))) + " SF"
	if ceiling > 0 && v >= ceiling {
		label = printer.Sprintf("%d", int64(math.Round(ceiling))) + "+ SF"
	}
	return label
}
