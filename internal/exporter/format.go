package exporter

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// displayDateLayout is the day-first layout the presentation layer shows.
const displayDateLayout = "02/01/2006"

// FormatNumberBR formats a value with exactly 2 decimal places in the
// Brazilian convention: period for thousands, comma for decimals.
func FormatNumberBR(v float64) string {
	neg := math.Signbit(v) && v != 0
	s := strconv.FormatFloat(math.Abs(v), 'f', 2, 64)

	intPart, fracPart, _ := strings.Cut(s, ".")
	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := strings.Join(groups, ".") + "," + fracPart
	if neg {
		out = "-" + out
	}
	return out
}

// FormatBRL formats a monetary value for display, e.g. "R$ 1.234,56".
func FormatBRL(v float64) string {
	return "R$ " + FormatNumberBR(v)
}

// FormatDate formats a calendar date day-first, e.g. "01/03/2024".
func FormatDate(t time.Time) string {
	return t.Format(displayDateLayout)
}
