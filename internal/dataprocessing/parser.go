package dataprocessing

import (
	"math"
	"strconv"
	"strings"
	"time"

	"vendascli/pkg/contracts/domain"
)

// NumberFormat selects how a token with a single separator kind is read.
type NumberFormat int

const (
	// FormatBR treats a lone comma as the decimal separator (pt-BR sources).
	FormatBR NumberFormat = iota
	// FormatUS treats a lone comma as a thousands separator.
	FormatUS
)

// ParseNumber converts a raw cell into a float64 using the pt-BR default
// format. The boolean result distinguishes a clean parse failure from a
// legitimate zero; the parser itself never substitutes zero.
func ParseNumber(cell domain.Cell) (float64, bool) {
	return ParseNumberFormat(cell, FormatBR)
}

// ParseNumberFormat is the format-detecting variant of ParseNumber.
//
// Cells that already carry a number are returned as-is. Text tokens are
// stripped down to digits, separators and a leading minus; when both
// separators are present, the one occurring later in the token is the
// decimal separator and the other is removed as a thousands separator.
func ParseNumberFormat(cell domain.Cell, format NumberFormat) (float64, bool) {
	switch cell.Kind {
	case domain.CellEmpty:
		return 0, false
	case domain.CellNumber:
		return cell.Number, true
	}

	token := stripNumericToken(cell.Text)
	if token == "" || token == "-" {
		return 0, false
	}

	lastComma := strings.LastIndex(token, ",")
	lastDot := strings.LastIndex(token, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			// 1.234,56 -> comma is the decimal separator
			token = strings.ReplaceAll(token, ".", "")
			token = strings.ReplaceAll(token, ",", ".")
		} else {
			// 1,234.56 -> period is the decimal separator
			token = strings.ReplaceAll(token, ",", "")
		}
	case lastComma >= 0:
		if format == FormatUS {
			token = strings.ReplaceAll(token, ",", "")
		} else {
			token = strings.ReplaceAll(token, ",", ".")
		}
	}

	// A token that still holds more than one period ("1.2.3") fails here
	// instead of crashing upstream.
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// stripNumericToken removes every character that is not a digit, comma,
// period, or a minus sign leading the remaining token.
func stripNumericToken(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= '0' && r <= '9', r == ',', r == '.':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// dayFirstLayouts are tried in order when parsing transaction dates. The
// source locale writes dates day-first, so dd/mm variants come before the
// ISO fallbacks.
var dayFirstLayouts = []string{
	"2/1/2006",
	"2/1/06",
	"2-1-2006",
	"2.1.2006",
	"2/1/2006 15:04:05",
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// excelEpoch is day zero of the 1900 date system used by xlsx serials.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ParseDate converts a raw cell into a calendar date, preferring day-first
// interpretation. Numeric cells and bare numeric tokens are read as Excel
// serial dates. Time-of-day components are discarded.
func ParseDate(cell domain.Cell) (time.Time, bool) {
	switch cell.Kind {
	case domain.CellEmpty:
		return time.Time{}, false
	case domain.CellNumber:
		return serialDate(cell.Number)
	}

	token := strings.TrimSpace(cell.Text)
	if token == "" {
		return time.Time{}, false
	}

	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, token); err == nil {
			return truncateToDate(t), true
		}
	}

	// Excel sometimes hands the raw serial back as text.
	if serial, err := strconv.ParseFloat(token, 64); err == nil {
		return serialDate(serial)
	}

	return time.Time{}, false
}

// serialDate converts an Excel serial number to a calendar date. Serials
// below 60 predate the 1900 leap-year cutoff and are rejected along with
// implausibly large values.
func serialDate(serial float64) (time.Time, bool) {
	if math.IsNaN(serial) || serial < 60 || serial > 200000 {
		return time.Time{}, false
	}
	return truncateToDate(excelEpoch.AddDate(0, 0, int(serial))), true
}

// truncateToDate drops the time-of-day component, keeping calendar-date
// comparison semantics.
func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CanonicalKey normalizes an identifier cell so that a code stored as the
// number 123 and the text "123" compare equal. Non-numeric codes pass
// through trimmed.
func CanonicalKey(cell domain.Cell) string {
	switch cell.Kind {
	case domain.CellEmpty:
		return ""
	case domain.CellNumber:
		return canonicalNumericKey(cell.Number)
	}
	s := strings.TrimSpace(cell.Text)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if k := canonicalNumericKey(f); k != "" {
			return k
		}
	}
	return s
}

func canonicalNumericKey(f float64) string {
	if f != math.Trunc(f) || math.Abs(f) >= 1e15 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatInt(int64(f), 10)
}
