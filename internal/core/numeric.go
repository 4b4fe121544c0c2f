// Package core provides the value types and parsing utilities shared by the
// grid builder, the preview pipeline and the HTTP layer.
//
// This file contains the currency-aware numeric cleaning used when reading
// values back from rendered previews, where amounts appear formatted for
// display (e.g. "€1,234.56" or "25,00").
package core

import (
	"strconv"
	"strings"
)

// CleanNumber strips currency symbols and thousands separators from a
// display-formatted value and parses what remains as a float. Any parse
// failure falls back to 0: a bad cell contributes nothing instead of
// failing the whole request.
func CleanNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	// Keep digits, separators and sign; drops €, spaces and any other noise.
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0
	}

	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		// Both present: the rightmost separator is the decimal mark, the
		// other one separates thousands.
		if lastComma > lastDot {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(cleaned, ",") == 1 {
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastDot >= 0:
		if strings.Count(cleaned, ".") > 1 {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
		}
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}

// CleanInt parses a display-formatted value as a whole count, truncating any
// decimals and falling back to 0.
func CleanInt(s string) int {
	return int(CleanNumber(s))
}
