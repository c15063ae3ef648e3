package services

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// DefaultDateLayouts are tried in order when parsing last_review. Inside
// Airbnb publishes ISO dates; spreadsheet exports use month/day/year.
var DefaultDateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
	"2006/01/02",
}

// normalizeIdentifier renders an identifier as text. Integers that were
// written as floats ("12345.0", "1.2345e+04") are rendered without the
// fraction so the same listing always gets the same id.
func normalizeIdentifier(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" || !strings.ContainsAny(s, ".eE") {
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return s
	}
	if f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return s
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// parseDate returns nil for blank input. ok is false only when a non-blank
// value matched none of the layouts.
func parseDate(raw string, layouts []string) (t *time.Time, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, true
	}
	for _, layout := range layouts {
		if d, err := time.Parse(layout, s); err == nil {
			return &d, true
		}
	}
	return nil, false
}

// parseFloat treats blank and NaN as missing.
func parseFloat(raw string) (v *float64, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) {
		return nil, false
	}
	if math.IsNaN(f) {
		return nil, true
	}
	return &f, true
}

// parseCount accepts plain integers and integral floats such as "12.0".
func parseCount(raw string) (v *int64, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, true
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return &n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, false
	}
	if math.IsNaN(f) {
		return nil, true
	}
	if math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return nil, false
	}
	n := int64(f)
	return &n, true
}
