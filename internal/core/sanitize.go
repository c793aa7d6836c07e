// Package core holds the calendar, timetable and contact domain of the
// activity-report generator.
//
// This file implements the numeric-text sanitizer for manual time entry.
// Raw keyboard input is reduced to canonical numeric text; invalid
// characters are discarded rather than rejected, so the sanitizer never
// fails.
package core

import "strings"

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// Sanitize converts free-form text into canonical numeric text for a
// timetable cell.
//
// The steps, in order: every character that is not a digit, comma or
// period is dropped; the first comma becomes the decimal point; the
// result is truncated to one integer digit, an optional separator and at
// most two fractional digits; a leading separator gains a "0" prefix.
// With trim set (used when an edit is committed) a bare trailing
// separator or a separator followed by only zeros is removed, and an
// empty result becomes "0".
//
// The one-integer-digit cap means values of ten or more units cannot be
// entered; the cell stepper is the escape hatch for anything the grid
// ever needs beyond that.
//
// Sanitize is idempotent under trim: Sanitize(Sanitize(x, true), true)
// equals Sanitize(x, true).
func Sanitize(raw string, trim bool) string {
	var kept strings.Builder
	for i := 0; i < len(raw); i++ {
		if b := raw[i]; isDigit(b) || b == ',' || b == '.' {
			kept.WriteByte(b)
		}
	}
	s := strings.Replace(kept.String(), ",", ".", 1)

	// One integer digit, optional separator, up to two fractional digits.
	var out strings.Builder
	i := 0
	if i < len(s) && isDigit(s[i]) {
		out.WriteByte(s[i])
		i++
	}
	if i < len(s) && s[i] == '.' {
		out.WriteByte('.')
		i++
		for n := 0; n < 2 && i < len(s) && isDigit(s[i]); n++ {
			out.WriteByte(s[i])
			i++
		}
	}
	s = out.String()

	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}

	if trim {
		s = trimFraction(s)
		if s == "" {
			s = "0"
		}
	}
	return s
}

// trimFraction removes a trailing bare separator, or a separator followed
// by only zeros ("3." -> "3", "3.00" -> "3"). A fraction with any
// significant digit is left alone ("3.50" stays "3.50").
func trimFraction(s string) string {
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return s
	}
	for i := dot + 1; i < len(s); i++ {
		if s[i] != '0' {
			return s
		}
	}
	return s[:dot]
}
