// Package http provides the HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating request data
// shared across handlers: period selection with fallback to the current
// month, and day lookups within a resolved timetable.

package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cra/internal/core"
)

// parsePeriod extracts month and year from the given values, falling back
// to the current month for anything missing or out of range. A request for
// a bogus period silently lands on today's report instead of erroring.
func parsePeriod(r *http.Request, values url.Values) core.Period {
	now := time.Now()
	p := core.Period{Month: int(now.Month()), Year: now.Year()}

	if v := strings.TrimSpace(values.Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil {
			p.Month = m
		}
	}
	if v := strings.TrimSpace(values.Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			p.Year = y
		}
	}

	if err := p.Validate(); err != nil {
		slog.WarnContext(r.Context(), "Invalid period parameters, using current month",
			"month", p.Month, "year", p.Year, "error", err)
		return core.Period{Month: int(now.Month()), Year: now.Year()}
	}
	return p
}

// dayOf validates a submitted day against the resolved timetable. Only day
// keys the period actually contains are editable.
func dayOf(tt core.Timetable, raw string) (string, bool) {
	day := strings.TrimSpace(raw)
	if _, err := core.ParseDay(day); err != nil {
		return "", false
	}
	_, ok := tt[day]
	return day, ok
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
