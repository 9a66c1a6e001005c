// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package dates

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Layout is the calendar date format used throughout the API (yyyy-MM-dd).
const Layout = "2006-01-02"

// DisplayLayout renders dates for people, e.g. "Mar 28, 2025".
const DisplayLayout = "Jan 2, 2006"

// InvalidDate is rendered in place of a date that cannot be parsed.
const InvalidDate = "Invalid Date"

// Parse reads a yyyy-MM-dd date at midnight in loc.
func Parse(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(Layout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Valid reports whether s is a yyyy-MM-dd date.
func Valid(s string) bool {
	_, err := Parse(s, time.UTC)
	return err == nil
}

// Label formats a yyyy-MM-dd string for display. Unparseable input yields
// InvalidDate rather than an error.
func Label(s string) string {
	t, err := Parse(s, time.UTC)
	if err != nil {
		return InvalidDate
	}
	return t.Format(DisplayLayout)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of whole calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	a, b = StartOfDay(a), StartOfDay(b)
	// Go through UTC dates so DST shifts don't shave off an hour.
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// OnOrAfter reports whether the date s falls on or after the day of now.
// Invalid dates are never on or after anything.
func OnOrAfter(s string, now time.Time) bool {
	t, err := Parse(s, now.Location())
	if err != nil {
		return false
	}
	return !t.Before(StartOfDay(now))
}

// DaysLeft renders the remaining days until closing ("1 day left",
// "12 days left"). It returns "" once the date has passed or is today, and
// InvalidDate when closing cannot be parsed.
func DaysLeft(closing string, now time.Time) string {
	t, err := Parse(closing, now.Location())
	if err != nil {
		return InvalidDate
	}
	days := DaysBetween(now, t)
	switch {
	case days <= 0:
		return ""
	case days == 1:
		return "1 day left"
	default:
		return fmt.Sprintf("%d days left", days)
	}
}

// Relative renders s relative to now, e.g. "3 weeks from now" or
// "2 days ago".
func Relative(s string, now time.Time) string {
	t, err := Parse(s, now.Location())
	if err != nil {
		return InvalidDate
	}
	return humanize.RelTime(t, StartOfDay(now), "ago", "from now")
}

// Offset returns the yyyy-MM-dd date days away from now.
func Offset(now time.Time, days int) string {
	return StartOfDay(now).AddDate(0, 0, days).Format(Layout)
}
