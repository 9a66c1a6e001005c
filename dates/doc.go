// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package dates parses and renders the yyyy-MM-dd dates used by meetings,
// compliance deadlines and tenders. Display helpers never fail: a bad date
// renders as "Invalid Date" and is left out of date-window filters.
package dates
