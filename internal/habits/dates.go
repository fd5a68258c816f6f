// Package habits implements the analytics core: pure functions that derive
// streaks, XP, levels, completion rates, and heatmap buckets from a snapshot
// of habits and their daily completion log. Nothing in this package performs
// I/O; callers pass state in and get new state or projections back.
package habits

import "time"

// DateLayout is the canonical day key format used throughout the log.
const DateLayout = "2006-01-02"

// FormatDate renders an instant as a YYYY-MM-DD day key. Day boundaries are
// taken from UTC so that every caller buckets the same instant identically.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Today returns the current day key.
func Today() string {
	return FormatDate(time.Now())
}

// PastDates returns the last n day keys in chronological order, ending at
// today. PastDates(3) on 2026-08-30 yields [2026-08-28 2026-08-29 2026-08-30].
func PastDates(n int) []string {
	return PastDatesFrom(time.Now(), n)
}

// PastDatesFrom is PastDates anchored at an explicit instant, for callers
// and tests that need a fixed "today".
func PastDatesFrom(now time.Time, n int) []string {
	if n <= 0 {
		return nil
	}
	dates := make([]string, n)
	day := now.UTC()
	for i := n - 1; i >= 0; i-- {
		dates[i] = day.Format(DateLayout)
		day = day.AddDate(0, 0, -1)
	}
	return dates
}

// ValidDate reports whether s parses as a YYYY-MM-DD day key.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
