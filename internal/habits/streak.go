package habits

import (
	"time"

	"github.com/google/uuid"

	"github.com/habitflow/habitflow/internal/models"
)

// StreakWindow bounds how far back streak walks look.
const StreakWindow = 365

// CurrentStreak computes the aggregate dashboard streak: consecutive days,
// ending at (or adjacent to) today, on which at least one habit was
// completed. Today with zero completions is skipped rather than counted or
// broken, because the day is still actionable; the first PAST day with zero
// completions ends the walk. The exemption is today-only: a gap two days
// ago breaks the streak even if yesterday and today are complete.
func CurrentStreak(log models.CompletionLog) int {
	return currentStreakAt(log, time.Now(), func(date string) bool {
		return log.CompletedCount(date) > 0
	})
}

// HabitCurrentStreak is CurrentStreak restricted to a single habit.
func HabitCurrentStreak(log models.CompletionLog, habitID uuid.UUID) int {
	return currentStreakAt(log, time.Now(), func(date string) bool {
		return log.Done(date, habitID)
	})
}

// currentStreakAt walks backward from now over the streak window, counting
// qualifying days until the first non-qualifying day strictly in the past.
func currentStreakAt(log models.CompletionLog, now time.Time, qualifies func(date string) bool) int {
	today := FormatDate(now)
	streak := 0
	for _, date := range reversed(PastDatesFrom(now, StreakWindow)) {
		switch {
		case qualifies(date):
			streak++
		case date == today:
			// still in progress, neither counts nor breaks
		default:
			return streak
		}
	}
	return streak
}

// LongestStreak computes the longest run of consecutive completed days for
// a habit within the streak window: one chronological pass with a counter
// that resets on every missed day.
func LongestStreak(log models.CompletionLog, habitID uuid.UUID) int {
	return longestStreakAt(log, time.Now(), habitID)
}

func longestStreakAt(log models.CompletionLog, now time.Time, habitID uuid.UUID) int {
	longest, run := 0, 0
	for _, date := range PastDatesFrom(now, StreakWindow) {
		if log.Done(date, habitID) {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	return longest
}

// LongestRun is the windowless variant over an explicit day sequence, used
// where the caller has already materialized the window.
func LongestRun(completed []bool) int {
	longest, run := 0, 0
	for _, done := range completed {
		if done {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	return longest
}

func reversed(dates []string) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[len(dates)-1-i] = d
	}
	return out
}
