package habits

import (
	"github.com/google/uuid"

	"github.com/habitflow/habitflow/internal/models"
)

// ToggleCompletion flips the completion flag for a habit on a date and
// returns the new log plus whether the flip was false->true (a completion).
// The input log is never mutated; the affected date row is copied so
// concurrent readers of the previous snapshot see consistent state.
//
// The habit id is not checked against the registry: toggling a removed
// habit's id is permitted and inert for aggregation purposes.
func ToggleCompletion(log models.CompletionLog, habitID uuid.UUID, date string) (models.CompletionLog, bool) {
	key := habitID.String()
	wasDone := log[date][key]

	newLog := make(models.CompletionLog, len(log)+1)
	for d, row := range log {
		newLog[d] = row
	}

	newRow := make(map[string]bool, len(log[date])+1)
	for id, done := range log[date] {
		newRow[id] = done
	}
	newRow[key] = !wasDone
	newLog[date] = newRow

	return newLog, !wasDone
}

// LoggedDays counts the dates present as keys in the log, regardless of
// whether any entry on them is true. Global rate density is measured over
// these recorded days, not over calendar time.
func LoggedDays(log models.CompletionLog) int {
	return len(log)
}

// TotalCompletions counts every true entry in the log, including entries
// for habits that no longer exist.
func TotalCompletions(log models.CompletionLog) int {
	total := 0
	for _, row := range log {
		for _, done := range row {
			if done {
				total++
			}
		}
	}
	return total
}

// HabitCompletions counts the true entries for a single habit across all
// recorded days.
func HabitCompletions(log models.CompletionLog, habitID uuid.UUID) int {
	key := habitID.String()
	n := 0
	for _, row := range log {
		if row[key] {
			n++
		}
	}
	return n
}
