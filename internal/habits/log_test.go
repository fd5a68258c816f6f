package habits

import (
	"testing"

	"github.com/google/uuid"

	"github.com/habitflow/habitflow/internal/models"
)

func TestToggleCompletionRoundTrip(t *testing.T) {
	t.Parallel()

	habitID := uuid.New()
	log := models.CompletionLog{}

	afterFirst, wasCompleted := ToggleCompletion(log, habitID, "2026-08-30")
	if !wasCompleted {
		t.Fatal("first toggle should report a completion")
	}
	if !afterFirst.Done("2026-08-30", habitID) {
		t.Fatal("habit should be marked done after first toggle")
	}

	afterSecond, wasCompleted := ToggleCompletion(afterFirst, habitID, "2026-08-30")
	if wasCompleted {
		t.Fatal("second toggle should report an uncompletion")
	}
	if afterSecond.Done("2026-08-30", habitID) {
		t.Fatal("habit should be unmarked after second toggle")
	}
}

func TestToggleCompletionDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	habitID := uuid.New()
	other := uuid.New()
	log := models.CompletionLog{
		"2026-08-30": {other.String(): true},
	}

	newLog, _ := ToggleCompletion(log, habitID, "2026-08-30")

	if log.Done("2026-08-30", habitID) {
		t.Error("input log was mutated by toggle")
	}
	if !newLog.Done("2026-08-30", other) {
		t.Error("new log lost an unrelated entry")
	}
	if !newLog.Done("2026-08-30", habitID) {
		t.Error("new log missing the toggled entry")
	}
}

func TestToggleCompletionUnknownHabitIsPermitted(t *testing.T) {
	t.Parallel()

	// Ids that are not in the registry toggle freely; aggregation treats
	// them as inert orphans.
	newLog, wasCompleted := ToggleCompletion(models.CompletionLog{}, uuid.New(), "2026-01-01")
	if !wasCompleted {
		t.Error("toggling a fresh entry should report completion")
	}
	if LoggedDays(newLog) != 1 {
		t.Errorf("LoggedDays = %d, want 1", LoggedDays(newLog))
	}
}

func TestTotalAndHabitCompletions(t *testing.T) {
	t.Parallel()

	a, b := uuid.New(), uuid.New()
	log := models.CompletionLog{
		"2026-08-28": {a.String(): true, b.String(): true},
		"2026-08-29": {a.String(): true, b.String(): false},
		"2026-08-30": {a.String(): false},
	}

	if got := TotalCompletions(log); got != 3 {
		t.Errorf("TotalCompletions = %d, want 3", got)
	}
	if got := HabitCompletions(log, a); got != 2 {
		t.Errorf("HabitCompletions(a) = %d, want 2", got)
	}
	if got := HabitCompletions(log, b); got != 1 {
		t.Errorf("HabitCompletions(b) = %d, want 1", got)
	}
	if got := LoggedDays(log); got != 3 {
		t.Errorf("LoggedDays = %d, want 3", got)
	}
}
