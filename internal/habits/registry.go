package habits

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/habitflow/habitflow/internal/models"
)

var (
	// ErrHabitNotFound is returned when an edit or removal targets an id
	// that is not in the registry.
	ErrHabitNotFound = errors.New("habit not found")
	// ErrEmptyName is returned when a habit name is empty after trimming.
	ErrEmptyName = errors.New("habit name must not be empty")
)

// NewHabitParams are the user-supplied fields for habit creation.
type NewHabitParams struct {
	Name         string
	Category     models.HabitCategory
	Difficulty   int
	Color        models.HabitColor
	ReminderTime *string
}

// HabitEdit carries the fields of an edit; nil fields keep their prior
// values.
type HabitEdit struct {
	Name         *string
	Category     *models.HabitCategory
	Difficulty   *int
	Color        *models.HabitColor
	ReminderTime *string
}

// AddHabit validates the params, assigns an id and creation timestamp, and
// returns a new snapshot with the habit appended.
func AddHabit(snap models.Snapshot, params NewHabitParams) (models.Snapshot, *models.Habit, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return snap, nil, ErrEmptyName
	}
	if !models.ValidCategory(params.Category) {
		return snap, nil, fmt.Errorf("invalid category %q", params.Category)
	}
	if !ValidDifficulty(params.Difficulty) {
		return snap, nil, fmt.Errorf("difficulty %d out of range [%d,%d]", params.Difficulty, MinDifficulty, MaxDifficulty)
	}
	color := params.Color
	if color == "" {
		color = models.ColorGreen
	}
	if !models.ValidColor(color) {
		return snap, nil, fmt.Errorf("invalid color %q", color)
	}
	if params.ReminderTime != nil && !validClockTime(*params.ReminderTime) {
		return snap, nil, fmt.Errorf("invalid reminder time %q, want HH:MM", *params.ReminderTime)
	}

	habit := models.Habit{
		ID:           uuid.New(),
		Name:         name,
		Category:     params.Category,
		Difficulty:   params.Difficulty,
		Color:        color,
		ReminderTime: params.ReminderTime,
		CreatedAt:    time.Now().UnixMilli(),
	}

	out := snap
	out.Habits = append(append([]models.Habit{}, snap.Habits...), habit)
	return out, &habit, nil
}

// EditHabit applies a partial update to the habit with the given id and
// returns a new snapshot. Unknown ids yield ErrHabitNotFound. ID and
// CreatedAt are immutable.
func EditHabit(snap models.Snapshot, id uuid.UUID, edit HabitEdit) (models.Snapshot, error) {
	idx := -1
	for i := range snap.Habits {
		if snap.Habits[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return snap, ErrHabitNotFound
	}

	updated := snap.Habits[idx]
	if edit.Name != nil {
		name := strings.TrimSpace(*edit.Name)
		if name == "" {
			return snap, ErrEmptyName
		}
		updated.Name = name
	}
	if edit.Category != nil {
		if !models.ValidCategory(*edit.Category) {
			return snap, fmt.Errorf("invalid category %q", *edit.Category)
		}
		updated.Category = *edit.Category
	}
	if edit.Difficulty != nil {
		if !ValidDifficulty(*edit.Difficulty) {
			return snap, fmt.Errorf("difficulty %d out of range [%d,%d]", *edit.Difficulty, MinDifficulty, MaxDifficulty)
		}
		updated.Difficulty = *edit.Difficulty
	}
	if edit.Color != nil {
		if !models.ValidColor(*edit.Color) {
			return snap, fmt.Errorf("invalid color %q", *edit.Color)
		}
		updated.Color = *edit.Color
	}
	if edit.ReminderTime != nil {
		if *edit.ReminderTime == "" {
			updated.ReminderTime = nil
		} else {
			if !validClockTime(*edit.ReminderTime) {
				return snap, fmt.Errorf("invalid reminder time %q, want HH:MM", *edit.ReminderTime)
			}
			updated.ReminderTime = edit.ReminderTime
		}
	}

	out := snap
	out.Habits = append([]models.Habit{}, snap.Habits...)
	out.Habits[idx] = updated
	return out, nil
}

// RemoveHabit drops the habit with the given id and returns a new snapshot.
// Log entries for the removed habit are retained: they stay counted in raw
// global totals but disappear from per-habit views, which key by live
// habits.
func RemoveHabit(snap models.Snapshot, id uuid.UUID) (models.Snapshot, error) {
	kept := make([]models.Habit, 0, len(snap.Habits))
	found := false
	for _, h := range snap.Habits {
		if h.ID == id {
			found = true
			continue
		}
		kept = append(kept, h)
	}
	if !found {
		return snap, ErrHabitNotFound
	}
	out := snap
	out.Habits = kept
	return out, nil
}

// Toggle runs a full completion toggle against a snapshot: flips the log
// entry and applies the XP delta when the habit still exists. Toggling a
// removed habit's id flips the log but leaves stats untouched.
func Toggle(snap models.Snapshot, habitID uuid.UUID, date string) (models.Snapshot, bool) {
	newLog, wasJustCompleted := ToggleCompletion(snap.Logs, habitID, date)
	out := snap
	out.Logs = newLog
	if habit := snap.FindHabit(habitID); habit != nil {
		out.Stats = ApplyCompletionDelta(snap.Stats, *habit, wasJustCompleted)
	}
	return out, wasJustCompleted
}

// validClockTime checks an advisory HH:MM reminder string.
func validClockTime(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}
