package models

import (
	"github.com/google/uuid"
)

// HabitCategory groups habits for display purposes
type HabitCategory string

const (
	CategoryHealth       HabitCategory = "Health"
	CategoryProductivity HabitCategory = "Productivity"
	CategoryMindset      HabitCategory = "Mindset"
	CategoryLearning     HabitCategory = "Learning"
	CategorySocial       HabitCategory = "Social"
	CategoryOther        HabitCategory = "Other"
)

// HabitColor is the display accent for a habit
type HabitColor string

const (
	ColorGreen  HabitColor = "green"
	ColorBlue   HabitColor = "blue"
	ColorPurple HabitColor = "purple"
	ColorOrange HabitColor = "orange"
)

// Habit represents a tracked recurring activity
type Habit struct {
	ID           uuid.UUID     `json:"id"`
	Name         string        `json:"name"`
	Category     HabitCategory `json:"category"`
	Difficulty   int           `json:"difficulty"` // 1 to 5 scale, drives XP reward
	Color        HabitColor    `json:"color"`
	ReminderTime *string       `json:"reminder_time,omitempty"` // HH:MM, advisory only
	CreatedAt    int64         `json:"created_at"`              // epoch milliseconds, set once
}

// CompletionLog records per-day, per-habit completion flags.
// Keys are ISO dates (YYYY-MM-DD); a missing date row means "all false".
// Rows may reference habits that were later deleted; those entries are
// retained and ignored by per-habit views.
type CompletionLog map[string]map[string]bool

// Done reports whether the habit was completed on the given date.
func (l CompletionLog) Done(date string, habitID uuid.UUID) bool {
	return l[date][habitID.String()]
}

// CompletedCount counts true entries for a date, regardless of whether the
// habit still exists.
func (l CompletionLog) CompletedCount(date string) int {
	n := 0
	for _, done := range l[date] {
		if done {
			n++
		}
	}
	return n
}

// UserStats holds the gamification counters for a user
type UserStats struct {
	TotalXP       int `json:"totalXp"`       // clamped at 0, never negative
	StreakFreezes int `json:"streakFreezes"` // tracked but not yet consumed
}

// Snapshot is the complete user state exchanged with persistence.
// Core operations take a Snapshot and return a new one; the stored copy is
// always replaced whole (last-writer-wins).
type Snapshot struct {
	Habits []Habit       `json:"habits"`
	Logs   CompletionLog `json:"logs"`
	Stats  UserStats     `json:"stats"`
}

// EmptySnapshot returns the initial state for a new user.
func EmptySnapshot() Snapshot {
	return Snapshot{
		Habits: []Habit{},
		Logs:   CompletionLog{},
		Stats:  UserStats{},
	}
}

// FindHabit returns the habit with the given id, or nil.
func (s Snapshot) FindHabit(id uuid.UUID) *Habit {
	for i := range s.Habits {
		if s.Habits[i].ID == id {
			return &s.Habits[i]
		}
	}
	return nil
}

// ValidCategory reports whether c is one of the known habit categories.
func ValidCategory(c HabitCategory) bool {
	switch c {
	case CategoryHealth, CategoryProductivity, CategoryMindset,
		CategoryLearning, CategorySocial, CategoryOther:
		return true
	default:
		return false
	}
}

// ValidColor reports whether c is one of the known habit colors.
func ValidColor(c HabitColor) bool {
	switch c {
	case ColorGreen, ColorBlue, ColorPurple, ColorOrange:
		return true
	default:
		return false
	}
}
