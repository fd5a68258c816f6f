package habits

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/habitflow/habitflow/internal/models"
)

var streakNow = time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)

// logWith marks the habit done on each of the given offsets (0 = today,
// 1 = yesterday, ...).
func logWith(habitID uuid.UUID, offsets ...int) models.CompletionLog {
	log := models.CompletionLog{}
	for _, off := range offsets {
		date := FormatDate(streakNow.AddDate(0, 0, -off))
		if log[date] == nil {
			log[date] = map[string]bool{}
		}
		log[date][habitID.String()] = true
	}
	return log
}

func TestCurrentStreak(t *testing.T) {
	t.Parallel()

	habitID := uuid.New()

	tests := []struct {
		name    string
		offsets []int
		want    int
	}{
		{
			name:    "empty log",
			offsets: nil,
			want:    0,
		},
		{
			name:    "today and yesterday done, gap before",
			offsets: []int{0, 1},
			want:    2,
		},
		{
			name:    "today not done yet does not break the streak",
			offsets: []int{1, 2, 3},
			want:    3,
		},
		{
			name:    "gap yesterday breaks even with earlier completions",
			offsets: []int{2, 3},
			want:    0,
		},
		{
			name:    "gap two days ago bounds the run",
			offsets: []int{0, 1, 3, 4},
			want:    2,
		},
		{
			name:    "only today",
			offsets: []int{0},
			want:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			log := logWith(habitID, tt.offsets...)
			qualifies := func(date string) bool { return log.CompletedCount(date) > 0 }
			if got := currentStreakAt(log, streakNow, qualifies); got != tt.want {
				t.Errorf("currentStreakAt = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCurrentStreakAggregatesAcrossHabits(t *testing.T) {
	t.Parallel()

	a, b := uuid.New(), uuid.New()
	// a done today, b done yesterday: any-habit streak spans both.
	log := logWith(a, 0)
	for date, row := range logWith(b, 1) {
		log[date] = row
	}

	qualifies := func(date string) bool { return log.CompletedCount(date) > 0 }
	if got := currentStreakAt(log, streakNow, qualifies); got != 2 {
		t.Errorf("aggregate streak = %d, want 2", got)
	}

	perHabit := func(date string) bool { return log.Done(date, a) }
	if got := currentStreakAt(log, streakNow, perHabit); got != 1 {
		t.Errorf("per-habit streak for a = %d, want 1", got)
	}
}

func TestLongestStreak(t *testing.T) {
	t.Parallel()

	habitID := uuid.New()
	// Three-day run ending 6 days ago, two-day run ending yesterday.
	log := logWith(habitID, 1, 2, 6, 7, 8)

	if got := longestStreakAt(log, streakNow, habitID); got != 3 {
		t.Errorf("longestStreakAt = %d, want 3", got)
	}
}

func TestLongestRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		flags []bool
		want  int
	}{
		{
			name:  "reference window",
			flags: []bool{true, true, true, false, true, true, false, false, true},
			want:  3,
		},
		{
			name:  "all false",
			flags: []bool{false, false, false},
			want:  0,
		},
		{
			name:  "run at the end",
			flags: []bool{false, true, true},
			want:  2,
		},
		{
			name:  "empty",
			flags: nil,
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := LongestRun(tt.flags); got != tt.want {
				t.Errorf("LongestRun = %d, want %d", got, tt.want)
			}
		})
	}
}
