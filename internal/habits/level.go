package habits

import "github.com/habitflow/habitflow/internal/models"

// XPPerLevel is the experience span of one level.
const XPPerLevel = 250

// LevelInfo describes the level derived from a total XP counter.
type LevelInfo struct {
	Level           int     `json:"level"`
	ProgressPercent float64 `json:"progress_percent"` // 0..100 within the current level
}

// ApplyCompletionDelta adjusts the XP counter after a toggle. A completion
// adds the reward for the habit's current difficulty; an uncompletion
// subtracts it, clamped at zero. Must be called exactly once per toggle,
// with the difficulty the habit has at toggle time: later difficulty edits
// do not rebalance XP already granted.
func ApplyCompletionDelta(stats models.UserStats, habit models.Habit, wasJustCompleted bool) models.UserStats {
	reward := XPReward(habit.Difficulty)
	if wasJustCompleted {
		stats.TotalXP += reward
	} else {
		stats.TotalXP -= reward
		if stats.TotalXP < 0 {
			stats.TotalXP = 0
		}
	}
	return stats
}

// DeriveLevel computes the level and intra-level progress for a total XP
// count. Level numbering starts at 1.
func DeriveLevel(totalXP int) LevelInfo {
	if totalXP < 0 {
		totalXP = 0
	}
	return LevelInfo{
		Level:           totalXP/XPPerLevel + 1,
		ProgressPercent: float64(totalXP%XPPerLevel) / XPPerLevel * 100,
	}
}
