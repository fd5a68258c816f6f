package habits

const (
	// MinDifficulty and MaxDifficulty bound the habit intensity scale.
	MinDifficulty = 1
	MaxDifficulty = 5

	// FallbackXPReward is granted for out-of-range difficulties. Difficulty
	// is validated at the registry boundary, so this only fires for
	// malformed or legacy data.
	FallbackXPReward = 15
)

// xpRewards maps difficulty 1..5 to the XP granted per completion.
var xpRewards = map[int]int{
	1: 10,
	2: 25,
	3: 45,
	4: 70,
	5: 100,
}

// XPReward returns the experience points awarded for completing a habit of
// the given difficulty.
func XPReward(difficulty int) int {
	if reward, ok := xpRewards[difficulty]; ok {
		return reward
	}
	return FallbackXPReward
}

// ValidDifficulty reports whether d is inside the supported 1..5 scale.
func ValidDifficulty(d int) bool {
	return d >= MinDifficulty && d <= MaxDifficulty
}
