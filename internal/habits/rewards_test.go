package habits

import "testing"

func TestXPReward(t *testing.T) {
	t.Parallel()

	tests := []struct {
		difficulty int
		want       int
	}{
		{1, 10},
		{2, 25},
		{3, 45},
		{4, 70},
		{5, 100},
		{0, FallbackXPReward},
		{6, FallbackXPReward},
		{99, 15},
		{-1, FallbackXPReward},
	}

	for _, tt := range tests {
		if got := XPReward(tt.difficulty); got != tt.want {
			t.Errorf("XPReward(%d) = %d, want %d", tt.difficulty, got, tt.want)
		}
	}
}

func TestValidDifficulty(t *testing.T) {
	t.Parallel()

	for d := MinDifficulty; d <= MaxDifficulty; d++ {
		if !ValidDifficulty(d) {
			t.Errorf("ValidDifficulty(%d) = false, want true", d)
		}
	}
	for _, d := range []int{0, 6, -3, 100} {
		if ValidDifficulty(d) {
			t.Errorf("ValidDifficulty(%d) = true, want false", d)
		}
	}
}
