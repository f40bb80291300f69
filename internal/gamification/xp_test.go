package gamification

import "testing"

func TestAwardXP_NoLevelUp(t *testing.T) {
	stats, leveled, level := AwardXP(Stats{XP: 10, Level: 1}, 5)

	if stats.XP != 15 {
		t.Errorf("XP = %d, want 15", stats.XP)
	}
	if stats.Level != 1 {
		t.Errorf("Level = %d, want 1", stats.Level)
	}
	if leveled {
		t.Error("unexpected level-up")
	}
	if level != 1 {
		t.Errorf("level reached = %d, want 1", level)
	}
}

func TestAwardXP_LevelUpCarriesRemainder(t *testing.T) {
	stats, leveled, level := AwardXP(Stats{XP: 140, Level: 1}, 20)

	if stats.XP != 10 {
		t.Errorf("XP = %d, want 10", stats.XP)
	}
	if stats.Level != 2 {
		t.Errorf("Level = %d, want 2", stats.Level)
	}
	if !leveled {
		t.Error("expected a level-up at the 150 threshold")
	}
	if level != 2 {
		t.Errorf("level reached = %d, want 2", level)
	}
}

func TestAwardXP_ExactThreshold(t *testing.T) {
	stats, leveled, _ := AwardXP(Stats{XP: 145, Level: 1}, 5)

	if !leveled {
		t.Error("reaching the threshold exactly must level up")
	}
	if stats.XP != 0 {
		t.Errorf("XP = %d, want 0", stats.XP)
	}
	if stats.Level != 2 {
		t.Errorf("Level = %d, want 2", stats.Level)
	}
}

// A single award only checks the threshold once, so an oversized award
// can leave XP above the new level's threshold.
func TestAwardXP_SingleLevelPerAward(t *testing.T) {
	stats, leveled, level := AwardXP(Stats{XP: 0, Level: 1}, 500)

	if stats.Level != 2 {
		t.Errorf("Level = %d, want 2 (single check per award)", stats.Level)
	}
	if stats.XP != 350 {
		t.Errorf("XP = %d, want 350", stats.XP)
	}
	if !leveled || level != 2 {
		t.Errorf("leveled=%v level=%d, want true/2", leveled, level)
	}
}

func TestXPForLevel(t *testing.T) {
	cases := []struct {
		level int
		want  int
	}{
		{1, 150},
		{2, 300},
		{5, 750},
	}
	for _, tc := range cases {
		if got := XPForLevel(tc.level); got != tc.want {
			t.Errorf("XPForLevel(%d) = %d, want %d", tc.level, got, tc.want)
		}
	}
}

func TestNewStats(t *testing.T) {
	stats := NewStats()
	if stats.Level != 1 || stats.XP != 0 {
		t.Errorf("NewStats = %+v, want level 1 / 0 xp", stats)
	}
}
