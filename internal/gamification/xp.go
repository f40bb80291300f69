package gamification

// Stats tracks the learner's XP progress. XP is progress within the
// current level, so 0 <= XP < XPForLevel(Level) holds between awards.
type Stats struct {
	XP    int `json:"xp"`
	Level int `json:"level"`
}

// XP awarded per user action.
const (
	XPMessageSent   = 5
	XPCorrectAnswer = 25
	XPFlashcards    = 30
	XPQuizCompleted = 50
)

// NewStats returns the starting stats: level 1, no XP.
func NewStats() Stats {
	return Stats{XP: 0, Level: 1}
}

// XPForLevel returns the XP threshold to advance past the given level.
func XPForLevel(level int) int {
	return level * 150
}

// AwardXP adds an XP amount and returns the updated stats, whether a
// level-up occurred, and the level reached.
//
// The threshold is checked once per award, so a single award advances at
// most one level even when the amount would mathematically cross two.
func AwardXP(stats Stats, amount int) (Stats, bool, int) {
	newXP := stats.XP + amount
	newLevel := stats.Level

	if newXP >= XPForLevel(newLevel) {
		newXP -= XPForLevel(newLevel)
		newLevel++
		return Stats{XP: newXP, Level: newLevel}, true, newLevel
	}

	return Stats{XP: newXP, Level: newLevel}, false, newLevel
}
