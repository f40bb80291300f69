package performance

import "math"

// QuizLength is the fixed number of questions per generated quiz, used to
// determine when a quiz is complete.
const QuizLength = 3

// Stats accumulates quiz answer outcomes across the life of the store.
type Stats struct {
	Correct         int   `json:"correct"`
	Incorrect       int   `json:"incorrect"`
	QuizzesTaken    int   `json:"quizzesTaken"`
	AccuracyHistory []int `json:"accuracyHistory"`
}

// QuizProgress tracks the in-flight quiz. It is transient view state,
// never persisted, and resets when a new quiz is generated or the current
// one reaches QuizLength answers.
type QuizProgress struct {
	Correct  int
	Answered int
}

// NewStats returns zeroed stats.
func NewStats() Stats {
	return Stats{AccuracyHistory: []int{}}
}

// RecordAnswer increments the correct or incorrect counter.
func RecordAnswer(stats Stats, isCorrect bool) Stats {
	if isCorrect {
		stats.Correct++
	} else {
		stats.Incorrect++
	}
	return stats
}

// RecordQuizStarted increments the quizzes-taken counter.
func RecordQuizStarted(stats Stats) Stats {
	stats.QuizzesTaken++
	return stats
}

// RecordQuizCompleted appends a completed quiz's accuracy percentage to
// the history.
func RecordQuizCompleted(stats Stats, accuracyPercent int) Stats {
	stats.AccuracyHistory = append(stats.AccuracyHistory, accuracyPercent)
	return stats
}

// Accuracy computes the rounded percentage for a completed quiz.
func Accuracy(correctInQuiz, quizLength int) int {
	if quizLength == 0 {
		return 0
	}
	return int(math.Round(100 * float64(correctInQuiz) / float64(quizLength)))
}
