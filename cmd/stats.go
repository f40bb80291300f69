package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkale/sparky/internal/gamification"
	"github.com/mkale/sparky/internal/llm"
	"github.com/mkale/sparky/internal/store"
	"github.com/mkale/sparky/internal/tutor"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		// Read-only state load. No model calls are made.
		t := tutor.New(llm.NewMockProvider(), s.StateRepo())
		t.Load(cmd.Context())

		name := t.UserName()
		if name == "" {
			name = "learner"
		}
		gam := t.GamificationStats()
		perf := t.PerformanceStats()

		fmt.Printf("Stats for %s\n", name)
		fmt.Println(strings.Repeat("─", 40))
		fmt.Printf("Level:          %d\n", gam.Level)
		fmt.Printf("XP:             %d / %d\n", gam.XP, gamification.XPForLevel(gam.Level))
		fmt.Printf("Quizzes taken:  %d\n", perf.QuizzesTaken)
		fmt.Printf("Correct:        %d\n", perf.Correct)
		fmt.Printf("Incorrect:      %d\n", perf.Incorrect)

		if total := perf.Correct + perf.Incorrect; total > 0 {
			fmt.Printf("Accuracy:       %d%%\n", perf.Correct*100/total)
		}

		if len(perf.AccuracyHistory) > 0 {
			scores := make([]string, len(perf.AccuracyHistory))
			for i, acc := range perf.AccuracyHistory {
				scores[i] = fmt.Sprintf("%d%%", acc)
			}
			fmt.Printf("Quiz scores:    %s\n", strings.Join(scores, " "))
		}
		return nil
	},
}
