package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkale/sparky/internal/llm"
	"github.com/mkale/sparky/internal/store"
	"github.com/mkale/sparky/internal/tutor"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset XP, level, and quiz history",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			fmt.Print("This clears your XP, level, and quiz history. Chats are kept. Continue? [y/N] ")
			answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := cmd.Context()
		t := tutor.New(llm.NewMockProvider(), s.StateRepo())
		t.Load(ctx)
		t.ResetStats(ctx)

		fmt.Println("Stats reset.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
