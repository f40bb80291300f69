package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkale/sparky/internal/llm"
	"github.com/mkale/sparky/internal/store"
	"github.com/mkale/sparky/internal/tutor"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List saved chat sessions",
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

		t := tutor.New(llm.NewMockProvider(), s.StateRepo())
		t.Load(cmd.Context())

		sessions := t.Sessions()
		if len(sessions) == 0 {
			fmt.Println("No chat sessions yet.")
			return nil
		}

		fmt.Printf("%-36s  %-32s  %-12s  %s\n", "ID", "Title", "Difficulty", "Messages")
		fmt.Println(strings.Repeat("─", 92))
		for _, sess := range sessions {
			marker := " "
			if sess.ID == t.ActiveID() {
				marker = "*"
			}
			fmt.Printf("%-36s  %-32s  %-12s  %7d %s\n",
				sess.ID, truncate(sess.Title, 32), sess.Difficulty, len(sess.Messages), marker)
		}
		return nil
	},
}
