package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkale/sparky/internal/app"
	"github.com/mkale/sparky/internal/llm"
	"github.com/mkale/sparky/internal/store"
	"github.com/mkale/sparky/internal/tutor"
)

// runApp opens the store, builds the LLM provider, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	// Explicit SPARKY_* configuration wins; otherwise probe the standard
	// provider API key env vars.
	cfg := llm.ConfigFromEnv()
	if verr := cfg.Validate(); verr != nil {
		discovered, ok := llm.DiscoverConfig()
		if !ok {
			fmt.Fprintln(os.Stderr, "No LLM provider configured:", verr)
			fmt.Fprintln(os.Stderr, "Set GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY, or OPENROUTER_API_KEY,")
			fmt.Fprintln(os.Stderr, "or pick a provider explicitly with SPARKY_LLM_PROVIDER.")
			return verr
		}
		cfg = discovered
	}

	provider, err := llm.NewProvider(ctx, cfg, st.EventRepo())
	if err != nil {
		return fmt.Errorf("create LLM provider: %w", err)
	}

	t := tutor.New(provider, st.StateRepo())
	t.Load(ctx)

	return app.Run(t)
}
