package flashgen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mkale/sparky/internal/chat"
	"github.com/mkale/sparky/internal/llm"
)

// CardCount is the number of flashcards requested per topic.
const CardCount = 5

// Config tunes flashcard generation.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns limits sized for a five-card set.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   1536,
		Temperature: 0.3,
	}
}

// Generator produces flashcard sets via the LLM provider.
type Generator struct {
	provider llm.Provider
	config   Config
}

// New creates a Generator with the given provider and config.
func New(provider llm.Provider, cfg Config) *Generator {
	return &Generator{provider: provider, config: cfg}
}

type flashcardOutput struct {
	Flashcards []chat.Flashcard `json:"flashcards"`
}

// Generate produces a flashcard set about the topic. On any failure the
// result is nil; cards are never partially delivered.
func (g *Generator) Generate(ctx context.Context, topic string) ([]chat.Flashcard, error) {
	ctx = llm.WithPurpose(ctx, "flashcards")

	prompt := fmt.Sprintf(
		`Generate a set of %d flashcards for the following topic: %q. Each flashcard should have a 'front' (a term or concept) and a 'back' (a concise definition or explanation).`,
		CardCount, topic)

	req := llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: prompt},
		},
		Schema:      FlashcardSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("flashcard generation failed: %w", err)
	}

	var out flashcardOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse flashcard response: %w", err)
	}
	if len(out.Flashcards) == 0 {
		return nil, fmt.Errorf("flashcard response contained no cards")
	}

	return out.Flashcards, nil
}
