package quizgen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mkale/sparky/internal/chat"
	"github.com/mkale/sparky/internal/llm"
)

// Config tunes quiz generation.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns limits sized for a three-question quiz.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   2048,
		Temperature: 0.3,
	}
}

// Generator produces multiple-choice quizzes via the LLM provider.
type Generator struct {
	provider llm.Provider
	config   Config
}

// New creates a Generator with the given provider and config.
func New(provider llm.Provider, cfg Config) *Generator {
	return &Generator{provider: provider, config: cfg}
}

type quizOutput struct {
	Questions []chat.QuizQuestion `json:"questions"`
}

// Generate produces a quiz about the topic. On any failure the result is
// nil; a quiz is never partially delivered.
func (g *Generator) Generate(ctx context.Context, topic string) ([]chat.QuizQuestion, error) {
	ctx = llm.WithPurpose(ctx, "quiz")

	prompt := fmt.Sprintf(
		`Generate a short, 3-question multiple-choice quiz about the following topic: %q. The questions should be at an intermediate level.`,
		topic)

	req := llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: prompt},
		},
		Schema:      QuizSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("quiz generation failed: %w", err)
	}

	var out quizOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse quiz response: %w", err)
	}
	if len(out.Questions) == 0 {
		return nil, fmt.Errorf("quiz response contained no questions")
	}

	return out.Questions, nil
}
