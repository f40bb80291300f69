package assistant

import (
	"context"
	"fmt"

	"github.com/mkale/sparky/internal/chat"
	"github.com/mkale/sparky/internal/llm"
)

// Config tunes reply generation.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns reasonable limits for a chat reply.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   2048,
		Temperature: 0.7,
	}
}

// Assistant produces streamed tutor replies for a chat session.
type Assistant struct {
	provider llm.Provider
	config   Config
}

// New creates an Assistant backed by the given provider.
func New(provider llm.Provider, cfg Config) *Assistant {
	return &Assistant{provider: provider, config: cfg}
}

// StreamReply generates the tutor's reply to the conversation so far,
// invoking onDelta for each text fragment. The last message in history
// must be the user's turn. Returns the complete reply text.
func (a *Assistant) StreamReply(ctx context.Context, difficulty chat.Difficulty, history []chat.ChatMessage, onDelta func(delta string)) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("empty conversation")
	}

	ctx = llm.WithPurpose(ctx, "chat")

	req := llm.Request{
		System:      SystemInstruction(difficulty),
		Messages:    buildMessages(history),
		MaxTokens:   a.config.MaxTokens,
		Temperature: a.config.Temperature,
	}

	resp, err := a.provider.GenerateStream(ctx, req, onDelta)
	if err != nil {
		return "", err
	}
	return string(resp.Content), nil
}

// buildMessages converts stored chat messages to provider messages.
// Text parts are concatenated; binary parts become attachments.
func buildMessages(history []chat.ChatMessage) []llm.Message {
	out := make([]llm.Message, 0, len(history))
	for _, m := range history {
		role := llm.RoleUser
		if m.Role == chat.RoleModel {
			role = llm.RoleAssistant
		}

		msg := llm.Message{Role: role, Content: m.Text()}
		for _, p := range m.Parts {
			if !p.IsText() {
				msg.Attachments = append(msg.Attachments, llm.Attachment{
					MIMEType: p.MIMEType,
					Data:     p.Data,
				})
			}
		}
		out = append(out, msg)
	}
	return out
}
