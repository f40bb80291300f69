package chat

import "github.com/google/uuid"

// DefaultTitle is the title of a session before its first message.
const DefaultTitle = "New Chat"

// titleMaxLen is the display length a derived title is truncated to.
const titleMaxLen = 30

// ChatSession is one independent conversation thread with its own
// difficulty and message history.
type ChatSession struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Messages   []ChatMessage `json:"messages"`
	Difficulty Difficulty    `json:"difficulty"`
}

// NewSession creates an empty session with a fresh unique id.
func NewSession(difficulty Difficulty) *ChatSession {
	if difficulty == "" {
		difficulty = DifficultyIntermediate
	}
	return &ChatSession{
		ID:         uuid.NewString(),
		Title:      DefaultTitle,
		Messages:   []ChatMessage{},
		Difficulty: difficulty,
	}
}

// deriveTitle builds a session title from the first user message text:
// the first 30 characters, with an ellipsis marker when truncated.
func deriveTitle(text string) string {
	if text == "" {
		return DefaultTitle
	}
	runes := []rune(text)
	if len(runes) <= titleMaxLen {
		return text
	}
	return string(runes[:titleMaxLen]) + "..."
}
