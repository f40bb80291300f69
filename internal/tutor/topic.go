package tutor

import "github.com/mkale/sparky/internal/chat"

// fallbackTopic is used when the session has no tutor reply to draw from.
const fallbackTopic = "the current topic"

// ExtractTopic returns the text of the most recent model message in the
// session. Quizzes and flashcards are generated from whatever the tutor
// last explained.
func ExtractTopic(session *chat.ChatSession) string {
	if session == nil {
		return fallbackTopic
	}
	for i := len(session.Messages) - 1; i >= 0; i-- {
		m := session.Messages[i]
		if m.Role != chat.RoleModel {
			continue
		}
		if text := m.Text(); text != "" {
			return text
		}
	}
	return fallbackTopic
}
