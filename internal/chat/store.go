package chat

// Store owns the collection of chat sessions and the active-session
// pointer. All session mutations go through it. Mutations are total over
// valid session ids and silent no-ops over unknown ids or indices; the
// orchestrator is responsible for only issuing valid references.
//
// Invariant: the active id always names a session in the collection, and
// is empty only while the collection itself is empty.
type Store struct {
	sessions []*ChatSession
	activeID string
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{}
}

// Restore replaces the store contents with previously persisted sessions.
// The first session becomes active, matching load-order semantics.
func (s *Store) Restore(sessions []*ChatSession) {
	s.sessions = sessions
	if len(sessions) > 0 {
		s.activeID = sessions[0].ID
	} else {
		s.activeID = ""
	}
}

// CreateSession adds a fresh empty session at the front of the collection
// and marks it active.
func (s *Store) CreateSession(difficulty Difficulty) *ChatSession {
	session := NewSession(difficulty)
	s.sessions = append([]*ChatSession{session}, s.sessions...)
	s.activeID = session.ID
	return session
}

// DeleteSession removes the session with the given id. If it was active,
// the first remaining session becomes active; if none remain, a fresh
// empty session is created and activated so the collection is never left
// empty.
func (s *Store) DeleteSession(id string) {
	idx := s.indexOf(id)
	if idx < 0 {
		return
	}
	s.sessions = append(s.sessions[:idx], s.sessions[idx+1:]...)

	if s.activeID != id {
		return
	}
	if len(s.sessions) > 0 {
		s.activeID = s.sessions[0].ID
		return
	}
	s.CreateSession(DifficultyIntermediate)
}

// SelectSession sets the active session. No-op if the id is unknown.
func (s *Store) SelectSession(id string) {
	if s.indexOf(id) < 0 {
		return
	}
	s.activeID = id
}

// AppendMessage appends a message to the session. The first message in a
// session also sets the title from its text content.
func (s *Store) AppendMessage(id string, msg ChatMessage) {
	session := s.Get(id)
	if session == nil {
		return
	}
	if len(session.Messages) == 0 {
		session.Title = deriveTitle(msg.Text())
	}
	session.Messages = append(session.Messages, msg)
}

// UpdateLastMessageText replaces the parts of the session's last message
// with a single text part. Used exclusively for incremental streaming
// updates; no-op unless the last message belongs to the model role.
func (s *Store) UpdateLastMessageText(id, text string) {
	session := s.Get(id)
	if session == nil || len(session.Messages) == 0 {
		return
	}
	last := &session.Messages[len(session.Messages)-1]
	if last.Role != RoleModel {
		return
	}
	last.Parts = []Part{TextPart(text)}
}

// SetFeedback sets feedback on the message at messageIndex, only if it is
// a model message. Re-selecting the current value clears it (toggle).
func (s *Store) SetFeedback(id string, messageIndex int, feedback Feedback) {
	session := s.Get(id)
	if session == nil || messageIndex < 0 || messageIndex >= len(session.Messages) {
		return
	}
	msg := &session.Messages[messageIndex]
	if msg.Role != RoleModel {
		return
	}
	if msg.Feedback == feedback {
		msg.Feedback = FeedbackNone
		return
	}
	msg.Feedback = feedback
}

// ChangeDifficulty replaces the session's difficulty and clears its
// messages — the difficulty is baked into the model's system framing, so
// the conversation restarts. No-op when unchanged.
func (s *Store) ChangeDifficulty(id string, difficulty Difficulty) {
	session := s.Get(id)
	if session == nil || session.Difficulty == difficulty {
		return
	}
	session.Difficulty = difficulty
	session.Messages = []ChatMessage{}
}

// Get returns the session with the given id, or nil.
func (s *Store) Get(id string) *ChatSession {
	if idx := s.indexOf(id); idx >= 0 {
		return s.sessions[idx]
	}
	return nil
}

// Active returns the active session, or nil while the collection is empty.
func (s *Store) Active() *ChatSession {
	return s.Get(s.activeID)
}

// ActiveID returns the id of the active session.
func (s *Store) ActiveID() string {
	return s.activeID
}

// Sessions returns the session collection in display order.
func (s *Store) Sessions() []*ChatSession {
	return s.sessions
}

// Len returns the number of sessions.
func (s *Store) Len() int {
	return len(s.sessions)
}

func (s *Store) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, session := range s.sessions {
		if session.ID == id {
			return i
		}
	}
	return -1
}
