package tutor

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mkale/sparky/internal/assistant"
	"github.com/mkale/sparky/internal/chat"
	"github.com/mkale/sparky/internal/flashgen"
	"github.com/mkale/sparky/internal/gamification"
	"github.com/mkale/sparky/internal/llm"
	"github.com/mkale/sparky/internal/performance"
	"github.com/mkale/sparky/internal/quizgen"
	"github.com/mkale/sparky/internal/store"
)

// Phase describes the in-flight operation for a session.
type Phase string

const (
	PhaseChat       Phase = "chat"
	PhaseQuiz       Phase = "quiz"
	PhaseFlashcards Phase = "flashcards"
)

// NotificationKind classifies a toast.
type NotificationKind string

const (
	NotifyXP      NotificationKind = "xp"
	NotifyLevelUp NotificationKind = "levelup"
)

// Notification is a transient toast message for the UI to display.
type Notification struct {
	Message string
	Kind    NotificationKind
}

// ErrBusy is returned when an operation is requested on a session that
// already has one in flight.
var ErrBusy = fmt.Errorf("an operation is already running for this session")

// App is the tutoring orchestrator. It owns the session store, the stats,
// and the generators, coordinates streamed replies, and persists state on
// every change. All methods are safe for concurrent use; long-running LLM
// calls release the lock while waiting on the provider.
type App struct {
	mu sync.Mutex

	assistant *assistant.Assistant
	quizzes   *quizgen.Generator
	cards     *flashgen.Generator
	states    store.StateRepo

	sessions     *chat.Store
	performance  performance.Stats
	quizProgress performance.QuizProgress
	gamification gamification.Stats
	flashcards   []chat.Flashcard
	userName     string

	busy          map[string]Phase
	notifications []Notification
	errMsg        string
}

// New builds an App on top of the given provider and state repository.
// Call Load before first use to restore persisted state.
func New(provider llm.Provider, states store.StateRepo) *App {
	return &App{
		assistant:    assistant.New(provider, assistant.DefaultConfig()),
		quizzes:      quizgen.New(provider, quizgen.DefaultConfig()),
		cards:        flashgen.New(provider, flashgen.DefaultConfig()),
		states:       states,
		sessions:     chat.NewStore(),
		performance:  performance.NewStats(),
		gamification: gamification.NewStats(),
		busy:         make(map[string]Phase),
	}
}

// Sessions returns all sessions, most recently created first.
func (a *App) Sessions() []*chat.ChatSession {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sessions.Sessions()
}

// ActiveSession returns the currently selected session.
func (a *App) ActiveSession() *chat.ChatSession {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sessions.Active()
}

// ActiveID returns the id of the currently selected session.
func (a *App) ActiveID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sessions.ActiveID()
}

// UserName returns the learner's name, if one was entered.
func (a *App) UserName() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.userName
}

// SetUserName records and persists the learner's name.
func (a *App) SetUserName(ctx context.Context, name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.userName = name
	a.saveUserNameLocked(ctx)
}

// NewChat creates a fresh session and makes it active.
func (a *App) NewChat(ctx context.Context) *chat.ChatSession {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.sessions.CreateSession(chat.DifficultyIntermediate)
	a.saveSessionsLocked(ctx)
	return s
}

// SelectChat switches the active session. Unknown ids are ignored.
func (a *App) SelectChat(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sessions.SelectSession(id)
}

// DeleteChat removes a session. The store guarantees a session always
// remains; deleting the last one leaves a fresh empty chat.
func (a *App) DeleteChat(ctx context.Context, id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sessions.DeleteSession(id)
	a.saveSessionsLocked(ctx)
}

// ChangeDifficulty switches the active session's difficulty. The
// conversation restarts: messages are cleared, the title is kept.
func (a *App) ChangeDifficulty(ctx context.Context, d chat.Difficulty) {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.sessions.ActiveID()
	if id == "" || a.busy[id] != "" {
		return
	}
	a.sessions.ChangeDifficulty(id, d)
	a.saveSessionsLocked(ctx)
}

// SendMessage appends the user's message to the active session, streams
// the tutor's reply into a model message, and awards XP for the send.
// onUpdate is invoked after each streamed fragment is applied, so the UI
// can redraw; it may be nil.
func (a *App) SendMessage(ctx context.Context, text string, attachment *chat.Part, onUpdate func()) error {
	a.mu.Lock()
	sess := a.sessions.Active()
	if sess == nil {
		a.mu.Unlock()
		return fmt.Errorf("no active session")
	}
	id := sess.ID
	if a.busy[id] != "" {
		a.mu.Unlock()
		return ErrBusy
	}
	a.busy[id] = PhaseChat
	a.errMsg = ""

	parts := []chat.Part{chat.TextPart(text)}
	if attachment != nil {
		parts = append(parts, *attachment)
	}
	a.sessions.AppendMessage(id, chat.ChatMessage{Role: chat.RoleUser, Parts: parts})
	a.awardXPLocked(ctx, gamification.XPMessageSent, "Sent a message")

	difficulty := sess.Difficulty
	history := make([]chat.ChatMessage, len(sess.Messages))
	copy(history, sess.Messages)

	// Placeholder the stream writes into.
	a.sessions.AppendMessage(id, chat.ChatMessage{Role: chat.RoleModel, Parts: []chat.Part{chat.TextPart("")}})
	a.saveSessionsLocked(ctx)
	a.mu.Unlock()

	if onUpdate != nil {
		onUpdate()
	}

	var full strings.Builder
	_, err := a.assistant.StreamReply(ctx, difficulty, history, func(delta string) {
		full.WriteString(delta)
		a.mu.Lock()
		// Bound to the session id captured at send time: if the session
		// was deleted meanwhile, the store ignores the write.
		a.sessions.UpdateLastMessageText(id, full.String())
		a.mu.Unlock()
		if onUpdate != nil {
			onUpdate()
		}
	})

	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.busy, id)

	if err != nil {
		a.errMsg = err.Error()
		a.appendFailureLocked(id, err.Error(), full.Len() == 0)
	}
	a.saveSessionsLocked(ctx)

	if onUpdate != nil {
		onUpdate()
	}
	return err
}

// Summarize asks the tutor for a bullet-point recap of the last topic.
// It behaves exactly like the learner typing the request.
func (a *App) Summarize(ctx context.Context, onUpdate func()) error {
	return a.SendMessage(ctx, assistant.SummaryPrompt, nil, onUpdate)
}

// RequestQuiz generates a three-question quiz about the tutor's last
// explanation and attaches it to a new model message. Quizzes are
// all-or-nothing: on failure no quiz appears, only an apology.
func (a *App) RequestQuiz(ctx context.Context) error {
	a.mu.Lock()
	sess := a.sessions.Active()
	if sess == nil {
		a.mu.Unlock()
		return fmt.Errorf("no active session")
	}
	id := sess.ID
	if a.busy[id] != "" {
		a.mu.Unlock()
		return ErrBusy
	}
	a.busy[id] = PhaseQuiz

	topic := ExtractTopic(sess)
	a.sessions.AppendMessage(id, chat.ChatMessage{
		Role:  chat.RoleUser,
		Parts: []chat.Part{chat.TextPart("Can you quiz for me?")},
	})
	a.saveSessionsLocked(ctx)
	a.mu.Unlock()

	questions, err := a.quizzes.Generate(ctx, topic)

	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.busy, id)

	if err != nil {
		a.appendFailureLocked(id, "Failed to generate a quiz.", false)
		a.saveSessionsLocked(ctx)
		return err
	}

	a.sessions.AppendMessage(id, chat.ChatMessage{
		Role:  chat.RoleModel,
		Parts: []chat.Part{chat.TextPart("Here's a quiz on the topic:")},
		Quiz:  questions,
	})
	a.performance = performance.RecordQuizStarted(a.performance)
	a.quizProgress = performance.QuizProgress{}
	a.saveSessionsLocked(ctx)
	a.savePerformanceLocked(ctx)
	return nil
}

// RequestFlashcards generates a five-card study set about the tutor's
// last explanation and awards XP on success. The cards are view state,
// not part of the transcript.
func (a *App) RequestFlashcards(ctx context.Context) error {
	a.mu.Lock()
	sess := a.sessions.Active()
	if sess == nil {
		a.mu.Unlock()
		return fmt.Errorf("no active session")
	}
	id := sess.ID
	if a.busy[id] != "" {
		a.mu.Unlock()
		return ErrBusy
	}
	a.busy[id] = PhaseFlashcards

	topic := ExtractTopic(sess)
	a.sessions.AppendMessage(id, chat.ChatMessage{
		Role:  chat.RoleUser,
		Parts: []chat.Part{chat.TextPart("Can you flashcards for me?")},
	})
	a.saveSessionsLocked(ctx)
	a.mu.Unlock()

	cards, err := a.cards.Generate(ctx, topic)

	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.busy, id)

	if err != nil {
		a.appendFailureLocked(id, "Failed to generate flashcards.", false)
		a.saveSessionsLocked(ctx)
		return err
	}

	a.flashcards = cards
	a.sessions.AppendMessage(id, chat.ChatMessage{
		Role:  chat.RoleModel,
		Parts: []chat.Part{chat.TextPart("I've created flashcards for you.")},
	})
	a.awardXPLocked(ctx, gamification.XPFlashcards, "Flashcards created")
	a.saveSessionsLocked(ctx)
	return nil
}

// AnswerQuizQuestion records one quiz answer. Correct answers earn XP;
// the third answer completes the quiz, banks its accuracy, and earns a
// completion bonus.
func (a *App) AnswerQuizQuestion(ctx context.Context, isCorrect bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if isCorrect {
		a.awardXPLocked(ctx, gamification.XPCorrectAnswer, "Correct answer")
		a.quizProgress.Correct++
	}
	a.performance = performance.RecordAnswer(a.performance, isCorrect)
	a.quizProgress.Answered++

	if a.quizProgress.Answered == performance.QuizLength {
		a.awardXPLocked(ctx, gamification.XPQuizCompleted, "Quiz completed!")
		acc := performance.Accuracy(a.quizProgress.Correct, performance.QuizLength)
		a.performance = performance.RecordQuizCompleted(a.performance, acc)
		a.quizProgress = performance.QuizProgress{}
	}

	a.savePerformanceLocked(ctx)
}

// SetFeedback records a like/dislike on a model message in the active
// session. Repeating the same feedback clears it.
func (a *App) SetFeedback(ctx context.Context, messageIndex int, fb chat.Feedback) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sessions.SetFeedback(a.sessions.ActiveID(), messageIndex, fb)
	a.saveSessionsLocked(ctx)
}

// ResetStats zeroes performance and gamification state in one step.
func (a *App) ResetStats(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.performance = performance.NewStats()
	a.quizProgress = performance.QuizProgress{}
	a.gamification = gamification.NewStats()
	a.savePerformanceLocked(ctx)
	a.saveGamificationLocked(ctx)
}

// PerformanceStats returns a copy of the accumulated quiz stats.
func (a *App) PerformanceStats() performance.Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.performance
}

// GamificationStats returns the current XP and level.
func (a *App) GamificationStats() gamification.Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gamification
}

// QuizProgress returns the in-flight quiz tally.
func (a *App) QuizProgress() performance.QuizProgress {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.quizProgress
}

// Flashcards returns the most recently generated card set, or nil.
func (a *App) Flashcards() []chat.Flashcard {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.flashcards
}

// Busy reports whether the active session has an operation in flight.
func (a *App) Busy() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.busy[a.sessions.ActiveID()] != ""
}

// BusyPhase returns the in-flight phase for a session, or "".
func (a *App) BusyPhase(sessionID string) Phase {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.busy[sessionID]
}

// Error returns the dismissible error banner text, or "".
func (a *App) Error() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.errMsg
}

// ClearError dismisses the error banner.
func (a *App) ClearError() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errMsg = ""
}

// DrainNotifications returns pending toasts and clears the queue.
func (a *App) DrainNotifications() []Notification {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := a.notifications
	a.notifications = nil
	return out
}

// awardXPLocked grants XP, queues the toast, and persists. A single award
// crosses at most one level boundary.
func (a *App) awardXPLocked(ctx context.Context, amount int, reason string) {
	a.notifications = append(a.notifications, Notification{
		Message: fmt.Sprintf("+%d XP: %s", amount, reason),
		Kind:    NotifyXP,
	})

	stats, leveled, level := gamification.AwardXP(a.gamification, amount)
	a.gamification = stats
	if leveled {
		a.notifications = append(a.notifications, Notification{
			Message: fmt.Sprintf("LEVEL UP! You are now Level %d!", level),
			Kind:    NotifyLevelUp,
		})
	}

	a.saveGamificationLocked(ctx)
}

// appendFailureLocked surfaces a failure in the transcript. When the
// stream placeholder is still empty it is reused, otherwise a new model
// message is appended.
func (a *App) appendFailureLocked(sessionID, detail string, reusePlaceholder bool) {
	text := fmt.Sprintf("Sorry, something went wrong: %s", detail)
	if reusePlaceholder {
		if sess := a.sessions.Get(sessionID); sess != nil && len(sess.Messages) > 0 {
			last := sess.Messages[len(sess.Messages)-1]
			if last.Role == chat.RoleModel && last.Text() == "" {
				a.sessions.UpdateLastMessageText(sessionID, text)
				return
			}
		}
	}
	a.sessions.AppendMessage(sessionID, chat.ChatMessage{
		Role:  chat.RoleModel,
		Parts: []chat.Part{chat.TextPart(text)},
	})
}
