package tutorchat

import (
	"context"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/mkale/sparky/internal/chat"
	"github.com/mkale/sparky/internal/router"
	"github.com/mkale/sparky/internal/screen"
	"github.com/mkale/sparky/internal/screens/flashcards"
	"github.com/mkale/sparky/internal/tutor"
	"github.com/mkale/sparky/internal/ui/components"
	"github.com/mkale/sparky/internal/ui/layout"
)

// focusArea selects which pane receives key input.
type focusArea int

const (
	focusInput focusArea = iota
	focusSessions
	focusQuiz
)

const toastDuration = 3 * time.Second

// ChatScreen is the tutoring conversation screen: a sidebar of sessions,
// the transcript, the input line, and inline quiz answering.
type ChatScreen struct {
	app     *tutor.App
	input   components.TextInput
	updates chan struct{}

	focus      focusArea
	sessionSel int

	mc        components.MultiChoice
	quiz      []chat.QuizQuestion
	quizIndex int

	toasts []tutor.Notification
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)
var _ screen.EscHandler = (*ChatScreen)(nil)

// New creates a ChatScreen bound to the tutoring orchestrator.
func New(app *tutor.App) *ChatScreen {
	return &ChatScreen{
		app:     app,
		input:   components.NewTextInput("Ask me anything...", false, 500),
		updates: make(chan struct{}, 1),
	}
}

func (s *ChatScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *ChatScreen) Title() string {
	if sess := s.app.ActiveSession(); sess != nil {
		return sess.Title
	}
	return "Tutoring"
}

func (s *ChatScreen) KeyHints() []layout.KeyHint {
	switch s.focus {
	case focusSessions:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Select"},
			{Key: "Enter", Description: "Open"},
			{Key: "n", Description: "New chat"},
			{Key: "d", Description: "Delete"},
			{Key: "Esc", Description: "Back"},
		}
	case focusQuiz:
		if s.mc.Submitted {
			return []layout.KeyHint{
				{Key: "any key", Description: "Continue"},
			}
		}
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Select"},
			{Key: "Enter", Description: "Answer"},
			{Key: "Esc", Description: "Leave quiz"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "^Q", Description: "Quiz"},
		{Key: "^F", Description: "Flashcards"},
		{Key: "^S", Description: "Summary"},
		{Key: "^D", Description: "Difficulty"},
		{Key: "^L", Description: "Chats"},
		{Key: "^G/^B", Description: "Rate reply"},
	}
}

// HandleEsc consumes esc for the sidebar and quiz panes. From the input
// pane esc falls through and pops back to the home screen.
func (s *ChatScreen) HandleEsc() (bool, tea.Cmd) {
	switch s.focus {
	case focusSessions, focusQuiz:
		s.focus = focusInput
		return true, nil
	}
	return false, nil
}

func (s *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case streamUpdateMsg:
		var cmd tea.Cmd
		if s.app.Busy() {
			cmd = s.waitForUpdate()
		}
		return s, tea.Batch(cmd, s.drainToasts())

	case opDoneMsg:
		return s.handleOpDone(msg)

	case toastExpireMsg:
		if len(s.toasts) > 0 {
			s.toasts = s.toasts[1:]
		}
		return s, nil

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.focus == focusInput {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ChatScreen) handleOpDone(msg opDoneMsg) (screen.Screen, tea.Cmd) {
	cmds := []tea.Cmd{s.drainToasts()}

	if msg.Err == nil {
		switch msg.Phase {
		case tutor.PhaseQuiz:
			if questions := s.latestQuiz(); questions != nil {
				s.quiz = questions
				s.quizIndex = 0
				s.mc = newQuizChoice(questions[0])
				s.focus = focusQuiz
			}
		case tutor.PhaseFlashcards:
			if cards := s.app.Flashcards(); len(cards) > 0 {
				cmds = append(cmds, func() tea.Msg {
					return router.PushScreenMsg{Screen: flashcards.New(cards)}
				})
			}
		}
	}

	return s, tea.Batch(cmds...)
}

func (s *ChatScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch s.focus {
	case focusSessions:
		return s.handleSessionsKey(msg)
	case focusQuiz:
		return s.handleQuizKey(msg)
	}
	return s.handleInputKey(msg)
}

func (s *ChatScreen) handleInputKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := strings.TrimSpace(s.input.Value())
		if text == "" || s.app.Busy() {
			return s, nil
		}
		s.input = components.NewTextInput("Ask me anything...", false, 500)
		return s, tea.Batch(s.startSend(text), s.input.Init())

	case "ctrl+q":
		if s.app.Busy() {
			return s, nil
		}
		return s, s.startQuiz()

	case "ctrl+f":
		if s.app.Busy() {
			return s, nil
		}
		return s, s.startFlashcards()

	case "ctrl+s":
		if s.app.Busy() {
			return s, nil
		}
		return s, s.startSummary()

	case "ctrl+d":
		s.cycleDifficulty()
		return s, nil

	case "ctrl+n":
		s.app.NewChat(context.Background())
		s.sessionSel = 0
		return s, nil

	case "ctrl+l":
		s.focus = focusSessions
		s.sessionSel = s.activeSessionIndex()
		return s, nil

	case "ctrl+v":
		if cards := s.app.Flashcards(); len(cards) > 0 {
			return s, func() tea.Msg {
				return router.PushScreenMsg{Screen: flashcards.New(cards)}
			}
		}
		return s, nil

	case "ctrl+g":
		s.rateLastReply(chat.FeedbackLike)
		return s, nil

	case "ctrl+b":
		s.rateLastReply(chat.FeedbackDislike)
		return s, nil

	case "ctrl+x":
		s.app.ClearError()
		return s, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ChatScreen) handleSessionsKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	sessions := s.app.Sessions()
	switch msg.String() {
	case "up", "k":
		if s.sessionSel > 0 {
			s.sessionSel--
		}
	case "down", "j":
		if s.sessionSel < len(sessions)-1 {
			s.sessionSel++
		}
	case "enter":
		if s.sessionSel >= 0 && s.sessionSel < len(sessions) {
			s.app.SelectChat(sessions[s.sessionSel].ID)
			s.focus = focusInput
		}
	case "n":
		s.app.NewChat(context.Background())
		s.sessionSel = 0
	case "d":
		if s.sessionSel >= 0 && s.sessionSel < len(sessions) {
			s.app.DeleteChat(context.Background(), sessions[s.sessionSel].ID)
			if s.sessionSel > 0 {
				s.sessionSel--
			}
		}
	case "ctrl+l":
		s.focus = focusInput
	}
	return s, nil
}

func (s *ChatScreen) handleQuizKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.mc.Submitted {
		// Any key advances to the next question or back to the chat.
		s.quizIndex++
		if s.quizIndex < len(s.quiz) {
			s.mc = newQuizChoice(s.quiz[s.quizIndex])
		} else {
			s.quiz = nil
			s.focus = focusInput
		}
		return s, s.drainToasts()
	}

	before := s.mc.Submitted
	var cmd tea.Cmd
	s.mc, cmd = s.mc.Update(msg)
	if !before && s.mc.Submitted {
		s.app.AnswerQuizQuestion(context.Background(), s.mc.IsCorrect())
		return s, tea.Batch(cmd, s.drainToasts())
	}
	return s, cmd
}

// startSend launches the streamed reply. The "/attach <path>" prefix sends
// the named file along with the rest of the line.
func (s *ChatScreen) startSend(text string) tea.Cmd {
	var attachment *chat.Part
	if rest, ok := strings.CutPrefix(text, "/attach "); ok {
		fields := strings.SplitN(strings.TrimSpace(rest), " ", 2)
		if part, err := loadAttachment(fields[0]); err == nil {
			attachment = &part
			text = ""
			if len(fields) == 2 {
				text = fields[1]
			}
			if text == "" {
				text = "Please take a look at this."
			}
		}
	}

	op := func() tea.Msg {
		err := s.app.SendMessage(context.Background(), text, attachment, s.signalUpdate)
		return opDoneMsg{Phase: tutor.PhaseChat, Err: err}
	}
	return tea.Batch(op, s.waitForUpdate())
}

func (s *ChatScreen) startQuiz() tea.Cmd {
	op := func() tea.Msg {
		err := s.app.RequestQuiz(context.Background())
		return opDoneMsg{Phase: tutor.PhaseQuiz, Err: err}
	}
	return tea.Batch(op, s.waitForUpdate())
}

func (s *ChatScreen) startFlashcards() tea.Cmd {
	op := func() tea.Msg {
		err := s.app.RequestFlashcards(context.Background())
		return opDoneMsg{Phase: tutor.PhaseFlashcards, Err: err}
	}
	return tea.Batch(op, s.waitForUpdate())
}

func (s *ChatScreen) startSummary() tea.Cmd {
	op := func() tea.Msg {
		err := s.app.Summarize(context.Background(), s.signalUpdate)
		return opDoneMsg{Phase: tutor.PhaseChat, Err: err}
	}
	return tea.Batch(op, s.waitForUpdate())
}

// signalUpdate nudges the UI from the orchestrator's callback. The channel
// holds one pending signal; extra ones collapse into it.
func (s *ChatScreen) signalUpdate() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}

func (s *ChatScreen) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		<-s.updates
		return streamUpdateMsg{}
	}
}

func (s *ChatScreen) drainToasts() tea.Cmd {
	fresh := s.app.DrainNotifications()
	if len(fresh) == 0 {
		return nil
	}
	s.toasts = append(s.toasts, fresh...)
	var cmds []tea.Cmd
	for range fresh {
		cmds = append(cmds, tea.Tick(toastDuration, func(time.Time) tea.Msg {
			return toastExpireMsg{}
		}))
	}
	return tea.Batch(cmds...)
}

func (s *ChatScreen) cycleDifficulty() {
	sess := s.app.ActiveSession()
	if sess == nil {
		return
	}
	for i, d := range chat.Difficulties {
		if d == sess.Difficulty {
			next := chat.Difficulties[(i+1)%len(chat.Difficulties)]
			s.app.ChangeDifficulty(context.Background(), next)
			return
		}
	}
	s.app.ChangeDifficulty(context.Background(), chat.DifficultyIntermediate)
}

func (s *ChatScreen) rateLastReply(fb chat.Feedback) {
	sess := s.app.ActiveSession()
	if sess == nil {
		return
	}
	for i := len(sess.Messages) - 1; i >= 0; i-- {
		if sess.Messages[i].Role == chat.RoleModel {
			s.app.SetFeedback(context.Background(), i, fb)
			return
		}
	}
}

// latestQuiz returns the quiz attached to the newest model message.
func (s *ChatScreen) latestQuiz() []chat.QuizQuestion {
	sess := s.app.ActiveSession()
	if sess == nil {
		return nil
	}
	for i := len(sess.Messages) - 1; i >= 0; i-- {
		if len(sess.Messages[i].Quiz) > 0 {
			return sess.Messages[i].Quiz
		}
	}
	return nil
}

func (s *ChatScreen) activeSessionIndex() int {
	id := s.app.ActiveID()
	for i, sess := range s.app.Sessions() {
		if sess.ID == id {
			return i
		}
	}
	return 0
}

func newQuizChoice(q chat.QuizQuestion) components.MultiChoice {
	return components.NewMultiChoice(q.Question, q.Options, q.CorrectAnswerIndex)
}

// loadAttachment reads a file into an inline binary part, sniffing the
// MIME type from the extension first and the content as a fallback.
func loadAttachment(path string) (chat.Part, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return chat.Part{}, err
	}
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return chat.BinaryPart(mimeType, data), nil
}
