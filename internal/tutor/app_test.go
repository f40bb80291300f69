package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mkale/sparky/internal/chat"
	"github.com/mkale/sparky/internal/llm"
	"github.com/mkale/sparky/internal/store"
)

func testStateRepo(t *testing.T) store.StateRepo {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s.StateRepo()
}

func newTestApp(t *testing.T, responses ...llm.MockResponse) (*App, *llm.MockProvider) {
	t.Helper()
	mock := llm.NewMockProvider(responses...)
	app := New(mock, testStateRepo(t))
	app.Load(context.Background())
	return app, mock
}

func reply(text string) llm.MockResponse {
	return llm.MockResponse{Content: json.RawMessage(text)}
}

func TestLoad_CreatesSessionWhenEmpty(t *testing.T) {
	app, _ := newTestApp(t)

	sess := app.ActiveSession()
	if sess == nil {
		t.Fatal("no active session after load")
	}
	if sess.Title != chat.DefaultTitle {
		t.Errorf("title = %q", sess.Title)
	}
	if sess.Difficulty != chat.DifficultyIntermediate {
		t.Errorf("difficulty = %q", sess.Difficulty)
	}
}

func TestSendMessage_AppendsBothTurnsAndAwardsXP(t *testing.T) {
	app, _ := newTestApp(t, reply("A fraction is part of a whole."))
	ctx := context.Background()

	if err := app.SendMessage(ctx, "What is a fraction?", nil, nil); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	sess := app.ActiveSession()
	if len(sess.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(sess.Messages))
	}
	if sess.Messages[0].Role != chat.RoleUser || sess.Messages[0].Text() != "What is a fraction?" {
		t.Errorf("user turn = %+v", sess.Messages[0])
	}
	if sess.Messages[1].Role != chat.RoleModel || sess.Messages[1].Text() != "A fraction is part of a whole." {
		t.Errorf("model turn = %+v", sess.Messages[1])
	}
	if sess.Title != "What is a fraction?" {
		t.Errorf("title = %q", sess.Title)
	}

	gam := app.GamificationStats()
	if gam.XP != 5 {
		t.Errorf("XP = %d, want 5", gam.XP)
	}
}

func TestSendMessage_StreamsIncrementally(t *testing.T) {
	app, _ := newTestApp(t, llm.MockResponse{
		Deltas:  []string{"Hello ", "there!"},
		Content: json.RawMessage(`Hello there!`),
	})

	var snapshots []string
	err := app.SendMessage(context.Background(), "hi", nil, func() {
		if sess := app.ActiveSession(); len(sess.Messages) == 2 {
			snapshots = append(snapshots, sess.Messages[1].Text())
		}
	})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	joined := strings.Join(snapshots, "|")
	if !strings.Contains(joined, "Hello ") {
		t.Errorf("no partial snapshot observed: %q", joined)
	}
	if snapshots[len(snapshots)-1] != "Hello there!" {
		t.Errorf("final snapshot = %q", snapshots[len(snapshots)-1])
	}
}

func TestSendMessage_AttachmentForwarded(t *testing.T) {
	app, mock := newTestApp(t, reply("I see a triangle."))

	part := chat.BinaryPart("image/png", []byte{9, 9})
	if err := app.SendMessage(context.Background(), "what shape is this?", &part, nil); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	sent := mock.Calls[0].Messages
	last := sent[len(sent)-1]
	if len(last.Attachments) != 1 || last.Attachments[0].MIMEType != "image/png" {
		t.Errorf("attachment not forwarded: %+v", last.Attachments)
	}
}

func TestSendMessage_FailureFillsPlaceholderAndSetsError(t *testing.T) {
	app, _ := newTestApp(t, llm.MockResponse{
		Err: &llm.ErrProviderUnavailable{Err: errors.New("boom")},
	})

	err := app.SendMessage(context.Background(), "hello", nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}

	sess := app.ActiveSession()
	if len(sess.Messages) != 2 {
		t.Fatalf("got %d messages, want user turn + apology", len(sess.Messages))
	}
	apology := sess.Messages[1].Text()
	if !strings.HasPrefix(apology, "Sorry, something went wrong: ") {
		t.Errorf("apology = %q", apology)
	}
	if app.Error() == "" {
		t.Error("error banner not set")
	}

	app.ClearError()
	if app.Error() != "" {
		t.Error("error banner not cleared")
	}
}

func TestSendMessage_BusySessionRejected(t *testing.T) {
	app, _ := newTestApp(t, reply("ok"))
	ctx := context.Background()

	id := app.ActiveID()
	app.mu.Lock()
	app.busy[id] = PhaseQuiz
	app.mu.Unlock()

	if err := app.SendMessage(ctx, "hi", nil, nil); !errors.Is(err, ErrBusy) {
		t.Fatalf("err = %v, want ErrBusy", err)
	}

	sess := app.ActiveSession()
	if len(sess.Messages) != 0 {
		t.Errorf("busy session mutated: %d messages", len(sess.Messages))
	}
}

func TestSendMessage_DeletingSessionMidStreamIsSafe(t *testing.T) {
	app, _ := newTestApp(t, llm.MockResponse{
		Deltas:  []string{"one", "two", "three"},
		Content: json.RawMessage(`onetwothree`),
	})
	ctx := context.Background()

	originalID := app.ActiveID()
	deleted := false
	err := app.SendMessage(ctx, "hi", nil, func() {
		if !deleted {
			deleted = true
			app.DeleteChat(ctx, originalID)
		}
	})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	// Late deltas were bound to the deleted id and dropped; the
	// replacement session is untouched.
	if app.ActiveID() == originalID {
		t.Fatal("session not replaced")
	}
	if n := len(app.ActiveSession().Messages); n != 0 {
		t.Errorf("replacement session has %d messages, want 0", n)
	}
}

const quizJSON = `{"questions":[
	{"question":"Q1","options":["a","b"],"correctAnswerIndex":0,"explanation":"e1"},
	{"question":"Q2","options":["a","b"],"correctAnswerIndex":1,"explanation":"e2"},
	{"question":"Q3","options":["a","b"],"correctAnswerIndex":0,"explanation":"e3"}
]}`

func seedConversation(t *testing.T, app *App) {
	t.Helper()
	if err := app.SendMessage(context.Background(), "Teach me about gravity", nil, nil); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestRequestQuiz_AttachesQuizAndCountsIt(t *testing.T) {
	app, mock := newTestApp(t,
		reply("Gravity pulls masses together."),
		llm.MockResponse{Content: json.RawMessage(quizJSON)},
	)
	ctx := context.Background()
	seedConversation(t, app)

	if err := app.RequestQuiz(ctx); err != nil {
		t.Fatalf("RequestQuiz: %v", err)
	}

	sess := app.ActiveSession()
	msgs := sess.Messages
	if msgs[len(msgs)-2].Text() != "Can you quiz for me?" {
		t.Errorf("synthetic user turn = %q", msgs[len(msgs)-2].Text())
	}
	last := msgs[len(msgs)-1]
	if last.Text() != "Here's a quiz on the topic:" || len(last.Quiz) != 3 {
		t.Errorf("quiz message = %+v", last)
	}
	if app.PerformanceStats().QuizzesTaken != 1 {
		t.Errorf("QuizzesTaken = %d", app.PerformanceStats().QuizzesTaken)
	}

	// Topic comes from the tutor's last explanation.
	quizPrompt := mock.Calls[1].Messages[0].Content
	if !strings.Contains(quizPrompt, "Gravity pulls masses together.") {
		t.Errorf("quiz prompt missing topic: %q", quizPrompt)
	}
}

func TestRequestQuiz_FailureLeavesApologyOnly(t *testing.T) {
	app, _ := newTestApp(t,
		reply("Gravity pulls masses together."),
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}},
	)
	ctx := context.Background()
	seedConversation(t, app)

	if err := app.RequestQuiz(ctx); err == nil {
		t.Fatal("expected error")
	}

	msgs := app.ActiveSession().Messages
	last := msgs[len(msgs)-1]
	if last.Text() != "Sorry, something went wrong: Failed to generate a quiz." {
		t.Errorf("apology = %q", last.Text())
	}
	if last.Quiz != nil {
		t.Error("partial quiz attached")
	}
	if app.PerformanceStats().QuizzesTaken != 0 {
		t.Error("failed quiz counted")
	}
}

func TestRequestQuiz_NoTutorReplyUsesFallbackTopic(t *testing.T) {
	app, mock := newTestApp(t, llm.MockResponse{Content: json.RawMessage(quizJSON)})

	if err := app.RequestQuiz(context.Background()); err != nil {
		t.Fatalf("RequestQuiz: %v", err)
	}

	prompt := mock.Calls[0].Messages[0].Content
	if !strings.Contains(prompt, `"the current topic"`) {
		t.Errorf("fallback topic not used: %q", prompt)
	}
}

const cardsJSON = `{"flashcards":[
	{"front":"f1","back":"b1"},{"front":"f2","back":"b2"},{"front":"f3","back":"b3"},
	{"front":"f4","back":"b4"},{"front":"f5","back":"b5"}
]}`

func TestRequestFlashcards_SetsCardsAndAwardsXP(t *testing.T) {
	app, _ := newTestApp(t,
		reply("Photosynthesis converts light to sugar."),
		llm.MockResponse{Content: json.RawMessage(cardsJSON)},
	)
	ctx := context.Background()
	seedConversation(t, app)
	xpBefore := app.GamificationStats().XP

	if err := app.RequestFlashcards(ctx); err != nil {
		t.Fatalf("RequestFlashcards: %v", err)
	}

	if len(app.Flashcards()) != 5 {
		t.Errorf("got %d cards", len(app.Flashcards()))
	}
	msgs := app.ActiveSession().Messages
	if msgs[len(msgs)-1].Text() != "I've created flashcards for you." {
		t.Errorf("confirmation = %q", msgs[len(msgs)-1].Text())
	}
	if got := app.GamificationStats().XP - xpBefore; got != 30 {
		t.Errorf("flashcard XP = %d, want 30", got)
	}
}

func TestRequestFlashcards_FailureLeavesNoCards(t *testing.T) {
	app, _ := newTestApp(t,
		reply("Some explanation."),
		llm.MockResponse{Err: &llm.ErrInvalidResponse{Err: errors.New("bad")}},
	)
	ctx := context.Background()
	seedConversation(t, app)

	if err := app.RequestFlashcards(ctx); err == nil {
		t.Fatal("expected error")
	}
	if app.Flashcards() != nil {
		t.Error("cards set despite failure")
	}
	msgs := app.ActiveSession().Messages
	if msgs[len(msgs)-1].Text() != "Sorry, something went wrong: Failed to generate flashcards." {
		t.Errorf("apology = %q", msgs[len(msgs)-1].Text())
	}
}

func TestAnswerQuizQuestion_FullQuizFlow(t *testing.T) {
	app, _ := newTestApp(t)
	ctx := context.Background()

	app.AnswerQuizQuestion(ctx, true)
	app.AnswerQuizQuestion(ctx, false)

	progress := app.QuizProgress()
	if progress.Answered != 2 || progress.Correct != 1 {
		t.Fatalf("progress = %+v", progress)
	}

	app.AnswerQuizQuestion(ctx, true)

	perf := app.PerformanceStats()
	if perf.Correct != 2 || perf.Incorrect != 1 {
		t.Errorf("counts = %d/%d", perf.Correct, perf.Incorrect)
	}
	if len(perf.AccuracyHistory) != 1 || perf.AccuracyHistory[0] != 67 {
		t.Errorf("history = %v, want [67]", perf.AccuracyHistory)
	}
	if p := app.QuizProgress(); p.Answered != 0 || p.Correct != 0 {
		t.Errorf("progress not reset: %+v", p)
	}

	// 2 correct answers (25 each) + completion bonus (50) = 100 XP.
	if xp := app.GamificationStats().XP; xp != 100 {
		t.Errorf("XP = %d, want 100", xp)
	}
}

func TestAnswerQuizQuestion_LevelUpNotification(t *testing.T) {
	app, _ := newTestApp(t)
	ctx := context.Background()

	// 6 correct answers plus two completion bonuses cross the level 1
	// threshold exactly once.
	for range 6 {
		app.AnswerQuizQuestion(ctx, true)
	}

	notes := app.DrainNotifications()
	var levelUps int
	for _, n := range notes {
		if n.Kind == NotifyLevelUp {
			levelUps++
			if !strings.Contains(n.Message, "Level 2") {
				t.Errorf("level-up toast = %q", n.Message)
			}
		}
	}
	if levelUps != 1 {
		t.Errorf("got %d level-up toasts, want 1", levelUps)
	}
	if app.GamificationStats().Level != 2 {
		t.Errorf("level = %d", app.GamificationStats().Level)
	}

	if len(app.DrainNotifications()) != 0 {
		t.Error("drain did not clear the queue")
	}
}

func TestResetStats_ZeroesEverything(t *testing.T) {
	app, _ := newTestApp(t)
	ctx := context.Background()

	for range 4 {
		app.AnswerQuizQuestion(ctx, true)
	}
	app.ResetStats(ctx)

	if perf := app.PerformanceStats(); perf.Correct != 0 || len(perf.AccuracyHistory) != 0 {
		t.Errorf("performance not reset: %+v", perf)
	}
	if gam := app.GamificationStats(); gam.XP != 0 || gam.Level != 1 {
		t.Errorf("gamification not reset: %+v", gam)
	}
	if p := app.QuizProgress(); p.Answered != 0 {
		t.Errorf("quiz progress not reset: %+v", p)
	}
}

func TestSetFeedback_TogglesOnModelMessage(t *testing.T) {
	app, _ := newTestApp(t, reply("Some reply."))
	ctx := context.Background()
	seedConversation(t, app)

	app.SetFeedback(ctx, 1, chat.FeedbackLike)
	if fb := app.ActiveSession().Messages[1].Feedback; fb != chat.FeedbackLike {
		t.Errorf("feedback = %q", fb)
	}
	app.SetFeedback(ctx, 1, chat.FeedbackLike)
	if fb := app.ActiveSession().Messages[1].Feedback; fb != chat.FeedbackNone {
		t.Errorf("feedback not toggled off: %q", fb)
	}
}

func TestChangeDifficulty_ClearsMessagesKeepsTitle(t *testing.T) {
	app, _ := newTestApp(t, reply("ok"))
	ctx := context.Background()
	seedConversation(t, app)
	title := app.ActiveSession().Title

	app.ChangeDifficulty(ctx, chat.DifficultyExpert)

	sess := app.ActiveSession()
	if sess.Difficulty != chat.DifficultyExpert {
		t.Errorf("difficulty = %q", sess.Difficulty)
	}
	if len(sess.Messages) != 0 {
		t.Errorf("messages not cleared: %d", len(sess.Messages))
	}
	if sess.Title != title {
		t.Errorf("title changed: %q -> %q", title, sess.Title)
	}
}

func TestPersistence_SurvivesRestart(t *testing.T) {
	repo := testStateRepo(t)
	ctx := context.Background()

	app := New(llm.NewMockProvider(reply("Persisted reply.")), repo)
	app.Load(ctx)
	if err := app.SendMessage(ctx, "remember this", nil, nil); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	app.AnswerQuizQuestion(ctx, true)
	app.SetUserName(ctx, "Maya")

	// Fresh app over the same repo simulates a restart.
	restarted := New(llm.NewMockProvider(), repo)
	restarted.Load(ctx)

	sess := restarted.ActiveSession()
	if sess == nil || len(sess.Messages) != 2 {
		t.Fatalf("sessions not restored: %+v", sess)
	}
	if sess.Messages[1].Text() != "Persisted reply." {
		t.Errorf("restored reply = %q", sess.Messages[1].Text())
	}
	if restarted.PerformanceStats().Correct != 1 {
		t.Errorf("performance not restored")
	}
	if restarted.GamificationStats().XP != 30 {
		t.Errorf("XP = %d, want 30", restarted.GamificationStats().XP)
	}
	if restarted.UserName() != "Maya" {
		t.Errorf("name = %q", restarted.UserName())
	}
}

func TestPersistence_CorruptBlobFallsBackToDefaults(t *testing.T) {
	repo := testStateRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, store.KeyGamificationStats, []byte(`{broken`)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	app := New(llm.NewMockProvider(), repo)
	app.Load(ctx)

	if gam := app.GamificationStats(); gam.Level != 1 || gam.XP != 0 {
		t.Errorf("defaults not applied: %+v", gam)
	}
}

func TestSummarize_SendsCannedPrompt(t *testing.T) {
	app, _ := newTestApp(t, reply("- point one\n- point two"))

	if err := app.Summarize(context.Background(), nil); err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	msgs := app.ActiveSession().Messages
	if !strings.Contains(msgs[0].Text(), "concise summary") {
		t.Errorf("summary prompt = %q", msgs[0].Text())
	}
}

func TestExtractTopic(t *testing.T) {
	sess := &chat.ChatSession{
		Messages: []chat.ChatMessage{
			{Role: chat.RoleUser, Parts: []chat.Part{chat.TextPart("question")}},
			{Role: chat.RoleModel, Parts: []chat.Part{chat.TextPart("first answer")}},
			{Role: chat.RoleUser, Parts: []chat.Part{chat.TextPart("another question")}},
			{Role: chat.RoleModel, Parts: []chat.Part{chat.TextPart("latest answer")}},
		},
	}
	if got := ExtractTopic(sess); got != "latest answer" {
		t.Errorf("topic = %q", got)
	}

	if got := ExtractTopic(&chat.ChatSession{}); got != fallbackTopic {
		t.Errorf("empty session topic = %q", got)
	}
	if got := ExtractTopic(nil); got != fallbackTopic {
		t.Errorf("nil session topic = %q", got)
	}
}
