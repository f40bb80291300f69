package welcome

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/mkale/sparky/internal/router"
	"github.com/mkale/sparky/internal/screen"
)

// stubScreen is a minimal screen implementation for testing.
type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "home" }
func (s *stubScreen) Title() string                           { return "Home" }

func newTestWelcome(name string) (*WelcomeScreen, *int, *string) {
	callCount := 0
	var savedName string
	factory := func() screen.Screen {
		callCount++
		return &stubScreen{}
	}
	w := New(name, func(n string) { savedName = n }, factory)
	return w, &callCount, &savedName
}

func sendTicks(w *WelcomeScreen, n int) {
	var s screen.Screen = w
	for i := 0; i < n; i++ {
		s, _ = s.Update(tickMsg(time.Now()))
	}
}

func TestPhaseTransitions(t *testing.T) {
	w, _, _ := newTestWelcome("Maya")

	// Initially at phase 0 — no banner visible
	view := w.View(80, 24)
	if strings.Contains(view, "personal AI tutor") {
		t.Error("tagline should not be visible at start")
	}

	// After 5 ticks (500ms) — phase 1 complete, sparkles should start
	sendTicks(w, 5)
	if w.elapsed != 500*time.Millisecond {
		t.Errorf("expected elapsed 500ms, got %v", w.elapsed)
	}

	// After 15 ticks (1500ms) — phase 2 complete, banner visible
	sendTicks(w, 10)
	view = w.View(80, 24)
	if !strings.Contains(view, "personal AI tutor") {
		t.Error("tagline should be visible after phase 2")
	}
}

func TestKeypressWithSavedNameEmitsReplace(t *testing.T) {
	w, callCount, _ := newTestWelcome("Maya")

	sendTicks(w, 35)

	_, cmd := w.Update(tea.KeyPressMsg{Code: ' '})
	if cmd == nil {
		t.Fatal("expected a command from keypress after animation")
	}

	msg := cmd()
	replaceMsg, ok := msg.(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", msg)
	}
	if replaceMsg.Screen == nil {
		t.Error("replace screen should not be nil")
	}
	if *callCount != 1 {
		t.Errorf("factory should be called once, got %d", *callCount)
	}
}

func TestKeypressDuringAnimationSkipsAhead(t *testing.T) {
	w, callCount, _ := newTestWelcome("Maya")

	// Mid-animation keypress jumps straight to the transition.
	sendTicks(w, 3)

	_, cmd := w.Update(tea.KeyPressMsg{Code: ' '})
	if cmd == nil {
		t.Fatal("keypress during animation should trigger transition")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	if *callCount != 1 {
		t.Errorf("factory should be called once, got %d", *callCount)
	}
}

func TestFirstLaunchAsksForName(t *testing.T) {
	w, callCount, savedName := newTestWelcome("")

	sendTicks(w, 35)

	// First keypress switches to the name prompt rather than transitioning.
	_, _ = w.Update(tea.KeyPressMsg{Code: ' '})
	if !w.asking {
		t.Fatal("expected name prompt after keypress with no saved name")
	}
	if *callCount != 0 {
		t.Errorf("factory should not be called yet, got %d", *callCount)
	}

	view := w.View(80, 24)
	if !strings.Contains(view, "What should I call you?") {
		t.Error("name prompt not shown")
	}

	for _, r := range "Maya" {
		w.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	_, cmd := w.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should transition")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Fatal("expected ReplaceScreenMsg after name entry")
	}
	if *savedName != "Maya" {
		t.Errorf("saved name = %q, want Maya", *savedName)
	}
	if *callCount != 1 {
		t.Errorf("factory should be called once, got %d", *callCount)
	}
}

func TestEmptyNameSkipsSave(t *testing.T) {
	w, _, savedName := newTestWelcome("")

	sendTicks(w, 35)
	w.Update(tea.KeyPressMsg{Code: ' '})

	_, cmd := w.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter with empty name should still transition")
	}
	if *savedName != "" {
		t.Errorf("empty name should not be saved, got %q", *savedName)
	}
}

func TestNoAutoTransition(t *testing.T) {
	w, callCount, _ := newTestWelcome("Maya")

	// Ticks keep going for the sparkle animation, but the factory should
	// not be called without a keypress.
	sendTicks(w, 45)
	if *callCount != 0 {
		t.Errorf("factory should not be called without keypress, got %d", *callCount)
	}
	if w.elapsed != totalDur {
		t.Errorf("expected elapsed capped at %v, got %v", totalDur, w.elapsed)
	}
}

func TestFactoryCalledOnce(t *testing.T) {
	w, callCount, _ := newTestWelcome("Maya")

	sendTicks(w, 45)
	w.Update(tea.KeyPressMsg{Code: 'a'})

	_, cmd := w.Update(tea.KeyPressMsg{Code: 'b'})
	if cmd != nil {
		t.Error("second keypress should not produce a command")
	}
	if *callCount != 1 {
		t.Errorf("factory should be called exactly once, got %d", *callCount)
	}
}

func TestTitleEmpty(t *testing.T) {
	w, _, _ := newTestWelcome("")
	if w.Title() != "" {
		t.Errorf("expected empty title, got %q", w.Title())
	}
}
