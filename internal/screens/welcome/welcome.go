package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mkale/sparky/internal/router"
	"github.com/mkale/sparky/internal/screen"
	"github.com/mkale/sparky/internal/ui/components"
	"github.com/mkale/sparky/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 500 * time.Millisecond
	phase2End    = 1500 * time.Millisecond
	totalDur     = 3000 * time.Millisecond
)

const mascotArt = `  ╭───────────╮
  │  ┌─────┐  │
  │  │ ◉ ◉ │  │
  │  │  ▽  │  │
  │  ├─────┤  │
  │  │ abc │  │
  │  └─────┘  │
  ╰───────────╯`

// sparkle frames cycle around the mascot
var sparkleFrames = []string{"★", "✦"}

type tickMsg time.Time

// WelcomeScreen shows a splash animation, asks for the learner's name on
// first launch, and transitions to the home screen.
type WelcomeScreen struct {
	userName     string
	setName      func(name string)
	homeFactory  func() screen.Screen
	input        components.TextInput
	asking       bool
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen. userName is the saved learner name, empty on
// first launch; setName is called with whatever the learner enters.
func New(userName string, setName func(name string), homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		userName:    userName,
		setName:     setName,
		homeFactory: homeFactory,
		input:       components.NewTextInput("Your name", false, 24),
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tea.Tick(tickInterval, func(t time.Time) tea.Msg {
			return tickMsg(t)
		})

	case tea.KeyPressMsg:
		if w.asking {
			if msg.String() == "enter" {
				name := strings.TrimSpace(w.input.Value())
				if name != "" && w.setName != nil {
					w.setName(name)
				}
				return w, w.transition()
			}
			var cmd tea.Cmd
			w.input, cmd = w.input.Update(msg)
			return w, cmd
		}

		// A keypress mid-animation skips ahead.
		w.elapsed = totalDur

		if w.userName == "" {
			w.asking = true
			return w, w.input.Init()
		}
		return w, w.transition()
	}

	if w.asking {
		var cmd tea.Cmd
		w.input, cmd = w.input.Update(msg)
		return w, cmd
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	homeScreen := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: homeScreen}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	mascotStyle := lipgloss.NewStyle().Foreground(theme.Primary)

	// Phase 1+: mascot
	rendered := mascotStyle.Render(mascotArt)

	// Phase 2+: sparkles around mascot
	if w.elapsed >= phase1End {
		frame := w.tickCount % len(sparkleFrames)
		sparkle := sparkleFrames[frame]

		accentStyle := lipgloss.NewStyle().Foreground(theme.Accent)
		secondaryStyle := lipgloss.NewStyle().Foreground(theme.Secondary)

		s1 := accentStyle.Render(sparkle)
		s2 := secondaryStyle.Render(sparkle)

		// Place sparkles on sides of mascot
		lines := strings.Split(rendered, "\n")
		if len(lines) > 1 {
			lines[0] = s1 + "  " + lines[0] + "  " + s2
		}
		if len(lines) > 3 {
			lines[3] = s2 + "  " + lines[3] + "  " + s1
		}
		if len(lines) > 6 {
			lines[6] = s1 + "  " + lines[6] + "  " + s2
		}
		rendered = strings.Join(lines, "\n")
	}

	sections = append(sections, rendered)

	// Phase 3+: banner + tagline
	if w.elapsed >= phase2End {
		sections = append(sections, "")
		sections = append(sections, RenderBanner(width))
		sections = append(sections, "")

		tagline := lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render("Your personal AI tutor")
		sections = append(sections, tagline)
	}

	if w.asking {
		sections = append(sections, "")
		prompt := lipgloss.NewStyle().
			Foreground(theme.Text).
			Render("What should I call you?")
		sections = append(sections, prompt)
		sections = append(sections, w.input.View())
		hint := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("press enter to continue")
		sections = append(sections, hint)
	} else if w.elapsed >= phase2End {
		sections = append(sections, "")
		greeting := "press any key to continue"
		if w.userName != "" {
			greeting = "welcome back, " + w.userName + " — press any key"
		}
		hint := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render(greeting)
		sections = append(sections, hint)
	}

	content := strings.Join(sections, "\n")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
