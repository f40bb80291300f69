package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mkale/sparky/internal/gamification"
	"github.com/mkale/sparky/internal/router"
	"github.com/mkale/sparky/internal/screen"
	perfscreen "github.com/mkale/sparky/internal/screens/performance"
	"github.com/mkale/sparky/internal/screens/tutorchat"
	"github.com/mkale/sparky/internal/tutor"
	"github.com/mkale/sparky/internal/ui/components"
	"github.com/mkale/sparky/internal/ui/theme"
)

// HomeScreen is the main menu of the application.
type HomeScreen struct {
	app  *tutor.App
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(app *tutor.App) *HomeScreen {
	items := []components.MenuItem{
		{Label: "START TUTORING", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: tutorchat.New(app)}
			}
		}},
		{Label: "PERFORMANCE", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: perfscreen.New(app)}
			}
		}},
		{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		app:  app,
		menu: components.NewMenu(items),
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	greeting := "Welcome!"
	if name := h.app.UserName(); name != "" {
		greeting = fmt.Sprintf("Welcome back, %s!", name)
	}
	sections = append(sections, lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render(greeting))

	sections = append(sections, "")
	sections = append(sections, h.renderStatsBar())
	sections = append(sections, "")
	sections = append(sections, h.menu.View())

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

// renderStatsBar shows level, XP progress, and lifetime quiz count.
func (h *HomeScreen) renderStatsBar() string {
	gam := h.app.GamificationStats()
	perf := h.app.PerformanceStats()

	levelStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	xpStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	quizStyle := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)

	stats := fmt.Sprintf("%s  %s  %s",
		levelStyle.Render(fmt.Sprintf("LEVEL %d", gam.Level)),
		xpStyle.Render(fmt.Sprintf("✦ %d/%d XP", gam.XP, gamification.XPForLevel(gam.Level))),
		quizStyle.Render(fmt.Sprintf("? %d QUIZZES", perf.QuizzesTaken)),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Border).
		Padding(0, 2).
		Render(stats)
}
