package performance

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mkale/sparky/internal/gamification"
	"github.com/mkale/sparky/internal/screen"
	"github.com/mkale/sparky/internal/tutor"
	"github.com/mkale/sparky/internal/ui/components"
	"github.com/mkale/sparky/internal/ui/layout"
	"github.com/mkale/sparky/internal/ui/theme"
)

// historyShown caps how many recent quiz scores the chart displays.
const historyShown = 10

// PerformanceScreen is the quiz results and XP dashboard.
type PerformanceScreen struct {
	app *tutor.App
}

var _ screen.Screen = (*PerformanceScreen)(nil)
var _ screen.KeyHintProvider = (*PerformanceScreen)(nil)

// New creates a PerformanceScreen.
func New(app *tutor.App) *PerformanceScreen {
	return &PerformanceScreen{app: app}
}

func (s *PerformanceScreen) Init() tea.Cmd {
	return nil
}

func (s *PerformanceScreen) Title() string {
	return "Performance"
}

func (s *PerformanceScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (s *PerformanceScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	return s, nil
}

func (s *PerformanceScreen) View(width, height int) string {
	perf := s.app.PerformanceStats()
	gam := s.app.GamificationStats()

	var sections []string

	total := perf.Correct + perf.Incorrect
	var overall int
	if total > 0 {
		overall = 100 * perf.Correct / total
	}

	counters := fmt.Sprintf("%s   %s   %s   %s",
		lipgloss.NewStyle().Foreground(theme.Success).Bold(true).
			Render(fmt.Sprintf("✓ %d correct", perf.Correct)),
		lipgloss.NewStyle().Foreground(theme.Error).Bold(true).
			Render(fmt.Sprintf("✗ %d incorrect", perf.Incorrect)),
		lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).
			Render(fmt.Sprintf("%d quizzes", perf.QuizzesTaken)),
		lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
			Render(fmt.Sprintf("%d%% overall", overall)),
	)
	sections = append(sections, lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Border).
		Padding(0, 2).
		Render(counters))

	xpBar := components.NewProgressBar(
		fmt.Sprintf("Level %d", gam.Level),
		float64(gam.XP)/float64(gamification.XPForLevel(gam.Level)),
		true,
		min(width-8, 50),
	)
	sections = append(sections, xpBar.View())

	sections = append(sections, s.renderHistory(width))

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// renderHistory charts recent quiz accuracy, one bar per completed quiz.
func (s *PerformanceScreen) renderHistory(width int) string {
	history := s.app.PerformanceStats().AccuracyHistory
	if len(history) == 0 {
		return lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("No completed quizzes yet. Take one from the tutoring screen!")
	}

	start := 0
	if len(history) > historyShown {
		start = len(history) - historyShown
	}

	heading := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("Recent quiz accuracy")

	var lines []string
	lines = append(lines, heading, "")
	for i, acc := range history[start:] {
		bar := components.NewProgressBar(
			fmt.Sprintf("Quiz %2d", start+i+1),
			float64(acc)/100,
			true,
			min(width-8, 40),
		)
		lines = append(lines, bar.View())
	}
	return strings.Join(lines, "\n")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
