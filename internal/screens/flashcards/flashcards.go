package flashcards

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mkale/sparky/internal/chat"
	"github.com/mkale/sparky/internal/screen"
	"github.com/mkale/sparky/internal/ui/layout"
	"github.com/mkale/sparky/internal/ui/theme"
)

const cardWidth = 44

// FlashcardsScreen pages through a generated card set, front first,
// flipping to the back on demand.
type FlashcardsScreen struct {
	cards   []chat.Flashcard
	index   int
	flipped bool
}

var _ screen.Screen = (*FlashcardsScreen)(nil)
var _ screen.KeyHintProvider = (*FlashcardsScreen)(nil)

// New creates a FlashcardsScreen over the given card set.
func New(cards []chat.Flashcard) *FlashcardsScreen {
	return &FlashcardsScreen{cards: cards}
}

func (s *FlashcardsScreen) Init() tea.Cmd {
	return nil
}

func (s *FlashcardsScreen) Title() string {
	return "Flashcards"
}

func (s *FlashcardsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Space", Description: "Flip"},
		{Key: "←→", Description: "Browse"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *FlashcardsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "space", "enter":
		s.flipped = !s.flipped
	case "left", "h":
		if s.index > 0 {
			s.index--
			s.flipped = false
		}
	case "right", "l":
		if s.index < len(s.cards)-1 {
			s.index++
			s.flipped = false
		}
	}
	return s, nil
}

func (s *FlashcardsScreen) View(width, height int) string {
	if len(s.cards) == 0 {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  No flashcards yet.")
	}

	card := s.cards[s.index]

	side := "FRONT"
	text := card.Front
	borderColor := theme.Primary
	if s.flipped {
		side = "BACK"
		text = card.Back
		borderColor = theme.Secondary
	}

	label := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%s  ·  card %d of %d", side, s.index+1, len(s.cards)))

	face := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(min(cardWidth, width-4)).
		Align(lipgloss.Center).
		Padding(1, 2).
		Foreground(theme.Text).
		Render(text)

	content := label + "\n\n" + face

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
