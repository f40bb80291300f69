package tutorchat

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/mkale/sparky/internal/chat"
	"github.com/mkale/sparky/internal/tutor"
	"github.com/mkale/sparky/internal/ui/layout"
	"github.com/mkale/sparky/internal/ui/theme"
)

const sidebarWidth = 26

func (s *ChatScreen) View(width, height int) string {
	showSidebar := !layout.IsCompactWidth(width) || s.focus == focusSessions

	transcriptWidth := width
	if showSidebar {
		transcriptWidth = width - sidebarWidth - 1
	}

	var main string
	if s.focus == focusQuiz && len(s.quiz) > 0 {
		main = s.renderQuiz(transcriptWidth, height)
	} else {
		main = s.renderConversation(transcriptWidth, height)
	}

	if !showSidebar {
		return main
	}

	side := s.renderSidebar(sidebarWidth, height)
	divider := lipgloss.NewStyle().
		Foreground(theme.Border).
		Render(strings.TrimRight(strings.Repeat("│\n", height), "\n"))

	return lipgloss.JoinHorizontal(lipgloss.Top, side, divider, main)
}

// renderSidebar lists sessions, newest first, with the active one marked.
func (s *ChatScreen) renderSidebar(width, height int) string {
	var b strings.Builder

	heading := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  Chats")
	b.WriteString(heading)
	b.WriteString("\n\n")

	activeID := s.app.ActiveID()
	for i, sess := range s.app.Sessions() {
		title := sess.Title
		maxTitle := width - 6
		if maxTitle > 0 && len([]rune(title)) > maxTitle {
			title = string([]rune(title)[:maxTitle])
		}

		marker := "  "
		if sess.ID == activeID {
			marker = "● "
		}
		line := marker + title

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if s.focus == focusSessions && i == s.sessionSel {
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
			line = "▸ " + line
		} else {
			line = "  " + line
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().Width(width).Render(b.String())
}

// renderConversation renders the transcript, status line, and input.
func (s *ChatScreen) renderConversation(width, height int) string {
	sess := s.app.ActiveSession()
	if sess == nil {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  No active chat.")
	}

	var top []string
	if errMsg := s.app.Error(); errMsg != "" {
		top = append(top, lipgloss.NewStyle().
			Width(width).
			Foreground(theme.Error).
			Bold(true).
			Render(fmt.Sprintf(" ⚠ %s  (ctrl+x to dismiss)", errMsg)))
	}
	for _, toast := range s.toasts {
		style := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
		if toast.Kind == tutor.NotifyLevelUp {
			style = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
		}
		top = append(top, style.Render(" "+toast.Message))
	}

	bottom := s.renderInputLine(sess, width)

	topBlock := strings.Join(top, "\n")
	bottomHeight := lipgloss.Height(bottom)
	topHeight := 0
	if topBlock != "" {
		topHeight = lipgloss.Height(topBlock)
	}

	transcriptHeight := height - bottomHeight - topHeight - 1
	if transcriptHeight < 1 {
		transcriptHeight = 1
	}
	transcript := s.renderTranscript(sess, width, transcriptHeight)

	parts := make([]string, 0, 3)
	if topBlock != "" {
		parts = append(parts, topBlock)
	}
	parts = append(parts, transcript, bottom)
	return strings.Join(parts, "\n")
}

// renderTranscript shows the newest messages that fit in the given height.
func (s *ChatScreen) renderTranscript(sess *chat.ChatSession, width, height int) string {
	if len(sess.Messages) == 0 {
		return lipgloss.NewStyle().
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.TextDim).
			Italic(true).
			Render("Ask Sparky anything to get started.")
	}

	var lines []string
	for _, m := range sess.Messages {
		lines = append(lines, renderMessage(m, width)...)
		lines = append(lines, "")
	}

	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Render(strings.Join(lines, "\n"))
}

func renderMessage(m chat.ChatMessage, width int) []string {
	var label, text string
	var labelStyle lipgloss.Style

	if m.Role == chat.RoleUser {
		label = "You"
		labelStyle = lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	} else {
		label = "Sparky"
		labelStyle = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	}
	text = m.Text()
	if text == "" && m.Role == chat.RoleModel {
		text = "…"
	}

	suffix := ""
	for _, p := range m.Parts {
		if !p.IsText() {
			suffix += fmt.Sprintf("  [attachment: %s]", p.MIMEType)
		}
	}
	if len(m.Quiz) > 0 {
		suffix += fmt.Sprintf("  [%d-question quiz]", len(m.Quiz))
	}
	switch m.Feedback {
	case chat.FeedbackLike:
		suffix += "  ▲"
	case chat.FeedbackDislike:
		suffix += "  ▼"
	}

	header := labelStyle.Render(" " + label)
	body := lipgloss.NewStyle().
		Width(width - 2).
		Foreground(theme.Text).
		Render(text + suffix)

	lines := []string{header}
	for _, l := range strings.Split(body, "\n") {
		lines = append(lines, " "+l)
	}
	return lines
}

func (s *ChatScreen) renderInputLine(sess *chat.ChatSession, width int) string {
	status := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf(" %s", sess.Difficulty))

	if s.app.Busy() {
		var note string
		switch s.app.BusyPhase(sess.ID) {
		case tutor.PhaseQuiz:
			note = "Writing a quiz..."
		case tutor.PhaseFlashcards:
			note = "Making flashcards..."
		default:
			note = "Sparky is thinking..."
		}
		status += lipgloss.NewStyle().
			Foreground(theme.Accent).
			Italic(true).
			Render("   " + note)
	}

	inputLine := lipgloss.NewStyle().
		Width(width).
		Render(" > " + s.input.View())

	divider := lipgloss.NewStyle().
		Foreground(theme.Border).
		Render(strings.Repeat("─", max(width-1, 0)))

	return divider + "\n" + status + "\n" + inputLine
}

// renderQuiz shows the current question with progress and, once answered,
// the explanation.
func (s *ChatScreen) renderQuiz(width, height int) string {
	q := s.quiz[s.quizIndex]

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf(" Question %d of %d", s.quizIndex+1, len(s.quiz))))
	b.WriteString("\n\n")
	b.WriteString(s.mc.View())

	if s.mc.Submitted {
		b.WriteString("\n")
		if s.mc.IsCorrect() {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render(" Correct!"))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render(" Not quite"))
		}
		if q.Explanation != "" {
			b.WriteString("\n\n")
			b.WriteString(lipgloss.NewStyle().
				Width(min(width-4, 70)).
				Foreground(theme.Text).
				Render(q.Explanation))
		}
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(" Press any key to continue..."))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
