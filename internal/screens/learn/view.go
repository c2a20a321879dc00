package learn

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/octolearn/internal/ui/components"
	"github.com/abhisek/octolearn/internal/ui/layout"
	"github.com/abhisek/octolearn/internal/ui/theme"
)

// Placeholder texts.
const (
	emptyExplanation = "Ask for an explanation to see results."
	loadingQuiz      = "Loading quiz..."
	noQuiz           = "Couldn't load quiz questions. Try again."
)

func (s *LearnScreen) View(width, height int) string {
	top := s.renderTopBar(width)
	parts := []string{top}
	// Short terminals only get the status line when there is an error.
	if !layout.IsCompactHeight(height) || s.orch.Err() != "" {
		parts = append(parts, s.renderStatus(width))
	}

	used := 0
	for _, p := range parts {
		used += lipgloss.Height(p)
	}
	panelHeight := max(height-used, 4)

	if layout.IsCompactWidth(width) {
		explainH := max(panelHeight/2, 4)
		parts = append(parts,
			s.renderExplanation(width, explainH),
			s.renderQuiz(width, max(panelHeight-explainH, 4)))
	} else {
		leftW, rightW := layout.SplitColumns(width)
		parts = append(parts, lipgloss.JoinHorizontal(lipgloss.Top,
			s.renderExplanation(leftW, panelHeight),
			s.renderQuiz(rightW, panelHeight)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (s *LearnScreen) renderTopBar(width int) string {
	btn := components.NewButton("Learn", nil)
	if s.orch.Loading() {
		btn.Label = "Thinking..."
		btn.Disabled = true
	} else if strings.TrimSpace(s.input.Value()) == "" {
		btn.Disabled = true
	}
	level := theme.Badge.Render(s.orch.Level().DisplayName())

	s.input.SetWidth(max(width-lipgloss.Width(level)-lipgloss.Width(btn.View())-12, 10))
	box := theme.Panel
	if s.focus == focusInput {
		box = theme.FocusedPanel
	}
	line := lipgloss.JoinHorizontal(lipgloss.Center,
		s.input.View(), "  ", level, "  ", btn.View())
	return box.Width(width).Render(line)
}

func (s *LearnScreen) renderStatus(width int) string {
	if msg := s.orch.Err(); msg != "" {
		return lipgloss.NewStyle().Width(width).Inherit(theme.ErrorText).Render("  " + msg)
	}
	recent := s.orch.Store().Recent()
	if len(recent) == 0 {
		return theme.Hint.Render("  No recent topics yet")
	}
	return theme.Hint.Width(width).MaxHeight(1).
		Render("  Recent: " + strings.Join(recent, " · "))
}

func (s *LearnScreen) renderExplanation(width, height int) string {
	box := theme.Panel
	if s.focus == focusExplanation {
		box = theme.FocusedPanel
	}
	innerW := max(width-box.GetHorizontalFrameSize(), 1)
	innerH := max(height-box.GetVerticalFrameSize()-1, 1)

	title := theme.Heading.Render("Explanation")
	if t := s.orch.Topic(); t != "" {
		title += theme.Hint.Render("  " + t)
	}

	if s.explain.Width() != innerW || s.explain.Height() != innerH {
		s.explain.SetWidth(innerW)
		s.explain.SetHeight(innerH)
		// Re-clamp the offset: a scroll taken at the old size may point
		// past the content.
		if s.orch.Revealing() {
			s.explain.GotoBottom()
		} else {
			s.explain.SetYOffset(s.explain.YOffset())
		}
	}

	var body string
	if s.shown == "" {
		body = theme.Hint.Render(emptyExplanation)
	} else {
		body = s.explain.View()
	}
	return box.Width(width).Height(height).Render(title + "\n" + body)
}

func (s *LearnScreen) renderQuiz(width, height int) string {
	box := theme.Panel
	if s.focus == focusQuiz {
		box = theme.FocusedPanel
	}
	innerW := max(width-box.GetHorizontalFrameSize(), 1)

	var b strings.Builder
	b.WriteString(theme.Heading.Render("Quiz"))
	b.WriteString("\n")

	q := s.orch.Quiz()
	if q.Len() == 0 {
		msg := noQuiz
		if s.orch.Loading() {
			msg = loadingQuiz
		}
		b.WriteString(theme.Hint.Render(msg))
		return box.Width(width).Height(height).Render(b.String())
	}

	answered, correct := q.Score()
	b.WriteString(components.NewScoreBar(q.Len(), answered, correct, innerW).View())
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("Question %d of %d", s.cursor+1, q.Len())))
	b.WriteString("\n\n")

	item, _ := q.Item(s.cursor)
	b.WriteString(components.QuizCard{Index: s.cursor, Item: item, Width: innerW}.View())

	return box.Width(width).Height(height).Render(b.String())
}

// renderMarkdown applies light styling to Markdown headings and bullets.
// Everything else is shown as written.
func renderMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "#"):
			lines[i] = theme.Heading.Render(strings.TrimSpace(strings.TrimLeft(trimmed, "#")))
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			indent := line[:len(line)-len(strings.TrimLeft(line, " "))]
			lines[i] = indent + "• " + trimmed[2:]
		}
	}
	return strings.Join(lines, "\n")
}
