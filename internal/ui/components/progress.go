package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/octolearn/internal/ui/theme"
)

// ScoreBar shows quiz progress as a three-segment bar: correct answers,
// wrong answers and unanswered questions.
type ScoreBar struct {
	Total    int
	Answered int
	Correct  int
	Width    int
}

// NewScoreBar creates a score bar for a quiz of total questions.
func NewScoreBar(total, answered, correct, width int) ScoreBar {
	return ScoreBar{Total: total, Answered: answered, Correct: correct, Width: width}
}

// View renders the bar followed by "correct/total".
func (p ScoreBar) View() string {
	if p.Total <= 0 {
		return ""
	}
	label := fmt.Sprintf("  %d/%d", p.Correct, p.Total)

	barWidth := p.Width - lipgloss.Width(label)
	if barWidth < 4 {
		barWidth = 4
	}

	good := barWidth * p.Correct / p.Total
	bad := barWidth*p.Answered/p.Total - good
	if bad < 0 {
		bad = 0
	}
	rest := barWidth - good - bad
	if rest < 0 {
		rest = 0
	}

	return lipgloss.NewStyle().Background(theme.Success).Render(strings.Repeat(" ", good)) +
		lipgloss.NewStyle().Background(theme.Error).Render(strings.Repeat(" ", bad)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", rest)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(label)
}
