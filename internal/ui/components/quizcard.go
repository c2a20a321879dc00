package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/octolearn/internal/quiz"
	"github.com/abhisek/octolearn/internal/ui/theme"
)

// OptionLabel returns the letter shown before option i ("A", "B", ...).
func OptionLabel(i int) string {
	return string(rune('A' + i))
}

// QuizCard renders one question with its options. Once an option is
// selected the choice is colored by correctness and the right answer is
// shown with its explanation.
type QuizCard struct {
	Index int
	Item  quiz.Item
	Width int
}

// View renders the card.
func (c QuizCard) View() string {
	var b strings.Builder

	wrap := lipgloss.NewStyle().Width(max(c.Width, 10))
	b.WriteString(wrap.Inherit(theme.Body).Bold(true).Render(fmt.Sprintf("%d. %s", c.Index+1, c.Item.Question)))
	b.WriteString("\n\n")

	for i, opt := range c.Item.Options {
		line := fmt.Sprintf("%s. %s", OptionLabel(i), opt)
		style := theme.Unselected
		if c.Item.Answered() {
			switch {
			case opt == c.Item.Choice() && opt == c.Item.Answer:
				style = theme.Correct
				line += "  ✓"
			case opt == c.Item.Choice():
				style = theme.Incorrect
				line += "  ✗"
			default:
				style = lipgloss.NewStyle().Foreground(theme.TextDim)
			}
		}
		b.WriteString(wrap.Inherit(style).Render(line) + "\n")
	}

	if c.Item.Answered() {
		b.WriteString("\n")
		answer := theme.Correct.Render(c.Item.Answer)
		expl := c.Item.Explanation
		if expl != "" {
			answer += ": " + expl
		}
		b.WriteString(wrap.Render(answer))
	}
	return b.String()
}
