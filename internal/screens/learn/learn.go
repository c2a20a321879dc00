// Package learn is the main screen: type a topic, read the explanation as
// it is revealed, then answer the quiz.
package learn

import (
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"

	flow "github.com/abhisek/octolearn/internal/learn"
	"github.com/abhisek/octolearn/internal/router"
	"github.com/abhisek/octolearn/internal/screen"
	"github.com/abhisek/octolearn/internal/screens/sessions"
	"github.com/abhisek/octolearn/internal/ui/components"
	"github.com/abhisek/octolearn/internal/ui/layout"
)

type focusArea int

const (
	focusInput focusArea = iota
	focusExplanation
	focusQuiz
	focusCount
)

// LearnScreen implements screen.Screen for the learn flow. All state that
// outlives the screen lives in the orchestrator; the screen only keeps
// focus, the quiz cursor and widget state.
type LearnScreen struct {
	orch    *flow.Orchestrator
	input   components.TextInput
	explain viewport.Model
	focus   focusArea
	cursor  int

	// recentIdx is the next recent topic ctrl+r fills in.
	recentIdx int
	// shown is the text last handed to the viewport.
	shown string
}

var _ screen.Screen = (*LearnScreen)(nil)
var _ screen.KeyHintProvider = (*LearnScreen)(nil)
var _ screen.Resumer = (*LearnScreen)(nil)

// New creates the screen over orch, showing whatever the orchestrator
// currently holds (e.g. a hydrated session).
func New(orch *flow.Orchestrator) *LearnScreen {
	vp := viewport.New()
	vp.SoftWrap = true

	s := &LearnScreen{
		orch:    orch,
		input:   components.NewTextInput("What do you want to learn?", 200),
		explain: vp,
	}
	s.input.SetValue(orch.Topic())
	s.refreshSuggestions()
	s.sync()
	return s
}

func (s *LearnScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *LearnScreen) Title() string {
	return "Learn"
}

// Resume reloads the topic after the sessions screen changed the view.
func (s *LearnScreen) Resume() tea.Cmd {
	s.input.SetValue(s.orch.Topic())
	s.cursor = 0
	s.recentIdx = 0
	s.refreshSuggestions()
	s.sync()
	return s.setFocus(focusInput)
}

func (s *LearnScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Tab", Description: "Focus"}}
	switch s.focus {
	case focusInput:
		hints = append(hints,
			layout.KeyHint{Key: "Enter", Description: "Learn"},
			layout.KeyHint{Key: "^L", Description: "Level"},
			layout.KeyHint{Key: "^R", Description: "Recent"},
		)
	case focusExplanation:
		hints = append(hints, layout.KeyHint{Key: "↑↓", Description: "Scroll"})
	case focusQuiz:
		hints = append(hints,
			layout.KeyHint{Key: "↑↓", Description: "Question"},
			layout.KeyHint{Key: "1-4", Description: "Answer"},
		)
	}
	return append(hints,
		layout.KeyHint{Key: "^S", Description: "Sessions"},
		layout.KeyHint{Key: "^N", Description: "New"},
		layout.KeyHint{Key: "^C", Description: "Quit"},
	)
}

func (s *LearnScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	defer s.sync()

	switch msg := msg.(type) {
	case flow.FlowFinishedMsg:
		s.cursor = 0
		s.recentIdx = 0
		s.refreshSuggestions()
		return s, nil

	case tea.KeyPressMsg:
		return s, s.handleKey(msg)
	}

	// Cursor blink and paste messages.
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *LearnScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+l":
		s.orch.SetLevel(s.orch.Level().Next())
		return nil
	case "ctrl+n":
		s.orch.NewSession()
		s.input.SetValue("")
		s.cursor = 0
		return s.setFocus(focusInput)
	case "ctrl+s":
		next := sessions.New(s.orch)
		return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
	case "ctrl+r":
		recent := s.orch.Store().Recent()
		if len(recent) == 0 {
			return nil
		}
		s.input.SetValue(recent[s.recentIdx%len(recent)])
		s.recentIdx++
		return s.setFocus(focusInput)
	case "ctrl+x":
		s.orch.ClearRecent()
		s.recentIdx = 0
		s.refreshSuggestions()
		return nil
	case "tab":
		return s.setFocus((s.focus + 1) % focusCount)
	case "shift+tab":
		return s.setFocus((s.focus + focusCount - 1) % focusCount)
	}

	switch s.focus {
	case focusInput:
		if msg.String() == "enter" {
			s.cursor = 0
			return s.orch.Start(s.input.Value(), s.orch.Level())
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return cmd
	case focusExplanation:
		var cmd tea.Cmd
		s.explain, cmd = s.explain.Update(msg)
		return cmd
	case focusQuiz:
		s.handleQuizKey(msg.String())
	}
	return nil
}

func (s *LearnScreen) handleQuizKey(k string) {
	q := s.orch.Quiz()
	switch k {
	case "up", "k", "left", "h":
		if s.cursor > 0 {
			s.cursor--
		}
		return
	case "down", "j", "right", "l":
		if s.cursor < q.Len()-1 {
			s.cursor++
		}
		return
	}

	opt := optionIndex(k)
	item, ok := q.Item(s.cursor)
	if !ok || opt < 0 || opt >= len(item.Options) {
		return
	}
	s.orch.Answer(s.cursor, item.Options[opt])
}

// optionIndex maps "1".."9" and "a".."f" to an option index, or -1.
func optionIndex(k string) int {
	if len(k) != 1 {
		return -1
	}
	switch c := k[0]; {
	case c >= '1' && c <= '9':
		return int(c - '1')
	case c >= 'a' && c <= 'f':
		return int(c - 'a')
	}
	return -1
}

func (s *LearnScreen) setFocus(f focusArea) tea.Cmd {
	s.focus = f
	if f == focusInput {
		return s.input.Focus()
	}
	s.input.Blur()
	return nil
}

func (s *LearnScreen) refreshSuggestions() {
	s.input.SetSuggestions(s.orch.Store().Recent())
}

// sync pushes the revealed explanation into the viewport, following the
// reveal while it runs.
func (s *LearnScreen) sync() {
	if n := s.orch.Quiz().Len(); s.cursor >= n {
		s.cursor = max(n-1, 0)
	}

	text := s.orch.Displayed()
	if text == s.shown {
		return
	}
	fresh := !strings.HasPrefix(text, s.shown)
	s.shown = text
	s.explain.SetContent(renderMarkdown(text))
	switch {
	case s.orch.Revealing() && s.explain.Height() > 0:
		s.explain.GotoBottom()
	case fresh:
		s.explain.GotoTop()
	}
}
