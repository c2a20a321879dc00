// Package sessions is the saved-sessions list: pick one to reopen it,
// delete one or all of them, or start over.
package sessions

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	flow "github.com/abhisek/octolearn/internal/learn"
	"github.com/abhisek/octolearn/internal/router"
	"github.com/abhisek/octolearn/internal/screen"
	"github.com/abhisek/octolearn/internal/ui/components"
	"github.com/abhisek/octolearn/internal/ui/layout"
	"github.com/abhisek/octolearn/internal/ui/theme"
)

// SessionsScreen lists every stored session.
type SessionsScreen struct {
	orch       *flow.Orchestrator
	menu       components.Menu
	confirming bool
}

var _ screen.Screen = (*SessionsScreen)(nil)
var _ screen.KeyHintProvider = (*SessionsScreen)(nil)

// New creates the screen. The list is read from the orchestrator's store.
func New(orch *flow.Orchestrator) *SessionsScreen {
	s := &SessionsScreen{orch: orch}
	s.refresh()
	return s
}

func (s *SessionsScreen) Init() tea.Cmd {
	return nil
}

func (s *SessionsScreen) Title() string {
	return "Sessions"
}

func (s *SessionsScreen) KeyHints() []layout.KeyHint {
	if s.confirming {
		return []layout.KeyHint{
			{Key: "Y", Description: "Delete all"},
			{Key: "any key", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "d", Description: "Delete"},
		{Key: "D", Description: "Delete all"},
		{Key: "n", Description: "New"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SessionsScreen) refresh() {
	st := s.orch.Store()
	active, _ := st.Active()

	topics := st.Topics()
	items := make([]components.MenuItem, 0, len(topics))
	for _, topic := range topics {
		rec, _ := st.Get(topic)
		items = append(items, components.MenuItem{
			Label:  topic,
			Badge:  rec.Level.DisplayName(),
			Marked: topic == active,
			Action: s.open(topic),
		})
	}
	s.menu.SetItems(items)
}

func (s *SessionsScreen) open(topic string) func() tea.Cmd {
	return func() tea.Cmd {
		s.orch.SelectSession(topic)
		return pop
	}
}

func pop() tea.Msg {
	return router.PopScreenMsg{}
}

func (s *SessionsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(flow.FlowFinishedMsg); ok {
		// A flow started before this screen opened may have stored a
		// session or moved the active pointer.
		s.refresh()
		return s, nil
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}

	if s.confirming {
		s.confirming = false
		if kmsg.String() == "y" || kmsg.String() == "Y" {
			s.orch.DeleteAllSessions()
			s.refresh()
		}
		return s, nil
	}

	switch kmsg.String() {
	case "d", "delete":
		if item, ok := s.menu.Current(); ok {
			s.orch.DeleteSession(item.Label)
			s.refresh()
		}
		return s, nil
	case "D":
		if len(s.menu.Items) > 0 {
			s.confirming = true
		}
		return s, nil
	case "n":
		s.orch.NewSession()
		return s, pop
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *SessionsScreen) View(width, height int) string {
	var body string
	if len(s.menu.Items) == 0 {
		body = theme.Hint.Render("No saved sessions yet. Learn a topic to create one.")
	} else {
		body = s.menu.View()
	}

	if s.confirming {
		body += "\n" + theme.ErrorText.Bold(true).
			Render("Delete all sessions? This cannot be undone. (y/N)")
	}

	card := theme.Card.Width(min(width-4, 72)).Render(
		theme.Heading.Render("Your sessions") + "\n\n" + body,
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
