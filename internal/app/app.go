package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	flow "github.com/abhisek/octolearn/internal/learn"
	"github.com/abhisek/octolearn/internal/router"
	"github.com/abhisek/octolearn/internal/screen"
	"github.com/abhisek/octolearn/internal/screens/learn"
	"github.com/abhisek/octolearn/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
//
// Every message reaches the orchestrator before the router, so flows
// complete even while another screen is on top of the learn screen.
type AppModel struct {
	router *router.Router
	orch   *flow.Orchestrator
	width  int
	height int
}

// newAppModel creates a new AppModel with the learn screen.
func newAppModel(orch *flow.Orchestrator) AppModel {
	return AppModel{
		router: router.New(learn.New(orch)),
		orch:   orch,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	flowCmd := m.orch.Update(msg)
	cmd := m.router.Update(msg)
	return m, tea.Batch(flowCmd, cmd)
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the frame as a string. It is empty until the terminal size
// is known.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, "Level: "+m.orch.Level().DisplayName(), m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	} else {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program. The orchestrator should already be
// hydrated so the learn screen opens on the active session.
func Run(orch *flow.Orchestrator) error {
	p := tea.NewProgram(newAppModel(orch))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
