package cli

import (
	"fmt"

	"github.com/alexanderramin/critpath/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// pagerModel shows long command output in a scrollable viewport.
type pagerModel struct {
	title   string
	content string
	vp      viewport.Model
	ready   bool
}

func newPagerModel(title, content string) pagerModel {
	return pagerModel{title: title, content: content}
}

var pagerQuit = key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"))

func (m pagerModel) Init() tea.Cmd { return nil }

func (m pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, pagerQuit) {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		height := max(msg.Height-lipgloss.Height(m.header())-lipgloss.Height(m.footer()), 1)
		if !m.ready {
			m.vp = viewport.New(msg.Width, height)
			m.vp.MouseWheelEnabled = true
			m.vp.MouseWheelDelta = 3
			m.vp.SetContent(m.content)
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = height
		}
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m pagerModel) header() string {
	return formatter.StyleHeader.Render(m.title)
}

func (m pagerModel) footer() string {
	return formatter.Dim("q quit · ↑/↓ scroll ") + scrollIndicator(m.vp)
}

func (m pagerModel) View() string {
	if !m.ready {
		return ""
	}
	return m.header() + "\n" + m.vp.View() + "\n" + m.footer()
}

// scrollIndicator returns a dim scroll position string for the status bar.
func scrollIndicator(vp viewport.Model) string {
	if vp.AtTop() {
		return formatter.Dim("[TOP]")
	}
	if vp.AtBottom() {
		return formatter.Dim("[END]")
	}
	return formatter.Dim(fmt.Sprintf("[%d%%]", int(vp.ScrollPercent()*100)))
}

func runPager(title, content string) error {
	_, err := tea.NewProgram(newPagerModel(title, content), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
