// Package pager shows pre-rendered side-by-side output in a scrollable full-screen terminal view.
package pager

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RenderFunc renders the content for a terminal width, one string per line.
type RenderFunc func(width int) []string

// KeyMap defines the pager's key bindings.
type KeyMap struct {
	Quit     key.Binding
	GotoTop  key.Binding
	GotoBot  key.Binding
}

// DefaultKeyMap holds the default key bindings. Scrolling uses the viewport's own bindings.
var DefaultKeyMap = KeyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	GotoTop: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	GotoBot: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	statusStyle = lipgloss.NewStyle().Faint(true)
)

// Model is a bubbletea model that pages through rendered lines. Content is rendered again whenever the terminal width changes.
type Model struct {
	title    string
	render   RenderFunc
	keys     KeyMap
	viewport viewport.Model
	width    int
	lines    int
	ready    bool
}

// New returns a Model titled title, rendering content with render.
func New(title string, render RenderFunc) Model {
	return Model{title: title, render: render, keys: DefaultKeyMap}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := max(msg.Height-2, 1) // title and status lines
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		if msg.Width != m.width {
			m.width = msg.Width
			lines := m.render(msg.Width)
			m.lines = len(lines)
			m.viewport.SetContent(strings.Join(lines, "\n"))
		}
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case !m.ready:
			return m, nil
		case key.Matches(msg, m.keys.GotoTop):
			m.viewport.GotoTop()
			return m, nil
		case key.Matches(msg, m.keys.GotoBot):
			m.viewport.GotoBottom()
			return m, nil
		}
	}
	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}
	status := fmt.Sprintf("%d lines  %3.f%%  q: quit", m.lines, m.viewport.ScrollPercent()*100)
	return titleStyle.Render(m.title) + "\n" + m.viewport.View() + "\n" + statusStyle.Render(status)
}

// YOffset returns the index of the first visible line.
func (m Model) YOffset() int {
	return m.viewport.YOffset
}

// Run shows m full-screen until the user quits.
func Run(m Model, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		return fmt.Errorf("pager: %w", err)
	}
	return nil
}
