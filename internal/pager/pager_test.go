package pager

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberedLines(n int) RenderFunc {
	return func(width int) []string {
		lines := make([]string, n)
		for i := range lines {
			lines[i] = fmt.Sprintf("line %d (width %d)", i, width)
		}
		return lines
	}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	pm, ok := next.(Model)
	require.True(t, ok)
	return pm, cmd
}

func TestModel_LoadingUntilSized(t *testing.T) {
	m := New("diff", numberedLines(3))
	assert.Equal(t, "loading...", m.View())
}

func TestModel_RendersAtWindowWidth(t *testing.T) {
	m := New("main.go", numberedLines(100))
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 12})

	view := m.View()
	assert.Contains(t, view, "main.go")
	assert.Contains(t, view, "line 0 (width 80)")
	assert.Contains(t, view, "line 9 (width 80)")
	assert.NotContains(t, view, "line 10 (width 80)")
	assert.Contains(t, view, "100 lines")

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 12})
	assert.Contains(t, m.View(), "line 0 (width 120)")
}

func TestModel_Navigation(t *testing.T) {
	m := New("diff", numberedLines(100))
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 12})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	assert.Equal(t, 90, m.YOffset())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	assert.Equal(t, 0, m.YOffset())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.YOffset())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlD})
	assert.Equal(t, 6, m.YOffset())
}

func TestModel_Quit(t *testing.T) {
	m := New("diff", numberedLines(1))

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
