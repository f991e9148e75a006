package playground

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/pastille/internal/config"
	"github.com/zjrosen/pastille/internal/directory"
	"github.com/zjrosen/pastille/internal/mode"
)

func init() {
	lipgloss.SetColorProfile(termenv.ANSI256)
}

func TestMain(m *testing.M) {
	zone.NewGlobal()
	m.Run()
}

func newTestServices() mode.Services {
	cfg := config.Defaults()
	cfg.Directory.People = []config.PersonConfig{
		{Key: "alice", Name: "Alice Chen"},
		{Key: "bob", Name: "Bob Díaz"},
	}
	return mode.Services{
		Config:    &cfg,
		Directory: directory.NewService(cfg.Directory),
	}
}

func sized(t *testing.T) Model {
	t.Helper()
	ctrl := New(newTestServices()).SetSize(100, 30)
	m, ok := ctrl.(Model)
	require.True(t, ok)
	return m
}

func press(t *testing.T, m Model, keyMsg tea.KeyMsg) Model {
	t.Helper()
	ctrl, _ := m.Update(keyMsg)
	next, ok := ctrl.(Model)
	require.True(t, ok)
	return next
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSidebarListsAllDemos(t *testing.T) {
	m := sized(t)

	view := m.View()
	for _, demo := range m.demos {
		assert.Contains(t, view, demo.Name)
	}
}

func TestSidebarNavigationWraps(t *testing.T) {
	m := sized(t)

	m = press(t, m, runes("k"))
	assert.Equal(t, len(m.demos)-1, m.selected)

	m = press(t, m, runes("j"))
	assert.Equal(t, 0, m.selected)

	m = press(t, m, runes("j"))
	assert.Equal(t, 1, m.selected)
}

func TestTabSwitchesFocus(t *testing.T) {
	m := sized(t)
	require.Equal(t, FocusSidebar, m.focus)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, FocusDemo, m.focus)
	assert.NotNil(t, m.demoModel)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, FocusSidebar, m.focus)
}

func TestTypingReachesFocusedDemo(t *testing.T) {
	m := sized(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})

	for _, r := range "hello" {
		m = press(t, m, runes(string(r)))
	}

	assert.Contains(t, m.View(), "hello")
}

func TestSidebarKeysDoNotReachDemo(t *testing.T) {
	m := sized(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	// j navigates the sidebar instead of typing into the field.
	m = press(t, m, runes("j"))
	assert.Equal(t, 1, m.selected)
}

func TestResetRebuildsDemo(t *testing.T) {
	m := sized(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	for _, r := range "scratch" {
		m = press(t, m, runes(string(r)))
	}
	require.Contains(t, m.View(), "scratch")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.NotContains(t, m.View(), "scratch")
	assert.Contains(t, m.lastAction, "reset")
}

func TestChipsDemoShowsPreloadedTokens(t *testing.T) {
	m := sized(t)
	m = press(t, m, runes("j")) // chips

	view := m.View()
	assert.Contains(t, view, "@Alice")
	assert.Contains(t, view, "@Bob")
}

func TestThemeTokensDemoListsTokens(t *testing.T) {
	m := sized(t)
	for m.demos[m.selected].Name != "theme tokens" {
		m = press(t, m, runes("j"))
	}

	view := m.View()
	assert.Contains(t, view, "text.primary")
	assert.Contains(t, view, "chip.background")
}

func TestQuitReturnsQuitCmd(t *testing.T) {
	m := sized(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestFooterShowsHints(t *testing.T) {
	m := sized(t)

	footer := m.View()
	assert.True(t, strings.Contains(footer, "tab: switch panes"))
	assert.True(t, strings.Contains(footer, "ctrl+c: quit"))
}
