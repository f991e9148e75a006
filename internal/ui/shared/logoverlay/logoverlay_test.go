package logoverlay

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/pastille/internal/log"
	"github.com/zjrosen/pastille/internal/pubsub"
)

func init() {
	lipgloss.SetColorProfile(termenv.ANSI256)
}

func logMsg(line string) log.LogEvent {
	return log.LogEvent{Type: pubsub.CreatedEvent, Payload: line + "\n"}
}

func press(m Model, key string) (Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
}

func newSizedModel() Model {
	m := New()
	m.SetSize(100, 40)
	return m
}

func TestNew(t *testing.T) {
	m := New()

	assert.False(t, m.Visible())
	assert.Empty(t, m.View())
}

func TestToggle(t *testing.T) {
	m := newSizedModel()

	m.Toggle()
	assert.True(t, m.Visible())

	m.Toggle()
	assert.False(t, m.Visible())
}

func TestLogEventAppendsEntry(t *testing.T) {
	m := newSizedModel()

	m, _ = m.Update(logMsg("2025-12-06T10:45:00 [INFO] [field] token added"))
	m.Toggle()

	assert.Contains(t, m.View(), "token added")
}

func TestEmptyBufferShowsPlaceholder(t *testing.T) {
	m := newSizedModel()
	m.Toggle()

	assert.Contains(t, m.View(), "(no log entries)")
}

func TestBufferIsBounded(t *testing.T) {
	m := newSizedModel()
	for i := 0; i < maxEntries+100; i++ {
		m, _ = m.Update(logMsg(fmt.Sprintf("[DEBUG] [ui] entry %d", i)))
	}
	m.Toggle()

	// Scroll to the top: the oldest surviving entry is number 100.
	m, _ = press(m, "g")
	view := m.View()
	assert.Contains(t, view, "entry 100")
	assert.NotContains(t, view, "entry 99 ")
}

func TestLevelFilter(t *testing.T) {
	m := newSizedModel()
	m, _ = m.Update(logMsg("[DEBUG] [ui] debug line"))
	m, _ = m.Update(logMsg("[INFO] [field] info line"))
	m, _ = m.Update(logMsg("[WARN] [store] warn line"))
	m, _ = m.Update(logMsg("[ERROR] [config] error line"))
	m.Toggle()

	m, _ = press(m, "e")
	view := m.View()
	assert.Contains(t, view, "error line")
	assert.NotContains(t, view, "warn line")
	assert.NotContains(t, view, "info line")
	assert.NotContains(t, view, "debug line")

	m, _ = press(m, "w")
	view = m.View()
	assert.Contains(t, view, "error line")
	assert.Contains(t, view, "warn line")
	assert.NotContains(t, view, "info line")

	m, _ = press(m, "d")
	assert.Contains(t, m.View(), "debug line")
}

func TestViewShowsActiveLevel(t *testing.T) {
	m := newSizedModel()
	m.Toggle()

	m, _ = press(m, "i")
	assert.Contains(t, m.View(), "INFO")
}

func TestClearDropsEntries(t *testing.T) {
	m := newSizedModel()
	m, _ = m.Update(logMsg("[INFO] [ui] doomed entry"))
	m.Toggle()
	require.Contains(t, m.View(), "doomed entry")

	m, _ = press(m, "c")
	view := m.View()
	assert.NotContains(t, view, "doomed entry")
	assert.Contains(t, view, "(no log entries)")
}

func TestEscCloses(t *testing.T) {
	m := newSizedModel()
	m.Toggle()

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.Visible())
}

func TestCtrlXCloses(t *testing.T) {
	m := newSizedModel()
	m.Toggle()

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	assert.False(t, m.Visible())
}

func TestCtrlCQuits(t *testing.T) {
	m := newSizedModel()
	m.Toggle()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestKeysIgnoredWhenHidden(t *testing.T) {
	m := newSizedModel()
	m, _ = m.Update(logMsg("[INFO] [ui] still here"))

	m, cmd := press(m, "c")
	assert.Nil(t, cmd)

	m.Toggle()
	assert.Contains(t, m.View(), "still here")
}

func TestHiddenViewIsEmpty(t *testing.T) {
	m := newSizedModel()
	m, _ = m.Update(logMsg("[INFO] [ui] invisible"))

	assert.Empty(t, m.View())
}

func TestViewRendersChrome(t *testing.T) {
	m := newSizedModel()
	m.Toggle()

	view := m.View()
	assert.Contains(t, view, "Logs")
	assert.Contains(t, view, "filter")
	assert.True(t, strings.Contains(view, "╭"), "expected rounded border")
}

func TestStartListeningWithoutLogger(t *testing.T) {
	m := New()

	// The global logger is never initialized in this package's tests, so
	// there is no broker to subscribe to.
	assert.Nil(t, m.StartListening())
	m.StopListening()
}
