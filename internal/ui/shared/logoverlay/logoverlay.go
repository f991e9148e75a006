// Package logoverlay provides an in-app log viewer that shows recent log
// entries without leaving the TUI. Entries arrive through the log broker;
// the overlay keeps its own bounded buffer.
package logoverlay

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/pastille/internal/log"
	"github.com/zjrosen/pastille/internal/ui/styles"
)

const (
	maxEntries      = 500 // Bounded entry buffer
	viewportMaxRows = 25
	viewportMinRows = 5
	boxMaxWidth     = 160
	boxMinWidth     = 40
)

// Model is the log overlay component state.
type Model struct {
	visible  bool
	minLevel log.Level
	entries  []string
	width    int
	height   int
	viewport viewport.Model

	listenCtx    context.Context
	listenCancel context.CancelFunc
	listener     *log.LogListener
}

// New creates a new log overlay model.
func New() Model {
	return Model{
		minLevel: log.LevelDebug,
	}
}

// StartListening subscribes to the log broker and returns the command that
// waits for the first entry. Returns nil when logging is disabled.
func (m *Model) StartListening() tea.Cmd {
	m.listenCtx, m.listenCancel = context.WithCancel(context.Background())
	m.listener = log.NewListener(m.listenCtx)
	if m.listener == nil {
		m.listenCancel()
		return nil
	}
	return m.listener.Listen()
}

// StopListening cancels the broker subscription.
func (m *Model) StopListening() {
	if m.listenCancel != nil {
		m.listenCancel()
	}
}

// Visible reports whether the overlay is showing.
func (m Model) Visible() bool {
	return m.visible
}

// Toggle flips overlay visibility.
func (m *Model) Toggle() {
	m.visible = !m.visible
	if m.visible {
		m.refreshViewport()
	}
}

// SetSize updates the overlay dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = m.boxWidth() - 4
	m.viewport.Height = m.viewportHeight()
	if m.visible {
		m.refreshViewport()
	}
}

// Update handles messages for the log overlay.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case log.LogEvent:
		m.entries = append(m.entries, strings.TrimRight(msg.Payload, "\n"))
		if len(m.entries) > maxEntries {
			m.entries = m.entries[len(m.entries)-maxEntries:]
		}
		if m.visible {
			m.refreshViewport()
			m.viewport.GotoBottom()
		}
		if m.listener != nil {
			return m, m.listener.Listen()
		}
		return m, nil

	case tea.KeyMsg:
		if !m.visible {
			return m, nil
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "c":
		m.entries = nil
		m.refreshViewport()

	case "d":
		m.minLevel = log.LevelDebug
		m.refreshViewport()
	case "i":
		m.minLevel = log.LevelInfo
		m.refreshViewport()
	case "w":
		m.minLevel = log.LevelWarn
		m.refreshViewport()
	case "e":
		m.minLevel = log.LevelError
		m.refreshViewport()

	case "j", "down":
		m.viewport.ScrollDown(1)
	case "k", "up":
		m.viewport.ScrollUp(1)
	case "g":
		m.viewport.GotoTop()
	case "G":
		m.viewport.GotoBottom()

	case "ctrl+c":
		return m, tea.Quit

	case "ctrl+x", "esc":
		m.visible = false
	}

	return m, nil
}

// refreshViewport rebuilds the viewport content from the filtered entries.
func (m *Model) refreshViewport() {
	filtered := make([]string, 0, len(m.entries))
	for _, entry := range m.entries {
		if entryLevel(entry) >= m.minLevel {
			filtered = append(filtered, entry)
		}
	}
	if len(filtered) == 0 {
		filtered = []string{"(no log entries)"}
	}
	m.viewport.Width = m.boxWidth() - 4
	m.viewport.Height = m.viewportHeight()
	m.viewport.SetContent(strings.Join(filtered, "\n"))
}

// entryLevel recovers the level from a formatted log line.
func entryLevel(entry string) log.Level {
	switch {
	case strings.Contains(entry, "[ERROR]"):
		return log.LevelError
	case strings.Contains(entry, "[WARN]"):
		return log.LevelWarn
	case strings.Contains(entry, "[INFO]"):
		return log.LevelInfo
	default:
		return log.LevelDebug
	}
}

func (m Model) boxWidth() int {
	w := m.width - 8
	if w > boxMaxWidth {
		w = boxMaxWidth
	}
	if w < boxMinWidth {
		w = boxMinWidth
	}
	return w
}

func (m Model) viewportHeight() int {
	h := m.height - 10
	if h > viewportMaxRows {
		h = viewportMaxRows
	}
	if h < viewportMinRows {
		h = viewportMinRows
	}
	return h
}

// View renders the overlay centered in the terminal.
func (m Model) View() string {
	if !m.visible {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.OverlayTitleColor)
	hintStyle := lipgloss.NewStyle().Foreground(styles.TextMutedColor)

	title := titleStyle.Render("Logs") + hintStyle.Render("  (level: "+m.minLevel.String()+")")
	hints := hintStyle.Render("d/i/w/e filter · c clear · j/k scroll · esc close")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Padding(0, 1).
		Width(m.boxWidth()).
		Render(title + "\n" + m.viewport.View() + "\n" + hints)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
