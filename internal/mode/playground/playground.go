// Package playground provides an interactive showcase of token field
// configurations and the theme color tokens.
package playground

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/pastille/internal/keys"
	"github.com/zjrosen/pastille/internal/mode"
	"github.com/zjrosen/pastille/internal/ui/styles"
)

// FocusPane represents which pane has focus.
type FocusPane int

const (
	// FocusSidebar means the demo list has focus.
	FocusSidebar FocusPane = iota
	// FocusDemo means the demo area has focus.
	FocusDemo
)

// Model holds the playground state.
type Model struct {
	services mode.Services
	keys     keys.PlaygroundKeyMap

	focus      FocusPane
	selected   int
	lastAction string

	demos     []Demo
	demoModel DemoModel
	demoIndex int // which demo is currently loaded

	width  int
	height int
}

// New creates a playground model.
func New(services mode.Services) Model {
	return Model{
		services:  services,
		keys:      keys.DefaultPlaygroundKeyMap(),
		demos:     demoRegistry(services),
		demoIndex: -1,
	}
}

// Init implements mode.Controller.
func (m Model) Init() tea.Cmd {
	return tea.EnableMouseCellMotion
}

// SetSize implements mode.Controller.
func (m Model) SetSize(width, height int) mode.Controller {
	m.width = width
	m.height = height
	if m.demoModel != nil {
		w, h := m.demoAreaSize()
		m.demoModel = m.demoModel.SetSize(w, h)
	}
	return m
}

// Update implements mode.Controller.
func (m Model) Update(msg tea.Msg) (mode.Controller, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.demoModel != nil {
			var cmd tea.Cmd
			m.demoModel, cmd, _ = m.demoModel.Update(msg)
			return m, cmd
		}
		return m, nil

	default:
		// Everything else may be demo-internal (pending token field
		// messages and the like).
		if m.demoModel != nil {
			var cmd tea.Cmd
			var action string
			m.demoModel, cmd, action = m.demoModel.Update(msg)
			if action != "" {
				m.lastAction = action
			}
			return m, cmd
		}
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (mode.Controller, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Focus):
		if m.focus == FocusSidebar {
			m.focus = FocusDemo
			m.ensureDemoLoaded()
		} else {
			m.focus = FocusSidebar
		}
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		if m.demoModel != nil {
			m.demoModel = m.demoModel.Reset()
			m.lastAction = "reset " + m.demos[m.selected].Name
		}
		return m, nil
	}

	if m.focus == FocusSidebar {
		return m.handleSidebarKey(msg)
	}
	return m.handleDemoKey(msg)
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (mode.Controller, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.selected = (m.selected + 1) % len(m.demos)
		m.ensureDemoLoaded()
	case key.Matches(msg, m.keys.Up):
		m.selected = (m.selected - 1 + len(m.demos)) % len(m.demos)
		m.ensureDemoLoaded()
	case msg.String() == "enter":
		m.ensureDemoLoaded()
		m.focus = FocusDemo
	}
	return m, nil
}

func (m Model) handleDemoKey(msg tea.KeyMsg) (mode.Controller, tea.Cmd) {
	if msg.String() == "esc" {
		m.focus = FocusSidebar
		return m, nil
	}

	if m.demoModel != nil {
		var cmd tea.Cmd
		var action string
		m.demoModel, cmd, action = m.demoModel.Update(msg)
		if action != "" {
			m.lastAction = action
		}
		return m, cmd
	}
	return m, nil
}

// ensureDemoLoaded builds the demo for the current selection if it is not
// already loaded.
func (m *Model) ensureDemoLoaded() {
	if m.demoIndex == m.selected || m.selected >= len(m.demos) {
		return
	}
	w, h := m.demoAreaSize()
	m.demoModel = m.demos[m.selected].Create(w, h)
	m.demoIndex = m.selected
	m.lastAction = ""
}

// demoAreaSize calculates the inner demo area dimensions.
func (m Model) demoAreaSize() (int, int) {
	demoWidth := m.width - m.sidebarWidth() - 2 - 4 // gap and borders
	demoHeight := m.height - 6
	return max(demoWidth, 20), max(demoHeight, 8)
}

// sidebarWidth is 30% of the total width, clamped to [20, 30].
func (m Model) sidebarWidth() int {
	w := m.width * 30 / 100
	return max(min(w, 30), 20)
}

// View implements mode.Controller.
func (m Model) View() string {
	mp := &m
	mp.ensureDemoLoaded()

	sidebarWidth := mp.sidebarWidth()
	contentHeight := max(mp.height-3, 5)

	sidebar := styles.RenderWithTitleBorder(
		renderSidebar(mp.demos, mp.selected, mp.focus == FocusSidebar),
		"Demos",
		sidebarWidth, contentHeight,
		mp.focus == FocusSidebar,
		styles.OverlayTitleColor, styles.BorderFocusColor,
	)

	demoWidth := max(mp.width-sidebarWidth-2, 24)
	var demoName, demoContent string
	if mp.selected < len(mp.demos) {
		demoName = mp.demos[mp.selected].Name
		demoContent = renderDemoArea(mp.demoModel, mp.demos[mp.selected].Description, mp.lastAction)
	}
	demoArea := styles.RenderWithTitleBorder(
		demoContent,
		demoName,
		demoWidth, contentHeight,
		mp.focus == FocusDemo,
		styles.OverlayTitleColor, styles.BorderFocusColor,
	)

	main := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, "  ", demoArea)

	footerStyle := lipgloss.NewStyle().Foreground(styles.TextMutedColor).Width(mp.width)
	footer := footerStyle.Render(strings.Join([]string{
		"tab: switch panes", "ctrl+r: reset", "ctrl+c: quit",
	}, "  |  "))

	return main + "\n" + footer
}
