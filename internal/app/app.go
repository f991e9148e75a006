// Package app contains the root application model.
package app

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/pastille/internal/config"
	"github.com/zjrosen/pastille/internal/keys"
	"github.com/zjrosen/pastille/internal/log"
	"github.com/zjrosen/pastille/internal/mode"
	"github.com/zjrosen/pastille/internal/mode/compose"
	"github.com/zjrosen/pastille/internal/mode/playground"
	"github.com/zjrosen/pastille/internal/pubsub"
	"github.com/zjrosen/pastille/internal/ui/shared/logoverlay"
	"github.com/zjrosen/pastille/internal/ui/styles"
	"github.com/zjrosen/pastille/internal/watcher"
)

// Model is the root application state. It hosts the active mode controller
// and owns the cross-cutting pieces: the config watcher, the debug log
// overlay, and window size fan-out.
type Model struct {
	active   mode.Controller
	services mode.Services
	keys     keys.AppKeyMap

	width  int
	height int

	debugMode    bool
	logOverlay   logoverlay.Model
	logListenCmd tea.Cmd

	// Config file watcher for live theme/directory reload (pubsub-based)
	watcherHandle   *watcher.Watcher
	watcherCancel   context.CancelFunc
	watcherListener *pubsub.ContinuousListener[watcher.Event]
}

// New creates the application model hosting the given mode.
// debugMode enables the log overlay (Ctrl+X toggle).
func New(services mode.Services, appMode mode.AppMode, debugMode bool) Model {
	var (
		watcherHandle   *watcher.Watcher
		watcherCancel   context.CancelFunc
		watcherListener *pubsub.ContinuousListener[watcher.Event]
	)

	if services.ConfigPath != "" {
		w, err := watcher.New(watcher.DefaultConfig(services.ConfigPath))
		if err == nil {
			if err := w.Start(); err == nil {
				var ctx context.Context
				ctx, watcherCancel = context.WithCancel(context.Background())
				watcherHandle = w
				watcherListener = pubsub.NewContinuousListener(ctx, w.Broker())
			} else {
				_ = w.Stop()
			}
		}
		// The app works fine without live reload, so watcher init errors
		// are not fatal.
	}

	var active mode.Controller
	switch appMode {
	case mode.ModePlayground:
		active = playground.New(services)
	default:
		active = compose.New(services)
	}

	overlay := logoverlay.New()
	var logListenCmd tea.Cmd
	if debugMode {
		logListenCmd = overlay.StartListening()
	}

	return Model{
		active:          active,
		services:        services,
		keys:            keys.DefaultAppKeyMap(),
		debugMode:       debugMode,
		logOverlay:      overlay,
		logListenCmd:    logListenCmd,
		watcherHandle:   watcherHandle,
		watcherCancel:   watcherCancel,
		watcherListener: watcherListener,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.active.Init()}

	if m.watcherListener != nil {
		cmds = append(cmds, m.watcherListener.Listen())
	}
	if m.logListenCmd != nil {
		cmds = append(cmds, m.logListenCmd)
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.active = m.active.SetSize(msg.Width, msg.Height)
		m.logOverlay.SetSize(msg.Width, msg.Height)
		return m, nil

	case log.LogEvent:
		var cmd tea.Cmd
		m.logOverlay, cmd = m.logOverlay.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.debugMode && key.Matches(msg, m.keys.ToggleLogs) {
			m.logOverlay.Toggle()
			return m, nil
		}

		// A visible log overlay takes precedence for key handling.
		if m.logOverlay.Visible() {
			var cmd tea.Cmd
			m.logOverlay, cmd = m.logOverlay.Update(msg)
			return m, cmd
		}

	case pubsub.Event[watcher.Event]:
		return m.handleConfigChanged(msg)
	}

	var cmd tea.Cmd
	m.active, cmd = m.active.Update(msg)
	return m, cmd
}

// handleConfigChanged reloads the config file after the watcher reports a
// change, re-applies the theme, and notifies the active mode.
func (m Model) handleConfigChanged(msg pubsub.Event[watcher.Event]) (tea.Model, tea.Cmd) {
	if msg.Type != pubsub.UpdatedEvent {
		return m, m.watcherListener.Listen()
	}

	cfg, err := config.Load(msg.Payload.Path)
	if err != nil {
		log.Warn(log.CatConfig, "Config reload failed, keeping previous config", "error", err)
		return m, m.watcherListener.Listen()
	}

	if err := styles.ApplyTheme(styles.ThemeConfig{
		Preset: cfg.Theme.Preset,
		Mode:   cfg.Theme.Mode,
		Colors: cfg.Theme.FlattenedColors(),
	}); err != nil {
		log.Warn(log.CatConfig, "Theme reload failed", "error", err)
	}

	*m.services.Config = cfg
	log.Info(log.CatConfig, "Config reloaded", "path", msg.Payload.Path)

	reloaded := m.services.Config
	return m, tea.Batch(
		func() tea.Msg { return compose.ConfigReloadedMsg{Config: reloaded} },
		m.watcherListener.Listen(),
	)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.debugMode && m.logOverlay.Visible() {
		return m.logOverlay.View()
	}
	return m.active.View()
}

// Close releases resources held by the application.
func (m *Model) Close() error {
	m.logOverlay.StopListening()

	if m.watcherCancel != nil {
		m.watcherCancel()
	}
	if m.watcherHandle != nil {
		if err := m.watcherHandle.Stop(); err != nil {
			return err
		}
	}
	return nil
}
