// Package compose implements the draft-composition mode: a token field
// with mention completion, draft persistence and live theme reload.
package compose

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/pastille/internal/config"
	"github.com/zjrosen/pastille/internal/directory"
	"github.com/zjrosen/pastille/internal/drafts/domain"
	"github.com/zjrosen/pastille/internal/keys"
	"github.com/zjrosen/pastille/internal/log"
	"github.com/zjrosen/pastille/internal/mode"
	"github.com/zjrosen/pastille/internal/tokentext"
	"github.com/zjrosen/pastille/internal/ui/styles"
	"github.com/zjrosen/pastille/internal/ui/tokenfield"
)

// ConfigReloadedMsg is sent by the app layer after the config file changed
// on disk and was re-read successfully.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// draftSavedMsg reports a successful save.
type draftSavedMsg struct {
	id int64
}

// draftOpenedMsg carries a loaded draft.
type draftOpenedMsg struct {
	draft *domain.Draft
}

// draftErrMsg reports a failed repository operation.
type draftErrMsg struct {
	op  string
	err error
}

// Model holds compose mode state.
type Model struct {
	services mode.Services
	keys     keys.ComposeKeyMap
	help     help.Model
	field    *tokenfield.Model

	// Completion popup state, driven by InputChangedMsg.
	matches  []directory.Person
	selected int

	// Draft being edited; 0 until first save.
	draftID int64

	status    string
	statusErr bool

	width  int
	height int
}

// New creates a compose model wired to the shared services.
func New(services mode.Services) Model {
	cfg := services.Config

	field := tokenfield.New(tokenfield.Config{
		Placeholder:        cfg.Editor.Placeholder,
		Trigger:            cfg.Editor.TriggerRune(),
		CharLimit:          cfg.Editor.CharLimit,
		DisableSmartQuotes: !cfg.Editor.SmartQuotes,
		ResolveMention: func(input string) (string, string, bool) {
			person, ok := services.Directory.Resolve(context.Background(), input)
			if !ok {
				return "", "", false
			}
			return person.Display(), person.Key, true
		},
		DisplayFor: func(t tokenfield.Token) *tokentext.Display {
			return chipDisplayFor(services.Directory, t)
		},
		CancelInputOn: func(inserted, accumulated string) bool {
			// A space ends the mention attempt when nothing matches it.
			if inserted != " " {
				return false
			}
			return len(services.Directory.Search(context.Background(), accumulated)) == 0
		},
	})
	field.Focus()

	return Model{
		services: services,
		keys:     keys.DefaultComposeKeyMap(),
		help:     help.New(),
		field:    field,
	}
}

// chipDisplayFor resolves per-person chip styling from the directory.
func chipDisplayFor(dir *directory.Service, t tokenfield.Token) *tokentext.Display {
	person, ok := dir.Resolve(context.Background(), t.Key)
	if !ok || person.Color == "" {
		d := styles.ChipDisplay()
		return &d
	}
	d := styles.ChipDisplay()
	d.Background = parseChipColor(person.Color)
	return &d
}

// Init implements mode.Controller.
func (m Model) Init() tea.Cmd {
	return tea.EnableMouseCellMotion
}

// SetSize implements mode.Controller.
func (m Model) SetSize(width, height int) mode.Controller {
	m.width = width
	m.height = height
	m.help.Width = width
	m.field.SetWidth(fieldWidth(width))
	return m
}

// Update implements mode.Controller.
func (m Model) Update(msg tea.Msg) (mode.Controller, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		field, cmd := m.field.Update(msg)
		m.field = field
		return m, cmd

	case tokenfield.InputChangedMsg:
		m.matches = m.services.Directory.Search(context.Background(), msg.Text)
		if m.selected >= len(m.matches) {
			m.selected = 0
		}
		return m, nil

	case tokenfield.InputEndedMsg:
		m.matches = nil
		m.selected = 0
		if msg.Confirmed {
			m.setStatus("mention added", false)
		}
		return m, nil

	case tokenfield.TokenTappedMsg:
		m.setStatus(fmt.Sprintf("tapped %s", msg.Token.Text), false)
		return m, nil

	case tokenfield.SubmitMsg:
		return m, m.saveDraft(msg.Segments)

	case draftSavedMsg:
		m.draftID = msg.id
		m.setStatus(fmt.Sprintf("saved draft %d", msg.id), false)
		return m, nil

	case draftOpenedMsg:
		m.draftID = msg.draft.ID
		m.field.SetSegments(toFieldSegments(msg.draft.Segments))
		m.setStatus(fmt.Sprintf("opened draft %d", msg.draft.ID), false)
		return m, nil

	case draftErrMsg:
		m.setStatus(fmt.Sprintf("%s: %v", msg.op, msg.err), true)
		return m, nil

	case ConfigReloadedMsg:
		return m.applyConfig(msg.Config), nil
	}

	// Anything else may be field-internal (confirm requests from line
	// breaks during input mode).
	field, cmd := m.field.Update(msg)
	m.field = field
	return m, cmd
}

// handleKey routes key input between mode bindings, the completion popup
// and the token field.
func (m Model) handleKey(msg tea.KeyMsg) (mode.Controller, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Save):
		return m, m.saveDraft(m.field.Segments())

	case key.Matches(msg, m.keys.OpenLatest):
		return m, m.openLatest()

	case key.Matches(msg, m.keys.NewDraft):
		m.draftID = 0
		m.field.SetValue("")
		m.setStatus("new draft", false)
		return m, nil
	}

	if m.popupVisible() {
		switch {
		case key.Matches(msg, m.keys.PopupUp):
			m.selected = (m.selected + len(m.matches) - 1) % len(m.matches)
			return m, nil
		case key.Matches(msg, m.keys.PopupDown):
			m.selected = (m.selected + 1) % len(m.matches)
			return m, nil
		case key.Matches(msg, m.keys.Accept):
			person := m.matches[m.selected]
			m.matches = nil
			m.selected = 0
			return m, m.field.AcceptMention(person.Display(), person.Key)
		}
	}

	field, cmd := m.field.Update(msg)
	m.field = field
	// Entering input mode with just the trigger typed shows the full
	// directory before any input arrives.
	if m.field.InInputMode() && m.matches == nil {
		m.matches = m.services.Directory.Search(context.Background(), m.field.InputText())
		m.selected = 0
	}
	return m, cmd
}

// popupVisible reports whether the completion popup should render.
func (m Model) popupVisible() bool {
	return m.field.InInputMode() && len(m.matches) > 0
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// applyConfig re-themes the field and reloads the directory after a config
// file change.
func (m Model) applyConfig(cfg *config.Config) Model {
	m.services.Config = cfg
	m.services.Directory.SetPeople(cfg.Directory.People)

	ctrl := m.field.Controller()
	ctrl.SetPalette(styles.FieldPalette())
	ctrl.SetSmartQuotes(cfg.Editor.SmartQuotes)
	ctrl.UpdateFormatting()

	m.setStatus("config reloaded", false)
	log.Info(log.CatMode, "Applied reloaded config", "people", len(cfg.Directory.People))
	return m
}

// saveDraft persists the current segments, inserting or updating in place.
func (m Model) saveDraft(segs []tokenfield.Segment) tea.Cmd {
	repo := m.services.Drafts
	draft := &domain.Draft{
		ID:       m.draftID,
		Name:     draftName(segs),
		Segments: toDomainSegments(segs),
	}
	return func() tea.Msg {
		if err := repo.Save(draft); err != nil {
			log.ErrorErr(log.CatMode, "Draft save failed", err)
			return draftErrMsg{op: "save", err: err}
		}
		return draftSavedMsg{id: draft.ID}
	}
}

// openLatest loads the most recently updated draft into the field.
func (m Model) openLatest() tea.Cmd {
	repo := m.services.Drafts
	return func() tea.Msg {
		draft, err := repo.FindLatest()
		if err != nil {
			return draftErrMsg{op: "open", err: err}
		}
		return draftOpenedMsg{draft: draft}
	}
}
