// Package tokenfield provides a text input whose content mixes plain text
// with atomic token chips (mentions, tags). Tokens behave as single
// characters for cursor movement, selection and deletion, and render as
// styled chips. Typing the trigger rune opens a transient input mode in
// which the pending mention is tracked live until confirmed into a token or
// cancelled.
package tokenfield

import (
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/pastille/internal/tokentext"
)

// Token is the widget-level token alias: external keys are strings.
type Token = tokentext.Token[string]

// Segment is the widget-level segment alias.
type Segment = tokentext.Segment[string]

// Config defines tokenfield configuration with optional callbacks.
type Config struct {
	// Placeholder is shown when the field is empty.
	Placeholder string

	// Width is the display width in cells. Defaults to 40.
	Width int

	// Trigger is the rune that opens input mode. 0 disables input mode.
	// Defaults to '@' when left zero and DisableTrigger is false.
	Trigger        rune
	DisableTrigger bool

	// CharLimit caps the content length in runes. 0 means unlimited.
	CharLimit int

	// DisableSmartQuotes turns off typographic quote substitution.
	DisableSmartQuotes bool

	// ResolveMention maps confirmed input text to a token. Returning ok ==
	// false cancels the confirmation, keeping the typed text.
	ResolveMention func(input string) (text, key string, ok bool)

	// DisplayFor resolves chip styling per token. Nil uses the default
	// white-on-gray chip.
	DisplayFor func(t Token) *tokentext.Display

	// SupplementalRuns contributes extra styling over plain text.
	SupplementalRuns func(text string, r tokentext.Range) []tokentext.AttributeRun[string]

	// CancelInputOn vetoes input-mode continuation (e.g. on whitespace).
	CancelInputOn func(inserted, accumulated string) bool

	// OnSubmit produces a message when content is submitted (Enter outside
	// input mode). If nil, tokenfield produces SubmitMsg.
	OnSubmit func(segments []Segment) tea.Msg

	// OnChange produces a message when content changes. If nil, no message
	// is emitted.
	OnChange func(content string) tea.Msg
}

// SubmitMsg is emitted on Enter when no custom OnSubmit is configured.
type SubmitMsg struct {
	Segments []Segment
}

// InputChangedMsg carries the live mention text while input mode is active,
// for completion UIs.
type InputChangedMsg struct {
	Text string
}

// InputEndedMsg signals that input mode finished, by confirmation or cancel.
type InputEndedMsg struct {
	Confirmed bool
	Reason    tokentext.CancelReason
}

// TokenTappedMsg is emitted when a chip is clicked.
type TokenTappedMsg struct {
	Token Token
}

// Model holds the tokenfield state.
type Model struct {
	config  Config
	ctrl    *tokentext.Controller[string]
	focused bool
	width   int

	zonePrefix string

	// Messages produced by synchronous controller hooks during Update,
	// drained into commands before returning.
	pending []tea.Msg

	cursorStyle      lipgloss.Style
	placeholderStyle lipgloss.Style
}

// New creates a tokenfield model.
func New(cfg Config) *Model {
	if cfg.Width <= 0 {
		cfg.Width = 40
	}
	if cfg.Trigger == 0 && !cfg.DisableTrigger {
		cfg.Trigger = '@'
	}

	m := &Model{
		config:           cfg,
		width:            cfg.Width,
		zonePrefix:       zone.NewPrefix(),
		cursorStyle:      lipgloss.NewStyle().Reverse(true),
		placeholderStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}

	m.ctrl = tokentext.New(tokentext.Hooks[string]{
		TokenDisplay: func(t Token) *tokentext.Display {
			if cfg.DisplayFor == nil {
				return nil
			}
			return cfg.DisplayFor(t)
		},
		SupplementalRuns:  cfg.SupplementalRuns,
		ShouldCancelInput: cfg.CancelInputOn,
		ContentChanged: func() {
			if cfg.OnChange != nil {
				m.pending = append(m.pending, cfg.OnChange(m.ctrl.Text()))
			}
		},
		InputChanged: func(text string) {
			m.pending = append(m.pending, InputChangedMsg{Text: text})
		},
		InputConfirmRequested: func() {
			m.pending = append(m.pending, confirmRequestedMsg{})
		},
		InputCancelled: func(reason tokentext.CancelReason) {
			m.pending = append(m.pending, InputEndedMsg{Reason: reason})
		},
		TokenTapped: func(t Token) {
			m.pending = append(m.pending, TokenTappedMsg{Token: t})
		},
	})
	if cfg.DisableSmartQuotes {
		m.ctrl.SetSmartQuotes(false)
	}
	return m
}

// confirmRequestedMsg is internal: a line break arrived during input mode.
type confirmRequestedMsg struct{}

// Controller exposes the underlying editing controller for advanced use
// (bulk tokenization, programmatic token edits).
func (m *Model) Controller() *tokentext.Controller[string] {
	return m.ctrl
}

// Value returns the current plain text content, including token text.
func (m *Model) Value() string {
	return m.ctrl.Text()
}

// SetValue replaces the content with plain text, discarding all tokens.
func (m *Model) SetValue(v string) {
	m.ctrl.SetText(v)
	m.pending = nil
}

// SetSegments replaces the content with the given segment sequence,
// recreating token spans.
func (m *Model) SetSegments(segs []Segment) {
	m.ctrl.SetText("")
	m.pending = nil
	pos := 0
	for _, s := range segs {
		if s.IsToken() {
			if tok, ok := m.ctrl.AddToken(pos, s.Token.Text, s.Token.Key); ok {
				pos = tok.Range.Pos + tok.Range.Len
			}
			continue
		}
		r := tokentext.Range{Pos: pos}
		if m.ctrl.ProposeEdit(r, s.Text) {
			m.ctrl.ApplyEdit(r, s.Text)
			pos += utf8.RuneCountInString(s.Text)
		}
	}
	m.ctrl.SetSelectedRange(tokentext.Range{Pos: pos})
	// Loading content is not an edit; drop the change notifications.
	m.pending = nil
}

// AcceptMention confirms the pending input as the given token, bypassing
// ResolveMention. Used by completion UIs. No-op outside input mode.
func (m *Model) AcceptMention(text, key string) tea.Cmd {
	if !m.InInputMode() {
		return nil
	}
	if _, ok := m.ctrl.ConfirmInput(text, key); !ok {
		return nil
	}
	m.pending = append(m.pending, InputEndedMsg{Confirmed: true})
	return m.drain()
}

// Segments returns the content decomposed into text and token segments.
func (m *Model) Segments() []Segment {
	return m.ctrl.Segments()
}

// Tokens returns all tokens in position order.
func (m *Model) Tokens() []Token {
	return m.ctrl.TokenList()
}

// Cursor returns the cursor position in runes.
func (m *Model) Cursor() int {
	return m.ctrl.SelectedRange().Pos
}

// SetCursor moves the cursor, clamped to legal positions.
func (m *Model) SetCursor(pos int) {
	m.ctrl.SetSelectedRange(tokentext.Range{Pos: pos})
}

// InInputMode reports whether a mention is being typed.
func (m *Model) InInputMode() bool {
	return m.ctrl.Mode() == tokentext.EditingModeInput
}

// InputText returns the live mention text, excluding the trigger.
func (m *Model) InputText() string {
	return m.ctrl.InputText()
}

// Focused returns whether the field receives key input.
func (m *Model) Focused() bool { return m.focused }

// Focus makes the field receive key input.
func (m *Model) Focus() { m.focused = true }

// Blur stops the field from receiving key input.
func (m *Model) Blur() { m.focused = false }

// SetWidth sets the display width.
func (m *Model) SetWidth(w int) {
	if w < 1 {
		w = 1
	}
	m.width = w
}

// Width returns the display width.
func (m *Model) Width() int { return m.width }

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case confirmRequestedMsg:
		return m, m.confirmMention()

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		for _, t := range m.ctrl.TokenList() {
			if zone.Get(m.zonePrefix + t.Ref.String()).InBounds(msg) {
				m.ctrl.HandleTap(t.Range.Pos)
				break
			}
		}
		return m, m.drain()

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyLeft:
		if msg.Alt {
			m.SetCursor(prevWordStart(m.Value(), m.Cursor()))
		} else {
			m.moveLeft()
		}
	case tea.KeyRight:
		if msg.Alt {
			m.SetCursor(nextWordEnd(m.Value(), m.Cursor()))
		} else {
			m.moveRight()
		}
	case tea.KeyHome, tea.KeyCtrlA:
		m.SetCursor(0)
	case tea.KeyEnd, tea.KeyCtrlE:
		m.SetCursor(m.ctrl.Buffer().Len())
	case tea.KeyBackspace:
		m.backspace()
	case tea.KeyDelete:
		m.deleteForward()
	case tea.KeyEscape:
		if m.InInputMode() {
			m.ctrl.EndInputEditing(true)
			m.pending = append(m.pending, InputEndedMsg{Reason: tokentext.CancelByTapOut})
		}
	case tea.KeyEnter:
		if m.InInputMode() {
			return tea.Batch(m.confirmMention(), m.drain())
		}
		return tea.Batch(m.submit(), m.drain())
	case tea.KeySpace:
		m.insert(" ")
	case tea.KeyRunes:
		if msg.Alt && len(msg.Runes) == 1 {
			switch msg.Runes[0] {
			case 'f':
				m.SetCursor(nextWordEnd(m.Value(), m.Cursor()))
				return m.drain()
			case 'b':
				m.SetCursor(prevWordStart(m.Value(), m.Cursor()))
				return m.drain()
			}
		}
		for _, r := range msg.Runes {
			if !m.config.DisableTrigger && r == m.config.Trigger && !m.InInputMode() {
				m.ctrl.SwitchToInputEditingMode(m.Cursor(), string(r), 0)
				continue
			}
			m.insert(string(r))
		}
	}
	return m.drain()
}

// moveRight advances the cursor by one editing unit: a whole token when one
// starts at the cursor, otherwise one grapheme cluster.
func (m *Model) moveRight() {
	cur := m.Cursor()
	for _, t := range m.ctrl.TokenList() {
		if t.Range.Pos == cur {
			m.SetCursor(t.Range.End())
			return
		}
	}
	m.SetCursor(nextGraphemeStart(m.Value(), cur))
}

// moveLeft is the mirror of moveRight.
func (m *Model) moveLeft() {
	cur := m.Cursor()
	for _, t := range m.ctrl.TokenList() {
		if t.Range.End() == cur {
			m.SetCursor(t.Range.Pos)
			return
		}
	}
	m.SetCursor(prevGraphemeStart(m.Value(), cur))
}

// insert routes a text insertion through the edit policy. Insertions are
// clamped to the CharLimit budget, counting the selected runes the edit
// replaces.
func (m *Model) insert(s string) {
	sel := m.ctrl.SelectedRange()
	if m.config.CharLimit > 0 {
		room := m.config.CharLimit - (m.ctrl.Buffer().Len() - sel.Len)
		if room <= 0 {
			return
		}
		if runes := []rune(s); len(runes) > room {
			s = string(runes[:room])
		}
	}
	if m.ctrl.ProposeEdit(sel, s) {
		m.ctrl.ApplyEdit(sel, s)
	}
}

// backspace deletes the editing unit before the cursor. A token before the
// cursor is deleted whole by the policy layer's single-character redirect.
func (m *Model) backspace() {
	cur := m.Cursor()
	if sel := m.ctrl.SelectedRange(); sel.Len > 0 {
		if m.ctrl.ProposeEdit(sel, "") {
			m.ctrl.ApplyEdit(sel, "")
		}
		return
	}
	if cur == 0 {
		return
	}
	r := tokentext.Range{Pos: cur - 1, Len: 1}
	if m.ctrl.ProposeEdit(r, "") {
		m.ctrl.ApplyEdit(r, "")
	}
}

// deleteForward deletes the editing unit at the cursor.
func (m *Model) deleteForward() {
	cur := m.Cursor()
	if cur >= m.ctrl.Buffer().Len() {
		return
	}
	r := tokentext.Range{Pos: cur, Len: 1}
	if m.ctrl.ProposeEdit(r, "") {
		m.ctrl.ApplyEdit(r, "")
	}
}

// confirmMention turns the pending input into a token via ResolveMention.
// Without a resolver (or when it declines) the typed text stays as plain
// content.
func (m *Model) confirmMention() tea.Cmd {
	if !m.InInputMode() {
		return nil
	}
	input := m.ctrl.InputText()
	if m.config.ResolveMention != nil {
		if text, key, ok := m.config.ResolveMention(input); ok {
			m.ctrl.ConfirmInput(text, key)
			m.pending = append(m.pending, InputEndedMsg{Confirmed: true})
			return m.drain()
		}
	}
	m.ctrl.EndInputEditing(true)
	m.pending = append(m.pending, InputEndedMsg{Reason: tokentext.CancelByVeto})
	return m.drain()
}

func (m *Model) submit() tea.Cmd {
	segs := m.ctrl.Segments()
	if m.config.OnSubmit != nil {
		msg := m.config.OnSubmit(segs)
		return func() tea.Msg { return msg }
	}
	return func() tea.Msg { return SubmitMsg{Segments: segs} }
}

// drain converts hook-produced messages into a command.
func (m *Model) drain() tea.Cmd {
	if len(m.pending) == 0 {
		return nil
	}
	msgs := m.pending
	m.pending = nil
	cmds := make([]tea.Cmd, len(msgs))
	for i, msg := range msgs {
		msg := msg
		cmds[i] = func() tea.Msg { return msg }
	}
	return tea.Batch(cmds...)
}
