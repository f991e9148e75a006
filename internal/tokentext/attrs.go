package tokentext

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

// InputMark flags a run as part of the transient input-mode region.
type InputMark uint8

const (
	// InputMarkNone marks ordinary text.
	InputMarkNone InputMark = iota
	// InputMarkAnchor marks the trigger character(s) that opened input mode.
	InputMarkAnchor
	// InputMarkText marks the live, uncommitted text following the anchor.
	InputMarkText
)

// FontStyle is the terminal analog of a font choice.
type FontStyle struct {
	Bold      bool
	Italic    bool
	Underline bool
}

// Attributes is the fixed set of per-run metadata the buffer tracks.
//
// TokenRef, ExternalKey and Mark are authoritative: they define where tokens
// and the input region live. Foreground, Background, Font and Kerning are
// presentation only - they are rewritten wholesale by every formatting pass
// and must never be treated as state.
type Attributes[K comparable] struct {
	Foreground lipgloss.TerminalColor
	Background lipgloss.TerminalColor
	Font       *FontStyle
	Kerning    int

	TokenRef    uuid.UUID // uuid.Nil when the run is not part of a token
	ExternalKey *K
	Mark        InputMark

	// Padding flags a placeholder run (a single space) that exists purely
	// as chip padding and is not content. Serialization drops such runs.
	Padding bool
}

// IsToken reports whether the run belongs to a token.
func (a Attributes[K]) IsToken() bool {
	return a.TokenRef != uuid.Nil
}

// equal compares attributes by value, dereferencing pointer fields.
// Run coalescing depends on this.
func (a Attributes[K]) equal(b Attributes[K]) bool {
	if a.Foreground != b.Foreground || a.Background != b.Background {
		return false
	}
	if a.Kerning != b.Kerning || a.TokenRef != b.TokenRef || a.Mark != b.Mark || a.Padding != b.Padding {
		return false
	}
	if (a.Font == nil) != (b.Font == nil) || (a.Font != nil && *a.Font != *b.Font) {
		return false
	}
	if (a.ExternalKey == nil) != (b.ExternalKey == nil) {
		return false
	}
	if a.ExternalKey != nil && *a.ExternalKey != *b.ExternalKey {
		return false
	}
	return true
}

// clearPresentation resets the derived fields, leaving token and input
// markers untouched.
func (a *Attributes[K]) clearPresentation() {
	a.Foreground = nil
	a.Background = nil
	a.Font = nil
	a.Kerning = 0
}

// AttributeRun pairs attributes with the range they cover. It is the unit
// the supplemental-formatting hook returns.
type AttributeRun[K comparable] struct {
	Attributes Attributes[K]
	Range      Range
}
