package tokentext

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// attrsAt returns the attributes covering a single position.
func attrsAt(b *Buffer[string], pos int) Attributes[string] {
	var out Attributes[string]
	b.EnumerateRuns(func(r Range, a Attributes[string]) bool {
		if r.Contains(pos) {
			out = a
			return false
		}
		return true
	})
	return out
}

// snapshotRuns captures the run layout for idempotence checks.
func snapshotRuns(b *Buffer[string]) []AttributeRun[string] {
	var out []AttributeRun[string]
	b.EnumerateRuns(func(r Range, a Attributes[string]) bool {
		out = append(out, AttributeRun[string]{Attributes: a, Range: r})
		return true
	})
	return out
}

func newFormatter(display func(Token[string]) *Display, supplemental func(string, Range) []AttributeRun[string]) formatter[string] {
	return formatter[string]{
		palette:      DefaultPalette(),
		display:      display,
		supplemental: supplemental,
	}
}

func TestStraightenQuotes_Polarity(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"double quote at start opens", `"hi`, "“hi"},
		{"double quote after space opens", `say "hi`, "say “hi"},
		{"double quote after letter closes", `hi"`, "hi”"},
		{"apostrophe after letter closes", "don't", "don’t"},
		{"apostrophe at start opens", "'ello", "‘ello"},
		{"apostrophe after newline opens", "a\n'b", "a\n‘b"},
		{"paired quotes", `she said "yes" twice`, "she said “yes” twice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := []rune(tt.in)
			straightenQuotes(content)
			assert.Equal(t, tt.want, string(content))
		})
	}
}

func TestFormatter_QuotesRunOnTextEdit(t *testing.T) {
	b := NewBuffer[string]()
	b.SetText(`say "hi"`)
	f := newFormatter(nil, nil)

	f.apply(b, Range{Pos: 0, Len: b.Len()}, true)

	assert.Equal(t, "say “hi”", b.String())
}

func TestFormatter_NoQuoteMutationOnAttributeRefresh(t *testing.T) {
	b := NewBuffer[string]()
	b.SetText(`say "hi"`)
	f := newFormatter(nil, nil)

	f.apply(b, Range{Pos: 0, Len: b.Len()}, false)

	assert.Equal(t, `say "hi"`, b.String())
}

func TestFormatter_ResetsBaseColor(t *testing.T) {
	b := NewBuffer[string]()
	b.SetText("plain text")
	f := newFormatter(nil, nil)

	f.apply(b, Range{Pos: 0, Len: b.Len()}, false)

	a := attrsAt(b, 0)
	assert.Equal(t, f.palette.Text, a.Foreground)
	assert.Nil(t, a.Background)
	assert.Equal(t, 0, a.Kerning)
}

func TestFormatter_TokenDisplayApplied(t *testing.T) {
	b := NewBuffer[string]()
	b.SetText("hi alice bye")
	markToken(t, b, Range{Pos: 3, Len: 5}, "alice")

	chip := &Display{
		Foreground: lipgloss.Color("#000000"),
		Background: lipgloss.Color("#34D399"),
	}
	f := newFormatter(func(Token[string]) *Display { return chip }, nil)
	f.apply(b, Range{Pos: 0, Len: b.Len()}, false)

	a := attrsAt(b, 4)
	assert.Equal(t, chip.Foreground, a.Foreground)
	assert.Equal(t, chip.Background, a.Background)
}

func TestFormatter_TokenDisplayFallsBackToDefault(t *testing.T) {
	b := NewBuffer[string]()
	b.SetText("alice")
	markToken(t, b, Range{Pos: 0, Len: 5}, "alice")

	f := newFormatter(func(Token[string]) *Display { return nil }, nil)
	f.apply(b, Range{Pos: 0, Len: b.Len()}, false)

	def := DefaultDisplay()
	a := attrsAt(b, 2)
	assert.Equal(t, def.Foreground, a.Foreground)
	assert.Equal(t, def.Background, a.Background)
}

func TestFormatter_KerningHugsChip(t *testing.T) {
	b := NewBuffer[string]()
	b.SetText("x alice y")
	markToken(t, b, Range{Pos: 2, Len: 5}, "alice")

	f := newFormatter(nil, nil)
	f.apply(b, Range{Pos: 0, Len: b.Len()}, false)

	assert.Equal(t, chipKerning, attrsAt(b, 1).Kerning)
	assert.Equal(t, chipKerning, attrsAt(b, 7).Kerning)
	assert.Equal(t, 0, attrsAt(b, 0).Kerning)
	assert.Equal(t, 0, attrsAt(b, 4).Kerning)
}

func TestFormatter_InputRegionGetsLinkColor(t *testing.T) {
	b := NewBuffer[string]()
	b.SetText("hi @bob x")
	b.MergeAttributes(Range{Pos: 3, Len: 1}, func(a *Attributes[string]) { a.Mark = InputMarkAnchor })
	b.MergeAttributes(Range{Pos: 4, Len: 3}, func(a *Attributes[string]) { a.Mark = InputMarkText })

	f := newFormatter(nil, nil)
	f.apply(b, Range{Pos: 0, Len: b.Len()}, false)

	assert.Equal(t, f.palette.Link, attrsAt(b, 3).Foreground)
	assert.Equal(t, f.palette.Link, attrsAt(b, 5).Foreground)
	assert.Equal(t, f.palette.Text, attrsAt(b, 0).Foreground)
}

func TestFormatter_SupplementalNeverOverridesTokens(t *testing.T) {
	b := NewBuffer[string]()
	b.SetText("hi alice bye")
	markToken(t, b, Range{Pos: 3, Len: 5}, "alice")

	red := lipgloss.Color("#FF0000")
	supplemental := func(text string, r Range) []AttributeRun[string] {
		return []AttributeRun[string]{
			// Intersects the token: must be dropped.
			{Attributes: Attributes[string]{Foreground: red}, Range: Range{Pos: 3, Len: 5}},
			// Plain text: applies.
			{Attributes: Attributes[string]{Foreground: red}, Range: Range{Pos: 0, Len: 2}},
		}
	}
	f := newFormatter(nil, supplemental)
	f.apply(b, Range{Pos: 0, Len: b.Len()}, false)

	assert.Equal(t, red, attrsAt(b, 0).Foreground)
	def := DefaultDisplay()
	assert.Equal(t, def.Foreground, attrsAt(b, 4).Foreground)
}

func TestFormatter_Idempotent(t *testing.T) {
	b := NewBuffer[string]()
	b.SetText(`say "hi" to alice now`)
	markToken(t, b, Range{Pos: 12, Len: 5}, "alice")
	b.MergeAttributes(Range{Pos: 18, Len: 3}, func(a *Attributes[string]) { a.Mark = InputMarkText })

	f := newFormatter(nil, func(text string, r Range) []AttributeRun[string] {
		return []AttributeRun[string]{
			{Attributes: Attributes[string]{Font: &FontStyle{Bold: true}}, Range: Range{Pos: 0, Len: 3}},
		}
	})

	f.apply(b, Range{Pos: 0, Len: b.Len()}, true)
	text1 := b.String()
	runs1 := snapshotRuns(b)

	f.apply(b, Range{Pos: 0, Len: b.Len()}, true)
	assert.Equal(t, text1, b.String())
	require.Equal(t, len(runs1), len(snapshotRuns(b)))
	for i, r := range snapshotRuns(b) {
		assert.Equal(t, runs1[i].Range, r.Range)
		assert.True(t, runs1[i].Attributes.equal(r.Attributes))
	}
}

func TestFormatter_ScopeExtendsToFullLine(t *testing.T) {
	b := NewBuffer[string]()
	b.SetText("first line\nsecond line")
	f := newFormatter(nil, nil)

	// Format only a slice in the middle of line two; the whole line is
	// reset, line one is untouched.
	f.apply(b, Range{Pos: 14, Len: 1}, false)

	assert.Equal(t, f.palette.Text, attrsAt(b, 11).Foreground)
	assert.Equal(t, f.palette.Text, attrsAt(b, 21).Foreground)
	assert.Nil(t, attrsAt(b, 0).Foreground)
}
