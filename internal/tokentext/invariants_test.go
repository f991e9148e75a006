package tokentext

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// buildRandomSession assembles a controller with random plain text and
// random tokens inserted at random positions.
func buildRandomSession(t *rapid.T) *Controller[string] {
	c := New(Hooks[string]{})
	c.SetText(rapid.StringOfN(rapid.RuneFrom([]rune("ab x\n")), 0, 20, -1).Draw(t, "text"))

	tokenCount := rapid.IntRange(0, 4).Draw(t, "tokenCount")
	for i := 0; i < tokenCount; i++ {
		pos := rapid.IntRange(0, utf8.RuneCountInString(c.Text())).Draw(t, "pos")
		text := rapid.StringOfN(rapid.RuneFrom([]rune("tok")), 1, 5, -1).Draw(t, "tokenText")
		c.AddToken(pos, text, text)
	}
	return c
}

// Segments concatenated in order always reproduce the full text.
func TestProperty_SegmentsRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := buildRandomSession(t)

		var joined string
		for _, s := range c.Segments() {
			joined += s.Content()
		}
		require.Equal(t, c.Text(), joined)
	})
}

// Token ranges never overlap, never have zero length, and stay in ascending
// order under random edits.
func TestProperty_TokenRangesDisjointAndOrdered(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := buildRandomSession(t)

		// A few random edits through the policy layer.
		edits := rapid.IntRange(0, 5).Draw(t, "edits")
		for i := 0; i < edits; i++ {
			n := utf8.RuneCountInString(c.Text())
			pos := rapid.IntRange(0, n).Draw(t, "editPos")
			length := rapid.IntRange(0, n-pos).Draw(t, "editLen")
			replacement := rapid.StringOfN(rapid.RuneFrom([]rune("xy ")), 0, 3, -1).Draw(t, "replacement")
			r := Range{Pos: pos, Len: length}
			if c.ProposeEdit(r, replacement) {
				c.ApplyEdit(r, replacement)
			}
		}

		prevEnd := -1
		for _, tok := range c.TokenList() {
			require.Greater(t, tok.Range.Len, 0, "zero-length token")
			require.GreaterOrEqual(t, tok.Range.Pos, prevEnd, "overlapping tokens")
			prevEnd = tok.Range.End()
		}
	})
}

// IsValidEditingRange agrees with the interior-boundary definition.
func TestProperty_ValidityGateMatchesDefinition(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := buildRandomSession(t)
		buf := c.Buffer()

		n := buf.Len()
		pos := rapid.IntRange(0, n).Draw(t, "pos")
		length := rapid.IntRange(0, n-pos).Draw(t, "len")
		r := Range{Pos: pos, Len: length}

		want := true
		if r.Len > 0 {
			for _, tok := range buf.TokenList() {
				if insideInterior(r.Pos, tok.Range) || insideInterior(r.End(), tok.Range) {
					want = false
				}
			}
		}
		require.Equal(t, want, buf.IsValidEditingRange(r))
	})
}

// ClampSelection never leaves an endpoint inside a token interior, and
// clamping an already-clamped selection changes nothing.
func TestProperty_ClampSelectionIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := buildRandomSession(t)

		n := c.Buffer().Len()
		pos := rapid.IntRange(-2, n+2).Draw(t, "pos")
		length := rapid.IntRange(0, n+2).Draw(t, "len")

		got := c.ClampSelection(Range{Pos: pos, Len: length})
		for _, tok := range c.TokenList() {
			require.False(t, insideInterior(got.Pos, tok.Range), "start inside token")
			require.False(t, insideInterior(got.End(), tok.Range), "end inside token")
		}
		require.Equal(t, got, c.ClampSelection(got))
	})
}

// Re-deriving presentation from scratch is idempotent: a full formatting
// pass after any edit sequence produces identical runs when run twice.
func TestProperty_FormattingIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := buildRandomSession(t)

		c.UpdateFormatting()
		first := snapshotRuns(c.Buffer())

		c.UpdateFormatting()
		second := snapshotRuns(c.Buffer())

		require.Equal(t, len(first), len(second))
		for i := range first {
			require.Equal(t, first[i].Range, second[i].Range)
			require.True(t, first[i].Attributes.equal(second[i].Attributes))
		}
	})
}
