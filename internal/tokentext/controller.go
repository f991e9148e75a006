package tokentext

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// EditingMode selects how incoming edits are routed.
type EditingMode uint8

const (
	// EditingModeNormal routes edits through the token atomicity policy.
	EditingModeNormal EditingMode = iota
	// EditingModeInput routes edits through the input-mode state machine.
	EditingModeInput
)

// Controller owns one buffer for one editing session and applies
// user-intended edits to it while enforcing token atomicity. All operations
// are synchronous and run on the caller's goroutine; the controller is not
// safe for concurrent use and does not need to be.
type Controller[K comparable] struct {
	buf    *Buffer[K]
	format formatter[K]
	hooks  Hooks[K]

	selection   Range
	selectedRef uuid.UUID
	mode        EditingMode
}

// New creates a controller with an empty buffer and the default palette.
func New[K comparable](hooks Hooks[K]) *Controller[K] {
	c := &Controller[K]{
		buf:   NewBuffer[K](),
		hooks: hooks,
	}
	c.format = formatter[K]{
		palette:      DefaultPalette(),
		display:      hooks.TokenDisplay,
		supplemental: hooks.SupplementalRuns,
	}
	return c
}

// SetPalette replaces the base colors the formatting pass resets to.
// Call UpdateFormatting afterwards to restyle existing content.
func (c *Controller[K]) SetPalette(p Palette) {
	c.format.palette = p
}

// SetSmartQuotes toggles typographic quote substitution during formatting.
// Enabled by default; already-substituted quotes are left as typed.
func (c *Controller[K]) SetSmartQuotes(enabled bool) {
	c.format.plainQuotes = !enabled
}

// Buffer exposes the underlying buffer for read-only use (rendering,
// queries). Mutating it directly bypasses the edit policy.
func (c *Controller[K]) Buffer() *Buffer[K] {
	return c.buf
}

// Mode returns the current edit-routing mode.
func (c *Controller[K]) Mode() EditingMode {
	return c.mode
}

// Text returns the full buffer content.
func (c *Controller[K]) Text() string {
	return c.buf.String()
}

// SetText replaces the whole session content with plain text. No token
// survives: the buffer restarts from scratch.
func (c *Controller[K]) SetText(s string) {
	c.buf.SetText(s)
	c.mode = EditingModeNormal
	c.selectedRef = uuid.Nil
	c.selection = Range{Pos: c.buf.Len()}
	c.reformat()
	c.notifyChange()
}

// Segments returns the linear text/token decomposition of the content.
func (c *Controller[K]) Segments() []Segment[K] {
	return c.buf.Segments()
}

// TokenList returns all tokens in position order.
func (c *Controller[K]) TokenList() []Token[K] {
	return c.buf.TokenList()
}

// TokenByRef locates a live token by reference.
func (c *Controller[K]) TokenByRef(ref uuid.UUID) (Token[K], bool) {
	return c.buf.TokenByRef(ref)
}

// SelectedToken returns the currently selected token, if any.
func (c *Controller[K]) SelectedToken() (Token[K], bool) {
	if c.selectedRef == uuid.Nil {
		return Token[K]{}, false
	}
	return c.buf.TokenByRef(c.selectedRef)
}

// SelectedRange returns the current selection.
func (c *Controller[K]) SelectedRange() Range {
	return c.selection
}

// SetSelectedRange moves the selection, clamping it so no endpoint rests
// inside a token interior (or, in input mode, outside the input bounds).
// Moving off a selected token detaps it.
func (c *Controller[K]) SetSelectedRange(r Range) {
	r = c.ClampSelection(r)
	if c.selectedRef != uuid.Nil {
		if t, ok := c.buf.TokenByRef(c.selectedRef); !ok || r != t.Range {
			c.detap()
		}
	}
	c.selection = r
}

// ClampSelection snaps a proposed selection to legal positions. A cursor
// inside a token interior moves to the nearer boundary, with the exact
// midpoint snapping to the token's end. A non-empty selection has both
// endpoints clamped independently and its length recomputed. In input mode
// the selection is confined to the input region instead.
func (c *Controller[K]) ClampSelection(r Range) Range {
	if c.mode == EditingModeInput {
		return c.clampToInput(r)
	}
	if r.Len <= 0 {
		return Range{Pos: c.clampPosition(r.Pos)}
	}
	start := c.clampPosition(r.Pos)
	end := c.clampPosition(r.End())
	return Range{Pos: start, Len: max(start, end) - start}
}

// clampPosition snaps a single position out of any token interior.
func (c *Controller[K]) clampPosition(pos int) int {
	if pos < 0 {
		pos = 0
	}
	if pos > c.buf.Len() {
		pos = c.buf.Len()
	}
	snapped := pos
	c.buf.EnumerateTokens(nil, func(_ Token[K], tr Range) bool {
		if insideInterior(pos, tr) {
			if pos-tr.Pos < tr.End()-pos {
				snapped = tr.Pos
			} else {
				snapped = tr.End()
			}
			return false
		}
		return tr.Pos < pos
	})
	return snapped
}

// HandleTap processes a host tap at a character position. Tapping a token
// selects it; in input mode a tap outside the input region cancels input
// (keeping the typed text); otherwise the cursor moves there.
func (c *Controller[K]) HandleTap(pos int) {
	if c.mode == EditingModeInput {
		if !c.inputRegionContains(pos) {
			c.cancelInput(CancelByTapOut, true)
		} else {
			c.selection = c.clampToInput(Range{Pos: pos})
			return
		}
	}

	tapped := false
	c.buf.EnumerateTokens(nil, func(t Token[K], tr Range) bool {
		if tr.Contains(pos) {
			c.selection = tr
			c.selectedRef = t.Ref
			if c.hooks.TokenTapped != nil {
				c.hooks.TokenTapped(t)
			}
			tapped = true
			return false
		}
		return tr.Pos < pos
	})
	if tapped {
		return
	}
	if c.selectedRef != uuid.Nil {
		c.detap()
	}
	c.selection = Range{Pos: c.clampPosition(pos)}
}

// AddToken inserts a new token at the given position. Empty text is
// rejected: token ranges never have zero length. The cursor lands just past
// the token.
func (c *Controller[K]) AddToken(at int, text string, key K) (Token[K], bool) {
	if utf8.RuneCountInString(text) == 0 {
		return Token[K]{}, false
	}
	at = c.clampPosition(at)
	tok := c.insertToken(at, text, key)
	c.reformat()
	if c.hooks.TokenAdded != nil {
		c.hooks.TokenAdded(tok)
	}
	c.notifyChange()
	return tok, true
}

// insertToken does the buffer work of token insertion without notifying.
func (c *Controller[K]) insertToken(at int, text string, key K) Token[K] {
	c.buf.ReplaceRunes(Range{Pos: at}, text)
	n := utf8.RuneCountInString(text)
	ref := uuid.New()
	k := key
	c.buf.MergeAttributes(Range{Pos: at, Len: n}, func(a *Attributes[K]) {
		a.TokenRef = ref
		a.ExternalKey = &k
	})
	c.selection = Range{Pos: at + n}
	return Token[K]{Ref: ref, Key: key, Text: text, Range: Range{Pos: at, Len: n}}
}

// ReplaceToken swaps an existing token for a new one (fresh reference) at
// the same position. Selection transfers to the new token if the old one was
// selected. A stale reference is a silent no-op.
func (c *Controller[K]) ReplaceToken(old Token[K], text string, key K) (Token[K], bool) {
	cur, ok := c.buf.TokenByRef(old.Ref)
	if !ok || utf8.RuneCountInString(text) == 0 {
		return Token[K]{}, false
	}
	wasSelected := c.selectedRef == old.Ref

	c.buf.ReplaceRunes(cur.Range, "")
	if c.hooks.TokenDeleted != nil {
		c.hooks.TokenDeleted(cur)
	}
	tok := c.insertToken(cur.Range.Pos, text, key)
	c.reformat()
	if wasSelected {
		c.selection = tok.Range
		c.selectedRef = tok.Ref
	}
	if c.hooks.TokenAdded != nil {
		c.hooks.TokenAdded(tok)
	}
	c.notifyChange()
	return tok, true
}

// DeleteToken erases a token's current text, re-located by a fresh scan.
// The cursor ends at the token's former start. A stale reference is a
// silent no-op.
func (c *Controller[K]) DeleteToken(ref uuid.UUID) bool {
	t, ok := c.buf.TokenByRef(ref)
	if !ok {
		return false
	}
	c.buf.ReplaceRunes(t.Range, "")
	if c.selectedRef == ref {
		c.selectedRef = uuid.Nil
	}
	c.selection = Range{Pos: t.Range.Pos}
	c.reformat()
	if c.hooks.TokenDeleted != nil {
		c.hooks.TokenDeleted(t)
	}
	c.notifyChange()
	return true
}

// UpdateTokenText replaces a token's text wholesale, keeping its reference
// and key. The cursor lands just past the token. Empty text is rejected;
// removing a token is DeleteToken's job.
func (c *Controller[K]) UpdateTokenText(ref uuid.UUID, text string) bool {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return false
	}
	t, ok := c.buf.TokenByRef(ref)
	if !ok {
		return false
	}
	k := t.Key
	c.buf.ReplaceRunes(t.Range, text)
	c.buf.MergeAttributes(Range{Pos: t.Range.Pos, Len: n}, func(a *Attributes[K]) {
		a.TokenRef = ref
		a.ExternalKey = &k
	})
	c.selection = Range{Pos: t.Range.Pos + n}
	c.reformat()
	c.notifyChange()
	return true
}

// TokenizeAllEditableText converts every non-token region into a token.
// Gaps between existing tokens (including before the first and after the
// last) are trimmed of surrounding whitespace; each non-empty trimmed gap
// becomes a token whose key is derived from its own trimmed text via keyFor.
// Gaps are processed in reverse position order so earlier conversions cannot
// shift later gap coordinates.
func (c *Controller[K]) TokenizeAllEditableText(keyFor func(text string) K) []Token[K] {
	toks := c.buf.TokenList()

	var gaps []Range
	prev := 0
	for _, t := range toks {
		gaps = append(gaps, Range{Pos: prev, Len: t.Range.Pos - prev})
		prev = t.Range.End()
	}
	gaps = append(gaps, Range{Pos: prev, Len: c.buf.Len() - prev})

	var added []Token[K]
	for i := len(gaps) - 1; i >= 0; i-- {
		gap := gaps[i]
		if gap.Len <= 0 {
			continue
		}
		text := c.buf.TextIn(gap)
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			continue
		}
		lead := 0
		for _, r := range text {
			if !unicode.IsSpace(r) {
				break
			}
			lead++
		}
		r := Range{Pos: gap.Pos + lead, Len: utf8.RuneCountInString(trimmed)}
		ref := uuid.New()
		k := keyFor(trimmed)
		c.buf.MergeAttributes(r, func(a *Attributes[K]) {
			a.TokenRef = ref
			a.ExternalKey = &k
		})
		added = append(added, Token[K]{Ref: ref, Key: k, Text: trimmed, Range: r})
	}
	if len(added) == 0 {
		return nil
	}

	// Ascending order for notifications; the ranges themselves are stable
	// since tokenizing marks text in place.
	for i, j := 0, len(added)-1; i < j; i, j = i+1, j-1 {
		added[i], added[j] = added[j], added[i]
	}
	c.format.apply(c.buf, Range{Pos: 0, Len: c.buf.Len()}, false)
	for _, t := range added {
		if c.hooks.TokenAdded != nil {
			c.hooks.TokenAdded(t)
		}
	}
	c.notifyChange()
	return added
}

// MakeTokenEditable dissolves a token back into editable plain text at the
// end of the buffer. All other editable text is tokenized first so it is not
// lost, then the target token is deleted and its trimmed text appended, with
// the cursor at the end and focus requested from the host.
func (c *Controller[K]) MakeTokenEditable(ref uuid.UUID, keyFor func(text string) K) bool {
	if _, ok := c.buf.TokenByRef(ref); !ok {
		return false
	}
	c.TokenizeAllEditableText(keyFor)

	t, ok := c.buf.TokenByRef(ref)
	if !ok {
		return false
	}
	trimmed := strings.TrimSpace(t.Text)
	c.buf.ReplaceRunes(t.Range, "")
	if c.selectedRef == ref {
		c.selectedRef = uuid.Nil
	}
	if c.hooks.TokenDeleted != nil {
		c.hooks.TokenDeleted(t)
	}
	c.buf.ReplaceRunes(Range{Pos: c.buf.Len()}, trimmed)
	c.selection = Range{Pos: c.buf.Len()}
	c.reformat()
	if c.hooks.RequestFocus != nil {
		c.hooks.RequestFocus()
	}
	c.notifyChange()
	return true
}

// ProposeEdit applies the deletion-intersection policy to a host edit
// intent. The return value tells the host whether to apply the raw edit
// itself (via ApplyEdit): false means the edit was either vetoed or already
// performed here as a composite edit.
func (c *Controller[K]) ProposeEdit(r Range, replacement string) bool {
	if c.mode == EditingModeInput {
		return c.proposeInputEdit(r, replacement)
	}
	r = c.buf.clamp(r)

	// A single-character deletion landing inside a token deletes the whole
	// token instead.
	if r.Len == 1 && replacement == "" {
		if toks := c.buf.TokensIntersecting(r); len(toks) > 0 {
			c.DeleteToken(toks[0].Ref)
			return false
		}
	}

	if !c.buf.IsValidEditingRange(r) {
		return false
	}

	// Partial overlap is excluded by the validity gate, so any intersecting
	// token is fully contained in the edit range.
	contained := c.buf.TokensIntersecting(r)
	if len(contained) > 0 {
		c.buf.ReplaceRunes(r, replacement)
		for _, t := range contained {
			// The raw replacement normally takes the token text with it;
			// erase any marked remnant that survived at its shifted range.
			if cur, ok := c.buf.TokenByRef(t.Ref); ok {
				c.buf.ReplaceRunes(cur.Range, "")
			}
			if c.selectedRef == t.Ref {
				c.selectedRef = uuid.Nil
			}
			if c.hooks.TokenDeleted != nil {
				c.hooks.TokenDeleted(t)
			}
		}
		c.selection = Range{Pos: r.Pos + utf8.RuneCountInString(replacement)}
		c.reformat()
		c.notifyChange()
		return false
	}

	if c.hooks.ShouldChangeText != nil && !c.hooks.ShouldChangeText(r, replacement) {
		return false
	}
	return true
}

// ApplyEdit performs an approved raw edit: splice, reformat, notify. The
// cursor lands at the end of the replacement.
func (c *Controller[K]) ApplyEdit(r Range, replacement string) {
	r = c.buf.clamp(r)
	c.buf.ReplaceRunes(r, replacement)
	if c.mode == EditingModeInput {
		// Text typed while editing belongs to the input region.
		n := utf8.RuneCountInString(replacement)
		c.buf.MergeAttributes(Range{Pos: r.Pos, Len: n}, func(a *Attributes[K]) {
			a.Mark = InputMarkText
		})
	}
	c.selection = Range{Pos: r.Pos + utf8.RuneCountInString(replacement)}
	c.reformat()
	c.notifyChange()
}

// HandlePaste gates host paste content through the caller hooks. With no
// delivery hook, accepted content is inserted at the selection through the
// normal edit policy.
func (c *Controller[K]) HandlePaste(contentType, content string) bool {
	if c.hooks.CanAcceptPaste != nil && !c.hooks.CanAcceptPaste(contentType) {
		return false
	}
	if c.hooks.Paste != nil {
		c.hooks.Paste(content)
		return true
	}
	if c.ProposeEdit(c.selection, content) {
		c.ApplyEdit(c.selection, content)
	}
	return true
}

// UpdateFormatting forces a full formatting pass over the whole buffer
// without any text mutation (e.g. after a theme change).
func (c *Controller[K]) UpdateFormatting() {
	c.format.apply(c.buf, Range{Pos: 0, Len: c.buf.Len()}, false)
}

// reformat runs a formatting pass over the accumulated dirty range.
func (c *Controller[K]) reformat() {
	if d, ok := c.buf.takeDirty(); ok {
		c.format.apply(c.buf, d, true)
	}
}

func (c *Controller[K]) notifyChange() {
	if c.hooks.ContentChanged != nil {
		c.hooks.ContentChanged()
	}
}

func (c *Controller[K]) detap() {
	if t, ok := c.buf.TokenByRef(c.selectedRef); ok && c.hooks.TokenDetapped != nil {
		c.hooks.TokenDetapped(t)
	}
	c.selectedRef = uuid.Nil
}
