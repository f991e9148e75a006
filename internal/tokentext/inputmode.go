package tokentext

import (
	"strings"
	"unicode/utf8"
)

// Input-mode lifecycle: Normal -> Editing via SwitchToInputEditingMode, back
// to Normal via ConfirmInput or one of the cancel paths (anchor deletion,
// tap-out, caller veto). At most one anchor and one input region exist at a
// time; entering input mode while already editing is a caller contract
// violation with undefined behavior.

// SwitchToInputEditingMode inserts anchor-marked text at pos and switches
// edit routing to the input-mode state machine. initialInputLen pre-marks
// that many existing runes after the anchor as live input text. The cursor
// lands at the end of the input region.
func (c *Controller[K]) SwitchToInputEditingMode(pos int, anchorText string, initialInputLen int) {
	pos = c.clampPosition(pos)
	c.buf.ReplaceRunes(Range{Pos: pos}, anchorText)
	an := utf8.RuneCountInString(anchorText)
	c.buf.MergeAttributes(Range{Pos: pos, Len: an}, func(a *Attributes[K]) {
		a.Mark = InputMarkAnchor
	})

	marked := 0
	if initialInputLen > 0 {
		marked = min(initialInputLen, c.buf.Len()-pos-an)
		c.buf.MergeAttributes(Range{Pos: pos + an, Len: marked}, func(a *Attributes[K]) {
			a.Mark = InputMarkText
		})
	}

	c.mode = EditingModeInput
	c.selection = Range{Pos: pos + an + marked}
	c.reformat()
	c.notifyChange()
	if c.hooks.InputChanged != nil {
		c.hooks.InputChanged(c.InputText())
	}
}

// SwitchToNormalEditingMode leaves input mode, keeping any typed text as
// plain content.
func (c *Controller[K]) SwitchToNormalEditingMode() {
	if c.mode != EditingModeInput {
		return
	}
	c.EndInputEditing(true)
}

// InputText returns the current live input text, excluding the anchor.
func (c *Controller[K]) InputText() string {
	if r, ok := c.buf.InputRange(); ok {
		return c.buf.TextIn(r)
	}
	return ""
}

// ConfirmInput replaces the whole anchor+input region with a token carrying
// the given text and key, ending input mode. Returns false outside input
// mode.
func (c *Controller[K]) ConfirmInput(text string, key K) (Token[K], bool) {
	if c.mode != EditingModeInput || utf8.RuneCountInString(text) == 0 {
		return Token[K]{}, false
	}
	region, ok := c.inputRegion()
	c.mode = EditingModeNormal
	if !ok {
		return Token[K]{}, false
	}
	c.stripInputMarks(region)
	c.buf.ReplaceRunes(region, "")
	tok := c.insertToken(region.Pos, text, key)
	c.reformat()
	if c.hooks.TokenAdded != nil {
		c.hooks.TokenAdded(tok)
	}
	c.notifyChange()
	return tok, true
}

// EndInputEditing strips the anchor and input markers and restores normal
// edit routing. With keep the marked text stays as plain content; otherwise
// it is removed. Returns the resulting control position (cursor).
func (c *Controller[K]) EndInputEditing(keep bool) int {
	region, ok := c.inputRegion()
	c.mode = EditingModeNormal
	if !ok {
		return c.selection.Pos
	}
	if keep {
		c.stripInputMarks(region)
		c.selection = Range{Pos: region.End()}
		c.format.apply(c.buf, region, false)
	} else {
		c.buf.ReplaceRunes(region, "")
		c.selection = Range{Pos: region.Pos}
		c.reformat()
	}
	c.notifyChange()
	return c.selection.Pos
}

// inputRegion returns the union of the anchor and input ranges.
func (c *Controller[K]) inputRegion() (Range, bool) {
	a, hasAnchor := c.buf.AnchorRange()
	in, hasInput := c.buf.InputRange()
	switch {
	case hasAnchor && hasInput:
		start := min(a.Pos, in.Pos)
		end := max(a.End(), in.End())
		return Range{Pos: start, Len: end - start}, true
	case hasAnchor:
		return a, true
	case hasInput:
		return in, true
	default:
		return Range{}, false
	}
}

func (c *Controller[K]) inputRegionContains(pos int) bool {
	region, ok := c.inputRegion()
	if !ok {
		return false
	}
	return pos >= region.Pos && pos <= region.End()
}

func (c *Controller[K]) stripInputMarks(region Range) {
	c.buf.MergeAttributes(region, func(a *Attributes[K]) {
		a.Mark = InputMarkNone
	})
}

// cancelInput ends input mode without confirmation.
func (c *Controller[K]) cancelInput(reason CancelReason, keep bool) {
	c.EndInputEditing(keep)
	if c.hooks.InputCancelled != nil {
		c.hooks.InputCancelled(reason)
	}
}

// clampToInput confines a selection to the input region: endpoints before
// the input's start or past its end snap to the nearest bound. With an
// anchor but no input text yet, the cursor snaps to just after the anchor.
func (c *Controller[K]) clampToInput(r Range) Range {
	in, hasInput := c.buf.InputRange()
	if !hasInput {
		if a, ok := c.buf.AnchorRange(); ok {
			return Range{Pos: a.End()}
		}
		return Range{Pos: min(max(r.Pos, 0), c.buf.Len())}
	}
	clamp := func(pos int) int {
		if pos < in.Pos {
			return in.Pos
		}
		if pos > in.End() {
			return in.End()
		}
		return pos
	}
	if r.Len <= 0 {
		return Range{Pos: clamp(r.Pos)}
	}
	start := clamp(r.Pos)
	end := clamp(r.End())
	return Range{Pos: start, Len: max(start, end) - start}
}

// proposeInputEdit routes a host edit intent while input mode is active.
func (c *Controller[K]) proposeInputEdit(r Range, replacement string) bool {
	r = c.buf.clamp(r)

	if replacement != "" {
		// Line breaks are swallowed and raised as a confirm signal.
		if strings.ContainsRune(replacement, '\n') {
			if c.hooks.InputConfirmRequested != nil {
				c.hooks.InputConfirmRequested()
			}
			return false
		}
		if c.hooks.ShouldCancelInput != nil &&
			c.hooks.ShouldCancelInput(replacement, c.InputText()) {
			// The caller vetoed continuation: fall back to plain text and
			// let the host apply the edit normally.
			c.cancelInput(CancelByVeto, true)
			return true
		}
		c.buf.ReplaceRunes(r, replacement)
		n := utf8.RuneCountInString(replacement)
		c.buf.MergeAttributes(Range{Pos: r.Pos, Len: n}, func(a *Attributes[K]) {
			a.Mark = InputMarkText
		})
		c.selection = Range{Pos: r.Pos + n}
		c.reformat()
		if c.hooks.InputChanged != nil {
			c.hooks.InputChanged(c.InputText())
		}
		c.notifyChange()
		return false
	}

	// Deletion landing on the anchor cancels input mode; the deletion
	// itself proceeds as a plain edit, keeping any typed text.
	if a, ok := c.buf.AnchorRange(); ok && r.Intersects(a) {
		c.cancelInput(CancelByDeletion, true)
		return true
	}

	if in, ok := c.buf.InputRange(); ok && r.Intersects(in) {
		c.buf.ReplaceRunes(r, "")
		c.selection = Range{Pos: r.Pos}
		c.reformat()

		// Fallback: any path that erased both markers counts as
		// cancel-by-deletion.
		if _, hasAnchor := c.buf.AnchorRange(); !hasAnchor {
			if _, hasInput := c.buf.InputRange(); !hasInput {
				c.cancelInput(CancelByDeletion, true)
				c.notifyChange()
				return false
			}
		}
		if c.hooks.InputChanged != nil {
			c.hooks.InputChanged(c.InputText())
		}
		c.notifyChange()
		return false
	}

	// A deletion outside the input region has no business here; clamping
	// should have prevented it.
	return false
}
