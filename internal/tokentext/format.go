package tokentext

import "github.com/charmbracelet/lipgloss"

// Display holds per-token presentation: the caller resolves one of these for
// each token through the TokenDisplay hook on every formatting pass. Insets
// are in terminal cells; CornerRadius > 0 asks the renderer for rounded chip
// end caps.
type Display struct {
	Foreground   lipgloss.TerminalColor
	Background   lipgloss.TerminalColor
	Font         *FontStyle
	XInset       int
	YInset       int
	CornerRadius int
}

// DefaultDisplay is the white-on-gray fallback used when the caller resolves
// no display for a token.
func DefaultDisplay() Display {
	return Display{
		Foreground: lipgloss.Color("#FFFFFF"),
		Background: lipgloss.Color("#6B7280"),
		XInset:     1,
	}
}

// Palette supplies the base colors the formatting pass resets to.
type Palette struct {
	Text lipgloss.TerminalColor
	Link lipgloss.TerminalColor
}

// DefaultPalette returns the stock palette: adaptive body text and a blue
// link color for the input-mode region.
func DefaultPalette() Palette {
	return Palette{
		Text: lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#E5E7EB"},
		Link: lipgloss.Color("#3B82F6"),
	}
}

// chipKerning is the negative kerning applied to the single cell hugging a
// chip on each side, visually tightening the chip against its padding.
const chipKerning = -1

// formatter recomputes presentation attributes over a dirty range. It never
// creates or destroys token/input markers and re-running it over any range
// is idempotent: every attribute it writes is a pure function of the current
// text, the markers, and the caller hooks.
type formatter[K comparable] struct {
	palette      Palette
	display      func(Token[K]) *Display
	supplemental func(text string, r Range) []AttributeRun[K]
	plainQuotes  bool
}

// apply runs one formatting pass. textEdited distinguishes character-level
// edits (which additionally trigger quote normalization over the whole
// buffer) from attribute-only refreshes.
func (f *formatter[K]) apply(buf *Buffer[K], edited Range, textEdited bool) {
	// Quote straightening mutates text, so it must run before the scoped
	// attribute steps see the characters.
	if textEdited && !f.plainQuotes {
		straightenQuotes(buf.content)
	}

	scope := lineScope(buf, edited)

	// Step 1: reset derived attributes over the scope.
	buf.MergeAttributes(scope, func(a *Attributes[K]) {
		a.clearPresentation()
		a.Foreground = f.palette.Text
	})

	// Step 2: link styling over the input-mode region.
	if a, ok := buf.AnchorRange(); ok {
		buf.MergeAttributes(a, func(at *Attributes[K]) { at.Foreground = f.palette.Link })
	}
	if in, ok := buf.InputRange(); ok {
		buf.MergeAttributes(in, func(at *Attributes[K]) { at.Foreground = f.palette.Link })
	}

	// Step 3: token chips. Display records are re-resolved every pass; the
	// caller owns any caching.
	buf.EnumerateTokens(&scope, func(t Token[K], r Range) bool {
		d := DefaultDisplay()
		if f.display != nil {
			if resolved := f.display(t); resolved != nil {
				d = *resolved
			}
		}
		buf.MergeAttributes(r, func(a *Attributes[K]) {
			a.Foreground = d.Foreground
			a.Background = d.Background
			a.Font = d.Font
		})
		if r.Pos > 0 {
			buf.MergeAttributes(Range{Pos: r.Pos - 1, Len: 1}, func(a *Attributes[K]) {
				if !a.IsToken() {
					a.Kerning = chipKerning
				}
			})
		}
		if r.End() < buf.Len() {
			buf.MergeAttributes(Range{Pos: r.End(), Len: 1}, func(a *Attributes[K]) {
				if !a.IsToken() {
					a.Kerning = chipKerning
				}
			})
		}
		return true
	})

	// Step 4: caller-supplied supplemental formatting. Tokens are never
	// overridden.
	if f.supplemental == nil {
		return
	}
	for _, run := range f.supplemental(buf.String(), scope) {
		if buf.RangeIntersectsToken(run.Range) {
			continue
		}
		attrs := run.Attributes
		buf.MergeAttributes(run.Range, func(a *Attributes[K]) {
			if attrs.Foreground != nil {
				a.Foreground = attrs.Foreground
			}
			if attrs.Background != nil {
				a.Background = attrs.Background
			}
			if attrs.Font != nil {
				a.Font = attrs.Font
			}
			if attrs.Kerning != 0 {
				a.Kerning = attrs.Kerning
			}
		})
	}
}

// lineScope extends r to cover the full enclosing line(s), so line-level
// styling sees complete context.
func lineScope[K comparable](buf *Buffer[K], r Range) Range {
	r = buf.clamp(r)
	start := r.Pos
	for start > 0 && buf.content[start-1] != '\n' {
		start--
	}
	end := r.End()
	for end < len(buf.content) && buf.content[end] != '\n' {
		end++
	}
	return Range{Pos: start, Len: end - start}
}

// straightenQuotes converts ASCII quote characters into typographic quotes
// in place. Polarity follows the preceding rune: an opening quote at the
// start of the text or after whitespace, a closing quote otherwise. The
// substitution is rune-for-rune, so no attribute range shifts.
func straightenQuotes(content []rune) {
	for i, r := range content {
		open := i == 0 || content[i-1] == ' ' || content[i-1] == '\n' || content[i-1] == '\t'
		switch r {
		case '"':
			if open {
				content[i] = '“' // left double quotation mark
			} else {
				content[i] = '”'
			}
		case '\'':
			if open {
				content[i] = '‘' // left single quotation mark
			} else {
				content[i] = '’'
			}
		}
	}
}
