package tokenfield

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/wrap"

	"github.com/zjrosen/pastille/internal/tokentext"
)

// Chip end caps used when a token's display asks for rounded corners.
const (
	capLeft  = ""
	capRight = ""
)

// View renders the field: plain runs styled from buffer attributes, tokens
// as chips, a reverse-video cursor when focused, wrapped to the configured
// width.
func (m *Model) View() string {
	if m.ctrl.Buffer().Len() == 0 {
		if m.focused {
			return m.cursorStyle.Render(" ")
		}
		if m.config.Placeholder != "" {
			return m.placeholderStyle.Render(m.config.Placeholder)
		}
		return ""
	}

	rendered := m.renderContent()
	if ansi.StringWidth(rendered) <= m.width {
		return rendered
	}
	return wrap.String(rendered, m.width)
}

// Height returns the number of display lines of the current view.
func (m *Model) Height() int {
	v := m.View()
	if v == "" {
		return 1
	}
	return strings.Count(v, "\n") + 1
}

// renderContent walks the attribute runs, grouping token runs into chips.
func (m *Model) renderContent() string {
	buf := m.ctrl.Buffer()
	text := buf.String()
	cursor := -1
	if m.focused {
		cursor = m.ctrl.SelectedRange().Pos
	}

	var b strings.Builder

	type part struct {
		r     tokentext.Range
		attrs tokentext.Attributes[string]
	}
	var parts []part
	buf.EnumerateRuns(func(r tokentext.Range, a tokentext.Attributes[string]) bool {
		parts = append(parts, part{r: r, attrs: a})
		return true
	})

	i := 0
	for i < len(parts) {
		p := parts[i]
		if p.attrs.IsToken() {
			ref := p.attrs.TokenRef
			end := p.r.End()
			for i < len(parts) && parts[i].attrs.TokenRef == ref {
				end = parts[i].r.End()
				i++
			}
			if tok, ok := buf.TokenByRef(ref); ok {
				b.WriteString(m.renderChip(tok, p.attrs))
			}
			// A plain run starting at end draws the cursor itself; between
			// two adjacent chips there is no character to invert, so show a
			// block.
			if cursor == end && i < len(parts) && parts[i].attrs.IsToken() {
				b.WriteString(m.cursorStyle.Render(" "))
			}
			continue
		}

		b.WriteString(m.renderPlain(text, p.r, p.attrs, cursor))
		i++
	}

	if cursor == len([]rune(text)) {
		b.WriteString(m.cursorStyle.Render(" "))
	}
	return b.String()
}

// renderChip renders one token as a styled chip wrapped in a mouse zone.
func (m *Model) renderChip(tok Token, attrs tokentext.Attributes[string]) string {
	d := tokentext.DefaultDisplay()
	if m.config.DisplayFor != nil {
		if resolved := m.config.DisplayFor(tok); resolved != nil {
			d = *resolved
		}
	}

	style := lipgloss.NewStyle().Padding(0, d.XInset)
	if d.Foreground != nil {
		style = style.Foreground(d.Foreground)
	}
	if d.Background != nil {
		style = style.Background(d.Background)
	}
	style = applyFont(style, attrs.Font)

	chip := style.Render(tok.Text)
	if d.CornerRadius > 0 && d.Background != nil {
		capStyle := lipgloss.NewStyle().Foreground(d.Background)
		chip = capStyle.Render(capLeft) + chip + capStyle.Render(capRight)
	}
	return zone.Mark(m.zonePrefix+tok.Ref.String(), chip)
}

// renderPlain renders a plain-text run, splicing in the cursor when it falls
// inside the run.
func (m *Model) renderPlain(text string, r tokentext.Range, attrs tokentext.Attributes[string], cursor int) string {
	style := lipgloss.NewStyle()
	if attrs.Foreground != nil {
		style = style.Foreground(attrs.Foreground)
	}
	if attrs.Background != nil {
		style = style.Background(attrs.Background)
	}
	style = applyFont(style, attrs.Font)

	runes := []rune(text)
	runText := string(runes[r.Pos:r.End()])

	if cursor < r.Pos || cursor >= r.End() {
		return style.Render(runText)
	}

	rel := cursor - r.Pos
	relRunes := []rune(runText)
	cluster := graphemeAt(runText, rel)
	if cluster == "" {
		cluster = " "
	}
	after := string(relRunes[min(rel+len([]rune(cluster)), len(relRunes)):])

	var b strings.Builder
	if rel > 0 {
		b.WriteString(style.Render(string(relRunes[:rel])))
	}
	b.WriteString(m.cursorStyle.Render(cluster))
	if after != "" {
		b.WriteString(style.Render(after))
	}
	return b.String()
}

func applyFont(style lipgloss.Style, f *tokentext.FontStyle) lipgloss.Style {
	if f == nil {
		return style
	}
	if f.Bold {
		style = style.Bold(true)
	}
	if f.Italic {
		style = style.Italic(true)
	}
	if f.Underline {
		style = style.Underline(true)
	}
	return style
}
