// Package styles contains Lip Gloss style definitions.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Rounded border pieces for titled panes.
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// RenderWithTitleBorder frames content in a rounded border with the title
// woven into the top edge, lazygit style: ╭─ Title ─────╮. The border uses
// focusedBorderColor when focused and BorderDefaultColor otherwise; the
// title always renders in titleColor.
func RenderWithTitleBorder(content, title string, width, height int, focused bool, titleColor, focusedBorderColor lipgloss.TerminalColor) string {
	borderColor := lipgloss.TerminalColor(BorderDefaultColor)
	if focused {
		borderColor = focusedBorderColor
	}
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Foreground(titleColor)

	innerWidth := max(width-2, 1)
	innerHeight := max(height-2, 1)

	// Width/Height constrain the body so the right border stays aligned;
	// lipgloss handles wrapping and truncation of overlong content.
	body := lipgloss.NewStyle().Width(innerWidth).Height(innerHeight).Render(content)
	bodyLines := strings.Split(body, "\n")

	side := borderStyle.Render(borderVertical)

	var out strings.Builder
	out.WriteString(buildTopBorder(title, innerWidth, borderStyle, titleStyle))
	for i := 0; i < innerHeight; i++ {
		var line string
		if i < len(bodyLines) {
			line = bodyLines[i]
		}
		if pad := innerWidth - lipgloss.Width(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		out.WriteString("\n")
		out.WriteString(side)
		out.WriteString(line)
		out.WriteString(side)
	}
	out.WriteString("\n")
	out.WriteString(borderStyle.Render(borderBottomLeft + strings.Repeat(borderHorizontal, innerWidth) + borderBottomRight))
	return out.String()
}

// buildTopBorder weaves the title into the top edge. Panes too narrow for a
// "─ T ─" cell fall back to a plain run of dashes; overlong titles get an
// ellipsis.
func buildTopBorder(title string, innerWidth int, borderStyle, titleStyle lipgloss.Style) string {
	if innerWidth < 1 {
		return borderStyle.Render(borderTopLeft + borderTopRight)
	}
	if title == "" || innerWidth < 4 {
		return borderStyle.Render(borderTopLeft + strings.Repeat(borderHorizontal, innerWidth) + borderTopRight)
	}

	display := TruncateString(title, innerWidth-4)
	trailing := max(innerWidth-3-lipgloss.Width(display), 0)

	return borderStyle.Render(borderTopLeft+borderHorizontal+" ") +
		titleStyle.Render(display) +
		borderStyle.Render(" "+strings.Repeat(borderHorizontal, trailing)+borderTopRight)
}
