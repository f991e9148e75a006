package compose

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/pastille/internal/ui/styles"
)

const popupMaxRows = 6

// fieldWidth leaves room for the frame border and a margin.
func fieldWidth(total int) int {
	w := total - 6
	if w < 20 {
		w = 20
	}
	return w
}

// View implements mode.Controller.
func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	title := "Compose"
	if m.draftID > 0 {
		title = "Compose - draft " + strconv.FormatInt(m.draftID, 10)
	}

	fieldHeight := m.field.Height() + 2
	frame := styles.RenderWithTitleBorder(
		m.field.View(), title,
		m.width-2, fieldHeight+2,
		true,
		styles.OverlayTitleColor, styles.BorderFocusColor,
	)

	sections := []string{frame}
	if m.popupVisible() {
		sections = append(sections, m.renderPopup())
	}
	sections = append(sections, m.renderStatus(), m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderPopup draws the mention completion list under the field.
func (m Model) renderPopup() string {
	rows := len(m.matches)
	if rows > popupMaxRows {
		rows = popupMaxRows
	}

	// Keep the selection visible when the list scrolls.
	start := 0
	if m.selected >= rows {
		start = m.selected - rows + 1
	}

	normalStyle := lipgloss.NewStyle().Foreground(styles.TextSecondaryColor)
	selectedStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.SelectionIndicatorColor)
	keyStyle := lipgloss.NewStyle().Foreground(styles.TextMutedColor)

	var b strings.Builder
	for i := start; i < start+rows; i++ {
		person := m.matches[i]
		if i == m.selected {
			b.WriteString(styles.SelectionIndicatorStyle.Render("▸ "))
			b.WriteString(selectedStyle.Render(person.Name))
		} else {
			b.WriteString("  ")
			b.WriteString(normalStyle.Render(person.Name))
		}
		b.WriteString(keyStyle.Render("  " + person.Key))
		if i < start+rows-1 {
			b.WriteString("\n")
		}
	}

	popupStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Padding(0, 1).
		MarginLeft(2)
	return popupStyle.Render(b.String())
}

// renderStatus draws the one-line status bar.
func (m Model) renderStatus() string {
	if m.status == "" {
		return styles.StatusBarStyle.Render("")
	}
	if m.statusErr {
		return lipgloss.NewStyle().
			Foreground(styles.StatusErrorColor).
			Padding(0, 1).
			Render(m.status)
	}
	return styles.StatusBarStyle.Render(m.status)
}
