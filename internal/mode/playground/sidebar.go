package playground

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/pastille/internal/ui/styles"
)

// renderSidebar renders the demo list.
func renderSidebar(demos []Demo, selected int, focused bool) string {
	selectedStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.SelectionIndicatorColor)
	normalStyle := lipgloss.NewStyle().Foreground(styles.TextSecondaryColor)
	if !focused {
		selectedStyle = selectedStyle.Foreground(styles.TextSecondaryColor)
	}

	var sb strings.Builder
	for i, demo := range demos {
		if i == selected {
			sb.WriteString(" " + styles.SelectionIndicatorStyle.Render("▸") + " " + selectedStyle.Render(demo.Name))
		} else {
			sb.WriteString("   " + normalStyle.Render(demo.Name))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
