package playground

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/pastille/internal/ui/styles"
)

// tokenColor maps a color token to the styles variable currently backing it.
func tokenColor(token styles.ColorToken) lipgloss.AdaptiveColor {
	switch token {
	case styles.TokenTextPrimary:
		return styles.TextPrimaryColor
	case styles.TokenTextSecondary:
		return styles.TextSecondaryColor
	case styles.TokenTextMuted:
		return styles.TextMutedColor
	case styles.TokenTextPlaceholder:
		return styles.TextPlaceholderColor
	case styles.TokenTextLink:
		return styles.TextLinkColor
	case styles.TokenChipBackground:
		return styles.ChipBackgroundColor
	case styles.TokenChipForeground:
		return styles.ChipForegroundColor
	case styles.TokenBorderDefault:
		return styles.BorderDefaultColor
	case styles.TokenBorderFocus:
		return styles.BorderFocusColor
	case styles.TokenStatusSuccess:
		return styles.StatusSuccessColor
	case styles.TokenStatusWarning:
		return styles.StatusWarningColor
	case styles.TokenStatusError:
		return styles.StatusErrorColor
	case styles.TokenSelectionIndicator:
		return styles.SelectionIndicatorColor
	case styles.TokenOverlayTitle:
		return styles.OverlayTitleColor
	case styles.TokenOverlayBorder:
		return styles.OverlayBorderColor
	case styles.TokenSpinner:
		return styles.SpinnerColor
	}
	return styles.TextPrimaryColor
}

// themeTokensDemo lists every themeable token with a swatch and its current
// dark-mode hex value.
type themeTokensDemo struct {
	width int
}

func newThemeTokensDemo(width int) DemoModel {
	return &themeTokensDemo{width: width}
}

func (d *themeTokensDemo) Update(_ tea.Msg) (DemoModel, tea.Cmd, string) {
	return d, nil, ""
}

func (d *themeTokensDemo) View() string {
	nameStyle := lipgloss.NewStyle().Foreground(styles.TextSecondaryColor).Width(24)
	valueStyle := lipgloss.NewStyle().Foreground(styles.TextMutedColor)

	var sb strings.Builder
	for _, token := range styles.AllTokens() {
		color := tokenColor(token)
		swatch := lipgloss.NewStyle().Background(color).Render("  ")
		sb.WriteString(swatch)
		sb.WriteString(" ")
		sb.WriteString(nameStyle.Render(string(token)))
		sb.WriteString(valueStyle.Render(color.Dark))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (d *themeTokensDemo) SetSize(width, _ int) DemoModel {
	d.width = width
	return d
}

func (d *themeTokensDemo) Reset() DemoModel {
	return d
}
