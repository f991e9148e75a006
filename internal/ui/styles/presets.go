// Package styles contains Lip Gloss style definitions.
package styles

// Preset represents a complete color theme.
type Preset struct {
	Name        string
	Description string
	Colors      map[ColorToken]string
}

// Presets contains all built-in theme presets.
var Presets = map[string]Preset{
	"default":          DefaultPreset,
	"catppuccin-mocha": CatppuccinMochaPreset,
	"catppuccin-latte": CatppuccinLattePreset,
	"dracula":          DraculaPreset,
	"nord":             NordPreset,
	"high-contrast":    HighContrastPreset,
}

// DefaultPreset is the stock pastille color scheme.
// Color values match the styles.go AdaptiveColor definitions (Dark values).
var DefaultPreset = Preset{
	Name:        "default",
	Description: "Default pastille theme",
	Colors: map[ColorToken]string{
		TokenTextPrimary:     "#CCCCCC",
		TokenTextSecondary:   "#BBBBBB",
		TokenTextMuted:       "#696969",
		TokenTextPlaceholder: "#777777",
		TokenTextLink:        "#6366F1",

		TokenChipBackground: "#6B7280",
		TokenChipForeground: "#FFFFFF",

		TokenBorderDefault: "#696969",
		TokenBorderFocus:   "#FFFFFF",

		TokenStatusSuccess: "#73F59F",
		TokenStatusWarning: "#FECA57",
		TokenStatusError:   "#FF8787",

		TokenSelectionIndicator: "#FFFFFF",

		TokenOverlayTitle:  "#C9C9C9",
		TokenOverlayBorder: "#8C8C8C",

		TokenSpinner: "#FFFFFF",
	},
}

// CatppuccinMochaPreset is the Catppuccin Mocha (dark) theme.
// Colors from: https://catppuccin.com/palette
var CatppuccinMochaPreset = Preset{
	Name:        "catppuccin-mocha",
	Description: "Catppuccin Mocha - warm, cozy dark theme",
	Colors: map[ColorToken]string{
		TokenTextPrimary:     "#CDD6F4", // text
		TokenTextSecondary:   "#BAC2DE", // subtext1
		TokenTextMuted:       "#6C7086", // overlay0
		TokenTextPlaceholder: "#585B70", // surface2
		TokenTextLink:        "#89B4FA", // blue

		TokenChipBackground: "#45475A", // surface1
		TokenChipForeground: "#CDD6F4", // text

		TokenBorderDefault: "#6C7086", // overlay0
		TokenBorderFocus:   "#CDD6F4", // text

		TokenStatusSuccess: "#A6E3A1", // green
		TokenStatusWarning: "#F9E2AF", // yellow
		TokenStatusError:   "#F38BA8", // red

		TokenSelectionIndicator: "#CDD6F4", // text

		TokenOverlayTitle:  "#CDD6F4", // text
		TokenOverlayBorder: "#6C7086", // overlay0

		TokenSpinner: "#CBA6F7", // mauve
	},
}

// CatppuccinLattePreset is the Catppuccin Latte (light) theme.
var CatppuccinLattePreset = Preset{
	Name:        "catppuccin-latte",
	Description: "Catppuccin Latte - light theme",
	Colors: map[ColorToken]string{
		TokenTextPrimary:     "#4C4F69", // text
		TokenTextSecondary:   "#5C5F77", // subtext1
		TokenTextMuted:       "#9CA0B0", // overlay0
		TokenTextPlaceholder: "#ACB0BE", // surface2
		TokenTextLink:        "#1E66F5", // blue

		TokenChipBackground: "#BCC0CC", // surface1
		TokenChipForeground: "#4C4F69", // text

		TokenBorderDefault: "#9CA0B0", // overlay0
		TokenBorderFocus:   "#4C4F69", // text

		TokenStatusSuccess: "#40A02B", // green
		TokenStatusWarning: "#DF8E1D", // yellow
		TokenStatusError:   "#D20F39", // red

		TokenSelectionIndicator: "#4C4F69", // text

		TokenOverlayTitle:  "#4C4F69", // text
		TokenOverlayBorder: "#9CA0B0", // overlay0

		TokenSpinner: "#8839EF", // mauve
	},
}

// DraculaPreset is the classic Dracula dark theme.
var DraculaPreset = Preset{
	Name:        "dracula",
	Description: "Dracula - classic dark theme",
	Colors: map[ColorToken]string{
		TokenTextPrimary:     "#F8F8F2", // foreground
		TokenTextSecondary:   "#F8F8F2", // foreground
		TokenTextMuted:       "#6272A4", // comment
		TokenTextPlaceholder: "#6272A4", // comment
		TokenTextLink:        "#8BE9FD", // cyan

		TokenChipBackground: "#44475A", // current line
		TokenChipForeground: "#F8F8F2", // foreground

		TokenBorderDefault: "#6272A4", // comment
		TokenBorderFocus:   "#F8F8F2", // foreground

		TokenStatusSuccess: "#50FA7B", // green
		TokenStatusWarning: "#F1FA8C", // yellow
		TokenStatusError:   "#FF5555", // red

		TokenSelectionIndicator: "#F8F8F2", // foreground

		TokenOverlayTitle:  "#F8F8F2", // foreground
		TokenOverlayBorder: "#6272A4", // comment

		TokenSpinner: "#BD93F9", // purple
	},
}

// NordPreset is the arctic Nord theme.
var NordPreset = Preset{
	Name:        "nord",
	Description: "Nord - arctic, north-bluish theme",
	Colors: map[ColorToken]string{
		TokenTextPrimary:     "#ECEFF4", // snow storm 3
		TokenTextSecondary:   "#E5E9F0", // snow storm 2
		TokenTextMuted:       "#4C566A", // polar night 4
		TokenTextPlaceholder: "#4C566A", // polar night 4
		TokenTextLink:        "#88C0D0", // frost 2

		TokenChipBackground: "#434C5E", // polar night 3
		TokenChipForeground: "#ECEFF4", // snow storm 3

		TokenBorderDefault: "#4C566A", // polar night 4
		TokenBorderFocus:   "#ECEFF4", // snow storm 3

		TokenStatusSuccess: "#A3BE8C", // aurora green
		TokenStatusWarning: "#EBCB8B", // aurora yellow
		TokenStatusError:   "#BF616A", // aurora red

		TokenSelectionIndicator: "#ECEFF4", // snow storm 3

		TokenOverlayTitle:  "#ECEFF4", // snow storm 3
		TokenOverlayBorder: "#4C566A", // polar night 4

		TokenSpinner: "#88C0D0", // frost 2
	},
}

// HighContrastPreset maximizes legibility for accessibility.
var HighContrastPreset = Preset{
	Name:        "high-contrast",
	Description: "High contrast - maximum legibility",
	Colors: map[ColorToken]string{
		TokenTextPrimary:     "#FFFFFF",
		TokenTextSecondary:   "#FFFFFF",
		TokenTextMuted:       "#FFFFFF", // no muted colors in high contrast
		TokenTextPlaceholder: "#CCCCCC", // slightly dimmed but still readable
		TokenTextLink:        "#00FFFF", // cyan

		TokenChipBackground: "#FFFFFF",
		TokenChipForeground: "#000000",

		TokenBorderDefault: "#FFFFFF",
		TokenBorderFocus:   "#FFFF00", // bright yellow for focus

		TokenStatusSuccess: "#00FF00", // pure green
		TokenStatusWarning: "#FFFF00", // pure yellow
		TokenStatusError:   "#FF0000", // pure red

		TokenSelectionIndicator: "#FFFF00", // yellow for visibility

		TokenOverlayTitle:  "#FFFFFF",
		TokenOverlayBorder: "#FFFFFF",

		TokenSpinner: "#FFFF00", // yellow for visibility
	},
}
