package playground

import (
	"context"
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/pastille/internal/mode"
	"github.com/zjrosen/pastille/internal/tokentext"
	"github.com/zjrosen/pastille/internal/ui/styles"
	"github.com/zjrosen/pastille/internal/ui/tokenfield"
)

// Demo is one entry in the playground registry.
type Demo struct {
	Name        string
	Description string
	Create      func(width, height int) DemoModel
}

// DemoModel is the interface all demos implement. Update additionally
// returns a short action string for the status line, or "".
type DemoModel interface {
	Update(msg tea.Msg) (DemoModel, tea.Cmd, string)
	View() string
	SetSize(width, height int) DemoModel
	Reset() DemoModel
}

// demoRegistry returns the demos, wired to the shared services where the
// demo needs the mention directory.
func demoRegistry(services mode.Services) []Demo {
	return []Demo{
		{
			Name:        "mentions",
			Description: "Directory-backed mention input with completion",
			Create: func(width, height int) DemoModel {
				return newFieldDemo(width, func(w int) *tokenfield.Model {
					return newMentionField(services, w)
				})
			},
		},
		{
			Name:        "chips",
			Description: "Rounded end caps and per-person chip colors",
			Create: func(width, height int) DemoModel {
				return newFieldDemo(width, newChipField)
			},
		},
		{
			Name:        "plain quotes",
			Description: "Smart quote substitution disabled",
			Create: func(width, height int) DemoModel {
				return newFieldDemo(width, newPlainQuoteField)
			},
		},
		{
			Name:        "highlights",
			Description: "Supplemental runs styling #tags in plain text",
			Create: func(width, height int) DemoModel {
				return newFieldDemo(width, newHighlightField)
			},
		},
		{
			Name:        "theme tokens",
			Description: "All themeable color tokens with current values",
			Create: func(width, height int) DemoModel {
				return newThemeTokensDemo(width)
			},
		},
	}
}

// fieldDemo wraps a token field behind the DemoModel interface. build
// recreates the field for Reset.
type fieldDemo struct {
	build func(width int) *tokenfield.Model
	field *tokenfield.Model
	width int
}

func newFieldDemo(width int, build func(width int) *tokenfield.Model) DemoModel {
	f := build(fieldInnerWidth(width))
	f.Focus()
	return &fieldDemo{build: build, field: f, width: width}
}

func fieldInnerWidth(w int) int {
	return max(w-2, 20)
}

func (d *fieldDemo) Update(msg tea.Msg) (DemoModel, tea.Cmd, string) {
	action := actionFor(msg)

	var cmd tea.Cmd
	d.field, cmd = d.field.Update(msg)
	return d, cmd, action
}

// actionFor translates field messages into status line text.
func actionFor(msg tea.Msg) string {
	switch msg := msg.(type) {
	case tokenfield.TokenTappedMsg:
		return "tapped " + msg.Token.Text
	case tokenfield.InputEndedMsg:
		if msg.Confirmed {
			return "mention confirmed"
		}
		return "mention cancelled"
	case tokenfield.SubmitMsg:
		return "submitted"
	}
	return ""
}

func (d *fieldDemo) View() string {
	return d.field.View()
}

func (d *fieldDemo) SetSize(width, _ int) DemoModel {
	d.width = width
	d.field.SetWidth(fieldInnerWidth(width))
	return d
}

func (d *fieldDemo) Reset() DemoModel {
	d.field = d.build(fieldInnerWidth(d.width))
	d.field.Focus()
	return d
}

// newMentionField builds a field resolving mentions through the directory.
func newMentionField(services mode.Services, width int) *tokenfield.Model {
	cfg := services.Config
	return tokenfield.New(tokenfield.Config{
		Placeholder: "Type " + cfg.Editor.Trigger + " to mention someone",
		Width:       width,
		Trigger:     cfg.Editor.TriggerRune(),
		ResolveMention: func(input string) (string, string, bool) {
			person, ok := services.Directory.Resolve(context.Background(), input)
			if !ok {
				return "", "", false
			}
			return person.Display(), person.Key, true
		},
	})
}

// chipPalette is the fixed set of chip backgrounds the chips demo cycles
// through by key.
var chipPalette = map[string]lipgloss.Color{
	"alice": lipgloss.Color("#F38BA8"),
	"bob":   lipgloss.Color("#89B4FA"),
	"carol": lipgloss.Color("#A6E3A1"),
}

func newChipField(width int) *tokenfield.Model {
	f := tokenfield.New(tokenfield.Config{
		Width: width,
		DisplayFor: func(t tokenfield.Token) *tokentext.Display {
			d := styles.ChipDisplay()
			d.CornerRadius = 1
			if bg, ok := chipPalette[t.Key]; ok {
				d.Background = bg
			}
			return &d
		},
	})
	f.SetSegments([]tokenfield.Segment{
		{Text: "release handled by "},
		{Token: &tokenfield.Token{Text: "@Alice", Key: "alice"}},
		{Text: " and "},
		{Token: &tokenfield.Token{Text: "@Bob", Key: "bob"}},
	})
	return f
}

func newPlainQuoteField(width int) *tokenfield.Model {
	f := tokenfield.New(tokenfield.Config{
		Width:              width,
		DisableSmartQuotes: true,
		Placeholder:        `Quotes like "this" stay straight`,
	})
	return f
}

func newHighlightField(width int) *tokenfield.Model {
	f := tokenfield.New(tokenfield.Config{
		Width:            width,
		SupplementalRuns: highlightTags,
		Placeholder:      "Try typing #tags in plain text",
	})
	return f
}

// highlightTags styles every #word in the text bold with the warning color.
func highlightTags(text string, _ tokentext.Range) []tokentext.AttributeRun[string] {
	var runs []tokentext.AttributeRun[string]
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '#' {
			continue
		}
		end := i + 1
		for end < len(runes) && (unicode.IsLetter(runes[end]) || unicode.IsDigit(runes[end])) {
			end++
		}
		if end == i+1 {
			continue
		}
		runs = append(runs, tokentext.AttributeRun[string]{
			Attributes: tokentext.Attributes[string]{
				Foreground: styles.StatusWarningColor,
				Font:       &tokentext.FontStyle{Bold: true},
			},
			Range: tokentext.NewRange(i, end-i),
		})
		i = end - 1
	}
	return runs
}

// renderDemoArea renders a demo with its description header and the last
// action underneath.
func renderDemoArea(demo DemoModel, description, lastAction string) string {
	if demo == nil {
		return ""
	}

	descStyle := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	var sb strings.Builder
	sb.WriteString(descStyle.Render(description))
	sb.WriteString("\n\n")
	sb.WriteString(demo.View())
	if lastAction != "" {
		sb.WriteString("\n\n")
		sb.WriteString(descStyle.Render("last: " + lastAction))
	}
	return sb.String()
}
