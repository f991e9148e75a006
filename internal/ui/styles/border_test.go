package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var paneTestColor = lipgloss.Color("#00FF00")

// borderLines renders a titled pane and splits it for per-line assertions.
func borderLines(t *testing.T, content, title string, width, height int, focused bool) []string {
	t.Helper()
	rendered := RenderWithTitleBorder(content, title, width, height, focused, paneTestColor, paneTestColor)
	lines := strings.Split(rendered, "\n")
	require.NotEmpty(t, lines)
	return lines
}

func TestRenderWithTitleBorder_Corners(t *testing.T) {
	out := RenderWithTitleBorder("content", "Drafts", 20, 5, false, paneTestColor, paneTestColor)

	for _, corner := range []string{"╭", "╮", "╰", "╯"} {
		assert.Contains(t, out, corner)
	}
}

func TestRenderWithTitleBorder_TitleInTopEdge(t *testing.T) {
	lines := borderLines(t, "content", "Drafts", 20, 5, false)
	assert.Contains(t, lines[0], "Drafts")
}

func TestRenderWithTitleBorder_FocusKeepsShape(t *testing.T) {
	unfocused := borderLines(t, "content", "Drafts", 20, 5, false)
	focused := borderLines(t, "content", "Drafts", 20, 5, true)

	assert.Equal(t, len(unfocused), len(focused))
	assert.Contains(t, focused[0], "Drafts")
}

func TestRenderWithTitleBorder_LongTitleTruncated(t *testing.T) {
	lines := borderLines(t, "content", "A Directory Of Every Configured Person", 20, 5, false)

	assert.LessOrEqual(t, lipgloss.Width(lines[0]), 20)
	assert.Contains(t, lines[0], "...")
}

func TestRenderWithTitleBorder_EmptyContentFillsHeight(t *testing.T) {
	lines := borderLines(t, "", "Drafts", 20, 5, false)

	// Top edge, three body rows, bottom edge.
	assert.Len(t, lines, 5)
}

func TestRenderWithTitleBorder_NarrowPane(t *testing.T) {
	lines := borderLines(t, "x", "T", 6, 3, false)

	for i, line := range lines {
		assert.LessOrEqual(t, lipgloss.Width(line), 6, "line %d: %q", i, line)
	}
}

func TestRenderWithTitleBorder_MinimalSize(t *testing.T) {
	out := RenderWithTitleBorder("", "", 3, 3, false, BorderDefaultColor, BorderDefaultColor)

	assert.Contains(t, out, "╭")
	assert.Contains(t, out, "╯")
}

func TestRenderWithTitleBorder_EmptyTitleIsPlainEdge(t *testing.T) {
	lines := borderLines(t, "content", "", 20, 5, false)
	assert.True(t, strings.HasPrefix(lines[0], "╭"))
	assert.NotContains(t, lines[0], " ")
}

func TestRenderWithTitleBorder_MultilineContent(t *testing.T) {
	out := RenderWithTitleBorder("one\ntwo\nthree", "Drafts", 20, 7, false, paneTestColor, paneTestColor)

	assert.Contains(t, out, "one")
	assert.Contains(t, out, "two")
	assert.Contains(t, out, "three")
}

func TestRenderWithTitleBorder_BodyRowsPaddedToWidth(t *testing.T) {
	lines := borderLines(t, "Hi", "Drafts", 20, 5, false)

	for i := 1; i < len(lines)-1; i++ {
		assert.Equal(t, 20, lipgloss.Width(lines[i]), "line %d: %q", i, lines[i])
	}
}

func TestBuildTopBorder(t *testing.T) {
	borderStyle := lipgloss.NewStyle().Foreground(BorderDefaultColor)
	titleStyle := lipgloss.NewStyle().Foreground(paneTestColor)

	tests := []struct {
		name       string
		title      string
		innerWidth int
		wantTitle  bool
	}{
		{"normal", "Drafts", 20, true},
		{"empty title", "", 20, false},
		{"too narrow for title", "Drafts", 3, false},
		{"just enough", "T", 6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildTopBorder(tt.title, tt.innerWidth, borderStyle, titleStyle)

			assert.True(t, strings.HasPrefix(got, "╭"))
			assert.True(t, strings.HasSuffix(got, "╮"))
			if tt.wantTitle {
				assert.Contains(t, got, tt.title)
			}
		})
	}
}
