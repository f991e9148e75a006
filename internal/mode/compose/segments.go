package compose

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/pastille/internal/drafts/domain"
	"github.com/zjrosen/pastille/internal/tokentext"
	"github.com/zjrosen/pastille/internal/ui/tokenfield"
)

// maxNameRunes caps the derived draft name length.
const maxNameRunes = 40

// toDomainSegments converts field segments into persistable draft segments.
func toDomainSegments(segs []tokenfield.Segment) []domain.Segment {
	out := make([]domain.Segment, 0, len(segs))
	for _, s := range segs {
		if s.IsToken() {
			out = append(out, domain.Segment{
				Kind: domain.SegmentToken,
				Text: s.Token.Text,
				Key:  s.Token.Key,
			})
			continue
		}
		out = append(out, domain.Segment{Kind: domain.SegmentText, Text: s.Text})
	}
	return out
}

// toFieldSegments converts loaded draft segments back into field segments.
// Token references are recreated on insertion.
func toFieldSegments(segs []domain.Segment) []tokenfield.Segment {
	out := make([]tokenfield.Segment, 0, len(segs))
	for _, s := range segs {
		if s.IsToken() {
			out = append(out, tokenfield.Segment{
				Token: &tokentext.Token[string]{Text: s.Text, Key: s.Key},
			})
			continue
		}
		out = append(out, tokenfield.Segment{Text: s.Text})
	}
	return out
}

// draftName derives a list-friendly name from the first line of content.
func draftName(segs []tokenfield.Segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.Content())
	}
	name := b.String()
	if i := strings.IndexRune(name, '\n'); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimFunc(name, unicode.IsSpace)

	runes := []rune(name)
	if len(runes) > maxNameRunes {
		name = string(runes[:maxNameRunes])
	}
	if name == "" {
		name = "untitled"
	}
	return name
}

// parseChipColor turns a configured hex color into a terminal color.
func parseChipColor(hex string) lipgloss.TerminalColor {
	return lipgloss.Color(hex)
}
