package tokenfield

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Cursor positions are rune offsets into the buffer, but user-perceived
// characters are grapheme clusters that may span several runes. These
// helpers translate between the two so arrow keys never strand the cursor
// inside a cluster.

// nextGraphemeStart returns the rune offset just past the grapheme cluster
// starting at pos. Past the end it returns the text length.
func nextGraphemeStart(s string, pos int) int {
	offset := 0
	state := -1
	for len(s) > 0 {
		cluster, rest, _, newState := uniseg.StepString(s, state)
		n := len([]rune(cluster))
		if offset+n > pos {
			return offset + n
		}
		offset += n
		s = rest
		state = newState
	}
	return offset
}

// prevGraphemeStart returns the rune offset of the grapheme cluster
// preceding pos. At or before the start it returns 0.
func prevGraphemeStart(s string, pos int) int {
	offset := 0
	prev := 0
	state := -1
	for len(s) > 0 && offset < pos {
		cluster, rest, _, newState := uniseg.StepString(s, state)
		prev = offset
		offset += len([]rune(cluster))
		s = rest
		state = newState
	}
	return prev
}

// graphemeAt returns the grapheme cluster whose first rune sits at pos, or
// "" past the end.
func graphemeAt(s string, pos int) string {
	offset := 0
	state := -1
	for len(s) > 0 {
		cluster, rest, _, newState := uniseg.StepString(s, state)
		if offset == pos {
			return cluster
		}
		offset += len([]rune(cluster))
		s = rest
		state = newState
	}
	return ""
}

// clusterWidth returns the display width of a grapheme cluster in cells.
func clusterWidth(cluster string) int {
	if cluster == "" {
		return 1
	}
	if w := runewidth.StringWidth(cluster); w > 0 {
		return w
	}
	return 1
}

// nextWordEnd finds the rune offset after the next word from pos.
func nextWordEnd(s string, pos int) int {
	runes := []rune(s)
	n := len(runes)
	for pos < n && !isWordRune(runes[pos]) {
		pos++
	}
	for pos < n && isWordRune(runes[pos]) {
		pos++
	}
	return pos
}

// prevWordStart finds the rune offset at the start of the previous word.
func prevWordStart(s string, pos int) int {
	runes := []rune(s)
	if pos > len(runes) {
		pos = len(runes)
	}
	for pos > 0 && !isWordRune(runes[pos-1]) {
		pos--
	}
	for pos > 0 && isWordRune(runes[pos-1]) {
		pos--
	}
	return pos
}

func isWordRune(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_'
}
