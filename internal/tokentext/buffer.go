package tokentext

import (
	"strings"

	"github.com/google/uuid"
)

// span is one attribute run. The buffer holds an ordered list of spans whose
// lengths sum to the content length; adjacent spans with equal attributes are
// coalesced after every mutation.
type span[K comparable] struct {
	length int
	attrs  Attributes[K]
}

// Buffer is a mutable rune sequence with a parallel layer of attribute runs.
//
// The buffer is deliberately token-unaware at the mutation level:
// ReplaceRunes splices text without asking whether it tears a token apart.
// Layers above it (the Controller) must gate edits through
// IsValidEditingRange first. All token queries re-scan the runs on every
// call, so they stay correct under arbitrary interleaved edits without any
// index invalidation; expected buffer sizes make the O(n) scans a non-issue.
type Buffer[K comparable] struct {
	content []rune
	spans   []span[K]

	dirty      bool
	dirtyRange Range
}

// NewBuffer creates an empty buffer.
func NewBuffer[K comparable]() *Buffer[K] {
	return &Buffer[K]{}
}

// Len returns the buffer length in runes.
func (b *Buffer[K]) Len() int {
	return len(b.content)
}

// String returns the full buffer content.
func (b *Buffer[K]) String() string {
	return string(b.content)
}

// TextIn returns the content of r, clamped to the buffer bounds.
func (b *Buffer[K]) TextIn(r Range) string {
	r = b.clamp(r)
	return string(b.content[r.Pos:r.End()])
}

// SetText replaces the entire content with plain, unattributed text.
// All tokens and markers are discarded.
func (b *Buffer[K]) SetText(s string) {
	b.content = []rune(s)
	b.spans = nil
	if len(b.content) > 0 {
		b.spans = []span[K]{{length: len(b.content)}}
	}
	b.markDirty(Range{Pos: 0, Len: len(b.content)})
}

// clamp confines r to the buffer bounds.
func (b *Buffer[K]) clamp(r Range) Range {
	if r.Pos < 0 {
		r.Len += r.Pos
		r.Pos = 0
	}
	if r.Pos > len(b.content) {
		r.Pos = len(b.content)
	}
	if r.Len < 0 {
		r.Len = 0
	}
	if r.End() > len(b.content) {
		r.Len = len(b.content) - r.Pos
	}
	return r
}

func (b *Buffer[K]) markDirty(r Range) {
	if !b.dirty {
		b.dirty = true
		b.dirtyRange = r
		return
	}
	start := min(b.dirtyRange.Pos, r.Pos)
	end := max(b.dirtyRange.End(), r.End())
	b.dirtyRange = Range{Pos: start, Len: end - start}
}

// takeDirty returns the accumulated dirty range and clears it.
func (b *Buffer[K]) takeDirty() (Range, bool) {
	if !b.dirty {
		return Range{}, false
	}
	b.dirty = false
	return b.clamp(b.dirtyRange), true
}

// ReplaceRunes splices newText into r. This is the raw, token-unaware edit
// primitive: callers above this layer must have validated the range already.
// Inserted text carries no attributes; the next formatting pass restyles it.
// Every run located after the edit shifts by the length delta.
func (b *Buffer[K]) ReplaceRunes(r Range, newText string) {
	r = b.clamp(r)
	inserted := []rune(newText)

	next := make([]rune, 0, len(b.content)-r.Len+len(inserted))
	next = append(next, b.content[:r.Pos]...)
	next = append(next, inserted...)
	next = append(next, b.content[r.End():]...)
	b.content = next

	var spans []span[K]
	offset := 0
	for _, s := range b.spans {
		runRange := Range{Pos: offset, Len: s.length}
		offset += s.length

		if keep := beforeLen(runRange, r.Pos); keep > 0 {
			spans = append(spans, span[K]{length: keep, attrs: s.attrs})
		}
	}
	if len(inserted) > 0 {
		spans = append(spans, span[K]{length: len(inserted)})
	}
	offset = 0
	for _, s := range b.spans {
		runRange := Range{Pos: offset, Len: s.length}
		offset += s.length

		if keep := afterLen(runRange, r.End()); keep > 0 {
			spans = append(spans, span[K]{length: keep, attrs: s.attrs})
		}
	}
	b.spans = coalesce(spans)

	b.markDirty(Range{Pos: r.Pos, Len: len(inserted)})
}

// beforeLen returns how much of run lies strictly before pos.
func beforeLen(run Range, pos int) int {
	if run.End() <= pos {
		return run.Len
	}
	if run.Pos >= pos {
		return 0
	}
	return pos - run.Pos
}

// afterLen returns how much of run lies at or after pos.
func afterLen(run Range, pos int) int {
	if run.Pos >= pos {
		return run.Len
	}
	if run.End() <= pos {
		return 0
	}
	return run.End() - pos
}

func coalesce[K comparable](spans []span[K]) []span[K] {
	out := spans[:0]
	for _, s := range spans {
		if s.length == 0 {
			continue
		}
		if len(out) > 0 && out[len(out)-1].attrs.equal(s.attrs) {
			out[len(out)-1].length += s.length
			continue
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// mutateAttrs rewrites the attributes of every position in r through f.
// Text is untouched; no dirty marking happens (presentation writes during a
// formatting pass must not re-trigger the pass).
func (b *Buffer[K]) mutateAttrs(r Range, f func(Attributes[K]) Attributes[K]) {
	r = b.clamp(r)
	if r.Len == 0 {
		return
	}

	var spans []span[K]
	offset := 0
	for _, s := range b.spans {
		runRange := Range{Pos: offset, Len: s.length}
		offset += s.length

		if keep := beforeLen(runRange, r.Pos); keep > 0 {
			spans = append(spans, span[K]{length: keep, attrs: s.attrs})
		}
		overlapStart := max(runRange.Pos, r.Pos)
		overlapEnd := min(runRange.End(), r.End())
		if overlap := overlapEnd - overlapStart; overlap > 0 {
			spans = append(spans, span[K]{length: overlap, attrs: f(s.attrs)})
		}
		if keep := afterLen(runRange, r.End()); keep > 0 {
			spans = append(spans, span[K]{length: keep, attrs: s.attrs})
		}
	}
	b.spans = coalesce(spans)
}

// SetAttributes replaces the attributes of r wholesale.
func (b *Buffer[K]) SetAttributes(attrs Attributes[K], r Range) {
	b.mutateAttrs(r, func(Attributes[K]) Attributes[K] { return attrs })
}

// MergeAttributes applies f to the existing attributes of every run in r.
func (b *Buffer[K]) MergeAttributes(r Range, f func(*Attributes[K])) {
	b.mutateAttrs(r, func(a Attributes[K]) Attributes[K] {
		f(&a)
		return a
	})
}

// EnumerateRuns walks the attribute runs in position order. Returning false
// from fn stops the walk.
func (b *Buffer[K]) EnumerateRuns(fn func(r Range, attrs Attributes[K]) bool) {
	offset := 0
	for _, s := range b.spans {
		if !fn(Range{Pos: offset, Len: s.length}, s.attrs) {
			return
		}
		offset += s.length
	}
}

// EnumerateTokens walks tokens in ascending position order, restricted to
// tokens intersecting within when it is non-nil. The walk runs over a
// snapshot of the runs taken at call time, so fn may merge attributes on the
// buffer (splitting or coalescing runs) without disturbing the scan. Text
// mutation during the walk is still off-limits: token ranges refer to the
// call-time content. Returning false from fn stops early.
func (b *Buffer[K]) EnumerateTokens(within *Range, fn func(Token[K], Range) bool) {
	spans := make([]span[K], len(b.spans))
	copy(spans, b.spans)

	offset := 0
	i := 0
	for i < len(spans) {
		s := spans[i]
		if !s.attrs.IsToken() {
			offset += s.length
			i++
			continue
		}

		// Extend over consecutive runs carrying the same reference. A token
		// can be split into several runs by presentation-only differences.
		ref := s.attrs.TokenRef
		start := offset
		length := 0
		attrs := s.attrs
		for i < len(spans) && spans[i].attrs.TokenRef == ref {
			length += spans[i].length
			offset += spans[i].length
			i++
		}

		r := Range{Pos: start, Len: length}
		if within != nil && !r.Intersects(*within) {
			if within.End() <= r.Pos {
				return
			}
			continue
		}

		tok := Token[K]{Ref: ref, Text: string(b.content[start : start+length]), Range: r}
		if attrs.ExternalKey != nil {
			tok.Key = *attrs.ExternalKey
		}
		if !fn(tok, r) {
			return
		}
	}
}

// TokenList returns all tokens in position order.
func (b *Buffer[K]) TokenList() []Token[K] {
	var out []Token[K]
	b.EnumerateTokens(nil, func(t Token[K], _ Range) bool {
		out = append(out, t)
		return true
	})
	return out
}

// TokenByRef locates a token by reference with a fresh scan.
func (b *Buffer[K]) TokenByRef(ref uuid.UUID) (Token[K], bool) {
	var found Token[K]
	ok := false
	b.EnumerateTokens(nil, func(t Token[K], _ Range) bool {
		if t.Ref == ref {
			found = t
			ok = true
			return false
		}
		return true
	})
	return found, ok
}

// TokensIntersecting returns the tokens whose ranges overlap r.
func (b *Buffer[K]) TokensIntersecting(r Range) []Token[K] {
	var out []Token[K]
	b.EnumerateTokens(&r, func(t Token[K], _ Range) bool {
		out = append(out, t)
		return true
	})
	return out
}

// RangeIntersectsToken reports whether r overlaps any token.
func (b *Buffer[K]) RangeIntersectsToken(r Range) bool {
	return len(b.TokensIntersecting(r)) > 0
}

// RangeIntersectsTokenInput reports whether r overlaps the anchor or the
// live input region.
func (b *Buffer[K]) RangeIntersectsTokenInput(r Range) bool {
	if a, ok := b.AnchorRange(); ok && a.Intersects(r) {
		return true
	}
	if in, ok := b.InputRange(); ok && in.Intersects(r) {
		return true
	}
	return false
}

// IsValidEditingRange is the atomicity gate. A zero-length range (a pure
// insertion point) is always valid. A non-empty range is invalid iff its
// start or end falls strictly inside a token's interior: partial overlap at
// either boundary would tear the token apart. A range that fully swallows a
// token is valid - the edit policy turns that into a cascade delete.
func (b *Buffer[K]) IsValidEditingRange(r Range) bool {
	if r.Len <= 0 {
		return true
	}
	valid := true
	b.EnumerateTokens(nil, func(_ Token[K], tr Range) bool {
		if insideInterior(r.Pos, tr) || insideInterior(r.End(), tr) {
			valid = false
			return false
		}
		return tr.Pos < r.End()
	})
	return valid
}

// insideInterior reports whether pos is strictly inside r, excluding both
// boundaries.
func insideInterior(pos int, r Range) bool {
	return pos > r.Pos && pos < r.End()
}

// markedRange returns the merged range of runs carrying the given input
// mark, if any.
func (b *Buffer[K]) markedRange(mark InputMark) (Range, bool) {
	start, end := -1, -1
	b.EnumerateRuns(func(r Range, attrs Attributes[K]) bool {
		if attrs.Mark != mark {
			return true
		}
		if start == -1 {
			start = r.Pos
		}
		end = r.End()
		return true
	})
	if start == -1 {
		return Range{}, false
	}
	return Range{Pos: start, Len: end - start}, true
}

// AnchorRange returns the range of the input-mode anchor, if present.
func (b *Buffer[K]) AnchorRange() (Range, bool) {
	return b.markedRange(InputMarkAnchor)
}

// InputRange returns the range of the live input text, if present.
func (b *Buffer[K]) InputRange() (Range, bool) {
	return b.markedRange(InputMarkText)
}

// Segments decomposes the buffer into its linear text/token sequence.
// Consecutive plain runs collapse into one Text segment. A single-space run
// flagged as padding is a chip-layout placeholder, not content, and is
// dropped.
func (b *Buffer[K]) Segments() []Segment[K] {
	var out []Segment[K]
	var text strings.Builder

	flush := func() {
		if text.Len() > 0 {
			out = append(out, Segment[K]{Text: text.String()})
			text.Reset()
		}
	}

	offset := 0
	i := 0
	for i < len(b.spans) {
		s := b.spans[i]
		if s.attrs.IsToken() {
			ref := s.attrs.TokenRef
			start := offset
			length := 0
			attrs := s.attrs
			for i < len(b.spans) && b.spans[i].attrs.TokenRef == ref {
				length += b.spans[i].length
				offset += b.spans[i].length
				i++
			}
			flush()
			tok := Token[K]{Ref: ref, Text: string(b.content[start : start+length]), Range: Range{Pos: start, Len: length}}
			if attrs.ExternalKey != nil {
				tok.Key = *attrs.ExternalKey
			}
			out = append(out, Segment[K]{Token: &tok})
			continue
		}

		runText := string(b.content[offset : offset+s.length])
		if !(runText == " " && s.attrs.Padding) {
			text.WriteString(runText)
		}
		offset += s.length
		i++
	}
	flush()
	return out
}
