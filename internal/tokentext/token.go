// Package tokentext implements a token-aware attributed text buffer and the
// editing policy around it. Tokens are atomic inline spans (mentions, tags)
// that behave as single characters for selection and deletion while carrying
// their own display styling. The package is host-agnostic: a rendering host
// feeds it edit intents and renders the attribute runs it produces.
//
// All positions and lengths are rune offsets, not byte offsets. The host is
// responsible for converting to whatever unit its input layer uses.
package tokentext

import "github.com/google/uuid"

// Range is a half-open span [Pos, Pos+Len) in rune coordinates.
type Range struct {
	Pos int
	Len int
}

// NewRange creates a range from a position and length.
func NewRange(pos, length int) Range {
	return Range{Pos: pos, Len: length}
}

// End returns the exclusive end position of the range.
func (r Range) End() int {
	return r.Pos + r.Len
}

// Contains reports whether pos falls inside the range.
// A zero-length range contains nothing.
func (r Range) Contains(pos int) bool {
	return pos >= r.Pos && pos < r.End()
}

// Intersects reports whether two ranges share at least one position.
// Zero-length ranges never intersect anything.
func (r Range) Intersects(o Range) bool {
	return r.Pos < o.End() && o.Pos < r.End()
}

// ContainsRange reports whether o lies entirely within r.
func (r Range) ContainsRange(o Range) bool {
	return o.Pos >= r.Pos && o.End() <= r.End()
}

// Token is an atomic inline span. Ref identifies the token for its whole
// lifetime; Key is the caller-supplied external identity. Text and Range are
// snapshots taken when the token was last located by a buffer scan - edits
// elsewhere in the buffer make them stale, so they are never used as
// authoritative coordinates.
type Token[K comparable] struct {
	Ref   uuid.UUID
	Key   K
	Text  string
	Range Range
}

// Equal reports token identity. Two tokens are the same token iff their
// references match, regardless of text or position.
func (t Token[K]) Equal(o Token[K]) bool {
	return t.Ref == o.Ref
}

// Contains reports whether pos falls inside the token's last known range.
func (t Token[K]) Contains(pos int) bool {
	return t.Range.Contains(pos)
}

// Intersects reports whether r overlaps the token's last known range.
func (t Token[K]) Intersects(r Range) bool {
	return t.Range.Intersects(r)
}

// Segment is one unit of the linear text/token decomposition of the buffer.
// Exactly one of Text or Token is meaningful: Token is non-nil for token
// segments, and Text holds the run content for plain-text segments.
type Segment[K comparable] struct {
	Text  string
	Token *Token[K]
}

// IsToken reports whether the segment is a token segment.
func (s Segment[K]) IsToken() bool {
	return s.Token != nil
}

// Content returns the raw text the segment contributes to the buffer.
func (s Segment[K]) Content() string {
	if s.Token != nil {
		return s.Token.Text
	}
	return s.Text
}
