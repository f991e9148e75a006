// Package domain defines the draft entity and its repository contract.
package domain

import (
	"fmt"
	"time"
)

// SegmentKind discriminates draft segment rows.
type SegmentKind string

const (
	SegmentText  SegmentKind = "text"
	SegmentToken SegmentKind = "token"
)

// Segment is one piece of a draft: either plain text or a confirmed token.
type Segment struct {
	Kind SegmentKind
	Text string
	Key  string // external key, set only for token segments
}

// IsToken reports whether the segment is a token.
func (s Segment) IsToken() bool {
	return s.Kind == SegmentToken
}

// Draft is a saved field content, decomposed into ordered segments so tokens
// survive the round trip.
type Draft struct {
	ID        int64
	Name      string
	Segments  []Segment
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PlainText returns the draft content with tokens flattened to their text.
func (d *Draft) PlainText() string {
	var out string
	for _, s := range d.Segments {
		out += s.Text
	}
	return out
}

// DraftRepository persists drafts.
type DraftRepository interface {
	// Save inserts the draft when ID is zero, otherwise replaces its
	// segments and updates metadata. Sets ID on insert.
	Save(draft *Draft) error

	// FindByID returns a draft with segments in position order.
	// Returns DraftNotFoundError when no row matches.
	FindByID(id int64) (*Draft, error)

	// FindLatest returns the most recently updated draft, or
	// DraftNotFoundError when the store is empty.
	FindLatest() (*Draft, error)

	// List returns all drafts ordered by update time, newest first,
	// without loading segments.
	List() ([]*Draft, error)

	// Delete removes a draft and its segments.
	Delete(id int64) error
}

// DraftNotFoundError indicates a lookup matched no draft.
type DraftNotFoundError struct {
	ID int64
}

func (e *DraftNotFoundError) Error() string {
	if e.ID == 0 {
		return "no drafts found"
	}
	return fmt.Sprintf("draft %d not found", e.ID)
}
