package testutil

import "time"

// segmentData holds one segment row to be inserted.
type segmentData struct {
	kind string
	text string
	key  string
}

// Text creates a plain text segment.
func Text(text string) segmentData {
	return segmentData{kind: "text", text: text}
}

// Token creates a token segment with its display text and external key.
func Token(text, key string) segmentData {
	return segmentData{kind: "token", text: text, key: key}
}

// draftData holds all data for a draft to be inserted.
type draftData struct {
	id        int64
	name      string
	segments  []segmentData
	createdAt time.Time
	updatedAt time.Time
}

// defaultDraft returns a draftData with sensible defaults.
func defaultDraft(id int64, name string) draftData {
	now := time.Now()
	return draftData{
		id:        id,
		name:      name,
		createdAt: now,
		updatedAt: now,
	}
}

// DraftOption configures a draft during builder setup.
type DraftOption func(*draftData)

// Segments sets the draft's segments in order.
func Segments(segs ...segmentData) DraftOption {
	return func(d *draftData) { d.segments = append(d.segments, segs...) }
}

// CreatedAt sets the created_at timestamp.
func CreatedAt(t time.Time) DraftOption {
	return func(d *draftData) { d.createdAt = t }
}

// UpdatedAt sets the updated_at timestamp.
func UpdatedAt(t time.Time) DraftOption {
	return func(d *draftData) { d.updatedAt = t }
}
