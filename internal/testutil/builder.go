package testutil

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
)

// Builder accumulates test drafts and inserts them with explicit IDs and
// timestamps, bypassing the repository so ordering tests stay deterministic.
type Builder struct {
	t      *testing.T
	db     *sql.DB
	drafts []draftData
}

// NewBuilder creates a builder for the given test database.
func NewBuilder(t *testing.T, db *sql.DB) *Builder {
	t.Helper()
	return &Builder{t: t, db: db}
}

// WithDraft adds a draft with optional configuration.
func (b *Builder) WithDraft(id int64, name string, opts ...DraftOption) *Builder {
	draft := defaultDraft(id, name)
	for _, opt := range opts {
		opt(&draft)
	}
	b.drafts = append(b.drafts, draft)
	return b
}

// Build inserts all accumulated data into the database.
func (b *Builder) Build() {
	b.t.Helper()
	for _, draft := range b.drafts {
		b.insertDraft(draft)
		b.insertSegments(draft.id, draft.segments)
	}
}

func (b *Builder) insertDraft(draft draftData) {
	b.t.Helper()
	_, err := b.db.Exec(
		`INSERT INTO drafts (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		draft.id, draft.name, draft.createdAt.Unix(), draft.updatedAt.Unix(),
	)
	require.NoError(b.t, err)
}

func (b *Builder) insertSegments(draftID int64, segments []segmentData) {
	b.t.Helper()
	for i, seg := range segments {
		_, err := b.db.Exec(
			`INSERT INTO draft_segments (draft_id, position, kind, text, key) VALUES (?, ?, ?, ?, ?)`,
			draftID, i, seg.kind, seg.text, seg.key,
		)
		require.NoError(b.t, err)
	}
}
