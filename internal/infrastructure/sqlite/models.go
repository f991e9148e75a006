package sqlite

import (
	"time"

	"github.com/zjrosen/pastille/internal/drafts/domain"
)

// DraftModel represents the database row for the drafts table.
// Fields map directly to SQL columns with Unix timestamps for time values.
type DraftModel struct {
	ID        int64
	Name      string
	CreatedAt int64 // Unix timestamp
	UpdatedAt int64 // Unix timestamp
}

// SegmentModel represents the database row for the draft_segments table.
type SegmentModel struct {
	ID       int64
	DraftID  int64
	Position int
	Kind     string
	Text     string
	Key      string
}

// toDraftModel converts a domain Draft to a database DraftModel.
func toDraftModel(d *domain.Draft) *DraftModel {
	return &DraftModel{
		ID:        d.ID,
		Name:      d.Name,
		CreatedAt: d.CreatedAt.Unix(),
		UpdatedAt: d.UpdatedAt.Unix(),
	}
}

// toDomain converts a DraftModel plus its segments to a domain Draft.
func (m *DraftModel) toDomain(segments []SegmentModel) *domain.Draft {
	d := &domain.Draft{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: time.Unix(m.CreatedAt, 0),
		UpdatedAt: time.Unix(m.UpdatedAt, 0),
	}
	for _, s := range segments {
		d.Segments = append(d.Segments, domain.Segment{
			Kind: domain.SegmentKind(s.Kind),
			Text: s.Text,
			Key:  s.Key,
		})
	}
	return d
}

// toSegmentModels converts domain segments into rows for a draft.
func toSegmentModels(draftID int64, segments []domain.Segment) []SegmentModel {
	models := make([]SegmentModel, 0, len(segments))
	for i, s := range segments {
		models = append(models, SegmentModel{
			DraftID:  draftID,
			Position: i,
			Kind:     string(s.Kind),
			Text:     s.Text,
			Key:      s.Key,
		})
	}
	return models
}
