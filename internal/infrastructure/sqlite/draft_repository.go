package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/zjrosen/pastille/internal/drafts/domain"
)

// draftColumns is the list of columns to select for draft queries.
const draftColumns = `id, name, created_at, updated_at`

// draftRepository implements domain.DraftRepository using SQLite.
type draftRepository struct {
	db *sql.DB
}

// NewDraftRepository creates a repository backed by db.
func NewDraftRepository(db *sql.DB) domain.DraftRepository {
	return &draftRepository{db: db}
}

// Ensure draftRepository implements domain.DraftRepository.
var _ domain.DraftRepository = (*draftRepository)(nil)

// scanDraft scans a row into a DraftModel.
func scanDraft(scanner interface{ Scan(...any) error }) (*DraftModel, error) {
	var model DraftModel
	err := scanner.Scan(&model.ID, &model.Name, &model.CreatedAt, &model.UpdatedAt)
	return &model, err
}

// Save persists a draft to the database.
// For new drafts (ID == 0), inserts a new row and sets the draft ID.
// For existing drafts (ID > 0), updates metadata and replaces all segments.
func (r *draftRepository) Save(draft *domain.Draft) error {
	now := time.Now()
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = now
	}
	draft.UpdatedAt = now
	model := toDraftModel(draft)

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if draft.ID == 0 {
		result, err := tx.Exec(
			`INSERT INTO drafts (name, created_at, updated_at) VALUES (?, ?, ?)`,
			model.Name, model.CreatedAt, model.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting draft: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting last insert id: %w", err)
		}
		draft.ID = id
	} else {
		if _, err := tx.Exec(
			`UPDATE drafts SET name = ?, updated_at = ? WHERE id = ?`,
			model.Name, model.UpdatedAt, model.ID,
		); err != nil {
			return fmt.Errorf("updating draft: %w", err)
		}
		if _, err := tx.Exec(
			`DELETE FROM draft_segments WHERE draft_id = ?`, model.ID,
		); err != nil {
			return fmt.Errorf("clearing draft segments: %w", err)
		}
	}

	for _, seg := range toSegmentModels(draft.ID, draft.Segments) {
		if _, err := tx.Exec(
			`INSERT INTO draft_segments (draft_id, position, kind, text, key) VALUES (?, ?, ?, ?, ?)`,
			seg.DraftID, seg.Position, seg.Kind, seg.Text, seg.Key,
		); err != nil {
			return fmt.Errorf("inserting draft segment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing draft: %w", err)
	}
	return nil
}

// FindByID retrieves a draft with its segments in position order.
// Returns DraftNotFoundError if no matching draft exists.
func (r *draftRepository) FindByID(id int64) (*domain.Draft, error) {
	row := r.db.QueryRow(
		`SELECT `+draftColumns+` FROM drafts WHERE id = ?`, id,
	)
	model, err := scanDraft(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.DraftNotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("finding draft by id: %w", err)
	}

	segments, err := r.loadSegments(model.ID)
	if err != nil {
		return nil, err
	}
	return model.toDomain(segments), nil
}

// FindLatest retrieves the most recently updated draft.
func (r *draftRepository) FindLatest() (*domain.Draft, error) {
	row := r.db.QueryRow(
		`SELECT ` + draftColumns + ` FROM drafts ORDER BY updated_at DESC, id DESC LIMIT 1`,
	)
	model, err := scanDraft(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.DraftNotFoundError{}
	}
	if err != nil {
		return nil, fmt.Errorf("finding latest draft: %w", err)
	}

	segments, err := r.loadSegments(model.ID)
	if err != nil {
		return nil, err
	}
	return model.toDomain(segments), nil
}

// List returns all drafts newest first, without segments.
func (r *draftRepository) List() ([]*domain.Draft, error) {
	rows, err := r.db.Query(
		`SELECT ` + draftColumns + ` FROM drafts ORDER BY updated_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing drafts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var drafts []*domain.Draft
	for rows.Next() {
		model, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning draft: %w", err)
		}
		drafts = append(drafts, model.toDomain(nil))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating drafts: %w", err)
	}
	return drafts, nil
}

// Delete removes a draft and its segments.
func (r *draftRepository) Delete(id int64) error {
	result, err := r.db.Exec(`DELETE FROM drafts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting draft: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}
	if affected == 0 {
		return &domain.DraftNotFoundError{ID: id}
	}
	return nil
}

// loadSegments fetches a draft's segments in position order.
func (r *draftRepository) loadSegments(draftID int64) ([]SegmentModel, error) {
	rows, err := r.db.Query(
		`SELECT id, draft_id, position, kind, text, key
		 FROM draft_segments WHERE draft_id = ? ORDER BY position ASC`,
		draftID,
	)
	if err != nil {
		return nil, fmt.Errorf("loading draft segments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var segments []SegmentModel
	for rows.Next() {
		var s SegmentModel
		if err := rows.Scan(&s.ID, &s.DraftID, &s.Position, &s.Kind, &s.Text, &s.Key); err != nil {
			return nil, fmt.Errorf("scanning draft segment: %w", err)
		}
		segments = append(segments, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating draft segments: %w", err)
	}
	return segments, nil
}
