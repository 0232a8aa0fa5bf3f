package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/templui/lifeplan/internal/model"
)

var (
	ErrNoteNotFound = fmt.Errorf("note %w", ErrNotFound)
)

type NoteFilter struct {
	Category string
	Favorite *bool
}

type NoteRepository interface {
	Create(ctx context.Context, note *model.Note) error
	ByID(ctx context.Context, userID, noteID string) (*model.Note, error)
	Notes(ctx context.Context, userID string, filter NoteFilter) ([]*model.Note, error)
	Update(ctx context.Context, note *model.Note) error
	Delete(ctx context.Context, userID, noteID string) error
}

type noteRepository struct {
	db *sqlx.DB
}

func NewNoteRepository(db *sqlx.DB) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(ctx context.Context, note *model.Note) error {
	query := `INSERT INTO notes (id, user_id, title, content, category, tags, is_favorite, is_pinned, color, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		note.ID,
		note.UserID,
		note.Title,
		note.Content,
		note.Category,
		note.Tags,
		note.IsFavorite,
		note.IsPinned,
		note.Color,
		note.CreatedAt,
		note.UpdatedAt,
	)
	return err
}

func (r *noteRepository) ByID(ctx context.Context, userID, noteID string) (*model.Note, error) {
	note := &model.Note{}
	query := `SELECT * FROM notes WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, note, query, noteID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return note, nil
}

// Notes lists pinned notes first, then most recently updated.
func (r *noteRepository) Notes(ctx context.Context, userID string, filter NoteFilter) ([]*model.Note, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}

	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Favorite != nil {
		args = append(args, *filter.Favorite)
		where = append(where, fmt.Sprintf("is_favorite = $%d", len(args)))
	}

	notes := []*model.Note{}
	query := `SELECT * FROM notes WHERE ` + strings.Join(where, " AND ") + ` ORDER BY is_pinned DESC, updated_at DESC, id ASC`
	if err := r.db.SelectContext(ctx, &notes, query, args...); err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *noteRepository) Update(ctx context.Context, note *model.Note) error {
	query := `UPDATE notes
	          SET title = $1, content = $2, category = $3, tags = $4, is_favorite = $5,
	              is_pinned = $6, color = $7, updated_at = $8
	          WHERE id = $9 AND user_id = $10`

	result, err := r.db.ExecContext(ctx, query,
		note.Title,
		note.Content,
		note.Category,
		note.Tags,
		note.IsFavorite,
		note.IsPinned,
		note.Color,
		note.UpdatedAt,
		note.ID,
		note.UserID,
	)
	if err != nil {
		return err
	}
	return requireAffected(result, ErrNoteNotFound)
}

func (r *noteRepository) Delete(ctx context.Context, userID, noteID string) error {
	query := `DELETE FROM notes WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, noteID, userID)
	if err != nil {
		return err
	}
	return requireAffected(result, ErrNoteNotFound)
}
