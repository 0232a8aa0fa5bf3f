package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/lifeplan/internal/model"
)

var (
	ErrEventNotFound = fmt.Errorf("event %w", ErrNotFound)
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	ByID(ctx context.Context, userID, eventID string) (*model.Event, error)
	Events(ctx context.Context, userID string) ([]*model.Event, error)
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, userID, eventID string) error
}

type eventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	query := `INSERT INTO events (id, user_id, title, description, start_date, end_date, all_day, type, priority, status, color, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.UserID,
		event.Title,
		event.Description,
		event.StartDate,
		event.EndDate,
		event.AllDay,
		event.Type,
		event.Priority,
		event.Status,
		event.Color,
		event.CreatedAt,
		event.UpdatedAt,
	)
	return err
}

func (r *eventRepository) ByID(ctx context.Context, userID, eventID string) (*model.Event, error) {
	event := &model.Event{}
	query := `SELECT * FROM events WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, event, query, eventID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return event, nil
}

// Events lists most recently updated first. Window filtering is done by
// the caller so the overlap rule lives in one place (model.Event.Overlaps).
func (r *eventRepository) Events(ctx context.Context, userID string) ([]*model.Event, error) {
	events := []*model.Event{}
	query := `SELECT * FROM events WHERE user_id = $1 ORDER BY updated_at DESC, id ASC`
	if err := r.db.SelectContext(ctx, &events, query, userID); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) Update(ctx context.Context, event *model.Event) error {
	query := `UPDATE events
	          SET title = $1, description = $2, start_date = $3, end_date = $4, all_day = $5,
	              type = $6, priority = $7, status = $8, color = $9, updated_at = $10
	          WHERE id = $11 AND user_id = $12`

	result, err := r.db.ExecContext(ctx, query,
		event.Title,
		event.Description,
		event.StartDate,
		event.EndDate,
		event.AllDay,
		event.Type,
		event.Priority,
		event.Status,
		event.Color,
		event.UpdatedAt,
		event.ID,
		event.UserID,
	)
	if err != nil {
		return err
	}
	return requireAffected(result, ErrEventNotFound)
}

func (r *eventRepository) Delete(ctx context.Context, userID, eventID string) error {
	query := `DELETE FROM events WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, eventID, userID)
	if err != nil {
		return err
	}
	return requireAffected(result, ErrEventNotFound)
}
