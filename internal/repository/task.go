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
	ErrTaskNotFound = fmt.Errorf("task %w", ErrNotFound)
)

// TaskFilter narrows a task listing. Empty fields match everything.
type TaskFilter struct {
	ProjectID   string
	ObjectiveID string
	Status      string
}

type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	ByID(ctx context.Context, userID, taskID string) (*model.Task, error)
	Tasks(ctx context.Context, userID string, filter TaskFilter) ([]*model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, userID, taskID string) error
}

type taskRepository struct {
	db *sqlx.DB
}

func NewTaskRepository(db *sqlx.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	query := `INSERT INTO tasks (id, user_id, name, status, priority, type, project_id, objective_id, due_date, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		task.ID,
		task.UserID,
		task.Name,
		task.Status,
		task.Priority,
		task.Type,
		task.ProjectID,
		task.ObjectiveID,
		task.DueDate,
		task.CreatedAt,
		task.UpdatedAt,
	)
	return err
}

func (r *taskRepository) ByID(ctx context.Context, userID, taskID string) (*model.Task, error) {
	task := &model.Task{}
	query := `SELECT * FROM tasks WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, task, query, taskID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) Tasks(ctx context.Context, userID string, filter TaskFilter) ([]*model.Task, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}

	add := func(col, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		where = append(where, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	add("project_id", filter.ProjectID)
	add("objective_id", filter.ObjectiveID)
	add("status", filter.Status)

	tasks := []*model.Task{}
	query := `SELECT * FROM tasks WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_at ASC, id ASC`
	if err := r.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) Update(ctx context.Context, task *model.Task) error {
	query := `UPDATE tasks
	          SET name = $1, status = $2, priority = $3, type = $4, project_id = $5,
	              objective_id = $6, due_date = $7, updated_at = $8
	          WHERE id = $9 AND user_id = $10`

	result, err := r.db.ExecContext(ctx, query,
		task.Name,
		task.Status,
		task.Priority,
		task.Type,
		task.ProjectID,
		task.ObjectiveID,
		task.DueDate,
		task.UpdatedAt,
		task.ID,
		task.UserID,
	)
	if err != nil {
		return err
	}
	return requireAffected(result, ErrTaskNotFound)
}

func (r *taskRepository) Delete(ctx context.Context, userID, taskID string) error {
	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, taskID, userID)
	if err != nil {
		return err
	}
	return requireAffected(result, ErrTaskNotFound)
}
