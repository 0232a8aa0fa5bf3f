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
	ErrGoalNotFound = fmt.Errorf("goal %w", ErrNotFound)
)

type GoalRepository interface {
	Create(ctx context.Context, goal *model.Goal) error
	ByID(ctx context.Context, userID, goalID string) (*model.Goal, error)
	Goals(ctx context.Context, userID string) ([]*model.Goal, error)
	Update(ctx context.Context, goal *model.Goal) error
	Delete(ctx context.Context, userID, goalID string) error
	ExistingIDs(ctx context.Context, userID string, ids []string) ([]string, error)
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(ctx context.Context, goal *model.Goal) error {
	query := `INSERT INTO goals (id, user_id, name, status, category, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			goal.ID,
			goal.UserID,
			goal.Name,
			goal.Status,
			goal.Category,
			goal.CreatedAt,
			goal.UpdatedAt,
		)
		if err != nil {
			return err
		}
		return goalObjectives.replace(ctx, tx, goalObjectives.a, goalObjectives.b, goal.ID, goal.Objectives)
	})
}

func (r *goalRepository) ByID(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, goal, query, goalID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	goal.Objectives, err = goalObjectives.forOwner(ctx, r.db, goalObjectives.a, goalObjectives.b, goal.ID)
	if err != nil {
		return nil, err
	}
	return goal, nil
}

func (r *goalRepository) Goals(ctx context.Context, userID string) ([]*model.Goal, error) {
	goals := []*model.Goal{}
	query := `SELECT * FROM goals WHERE user_id = $1 ORDER BY created_at ASC, id ASC`

	if err := r.db.SelectContext(ctx, &goals, query, userID); err != nil {
		return nil, err
	}

	links, err := goalObjectives.forUser(ctx, r.db, goalObjectives.a, goalObjectives.b, userID)
	if err != nil {
		return nil, err
	}
	for _, goal := range goals {
		goal.Objectives = listOrEmpty(links, goal.ID)
	}
	return goals, nil
}

// Update saves the goal row and replaces its objective links atomically.
func (r *goalRepository) Update(ctx context.Context, goal *model.Goal) error {
	query := `UPDATE goals
	          SET name = $1, status = $2, category = $3, updated_at = $4
	          WHERE id = $5 AND user_id = $6`

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, query,
			goal.Name,
			goal.Status,
			goal.Category,
			goal.UpdatedAt,
			goal.ID,
			goal.UserID,
		)
		if err != nil {
			return err
		}
		if err := requireAffected(result, ErrGoalNotFound); err != nil {
			return err
		}
		return goalObjectives.replace(ctx, tx, goalObjectives.a, goalObjectives.b, goal.ID, goal.Objectives)
	})
}

func (r *goalRepository) Delete(ctx context.Context, userID, goalID string) error {
	query := `DELETE FROM goals WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, goalID, userID)
	if err != nil {
		return err
	}
	return requireAffected(result, ErrGoalNotFound)
}

func (r *goalRepository) ExistingIDs(ctx context.Context, userID string, ids []string) ([]string, error) {
	return existingIDs(ctx, r.db, "goals", userID, ids)
}
