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
	ErrObjectiveNotFound = fmt.Errorf("objective %w", ErrNotFound)
)

type ObjectiveRepository interface {
	Create(ctx context.Context, objective *model.Objective) error
	ByID(ctx context.Context, userID, objectiveID string) (*model.Objective, error)
	Objectives(ctx context.Context, userID string) ([]*model.Objective, error)
	Update(ctx context.Context, objective *model.Objective) error
	Delete(ctx context.Context, userID, objectiveID string) error
	ExistingIDs(ctx context.Context, userID string, ids []string) ([]string, error)
}

type objectiveRepository struct {
	db *sqlx.DB
}

func NewObjectiveRepository(db *sqlx.DB) ObjectiveRepository {
	return &objectiveRepository{db: db}
}

func (r *objectiveRepository) Create(ctx context.Context, objective *model.Objective) error {
	query := `INSERT INTO objectives (id, user_id, title, status, priority, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			objective.ID,
			objective.UserID,
			objective.Title,
			objective.Status,
			objective.Priority,
			objective.CreatedAt,
			objective.UpdatedAt,
		)
		if err != nil {
			return err
		}
		return r.replaceLinks(ctx, tx, objective)
	})
}

func (r *objectiveRepository) replaceLinks(ctx context.Context, tx *sqlx.Tx, objective *model.Objective) error {
	if err := goalObjectives.replace(ctx, tx, goalObjectives.b, goalObjectives.a, objective.ID, objective.Goals); err != nil {
		return err
	}
	return objectiveProjects.replace(ctx, tx, objectiveProjects.a, objectiveProjects.b, objective.ID, objective.Projects)
}

func (r *objectiveRepository) ByID(ctx context.Context, userID, objectiveID string) (*model.Objective, error) {
	objective := &model.Objective{}
	query := `SELECT * FROM objectives WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, objective, query, objectiveID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrObjectiveNotFound
	}
	if err != nil {
		return nil, err
	}

	objective.Goals, err = goalObjectives.forOwner(ctx, r.db, goalObjectives.b, goalObjectives.a, objective.ID)
	if err != nil {
		return nil, err
	}
	objective.Projects, err = objectiveProjects.forOwner(ctx, r.db, objectiveProjects.a, objectiveProjects.b, objective.ID)
	if err != nil {
		return nil, err
	}
	return objective, nil
}

func (r *objectiveRepository) Objectives(ctx context.Context, userID string) ([]*model.Objective, error) {
	objectives := []*model.Objective{}
	query := `SELECT * FROM objectives WHERE user_id = $1 ORDER BY created_at ASC, id ASC`

	if err := r.db.SelectContext(ctx, &objectives, query, userID); err != nil {
		return nil, err
	}

	goals, err := goalObjectives.forUser(ctx, r.db, goalObjectives.b, goalObjectives.a, userID)
	if err != nil {
		return nil, err
	}
	projects, err := objectiveProjects.forUser(ctx, r.db, objectiveProjects.a, objectiveProjects.b, userID)
	if err != nil {
		return nil, err
	}
	for _, objective := range objectives {
		objective.Goals = listOrEmpty(goals, objective.ID)
		objective.Projects = listOrEmpty(projects, objective.ID)
	}
	return objectives, nil
}

func (r *objectiveRepository) Update(ctx context.Context, objective *model.Objective) error {
	query := `UPDATE objectives
	          SET title = $1, status = $2, priority = $3, updated_at = $4
	          WHERE id = $5 AND user_id = $6`

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, query,
			objective.Title,
			objective.Status,
			objective.Priority,
			objective.UpdatedAt,
			objective.ID,
			objective.UserID,
		)
		if err != nil {
			return err
		}
		if err := requireAffected(result, ErrObjectiveNotFound); err != nil {
			return err
		}
		return r.replaceLinks(ctx, tx, objective)
	})
}

// Delete removes the objective. Its links cascade and tasks pointing at it
// are detached by the schema.
func (r *objectiveRepository) Delete(ctx context.Context, userID, objectiveID string) error {
	query := `DELETE FROM objectives WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, objectiveID, userID)
	if err != nil {
		return err
	}
	return requireAffected(result, ErrObjectiveNotFound)
}

func (r *objectiveRepository) ExistingIDs(ctx context.Context, userID string, ids []string) ([]string, error) {
	return existingIDs(ctx, r.db, "objectives", userID, ids)
}
