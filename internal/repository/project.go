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
	ErrProjectNotFound = fmt.Errorf("project %w", ErrNotFound)
)

type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	ByID(ctx context.Context, userID, projectID string) (*model.Project, error)
	Projects(ctx context.Context, userID string) ([]*model.Project, error)
	Update(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, userID, projectID string) error
	ExistingIDs(ctx context.Context, userID string, ids []string) ([]string, error)
}

type projectRepository struct {
	db *sqlx.DB
}

func NewProjectRepository(db *sqlx.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *model.Project) error {
	query := `INSERT INTO projects (id, user_id, name, status, priority, start_date, due_date, is_public, color, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			project.ID,
			project.UserID,
			project.Name,
			project.Status,
			project.Priority,
			project.StartDate,
			project.DueDate,
			project.IsPublic,
			project.Color,
			project.CreatedAt,
			project.UpdatedAt,
		)
		if err != nil {
			return err
		}
		return objectiveProjects.replace(ctx, tx, objectiveProjects.b, objectiveProjects.a, project.ID, project.Objectives)
	})
}

func (r *projectRepository) ByID(ctx context.Context, userID, projectID string) (*model.Project, error) {
	project := &model.Project{}
	query := `SELECT * FROM projects WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, project, query, projectID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}

	project.Objectives, err = objectiveProjects.forOwner(ctx, r.db, objectiveProjects.b, objectiveProjects.a, project.ID)
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (r *projectRepository) Projects(ctx context.Context, userID string) ([]*model.Project, error) {
	projects := []*model.Project{}
	query := `SELECT * FROM projects WHERE user_id = $1 ORDER BY created_at ASC, id ASC`

	if err := r.db.SelectContext(ctx, &projects, query, userID); err != nil {
		return nil, err
	}

	links, err := objectiveProjects.forUser(ctx, r.db, objectiveProjects.b, objectiveProjects.a, userID)
	if err != nil {
		return nil, err
	}
	for _, project := range projects {
		project.Objectives = listOrEmpty(links, project.ID)
	}
	return projects, nil
}

func (r *projectRepository) Update(ctx context.Context, project *model.Project) error {
	query := `UPDATE projects
	          SET name = $1, status = $2, priority = $3, start_date = $4, due_date = $5,
	              is_public = $6, color = $7, updated_at = $8
	          WHERE id = $9 AND user_id = $10`

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, query,
			project.Name,
			project.Status,
			project.Priority,
			project.StartDate,
			project.DueDate,
			project.IsPublic,
			project.Color,
			project.UpdatedAt,
			project.ID,
			project.UserID,
		)
		if err != nil {
			return err
		}
		if err := requireAffected(result, ErrProjectNotFound); err != nil {
			return err
		}
		return objectiveProjects.replace(ctx, tx, objectiveProjects.b, objectiveProjects.a, project.ID, project.Objectives)
	})
}

func (r *projectRepository) Delete(ctx context.Context, userID, projectID string) error {
	query := `DELETE FROM projects WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, projectID, userID)
	if err != nil {
		return err
	}
	return requireAffected(result, ErrProjectNotFound)
}

func (r *projectRepository) ExistingIDs(ctx context.Context, userID string, ids []string) ([]string, error) {
	return existingIDs(ctx, r.db, "projects", userID, ids)
}
