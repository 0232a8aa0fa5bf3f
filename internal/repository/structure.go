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
	ErrStructureNotFound = fmt.Errorf("structure %w", ErrNotFound)
)

type StructureRepository interface {
	Create(ctx context.Context, structure *model.Structure) error
	ByID(ctx context.Context, userID, structureID string) (*model.Structure, error)
	Structures(ctx context.Context, userID string) ([]*model.Structure, error)
	Update(ctx context.Context, structure *model.Structure) error
	Delete(ctx context.Context, userID, structureID string) error
}

type structureRepository struct {
	db *sqlx.DB
}

func NewStructureRepository(db *sqlx.DB) StructureRepository {
	return &structureRepository{db: db}
}

func (r *structureRepository) Create(ctx context.Context, structure *model.Structure) error {
	query := `INSERT INTO structures (id, user_id, name, levels, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		structure.ID,
		structure.UserID,
		structure.Name,
		structure.Levels,
		structure.CreatedAt,
		structure.UpdatedAt,
	)
	return err
}

func (r *structureRepository) ByID(ctx context.Context, userID, structureID string) (*model.Structure, error) {
	structure := &model.Structure{}
	query := `SELECT * FROM structures WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, structure, query, structureID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStructureNotFound
	}
	if err != nil {
		return nil, err
	}
	return structure, nil
}

func (r *structureRepository) Structures(ctx context.Context, userID string) ([]*model.Structure, error) {
	structures := []*model.Structure{}
	query := `SELECT * FROM structures WHERE user_id = $1 ORDER BY created_at ASC, id ASC`
	if err := r.db.SelectContext(ctx, &structures, query, userID); err != nil {
		return nil, err
	}
	return structures, nil
}

func (r *structureRepository) Update(ctx context.Context, structure *model.Structure) error {
	query := `UPDATE structures SET name = $1, levels = $2, updated_at = $3 WHERE id = $4 AND user_id = $5`

	result, err := r.db.ExecContext(ctx, query,
		structure.Name,
		structure.Levels,
		structure.UpdatedAt,
		structure.ID,
		structure.UserID,
	)
	if err != nil {
		return err
	}
	return requireAffected(result, ErrStructureNotFound)
}

func (r *structureRepository) Delete(ctx context.Context, userID, structureID string) error {
	query := `DELETE FROM structures WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, structureID, userID)
	if err != nil {
		return err
	}
	return requireAffected(result, ErrStructureNotFound)
}
