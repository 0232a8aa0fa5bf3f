package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/templui/lifeplan/internal/model"
	"github.com/templui/lifeplan/internal/repository"
	"github.com/templui/lifeplan/internal/validation"
)

const maxStructureLevels = 10

type StructureInput struct {
	Name   *string   `json:"name"`
	Levels *[]string `json:"levels"`
}

// Levels are trimmed but not deduplicated: two levels may share a label.
func (in StructureInput) apply(structure *model.Structure) {
	setTrimmed(&structure.Name, in.Name)
	if in.Levels != nil {
		structure.Levels = trimLevels(*in.Levels)
	}
}

func trimLevels(levels []string) model.StringList {
	out := make(model.StringList, len(levels))
	for i, level := range levels {
		out[i] = strings.TrimSpace(level)
	}
	return out
}

type StructureService struct {
	repo repository.StructureRepository
}

func NewStructureService(repo repository.StructureRepository) *StructureService {
	return &StructureService{repo: repo}
}

func newStructure(userID string) *model.Structure {
	t := now()
	return &model.Structure{
		ID:        uuid.New().String(),
		UserID:    userID,
		Levels:    append(model.StringList{}, model.DefaultLevels...),
		CreatedAt: t,
		UpdatedAt: t,
	}
}

func validateLevels(errs *validation.Errors, levels []string) {
	if len(levels) < 1 || len(levels) > maxStructureLevels {
		errs.Add("levels", fmt.Sprintf("must have between 1 and %d entries", maxStructureLevels))
	}
	for i, level := range levels {
		if level == "" {
			errs.Add(fmt.Sprintf("levels[%d]", i), "is required")
		} else if err := validation.MaxLength(level, 50); err != nil {
			errs.Add(fmt.Sprintf("levels[%d]", i), err.Error())
		}
	}
}

func (s *StructureService) validate(structure *model.Structure) error {
	errs := &validation.Errors{}
	errs.Check("name", validation.Required(structure.Name))
	errs.Check("name", validation.MaxLength(structure.Name, 200))
	validateLevels(errs, structure.Levels)
	return errs.Err()
}

func (s *StructureService) Structures(ctx context.Context, userID string) ([]*model.Structure, error) {
	return s.repo.Structures(ctx, userID)
}

func (s *StructureService) ByID(ctx context.Context, userID, structureID string) (*model.Structure, error) {
	return s.repo.ByID(ctx, userID, structureID)
}

func (s *StructureService) Create(ctx context.Context, userID string, in StructureInput) (*model.Structure, error) {
	structure := newStructure(userID)
	in.apply(structure)
	if err := s.validate(structure); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, structure); err != nil {
		return nil, fmt.Errorf("failed to create structure: %w", err)
	}
	return structure, nil
}

func (s *StructureService) Replace(ctx context.Context, userID, structureID string, in StructureInput) (*model.Structure, error) {
	existing, err := s.repo.ByID(ctx, userID, structureID)
	if err != nil {
		return nil, err
	}

	structure := newStructure(userID)
	structure.ID = existing.ID
	structure.CreatedAt = existing.CreatedAt
	in.apply(structure)
	return s.save(ctx, structure)
}

func (s *StructureService) Patch(ctx context.Context, userID, structureID string, in StructureInput) (*model.Structure, error) {
	structure, err := s.repo.ByID(ctx, userID, structureID)
	if err != nil {
		return nil, err
	}

	in.apply(structure)
	return s.save(ctx, structure)
}

func (s *StructureService) Levels(ctx context.Context, userID, structureID string) ([]string, error) {
	structure, err := s.repo.ByID(ctx, userID, structureID)
	if err != nil {
		return nil, err
	}
	return structure.Levels, nil
}

func (s *StructureService) UpdateLevels(ctx context.Context, userID, structureID string, levels []string) (*model.Structure, error) {
	structure, err := s.repo.ByID(ctx, userID, structureID)
	if err != nil {
		return nil, err
	}

	structure.Levels = trimLevels(levels)
	return s.save(ctx, structure)
}

func (s *StructureService) save(ctx context.Context, structure *model.Structure) (*model.Structure, error) {
	if err := s.validate(structure); err != nil {
		return nil, err
	}

	structure.UpdatedAt = now()
	if err := s.repo.Update(ctx, structure); err != nil {
		return nil, fmt.Errorf("failed to update structure: %w", err)
	}
	return structure, nil
}

func (s *StructureService) Delete(ctx context.Context, userID, structureID string) error {
	return s.repo.Delete(ctx, userID, structureID)
}
