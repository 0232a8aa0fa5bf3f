package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/templui/lifeplan/internal/model"
	"github.com/templui/lifeplan/internal/repository"
	"github.com/templui/lifeplan/internal/validation"
)

type GoalInput struct {
	Name       *string   `json:"name"`
	Status     *string   `json:"status"`
	Category   *string   `json:"category"`
	Objectives *[]string `json:"objectives"`
}

func (in GoalInput) apply(goal *model.Goal) {
	setTrimmed(&goal.Name, in.Name)
	set(&goal.Status, in.Status)
	setTrimmed(&goal.Category, in.Category)
	setList(&goal.Objectives, in.Objectives)
}

type GoalService struct {
	repo          repository.GoalRepository
	objectiveRepo repository.ObjectiveRepository
	progress      *ProgressService
}

func NewGoalService(
	repo repository.GoalRepository,
	objectiveRepo repository.ObjectiveRepository,
	progress *ProgressService,
) *GoalService {
	return &GoalService{
		repo:          repo,
		objectiveRepo: objectiveRepo,
		progress:      progress,
	}
}

func newGoal(userID string) *model.Goal {
	t := now()
	return &model.Goal{
		ID:         uuid.New().String(),
		UserID:     userID,
		Status:     model.StatusActive,
		Objectives: []string{},
		CreatedAt:  t,
		UpdatedAt:  t,
	}
}

func (s *GoalService) validate(ctx context.Context, goal *model.Goal) error {
	errs := &validation.Errors{}
	errs.Check("name", validation.Required(goal.Name))
	errs.Check("name", validation.MaxLength(goal.Name, 200))
	errs.Check("status", validation.OneOf(goal.Status, model.PlanStatuses))
	errs.Check("category", validation.MaxLength(goal.Category, 100))
	if err := checkRefs(ctx, errs, "objectives", goal.UserID, goal.Objectives, s.objectiveRepo.ExistingIDs); err != nil {
		return err
	}
	return errs.Err()
}

func (s *GoalService) Goals(ctx context.Context, userID string) ([]*model.GoalWithProgress, error) {
	return s.progress.GoalsWithProgress(ctx, userID)
}

func (s *GoalService) ByID(ctx context.Context, userID, goalID string) (*model.GoalWithProgress, error) {
	goal, err := s.repo.ByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	return s.progress.Goal(ctx, goal)
}

func (s *GoalService) Create(ctx context.Context, userID string, in GoalInput) (*model.GoalWithProgress, error) {
	goal := newGoal(userID)
	in.apply(goal)
	if err := s.validate(ctx, goal); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}
	return s.progress.Goal(ctx, goal)
}

// Replace overwrites every field; omitted fields fall back to defaults.
func (s *GoalService) Replace(ctx context.Context, userID, goalID string, in GoalInput) (*model.GoalWithProgress, error) {
	existing, err := s.repo.ByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	goal := newGoal(userID)
	goal.ID = existing.ID
	goal.CreatedAt = existing.CreatedAt
	in.apply(goal)
	return s.save(ctx, goal)
}

// Patch merges the supplied fields into the stored goal.
func (s *GoalService) Patch(ctx context.Context, userID, goalID string, in GoalInput) (*model.GoalWithProgress, error) {
	goal, err := s.repo.ByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	in.apply(goal)
	return s.save(ctx, goal)
}

func (s *GoalService) save(ctx context.Context, goal *model.Goal) (*model.GoalWithProgress, error) {
	if err := s.validate(ctx, goal); err != nil {
		return nil, err
	}

	goal.UpdatedAt = now()
	if err := s.repo.Update(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}
	return s.progress.Goal(ctx, goal)
}

func (s *GoalService) Delete(ctx context.Context, userID, goalID string) error {
	return s.repo.Delete(ctx, userID, goalID)
}
