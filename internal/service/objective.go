package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/templui/lifeplan/internal/model"
	"github.com/templui/lifeplan/internal/repository"
	"github.com/templui/lifeplan/internal/validation"
)

type ObjectiveInput struct {
	Title    *string   `json:"title"`
	Status   *string   `json:"status"`
	Priority *string   `json:"priority"`
	Goals    *[]string `json:"goals"`
	Projects *[]string `json:"projects"`
}

func (in ObjectiveInput) apply(objective *model.Objective) {
	setTrimmed(&objective.Title, in.Title)
	set(&objective.Status, in.Status)
	set(&objective.Priority, in.Priority)
	setList(&objective.Goals, in.Goals)
	setList(&objective.Projects, in.Projects)
}

type ObjectiveService struct {
	repo        repository.ObjectiveRepository
	goalRepo    repository.GoalRepository
	projectRepo repository.ProjectRepository
	progress    *ProgressService
}

func NewObjectiveService(
	repo repository.ObjectiveRepository,
	goalRepo repository.GoalRepository,
	projectRepo repository.ProjectRepository,
	progress *ProgressService,
) *ObjectiveService {
	return &ObjectiveService{
		repo:        repo,
		goalRepo:    goalRepo,
		projectRepo: projectRepo,
		progress:    progress,
	}
}

func newObjective(userID string) *model.Objective {
	t := now()
	return &model.Objective{
		ID:        uuid.New().String(),
		UserID:    userID,
		Status:    model.StatusActive,
		Priority:  model.PriorityMedium,
		Goals:     []string{},
		Projects:  []string{},
		CreatedAt: t,
		UpdatedAt: t,
	}
}

func (s *ObjectiveService) validate(ctx context.Context, objective *model.Objective) error {
	errs := &validation.Errors{}
	errs.Check("title", validation.Required(objective.Title))
	errs.Check("title", validation.MaxLength(objective.Title, 200))
	errs.Check("status", validation.OneOf(objective.Status, model.PlanStatuses))
	errs.Check("priority", validation.OneOf(objective.Priority, model.Priorities))
	if err := checkRefs(ctx, errs, "goals", objective.UserID, objective.Goals, s.goalRepo.ExistingIDs); err != nil {
		return err
	}
	if err := checkRefs(ctx, errs, "projects", objective.UserID, objective.Projects, s.projectRepo.ExistingIDs); err != nil {
		return err
	}
	return errs.Err()
}

func (s *ObjectiveService) Objectives(ctx context.Context, userID string) ([]*model.ObjectiveWithProgress, error) {
	return s.progress.ObjectivesWithProgress(ctx, userID)
}

func (s *ObjectiveService) ByID(ctx context.Context, userID, objectiveID string) (*model.ObjectiveWithProgress, error) {
	objective, err := s.repo.ByID(ctx, userID, objectiveID)
	if err != nil {
		return nil, err
	}
	return s.progress.Objective(ctx, objective)
}

func (s *ObjectiveService) Create(ctx context.Context, userID string, in ObjectiveInput) (*model.ObjectiveWithProgress, error) {
	objective := newObjective(userID)
	in.apply(objective)
	if err := s.validate(ctx, objective); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, objective); err != nil {
		return nil, fmt.Errorf("failed to create objective: %w", err)
	}
	return s.progress.Objective(ctx, objective)
}

func (s *ObjectiveService) Replace(ctx context.Context, userID, objectiveID string, in ObjectiveInput) (*model.ObjectiveWithProgress, error) {
	existing, err := s.repo.ByID(ctx, userID, objectiveID)
	if err != nil {
		return nil, err
	}

	objective := newObjective(userID)
	objective.ID = existing.ID
	objective.CreatedAt = existing.CreatedAt
	in.apply(objective)
	return s.save(ctx, objective)
}

func (s *ObjectiveService) Patch(ctx context.Context, userID, objectiveID string, in ObjectiveInput) (*model.ObjectiveWithProgress, error) {
	objective, err := s.repo.ByID(ctx, userID, objectiveID)
	if err != nil {
		return nil, err
	}

	in.apply(objective)
	return s.save(ctx, objective)
}

func (s *ObjectiveService) save(ctx context.Context, objective *model.Objective) (*model.ObjectiveWithProgress, error) {
	if err := s.validate(ctx, objective); err != nil {
		return nil, err
	}

	objective.UpdatedAt = now()
	if err := s.repo.Update(ctx, objective); err != nil {
		return nil, fmt.Errorf("failed to update objective: %w", err)
	}
	return s.progress.Objective(ctx, objective)
}

func (s *ObjectiveService) Delete(ctx context.Context, userID, objectiveID string) error {
	return s.repo.Delete(ctx, userID, objectiveID)
}
