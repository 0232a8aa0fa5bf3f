package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/templui/lifeplan/internal/model"
	"github.com/templui/lifeplan/internal/repository"
	"github.com/templui/lifeplan/internal/validation"
)

type ProjectInput struct {
	Name       *string         `json:"name"`
	Status     *string         `json:"status"`
	Priority   *string         `json:"priority"`
	Objectives *[]string       `json:"objectives"`
	StartDate  *model.FlexTime `json:"startDate"`
	DueDate    *model.FlexTime `json:"dueDate"`
	IsPublic   *bool           `json:"isPublic"`
	Color      *string         `json:"color"`
}

func (in ProjectInput) apply(project *model.Project) {
	setTrimmed(&project.Name, in.Name)
	set(&project.Status, in.Status)
	set(&project.Priority, in.Priority)
	setList(&project.Objectives, in.Objectives)
	setDate(&project.StartDate, in.StartDate)
	setDate(&project.DueDate, in.DueDate)
	set(&project.IsPublic, in.IsPublic)
	setTrimmed(&project.Color, in.Color)
}

type ProjectService struct {
	repo          repository.ProjectRepository
	objectiveRepo repository.ObjectiveRepository
	progress      *ProgressService
}

func NewProjectService(
	repo repository.ProjectRepository,
	objectiveRepo repository.ObjectiveRepository,
	progress *ProgressService,
) *ProjectService {
	return &ProjectService{
		repo:          repo,
		objectiveRepo: objectiveRepo,
		progress:      progress,
	}
}

func newProject(userID string) *model.Project {
	t := now()
	return &model.Project{
		ID:         uuid.New().String(),
		UserID:     userID,
		Status:     model.StatusActive,
		Priority:   model.PriorityMedium,
		Color:      model.DefaultColor,
		Objectives: []string{},
		CreatedAt:  t,
		UpdatedAt:  t,
	}
}

func (s *ProjectService) validate(ctx context.Context, project *model.Project) error {
	errs := &validation.Errors{}
	errs.Check("name", validation.Required(project.Name))
	errs.Check("name", validation.MaxLength(project.Name, 200))
	errs.Check("status", validation.OneOf(project.Status, model.PlanStatuses))
	errs.Check("priority", validation.OneOf(project.Priority, model.Priorities))
	errs.Check("color", validation.Color(project.Color))
	if project.StartDate != nil && project.DueDate != nil && project.DueDate.Before(*project.StartDate) {
		errs.Add("dueDate", "must not be before startDate")
	}
	if err := checkRefs(ctx, errs, "objectives", project.UserID, project.Objectives, s.objectiveRepo.ExistingIDs); err != nil {
		return err
	}
	return errs.Err()
}

func (s *ProjectService) Projects(ctx context.Context, userID string) ([]*model.ProjectWithProgress, error) {
	return s.progress.ProjectsWithProgress(ctx, userID)
}

func (s *ProjectService) ByID(ctx context.Context, userID, projectID string) (*model.ProjectWithProgress, error) {
	project, err := s.repo.ByID(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	return s.progress.Project(ctx, project)
}

func (s *ProjectService) Create(ctx context.Context, userID string, in ProjectInput) (*model.ProjectWithProgress, error) {
	project := newProject(userID)
	in.apply(project)
	if err := s.validate(ctx, project); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return s.progress.Project(ctx, project)
}

func (s *ProjectService) Replace(ctx context.Context, userID, projectID string, in ProjectInput) (*model.ProjectWithProgress, error) {
	existing, err := s.repo.ByID(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	project := newProject(userID)
	project.ID = existing.ID
	project.CreatedAt = existing.CreatedAt
	in.apply(project)
	return s.save(ctx, project)
}

func (s *ProjectService) Patch(ctx context.Context, userID, projectID string, in ProjectInput) (*model.ProjectWithProgress, error) {
	project, err := s.repo.ByID(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	in.apply(project)
	return s.save(ctx, project)
}

func (s *ProjectService) save(ctx context.Context, project *model.Project) (*model.ProjectWithProgress, error) {
	if err := s.validate(ctx, project); err != nil {
		return nil, err
	}

	project.UpdatedAt = now()
	if err := s.repo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return s.progress.Project(ctx, project)
}

func (s *ProjectService) Delete(ctx context.Context, userID, projectID string) error {
	return s.repo.Delete(ctx, userID, projectID)
}
