package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/templui/lifeplan/internal/model"
	"github.com/templui/lifeplan/internal/repository"
	"github.com/templui/lifeplan/internal/validation"
)

// TaskInput clears projectId/objectiveId when they are sent as "".
type TaskInput struct {
	Name        *string         `json:"name"`
	Status      *string         `json:"status"`
	Priority    *string         `json:"priority"`
	Type        *string         `json:"type"`
	ProjectID   *string         `json:"projectId"`
	ObjectiveID *string         `json:"objectiveId"`
	DueDate     *model.FlexTime `json:"dueDate"`
}

func (in TaskInput) apply(task *model.Task) {
	setTrimmed(&task.Name, in.Name)
	set(&task.Status, in.Status)
	set(&task.Priority, in.Priority)
	setTrimmed(&task.Type, in.Type)
	setRef(&task.ProjectID, in.ProjectID)
	setRef(&task.ObjectiveID, in.ObjectiveID)
	setDate(&task.DueDate, in.DueDate)
}

type TaskService struct {
	repo          repository.TaskRepository
	projectRepo   repository.ProjectRepository
	objectiveRepo repository.ObjectiveRepository
}

func NewTaskService(
	repo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	objectiveRepo repository.ObjectiveRepository,
) *TaskService {
	return &TaskService{
		repo:          repo,
		projectRepo:   projectRepo,
		objectiveRepo: objectiveRepo,
	}
}

func newTask(userID string) *model.Task {
	t := now()
	return &model.Task{
		ID:        uuid.New().String(),
		UserID:    userID,
		Status:    model.TaskStatusNotStarted,
		Priority:  model.PriorityMedium,
		Type:      model.DefaultTaskType,
		CreatedAt: t,
		UpdatedAt: t,
	}
}

func (s *TaskService) validate(ctx context.Context, task *model.Task) error {
	if task.Type == "" {
		task.Type = model.DefaultTaskType
	}

	errs := &validation.Errors{}
	errs.Check("name", validation.Required(task.Name))
	errs.Check("name", validation.MaxLength(task.Name, 200))
	errs.Check("status", validation.OneOf(task.Status, model.TaskStatuses))
	errs.Check("priority", validation.OneOf(task.Priority, model.Priorities))
	errs.Check("type", validation.MaxLength(task.Type, 50))
	if err := checkRef(ctx, errs, "projectId", task.UserID, task.ProjectID, s.projectRepo.ExistingIDs); err != nil {
		return err
	}
	if err := checkRef(ctx, errs, "objectiveId", task.UserID, task.ObjectiveID, s.objectiveRepo.ExistingIDs); err != nil {
		return err
	}
	return errs.Err()
}

func (s *TaskService) Tasks(ctx context.Context, userID string, filter repository.TaskFilter) ([]*model.Task, error) {
	if filter.Status != "" {
		if err := validation.OneOf(filter.Status, model.TaskStatuses); err != nil {
			return nil, validation.New("status", err.Error())
		}
	}
	return s.repo.Tasks(ctx, userID, filter)
}

func (s *TaskService) ByID(ctx context.Context, userID, taskID string) (*model.Task, error) {
	return s.repo.ByID(ctx, userID, taskID)
}

func (s *TaskService) Create(ctx context.Context, userID string, in TaskInput) (*model.Task, error) {
	task := newTask(userID)
	in.apply(task)
	if err := s.validate(ctx, task); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

func (s *TaskService) Replace(ctx context.Context, userID, taskID string, in TaskInput) (*model.Task, error) {
	existing, err := s.repo.ByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	task := newTask(userID)
	task.ID = existing.ID
	task.CreatedAt = existing.CreatedAt
	in.apply(task)
	return s.save(ctx, task)
}

func (s *TaskService) Patch(ctx context.Context, userID, taskID string, in TaskInput) (*model.Task, error) {
	task, err := s.repo.ByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	in.apply(task)
	return s.save(ctx, task)
}

// Toggle flips a task between Completed and Not Started.
func (s *TaskService) Toggle(ctx context.Context, userID, taskID string) (*model.Task, error) {
	task, err := s.repo.ByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if task.IsCompleted() {
		task.Status = model.TaskStatusNotStarted
	} else {
		task.Status = model.StatusCompleted
	}
	return s.save(ctx, task)
}

func (s *TaskService) save(ctx context.Context, task *model.Task) (*model.Task, error) {
	if err := s.validate(ctx, task); err != nil {
		return nil, err
	}

	task.UpdatedAt = now()
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, taskID string) error {
	return s.repo.Delete(ctx, userID, taskID)
}
