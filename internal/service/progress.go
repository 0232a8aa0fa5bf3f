package service

import (
	"context"

	"github.com/templui/lifeplan/internal/model"
	"github.com/templui/lifeplan/internal/progress"
	"github.com/templui/lifeplan/internal/repository"
	"golang.org/x/sync/errgroup"
)

// ProgressService attaches roll-up figures to goals, objectives and
// projects. It is the only place progress is computed.
type ProgressService struct {
	goals      repository.GoalRepository
	objectives repository.ObjectiveRepository
	projects   repository.ProjectRepository
	tasks      repository.TaskRepository
}

func NewProgressService(
	goals repository.GoalRepository,
	objectives repository.ObjectiveRepository,
	projects repository.ProjectRepository,
	tasks repository.TaskRepository,
) *ProgressService {
	return &ProgressService{
		goals:      goals,
		objectives: objectives,
		projects:   projects,
		tasks:      tasks,
	}
}

// hierarchy is one caller's objectives, projects and tasks indexed for
// roll-ups.
type hierarchy struct {
	objectives []*model.Objective
	projects   []*model.Project

	objectiveStatus   progress.Index
	objectiveProjects map[string][]string
	projectStatus     progress.Index
	tasksByProject    progress.Groups
}

func (s *ProgressService) load(ctx context.Context, userID string) (*hierarchy, error) {
	var (
		objectives []*model.Objective
		projects   []*model.Project
		tasks      []*model.Task
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		objectives, err = s.objectives.Objectives(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		projects, err = s.projects.Projects(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		tasks, err = s.tasks.Tasks(gctx, userID, repository.TaskFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	h := &hierarchy{
		objectives:        objectives,
		projects:          projects,
		objectiveStatus:   progress.Index{},
		objectiveProjects: make(map[string][]string, len(objectives)),
		projectStatus:     progress.Index{},
		tasksByProject:    progress.Groups{},
	}
	for _, o := range objectives {
		h.objectiveStatus.Add(o.ID, o.Status)
		h.objectiveProjects[o.ID] = o.Projects
	}
	for _, p := range projects {
		h.projectStatus.Add(p.ID, p.Status)
	}
	for _, t := range tasks {
		if t.ProjectID != nil {
			h.tasksByProject.Add(*t.ProjectID, t.Status)
		}
	}
	return h, nil
}

func (h *hierarchy) goal(goal *model.Goal) *model.GoalWithProgress {
	objectives := h.objectiveStatus.Tally(goal.Objectives)

	// Distinct projects reachable through the goal's resolved objectives
	var projects []string
	seen := make(map[string]bool)
	for _, objectiveID := range goal.Objectives {
		if _, ok := h.objectiveStatus[objectiveID]; !ok {
			continue
		}
		for _, projectID := range h.objectiveProjects[objectiveID] {
			if _, ok := h.projectStatus[projectID]; ok && !seen[projectID] {
				seen[projectID] = true
				projects = append(projects, projectID)
			}
		}
	}

	return &model.GoalWithProgress{
		Goal: goal,
		GoalProgress: model.GoalProgress{
			ObjectiveCount:      objectives.Total,
			CompletedObjectives: objectives.Completed,
			ProgressPercent:     objectives.Percent(),
			ProjectCount:        len(projects),
			ProjectProgress:     h.tasksByProject.MeanOf(projects, h.projectStatus),
		},
	}
}

func (h *hierarchy) objective(objective *model.Objective) *model.ObjectiveWithProgress {
	projects := h.projectStatus.Tally(objective.Projects)
	return &model.ObjectiveWithProgress{
		Objective: objective,
		ObjectiveProgress: model.ObjectiveProgress{
			ProjectCount:      projects.Total,
			CompletedProjects: projects.Completed,
			ProgressPercent:   projects.Percent(),
			TaskProgress:      h.tasksByProject.MeanOf(objective.Projects, h.projectStatus),
		},
	}
}

func (h *hierarchy) project(project *model.Project) *model.ProjectWithProgress {
	tasks := h.tasksByProject.Get(project.ID)
	return &model.ProjectWithProgress{
		Project: project,
		ProjectProgress: model.ProjectProgress{
			TaskCount:       tasks.Total,
			CompletedTasks:  tasks.Completed,
			ProgressPercent: tasks.Percent(),
		},
	}
}

// GoalsWithProgress returns every goal of the caller with its roll-ups.
func (s *ProgressService) GoalsWithProgress(ctx context.Context, userID string) ([]*model.GoalWithProgress, error) {
	var goals []*model.Goal
	var h *hierarchy

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		goals, err = s.goals.Goals(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		h, err = s.load(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]*model.GoalWithProgress, len(goals))
	for i, goal := range goals {
		out[i] = h.goal(goal)
	}
	return out, nil
}

func (s *ProgressService) ObjectivesWithProgress(ctx context.Context, userID string) ([]*model.ObjectiveWithProgress, error) {
	h, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*model.ObjectiveWithProgress, len(h.objectives))
	for i, objective := range h.objectives {
		out[i] = h.objective(objective)
	}
	return out, nil
}

func (s *ProgressService) ProjectsWithProgress(ctx context.Context, userID string) ([]*model.ProjectWithProgress, error) {
	h, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*model.ProjectWithProgress, len(h.projects))
	for i, project := range h.projects {
		out[i] = h.project(project)
	}
	return out, nil
}

func (s *ProgressService) Goal(ctx context.Context, goal *model.Goal) (*model.GoalWithProgress, error) {
	h, err := s.load(ctx, goal.UserID)
	if err != nil {
		return nil, err
	}
	return h.goal(goal), nil
}

func (s *ProgressService) Objective(ctx context.Context, objective *model.Objective) (*model.ObjectiveWithProgress, error) {
	h, err := s.load(ctx, objective.UserID)
	if err != nil {
		return nil, err
	}
	return h.objective(objective), nil
}

func (s *ProgressService) Project(ctx context.Context, project *model.Project) (*model.ProjectWithProgress, error) {
	h, err := s.load(ctx, project.UserID)
	if err != nil {
		return nil, err
	}
	return h.project(project), nil
}
