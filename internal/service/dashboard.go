package service

import (
	"context"
	"slices"
	"time"

	"github.com/templui/lifeplan/internal/model"
	"github.com/templui/lifeplan/internal/progress"
	"github.com/templui/lifeplan/internal/repository"
	"golang.org/x/sync/errgroup"
)

const (
	dashboardWindow = 7 * 24 * time.Hour
	dashboardLimit  = 5
)

type DashboardService struct {
	progress   *ProgressService
	objectives repository.ObjectiveRepository
	projects   repository.ProjectRepository
	tasks      repository.TaskRepository
	habits     repository.HabitRepository
	notes      repository.NoteRepository
	events     repository.EventRepository
	structures repository.StructureRepository
}

func NewDashboardService(
	progress *ProgressService,
	objectives repository.ObjectiveRepository,
	projects repository.ProjectRepository,
	tasks repository.TaskRepository,
	habits repository.HabitRepository,
	notes repository.NoteRepository,
	events repository.EventRepository,
	structures repository.StructureRepository,
) *DashboardService {
	return &DashboardService{
		progress:   progress,
		objectives: objectives,
		projects:   projects,
		tasks:      tasks,
		habits:     habits,
		notes:      notes,
		events:     events,
		structures: structures,
	}
}

// Dashboard summarizes the caller's data as of now: counts, mean goal
// progress, open tasks due within a week, today's habit completions,
// pinned notes and events in the coming week.
func (s *DashboardService) Dashboard(ctx context.Context, userID string) (*model.Dashboard, error) {
	var (
		goals      []*model.GoalWithProgress
		objectives []*model.Objective
		projects   []*model.Project
		tasks      []*model.Task
		habits     []*model.Habit
		notes      []*model.Note
		events     []*model.Event
		structures []*model.Structure
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		goals, err = s.progress.GoalsWithProgress(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		objectives, err = s.objectives.Objectives(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		projects, err = s.projects.Projects(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		tasks, err = s.tasks.Tasks(gctx, userID, repository.TaskFilter{})
		return err
	})
	g.Go(func() (err error) {
		habits, err = s.habits.Habits(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		notes, err = s.notes.Notes(gctx, userID, repository.NoteFilter{})
		return err
	})
	g.Go(func() (err error) {
		events, err = s.events.Events(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		structures, err = s.structures.Structures(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	t := now()
	dashboard := &model.Dashboard{
		Counts: map[string]int{
			"goals":      len(goals),
			"objectives": len(objectives),
			"projects":   len(projects),
			"tasks":      len(tasks),
			"habits":     len(habits),
			"notes":      len(notes),
			"events":     len(events),
			"structures": len(structures),
		},
		TasksDueSoon:   tasksDueSoon(tasks, t),
		PinnedNotes:    pinnedNotes(notes),
		UpcomingEvents: upcomingEvents(events, t),
	}

	percents := make([]int, len(goals))
	for i, goal := range goals {
		percents[i] = goal.ProgressPercent
	}
	dashboard.GoalProgress = progress.Mean(percents)

	today := model.Day(t)
	for _, habit := range habits {
		if !habit.IsActive {
			continue
		}
		dashboard.HabitsActive++
		if habit.CompletedOn(today) {
			dashboard.HabitsDone++
		}
	}

	return dashboard, nil
}

// tasksDueSoon returns open tasks due from the start of today up to a week
// ahead, earliest first.
func tasksDueSoon(tasks []*model.Task, t time.Time) []*model.Task {
	from := t.Truncate(24 * time.Hour)
	to := t.Add(dashboardWindow)

	due := []*model.Task{}
	for _, task := range tasks {
		if task.IsCompleted() || task.DueDate == nil {
			continue
		}
		if task.DueDate.Before(from) || task.DueDate.After(to) {
			continue
		}
		due = append(due, task)
	}
	slices.SortStableFunc(due, func(a, b *model.Task) int {
		return a.DueDate.Compare(*b.DueDate)
	})
	return due
}

func pinnedNotes(notes []*model.Note) []*model.Note {
	pinned := []*model.Note{}
	for _, note := range notes {
		if note.IsPinned && len(pinned) < dashboardLimit {
			pinned = append(pinned, note)
		}
	}
	return pinned
}

func upcomingEvents(events []*model.Event, t time.Time) []*model.Event {
	upcoming := []*model.Event{}
	for _, event := range events {
		if event.Status == model.EventStatusCancelled || event.Status == model.StatusCompleted {
			continue
		}
		if event.Overlaps(t, t.Add(dashboardWindow)) {
			upcoming = append(upcoming, event)
		}
	}
	slices.SortStableFunc(upcoming, func(a, b *model.Event) int {
		return a.StartDate.Compare(b.StartDate)
	})
	if len(upcoming) > dashboardLimit {
		upcoming = upcoming[:dashboardLimit]
	}
	return upcoming
}
