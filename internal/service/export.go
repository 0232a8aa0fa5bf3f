package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/templui/lifeplan/internal/model"
	"github.com/templui/lifeplan/internal/repository"
	"github.com/templui/lifeplan/internal/storage"
	"golang.org/x/sync/errgroup"
)

var ErrStorageDisabled = errors.New("export storage is not configured")

type ExportService struct {
	users         repository.UserRepository
	goals         repository.GoalRepository
	objectives    repository.ObjectiveRepository
	projects      repository.ProjectRepository
	tasks         repository.TaskRepository
	habits        repository.HabitRepository
	notes         repository.NoteRepository
	events        repository.EventRepository
	structures    repository.StructureRepository
	storage       storage.Storage
	presignExpiry time.Duration
}

type ExportRepositories struct {
	Users      repository.UserRepository
	Goals      repository.GoalRepository
	Objectives repository.ObjectiveRepository
	Projects   repository.ProjectRepository
	Tasks      repository.TaskRepository
	Habits     repository.HabitRepository
	Notes      repository.NoteRepository
	Events     repository.EventRepository
	Structures repository.StructureRepository
}

// NewExportService accepts a nil store; Archive then returns
// ErrStorageDisabled.
func NewExportService(repos ExportRepositories, store storage.Storage, presignExpiry time.Duration) *ExportService {
	return &ExportService{
		users:         repos.Users,
		goals:         repos.Goals,
		objectives:    repos.Objectives,
		projects:      repos.Projects,
		tasks:         repos.Tasks,
		habits:        repos.Habits,
		notes:         repos.Notes,
		events:        repos.Events,
		structures:    repos.Structures,
		storage:       store,
		presignExpiry: presignExpiry,
	}
}

func (s *ExportService) Export(ctx context.Context, userID string) (*model.Export, error) {
	export := &model.Export{ExportedAt: now()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		export.User, err = s.users.ByID(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		export.Goals, err = s.goals.Goals(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		export.Objectives, err = s.objectives.Objectives(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		export.Projects, err = s.projects.Projects(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		export.Tasks, err = s.tasks.Tasks(gctx, userID, repository.TaskFilter{})
		return err
	})
	g.Go(func() (err error) {
		export.Habits, err = s.habits.Habits(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		export.Notes, err = s.notes.Notes(gctx, userID, repository.NoteFilter{})
		return err
	})
	g.Go(func() (err error) {
		export.Events, err = s.events.Events(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		export.Structures, err = s.structures.Structures(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to collect export: %w", err)
	}
	return export, nil
}

// Archive uploads the export to exports/{userID}/{timestamp}.json and
// returns a presigned download link.
func (s *ExportService) Archive(ctx context.Context, userID string) (*model.ExportArchive, error) {
	if s.storage == nil {
		return nil, ErrStorageDisabled
	}

	export, err := s.Export(ctx, userID)
	if err != nil {
		return nil, err
	}

	body, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	key := fmt.Sprintf("exports/%s/%s.json", userID, export.ExportedAt.Format("20060102T150405Z"))
	if err := s.storage.Save(ctx, key, bytes.NewReader(body), "application/json"); err != nil {
		return nil, fmt.Errorf("failed to upload export: %w", err)
	}

	url, err := s.storage.PresignedURL(ctx, key, s.presignExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to presign export: %w", err)
	}

	slog.Info("export archived", "user_id", userID, "key", key, "bytes", len(body))
	return &model.ExportArchive{
		Key:       key,
		URL:       url,
		ExpiresAt: now().Add(s.presignExpiry),
	}, nil
}
