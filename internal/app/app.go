package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/templui/lifeplan/internal/cache"
	"github.com/templui/lifeplan/internal/config"
	"github.com/templui/lifeplan/internal/db"
	"github.com/templui/lifeplan/internal/markdown"
	"github.com/templui/lifeplan/internal/repository"
	"github.com/templui/lifeplan/internal/service"
	"github.com/templui/lifeplan/internal/storage"
	"github.com/templui/lifeplan/internal/suggest"
)

type App struct {
	Cfg   *config.Config
	DB    *sqlx.DB
	Redis *redis.Client

	AuthService       *service.AuthService
	UserService       *service.UserService
	EmailService      *service.EmailService
	ProgressService   *service.ProgressService
	GoalService       *service.GoalService
	ObjectiveService  *service.ObjectiveService
	ProjectService    *service.ProjectService
	TaskService       *service.TaskService
	HabitService      *service.HabitService
	NoteService       *service.NoteService
	EventService      *service.EventService
	StructureService  *service.StructureService
	DashboardService  *service.DashboardService
	ExportService     *service.ExportService
	SuggestionService *service.SuggestionService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	a := &App{Cfg: cfg, DB: database}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	objectiveRepository := repository.NewObjectiveRepository(database)
	projectRepository := repository.NewProjectRepository(database)
	taskRepository := repository.NewTaskRepository(database)
	habitRepository := repository.NewHabitRepository(database)
	noteRepository := repository.NewNoteRepository(database)
	eventRepository := repository.NewEventRepository(database)
	structureRepository := repository.NewStructureRepository(database)

	// Storage (nil when S3_BUCKET is unset)
	exportStorage, err := storage.New(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Cache (optional)
	var suggestionCache *cache.Cache
	if cfg.RedisURL != "" {
		client, err := cache.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.Redis = client
		suggestionCache = cache.New(client, "lifeplan:suggest:", cfg.SuggestionCacheTTL)
	}

	// AI client (optional, suggestions fall back to local templates)
	var suggester service.Suggester
	if cfg.AIAPIKey != "" {
		client, err := suggest.NewClient(suggest.Config{
			APIKey:  cfg.AIAPIKey,
			BaseURL: cfg.AIBaseURL,
			Model:   cfg.AIModel,
			Timeout: cfg.AITimeout,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize ai client: %w", err)
		}
		suggester = client
	} else {
		slog.Info("AI_API_KEY not set, structure suggestions use local templates")
	}

	// Services
	a.EmailService = service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	a.AuthService = service.NewAuthService(userRepository, a.EmailService, cfg.JWTSecret, cfg.JWTExpiry)
	a.UserService = service.NewUserService(userRepository, a.AuthService, a.EmailService)

	a.ProgressService = service.NewProgressService(goalRepository, objectiveRepository, projectRepository, taskRepository)
	a.GoalService = service.NewGoalService(goalRepository, objectiveRepository, a.ProgressService)
	a.ObjectiveService = service.NewObjectiveService(objectiveRepository, goalRepository, projectRepository, a.ProgressService)
	a.ProjectService = service.NewProjectService(projectRepository, objectiveRepository, a.ProgressService)
	a.TaskService = service.NewTaskService(taskRepository, projectRepository, objectiveRepository)
	a.HabitService = service.NewHabitService(habitRepository)
	a.NoteService = service.NewNoteService(noteRepository, markdown.NewParser())
	a.EventService = service.NewEventService(eventRepository)
	a.StructureService = service.NewStructureService(structureRepository)
	a.DashboardService = service.NewDashboardService(
		a.ProgressService,
		objectiveRepository,
		projectRepository,
		taskRepository,
		habitRepository,
		noteRepository,
		eventRepository,
		structureRepository,
	)
	a.ExportService = service.NewExportService(service.ExportRepositories{
		Users:      userRepository,
		Goals:      goalRepository,
		Objectives: objectiveRepository,
		Projects:   projectRepository,
		Tasks:      taskRepository,
		Habits:     habitRepository,
		Notes:      noteRepository,
		Events:     eventRepository,
		Structures: structureRepository,
	}, exportStorage, cfg.S3PresignExpiry)
	a.SuggestionService = service.NewSuggestionService(suggester, suggestionCache)

	return a, nil
}

func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, db.Close(a.DB))
	}
	return errors.Join(errs...)
}
