package routes

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/templui/lifeplan/internal/app"
	"github.com/templui/lifeplan/internal/handler"
	"github.com/templui/lifeplan/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	auth := handler.NewAuthHandler(app.AuthService)
	progress := handler.NewProgressHandler(app.ProgressService)
	goal := handler.NewGoalHandler(app.GoalService)
	objective := handler.NewObjectiveHandler(app.ObjectiveService)
	project := handler.NewProjectHandler(app.ProjectService)
	task := handler.NewTaskHandler(app.TaskService)
	habit := handler.NewHabitHandler(app.HabitService)
	note := handler.NewNoteHandler(app.NoteService)
	event := handler.NewEventHandler(app.EventService)
	structure := handler.NewStructureHandler(app.StructureService)
	dashboard := handler.NewDashboardHandler(app.DashboardService)
	export := handler.NewExportHandler(app.ExportService)
	suggest := handler.NewSuggestHandler(app.SuggestionService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", health.Healthz)

	// Auth (rate limited per client IP)
	rateLimiter := middleware.RateLimitAuth(app.Cfg.AuthRateLimit, app.Cfg.AuthRateWindow)

	mux.HandleFunc("POST /auth/signup", rateLimiter(auth.Signup))
	mux.HandleFunc("POST /auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("GET /auth/me", middleware.RequireAuth(auth.Me))

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	// Goals
	mux.HandleFunc("GET /goals", middleware.RequireAuth(goal.List))
	mux.HandleFunc("GET /goals/with-objective-progress", middleware.RequireAuth(progress.Goals))
	mux.HandleFunc("GET /goals/with-project-progress", middleware.RequireAuth(progress.Goals))
	mux.HandleFunc("GET /goals/{id}", middleware.RequireAuth(goal.Get))
	mux.HandleFunc("POST /goals", middleware.RequireAuth(goal.Create))
	mux.HandleFunc("PUT /goals/{id}", middleware.RequireAuth(goal.Replace))
	mux.HandleFunc("PATCH /goals/{id}", middleware.RequireAuth(goal.Patch))
	mux.HandleFunc("DELETE /goals/{id}", middleware.RequireAuth(goal.Delete))

	// Objectives
	mux.HandleFunc("GET /objectives", middleware.RequireAuth(objective.List))
	mux.HandleFunc("GET /objectives/with-project-progress", middleware.RequireAuth(progress.Objectives))
	mux.HandleFunc("GET /objectives/{id}", middleware.RequireAuth(objective.Get))
	mux.HandleFunc("POST /objectives", middleware.RequireAuth(objective.Create))
	mux.HandleFunc("PUT /objectives/{id}", middleware.RequireAuth(objective.Replace))
	mux.HandleFunc("PATCH /objectives/{id}", middleware.RequireAuth(objective.Patch))
	mux.HandleFunc("DELETE /objectives/{id}", middleware.RequireAuth(objective.Delete))

	// Projects
	mux.HandleFunc("GET /projects", middleware.RequireAuth(project.List))
	mux.HandleFunc("GET /projects/with-task-progress", middleware.RequireAuth(progress.Projects))
	mux.HandleFunc("GET /projects/{id}", middleware.RequireAuth(project.Get))
	mux.HandleFunc("POST /projects", middleware.RequireAuth(project.Create))
	mux.HandleFunc("PUT /projects/{id}", middleware.RequireAuth(project.Replace))
	mux.HandleFunc("PATCH /projects/{id}", middleware.RequireAuth(project.Patch))
	mux.HandleFunc("DELETE /projects/{id}", middleware.RequireAuth(project.Delete))

	// Tasks
	mux.HandleFunc("GET /tasks", middleware.RequireAuth(task.List))
	mux.HandleFunc("GET /tasks/{id}", middleware.RequireAuth(task.Get))
	mux.HandleFunc("POST /tasks", middleware.RequireAuth(task.Create))
	mux.HandleFunc("PUT /tasks/{id}", middleware.RequireAuth(task.Replace))
	mux.HandleFunc("PATCH /tasks/{id}", middleware.RequireAuth(task.Patch))
	mux.HandleFunc("PUT /tasks/{id}/toggle", middleware.RequireAuth(task.Toggle))
	mux.HandleFunc("DELETE /tasks/{id}", middleware.RequireAuth(task.Delete))

	// Habits
	mux.HandleFunc("GET /habits", middleware.RequireAuth(habit.List))
	mux.HandleFunc("GET /habits/{id}", middleware.RequireAuth(habit.Get))
	mux.HandleFunc("POST /habits", middleware.RequireAuth(habit.Create))
	mux.HandleFunc("PUT /habits/{id}", middleware.RequireAuth(habit.Replace))
	mux.HandleFunc("PATCH /habits/{id}", middleware.RequireAuth(habit.Patch))
	mux.HandleFunc("POST /habits/{id}/complete", middleware.RequireAuth(habit.Complete))
	mux.HandleFunc("POST /habits/{id}/uncomplete", middleware.RequireAuth(habit.Uncomplete))
	mux.HandleFunc("DELETE /habits/{id}", middleware.RequireAuth(habit.Delete))

	// Notes
	mux.HandleFunc("GET /notes", middleware.RequireAuth(note.List))
	mux.HandleFunc("GET /notes/search", middleware.RequireAuth(note.Search))
	mux.HandleFunc("GET /notes/{id}", middleware.RequireAuth(note.Get))
	mux.HandleFunc("GET /notes/{id}/rendered", middleware.RequireAuth(note.Rendered))
	mux.HandleFunc("POST /notes", middleware.RequireAuth(note.Create))
	mux.HandleFunc("PUT /notes/{id}", middleware.RequireAuth(note.Replace))
	mux.HandleFunc("PATCH /notes/{id}", middleware.RequireAuth(note.Patch))
	mux.HandleFunc("PUT /notes/{id}/favorite", middleware.RequireAuth(note.ToggleFavorite))
	mux.HandleFunc("PUT /notes/{id}/pin", middleware.RequireAuth(note.TogglePinned))
	mux.HandleFunc("DELETE /notes/{id}", middleware.RequireAuth(note.Delete))

	// Events
	mux.HandleFunc("GET /events", middleware.RequireAuth(event.List))
	mux.HandleFunc("GET /events/{id}", middleware.RequireAuth(event.Get))
	mux.HandleFunc("POST /events", middleware.RequireAuth(event.Create))
	mux.HandleFunc("PUT /events/{id}", middleware.RequireAuth(event.Replace))
	mux.HandleFunc("PATCH /events/{id}", middleware.RequireAuth(event.Patch))
	mux.HandleFunc("DELETE /events/{id}", middleware.RequireAuth(event.Delete))

	// Structures
	mux.HandleFunc("GET /structures", middleware.RequireAuth(structure.List))
	mux.HandleFunc("GET /structures/{id}", middleware.RequireAuth(structure.Get))
	mux.HandleFunc("POST /structures", middleware.RequireAuth(structure.Create))
	mux.HandleFunc("PUT /structures/{id}", middleware.RequireAuth(structure.Replace))
	mux.HandleFunc("PATCH /structures/{id}", middleware.RequireAuth(structure.Patch))
	mux.HandleFunc("DELETE /structures/{id}", middleware.RequireAuth(structure.Delete))
	mux.HandleFunc("GET /structures/{id}/levels", middleware.RequireAuth(structure.Levels))
	mux.HandleFunc("PUT /structures/{id}/levels", middleware.RequireAuth(structure.UpdateLevels))

	// Dashboard, export and AI
	mux.HandleFunc("GET /dashboard", middleware.RequireAuth(dashboard.Dashboard))
	mux.HandleFunc("GET /export", middleware.RequireAuth(export.Download))
	mux.HandleFunc("POST /export/archive", middleware.RequireAuth(export.Archive))
	mux.HandleFunc("POST /ai/suggest-structure", middleware.RequireAuth(suggest.SuggestStructure))

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.RequestLogging,
		middleware.Config(app.Cfg), // error bodies read the environment from ctx
		middleware.AuthMiddleware(app.AuthService),
		middleware.Metrics, // innermost so the mux pattern is visible after ServeHTTP
	)

	return handler
}
