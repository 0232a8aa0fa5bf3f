package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/lifeplan/internal/db"
	"github.com/templui/lifeplan/internal/markdown"
	"github.com/templui/lifeplan/internal/model"
	"github.com/templui/lifeplan/internal/repository"
	"github.com/templui/lifeplan/internal/suggest"
	"github.com/templui/lifeplan/internal/validation"
)

type services struct {
	users      repository.UserRepository
	auth       *AuthService
	user       *UserService
	progress   *ProgressService
	goals      *GoalService
	objectives *ObjectiveService
	projects   *ProjectService
	tasks      *TaskService
	habits     *HabitService
	notes      *NoteService
	events     *EventService
	structures *StructureService
	dashboard  *DashboardService
	export     *ExportService
}

func setup(t *testing.T, store *memStorage) *services {
	t.Helper()
	conn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)"
	database, err := db.Init("sqlite", conn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(database) })
	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	users := repository.NewUserRepository(database)
	goals := repository.NewGoalRepository(database)
	objectives := repository.NewObjectiveRepository(database)
	projects := repository.NewProjectRepository(database)
	tasks := repository.NewTaskRepository(database)
	habits := repository.NewHabitRepository(database)
	notes := repository.NewNoteRepository(database)
	events := repository.NewEventRepository(database)
	structures := repository.NewStructureRepository(database)

	email := NewEmailService("", "noreply@example.com", "http://localhost", "Lifeplan", true)
	auth := NewAuthService(users, email, "test-secret", time.Hour)
	progress := NewProgressService(goals, objectives, projects, tasks)

	s := &services{
		users:      users,
		auth:       auth,
		user:       NewUserService(users, auth, email),
		progress:   progress,
		goals:      NewGoalService(goals, objectives, progress),
		objectives: NewObjectiveService(objectives, goals, projects, progress),
		projects:   NewProjectService(projects, objectives, progress),
		tasks:      NewTaskService(tasks, projects, objectives),
		habits:     NewHabitService(habits),
		notes:      NewNoteService(notes, markdown.NewParser()),
		events:     NewEventService(events),
		structures: NewStructureService(structures),
		dashboard:  NewDashboardService(progress, objectives, projects, tasks, habits, notes, events, structures),
	}

	repos := ExportRepositories{
		Users: users, Goals: goals, Objectives: objectives, Projects: projects, Tasks: tasks,
		Habits: habits, Notes: notes, Events: events, Structures: structures,
	}
	if store != nil {
		s.export = NewExportService(repos, store, time.Hour)
	} else {
		s.export = NewExportService(repos, nil, time.Hour)
	}
	return s
}

func (s *services) signup(t *testing.T, email string) *model.User {
	t.Helper()
	session, err := s.auth.Signup(context.Background(), SignupInput{Name: "Test", Email: email, Password: "correct-horse-battery"})
	require.NoError(t, err)
	return session.User
}

func ptr[T any](v T) *T {
	return &v
}

func requireFieldError(t *testing.T, err error, field string) {
	t.Helper()
	var verr *validation.Errors
	require.ErrorAs(t, err, &verr)
	for _, f := range verr.Fields {
		if f.Field == field {
			return
		}
	}
	t.Fatalf("no error for field %q in %v", field, verr.Fields)
}

type memStorage struct {
	objects map[string][]byte
}

func (m *memStorage) Save(_ context.Context, key string, body io.Reader, _ string) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.objects[key] = b
	return nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memStorage) PresignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://storage.test/" + key + "?sig=1", nil
}

type suggesterFunc func(ctx context.Context, description string) (suggest.Suggestion, error)

func (f suggesterFunc) Suggest(ctx context.Context, description string) (suggest.Suggestion, error) {
	return f(ctx, description)
}

func TestGoalService_OwnershipAndDefaults(t *testing.T) {
	s := setup(t, nil)
	ctx := context.Background()
	alice := s.signup(t, "alice@example.com")
	bob := s.signup(t, "bob@example.com")

	goal, err := s.goals.Create(ctx, alice.ID, GoalInput{Name: ptr("  Run a marathon  ")})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, goal.UserID)
	assert.Equal(t, "Run a marathon", goal.Name)
	assert.Equal(t, model.StatusActive, goal.Status)
	assert.Empty(t, goal.Objectives)

	_, err = s.goals.ByID(ctx, bob.ID, goal.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = s.goals.Patch(ctx, bob.ID, goal.ID, GoalInput{Name: ptr("stolen")})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, s.goals.Delete(ctx, bob.ID, goal.ID), repository.ErrNotFound)

	bobGoals, err := s.goals.Goals(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, bobGoals)
}

func TestGoalService_Validation(t *testing.T) {
	s := setup(t, nil)
	ctx := context.Background()
	alice := s.signup(t, "alice@example.com")
	bob := s.signup(t, "bob@example.com")

	bobObjective, err := s.objectives.Create(ctx, bob.ID, ObjectiveInput{Title: ptr("Bob's")})
	require.NoError(t, err)

	tests := []struct {
		name  string
		input GoalInput
		field string
	}{
		{"missing name", GoalInput{}, "name"},
		{"blank name", GoalInput{Name: ptr("   ")}, "name"},
		{"bad status", GoalInput{Name: ptr("G"), Status: ptr("Achieved")}, "status"},
		{"unknown objective", GoalInput{Name: ptr("G"), Objectives: &[]string{"nope"}}, "objectives"},
		{"foreign objective", GoalInput{Name: ptr("G"), Objectives: &[]string{bobObjective.ID}}, "objectives"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.goals.Create(ctx, alice.ID, tt.input)
			requireFieldError(t, err, tt.field)
		})
	}
}

func TestGoalService_ReplaceAndPatch(t *testing.T) {
	s := setup(t, nil)
	ctx := context.Background()
	alice := s.signup(t, "alice@example.com")

	goal, err := s.goals.Create(ctx, alice.ID, GoalInput{Name: ptr("G"), Category: ptr("Health"), Status: ptr(model.StatusNext)})
	require.NoError(t, err)

	patched, err := s.goals.Patch(ctx, alice.ID, goal.ID, GoalInput{Name: ptr("G2")})
	require.NoError(t, err)
	assert.Equal(t, "G2", patched.Name)
	assert.Equal(t, "Health", patched.Category)
	assert.Equal(t, model.StatusNext, patched.Status)

	replaced, err := s.goals.Replace(ctx, alice.ID, goal.ID, GoalInput{Name: ptr("G3")})
	require.NoError(t, err)
	assert.Equal(t, "G3", replaced.Name)
	assert.Empty(t, replaced.Category)
	assert.Equal(t, model.StatusActive, replaced.Status)
	assert.True(t, replaced.CreatedAt.Equal(goal.CreatedAt))
}

func TestProgress_Hierarchy(t *testing.T) {
	s := setup(t, nil)
	ctx := context.Background()
	alice := s.signup(t, "alice@example.com")

	o1, err := s.objectives.Create(ctx, alice.ID, ObjectiveInput{Title: ptr("O1"), Status: ptr(model.StatusCompleted)})
	require.NoError(t, err)
	o2, err := s.objectives.Create(ctx, alice.ID, ObjectiveInput{Title: ptr("O2")})
	require.NoError(t, err)

	p1, err := s.projects.Create(ctx, alice.ID, ProjectInput{Name: ptr("P1"), Status: ptr(model.StatusCompleted), Objectives: &[]string{o1.ID}})
	require.NoError(t, err)
	p2, err := s.projects.Create(ctx, alice.ID, ProjectInput{Name: ptr("P2"), Objectives: &[]string{o1.ID, o2.ID}})
	require.NoError(t, err)

	for _, in := range []TaskInput{
		{Name: ptr("t1"), ProjectID: ptr(p1.ID), Status: ptr(model.StatusCompleted)},
		{Name: ptr("t2"), ProjectID: ptr(p1.ID)},
		{Name: ptr("t3"), ProjectID: ptr(p2.ID), Status: ptr(model.StatusCompleted)},
	} {
		_, err := s.tasks.Create(ctx, alice.ID, in)
		require.NoError(t, err)
	}

	goal, err := s.goals.Create(ctx, alice.ID, GoalInput{Name: ptr("G"), Objectives: &[]string{o1.ID, o2.ID}})
	require.NoError(t, err)
	assert.Equal(t, model.GoalProgress{
		ObjectiveCount:      2,
		CompletedObjectives: 1,
		ProgressPercent:     50,
		ProjectCount:        2,
		ProjectProgress:     75,
	}, goal.GoalProgress)

	objectives, err := s.progress.ObjectivesWithProgress(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, objectives, 2)
	assert.Equal(t, model.ObjectiveProgress{ProjectCount: 2, CompletedProjects: 1, ProgressPercent: 50, TaskProgress: 75}, objectives[0].ObjectiveProgress)
	assert.Equal(t, model.ObjectiveProgress{ProjectCount: 1, CompletedProjects: 0, ProgressPercent: 0, TaskProgress: 100}, objectives[1].ObjectiveProgress)
	assert.Equal(t, []string{goal.ID}, objectives[1].Goals)

	project, err := s.projects.ByID(ctx, alice.ID, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ProjectProgress{TaskCount: 2, CompletedTasks: 1, ProgressPercent: 50}, project.ProjectProgress)

	// Deleting a project removes it from every roll-up.
	require.NoError(t, s.projects.Delete(ctx, alice.ID, p1.ID))
	after, err := s.goals.ByID(ctx, alice.ID, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, after.ProjectCount)
	assert.Equal(t, 100, after.ProjectProgress)
}

func TestObjectiveService_LinksAreSymmetric(t *testing.T) {
	s := setup(t, nil)
	ctx := context.Background()
	alice := s.signup(t, "alice@example.com")

	goal, err := s.goals.Create(ctx, alice.ID, GoalInput{Name: ptr("G")})
	require.NoError(t, err)
	project, err := s.projects.Create(ctx, alice.ID, ProjectInput{Name: ptr("P")})
	require.NoError(t, err)

	objective, err := s.objectives.Create(ctx, alice.ID, ObjectiveInput{
		Title:    ptr("O"),
		Goals:    &[]string{goal.ID},
		Projects: &[]string{project.ID},
	})
	require.NoError(t, err)

	reloadedGoal, err := s.goals.ByID(ctx, alice.ID, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{objective.ID}, reloadedGoal.Objectives)

	reloadedProject, err := s.projects.ByID(ctx, alice.ID, project.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{objective.ID}, reloadedProject.Objectives)

	_, err = s.objectives.Patch(ctx, alice.ID, objective.ID, ObjectiveInput{Status: ptr("Revised")})
	requireFieldError(t, err, "status")
}

func TestProjectService_DateOrder(t *testing.T) {
	s := setup(t, nil)
	ctx := context.Background()
	alice := s.signup(t, "alice@example.com")

	start := model.FlexTime{Time: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)}
	due := model.FlexTime{Time: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)}
	_, err := s.projects.Create(ctx, alice.ID, ProjectInput{Name: ptr("P"), StartDate: &start, DueDate: &due})
	requireFieldError(t, err, "dueDate")

	_, err = s.projects.Create(ctx, alice.ID, ProjectInput{Name: ptr("P"), Color: ptr("blue")})
	requireFieldError(t, err, "color")
}

func TestTaskService_ToggleAndRefs(t *testing.T) {
	s := setup(t, nil)
	ctx := context.Background()
	alice := s.signup(t, "alice@example.com")

	_, err := s.tasks.Create(ctx, alice.ID, TaskInput{Name: ptr("T"), ProjectID: ptr("missing")})
	requireFieldError(t, err, "projectId")

	project, err := s.projects.Create(ctx, alice.ID, ProjectInput{Name: ptr("P")})
	require.NoError(t, err)

	task, err := s.tasks.Create(ctx, alice.ID, TaskInput{Name: ptr("T"), ProjectID: ptr(project.ID)})
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusNotStarted, task.Status)
	assert.Equal(t, model.DefaultTaskType, task.Type)

	toggled, err := s.tasks.Toggle(ctx, alice.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, toggled.Status)

	toggled, err = s.tasks.Toggle(ctx, alice.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusNotStarted, toggled.Status)

	cleared, err := s.tasks.Patch(ctx, alice.ID, task.ID, TaskInput{ProjectID: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, cleared.ProjectID)

	_, err = s.tasks.Tasks(ctx, alice.ID, repository.TaskFilter{Status: "Done"})
	requireFieldError(t, err, "status")
}

func TestHabitService_Streaks(t *testing.T) {
	s := setup(t, nil)
	ctx := context.Background()
	alice := s.signup(t, "alice@example.com")

	habit, err := s.habits.Create(ctx, alice.ID, HabitInput{Name: ptr("Read")})
	require.NoError(t, err)
	assert.Equal(t, model.FrequencyDaily, habit.Frequency)
	assert.Equal(t, model.DefaultCategory, habit.Category)
	assert.True(t, habit.IsActive)

	for _, day := range []string{"2025-01-03", "2025-01-01", "2025-01-02"} {
		habit, err = s.habits.Complete(ctx, alice.ID, habit.ID, day)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"2025-01-01", "2025-01-02", "2025-01-03"}, habit.CompletedDates)
	assert.Equal(t, 3, habit.CurrentStreak)
	assert.Equal(t, 3, habit.LongestStreak)

	again, err := s.habits.Complete(ctx, alice.ID, habit.ID, "2025-01-03")
	require.NoError(t, err)
	assert.Equal(t, habit.CompletedDates, again.CompletedDates)

	habit, err = s.habits.Uncomplete(ctx, alice.ID, habit.ID, "2025-01-02")
	require.NoError(t, err)
	assert.Equal(t, 1, habit.CurrentStreak)
	assert.Equal(t, 3, habit.LongestStreak, "longest streak never decreases")

	reloaded, err := s.habits.ByID(ctx, alice.ID, habit.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.LongestStreak)
	assert.Equal(t, []string{"2025-01-01", "2025-01-03"}, reloaded.CompletedDates)

	_, err = s.habits.Complete(ctx, alice.ID, habit.ID, "yesterday")
	requireFieldError(t, err, "date")

	_, err = s.habits.Patch(ctx, alice.ID, habit.ID, HabitInput{CompletedDates: &[]string{"2025-13-01"}})
	requireFieldError(t, err, "completedDates")
}

func TestNoteService_SearchAndToggles(t *testing.T) {
	s := setup(t, nil)
	ctx := context.Background()
	alice := s.signup(t, "alice@example.com")
	bob := s.signup(t, "bob@example.com")

	n1, err := s.notes.Create(ctx, alice.ID, NoteInput{Title: ptr("Café plans"), Content: ptr("visit on friday")})
	require.NoError(t, err)
	assert.Equal(t, "Personal", n1.Category)
	assert.Equal(t, model.DefaultNoteColor, n1.Color)

	n2, err := s.notes.Create(ctx, alice.ID, NoteInput{Title: ptr("Groceries"), Tags: &[]string{" Shopping ", "", "shopping"}})
	require.NoError(t, err)
	assert.Equal(t, model.StringList{"Shopping", "shopping"}, n2.Tags)

	_, err = s.notes.Create(ctx, bob.ID, NoteInput{Title: ptr("CAFÉ secret")})
	require.NoError(t, err)

	found, err := s.notes.Search(ctx, alice.ID, "CAFÉ")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, n1.ID, found[0].ID)

	found, err = s.notes.Search(ctx, alice.ID, "SHOP")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, n2.ID, found[0].ID)

	found, err = s.notes.Search(ctx, alice.ID, "FRIDAY")
	require.NoError(t, err)
	require.Len(t, found, 1)

	_, err = s.notes.Search(ctx, alice.ID, "  ")
	requireFieldError(t, err, "query")

	fav, err := s.notes.ToggleFavorite(ctx, alice.ID, n2.ID)
	require.NoError(t, err)
	assert.True(t, fav.IsFavorite)

	pinned, err := s.notes.TogglePinned(ctx, alice.ID, n2.ID)
	require.NoError(t, err)
	assert.True(t, pinned.IsPinned)

	favorites, err := s.notes.Notes(ctx, alice.ID, repository.NoteFilter{Favorite: ptr(true)})
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, n2.ID, favorites[0].ID)

	_, err = s.notes.Create(ctx, alice.ID, NoteInput{Title: ptr("x"), Category: ptr("Misc")})
	requireFieldError(t, err, "category")
}

func TestNoteService_Rendered(t *testing.T) {
	s := setup(t, nil)
	ctx := context.Background()
	alice := s.signup(t, "alice@example.com")

	note, err := s.notes.Create(ctx, alice.ID, NoteInput{
		Title:   ptr("Plan"),
		Content: ptr("---\nmood: good\n---\n# Week\n\n- [x] done\n"),
	})
	require.NoError(t, err)

	rendered, err := s.notes.Rendered(ctx, alice.ID, note.ID)
	require.NoError(t, err)
	assert.Equal(t, note.ID, rendered.ID)
	assert.Contains(t, rendered.HTML, `<h1 id="week">Week</h1>`)
	assert.Equal(t, "good", rendered.Meta["mood"])
}

func TestEventService_TypeAndWindow(t *testing.T) {
	s := setup(t, nil)
	ctx := context.Background()
	alice := s.signup(t, "alice@example.com")

	start := model.FlexTime{Time: time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)}
	end := model.FlexTime{Time: time.Date(2025, 1, 11, 9, 0, 0, 0, time.UTC)}
	event, err := s.events.Create(ctx, alice.ID, EventInput{Title: ptr("Standup"), StartDate: &start, EndDate: &end, Type: ptr("meeting")})
	require.NoError(t, err)
	assert.Equal(t, "Meeting", event.Type)
	assert.Equal(t, model.EventStatusScheduled, event.Status)
	assert.Equal(t, model.PriorityMedium, event.Priority)

	_, err = s.events.Create(ctx, alice.ID, EventInput{Title: ptr("Backwards"), StartDate: &end, EndDate: &start})
	requireFieldError(t, err, "endDate")

	_, err = s.events.Create(ctx, alice.ID, EventInput{Title: ptr("No dates")})
	requireFieldError(t, err, "startDate")

	_, err = s.events.Create(ctx, alice.ID, EventInput{Title: ptr("Party"), StartDate: &start, EndDate: &end, Type: ptr("party")})
	requireFieldError(t, err, "type")

	day := func(d int) time.Time { return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC) }
	tests := []struct {
		name     string
		from, to time.Time
		want     int
	}{
		{"no window", time.Time{}, time.Time{}, 1},
		{"before", day(1), day(5), 0},
		{"overlapping end", day(11), day(20), 1},
		{"after", day(12), day(20), 0},
		{"open start", time.Time{}, day(10), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := s.events.Events(ctx, alice.ID, tt.from, tt.to)
			require.NoError(t, err)
			assert.Len(t, events, tt.want)
		})
	}

	_, err = s.events.Events(ctx, alice.ID, day(5), day(1))
	requireFieldError(t, err, "to")
}

func TestStructureService_Levels(t *testing.T) {
	s := setup(t, nil)
	ctx := context.Background()
	alice := s.signup(t, "alice@example.com")

	structure, err := s.structures.Create(ctx, alice.ID, StructureInput{Name: ptr("Default")})
	require.NoError(t, err)
	assert.Equal(t, model.StringList{"Goal", "Objective", "Project", "Task"}, structure.Levels)

	updated, err := s.structures.UpdateLevels(ctx, alice.ID, structure.ID, []string{" Vision ", "Milestone"})
	require.NoError(t, err)
	assert.Equal(t, model.StringList{"Vision", "Milestone"}, updated.Levels)

	levels, err := s.structures.Levels(ctx, alice.ID, structure.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Vision", "Milestone"}, levels)

	_, err = s.structures.UpdateLevels(ctx, alice.ID, structure.ID, []string{})
	requireFieldError(t, err, "levels")

	_, err = s.structures.UpdateLevels(ctx, alice.ID, structure.ID, []string{"a", " "})
	requireFieldError(t, err, "levels[1]")

	eleven := make([]string, 11)
	for i := range eleven {
		eleven[i] = fmt.Sprintf("L%d", i)
	}
	_, err = s.structures.UpdateLevels(ctx, alice.ID, structure.ID, eleven)
	requireFieldError(t, err, "levels")
}

func TestAuthService_SignupAndLogin(t *testing.T) {
	s := setup(t, nil)
	ctx := context.Background()

	session, err := s.auth.Signup(ctx, SignupInput{Name: "Alice", Email: "  Alice@Example.com ", Password: "correct-horse-battery"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", session.User.Email)
	assert.Equal(t, model.RoleUser, session.User.Role)
	assert.NotEmpty(t, session.Token)

	claims, err := s.auth.VerifyJWT(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, claims["user_id"])
	assert.Equal(t, model.RoleUser, claims["role"])

	_, err = s.auth.Signup(ctx, SignupInput{Name: "Again", Email: "alice@example.com", Password: "correct-horse-battery"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	_, err = s.auth.Signup(ctx, SignupInput{Name: "Weak", Email: "weak@example.com", Password: "password123"})
	requireFieldError(t, err, "password")

	_, err = s.auth.Login(ctx, LoginInput{Email: "alice@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.auth.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "correct-horse-battery"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	login, err := s.auth.Login(ctx, LoginInput{Email: "ALICE@example.com", Password: "correct-horse-battery"})
	require.NoError(t, err)

	user, err := s.auth.Authenticate(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, user.ID)

	_, err = s.auth.Authenticate(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = s.user.Deactivate(ctx, "alice@example.com")
	require.NoError(t, err)

	_, err = s.auth.Login(ctx, LoginInput{Email: "alice@example.com", Password: "correct-horse-battery"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = s.auth.Authenticate(ctx, login.Token)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUserService_CreateAndPromote(t *testing.T) {
	s := setup(t, nil)
	ctx := context.Background()

	admin, err := s.user.Create(ctx, SignupInput{Name: "Root", Email: "root@example.com", Password: "correct-horse-battery"}, true)
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())

	s.signup(t, "bob@example.com")
	promoted, err := s.user.Promote(ctx, "BOB@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, promoted.Role)

	_, err = s.user.Promote(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSuggestionService(t *testing.T) {
	ctx := context.Background()

	t.Run("empty description", func(t *testing.T) {
		svc := NewSuggestionService(nil, nil)
		_, err := svc.Suggest(ctx, "   ")
		requireFieldError(t, err, "description")
	})

	t.Run("no suggester uses fallback", func(t *testing.T) {
		svc := NewSuggestionService(nil, nil)
		got, err := svc.Suggest(ctx, "get fit and run")
		require.NoError(t, err)
		assert.Equal(t, suggest.SourceFallback, got.Source)
		assert.NotEmpty(t, got.Levels)
	})

	t.Run("upstream failure uses fallback", func(t *testing.T) {
		svc := NewSuggestionService(suggesterFunc(func(context.Context, string) (suggest.Suggestion, error) {
			return suggest.Suggestion{}, errors.New("503 from upstream")
		}), nil)
		got, err := svc.Suggest(ctx, "grow my business")
		require.NoError(t, err)
		assert.Equal(t, suggest.SourceFallback, got.Source)
	})

	t.Run("ai result passes through", func(t *testing.T) {
		want := suggest.Suggestion{Name: "Plan", Levels: []string{"Vision", "Step"}, Source: suggest.SourceAI}
		svc := NewSuggestionService(suggesterFunc(func(_ context.Context, description string) (suggest.Suggestion, error) {
			assert.Equal(t, "write a novel", description)
			return want, nil
		}), nil)
		got, err := svc.Suggest(ctx, "  write a novel ")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestCacheKey_Normalizes(t *testing.T) {
	assert.Equal(t, cacheKey("Run  a Marathon"), cacheKey("run a marathon"))
	assert.NotEqual(t, cacheKey("run a marathon"), cacheKey("run a half marathon"))
}

func TestExportService(t *testing.T) {
	ctx := context.Background()

	t.Run("archive without storage", func(t *testing.T) {
		s := setup(t, nil)
		alice := s.signup(t, "alice@example.com")
		_, err := s.export.Archive(ctx, alice.ID)
		assert.ErrorIs(t, err, ErrStorageDisabled)
	})

	t.Run("export and archive", func(t *testing.T) {
		store := &memStorage{objects: map[string][]byte{}}
		s := setup(t, store)
		alice := s.signup(t, "alice@example.com")
		bob := s.signup(t, "bob@example.com")

		_, err := s.goals.Create(ctx, alice.ID, GoalInput{Name: ptr("Mine")})
		require.NoError(t, err)
		_, err = s.notes.Create(ctx, bob.ID, NoteInput{Title: ptr("Not mine")})
		require.NoError(t, err)

		export, err := s.export.Export(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, alice.ID, export.User.ID)
		assert.Len(t, export.Goals, 1)
		assert.Empty(t, export.Notes)

		archive, err := s.export.Archive(ctx, alice.ID)
		require.NoError(t, err)
		assert.Contains(t, archive.Key, "exports/"+alice.ID+"/")
		assert.Contains(t, archive.URL, archive.Key)
		body, ok := store.objects[archive.Key]
		require.True(t, ok)
		assert.True(t, bytes.Contains(body, []byte(`"Mine"`)))
		assert.False(t, bytes.Contains(body, []byte("password")))
	})
}

func TestDashboardService(t *testing.T) {
	s := setup(t, nil)
	ctx := context.Background()
	alice := s.signup(t, "alice@example.com")

	soon := model.FlexTime{Time: time.Now().UTC().Add(48 * time.Hour)}
	later := model.FlexTime{Time: time.Now().UTC().Add(30 * 24 * time.Hour)}
	_, err := s.tasks.Create(ctx, alice.ID, TaskInput{Name: ptr("soon"), DueDate: &soon})
	require.NoError(t, err)
	_, err = s.tasks.Create(ctx, alice.ID, TaskInput{Name: ptr("later"), DueDate: &later})
	require.NoError(t, err)

	habit, err := s.habits.Create(ctx, alice.ID, HabitInput{Name: ptr("Walk")})
	require.NoError(t, err)
	_, err = s.habits.Complete(ctx, alice.ID, habit.ID, "")
	require.NoError(t, err)
	_, err = s.habits.Create(ctx, alice.ID, HabitInput{Name: ptr("Paused"), IsActive: ptr(false)})
	require.NoError(t, err)

	_, err = s.notes.Create(ctx, alice.ID, NoteInput{Title: ptr("Pinned"), IsPinned: ptr(true)})
	require.NoError(t, err)

	dashboard, err := s.dashboard.Dashboard(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, dashboard.Counts["tasks"])
	assert.Equal(t, 2, dashboard.Counts["habits"])
	assert.Equal(t, 0, dashboard.Counts["goals"])
	require.Len(t, dashboard.TasksDueSoon, 1)
	assert.Equal(t, "soon", dashboard.TasksDueSoon[0].Name)
	assert.Equal(t, 1, dashboard.HabitsActive)
	assert.Equal(t, 1, dashboard.HabitsDone)
	assert.Len(t, dashboard.PinnedNotes, 1)
	assert.Empty(t, dashboard.UpcomingEvents)
}
