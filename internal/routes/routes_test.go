package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/lifeplan/internal/app"
	"github.com/templui/lifeplan/internal/config"
)

func newServer(t *testing.T, env string) http.Handler {
	t.Helper()
	cfg := &config.Config{
		AppName:            "Lifeplan",
		AppEnv:             env,
		AppURL:             "http://localhost:8090",
		DBDriver:           "sqlite",
		DBConnection:       filepath.Join(t.TempDir(), "api.db") + "?_pragma=foreign_keys(1)",
		JWTSecret:          "test-secret",
		JWTExpiry:          time.Hour,
		AuthRateLimit:      100,
		AuthRateWindow:     time.Minute,
		EmailFrom:          "noreply@example.com",
		SuggestionCacheTTL: time.Hour,
		S3PresignExpiry:    time.Hour,
	}
	a, err := app.New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return SetupRoutes(a)
}

func call(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func signup(t *testing.T, h http.Handler, email string) string {
	t.Helper()
	rec := call(t, h, http.MethodPost, "/auth/signup", "", map[string]string{
		"name": "Test", "email": email, "password": "correct-horse-battery",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[struct {
		Token string `json:"token"`
	}](t, rec).Token
}

type errorResponse struct {
	Message string `json:"message"`
	Data    []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"data"`
	Stack []string `json:"stack"`
}

func TestAuth(t *testing.T) {
	h := newServer(t, "development")

	token := signup(t, h, "  Ada@Example.com ")

	rec := call(t, h, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[map[string]any](t, rec)
	assert.Equal(t, "ada@example.com", me["email"])
	assert.NotContains(t, me, "passwordHash")

	rec = call(t, h, http.MethodPost, "/auth/signup", "", map[string]string{
		"name": "Again", "email": "ada@example.com", "password": "correct-horse-battery",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = call(t, h, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "ada@example.com", "password": "wrong-password-123",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = call(t, h, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "ADA@example.com", "password": "correct-horse-battery",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[map[string]any](t, rec)["token"])

	rec = call(t, h, http.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "authentication required", decode[errorResponse](t, rec).Message)

	rec = call(t, h, http.MethodGet, "/goals", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGoalObjectiveProgressScenario(t *testing.T) {
	h := newServer(t, "development")
	token := signup(t, h, "launch@example.com")

	rec := call(t, h, http.MethodPost, "/goals", token, map[string]any{
		"name": "Launch", "status": "Active", "category": "Work", "objectives": []string{},
		"userId": "someone-else",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	goal := decode[map[string]any](t, rec)
	assert.Empty(t, goal["objectives"])
	assert.NotEqual(t, "someone-else", goal["userId"])
	assert.NotEmpty(t, goal["createdAt"])
	goalID := goal["id"].(string)

	rec = call(t, h, http.MethodPost, "/objectives", token, map[string]any{
		"title": "Plan", "status": "Active", "priority": "Medium",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	objectiveID := decode[map[string]any](t, rec)["id"].(string)

	rec = call(t, h, http.MethodPut, "/goals/"+goalID, token, map[string]any{
		"name": "Launch", "status": "Active", "category": "Work", "objectives": []string{objectiveID},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, path := range []string{"/goals/with-objective-progress", "/goals/with-project-progress", "/goals"} {
		rec = call(t, h, http.MethodGet, path, token, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)
		goals := decode[[]map[string]any](t, rec)
		require.Len(t, goals, 1, path)
		assert.EqualValues(t, 1, goals[0]["objectiveCount"], path)
		assert.EqualValues(t, 0, goals[0]["progressPercent"], path)
		assert.EqualValues(t, 0, goals[0]["projectCount"], path)
	}

	rec = call(t, h, http.MethodGet, "/objectives/"+objectiveID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{goalID}, decode[map[string]any](t, rec)["goals"])

	rec = call(t, h, http.MethodPatch, "/objectives/"+objectiveID, token, map[string]any{"status": "Completed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = call(t, h, http.MethodGet, "/goals/"+goalID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 100, decode[map[string]any](t, rec)["progressPercent"])

	rec = call(t, h, http.MethodDelete, "/goals/"+goalID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = call(t, h, http.MethodGet, "/goals/"+goalID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOwnershipIsolation(t *testing.T) {
	h := newServer(t, "production")
	owner := signup(t, h, "owner@example.com")
	other := signup(t, h, "other@example.com")

	rec := call(t, h, http.MethodPost, "/notes", owner, map[string]any{"title": "Private"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	noteID := decode[map[string]any](t, rec)["id"].(string)

	tests := []struct {
		method string
		body   any
	}{
		{http.MethodGet, nil},
		{http.MethodPut, map[string]any{"title": "Stolen"}},
		{http.MethodPatch, map[string]any{"title": "Stolen"}},
		{http.MethodDelete, nil},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			rec := call(t, h, tt.method, "/notes/"+noteID, other, tt.body)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			body := decode[errorResponse](t, rec)
			assert.NotEmpty(t, body.Message)
			assert.Empty(t, body.Stack, "production hides error chains")
		})
	}

	rec = call(t, h, http.MethodGet, "/notes", other, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = call(t, h, http.MethodGet, "/notes/"+noteID, owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Private", decode[map[string]any](t, rec)["title"])
}

func TestErrorBodies(t *testing.T) {
	h := newServer(t, "development")
	token := signup(t, h, "errors@example.com")

	rec := call(t, h, http.MethodPost, "/goals", token, map[string]any{"status": "Someday"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode[errorResponse](t, rec)
	assert.Equal(t, "validation failed", body.Message)
	var fields []string
	for _, f := range body.Data {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"name", "status"}, fields)
	assert.NotEmpty(t, body.Stack, "development exposes error chains")

	rec = call(t, h, http.MethodPost, "/goals", token, `{"name": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, h, http.MethodPost, "/goals", token, map[string]any{
		"name": "Dangling", "objectives": []string{"missing"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "objectives", decode[errorResponse](t, rec).Data[0].Field)

	rec = call(t, h, http.MethodGet, "/events?from=yesterday", token, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "from", decode[errorResponse](t, rec).Data[0].Field)

	rec = call(t, h, http.MethodGet, "/notes?favorite=maybe", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = call(t, h, http.MethodGet, "/notes/search?query=%20", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestNoteToggles(t *testing.T) {
	h := newServer(t, "development")
	token := signup(t, h, "notes@example.com")

	rec := call(t, h, http.MethodPost, "/notes", token, map[string]any{
		"title": "Groceries", "content": "# List\n\n- Äpfel", "tags": []string{"Home"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	note := decode[map[string]any](t, rec)
	require.Equal(t, false, note["isFavorite"])
	noteID := note["id"].(string)

	rec = call(t, h, http.MethodPut, "/notes/"+noteID+"/favorite", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode[map[string]any](t, rec)["isFavorite"])

	rec = call(t, h, http.MethodPut, "/notes/"+noteID+"/favorite", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode[map[string]any](t, rec)["isFavorite"])

	rec = call(t, h, http.MethodPut, "/notes/"+noteID+"/pin", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode[map[string]any](t, rec)["isPinned"])

	for _, query := range []string{"groceries", "ÄPFEL", "home"} {
		rec = call(t, h, http.MethodGet, "/notes/search?query="+url.QueryEscape(query), token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]map[string]any](t, rec), 1, query)
	}

	rec = call(t, h, http.MethodGet, "/notes/"+noteID+"/rendered", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode[map[string]any](t, rec)["html"], "<h1")
}

func TestHabitCompletion(t *testing.T) {
	h := newServer(t, "development")
	token := signup(t, h, "habits@example.com")

	rec := call(t, h, http.MethodPost, "/habits", token, map[string]any{"name": "Run"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	habitID := decode[map[string]any](t, rec)["id"].(string)
	path := "/habits/" + habitID

	for _, day := range []string{"2025-03-01", "2025-03-02", "2025-03-03"} {
		rec = call(t, h, http.MethodPost, path+"/complete", token, map[string]string{"date": day})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	habit := decode[map[string]any](t, rec)
	assert.EqualValues(t, 3, habit["currentStreak"])
	assert.EqualValues(t, 3, habit["longestStreak"])

	rec = call(t, h, http.MethodPost, path+"/uncomplete", token, map[string]string{"date": "2025-03-03"})
	require.Equal(t, http.StatusOK, rec.Code)
	habit = decode[map[string]any](t, rec)
	assert.EqualValues(t, 2, habit["currentStreak"])
	assert.EqualValues(t, 3, habit["longestStreak"])

	rec = call(t, h, http.MethodPost, path+"/complete", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, "empty body completes today")
	assert.Contains(t, decode[map[string]any](t, rec)["completedDates"], time.Now().UTC().Format("2006-01-02"))

	rec = call(t, h, http.MethodPost, path+"/complete", token, map[string]string{"date": "03/01/2025"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestTasksEventsAndStructures(t *testing.T) {
	h := newServer(t, "development")
	token := signup(t, h, "mixed@example.com")

	rec := call(t, h, http.MethodPost, "/projects", token, map[string]any{"name": "Website"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	projectID := decode[map[string]any](t, rec)["id"].(string)

	rec = call(t, h, http.MethodPost, "/tasks", token, map[string]any{"name": "Draft copy", "projectId": projectID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	taskID := decode[map[string]any](t, rec)["id"].(string)

	rec = call(t, h, http.MethodPut, "/tasks/"+taskID+"/toggle", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Completed", decode[map[string]any](t, rec)["status"])

	rec = call(t, h, http.MethodGet, "/tasks?projectId="+projectID+"&status=Completed", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = call(t, h, http.MethodGet, "/projects/with-task-progress", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	projects := decode[[]map[string]any](t, rec)
	require.Len(t, projects, 1)
	assert.EqualValues(t, 1, projects[0]["taskCount"])
	assert.EqualValues(t, 100, projects[0]["progressPercent"])

	rec = call(t, h, http.MethodPost, "/events", token, map[string]any{
		"title": "Review", "startDate": "2025-05-10", "endDate": "2025-05-11",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = call(t, h, http.MethodGet, "/events?from=2025-05-11&to=2025-05-20", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = call(t, h, http.MethodGet, "/events?from=2025-06-01", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]map[string]any](t, rec))

	rec = call(t, h, http.MethodPost, "/structures", token, map[string]any{"name": "Mine"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	structureID := decode[map[string]any](t, rec)["id"].(string)

	rec = call(t, h, http.MethodPut, "/structures/"+structureID+"/levels", token, map[string]any{
		"levels": []string{" Vision ", "Milestone", "Step"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = call(t, h, http.MethodGet, "/structures/"+structureID+"/levels", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"levels":["Vision","Milestone","Step"]}`, rec.Body.String())

	rec = call(t, h, http.MethodPut, "/structures/"+structureID+"/levels", token, map[string]any{"levels": []string{}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDashboardExportAndSuggest(t *testing.T) {
	h := newServer(t, "development")
	token := signup(t, h, "dash@example.com")

	rec := call(t, h, http.MethodPost, "/goals", token, map[string]any{"name": "Health"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = call(t, h, http.MethodGet, "/dashboard", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	dashboard := decode[map[string]any](t, rec)
	assert.EqualValues(t, 1, dashboard["counts"].(map[string]any)["goals"])

	rec = call(t, h, http.MethodGet, "/export", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Disposition"), "attachment;"))
	export := decode[map[string]any](t, rec)
	assert.Len(t, export["goals"], 1)

	rec = call(t, h, http.MethodPost, "/export/archive", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = call(t, h, http.MethodPost, "/ai/suggest-structure", token, map[string]string{
		"description": "get fit and run a marathon",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	suggestion := decode[map[string]any](t, rec)
	assert.Equal(t, "fallback", suggestion["source"])
	assert.NotEmpty(t, suggestion["levels"])

	rec = call(t, h, http.MethodPost, "/ai/suggest-structure", token, map[string]string{"description": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = call(t, h, http.MethodPost, "/ai/suggest-structure", "", map[string]string{"description": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newServer(t, "development")

	rec := call(t, h, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	call(t, h, http.MethodGet, "/goals", "", nil)

	rec = call(t, h, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="GET /goals"`)
}

func TestAuthRateLimit(t *testing.T) {
	h := newServer(t, "development")

	var last int
	for range 101 {
		last = call(t, h, http.MethodPost, "/auth/login", "", map[string]string{
			"email": "nobody@example.com", "password": "whatever-password",
		}).Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}
