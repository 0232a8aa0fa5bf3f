package handler

import (
	"net/http"

	"github.com/templui/lifeplan/internal/ctxkeys"
	"github.com/templui/lifeplan/internal/service"
)

// ProgressHandler serves the roll-up views. The same fields are flattened
// into every goal, objective and project response.
type ProgressHandler struct {
	progressService *service.ProgressService
}

func NewProgressHandler(progressService *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
	}
}

// Goals serves both /goals/with-objective-progress and
// /goals/with-project-progress.
func (h *ProgressHandler) Goals(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goals, err := h.progressService.GoalsWithProgress(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

func (h *ProgressHandler) Objectives(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	objectives, err := h.progressService.ObjectivesWithProgress(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, objectives)
}

func (h *ProgressHandler) Projects(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	projects, err := h.progressService.ProjectsWithProgress(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}
