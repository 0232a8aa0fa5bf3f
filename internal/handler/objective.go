package handler

import (
	"net/http"

	"github.com/templui/lifeplan/internal/ctxkeys"
	"github.com/templui/lifeplan/internal/service"
)

type ObjectiveHandler struct {
	objectiveService *service.ObjectiveService
}

func NewObjectiveHandler(objectiveService *service.ObjectiveService) *ObjectiveHandler {
	return &ObjectiveHandler{
		objectiveService: objectiveService,
	}
}

// List returns every objective with its progress fields.
func (h *ObjectiveHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	objectives, err := h.objectiveService.Objectives(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, objectives)
}

func (h *ObjectiveHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	objective, err := h.objectiveService.ByID(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, objective)
}

func (h *ObjectiveHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var in service.ObjectiveInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	objective, err := h.objectiveService.Create(r.Context(), user.ID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, objective)
}

func (h *ObjectiveHandler) Replace(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var in service.ObjectiveInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	objective, err := h.objectiveService.Replace(r.Context(), user.ID, r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, objective)
}

func (h *ObjectiveHandler) Patch(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var in service.ObjectiveInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	objective, err := h.objectiveService.Patch(r.Context(), user.ID, r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, objective)
}

func (h *ObjectiveHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	if err := h.objectiveService.Delete(r.Context(), user.ID, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
