package handler

import (
	"net/http"

	"github.com/templui/lifeplan/internal/ctxkeys"
	"github.com/templui/lifeplan/internal/service"
)

type StructureHandler struct {
	structureService *service.StructureService
}

func NewStructureHandler(structureService *service.StructureService) *StructureHandler {
	return &StructureHandler{
		structureService: structureService,
	}
}

func (h *StructureHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	structures, err := h.structureService.Structures(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, structures)
}

func (h *StructureHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	structure, err := h.structureService.ByID(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, structure)
}

func (h *StructureHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var in service.StructureInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	structure, err := h.structureService.Create(r.Context(), user.ID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, structure)
}

func (h *StructureHandler) Replace(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var in service.StructureInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	structure, err := h.structureService.Replace(r.Context(), user.ID, r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, structure)
}

func (h *StructureHandler) Patch(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var in service.StructureInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	structure, err := h.structureService.Patch(r.Context(), user.ID, r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, structure)
}

type levelsBody struct {
	Levels []string `json:"levels"`
}

func (h *StructureHandler) Levels(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	levels, err := h.structureService.Levels(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, levelsBody{Levels: levels})
}

func (h *StructureHandler) UpdateLevels(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var body levelsBody
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	structure, err := h.structureService.UpdateLevels(r.Context(), user.ID, r.PathValue("id"), body.Levels)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, structure)
}

func (h *StructureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	if err := h.structureService.Delete(r.Context(), user.ID, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
