package handler

import (
	"net/http"
	"strconv"

	"github.com/templui/lifeplan/internal/ctxkeys"
	"github.com/templui/lifeplan/internal/repository"
	"github.com/templui/lifeplan/internal/service"
	"github.com/templui/lifeplan/internal/validation"
)

type NoteHandler struct {
	noteService *service.NoteService
}

func NewNoteHandler(noteService *service.NoteService) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
	}
}

// List accepts ?category=&favorite= filters.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	query := r.URL.Query()

	filter := repository.NoteFilter{Category: query.Get("category")}
	if raw := query.Get("favorite"); raw != "" {
		favorite, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, r, validation.New("favorite", "must be true or false"))
			return
		}
		filter.Favorite = &favorite
	}

	notes, err := h.noteService.Notes(r.Context(), user.ID, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

func (h *NoteHandler) Search(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	notes, err := h.noteService.Search(r.Context(), user.ID, r.URL.Query().Get("query"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	note, err := h.noteService.ByID(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) Rendered(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	rendered, err := h.noteService.Rendered(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rendered)
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var in service.NoteInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	note, err := h.noteService.Create(r.Context(), user.ID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

func (h *NoteHandler) Replace(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var in service.NoteInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	note, err := h.noteService.Replace(r.Context(), user.ID, r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) Patch(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var in service.NoteInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	note, err := h.noteService.Patch(r.Context(), user.ID, r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	note, err := h.noteService.ToggleFavorite(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) TogglePinned(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	note, err := h.noteService.TogglePinned(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	if err := h.noteService.Delete(r.Context(), user.ID, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
