package handler

import (
	"net/http"
	"time"

	"github.com/templui/lifeplan/internal/ctxkeys"
	"github.com/templui/lifeplan/internal/model"
	"github.com/templui/lifeplan/internal/service"
	"github.com/templui/lifeplan/internal/validation"
)

type EventHandler struct {
	eventService *service.EventService
}

func NewEventHandler(eventService *service.EventService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
	}
}

// List accepts ?from=&to= (dates or RFC 3339) and returns the events that
// overlap the window.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	from, err := queryTime(r, "from")
	if err != nil {
		writeError(w, r, err)
		return
	}
	to, err := queryTime(r, "to")
	if err != nil {
		writeError(w, r, err)
		return
	}

	events, err := h.eventService.Events(r.Context(), user.ID, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func queryTime(r *http.Request, key string) (time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := model.ParseFlexTime(raw)
	if err != nil {
		return time.Time{}, validation.New(key, err.Error())
	}
	return t, nil
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	event, err := h.eventService.ByID(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var in service.EventInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	event, err := h.eventService.Create(r.Context(), user.ID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

func (h *EventHandler) Replace(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var in service.EventInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	event, err := h.eventService.Replace(r.Context(), user.ID, r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) Patch(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var in service.EventInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	event, err := h.eventService.Patch(r.Context(), user.ID, r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	if err := h.eventService.Delete(r.Context(), user.ID, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
