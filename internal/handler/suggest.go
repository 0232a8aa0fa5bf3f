package handler

import (
	"net/http"

	"github.com/templui/lifeplan/internal/service"
)

type SuggestHandler struct {
	suggestionService *service.SuggestionService
}

func NewSuggestHandler(suggestionService *service.SuggestionService) *SuggestHandler {
	return &SuggestHandler{
		suggestionService: suggestionService,
	}
}

type suggestRequest struct {
	Description string `json:"description"`
}

func (h *SuggestHandler) SuggestStructure(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	suggestion, err := h.suggestionService.Suggest(r.Context(), req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestion)
}
