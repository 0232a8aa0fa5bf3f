package handler

import (
	"fmt"
	"net/http"

	"github.com/templui/lifeplan/internal/ctxkeys"
	"github.com/templui/lifeplan/internal/service"
)

type ExportHandler struct {
	exportService *service.ExportService
}

func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
	}
}

// Download returns every document of the caller as a JSON attachment.
func (h *ExportHandler) Download(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	export, err := h.exportService.Export(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	filename := fmt.Sprintf("lifeplan-export-%s.json", export.ExportedAt.Format("2006-01-02"))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	writeJSON(w, http.StatusOK, export)
}

func (h *ExportHandler) Archive(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	archive, err := h.exportService.Archive(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, archive)
}
