package handler

import (
	"encoding/json"
	"net/http"

	"shams-elarab/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// PageHandler serves and edits content pages.
type PageHandler struct {
	service service.PageService
	logger  zerolog.Logger
}

func NewPageHandler(service service.PageService, logger zerolog.Logger) *PageHandler {
	return &PageHandler{
		service: service,
		logger:  logger.With().Str("handler", "page").Logger(),
	}
}

// Get handles GET /api/pages/{id}.
func (h *PageHandler) Get(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.GetPage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Update handles PUT /api/admin/pages/{id}. The body is a JSON object whose
// top-level keys replace those of the stored page.
func (h *PageHandler) Update(w http.ResponseWriter, r *http.Request) {
	var content map[string]json.RawMessage
	if !decodeJSON(w, r, &content, h.logger) {
		return
	}

	page, err := h.service.UpdatePage(r.Context(), chi.URLParam(r, "id"), content)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, page)
}
