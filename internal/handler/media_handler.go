package handler

import (
	"net/http"

	"shams-elarab/internal/media"
	"shams-elarab/internal/service"

	"github.com/rs/zerolog"
)

// MediaHandler accepts catalog asset uploads from staff.
type MediaHandler struct {
	service        service.MediaService
	maxUploadBytes int64
	logger         zerolog.Logger
}

func NewMediaHandler(service service.MediaService, maxUploadBytes int64, logger zerolog.Logger) *MediaHandler {
	return &MediaHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With().Str("handler", "media").Logger(),
	}
}

// Upload handles POST /api/admin/uploads with a multipart "file" field.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if !parseMultipart(w, r, h.maxUploadBytes, h.logger) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, closeFile, err := formFile(r, "file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FORM", "invalid file", h.logger)
		return
	}
	defer closeFile()

	if file == nil {
		file = &media.File{}
	}

	result, err := h.service.Upload(r.Context(), *file)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}
