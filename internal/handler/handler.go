package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"shams-elarab/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxJSONBody bounds JSON request bodies.
const maxJSONBody = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent.
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("code", code).Int("status", status).Msg(message)
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeServiceError maps a service error to its HTTP status.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		logger.Warn().Err(err).Int("status", http.StatusBadRequest).Msg("validation failed")
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
			Error:   model.ErrCodeValidation,
			Message: "request validation failed",
			Fields:  verr.Fields,
		})
		return
	}

	if errors.Is(err, model.ErrUploadFailed) {
		logger.Error().Err(err).Int("status", http.StatusBadGateway).Msg("upload failed")
		writeJSON(w, http.StatusBadGateway, model.ErrorResponse{
			Error:   model.ErrCodeUploadFailed,
			Message: model.ErrUploadFailed.Message,
		})
		return
	}

	if errors.Is(err, context.DeadlineExceeded) {
		writeError(w, http.StatusGatewayTimeout, "TIMEOUT", "request timed out", logger)
		return
	}

	var derr *model.DomainError
	if errors.As(err, &derr) {
		status := domainStatus(derr)
		logger.Warn().Err(err).Str("code", derr.Code).Int("status", status).Msg("request rejected")
		writeJSON(w, status, model.ErrorResponse{Error: derr.Code, Message: derr.Message})
		return
	}

	logger.Error().Err(err).Int("status", http.StatusInternalServerError).Msg("request failed")
	writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
		Error:   model.ErrCodeInternalError,
		Message: "internal server error",
	})
}

func domainStatus(err *model.DomainError) int {
	switch err.Code {
	case model.ErrCodeCourseNotFound,
		model.ErrCodeRoadmapNotFound,
		model.ErrCodeProductNotFound,
		model.ErrCodeOrderNotFound,
		model.ErrCodePageNotFound:
		return http.StatusNotFound
	case model.ErrCodeInvalidTransition,
		model.ErrCodeAccessLinkNotApproved,
		model.ErrCodeConcurrentUpdate,
		model.ErrCodeIdempotencyKeyReused:
		return http.StatusConflict
	case model.ErrCodeInvalidProductType,
		model.ErrCodeInvalidPaymentMethod,
		model.ErrCodeInvalidStatus,
		model.ErrCodeNegativePrice,
		model.ErrCodeUnknownModuleCourse:
		return http.StatusBadRequest
	case model.ErrCodeUploadFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes a bounded JSON body into dest and writes the error
// response itself when decoding fails.
func decodeJSON(w http.ResponseWriter, r *http.Request, dest any, logger zerolog.Logger) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", logger)
		return false
	}
	return true
}

// orderIDParam parses the {id} path parameter as an order id.
func orderIDParam(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid order ID format", logger)
		return uuid.Nil, false
	}
	return id, true
}
