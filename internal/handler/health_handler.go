package handler

import (
	"context"
	"net/http"
	"time"

	"shams-elarab/internal/database"

	"github.com/rs/zerolog"
)

// HealthHandler reports process and database health.
type HealthHandler struct {
	db     database.Pinger
	logger zerolog.Logger
}

func NewHealthHandler(db database.Pinger, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		logger: logger.With().Str("handler", "health").Logger(),
	}
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Error().Err(err).Msg("database ping failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "database": "unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
