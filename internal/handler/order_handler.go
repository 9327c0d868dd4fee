package handler

import (
	"net/http"

	"shams-elarab/internal/model"
	"shams-elarab/internal/service"

	"github.com/rs/zerolog"
)

// OrderHandler handles order lookup and staff review requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Track handles GET /api/orders/track?q=<order id or phone>.
func (h *OrderHandler) Track(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "query parameter q is required", h.logger)
		return
	}

	view, err := h.service.Lookup(r.Context(), q)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// List handles GET /api/admin/orders?status=.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetByID handles GET /api/admin/orders/{id}.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := orderIDParam(w, r, h.logger)
	if !ok {
		return
	}

	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// Receipt handles GET /api/admin/orders/{id}/receipt.
func (h *OrderHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	id, ok := orderIDParam(w, r, h.logger)
	if !ok {
		return
	}

	info, err := h.service.Receipt(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// Approve handles POST /api/admin/orders/{id}/approve.
func (h *OrderHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := orderIDParam(w, r, h.logger)
	if !ok {
		return
	}

	var req model.ApproveRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req, h.logger) {
		return
	}

	order, err := h.service.Approve(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// Reject handles POST /api/admin/orders/{id}/reject.
func (h *OrderHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := orderIDParam(w, r, h.logger)
	if !ok {
		return
	}

	var req model.RejectRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req, h.logger) {
		return
	}

	order, err := h.service.Reject(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// UpdateAccessLink handles PUT /api/admin/orders/{id}/access-link.
func (h *OrderHandler) UpdateAccessLink(w http.ResponseWriter, r *http.Request) {
	id, ok := orderIDParam(w, r, h.logger)
	if !ok {
		return
	}

	var req model.AccessLinkRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	order, err := h.service.UpdateAccessLink(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// Delete handles DELETE /api/admin/orders/{id}.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := orderIDParam(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Dashboard handles GET /api/admin/dashboard.
func (h *OrderHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Dashboard(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
