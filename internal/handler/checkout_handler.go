package handler

import (
	"net/http"

	"shams-elarab/internal/model"
	"shams-elarab/internal/service"

	"github.com/rs/zerolog"
)

// IdempotencyKeyHeader lets clients retry a checkout without creating a
// second order.
const IdempotencyKeyHeader = "Idempotency-Key"

// CheckoutHandler handles order submission.
type CheckoutHandler struct {
	service        service.CheckoutService
	maxUploadBytes int64
	logger         zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler. maxUploadBytes bounds
// the whole multipart body.
func NewCheckoutHandler(service service.CheckoutService, maxUploadBytes int64, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With().Str("handler", "checkout").Logger(),
	}
}

// Submit handles POST /api/checkout. The body is a multipart form carrying
// the customer fields and the receipt file.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if !parseMultipart(w, r, h.maxUploadBytes, h.logger) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	receipt, closeReceipt, err := formFile(r, "receipt")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FORM", "invalid receipt file", h.logger)
		return
	}
	defer closeReceipt()

	req := &model.CheckoutRequest{
		ProductID:      r.FormValue("productId"),
		ProductType:    model.ProductType(r.FormValue("productType")),
		CustomerName:   r.FormValue("customerName"),
		CustomerEmail:  r.FormValue("customerEmail"),
		CustomerPhone:  r.FormValue("customerPhone"),
		PaymentMethod:  model.PaymentMethod(r.FormValue("paymentMethod")),
		IdempotencyKey: r.Header.Get(IdempotencyKeyHeader),
	}

	result, err := h.service.Submit(r.Context(), req, receipt)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	writeJSON(w, status, result.Order)
}
