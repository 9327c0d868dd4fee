package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"shams-elarab/internal/events"
	"shams-elarab/internal/media"
	"shams-elarab/internal/model"
	"shams-elarab/internal/pricing"
	"shams-elarab/internal/repository"

	"github.com/rs/zerolog"
)

// checkoutService implements CheckoutService.
type checkoutService struct {
	orderRepo repository.OrderRepository
	catalog   CatalogService
	uploader  media.Uploader
	publisher events.Publisher
	logger    zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	orderRepo repository.OrderRepository,
	catalog CatalogService,
	uploader media.Uploader,
	publisher events.Publisher,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		orderRepo: orderRepo,
		catalog:   catalog,
		uploader:  uploader,
		publisher: publisher,
		logger:    logger.With().Str("service", "checkout").Logger(),
	}
}

// Submit validates the submission, prices the product server side, uploads
// the receipt and stores a pending order.
func (s *checkoutService) Submit(ctx context.Context, req *model.CheckoutRequest, receipt *media.File) (*CheckoutResult, error) {
	normalizeCheckout(req)
	if err := validateCheckout(req, receipt); err != nil {
		s.logger.Warn().Err(err).Str("product_id", req.ProductID).Msg("checkout validation failed")
		return nil, err
	}

	if req.IdempotencyKey != "" {
		existing, err := s.orderRepo.GetByIdempotencyKey(ctx, req.IdempotencyKey)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to check idempotency key")
			return nil, fmt.Errorf("failed to check idempotency key: %w", err)
		}
		if existing != nil {
			if !existing.MatchesSubmission(req) {
				s.logger.Warn().
					Str("order_id", existing.ID.String()).
					Str("product_id", req.ProductID).
					Msg("idempotency key reused for a different submission")
				return nil, model.ErrIdempotencyKeyReused
			}
			s.logger.Info().Str("order_id", existing.ID.String()).Msg("checkout replayed")
			return &CheckoutResult{Order: existing, Replayed: true}, nil
		}
	}

	product, err := s.catalog.GetProduct(ctx, req.ProductType, req.ProductID)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("product_id", req.ProductID).
			Str("product_type", string(req.ProductType)).
			Msg("checkout product not available")
		return nil, err
	}

	breakdown, err := pricing.Calculate(product)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", req.ProductID).Msg("failed to price product")
		return nil, fmt.Errorf("failed to price product: %w", err)
	}

	uploaded, err := s.uploader.Upload(ctx, media.FolderReceipts, *receipt)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", req.ProductID).Msg("receipt upload failed")
		return nil, fmt.Errorf("%w: %w", model.ErrUploadFailed, err)
	}

	order := &model.Order{
		ProductID:   product.ProductID(),
		ProductType: product.ProductType(),
		Items: []model.OrderItem{{
			Title: product.ProductTitle(),
			Type:  product.ProductType(),
			Price: breakdown.Subtotal,
		}},
		Breakdown:     breakdown,
		TotalAmount:   breakdown.Total,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		PaymentMethod: req.PaymentMethod,
		ReceiptURL:    uploaded.URL,
		ReceiptID:     uploaded.Identifier,
		Status:        model.StatusPending,
	}
	if req.IdempotencyKey != "" {
		key := req.IdempotencyKey
		order.IdempotencyKey = &key
	}

	created, err := s.orderRepo.Create(ctx, order)
	if err != nil {
		// The receipt is already stored; keep its identifier for cleanup.
		s.logger.Error().Err(err).
			Str("receipt_id", uploaded.Identifier).
			Str("receipt_url", uploaded.URL).
			Msg("failed to store order after receipt upload")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if !created {
		s.logger.Warn().
			Str("order_id", order.ID.String()).
			Str("orphan_receipt_id", uploaded.Identifier).
			Msg("concurrent checkout with same idempotency key")
		if !order.MatchesSubmission(req) {
			return nil, model.ErrIdempotencyKeyReused
		}
		return &CheckoutResult{Order: order, Replayed: true}, nil
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("product_id", order.ProductID).
		Str("total", order.TotalAmount.StringFixed(2)).
		Msg("order submitted")

	if err := s.publisher.Publish(ctx, events.NewOrderEvent(events.OrderSubmitted, order)); err != nil {
		s.logger.Warn().Err(err).Str("order_id", order.ID.String()).Msg("failed to publish order event")
	}

	return &CheckoutResult{Order: order}, nil
}

func normalizeCheckout(req *model.CheckoutRequest) {
	req.ProductID = strings.TrimSpace(req.ProductID)
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)
	req.CustomerPhone = strings.TrimSpace(req.CustomerPhone)
	req.IdempotencyKey = strings.TrimSpace(req.IdempotencyKey)
}

// validateCheckout reports every invalid field at once.
func validateCheckout(req *model.CheckoutRequest, receipt *media.File) error {
	verr := &model.ValidationError{}

	if req.ProductID == "" {
		verr.Add("productId", "is required")
	}
	if !req.ProductType.Valid() {
		verr.Add("productType", "must be course or track")
	}
	if req.CustomerName == "" {
		verr.Add("customerName", "is required")
	}
	if req.CustomerEmail == "" {
		verr.Add("customerEmail", "is required")
	} else if _, err := mail.ParseAddress(req.CustomerEmail); err != nil {
		verr.Add("customerEmail", "must be a valid email address")
	}
	if req.CustomerPhone == "" {
		verr.Add("customerPhone", "is required")
	}
	if !req.PaymentMethod.Valid() {
		verr.Add("paymentMethod", "must be manual-bank-transfer, instapay or vodafone-cash")
	}

	switch {
	case receipt == nil || receipt.Body == nil:
		verr.Add("receipt", "is required")
	case receipt.Size == 0:
		verr.Add("receipt", "must not be empty")
	case !receiptContentType(receipt.ContentType):
		verr.Add("receipt", "must be an image or a PDF")
	}

	return verr.Err()
}

func receiptContentType(contentType string) bool {
	return media.ResourceType(contentType) == media.ResourceImage || contentType == "application/pdf"
}
