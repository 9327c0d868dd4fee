package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"shams-elarab/internal/events"
	"shams-elarab/internal/model"
	"shams-elarab/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo         repository.OrderRepository
	courseRepo        repository.CourseRepository
	roadmapRepo       repository.RoadmapRepository
	publisher         events.Publisher
	reviewWindowHours int
	logger            zerolog.Logger
}

// NewOrderService creates a new order service. reviewWindowHours is
// reported to customers looking up a pending order.
func NewOrderService(
	orderRepo repository.OrderRepository,
	courseRepo repository.CourseRepository,
	roadmapRepo repository.RoadmapRepository,
	publisher events.Publisher,
	reviewWindowHours int,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:         orderRepo,
		courseRepo:        courseRepo,
		roadmapRepo:       roadmapRepo,
		publisher:         publisher,
		reviewWindowHours: reviewWindowHours,
		logger:            logger.With().Str("service", "order").Logger(),
	}
}

// Lookup resolves query as an order id first and as a phone number second.
func (s *orderService) Lookup(ctx context.Context, query string) (*model.OrderView, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, model.ErrOrderNotFound
	}

	if id, err := uuid.Parse(query); err == nil {
		order, err := s.orderRepo.GetByID(ctx, id)
		if err != nil {
			s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to look up order")
			return nil, fmt.Errorf("failed to look up order: %w", err)
		}
		if order != nil {
			return order.View(s.reviewWindowHours), nil
		}
	}

	order, err := s.orderRepo.FindLatestByPhone(ctx, query)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to look up order by phone")
		return nil, fmt.Errorf("failed to look up order: %w", err)
	}
	if order == nil {
		s.logger.Debug().Msg("order lookup found nothing")
		return nil, model.ErrOrderNotFound
	}

	return order.View(s.reviewWindowHours), nil
}

// List retrieves orders, optionally filtered by status.
func (s *orderService) List(ctx context.Context, status string) ([]model.Order, error) {
	filter := model.OrderStatus(strings.TrimSpace(status))
	if filter != "" && !filter.Valid() {
		s.logger.Warn().Str("status", status).Msg("invalid order status filter")
		return nil, model.ErrInvalidStatus
	}

	orders, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Str("status", string(filter)).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	s.logger.Debug().Int("count", len(orders)).Str("status", string(filter)).Msg("retrieved orders")
	return orders, nil
}

// Get retrieves an order by ID.
func (s *orderService) Get(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

// Approve moves a pending order to approved, optionally with an access link.
func (s *orderService) Approve(ctx context.Context, id uuid.UUID, req *model.ApproveRequest) (*model.Order, error) {
	link, err := normalizeAccessLink(req.AccessLink)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, id, req.Version, events.OrderApproved, func(o *model.Order) error {
		return o.Approve(link)
	})
}

// Reject moves a pending order to rejected.
func (s *orderService) Reject(ctx context.Context, id uuid.UUID, req *model.RejectRequest) (*model.Order, error) {
	return s.transition(ctx, id, req.Version, events.OrderRejected, func(o *model.Order) error {
		return o.Reject()
	})
}

// UpdateAccessLink replaces the access link of an approved order, or clears
// it on any order.
func (s *orderService) UpdateAccessLink(ctx context.Context, id uuid.UUID, req *model.AccessLinkRequest) (*model.Order, error) {
	link, err := normalizeAccessLink(req.AccessLink)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, id, req.Version, events.OrderAccessLinkUpdated, func(o *model.Order) error {
		return o.SetAccessLink(link)
	})
}

// transition loads the order, applies change and persists it guarded by the
// loaded status and version. A caller supplied version must match the
// stored one.
func (s *orderService) transition(
	ctx context.Context,
	id uuid.UUID,
	version *int,
	eventType string,
	change func(o *model.Order) error,
) (*model.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if version != nil && *version != order.Version {
		s.logger.Warn().
			Str("order_id", id.String()).
			Int("expected_version", *version).
			Int("current_version", order.Version).
			Msg("stale order version")
		return nil, model.ErrConcurrentUpdate
	}

	fromStatus, expectedVersion := order.Status, order.Version
	if err := change(order); err != nil {
		s.logger.Warn().Err(err).
			Str("order_id", id.String()).
			Str("status", string(fromStatus)).
			Str("event", eventType).
			Msg("order change rejected")
		return nil, err
	}

	if err := s.orderRepo.UpdateLifecycle(ctx, order, fromStatus, expectedVersion); err != nil {
		s.logger.Warn().Err(err).Str("order_id", id.String()).Msg("failed to update order")
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	s.logger.Info().
		Str("order_id", id.String()).
		Str("from_status", string(fromStatus)).
		Str("to_status", string(order.Status)).
		Int("version", order.Version).
		Msg("order updated")

	s.publish(ctx, eventType, order)
	return order, nil
}

// Delete removes an order.
func (s *orderService) Delete(ctx context.Context, id uuid.UUID) error {
	order, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.orderRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to delete order")
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if !deleted {
		return model.ErrOrderNotFound
	}

	s.logger.Info().Str("order_id", id.String()).Msg("order deleted")
	s.publish(ctx, events.OrderDeleted, order)
	return nil
}

// Receipt reports the receipt location. Orders created before uploads were
// hosted only carry the original file name.
func (s *orderService) Receipt(ctx context.Context, id uuid.UUID) (*model.ReceiptInfo, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	info := &model.ReceiptInfo{OrderID: order.ID}
	switch {
	case order.HasReceiptLink():
		info.URL = order.ReceiptURL
	case order.ReceiptURL != "":
		info.Legacy = true
		info.Name = order.ReceiptURL
	}
	return info, nil
}

// Dashboard counts catalog records and orders per status.
func (s *orderService) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	courses, err := s.courseRepo.Count(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count courses")
		return nil, fmt.Errorf("failed to count courses: %w", err)
	}

	roadmaps, err := s.roadmapRepo.Count(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count roadmaps")
		return nil, fmt.Errorf("failed to count roadmaps: %w", err)
	}

	byStatus, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count orders")
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	orders := map[model.OrderStatus]int{
		model.StatusPending:  0,
		model.StatusApproved: 0,
		model.StatusRejected: 0,
	}
	for status, n := range byStatus {
		orders[status] = n
	}

	return &model.DashboardStats{Courses: courses, Roadmaps: roadmaps, Orders: orders}, nil
}

func (s *orderService) publish(ctx context.Context, eventType string, order *model.Order) {
	if err := s.publisher.Publish(ctx, events.NewOrderEvent(eventType, order)); err != nil {
		s.logger.Warn().Err(err).
			Str("order_id", order.ID.String()).
			Str("type", eventType).
			Msg("failed to publish order event")
	}
}

// normalizeAccessLink trims the link and requires an absolute http(s) URL
// when one is given.
func normalizeAccessLink(link string) (string, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", nil
	}

	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		verr := &model.ValidationError{}
		verr.Add("accessLink", "must be an http or https URL")
		return "", verr
	}
	return link, nil
}
