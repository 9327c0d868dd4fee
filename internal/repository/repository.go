package repository

import (
	"context"

	"shams-elarab/internal/model"

	"github.com/google/uuid"
)

// CourseRepository defines the interface for course data access operations.
type CourseRepository interface {
	// List retrieves courses oldest first. Unpublished courses
	// are only included when asked for.
	List(ctx context.Context, includeUnpublished bool) ([]model.Course, error)

	// GetByID retrieves a single course by its ID.
	GetByID(ctx context.Context, id string) (*model.Course, error)

	// GetByIDs retrieves the courses that exist among ids.
	GetByIDs(ctx context.Context, ids []string) ([]model.Course, error)

	// Save inserts the course or replaces the stored document with the same ID.
	Save(ctx context.Context, course *model.Course) error

	// Delete removes a course. It reports whether a row was deleted.
	Delete(ctx context.Context, id string) (bool, error)

	// Count returns the number of stored courses.
	Count(ctx context.Context) (int, error)
}

// RoadmapRepository defines the interface for roadmap data access operations.
type RoadmapRepository interface {
	List(ctx context.Context, includeUnpublished bool) ([]model.Roadmap, error)
	GetByID(ctx context.Context, id string) (*model.Roadmap, error)
	Save(ctx context.Context, roadmap *model.Roadmap) error
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
}

// PageRepository defines the interface for content page access.
type PageRepository interface {
	// GetByID retrieves a page by its ID.
	GetByID(ctx context.Context, id string) (*model.Page, error)

	// Merge overwrites the top-level keys of the stored document with those
	// in patch, creating the page when missing, and returns the result.
	Merge(ctx context.Context, id string, patch *model.Page) (*model.Page, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// Create inserts a new pending order and fills in the ID, version and
	// timestamps assigned by the database. When the order carries an
	// idempotency key that is already stored, the existing order is loaded
	// into order instead and created is false.
	Create(ctx context.Context, order *model.Order) (created bool, err error)

	// GetByID retrieves an order by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetByIdempotencyKey retrieves the order submitted with key.
	GetByIdempotencyKey(ctx context.Context, key string) (*model.Order, error)

	// FindLatestByPhone retrieves the most recently created order for phone.
	FindLatestByPhone(ctx context.Context, phone string) (*model.Order, error)

	// List retrieves orders newest first. An empty status lists all orders.
	List(ctx context.Context, status model.OrderStatus) ([]model.Order, error)

	// UpdateLifecycle persists order.Status and order.AccessLink provided the
	// stored row still has fromStatus and expectedVersion. On success the new
	// version and update time are written back to order.
	UpdateLifecycle(ctx context.Context, order *model.Order, fromStatus model.OrderStatus, expectedVersion int) error

	// Delete removes an order. It reports whether a row was deleted.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// CountByStatus returns the number of orders per status.
	CountByStatus(ctx context.Context) (map[model.OrderStatus]int, error)
}
