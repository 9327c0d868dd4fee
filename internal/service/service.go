package service

import (
	"context"
	"encoding/json"

	"shams-elarab/internal/media"
	"shams-elarab/internal/model"

	"github.com/google/uuid"
)

// CatalogService defines the business logic for courses and roadmaps.
type CatalogService interface {
	// ListCourses returns the catalog courses. Unpublished courses are only
	// returned to staff.
	ListCourses(ctx context.Context, includeUnpublished bool) ([]model.Course, error)

	// GetCourse returns a course or model.ErrCourseNotFound.
	GetCourse(ctx context.Context, id string, includeUnpublished bool) (*model.Course, error)

	ListRoadmaps(ctx context.Context, includeUnpublished bool) ([]model.Roadmap, error)
	GetRoadmap(ctx context.Context, id string, includeUnpublished bool) (*model.Roadmap, error)

	// GetProduct resolves a published course or roadmap by its product type.
	GetProduct(ctx context.Context, productType model.ProductType, id string) (model.Product, error)

	// Quote prices a single product the same way checkout does.
	Quote(ctx context.Context, productType model.ProductType, id string) (*model.PriceBreakdown, error)

	CreateCourse(ctx context.Context, course *model.Course) (*model.Course, error)
	UpdateCourse(ctx context.Context, id string, course *model.Course) (*model.Course, error)
	DeleteCourse(ctx context.Context, id string) error

	// CreateRoadmap validates the module course references and refreshes
	// each module's course snapshot before saving.
	CreateRoadmap(ctx context.Context, roadmap *model.Roadmap) (*model.Roadmap, error)
	UpdateRoadmap(ctx context.Context, id string, roadmap *model.Roadmap) (*model.Roadmap, error)
	DeleteRoadmap(ctx context.Context, id string) error
}

// PageService defines the business logic for content pages.
type PageService interface {
	GetPage(ctx context.Context, id string) (*model.Page, error)

	// UpdatePage merges content into the stored page.
	UpdatePage(ctx context.Context, id string, content map[string]json.RawMessage) (*model.Page, error)
}

// CheckoutResult is the outcome of a checkout submission. Replayed is true
// when the idempotency key matched an earlier submission.
type CheckoutResult struct {
	Order    *model.Order
	Replayed bool
}

// CheckoutService defines the business logic for order submission.
type CheckoutService interface {
	Submit(ctx context.Context, req *model.CheckoutRequest, receipt *media.File) (*CheckoutResult, error)
}

// OrderService defines the business logic for order review and lookup.
type OrderService interface {
	// Lookup finds an order by id or, failing that, the latest order placed
	// with the phone number.
	Lookup(ctx context.Context, query string) (*model.OrderView, error)

	// List returns orders newest first. An empty status lists every order.
	List(ctx context.Context, status string) ([]model.Order, error)

	Get(ctx context.Context, id uuid.UUID) (*model.Order, error)
	Approve(ctx context.Context, id uuid.UUID, req *model.ApproveRequest) (*model.Order, error)
	Reject(ctx context.Context, id uuid.UUID, req *model.RejectRequest) (*model.Order, error)
	UpdateAccessLink(ctx context.Context, id uuid.UUID, req *model.AccessLinkRequest) (*model.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Receipt reports where the proof of payment can be viewed.
	Receipt(ctx context.Context, id uuid.UUID) (*model.ReceiptInfo, error)

	Dashboard(ctx context.Context) (*model.DashboardStats, error)
}

// MediaService uploads catalog assets for the back-office.
type MediaService interface {
	Upload(ctx context.Context, file media.File) (*media.UploadResult, error)
}
