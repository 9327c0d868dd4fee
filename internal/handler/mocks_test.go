package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"shams-elarab/internal/media"
	"shams-elarab/internal/model"
	"shams-elarab/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// serve routes req through a chi router so URL parameters resolve.
func serve(method, pattern string, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Method(method, pattern, h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) model.ErrorResponse {
	var resp model.ErrorResponse
	_ = json.NewDecoder(w.Body).Decode(&resp)
	return resp
}

// MockCatalogService is a mock implementation of CatalogService.
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListCourses(ctx context.Context, includeUnpublished bool) ([]model.Course, error) {
	args := m.Called(ctx, includeUnpublished)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Course), args.Error(1)
}

func (m *MockCatalogService) GetCourse(ctx context.Context, id string, includeUnpublished bool) (*model.Course, error) {
	args := m.Called(ctx, id, includeUnpublished)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Course), args.Error(1)
}

func (m *MockCatalogService) ListRoadmaps(ctx context.Context, includeUnpublished bool) ([]model.Roadmap, error) {
	args := m.Called(ctx, includeUnpublished)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Roadmap), args.Error(1)
}

func (m *MockCatalogService) GetRoadmap(ctx context.Context, id string, includeUnpublished bool) (*model.Roadmap, error) {
	args := m.Called(ctx, id, includeUnpublished)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Roadmap), args.Error(1)
}

func (m *MockCatalogService) GetProduct(ctx context.Context, productType model.ProductType, id string) (model.Product, error) {
	args := m.Called(ctx, productType, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *MockCatalogService) Quote(ctx context.Context, productType model.ProductType, id string) (*model.PriceBreakdown, error) {
	args := m.Called(ctx, productType, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PriceBreakdown), args.Error(1)
}

func (m *MockCatalogService) CreateCourse(ctx context.Context, course *model.Course) (*model.Course, error) {
	args := m.Called(ctx, course)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Course), args.Error(1)
}

func (m *MockCatalogService) UpdateCourse(ctx context.Context, id string, course *model.Course) (*model.Course, error) {
	args := m.Called(ctx, id, course)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Course), args.Error(1)
}

func (m *MockCatalogService) DeleteCourse(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCatalogService) CreateRoadmap(ctx context.Context, roadmap *model.Roadmap) (*model.Roadmap, error) {
	args := m.Called(ctx, roadmap)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Roadmap), args.Error(1)
}

func (m *MockCatalogService) UpdateRoadmap(ctx context.Context, id string, roadmap *model.Roadmap) (*model.Roadmap, error) {
	args := m.Called(ctx, id, roadmap)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Roadmap), args.Error(1)
}

func (m *MockCatalogService) DeleteRoadmap(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Lookup(ctx context.Context, query string) (*model.OrderView, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderView), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context, status string) ([]model.Order, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) Get(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) Approve(ctx context.Context, id uuid.UUID, req *model.ApproveRequest) (*model.Order, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) Reject(ctx context.Context, id uuid.UUID, req *model.RejectRequest) (*model.Order, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) UpdateAccessLink(ctx context.Context, id uuid.UUID, req *model.AccessLinkRequest) (*model.Order, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOrderService) Receipt(ctx context.Context, id uuid.UUID) (*model.ReceiptInfo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReceiptInfo), args.Error(1)
}

func (m *MockOrderService) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DashboardStats), args.Error(1)
}

// MockCheckoutService is a mock implementation of CheckoutService.
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Submit(ctx context.Context, req *model.CheckoutRequest, receipt *media.File) (*service.CheckoutResult, error) {
	args := m.Called(ctx, req, receipt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CheckoutResult), args.Error(1)
}

// MockPageService is a mock implementation of PageService.
type MockPageService struct {
	mock.Mock
}

func (m *MockPageService) GetPage(ctx context.Context, id string) (*model.Page, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Page), args.Error(1)
}

func (m *MockPageService) UpdatePage(ctx context.Context, id string, content map[string]json.RawMessage) (*model.Page, error) {
	args := m.Called(ctx, id, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Page), args.Error(1)
}

// MockMediaService is a mock implementation of MediaService.
type MockMediaService struct {
	mock.Mock
}

func (m *MockMediaService) Upload(ctx context.Context, file media.File) (*media.UploadResult, error) {
	args := m.Called(ctx, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*media.UploadResult), args.Error(1)
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }
