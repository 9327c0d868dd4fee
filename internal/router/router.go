package router

import (
	"net/http"
	"time"

	"shams-elarab/internal/auth"
	"shams-elarab/internal/handler"
	"shams-elarab/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Health   *handler.HealthHandler
	Catalog  *handler.CatalogHandler
	Pages    *handler.PageHandler
	Checkout *handler.CheckoutHandler
	Orders   *handler.OrderHandler
	Media    *handler.MediaHandler
}

// New creates a new HTTP router with all routes and middleware configured.
// Routes under /api/admin require a staff token.
func New(h Handlers, verifier *auth.Verifier, requestTimeout time.Duration, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Recovery -> RequestID -> Logging -> CORS -> Timeout
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/health", h.Health.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/courses", h.Catalog.ListCourses)
		r.Get("/courses/{id}", h.Catalog.GetCourse)
		r.Get("/roadmaps", h.Catalog.ListRoadmaps)
		r.Get("/roadmaps/{id}", h.Catalog.GetRoadmap)
		r.Get("/quote", h.Catalog.Quote)
		r.Get("/pages/{id}", h.Pages.Get)

		r.Post("/checkout", h.Checkout.Submit)
		r.Get("/orders/track", h.Orders.Track)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.StaffAuth(verifier, logger))

			r.Get("/dashboard", h.Orders.Dashboard)

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", h.Orders.List)
				r.Get("/{id}", h.Orders.GetByID)
				r.Get("/{id}/receipt", h.Orders.Receipt)
				r.Post("/{id}/approve", h.Orders.Approve)
				r.Post("/{id}/reject", h.Orders.Reject)
				r.Put("/{id}/access-link", h.Orders.UpdateAccessLink)
				r.Delete("/{id}", h.Orders.Delete)
			})

			r.Route("/courses", func(r chi.Router) {
				r.Get("/", h.Catalog.AdminListCourses)
				r.Post("/", h.Catalog.CreateCourse)
				r.Get("/{id}", h.Catalog.AdminGetCourse)
				r.Put("/{id}", h.Catalog.UpdateCourse)
				r.Delete("/{id}", h.Catalog.DeleteCourse)
			})

			r.Route("/roadmaps", func(r chi.Router) {
				r.Get("/", h.Catalog.AdminListRoadmaps)
				r.Post("/", h.Catalog.CreateRoadmap)
				r.Get("/{id}", h.Catalog.AdminGetRoadmap)
				r.Put("/{id}", h.Catalog.UpdateRoadmap)
				r.Delete("/{id}", h.Catalog.DeleteRoadmap)
			})

			r.Put("/pages/{id}", h.Pages.Update)
			r.Post("/uploads", h.Media.Upload)
		})
	})

	return r
}
