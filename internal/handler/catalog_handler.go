package handler

import (
	"net/http"
	"strconv"

	"shams-elarab/internal/model"
	"shams-elarab/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// CatalogHandler handles course, roadmap and quote requests.
type CatalogHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(service service.CatalogService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger.With().Str("handler", "catalog").Logger(),
	}
}

// includeUnpublished reads the staff-only ?includeUnpublished flag.
func includeUnpublished(r *http.Request) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get("includeUnpublished"))
	return v
}

// ListCourses handles GET /api/courses.
func (h *CatalogHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	h.listCourses(w, r, false)
}

// AdminListCourses handles GET /api/admin/courses.
func (h *CatalogHandler) AdminListCourses(w http.ResponseWriter, r *http.Request) {
	h.listCourses(w, r, includeUnpublished(r))
}

func (h *CatalogHandler) listCourses(w http.ResponseWriter, r *http.Request, all bool) {
	courses, err := h.service.ListCourses(r.Context(), all)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if courses == nil {
		courses = []model.Course{}
	}
	writeJSON(w, http.StatusOK, courses)
}

// GetCourse handles GET /api/courses/{id}.
func (h *CatalogHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	h.getCourse(w, r, false)
}

// AdminGetCourse handles GET /api/admin/courses/{id}.
func (h *CatalogHandler) AdminGetCourse(w http.ResponseWriter, r *http.Request) {
	h.getCourse(w, r, true)
}

func (h *CatalogHandler) getCourse(w http.ResponseWriter, r *http.Request, all bool) {
	course, err := h.service.GetCourse(r.Context(), chi.URLParam(r, "id"), all)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

// ListRoadmaps handles GET /api/roadmaps.
func (h *CatalogHandler) ListRoadmaps(w http.ResponseWriter, r *http.Request) {
	h.listRoadmaps(w, r, false)
}

// AdminListRoadmaps handles GET /api/admin/roadmaps.
func (h *CatalogHandler) AdminListRoadmaps(w http.ResponseWriter, r *http.Request) {
	h.listRoadmaps(w, r, includeUnpublished(r))
}

func (h *CatalogHandler) listRoadmaps(w http.ResponseWriter, r *http.Request, all bool) {
	roadmaps, err := h.service.ListRoadmaps(r.Context(), all)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if roadmaps == nil {
		roadmaps = []model.Roadmap{}
	}
	writeJSON(w, http.StatusOK, roadmaps)
}

// GetRoadmap handles GET /api/roadmaps/{id}.
func (h *CatalogHandler) GetRoadmap(w http.ResponseWriter, r *http.Request) {
	h.getRoadmap(w, r, false)
}

// AdminGetRoadmap handles GET /api/admin/roadmaps/{id}.
func (h *CatalogHandler) AdminGetRoadmap(w http.ResponseWriter, r *http.Request) {
	h.getRoadmap(w, r, true)
}

func (h *CatalogHandler) getRoadmap(w http.ResponseWriter, r *http.Request, all bool) {
	roadmap, err := h.service.GetRoadmap(r.Context(), chi.URLParam(r, "id"), all)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, roadmap)
}

// Quote handles GET /api/quote?type=course|track&id=...
func (h *CatalogHandler) Quote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	productType := model.ProductType(q.Get("type"))
	id := q.Get("id")

	if !productType.Valid() {
		writeServiceError(w, model.ErrInvalidProductType, h.logger)
		return
	}
	if id == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "product id is required", h.logger)
		return
	}

	breakdown, err := h.service.Quote(r.Context(), productType, id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

// CreateCourse handles POST /api/admin/courses.
func (h *CatalogHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var course model.Course
	if !decodeJSON(w, r, &course, h.logger) {
		return
	}

	created, err := h.service.CreateCourse(r.Context(), &course)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateCourse handles PUT /api/admin/courses/{id}.
func (h *CatalogHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	var course model.Course
	if !decodeJSON(w, r, &course, h.logger) {
		return
	}

	updated, err := h.service.UpdateCourse(r.Context(), chi.URLParam(r, "id"), &course)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteCourse handles DELETE /api/admin/courses/{id}.
func (h *CatalogHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCourse(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateRoadmap handles POST /api/admin/roadmaps.
func (h *CatalogHandler) CreateRoadmap(w http.ResponseWriter, r *http.Request) {
	var roadmap model.Roadmap
	if !decodeJSON(w, r, &roadmap, h.logger) {
		return
	}

	created, err := h.service.CreateRoadmap(r.Context(), &roadmap)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateRoadmap handles PUT /api/admin/roadmaps/{id}.
func (h *CatalogHandler) UpdateRoadmap(w http.ResponseWriter, r *http.Request) {
	var roadmap model.Roadmap
	if !decodeJSON(w, r, &roadmap, h.logger) {
		return
	}

	updated, err := h.service.UpdateRoadmap(r.Context(), chi.URLParam(r, "id"), &roadmap)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteRoadmap handles DELETE /api/admin/roadmaps/{id}.
func (h *CatalogHandler) DeleteRoadmap(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteRoadmap(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
