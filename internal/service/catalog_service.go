package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shams-elarab/internal/cache"
	"shams-elarab/internal/model"
	"shams-elarab/internal/pricing"
	"shams-elarab/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Cache keys. Every write drops the list keys and the record key.
const (
	keyCoursesPublished  = "courses:published"
	keyCoursesAll        = "courses:all"
	keyRoadmapsPublished = "roadmaps:published"
	keyRoadmapsAll       = "roadmaps:all"
)

func courseKey(id string) string  { return "course:" + id }
func roadmapKey(id string) string { return "roadmap:" + id }

func listKey(published, all string, includeUnpublished bool) string {
	if includeUnpublished {
		return all
	}
	return published
}

// catalogService implements CatalogService.
type catalogService struct {
	courseRepo  repository.CourseRepository
	roadmapRepo repository.RoadmapRepository
	cache       cache.Cache
	logger      zerolog.Logger
}

// NewCatalogService creates a new catalog service. Pass cache.NewNop() to
// read straight from the repositories.
func NewCatalogService(
	courseRepo repository.CourseRepository,
	roadmapRepo repository.RoadmapRepository,
	c cache.Cache,
	logger zerolog.Logger,
) CatalogService {
	return &catalogService{
		courseRepo:  courseRepo,
		roadmapRepo: roadmapRepo,
		cache:       c,
		logger:      logger.With().Str("service", "catalog").Logger(),
	}
}

// cached serves key from the cache or loads and stores it. Cache failures
// degrade to a direct load.
func cached[T any](ctx context.Context, s *catalogService, key string, load func() (T, error)) (T, error) {
	var value T
	hit, err := s.cache.Get(ctx, key, &value)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}
	if hit {
		return value, nil
	}

	value, err = load()
	if err != nil {
		return value, err
	}

	if err := s.cache.Set(ctx, key, value); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	return value, nil
}

func (s *catalogService) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn().Err(err).Strs("keys", keys).Msg("cache invalidation failed")
	}
}

// ListCourses retrieves courses in creation order, oldest first.
func (s *catalogService) ListCourses(ctx context.Context, includeUnpublished bool) ([]model.Course, error) {
	key := listKey(keyCoursesPublished, keyCoursesAll, includeUnpublished)
	courses, err := cached(ctx, s, key, func() ([]model.Course, error) {
		return s.courseRepo.List(ctx, includeUnpublished)
	})
	if err != nil {
		s.logger.Error().Err(err).Bool("include_unpublished", includeUnpublished).Msg("failed to list courses")
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

// GetCourse retrieves a single course.
func (s *catalogService) GetCourse(ctx context.Context, id string, includeUnpublished bool) (*model.Course, error) {
	if id == "" {
		return nil, model.ErrCourseNotFound
	}

	course, err := cached(ctx, s, courseKey(id), func() (*model.Course, error) {
		course, err := s.courseRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if course == nil {
			return nil, model.ErrCourseNotFound
		}
		return course, nil
	})
	if errors.Is(err, model.ErrCourseNotFound) {
		s.logger.Debug().Str("course_id", id).Msg("course not found")
		return nil, err
	}
	if err != nil {
		s.logger.Error().Err(err).Str("course_id", id).Msg("failed to get course")
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if !course.IsPublished && !includeUnpublished {
		return nil, model.ErrCourseNotFound
	}
	return course, nil
}

// ListRoadmaps retrieves roadmaps in creation order, oldest first.
func (s *catalogService) ListRoadmaps(ctx context.Context, includeUnpublished bool) ([]model.Roadmap, error) {
	key := listKey(keyRoadmapsPublished, keyRoadmapsAll, includeUnpublished)
	roadmaps, err := cached(ctx, s, key, func() ([]model.Roadmap, error) {
		return s.roadmapRepo.List(ctx, includeUnpublished)
	})
	if err != nil {
		s.logger.Error().Err(err).Bool("include_unpublished", includeUnpublished).Msg("failed to list roadmaps")
		return nil, fmt.Errorf("failed to list roadmaps: %w", err)
	}
	return roadmaps, nil
}

// GetRoadmap retrieves a single roadmap.
func (s *catalogService) GetRoadmap(ctx context.Context, id string, includeUnpublished bool) (*model.Roadmap, error) {
	if id == "" {
		return nil, model.ErrRoadmapNotFound
	}

	roadmap, err := cached(ctx, s, roadmapKey(id), func() (*model.Roadmap, error) {
		roadmap, err := s.roadmapRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if roadmap == nil {
			return nil, model.ErrRoadmapNotFound
		}
		return roadmap, nil
	})
	if errors.Is(err, model.ErrRoadmapNotFound) {
		s.logger.Debug().Str("roadmap_id", id).Msg("roadmap not found")
		return nil, err
	}
	if err != nil {
		s.logger.Error().Err(err).Str("roadmap_id", id).Msg("failed to get roadmap")
		return nil, fmt.Errorf("failed to get roadmap: %w", err)
	}

	if !roadmap.IsPublished && !includeUnpublished {
		return nil, model.ErrRoadmapNotFound
	}
	return roadmap, nil
}

// GetProduct resolves a published product. A "track" is a roadmap.
func (s *catalogService) GetProduct(ctx context.Context, productType model.ProductType, id string) (model.Product, error) {
	switch productType {
	case model.ProductTypeCourse:
		course, err := s.GetCourse(ctx, id, false)
		if err != nil {
			return nil, err
		}
		return *course, nil
	case model.ProductTypeTrack:
		roadmap, err := s.GetRoadmap(ctx, id, false)
		if err != nil {
			return nil, err
		}
		return *roadmap, nil
	default:
		return nil, model.ErrInvalidProductType
	}
}

// Quote prices a single product.
func (s *catalogService) Quote(ctx context.Context, productType model.ProductType, id string) (*model.PriceBreakdown, error) {
	product, err := s.GetProduct(ctx, productType, id)
	if err != nil {
		return nil, err
	}

	breakdown, err := pricing.Calculate(product)
	if err != nil {
		s.logger.Warn().Err(err).Str("product_id", id).Msg("failed to price product")
		return nil, err
	}
	return &breakdown, nil
}

// CreateCourse stores a new course. A missing ID is generated.
func (s *catalogService) CreateCourse(ctx context.Context, course *model.Course) (*model.Course, error) {
	course.ID = strings.TrimSpace(course.ID)
	if course.ID == "" {
		course.ID = uuid.NewString()
	} else if err := s.ensureCourseIDFree(ctx, course.ID); err != nil {
		return nil, err
	}

	if err := course.Validate(); err != nil {
		s.logger.Warn().Err(err).Str("course_id", course.ID).Msg("course validation failed")
		return nil, err
	}

	if err := s.courseRepo.Save(ctx, course); err != nil {
		s.logger.Error().Err(err).Str("course_id", course.ID).Msg("failed to create course")
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.invalidate(ctx, keyCoursesPublished, keyCoursesAll, courseKey(course.ID))
	s.logger.Info().Str("course_id", course.ID).Msg("course created")
	return course, nil
}

func (s *catalogService) ensureCourseIDFree(ctx context.Context, id string) error {
	existing, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check course id: %w", err)
	}
	if existing != nil {
		verr := &model.ValidationError{}
		verr.Add("id", "is already in use")
		return verr
	}
	return nil
}

// UpdateCourse replaces the course stored under id.
func (s *catalogService) UpdateCourse(ctx context.Context, id string, course *model.Course) (*model.Course, error) {
	existing, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("course_id", id).Msg("failed to load course for update")
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if existing == nil {
		return nil, model.ErrCourseNotFound
	}

	course.ID = id
	if err := course.Validate(); err != nil {
		s.logger.Warn().Err(err).Str("course_id", id).Msg("course validation failed")
		return nil, err
	}

	if err := s.courseRepo.Save(ctx, course); err != nil {
		s.logger.Error().Err(err).Str("course_id", id).Msg("failed to update course")
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	s.invalidate(ctx, keyCoursesPublished, keyCoursesAll, courseKey(id))
	s.logger.Info().Str("course_id", id).Msg("course updated")
	return course, nil
}

// DeleteCourse removes a course. Roadmap modules keep their snapshot of it.
func (s *catalogService) DeleteCourse(ctx context.Context, id string) error {
	deleted, err := s.courseRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("course_id", id).Msg("failed to delete course")
		return fmt.Errorf("failed to delete course: %w", err)
	}
	if !deleted {
		return model.ErrCourseNotFound
	}

	s.invalidate(ctx, keyCoursesPublished, keyCoursesAll, courseKey(id))
	s.logger.Info().Str("course_id", id).Msg("course deleted")
	return nil
}

// CreateRoadmap stores a new roadmap. A missing ID is generated.
func (s *catalogService) CreateRoadmap(ctx context.Context, roadmap *model.Roadmap) (*model.Roadmap, error) {
	roadmap.ID = strings.TrimSpace(roadmap.ID)
	if roadmap.ID == "" {
		roadmap.ID = uuid.NewString()
	} else {
		existing, err := s.roadmapRepo.GetByID(ctx, roadmap.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check roadmap id: %w", err)
		}
		if existing != nil {
			verr := &model.ValidationError{}
			verr.Add("id", "is already in use")
			return nil, verr
		}
	}

	if err := s.prepareRoadmap(ctx, roadmap); err != nil {
		return nil, err
	}

	if err := s.roadmapRepo.Save(ctx, roadmap); err != nil {
		s.logger.Error().Err(err).Str("roadmap_id", roadmap.ID).Msg("failed to create roadmap")
		return nil, fmt.Errorf("failed to create roadmap: %w", err)
	}

	s.invalidate(ctx, keyRoadmapsPublished, keyRoadmapsAll, roadmapKey(roadmap.ID))
	s.logger.Info().Str("roadmap_id", roadmap.ID).Int("modules", len(roadmap.Modules)).Msg("roadmap created")
	return roadmap, nil
}

// UpdateRoadmap replaces the roadmap stored under id.
func (s *catalogService) UpdateRoadmap(ctx context.Context, id string, roadmap *model.Roadmap) (*model.Roadmap, error) {
	existing, err := s.roadmapRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("roadmap_id", id).Msg("failed to load roadmap for update")
		return nil, fmt.Errorf("failed to get roadmap: %w", err)
	}
	if existing == nil {
		return nil, model.ErrRoadmapNotFound
	}

	roadmap.ID = id
	if err := s.prepareRoadmap(ctx, roadmap); err != nil {
		return nil, err
	}

	if err := s.roadmapRepo.Save(ctx, roadmap); err != nil {
		s.logger.Error().Err(err).Str("roadmap_id", id).Msg("failed to update roadmap")
		return nil, fmt.Errorf("failed to update roadmap: %w", err)
	}

	s.invalidate(ctx, keyRoadmapsPublished, keyRoadmapsAll, roadmapKey(id))
	s.logger.Info().Str("roadmap_id", id).Int("modules", len(roadmap.Modules)).Msg("roadmap updated")
	return roadmap, nil
}

// prepareRoadmap validates the roadmap, checks that every module references
// an existing course and refreshes the module snapshots from those courses.
func (s *catalogService) prepareRoadmap(ctx context.Context, roadmap *model.Roadmap) error {
	if err := roadmap.Validate(); err != nil {
		s.logger.Warn().Err(err).Str("roadmap_id", roadmap.ID).Msg("roadmap validation failed")
		return err
	}

	if len(roadmap.Modules) == 0 {
		return nil
	}

	courses, err := s.courseRepo.GetByIDs(ctx, roadmap.CourseIDs())
	if err != nil {
		s.logger.Error().Err(err).Str("roadmap_id", roadmap.ID).Msg("failed to load module courses")
		return fmt.Errorf("failed to load module courses: %w", err)
	}

	byID := make(map[string]model.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}

	for i := range roadmap.Modules {
		m := &roadmap.Modules[i]
		course, ok := byID[m.CourseID]
		if !ok {
			s.logger.Warn().
				Str("roadmap_id", roadmap.ID).
				Str("course_id", m.CourseID).
				Msg("roadmap module references unknown course")
			return fmt.Errorf("%w: %s", model.ErrUnknownModuleCourse, m.CourseID)
		}
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		m.Title = course.Title
		m.Image = course.Media.Thumbnail
		m.Level = course.Meta.Level
	}
	return nil
}

// DeleteRoadmap removes a roadmap.
func (s *catalogService) DeleteRoadmap(ctx context.Context, id string) error {
	deleted, err := s.roadmapRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("roadmap_id", id).Msg("failed to delete roadmap")
		return fmt.Errorf("failed to delete roadmap: %w", err)
	}
	if !deleted {
		return model.ErrRoadmapNotFound
	}

	s.invalidate(ctx, keyRoadmapsPublished, keyRoadmapsAll, roadmapKey(id))
	s.logger.Info().Str("roadmap_id", id).Msg("roadmap deleted")
	return nil
}
