package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"shams-elarab/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// courseRepository implements the CourseRepository interface using PostgreSQL.
type courseRepository struct {
	docs documentTable
}

// NewCourseRepository creates a new PostgreSQL-backed course repository.
func NewCourseRepository(pool *pgxpool.Pool, logger zerolog.Logger) CourseRepository {
	return &courseRepository{
		docs: documentTable{
			pool:   pool,
			logger: logger.With().Str("repository", "course").Logger(),
			table:  "courses",
		},
	}
}

func decodeCourse(r documentRow) (model.Course, error) {
	var c model.Course
	if err := json.Unmarshal(r.doc, &c); err != nil {
		return c, fmt.Errorf("failed to decode course document: %w", err)
	}
	c.CreatedAt = r.createdAt
	c.UpdatedAt = r.updatedAt
	return c, nil
}

func decodeCourses(rows []documentRow) ([]model.Course, error) {
	courses := make([]model.Course, 0, len(rows))
	for _, r := range rows {
		c, err := decodeCourse(r)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, nil
}

// List retrieves courses ordered by creation time.
func (r *courseRepository) List(ctx context.Context, includeUnpublished bool) ([]model.Course, error) {
	rows, err := r.docs.list(ctx, includeUnpublished)
	if err != nil {
		return nil, err
	}
	return decodeCourses(rows)
}

// GetByID retrieves a single course by its ID.
func (r *courseRepository) GetByID(ctx context.Context, id string) (*model.Course, error) {
	row, err := r.docs.get(ctx, id)
	if err != nil || row == nil {
		return nil, err
	}
	c, err := decodeCourse(*row)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByIDs retrieves the courses that exist among ids.
func (r *courseRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Course, error) {
	rows, err := r.docs.getByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return decodeCourses(rows)
}

// Save inserts or replaces the course.
func (r *courseRepository) Save(ctx context.Context, course *model.Course) error {
	createdAt, updatedAt, err := r.docs.save(ctx, course.ID, course.Title, course.IsPublished, course)
	if err != nil {
		return err
	}
	course.CreatedAt = createdAt
	course.UpdatedAt = updatedAt
	return nil
}

// Delete removes a course.
func (r *courseRepository) Delete(ctx context.Context, id string) (bool, error) {
	return r.docs.delete(ctx, id)
}

// Count returns the number of stored courses.
func (r *courseRepository) Count(ctx context.Context) (int, error) {
	return r.docs.count(ctx)
}
