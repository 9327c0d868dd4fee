package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"shams-elarab/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// roadmapRepository implements the RoadmapRepository interface using PostgreSQL.
type roadmapRepository struct {
	docs documentTable
}

// NewRoadmapRepository creates a new PostgreSQL-backed roadmap repository.
func NewRoadmapRepository(pool *pgxpool.Pool, logger zerolog.Logger) RoadmapRepository {
	return &roadmapRepository{
		docs: documentTable{
			pool:   pool,
			logger: logger.With().Str("repository", "roadmap").Logger(),
			table:  "roadmaps",
		},
	}
}

func decodeRoadmap(r documentRow) (model.Roadmap, error) {
	var rm model.Roadmap
	if err := json.Unmarshal(r.doc, &rm); err != nil {
		return rm, fmt.Errorf("failed to decode roadmap document: %w", err)
	}
	rm.CreatedAt = r.createdAt
	rm.UpdatedAt = r.updatedAt
	return rm, nil
}

func (r *roadmapRepository) List(ctx context.Context, includeUnpublished bool) ([]model.Roadmap, error) {
	rows, err := r.docs.list(ctx, includeUnpublished)
	if err != nil {
		return nil, err
	}

	roadmaps := make([]model.Roadmap, 0, len(rows))
	for _, row := range rows {
		rm, err := decodeRoadmap(row)
		if err != nil {
			return nil, err
		}
		roadmaps = append(roadmaps, rm)
	}
	return roadmaps, nil
}

func (r *roadmapRepository) GetByID(ctx context.Context, id string) (*model.Roadmap, error) {
	row, err := r.docs.get(ctx, id)
	if err != nil || row == nil {
		return nil, err
	}
	rm, err := decodeRoadmap(*row)
	if err != nil {
		return nil, err
	}
	return &rm, nil
}

func (r *roadmapRepository) Save(ctx context.Context, roadmap *model.Roadmap) error {
	createdAt, updatedAt, err := r.docs.save(ctx, roadmap.ID, roadmap.Title, roadmap.IsPublished, roadmap)
	if err != nil {
		return err
	}
	roadmap.CreatedAt = createdAt
	roadmap.UpdatedAt = updatedAt
	return nil
}

func (r *roadmapRepository) Delete(ctx context.Context, id string) (bool, error) {
	return r.docs.delete(ctx, id)
}

func (r *roadmapRepository) Count(ctx context.Context) (int, error) {
	return r.docs.count(ctx)
}
