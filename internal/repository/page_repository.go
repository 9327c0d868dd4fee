package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"shams-elarab/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// pageRepository implements the PageRepository interface using PostgreSQL.
type pageRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPageRepository creates a new PostgreSQL-backed page repository.
func NewPageRepository(pool *pgxpool.Pool, logger zerolog.Logger) PageRepository {
	return &pageRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "page").Logger(),
	}
}

// GetByID retrieves a page by its ID.
func (r *pageRepository) GetByID(ctx context.Context, id string) (*model.Page, error) {
	page := &model.Page{ID: id}
	err := r.pool.QueryRow(ctx, `SELECT doc, updated_at FROM pages WHERE id = $1`, id).
		Scan(&page.Content, &page.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("page_id", id).Msg("page not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("page_id", id).Msg("failed to query page")
		return nil, fmt.Errorf("failed to query page: %w", err)
	}
	return page, nil
}

// Merge relies on the JSONB || operator, which replaces top-level keys and
// keeps the others.
func (r *pageRepository) Merge(ctx context.Context, id string, patch *model.Page) (*model.Page, error) {
	content := patch.Content
	if content == nil {
		content = map[string]json.RawMessage{}
	}
	payload, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("failed to encode page document: %w", err)
	}

	query := `
		INSERT INTO pages (id, doc, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE
		SET doc = pages.doc || EXCLUDED.doc,
		    updated_at = NOW()
		RETURNING doc, updated_at
	`

	page := &model.Page{ID: id}
	if err := r.pool.QueryRow(ctx, query, id, payload).Scan(&page.Content, &page.UpdatedAt); err != nil {
		r.logger.Error().Err(err).Str("page_id", id).Msg("failed to merge page")
		return nil, fmt.Errorf("failed to merge page: %w", err)
	}

	r.logger.Debug().Str("page_id", id).Int("keys", len(content)).Msg("page merged")
	return page, nil
}
