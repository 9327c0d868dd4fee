package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"shams-elarab/internal/model"
	"shams-elarab/internal/repository"

	"github.com/rs/zerolog"
)

type pageService struct {
	pageRepo repository.PageRepository
	logger   zerolog.Logger
}

// NewPageService creates a new page service.
func NewPageService(pageRepo repository.PageRepository, logger zerolog.Logger) PageService {
	return &pageService{
		pageRepo: pageRepo,
		logger:   logger.With().Str("service", "page").Logger(),
	}
}

func (s *pageService) GetPage(ctx context.Context, id string) (*model.Page, error) {
	page, err := s.pageRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("page_id", id).Msg("failed to get page")
		return nil, fmt.Errorf("failed to get page: %w", err)
	}
	if page == nil {
		return nil, model.ErrPageNotFound
	}
	return page, nil
}

// UpdatePage overwrites the top-level keys in content and keeps the others.
func (s *pageService) UpdatePage(ctx context.Context, id string, content map[string]json.RawMessage) (*model.Page, error) {
	verr := &model.ValidationError{}
	if strings.TrimSpace(id) == "" {
		verr.Add("id", "is required")
	}
	if len(content) == 0 {
		verr.Add("content", "must contain at least one key")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	page, err := s.pageRepo.Merge(ctx, id, &model.Page{ID: id, Content: content})
	if err != nil {
		s.logger.Error().Err(err).Str("page_id", id).Msg("failed to update page")
		return nil, fmt.Errorf("failed to update page: %w", err)
	}

	s.logger.Info().Str("page_id", id).Int("keys", len(content)).Msg("page updated")
	return page, nil
}
