package service

import (
	"context"
	"fmt"

	"shams-elarab/internal/media"
	"shams-elarab/internal/model"

	"github.com/rs/zerolog"
)

type mediaService struct {
	uploader media.Uploader
	logger   zerolog.Logger
}

// NewMediaService creates the service behind catalog asset uploads.
func NewMediaService(uploader media.Uploader, logger zerolog.Logger) MediaService {
	return &mediaService{
		uploader: uploader,
		logger:   logger.With().Str("service", "media").Logger(),
	}
}

// Upload stores an image or a video under the catalog folder.
func (s *mediaService) Upload(ctx context.Context, file media.File) (*media.UploadResult, error) {
	verr := &model.ValidationError{}
	switch {
	case file.Body == nil || file.Size == 0:
		verr.Add("file", "is required")
	case media.ResourceType(file.ContentType) == media.ResourceRaw:
		verr.Add("file", "must be an image or a video")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	result, err := s.uploader.Upload(ctx, media.FolderCatalog, file)
	if err != nil {
		s.logger.Error().Err(err).Str("name", file.Name).Msg("catalog upload failed")
		return nil, fmt.Errorf("%w: %w", model.ErrUploadFailed, err)
	}

	s.logger.Info().
		Str("identifier", result.Identifier).
		Str("resource_type", result.ResourceType).
		Int64("size", file.Size).
		Msg("catalog asset uploaded")
	return result, nil
}
