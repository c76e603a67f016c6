package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/sportsmeet/models"
	"github.com/Dosada05/sportsmeet/repositories"
	"github.com/Dosada05/sportsmeet/storage"
)

const mediaKeyPrefix = "media"

type MediaService interface {
	UploadMedia(ctx context.Context, input UploadMediaInput) (*models.Media, error)
	ListMedia(ctx context.Context, sportID *int) ([]models.Media, error)
	DeleteMedia(ctx context.Context, id int) error
}

type UploadMediaInput struct {
	Title   string
	SportID *int
	File    FileInput
}

type mediaService struct {
	mediaRepo repositories.MediaRepository
	uploader  storage.FileUploader
	logger    *slog.Logger
}

func NewMediaService(mediaRepo repositories.MediaRepository, uploader storage.FileUploader, logger *slog.Logger) MediaService {
	return &mediaService{
		mediaRepo: mediaRepo,
		uploader:  uploader,
		logger:    logger,
	}
}

func (s *mediaService) UploadMedia(ctx context.Context, input UploadMediaInput) (*models.Media, error) {
	key, err := uploadImageFunc(ctx, s.uploader, mediaKeyPrefix, input.File, maxMediaSize)
	if err != nil {
		return nil, err
	}

	media := &models.Media{
		ObjectKey:   key,
		URL:         s.uploader.GetPublicURL(key),
		Title:       strings.TrimSpace(input.Title),
		ContentType: input.File.ContentType,
		SportID:     input.SportID,
	}
	if err := s.mediaRepo.Create(ctx, media); err != nil {
		// The row was not stored, so nothing references the uploaded object.
		deleteObjectFunc(ctx, s.uploader, &key, s.logger)
		if errors.Is(err, repositories.ErrMediaSportInvalid) {
			return nil, ErrSportNotFound
		}
		return nil, fmt.Errorf("failed to save media: %w", err)
	}

	s.logger.InfoContext(ctx, "media uploaded", slog.Int("media_id", media.ID), slog.String("key", key))
	return media, nil
}

func (s *mediaService) ListMedia(ctx context.Context, sportID *int) ([]models.Media, error) {
	items, err := s.mediaRepo.List(ctx, sportID)
	if err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}
	if items == nil {
		return []models.Media{}, nil
	}
	return items, nil
}

// DeleteMedia removes the stored object first, then the row.
func (s *mediaService) DeleteMedia(ctx context.Context, id int) error {
	media, err := s.mediaRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMediaNotFound) {
			return ErrMediaNotFound
		}
		return fmt.Errorf("failed to get media %d: %w", id, err)
	}

	if s.uploader != nil {
		if err := s.uploader.Delete(ctx, media.ObjectKey); err != nil {
			return fmt.Errorf("failed to delete media object %d: %w", id, err)
		}
	}

	if err := s.mediaRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrMediaNotFound) {
			return ErrMediaNotFound
		}
		return fmt.Errorf("failed to delete media %d: %w", id, err)
	}
	return nil
}
