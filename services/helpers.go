package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Dosada05/sportsmeet/models"
	"github.com/Dosada05/sportsmeet/storage"
)

const (
	maxLogoSize  = 5 << 20
	maxMediaSize = 10 << 20
)

// FileInput is an uploaded file as received from a multipart form.
type FileInput struct {
	Reader      io.Reader
	ContentType string
	Size        int64
}

func populateFacultyLogoURLFunc(faculty *models.Faculty, uploader storage.FileUploader) {
	if faculty != nil && faculty.LogoKey != nil && *faculty.LogoKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*faculty.LogoKey)
		if url != "" {
			faculty.LogoURL = &url
		}
	}
}

func populateSportLogoURLFunc(sport *models.Sport, uploader storage.FileUploader) {
	if sport != nil && sport.LogoKey != nil && *sport.LogoKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*sport.LogoKey)
		if url != "" {
			sport.LogoURL = &url
		}
	}
}

// GetExtensionFromContentType maps an image content type to a file extension.
func GetExtensionFromContentType(contentType string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	case "image/svg+xml":
		return ".svg", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMediaType, contentType)
	}
}

// uploadImageFunc checks and stores an image under prefix and returns its object key.
func uploadImageFunc(ctx context.Context, uploader storage.FileUploader, prefix string, file FileInput, maxSize int64) (string, error) {
	if uploader == nil {
		return "", ErrUploadsDisabled
	}
	if file.Reader == nil {
		return "", fmt.Errorf("%w: file is required", ErrValidationFailed)
	}
	if file.Size > maxSize {
		return "", fmt.Errorf("%w: %d bytes, limit is %d", ErrFileTooLarge, file.Size, maxSize)
	}
	ext, err := GetExtensionFromContentType(file.ContentType)
	if err != nil {
		return "", err
	}

	key := storage.NewObjectKey(prefix, ext)
	if _, err := uploader.Upload(ctx, key, file.ContentType, file.Reader); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return key, nil
}

// deleteObjectFunc removes a replaced or orphaned object. Failures only leave
// garbage in the bucket, so they are logged.
func deleteObjectFunc(ctx context.Context, uploader storage.FileUploader, key *string, logger *slog.Logger) {
	if uploader == nil || key == nil || *key == "" {
		return
	}
	if err := uploader.Delete(ctx, *key); err != nil && logger != nil {
		logger.WarnContext(ctx, "failed to delete stored object", slog.String("key", *key), slog.Any("error", err))
	}
}
