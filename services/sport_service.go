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

var (
	ErrSportNameRequired    = errors.New("sport name is required")
	ErrSportNameConflict    = errors.New("sport name already exists")
	ErrSportInUse           = errors.New("sport cannot be deleted as it is currently in use")
	ErrSportInvalidCategory = errors.New("sport category must be one of team, individual, athletics, swimming")
	ErrSportCreationFailed  = errors.New("failed to create sport")
	ErrSportUpdateFailed    = errors.New("failed to update sport")
	ErrSportDeleteFailed    = errors.New("failed to delete sport")
)

type SportService interface {
	CreateSport(ctx context.Context, input CreateSportInput) (*models.Sport, error)
	GetSportByID(ctx context.Context, id int) (*models.Sport, error)
	GetAllSports(ctx context.Context) ([]models.Sport, error)
	UpdateSport(ctx context.Context, id int, input UpdateSportInput) (*models.Sport, error)
	DeleteSport(ctx context.Context, id int) error
	UploadSportLogo(ctx context.Context, id int, file FileInput) (*models.Sport, error)
}

type CreateSportInput struct {
	Name     string                `json:"name"`
	Category models.ResultCategory `json:"category"`
}

type UpdateSportInput struct {
	Name     string                `json:"name"`
	Category models.ResultCategory `json:"category"`
}

type sportService struct {
	sportRepo repositories.SportRepository
	uploader  storage.FileUploader
	logger    *slog.Logger
}

func NewSportService(sportRepo repositories.SportRepository, uploader storage.FileUploader, logger *slog.Logger) SportService {
	return &sportService{
		sportRepo: sportRepo,
		uploader:  uploader,
		logger:    logger,
	}
}

func validateSportInput(name string, category models.ResultCategory) (string, models.ResultCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", ErrSportNameRequired
	}
	if category == "" {
		category = models.CategoryTeam
	}
	if !category.Valid() {
		return "", "", ErrSportInvalidCategory
	}
	return name, category, nil
}

func (s *sportService) CreateSport(ctx context.Context, input CreateSportInput) (*models.Sport, error) {
	name, category, err := validateSportInput(input.Name, input.Category)
	if err != nil {
		return nil, err
	}

	sport := &models.Sport{
		Name:     name,
		Category: category,
	}

	err = s.sportRepo.Create(ctx, sport)
	if err != nil {
		if errors.Is(err, repositories.ErrSportNameConflict) {
			return nil, ErrSportNameConflict
		}
		return nil, fmt.Errorf("%w: %w", ErrSportCreationFailed, err)
	}

	return sport, nil
}

func (s *sportService) GetSportByID(ctx context.Context, id int) (*models.Sport, error) {
	sport, err := s.sportRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrSportNotFound) {
			return nil, ErrSportNotFound
		}
		return nil, fmt.Errorf("failed to get sport by id %d: %w", id, err)
	}
	populateSportLogoURLFunc(sport, s.uploader)
	return sport, nil
}

func (s *sportService) GetAllSports(ctx context.Context) ([]models.Sport, error) {
	sports, err := s.sportRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get all sports: %w", err)
	}
	if sports == nil {
		return []models.Sport{}, nil
	}
	for i := range sports {
		populateSportLogoURLFunc(&sports[i], s.uploader)
	}
	return sports, nil
}

func (s *sportService) UpdateSport(ctx context.Context, id int, input UpdateSportInput) (*models.Sport, error) {
	name, category, err := validateSportInput(input.Name, input.Category)
	if err != nil {
		return nil, err
	}

	sportToUpdate := &models.Sport{
		ID:       id,
		Name:     name,
		Category: category,
	}

	err = s.sportRepo.Update(ctx, sportToUpdate)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrSportNotFound):
			return nil, ErrSportNotFound
		case errors.Is(err, repositories.ErrSportNameConflict):
			return nil, ErrSportNameConflict
		default:
			return nil, fmt.Errorf("%w (id: %d): %w", ErrSportUpdateFailed, id, err)
		}
	}

	return s.GetSportByID(ctx, id)
}

func (s *sportService) DeleteSport(ctx context.Context, id int) error {
	sport, err := s.sportRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrSportNotFound) {
			return ErrSportNotFound
		}
		return fmt.Errorf("%w (id: %d): %w", ErrSportDeleteFailed, id, err)
	}

	err = s.sportRepo.Delete(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrSportNotFound):
			return ErrSportNotFound
		case errors.Is(err, repositories.ErrSportInUse):
			return ErrSportInUse
		default:
			return fmt.Errorf("%w (id: %d): %w", ErrSportDeleteFailed, id, err)
		}
	}
	deleteObjectFunc(ctx, s.uploader, sport.LogoKey, s.logger)
	return nil
}

func (s *sportService) UploadSportLogo(ctx context.Context, id int, file FileInput) (*models.Sport, error) {
	sport, err := s.sportRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrSportNotFound) {
			return nil, ErrSportNotFound
		}
		return nil, fmt.Errorf("failed to get sport by id %d: %w", id, err)
	}

	key, err := uploadImageFunc(ctx, s.uploader, fmt.Sprintf("logos/sports/%d", id), file, maxLogoSize)
	if err != nil {
		return nil, err
	}
	if err := s.sportRepo.UpdateLogoKey(ctx, id, &key); err != nil {
		deleteObjectFunc(ctx, s.uploader, &key, s.logger)
		if errors.Is(err, repositories.ErrSportNotFound) {
			return nil, ErrSportNotFound
		}
		return nil, fmt.Errorf("%w (id: %d): %w", ErrSportUpdateFailed, id, err)
	}

	deleteObjectFunc(ctx, s.uploader, sport.LogoKey, s.logger)
	sport.LogoKey = &key
	populateSportLogoURLFunc(sport, s.uploader)
	return sport, nil
}
