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

var ErrFacultyNameRequired = errors.New("faculty name is required")

type FacultyService interface {
	CreateFaculty(ctx context.Context, input FacultyInput) (*models.Faculty, error)
	GetFacultyByID(ctx context.Context, id int) (*models.Faculty, error)
	GetAllFaculties(ctx context.Context) ([]models.Faculty, error)
	UpdateFaculty(ctx context.Context, id int, input FacultyInput) (*models.Faculty, error)
	DeleteFaculty(ctx context.Context, id int) error
	UploadFacultyLogo(ctx context.Context, id int, file FileInput) (*models.Faculty, error)
}

type FacultyInput struct {
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}

type facultyService struct {
	facultyRepo repositories.FacultyRepository
	uploader    storage.FileUploader
	logger      *slog.Logger
}

func NewFacultyService(facultyRepo repositories.FacultyRepository, uploader storage.FileUploader, logger *slog.Logger) FacultyService {
	return &facultyService{
		facultyRepo: facultyRepo,
		uploader:    uploader,
		logger:      logger,
	}
}

func (s *facultyService) CreateFaculty(ctx context.Context, input FacultyInput) (*models.Faculty, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrFacultyNameRequired
	}

	faculty := &models.Faculty{
		Name:      name,
		ShortName: strings.TrimSpace(input.ShortName),
	}
	if err := s.facultyRepo.Create(ctx, faculty); err != nil {
		if errors.Is(err, repositories.ErrFacultyNameConflict) {
			return nil, ErrFacultyNameConflict
		}
		return nil, fmt.Errorf("failed to create faculty: %w", err)
	}
	return faculty, nil
}

func (s *facultyService) GetFacultyByID(ctx context.Context, id int) (*models.Faculty, error) {
	faculty, err := s.facultyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrFacultyNotFound) {
			return nil, ErrFacultyNotFound
		}
		return nil, fmt.Errorf("failed to get faculty by id %d: %w", id, err)
	}
	populateFacultyLogoURLFunc(faculty, s.uploader)
	return faculty, nil
}

func (s *facultyService) GetAllFaculties(ctx context.Context) ([]models.Faculty, error) {
	faculties, err := s.facultyRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get all faculties: %w", err)
	}
	if faculties == nil {
		return []models.Faculty{}, nil
	}
	for i := range faculties {
		populateFacultyLogoURLFunc(&faculties[i], s.uploader)
	}
	return faculties, nil
}

func (s *facultyService) UpdateFaculty(ctx context.Context, id int, input FacultyInput) (*models.Faculty, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrFacultyNameRequired
	}

	faculty := &models.Faculty{
		ID:        id,
		Name:      name,
		ShortName: strings.TrimSpace(input.ShortName),
	}
	if err := s.facultyRepo.Update(ctx, faculty); err != nil {
		switch {
		case errors.Is(err, repositories.ErrFacultyNotFound):
			return nil, ErrFacultyNotFound
		case errors.Is(err, repositories.ErrFacultyNameConflict):
			return nil, ErrFacultyNameConflict
		default:
			return nil, fmt.Errorf("failed to update faculty %d: %w", id, err)
		}
	}
	return s.GetFacultyByID(ctx, id)
}

func (s *facultyService) DeleteFaculty(ctx context.Context, id int) error {
	faculty, err := s.facultyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrFacultyNotFound) {
			return ErrFacultyNotFound
		}
		return fmt.Errorf("failed to get faculty by id %d: %w", id, err)
	}

	if err := s.facultyRepo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrFacultyNotFound):
			return ErrFacultyNotFound
		case errors.Is(err, repositories.ErrFacultyInUse):
			return ErrFacultyInUse
		default:
			return fmt.Errorf("failed to delete faculty %d: %w", id, err)
		}
	}
	deleteObjectFunc(ctx, s.uploader, faculty.LogoKey, s.logger)
	return nil
}

func (s *facultyService) UploadFacultyLogo(ctx context.Context, id int, file FileInput) (*models.Faculty, error) {
	faculty, err := s.facultyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrFacultyNotFound) {
			return nil, ErrFacultyNotFound
		}
		return nil, fmt.Errorf("failed to get faculty by id %d: %w", id, err)
	}

	key, err := uploadImageFunc(ctx, s.uploader, fmt.Sprintf("logos/faculties/%d", id), file, maxLogoSize)
	if err != nil {
		return nil, err
	}
	if err := s.facultyRepo.UpdateLogoKey(ctx, id, &key); err != nil {
		deleteObjectFunc(ctx, s.uploader, &key, s.logger)
		if errors.Is(err, repositories.ErrFacultyNotFound) {
			return nil, ErrFacultyNotFound
		}
		return nil, fmt.Errorf("failed to store logo key for faculty %d: %w", id, err)
	}

	deleteObjectFunc(ctx, s.uploader, faculty.LogoKey, s.logger)
	faculty.LogoKey = &key
	populateFacultyLogoURLFunc(faculty, s.uploader)
	return faculty, nil
}
