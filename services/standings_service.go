package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/sportsmeet/models"
	"github.com/Dosada05/sportsmeet/repositories"
	"github.com/Dosada05/sportsmeet/standings"
	"github.com/Dosada05/sportsmeet/storage"
	"golang.org/x/sync/errgroup"
)

type StandingsService interface {
	// GetStandings ranks every faculty by its total for division. Faculties
	// without points are listed with zero.
	GetStandings(ctx context.Context, division models.Division) ([]models.Standing, error)
}

type standingsService struct {
	facultyRepo repositories.FacultyRepository
	pointsRepo  repositories.FacultyPointsRepository
	uploader    storage.FileUploader
}

func NewStandingsService(facultyRepo repositories.FacultyRepository, pointsRepo repositories.FacultyPointsRepository, uploader storage.FileUploader) StandingsService {
	return &standingsService{
		facultyRepo: facultyRepo,
		pointsRepo:  pointsRepo,
		uploader:    uploader,
	}
}

func (s *standingsService) GetStandings(ctx context.Context, division models.Division) ([]models.Standing, error) {
	if division == "" {
		division = models.DivisionOverall
	}
	if !division.Valid() {
		return nil, fmt.Errorf("%w: division must be men, women or overall", ErrValidationFailed)
	}

	var (
		faculties []models.Faculty
		points    []models.FacultyPoints
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		faculties, err = s.facultyRepo.GetAll(gctx)
		if err != nil {
			return fmt.Errorf("failed to load faculties: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		points, err = s.pointsRepo.List(gctx, nil)
		if err != nil {
			return fmt.Errorf("failed to load faculty points: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byFaculty := make(map[int]models.FacultyPoints, len(points))
	for _, p := range points {
		byFaculty[p.FacultyID] = p
	}

	entries := make([]models.Standing, 0, len(faculties))
	for i := range faculties {
		f := &faculties[i]
		populateFacultyLogoURLFunc(f, s.uploader)
		p := byFaculty[f.ID]
		entries = append(entries, models.Standing{
			FacultyID:    f.ID,
			Name:         f.Name,
			ShortName:    f.ShortName,
			LogoURL:      f.LogoURL,
			MensPoints:   p.MensPoints,
			WomensPoints: p.WomensPoints,
			Points:       standings.PointsFor(p, division),
		})
	}
	return standings.Rank(entries), nil
}
