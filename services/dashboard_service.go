package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/sportsmeet/models"
	"github.com/Dosada05/sportsmeet/repositories"
	"golang.org/x/sync/errgroup"
)

type DashboardService interface {
	GetStats(ctx context.Context) (models.DashboardStats, error)
}

type dashboardService struct {
	facultyRepo repositories.FacultyRepository
	sportRepo   repositories.SportRepository
	resultRepo  repositories.ResultRepository
	mediaRepo   repositories.MediaRepository
	pointsRepo  repositories.FacultyPointsRepository
}

func NewDashboardService(
	facultyRepo repositories.FacultyRepository,
	sportRepo repositories.SportRepository,
	resultRepo repositories.ResultRepository,
	mediaRepo repositories.MediaRepository,
	pointsRepo repositories.FacultyPointsRepository,
) DashboardService {
	return &dashboardService{
		facultyRepo: facultyRepo,
		sportRepo:   sportRepo,
		resultRepo:  resultRepo,
		mediaRepo:   mediaRepo,
		pointsRepo:  pointsRepo,
	}
}

func (s *dashboardService) GetStats(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats

	g, gctx := errgroup.WithContext(ctx)
	count := func(dst *int, name string, fn func(context.Context) (int, error)) {
		g.Go(func() error {
			n, err := fn(gctx)
			if err != nil {
				return fmt.Errorf("failed to count %s: %w", name, err)
			}
			*dst = n
			return nil
		})
	}

	count(&stats.FacultiesTotal, "faculties", s.facultyRepo.Count)
	count(&stats.SportsTotal, "sports", s.sportRepo.Count)
	count(&stats.MediaTotal, "media", s.mediaRepo.Count)
	count(&stats.ResultsTotal, "results", func(ctx context.Context) (int, error) {
		return s.resultRepo.Count(ctx, false)
	})
	count(&stats.OverallResultsTotal, "overall results", func(ctx context.Context) (int, error) {
		return s.resultRepo.Count(ctx, true)
	})
	count(&stats.PointsAwarded, "points", func(ctx context.Context) (int, error) {
		points, err := s.pointsRepo.List(ctx, nil)
		if err != nil {
			return 0, err
		}
		total := 0
		for _, p := range points {
			total += p.Total()
		}
		return total, nil
	})

	if err := g.Wait(); err != nil {
		return models.DashboardStats{}, err
	}
	return stats, nil
}
