package handlers

import (
	"context"
	"errors"
	"io"

	"github.com/Dosada05/sportsmeet/models"
	"github.com/Dosada05/sportsmeet/services"
)

type fakePointsService struct {
	gotResultID int
	gotPolicy   *models.PointsPolicy
	gotReplace  services.ReplacePlacementsInput

	alloc   *models.PointsAllocation
	outcome *services.DeleteResultOutcome
	result  *models.Result
	err     error
}

func (f *fakePointsService) ApplyPointsForResult(_ context.Context, id int, policy *models.PointsPolicy) (*models.PointsAllocation, error) {
	f.gotResultID, f.gotPolicy = id, policy
	return f.alloc, f.err
}

func (f *fakePointsService) RemovePointsForResult(_ context.Context, id int, policy *models.PointsPolicy) (*models.PointsAllocation, error) {
	f.gotResultID, f.gotPolicy = id, policy
	return f.alloc, f.err
}

func (f *fakePointsService) ReplacePlacementsAndReapply(_ context.Context, id int, input services.ReplacePlacementsInput) (*models.Result, error) {
	f.gotResultID, f.gotReplace = id, input
	return f.result, f.err
}

func (f *fakePointsService) DeleteResult(_ context.Context, id int) (*services.DeleteResultOutcome, error) {
	f.gotResultID = id
	return f.outcome, f.err
}

func (f *fakePointsService) RecalculateAll(context.Context) (*services.RecalculateOutcome, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &services.RecalculateOutcome{ResultsProcessed: 3, ResultsApplied: 2}, nil
}

type fakeResultService struct {
	gotFilter models.ResultFilter
	gotCreate services.CreateResultInput
	result    *models.Result
	err       error
}

func (f *fakeResultService) CreateResult(_ context.Context, input services.CreateResultInput) (*models.Result, error) {
	f.gotCreate = input
	return f.result, f.err
}

func (f *fakeResultService) GetResult(context.Context, int) (*models.Result, error) {
	return f.result, f.err
}

func (f *fakeResultService) ListResults(_ context.Context, filter models.ResultFilter) ([]models.Result, error) {
	f.gotFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	if f.result == nil {
		return []models.Result{}, nil
	}
	return []models.Result{*f.result}, nil
}

func (f *fakeResultService) UpdateResult(context.Context, int, services.UpdateResultInput) (*models.Result, error) {
	return f.result, f.err
}

type fakeStandingsService struct {
	gotDivision models.Division
}

func (f *fakeStandingsService) GetStandings(_ context.Context, division models.Division) ([]models.Standing, error) {
	f.gotDivision = division
	return []models.Standing{
		{Rank: 1, FacultyID: 2, Name: "Science", MensPoints: 10, WomensPoints: 6, Points: 16},
		{Rank: 2, FacultyID: 1, Name: "Engineering", MensPoints: 8, Points: 8},
	}, nil
}

type fakeMediaService struct {
	gotInput services.UploadMediaInput
	gotBody  string
	err      error
}

func (f *fakeMediaService) UploadMedia(_ context.Context, input services.UploadMediaInput) (*models.Media, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.gotInput = input
	body, _ := io.ReadAll(input.File.Reader)
	f.gotBody = string(body)
	return &models.Media{ID: 7, Title: input.Title, SportID: input.SportID, URL: "https://cdn.example.com/media/x.png"}, nil
}

func (f *fakeMediaService) ListMedia(context.Context, *int) ([]models.Media, error) {
	return []models.Media{}, nil
}

func (f *fakeMediaService) DeleteMedia(_ context.Context, id int) error {
	if id == 404 {
		return services.ErrMediaNotFound
	}
	return nil
}

type fakeAuthService struct{}

func (fakeAuthService) Login(_ context.Context, input services.LoginInput) (*models.User, error) {
	if input.Email == "admin@example.com" && input.Password == "secret123" {
		return &models.User{ID: 42, Email: input.Email, Name: "Admin", Role: models.RoleAdmin}, nil
	}
	return nil, services.ErrInvalidCredentials
}

func (fakeAuthService) EnsureAdmin(context.Context, services.AdminInput) (*models.User, error) {
	return nil, errors.New("not used")
}

type stubPinger struct {
	err error
}

func (p stubPinger) PingContext(context.Context) error {
	return p.err
}
