package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/sportsmeet/models"
	"github.com/Dosada05/sportsmeet/repositories"
	"github.com/Dosada05/sportsmeet/standings"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type ResultService interface {
	CreateResult(ctx context.Context, input CreateResultInput) (*models.Result, error)
	GetResult(ctx context.Context, id int) (*models.Result, error)
	ListResults(ctx context.Context, filter models.ResultFilter) ([]models.Result, error)
	// UpdateResult changes the result's attributes. Label, gender or policy
	// changes move its points, so the stored allocation is reversed first and
	// the new one applied in the same transaction.
	UpdateResult(ctx context.Context, id int, input UpdateResultInput) (*models.Result, error)
}

type CreateResultInput struct {
	Event        *string               `json:"event"`
	SportID      int                   `json:"sport_id"`
	Category     models.ResultCategory `json:"category"`
	Gender       models.Gender         `json:"gender"`
	EventDate    string                `json:"event_date"`
	EventTime    *string               `json:"event_time"`
	CustomPoints models.CustomPoints   `json:"custom_points"`
	PointsMode   models.PointsMode     `json:"points_mode"`
	Placements   []PlacementInput      `json:"placements"`
	Participants []ParticipantInput    `json:"participants"`
}

// UpdateResultInput is a partial update; nil fields keep their stored value.
type UpdateResultInput struct {
	Event        *string                `json:"event"`
	SportID      *int                   `json:"sport_id"`
	Category     *models.ResultCategory `json:"category"`
	Gender       *models.Gender         `json:"gender"`
	EventDate    *string                `json:"event_date"`
	EventTime    *string                `json:"event_time"`
	CustomPoints models.CustomPoints    `json:"custom_points"`
	PointsMode   *models.PointsMode     `json:"points_mode"`
}

type resultService struct {
	engine      *pointsEngine
	sportRepo   repositories.SportRepository
	defaultMode models.PointsMode
}

// NewResultService returns the results CRUD service. defaultMode applies to
// new results created without an explicit points mode.
func NewResultService(deps PointsDeps, sportRepo repositories.SportRepository, defaultMode models.PointsMode) ResultService {
	if !defaultMode.Valid() {
		defaultMode = models.PointsModeOverallOnly
	}
	return &resultService{
		engine:      newPointsEngine(deps),
		sportRepo:   sportRepo,
		defaultMode: defaultMode,
	}
}

func normalizeEvent(event *string) *string {
	if event == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*event)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func parseEventDate(raw string) (time.Time, error) {
	date, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: event_date must be YYYY-MM-DD", ErrValidationFailed)
	}
	return date, nil
}

func normalizeEventTime(raw *string) (*string, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	t, err := time.Parse(timeLayout, strings.TrimSpace(*raw))
	if err != nil {
		return nil, fmt.Errorf("%w: event_time must be HH:MM", ErrValidationFailed)
	}
	formatted := t.Format(timeLayout)
	return &formatted, nil
}

func validateResultAttributes(result *models.Result) error {
	if result.SportID <= 0 {
		return fmt.Errorf("%w: sport_id is required", ErrValidationFailed)
	}
	if !result.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrValidationFailed, result.Category)
	}
	if !result.Gender.Valid() {
		return fmt.Errorf("%w: unknown gender %q", ErrValidationFailed, result.Gender)
	}
	return validatePolicy(result.Policy())
}

func mapResultRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrResultNotFound):
		return ErrResultNotFound
	case errors.Is(err, repositories.ErrResultSportInvalid):
		return ErrSportNotFound
	case errors.Is(err, repositories.ErrResultCheckFailed):
		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}
	return err
}

func (s *resultService) CreateResult(ctx context.Context, input CreateResultInput) (*models.Result, error) {
	e := s.engine

	eventDate, err := parseEventDate(input.EventDate)
	if err != nil {
		return nil, err
	}
	eventTime, err := normalizeEventTime(input.EventTime)
	if err != nil {
		return nil, err
	}

	result := &models.Result{
		Event:        normalizeEvent(input.Event),
		SportID:      input.SportID,
		Category:     input.Category,
		Gender:       input.Gender,
		EventDate:    eventDate,
		EventTime:    eventTime,
		CustomPoints: input.CustomPoints,
		PointsMode:   input.PointsMode,
	}
	if len(result.CustomPoints) == 0 {
		result.CustomPoints = nil
	}
	if result.PointsMode == "" {
		result.PointsMode = s.defaultMode
	}
	if err := validateResultAttributes(result); err != nil {
		return nil, err
	}

	placements, err := normalizePlacements(0, input.Placements)
	if err != nil {
		return nil, err
	}
	participants, err := normalizeParticipants(0, input.Participants)
	if err != nil {
		return nil, err
	}

	var alloc *models.PointsAllocation
	err = e.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := e.resultRepo.Create(ctx, exec, result); err != nil {
			return mapResultRepoError(err)
		}
		for i := range placements {
			placements[i].ResultID = result.ID
		}
		for i := range participants {
			participants[i].ResultID = result.ID
		}

		if err := e.storeEntries(ctx, exec, result.ID, placements, participants); err != nil {
			return err
		}
		var err error
		if alloc, err = standings.Allocate(result, placements, participants, result.Policy()); err != nil {
			return err
		}
		if err := e.writeAllocation(ctx, exec, alloc, false); err != nil {
			return err
		}
		if err := e.markApplied(ctx, exec, result, alloc); err != nil {
			return err
		}
		return e.loadEntries(ctx, exec, result)
	})

	e.observe(OpCreateResult, err)
	if err != nil {
		e.logger.ErrorContext(ctx, "failed to create result", slog.Int("sport_id", input.SportID), slog.Any("error", err))
		return nil, err
	}
	e.observeAllocation(alloc, false)
	e.logger.InfoContext(ctx, "result created",
		slog.Int("result_id", result.ID), slog.Bool("overall", result.IsOverall()), slog.Bool("points_applied", !alloc.Empty()))
	return result, nil
}

func (s *resultService) GetResult(ctx context.Context, id int) (*models.Result, error) {
	e := s.engine

	result, err := e.resultRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrResultNotFound) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to get result by id %d: %w", id, err)
	}
	if err := e.loadEntries(ctx, nil, result); err != nil {
		return nil, err
	}

	sport, err := s.sportRepo.GetByID(ctx, result.SportID)
	if err == nil {
		result.Sport = sport
	} else {
		e.logger.WarnContext(ctx, "failed to populate sport details",
			slog.Int("result_id", result.ID), slog.Int("sport_id", result.SportID), slog.Any("error", err))
	}
	return result, nil
}

func (s *resultService) ListResults(ctx context.Context, filter models.ResultFilter) ([]models.Result, error) {
	if filter.Category != nil && !filter.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidationFailed, *filter.Category)
	}
	if filter.Gender != nil && !filter.Gender.Valid() {
		return nil, fmt.Errorf("%w: unknown gender %q", ErrValidationFailed, *filter.Gender)
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", ErrValidationFailed)
	}

	results, err := s.engine.resultRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	if results == nil {
		return []models.Result{}, nil
	}
	return results, nil
}

func applyResultUpdate(result *models.Result, input UpdateResultInput) error {
	if input.Event != nil {
		result.Event = normalizeEvent(input.Event)
	}
	if input.SportID != nil {
		result.SportID = *input.SportID
	}
	if input.Category != nil {
		result.Category = *input.Category
	}
	if input.Gender != nil {
		result.Gender = *input.Gender
	}
	if input.EventDate != nil {
		date, err := parseEventDate(*input.EventDate)
		if err != nil {
			return err
		}
		result.EventDate = date
	}
	if input.EventTime != nil {
		t, err := normalizeEventTime(input.EventTime)
		if err != nil {
			return err
		}
		result.EventTime = t
	}
	if input.CustomPoints != nil {
		result.CustomPoints = input.CustomPoints
		if len(input.CustomPoints) == 0 {
			result.CustomPoints = nil
		}
	}
	if input.PointsMode != nil {
		result.PointsMode = *input.PointsMode
	}
	return validateResultAttributes(result)
}

func (s *resultService) UpdateResult(ctx context.Context, id int, input UpdateResultInput) (*models.Result, error) {
	e := s.engine

	var (
		result   *models.Result
		oldAlloc *models.PointsAllocation
		newAlloc *models.PointsAllocation
	)
	err := e.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		current, err := e.lockResult(ctx, exec, id)
		if err != nil {
			return err
		}
		updated := *current
		if err = applyResultUpdate(&updated, input); err != nil {
			return err
		}
		result = &updated

		// The reversal runs on the stored attributes, before the row changes.
		if oldAlloc, err = e.reverseApplied(ctx, exec, current); err != nil {
			return err
		}
		if err = e.resultRepo.Update(ctx, exec, result); err != nil {
			return mapResultRepoError(err)
		}

		if newAlloc, err = e.allocationFor(ctx, exec, result, result.Policy()); err != nil {
			return err
		}
		if err = e.writeAllocation(ctx, exec, newAlloc, false); err != nil {
			return err
		}
		if err = e.markApplied(ctx, exec, result, newAlloc); err != nil {
			return err
		}
		return e.loadEntries(ctx, exec, result)
	})

	e.observe(OpUpdateResult, err)
	if err != nil {
		e.logger.ErrorContext(ctx, "failed to update result", slog.Int("result_id", id), slog.Any("error", err))
		return nil, err
	}
	e.observeAllocation(oldAlloc, true)
	e.observeAllocation(newAlloc, false)
	e.logger.InfoContext(ctx, "result updated", slog.Int("result_id", id), slog.Bool("overall", result.IsOverall()))
	return result, nil
}
