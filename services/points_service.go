package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/sportsmeet/models"
	"github.com/Dosada05/sportsmeet/repositories"
	"github.com/Dosada05/sportsmeet/standings"
)

const (
	OpApplyPoints       = "apply"
	OpRemovePoints      = "remove"
	OpReplacePlacements = "replace_placements"
	OpDeleteResult      = "delete_result"
	OpRecalculate       = "recalculate"
	OpCreateResult      = "create_result"
	OpUpdateResult      = "update_result"
)

// Transactor runs a unit of work in one database transaction. Savepoint
// undoes only the work of fn when fn fails.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error
	Savepoint(ctx context.Context, exec repositories.SQLExecutor, name string, fn func() error) error
}

// PointsObserver receives committed points activity, e.g. for metrics.
type PointsObserver interface {
	ObservePointsOperation(operation string, err error)
	ObserveAllocation(alloc *models.PointsAllocation, removed bool)
}

type PointsService interface {
	// ApplyPointsForResult adds the result's allocation to the faculty counters.
	// A nil policy uses the policy stored on the result; a non-nil policy is
	// stored so a later reversal subtracts exactly what was added. Points that
	// are already applied are reversed first, so repeated calls do not stack.
	ApplyPointsForResult(ctx context.Context, resultID int, policy *models.PointsPolicy) (*models.PointsAllocation, error)
	// RemovePointsForResult subtracts what the result contributed under the
	// policy its points were applied with. A non-nil policy is only validated.
	// It is a no-op when the result's points are not applied.
	RemovePointsForResult(ctx context.Context, resultID int, policy *models.PointsPolicy) (*models.PointsAllocation, error)
	ReplacePlacementsAndReapply(ctx context.Context, resultID int, input ReplacePlacementsInput) (*models.Result, error)
	DeleteResult(ctx context.Context, resultID int) (*DeleteResultOutcome, error)
	RecalculateAll(ctx context.Context) (*RecalculateOutcome, error)
}

type PlacementInput struct {
	Place     int `json:"place"`
	FacultyID int `json:"faculty_id"`
}

// ParticipantInput credits a faculty without a place. Points defaults to 1.
type ParticipantInput struct {
	FacultyID int  `json:"faculty_id"`
	Points    *int `json:"points,omitempty"`
}

// ReplacePlacementsInput replaces a result's placements. Nil Participants
// keeps the stored participants; nil CustomPoints or PointsMode keeps the
// stored policy, an empty custom_points object clears it.
type ReplacePlacementsInput struct {
	Placements   []PlacementInput    `json:"placements"`
	Participants []ParticipantInput  `json:"participants,omitempty"`
	CustomPoints models.CustomPoints `json:"custom_points,omitempty"`
	PointsMode   *models.PointsMode  `json:"points_mode,omitempty"`
}

type DeleteResultOutcome struct {
	ResultID       int                      `json:"result_id"`
	PointsReversed bool                     `json:"points_reversed"`
	Reversed       *models.PointsAllocation `json:"reversed,omitempty"`
	ReversalError  string                   `json:"reversal_error,omitempty"`
}

type RecalculateOutcome struct {
	ResultsProcessed int `json:"results_processed"`
	ResultsApplied   int `json:"results_applied"`
}

// PointsDeps wires the points engine. Observer may be nil.
type PointsDeps struct {
	Tx              Transactor
	ResultRepo      repositories.ResultRepository
	PlacementRepo   repositories.PlacementRepository
	ParticipantRepo repositories.ParticipantRepository
	PointsRepo      repositories.FacultyPointsRepository
	Observer        PointsObserver
	Logger          *slog.Logger
}

// pointsEngine is shared by the points and result services so both follow
// the same reverse, mutate, reapply sequence.
type pointsEngine struct {
	tx              Transactor
	resultRepo      repositories.ResultRepository
	placementRepo   repositories.PlacementRepository
	participantRepo repositories.ParticipantRepository
	pointsRepo      repositories.FacultyPointsRepository
	observer        PointsObserver
	logger          *slog.Logger
}

func newPointsEngine(deps PointsDeps) *pointsEngine {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &pointsEngine{
		tx:              deps.Tx,
		resultRepo:      deps.ResultRepo,
		placementRepo:   deps.PlacementRepo,
		participantRepo: deps.ParticipantRepo,
		pointsRepo:      deps.PointsRepo,
		observer:        deps.Observer,
		logger:          logger,
	}
}

type pointsService struct {
	engine *pointsEngine
}

func NewPointsService(deps PointsDeps) PointsService {
	return &pointsService{engine: newPointsEngine(deps)}
}

func (e *pointsEngine) observe(operation string, err error) {
	if e.observer != nil {
		e.observer.ObservePointsOperation(operation, err)
	}
}

func (e *pointsEngine) observeAllocation(alloc *models.PointsAllocation, removed bool) {
	if e.observer != nil && !alloc.Empty() {
		e.observer.ObserveAllocation(alloc, removed)
	}
}

// allocationFor reads the stored placements and participants of result and
// computes what they contribute under policy.
func (e *pointsEngine) allocationFor(ctx context.Context, exec repositories.SQLExecutor, result *models.Result, policy models.PointsPolicy) (*models.PointsAllocation, error) {
	placements, err := e.placementRepo.ListByResult(ctx, exec, result.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: list placements of result %d: %w", ErrPointsOperationFailed, result.ID, err)
	}
	participants, err := e.participantRepo.ListByResult(ctx, exec, result.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: list participants of result %d: %w", ErrPointsOperationFailed, result.ID, err)
	}
	return standings.Allocate(result, placements, participants, policy)
}

// writeAllocation adds (or subtracts when negate is set) every delta of alloc.
// Deltas are ordered by faculty id, which keeps row locks in a stable order.
func (e *pointsEngine) writeAllocation(ctx context.Context, exec repositories.SQLExecutor, alloc *models.PointsAllocation, negate bool) error {
	if alloc.Empty() {
		return nil
	}
	for _, d := range alloc.Deltas {
		var err error
		if negate {
			err = e.pointsRepo.SubtractPoints(ctx, exec, d.FacultyID, d.Delta)
		} else {
			err = e.pointsRepo.AddPoints(ctx, exec, d.FacultyID, d.Delta)
		}
		if err != nil {
			if errors.Is(err, repositories.ErrFacultyPointsFacultyInvalid) {
				return fmt.Errorf("%w (faculty %d)", ErrResultFacultyInvalid, d.FacultyID)
			}
			return fmt.Errorf("%w: faculty %d: %w", ErrPointsOperationFailed, d.FacultyID, err)
		}
	}
	return nil
}

func (e *pointsEngine) lockResult(ctx context.Context, exec repositories.SQLExecutor, resultID int) (*models.Result, error) {
	result, err := e.resultRepo.GetByIDForUpdate(ctx, exec, resultID)
	if err != nil {
		if errors.Is(err, repositories.ErrResultNotFound) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("%w: lock result %d: %w", ErrPointsOperationFailed, resultID, err)
	}
	return result, nil
}

func (e *pointsEngine) resolvePolicy(result *models.Result, override *models.PointsPolicy) (models.PointsPolicy, error) {
	if override == nil {
		return result.Policy(), nil
	}
	if err := validatePolicy(*override); err != nil {
		return models.PointsPolicy{}, err
	}
	return *override, nil
}

func validatePolicy(policy models.PointsPolicy) error {
	if !policy.Mode.Valid() {
		return fmt.Errorf("%w: got %q", ErrInvalidPointsMode, policy.Mode)
	}
	if err := policy.CustomPoints.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCustomPoints, err)
	}
	return nil
}

// reverseApplied subtracts what result contributes under its stored policy
// when its points are applied. It returns nil when nothing is outstanding.
// The caller settles the flag with markApplied.
func (e *pointsEngine) reverseApplied(ctx context.Context, exec repositories.SQLExecutor, result *models.Result) (*models.PointsAllocation, error) {
	if !result.PointsApplied {
		return nil, nil
	}
	alloc, err := e.allocationFor(ctx, exec, result, result.Policy())
	if err != nil {
		return nil, err
	}
	if err := e.writeAllocation(ctx, exec, alloc, true); err != nil {
		return nil, err
	}
	return alloc, nil
}

// markApplied records whether the counters now hold alloc for result.
func (e *pointsEngine) markApplied(ctx context.Context, exec repositories.SQLExecutor, result *models.Result, alloc *models.PointsAllocation) error {
	applied := !alloc.Empty()
	if applied == result.PointsApplied {
		return nil
	}
	if err := e.resultRepo.SetPointsApplied(ctx, exec, result.ID, applied); err != nil {
		return fmt.Errorf("%w: mark result %d: %w", ErrPointsOperationFailed, result.ID, err)
	}
	result.PointsApplied = applied
	return nil
}

func (e *pointsEngine) applyOrRemove(ctx context.Context, operation string, resultID int, override *models.PointsPolicy, negate bool) (*models.PointsAllocation, error) {
	var alloc, reversed *models.PointsAllocation
	err := e.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		result, err := e.lockResult(ctx, exec, resultID)
		if err != nil {
			if errors.Is(err, ErrResultNotFound) {
				return nil
			}
			return err
		}

		policy, err := e.resolvePolicy(result, override)
		if err != nil {
			return err
		}

		if reversed, err = e.reverseApplied(ctx, exec, result); err != nil {
			return err
		}
		if negate {
			alloc, reversed = reversed, nil
			return e.markApplied(ctx, exec, result, nil)
		}

		if override != nil {
			if err := e.resultRepo.UpdatePolicy(ctx, exec, result.ID, policy); err != nil {
				return fmt.Errorf("%w: store policy of result %d: %w", ErrPointsOperationFailed, result.ID, err)
			}
			result.CustomPoints = policy.CustomPoints
			result.PointsMode = policy.Mode
		}

		if alloc, err = e.allocationFor(ctx, exec, result, policy); err != nil {
			return err
		}
		if err := e.writeAllocation(ctx, exec, alloc, false); err != nil {
			return err
		}
		return e.markApplied(ctx, exec, result, alloc)
	})

	e.observe(operation, err)
	if err != nil {
		e.logger.ErrorContext(ctx, "points operation failed",
			slog.String("operation", operation), slog.Int("result_id", resultID), slog.Any("error", err))
		return nil, err
	}
	e.observeAllocation(reversed, true)
	if alloc.Empty() {
		e.logger.DebugContext(ctx, "points operation had nothing to do",
			slog.String("operation", operation), slog.Int("result_id", resultID))
		return nil, nil
	}
	e.observeAllocation(alloc, negate)
	e.logger.InfoContext(ctx, "points operation applied",
		slog.String("operation", operation), slog.Int("result_id", resultID), slog.Int("faculties", len(alloc.Deltas)))
	return alloc, nil
}

func (s *pointsService) ApplyPointsForResult(ctx context.Context, resultID int, policy *models.PointsPolicy) (*models.PointsAllocation, error) {
	return s.engine.applyOrRemove(ctx, OpApplyPoints, resultID, policy, false)
}

func (s *pointsService) RemovePointsForResult(ctx context.Context, resultID int, policy *models.PointsPolicy) (*models.PointsAllocation, error) {
	return s.engine.applyOrRemove(ctx, OpRemovePoints, resultID, policy, true)
}

// normalizePlacements validates placement input. A faculty may hold one place per result.
func normalizePlacements(resultID int, input []PlacementInput) ([]models.Placement, error) {
	placements := make([]models.Placement, 0, len(input))
	seen := make(map[int]struct{}, len(input))
	for _, in := range input {
		if in.Place <= 0 {
			return nil, fmt.Errorf("%w: got %d", ErrInvalidPlace, in.Place)
		}
		if in.FacultyID <= 0 {
			return nil, ErrInvalidPlacement
		}
		if _, dup := seen[in.FacultyID]; dup {
			return nil, fmt.Errorf("%w (faculty %d)", ErrDuplicatePlacementFaculty, in.FacultyID)
		}
		seen[in.FacultyID] = struct{}{}
		placements = append(placements, models.Placement{ResultID: resultID, Place: in.Place, FacultyID: in.FacultyID})
	}
	return placements, nil
}

func normalizeParticipants(resultID int, input []ParticipantInput) ([]models.Participant, error) {
	participants := make([]models.Participant, 0, len(input))
	for _, in := range input {
		if in.FacultyID <= 0 {
			return nil, fmt.Errorf("%w: participant must reference a faculty", ErrValidationFailed)
		}
		points := standings.DefaultParticipationPoints
		if in.Points != nil {
			points = *in.Points
		}
		if points < 0 {
			return nil, fmt.Errorf("%w: faculty %d", ErrInvalidParticipantPoints, in.FacultyID)
		}
		participants = append(participants, models.Participant{ResultID: resultID, FacultyID: in.FacultyID, Points: points})
	}
	return participants, nil
}

// storeEntries replaces the placement and participant rows of a result.
// Participant rows are kept even when their faculty is placed; the allocation
// skips them, so a later edit that unplaces the faculty credits it again.
func (e *pointsEngine) storeEntries(ctx context.Context, exec repositories.SQLExecutor, resultID int, placements []models.Placement, participants []models.Participant) error {
	if err := e.placementRepo.DeleteByResult(ctx, exec, resultID); err != nil {
		return fmt.Errorf("%w: delete placements: %w", ErrPointsOperationFailed, err)
	}
	if err := e.placementRepo.BatchCreate(ctx, exec, resultID, placements); err != nil {
		return mapEntryWriteError(err)
	}

	if err := e.participantRepo.DeleteByResult(ctx, exec, resultID); err != nil {
		return fmt.Errorf("%w: delete participants: %w", ErrPointsOperationFailed, err)
	}
	if err := e.participantRepo.BatchCreate(ctx, exec, resultID, participants); err != nil {
		return mapEntryWriteError(err)
	}
	return nil
}

func mapEntryWriteError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrPlacementDuplicateFaculty):
		return ErrDuplicatePlacementFaculty
	case errors.Is(err, repositories.ErrPlacementFacultyInvalid),
		errors.Is(err, repositories.ErrParticipantFacultyInvalid):
		return ErrResultFacultyInvalid
	case errors.Is(err, repositories.ErrParticipantDuplicateFaculty):
		return fmt.Errorf("%w: faculty listed twice as participant", ErrValidationFailed)
	}
	return fmt.Errorf("%w: %w", ErrPointsOperationFailed, err)
}

// loadEntries fills result.Placements and result.Participants.
func (e *pointsEngine) loadEntries(ctx context.Context, exec repositories.SQLExecutor, result *models.Result) error {
	placements, err := e.placementRepo.ListByResult(ctx, exec, result.ID)
	if err != nil {
		return fmt.Errorf("failed to list placements of result %d: %w", result.ID, err)
	}
	participants, err := e.participantRepo.ListByResult(ctx, exec, result.ID)
	if err != nil {
		return fmt.Errorf("failed to list participants of result %d: %w", result.ID, err)
	}
	result.Placements = placements
	result.Participants = participants
	return nil
}

func (s *pointsService) ReplacePlacementsAndReapply(ctx context.Context, resultID int, input ReplacePlacementsInput) (*models.Result, error) {
	e := s.engine

	placements, err := normalizePlacements(resultID, input.Placements)
	if err != nil {
		return nil, err
	}
	var newParticipants []models.Participant
	if input.Participants != nil {
		if newParticipants, err = normalizeParticipants(resultID, input.Participants); err != nil {
			return nil, err
		}
	}

	var (
		result   *models.Result
		oldAlloc *models.PointsAllocation
		newAlloc *models.PointsAllocation
	)
	err = e.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		if result, err = e.lockResult(ctx, exec, resultID); err != nil {
			return err
		}

		newPolicy := result.Policy()
		if input.CustomPoints != nil {
			newPolicy.CustomPoints = input.CustomPoints
			if len(input.CustomPoints) == 0 {
				newPolicy.CustomPoints = nil
			}
		}
		if input.PointsMode != nil {
			newPolicy.Mode = *input.PointsMode
		}
		if err = validatePolicy(newPolicy); err != nil {
			return err
		}

		// Reverse what the stored entries contributed under the stored policy.
		if oldAlloc, err = e.reverseApplied(ctx, exec, result); err != nil {
			return err
		}

		if input.Participants == nil {
			if newParticipants, err = e.participantRepo.ListByResult(ctx, exec, resultID); err != nil {
				return fmt.Errorf("%w: list participants: %w", ErrPointsOperationFailed, err)
			}
		}
		if err = e.storeEntries(ctx, exec, resultID, placements, newParticipants); err != nil {
			return err
		}

		if newPolicy.Mode != result.PointsMode || !customPointsEqual(newPolicy.CustomPoints, result.CustomPoints) {
			if err = e.resultRepo.UpdatePolicy(ctx, exec, resultID, newPolicy); err != nil {
				return fmt.Errorf("%w: store policy: %w", ErrPointsOperationFailed, err)
			}
			result.CustomPoints = newPolicy.CustomPoints
			result.PointsMode = newPolicy.Mode
		}

		if newAlloc, err = standings.Allocate(result, placements, newParticipants, newPolicy); err != nil {
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

	e.observe(OpReplacePlacements, err)
	if err != nil {
		e.logger.ErrorContext(ctx, "failed to replace placements",
			slog.Int("result_id", resultID), slog.Any("error", err))
		return nil, err
	}
	e.observeAllocation(oldAlloc, true)
	e.observeAllocation(newAlloc, false)
	e.logger.InfoContext(ctx, "placements replaced",
		slog.Int("result_id", resultID), slog.Int("placements", len(placements)))
	return result, nil
}

func customPointsEqual(a, b models.CustomPoints) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

// reverseBestEffort subtracts the applied allocation of result behind a
// savepoint. A failure is reported in the outcome instead of aborting the caller.
func (e *pointsEngine) reverseBestEffort(ctx context.Context, exec repositories.SQLExecutor, result *models.Result, outcome *DeleteResultOutcome) {
	if !result.PointsApplied {
		outcome.PointsReversed = true
		return
	}
	var alloc *models.PointsAllocation
	err := e.tx.Savepoint(ctx, exec, "reverse_points", func() error {
		var err error
		alloc, err = e.reverseApplied(ctx, exec, result)
		return err
	})
	if err != nil {
		e.logger.WarnContext(ctx, "failed to reverse points before delete, deleting anyway",
			slog.Int("result_id", result.ID), slog.Any("error", err))
		outcome.PointsReversed = false
		outcome.ReversalError = err.Error()
		return
	}
	outcome.PointsReversed = true
	outcome.Reversed = alloc
}

func (s *pointsService) DeleteResult(ctx context.Context, resultID int) (*DeleteResultOutcome, error) {
	e := s.engine
	outcome := &DeleteResultOutcome{ResultID: resultID}

	err := e.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		result, err := e.lockResult(ctx, exec, resultID)
		if err != nil {
			return err
		}

		// Reversal reads the placements, so it runs before they are deleted.
		e.reverseBestEffort(ctx, exec, result, outcome)

		if err := e.participantRepo.DeleteByResult(ctx, exec, resultID); err != nil {
			return fmt.Errorf("failed to delete participants of result %d: %w", resultID, err)
		}
		if err := e.placementRepo.DeleteByResult(ctx, exec, resultID); err != nil {
			return fmt.Errorf("failed to delete placements of result %d: %w", resultID, err)
		}
		if err := e.resultRepo.Delete(ctx, exec, resultID); err != nil {
			if errors.Is(err, repositories.ErrResultNotFound) {
				return ErrResultNotFound
			}
			return fmt.Errorf("failed to delete result %d: %w", resultID, err)
		}
		return nil
	})

	e.observe(OpDeleteResult, err)
	if err != nil {
		if !errors.Is(err, ErrResultNotFound) {
			e.logger.ErrorContext(ctx, "failed to delete result", slog.Int("result_id", resultID), slog.Any("error", err))
		}
		return nil, err
	}
	if outcome.PointsReversed {
		e.observeAllocation(outcome.Reversed, true)
	}
	e.logger.InfoContext(ctx, "result deleted",
		slog.Int("result_id", resultID), slog.Bool("points_reversed", outcome.PointsReversed))
	return outcome, nil
}

// RecalculateAll rebuilds every counter from the stored results and marks each
// result applied when it contributed.
func (s *pointsService) RecalculateAll(ctx context.Context) (*RecalculateOutcome, error) {
	e := s.engine
	outcome := &RecalculateOutcome{}

	err := e.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := e.pointsRepo.ResetAll(ctx, exec); err != nil {
			return fmt.Errorf("%w: reset counters: %w", ErrPointsOperationFailed, err)
		}
		ids, err := e.resultRepo.ListIDs(ctx, exec)
		if err != nil {
			return fmt.Errorf("%w: list results: %w", ErrPointsOperationFailed, err)
		}
		for _, id := range ids {
			result, err := e.resultRepo.GetByID(ctx, exec, id)
			if err != nil {
				return fmt.Errorf("%w: load result %d: %w", ErrPointsOperationFailed, id, err)
			}
			alloc, err := e.allocationFor(ctx, exec, result, result.Policy())
			if err != nil {
				return fmt.Errorf("result %d: %w", id, err)
			}
			if err := e.writeAllocation(ctx, exec, alloc, false); err != nil {
				return err
			}
			if err := e.markApplied(ctx, exec, result, alloc); err != nil {
				return err
			}
			outcome.ResultsProcessed++
			if !alloc.Empty() {
				outcome.ResultsApplied++
			}
		}
		return nil
	})

	e.observe(OpRecalculate, err)
	if err != nil {
		e.logger.ErrorContext(ctx, "points recalculation failed", slog.Any("error", err))
		return nil, err
	}
	e.logger.InfoContext(ctx, "points recalculated",
		slog.Int("results_processed", outcome.ResultsProcessed), slog.Int("results_applied", outcome.ResultsApplied))
	return outcome, nil
}
