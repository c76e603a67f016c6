package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/sportsmeet/models"
)

var (
	ErrResultNotFound     = errors.New("result not found")
	ErrResultSportInvalid = errors.New("result sport conflict or invalid")
	ErrResultCheckFailed  = errors.New("result violates a check constraint")
)

type ResultRepository interface {
	Create(ctx context.Context, exec SQLExecutor, result *models.Result) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Result, error)
	// GetByIDForUpdate locks the result row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Result, error)
	List(ctx context.Context, exec SQLExecutor, filter models.ResultFilter) ([]models.Result, error)
	ListIDs(ctx context.Context, exec SQLExecutor) ([]int, error)
	Update(ctx context.Context, exec SQLExecutor, result *models.Result) error
	UpdatePolicy(ctx context.Context, exec SQLExecutor, id int, policy models.PointsPolicy) error
	SetPointsApplied(ctx context.Context, exec SQLExecutor, id int, applied bool) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	Count(ctx context.Context, overallOnly bool) (int, error)
}

type postgresResultRepository struct {
	db *sql.DB
}

func NewPostgresResultRepository(db *sql.DB) ResultRepository {
	return &postgresResultRepository{db: db}
}

const resultColumns = `
	r.id, r.event, r.sport_id, r.category, r.gender, r.event_date,
	to_char(r.event_time, 'HH24:MI'), r.custom_points, r.points_mode, r.points_applied, r.created_at, r.updated_at`

func mapResultWriteError(err error) error {
	if isForeignKeyViolation(err) {
		return ErrResultSportInvalid
	}
	if isCheckViolation(err) {
		return fmt.Errorf("%w: %w", ErrResultCheckFailed, err)
	}
	return err
}

func (r *postgresResultRepository) Create(ctx context.Context, exec SQLExecutor, result *models.Result) error {
	query := `
		INSERT INTO results (event, sport_id, category, gender, event_date, event_time, custom_points, points_mode)
		VALUES ($1, $2, $3, $4, $5, $6::time, $7, $8)
		RETURNING id, created_at, updated_at`

	err := pickExecutor(exec, r.db).QueryRowContext(ctx, query,
		result.Event,
		result.SportID,
		result.Category,
		result.Gender,
		result.EventDate,
		result.EventTime,
		result.CustomPoints,
		result.PointsMode,
	).Scan(&result.ID, &result.CreatedAt, &result.UpdatedAt)
	if err != nil {
		return mapResultWriteError(err)
	}
	return nil
}

func (r *postgresResultRepository) scanResult(rowScanner interface{ Scan(...interface{}) error }) (*models.Result, error) {
	var (
		result    models.Result
		event     sql.NullString
		eventTime sql.NullString
	)
	err := rowScanner.Scan(
		&result.ID,
		&event,
		&result.SportID,
		&result.Category,
		&result.Gender,
		&result.EventDate,
		&eventTime,
		&result.CustomPoints,
		&result.PointsMode,
		&result.PointsApplied,
		&result.CreatedAt,
		&result.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResultNotFound
		}
		return nil, err
	}
	if event.Valid {
		result.Event = &event.String
	}
	if eventTime.Valid {
		result.EventTime = &eventTime.String
	}
	return &result, nil
}

func (r *postgresResultRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Result, error) {
	query := `SELECT` + resultColumns + ` FROM results r WHERE r.id = $1`
	return r.scanResult(pickExecutor(exec, r.db).QueryRowContext(ctx, query, id))
}

func (r *postgresResultRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Result, error) {
	query := `SELECT` + resultColumns + ` FROM results r WHERE r.id = $1 FOR UPDATE`
	return r.scanResult(pickExecutor(exec, r.db).QueryRowContext(ctx, query, id))
}

func (r *postgresResultRepository) List(ctx context.Context, exec SQLExecutor, filter models.ResultFilter) ([]models.Result, error) {
	var (
		conditions []string
		args       []interface{}
	)
	addCondition := func(clause string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.SportID != nil {
		addCondition("r.sport_id = $%d", *filter.SportID)
	}
	if filter.Category != nil {
		addCondition("r.category = $%d", *filter.Category)
	}
	if filter.Gender != nil {
		addCondition("r.gender = $%d", *filter.Gender)
	}
	if filter.EventDate != nil {
		addCondition("r.event_date = $%d", filter.EventDate.Format("2006-01-02"))
	}
	if filter.OverallOnly {
		conditions = append(conditions, "(r.event IS NULL OR btrim(r.event) = '')")
	}

	var sb strings.Builder
	sb.WriteString(`SELECT` + resultColumns + ` FROM results r`)
	if len(conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}
	sb.WriteString(" ORDER BY r.event_date DESC, r.event_time DESC NULLS LAST, r.id DESC")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		sb.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
	}

	rows, err := pickExecutor(exec, r.db).QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]models.Result, 0)
	for rows.Next() {
		result, errScan := r.scanResult(rows)
		if errScan != nil {
			return nil, errScan
		}
		results = append(results, *result)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *postgresResultRepository) ListIDs(ctx context.Context, exec SQLExecutor) ([]int, error) {
	rows, err := pickExecutor(exec, r.db).QueryContext(ctx, `SELECT id FROM results ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *postgresResultRepository) Update(ctx context.Context, exec SQLExecutor, result *models.Result) error {
	query := `
		UPDATE results SET
			event = $1, sport_id = $2, category = $3, gender = $4,
			event_date = $5, event_time = $6::time, custom_points = $7, points_mode = $8,
			updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at`

	err := pickExecutor(exec, r.db).QueryRowContext(ctx, query,
		result.Event,
		result.SportID,
		result.Category,
		result.Gender,
		result.EventDate,
		result.EventTime,
		result.CustomPoints,
		result.PointsMode,
		result.ID,
	).Scan(&result.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrResultNotFound
		}
		return mapResultWriteError(err)
	}
	return nil
}

func (r *postgresResultRepository) UpdatePolicy(ctx context.Context, exec SQLExecutor, id int, policy models.PointsPolicy) error {
	query := `UPDATE results SET custom_points = $1, points_mode = $2, updated_at = NOW() WHERE id = $3`
	res, err := pickExecutor(exec, r.db).ExecContext(ctx, query, policy.CustomPoints, policy.Mode, id)
	if err != nil {
		return mapResultWriteError(err)
	}
	return checkAffectedRows(res, ErrResultNotFound)
}

func (r *postgresResultRepository) SetPointsApplied(ctx context.Context, exec SQLExecutor, id int, applied bool) error {
	res, err := pickExecutor(exec, r.db).ExecContext(ctx, `UPDATE results SET points_applied = $1 WHERE id = $2`, applied, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(res, ErrResultNotFound)
}

func (r *postgresResultRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	res, err := pickExecutor(exec, r.db).ExecContext(ctx, `DELETE FROM results WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(res, ErrResultNotFound)
}

func (r *postgresResultRepository) Count(ctx context.Context, overallOnly bool) (int, error) {
	query := `SELECT COUNT(*) FROM results`
	if overallOnly {
		query += ` WHERE event IS NULL OR btrim(event) = ''`
	}
	var count int
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
