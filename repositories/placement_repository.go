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
	ErrPlacementFacultyInvalid   = errors.New("placement faculty conflict or invalid")
	ErrPlacementDuplicateFaculty = errors.New("faculty placed more than once for the result")
)

// PlacementRepository stores result_positions rows.
type PlacementRepository interface {
	ListByResult(ctx context.Context, exec SQLExecutor, resultID int) ([]models.Placement, error)
	DeleteByResult(ctx context.Context, exec SQLExecutor, resultID int) error
	BatchCreate(ctx context.Context, exec SQLExecutor, resultID int, placements []models.Placement) error
}

type postgresPlacementRepository struct {
	db *sql.DB
}

func NewPostgresPlacementRepository(db *sql.DB) PlacementRepository {
	return &postgresPlacementRepository{db: db}
}

func (r *postgresPlacementRepository) ListByResult(ctx context.Context, exec SQLExecutor, resultID int) ([]models.Placement, error) {
	query := `
		SELECT rp.result_id, rp.place, rp.faculty_id, f.name
		FROM result_positions rp
		JOIN faculties f ON f.id = rp.faculty_id
		WHERE rp.result_id = $1
		ORDER BY rp.place ASC, rp.faculty_id ASC`

	rows, err := pickExecutor(exec, r.db).QueryContext(ctx, query, resultID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	placements := make([]models.Placement, 0)
	for rows.Next() {
		var p models.Placement
		if err := rows.Scan(&p.ResultID, &p.Place, &p.FacultyID, &p.FacultyName); err != nil {
			return nil, err
		}
		placements = append(placements, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return placements, nil
}

func (r *postgresPlacementRepository) DeleteByResult(ctx context.Context, exec SQLExecutor, resultID int) error {
	_, err := pickExecutor(exec, r.db).ExecContext(ctx, `DELETE FROM result_positions WHERE result_id = $1`, resultID)
	return err
}

// BatchCreate inserts all placements with a single multi-row statement.
func (r *postgresPlacementRepository) BatchCreate(ctx context.Context, exec SQLExecutor, resultID int, placements []models.Placement) error {
	if len(placements) == 0 {
		return nil
	}

	valueStrings := make([]string, 0, len(placements))
	valueArgs := make([]interface{}, 0, len(placements)*3)
	for i, p := range placements {
		valueStrings = append(valueStrings, fmt.Sprintf("($%d, $%d, $%d)", i*3+1, i*3+2, i*3+3))
		valueArgs = append(valueArgs, resultID, p.Place, p.FacultyID)
	}
	query := fmt.Sprintf("INSERT INTO result_positions (result_id, place, faculty_id) VALUES %s",
		strings.Join(valueStrings, ","))

	_, err := pickExecutor(exec, r.db).ExecContext(ctx, query, valueArgs...)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return ErrPlacementDuplicateFaculty
		case isForeignKeyViolation(err):
			return ErrPlacementFacultyInvalid
		}
		return err
	}
	return nil
}
