package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/sportsmeet/models"
)

var (
	ErrFacultyPointsNotFound       = errors.New("faculty points not found")
	ErrFacultyPointsFacultyInvalid = errors.New("faculty points reference an unknown faculty")
)

// FacultyPointsRepository owns the running per-faculty counters. Every
// mutation is a single atomic statement, so concurrent writers never lose an
// update; counters never drop below zero.
type FacultyPointsRepository interface {
	AddPoints(ctx context.Context, exec SQLExecutor, facultyID int, delta models.PointsDelta) error
	SubtractPoints(ctx context.Context, exec SQLExecutor, facultyID int, delta models.PointsDelta) error
	GetByFaculty(ctx context.Context, exec SQLExecutor, facultyID int) (*models.FacultyPoints, error)
	List(ctx context.Context, exec SQLExecutor) ([]models.FacultyPoints, error)
	ResetAll(ctx context.Context, exec SQLExecutor) error
}

type postgresFacultyPointsRepository struct {
	db *sql.DB
}

func NewPostgresFacultyPointsRepository(db *sql.DB) FacultyPointsRepository {
	return &postgresFacultyPointsRepository{db: db}
}

// AddPoints creates the counter row on first contribution.
func (r *postgresFacultyPointsRepository) AddPoints(ctx context.Context, exec SQLExecutor, facultyID int, delta models.PointsDelta) error {
	query := `
		INSERT INTO faculty_points (faculty_id, mens_points, womens_points, updated_at)
		VALUES ($1, GREATEST($2::int, 0), GREATEST($3::int, 0), NOW())
		ON CONFLICT (faculty_id) DO UPDATE SET
			mens_points   = GREATEST(faculty_points.mens_points + $2::int, 0),
			womens_points = GREATEST(faculty_points.womens_points + $3::int, 0),
			updated_at    = NOW()`
	_, err := pickExecutor(exec, r.db).ExecContext(ctx, query, facultyID, delta.Mens, delta.Womens)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrFacultyPointsFacultyInvalid
		}
		return err
	}
	return nil
}

// SubtractPoints decrements existing counters, clamped at zero. A faculty
// without a counter row has nothing to subtract.
func (r *postgresFacultyPointsRepository) SubtractPoints(ctx context.Context, exec SQLExecutor, facultyID int, delta models.PointsDelta) error {
	query := `
		UPDATE faculty_points SET
			mens_points   = GREATEST(mens_points - $2::int, 0),
			womens_points = GREATEST(womens_points - $3::int, 0),
			updated_at    = NOW()
		WHERE faculty_id = $1`
	_, err := pickExecutor(exec, r.db).ExecContext(ctx, query, facultyID, delta.Mens, delta.Womens)
	return err
}

func (r *postgresFacultyPointsRepository) scanPoints(rowScanner interface{ Scan(...interface{}) error }) (*models.FacultyPoints, error) {
	var p models.FacultyPoints
	err := rowScanner.Scan(&p.FacultyID, &p.MensPoints, &p.WomensPoints, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFacultyPointsNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresFacultyPointsRepository) GetByFaculty(ctx context.Context, exec SQLExecutor, facultyID int) (*models.FacultyPoints, error) {
	query := `
		SELECT faculty_id, mens_points, womens_points, updated_at
		FROM faculty_points
		WHERE faculty_id = $1`
	return r.scanPoints(pickExecutor(exec, r.db).QueryRowContext(ctx, query, facultyID))
}

func (r *postgresFacultyPointsRepository) List(ctx context.Context, exec SQLExecutor) ([]models.FacultyPoints, error) {
	query := `
		SELECT faculty_id, mens_points, womens_points, updated_at
		FROM faculty_points
		ORDER BY faculty_id ASC`
	rows, err := pickExecutor(exec, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := make([]models.FacultyPoints, 0)
	for rows.Next() {
		p, errScan := r.scanPoints(rows)
		if errScan != nil {
			return nil, errScan
		}
		points = append(points, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return points, nil
}

func (r *postgresFacultyPointsRepository) ResetAll(ctx context.Context, exec SQLExecutor) error {
	query := `UPDATE faculty_points SET mens_points = 0, womens_points = 0, updated_at = NOW()`
	_, err := pickExecutor(exec, r.db).ExecContext(ctx, query)
	return err
}
