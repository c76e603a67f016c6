package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/sportsmeet/models"
)

var (
	ErrFacultyNotFound     = errors.New("faculty not found")
	ErrFacultyNameConflict = errors.New("faculty name conflict")
	ErrFacultyInUse        = errors.New("faculty cannot be deleted as it has results")
)

type FacultyRepository interface {
	Create(ctx context.Context, faculty *models.Faculty) error
	GetByID(ctx context.Context, id int) (*models.Faculty, error)
	GetAll(ctx context.Context) ([]models.Faculty, error)
	Update(ctx context.Context, faculty *models.Faculty) error
	UpdateLogoKey(ctx context.Context, facultyID int, logoKey *string) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

type postgresFacultyRepository struct {
	db *sql.DB
}

func NewPostgresFacultyRepository(db *sql.DB) FacultyRepository {
	return &postgresFacultyRepository{db: db}
}

func (r *postgresFacultyRepository) Create(ctx context.Context, faculty *models.Faculty) error {
	query := `
		INSERT INTO faculties (name, short_name)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, faculty.Name, faculty.ShortName).
		Scan(&faculty.ID, &faculty.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrFacultyNameConflict
		}
		return err
	}
	return nil
}

func (r *postgresFacultyRepository) scanFaculty(rowScanner interface{ Scan(...interface{}) error }) (*models.Faculty, error) {
	var (
		faculty   models.Faculty
		shortName sql.NullString
		logoKey   sql.NullString
	)
	err := rowScanner.Scan(&faculty.ID, &faculty.Name, &shortName, &logoKey, &faculty.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFacultyNotFound
		}
		return nil, err
	}
	faculty.ShortName = shortName.String
	if logoKey.Valid {
		faculty.LogoKey = &logoKey.String
	}
	return &faculty, nil
}

func (r *postgresFacultyRepository) GetByID(ctx context.Context, id int) (*models.Faculty, error) {
	query := `SELECT id, name, short_name, logo_key, created_at FROM faculties WHERE id = $1`
	return r.scanFaculty(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresFacultyRepository) GetAll(ctx context.Context) ([]models.Faculty, error) {
	query := `SELECT id, name, short_name, logo_key, created_at FROM faculties ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	faculties := make([]models.Faculty, 0)
	for rows.Next() {
		faculty, errScan := r.scanFaculty(rows)
		if errScan != nil {
			return nil, errScan
		}
		faculties = append(faculties, *faculty)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return faculties, nil
}

func (r *postgresFacultyRepository) Update(ctx context.Context, faculty *models.Faculty) error {
	query := `UPDATE faculties SET name = $1, short_name = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, faculty.Name, faculty.ShortName, faculty.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrFacultyNameConflict
		}
		return err
	}
	return checkAffectedRows(result, ErrFacultyNotFound)
}

func (r *postgresFacultyRepository) UpdateLogoKey(ctx context.Context, facultyID int, logoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE faculties SET logo_key = $1 WHERE id = $2`, logoKey, facultyID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrFacultyNotFound)
}

// Delete removes a faculty together with its counter row. Faculties that
// still appear in placements or participants are rejected.
func (r *postgresFacultyRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM faculties WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrFacultyInUse
		}
		return err
	}
	return checkAffectedRows(result, ErrFacultyNotFound)
}

func (r *postgresFacultyRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM faculties`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
