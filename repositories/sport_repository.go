package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/sportsmeet/models"
	"github.com/lib/pq"
)

var (
	ErrSportNotFound     = errors.New("sport not found")
	ErrSportNameConflict = errors.New("sport name conflict")
	ErrSportInUse        = errors.New("sport cannot be deleted as it is in use") // referenced by results or media
)

type SportRepository interface {
	Create(ctx context.Context, sport *models.Sport) error
	GetByID(ctx context.Context, id int) (*models.Sport, error)
	GetAll(ctx context.Context) ([]models.Sport, error)
	Update(ctx context.Context, sport *models.Sport) error
	UpdateLogoKey(ctx context.Context, sportID int, logoKey *string) error
	Delete(ctx context.Context, id int) error
	ExistsByName(ctx context.Context, name string) (bool, error)
	Count(ctx context.Context) (int, error)
}

type postgresSportRepository struct {
	db *sql.DB
}

func NewPostgresSportRepository(db *sql.DB) SportRepository {
	return &postgresSportRepository{db: db}
}

func (r *postgresSportRepository) Create(ctx context.Context, sport *models.Sport) error {
	query := `INSERT INTO sports (name, category) VALUES ($1, $2) RETURNING id`

	err := r.db.QueryRowContext(ctx, query, sport.Name, sport.Category).Scan(&sport.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pqUniqueViolation {
			if pqErr.Constraint == "sports_name_key" {
				return ErrSportNameConflict
			}
		}
		return err
	}
	return nil
}

func (r *postgresSportRepository) scanSport(rowScanner interface{ Scan(...interface{}) error }) (*models.Sport, error) {
	var (
		sport   models.Sport
		logoKey sql.NullString
	)
	if err := rowScanner.Scan(&sport.ID, &sport.Name, &sport.Category, &logoKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSportNotFound
		}
		return nil, err
	}
	if logoKey.Valid {
		sport.LogoKey = &logoKey.String
	}
	return &sport, nil
}

func (r *postgresSportRepository) GetByID(ctx context.Context, id int) (*models.Sport, error) {
	query := `SELECT id, name, category, logo_key FROM sports WHERE id = $1`
	return r.scanSport(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresSportRepository) GetAll(ctx context.Context) ([]models.Sport, error) {
	query := `SELECT id, name, category, logo_key FROM sports ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sports := make([]models.Sport, 0)
	for rows.Next() {
		sport, scanErr := r.scanSport(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		sports = append(sports, *sport)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return sports, nil
}

func (r *postgresSportRepository) Update(ctx context.Context, sport *models.Sport) error {
	query := `UPDATE sports SET name = $1, category = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, sport.Name, sport.Category, sport.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pqUniqueViolation {
			if pqErr.Constraint == "sports_name_key" {
				return ErrSportNameConflict
			}
		}
		return err
	}
	return checkAffectedRows(result, ErrSportNotFound)
}

func (r *postgresSportRepository) UpdateLogoKey(ctx context.Context, sportID int, logoKey *string) error {
	query := `UPDATE sports SET logo_key = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, logoKey, sportID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSportNotFound)
}

func (r *postgresSportRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM sports WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		// results.sport_id is ON DELETE RESTRICT
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pqForeignKeyViolation {
			return ErrSportInUse
		}
		return err
	}
	return checkAffectedRows(result, ErrSportNotFound)
}

func (r *postgresSportRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM sports WHERE name = $1)`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, name).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *postgresSportRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sports`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
