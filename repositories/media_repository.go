package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/sportsmeet/models"
)

var (
	ErrMediaNotFound     = errors.New("media not found")
	ErrMediaSportInvalid = errors.New("media sport conflict or invalid")
	ErrMediaKeyConflict  = errors.New("media object key conflict")
)

type MediaRepository interface {
	Create(ctx context.Context, media *models.Media) error
	GetByID(ctx context.Context, id int) (*models.Media, error)
	List(ctx context.Context, sportID *int) ([]models.Media, error)
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

type postgresMediaRepository struct {
	db *sql.DB
}

func NewPostgresMediaRepository(db *sql.DB) MediaRepository {
	return &postgresMediaRepository{db: db}
}

func (r *postgresMediaRepository) Create(ctx context.Context, media *models.Media) error {
	query := `
		INSERT INTO media (object_key, url, title, content_type, sport_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		media.ObjectKey,
		media.URL,
		media.Title,
		media.ContentType,
		media.SportID,
	).Scan(&media.ID, &media.CreatedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return ErrMediaKeyConflict
		case isForeignKeyViolation(err):
			return ErrMediaSportInvalid
		}
		return err
	}
	return nil
}

func (r *postgresMediaRepository) scanMedia(rowScanner interface{ Scan(...interface{}) error }) (*models.Media, error) {
	var (
		media   models.Media
		title   sql.NullString
		sportID sql.NullInt64
	)
	err := rowScanner.Scan(&media.ID, &media.ObjectKey, &media.URL, &title, &media.ContentType, &sportID, &media.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMediaNotFound
		}
		return nil, err
	}
	media.Title = title.String
	if sportID.Valid {
		id := int(sportID.Int64)
		media.SportID = &id
	}
	return &media, nil
}

func (r *postgresMediaRepository) GetByID(ctx context.Context, id int) (*models.Media, error) {
	query := `SELECT id, object_key, url, title, content_type, sport_id, created_at FROM media WHERE id = $1`
	return r.scanMedia(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresMediaRepository) List(ctx context.Context, sportID *int) ([]models.Media, error) {
	query := `
		SELECT id, object_key, url, title, content_type, sport_id, created_at
		FROM media
		WHERE ($1::int IS NULL OR sport_id = $1)
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, sportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.Media, 0)
	for rows.Next() {
		media, errScan := r.scanMedia(rows)
		if errScan != nil {
			return nil, errScan
		}
		items = append(items, *media)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *postgresMediaRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM media WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMediaNotFound)
}

func (r *postgresMediaRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM media`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
