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
	ErrParticipantFacultyInvalid   = errors.New("participant faculty conflict or invalid")
	ErrParticipantDuplicateFaculty = errors.New("faculty listed more than once as participant")
)

// ParticipantRepository stores result_participants rows: faculties credited
// with flat points for a result without a ranked place.
type ParticipantRepository interface {
	ListByResult(ctx context.Context, exec SQLExecutor, resultID int) ([]models.Participant, error)
	DeleteByResult(ctx context.Context, exec SQLExecutor, resultID int) error
	BatchCreate(ctx context.Context, exec SQLExecutor, resultID int, participants []models.Participant) error
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) ListByResult(ctx context.Context, exec SQLExecutor, resultID int) ([]models.Participant, error) {
	query := `
		SELECT rp.result_id, rp.faculty_id, rp.points, f.name
		FROM result_participants rp
		JOIN faculties f ON f.id = rp.faculty_id
		WHERE rp.result_id = $1
		ORDER BY rp.faculty_id ASC`

	rows, err := pickExecutor(exec, r.db).QueryContext(ctx, query, resultID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := make([]models.Participant, 0)
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ResultID, &p.FacultyID, &p.Points, &p.FacultyName); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *postgresParticipantRepository) DeleteByResult(ctx context.Context, exec SQLExecutor, resultID int) error {
	_, err := pickExecutor(exec, r.db).ExecContext(ctx, `DELETE FROM result_participants WHERE result_id = $1`, resultID)
	return err
}

func (r *postgresParticipantRepository) BatchCreate(ctx context.Context, exec SQLExecutor, resultID int, participants []models.Participant) error {
	if len(participants) == 0 {
		return nil
	}

	valueStrings := make([]string, 0, len(participants))
	valueArgs := make([]interface{}, 0, len(participants)*3)
	for i, p := range participants {
		valueStrings = append(valueStrings, fmt.Sprintf("($%d, $%d, $%d)", i*3+1, i*3+2, i*3+3))
		valueArgs = append(valueArgs, resultID, p.FacultyID, p.Points)
	}
	query := fmt.Sprintf("INSERT INTO result_participants (result_id, faculty_id, points) VALUES %s",
		strings.Join(valueStrings, ","))

	_, err := pickExecutor(exec, r.db).ExecContext(ctx, query, valueArgs...)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return ErrParticipantDuplicateFaculty
		case isForeignKeyViolation(err):
			return ErrParticipantFacultyInvalid
		}
		return err
	}
	return nil
}
