package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/google/uuid"
)

var ErrParticipantNotFound = errors.New("participant not found")

type ParticipantRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, participants []*models.Participant) error
	GetByID(ctx context.Context, exec SQLExecutor, id uuid.UUID) (*models.Participant, error)
	// ListByTournament returns participants in submission order.
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) ([]*models.Participant, error)
	UpdatePosition(ctx context.Context, exec SQLExecutor, id uuid.UUID, position int) error
	Delete(ctx context.Context, exec SQLExecutor, id uuid.UUID) error
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) CreateBatch(ctx context.Context, exec SQLExecutor, participants []*models.Participant) error {
	now := time.Now()
	return execBatch(ctx, executorOr(exec, r.db), `
		INSERT INTO participants (id, tournament_id, name, position, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		len(participants),
		func(i int) []interface{} {
			p := participants[i]
			if p.ID == uuid.Nil {
				p.ID = uuid.New()
			}
			if p.CreatedAt.IsZero() {
				p.CreatedAt = now
			}
			return []interface{}{p.ID, p.TournamentID, p.Name, p.Position, p.CreatedAt}
		})
}

func scanParticipant(row rowScanner) (*models.Participant, error) {
	p := &models.Participant{}
	if err := row.Scan(&p.ID, &p.TournamentID, &p.Name, &p.Position, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresParticipantRepository) GetByID(ctx context.Context, exec SQLExecutor, id uuid.UUID) (*models.Participant, error) {
	query := `SELECT id, tournament_id, name, position, created_at FROM participants WHERE id = $1`
	return scanParticipant(executorOr(exec, r.db).QueryRowContext(ctx, query, id))
}

func (r *postgresParticipantRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) ([]*models.Participant, error) {
	query := `
		SELECT id, tournament_id, name, position, created_at
		FROM participants
		WHERE tournament_id = $1
		ORDER BY position, created_at`
	rows, err := executorOr(exec, r.db).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := make([]*models.Participant, 0)
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func (r *postgresParticipantRepository) UpdatePosition(ctx context.Context, exec SQLExecutor, id uuid.UUID, position int) error {
	result, err := executorOr(exec, r.db).ExecContext(ctx,
		`UPDATE participants SET position = $1 WHERE id = $2`, position, id)
	if err != nil {
		return mapPQError(err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) Delete(ctx context.Context, exec SQLExecutor, id uuid.UUID) error {
	result, err := executorOr(exec, r.db).ExecContext(ctx, `DELETE FROM participants WHERE id = $1`, id)
	if err != nil {
		return mapPQError(err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}
