package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var ErrRoundNotFound = errors.New("round not found")

type RoundRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, rounds []*models.Round) error
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) ([]*models.Round, error)
	Update(ctx context.Context, exec SQLExecutor, round *models.Round) error
	// DeleteByTournament removes every round and, by cascade, every match.
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) error
}

type postgresRoundRepository struct {
	db *sql.DB
}

func NewPostgresRoundRepository(db *sql.DB) RoundRepository {
	return &postgresRoundRepository{db: db}
}

func (r *postgresRoundRepository) CreateBatch(ctx context.Context, exec SQLExecutor, rounds []*models.Round) error {
	return execBatch(ctx, executorOr(exec, r.db), `
		INSERT INTO rounds (id, tournament_id, round_number, bracket, name, match_ids, participant_ids, winners, is_completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		len(rounds),
		func(i int) []interface{} {
			rd := rounds[i]
			return []interface{}{
				rd.ID, rd.TournamentID, rd.RoundNumber, rd.Bracket, rd.Name,
				pq.Array(rd.MatchIDs), pq.Array(rd.ParticipantIDs), rd.Winners, rd.IsCompleted,
			}
		})
}

// ListByTournament returns rounds in creation order: winners, losers, final.
func (r *postgresRoundRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) ([]*models.Round, error) {
	query := `
		SELECT id, tournament_id, round_number, bracket, name, match_ids, participant_ids, winners, is_completed
		FROM rounds
		WHERE tournament_id = $1
		ORDER BY CASE bracket WHEN 'winners' THEN 0 WHEN 'losers' THEN 1 ELSE 2 END, round_number`
	rows, err := executorOr(exec, r.db).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rounds := make([]*models.Round, 0)
	for rows.Next() {
		rd := &models.Round{}
		if err := rows.Scan(
			&rd.ID, &rd.TournamentID, &rd.RoundNumber, &rd.Bracket, &rd.Name,
			pq.Array(&rd.MatchIDs), pq.Array(&rd.ParticipantIDs), &rd.Winners, &rd.IsCompleted,
		); err != nil {
			return nil, err
		}
		rounds = append(rounds, rd)
	}
	return rounds, rows.Err()
}

func (r *postgresRoundRepository) Update(ctx context.Context, exec SQLExecutor, rd *models.Round) error {
	result, err := executorOr(exec, r.db).ExecContext(ctx, `
		UPDATE rounds SET
			name = $1, match_ids = $2, participant_ids = $3, winners = $4, is_completed = $5
		WHERE id = $6`,
		rd.Name, pq.Array(rd.MatchIDs), pq.Array(rd.ParticipantIDs), rd.Winners, rd.IsCompleted, rd.ID,
	)
	if err != nil {
		return mapPQError(err)
	}
	return checkAffectedRows(result, ErrRoundNotFound)
}

func (r *postgresRoundRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) error {
	_, err := executorOr(exec, r.db).ExecContext(ctx, `DELETE FROM rounds WHERE tournament_id = $1`, tournamentID)
	return err
}
