package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/google/uuid"
)

var ErrStandingNotFound = errors.New("standing not found")

type StandingRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, standings []*models.Standing) error
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) ([]*models.Standing, error)
	Update(ctx context.Context, exec SQLExecutor, standing *models.Standing) error
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) error
}

type postgresStandingRepository struct {
	db *sql.DB
}

func NewPostgresStandingRepository(db *sql.DB) StandingRepository {
	return &postgresStandingRepository{db: db}
}

func (r *postgresStandingRepository) CreateBatch(ctx context.Context, exec SQLExecutor, standings []*models.Standing) error {
	now := time.Now()
	return execBatch(ctx, executorOr(exec, r.db), `
		INSERT INTO standings (id, tournament_id, participant_id, plays, wins, losses, draws, points, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		len(standings),
		func(i int) []interface{} {
			s := standings[i]
			s.UpdatedAt = now
			return []interface{}{s.ID, s.TournamentID, s.ParticipantID, s.Plays, s.Wins, s.Losses, s.Draws, s.Points, s.UpdatedAt}
		})
}

func (r *postgresStandingRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) ([]*models.Standing, error) {
	query := `
		SELECT id, tournament_id, participant_id, plays, wins, losses, draws, points, updated_at
		FROM standings
		WHERE tournament_id = $1`
	rows, err := executorOr(exec, r.db).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	standings := make([]*models.Standing, 0)
	for rows.Next() {
		s := &models.Standing{}
		if err := rows.Scan(&s.ID, &s.TournamentID, &s.ParticipantID, &s.Plays, &s.Wins, &s.Losses, &s.Draws, &s.Points, &s.UpdatedAt); err != nil {
			return nil, err
		}
		standings = append(standings, s)
	}
	return standings, rows.Err()
}

func (r *postgresStandingRepository) Update(ctx context.Context, exec SQLExecutor, s *models.Standing) error {
	// updated_at выставляется здесь, триггеров нет
	err := executorOr(exec, r.db).QueryRowContext(ctx, `
		UPDATE standings SET
			plays = $1, wins = $2, losses = $3, draws = $4, points = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at`,
		s.Plays, s.Wins, s.Losses, s.Draws, s.Points, s.ID,
	).Scan(&s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrStandingNotFound
		}
		return mapPQError(err)
	}
	return nil
}

func (r *postgresStandingRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) error {
	_, err := executorOr(exec, r.db).ExecContext(ctx, `DELETE FROM standings WHERE tournament_id = $1`, tournamentID)
	return err
}
