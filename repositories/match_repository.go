package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepository interface {
	// CreateBatch inserts a whole graph; match-to-match references are checked at commit.
	CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id uuid.UUID) (*models.Match, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) ([]*models.Match, error)
	Update(ctx context.Context, exec SQLExecutor, match *models.Match) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `
	id, tournament_id, round_id, name, participant_a, participant_b, match_a, match_b,
	source_a, source_b, next_match, loser_match, is_bye, winner, is_completed, score_a, score_b, updated_at`

func (r *postgresMatchRepository) CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error {
	now := time.Now()
	return execBatch(ctx, executorOr(exec, r.db), `
		INSERT INTO matches (`+matchColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		len(matches),
		func(i int) []interface{} {
			m := matches[i]
			m.UpdatedAt = now
			return []interface{}{
				m.ID, m.TournamentID, m.RoundID, m.Name, m.ParticipantA, m.ParticipantB, m.MatchA, m.MatchB,
				m.SourceA, m.SourceB, m.NextMatch, m.LoserMatch, m.IsBye, m.Winner, m.IsCompleted,
				pq.Array(m.ScoreA), pq.Array(m.ScoreB), m.UpdatedAt,
			}
		})
}

func scanMatch(row rowScanner) (*models.Match, error) {
	m := &models.Match{}
	err := row.Scan(
		&m.ID, &m.TournamentID, &m.RoundID, &m.Name, &m.ParticipantA, &m.ParticipantB, &m.MatchA, &m.MatchB,
		&m.SourceA, &m.SourceB, &m.NextMatch, &m.LoserMatch, &m.IsBye, &m.Winner, &m.IsCompleted,
		pq.Array(&m.ScoreA), pq.Array(&m.ScoreB), &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id uuid.UUID) (*models.Match, error) {
	query := `SELECT` + matchColumns + ` FROM matches WHERE id = $1`
	return scanMatch(executorOr(exec, r.db).QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) ([]*models.Match, error) {
	query := `SELECT` + matchColumns + ` FROM matches WHERE tournament_id = $1 ORDER BY name`
	rows, err := executorOr(exec, r.db).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) Update(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	err := executorOr(exec, r.db).QueryRowContext(ctx, `
		UPDATE matches SET
			participant_a = $1, participant_b = $2, match_a = $3, match_b = $4,
			source_a = $5, source_b = $6, next_match = $7, loser_match = $8,
			is_bye = $9, winner = $10, is_completed = $11, score_a = $12, score_b = $13,
			updated_at = NOW()
		WHERE id = $14
		RETURNING updated_at`,
		m.ParticipantA, m.ParticipantB, m.MatchA, m.MatchB,
		m.SourceA, m.SourceB, m.NextMatch, m.LoserMatch,
		m.IsBye, m.Winner, m.IsCompleted, pq.Array(m.ScoreA), pq.Array(m.ScoreB),
		m.ID,
	).Scan(&m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMatchNotFound
		}
		return mapPQError(err)
	}
	return nil
}
