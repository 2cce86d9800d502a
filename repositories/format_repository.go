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

var ErrFormatNotFound = errors.New("format not found")

type FormatRepository interface {
	Create(ctx context.Context, exec SQLExecutor, format *models.Format) error
	GetByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) (*models.Format, error)
	Update(ctx context.Context, exec SQLExecutor, format *models.Format) error
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) error
}

type postgresFormatRepository struct {
	db *sql.DB
}

func NewPostgresFormatRepository(db *sql.DB) FormatRepository {
	return &postgresFormatRepository{db: db}
}

func (r *postgresFormatRepository) Create(ctx context.Context, exec SQLExecutor, f *models.Format) error {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}
	result, err := executorOr(exec, r.db).ExecContext(ctx, `
		INSERT INTO formats (id, tournament_id, name, round_names, round_ids, participant_ids, standing_ids, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		f.ID, f.TournamentID, f.Name,
		pq.Array(f.RoundNames), pq.Array(f.RoundIDs), pq.Array(f.ParticipantIDs), pq.Array(f.StandingIDs),
		f.CreatedAt,
	)
	if err != nil {
		return mapPQError(err)
	}
	return checkAffectedRows(result, ErrNotAbleToCreate)
}

func (r *postgresFormatRepository) GetByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) (*models.Format, error) {
	query := `
		SELECT id, tournament_id, name, round_names, round_ids, participant_ids, standing_ids, created_at
		FROM formats
		WHERE tournament_id = $1`
	f := &models.Format{}
	err := executorOr(exec, r.db).QueryRowContext(ctx, query, tournamentID).Scan(
		&f.ID, &f.TournamentID, &f.Name,
		pq.Array(&f.RoundNames), pq.Array(&f.RoundIDs), pq.Array(&f.ParticipantIDs), pq.Array(&f.StandingIDs),
		&f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFormatNotFound
		}
		return nil, err
	}
	return f, nil
}

func (r *postgresFormatRepository) Update(ctx context.Context, exec SQLExecutor, f *models.Format) error {
	result, err := executorOr(exec, r.db).ExecContext(ctx, `
		UPDATE formats SET
			name = $1, round_names = $2, round_ids = $3, participant_ids = $4, standing_ids = $5
		WHERE id = $6`,
		f.Name, pq.Array(f.RoundNames), pq.Array(f.RoundIDs), pq.Array(f.ParticipantIDs), pq.Array(f.StandingIDs),
		f.ID,
	)
	if err != nil {
		return mapPQError(err)
	}
	return checkAffectedRows(result, ErrFormatNotFound)
}

func (r *postgresFormatRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) error {
	_, err := executorOr(exec, r.db).ExecContext(ctx, `DELETE FROM formats WHERE tournament_id = $1`, tournamentID)
	return err
}
