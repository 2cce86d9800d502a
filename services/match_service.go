package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/repositories"
	"github.com/google/uuid"
)

const archiveTimeout = 30 * time.Second

type MatchService interface {
	// AnnounceWinner records the result of a match. A non-empty currentStatus must equal the
	// stored tournament status, otherwise the caller is working from a stale view.
	AnnounceWinner(ctx context.Context, tournamentID, matchID, winnerID uuid.UUID, currentStatus models.TournamentStatus) (*models.Match, error)
}

type matchService struct {
	tx       TxRunner
	repos    Repositories
	store    *bracketStore
	notifier Notifier
	archiver Archiver
	logger   *slog.Logger
}

// NewMatchService wires the match workflow. archiver may be nil, then completed brackets
// are not archived.
func NewMatchService(tx TxRunner, repos Repositories, notifier Notifier, archiver Archiver, logger *slog.Logger) MatchService {
	return &matchService{
		tx:       tx,
		repos:    repos,
		store:    &bracketStore{repos: repos},
		notifier: notifierOrNop(notifier),
		archiver: archiver,
		logger:   logger,
	}
}

func (s *matchService) AnnounceWinner(ctx context.Context, tournamentID, matchID, winnerID uuid.UUID, currentStatus models.TournamentStatus) (*models.Match, error) {
	var (
		b         *brackets.Bracket
		match     *models.Match
		completed bool
	)
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		t, err := s.repos.Tournaments.GetForUpdate(ctx, exec, tournamentID)
		if err != nil {
			return err
		}
		if currentStatus != "" && currentStatus != t.Status {
			return invalidState("tournament status changed to %s, reload the bracket", t.Status)
		}
		wasCompleted := t.Status == models.StatusCompleted

		b, err = s.store.load(ctx, exec, t)
		if err != nil {
			return err
		}
		match, err = b.DeclareWinner(matchID, winnerID)
		if err != nil {
			return err
		}
		completed = !wasCompleted && t.Status == models.StatusCompleted
		return s.store.saveChanges(ctx, exec, b)
	})
	if err != nil {
		return nil, toAppError(err)
	}

	t := b.Tournament
	s.logger.Info("match winner announced",
		slog.String("tournament_id", t.ID.String()),
		slog.String("match", match.Name),
		slog.String("winner_id", winnerID.String()),
		slog.String("status", string(t.Status)),
	)
	s.notifier.Publish(t.ID, brackets.EventMatchUpdated, match)

	if completed {
		attach(t, b)
		s.notifier.Publish(t.ID, brackets.EventTournamentCompleted, t)
		s.archive(t)
	}
	return match, nil
}

// archive runs after the commit; a failed upload only costs the snapshot.
func (s *matchService) archive(t *models.Tournament) {
	if s.archiver == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()

	url, err := s.archiver.Archive(ctx, t)
	if err != nil {
		s.logger.Error("failed to archive completed bracket",
			slog.String("tournament_id", t.ID.String()),
			slog.Any("error", fmt.Errorf("archive: %w", err)),
		)
		return
	}
	s.logger.Info("completed bracket archived", slog.String("tournament_id", t.ID.String()), slog.String("url", url))
}
