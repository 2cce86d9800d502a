package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/models"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type BracketService interface {
	// GetBracket returns the tournament with its format, participants, rounds, matches and
	// standings attached.
	GetBracket(ctx context.Context, tournamentID uuid.UUID) (*models.Tournament, error)
	ListStandings(ctx context.Context, tournamentID uuid.UUID) ([]*models.Standing, error)
	PreviewTopology(format models.FormatName, participants int) (*brackets.Topology, error)
}

type bracketService struct {
	repos  Repositories
	logger *slog.Logger
}

func NewBracketService(repos Repositories, logger *slog.Logger) BracketService {
	return &bracketService{repos: repos, logger: logger}
}

func (s *bracketService) GetBracket(ctx context.Context, tournamentID uuid.UUID) (*models.Tournament, error) {
	t, err := s.repos.Tournaments.GetByID(ctx, nil, tournamentID)
	if err != nil {
		return nil, toAppError(err)
	}

	var (
		format       *models.Format
		participants []*models.Participant
		rounds       []*models.Round
		matches      []*models.Match
		standings    []*models.Standing
	)
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		format, err = s.repos.Formats.GetByTournament(gCtx, nil, t.ID)
		if err != nil {
			return fmt.Errorf("failed to load format: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		participants, err = s.repos.Participants.ListByTournament(gCtx, nil, t.ID)
		if err != nil {
			return fmt.Errorf("failed to load participants: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		rounds, err = s.repos.Rounds.ListByTournament(gCtx, nil, t.ID)
		if err != nil {
			return fmt.Errorf("failed to load rounds: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		matches, err = s.repos.Matches.ListByTournament(gCtx, nil, t.ID)
		if err != nil {
			return fmt.Errorf("failed to load matches: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		standings, err = s.repos.Standings.ListByTournament(gCtx, nil, t.ID)
		if err != nil {
			return fmt.Errorf("failed to load standings: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("failed to load bracket", slog.String("tournament_id", t.ID.String()), slog.Any("error", err))
		return nil, toAppError(err)
	}

	var matchOrder []uuid.UUID
	for _, r := range rounds {
		matchOrder = append(matchOrder, r.MatchIDs...)
	}
	t.Format = format
	t.Participants = participants
	t.Rounds = rounds
	t.Matches = orderByIDs(matches, matchOrder, func(m *models.Match) uuid.UUID { return m.ID })
	t.Standings = brackets.RankStandings(standings, participants)
	return t, nil
}

func (s *bracketService) ListStandings(ctx context.Context, tournamentID uuid.UUID) ([]*models.Standing, error) {
	t, err := s.repos.Tournaments.GetByID(ctx, nil, tournamentID)
	if err != nil {
		return nil, toAppError(err)
	}
	if t.FormatName != models.FormatRoundRobin {
		return nil, invalidInput("standings are only kept for round robin tournaments")
	}

	standings, err := s.repos.Standings.ListByTournament(ctx, nil, t.ID)
	if err != nil {
		return nil, toAppError(err)
	}
	participants, err := s.repos.Participants.ListByTournament(ctx, nil, t.ID)
	if err != nil {
		return nil, toAppError(err)
	}
	return brackets.RankStandings(standings, participants), nil
}

// PreviewTopology computes the round layout without touching storage.
func (s *bracketService) PreviewTopology(format models.FormatName, participants int) (*brackets.Topology, error) {
	if participants > MaxParticipants {
		return nil, invalidInput("participant count must be between %d and %d", MinParticipants, MaxParticipants)
	}
	topo, err := brackets.BuildTopology(format, participants)
	if err != nil {
		return nil, toAppError(err)
	}
	return topo, nil
}
