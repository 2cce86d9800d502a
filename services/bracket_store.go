package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/repositories"
	"github.com/google/uuid"
)

// Repositories bundles the persistence the services work with.
type Repositories struct {
	Tournaments  repositories.TournamentRepository
	Participants repositories.ParticipantRepository
	Formats      repositories.FormatRepository
	Rounds       repositories.RoundRepository
	Matches      repositories.MatchRepository
	Standings    repositories.StandingRepository
}

// bracketStore moves a bracket arena between the database and memory. Every method
// expects to run inside the caller's transaction.
type bracketStore struct {
	repos Repositories
}

func (s *bracketStore) generate(ctx context.Context, t *models.Tournament, participants []*models.Participant, newID brackets.IDSource) (*brackets.Bracket, error) {
	gen, err := brackets.NewGenerator(t.FormatName)
	if err != nil {
		return nil, err
	}
	b, err := gen.GenerateBracket(ctx, brackets.GenerateBracketParams{
		Tournament:   t,
		Participants: participants,
		NewID:        newID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s bracket: %w", gen.GetName(), err)
	}
	return b, nil
}

// load reads the whole arena of a tournament, ordered the way the generator created it.
func (s *bracketStore) load(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament) (*brackets.Bracket, error) {
	format, err := s.repos.Formats.GetByTournament(ctx, exec, t.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load format for tournament %s: %w", t.ID, err)
	}
	participants, err := s.repos.Participants.ListByTournament(ctx, exec, t.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants for tournament %s: %w", t.ID, err)
	}
	rounds, err := s.repos.Rounds.ListByTournament(ctx, exec, t.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rounds for tournament %s: %w", t.ID, err)
	}
	matches, err := s.repos.Matches.ListByTournament(ctx, exec, t.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches for tournament %s: %w", t.ID, err)
	}
	standings, err := s.repos.Standings.ListByTournament(ctx, exec, t.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load standings for tournament %s: %w", t.ID, err)
	}

	var matchOrder []uuid.UUID
	for _, r := range rounds {
		matchOrder = append(matchOrder, r.MatchIDs...)
	}
	matches = orderByIDs(matches, matchOrder, func(m *models.Match) uuid.UUID { return m.ID })
	standings = orderByIDs(standings, format.StandingIDs, func(st *models.Standing) uuid.UUID { return st.ID })

	return brackets.NewBracket(t, format, participants, rounds, matches, standings), nil
}

// orderByIDs sorts items into the order of ids; items not listed keep their relative
// order at the end.
func orderByIDs[T any](items []T, ids []uuid.UUID, idOf func(T) uuid.UUID) []T {
	rank := make(map[uuid.UUID]int, len(ids))
	for i, id := range ids {
		rank[id] = i
	}
	ordered := make([]T, 0, len(items))
	var rest []T
	byID := make(map[uuid.UUID]T, len(items))
	for _, it := range items {
		if _, ok := rank[idOf(it)]; ok {
			byID[idOf(it)] = it
		} else {
			rest = append(rest, it)
		}
	}
	for _, id := range ids {
		if it, ok := byID[id]; ok {
			ordered = append(ordered, it)
		}
	}
	return append(ordered, rest...)
}

// insert writes a freshly generated arena.
func (s *bracketStore) insert(ctx context.Context, exec repositories.SQLExecutor, b *brackets.Bracket) error {
	if err := s.repos.Formats.Create(ctx, exec, b.Format); err != nil {
		return fmt.Errorf("failed to create format: %w", err)
	}
	if err := s.repos.Rounds.CreateBatch(ctx, exec, b.Rounds); err != nil {
		return fmt.Errorf("failed to create rounds: %w", err)
	}
	if err := s.repos.Matches.CreateBatch(ctx, exec, b.Matches); err != nil {
		return fmt.Errorf("failed to create matches: %w", err)
	}
	if err := s.repos.Standings.CreateBatch(ctx, exec, b.Standings); err != nil {
		return fmt.Errorf("failed to create standings: %w", err)
	}
	return nil
}

// overwrite rewrites every row of an arena whose ids already exist.
func (s *bracketStore) overwrite(ctx context.Context, exec repositories.SQLExecutor, b *brackets.Bracket) error {
	if err := s.repos.Formats.Update(ctx, exec, b.Format); err != nil {
		return fmt.Errorf("failed to update format: %w", err)
	}
	for _, r := range b.Rounds {
		if err := s.repos.Rounds.Update(ctx, exec, r); err != nil {
			return fmt.Errorf("failed to update round %s: %w", r.Name, err)
		}
	}
	for _, m := range b.Matches {
		if err := s.repos.Matches.Update(ctx, exec, m); err != nil {
			return fmt.Errorf("failed to update %s: %w", m.Name, err)
		}
	}
	for _, st := range b.Standings {
		if err := s.repos.Standings.Update(ctx, exec, st); err != nil {
			return fmt.Errorf("failed to update standing %s: %w", st.ID, err)
		}
	}
	return nil
}

// saveChanges persists what the engine touched since the arena was loaded.
func (s *bracketStore) saveChanges(ctx context.Context, exec repositories.SQLExecutor, b *brackets.Bracket) error {
	for _, m := range b.ChangedMatches() {
		if err := s.repos.Matches.Update(ctx, exec, m); err != nil {
			return fmt.Errorf("failed to update %s: %w", m.Name, err)
		}
	}
	for _, r := range b.ChangedRounds() {
		if err := s.repos.Rounds.Update(ctx, exec, r); err != nil {
			return fmt.Errorf("failed to update round %s: %w", r.Name, err)
		}
	}
	for _, st := range b.ChangedStandings() {
		if err := s.repos.Standings.Update(ctx, exec, st); err != nil {
			return fmt.Errorf("failed to update standing %s: %w", st.ID, err)
		}
	}
	if b.TournamentChanged() {
		if err := s.repos.Tournaments.Update(ctx, exec, b.Tournament); err != nil {
			return fmt.Errorf("failed to update tournament: %w", err)
		}
	}
	b.ResetChanges()
	return nil
}

// destroy removes the bracket of a tournament; participants stay.
func (s *bracketStore) destroy(ctx context.Context, exec repositories.SQLExecutor, tournamentID uuid.UUID) error {
	if err := s.repos.Standings.DeleteByTournament(ctx, exec, tournamentID); err != nil {
		return fmt.Errorf("failed to delete standings: %w", err)
	}
	if err := s.repos.Rounds.DeleteByTournament(ctx, exec, tournamentID); err != nil {
		return fmt.Errorf("failed to delete rounds: %w", err)
	}
	if err := s.repos.Formats.DeleteByTournament(ctx, exec, tournamentID); err != nil {
		return fmt.Errorf("failed to delete format: %w", err)
	}
	return nil
}

// attach exposes the arena on the tournament for API responses.
func attach(t *models.Tournament, b *brackets.Bracket) *models.Tournament {
	t.Format = b.Format
	t.Participants = b.Participants
	t.Rounds = b.Rounds
	t.Matches = b.Matches
	t.Standings = b.RankedStandings()
	return t
}
