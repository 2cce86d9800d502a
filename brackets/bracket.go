package brackets

import (
	"github.com/Dosada05/tournament-engine/models"
	"github.com/google/uuid"
)

// Bracket is the in-memory arena of one tournament's graph. Entities reference each other
// by id only; the index maps are rebuilt from the slices by NewBracket.
//
// All mutation goes through the engine methods, which record what changed so the caller
// can persist exactly those rows inside its transaction.
type Bracket struct {
	Tournament   *models.Tournament
	Format       *models.Format
	Participants []*models.Participant
	Rounds       []*models.Round
	Matches      []*models.Match
	Standings    []*models.Standing

	matchByID        map[uuid.UUID]*models.Match
	roundByID        map[uuid.UUID]*models.Round
	roundOfMatch     map[uuid.UUID]*models.Round
	standingByPlayer map[uuid.UUID]*models.Standing

	changedMatches    map[uuid.UUID]struct{}
	changedRounds     map[uuid.UUID]struct{}
	changedStandings  map[uuid.UUID]struct{}
	tournamentChanged bool
}

// NewBracket indexes already persisted entities.
func NewBracket(
	tournament *models.Tournament,
	format *models.Format,
	participants []*models.Participant,
	rounds []*models.Round,
	matches []*models.Match,
	standings []*models.Standing,
) *Bracket {
	b := &Bracket{
		Tournament:   tournament,
		Format:       format,
		Participants: participants,
		Rounds:       rounds,
		Matches:      matches,
		Standings:    standings,
	}
	b.reindex()
	b.ResetChanges()
	return b
}

func (b *Bracket) reindex() {
	b.matchByID = make(map[uuid.UUID]*models.Match, len(b.Matches))
	b.roundByID = make(map[uuid.UUID]*models.Round, len(b.Rounds))
	b.roundOfMatch = make(map[uuid.UUID]*models.Round, len(b.Matches))
	b.standingByPlayer = make(map[uuid.UUID]*models.Standing, len(b.Standings))

	for _, m := range b.Matches {
		b.matchByID[m.ID] = m
	}
	for _, r := range b.Rounds {
		b.roundByID[r.ID] = r
		for _, id := range r.MatchIDs {
			b.roundOfMatch[id] = r
		}
	}
	for _, s := range b.Standings {
		b.standingByPlayer[s.ParticipantID] = s
	}
}

func (b *Bracket) Match(id uuid.UUID) (*models.Match, bool) {
	m, ok := b.matchByID[id]
	return m, ok
}

func (b *Bracket) Round(id uuid.UUID) (*models.Round, bool) {
	r, ok := b.roundByID[id]
	return r, ok
}

// RoundOf returns the round owning the match.
func (b *Bracket) RoundOf(matchID uuid.UUID) (*models.Round, bool) {
	r, ok := b.roundOfMatch[matchID]
	return r, ok
}

func (b *Bracket) Standing(participantID uuid.UUID) (*models.Standing, bool) {
	s, ok := b.standingByPlayer[participantID]
	return s, ok
}

// RoundsOf returns the rounds of one bracket lineage in round-number order.
func (b *Bracket) RoundsOf(tag models.BracketTag) []*models.Round {
	var out []*models.Round
	for _, r := range b.Rounds {
		if r.Bracket == tag {
			out = append(out, r)
		}
	}
	return out
}

// MatchesOf returns the matches of a round in their stored order.
func (b *Bracket) MatchesOf(r *models.Round) []*models.Match {
	out := make([]*models.Match, 0, len(r.MatchIDs))
	for _, id := range r.MatchIDs {
		if m, ok := b.matchByID[id]; ok {
			out = append(out, m)
		}
	}
	return out
}

// AllocatedIDs lists every entity id in the order a generator allocates them:
// format, then each round followed by its matches, then standings.
func (b *Bracket) AllocatedIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, 1+len(b.Rounds)+len(b.Matches)+len(b.Standings))
	if b.Format != nil {
		ids = append(ids, b.Format.ID)
	}
	for _, r := range b.Rounds {
		ids = append(ids, r.ID)
		ids = append(ids, r.MatchIDs...)
	}
	for _, s := range b.Standings {
		ids = append(ids, s.ID)
	}
	return ids
}

func (b *Bracket) touchMatch(m *models.Match)       { b.changedMatches[m.ID] = struct{}{} }
func (b *Bracket) touchRound(r *models.Round)       { b.changedRounds[r.ID] = struct{}{} }
func (b *Bracket) touchStanding(s *models.Standing) { b.changedStandings[s.ID] = struct{}{} }

// ResetChanges forgets recorded changes, typically after they were persisted.
func (b *Bracket) ResetChanges() {
	b.changedMatches = make(map[uuid.UUID]struct{})
	b.changedRounds = make(map[uuid.UUID]struct{})
	b.changedStandings = make(map[uuid.UUID]struct{})
	b.tournamentChanged = false
}

func (b *Bracket) ChangedMatches() []*models.Match {
	out := make([]*models.Match, 0, len(b.changedMatches))
	for _, m := range b.Matches {
		if _, ok := b.changedMatches[m.ID]; ok {
			out = append(out, m)
		}
	}
	return out
}

func (b *Bracket) ChangedRounds() []*models.Round {
	out := make([]*models.Round, 0, len(b.changedRounds))
	for _, r := range b.Rounds {
		if _, ok := b.changedRounds[r.ID]; ok {
			out = append(out, r)
		}
	}
	return out
}

func (b *Bracket) ChangedStandings() []*models.Standing {
	out := make([]*models.Standing, 0, len(b.changedStandings))
	for _, s := range b.Standings {
		if _, ok := b.changedStandings[s.ID]; ok {
			out = append(out, s)
		}
	}
	return out
}

// TournamentChanged reports a status or winner transition.
func (b *Bracket) TournamentChanged() bool {
	return b.tournamentChanged
}
