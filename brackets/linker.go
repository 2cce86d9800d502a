package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/google/uuid"
)

// source is whatever fills a match slot: a seeded participant or an outcome of an
// earlier match.
type source struct {
	participant *uuid.UUID
	from        *models.Match
	kind        models.SlotSource
}

func participantSource(id uuid.UUID) source { return source{participant: &id} }
func winnerOf(m *models.Match) source       { return source{from: m, kind: models.SourceWinner} }
func loserOf(m *models.Match) source        { return source{from: m, kind: models.SourceLoser} }

type linker struct {
	b     *Bracket
	newID IDSource
	code  string
}

func newLinker(params GenerateBracketParams, topo *Topology) *linker {
	newID := params.NewID
	if newID == nil {
		newID = uuid.New
	}
	t := params.Tournament

	participantIDs := make([]uuid.UUID, len(params.Participants))
	for i, p := range params.Participants {
		participantIDs[i] = p.ID
	}
	format := &models.Format{
		ID:             newID(),
		TournamentID:   t.ID,
		Name:           t.FormatName,
		RoundNames:     topo.RoundNames(),
		RoundIDs:       make([]uuid.UUID, 0, len(topo.Rounds())),
		ParticipantIDs: participantIDs,
	}
	t.FormatID = &format.ID
	t.TotalParticipants = len(params.Participants)

	l := &linker{
		b:     NewBracket(t, format, params.Participants, nil, nil, nil),
		newID: newID,
	}
	if t.FormatName == models.FormatRoundRobin {
		l.code = "R"
	}
	return l
}

func (l *linker) addRound(plan RoundPlan) *models.Round {
	r := &models.Round{
		ID:             l.newID(),
		TournamentID:   l.b.Tournament.ID,
		RoundNumber:    plan.RoundNumber,
		Bracket:        plan.Bracket,
		Name:           plan.RoundName,
		MatchIDs:       make([]uuid.UUID, 0, plan.MatchCount),
		ParticipantIDs: []uuid.UUID{},
		Winners:        models.RoundWinners{},
	}
	l.b.Rounds = append(l.b.Rounds, r)
	l.b.roundByID[r.ID] = r
	l.b.Format.RoundIDs = append(l.b.Format.RoundIDs, r.ID)
	return r
}

func (l *linker) addMatch(r *models.Round) *models.Match {
	code := l.code
	if code == "" {
		code = r.Bracket.Code()
	}
	m := &models.Match{
		ID:           l.newID(),
		TournamentID: l.b.Tournament.ID,
		RoundID:      r.ID,
		Name:         fmt.Sprintf("Match #%s%dM%d", code, r.RoundNumber, len(r.MatchIDs)+1),
		ScoreA:       []int64{},
		ScoreB:       []int64{},
	}
	r.MatchIDs = append(r.MatchIDs, m.ID)
	l.b.Matches = append(l.b.Matches, m)
	l.b.matchByID[m.ID] = m
	l.b.roundOfMatch[m.ID] = r
	return m
}

// seat fills one slot of m. A participant is written directly; a match outcome becomes a
// predecessor reference, and the predecessor gets the forward pointer.
func (l *linker) seat(r *models.Round, m *models.Match, slotA bool, src source) {
	if src.participant != nil {
		p := *src.participant
		if slotA {
			m.ParticipantA = &p
		} else {
			m.ParticipantB = &p
		}
		r.ParticipantIDs = append(r.ParticipantIDs, p)
		return
	}

	from, to := src.from.ID, m.ID
	if slotA {
		m.MatchA, m.SourceA = &from, src.kind
	} else {
		m.MatchB, m.SourceB = &from, src.kind
	}
	if src.kind == models.SourceLoser {
		src.from.LoserMatch = &to
	} else {
		src.from.NextMatch = &to
	}
}

// pairRound creates the planned round and seats sources two at a time. An odd source
// left over gets a bye match with only slot A.
func (l *linker) pairRound(plan RoundPlan, sources []source) (*models.Round, error) {
	if (len(sources)+1)/2 != plan.MatchCount {
		return nil, fmt.Errorf("%s round %d: %d entrants do not fit %d matches",
			plan.Bracket, plan.RoundNumber, len(sources), plan.MatchCount)
	}
	r := l.addRound(plan)
	for i := 0; i < len(sources); i += 2 {
		m := l.addMatch(r)
		l.seat(r, m, true, sources[i])
		if i+1 < len(sources) {
			l.seat(r, m, false, sources[i+1])
		} else {
			m.IsBye = true
		}
	}
	return r, nil
}

// linkElimination builds a halving bracket: match k of round i is fed by matches
// 2k-1 and 2k of round i-1.
func (l *linker) linkElimination(plans []RoundPlan, seeds []uuid.UUID) ([]*models.Round, error) {
	sources := make([]source, len(seeds))
	for i, id := range seeds {
		sources[i] = participantSource(id)
	}

	rounds := make([]*models.Round, 0, len(plans))
	for _, plan := range plans {
		r, err := l.pairRound(plan, sources)
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, r)

		matches := l.b.MatchesOf(r)
		sources = make([]source, len(matches))
		for i, m := range matches {
			sources[i] = winnerOf(m)
		}
	}
	return rounds, nil
}

// linkLosers builds the losers bracket. Round i seats the survivors of losers round i-1
// against the losers of winners round i; once the winners bracket is exhausted the
// survivors keep playing each other. Returns the last losers round.
func (l *linker) linkLosers(plans []RoundPlan, winners []*models.Round) (*models.Round, error) {
	var (
		survivors []source
		last      *models.Round
	)
	for i, plan := range plans {
		var dropped []source
		if i < len(winners) {
			for _, m := range l.b.MatchesOf(winners[i]) {
				if !m.IsBye {
					dropped = append(dropped, loserOf(m))
				}
			}
		}

		r, err := l.pairRound(plan, interleave(survivors, dropped))
		if err != nil {
			return nil, err
		}
		last = r

		matches := l.b.MatchesOf(r)
		survivors = make([]source, len(matches))
		for j, m := range matches {
			survivors[j] = winnerOf(m)
		}
	}
	return last, nil
}

// interleave alternates a and b so bracket survivors meet fresh drop-downs first.
func interleave(a, b []source) []source {
	out := make([]source, 0, len(a)+len(b))
	for i := 0; i < len(a) || i < len(b); i++ {
		if i < len(a) {
			out = append(out, a[i])
		}
		if i < len(b) {
			out = append(out, b[i])
		}
	}
	return out
}

// linkRoundRobin creates every scheduled match with both slots filled, plus one
// zeroed standing per participant.
func (l *linker) linkRoundRobin(plans []RoundPlan, seeds []uuid.UUID, schedule [][]Pairing) {
	for i, plan := range plans {
		r := l.addRound(plan)
		for _, p := range schedule[i] {
			m := l.addMatch(r)
			l.seat(r, m, true, participantSource(seeds[p.A]))
			l.seat(r, m, false, participantSource(seeds[p.B]))
		}
	}

	l.b.Format.StandingIDs = make([]uuid.UUID, 0, len(l.b.Participants))
	for _, p := range l.b.Participants {
		s := &models.Standing{
			ID:            l.newID(),
			TournamentID:  l.b.Tournament.ID,
			ParticipantID: p.ID,
		}
		l.b.Standings = append(l.b.Standings, s)
		l.b.standingByPlayer[p.ID] = s
		l.b.Format.StandingIDs = append(l.b.Format.StandingIDs, s.ID)
	}
}

// finish resolves byes that already have their participant and returns a bracket with no
// pending changes: every entity in it is new.
func (l *linker) finish() (*Bracket, error) {
	if err := l.b.settleByes(); err != nil {
		return nil, err
	}
	l.b.ResetChanges()
	return l.b, nil
}
