package brackets

import (
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/google/uuid"
)

var (
	ErrMatchNotFound     = errors.New("match not found")
	ErrInvalidWinner     = errors.New("invalid winner selection")
	ErrResultAlreadySet  = errors.New("match result already set")
	ErrWinnerNotDeclared = errors.New("winner not declared")
	ErrMatchNotReady     = errors.New("match participants are not determined yet")
	ErrBrokenLink        = errors.New("bracket references a missing match")
)

// DeclareWinner records winnerID as the result of the match and propagates it through the
// graph. Elimination results are final; a round-robin result can be declared again, which
// corrects the standings.
func (b *Bracket) DeclareWinner(matchID, winnerID uuid.UUID) (*models.Match, error) {
	m, ok := b.matchByID[matchID]
	if !ok {
		return nil, ErrMatchNotFound
	}
	if b.Tournament.FormatName == models.FormatRoundRobin {
		if err := b.declareRoundRobin(m, winnerID); err != nil {
			return nil, err
		}
		return m, nil
	}

	if m.IsCompleted {
		return nil, ErrResultAlreadySet
	}
	for _, pred := range []*uuid.UUID{m.MatchA, m.MatchB} {
		if pred == nil {
			continue
		}
		p, ok := b.matchByID[*pred]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrBrokenLink, *pred)
		}
		if p.Winner == nil {
			return nil, fmt.Errorf("%w for %s", ErrWinnerNotDeclared, p.Name)
		}
	}
	if m.ParticipantA == nil || (m.ParticipantB == nil && !m.IsBye) {
		return nil, ErrMatchNotReady
	}
	if !m.HasParticipant(winnerID) {
		return nil, ErrInvalidWinner
	}

	b.markActive()
	if err := b.resolve(m, winnerID); err != nil {
		return nil, err
	}
	return m, nil
}

// settleByes resolves every bye whose single participant is already known.
func (b *Bracket) settleByes() error {
	for _, m := range b.Matches {
		if m.IsBye && !m.IsCompleted && m.ParticipantA != nil {
			if err := b.resolve(m, *m.ParticipantA); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *Bracket) markActive() {
	if b.Tournament.Status == models.StatusPending {
		b.Tournament.Status = models.StatusActive
		b.tournamentChanged = true
	}
}

func (b *Bracket) complete(winner uuid.UUID) {
	w := winner
	b.Tournament.Status = models.StatusCompleted
	b.Tournament.WinnerID = &w
	b.tournamentChanged = true
}

// resolve completes an elimination match and pushes both outcomes forward.
func (b *Bracket) resolve(m *models.Match, winner uuid.UUID) error {
	r, ok := b.roundOfMatch[m.ID]
	if !ok {
		return fmt.Errorf("%w: round of %s", ErrBrokenLink, m.Name)
	}

	w := winner
	m.Winner = &w
	m.IsCompleted = true
	b.touchMatch(m)

	for _, pred := range []*uuid.UUID{m.MatchA, m.MatchB} {
		if pred == nil {
			continue
		}
		if p, ok := b.matchByID[*pred]; ok && !p.IsCompleted {
			p.IsCompleted = true
			b.touchMatch(p)
		}
	}

	b.recordRoundWinner(r, m.ID, winner)

	if m.NextMatch != nil {
		if err := b.place(*m.NextMatch, m, models.SourceWinner, winner); err != nil {
			return err
		}
	}
	if m.LoserMatch != nil {
		if loser := m.Opponent(winner); loser != nil {
			if err := b.place(*m.LoserMatch, m, models.SourceLoser, *loser); err != nil {
				return err
			}
		}
	}

	if b.decidesTournament(r, m) {
		b.complete(winner)
	}
	return nil
}

// place writes a participant into the slot of target fed by the given outcome of from.
// A bye that receives its participant resolves on the spot.
func (b *Bracket) place(targetID uuid.UUID, from *models.Match, kind models.SlotSource, participant uuid.UUID) error {
	target, ok := b.matchByID[targetID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrBrokenLink, targetID)
	}

	p := participant
	switch {
	case feeds(target.MatchA, target.SourceA, from.ID, kind):
		target.ParticipantA = &p
	case feeds(target.MatchB, target.SourceB, from.ID, kind):
		target.ParticipantB = &p
	default:
		return fmt.Errorf("%w: %s does not feed %s", ErrBrokenLink, from.Name, target.Name)
	}
	b.touchMatch(target)

	targetRound, ok := b.roundOfMatch[target.ID]
	if !ok {
		return fmt.Errorf("%w: round of %s", ErrBrokenLink, target.Name)
	}
	if fromRound := b.roundOfMatch[from.ID]; fromRound != targetRound {
		b.addRoundParticipant(targetRound, participant)
	}

	if target.IsBye && !target.IsCompleted && target.ParticipantA != nil {
		return b.resolve(target, *target.ParticipantA)
	}
	return nil
}

func feeds(pred *uuid.UUID, source models.SlotSource, fromID uuid.UUID, kind models.SlotSource) bool {
	if pred == nil || *pred != fromID {
		return false
	}
	if source == models.SourceNone {
		source = models.SourceWinner
	}
	return source == kind
}

func (b *Bracket) decidesTournament(r *models.Round, m *models.Match) bool {
	if m.NextMatch != nil {
		return false
	}
	switch b.Tournament.FormatName {
	case models.FormatKnockout:
		return r.Bracket == models.BracketWinners
	case models.FormatDoubleElimination:
		return r.Bracket == models.BracketFinal
	}
	return false
}

// recordRoundWinner upserts the winner entry for a match and refreshes the round's
// completion flag.
func (b *Bracket) recordRoundWinner(r *models.Round, matchID, winner uuid.UUID) {
	entry := models.RoundWinner{MatchID: matchID, ParticipantID: winner}
	replaced := false
	for i := range r.Winners {
		if r.Winners[i].MatchID == matchID {
			r.Winners[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		r.Winners = append(r.Winners, entry)
	}
	r.IsCompleted = r.Complete()
	b.touchRound(r)
}

func (b *Bracket) addRoundParticipant(r *models.Round, participant uuid.UUID) {
	for _, id := range r.ParticipantIDs {
		if id == participant {
			return
		}
	}
	r.ParticipantIDs = append(r.ParticipantIDs, participant)
	b.touchRound(r)
}

// declareRoundRobin applies or corrects a round-robin result. The tournament completes
// when the last unresolved match gets its first result; its champion follows the ranking,
// so corrections after completion move the title too.
func (b *Bracket) declareRoundRobin(m *models.Match, winner uuid.UUID) error {
	if m.ParticipantA == nil || m.ParticipantB == nil {
		return ErrMatchNotReady
	}
	if !m.HasParticipant(winner) {
		return ErrInvalidWinner
	}
	loser := *m.Opponent(winner)

	if m.Winner != nil {
		if *m.Winner == winner {
			return nil
		}
		if err := b.revertResult(*m.Winner, *m.Opponent(*m.Winner)); err != nil {
			return err
		}
	} else {
		b.markActive()
	}
	if err := b.applyResult(winner, loser); err != nil {
		return err
	}

	r, ok := b.roundOfMatch[m.ID]
	if !ok {
		return fmt.Errorf("%w: round of %s", ErrBrokenLink, m.Name)
	}
	w := winner
	m.Winner = &w
	m.IsCompleted = true
	b.touchMatch(m)
	b.recordRoundWinner(r, m.ID, winner)

	if b.Tournament.Status == models.StatusCompleted || b.allMatchesResolved() {
		if ranked := b.RankedStandings(); len(ranked) > 0 {
			b.complete(ranked[0].ParticipantID)
		}
	}
	return nil
}

func (b *Bracket) allMatchesResolved() bool {
	for _, m := range b.Matches {
		if m.Winner == nil {
			return false
		}
	}
	return true
}
