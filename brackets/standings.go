package brackets

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/google/uuid"
)

const PointsPerWin = 2

var ErrStandingNotFound = errors.New("standing not found")

func (b *Bracket) standingPair(winner, loser uuid.UUID) (*models.Standing, *models.Standing, error) {
	ws, ok := b.standingByPlayer[winner]
	if !ok {
		return nil, nil, fmt.Errorf("%w for participant %s", ErrStandingNotFound, winner)
	}
	ls, ok := b.standingByPlayer[loser]
	if !ok {
		return nil, nil, fmt.Errorf("%w for participant %s", ErrStandingNotFound, loser)
	}
	return ws, ls, nil
}

func (b *Bracket) applyResult(winner, loser uuid.UUID) error {
	ws, ls, err := b.standingPair(winner, loser)
	if err != nil {
		return err
	}
	ws.Plays++
	ws.Wins++
	ws.Points += PointsPerWin
	ls.Plays++
	ls.Losses++
	b.touchStanding(ws)
	b.touchStanding(ls)
	return nil
}

func (b *Bracket) revertResult(winner, loser uuid.UUID) error {
	ws, ls, err := b.standingPair(winner, loser)
	if err != nil {
		return err
	}
	ws.Plays--
	ws.Wins--
	ws.Points -= PointsPerWin
	ls.Plays--
	ls.Losses--
	b.touchStanding(ws)
	b.touchStanding(ls)
	return nil
}

// RankedStandings orders the bracket's standings, see RankStandings.
func (b *Bracket) RankedStandings() []*models.Standing {
	return RankStandings(b.Standings, b.Participants)
}

// RankStandings returns a sorted copy: points desc, wins desc, losses asc, then
// submission position.
func RankStandings(standings []*models.Standing, participants []*models.Participant) []*models.Standing {
	position := make(map[uuid.UUID]int, len(participants))
	for _, p := range participants {
		position[p.ID] = p.Position
	}

	ranked := make([]*models.Standing, len(standings))
	copy(ranked, standings)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, c := ranked[i], ranked[j]
		if a.Points != c.Points {
			return a.Points > c.Points
		}
		if a.Wins != c.Wins {
			return a.Wins > c.Wins
		}
		if a.Losses != c.Losses {
			return a.Losses < c.Losses
		}
		return position[a.ParticipantID] < position[c.ParticipantID]
	})
	return ranked
}
