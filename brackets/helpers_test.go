package brackets

import (
	"context"
	"fmt"
	"testing"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestTournament(format models.FormatName, fixing models.FixingType, n int) (*models.Tournament, []*models.Participant) {
	t := &models.Tournament{
		ID:         uuid.New(),
		Name:       "Spring Cup",
		GameType:   models.GameTypeTeam,
		FormatName: format,
		FixingType: fixing,
		Status:     models.StatusPending,
	}
	participants := make([]*models.Participant, n)
	for i := range participants {
		participants[i] = &models.Participant{
			ID:           uuid.New(),
			TournamentID: t.ID,
			Name:         fmt.Sprintf("Team %d", i+1),
			Position:     i + 1,
		}
	}
	return t, participants
}

func generate(t *testing.T, format models.FormatName, fixing models.FixingType, n int) *Bracket {
	t.Helper()
	tournament, participants := newTestTournament(format, fixing, n)
	gen, err := NewGenerator(format)
	require.NoError(t, err)
	b, err := gen.GenerateBracket(context.Background(), GenerateBracketParams{
		Tournament:   tournament,
		Participants: participants,
	})
	require.NoError(t, err)
	return b
}

func roundByName(t *testing.T, b *Bracket, tag models.BracketTag, number int) *models.Round {
	t.Helper()
	for _, r := range b.RoundsOf(tag) {
		if r.RoundNumber == number {
			return r
		}
	}
	t.Fatalf("no %s round %d", tag, number)
	return nil
}

func matchNamed(t *testing.T, b *Bracket, name string) *models.Match {
	t.Helper()
	for _, m := range b.Matches {
		if m.Name == name {
			return m
		}
	}
	t.Fatalf("no match named %q", name)
	return nil
}

// playOut declares slot A the winner of every ready match until the tournament completes.
func playOut(t *testing.T, b *Bracket) {
	t.Helper()
	for guard := 0; b.Tournament.Status != models.StatusCompleted; guard++ {
		require.Less(t, guard, len(b.Matches)+1, "bracket did not complete")
		progressed := false
		for _, m := range b.Matches {
			if m.IsCompleted || m.ParticipantA == nil || m.ParticipantB == nil {
				continue
			}
			_, err := b.DeclareWinner(m.ID, *m.ParticipantA)
			require.NoError(t, err, m.Name)
			progressed = true
		}
		require.True(t, progressed, "no match was ready")
	}
}
