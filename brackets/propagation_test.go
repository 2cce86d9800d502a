package brackets

import (
	"testing"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeclareWinner_Knockout(t *testing.T) {
	b := generate(t, models.FormatKnockout, models.FixingSequential, 4)
	p := b.Participants
	semi1 := matchNamed(t, b, "Match #W1M1")
	semi2 := matchNamed(t, b, "Match #W1M2")
	final := matchNamed(t, b, "Match #W2M1")

	_, err := b.DeclareWinner(final.ID, p[0].ID)
	require.ErrorIs(t, err, ErrWinnerNotDeclared)
	assert.EqualError(t, err, "winner not declared for Match #W1M1")

	_, err = b.DeclareWinner(semi1.ID, p[2].ID)
	require.ErrorIs(t, err, ErrInvalidWinner)
	assert.Equal(t, models.StatusPending, b.Tournament.Status)

	m, err := b.DeclareWinner(semi1.ID, p[0].ID)
	require.NoError(t, err)
	assert.Equal(t, semi1, m)
	assert.True(t, semi1.IsCompleted)
	assert.Equal(t, models.StatusActive, b.Tournament.Status)
	assert.True(t, b.TournamentChanged())
	require.NotNil(t, final.ParticipantA)
	assert.Equal(t, p[0].ID, *final.ParticipantA)
	assert.Nil(t, final.ParticipantB)

	semis := roundByName(t, b, models.BracketWinners, 1)
	assert.Equal(t, models.RoundWinners{{MatchID: semi1.ID, ParticipantID: p[0].ID}}, semis.Winners)
	assert.False(t, semis.IsCompleted)
	finalRound := roundByName(t, b, models.BracketWinners, 2)
	assert.Equal(t, []uuid.UUID{p[0].ID}, finalRound.ParticipantIDs)

	_, err = b.DeclareWinner(final.ID, p[0].ID)
	assert.EqualError(t, err, "winner not declared for Match #W1M2")

	_, err = b.DeclareWinner(semi2.ID, p[3].ID)
	require.NoError(t, err)
	assert.True(t, semis.IsCompleted)
	assert.ElementsMatch(t, []uuid.UUID{semi1.ID, semi2.ID}, []uuid.UUID{semis.Winners[0].MatchID, semis.Winners[1].MatchID})

	assert.ElementsMatch(t,
		[]uuid.UUID{semi1.ID, semi2.ID, final.ID},
		matchIDs(b.ChangedMatches()))

	_, err = b.DeclareWinner(final.ID, p[3].ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, b.Tournament.Status)
	require.NotNil(t, b.Tournament.WinnerID)
	assert.Equal(t, p[3].ID, *b.Tournament.WinnerID)
	assert.True(t, finalRound.IsCompleted)
}

func matchIDs(matches []*models.Match) []uuid.UUID {
	ids := make([]uuid.UUID, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
	}
	return ids
}

func TestDeclareWinner_CompletedMatchIsFinal(t *testing.T) {
	b := generate(t, models.FormatKnockout, models.FixingSequential, 8)
	m := matchNamed(t, b, "Match #W1M1")
	_, err := b.DeclareWinner(m.ID, *m.ParticipantA)
	require.NoError(t, err)
	b.ResetChanges()

	snapshot := *m
	next, _ := b.Match(*m.NextMatch)
	nextSnapshot := *next

	for _, winner := range []uuid.UUID{*m.ParticipantA, *m.ParticipantB} {
		_, err = b.DeclareWinner(m.ID, winner)
		assert.ErrorIs(t, err, ErrResultAlreadySet)
	}
	assert.Equal(t, snapshot, *m)
	assert.Equal(t, nextSnapshot, *next)
	assert.Empty(t, b.ChangedMatches())
	assert.Empty(t, b.ChangedRounds())
	assert.False(t, b.TournamentChanged())
}

func TestDeclareWinner_UnknownMatch(t *testing.T) {
	b := generate(t, models.FormatKnockout, models.FixingSequential, 4)
	_, err := b.DeclareWinner(uuid.New(), b.Participants[0].ID)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestDeclareWinner_DoubleEliminationLoserRouting(t *testing.T) {
	b := generate(t, models.FormatDoubleElimination, models.FixingSequential, 4)
	p := b.Participants

	w1 := matchNamed(t, b, "Match #W1M1")
	w2 := matchNamed(t, b, "Match #W1M2")
	wFinal := matchNamed(t, b, "Match #W2M1")
	l1 := matchNamed(t, b, "Match #L1M1")
	lFinal := matchNamed(t, b, "Match #L2M1")
	fb := matchNamed(t, b, "Match #F1M1")

	_, err := b.DeclareWinner(w1.ID, p[0].ID)
	require.NoError(t, err)
	require.NotNil(t, l1.ParticipantA)
	assert.Equal(t, p[1].ID, *l1.ParticipantA)
	assert.Contains(t, roundByName(t, b, models.BracketLosers, 1).ParticipantIDs, p[1].ID)

	_, err = b.DeclareWinner(l1.ID, p[1].ID)
	assert.ErrorIs(t, err, ErrWinnerNotDeclared)

	_, err = b.DeclareWinner(w2.ID, p[2].ID)
	require.NoError(t, err)
	_, err = b.DeclareWinner(l1.ID, p[3].ID)
	require.NoError(t, err)
	assert.Equal(t, p[3].ID, *lFinal.ParticipantA)

	_, err = b.DeclareWinner(wFinal.ID, p[0].ID)
	require.NoError(t, err)
	assert.Equal(t, p[2].ID, *lFinal.ParticipantB)
	assert.Equal(t, p[0].ID, *fb.ParticipantA)
	assert.Equal(t, models.StatusActive, b.Tournament.Status, "winners final does not decide a double elimination")

	_, err = b.DeclareWinner(lFinal.ID, p[3].ID)
	require.NoError(t, err)
	assert.Equal(t, p[3].ID, *fb.ParticipantB)

	_, err = b.DeclareWinner(fb.ID, p[3].ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, b.Tournament.Status)
	assert.Equal(t, p[3].ID, *b.Tournament.WinnerID)
	checkGraph(t, b)
}

func TestDeclareWinner_DoubleEliminationTwoPlayers(t *testing.T) {
	b := generate(t, models.FormatDoubleElimination, models.FixingSequential, 2)
	p := b.Participants

	w := matchNamed(t, b, "Match #W1M1")
	l := matchNamed(t, b, "Match #L1M1")
	fb := matchNamed(t, b, "Match #F1M1")
	assert.True(t, l.IsBye)

	_, err := b.DeclareWinner(w.ID, p[0].ID)
	require.NoError(t, err)
	assert.True(t, l.IsCompleted, "the losers bye resolves as soon as its participant arrives")
	assert.Equal(t, p[0].ID, *fb.ParticipantA)
	assert.Equal(t, p[1].ID, *fb.ParticipantB)

	_, err = b.DeclareWinner(fb.ID, p[1].ID)
	require.NoError(t, err)
	assert.Equal(t, p[1].ID, *b.Tournament.WinnerID)
}

func TestDeclareWinner_RoundRobinCorrection(t *testing.T) {
	b := generate(t, models.FormatRoundRobin, models.FixingSequential, 4)

	for _, m := range b.Matches[:3] {
		_, err := b.DeclareWinner(m.ID, *m.ParticipantA)
		require.NoError(t, err)
	}
	assert.Equal(t, models.StatusActive, b.Tournament.Status)

	totals := func() (int, int) {
		results, points := 0, 0
		for _, s := range b.Standings {
			results += s.Wins + s.Losses
			points += s.Points
		}
		return results, points
	}
	results, points := totals()
	assert.Equal(t, 6, results)
	assert.Equal(t, 3*PointsPerWin, points)

	m := b.Matches[0]
	oldWinner, newWinner := *m.ParticipantA, *m.ParticipantB
	oldBefore, _ := b.Standing(oldWinner)
	oldWins := oldBefore.Wins

	b.ResetChanges()
	_, err := b.DeclareWinner(m.ID, newWinner)
	require.NoError(t, err)

	gotResults, gotPoints := totals()
	assert.Equal(t, results, gotResults)
	assert.Equal(t, points, gotPoints)
	assert.Equal(t, newWinner, *m.Winner)
	assert.Equal(t, oldWins-1, oldBefore.Wins)
	assert.Len(t, b.ChangedStandings(), 2)

	r, _ := b.RoundOf(m.ID)
	assert.Contains(t, r.Winners, models.RoundWinner{MatchID: m.ID, ParticipantID: newWinner})
	assert.NotContains(t, r.Winners, models.RoundWinner{MatchID: m.ID, ParticipantID: oldWinner})

	b.ResetChanges()
	_, err = b.DeclareWinner(m.ID, newWinner)
	require.NoError(t, err)
	assert.Empty(t, b.ChangedStandings(), "re-declaring the same winner changes nothing")

	_, err = b.DeclareWinner(m.ID, uuid.New())
	assert.ErrorIs(t, err, ErrInvalidWinner)
}

func TestDeclareWinner_RoundRobinCompletesOnLastMatch(t *testing.T) {
	b := generate(t, models.FormatRoundRobin, models.FixingSequential, 3)
	p := b.Participants

	// p1 wins everything
	for i, m := range b.Matches {
		winner := *m.ParticipantA
		if m.HasParticipant(p[0].ID) {
			winner = p[0].ID
		}
		_, err := b.DeclareWinner(m.ID, winner)
		require.NoError(t, err)
		if i < len(b.Matches)-1 {
			assert.NotEqual(t, models.StatusCompleted, b.Tournament.Status)
		}
	}
	assert.Equal(t, models.StatusCompleted, b.Tournament.Status)
	assert.Equal(t, p[0].ID, *b.Tournament.WinnerID)

	ranked := b.RankedStandings()
	assert.Equal(t, p[0].ID, ranked[0].ParticipantID)
	assert.Equal(t, 2*PointsPerWin, ranked[0].Points)
	for _, s := range b.Standings {
		assert.Zero(t, s.Draws)
		assert.Equal(t, 2, s.Plays)
	}
}
