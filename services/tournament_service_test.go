package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db          *memoryDB
	notifier    *recordingNotifier
	uploader    *fakeUploader
	tournaments TournamentService
	matches     MatchService
	brackets    BracketService
}

func newTestEnv() *testEnv {
	db := newMemoryDB()
	repos := db.repos()
	tx := &fakeTx{db: db}
	notifier := &recordingNotifier{}
	uploader := &fakeUploader{}
	logger := discardLogger()
	return &testEnv{
		db:          db,
		notifier:    notifier,
		uploader:    uploader,
		tournaments: NewTournamentService(tx, repos, notifier, logger),
		matches:     NewMatchService(tx, repos, notifier, NewArchiver(uploader), logger),
		brackets:    NewBracketService(repos, logger),
	}
}

func createInput(format models.FormatName, n int) CreateTournamentInput {
	return CreateTournamentInput{
		Name:             "Spring Cup",
		GameType:         models.GameTypeTeam,
		ParticipantCount: n,
		FormatName:       format,
		FixingType:       models.FixingTopVsBottom,
	}
}

func (e *testEnv) create(t *testing.T, format models.FormatName, n int) *models.Tournament {
	t.Helper()
	organizer := 7
	tour, err := e.tournaments.CreateTournament(context.Background(), &organizer, createInput(format, n))
	require.NoError(t, err)
	return tour
}

// nextPlayable returns the first match that can take a result.
func nextPlayable(tour *models.Tournament) *models.Match {
	for _, m := range tour.Matches {
		if !m.IsCompleted && m.ParticipantA != nil && m.ParticipantB != nil {
			return m
		}
	}
	return nil
}

func (e *testEnv) playOut(t *testing.T, id uuid.UUID) *models.Tournament {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < 1000; i++ {
		tour, err := e.brackets.GetBracket(ctx, id)
		require.NoError(t, err)
		if tour.Status == models.StatusCompleted {
			return tour
		}
		m := nextPlayable(tour)
		require.NotNil(t, m, "no playable match left in an unfinished tournament")
		_, err = e.matches.AnnounceWinner(ctx, id, m.ID, *m.ParticipantA, tour.Status)
		require.NoError(t, err)
	}
	t.Fatal("tournament did not finish")
	return nil
}

func TestCreateTournament_Validation(t *testing.T) {
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)

	tests := []struct {
		name   string
		mutate func(in *CreateTournamentInput)
	}{
		{"empty name", func(in *CreateTournamentInput) { in.Name = "  " }},
		{"unknown game type", func(in *CreateTournamentInput) { in.GameType = "duo" }},
		{"unknown format", func(in *CreateTournamentInput) { in.FormatName = "swiss" }},
		{"unknown fixing type", func(in *CreateTournamentInput) { in.FixingType = "coin" }},
		{"single participant", func(in *CreateTournamentInput) { in.ParticipantCount = 1 }},
		{"too many participants", func(in *CreateTournamentInput) { in.ParticipantCount = MaxParticipants + 1 }},
		{"end before start", func(in *CreateTournamentInput) { in.StartDate, in.EndDate = &start, &end }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			in := createInput(models.FormatKnockout, 4)
			tt.mutate(&in)

			_, err := env.tournaments.CreateTournament(context.Background(), nil, in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)

			var appErr *AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, 400, appErr.Status)
			assert.Empty(t, env.db.tournaments)
		})
	}
}

func TestCreateTournament_Knockout(t *testing.T) {
	env := newTestEnv()
	tour := env.create(t, models.FormatKnockout, 5)

	assert.Equal(t, models.StatusPending, tour.Status)
	assert.Equal(t, 5, tour.TotalParticipants)
	require.NotNil(t, tour.FormatID)
	require.NotNil(t, tour.Format)
	assert.Equal(t, []string{"Qualification Round 1", "Semi Final", "Final"}, tour.Format.RoundNames)
	require.Len(t, tour.Participants, 5)
	assert.Equal(t, "Team 1", tour.Participants[0].Name)
	assert.Equal(t, "Team 5", tour.Participants[4].Name)

	stored, err := env.tournaments.GetTournament(context.Background(), tour.ID)
	require.NoError(t, err)
	assert.Equal(t, tour.FormatID, stored.FormatID)
	assert.Equal(t, 5, stored.TotalParticipants)

	assert.Len(t, env.db.matches, len(tour.Matches))
	assert.Equal(t, []string{brackets.EventBracketUpdated}, env.notifier.types())
}

func TestCreateTournament_PlayerPlaceholders(t *testing.T) {
	env := newTestEnv()
	in := createInput(models.FormatRoundRobin, 3)
	in.GameType = models.GameTypeIndividual

	tour, err := env.tournaments.CreateTournament(context.Background(), nil, in)
	require.NoError(t, err)
	assert.Equal(t, "Player 2", tour.Participants[1].Name)
	assert.Len(t, tour.Standings, 3)
	assert.Len(t, tour.Format.StandingIDs, 3)
}

func TestCreateTournament_NameConflict(t *testing.T) {
	env := newTestEnv()
	env.create(t, models.FormatKnockout, 4)

	organizer := 7
	_, err := env.tournaments.CreateTournament(context.Background(), &organizer, createInput(models.FormatKnockout, 4))
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Len(t, env.db.tournaments, 1)
}

func TestEditTournament_CosmeticAlwaysAllowed(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	tour := env.create(t, models.FormatKnockout, 4)

	m := nextPlayable(tour)
	_, err := env.matches.AnnounceWinner(ctx, tour.ID, m.ID, *m.ParticipantA, "")
	require.NoError(t, err)

	name := "Autumn Cup"
	edited, err := env.tournaments.EditTournament(ctx, tour.ID, EditTournamentInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Autumn Cup", edited.Name)
	assert.Equal(t, models.StatusActive, edited.Status)

	fixing := models.FixingSequential
	_, err = env.tournaments.EditTournament(ctx, tour.ID, EditTournamentInput{FixingType: &fixing})
	assert.ErrorIs(t, err, ErrInvalidState)

	format := models.FormatRoundRobin
	_, err = env.tournaments.EditTournament(ctx, tour.ID, EditTournamentInput{FormatName: &format})
	assert.ErrorIs(t, err, ErrInvalidState)

	stored, err := env.tournaments.GetTournament(ctx, tour.ID)
	require.NoError(t, err)
	assert.Equal(t, "Autumn Cup", stored.Name)
	assert.Equal(t, models.FormatKnockout, stored.FormatName)
}

func TestEditTournament_FixingTypeReseats(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	tour := env.create(t, models.FormatKnockout, 4)

	matchIDs := map[uuid.UUID]bool{}
	for id := range env.db.matches {
		matchIDs[id] = true
	}
	formatID := *tour.FormatID
	first := tour.Matches[0]
	assert.Equal(t, tour.Participants[3].ID, *first.ParticipantB)

	fixing := models.FixingSequential
	edited, err := env.tournaments.EditTournament(ctx, tour.ID, EditTournamentInput{FixingType: &fixing})
	require.NoError(t, err)

	assert.Equal(t, formatID, *edited.FormatID)
	require.Len(t, env.db.matches, len(matchIDs))
	for id := range env.db.matches {
		assert.True(t, matchIDs[id], "reseat must keep match ids")
	}
	reseated := env.db.matches[first.ID]
	assert.Equal(t, tour.Participants[0].ID, *reseated.ParticipantA)
	assert.Equal(t, tour.Participants[1].ID, *reseated.ParticipantB)
}

func TestEditTournament_FormatChangeRebuilds(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	tour := env.create(t, models.FormatKnockout, 4)
	oldFormat := *tour.FormatID

	format := models.FormatRoundRobin
	edited, err := env.tournaments.EditTournament(ctx, tour.ID, EditTournamentInput{FormatName: &format})
	require.NoError(t, err)

	assert.NotEqual(t, oldFormat, *edited.FormatID)
	assert.Len(t, env.db.formats, 1)
	assert.Len(t, env.db.rounds, 3)
	assert.Len(t, env.db.matches, 6)
	assert.Len(t, env.db.standings, 4)
	assert.Len(t, env.db.participants, 4, "participants survive a rebuild")
}

func TestAddParticipant(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	tour := env.create(t, models.FormatKnockout, 4)

	updated, err := env.tournaments.AddParticipant(ctx, tour.ID, "Late Team")
	require.NoError(t, err)
	assert.Equal(t, 5, updated.TotalParticipants)
	require.Len(t, updated.Participants, 5)
	assert.Equal(t, "Late Team", updated.Participants[4].Name)
	assert.Equal(t, 5, updated.Participants[4].Position)
	assert.Equal(t, []string{"Qualification Round 1", "Semi Final", "Final"}, updated.Format.RoundNames)
	assert.Len(t, env.db.formats, 1)

	_, err = env.tournaments.AddParticipant(ctx, tour.ID, " ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRemoveParticipant(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	tour := env.create(t, models.FormatKnockout, 3)

	updated, err := env.tournaments.RemoveParticipant(ctx, tour.ID, tour.Participants[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.TotalParticipants)
	require.Len(t, updated.Participants, 2)
	assert.Equal(t, 1, updated.Participants[0].Position)
	assert.Equal(t, 2, updated.Participants[1].Position)
	assert.Equal(t, []string{"Final"}, updated.Format.RoundNames)

	_, err = env.tournaments.RemoveParticipant(ctx, tour.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.tournaments.RemoveParticipant(ctx, tour.ID, updated.Participants[0].ID)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Len(t, env.db.participants, 2)
}

func TestParticipantChangesRequirePending(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	tour := env.create(t, models.FormatKnockout, 4)

	m := nextPlayable(tour)
	_, err := env.matches.AnnounceWinner(ctx, tour.ID, m.ID, *m.ParticipantA, models.StatusPending)
	require.NoError(t, err)

	_, err = env.tournaments.AddParticipant(ctx, tour.ID, "Late Team")
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = env.tournaments.RemoveParticipant(ctx, tour.ID, tour.Participants[0].ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestGetTournament_NotFound(t *testing.T) {
	env := newTestEnv()
	_, err := env.tournaments.GetTournament(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListTournaments_DefaultLimit(t *testing.T) {
	env := newTestEnv()
	env.create(t, models.FormatKnockout, 4)

	list, err := env.tournaments.ListTournaments(context.Background(), repositories.ListTournamentsFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
