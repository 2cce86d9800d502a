package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/repositories"
	"github.com/google/uuid"
)

const (
	MinParticipants = 2
	MaxParticipants = 256
)

type CreateTournamentInput struct {
	Name             string            `json:"name"`
	Description      *string           `json:"description,omitempty"`
	GameType         models.GameType   `json:"game_type"`
	ParticipantCount int               `json:"participant_count"`
	FormatName       models.FormatName `json:"format_name"`
	SportID          *int              `json:"sport_id,omitempty"`
	FixingType       models.FixingType `json:"fixing_type"`
	StartDate        *time.Time        `json:"start_date,omitempty"`
	EndDate          *time.Time        `json:"end_date,omitempty"`
}

// EditTournamentInput is a patch: nil fields stay as they are. Name, description and
// dates can change at any time; the rest only while the tournament is PENDING.
type EditTournamentInput struct {
	Name        *string            `json:"name,omitempty"`
	Description *string            `json:"description,omitempty"`
	StartDate   *time.Time         `json:"start_date,omitempty"`
	EndDate     *time.Time         `json:"end_date,omitempty"`
	GameType    *models.GameType   `json:"game_type,omitempty"`
	SportID     *int               `json:"sport_id,omitempty"`
	FixingType  *models.FixingType `json:"fixing_type,omitempty"`
	FormatName  *models.FormatName `json:"format_name,omitempty"`
}

type TournamentService interface {
	CreateTournament(ctx context.Context, organizerID *int, input CreateTournamentInput) (*models.Tournament, error)
	EditTournament(ctx context.Context, tournamentID uuid.UUID, input EditTournamentInput) (*models.Tournament, error)
	AddParticipant(ctx context.Context, tournamentID uuid.UUID, name string) (*models.Tournament, error)
	RemoveParticipant(ctx context.Context, tournamentID, participantID uuid.UUID) (*models.Tournament, error)
	GetTournament(ctx context.Context, tournamentID uuid.UUID) (*models.Tournament, error)
	ListTournaments(ctx context.Context, filter repositories.ListTournamentsFilter) ([]*models.Tournament, error)
}

type tournamentService struct {
	tx       TxRunner
	repos    Repositories
	store    *bracketStore
	notifier Notifier
	logger   *slog.Logger
}

func NewTournamentService(tx TxRunner, repos Repositories, notifier Notifier, logger *slog.Logger) TournamentService {
	return &tournamentService{
		tx:       tx,
		repos:    repos,
		store:    &bracketStore{repos: repos},
		notifier: notifierOrNop(notifier),
		logger:   logger,
	}
}

func validateDates(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return invalidInput("tournament end date must be after start date")
	}
	return nil
}

func (s *tournamentService) CreateTournament(ctx context.Context, organizerID *int, input CreateTournamentInput) (*models.Tournament, error) {
	input.Name = strings.TrimSpace(input.Name)
	switch {
	case input.Name == "":
		return nil, invalidInput("tournament name is required")
	case !input.GameType.Valid():
		return nil, invalidInput("unsupported game type %q", input.GameType)
	case !input.FormatName.Valid():
		return nil, invalidInput("unsupported format %q", input.FormatName)
	case !input.FixingType.Valid():
		return nil, invalidInput("unsupported fixing type %q", input.FixingType)
	case input.ParticipantCount < MinParticipants || input.ParticipantCount > MaxParticipants:
		return nil, invalidInput("participant count must be between %d and %d", MinParticipants, MaxParticipants)
	}
	if err := validateDates(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	t := &models.Tournament{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		SportID:     input.SportID,
		OrganizerID: organizerID,
		GameType:    input.GameType,
		FormatName:  input.FormatName,
		FixingType:  input.FixingType,
		Status:      models.StatusPending,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}

	var b *brackets.Bracket
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.repos.Tournaments.Create(ctx, exec, t); err != nil {
			return fmt.Errorf("failed to create tournament: %w", err)
		}

		participants := make([]*models.Participant, input.ParticipantCount)
		for i := range participants {
			participants[i] = &models.Participant{
				ID:           uuid.New(),
				TournamentID: t.ID,
				Name:         fmt.Sprintf("%s %d", t.GameType.ParticipantLabel(), i+1),
				Position:     i + 1,
			}
		}
		if err := s.repos.Participants.CreateBatch(ctx, exec, participants); err != nil {
			return fmt.Errorf("failed to create participants: %w", err)
		}

		var err error
		b, err = s.build(ctx, exec, t, participants)
		return err
	})
	if err != nil {
		return nil, toAppError(err)
	}

	s.logger.Info("tournament created",
		slog.String("tournament_id", t.ID.String()),
		slog.String("format", string(t.FormatName)),
		slog.Int("participants", t.TotalParticipants),
	)
	attach(t, b)
	s.notifier.Publish(t.ID, brackets.EventBracketUpdated, t)
	return t, nil
}

// build generates and inserts a bracket, then stores the tournament's new format link.
func (s *tournamentService) build(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament, participants []*models.Participant) (*brackets.Bracket, error) {
	b, err := s.store.generate(ctx, t, participants, nil)
	if err != nil {
		return nil, err
	}
	if err := s.store.insert(ctx, exec, b); err != nil {
		return nil, err
	}
	if err := s.repos.Tournaments.Update(ctx, exec, t); err != nil {
		return nil, fmt.Errorf("failed to link format: %w", err)
	}
	return b, nil
}

// rebuild destroys the current bracket and generates a new one for participants.
func (s *tournamentService) rebuild(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament, participants []*models.Participant) (*brackets.Bracket, error) {
	if err := s.store.destroy(ctx, exec, t.ID); err != nil {
		return nil, err
	}
	t.FormatID = nil
	return s.build(ctx, exec, t, participants)
}

// reseat regenerates the bracket over the same ids, so only slot contents change.
func (s *tournamentService) reseat(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament) (*brackets.Bracket, error) {
	current, err := s.store.load(ctx, exec, t)
	if err != nil {
		return nil, err
	}
	b, err := s.store.generate(ctx, t, current.Participants, brackets.ReplayIDs(current.AllocatedIDs()))
	if err != nil {
		return nil, err
	}
	if err := s.store.overwrite(ctx, exec, b); err != nil {
		return nil, err
	}
	if err := s.repos.Tournaments.Update(ctx, exec, t); err != nil {
		return nil, fmt.Errorf("failed to update tournament: %w", err)
	}
	return b, nil
}

func (s *tournamentService) EditTournament(ctx context.Context, tournamentID uuid.UUID, input EditTournamentInput) (*models.Tournament, error) {
	var (
		t *models.Tournament
		b *brackets.Bracket
	)
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		t, err = s.repos.Tournaments.GetForUpdate(ctx, exec, tournamentID)
		if err != nil {
			return err
		}

		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return invalidInput("tournament name is required")
			}
			t.Name = name
		}
		if input.Description != nil {
			t.Description = input.Description
		}
		if input.StartDate != nil {
			t.StartDate = input.StartDate
		}
		if input.EndDate != nil {
			t.EndDate = input.EndDate
		}
		if err := validateDates(t.StartDate, t.EndDate); err != nil {
			return err
		}

		formatChanged := input.FormatName != nil && *input.FormatName != t.FormatName
		fixingChanged := input.FixingType != nil && *input.FixingType != t.FixingType
		gameChanged := input.GameType != nil && *input.GameType != t.GameType
		sportChanged := input.SportID != nil && (t.SportID == nil || *input.SportID != *t.SportID)

		if (formatChanged || fixingChanged || gameChanged || sportChanged) && t.Status != models.StatusPending {
			return invalidState("tournament is %s: only name, description and dates can be changed", t.Status)
		}
		if gameChanged {
			if !input.GameType.Valid() {
				return invalidInput("unsupported game type %q", *input.GameType)
			}
			t.GameType = *input.GameType
		}
		if sportChanged {
			t.SportID = input.SportID
		}
		if fixingChanged {
			if !input.FixingType.Valid() {
				return invalidInput("unsupported fixing type %q", *input.FixingType)
			}
			t.FixingType = *input.FixingType
		}
		if formatChanged {
			if !input.FormatName.Valid() {
				return invalidInput("unsupported format %q", *input.FormatName)
			}
			t.FormatName = *input.FormatName
		}

		switch {
		case formatChanged:
			participants, err := s.repos.Participants.ListByTournament(ctx, exec, t.ID)
			if err != nil {
				return err
			}
			b, err = s.rebuild(ctx, exec, t, participants)
			return err
		case fixingChanged:
			b, err = s.reseat(ctx, exec, t)
			return err
		default:
			return s.repos.Tournaments.Update(ctx, exec, t)
		}
	})
	if err != nil {
		return nil, toAppError(err)
	}

	if b != nil {
		attach(t, b)
		s.notifier.Publish(t.ID, brackets.EventBracketUpdated, t)
	}
	return t, nil
}

func (s *tournamentService) AddParticipant(ctx context.Context, tournamentID uuid.UUID, name string) (*models.Tournament, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidInput("participant name is required")
	}

	var (
		t *models.Tournament
		b *brackets.Bracket
	)
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		t, err = s.pendingForUpdate(ctx, exec, tournamentID, "add participants")
		if err != nil {
			return err
		}
		participants, err := s.repos.Participants.ListByTournament(ctx, exec, t.ID)
		if err != nil {
			return err
		}
		if len(participants) >= MaxParticipants {
			return invalidInput("tournament already has %d participants", MaxParticipants)
		}

		p := &models.Participant{
			ID:           uuid.New(),
			TournamentID: t.ID,
			Name:         name,
			Position:     len(participants) + 1,
		}
		if err := s.repos.Participants.CreateBatch(ctx, exec, []*models.Participant{p}); err != nil {
			return fmt.Errorf("failed to create participant: %w", err)
		}

		b, err = s.rebuild(ctx, exec, t, append(participants, p))
		return err
	})
	if err != nil {
		return nil, toAppError(err)
	}

	attach(t, b)
	s.notifier.Publish(t.ID, brackets.EventBracketUpdated, t)
	return t, nil
}

func (s *tournamentService) RemoveParticipant(ctx context.Context, tournamentID, participantID uuid.UUID) (*models.Tournament, error) {
	var (
		t *models.Tournament
		b *brackets.Bracket
	)
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		t, err = s.pendingForUpdate(ctx, exec, tournamentID, "remove participants")
		if err != nil {
			return err
		}
		participants, err := s.repos.Participants.ListByTournament(ctx, exec, t.ID)
		if err != nil {
			return err
		}

		remaining := make([]*models.Participant, 0, len(participants))
		found := false
		for _, p := range participants {
			if p.ID == participantID {
				found = true
				continue
			}
			remaining = append(remaining, p)
		}
		if !found {
			return notFound("participant %s is not part of tournament %s", participantID, t.ID)
		}
		if len(remaining) < MinParticipants {
			return invalidInput("a tournament needs at least %d participants", MinParticipants)
		}

		if err := s.store.destroy(ctx, exec, t.ID); err != nil {
			return err
		}
		if err := s.repos.Participants.Delete(ctx, exec, participantID); err != nil {
			return err
		}
		for i, p := range remaining {
			if p.Position != i+1 {
				p.Position = i + 1
				if err := s.repos.Participants.UpdatePosition(ctx, exec, p.ID, p.Position); err != nil {
					return err
				}
			}
		}

		t.FormatID = nil
		b, err = s.build(ctx, exec, t, remaining)
		return err
	})
	if err != nil {
		return nil, toAppError(err)
	}

	attach(t, b)
	s.notifier.Publish(t.ID, brackets.EventBracketUpdated, t)
	return t, nil
}

func (s *tournamentService) pendingForUpdate(ctx context.Context, exec repositories.SQLExecutor, tournamentID uuid.UUID, action string) (*models.Tournament, error) {
	t, err := s.repos.Tournaments.GetForUpdate(ctx, exec, tournamentID)
	if err != nil {
		return nil, err
	}
	if t.Status != models.StatusPending {
		return nil, invalidState("cannot %s: tournament is %s", action, t.Status)
	}
	return t, nil
}

func (s *tournamentService) GetTournament(ctx context.Context, tournamentID uuid.UUID) (*models.Tournament, error) {
	t, err := s.repos.Tournaments.GetByID(ctx, nil, tournamentID)
	if err != nil {
		return nil, toAppError(err)
	}
	return t, nil
}

func (s *tournamentService) ListTournaments(ctx context.Context, filter repositories.ListTournamentsFilter) ([]*models.Tournament, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}
	tournaments, err := s.repos.Tournaments.List(ctx, nil, filter)
	if err != nil {
		return nil, toAppError(err)
	}
	return tournaments, nil
}
