package models

import (
	"time"

	"github.com/google/uuid"
)

// TournamentStatus mirrors the tournament_status ENUM in the database.
type TournamentStatus string

const (
	StatusPending   TournamentStatus = "PENDING"
	StatusActive    TournamentStatus = "ACTIVE"
	StatusCompleted TournamentStatus = "COMPLETED"
)

type GameType string

const (
	GameTypeTeam       GameType = "team"
	GameTypeIndividual GameType = "individual"
)

func (g GameType) Valid() bool {
	return g == GameTypeTeam || g == GameTypeIndividual
}

// FormatName identifies which bracket layout a tournament is played in.
type FormatName string

const (
	FormatKnockout          FormatName = "knockout"
	FormatDoubleElimination FormatName = "double_elimination"
	FormatRoundRobin        FormatName = "round_robin"
)

func (f FormatName) Valid() bool {
	switch f {
	case FormatKnockout, FormatDoubleElimination, FormatRoundRobin:
		return true
	}
	return false
}

// FixingType is the seeding policy used to order participants into round-1 pairings.
type FixingType string

const (
	FixingTopVsBottom FixingType = "top_vs_bottom"
	FixingRandom      FixingType = "random"
	FixingSequential  FixingType = "sequential"
	FixingManual      FixingType = "manual"
)

func (f FixingType) Valid() bool {
	switch f {
	case FixingTopVsBottom, FixingRandom, FixingSequential, FixingManual:
		return true
	}
	return false
}

// Tournament представляет турнир.
type Tournament struct {
	ID                uuid.UUID        `json:"id" db:"id"`
	Name              string           `json:"name" db:"name"`
	Description       *string          `json:"description,omitempty" db:"description"`
	SportID           *int             `json:"sport_id,omitempty" db:"sport_id"`
	OrganizerID       *int             `json:"organizer_id,omitempty" db:"organizer_id"`
	GameType          GameType         `json:"game_type" db:"game_type"`
	FormatName        FormatName       `json:"format_name" db:"format_name"`
	FixingType        FixingType       `json:"fixing_type" db:"fixing_type"`
	TotalParticipants int              `json:"total_participants" db:"total_participants"`
	Status            TournamentStatus `json:"status" db:"status"`
	FormatID          *uuid.UUID       `json:"format_id,omitempty" db:"format_id"`
	WinnerID          *uuid.UUID       `json:"winner_id,omitempty" db:"winner_id"`
	StartDate         *time.Time       `json:"start_date,omitempty" db:"start_date"`
	EndDate           *time.Time       `json:"end_date,omitempty" db:"end_date"`
	CreatedAt         time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at" db:"updated_at"`

	// Опциональные связанные сущности (не мапятся напрямую)
	Format       *Format        `json:"format,omitempty" db:"-"`
	Participants []*Participant `json:"participants,omitempty" db:"-"`
	Rounds       []*Round       `json:"rounds,omitempty" db:"-"`
	Matches      []*Match       `json:"matches,omitempty" db:"-"`
	Standings    []*Standing    `json:"standings,omitempty" db:"-"`
}

// ParticipantLabel is the placeholder name given to the k-th seeded participant.
func (g GameType) ParticipantLabel() string {
	if g == GameTypeTeam {
		return "Team"
	}
	return "Player"
}
