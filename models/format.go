package models

import (
	"time"

	"github.com/google/uuid"
)

// Format is the per-tournament format record. One-to-one with a Tournament.
type Format struct {
	ID             uuid.UUID   `json:"id" db:"id"`
	TournamentID   uuid.UUID   `json:"tournament_id" db:"tournament_id"`
	Name           FormatName  `json:"name" db:"name"`
	RoundNames     []string    `json:"round_names" db:"round_names"`
	RoundIDs       []uuid.UUID `json:"round_ids" db:"round_ids"`
	ParticipantIDs []uuid.UUID `json:"participant_ids" db:"participant_ids"`
	// Only populated for round-robin formats.
	StandingIDs []uuid.UUID `json:"standing_ids,omitempty" db:"standing_ids"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
}
