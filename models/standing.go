package models

import (
	"time"

	"github.com/google/uuid"
)

// Standing is a round-robin participant's cumulative record.
type Standing struct {
	ID            uuid.UUID `json:"id" db:"id"`
	TournamentID  uuid.UUID `json:"tournament_id" db:"tournament_id"`
	ParticipantID uuid.UUID `json:"participant_id" db:"participant_id"`
	Plays         int       `json:"plays" db:"plays"`
	Wins          int       `json:"wins" db:"wins"`
	Losses        int       `json:"losses" db:"losses"`
	Draws         int       `json:"draws" db:"draws"` // never produced, kept for schema parity
	Points        int       `json:"points" db:"points"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
