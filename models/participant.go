package models

import (
	"time"

	"github.com/google/uuid"
)

type Participant struct {
	ID           uuid.UUID `json:"id" db:"id"`
	TournamentID uuid.UUID `json:"tournament_id" db:"tournament_id"`
	Name         string    `json:"name" db:"name"`
	Position     int       `json:"position" db:"position"` // submission order, 1-based
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
