package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// BracketTag names the lineage a round belongs to.
type BracketTag string

const (
	BracketWinners BracketTag = "winners"
	BracketLosers  BracketTag = "losers"
	BracketFinal   BracketTag = "final"
)

// Code is the short prefix used in generated match names.
func (b BracketTag) Code() string {
	switch b {
	case BracketLosers:
		return "L"
	case BracketFinal:
		return "F"
	default:
		return "W"
	}
}

// RoundWinner records which participant won which match of a round.
type RoundWinner struct {
	MatchID       uuid.UUID `json:"match_id"`
	ParticipantID uuid.UUID `json:"participant_id"`
}

// RoundWinners is stored as a jsonb column.
type RoundWinners []RoundWinner

// Value returns text: lib/pq would send []byte as bytea.
func (w RoundWinners) Value() (driver.Value, error) {
	if w == nil {
		return "[]", nil
	}
	data, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (w *RoundWinners) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*w = RoundWinners{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("RoundWinners: unsupported scan type %T", src)
	}
	return json.Unmarshal(data, w)
}

type Round struct {
	ID             uuid.UUID    `json:"id" db:"id"`
	TournamentID   uuid.UUID    `json:"tournament_id" db:"tournament_id"`
	RoundNumber    int          `json:"round_number" db:"round_number"`
	Bracket        BracketTag   `json:"bracket" db:"bracket"`
	Name           string       `json:"name" db:"name"`
	MatchIDs       []uuid.UUID  `json:"match_ids" db:"match_ids"`
	ParticipantIDs []uuid.UUID  `json:"participant_ids" db:"participant_ids"`
	Winners        RoundWinners `json:"winners" db:"winners"`
	IsCompleted    bool         `json:"is_completed" db:"is_completed"`
}

// Complete reports whether every match of the round has a recorded winner.
func (r *Round) Complete() bool {
	return len(r.Winners) == len(r.MatchIDs)
}
