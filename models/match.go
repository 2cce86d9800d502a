package models

import (
	"time"

	"github.com/google/uuid"
)

// SlotSource says which outcome of a predecessor match fills a slot.
type SlotSource string

const (
	SourceNone   SlotSource = ""
	SourceWinner SlotSource = "winner"
	SourceLoser  SlotSource = "loser"
)

// Match is one node of the bracket graph. MatchA/MatchB, NextMatch and LoserMatch are
// non-owning references to other matches of the same tournament.
type Match struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	TournamentID uuid.UUID  `json:"tournament_id" db:"tournament_id"`
	RoundID      uuid.UUID  `json:"round_id" db:"round_id"`
	Name         string     `json:"name" db:"name"`
	ParticipantA *uuid.UUID `json:"participant_a,omitempty" db:"participant_a"`
	ParticipantB *uuid.UUID `json:"participant_b,omitempty" db:"participant_b"`
	MatchA       *uuid.UUID `json:"match_a,omitempty" db:"match_a"`
	MatchB       *uuid.UUID `json:"match_b,omitempty" db:"match_b"`
	SourceA      SlotSource `json:"source_a,omitempty" db:"source_a"`
	SourceB      SlotSource `json:"source_b,omitempty" db:"source_b"`
	NextMatch    *uuid.UUID `json:"next_match,omitempty" db:"next_match"`
	LoserMatch   *uuid.UUID `json:"loser_match,omitempty" db:"loser_match"`
	IsBye        bool       `json:"is_bye" db:"is_bye"`
	Winner       *uuid.UUID `json:"winner,omitempty" db:"winner"`
	IsCompleted  bool       `json:"is_completed" db:"is_completed"`
	ScoreA       []int64    `json:"score_a" db:"score_a"`
	ScoreB       []int64    `json:"score_b" db:"score_b"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// HasParticipant reports whether id sits in either slot.
func (m *Match) HasParticipant(id uuid.UUID) bool {
	return (m.ParticipantA != nil && *m.ParticipantA == id) ||
		(m.ParticipantB != nil && *m.ParticipantB == id)
}

// Opponent returns the participant in the other slot, if any.
func (m *Match) Opponent(id uuid.UUID) *uuid.UUID {
	switch {
	case m.ParticipantA != nil && *m.ParticipantA == id:
		return m.ParticipantB
	case m.ParticipantB != nil && *m.ParticipantB == id:
		return m.ParticipantA
	}
	return nil
}
