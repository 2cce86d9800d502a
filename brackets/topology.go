package brackets

import (
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-engine/models"
)

const FinalBracketRoundName = "Final Bracket"

var ErrNotEnoughParticipants = errors.New("not enough participants to generate a bracket (minimum 2)")

// RoundPlan describes one round before any entity exists for it.
// MatchCount includes the bye slot, if any.
type RoundPlan struct {
	RoundNumber     int               `json:"round_number"`
	Bracket         models.BracketTag `json:"bracket"`
	MatchCount      int               `json:"match_count"`
	Byes            int               `json:"byes"`
	AdvancerCount   int               `json:"advancer_count"`
	EliminatedCount int               `json:"eliminated_count"`
	RoundName       string            `json:"round_name"`
}

// Topology is the per-bracket round layout consumed by the linker.
type Topology struct {
	Format       models.FormatName `json:"format"`
	Participants int               `json:"participants"`
	Winners      []RoundPlan       `json:"winners"`
	Losers       []RoundPlan       `json:"losers,omitempty"`
	Final        []RoundPlan       `json:"final,omitempty"`
}

// Rounds returns every planned round in creation order.
func (t *Topology) Rounds() []RoundPlan {
	all := make([]RoundPlan, 0, len(t.Winners)+len(t.Losers)+len(t.Final))
	all = append(all, t.Winners...)
	all = append(all, t.Losers...)
	all = append(all, t.Final...)
	return all
}

func (t *Topology) RoundNames() []string {
	rounds := t.Rounds()
	names := make([]string, len(rounds))
	for i, r := range rounds {
		names[i] = r.RoundName
	}
	return names
}

func (t *Topology) TotalMatches() int {
	total := 0
	for _, r := range t.Rounds() {
		total += r.MatchCount
	}
	return total
}

// BuildTopology dispatches on the format.
func BuildTopology(format models.FormatName, n int) (*Topology, error) {
	switch format {
	case models.FormatKnockout:
		return SingleEliminationTopology(n)
	case models.FormatDoubleElimination:
		return DoubleEliminationTopology(n)
	case models.FormatRoundRobin:
		return RoundRobinTopology(n)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// SingleEliminationTopology halves the field every round until one participant is left,
// which takes ceil(log2(n)) rounds.
func SingleEliminationTopology(n int) (*Topology, error) {
	if n < 2 {
		return nil, ErrNotEnoughParticipants
	}
	return &Topology{
		Format:       models.FormatKnockout,
		Participants: n,
		Winners:      halvingRounds(n, models.BracketWinners),
	}, nil
}

// DoubleEliminationTopology sizes the winners bracket like a knockout and feeds every
// winners-round loser into the losers bracket, whose survivors keep halving until one is left.
func DoubleEliminationTopology(n int) (*Topology, error) {
	if n < 2 {
		return nil, ErrNotEnoughParticipants
	}
	winners := halvingRounds(n, models.BracketWinners)

	var losers []RoundPlan
	survivors := 0
	for _, w := range winners {
		losers = append(losers, losersRound(len(losers)+1, w.EliminatedCount+survivors))
		survivors = losers[len(losers)-1].AdvancerCount
	}
	for survivors > 1 {
		losers = append(losers, losersRound(len(losers)+1, survivors))
		survivors = losers[len(losers)-1].AdvancerCount
	}
	for i := range losers {
		losers[i].RoundName = "Losers " + roundName(losers[i].RoundNumber, len(losers), losers[i].MatchCount)
	}

	return &Topology{
		Format:       models.FormatDoubleElimination,
		Participants: n,
		Winners:      winners,
		Losers:       losers,
		Final: []RoundPlan{{
			RoundNumber:     1,
			Bracket:         models.BracketFinal,
			MatchCount:      1,
			AdvancerCount:   1,
			EliminatedCount: 1,
			RoundName:       FinalBracketRoundName,
		}},
	}, nil
}

// RoundRobinTopology is the circle-method layout: every round seats floor(n/2) pairs.
func RoundRobinTopology(n int) (*Topology, error) {
	if n < 2 {
		return nil, ErrNotEnoughParticipants
	}
	total := roundRobinRounds(n)
	rounds := make([]RoundPlan, total)
	for i := range rounds {
		rounds[i] = RoundPlan{
			RoundNumber:     i + 1,
			Bracket:         models.BracketWinners,
			MatchCount:      n / 2,
			AdvancerCount:   n,
			EliminatedCount: 0,
			RoundName:       fmt.Sprintf("Round %d", i+1),
		}
	}
	return &Topology{Format: models.FormatRoundRobin, Participants: n, Winners: rounds}, nil
}

func halvingRounds(n int, bracket models.BracketTag) []RoundPlan {
	var rounds []RoundPlan
	for remaining := n; remaining > 1; {
		eliminated := remaining / 2
		rounds = append(rounds, RoundPlan{
			RoundNumber:     len(rounds) + 1,
			Bracket:         bracket,
			MatchCount:      (remaining + 1) / 2,
			Byes:            remaining % 2,
			AdvancerCount:   remaining - eliminated,
			EliminatedCount: eliminated,
		})
		remaining -= eliminated
	}
	for i := range rounds {
		rounds[i].RoundName = roundName(rounds[i].RoundNumber, len(rounds), rounds[i].MatchCount)
	}
	return rounds
}

// losersRound seats entrants two at a time; an odd entrant gets a bye.
func losersRound(number, entrants int) RoundPlan {
	eliminated := entrants / 2
	return RoundPlan{
		RoundNumber:     number,
		Bracket:         models.BracketLosers,
		MatchCount:      (entrants + 1) / 2,
		Byes:            entrants % 2,
		AdvancerCount:   entrants - eliminated,
		EliminatedCount: eliminated,
	}
}

// roundName names rounds counting back from the last one. A third-last round is only a
// quarter final when it actually holds four matches.
func roundName(roundNumber, totalRounds, matchCount int) string {
	switch totalRounds - roundNumber {
	case 0:
		return "Final"
	case 1:
		return "Semi Final"
	case 2:
		if matchCount == 4 {
			return "Quarter Final"
		}
	}
	return fmt.Sprintf("Qualification Round %d", roundNumber)
}
