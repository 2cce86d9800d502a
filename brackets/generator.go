package brackets

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/google/uuid"
)

var ErrUnsupportedFormat = errors.New("unsupported bracket format")

// IDSource hands out entity ids while a bracket is generated.
type IDSource func() uuid.UUID

// ReplayIDs returns ids in order and falls back to fresh ones once they run out.
// Generating the same topology with replayed ids reproduces the previous entity ids.
func ReplayIDs(ids []uuid.UUID) IDSource {
	next := 0
	return func() uuid.UUID {
		if next < len(ids) {
			id := ids[next]
			next++
			return id
		}
		return uuid.New()
	}
}

type GenerateBracketParams struct {
	Tournament *models.Tournament
	// Participants in submission order.
	Participants []*models.Participant
	NewID        IDSource
	Rand         *rand.Rand
}

type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) (*Bracket, error)

	GetName() string
}

// NewGenerator picks the generator for a tournament format.
func NewGenerator(format models.FormatName) (BracketGenerator, error) {
	switch format {
	case models.FormatKnockout:
		return NewSingleEliminationGenerator(), nil
	case models.FormatDoubleElimination:
		return NewDoubleEliminationGenerator(), nil
	case models.FormatRoundRobin:
		return NewRoundRobinGenerator(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() BracketGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

func (g *SingleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) (*Bracket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	topo, err := SingleEliminationTopology(len(params.Participants))
	if err != nil {
		return nil, err
	}
	seeds, err := seedParticipants(params)
	if err != nil {
		return nil, err
	}

	l := newLinker(params, topo)
	if _, err := l.linkElimination(topo.Winners, seeds); err != nil {
		return nil, err
	}
	return l.finish()
}

type DoubleEliminationGenerator struct{}

func NewDoubleEliminationGenerator() BracketGenerator {
	return &DoubleEliminationGenerator{}
}

func (g *DoubleEliminationGenerator) GetName() string {
	return "DoubleElimination"
}

func (g *DoubleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) (*Bracket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	topo, err := DoubleEliminationTopology(len(params.Participants))
	if err != nil {
		return nil, err
	}
	seeds, err := seedParticipants(params)
	if err != nil {
		return nil, err
	}

	l := newLinker(params, topo)
	winners, err := l.linkElimination(topo.Winners, seeds)
	if err != nil {
		return nil, err
	}
	losersFinal, err := l.linkLosers(topo.Losers, winners)
	if err != nil {
		return nil, err
	}
	winnersFinal := winners[len(winners)-1]
	if _, err := l.pairRound(topo.Final[0], []source{
		winnerOf(l.b.MatchesOf(winnersFinal)[0]),
		winnerOf(l.b.MatchesOf(losersFinal)[0]),
	}); err != nil {
		return nil, err
	}
	return l.finish()
}

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() BracketGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

func (g *RoundRobinGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) (*Bracket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := len(params.Participants)
	topo, err := RoundRobinTopology(n)
	if err != nil {
		return nil, err
	}
	schedule, err := RoundRobinSchedule(n)
	if err != nil {
		return nil, err
	}
	seeds, err := seedParticipants(params)
	if err != nil {
		return nil, err
	}

	l := newLinker(params, topo)
	l.linkRoundRobin(topo.Winners, seeds, schedule)
	return l.finish()
}

func seedParticipants(params GenerateBracketParams) ([]uuid.UUID, error) {
	if params.Tournament == nil {
		return nil, errors.New("bracket generation requires a tournament")
	}
	ids := make([]uuid.UUID, len(params.Participants))
	for i, p := range params.Participants {
		ids[i] = p.ID
	}
	return ArrangeSeeds(ids, params.Tournament.FixingType, params.Rand)
}
