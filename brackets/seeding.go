package brackets

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/google/uuid"
)

var ErrUnsupportedFixingType = errors.New("unsupported fixing type")

// ArrangeSeeds orders ids according to the fixing policy. The input slice is not modified.
// rng is only used by the random policy; nil means a time-seeded source.
func ArrangeSeeds(ids []uuid.UUID, fixing models.FixingType, rng *rand.Rand) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, len(ids))
	copy(out, ids)

	switch fixing {
	case models.FixingSequential, models.FixingManual:
		return out, nil
	case models.FixingTopVsBottom:
		return topVsBottom(out), nil
	case models.FixingRandom:
		if rng == nil {
			rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		keys := make(map[uuid.UUID]float64, len(out))
		for _, id := range out {
			keys[id] = rng.Float64()
		}
		sort.SliceStable(out, func(i, j int) bool {
			return keys[out[i]] < keys[out[j]]
		})
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFixingType, fixing)
	}
}

// topVsBottom interleaves the list from both ends: 1, n, 2, n-1, ...
// With an odd count the middle seed ends up last and takes the bye.
func topVsBottom(ids []uuid.UUID) []uuid.UUID {
	arranged := make([]uuid.UUID, 0, len(ids))
	for lo, hi := 0, len(ids)-1; lo <= hi; lo, hi = lo+1, hi-1 {
		arranged = append(arranged, ids[lo])
		if lo != hi {
			arranged = append(arranged, ids[hi])
		}
	}
	return arranged
}
