package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundRobinSchedule_EveryPairOnce(t *testing.T) {
	for n := 2; n <= 21; n++ {
		schedule, err := RoundRobinSchedule(n)
		require.NoError(t, err)

		wantRounds := n - 1
		if n%2 == 1 {
			wantRounds = n
		}
		assert.Len(t, schedule, wantRounds, "n=%d", n)

		seen := make(map[[2]int]int)
		for _, round := range schedule {
			assert.Len(t, round, n/2, "n=%d", n)
			inRound := make(map[int]bool)
			for _, p := range round {
				assert.NotEqual(t, p.A, p.B)
				assert.False(t, inRound[p.A] || inRound[p.B], "n=%d: a seat plays twice in one round", n)
				inRound[p.A], inRound[p.B] = true, true

				key := [2]int{p.A, p.B}
				if key[0] > key[1] {
					key[0], key[1] = key[1], key[0]
				}
				seen[key]++
			}
		}
		assert.Len(t, seen, n*(n-1)/2, "n=%d", n)
		for pair, count := range seen {
			assert.Equal(t, 1, count, "n=%d pair %v", n, pair)
		}
	}
}

func TestRoundRobinSchedule_FourPlayers(t *testing.T) {
	schedule, err := RoundRobinSchedule(4)
	require.NoError(t, err)

	assert.Equal(t, [][]Pairing{
		{{0, 3}, {1, 2}},
		{{0, 2}, {3, 1}},
		{{0, 1}, {2, 3}},
	}, schedule)
}

func TestRoundRobinSchedule_TooFew(t *testing.T) {
	_, err := RoundRobinSchedule(1)
	assert.ErrorIs(t, err, ErrNotEnoughParticipants)
}
