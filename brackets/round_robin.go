package brackets

// Pairing holds two indexes into the seeded participant list.
type Pairing struct {
	A int `json:"a"`
	B int `json:"b"`
}

func roundRobinRounds(n int) int {
	if n%2 == 0 {
		return n - 1
	}
	return n
}

// RoundRobinSchedule seats n participants around a circle and pairs opposite seats each
// round. With an odd n the middle seat sits out, a different one every round. Every
// unordered pair meets exactly once.
func RoundRobinSchedule(n int) ([][]Pairing, error) {
	if n < 2 {
		return nil, ErrNotEnoughParticipants
	}

	seats := make([]int, n)
	for i := range seats {
		seats[i] = i
	}

	total := roundRobinRounds(n)
	schedule := make([][]Pairing, 0, total)
	for r := 0; r < total; r++ {
		round := make([]Pairing, 0, n/2)
		for k := 0; k < n/2; k++ {
			round = append(round, Pairing{A: seats[k], B: seats[n-1-k]})
		}
		schedule = append(schedule, round)

		last := seats[n-1]
		if n%2 == 0 {
			// seat 0 stays put, the last seat moves in behind it
			copy(seats[2:], seats[1:n-1])
			seats[1] = last
		} else {
			copy(seats[1:], seats[:n-1])
			seats[0] = last
		}
	}
	return schedule, nil
}
