package engine

import "time"

const (
	minMoveTime  = 10 * time.Millisecond
	earlyPlies   = 8
	maxMovesToGo = 50
	minMovesToGo = 10
)

// TimeForMove derives a budget for the next move from a clock reading.
// movesToGo is the number of moves until the next time control, 0 for
// sudden death; ply is the current game ply.
func TimeForMove(remaining, increment time.Duration, movesToGo, ply int) time.Duration {
	if remaining <= 0 {
		return minMoveTime
	}

	mtg := movesToGo
	if mtg <= 0 {
		// Sudden death: expect fewer moves as the game goes on
		mtg = maxMovesToGo - ply/4
		if mtg < minMovesToGo {
			mtg = minMovesToGo
		}
		if mtg > maxMovesToGo {
			mtg = maxMovesToGo
		}
	}

	budget := remaining/time.Duration(mtg) + increment*9/10

	// Slight reduction for very early moves (give some buffer)
	if ply < earlyPlies {
		budget = budget * 85 / 100
	}

	// Never plan to spend more than 80% of what is left
	if ceiling := remaining * 8 / 10; budget > ceiling {
		budget = ceiling
	}
	if budget < minMoveTime {
		budget = minMoveTime
	}
	return budget
}
