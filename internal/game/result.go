package game

import (
	"fmt"

	"github.com/hailam/chessduel/internal/board"
)

// Outcome is who won a finished game.
type Outcome int

const (
	WhiteWins Outcome = iota
	BlackWins
	Draw
)

func (o Outcome) String() string {
	switch o {
	case WhiteWins:
		return "1-0"
	case BlackWins:
		return "0-1"
	case Draw:
		return "1/2-1/2"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Reason is how a game ended.
type Reason string

const (
	ByCheckmate Reason = "checkmate"
	ByStalemate Reason = "stalemate"
	ByTime      Reason = "time"
)

// Result describes a finished game.
type Result struct {
	Outcome Outcome
	Reason  Reason
	Plies   int // Moves made by both sides
}

// Winner returns the winning color, or NoColor for a draw.
func (r Result) Winner() board.Color {
	switch r.Outcome {
	case WhiteWins:
		return board.White
	case BlackWins:
		return board.Black
	}
	return board.NoColor
}

func (r Result) String() string {
	switch r.Outcome {
	case WhiteWins, BlackWins:
		return fmt.Sprintf("%s wins by %s (%s)", r.Winner(), r.Reason, r.Outcome)
	}
	return fmt.Sprintf("Draw by %s (%s)", r.Reason, r.Outcome)
}

func winFor(c board.Color, reason Reason, plies int) Result {
	if c == board.White {
		return Result{Outcome: WhiteWins, Reason: reason, Plies: plies}
	}
	return Result{Outcome: BlackWins, Reason: reason, Plies: plies}
}
