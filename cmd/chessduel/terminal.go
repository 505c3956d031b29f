package main

import (
	"fmt"

	"github.com/hailam/chessduel/internal/board"
	"github.com/hailam/chessduel/internal/game"
)

// terminal prints the game to stdout. It is both the humans' display and
// the match feedback.
type terminal struct {
	pos *board.Position
	game.LogFeedback
}

func (t *terminal) OnSelect(sq board.Square, targets board.Bitboard) {
	if targets == 0 {
		fmt.Printf("%s has no legal moves\n", sq)
		return
	}
	fmt.Printf("%s -> %s\n", sq, targets)
}

func (t *terminal) OnDeselect() {}

func (t *terminal) OnPromotionRequest(sq board.Square) {
	fmt.Printf("Promote on %s to (n, b, r, q)? ", sq)
}

func (t *terminal) OnMoveMade(by board.Color, m board.Move) {
	t.LogFeedback.OnMoveMade(by, m)
	fmt.Print(t.pos)
}

func (t *terminal) OnGameOver(r game.Result) {
	t.LogFeedback.OnGameOver(r)
	fmt.Println(r)
}
