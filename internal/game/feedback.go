package game

import (
	"log"

	"github.com/hailam/chessduel/internal/board"
)

// Feedback receives game events as they happen.
type Feedback interface {
	OnMoveMade(by board.Color, m board.Move)
	OnCheck(side board.Color)
	OnGameOver(r Result)
}

// LogFeedback writes game events to the standard logger.
type LogFeedback struct{}

func (LogFeedback) OnMoveMade(by board.Color, m board.Move) {
	if m.Capture {
		log.Printf("[MOVE] %v captures: %s", by, m)
		return
	}
	log.Printf("[MOVE] %v: %s", by, m)
}

func (LogFeedback) OnCheck(side board.Color) {
	log.Printf("[GAME] %v is in check", side)
}

func (LogFeedback) OnGameOver(r Result) {
	log.Printf("[GAME] %s after %d plies", r, r.Plies)
}
