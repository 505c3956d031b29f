// Package game runs a match between two players.
package game

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/hailam/chessduel/internal/board"
	"github.com/hailam/chessduel/internal/clock"
	"github.com/hailam/chessduel/internal/player"
)

// ErrGameOver is returned by Run for a position whose game already ended.
var ErrGameOver = errors.New("game is already over")

// Match alternates turns between two players on a shared position until
// the game ends.
type Match struct {
	White, Black           player.Player
	WhiteClock, BlackClock clock.Clock

	// Position is the live position, the standard start if nil.
	Position *board.Position
	Feedback Feedback
}

// NewMatch creates a match from the starting position. Nil clocks mean
// unlimited time.
func NewMatch(white, black player.Player, whiteClock, blackClock clock.Clock) *Match {
	if whiteClock == nil {
		whiteClock = clock.Unlimited{}
	}
	if blackClock == nil {
		blackClock = clock.Unlimited{}
	}
	return &Match{
		White:      white,
		Black:      black,
		WhiteClock: whiteClock,
		BlackClock: blackClock,
		Position:   board.NewGame(),
		Feedback:   LogFeedback{},
	}
}

// Run plays the game to the end. Each turn the player to move is asked
// for one move, which it makes on the position; Run then passes the turn.
// A player whose clock runs out loses, even mid-turn.
//
// Run returns an error if a player fails for any reason other than flag
// fall, including cancellation of ctx.
func (m *Match) Run(ctx context.Context) (Result, error) {
	if err := m.init(); err != nil {
		return Result{}, err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m.WhiteClock.Ready(ctx)
	m.BlackClock.Ready(ctx)

	pos := m.Position
	plies := 0
	for {
		status, err := pos.Status()
		if err != nil {
			return Result{}, err
		}
		switch status {
		case board.Checkmate:
			return m.finish(winFor(pos.SideToMove.Other(), ByCheckmate, plies)), nil
		case board.Stalemate:
			return m.finish(Result{Outcome: Draw, Reason: ByStalemate, Plies: plies}), nil
		}

		side := pos.SideToMove
		p, clk := m.turn(side)
		mv, err := playTurn(ctx, p, clk, pos)
		if clk.Expired() {
			log.Printf("[GAME] %s ran out of time", p.Name())
			return m.finish(winFor(side.Other(), ByTime, plies)), nil
		}
		if err != nil {
			return Result{}, fmt.Errorf("%s to move: %w", side, err)
		}

		plies++
		m.Feedback.OnMoveMade(side, mv)
		pos.PassTurn()
		if pos.InCheck() {
			m.Feedback.OnCheck(pos.SideToMove)
		}
	}
}

// playTurn runs one Play call under a context that ends when clk flags.
func playTurn(ctx context.Context, p player.Player, clk clock.Clock, pos *board.Position) (board.Move, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-clk.Flagged():
			cancel()
		case <-ctx.Done():
		}
	}()
	return p.Play(ctx, pos)
}

func (m *Match) init() error {
	if m.White == nil || m.Black == nil {
		return fmt.Errorf("match needs two players")
	}
	if m.White.Color() != board.White || m.Black.Color() != board.Black {
		return fmt.Errorf("players seated on the wrong side: %s plays %v, %s plays %v",
			m.White.Name(), m.White.Color(), m.Black.Name(), m.Black.Color())
	}
	if m.Position == nil {
		m.Position = board.NewGame()
	}
	if m.Position.GameOver {
		return ErrGameOver
	}
	if m.WhiteClock == nil {
		m.WhiteClock = clock.Unlimited{}
	}
	if m.BlackClock == nil {
		m.BlackClock = clock.Unlimited{}
	}
	if m.Feedback == nil {
		m.Feedback = LogFeedback{}
	}
	return nil
}

func (m *Match) turn(c board.Color) (player.Player, clock.Clock) {
	if c == board.White {
		return m.White, m.WhiteClock
	}
	return m.Black, m.BlackClock
}

func (m *Match) finish(r Result) Result {
	m.Position.GameOver = true
	m.Feedback.OnGameOver(r)
	return r
}
