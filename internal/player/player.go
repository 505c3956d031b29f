// Package player implements the two roles that take turns in a game: a
// human choosing squares through an input source, and the computer
// choosing moves with the search engine.
package player

import (
	"context"
	"errors"

	"github.com/hailam/chessduel/internal/board"
)

// ErrInputClosed is returned when a human's input source has no more events.
var ErrInputClosed = errors.New("input closed")

// Player commits exactly one move per call to Play.
type Player interface {
	Color() board.Color
	Name() string
	// Play blocks until a move has been made on pos and returns it. The
	// side to move is not changed; the caller passes the turn.
	Play(ctx context.Context, pos *board.Position) (board.Move, error)
}
