package player

import (
	"bufio"
	"context"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/hailam/chessduel/internal/board"
)

// EventKind tells what a human did.
type EventKind int

const (
	SelectSquare    EventKind = iota // Square picked on the board
	ChoosePromotion                  // Piece kind picked for a promotion
)

// Event is one human action.
type Event struct {
	Kind      EventKind
	Square    board.Square
	Promotion board.PieceType
}

// Select returns a SelectSquare event.
func Select(sq board.Square) Event {
	return Event{Kind: SelectSquare, Square: sq, Promotion: board.NoPieceType}
}

// Choose returns a ChoosePromotion event.
func Choose(pt board.PieceType) Event {
	return Event{Kind: ChoosePromotion, Square: board.NoSquare, Promotion: pt}
}

// Input is a source of human events.
type Input interface {
	// Next blocks until the next event. It returns ErrInputClosed when the
	// source is exhausted and ctx.Err() when ctx is done first.
	Next(ctx context.Context) (Event, error)
}

// ChanInput delivers events sent on a channel. Closing the channel closes
// the input.
type ChanInput <-chan Event

// Next implements Input.
func (c ChanInput) Next(ctx context.Context) (Event, error) {
	select {
	case <-ctx.Done():
		return Event{}, ctx.Err()
	case ev, ok := <-c:
		if !ok {
			return Event{}, ErrInputClosed
		}
		return ev, nil
	}
}

// LineInput reads whitespace-separated tokens from a text stream:
//
//	e2      select a square
//	e2e4    select two squares
//	e7e8q   select two squares, then choose a promotion
//	q       choose a promotion (n, b, r or q)
//
// Unreadable tokens are logged and skipped.
type LineInput struct {
	r      io.Reader
	once   sync.Once
	events chan Event
}

// NewLineInput creates a LineInput reading from r.
func NewLineInput(r io.Reader) *LineInput {
	return &LineInput{r: r, events: make(chan Event, 8)}
}

// Next implements Input.
func (l *LineInput) Next(ctx context.Context) (Event, error) {
	// A blocking read cannot be interrupted, so reading happens on its own
	// goroutine for the lifetime of the reader.
	l.once.Do(func() { go l.scan() })
	return ChanInput(l.events).Next(ctx)
}

func (l *LineInput) scan() {
	defer close(l.events)
	sc := bufio.NewScanner(l.r)
	sc.Split(bufio.ScanWords)
	for sc.Scan() {
		events, ok := parseToken(sc.Text())
		if !ok {
			log.Printf("[INPUT] ignoring %q", sc.Text())
			continue
		}
		for _, ev := range events {
			l.events <- ev
		}
	}
}

func parseToken(tok string) ([]Event, bool) {
	tok = strings.ToLower(strings.TrimSpace(tok))
	if len(tok) == 1 {
		pt := board.PieceFromChar(strings.ToUpper(tok)[0]).Type
		if !pt.CanPromoteTo() {
			return nil, false
		}
		return []Event{Choose(pt)}, true
	}

	var events []Event
	for len(tok) >= 2 {
		sq, err := board.ParseSquare(tok[:2])
		if err != nil {
			return nil, false
		}
		events = append(events, Select(sq))
		tok = tok[2:]
		if len(events) == 2 {
			break
		}
	}
	switch len(tok) {
	case 0:
		return events, true
	case 1:
		if len(events) == 2 {
			if more, ok := parseToken(tok); ok {
				return append(events, more...), true
			}
		}
	}
	return nil, false
}
