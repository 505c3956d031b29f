package player

import (
	"context"
	"log"

	"github.com/hailam/chessduel/internal/board"
	"github.com/hailam/chessduel/internal/clock"
)

// Display shows the state of a human's selection. All methods are
// optional hints; a Human works without one.
type Display interface {
	OnSelect(sq board.Square, targets board.Bitboard)
	OnDeselect()
	OnPromotionRequest(sq board.Square)
}

// Human is a player driven by input events.
type Human struct {
	name    string
	color   board.Color
	input   Input
	clock   clock.Clock
	Display Display
}

// NewHuman creates a human player. A nil clock means unlimited time.
func NewHuman(name string, c board.Color, in Input, clk clock.Clock) *Human {
	if clk == nil {
		clk = clock.Unlimited{}
	}
	return &Human{name: name, color: c, input: in, clock: clk}
}

func (h *Human) Color() board.Color { return h.color }
func (h *Human) Name() string       { return h.name }

// Play waits for square selections until one completes a legal move, then
// makes it on pos. A pawn reaching the last rank waits for a promotion
// choice before Play returns.
//
// Selecting one of the player's own pieces shows its legal targets;
// selecting one of those targets moves the piece. Selecting another own
// piece switches the selection and anything else clears it.
func (h *Human) Play(ctx context.Context, pos *board.Position) (board.Move, error) {
	h.clock.Start()
	defer h.clock.Stop()

	selected := board.NoSquare
	var targets board.Bitboard

	for {
		ev, err := h.input.Next(ctx)
		if err != nil {
			return board.NoMove, err
		}
		if ev.Kind != SelectSquare || !ev.Square.IsValid() {
			continue
		}
		sq := ev.Square

		if selected != board.NoSquare && targets.IsSet(sq) {
			return h.commit(ctx, pos, board.NewMove(pos, selected, sq))
		}

		if piece := pos.PieceAt(sq); !piece.IsEmpty() && piece.Color == h.color {
			legal, err := pos.LegalMovesFor(sq)
			if err != nil {
				return board.NoMove, err
			}
			selected, targets = sq, legal
			h.show(func(d Display) { d.OnSelect(sq, legal) })
			continue
		}

		selected, targets = board.NoSquare, board.Empty
		h.show(func(d Display) { d.OnDeselect() })
	}
}

func (h *Human) commit(ctx context.Context, pos *board.Position, m board.Move) (board.Move, error) {
	h.show(func(d Display) { d.OnDeselect() })
	if _, pending := pos.MakeMove(m.From, m.To); !pending {
		log.Printf("[MOVE] %s plays %s", h.name, m)
		return m, nil
	}

	h.show(func(d Display) { d.OnPromotionRequest(m.To) })
	for {
		ev, err := h.input.Next(ctx)
		if err != nil {
			return board.NoMove, err
		}
		if ev.Kind != ChoosePromotion || !ev.Promotion.CanPromoteTo() {
			continue
		}
		if err := pos.Promote(ev.Promotion); err != nil {
			return board.NoMove, err
		}
		m = m.WithPromotion(ev.Promotion)
		log.Printf("[MOVE] %s plays %s", h.name, m)
		return m, nil
	}
}

func (h *Human) show(fn func(Display)) {
	if h.Display != nil {
		fn(h.Display)
	}
}
