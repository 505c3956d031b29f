package board

import (
	"fmt"
	"strings"
)

// Position represents a complete chess position.
//
// All state is held in value fields, so copying a Position (see Copy)
// yields a fully independent board.
type Position struct {
	squares [64]Piece

	// Game state
	SideToMove Color
	GameOver   bool

	// King positions, kept in sync with the board on every mutation
	// and used as the anchor for check detection.
	KingSquare [2]Square

	// Square of a pawn that reached the last rank and still waits for
	// Promote, NoSquare otherwise.
	promotion Square
}

// NewGame creates the standard starting position, White to move.
func NewGame() *Position {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return pos
}

// emptyPosition returns a board with no pieces.
func emptyPosition() *Position {
	p := &Position{promotion: NoSquare}
	for sq := range p.squares {
		p.squares[sq] = NoPiece
	}
	p.KingSquare[White] = NoSquare
	p.KingSquare[Black] = NoSquare
	return p
}

// Copy creates a deep copy of the position.
func (p *Position) Copy() *Position {
	newPos := *p
	return &newPos
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	return p.squares[sq]
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.squares[sq].IsEmpty()
}

// setPiece places a piece on a square, keeping the king map current.
func (p *Position) setPiece(piece Piece, sq Square) {
	p.squares[sq] = piece
	if piece.Type == King {
		p.KingSquare[piece.Color] = sq
	}
}

// PassTurn hands the move to the other side.
func (p *Position) PassTurn() {
	p.SideToMove = p.SideToMove.Other()
}

// PromotionPending returns true while a pawn on the last rank waits for
// Promote.
func (p *Position) PromotionPending() bool {
	return p.promotion != NoSquare
}

// PendingPromotion returns the square of the pawn waiting for promotion,
// or NoSquare.
func (p *Position) PendingPromotion() Square {
	return p.promotion
}

// Promote replaces the pawn waiting on the last rank with a piece of the
// given type.
func (p *Position) Promote(pt PieceType) error {
	if p.promotion == NoSquare {
		return fmt.Errorf("%w: no pawn to promote", ErrInvalidPromotion)
	}
	if !pt.CanPromoteTo() {
		return fmt.Errorf("%w: %s", ErrInvalidPromotion, pt)
	}
	pawn := p.squares[p.promotion]
	p.squares[p.promotion] = Piece{Type: pt, Color: pawn.Color}.WithMoved()
	p.promotion = NoSquare
	return nil
}

// PieceCount returns the number of pieces on the board, kings included.
func (p *Position) PieceCount() int {
	n := 0
	for sq := range p.squares {
		if !p.squares[sq].IsEmpty() {
			n++
		}
	}
	return n
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(NewSquare(file, rank))
			if piece.IsEmpty() {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.SideToMove)
	fmt.Fprintf(&sb, "FEN: %s\n", p.ToFEN())
	return sb.String()
}

// Validate checks if the position is valid.
func (p *Position) Validate() error {
	var kings [2]int
	for sq := A1; sq <= H8; sq++ {
		piece := p.squares[sq]
		if piece.IsEmpty() {
			continue
		}
		if piece.Type == King {
			kings[piece.Color]++
			if p.KingSquare[piece.Color] != sq {
				return fmt.Errorf("%s king on %s but king map says %s", piece.Color, sq, p.KingSquare[piece.Color])
			}
		}
		if piece.Type == Pawn && (sq.Rank() == 0 || sq.Rank() == 7) && sq != p.promotion {
			return fmt.Errorf("pawn on %s cannot stand on rank 1 or 8", sq)
		}
	}

	// Check that each side has exactly one king
	if kings[White] != 1 {
		return fmt.Errorf("white must have exactly one king")
	}
	if kings[Black] != 1 {
		return fmt.Errorf("black must have exactly one king")
	}

	return nil
}
