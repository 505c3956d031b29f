package board

import (
	"fmt"
	"strings"
)

// Move is a move together with what is needed to display it.
type Move struct {
	From      Square
	To        Square
	Promotion PieceType // NoPieceType unless the move promotes
	Piece     PieceType // Kind of the moving piece
	Capture   bool      // True for captures, en passant included
}

// NoMove represents an invalid or null move.
var NoMove = Move{From: NoSquare, To: NoSquare, Promotion: NoPieceType, Piece: NoPieceType}

// NewMove describes moving the piece on from to to in pos. The capture
// marker accounts for en passant.
func NewMove(pos *Position, from, to Square) Move {
	return Move{
		From:      from,
		To:        to,
		Promotion: NoPieceType,
		Piece:     pos.PieceAt(from).Type,
		Capture:   !pos.IsEmpty(to) || pos.isEnPassantCapture(from, to),
	}
}

// WithPromotion returns the move promoting to pt.
func (m Move) WithPromotion(pt PieceType) Move {
	m.Promotion = pt
	return m
}

// IsNull returns true for NoMove.
func (m Move) IsNull() bool {
	return m.From == NoSquare || m.To == NoSquare
}

// IsPromotion returns true if this move carries a promotion kind.
func (m Move) IsPromotion() bool {
	return m.Promotion.CanPromoteTo()
}

// Annotation returns the prefix shown before the destination square: the
// piece letter, with pawns named by their origin file when capturing and
// left out otherwise, followed by 'x' for captures. "Nx", "ex", "Q", "".
func (m Move) Annotation() string {
	var sb strings.Builder
	if m.Piece != Pawn {
		sb.WriteByte(m.Piece.Letter())
	}
	if m.Capture {
		if m.Piece == Pawn {
			sb.WriteByte('a' + byte(m.From.File()))
		}
		sb.WriteByte('x')
	}
	return sb.String()
}

// String returns the short display form, e.g. "Nxf3", "exd6", "e8=Q".
func (m Move) String() string {
	if m.IsNull() {
		return "-"
	}
	s := m.Annotation() + m.To.String()
	if m.IsPromotion() {
		s += "=" + string(m.Promotion.Letter())
	}
	return s
}

// UCI returns the move in UCI format (e.g., "e2e4", "e7e8q").
func (m Move) UCI() string {
	if m.IsNull() {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += strings.ToLower(string(m.Promotion.Letter()))
	}
	return s
}

// ParseMove parses a UCI format move string and checks it against the
// legal moves of pos. A move reaching the last rank without a promotion
// suffix promotes to a queen.
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	legal, err := pos.LegalMovesFor(from)
	if err != nil {
		return NoMove, err
	}
	if !legal.IsSet(to) {
		return NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, s)
	}

	m := NewMove(pos, from, to)
	if m.Piece == Pawn && to.RelativeRank(pos.SideToMove) == 7 {
		m.Promotion = Queen
		if len(s) == 5 {
			promo, err := parsePromotion(s[4])
			if err != nil {
				return NoMove, err
			}
			m.Promotion = promo
		}
	} else if len(s) == 5 {
		return NoMove, fmt.Errorf("%w: %s does not promote", ErrInvalidPromotion, s)
	}
	return m, nil
}

func parsePromotion(c byte) (PieceType, error) {
	switch c {
	case 'n':
		return Knight, nil
	case 'b':
		return Bishop, nil
	case 'r':
		return Rook, nil
	case 'q':
		return Queen, nil
	}
	return NoPieceType, fmt.Errorf("%w: %c", ErrInvalidPromotion, c)
}
