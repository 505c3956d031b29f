package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string and returns a Position.
//
// Castling rights become has-moved flags: a king counts as unmoved only on
// its home square with at least one right, and a rook only on the corner
// named by a right. The en passant square flags the pawn that just passed
// over it. The move counters are checked but not kept.
func ParseFEN(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return nil, fmt.Errorf("%w: need at least 4 fields, got %d", ErrInvalidFEN, len(parts))
	}

	pos := emptyPosition()

	if err := parsePiecePlacement(pos, parts[0]); err != nil {
		return nil, err
	}

	switch parts[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return nil, fmt.Errorf("%w: invalid side to move: %s", ErrInvalidFEN, parts[1])
	}

	if err := parseCastlingRights(pos, parts[2]); err != nil {
		return nil, err
	}

	if parts[3] != "-" {
		if err := parseEnPassant(pos, parts[3]); err != nil {
			return nil, err
		}
	}

	for i := 4; i < len(parts) && i < 6; i++ {
		if _, err := strconv.Atoi(parts[i]); err != nil {
			return nil, fmt.Errorf("%w: invalid move counter: %s", ErrInvalidFEN, parts[i])
		}
	}

	if err := pos.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	return pos, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
// Rooks and kings start out marked as moved; castling rights unmark them.
func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: need 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}

	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0

		for _, c := range rankStr {
			if file > 7 {
				return fmt.Errorf("%w: too many squares in rank %d", ErrInvalidFEN, rank+1)
			}

			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			piece := PieceFromChar(byte(c))
			if piece.IsEmpty() {
				return fmt.Errorf("%w: invalid piece character: %c", ErrInvalidFEN, c)
			}
			pos.setPiece(piece.WithMoved(), NewSquare(file, rank))
			file++
		}

		if file != 8 {
			return fmt.Errorf("%w: invalid number of squares in rank %d: got %d", ErrInvalidFEN, rank+1, file)
		}
	}

	return nil
}

// castlingCorners maps each castling letter to its king and rook squares.
var castlingCorners = map[rune]struct {
	color      Color
	king, rook Square
}{
	'K': {White, E1, H1},
	'Q': {White, E1, A1},
	'k': {Black, E8, H8},
	'q': {Black, E8, A8},
}

func parseCastlingRights(pos *Position, castling string) error {
	if castling == "-" {
		return nil
	}

	for _, c := range castling {
		corner, ok := castlingCorners[c]
		if !ok {
			return fmt.Errorf("%w: invalid castling character: %c", ErrInvalidFEN, c)
		}
		king, rook := pos.squares[corner.king], pos.squares[corner.rook]
		if !king.Is(King, corner.color) || !rook.Is(Rook, corner.color) {
			// Rights without the pieces in place are meaningless.
			continue
		}
		pos.squares[corner.king] = Piece{Type: King, Color: corner.color}
		pos.squares[corner.rook] = Piece{Type: Rook, Color: corner.color}
	}

	return nil
}

func parseEnPassant(pos *Position, s string) error {
	sq, err := ParseSquare(s)
	if err != nil {
		return fmt.Errorf("%w: invalid en passant square: %s", ErrInvalidFEN, s)
	}
	mover := pos.SideToMove.Other()
	if sq.RelativeRank(mover) != 2 {
		return fmt.Errorf("%w: en passant square %s on wrong rank", ErrInvalidFEN, s)
	}
	pawnSq, _ := sq.Offset(0, mover.forward())
	pawn := pos.squares[pawnSq]
	if !pawn.Is(Pawn, mover) {
		return fmt.Errorf("%w: no pawn in front of en passant square %s", ErrInvalidFEN, s)
	}
	pos.squares[pawnSq] = pawn.WithEnPassant(true)
	return nil
}

// castlingString rebuilds the castling field from the has-moved flags.
func (p *Position) castlingString() string {
	var sb strings.Builder
	for _, c := range "KQkq" {
		corner := castlingCorners[c]
		king, rook := p.squares[corner.king], p.squares[corner.rook]
		if king.Is(King, corner.color) && !king.HasMoved() &&
			rook.Is(Rook, corner.color) && !rook.HasMoved() {
			sb.WriteRune(c)
		}
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}

// enPassantString returns the square behind a flagged pawn of the side
// that just moved, or "-".
func (p *Position) enPassantString() string {
	mover := p.SideToMove.Other()
	for sq := A1; sq <= H8; sq++ {
		if pawn := p.squares[sq]; pawn.Color == mover && pawn.EnPassant() {
			if behind, ok := sq.Offset(0, -mover.forward()); ok {
				return behind.String()
			}
		}
	}
	return "-"
}

// ToFEN returns the FEN representation of the position. Move counters are
// not tracked and are written as "0 1".
func (p *Position) ToFEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(NewSquare(file, rank))
			if piece.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.castlingString())
	sb.WriteByte(' ')
	sb.WriteString(p.enPassantString())
	sb.WriteString(" 0 1")

	return sb.String()
}
