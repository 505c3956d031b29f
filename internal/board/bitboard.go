package board

import (
	"math/bits"
	"strings"
)

// Bitboard is a set of squares, one bit per square.
// Bit 0 = A1, Bit 7 = H1, Bit 56 = A8, Bit 63 = H8.
type Bitboard uint64

// Empty is the empty square set.
const Empty Bitboard = 0

// SquareBB returns a bitboard with only the given square set.
func SquareBB(sq Square) Bitboard {
	return 1 << sq
}

// BitboardOf builds a set from the given squares.
func BitboardOf(squares ...Square) Bitboard {
	var b Bitboard
	for _, sq := range squares {
		b |= SquareBB(sq)
	}
	return b
}

// Set returns the set with the given square added.
func (b Bitboard) Set(sq Square) Bitboard {
	return b | (1 << sq)
}

// Clear returns the set with the given square removed.
func (b Bitboard) Clear(sq Square) Bitboard {
	return b &^ (1 << sq)
}

// IsSet returns true if the given square is in the set.
func (b Bitboard) IsSet(sq Square) bool {
	return b&(1<<sq) != 0
}

// PopCount returns the number of squares in the set.
func (b Bitboard) PopCount() int {
	return bits.OnesCount64(uint64(b))
}

// LSB returns the lowest square in the set.
func (b Bitboard) LSB() Square {
	if b == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(uint64(b)))
}

// PopLSB removes and returns the lowest square in the set.
func (b *Bitboard) PopLSB() Square {
	sq := b.LSB()
	*b &= *b - 1
	return sq
}

// Squares returns the members in ascending square order.
func (b Bitboard) Squares() []Square {
	out := make([]Square, 0, b.PopCount())
	for b != 0 {
		out = append(out, b.PopLSB())
	}
	return out
}

// String lists the members in algebraic notation, e.g. "e3 e4".
func (b Bitboard) String() string {
	names := make([]string, 0, b.PopCount())
	for b != 0 {
		names = append(names, b.PopLSB().String())
	}
	return strings.Join(names, " ")
}
