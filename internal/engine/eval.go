// Package engine implements the chess AI: static evaluation, negamax search
// with alpha-beta pruning and killer moves, and a budgeted engine facade.
package engine

import (
	"fmt"

	"github.com/hailam/chessduel/internal/board"
)

// Evaluation constants
const (
	PawnValue   = 50 // Before structure terms; a connected pawn is worth 100
	KnightValue = 320
	BishopValue = 330
	RookValue   = 500
	QueenValue  = 900
	KingValue   = 0
)

// Pawn structure terms
const (
	doubledPawnPenalty = 50
	connectedPawnBonus = 50
	blockedPawnPenalty = 50
	mobilityWeight     = 10
	endgamePieceCount  = 8 // King switches tables at or below this many pieces
)

var pieceValues = [6]int{PawnValue, KnightValue, BishopValue, RookValue, QueenValue, KingValue}

var pieceTables = [6]*[64]int{&pawnTable, &knightTable, &bishopTable, &rookTable, &queenTable, &kingMiddleTable}

// Evaluate returns the static evaluation of the position in centipawns,
// from the point of view of the side to move.
//
// Every piece scores its material value plus its piece-square entry; pawns
// add structure terms. A mobility term counts the legal moves of both
// sides, the opponent's with the turn flipped temporarily.
//
// Evaluate panics if a promotion is pending.
func Evaluate(pos *board.Position) int {
	us := pos.SideToMove
	endgame := pos.PieceCount() <= endgamePieceCount

	var pawnsOnFile [2][8]int
	for sq := board.A1; sq <= board.H8; sq++ {
		if piece := pos.PieceAt(sq); piece.Type == board.Pawn {
			pawnsOnFile[piece.Color][sq.File()]++
		}
	}

	score := 0
	for sq := board.A1; sq <= board.H8; sq++ {
		piece := pos.PieceAt(sq)
		if piece.IsEmpty() {
			continue
		}

		v := pieceValues[piece.Type] + pieceTables[piece.Type][pstIndex(sq, piece.Color)]
		switch piece.Type {
		case board.Pawn:
			v += pawnStructure(pos, sq, &pawnsOnFile[piece.Color])
		case board.King:
			if endgame {
				v = kingEndTable[pstIndex(sq, piece.Color)]
			}
		}

		if piece.Color == us {
			score += v
		} else {
			score -= v
		}
	}

	return score + mobilityWeight*mobility(pos)
}

// pawnStructure scores the doubled, connected and blocked terms for the
// pawn on sq. The terms are independent of each other.
func pawnStructure(pos *board.Position, sq board.Square, files *[8]int) int {
	v := 0
	file := sq.File()
	if files[file] > 1 {
		v -= doubledPawnPenalty
	}
	if (file > 0 && files[file-1] > 0) || (file < 7 && files[file+1] > 0) {
		v += connectedPawnBonus
	}
	if pos.PseudoMoves(sq) == 0 {
		v -= blockedPawnPenalty
	}
	return v
}

// mobility returns our legal move count minus the opponent's. The turn is
// flipped for the opponent's count and restored before returning.
func mobility(pos *board.Position) int {
	ours := mustCount(pos)
	pos.PassTurn()
	theirs := mustCount(pos)
	pos.PassTurn()
	return ours - theirs
}

func mustCount(pos *board.Position) int {
	n, err := pos.LegalMoveCount()
	if err != nil {
		panic(fmt.Sprintf("engine: evaluate: %v", err))
	}
	return n
}
