package testutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hailam/chessduel/internal/board"
)

// MustParseFEN parses fen or fails the test.
func MustParseFEN(t *testing.T, fen string) *board.Position {
	t.Helper()
	pos, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

// AssertSamePosition fails if the two positions differ in any field,
// has-moved and en passant flags included.
func AssertSamePosition(t *testing.T, got, want *board.Position, msgAndArgs ...interface{}) {
	t.Helper()
	opt := cmp.AllowUnexported(board.Position{}, board.Piece{})
	if diff := cmp.Diff(want, got, opt); diff != "" {
		report(t, "position mismatch (-want +got):\n"+diff, msgAndArgs...)
	}
}

// MoveList flattens a legal move map into UCI strings, fanning promotions
// out to every promotion kind.
func MoveList(pos *board.Position, moves map[board.Square]board.Bitboard) []string {
	var out []string
	for _, from := range board.ScanOrder {
		for _, to := range moves[from].Squares() {
			m := board.NewMove(pos, from, to)
			if m.Piece == board.Pawn && to.RelativeRank(pos.SideToMove) == 7 {
				for _, pt := range board.PromotionTypes {
					out = append(out, m.WithPromotion(pt).UCI())
				}
				continue
			}
			out = append(out, m.UCI())
		}
	}
	return out
}
