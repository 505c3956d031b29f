package board_test

import (
	"sort"
	"testing"

	"github.com/hailam/chessduel/internal/board"
	"github.com/hailam/chessduel/internal/testutil"
)

func legalSquares(t *testing.T, pos *board.Position, sq board.Square) []string {
	t.Helper()
	set, err := pos.LegalMovesFor(sq)
	testutil.AssertNoError(t, err)
	var out []string
	for _, s := range set.Squares() {
		out = append(out, s.String())
	}
	sort.Strings(out)
	return out
}

// play applies UCI moves with Make, failing on any illegal one.
func play(t *testing.T, pos *board.Position, moves ...string) {
	t.Helper()
	for _, s := range moves {
		m, err := board.ParseMove(s, pos)
		testutil.AssertNoError(t, err, "move %s", s)
		pos.Make(m)
	}
}

func TestStartingPositionHasTwentyMoves(t *testing.T) {
	pos := board.NewGame()
	n, err := pos.LegalMoveCount()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, n, 20)

	all, err := pos.AllLegalMoves()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(all), 16, "every white piece has an entry")
	testutil.AssertEqual(t, legalSquares(t, pos, board.G1), []string{"f3", "h3"})
	testutil.AssertEqual(t, legalSquares(t, pos, board.E2), []string{"e3", "e4"})
	testutil.AssertEqual(t, len(legalSquares(t, pos, board.E7)), 0, "opponent pieces have no moves")
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want board.Status
	}{
		{"back rank mate", "R6k/6pp/8/8/8/8/8/K7 b - - 0 1", board.Checkmate},
		{"stalemate", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", board.Stalemate},
		{"check with escape", "7k/8/8/8/8/8/8/K6R b - - 0 1", board.Ongoing},
		{"start", board.StartFEN, board.Ongoing},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := testutil.MustParseFEN(t, tc.fen)
			got, err := pos.Status()
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, got, tc.want)
		})
	}
}

func TestFoolsMate(t *testing.T) {
	pos := board.NewGame()
	play(t, pos, "f2f3", "e7e5", "g2g4", "d8h4")

	testutil.AssertTrue(t, pos.InCheck())
	testutil.AssertTrue(t, pos.IsCheckmate())
	n, err := pos.LegalMoveCount()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, n, 0)
}

func TestEnPassant(t *testing.T) {
	pos := testutil.MustParseFEN(t, "rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3")

	// Only the pawn that just double-stepped can be taken.
	testutil.AssertEqual(t, legalSquares(t, pos, board.E5), []string{"e6", "f6"})

	m, err := board.ParseMove("e5f6", pos)
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, m.Capture, "en passant is a capture")
	testutil.AssertEqual(t, m.String(), "exf6")

	pos.Make(m)
	testutil.AssertTrue(t, pos.IsEmpty(board.F5), "captured pawn removed")
	testutil.AssertTrue(t, pos.PieceAt(board.F6).Is(board.Pawn, board.White))
}

func TestEnPassantThroughMakeMove(t *testing.T) {
	pos := board.NewGame()
	for _, mv := range [][2]board.Square{
		{board.E2, board.E4},
		{board.A7, board.A6},
		{board.E4, board.E5},
		{board.D7, board.D5},
	} {
		set, err := pos.LegalMovesFor(mv[0])
		testutil.AssertNoError(t, err)
		testutil.AssertTrue(t, set.IsSet(mv[1]), "%s-%s is legal", mv[0], mv[1])
		pos.MakeMove(mv[0], mv[1])
		pos.PassTurn()
	}

	testutil.AssertEqual(t, legalSquares(t, pos, board.E5), []string{"d6", "e6"})

	captured, promotion := pos.MakeMove(board.E5, board.D6)
	testutil.AssertTrue(t, captured, "en passant reports a capture")
	testutil.AssertFalse(t, promotion)
	testutil.AssertTrue(t, pos.IsEmpty(board.D5), "captured pawn removed")
	testutil.AssertTrue(t, pos.IsEmpty(board.E5))
	testutil.AssertTrue(t, pos.PieceAt(board.D6).Is(board.Pawn, board.White))
}

func TestEnPassantExpires(t *testing.T) {
	pos := testutil.MustParseFEN(t, "rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3")
	play(t, pos, "b1c3", "g8f6")
	testutil.AssertEqual(t, legalSquares(t, pos, board.E5), []string{"e6", "f6"}, "f6 is now a plain capture")

	pos = testutil.MustParseFEN(t, "rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3")
	play(t, pos, "b1c3", "b8c6")
	testutil.AssertEqual(t, legalSquares(t, pos, board.E5), []string{"e6"})
}

func TestEnPassantDiscoveredCheck(t *testing.T) {
	pos := testutil.MustParseFEN(t, "8/8/8/KPp4r/8/8/8/7k w - c6 0 1")
	testutil.AssertEqual(t, legalSquares(t, pos, board.B5), []string{"b6"})
}

func TestPinnedPieceCannotLeaveLine(t *testing.T) {
	// The knight on e2 shields its king from the rook on e8.
	pos := testutil.MustParseFEN(t, "4r2k/8/8/8/8/8/4N3/4K3 w - - 0 1")
	testutil.AssertEqual(t, len(legalSquares(t, pos, board.E2)), 0)

	// A pinned rook may still slide along the pin.
	pos = testutil.MustParseFEN(t, "4r2k/8/8/8/8/8/4R3/4K3 w - - 0 1")
	testutil.AssertEqual(t, legalSquares(t, pos, board.E2), []string{"e3", "e4", "e5", "e6", "e7", "e8"})
}

func TestCastling(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want []string
	}{
		{"both sides", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", []string{"c1", "d1", "d2", "e2", "f1", "f2", "g1"}},
		{"transit attacked", "r3kr2/8/8/8/8/8/8/R3K2R w KQq - 0 1", []string{"c1", "d1", "d2", "e2"}},
		{"in check", "4k3/8/8/8/4r3/8/8/R3K2R w KQ - 0 1", []string{"d1", "d2", "f1", "f2"}},
		{"b-file attacked is fine", "1r2k3/8/8/8/8/8/8/R3K2R w KQ - 0 1", []string{"c1", "d1", "d2", "e2", "f1", "f2", "g1"}},
		{"blocked", "4k3/8/8/8/8/8/8/RN2K1NR w KQ - 0 1", []string{"d1", "d2", "e2", "f1", "f2"}},
		{"no rights", "4k3/8/8/8/8/8/8/R3K2R w - - 0 1", []string{"d1", "d2", "e2", "f1", "f2"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := testutil.MustParseFEN(t, tc.fen)
			testutil.AssertEqual(t, legalSquares(t, pos, board.E1), tc.want)
		})
	}
}

func TestCastlingMovesRook(t *testing.T) {
	pos := testutil.MustParseFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	play(t, pos, "e1g1", "e8c8")

	testutil.AssertTrue(t, pos.PieceAt(board.F1).Is(board.Rook, board.White))
	testutil.AssertTrue(t, pos.IsEmpty(board.H1))
	testutil.AssertTrue(t, pos.PieceAt(board.D8).Is(board.Rook, board.Black))
	testutil.AssertTrue(t, pos.IsEmpty(board.A8))
	testutil.AssertEqual(t, pos.KingSquare, [2]board.Square{board.G1, board.C8})
	testutil.AssertEqual(t, pos.ToFEN(), "2kr3r/8/8/8/8/8/8/R4RK1 w - - 0 1")
}

func TestRookMoveLosesCastling(t *testing.T) {
	pos := testutil.MustParseFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	play(t, pos, "a1a2", "h8h7", "a2a1", "h7h8")
	testutil.AssertEqual(t, legalSquares(t, pos, board.E1), []string{"d1", "d2", "e2", "f1", "f2", "g1"})
	testutil.AssertEqual(t, pos.ToFEN(), "r3k2r/8/8/8/8/8/8/R3K2R w Kq - 0 1")
}

func TestPromotion(t *testing.T) {
	pos := testutil.MustParseFEN(t, "7k/P7/8/8/8/8/8/K7 w - - 0 1")

	captured, pending := pos.MakeMove(board.A7, board.A8)
	testutil.AssertFalse(t, captured)
	testutil.AssertTrue(t, pending)

	_, err := pos.LegalMovesFor(board.A1)
	testutil.AssertErrorIs(t, err, board.ErrPromotionPending)
	_, err = pos.Status()
	testutil.AssertErrorIs(t, err, board.ErrPromotionPending)

	testutil.AssertErrorIs(t, pos.Promote(board.King), board.ErrInvalidPromotion)
	testutil.AssertNoError(t, pos.Promote(board.Knight))
	testutil.AssertTrue(t, pos.PieceAt(board.A8).Is(board.Knight, board.White), "promoted piece keeps the mover's color")

	pos.PassTurn()
	testutil.AssertEqual(t, pos.SideToMove, board.Black)
	_, err = pos.Status()
	testutil.AssertNoError(t, err)
}

func TestCopyIsIndependent(t *testing.T) {
	pos := board.NewGame()
	clone := pos.Copy()
	play(t, clone, "e2e4", "e7e5", "g1f3")

	testutil.AssertSamePosition(t, pos, board.NewGame())
	testutil.AssertTrue(t, clone.IsEmpty(board.E2))
	testutil.AssertFalse(t, pos.IsEmpty(board.E2))
}

func TestMakeUnmakeRestores(t *testing.T) {
	fens := []string{
		board.StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -",
		"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	}
	for _, fen := range fens {
		pos := testutil.MustParseFEN(t, fen)
		before := pos.Copy()
		all, err := pos.AllLegalMoves()
		testutil.AssertNoError(t, err)
		for from, targets := range all {
			for _, to := range targets.Squares() {
				m := board.NewMove(pos, from, to)
				undo := pos.Make(m)
				pos.Unmake(m, undo)
				testutil.AssertSamePosition(t, pos, before, "%s after %s", fen, m.UCI())
			}
		}
	}
}

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		board.StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 1",
		"r3k2r/8/8/8/8/8/8/R3K2R b Kq - 0 1",
	}
	for _, fen := range fens {
		pos := testutil.MustParseFEN(t, fen)
		testutil.AssertEqual(t, pos.ToFEN(), fen)
	}
}

func TestParseFENErrors(t *testing.T) {
	bad := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNX w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQ1BNR w kq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e3 0 1",
	}
	for _, fen := range bad {
		_, err := board.ParseFEN(fen)
		testutil.AssertErrorIs(t, err, board.ErrInvalidFEN, "%q", fen)
	}
}

func TestParseMove(t *testing.T) {
	pos := board.NewGame()

	m, err := board.ParseMove("g1f3", pos)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, m.Piece, board.Knight)
	testutil.AssertEqual(t, m.String(), "Nf3")
	testutil.AssertEqual(t, m.UCI(), "g1f3")

	_, err = board.ParseMove("e2e5", pos)
	testutil.AssertErrorIs(t, err, board.ErrIllegalMove)
	_, err = board.ParseMove("e2e4q", pos)
	testutil.AssertErrorIs(t, err, board.ErrInvalidPromotion)

	pos = testutil.MustParseFEN(t, "1n5k/P7/8/8/8/8/8/K7 w - - 0 1")
	m, err = board.ParseMove("a7b8", pos)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, m.Promotion, board.Queen, "default promotion")
	testutil.AssertEqual(t, m.String(), "axb8=Q")
	m, err = board.ParseMove("a7a8r", pos)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, m.UCI(), "a7a8r")
}

func TestAnnotation(t *testing.T) {
	pos := testutil.MustParseFEN(t, "4k3/8/8/3p4/4P3/5N2/8/4K2Q w - - 0 1")
	tests := []struct {
		from, to board.Square
		want     string
	}{
		{board.E4, board.D5, "ex"},
		{board.E4, board.E5, ""},
		{board.F3, board.D4, "N"},
		{board.H1, board.H8, "Q"},
	}
	for _, tc := range tests {
		testutil.AssertEqual(t, board.NewMove(pos, tc.from, tc.to).Annotation(), tc.want)
	}
}
