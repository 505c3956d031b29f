package board

import "testing"

// perft counts the leaf nodes of the legal move tree at the given depth,
// counting each promotion kind as its own move.
func perft(p *Position, depth int) int64 {
	if depth == 0 {
		return 1
	}

	all, err := p.AllLegalMoves()
	if err != nil {
		panic(err)
	}

	var nodes int64
	for from, targets := range all {
		for targets != 0 {
			to := targets.PopLSB()
			m := NewMove(p, from, to)
			kinds := []PieceType{NoPieceType}
			if m.Piece == Pawn && to.RelativeRank(p.SideToMove) == 7 {
				kinds = PromotionTypes[:]
			}
			for _, pt := range kinds {
				m = m.WithPromotion(pt)
				if depth == 1 {
					nodes++
					continue
				}
				undo := p.Make(m)
				nodes += perft(p, depth-1)
				p.Unmake(m, undo)
			}
		}
	}
	return nodes
}

type perftCase struct {
	depth    int
	expected int64
	long     bool
}

func runPerft(t *testing.T, fen string, cases []perftCase) {
	t.Helper()
	pos, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}
	for _, tc := range cases {
		if tc.long && testing.Short() {
			continue
		}
		got := perft(pos, tc.depth)
		if got != tc.expected {
			t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
		}
	}
}

// TestPerftStartingPosition tests move generation from the starting position.
func TestPerftStartingPosition(t *testing.T) {
	runPerft(t, StartFEN, []perftCase{
		{1, 20, false},
		{2, 400, false},
		{3, 8902, false},
		{4, 197281, true},
	})
}

// TestPerftKiwipete covers castling through and out of attacks, pins and
// en passant.
func TestPerftKiwipete(t *testing.T) {
	runPerft(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -", []perftCase{
		{1, 48, false},
		{2, 2039, false},
		{3, 97862, true},
	})
}

// TestPerftPosition3 tests en passant edge cases.
func TestPerftPosition3(t *testing.T) {
	runPerft(t, "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -", []perftCase{
		{1, 14, false},
		{2, 191, false},
		{3, 2812, false},
		{4, 43238, true},
	})
}

// TestPerftPosition4 is promotion heavy.
func TestPerftPosition4(t *testing.T) {
	runPerft(t, "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", []perftCase{
		{1, 6, false},
		{2, 264, false},
		{3, 9467, false},
	})
}

func TestPerftPosition5(t *testing.T) {
	runPerft(t, "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", []perftCase{
		{1, 44, false},
		{2, 1486, false},
		{3, 62379, true},
	})
}

// TestPerftEnPassantPin: the black pawn on e4 may not take d3 en passant
// because that would open the fourth rank between the rook and the king.
func TestPerftEnPassantPin(t *testing.T) {
	pos, err := ParseFEN("8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1")
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}

	legal, err := pos.LegalMovesFor(E4)
	if err != nil {
		t.Fatal(err)
	}
	if legal.IsSet(D3) {
		t.Errorf("en passant exd3 should be illegal, legal set %v", legal.Squares())
	}

	// Ka3, Ka5, Kb3, Kb4, Kb5, e3
	runPerft(t, "8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1", []perftCase{
		{1, 6, false},
		{2, 94, false},
	})
}
