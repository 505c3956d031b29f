package board

// Direction tables as (file, rank) steps.
var (
	knightSteps = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingSteps   = [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	bishopDirs  = [4][2]int{{1, 1}, {-1, 1}, {-1, -1}, {1, -1}}
	rookDirs    = [4][2]int{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}
)

// AttackSet returns the squares the piece on sq threatens: every square it
// could capture on, plus the empty squares a non-pawn could move to.
// Sliders stop on the first occupied square and include it only when it
// holds an enemy piece. Pawns cover their forward diagonals when an enemy
// stands there, or when the adjacent enemy pawn may be taken en passant.
func (p *Position) AttackSet(sq Square) Bitboard {
	piece := p.squares[sq]
	if piece.IsEmpty() {
		return Empty
	}

	switch piece.Type {
	case Pawn:
		return p.pawnAttacks(sq, piece.Color)
	case Knight:
		return p.stepAttacks(sq, piece.Color, knightSteps[:])
	case Bishop:
		return p.rayAttacks(sq, piece.Color, bishopDirs[:])
	case Rook:
		return p.rayAttacks(sq, piece.Color, rookDirs[:])
	case Queen:
		return p.rayAttacks(sq, piece.Color, bishopDirs[:]) | p.rayAttacks(sq, piece.Color, rookDirs[:])
	case King:
		return p.stepAttacks(sq, piece.Color, kingSteps[:])
	}
	return Empty
}

func (p *Position) pawnAttacks(sq Square, us Color) Bitboard {
	var set Bitboard
	dir := us.forward()
	for _, df := range [2]int{-1, 1} {
		to, ok := sq.Offset(df, dir)
		if !ok {
			continue
		}
		target := p.squares[to]
		if !target.IsEmpty() {
			if target.Color != us {
				set = set.Set(to)
			}
			continue
		}
		// En passant: the victim stands beside us, one rank behind the target.
		beside, _ := sq.Offset(df, 0)
		if victim := p.squares[beside]; victim.Color == us.Other() && victim.EnPassant() {
			set = set.Set(to)
		}
	}
	return set
}

func (p *Position) stepAttacks(sq Square, us Color, steps [][2]int) Bitboard {
	var set Bitboard
	for _, s := range steps {
		to, ok := sq.Offset(s[0], s[1])
		if !ok {
			continue
		}
		if target := p.squares[to]; target.IsEmpty() || target.Color != us {
			set = set.Set(to)
		}
	}
	return set
}

func (p *Position) rayAttacks(sq Square, us Color, dirs [][2]int) Bitboard {
	var set Bitboard
	for _, d := range dirs {
		to, ok := sq.Offset(d[0], d[1])
		for ok {
			target := p.squares[to]
			if !target.IsEmpty() {
				if target.Color != us {
					set = set.Set(to)
				}
				break
			}
			set = set.Set(to)
			to, ok = to.Offset(d[0], d[1])
		}
	}
	return set
}

// IsSquareAttacked returns true if any piece of color by threatens sq.
// The answer equals membership of sq in the union of the attack sets of
// by's pieces whenever sq holds a piece of the other color; for empty
// squares pawn diagonals count as threatened.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	// Pawns: look one rank back from the attacker's point of view.
	for _, df := range [2]int{-1, 1} {
		if from, ok := sq.Offset(df, -by.forward()); ok && p.squares[from].Is(Pawn, by) {
			return true
		}
	}

	for _, s := range knightSteps {
		if from, ok := sq.Offset(s[0], s[1]); ok && p.squares[from].Is(Knight, by) {
			return true
		}
	}

	for _, s := range kingSteps {
		if from, ok := sq.Offset(s[0], s[1]); ok && p.squares[from].Is(King, by) {
			return true
		}
	}

	if p.sliderOnRay(sq, by, bishopDirs[:], Bishop) || p.sliderOnRay(sq, by, rookDirs[:], Rook) {
		return true
	}
	return false
}

// sliderOnRay reports whether the first piece met along any of dirs is a
// slider of color by moving that way (kind or queen).
func (p *Position) sliderOnRay(sq Square, by Color, dirs [][2]int, kind PieceType) bool {
	for _, d := range dirs {
		to, ok := sq.Offset(d[0], d[1])
		for ok {
			piece := p.squares[to]
			if !piece.IsEmpty() {
				if piece.Color == by && (piece.Type == kind || piece.Type == Queen) {
					return true
				}
				break
			}
			to, ok = to.Offset(d[0], d[1])
		}
	}
	return false
}

// pinnedPieces returns the pieces of color us that are the only blocker
// between their king and an enemy slider.
func (p *Position) pinnedPieces(us Color) Bitboard {
	ksq := p.KingSquare[us]
	if ksq == NoSquare {
		return Empty
	}
	pinned := p.pinsAlong(ksq, us, bishopDirs[:], Bishop)
	return pinned | p.pinsAlong(ksq, us, rookDirs[:], Rook)
}

func (p *Position) pinsAlong(ksq Square, us Color, dirs [][2]int, kind PieceType) Bitboard {
	var pinned Bitboard
	for _, d := range dirs {
		blocker := NoSquare
		to, ok := ksq.Offset(d[0], d[1])
		for ok {
			piece := p.squares[to]
			if !piece.IsEmpty() {
				if blocker == NoSquare {
					if piece.Color != us {
						break
					}
					blocker = to
				} else {
					if piece.Color != us && (piece.Type == kind || piece.Type == Queen) {
						pinned = pinned.Set(blocker)
					}
					break
				}
			}
			to, ok = to.Offset(d[0], d[1])
		}
	}
	return pinned
}
