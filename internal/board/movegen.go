package board

// NeutralSet returns the non-capturing moves of the piece on sq that are
// not part of its attack set: pawn advances and castling. Other kinds have
// none.
func (p *Position) NeutralSet(sq Square) Bitboard {
	piece := p.squares[sq]
	switch piece.Type {
	case Pawn:
		return p.pawnPushes(sq, piece.Color)
	case King:
		return p.castlingMoves(sq, piece)
	}
	return Empty
}

// PseudoMoves returns the attack and neutral squares of the piece on sq.
// These may leave the mover's own king in check.
func (p *Position) PseudoMoves(sq Square) Bitboard {
	return p.AttackSet(sq) | p.NeutralSet(sq)
}

// pawnPushes generates one or two squares forward. The double step is only
// available from the pawn's starting rank and needs both squares empty.
func (p *Position) pawnPushes(sq Square, us Color) Bitboard {
	var set Bitboard
	dir := us.forward()
	one, ok := sq.Offset(0, dir)
	if !ok || !p.IsEmpty(one) {
		return set
	}
	set = set.Set(one)
	if sq.RelativeRank(us) == 1 {
		if two, ok := one.Offset(0, dir); ok && p.IsEmpty(two) {
			set = set.Set(two)
		}
	}
	return set
}

// castlingMoves returns the king destinations for castling on either side.
// Requires an unmoved king and an unmoved rook of the same color in the
// corner, every square between them empty, and none of the king's start,
// transit or destination squares attacked.
func (p *Position) castlingMoves(ksq Square, king Piece) Bitboard {
	var set Bitboard
	if king.HasMoved() {
		return set
	}
	them := king.Color.Other()
	rank := ksq.Rank()

	for _, side := range [2]struct{ rookFile, kingTo int }{{7, 6}, {0, 2}} {
		rook := p.squares[NewSquare(side.rookFile, rank)]
		if !rook.Is(Rook, king.Color) || rook.HasMoved() {
			continue
		}
		if !p.pathClear(ksq.File(), side.rookFile, rank) {
			continue
		}
		if p.pathAttacked(ksq.File(), side.kingTo, rank, them) {
			continue
		}
		set = set.Set(NewSquare(side.kingTo, rank))
	}
	return set
}

// pathClear reports whether every square strictly between the two files
// on rank is empty.
func (p *Position) pathClear(fromFile, toFile, rank int) bool {
	lo, hi := fromFile, toFile
	if lo > hi {
		lo, hi = hi, lo
	}
	for f := lo + 1; f < hi; f++ {
		if !p.IsEmpty(NewSquare(f, rank)) {
			return false
		}
	}
	return true
}

// pathAttacked reports whether any square from fromFile to toFile inclusive
// on rank is attacked by color by.
func (p *Position) pathAttacked(fromFile, toFile, rank int, by Color) bool {
	lo, hi := fromFile, toFile
	if lo > hi {
		lo, hi = hi, lo
	}
	for f := lo; f <= hi; f++ {
		if p.IsSquareAttacked(NewSquare(f, rank), by) {
			return true
		}
	}
	return false
}

// LegalMovesFor returns the legal destinations of the piece on sq.
// The square must hold a piece of the side to move; otherwise the set is
// empty.
func (p *Position) LegalMovesFor(sq Square) (Bitboard, error) {
	if p.PromotionPending() {
		return Empty, ErrPromotionPending
	}
	piece := p.squares[sq]
	if piece.IsEmpty() || piece.Color != p.SideToMove {
		return Empty, nil
	}
	return p.legalMoves(sq, p.InCheck(), p.pinnedPieces(p.SideToMove)), nil
}

// AllLegalMoves returns the legal destinations of every piece of the side
// to move, keyed by origin square. Pieces without moves map to an empty set.
func (p *Position) AllLegalMoves() (map[Square]Bitboard, error) {
	if p.PromotionPending() {
		return nil, ErrPromotionPending
	}
	us := p.SideToMove
	inCheck := p.InCheck()
	pinned := p.pinnedPieces(us)

	moves := make(map[Square]Bitboard, 16)
	for _, sq := range ScanOrder {
		if piece := p.squares[sq]; !piece.IsEmpty() && piece.Color == us {
			moves[sq] = p.legalMoves(sq, inCheck, pinned)
		}
	}
	return moves, nil
}

// ForEachLegalMove calls fn for every legal move of the side to move in
// scan order, destinations ascending, until fn returns false. fn may play
// moves on p as long as it takes them back before returning.
func (p *Position) ForEachLegalMove(fn func(from, to Square) bool) error {
	if p.PromotionPending() {
		return ErrPromotionPending
	}
	us := p.SideToMove
	inCheck := p.InCheck()
	pinned := p.pinnedPieces(us)

	for _, from := range ScanOrder {
		if piece := p.squares[from]; piece.IsEmpty() || piece.Color != us {
			continue
		}
		for targets := p.legalMoves(from, inCheck, pinned); targets != 0; {
			if !fn(from, targets.PopLSB()) {
				return nil
			}
		}
	}
	return nil
}

// LegalMoveCount returns the number of legal moves of the side to move.
// A promotion counts once per destination square.
func (p *Position) LegalMoveCount() (int, error) {
	if p.PromotionPending() {
		return 0, ErrPromotionPending
	}
	return p.legalMoveCount(), nil
}

func (p *Position) legalMoveCount() int {
	us := p.SideToMove
	inCheck := p.InCheck()
	pinned := p.pinnedPieces(us)

	n := 0
	for sq := A1; sq <= H8; sq++ {
		if piece := p.squares[sq]; !piece.IsEmpty() && piece.Color == us {
			n += p.legalMoves(sq, inCheck, pinned).PopCount()
		}
	}
	return n
}

// HasLegalMoves returns true if the side to move has any legal move.
func (p *Position) HasLegalMoves() bool {
	us := p.SideToMove
	inCheck := p.InCheck()
	pinned := p.pinnedPieces(us)

	for sq := A1; sq <= H8; sq++ {
		if piece := p.squares[sq]; !piece.IsEmpty() && piece.Color == us {
			if p.legalMoves(sq, inCheck, pinned) != 0 {
				return true
			}
		}
	}
	return false
}

// legalMoves filters the pseudo-legal moves of the piece on sq.
//
// Fast path: when the side to move is not in check, a non-king piece that
// is not pinned cannot expose its king, so its moves are accepted without
// simulation. En passant captures always take the slow path because they
// remove a second piece from the board. Everything else is played on a
// copy and kept only if the mover's king is not attacked afterwards.
func (p *Position) legalMoves(sq Square, inCheck bool, pinned Bitboard) Bitboard {
	piece := p.squares[sq]
	candidates := p.PseudoMoves(sq)
	if candidates == 0 {
		return Empty
	}

	fast := !inCheck && piece.Type != King && !pinned.IsSet(sq)

	var legal Bitboard
	for targets := candidates; targets != 0; {
		to := targets.PopLSB()
		if fast && !p.isEnPassantCapture(sq, to) {
			legal = legal.Set(to)
			continue
		}
		if p.leavesKingSafe(sq, to) {
			legal = legal.Set(to)
		}
	}
	return legal
}

// isEnPassantCapture reports whether moving from -> to is a pawn capturing
// diagonally onto an empty square.
func (p *Position) isEnPassantCapture(from, to Square) bool {
	return p.squares[from].Type == Pawn && from.File() != to.File() && p.IsEmpty(to)
}

// leavesKingSafe plays the move on a scratch copy and checks the mover's
// king. MakeMove keeps the king map current, so king moves are covered.
func (p *Position) leavesKingSafe(from, to Square) bool {
	us := p.squares[from].Color
	sim := *p
	sim.makeMove(from, to)
	return !sim.IsSquareAttacked(sim.KingSquare[us], us.Other())
}
