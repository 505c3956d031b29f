package board

// UndoInfo stores what Make changed, so Unmake can restore the position
// exactly without copying the board.
type UndoInfo struct {
	Moved      Piece  // Piece as it stood on the origin square
	Captured   Piece  // Captured piece, NoPiece if none
	CapturedAt Square // Where the captured piece stood (differs from To for en passant)
	RookFrom   Square // Castling rook origin, NoSquare if not castling
	RookTo     Square
	Rook       Piece
	KingSquare [2]Square // King positions before move
	ClearedEP  Bitboard  // Enemy pawns whose en passant flag the move cleared
	Promotion  Square    // Pending promotion before the move
}

// MakeMove moves the piece on from to to and applies every side effect of
// the move: en passant flagging and capture, castling rook transfer,
// has-moved flags and the king map. It reports whether a piece was
// captured and whether a pawn reached the last rank; in that case Promote
// must be called before the next legality query.
//
// The destination must be in the legal set of the origin; this is not
// checked. The side to move is left unchanged (see PassTurn).
func (p *Position) MakeMove(from, to Square) (captured, promotionPending bool) {
	undo := p.makeMove(from, to)
	return !undo.Captured.IsEmpty(), p.PromotionPending()
}

func (p *Position) makeMove(from, to Square) UndoInfo {
	piece := p.squares[from]
	us := piece.Color
	them := us.Other()

	undo := UndoInfo{
		Moved:      piece,
		Captured:   p.squares[to],
		CapturedAt: to,
		RookFrom:   NoSquare,
		RookTo:     NoSquare,
		Rook:       NoPiece,
		KingSquare: p.KingSquare,
		Promotion:  p.promotion,
	}

	switch piece.Type {
	case Pawn:
		if p.isEnPassantCapture(from, to) {
			// The victim sits beside the origin, one rank behind the destination.
			victim := NewSquare(to.File(), from.Rank())
			undo.Captured = p.squares[victim]
			undo.CapturedAt = victim
			p.squares[victim] = NoPiece
		}
		piece = piece.WithEnPassant(abs(to.Rank()-from.Rank()) == 2)
		if to.RelativeRank(us) == 7 {
			p.promotion = to
		}

	case Rook:
		piece = piece.WithMoved()

	case King:
		if !piece.HasMoved() && abs(to.File()-from.File()) == 2 {
			rank := from.Rank()
			if to.File() > from.File() {
				undo.RookFrom, undo.RookTo = NewSquare(7, rank), NewSquare(5, rank)
			} else {
				undo.RookFrom, undo.RookTo = NewSquare(0, rank), NewSquare(3, rank)
			}
			undo.Rook = p.squares[undo.RookFrom]
			p.squares[undo.RookFrom] = NoPiece
			p.squares[undo.RookTo] = undo.Rook.WithMoved()
		}
		piece = piece.WithMoved()
	}

	p.squares[from] = NoPiece
	p.setPiece(piece, to)

	// The opponent's double step has had its one reply.
	epRank := 3
	if them == Black {
		epRank = 4
	}
	for file := 0; file < 8; file++ {
		sq := NewSquare(file, epRank)
		if pawn := p.squares[sq]; pawn.Color == them && pawn.EnPassant() {
			p.squares[sq] = pawn.WithEnPassant(false)
			undo.ClearedEP = undo.ClearedEP.Set(sq)
		}
	}

	return undo
}

// Make plays m for the side to move, promotes if needed, and passes the
// turn. The move must be legal. Use Unmake with the returned info to take
// it back.
func (p *Position) Make(m Move) UndoInfo {
	undo := p.makeMove(m.From, m.To)
	if p.PromotionPending() {
		promo := m.Promotion
		if !promo.CanPromoteTo() {
			promo = Queen
		}
		pawn := p.squares[m.To]
		p.squares[m.To] = Piece{Type: promo, Color: pawn.Color}.WithMoved()
		p.promotion = NoSquare
	}
	p.PassTurn()
	return undo
}

// Unmake undoes a move made with Make.
func (p *Position) Unmake(m Move, undo UndoInfo) {
	p.PassTurn()

	p.squares[m.To] = NoPiece
	p.squares[m.From] = undo.Moved
	if !undo.Captured.IsEmpty() {
		p.squares[undo.CapturedAt] = undo.Captured
	}
	if undo.RookFrom != NoSquare {
		p.squares[undo.RookTo] = NoPiece
		p.squares[undo.RookFrom] = undo.Rook
	}
	for cleared := undo.ClearedEP; cleared != 0; {
		sq := cleared.PopLSB()
		p.squares[sq] = p.squares[sq].WithEnPassant(true)
	}

	p.KingSquare = undo.KingSquare
	p.promotion = undo.Promotion
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
