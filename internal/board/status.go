package board

// Status is the terminal classification of a position.
type Status int

const (
	Ongoing Status = iota
	Checkmate
	Stalemate
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Checkmate:
		return "Checkmate"
	case Stalemate:
		return "Stalemate"
	default:
		return "Ongoing"
	}
}

// InCheck returns true if the king of the side to move is attacked.
func (p *Position) InCheck() bool {
	us := p.SideToMove
	ksq := p.KingSquare[us]
	if ksq == NoSquare {
		return false
	}
	return p.IsSquareAttacked(ksq, us.Other())
}

// Status classifies the position for the side to move: Checkmate when in
// check with no legal move, Stalemate when not in check with no legal move,
// Ongoing otherwise.
func (p *Position) Status() (Status, error) {
	if p.PromotionPending() {
		return Ongoing, ErrPromotionPending
	}
	return p.status(), nil
}

func (p *Position) status() Status {
	if p.HasLegalMoves() {
		return Ongoing
	}
	if p.InCheck() {
		return Checkmate
	}
	return Stalemate
}

// IsCheckmate returns true if the position is checkmate.
func (p *Position) IsCheckmate() bool {
	return !p.PromotionPending() && p.status() == Checkmate
}

// IsStalemate returns true if the position is stalemate.
func (p *Position) IsStalemate() bool {
	return !p.PromotionPending() && p.status() == Stalemate
}
