package board

import "errors"

// Sentinel errors returned by the rules engine.
var (
	// ErrPromotionPending is returned by legality queries on a position
	// whose last move reached the final rank and has not been promoted yet.
	ErrPromotionPending = errors.New("promotion pending")

	// ErrInvalidFEN indicates a malformed FEN string.
	ErrInvalidFEN = errors.New("invalid FEN string")

	// ErrIllegalMove indicates a move that is not in the legal move set.
	ErrIllegalMove = errors.New("illegal move")

	// ErrInvalidPromotion indicates a promotion kind other than N, B, R or Q,
	// or a promotion request with no pawn waiting for one.
	ErrInvalidPromotion = errors.New("invalid promotion")
)
