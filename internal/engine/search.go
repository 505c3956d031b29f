package engine

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/hailam/chessduel/internal/board"
)

// Search constants
const (
	MinScore  = -32768 // Initial alpha
	MaxScore  = 32767  // Initial beta
	MateScore = 20000  // Subtracted from the static score of a mated side
	MaxDepth  = 12

	abortCheckInterval = 1024 // Nodes between cancellation checks
)

var noPromotion = []board.PieceType{board.NoPieceType}

// Result is the outcome of one fixed-depth search.
type Result struct {
	Score int          // From the point of view of the side to move
	PV    []board.Move // Principal variation, root move first
	Depth int
	Nodes []uint64 // Nodes[d] counts the nodes visited d plies below the root
}

// Move returns the root move of the principal variation, or NoMove when
// the root was terminal.
func (r Result) Move() board.Move {
	if len(r.PV) == 0 {
		return board.NoMove
	}
	return r.PV[0]
}

// TotalNodes returns the number of nodes visited at every depth.
func (r Result) TotalNodes() uint64 {
	var n uint64
	for _, c := range r.Nodes {
		n += c
	}
	return n
}

// Searcher performs a negamax search with alpha-beta pruning to a fixed
// depth, trying killer moves before the rest.
//
// The search plays moves on a private copy of the root position, so the
// caller's position is never modified. A Searcher is not safe for
// concurrent use.
type Searcher struct {
	maxDepth int
	killers  *KillerTable
	nodes    []uint64
	visited  uint64

	ctx      context.Context
	stopFlag *atomic.Bool
	aborted  bool
}

// NewSearcher creates a searcher for the given maximum depth.
func NewSearcher(maxDepth int) *Searcher {
	return newSearcher(maxDepth, new(atomic.Bool))
}

func newSearcher(maxDepth int, stop *atomic.Bool) *Searcher {
	if maxDepth < 1 {
		maxDepth = 1
	}
	return &Searcher{
		maxDepth: maxDepth,
		killers:  NewKillerTable(maxDepth),
		nodes:    make([]uint64, maxDepth+1),
		stopFlag: stop,
	}
}

// Depth returns the configured maximum depth.
func (s *Searcher) Depth() int {
	return s.maxDepth
}

// Stop signals a running search to stop.
func (s *Searcher) Stop() {
	s.stopFlag.Store(true)
}

// Reset clears a previous Stop.
func (s *Searcher) Reset() {
	s.stopFlag.Store(false)
}

// BestMove searches pos to the configured depth and returns the score and
// principal variation. The killer table starts empty on every call.
//
// It returns ErrSearchAborted if ctx is cancelled or Stop is called before
// the search completes (see Reset), and board.ErrPromotionPending for a
// position with an unresolved promotion.
func (s *Searcher) BestMove(ctx context.Context, pos *board.Position) (Result, error) {
	if pos.PromotionPending() {
		return Result{}, board.ErrPromotionPending
	}
	if ctx.Err() != nil || s.stopFlag.Load() {
		return Result{}, ErrSearchAborted
	}

	s.ctx = ctx
	s.aborted = false
	s.visited = 0
	s.killers.Clear()
	for i := range s.nodes {
		s.nodes[i] = 0
	}

	work := pos.Copy()
	score, pv := s.negamax(work, 0, MinScore, MaxScore)
	if s.aborted {
		return Result{}, ErrSearchAborted
	}

	nodes := make([]uint64, len(s.nodes))
	copy(nodes, s.nodes)
	return Result{Score: score, PV: pv, Depth: s.maxDepth, Nodes: nodes}, nil
}

// node is the state of one negamax frame.
type node struct {
	depth       int
	alpha, beta int
	best        int
	pv          []board.Move
	tried       int
}

func (s *Searcher) negamax(pos *board.Position, depth, alpha, beta int) (int, []board.Move) {
	s.nodes[depth]++
	if s.shouldAbort() {
		return 0, nil
	}

	switch mustStatus(pos) {
	case board.Checkmate:
		return Evaluate(pos) - MateScore, nil
	case board.Stalemate:
		return 0, nil
	}
	if depth == s.maxDepth {
		return Evaluate(pos), nil
	}

	n := node{depth: depth, alpha: alpha, beta: beta, best: MinScore}

	// Killers first, each re-validated against the current legal set.
	var tried [killersTried][2]board.Square
	killers, k := s.killers.Best(depth)
	for i := 0; i < k; i++ {
		from, to := killers[i][0], killers[i][1]
		if !isLegal(pos, from, to) {
			continue
		}
		tried[i] = killers[i]
		if s.try(pos, &n, from, to) {
			if s.aborted {
				return 0, nil
			}
			return n.best, n.pv
		}
		s.killers.Penalize(depth, from, to)
	}

	cutoff := false
	err := pos.ForEachLegalMove(func(from, to board.Square) bool {
		for i := 0; i < k; i++ {
			if tried[i] == [2]board.Square{from, to} {
				return true
			}
		}
		if s.try(pos, &n, from, to) {
			cutoff = true
			return false
		}
		return true
	})
	if err != nil {
		panic(fmt.Sprintf("engine: search: %v", err))
	}

	if s.aborted {
		return 0, nil
	}
	if cutoff {
		return n.best, n.pv
	}
	if n.tried == 0 {
		panic(fmt.Sprintf("engine: search: no move to try in non-terminal position %s", pos.ToFEN()))
	}
	return n.best, n.pv
}

// try plays from-to for every promotion kind it allows, recursing one
// level deeper. It reports whether the node should stop: on a beta cutoff,
// which is recorded in the killer table, or when the search was aborted.
func (s *Searcher) try(pos *board.Position, n *node, from, to board.Square) bool {
	m := board.NewMove(pos, from, to)
	kinds := noPromotion
	if m.Piece == board.Pawn && to.RelativeRank(pos.SideToMove) == 7 {
		kinds = board.PromotionTypes[:]
	}

	for _, pt := range kinds {
		m = m.WithPromotion(pt)
		n.tried++

		undo := pos.Make(m)
		score, childPV := s.negamax(pos, n.depth+1, -n.beta, -n.alpha)
		pos.Unmake(m, undo)
		if s.aborted {
			return true
		}
		score = -score

		if score > n.best {
			n.best = score
			n.pv = append([]board.Move{m}, childPV...)
		}
		if score > n.alpha {
			n.alpha = score
		}
		if n.alpha >= n.beta {
			s.killers.Reward(n.depth, from, to)
			return true
		}
	}
	return false
}

// shouldAbort polls the context and the stop flag every few nodes.
func (s *Searcher) shouldAbort() bool {
	if s.aborted {
		return true
	}
	s.visited++
	if s.visited%abortCheckInterval != 0 {
		return false
	}
	if s.stopFlag.Load() || s.ctx.Err() != nil {
		s.aborted = true
	}
	return s.aborted
}

func isLegal(pos *board.Position, from, to board.Square) bool {
	piece := pos.PieceAt(from)
	if piece.IsEmpty() || piece.Color != pos.SideToMove {
		return false
	}
	legal, err := pos.LegalMovesFor(from)
	return err == nil && legal.IsSet(to)
}

func mustStatus(pos *board.Position) board.Status {
	status, err := pos.Status()
	if err != nil {
		panic(fmt.Sprintf("engine: search: %v", err))
	}
	return status
}
