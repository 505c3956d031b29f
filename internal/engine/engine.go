package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hailam/chessduel/internal/board"
)

// ErrSearchAborted is returned when a search is cancelled or stopped before
// it produced a result.
var ErrSearchAborted = errors.New("search aborted")

// mateThreshold separates mate scores from ordinary evaluations.
const mateThreshold = MateScore / 2

// SearchInfo contains information about a completed search iteration.
type SearchInfo struct {
	Depth int
	Score int
	Nodes uint64
	Time  time.Duration
	PV    []board.Move
}

// Limits specifies constraints on the search.
type Limits struct {
	Depth    int           // Maximum depth (0 = engine default)
	MoveTime time.Duration // Time for this move (0 = search the full depth)
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

// DifficultyDepth maps difficulty to search depth.
var DifficultyDepth = map[Difficulty]int{
	Easy:   2,
	Medium: 3,
	Hard:   4,
}

// String returns the difficulty name.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	}
	return fmt.Sprintf("Difficulty(%d)", int(d))
}

// ParseDifficulty parses "easy", "medium" or "hard", ignoring case.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return Medium, fmt.Errorf("unknown difficulty %q", s)
}

// Engine is the chess AI engine.
type Engine struct {
	difficulty Difficulty
	depth      int // Overrides the difficulty depth when > 0
	stopFlag   atomic.Bool

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates a new chess engine at Medium difficulty.
func NewEngine() *Engine {
	return &Engine{difficulty: Medium}
}

// SetDifficulty sets the engine difficulty.
func (e *Engine) SetDifficulty(d Difficulty) {
	e.difficulty = d
}

// Difficulty returns the engine difficulty.
func (e *Engine) Difficulty() Difficulty {
	return e.difficulty
}

// SetDepth fixes the search depth regardless of difficulty. Zero restores
// the difficulty default.
func (e *Engine) SetDepth(depth int) {
	if depth < 0 {
		depth = 0
	}
	e.depth = min(depth, MaxDepth)
}

// Depth returns the depth a search without limits goes to.
func (e *Engine) Depth() int {
	if e.depth > 0 {
		return e.depth
	}
	return DifficultyDepth[e.difficulty]
}

// Search finds the best move at the depth of the current difficulty.
func (e *Engine) Search(ctx context.Context, pos *board.Position) (Result, error) {
	return e.SearchWithLimits(ctx, pos, Limits{})
}

// SearchWithLimits finds the best move with specific search limits.
//
// Without a move time the search runs to the full depth, and the result is
// exactly that of a fixed-depth search. With a move time it deepens one
// ply at a time and returns the deepest iteration that completed in time.
// A search that is cancelled, stopped or out of time before any iteration
// completes returns ErrSearchAborted.
func (e *Engine) SearchWithLimits(ctx context.Context, pos *board.Position, limits Limits) (Result, error) {
	e.stopFlag.Store(false)
	startTime := time.Now()

	maxDepth := limits.Depth
	if maxDepth <= 0 {
		maxDepth = e.Depth()
	}
	if maxDepth > MaxDepth {
		maxDepth = MaxDepth
	}

	if limits.MoveTime <= 0 {
		res, err := newSearcher(maxDepth, &e.stopFlag).BestMove(ctx, pos)
		if err != nil {
			return Result{}, err
		}
		e.report(res, startTime)
		return res, nil
	}

	ctx, cancel := context.WithTimeout(ctx, limits.MoveTime)
	defer cancel()

	var best Result
	completed := false

	// Iterative deepening
	for depth := 1; depth <= maxDepth; depth++ {
		res, err := newSearcher(depth, &e.stopFlag).BestMove(ctx, pos)
		if errors.Is(err, ErrSearchAborted) {
			break
		}
		if err != nil {
			return Result{}, err
		}
		best, completed = res, true
		e.report(res, startTime)

		// Terminal root or forced mate: deeper searches change nothing.
		if len(res.PV) == 0 || IsMateScore(res.Score) {
			break
		}

		// If we've used more than half the time, don't start another iteration
		elapsed := time.Since(startTime)
		if limits.MoveTime-elapsed < elapsed {
			break
		}
	}

	if !completed {
		return Result{}, ErrSearchAborted
	}
	return best, nil
}

func (e *Engine) report(res Result, startTime time.Time) {
	if e.OnInfo == nil {
		return
	}
	e.OnInfo(SearchInfo{
		Depth: res.Depth,
		Score: res.Score,
		Nodes: res.TotalNodes(),
		Time:  time.Since(startTime),
		PV:    res.PV,
	})
}

// Stop stops the current search.
func (e *Engine) Stop() {
	e.stopFlag.Store(true)
}

// Perft counts the leaf nodes of the legal move tree (for debugging move
// generation). Each promotion kind counts as a separate move.
func (e *Engine) Perft(pos *board.Position, depth int) (uint64, error) {
	if depth == 0 {
		return 1, nil
	}
	work := pos.Copy()
	var nodes uint64
	var walkErr error
	err := work.ForEachLegalMove(func(from, to board.Square) bool {
		m := board.NewMove(work, from, to)
		kinds := noPromotion
		if m.Piece == board.Pawn && to.RelativeRank(work.SideToMove) == 7 {
			kinds = board.PromotionTypes[:]
		}
		for _, pt := range kinds {
			m = m.WithPromotion(pt)
			undo := work.Make(m)
			n, err := e.Perft(work, depth-1)
			work.Unmake(m, undo)
			if err != nil {
				walkErr = err
				return false
			}
			nodes += n
		}
		return true
	})
	if err != nil {
		return 0, err
	}
	return nodes, walkErr
}

// Evaluate returns the static evaluation of a position.
func (e *Engine) Evaluate(pos *board.Position) int {
	return Evaluate(pos)
}

// IsMateScore reports whether score comes from a checkmate in the tree.
func IsMateScore(score int) bool {
	return score >= mateThreshold || score <= -mateThreshold
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	if score >= mateThreshold {
		return "Mating"
	}
	if score <= -mateThreshold {
		return "Mated"
	}

	// Convert centipawns to pawns
	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	return fmt.Sprintf("%s%d.%02d", sign, score/100, score%100)
}
