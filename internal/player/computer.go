package player

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hailam/chessduel/internal/board"
	"github.com/hailam/chessduel/internal/clock"
	"github.com/hailam/chessduel/internal/engine"
)

// Computer is a player that picks its moves with the search engine.
type Computer struct {
	name   string
	color  board.Color
	engine *engine.Engine
	clock  clock.Clock

	// Budgeted limits each search to a share of the remaining clock time,
	// deepening iteratively within it. Off, every search runs to the full
	// depth of the engine's difficulty.
	Budgeted bool
	// Increment is the clock's per-move bonus, used for budgeting.
	Increment time.Duration

	moves int
}

// NewComputer creates a computer player. A nil clock means unlimited time.
func NewComputer(name string, c board.Color, eng *engine.Engine, clk clock.Clock) *Computer {
	if clk == nil {
		clk = clock.Unlimited{}
	}
	return &Computer{name: name, color: c, engine: eng, clock: clk}
}

func (c *Computer) Color() board.Color { return c.color }
func (c *Computer) Name() string       { return c.name }

// Play searches a copy of pos and makes the first move of the principal
// variation on pos, promoting to the kind the search chose.
func (c *Computer) Play(ctx context.Context, pos *board.Position) (board.Move, error) {
	c.clock.Start()
	defer c.clock.Stop()

	limits := c.limits()
	log.Printf("[AI] %s thinking (side %v, depth %d, budget %v)",
		c.name, pos.SideToMove, c.engine.Depth(), limits.MoveTime)

	res, err := c.engine.SearchWithLimits(ctx, pos, limits)
	if err != nil {
		return board.NoMove, fmt.Errorf("%s: %w", c.name, err)
	}
	m := res.Move()
	if m.IsNull() {
		return board.NoMove, fmt.Errorf("%s: no move in a finished game", c.name)
	}

	if _, pending := pos.MakeMove(m.From, m.To); pending {
		if err := pos.Promote(m.Promotion); err != nil {
			return board.NoMove, err
		}
	}
	c.moves++
	log.Printf("[AI] %s plays %s (score %s, depth %d, nodes %d)",
		c.name, m, engine.ScoreToString(res.Score), res.Depth, res.TotalNodes())
	return m, nil
}

func (c *Computer) limits() engine.Limits {
	if !c.Budgeted {
		return engine.Limits{}
	}
	if _, unlimited := c.clock.(clock.Unlimited); unlimited {
		return engine.Limits{}
	}
	ply := 2*c.moves + int(c.color)
	return engine.Limits{MoveTime: engine.TimeForMove(c.clock.Remaining(), c.Increment, 0, ply)}
}
