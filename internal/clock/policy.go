package clock

import (
	"fmt"
	"strings"
	"time"
)

// Policy decides how a player's remaining time changes around a turn.
type Policy interface {
	// TurnStarted returns the remaining time once the turn has begun.
	TurnStarted(remaining time.Duration) time.Duration
	// TurnEnded returns the remaining time after a turn that used used.
	TurnEnded(remaining, used time.Duration) time.Duration
	// Refunds reports whether time flows back while the clock is stopped.
	Refunds() bool
	String() string
}

// SuddenDeath has no increment.
type SuddenDeath struct{}

func (SuddenDeath) TurnStarted(r time.Duration) time.Duration  { return r }
func (SuddenDeath) TurnEnded(r, _ time.Duration) time.Duration { return r }
func (SuddenDeath) Refunds() bool                              { return false }
func (SuddenDeath) String() string                             { return "sudden death" }

// Fischer adds the increment after every move.
type Fischer struct {
	Increment time.Duration
}

func (f Fischer) TurnStarted(r time.Duration) time.Duration  { return r }
func (f Fischer) TurnEnded(r, _ time.Duration) time.Duration { return r + f.Increment }
func (f Fischer) Refunds() bool                              { return false }
func (f Fischer) String() string                             { return "fischer +" + f.Increment.String() }

// Bronstein adds the increment after every move, but never more than the
// time the move took.
type Bronstein struct {
	Increment time.Duration
}

func (b Bronstein) TurnStarted(r time.Duration) time.Duration { return r }

func (b Bronstein) TurnEnded(r, used time.Duration) time.Duration {
	if used < b.Increment {
		return r + used
	}
	return r + b.Increment
}

func (b Bronstein) Refunds() bool  { return false }
func (b Bronstein) String() string { return "bronstein +" + b.Increment.String() }

// Delay adds the increment before every move.
type Delay struct {
	Increment time.Duration
}

func (d Delay) TurnStarted(r time.Duration) time.Duration  { return r + d.Increment }
func (d Delay) TurnEnded(r, _ time.Duration) time.Duration { return r }
func (d Delay) Refunds() bool                              { return false }
func (d Delay) String() string                             { return "delay +" + d.Increment.String() }

// HourGlass has no increment; the time one player spends flows to the
// other, so a stopped clock gains time while the opponent thinks.
type HourGlass struct{}

func (HourGlass) TurnStarted(r time.Duration) time.Duration  { return r }
func (HourGlass) TurnEnded(r, _ time.Duration) time.Duration { return r }
func (HourGlass) Refunds() bool                              { return true }
func (HourGlass) String() string                             { return "hourglass" }

// ParsePolicy returns the policy called name with the given increment.
// Names: "none", "fischer", "bronstein", "delay", "hourglass".
func ParsePolicy(name string, increment time.Duration) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "sudden-death", "":
		return SuddenDeath{}, nil
	case "fischer":
		return Fischer{Increment: increment}, nil
	case "bronstein":
		return Bronstein{Increment: increment}, nil
	case "delay":
		return Delay{Increment: increment}, nil
	case "hourglass":
		return HourGlass{}, nil
	}
	return nil, fmt.Errorf("unknown clock policy %q", name)
}
