// Package clock implements per-player game clocks with pluggable increment
// policies.
package clock

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Clock is a player's countdown. Start and Stop bracket the player's turn.
type Clock interface {
	// Ready arms the clock and starts watching for warnings and flag fall
	// until ctx is done. The clock stays stopped until Start.
	Ready(ctx context.Context)
	Start()
	Stop()
	Remaining() time.Duration
	Expired() bool
	// Flagged is closed when the clock runs out.
	Flagged() <-chan struct{}
}

// Defaults
const (
	DefaultWarningLimit = 30 * time.Second
	DefaultTick         = 10 * time.Millisecond
)

// Timer is a Clock whose remaining time is computed from timestamps when
// asked, so no goroutine mutates it in the background. The monitor started
// by Ready only reads it to fire callbacks.
type Timer struct {
	mu sync.Mutex

	policy    Policy
	remaining time.Duration // As of mark
	mark      time.Time
	turnStart time.Duration // Remaining when the current turn began
	running   bool
	readied   bool
	expired   bool
	warned    bool // Warning fired this turn
	flagged   chan struct{}

	// WarningLimit is the remaining time under which OnWarning fires, once
	// per turn.
	WarningLimit time.Duration
	// Tick is the monitor's polling period.
	Tick time.Duration

	// Callbacks, run on the monitor goroutine.
	OnWarning func(remaining time.Duration)
	OnExpire  func()

	now func() time.Time
}

// NewTimer creates a stopped clock with base time on it.
func NewTimer(base time.Duration, policy Policy) *Timer {
	if policy == nil {
		policy = SuddenDeath{}
	}
	return &Timer{
		policy:       policy,
		remaining:    base,
		flagged:      make(chan struct{}),
		WarningLimit: DefaultWarningLimit,
		Tick:         DefaultTick,
		now:          time.Now,
	}
}

// Policy returns the increment policy.
func (t *Timer) Policy() Policy {
	return t.policy
}

// Ready arms the clock and starts the monitor goroutine.
func (t *Timer) Ready(ctx context.Context) {
	t.mu.Lock()
	t.settle()
	t.readied = true
	t.mark = t.now()
	tick := t.Tick
	t.mu.Unlock()

	if tick <= 0 {
		tick = DefaultTick
	}
	ticker := time.NewTicker(tick)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if done := t.check(); done {
					return
				}
			}
		}
	}()
}

// check fires the callbacks that are due and reports whether the clock
// has run out.
func (t *Timer) check() bool {
	t.mu.Lock()
	rem := t.current()
	wasExpired := t.expired
	t.updateExpired(rem)
	justExpired := t.expired && !wasExpired

	warn := false
	if t.running && !t.warned && rem <= t.WarningLimit && !t.expired {
		t.warned = true
		warn = true
	}
	onWarning, onExpire := t.OnWarning, t.OnExpire
	expired := t.expired
	t.mu.Unlock()

	if warn && onWarning != nil {
		onWarning(rem)
	}
	if justExpired && onExpire != nil {
		onExpire()
	}
	return expired
}

// Start begins the owner's turn.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running || t.expired {
		return
	}
	t.settle()
	t.remaining = t.policy.TurnStarted(t.remaining)
	t.turnStart = t.remaining
	t.running = true
	t.warned = false
}

// Stop ends the owner's turn and applies the increment.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	t.settle()
	t.running = false
	if t.expired {
		return
	}
	used := t.turnStart - t.remaining
	t.remaining = t.policy.TurnEnded(t.remaining, used)
}

// Remaining returns the time left on the clock.
func (t *Timer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	rem := t.current()
	t.updateExpired(rem)
	return rem
}

// Expired returns true once the clock has run out.
func (t *Timer) Expired() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.updateExpired(t.current())
	return t.expired
}

// Flagged is closed when the clock runs out.
func (t *Timer) Flagged() <-chan struct{} {
	return t.flagged
}

// String formats the remaining time as mm:ss, or hh:mm:ss from an hour up.
func (t *Timer) String() string {
	return Format(t.Remaining())
}

// current computes the remaining time at this instant. Caller holds mu.
func (t *Timer) current() time.Duration {
	if t.expired {
		return 0
	}
	rem := t.remaining
	if t.readied {
		elapsed := t.now().Sub(t.mark)
		switch {
		case t.running:
			rem -= elapsed
		case t.policy.Refunds():
			rem += elapsed
		}
	}
	if rem < 0 {
		rem = 0
	}
	return rem
}

// settle folds the time elapsed since mark into remaining. Caller holds mu.
func (t *Timer) settle() {
	rem := t.current()
	t.updateExpired(rem)
	t.remaining = rem
	t.mark = t.now()
}

func (t *Timer) updateExpired(rem time.Duration) {
	if t.expired || !t.readied || rem > 0 {
		return
	}
	t.expired = true
	t.running = false
	close(t.flagged)
}

// Format renders d as mm:ss, or hh:mm:ss from an hour up.
func Format(d time.Duration) string {
	s := int(d / time.Second)
	if s < 3600 {
		return fmt.Sprintf("%02d:%02d", s/60, s%60)
	}
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, s%3600/60, s%60)
}

// Unlimited is a Clock that never runs out.
type Unlimited struct{}

var never = make(chan struct{})

func (Unlimited) Ready(context.Context)    {}
func (Unlimited) Start()                   {}
func (Unlimited) Stop()                    {}
func (Unlimited) Remaining() time.Duration { return 0 }
func (Unlimited) Expired() bool            { return false }
func (Unlimited) Flagged() <-chan struct{} { return never }
