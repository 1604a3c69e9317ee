// Package clock provides the single-threaded scheduler the ritual runs on.
//
// Every mutation of session state and every timer callback executes on one
// goroutine. A Timer that has been stopped never runs its callback, even when
// the underlying runtime timer already fired and the callback is queued.
package clock

import (
	"context"
	"time"
)

// Scheduler arms delayed callbacks. Callbacks run on the scheduler's own
// execution context, never concurrently with each other.
type Scheduler interface {
	Now() time.Time
	After(d time.Duration, fn func()) Timer
}

// Timer is a handle to a pending callback.
type Timer interface {
	// Stop cancels the callback. It reports whether the call prevented the
	// callback from running.
	Stop() bool
}

// Executor runs fn on the scheduler's execution context and waits for it.
type Executor interface {
	Do(ctx context.Context, fn func()) error
}

// Stop stops t if it is non-nil. Drivers keep nil handles for idle timers.
func Stop(t Timer) {
	if t != nil {
		t.Stop()
	}
}
