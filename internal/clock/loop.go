package clock

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/randomtoy/oura/internal/domain"
)

// Loop is a cooperative event loop. Posted closures and timer callbacks run
// one at a time, in arrival order, on the goroutine that called Run.
type Loop struct {
	tasks  chan func()
	done   chan struct{}
	once   sync.Once
	logger *slog.Logger
}

// NewLoop creates a loop whose queue holds up to buffer pending closures.
func NewLoop(buffer int, logger *slog.Logger) *Loop {
	if buffer < 1 {
		buffer = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		tasks:  make(chan func(), buffer),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Run executes queued closures until ctx is cancelled. It returns nil on a
// clean shutdown.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })
	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-l.tasks:
			l.run(fn)
		}
	}
}

func (l *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("event loop task panicked", "panic", r)
		}
	}()
	fn()
}

// Post enqueues fn. It reports false once the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Do runs fn on the loop and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return domain.ErrLoopStopped
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return domain.ErrLoopStopped
	}
}

func (l *Loop) Now() time.Time {
	return time.Now()
}

// After arms fn to run on the loop once d has elapsed.
func (l *Loop) After(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.rt = time.AfterFunc(d, func() {
		l.Post(func() {
			// Re-checked on the loop: a Stop issued after the runtime timer
			// fired but before this closure ran still wins.
			if !t.fired.CompareAndSwap(false, true) {
				return
			}
			fn()
		})
	})
	return t
}

type loopTimer struct {
	rt *time.Timer
	// fired is set either when the callback runs or when Stop claims it.
	fired atomic.Bool
}

func (t *loopTimer) Stop() bool {
	t.rt.Stop()
	return t.fired.CompareAndSwap(false, true)
}
