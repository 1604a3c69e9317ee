package ritual_test

import (
	"testing"
	"time"

	"github.com/randomtoy/oura/internal/clock"
	"github.com/randomtoy/oura/internal/ritual"
)

// fixedRNG always returns the lowest value, so release intervals are MinInterval.
type fixedRNG struct{ f float64 }

func (r fixedRNG) Intn(int) int     { return 0 }
func (r fixedRNG) Float64() float64 { return r.f }

type pulseRecorder struct{ pulses []ritual.Pulse }

func (p *pulseRecorder) record(pl ritual.Pulse) { p.pulses = append(p.pulses, pl) }

func (p *pulseRecorder) count(kind ritual.PulseKind) int {
	n := 0
	for _, pl := range p.pulses {
		if pl.Kind == kind {
			n++
		}
	}
	return n
}

func newManual() *clock.Manual { return clock.NewManual(time.Unix(1700000000, 0)) }

func TestBreathing_CompletesAtTotalDuration(t *testing.T) {
	m := newManual()
	rec := &pulseRecorder{}
	b := ritual.NewBreathing(m, ritual.DefaultBreathingConfig(), rec.record)

	completions := 0
	b.Start(func() { completions++ })

	m.Advance(36*time.Second - time.Nanosecond)
	if completions != 0 {
		t.Fatalf("completed before 36s")
	}
	st := b.State()
	if !st.Running || st.Cycle != 3 || st.Phase != ritual.BreathExhale {
		t.Errorf("unexpected state before completion: %+v", st)
	}

	m.Advance(time.Nanosecond)
	if completions != 1 {
		t.Fatalf("expected 1 completion at 36s, got %d", completions)
	}
	if m.Pending() != 0 {
		t.Errorf("expected no pending timers, got %d", m.Pending())
	}

	m.Advance(time.Minute)
	if completions != 1 {
		t.Errorf("completion fired more than once: %d", completions)
	}

	// three cycles of inhale, hold, exhale
	if got := rec.count(ritual.PulseBreathPhase); got != 9 {
		t.Errorf("expected 9 phase pulses, got %d", got)
	}
	if got := rec.count(ritual.PulseBreathComplete); got != 1 {
		t.Errorf("expected 1 complete pulse, got %d", got)
	}
}

func TestBreathing_ProgressWithinSubPhase(t *testing.T) {
	m := newManual()
	b := ritual.NewBreathing(m, ritual.DefaultBreathingConfig(), nil)
	b.Start(nil)

	m.Advance(2 * time.Second)
	st := b.State()
	if st.Phase != ritual.BreathInhale {
		t.Fatalf("expected inhale, got %s", st.Phase)
	}
	if st.Progress < 0.49 || st.Progress > 0.51 {
		t.Errorf("expected progress ~0.5, got %f", st.Progress)
	}

	m.Advance(3 * time.Second)
	if st := b.State(); st.Phase != ritual.BreathHold {
		t.Errorf("expected hold at 5s, got %s", st.Phase)
	}
}

func TestBreathing_Skip(t *testing.T) {
	m := newManual()
	b := ritual.NewBreathing(m, ritual.DefaultBreathingConfig(), nil)

	completions := 0
	b.Skip()
	if completions != 0 {
		t.Fatal("skip before start must not complete")
	}

	b.Start(func() { completions++ })
	m.Advance(5 * time.Second)
	b.Skip()
	b.Skip()
	if completions != 1 {
		t.Fatalf("expected 1 completion, got %d", completions)
	}
	if st := b.State(); !st.Completed || st.Running || st.Progress != 1 {
		t.Errorf("unexpected state after skip: %+v", st)
	}
	if m.Pending() != 0 {
		t.Errorf("expected no pending timers, got %d", m.Pending())
	}
}

func TestBreathing_StopNeverCompletes(t *testing.T) {
	m := newManual()
	b := ritual.NewBreathing(m, ritual.DefaultBreathingConfig(), nil)

	completions := 0
	b.Start(func() { completions++ })
	m.Advance(10 * time.Second)
	b.Stop()

	if m.Pending() != 0 {
		t.Errorf("expected no pending timers after stop, got %d", m.Pending())
	}
	m.Advance(time.Minute)
	if completions != 0 {
		t.Errorf("stopped exercise completed")
	}
}

func TestBreathing_RestartDropsPreviousCompletion(t *testing.T) {
	m := newManual()
	b := ritual.NewBreathing(m, ritual.DefaultBreathingConfig(), nil)

	first, second := 0, 0
	b.Start(func() { first++ })
	m.Advance(20 * time.Second)
	b.Start(func() { second++ })
	m.Advance(36 * time.Second)

	if first != 0 || second != 1 {
		t.Errorf("expected first=0 second=1, got first=%d second=%d", first, second)
	}
}

func TestShuffle_TicksStopAndSweep(t *testing.T) {
	m := newManual()
	rec := &pulseRecorder{}
	cfg := ritual.DefaultShuffleConfig()
	s := ritual.NewShuffle(m, fixedRNG{f: 0.75}, cfg, rec.record)

	if len(s.State().Cards) != cfg.Pool {
		t.Fatalf("expected pool of %d, got %d", cfg.Pool, len(s.State().Cards))
	}

	completions := 0
	s.Start(func() { completions++ })
	m.Advance(3 * time.Second)
	if st := s.State(); st.Ticks != 3 || st.Stage != ritual.ShuffleRunning {
		t.Fatalf("expected 3 ticks while running, got %+v", st)
	}

	s.Stop()
	st := s.State()
	if st.Stage != ritual.ShuffleSettling {
		t.Fatalf("expected settling, got %s", st.Stage)
	}
	for i, c := range st.Cards {
		if c.X != 0 || c.Y != 0 || c.Rotation != 0 {
			t.Fatalf("card %d not centered: %+v", i, c)
		}
	}

	m.Advance(cfg.SettleDelay)
	if s.Stage() != ritual.ShuffleSweeping {
		t.Fatalf("expected sweeping, got %s", s.Stage())
	}
	m.Advance(time.Duration(cfg.Pool-1) * cfg.Stagger)
	gone := 0
	for _, c := range s.State().Cards {
		if c.Gone {
			gone++
		}
	}
	if gone != cfg.Pool {
		t.Errorf("expected all %d cards swept, got %d", cfg.Pool, gone)
	}
	if completions != 0 {
		t.Fatal("completed before the sweep finished")
	}

	m.Advance(time.Second)
	if completions != 1 {
		t.Fatalf("expected 1 completion, got %d", completions)
	}
	st = s.State()
	if st.Stage != ritual.ShuffleFinished {
		t.Errorf("expected finished, got %s", st.Stage)
	}
	for _, c := range st.Cards {
		if c.Gone {
			t.Fatal("pool was not regenerated")
		}
	}
	if m.Pending() != 0 {
		t.Errorf("expected no pending timers, got %d", m.Pending())
	}
	if rec.count(ritual.PulseShuffleTick) != 3 || rec.count(ritual.PulseShuffleComplete) != 1 {
		t.Errorf("unexpected pulses: %+v", rec.pulses)
	}
}

func TestShuffle_CancelDuringSweep(t *testing.T) {
	m := newManual()
	s := ritual.NewShuffle(m, fixedRNG{f: 0.5}, ritual.DefaultShuffleConfig(), nil)

	completions := 0
	s.Start(func() { completions++ })
	m.Advance(time.Second)
	s.Stop()
	m.Advance(1300 * time.Millisecond)
	s.Cancel()

	if m.Pending() != 0 {
		t.Errorf("expected no pending timers after cancel, got %d", m.Pending())
	}
	m.Advance(time.Minute)
	if completions != 0 {
		t.Errorf("cancelled shuffle completed")
	}
	if s.Stage() != ritual.ShuffleIdle {
		t.Errorf("expected idle, got %s", s.Stage())
	}
}

func TestShuffle_StopBeforeStartIsIgnored(t *testing.T) {
	m := newManual()
	s := ritual.NewShuffle(m, fixedRNG{}, ritual.DefaultShuffleConfig(), nil)
	s.Stop()
	if s.Stage() != ritual.ShuffleIdle || m.Pending() != 0 {
		t.Errorf("stop on idle shuffle changed state: %s, pending %d", s.Stage(), m.Pending())
	}
}

func TestShuffle_SetBoundsKeepsMinimum(t *testing.T) {
	m := newManual()
	s := ritual.NewShuffle(m, fixedRNG{}, ritual.DefaultShuffleConfig(), nil)

	s.SetBounds(100, 100)
	if cfg := s.Config(); cfg.Width != 350 || cfg.Height != 250 {
		t.Errorf("expected minimum bounds, got %vx%v", cfg.Width, cfg.Height)
	}
	s.SetBounds(1000, 1000)
	if cfg := s.Config(); cfg.Width != 850 || cfg.Height != 650 {
		t.Errorf("expected scaled bounds, got %vx%v", cfg.Width, cfg.Height)
	}
}

func TestConnection_EarlyReleaseResets(t *testing.T) {
	m := newManual()
	rec := &pulseRecorder{}
	cfg := ritual.DefaultConnectionConfig()
	c := ritual.NewConnection(m, fixedRNG{f: 0}, cfg, rec.record)

	completions := 0
	c.Start(func() { completions++ })
	c.Press()
	m.Advance(cfg.HoldDelay + 10*cfg.MinInterval)

	if st := c.State(); st.Released != 10 || !st.Connecting {
		t.Fatalf("expected 10 released while connecting, got %+v", st)
	}

	c.Release()
	if st := c.State(); st.Released != 0 || st.Connecting || st.Progress != 0 {
		t.Errorf("expected progress reset, got %+v", st)
	}
	if m.Pending() != 0 {
		t.Errorf("expected no pending timers, got %d", m.Pending())
	}
	m.Advance(time.Minute)
	if completions != 0 {
		t.Errorf("aborted connection completed")
	}
	if rec.count(ritual.PulseConnectionAbort) != 1 {
		t.Errorf("expected one abort pulse, got %d", rec.count(ritual.PulseConnectionAbort))
	}
}

func TestConnection_TapBeforeHoldDelay(t *testing.T) {
	m := newManual()
	rec := &pulseRecorder{}
	c := ritual.NewConnection(m, fixedRNG{}, ritual.DefaultConnectionConfig(), rec.record)
	c.Start(func() { t.Fatal("unexpected completion") })

	c.Press()
	m.Advance(100 * time.Millisecond)
	c.Release()
	m.Advance(time.Minute)

	if len(rec.pulses) != 0 {
		t.Errorf("a short tap must not emit pulses, got %+v", rec.pulses)
	}
}

func TestConnection_FullHoldCompletesOnce(t *testing.T) {
	m := newManual()
	rec := &pulseRecorder{}
	cfg := ritual.DefaultConnectionConfig()
	c := ritual.NewConnection(m, fixedRNG{f: 1}, cfg, rec.record)

	completions := 0
	c.Start(func() { completions++ })
	c.Press()
	m.Advance(cfg.HoldDelay + time.Duration(cfg.Pool)*cfg.MaxInterval)

	if st := c.State(); st.Released != cfg.Pool {
		t.Fatalf("expected all %d released, got %d", cfg.Pool, st.Released)
	}
	if completions != 0 {
		t.Fatal("completed before the completion delay")
	}

	// letting go once every card is out keeps the result
	c.Release()
	m.Advance(cfg.CompleteDelay)
	if completions != 1 {
		t.Fatalf("expected 1 completion, got %d", completions)
	}
	if st := c.State(); !st.Completed || st.Released != cfg.Pool {
		t.Errorf("unexpected final state: %+v", st)
	}

	c.Press()
	m.Advance(time.Minute)
	if completions != 1 {
		t.Errorf("completion fired again: %d", completions)
	}
	if got := rec.count(ritual.PulseCardRelease); got != cfg.Pool {
		t.Errorf("expected %d release pulses, got %d", cfg.Pool, got)
	}
}

func TestConnection_PressWhileFinishingKeepsCompletion(t *testing.T) {
	m := newManual()
	cfg := ritual.DefaultConnectionConfig()
	c := ritual.NewConnection(m, fixedRNG{f: 1}, cfg, nil)

	completions := 0
	c.Start(func() { completions++ })
	c.Press()
	m.Advance(cfg.HoldDelay + time.Duration(cfg.Pool)*cfg.MaxInterval)
	c.Release()
	c.Press()

	if c.State().Pressing {
		t.Error("press after the last release must be ignored")
	}
	if m.Pending() != 1 {
		t.Fatalf("expected only the completion timer, got %d pending", m.Pending())
	}
	m.Advance(cfg.CompleteDelay + cfg.HoldDelay)
	if completions != 1 {
		t.Fatalf("expected 1 completion, got %d", completions)
	}
}

func TestConnection_CancelWhileFinishingDropsCompletion(t *testing.T) {
	m := newManual()
	cfg := ritual.DefaultConnectionConfig()
	c := ritual.NewConnection(m, fixedRNG{f: 1}, cfg, nil)

	stale := 0
	c.Start(func() { stale++ })
	c.Press()
	m.Advance(cfg.HoldDelay + time.Duration(cfg.Pool)*cfg.MaxInterval)
	c.Release()
	c.Press()
	c.Cancel()

	fresh := 0
	c.Start(func() { fresh++ })
	m.Advance(time.Minute)

	if stale != 0 || fresh != 0 {
		t.Errorf("no completion expected after cancel, got stale=%d fresh=%d", stale, fresh)
	}
	if st := c.State(); st.Completed || !st.Armed || st.Released != 0 {
		t.Errorf("expected a freshly armed driver, got %+v", st)
	}
}

func TestConnection_PressWithoutStartIgnored(t *testing.T) {
	m := newManual()
	c := ritual.NewConnection(m, fixedRNG{}, ritual.DefaultConnectionConfig(), nil)
	c.Press()
	if m.Pending() != 0 || c.State().Pressing {
		t.Error("press on a disarmed driver must be ignored")
	}
}

func TestConnection_ReleaseOrderIsPermutation(t *testing.T) {
	m := newManual()
	cfg := ritual.DefaultConnectionConfig()
	c := ritual.NewConnection(m, fixedRNG{}, cfg, nil)

	order := c.ReleaseOrder()
	seen := make(map[int]bool, len(order))
	for _, i := range order {
		if i < 0 || i >= cfg.Pool || seen[i] {
			t.Fatalf("invalid release order %v", order)
		}
		seen[i] = true
	}
	if len(seen) != cfg.Pool {
		t.Errorf("expected %d entries, got %d", cfg.Pool, len(seen))
	}
}
