package ritual

import (
	"time"

	"github.com/randomtoy/oura/internal/clock"
)

// BreathPhase is the sub-phase of one breathing cycle.
type BreathPhase string

const (
	BreathIdle   BreathPhase = "idle"
	BreathInhale BreathPhase = "inhale"
	BreathHold   BreathPhase = "hold"
	BreathExhale BreathPhase = "exhale"
	BreathDone   BreathPhase = "done"
)

type BreathingConfig struct {
	Cycles int           `yaml:"cycles"`
	Inhale time.Duration `yaml:"inhale"`
	Hold   time.Duration `yaml:"hold"`
	Exhale time.Duration `yaml:"exhale"`
	Tick   time.Duration `yaml:"tick"`
}

func DefaultBreathingConfig() BreathingConfig {
	return BreathingConfig{
		Cycles: 3,
		Inhale: 4 * time.Second,
		Hold:   2 * time.Second,
		Exhale: 6 * time.Second,
		Tick:   100 * time.Millisecond,
	}
}

func (c BreathingConfig) CycleDuration() time.Duration {
	return c.Inhale + c.Hold + c.Exhale
}

func (c BreathingConfig) TotalDuration() time.Duration {
	return time.Duration(c.Cycles) * c.CycleDuration()
}

// BreathingState is what the presentation binds its animation to.
type BreathingState struct {
	Running   bool          `json:"running"`
	Completed bool          `json:"completed"`
	Phase     BreathPhase   `json:"phase"`
	Progress  float64       `json:"progress"`
	Cycle     int           `json:"cycle"`
	Cycles    int           `json:"cycles"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Breathing drives inhale, hold and exhale for a fixed number of cycles.
type Breathing struct {
	cfg     BreathingConfig
	sched   clock.Scheduler
	onPulse PulseFunc

	running    bool
	completed  bool
	startedAt  time.Time
	phase      BreathPhase
	progress   float64
	cycle      int
	elapsed    time.Duration
	tick       clock.Timer
	onComplete func()
}

func NewBreathing(sched clock.Scheduler, cfg BreathingConfig, onPulse PulseFunc) *Breathing {
	return &Breathing{
		cfg:     cfg,
		sched:   sched,
		onPulse: onPulse,
		phase:   BreathIdle,
	}
}

func (b *Breathing) Config() BreathingConfig { return b.cfg }

// Start begins the exercise. A running exercise is restarted from zero and
// its previous completion callback is dropped.
func (b *Breathing) Start(onComplete func()) {
	b.Stop()
	b.running = true
	b.completed = false
	b.startedAt = b.sched.Now()
	b.phase = BreathIdle
	b.progress = 0
	b.cycle = 0
	b.elapsed = 0
	b.onComplete = onComplete
	b.update()
}

// Skip completes a running exercise immediately.
func (b *Breathing) Skip() {
	if !b.running {
		return
	}
	b.complete()
}

// Stop cancels the exercise without signalling completion.
func (b *Breathing) Stop() {
	clock.Stop(b.tick)
	b.tick = nil
	b.running = false
	b.onComplete = nil
}

func (b *Breathing) State() BreathingState {
	return BreathingState{
		Running:   b.running,
		Completed: b.completed,
		Phase:     b.phase,
		Progress:  b.progress,
		Cycle:     b.cycle,
		Cycles:    b.cfg.Cycles,
		Elapsed:   b.elapsed,
	}
}

func (b *Breathing) update() {
	b.tick = nil
	b.elapsed = b.sched.Now().Sub(b.startedAt)
	if b.elapsed >= b.cfg.TotalDuration() {
		b.complete()
		return
	}

	cycleDur := b.cfg.CycleDuration()
	cycle := int(b.elapsed/cycleDur) + 1
	offset := b.elapsed % cycleDur

	var phase BreathPhase
	var progress float64
	switch {
	case offset < b.cfg.Inhale:
		phase = BreathInhale
		progress = fraction(offset, b.cfg.Inhale)
	case offset < b.cfg.Inhale+b.cfg.Hold:
		phase = BreathHold
		progress = fraction(offset-b.cfg.Inhale, b.cfg.Hold)
	default:
		phase = BreathExhale
		progress = fraction(offset-b.cfg.Inhale-b.cfg.Hold, b.cfg.Exhale)
	}

	changed := phase != b.phase || cycle != b.cycle
	b.phase, b.progress, b.cycle = phase, progress, cycle
	if changed {
		b.onPulse.emit(Pulse{Kind: PulseBreathPhase, Breath: phase, Cycle: cycle, At: b.sched.Now()})
	}

	b.tick = b.sched.After(b.cfg.Tick, b.update)
}

func (b *Breathing) complete() {
	clock.Stop(b.tick)
	b.tick = nil
	done := b.onComplete
	b.onComplete = nil
	b.running = false
	b.completed = true
	b.phase = BreathDone
	b.progress = 1
	b.onPulse.emit(Pulse{Kind: PulseBreathComplete, Cycle: b.cycle, At: b.sched.Now()})
	if done != nil {
		done()
	}
}

func fraction(part, whole time.Duration) float64 {
	if whole <= 0 {
		return 1
	}
	f := float64(part) / float64(whole)
	return min(max(f, 0), 1)
}
