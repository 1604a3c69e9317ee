package ritual

import (
	"time"

	"github.com/randomtoy/oura/internal/clock"
)

// Placeholder is one visual card of the shuffle pool. It never maps to a
// card of the drawn spread.
type Placeholder struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	Z        int     `json:"z"`
	Shadow   bool    `json:"shadow"`
	Gone     bool    `json:"gone"`
}

// ShuffleStage is the lifecycle of one shuffle run.
type ShuffleStage string

const (
	ShuffleIdle     ShuffleStage = "idle"
	ShuffleRunning  ShuffleStage = "shuffling"
	ShuffleSettling ShuffleStage = "settling"
	ShuffleSweeping ShuffleStage = "sweeping"
	ShuffleFinished ShuffleStage = "finished"
)

type ShuffleConfig struct {
	Pool        int           `yaml:"pool"`
	Tick        time.Duration `yaml:"tick"`
	SettleDelay time.Duration `yaml:"settle_delay"`
	Stagger     time.Duration `yaml:"stagger"`
	Sweep       time.Duration `yaml:"sweep"`
	Width       float64       `yaml:"width"`
	Height      float64       `yaml:"height"`
	CardWidth   float64       `yaml:"card_width"`
	CardHeight  float64       `yaml:"card_height"`
}

func DefaultShuffleConfig() ShuffleConfig {
	return ShuffleConfig{
		Pool:        40,
		Tick:        time.Second,
		SettleDelay: 1200 * time.Millisecond,
		Stagger:     5 * time.Millisecond,
		Sweep:       250 * time.Millisecond,
		Width:       350,
		Height:      250,
		CardWidth:   50,
		CardHeight:  80,
	}
}

// ShuffleState is a copy of the pool for rendering.
type ShuffleState struct {
	Stage  ShuffleStage  `json:"stage"`
	Ticks  int           `json:"ticks"`
	Width  float64       `json:"width"`
	Height float64       `json:"height"`
	Cards  []Placeholder `json:"cards"`
}

// Shuffle scatters a pool of placeholder cards on every tick until stopped,
// then gathers them in the center and sweeps them off one by one.
type Shuffle struct {
	cfg     ShuffleConfig
	sched   clock.Scheduler
	rng     RNG
	onPulse PulseFunc

	stage      ShuffleStage
	ticks      int
	cards      []Placeholder
	tick       clock.Timer
	timers     []clock.Timer
	onComplete func()
}

func NewShuffle(sched clock.Scheduler, rng RNG, cfg ShuffleConfig, onPulse PulseFunc) *Shuffle {
	s := &Shuffle{
		cfg:     cfg,
		sched:   sched,
		rng:     rng,
		onPulse: onPulse,
		stage:   ShuffleIdle,
	}
	s.regenerate()
	return s
}

func (s *Shuffle) Config() ShuffleConfig { return s.cfg }

// SetBounds adapts the scatter area to the container size. The area never
// shrinks below the configured minimum.
func (s *Shuffle) SetBounds(width, height float64) {
	s.cfg.Width = max(DefaultShuffleConfig().Width, width*0.85)
	s.cfg.Height = max(DefaultShuffleConfig().Height, height*0.65)
	if s.stage == ShuffleRunning {
		s.scatter()
	}
}

// Start begins scattering. It is ignored while a run is already in progress.
func (s *Shuffle) Start(onComplete func()) {
	if s.stage == ShuffleRunning || s.stage == ShuffleSettling || s.stage == ShuffleSweeping {
		return
	}
	s.stage = ShuffleRunning
	s.ticks = 0
	s.onComplete = onComplete
	s.tick = s.sched.After(s.cfg.Tick, s.onTick)
}

// Stop ends scattering and plays the gather and sweep sequence; completion
// fires once the pool has been reset.
func (s *Shuffle) Stop() {
	if s.stage != ShuffleRunning {
		return
	}
	s.cancelTimers()
	s.stage = ShuffleSettling
	for i := range s.cards {
		s.cards[i] = Placeholder{Z: i}
	}
	s.onPulse.emit(Pulse{Kind: PulseShuffleSettle, Total: len(s.cards), At: s.sched.Now()})
	s.arm(s.cfg.SettleDelay, s.sweep)
}

// Cancel aborts any run without completion and restores a fresh pool.
func (s *Shuffle) Cancel() {
	s.cancelTimers()
	s.onComplete = nil
	s.stage = ShuffleIdle
	s.ticks = 0
	s.regenerate()
}

func (s *Shuffle) Stage() ShuffleStage { return s.stage }

func (s *Shuffle) State() ShuffleState {
	cards := make([]Placeholder, len(s.cards))
	copy(cards, s.cards)
	return ShuffleState{Stage: s.stage, Ticks: s.ticks, Width: s.cfg.Width, Height: s.cfg.Height, Cards: cards}
}

func (s *Shuffle) onTick() {
	s.ticks++
	s.scatter()
	s.onPulse.emit(Pulse{Kind: PulseShuffleTick, Cycle: s.ticks, At: s.sched.Now()})
	s.tick = s.sched.After(s.cfg.Tick, s.onTick)
}

// scatter moves every card to a random spot, turns it a little further and
// deals a new stacking order.
func (s *Shuffle) scatter() {
	order := s.permutation(len(s.cards))
	for z, i := range order {
		x, y := s.randomPosition()
		s.cards[i].X = x
		s.cards[i].Y = y
		s.cards[i].Rotation += uniform(s.rng, -30, 30)
		s.cards[i].Z = z
		s.cards[i].Shadow = true
	}
}

func (s *Shuffle) sweep() {
	s.stage = ShuffleSweeping
	offscreen := max(400, s.cfg.Width)
	for i := range s.cards {
		s.arm(time.Duration(i)*s.cfg.Stagger, func() {
			s.cards[i].X = offscreen
			s.cards[i].Y = 0
			s.cards[i].Gone = true
		})
	}
	total := time.Duration(len(s.cards))*s.cfg.Stagger + s.cfg.Sweep
	s.arm(total, s.finish)
}

func (s *Shuffle) finish() {
	s.timers = nil
	s.regenerate()
	s.stage = ShuffleFinished
	done := s.onComplete
	s.onComplete = nil
	s.onPulse.emit(Pulse{Kind: PulseShuffleComplete, Total: len(s.cards), At: s.sched.Now()})
	if done != nil {
		done()
	}
}

func (s *Shuffle) regenerate() {
	s.cards = make([]Placeholder, s.cfg.Pool)
	for i := range s.cards {
		x, y := s.randomPosition()
		s.cards[i] = Placeholder{
			X:        x,
			Y:        y,
			Rotation: uniform(s.rng, -90, 90),
			Z:        i,
			Shadow:   true,
		}
	}
}

func (s *Shuffle) randomPosition() (float64, float64) {
	minX := -s.cfg.Width/2 + s.cfg.CardWidth/2
	maxX := s.cfg.Width/2 - s.cfg.CardWidth/2
	minY := -s.cfg.Height/2 + s.cfg.CardHeight/2
	maxY := s.cfg.Height/2 - s.cfg.CardHeight/2
	return uniform(s.rng, minX, maxX), uniform(s.rng, minY, maxY)
}

func (s *Shuffle) permutation(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := s.rng.Intn(i + 1)
		p[i], p[j] = p[j], p[i]
	}
	return p
}

func (s *Shuffle) arm(d time.Duration, fn func()) {
	s.timers = append(s.timers, s.sched.After(d, fn))
}

func (s *Shuffle) cancelTimers() {
	clock.Stop(s.tick)
	s.tick = nil
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
}
