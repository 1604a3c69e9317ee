package ritual

import (
	"time"

	"github.com/randomtoy/oura/internal/clock"
)

type ConnectionConfig struct {
	Pool          int           `yaml:"pool"`
	HoldDelay     time.Duration `yaml:"hold_delay"`
	MinInterval   time.Duration `yaml:"min_interval"`
	MaxInterval   time.Duration `yaml:"max_interval"`
	CompleteDelay time.Duration `yaml:"complete_delay"`
}

func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		Pool:          40,
		HoldDelay:     200 * time.Millisecond,
		MinInterval:   150 * time.Millisecond,
		MaxInterval:   400 * time.Millisecond,
		CompleteDelay: 800 * time.Millisecond,
	}
}

type ConnectionState struct {
	Armed      bool    `json:"armed"`
	Pressing   bool    `json:"pressing"`
	Connecting bool    `json:"connecting"`
	Released   int     `json:"released"`
	Total      int     `json:"total"`
	Progress   float64 `json:"progress"`
	Completed  bool    `json:"completed"`
}

// Connection releases the offering cards one at a time while the user keeps
// pressing. Letting go before the last card is released throws all progress
// away.
type Connection struct {
	cfg     ConnectionConfig
	sched   clock.Scheduler
	rng     RNG
	onPulse PulseFunc

	armed      bool
	pressing   bool
	connecting bool
	finishing  bool
	completed  bool
	released   int
	order      []int
	timer      clock.Timer
	onComplete func()
}

func NewConnection(sched clock.Scheduler, rng RNG, cfg ConnectionConfig, onPulse PulseFunc) *Connection {
	c := &Connection{
		cfg:     cfg,
		sched:   sched,
		rng:     rng,
		onPulse: onPulse,
	}
	c.shuffleOrder()
	return c
}

func (c *Connection) Config() ConnectionConfig { return c.cfg }

// Start arms the driver for a new connection attempt. Nothing is released
// until Press.
func (c *Connection) Start(onComplete func()) {
	c.Cancel()
	c.armed = true
	c.onComplete = onComplete
}

// Press begins the hold. The release sequence starts after HoldDelay so a
// stray tap does not count.
func (c *Connection) Press() {
	if !c.armed || c.pressing || c.completed || c.connecting || c.finishing {
		return
	}
	c.pressing = true
	c.schedule(c.cfg.HoldDelay, c.begin)
}

// Release ends the hold. Before the last card is out this aborts the
// attempt and resets progress to zero.
func (c *Connection) Release() {
	if !c.pressing {
		return
	}
	c.pressing = false
	if c.finishing || c.completed {
		return
	}
	wasConnecting := c.connecting
	c.reset()
	if wasConnecting {
		c.onPulse.emit(Pulse{Kind: PulseConnectionAbort, Total: c.cfg.Pool, At: c.sched.Now()})
	}
}

// Cancel disarms the driver without completion.
func (c *Connection) Cancel() {
	c.reset()
	c.armed = false
	c.pressing = false
	c.completed = false
	c.onComplete = nil
}

func (c *Connection) State() ConnectionState {
	return ConnectionState{
		Armed:      c.armed,
		Pressing:   c.pressing,
		Connecting: c.connecting,
		Released:   c.released,
		Total:      c.cfg.Pool,
		Progress:   fraction(time.Duration(c.released), time.Duration(c.cfg.Pool)),
		Completed:  c.completed,
	}
}

// ReleaseOrder is the order in which placeholder indices leave the pool.
func (c *Connection) ReleaseOrder() []int {
	out := make([]int, len(c.order))
	copy(out, c.order)
	return out
}

func (c *Connection) begin() {
	c.timer = nil
	c.connecting = true
	c.onPulse.emit(Pulse{Kind: PulseConnectionStart, Total: c.cfg.Pool, At: c.sched.Now()})
	c.scheduleNext()
}

func (c *Connection) scheduleNext() {
	c.schedule(uniformDuration(c.rng, c.cfg.MinInterval, c.cfg.MaxInterval), c.releaseNext)
}

func (c *Connection) releaseNext() {
	c.timer = nil
	if c.released >= len(c.order) {
		return
	}
	card := c.order[c.released]
	c.released++
	c.onPulse.emit(Pulse{
		Kind:     PulseCardRelease,
		Card:     card,
		Released: c.released,
		Total:    c.cfg.Pool,
		At:       c.sched.Now(),
	})
	if c.released < c.cfg.Pool {
		c.scheduleNext()
		return
	}
	c.finishing = true
	c.onPulse.emit(Pulse{Kind: PulseConnectionComplete, Released: c.released, Total: c.cfg.Pool, At: c.sched.Now()})
	c.schedule(c.cfg.CompleteDelay, c.finish)
}

// schedule replaces the pending timer. At most one is outstanding.
func (c *Connection) schedule(d time.Duration, fn func()) {
	clock.Stop(c.timer)
	c.timer = c.sched.After(d, fn)
}

func (c *Connection) finish() {
	c.timer = nil
	c.finishing = false
	c.connecting = false
	c.completed = true
	c.armed = false
	done := c.onComplete
	c.onComplete = nil
	if done != nil {
		done()
	}
}

func (c *Connection) reset() {
	clock.Stop(c.timer)
	c.timer = nil
	c.connecting = false
	c.finishing = false
	c.released = 0
	c.shuffleOrder()
}

func (c *Connection) shuffleOrder() {
	c.order = make([]int, c.cfg.Pool)
	for i := range c.order {
		c.order[i] = i
	}
	for i := len(c.order) - 1; i > 0; i-- {
		j := c.rng.Intn(i + 1)
		c.order[i], c.order[j] = c.order[j], c.order[i]
	}
}
