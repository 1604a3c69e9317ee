package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/randomtoy/oura/internal/clock"
	"github.com/randomtoy/oura/internal/domain"
	"github.com/randomtoy/oura/internal/ritual"
)

// Input is a presentation event routed to the active driver.
type Input string

const (
	InputBreathingStart    Input = "breathing.start"
	InputBreathingSkip     Input = "breathing.skip"
	InputConnectionPress   Input = "connection.press"
	InputConnectionRelease Input = "connection.release"
	InputShuffleStart      Input = "shuffle.start"
	InputShuffleStop       Input = "shuffle.stop"
)

func Inputs() []Input {
	return []Input{
		InputBreathingStart, InputBreathingSkip,
		InputConnectionPress, InputConnectionRelease,
		InputShuffleStart, InputShuffleStop,
	}
}

func ParseInput(s string) (Input, error) {
	for _, in := range Inputs() {
		if string(in) == s {
			return in, nil
		}
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownInput, s)
}

type EventType string

const (
	EventState  EventType = "state"
	EventPulse  EventType = "pulse"
	EventClosed EventType = "closed"
)

// Event is what a session publishes to the presentation layer.
type Event struct {
	Type     EventType     `json:"type"`
	Session  string        `json:"session"`
	Snapshot *Snapshot     `json:"snapshot,omitempty"`
	Pulse    *ritual.Pulse `json:"pulse,omitempty"`
}

// Publisher receives session events on the scheduler's execution context.
// Implementations must not block.
type Publisher interface {
	Publish(Event)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(Event)

func (f PublisherFunc) Publish(e Event) { f(e) }

// Timings configures the three ritual drivers.
type Timings struct {
	Breathing  ritual.BreathingConfig  `yaml:"breathing"`
	Shuffle    ritual.ShuffleConfig    `yaml:"shuffle"`
	Connection ritual.ConnectionConfig `yaml:"connection"`
}

func DefaultTimings() Timings {
	return Timings{
		Breathing:  ritual.DefaultBreathingConfig(),
		Shuffle:    ritual.DefaultShuffleConfig(),
		Connection: ritual.DefaultConnectionConfig(),
	}
}

// Session wires one Controller to its drivers. Driver completion advances
// the controller; leaving a phase stops its driver so no stale timer can
// touch the session afterwards.
type Session struct {
	id      string
	sched   clock.Scheduler
	pub     Publisher
	logger  *slog.Logger
	created time.Time
	active  time.Time

	ctrl       *Controller
	breathing  *ritual.Breathing
	connection *ritual.Connection
	shuffle    *ritual.Shuffle
	closed     bool
}

func NewSession(id string, sched clock.Scheduler, rng ritual.RNG, t domain.SpreadType, timings Timings, pub Publisher, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ctrl, err := NewController(rng, t)
	if err != nil {
		return nil, err
	}

	s := &Session{
		id:      id,
		sched:   sched,
		pub:     pub,
		logger:  logger.With("session", id),
		created: sched.Now(),
		active:  sched.Now(),
		ctrl:    ctrl,
	}
	s.breathing = ritual.NewBreathing(sched, timings.Breathing, s.pulse)
	s.connection = ritual.NewConnection(sched, rng, timings.Connection, s.pulse)
	s.shuffle = ritual.NewShuffle(sched, rng, timings.Shuffle, s.pulse)
	ctrl.SetHooks(Hooks{OnPhase: s.onPhase, OnChange: s.onChange})
	return s, nil
}

func (s *Session) ID() string                   { return s.id }
func (s *Session) Controller() *Controller      { return s.ctrl }
func (s *Session) CreatedAt() time.Time         { return s.created }
func (s *Session) LastActive() time.Time        { return s.active }
func (s *Session) Breathing() *ritual.Breathing { return s.breathing }
func (s *Session) Shuffle() *ritual.Shuffle     { return s.shuffle }

func (s *Session) Connection() *ritual.Connection { return s.connection }

func (s *Session) StartReading(t domain.SpreadType) (bool, error) {
	s.touch()
	return s.ctrl.StartReading(t)
}

func (s *Session) SwitchSpread(t domain.SpreadType) (bool, error) {
	s.touch()
	return s.ctrl.SwitchSpread(t)
}

func (s *Session) Advance() bool {
	s.touch()
	return s.ctrl.Advance()
}

func (s *Session) RevealCard(index int) bool {
	s.touch()
	return s.ctrl.RevealCard(index)
}

func (s *Session) Magnify(index int) bool {
	s.touch()
	return s.ctrl.Magnify(index)
}

func (s *Session) DismissMagnify() bool {
	s.touch()
	return s.ctrl.DismissMagnify()
}

// Reset aborts the ritual. An empty t keeps the current spread type.
func (s *Session) Reset(t domain.SpreadType) error {
	s.touch()
	if t == "" {
		s.ctrl.Reset()
		return nil
	}
	return s.ctrl.ResetWith(t)
}

// SetBounds sizes the shuffle scatter area to a width x height container.
func (s *Session) SetBounds(width, height float64) (bool, error) {
	if !(width > 0 && height > 0) {
		return false, fmt.Errorf("%w: %vx%v", domain.ErrInvalidBounds, width, height)
	}
	s.touch()
	s.shuffle.SetBounds(width, height)
	s.onChange()
	return true, nil
}

// Input routes a presentation event to the driver of the current phase.
// Events for other phases are ignored.
func (s *Session) Input(in Input) (bool, error) {
	s.touch()
	phase := s.ctrl.Phase()
	switch in {
	case InputBreathingStart:
		if phase != domain.PhaseBreathing {
			return false, nil
		}
		s.breathing.Start(s.completion(domain.PhaseBreathing))
	case InputBreathingSkip:
		if phase != domain.PhaseBreathing || !s.breathing.State().Running {
			return false, nil
		}
		s.breathing.Skip()
	case InputConnectionPress:
		if phase != domain.PhaseConnection {
			return false, nil
		}
		s.connection.Press()
	case InputConnectionRelease:
		if phase != domain.PhaseConnection {
			return false, nil
		}
		s.connection.Release()
	case InputShuffleStart:
		if phase != domain.PhaseShuffling || s.shuffle.Stage() == ritual.ShuffleRunning {
			return false, nil
		}
		s.shuffle.Start(s.completion(domain.PhaseShuffling))
	case InputShuffleStop:
		if phase != domain.PhaseShuffling || s.shuffle.Stage() != ritual.ShuffleRunning {
			return false, nil
		}
		s.shuffle.Stop()
	default:
		return false, fmt.Errorf("%w: %q", domain.ErrUnknownInput, in)
	}
	s.onChange()
	return true, nil
}

// Close stops every driver. The session must not be used afterwards.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.stopDrivers()
	s.publish(Event{Type: EventClosed, Session: s.id})
}

func (s *Session) Snapshot() Snapshot {
	return newSnapshot(s)
}

func (s *Session) onPhase(from, to domain.Phase) {
	s.stopDrivers()
	switch to {
	case domain.PhaseBreathing:
		s.breathing.Start(s.completion(domain.PhaseBreathing))
	case domain.PhaseConnection:
		s.connection.Start(s.completion(domain.PhaseConnection))
	}

	s.logger.Info("phase changed", "from", from, "to", to, "spread", s.ctrl.SpreadType())
	if to == domain.PhaseCompleted {
		s.logger.Info("reading generated",
			"spread", s.ctrl.SpreadType(),
			"cards", s.ctrl.RevealedCount(),
		)
	}
}

// completion advances the controller when the driver of phase p finishes.
func (s *Session) completion(p domain.Phase) func() {
	return func() {
		if s.closed {
			return
		}
		s.ctrl.Complete(p)
	}
}

func (s *Session) stopDrivers() {
	s.breathing.Stop()
	s.connection.Cancel()
	s.shuffle.Cancel()
}

func (s *Session) pulse(p ritual.Pulse) {
	s.logger.Debug("pulse", "kind", p.Kind, "cycle", p.Cycle, "released", p.Released)
	s.publish(Event{Type: EventPulse, Session: s.id, Pulse: &p})
}

func (s *Session) onChange() {
	snap := s.Snapshot()
	s.publish(Event{Type: EventState, Session: s.id, Snapshot: &snap})
}

func (s *Session) publish(e Event) {
	if s.pub != nil {
		s.pub.Publish(e)
	}
}

func (s *Session) touch() {
	s.active = s.sched.Now()
}
