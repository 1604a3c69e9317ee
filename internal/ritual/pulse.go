// Package ritual holds the timed drivers of the breathing, connection and
// shuffling phases. Each driver is an independent state machine on a
// clock.Scheduler: Start arms it with a completion callback that fires at
// most once, and Stop or Cancel invalidate every pending timer.
package ritual

import "time"

// PulseKind names a discrete feedback event for the haptic/visual collaborator.
type PulseKind string

const (
	PulseBreathPhase        PulseKind = "breathing.phase"
	PulseBreathComplete     PulseKind = "breathing.complete"
	PulseShuffleTick        PulseKind = "shuffle.tick"
	PulseShuffleSettle      PulseKind = "shuffle.settle"
	PulseShuffleComplete    PulseKind = "shuffle.complete"
	PulseConnectionStart    PulseKind = "connection.start"
	PulseCardRelease        PulseKind = "connection.release"
	PulseConnectionAbort    PulseKind = "connection.abort"
	PulseConnectionComplete PulseKind = "connection.complete"
)

// Pulse is one feedback event. Fields beyond Kind and At are set only for
// the kinds they describe.
type Pulse struct {
	Kind     PulseKind   `json:"kind"`
	Breath   BreathPhase `json:"breath,omitempty"`
	Cycle    int         `json:"cycle,omitempty"`
	Card     int         `json:"card,omitempty"`
	Released int         `json:"released,omitempty"`
	Total    int         `json:"total,omitempty"`
	At       time.Time   `json:"at"`
}

// PulseFunc receives pulses on the scheduler's execution context.
type PulseFunc func(Pulse)

// RNG is the randomness the visual drivers need.
type RNG interface {
	Intn(n int) int
	Float64() float64
}

func (f PulseFunc) emit(p Pulse) {
	if f != nil {
		f(p)
	}
}

// uniform returns a value in [lo, hi].
func uniform(rng RNG, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func uniformDuration(rng RNG, lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(rng.Float64()*float64(hi-lo))
}
