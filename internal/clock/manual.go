package clock

import (
	"context"
	"sort"
	"time"
)

// Manual is a deterministic Scheduler for tests. Time only moves when
// Advance is called, and due callbacks run synchronously inside Advance.
// It is not safe for concurrent use.
type Manual struct {
	now     time.Time
	seq     int
	pending []*manualTimer
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	return m.now
}

func (m *Manual) After(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTimer{when: m.now.Add(d), seq: m.seq, fn: fn, owner: m}
	m.pending = append(m.pending, t)
	return t
}

// Do runs fn immediately; Manual has no separate execution context.
func (m *Manual) Do(ctx context.Context, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fn()
	return nil
}

// Advance moves time forward by d, firing every callback that becomes due,
// including callbacks armed by other callbacks during the advance.
func (m *Manual) Advance(d time.Duration) {
	end := m.now.Add(d)
	for {
		next := m.nextDue(end)
		if next == nil {
			break
		}
		m.remove(next)
		m.now = next.when
		next.fn()
	}
	m.now = end
}

// Pending is the number of armed callbacks.
func (m *Manual) Pending() int {
	return len(m.pending)
}

func (m *Manual) nextDue(end time.Time) *manualTimer {
	if len(m.pending) == 0 {
		return nil
	}
	sort.SliceStable(m.pending, func(i, j int) bool {
		a, b := m.pending[i], m.pending[j]
		if !a.when.Equal(b.when) {
			return a.when.Before(b.when)
		}
		return a.seq < b.seq
	})
	if m.pending[0].when.After(end) {
		return nil
	}
	return m.pending[0]
}

func (m *Manual) remove(t *manualTimer) bool {
	for i, p := range m.pending {
		if p == t {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			return true
		}
	}
	return false
}

type manualTimer struct {
	when  time.Time
	seq   int
	fn    func()
	owner *Manual
}

func (t *manualTimer) Stop() bool {
	return t.owner.remove(t)
}
