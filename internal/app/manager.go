package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/randomtoy/oura/internal/clock"
	"github.com/randomtoy/oura/internal/domain"
	"github.com/randomtoy/oura/internal/ritual"
)

// SessionStore keeps live sessions by ID.
type SessionStore interface {
	Put(s *Session)
	Get(id string) (*Session, bool)
	Delete(id string) (*Session, bool)
	List() []*Session
}

// Result is the outcome of a session operation.
type Result struct {
	Applied bool     `json:"applied"`
	Session Snapshot `json:"session"`
}

// Manager owns every live session of the process. All session access runs
// on the executor, which is also the scheduler the drivers use.
type Manager struct {
	exec    clock.Executor
	sched   clock.Scheduler
	store   SessionStore
	rng     ritual.RNG
	timings Timings
	pub     Publisher
	logger  *slog.Logger
	newID   func() string
}

func NewManager(exec clock.Executor, sched clock.Scheduler, store SessionStore, rng ritual.RNG, timings Timings, pub Publisher, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		exec:    exec,
		sched:   sched,
		store:   store,
		rng:     rng,
		timings: timings,
		pub:     pub,
		logger:  logger,
		newID:   uuid.NewString,
	}
}

// Create starts a new session in Preparation with a fresh draw of type t.
func (m *Manager) Create(ctx context.Context, t domain.SpreadType) (Snapshot, error) {
	var (
		snap Snapshot
		err  error
	)
	doErr := m.exec.Do(ctx, func() {
		var s *Session
		s, err = NewSession(m.newID(), m.sched, m.rng, t, m.timings, m.pub, m.logger)
		if err != nil {
			return
		}
		m.store.Put(s)
		snap = s.Snapshot()
		m.logger.Info("session created", "session", s.ID(), "spread", t)
	})
	if doErr != nil {
		return Snapshot{}, doErr
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("create session: %w", err)
	}
	return snap, nil
}

func (m *Manager) Get(ctx context.Context, id string) (Snapshot, error) {
	res, err := m.Apply(ctx, id, func(*Session) (bool, error) { return false, nil })
	return res.Session, err
}

// Apply runs fn against session id on the executor and returns the
// resulting snapshot.
func (m *Manager) Apply(ctx context.Context, id string, fn func(*Session) (bool, error)) (Result, error) {
	var (
		res Result
		err error
	)
	doErr := m.exec.Do(ctx, func() {
		s, ok := m.store.Get(id)
		if !ok {
			err = fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
			return
		}
		res.Applied, err = fn(s)
		res.Session = s.Snapshot()
	})
	if doErr != nil {
		return Result{}, doErr
	}
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// Delete closes and forgets session id.
func (m *Manager) Delete(ctx context.Context, id string) error {
	var err error
	doErr := m.exec.Do(ctx, func() {
		s, ok := m.store.Delete(id)
		if !ok {
			err = fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
			return
		}
		s.Close()
		m.logger.Info("session deleted", "session", id)
	})
	if doErr != nil {
		return doErr
	}
	return err
}

// Reap closes sessions idle for longer than ttl and reports how many were
// removed.
func (m *Manager) Reap(ctx context.Context, ttl time.Duration) (int, error) {
	var n int
	err := m.exec.Do(ctx, func() {
		now := m.sched.Now()
		for _, s := range m.store.List() {
			if now.Sub(s.LastActive()) < ttl {
				continue
			}
			m.store.Delete(s.ID())
			s.Close()
			n++
			m.logger.Info("session reaped", "session", s.ID(), "idle", now.Sub(s.LastActive()).String())
		}
	})
	return n, err
}

// RunReaper calls Reap every interval until ctx is done.
func (m *Manager) RunReaper(ctx context.Context, interval, ttl time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := m.Reap(ctx, ttl); err != nil && ctx.Err() == nil {
				m.logger.Error("reap sessions", "error", err)
			}
		}
	}
}

// Close closes every live session.
func (m *Manager) Close(ctx context.Context) error {
	return m.exec.Do(ctx, func() {
		for _, s := range m.store.List() {
			m.store.Delete(s.ID())
			s.Close()
		}
	})
}
