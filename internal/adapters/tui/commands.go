package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/randomtoy/oura/internal/app"
	"github.com/randomtoy/oura/internal/domain"
	"github.com/randomtoy/oura/internal/ritual"
)

// frameInterval paces progress redraws. It matches the breathing tick.
const frameInterval = 100 * time.Millisecond

func cmdCreateSession(mgr *app.Manager, st domain.SpreadType) tea.Cmd {
	return func() tea.Msg {
		snap, err := mgr.Create(context.Background(), st)
		return sessionCreatedMsg{snap: snap, err: err}
	}
}

func cmdApply(mgr *app.Manager, id string, fn func(*app.Session) (bool, error)) tea.Cmd {
	return func() tea.Msg {
		res, err := mgr.Apply(context.Background(), id, fn)
		return resultMsg{res: res, err: err}
	}
}

func cmdRefresh(mgr *app.Manager, id string) tea.Cmd {
	return func() tea.Msg {
		snap, err := mgr.Get(context.Background(), id)
		return snapshotMsg{snap: snap, err: err}
	}
}

func cmdFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// cmdWaitPulse blocks until the next driver pulse arrives.
func cmdWaitPulse(ch <-chan ritual.Pulse) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return nil
		}
		return pulseMsg{pulse: p}
	}
}

func input(in app.Input) func(*app.Session) (bool, error) {
	return func(s *app.Session) (bool, error) {
		return s.Input(in)
	}
}

// pulseFeed is an app.Publisher that hands pulses to the program without
// ever blocking the event loop.
type pulseFeed struct {
	ch chan ritual.Pulse
}

func newPulseFeed() *pulseFeed {
	return &pulseFeed{ch: make(chan ritual.Pulse, 64)}
}

func (f *pulseFeed) Publish(e app.Event) {
	if e.Type != app.EventPulse || e.Pulse == nil {
		return
	}
	select {
	case f.ch <- *e.Pulse:
	default:
	}
}
