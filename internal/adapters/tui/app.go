// Package tui is the terminal presentation of a ritual session.
package tui

import (
	"io"
	"log/slog"
	"strconv"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/randomtoy/oura/internal/adapters/storage/memory"
	"github.com/randomtoy/oura/internal/app"
	"github.com/randomtoy/oura/internal/domain"
	"github.com/randomtoy/oura/internal/ports"
	"github.com/randomtoy/oura/internal/ritual"
)

type spreadItem struct {
	spread domain.SpreadType
	title  string
	desc   string
}

func (i spreadItem) Title() string       { return i.title }
func (i spreadItem) Description() string { return i.desc }
func (i spreadItem) FilterValue() string { return i.title }

type model struct {
	theme Theme
	deps  Deps
	loc   ports.Localizer
	log   *slog.Logger

	mgr  *app.Manager
	feed *pulseFeed

	id    string
	snap  app.Snapshot
	ready bool

	spreads list.Model
	bar     progress.Model

	lastPulse ritual.Pulse
	toast     string
	width     int
	height    int
}

// Terminal cells are converted to points for the shuffle area.
const (
	cellWidth  = 8
	cellHeight = 16
)

// Run shows the ritual until the user quits.
func Run(deps Deps) error {
	m := newModel(deps)
	p := tea.NewProgram(wrapSafe(m, m.log), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	feed := newPulseFeed()
	store := memory.NewStore[*app.Session]()
	mgr := app.NewManager(deps.Exec, deps.Sched, store, deps.RNG, deps.Timings, feed, logger)

	var items []list.Item
	selected := 0
	for i, st := range domain.SpreadTypes() {
		def, err := domain.Definition(st)
		if err != nil {
			continue
		}
		if st == deps.DefaultSpread {
			selected = i
		}
		items = append(items, spreadItem{
			spread: st,
			title:  deps.Localizer.Text(def.Title()),
			desc:   deps.Localizer.Text(def.Subtitle()),
		})
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = deps.Localizer.Text(domain.Msg("preparation.title"))
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.Select(selected)

	return model{
		theme:   DefaultTheme(),
		deps:    deps,
		loc:     deps.Localizer,
		log:     logger,
		mgr:     mgr,
		feed:    feed,
		spreads: l,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
}

func (m model) Init() tea.Cmd {
	st := m.deps.DefaultSpread
	if st == "" {
		st = domain.SpreadRelationship
	}
	return tea.Batch(cmdCreateSession(m.mgr, st), cmdWaitPulse(m.feed.ch), cmdFrame())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.spreads.SetSize(msg.Width-8, msg.Height-14)
		m.bar.Width = max(msg.Width-12, 10)
		return m, m.bounds()

	case sessionCreatedMsg:
		if msg.err != nil {
			m.log.Error("create session", "error", msg.err)
			m.toast = msg.err.Error()
			return m, nil
		}
		m.id, m.snap, m.ready = msg.snap.ID, msg.snap, true
		return m, m.bounds()

	case resultMsg:
		if msg.err != nil {
			m.log.Error("apply", "session", m.id, "error", msg.err)
			m.toast = msg.err.Error()
			return m, nil
		}
		m.snap, m.toast = msg.res.Session, ""
		return m, nil

	case snapshotMsg:
		if msg.err == nil {
			m.snap = msg.snap
		}
		return m, nil

	case pulseMsg:
		m.lastPulse = msg.pulse
		return m, tea.Batch(cmdWaitPulse(m.feed.ch), m.refresh())

	case frameMsg:
		if m.ready && animated(m.snap.Phase) {
			return m, tea.Batch(m.refresh(), cmdFrame())
		}
		return m, cmdFrame()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.snap.Phase == domain.PhasePreparation {
		var cmd tea.Cmd
		m.spreads, cmd = m.spreads.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	}
	if !m.ready {
		return m, nil
	}

	switch key {
	case "r":
		if m.snap.Phase != domain.PhasePreparation {
			return m, m.apply(func(s *app.Session) (bool, error) { return true, s.Reset("") })
		}
	case "esc":
		if m.snap.Magnified != nil {
			return m, m.apply(func(s *app.Session) (bool, error) { return s.DismissMagnify(), nil })
		}
	}

	switch m.snap.Phase {
	case domain.PhasePreparation:
		if key == "enter" {
			it, ok := m.spreads.SelectedItem().(spreadItem)
			if !ok {
				return m, nil
			}
			return m, m.apply(func(s *app.Session) (bool, error) {
				if ok, err := s.StartReading(it.spread); !ok || err != nil {
					return ok, err
				}
				return s.Advance(), nil
			})
		}
		var cmd tea.Cmd
		m.spreads, cmd = m.spreads.Update(msg)
		return m, cmd

	case domain.PhaseBreathing:
		switch key {
		case "s":
			return m, m.apply(input(app.InputBreathingSkip))
		case "enter":
			return m, m.apply(advance)
		}

	case domain.PhaseConnection:
		switch key {
		case " ":
			if m.snap.Connection.Pressing || m.snap.Connection.Connecting {
				return m, m.apply(input(app.InputConnectionRelease))
			}
			return m, m.apply(input(app.InputConnectionPress))
		}

	case domain.PhaseShuffling:
		switch key {
		case " ":
			if m.snap.Shuffle.Stage == ritual.ShuffleRunning {
				return m, m.apply(input(app.InputShuffleStop))
			}
			return m, m.apply(input(app.InputShuffleStart))
		}

	case domain.PhaseCardSelection, domain.PhaseCompleted:
		switch key {
		case "enter", " ":
			next := m.snap.NextCardIndex
			return m, m.apply(func(s *app.Session) (bool, error) { return s.RevealCard(next), nil })
		case "left", "h":
			return m, m.magnifyStep(-1)
		case "right", "l":
			return m, m.magnifyStep(1)
		}
		if n, err := strconv.Atoi(key); err == nil && n > 0 {
			return m, m.apply(func(s *app.Session) (bool, error) { return s.RevealCard(n - 1), nil })
		}
	}
	return m, nil
}

func (m model) apply(fn func(*app.Session) (bool, error)) tea.Cmd {
	return cmdApply(m.mgr, m.id, fn)
}

// bounds sizes the shuffle area to the terminal once both are known.
func (m model) bounds() tea.Cmd {
	if !m.ready || m.width <= 0 || m.height <= 0 {
		return nil
	}
	w, h := float64(m.width*cellWidth), float64(m.height*cellHeight)
	return m.apply(func(s *app.Session) (bool, error) { return s.SetBounds(w, h) })
}

func (m model) refresh() tea.Cmd {
	if !m.ready {
		return nil
	}
	return cmdRefresh(m.mgr, m.id)
}

// magnifyStep moves the detail view to the neighbouring revealed card.
func (m model) magnifyStep(delta int) tea.Cmd {
	if m.snap.RevealedCount == 0 {
		return nil
	}
	n := m.snap.RevealedCount
	next := 0
	switch {
	case m.snap.Magnified != nil:
		next = (*m.snap.Magnified + delta + n) % n
	case delta < 0:
		next = n - 1
	}
	return m.apply(func(s *app.Session) (bool, error) { return s.Magnify(next), nil })
}

func advance(s *app.Session) (bool, error) {
	return s.Advance(), nil
}

func animated(p domain.Phase) bool {
	switch p {
	case domain.PhaseBreathing, domain.PhaseConnection, domain.PhaseShuffling:
		return true
	}
	return false
}
