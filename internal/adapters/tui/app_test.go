package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/randomtoy/oura/internal/adapters/locale"
	"github.com/randomtoy/oura/internal/app"
	"github.com/randomtoy/oura/internal/clock"
	"github.com/randomtoy/oura/internal/domain"
)

type firstRNG struct{}

func (firstRNG) Intn(int) int     { return 0 }
func (firstRNG) Float64() float64 { return 0.5 }

func newTestModel(t *testing.T) (model, *clock.Manual) {
	t.Helper()
	loc, err := locale.NewCatalog().Localizer("en")
	if err != nil {
		t.Fatalf("localizer: %v", err)
	}
	m := clock.NewManual(time.Unix(1700000000, 0))
	md := newModel(Deps{
		Exec:          m,
		Sched:         m,
		Localizer:     loc,
		RNG:           firstRNG{},
		Timings:       app.DefaultTimings(),
		DefaultSpread: domain.SpreadSingle,
	})
	md = update(t, md, tea.WindowSizeMsg{Width: 120, Height: 40})
	md = update(t, md, cmdCreateSession(md.mgr, domain.SpreadSingle)())
	if !md.ready {
		t.Fatalf("session not created: %s", md.toast)
	}
	return md, m
}

func update(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	mm, ok := next.(model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return mm
}

// press sends key and runs the resulting session command synchronously.
func press(t *testing.T, m model, key tea.KeyMsg) model {
	t.Helper()
	next, cmd := m.Update(key)
	m = next.(model)
	if cmd != nil {
		m = update(t, m, cmd())
	}
	return m
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func expectView(t *testing.T, m model, want ...string) {
	t.Helper()
	v := m.View()
	for _, w := range want {
		if !strings.Contains(v, w) {
			t.Errorf("view missing %q:\n%s", w, v)
		}
	}
}

func TestModel_Ritual(t *testing.T) {
	m, clk := newTestModel(t)
	expectView(t, m, "Oura Tarot", "Preparation", "Single card")

	m = press(t, m, keyEnter)
	if m.snap.Phase != domain.PhaseBreathing {
		t.Fatalf("expected breathing, got %s", m.snap.Phase)
	}
	expectView(t, m, "Inhale")

	m = press(t, m, runes("s"))
	if m.snap.Phase != domain.PhaseConnection {
		t.Fatalf("skip did not finish breathing: %s", m.snap.Phase)
	}
	expectView(t, m, "Hold space to start connecting")

	m = press(t, m, keySpace)
	if !m.snap.Connection.Pressing {
		t.Fatal("space did not press")
	}
	clk.Advance(app.DefaultTimings().Connection.HoldDelay)
	m = update(t, m, cmdRefresh(m.mgr, m.id)())
	expectView(t, m, "Connecting 0/40")

	m = press(t, m, keySpace)
	if m.snap.Connection.Connecting || m.snap.Phase != domain.PhaseConnection {
		t.Fatal("second space did not release")
	}

	m = press(t, m, keyEnter)
	if m.snap.Phase != domain.PhaseConnection {
		t.Fatalf("enter left connection: %s", m.snap.Phase)
	}

	m = press(t, m, keySpace)
	clk.Advance(time.Minute)
	m = update(t, m, cmdRefresh(m.mgr, m.id)())
	if m.snap.Phase != domain.PhaseShuffling {
		t.Fatalf("expected shuffling, got %s", m.snap.Phase)
	}
	m = press(t, m, keySpace)
	expectView(t, m, "Stop when it feels right")

	m = press(t, m, keyEnter)
	if m.snap.Phase != domain.PhaseShuffling {
		t.Fatalf("enter left shuffling: %s", m.snap.Phase)
	}
	m = press(t, m, keySpace)
	clk.Advance(time.Minute)
	m = update(t, m, cmdRefresh(m.mgr, m.id)())
	if m.snap.Phase != domain.PhaseCardSelection {
		t.Fatalf("expected card selection, got %s", m.snap.Phase)
	}
	expectView(t, m, "1. Current")

	m = press(t, m, keyEnter)
	if m.snap.Phase != domain.PhaseCompleted || m.snap.Reading == nil {
		t.Fatalf("expected completed reading, got %s", m.snap.Phase)
	}
	expectView(t, m, "Your reading", "The Fool", "Summary", "Advice")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.snap.Magnified != nil {
		t.Error("esc did not dismiss the card")
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.snap.Magnified == nil || *m.snap.Magnified != 0 {
		t.Error("right did not magnify the first card")
	}

	m = press(t, m, runes("r"))
	if m.snap.Phase != domain.PhasePreparation || m.snap.Reading != nil {
		t.Fatalf("reset failed: %s", m.snap.Phase)
	}
	if clk.Pending() != 0 {
		t.Errorf("reset left %d timers", clk.Pending())
	}
}

func TestModel_RevealByNumber(t *testing.T) {
	m, _ := newTestModel(t)
	m.spreads.Select(1)
	m = press(t, m, keyEnter)
	if m.snap.Spread.Type != domain.SpreadThreeCard {
		t.Fatalf("expected three_card, got %s", m.snap.Spread.Type)
	}
	for m.snap.Phase != domain.PhaseCardSelection {
		m = press(t, m, keyEnter)
	}

	m = press(t, m, runes("3"))
	if m.snap.RevealedCount != 0 {
		t.Error("out of order reveal accepted")
	}
	m = press(t, m, runes("1"))
	if m.snap.RevealedCount != 1 {
		t.Error("reveal by number rejected")
	}
	expectView(t, m, "2 cards left")
}

func TestModel_WindowSizeSetsShuffleBounds(t *testing.T) {
	m, _ := newTestModel(t)

	next, cmd := m.Update(tea.WindowSizeMsg{Width: 200, Height: 60})
	m = next.(model)
	if cmd == nil {
		t.Fatal("resize did not update the session")
	}
	m = update(t, m, cmd())

	if got, want := m.snap.Shuffle.Width, 200*cellWidth*0.85; got != want {
		t.Errorf("expected width %v, got %v", want, got)
	}
	if got, want := m.snap.Shuffle.Height, 60*cellHeight*0.65; got != want {
		t.Errorf("expected height %v, got %v", want, got)
	}
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c did not quit")
	}
}

func TestSafeModel_RecoversFromViewPanic(t *testing.T) {
	s := wrapSafe(model{}, nil)
	if got := s.View(); !strings.Contains(got, "unexpected error") {
		t.Errorf("expected fallback view, got %q", got)
	}
}
