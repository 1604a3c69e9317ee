package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/randomtoy/oura/internal/adapters/report"
	"github.com/randomtoy/oura/internal/app"
	"github.com/randomtoy/oura/internal/domain"
	"github.com/randomtoy/oura/internal/ritual"
)

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render(m.text("app.title")) + "\n" +
		m.theme.Subtitle.Render(m.text("app.tagline")) + "\n\n" +
		m.phaseBar() + "\n"

	if !m.ready {
		return wrap.Render(header + "\n" + m.theme.Toast.Render(m.toast))
	}

	var body string
	switch m.snap.Phase {
	case domain.PhasePreparation:
		body = m.viewPreparation()
	case domain.PhaseBreathing:
		body = m.viewBreathing()
	case domain.PhaseConnection:
		body = m.viewConnection()
	case domain.PhaseShuffling:
		body = m.viewShuffle()
	case domain.PhaseCardSelection:
		body = m.viewSelection()
	case domain.PhaseCompleted:
		body = m.viewCompleted()
	}

	out := header + "\n" + body + "\n" + m.theme.Help.Render(m.text("tui.help."+string(m.snap.Phase)))
	if m.toast != "" {
		out += "\n" + m.theme.Toast.Render(m.toast)
	}
	return wrap.Render(out)
}

func (m model) text(key string) string {
	return m.loc.Text(domain.Msg(key))
}

func (m model) count(key string, n int) string {
	return m.loc.Text(domain.Msg(key).With("count", domain.Literal(strconv.Itoa(n))))
}

func (m model) phaseBar() string {
	var parts []string
	for _, p := range domain.Phases() {
		title := m.loc.Text(p.Title())
		switch {
		case p == m.snap.Phase:
			parts = append(parts, m.theme.Accent.Render("● "+title))
		case p.Index() < m.snap.Phase.Index():
			parts = append(parts, "○ "+title)
		default:
			parts = append(parts, m.theme.Hidden.Render("○ "+title))
		}
	}
	return strings.Join(parts, "  ")
}

func (m model) viewPreparation() string {
	intro := m.text("preparation.calm_mind") + "\n" + m.text("preparation.focus_question")

	var detail string
	if it, ok := m.spreads.SelectedItem().(spreadItem); ok {
		if def, err := domain.Definition(it.spread); err == nil {
			detail = "\n\n" + m.loc.Text(def.Instruction()) + "\n" + m.theme.Subtitle.Render(m.loc.Text(def.Info()))
		}
	}
	return m.theme.Card.Render(intro+"\n\n"+m.spreads.View()+detail) + "\n"
}

func (m model) viewBreathing() string {
	b := m.snap.Breathing
	var status string
	switch {
	case b.Completed:
		status = m.text("breathing.practice_complete")
	case b.Running && b.Phase != ritual.BreathIdle && b.Phase != ritual.BreathDone:
		status = m.theme.Accent.Render(m.text("breathing.status."+string(b.Phase))) +
			"  " + m.count("breathing.remaining_cycles", b.Cycles-b.Cycle)
	default:
		status = m.text("breathing.button.start")
	}

	return m.theme.Card.Render(
		m.theme.Title.Render(m.text("breathing.title")) + "\n" +
			m.text("breathing.instruction") + "\n\n" +
			status + "\n\n" +
			m.bar.ViewAs(b.Progress),
	) + "\n"
}

func (m model) viewConnection() string {
	c := m.snap.Connection
	var status string
	switch {
	case c.Completed:
		status = m.text("connection.completed")
	case c.Connecting:
		status = m.theme.Accent.Render(m.loc.Text(domain.Msg("connection.connecting_cards").
			With("released", domain.Literal(strconv.Itoa(c.Released))).
			With("total", domain.Literal(strconv.Itoa(c.Total))))) +
			"\n" + m.text("connection.status.release_warning")
	case c.Pressing:
		status = m.text("connection.status.connecting")
	default:
		status = m.text("connection.status.start_instruction")
	}
	if m.lastPulse.Kind == ritual.PulseConnectionAbort && !c.Pressing {
		status += "\n" + m.theme.Toast.Render(m.text("connection.status.release_warning"))
	}

	return m.theme.Card.Render(
		m.theme.Title.Render(m.text("connection.title")) + "\n" +
			m.text("connection.instruction") + "\n\n" +
			status + "\n\n" +
			m.bar.ViewAs(c.Progress),
	) + "\n"
}

func (m model) viewShuffle() string {
	s := m.snap.Shuffle
	var status string
	switch s.Stage {
	case ritual.ShuffleIdle:
		status = m.text("shuffle.instruction.start")
	case ritual.ShuffleRunning:
		status = m.theme.Accent.Render(m.text("shuffle.instruction.stop"))
	default:
		status = m.text("shuffle.completed")
	}

	visible := 0
	for _, c := range s.Cards {
		if !c.Gone {
			visible++
		}
	}
	deck := strings.Repeat("▮", visible)
	if s.Stage == ritual.ShuffleRunning && s.Ticks%2 == 1 {
		deck = m.theme.Accent.Render(deck)
	}

	return m.theme.Card.Render(
		m.theme.Title.Render(m.text("shuffle.title")) + "\n" +
			m.text("shuffle.think_question") + "\n\n" +
			status + "\n\n" +
			deck,
	) + "\n"
}

func (m model) viewSelection() string {
	remaining := len(m.snap.Positions) - m.snap.RevealedCount
	head := m.theme.Title.Render(m.text("card_selection.title")) + "\n" +
		m.text("card_selection.tap_to_reveal") + "  " + m.count("card_selection.remaining", remaining)
	return m.theme.Card.Render(head+"\n\n"+m.positions()) + "\n" + m.magnified()
}

func (m model) viewCompleted() string {
	if m.snap.Reading == nil {
		return ""
	}
	var b strings.Builder
	if err := (report.TextWriter{}).Write(&b, app.RenderReading(m.loc, *m.snap.Reading)); err != nil {
		m.log.Error("render reading", "session", m.id, "error", err)
	}
	return m.theme.Card.Render(
		m.theme.Title.Render(m.text("completed.title")) + "\n\n" +
			m.positions() + "\n\n" +
			strings.TrimRight(b.String(), "\n"),
	) + "\n" + m.magnified()
}

func (m model) positions() string {
	var rows []string
	for _, p := range m.snap.Positions {
		label := fmt.Sprintf("%d. %s", p.Index+1, m.loc.Text(p.Label))
		switch {
		case p.Card != nil:
			rows = append(rows, label+"  "+m.theme.Accent.Render(m.loc.Text(p.Card.Name())))
		case p.Revealable:
			rows = append(rows, m.theme.Accent.Render("▶ ")+label+"  ？")
		default:
			rows = append(rows, m.theme.Hidden.Render(label+"  ？"))
		}
	}
	return strings.Join(rows, "\n")
}

// magnified renders the detail panel of the selected card, if any.
func (m model) magnified() string {
	if m.snap.Magnified == nil {
		return ""
	}
	i := *m.snap.Magnified
	if i < 0 || i >= len(m.snap.Positions) || m.snap.Positions[i].Card == nil {
		return ""
	}
	p := m.snap.Positions[i]
	card := *p.Card

	lines := []string{
		m.theme.Title.Render(m.loc.Text(card.Name())),
		m.loc.Text(p.Label) + " · " + m.text("category."+string(card.Category())),
	}
	if m.snap.Reading != nil && i < len(m.snap.Reading.CardReadings) {
		lines = append(lines, "", m.loc.Text(m.snap.Reading.CardReadings[i].Interpretation))
	}
	return m.theme.Focus.Render(strings.Join(lines, "\n")) + "\n"
}
