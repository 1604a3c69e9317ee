package tui

import (
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/randomtoy/oura/internal/domain"
)

// safeModel keeps a panic in Update or View from leaving the terminal in
// raw mode. The panic is logged and the last good state is kept.
type safeModel struct {
	m   model
	log *slog.Logger
}

func wrapSafe(m model, log *slog.Logger) safeModel {
	if log == nil {
		log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return safeModel{m: m, log: log}
}

func (s safeModel) Init() tea.Cmd {
	return s.m.Init()
}

func (s safeModel) Update(msg tea.Msg) (tm tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("panic.recovered",
				"where", "tui.update",
				"session", s.m.id,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			s.m.toast = s.errorText()
			tm = s
			cmd = nil
		}
	}()

	inner, c := s.m.Update(msg)

	if mm, ok := inner.(model); ok {
		s.m = mm
	} else if sm, ok := inner.(safeModel); ok {
		s = sm
	}

	return s, c
}

func (s safeModel) View() (out string) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("panic.recovered",
				"where", "tui.view",
				"session", s.m.id,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			out = s.errorText()
		}
	}()
	return s.m.View()
}

func (s safeModel) errorText() string {
	if s.m.loc == nil {
		return "unexpected error (see logs)"
	}
	return s.m.loc.Text(domain.Msg("app.error"))
}

var _ tea.Model = (*safeModel)(nil)
