package tui

import (
	"log/slog"

	"github.com/randomtoy/oura/internal/app"
	"github.com/randomtoy/oura/internal/clock"
	"github.com/randomtoy/oura/internal/domain"
	"github.com/randomtoy/oura/internal/ports"
	"github.com/randomtoy/oura/internal/ritual"
)

type Deps struct {
	// Exec and Sched are usually the same clock.Loop.
	Exec  clock.Executor
	Sched clock.Scheduler

	Localizer     ports.Localizer
	RNG           ritual.RNG
	Timings       app.Timings
	DefaultSpread domain.SpreadType

	Logger *slog.Logger
}
