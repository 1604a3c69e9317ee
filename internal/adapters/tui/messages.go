package tui

import (
	"time"

	"github.com/randomtoy/oura/internal/app"
	"github.com/randomtoy/oura/internal/ritual"
)

type sessionCreatedMsg struct {
	snap app.Snapshot
	err  error
}

type resultMsg struct {
	res app.Result
	err error
}

type snapshotMsg struct {
	snap app.Snapshot
	err  error
}

type pulseMsg struct {
	pulse ritual.Pulse
}

type frameMsg time.Time
