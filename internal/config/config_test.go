package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/randomtoy/oura/internal/app"
	"github.com/randomtoy/oura/internal/config"
	"github.com/randomtoy/oura/internal/domain"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"HTTP_ADDR", "LOG_LEVEL", "OURA_LOCALE", "OURA_DEFAULT_SPREAD",
		"OURA_SESSION_IDLE_TTL", "OURA_REAP_INTERVAL", "OURA_CONFIG",
	} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	c, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.HTTPAddr != ":8080" || c.LogLevel != slog.LevelInfo || c.Locale != "zh-Hans" {
		t.Errorf("unexpected defaults: %+v", c)
	}
	if c.DefaultSpread != domain.SpreadRelationship {
		t.Errorf("expected relationship, got %s", c.DefaultSpread)
	}
	if c.SessionIdleTTL != 30*time.Minute || c.ReapInterval != time.Minute {
		t.Errorf("unexpected durations: %s %s", c.SessionIdleTTL, c.ReapInterval)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("OURA_LOCALE", "en")
	t.Setenv("OURA_DEFAULT_SPREAD", "celtic_cross")
	t.Setenv("OURA_SESSION_IDLE_TTL", "5m")
	t.Setenv("OURA_REAP_INTERVAL", "10s")
	path := writeFile(t, "breathing:\n  cycles: 1\n  inhale: 1s\n")
	t.Setenv("OURA_CONFIG", path)

	c, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.HTTPAddr != ":9090" || c.LogLevel != slog.LevelDebug || c.Locale != "en" {
		t.Errorf("unexpected config: %+v", c)
	}
	if c.DefaultSpread != domain.SpreadCelticCross {
		t.Errorf("expected celtic_cross, got %s", c.DefaultSpread)
	}
	if c.SessionIdleTTL != 5*time.Minute || c.ReapInterval != 10*time.Second {
		t.Errorf("unexpected durations: %s %s", c.SessionIdleTTL, c.ReapInterval)
	}
	if c.ConfigPath != path || c.Timings.Breathing.Cycles != 1 || c.Timings.Breathing.Inhale != time.Second {
		t.Errorf("timing file not applied: %+v", c.Timings.Breathing)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name, key, value, want string
	}{
		{"log level", "LOG_LEVEL", "loud", "LOG_LEVEL"},
		{"spread", "OURA_DEFAULT_SPREAD", "tower", "OURA_DEFAULT_SPREAD"},
		{"ttl", "OURA_SESSION_IDLE_TTL", "soon", "OURA_SESSION_IDLE_TTL"},
		{"negative interval", "OURA_REAP_INTERVAL", "-1s", "OURA_REAP_INTERVAL"},
		{"missing explicit file", "OURA_CONFIG", "/nonexistent/oura.yaml", "timing file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := config.Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadTimings(t *testing.T) {
	base := app.DefaultTimings()
	path := writeFile(t, `
shuffle:
  tick: 500ms
connection:
  min_interval: 100ms
  max_interval: 300ms
`)
	got, err := config.LoadTimings(path, base)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Shuffle.Tick != 500*time.Millisecond || got.Shuffle.Pool != base.Shuffle.Pool {
		t.Errorf("unexpected shuffle timings: %+v", got.Shuffle)
	}
	if got.Connection.MinInterval != 100*time.Millisecond || got.Connection.MaxInterval != 300*time.Millisecond {
		t.Errorf("unexpected connection timings: %+v", got.Connection)
	}
	if got.Breathing != base.Breathing {
		t.Errorf("breathing changed: %+v", got.Breathing)
	}
}

func TestLoadTimings_Empty(t *testing.T) {
	got, err := config.LoadTimings(writeFile(t, ""), app.DefaultTimings())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != app.DefaultTimings() {
		t.Errorf("empty file changed timings: %+v", got)
	}
}

func TestLoadTimings_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad duration":   "breathing:\n  inhale: forever\n",
		"unknown key":    "breathing:\n  tempo: 3\n",
		"zero cycles":    "breathing:\n  cycles: 0\n",
		"inverted range": "connection:\n  min_interval: 1s\n  max_interval: 10ms\n",
		"empty pool":     "shuffle:\n  pool: 0\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := config.LoadTimings(writeFile(t, body), app.DefaultTimings()); err == nil {
				t.Error("expected error")
			}
		})
	}
}
