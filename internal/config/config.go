package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/randomtoy/oura/internal/app"
	"github.com/randomtoy/oura/internal/domain"
)

// DefaultConfigFile is the timing file looked up under the XDG config
// directories when OURA_CONFIG is not set.
const DefaultConfigFile = "oura/config.yaml"

type Config struct {
	HTTPAddr       string
	LogLevel       slog.Level
	Locale         string
	DefaultSpread  domain.SpreadType
	SessionIdleTTL time.Duration
	ReapInterval   time.Duration
	ConfigPath     string
	Timings        app.Timings
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	c := Config{
		HTTPAddr: envOr("HTTP_ADDR", ":8080"),
		Locale:   envOr("OURA_LOCALE", "zh-Hans"),
		Timings:  app.DefaultTimings(),
	}

	level, err := parseLogLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}
	c.LogLevel = level

	c.DefaultSpread, err = domain.ParseSpreadType(envOr("OURA_DEFAULT_SPREAD", string(domain.SpreadRelationship)))
	if err != nil {
		return Config{}, fmt.Errorf("invalid OURA_DEFAULT_SPREAD: %w", err)
	}

	if c.SessionIdleTTL, err = durationEnv("OURA_SESSION_IDLE_TTL", 30*time.Minute); err != nil {
		return Config{}, err
	}
	if c.ReapInterval, err = durationEnv("OURA_REAP_INTERVAL", time.Minute); err != nil {
		return Config{}, err
	}

	path, explicit := os.Getenv("OURA_CONFIG"), true
	if path == "" {
		explicit = false
		if found, err := xdg.SearchConfigFile(DefaultConfigFile); err == nil {
			path = found
		}
	}
	if path != "" {
		t, err := LoadTimings(path, c.Timings)
		if err != nil && (explicit || !errors.Is(err, fs.ErrNotExist)) {
			return Config{}, err
		}
		if err == nil {
			c.Timings = t
			c.ConfigPath = path
		}
	}

	return c, nil
}

// LoadTimings overlays the YAML file at path on base. Keys missing from the
// file keep their base value; unknown keys are an error.
func LoadTimings(path string, base app.Timings) (app.Timings, error) {
	f, err := os.Open(path)
	if err != nil {
		return app.Timings{}, fmt.Errorf("open timing file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	t := base
	if err := dec.Decode(&t); err != nil && !errors.Is(err, io.EOF) {
		return app.Timings{}, fmt.Errorf("parse timing file %s: %w", path, err)
	}
	if err := validateTimings(t); err != nil {
		return app.Timings{}, fmt.Errorf("timing file %s: %w", path, err)
	}
	return t, nil
}

func validateTimings(t app.Timings) error {
	b := t.Breathing
	switch {
	case b.Cycles < 1:
		return fmt.Errorf("breathing.cycles must be at least 1, got %d", b.Cycles)
	case b.Inhale <= 0 || b.Hold < 0 || b.Exhale <= 0:
		return fmt.Errorf("breathing durations must be positive")
	case b.Tick <= 0:
		return fmt.Errorf("breathing.tick must be positive")
	}

	s := t.Shuffle
	switch {
	case s.Pool < 1:
		return fmt.Errorf("shuffle.pool must be at least 1, got %d", s.Pool)
	case s.Tick <= 0:
		return fmt.Errorf("shuffle.tick must be positive")
	case s.SettleDelay < 0 || s.Stagger < 0 || s.Sweep < 0:
		return fmt.Errorf("shuffle delays must not be negative")
	}

	c := t.Connection
	switch {
	case c.Pool < 1:
		return fmt.Errorf("connection.pool must be at least 1, got %d", c.Pool)
	case c.MinInterval <= 0 || c.MaxInterval < c.MinInterval:
		return fmt.Errorf("connection interval bounds %s..%s are invalid", c.MinInterval, c.MaxInterval)
	case c.HoldDelay < 0 || c.CompleteDelay < 0:
		return fmt.Errorf("connection delays must not be negative")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, v)
	}
	return d, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
}
