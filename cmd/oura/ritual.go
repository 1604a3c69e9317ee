package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"

	"github.com/randomtoy/oura/internal/adapters/locale"
	"github.com/randomtoy/oura/internal/adapters/tui"
	"github.com/randomtoy/oura/internal/clock"
	"github.com/randomtoy/oura/internal/config"
	"github.com/randomtoy/oura/internal/domain"
)

const logFile = "oura/oura.log"

func NewRitualCmd() *cobra.Command {
	var (
		spread string
		lang   string
	)

	cmd := &cobra.Command{
		Use:   "ritual",
		Short: "Walk through the ritual in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if spread != "" {
				if cfg.DefaultSpread, err = domain.ParseSpreadType(spread); err != nil {
					return err
				}
			}
			if lang != "" {
				cfg.Locale = lang
			}

			logger, cleanup := fileLogger(cfg.LogLevel)
			defer cleanup()

			loc, err := locale.NewCatalog().Localizer(cfg.Locale)
			if err != nil {
				return fmt.Errorf("load string tables: %w", err)
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			loop := clock.NewLoop(256, logger)
			go func() { _ = loop.Run(ctx) }()

			return tui.Run(tui.Deps{
				Exec:          loop,
				Sched:         loop,
				Localizer:     loc,
				RNG:           stdRNG{},
				Timings:       cfg.Timings,
				DefaultSpread: cfg.DefaultSpread,
				Logger:        logger,
			})
		},
	}

	cmd.Flags().StringVarP(&spread, "spread", "s", "", "preselected spread type")
	cmd.Flags().StringVar(&lang, "lang", "", "display language (zh-Hans or en)")
	return cmd
}

// fileLogger writes to the XDG state directory. The terminal belongs to the
// UI, so logs are discarded when the file cannot be opened.
func fileLogger(level slog.Level) (*slog.Logger, func()) {
	path, err := xdg.StateFile(logFile)
	if err != nil {
		return newLogger(io.Discard, level), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return newLogger(io.Discard, level), func() {}
	}
	logger := newLogger(f, level)
	logger.Info("logger.initialized", "path", path)
	return logger, func() { _ = f.Close() }
}
