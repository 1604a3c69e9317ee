package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpadapter "github.com/randomtoy/oura/internal/adapters/http"
	"github.com/randomtoy/oura/internal/adapters/locale"
	"github.com/randomtoy/oura/internal/adapters/sse"
	"github.com/randomtoy/oura/internal/adapters/storage/memory"
	"github.com/randomtoy/oura/internal/app"
	"github.com/randomtoy/oura/internal/clock"
	"github.com/randomtoy/oura/internal/config"
)

const shutdownTimeout = 10 * time.Second

func NewServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve ritual sessions over HTTP with server-sent events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if addr != "" {
				cfg.HTTPAddr = addr
			}

			logger := newLogger(os.Stdout, cfg.LogLevel)
			slog.SetDefault(logger)
			return serve(cmd.Context(), cfg, logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides HTTP_ADDR)")
	return cmd
}

func serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	catalog := locale.NewCatalog()
	if _, err := catalog.Localizer(cfg.Locale); err != nil {
		return fmt.Errorf("load string tables: %w", err)
	}

	loop := clock.NewLoop(256, logger)
	events := sse.NewBroadcaster(logger)
	mgr := app.NewManager(loop, loop, memory.NewStore[*app.Session](), stdRNG{}, cfg.Timings, events, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(httpadapter.RequestIDMiddleware())
	e.Use(httpadapter.LoggingMiddleware(logger))

	handler := httpadapter.NewHandler(mgr, catalog, events, cfg.DefaultSpread, cfg.Locale, logger)
	handler.Register(e)

	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return loop.Run(loopCtx)
	})
	g.Go(func() error {
		logger.Info("starting server", "addr", cfg.HTTPAddr, "config", cfg.ConfigPath)
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return mgr.RunReaper(gctx, cfg.ReapInterval, cfg.SessionIdleTTL)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// Closing sessions ends their event streams so Shutdown does not
		// wait on them.
		if err := mgr.Close(shutdownCtx); err != nil {
			logger.Error("close sessions", "error", err)
		}
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
		stopLoop()
		return nil
	})

	return g.Wait()
}
