// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/swiki/internal/site"
	"github.com/starford/swiki/internal/watch"
	pkgconfig "github.com/starford/swiki/pkg/config"
)

// Run builds the wiki once and, in watch mode, keeps rebuilding on change
// until interrupted.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config
	if err := pkgconfig.Validate(cfg); err != nil {
		return err
	}

	logger := app.logger
	if logger == nil {
		// Initialize structured JSON logger.
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: cfg.App.LogLevel,
		}))
		slog.SetDefault(logger)
	}

	logger.Info("Configuration loaded",
		slog.String("input", cfg.Wiki.Input),
		slog.String("output", cfg.Wiki.Output),
		slog.Bool("fatfile", cfg.Wiki.Fatfile),
		slog.Bool("purge", cfg.Wiki.Purge),
		slog.Bool("watch", cfg.Watch.Enabled),
		slog.String("graph_path", cfg.Graph.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	siteOpts := cfg.SiteOptions()
	if _, err := site.Generate(ctx, siteOpts, logger); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	if !cfg.Watch.Enabled {
		return nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	watchCtx, stopWatch := context.WithCancel(gCtx)
	defer stopWatch()

	// Rebuild on source changes. Each rebuild purges again when enabled so
	// pages whose sources were renamed or removed disappear.
	g.Go(func() error {
		defer stopWatch()
		return watch.Watch(watchCtx, watch.Options{
			Root:     cfg.Wiki.Input,
			Ignore:   cfg.Wiki.Output,
			Debounce: cfg.Watch.Debounce,
		}, logger, func(ctx context.Context) error {
			_, err := site.Generate(ctx, siteOpts, logger)
			return err
		})
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-watchCtx.Done():
			logger.Info("Context cancelled, stopping watcher")
		}
		stopWatch()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Watcher stopped successfully")
	return nil
}
