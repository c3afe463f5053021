// Package site runs one full wiki rebuild: discovery, freeze, render, publish.
package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"time"

	"github.com/starford/swiki/internal/apperr"
	"github.com/starford/swiki/internal/graph"
	"github.com/starford/swiki/internal/index"
	"github.com/starford/swiki/internal/publish"
	"github.com/starford/swiki/internal/registry"
	"github.com/starford/swiki/internal/render"
	"github.com/starford/swiki/internal/slug"
	"github.com/starford/swiki/internal/storage"
)

// Options configures a rebuild.
type Options struct {
	Input          string
	Output         string
	SystemDir      string
	FrameFile      string
	IndexFile      string
	Fatfile        bool
	Purge          bool
	HighlightStyle string
	Workers        int
	// GraphDB, when set, is the SQLite file the frozen graph is exported to.
	GraphDB string
}

// Result summarizes a rebuild.
type Result struct {
	Stats    registry.Stats
	Written  []string
	Purged   int
	Duration time.Duration
}

// Generate rebuilds the whole wiki from opts.Input into opts.Output.
// Configuration problems are reported before anything is written.
func Generate(ctx context.Context, opts Options, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	src, err := storage.NewFS(opts.Input)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("site: %w: %s", apperr.ErrInputNotFound, opts.Input)
		}
		return nil, fmt.Errorf("site: %w", err)
	}

	framePath := path.Join(opts.SystemDir, opts.FrameFile)
	if !src.Exists(framePath) {
		return nil, fmt.Errorf("site: %w: %s", apperr.ErrMissingSystemFile, framePath)
	}
	frame, err := src.Read(framePath)
	if err != nil {
		return nil, fmt.Errorf("site: read frame: %w", err)
	}

	builder := graph.NewBuilder(src, graph.Options{
		SystemDir: opts.SystemDir,
		IndexFile: opts.IndexFile,
		Workers:   opts.Workers,
	}, logger)
	g, err := builder.Build(ctx)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(opts.Output, 0o755); err != nil {
		return nil, fmt.Errorf("site: %w: %v", apperr.ErrInvalidOutput, err)
	}
	out, err := storage.NewFS(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("site: %w: %v", apperr.ErrInvalidOutput, err)
	}

	pub := publish.NewPublisher(src, out, render.New(render.Options{HighlightStyle: opts.HighlightStyle}), string(frame),
		publish.Options{Fatfile: opts.Fatfile, SystemDir: opts.SystemDir}, logger)

	res := &Result{Stats: g.Stats()}
	if opts.Purge {
		n, err := pub.Purge()
		if err != nil {
			return nil, err
		}
		res.Purged = n
	}

	published, err := pub.Publish(ctx, g)
	if err != nil {
		return nil, err
	}
	res.Written = published.Written

	if opts.GraphDB != "" {
		if err := exportGraph(opts.GraphDB, g, logger); err != nil {
			return nil, err
		}
	}

	res.Duration = time.Since(start)
	logger.Info("site: rebuild complete",
		slog.String("input", src.Root()),
		slog.String("output", out.Root()),
		slog.Int("pages", res.Stats.Pages),
		slog.Int("stubs", res.Stats.Stubs),
		slog.Int("files", len(res.Written)),
		slog.Int("purged", res.Purged),
		slog.Duration("duration", res.Duration))
	return res, nil
}

// exportGraph writes g to the SQLite file at dsn and reads the result back
// to confirm the index row landed.
func exportGraph(dsn string, g *registry.Graph, logger *slog.Logger) error {
	conn, err := index.Open(dsn)
	if err != nil {
		return fmt.Errorf("site: %w", err)
	}
	var db index.GraphIndex = conn
	defer db.Close()

	if err := db.Export(g); err != nil {
		return fmt.Errorf("site: %w", err)
	}
	if _, err := db.GetPage(slug.Index); err != nil {
		return fmt.Errorf("site: verify export: %w", err)
	}
	stubs, err := db.Stubs()
	if err != nil {
		return fmt.Errorf("site: %w", err)
	}
	logger.Info("site: graph exported",
		slog.String("path", dsn),
		slog.Int("stubs", len(stubs)))
	return nil
}
