// Package graph walks a source tree and builds the page registry: one record
// per document, stub records for unresolved link targets, and backlink edges.
package graph

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/starford/swiki/internal/apperr"
	"github.com/starford/swiki/internal/checksum"
	"github.com/starford/swiki/internal/models"
	"github.com/starford/swiki/internal/parser"
	"github.com/starford/swiki/internal/registry"
	"github.com/starford/swiki/internal/slug"
	"github.com/starford/swiki/internal/storage"
)

// PrivateMarker prefixes files and folders that are skipped by the walk.
const PrivateMarker = "_"

// Options configures a Builder.
type Options struct {
	// SystemDir is the root-relative folder holding the frame, index, and stylesheets.
	SystemDir string
	// IndexFile is the index document's name inside SystemDir.
	IndexFile string
	// Workers bounds concurrent file reads and parses.
	Workers int
}

// Builder performs the discovery pass.
type Builder struct {
	store  storage.Provider
	opts   Options
	logger *slog.Logger
}

// NewBuilder creates a Builder reading from store.
func NewBuilder(store storage.Provider, opts Options, logger *slog.Logger) *Builder {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{store: store, opts: opts, logger: logger}
}

type parsed struct {
	slug string
	doc  models.Document
}

// Build walks the source tree and returns the frozen page graph. Every
// document is scanned before Build returns, so backlinks are complete.
func (b *Builder) Build(ctx context.Context) (*registry.Graph, error) {
	reg := registry.New()

	if err := b.registerIndex(reg); err != nil {
		return nil, err
	}

	files, err := b.store.List("", ".md")
	if err != nil {
		return nil, fmt.Errorf("graph: walk: %w", err)
	}

	var pages []models.FileMeta
	for _, f := range files {
		if IsPrivate(f.Path) {
			continue
		}
		pages = append(pages, f)
	}

	docs := make([]parsed, len(pages))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Workers)
	for i, f := range pages {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			p, err := b.parseFile(f.Path)
			if err != nil {
				return err
			}
			docs[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Mutations are applied in walk order so the first claim on a slug is
	// deterministic regardless of parse scheduling.
	for i, p := range docs {
		if existing, ok := reg.Lookup(p.slug); ok && existing.Exists {
			b.logger.Warn("graph: duplicate slug, keeping first document",
				slog.String("slug", p.slug),
				slog.String("path", pages[i].Path),
				slog.String("kept_title", existing.Title))
			continue
		}
		edge := models.Backlink{Title: p.doc.Title, Slug: p.slug}
		for _, link := range p.doc.Links {
			reg.AddBacklink(slug.Resolve(link), link, edge)
		}
		reg.MergeReal(p.slug, p.doc)
		b.logger.Debug("graph: page registered",
			slog.String("slug", p.slug),
			slog.String("path", pages[i].Path),
			slog.Int("links", len(p.doc.Links)))
	}

	frozen := reg.Freeze()
	stats := frozen.Stats()
	b.logger.Info("graph: build complete",
		slog.Int("pages", stats.Pages),
		slog.Int("stubs", stats.Stubs),
		slog.Int("backlinks", stats.Links))
	return frozen, nil
}

func (b *Builder) parseFile(rel string) (parsed, error) {
	data, err := b.store.Read(rel)
	if err != nil {
		return parsed{}, fmt.Errorf("graph: read %s: %w", rel, err)
	}
	res := parser.Parse(data)
	if res.Malformed {
		b.logger.Warn("graph: unreadable frontmatter, using raw content", slog.String("path", rel))
	}

	stem := strings.TrimSuffix(path.Base(rel), path.Ext(rel))
	title := res.Title()
	s := slug.Resolve(stem)
	if title != "" {
		s = slug.Resolve(title)
	} else {
		title = s
	}

	folder := path.Dir(rel)
	if folder == "." {
		folder = ""
	}

	return parsed{
		slug: s,
		doc: models.Document{
			Folder:      folder,
			Title:       title,
			Description: res.Description(),
			Content:     res.Body,
			Links:       res.Links,
			Checksum:    checksum.Sum(data),
		},
	}, nil
}

// registerIndex stores the index document under the reserved index slug. Its
// links are rendered but contribute no backlinks.
func (b *Builder) registerIndex(reg *registry.Registry) error {
	rel := path.Join(b.opts.SystemDir, b.opts.IndexFile)
	if !b.store.Exists(rel) {
		return fmt.Errorf("graph: %w: %s", apperr.ErrMissingSystemFile, rel)
	}
	data, err := b.store.Read(rel)
	if err != nil {
		return fmt.Errorf("graph: read index: %w", err)
	}
	res := parser.Parse(data)
	if res.Malformed {
		b.logger.Warn("graph: unreadable index frontmatter, using raw content", slog.String("path", rel))
	}
	reg.MergeReal(slug.Index, models.Document{
		Title:       res.Title(),
		Description: res.Description(),
		Content:     res.Body,
		Links:       res.Links,
		Checksum:    checksum.Sum(data),
		IsIndexPage: true,
	})
	return nil
}

// IsPrivate reports whether any component of the slash-separated path begins
// with PrivateMarker.
func IsPrivate(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, PrivateMarker) {
			return true
		}
	}
	return false
}
