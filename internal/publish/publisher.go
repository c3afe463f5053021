// Package publish writes the rendered wiki: one file per page, the sitemap
// index, the optional fatfile, and copied stylesheets.
package publish

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/starford/swiki/internal/apperr"
	"github.com/starford/swiki/internal/models"
	"github.com/starford/swiki/internal/registry"
	"github.com/starford/swiki/internal/render"
	"github.com/starford/swiki/internal/slug"
	"github.com/starford/swiki/internal/storage"
)

// FatfileTitle is the frame title of the concatenated page.
const FatfileTitle = "All pages"

// Options configures a Publisher.
type Options struct {
	// Fatfile enables fatfile.html.
	Fatfile bool
	// SystemDir is the source folder whose stylesheets are copied.
	SystemDir string
}

// Result summarizes a publish run.
type Result struct {
	Pages   int
	Stubs   int
	Written []string
}

// Publisher writes rendered output.
type Publisher struct {
	src      storage.Provider
	out      storage.Provider
	renderer *render.Renderer
	frame    string
	opts     Options
	logger   *slog.Logger
}

// NewPublisher creates a Publisher. frame is the page template text.
func NewPublisher(src, out storage.Provider, r *render.Renderer, frame string, opts Options, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{src: src, out: out, renderer: r, frame: frame, opts: opts, logger: logger}
}

// Purge deletes every HTML file directly inside the output directory.
func (p *Publisher) Purge() (int, error) {
	files, err := p.out.Glob("", "*.html")
	if err != nil {
		return 0, fmt.Errorf("publish: purge: %w", err)
	}
	for _, f := range files {
		if err := p.out.Delete(f); err != nil {
			return 0, fmt.Errorf("publish: purge: %w", err)
		}
		p.logger.Debug("publish: purged", slog.String("path", f))
	}
	return len(files), nil
}

// Publish renders every page of the frozen graph and writes the output tree.
func (p *Publisher) Publish(ctx context.Context, g *registry.Graph) (*Result, error) {
	index, ok := g.Index()
	if !ok {
		return nil, fmt.Errorf("publish: %w: index page not registered", apperr.ErrMissingSystemFile)
	}

	res := &Result{}
	groups := newSitemap()
	var fat strings.Builder

	for _, e := range g.Pages() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := p.renderer.Page(e)
		if err != nil {
			return nil, err
		}
		if err := p.write(res, slug.FileName(e.Slug), render.FillFrame(p.frame, page.Title, page.Description, page.Main)); err != nil {
			return nil, err
		}
		groups.add(e, page.Title)

		if e.Record.Exists {
			res.Pages++
			fat.WriteString(render.PlaceInContainer("article", "", render.StripIDs(page.Article)))
		} else {
			res.Stubs++
		}
	}

	sitemap, err := p.renderer.Sitemap(index, groups.sorted())
	if err != nil {
		return nil, err
	}
	if err := p.write(res, slug.Index+".html", render.FillFrame(p.frame, sitemap.Title, sitemap.Description, sitemap.Main)); err != nil {
		return nil, err
	}

	if p.opts.Fatfile {
		body := render.PlaceInContainer("main", "", fat.String())
		if err := p.write(res, slug.Fatfile+".html", render.FillFrame(p.frame, FatfileTitle, "", body)); err != nil {
			return nil, err
		}
	}

	if err := p.copyStylesheets(res); err != nil {
		return nil, err
	}

	p.logger.Info("publish: complete",
		slog.Int("pages", res.Pages),
		slog.Int("stubs", res.Stubs),
		slog.Int("files", len(res.Written)))
	return res, nil
}

// copyStylesheets copies every .css file in the system folder byte-for-byte.
func (p *Publisher) copyStylesheets(res *Result) error {
	sheets, err := p.src.Glob(p.opts.SystemDir, "*.css")
	if err != nil {
		return fmt.Errorf("publish: find stylesheets: %w", err)
	}
	for _, s := range sheets {
		data, err := p.src.Read(s)
		if err != nil {
			return fmt.Errorf("publish: copy stylesheet: %w", err)
		}
		if err := p.writeBytes(res, path.Base(s), data); err != nil {
			return err
		}
	}
	return nil
}

func (p *Publisher) write(res *Result, name, content string) error {
	return p.writeBytes(res, name, []byte(content))
}

func (p *Publisher) writeBytes(res *Result, name string, data []byte) error {
	if err := p.out.Write(name, data); err != nil {
		return fmt.Errorf("publish: write %s: %w", name, err)
	}
	res.Written = append(res.Written, name)
	p.logger.Debug("publish: wrote", slog.String("path", name))
	return nil
}

// sitemap groups pages by source folder; stubs share their own group.
type sitemap struct {
	folders map[string][]render.Link
	stubs   []render.Link
}

func newSitemap() *sitemap {
	return &sitemap{folders: make(map[string][]render.Link)}
}

func (s *sitemap) add(e models.Entry, title string) {
	link := render.Link{Title: title, Slug: e.Slug}
	if !e.Record.Exists {
		s.stubs = append(s.stubs, link)
		return
	}
	s.folders[e.Record.Folder] = append(s.folders[e.Record.Folder], link)
}

// sorted returns the root group first, then folders ordered
// case-insensitively, with the stub group last. Pages sort by title.
func (s *sitemap) sorted() []render.Group {
	names := make([]string, 0, len(s.folders))
	for name := range s.folders {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if names[i] == "" || names[j] == "" {
			return names[i] == ""
		}
		li, lj := strings.ToLower(names[i]), strings.ToLower(names[j])
		if li != lj {
			return li < lj
		}
		return names[i] < names[j]
	})

	groups := make([]render.Group, 0, len(names)+1)
	for _, name := range names {
		label := name
		if label == "" {
			label = render.RootGroup
		}
		groups = append(groups, render.Group{Name: label, Links: sortLinks(s.folders[name])})
	}
	if len(s.stubs) > 0 {
		groups = append(groups, render.Group{Name: render.StubGroup, Links: sortLinks(s.stubs)})
	}
	return groups
}

func sortLinks(links []render.Link) []render.Link {
	sort.SliceStable(links, func(i, j int) bool {
		ti, tj := strings.ToLower(links[i].Title), strings.ToLower(links[j].Title)
		if ti != tj {
			return ti < tj
		}
		return links[i].Slug < links[j].Slug
	})
	return links
}
