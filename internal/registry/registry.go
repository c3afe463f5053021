// Package registry owns every page record discovered during a build.
//
// Records are created either from a real source document or as stubs when a
// link to an unknown page is encountered. Callers never receive pointers into
// the registry; reads return copies. Once Freeze is called the registry hands
// out a read-only Graph for rendering.
package registry

import (
	"sort"
	"sync"

	"github.com/starford/swiki/internal/models"
)

// Registry is the mutable page graph used while building.
type Registry struct {
	mu        sync.Mutex
	records   map[string]*models.PageRecord
	order     []string
	indexSlug string
	frozen    bool
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{records: make(map[string]*models.PageRecord)}
}

// GetOrCreateStub returns the record stored at slug, inserting a stub titled
// title when none exists.
func (r *Registry) GetOrCreateStub(slug, title string) models.PageRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getOrCreateStub(slug, title).Clone()
}

func (r *Registry) getOrCreateStub(slug, title string) *models.PageRecord {
	r.mustBeMutable()
	if rec, ok := r.records[slug]; ok {
		return rec
	}
	rec := &models.PageRecord{Title: title}
	r.records[slug] = rec
	r.order = append(r.order, slug)
	return rec
}

// MergeReal applies a parsed document to the record at slug. Backlinks
// accumulated while the record was a stub survive; the document's title
// replaces the placeholder title. It reports false when slug already belongs
// to another real document, in which case the record is left untouched.
func (r *Registry) MergeReal(slug string, doc models.Document) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := r.getOrCreateStub(slug, doc.Title)
	if rec.Exists {
		return false
	}

	content := doc.Content
	rec.Folder = doc.Folder
	rec.Title = doc.Title
	rec.Description = doc.Description
	rec.RawContent = &content
	rec.OutgoingLinks = append([]string(nil), doc.Links...)
	rec.Checksum = doc.Checksum
	rec.Exists = true

	if doc.IsIndexPage && r.indexSlug == "" {
		rec.IsIndexPage = true
		r.indexSlug = slug
	}
	return true
}

// AddBacklink appends edge to the backlinks of target, creating a stub titled
// linkTitle when target is unknown.
func (r *Registry) AddBacklink(target, linkTitle string, edge models.Backlink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := r.getOrCreateStub(target, linkTitle)
	rec.Backlinks = append(rec.Backlinks, edge)
}

// Lookup returns a copy of the record at slug.
func (r *Registry) Lookup(slug string) (models.PageRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[slug]
	if !ok {
		return models.PageRecord{}, false
	}
	return rec.Clone(), true
}

// All returns copies of every record in insertion order.
func (r *Registry) All() []models.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries()
}

func (r *Registry) entries() []models.Entry {
	out := make([]models.Entry, 0, len(r.order))
	for _, s := range r.order {
		out = append(out, models.Entry{Slug: s, Record: r.records[s].Clone()})
	}
	return out
}

// Len returns the number of records.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Freeze ends the build phase. Any later mutation panics.
func (r *Registry) Freeze() *Graph {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true

	entries := r.entries()
	sort.Slice(entries, func(i, j int) bool { return entries[i].Slug < entries[j].Slug })

	g := &Graph{
		entries: entries,
		bySlug:  make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		g.bySlug[e.Slug] = i
	}
	g.indexSlug = r.indexSlug
	return g
}

func (r *Registry) mustBeMutable() {
	if r.frozen {
		panic("registry: mutation after freeze")
	}
}

// Graph is the frozen, read-only view handed to rendering.
type Graph struct {
	entries   []models.Entry
	bySlug    map[string]int
	indexSlug string
}

// All returns every entry sorted by slug, including the index page and stubs.
func (g *Graph) All() []models.Entry {
	out := make([]models.Entry, len(g.entries))
	for i, e := range g.entries {
		out[i] = models.Entry{Slug: e.Slug, Record: e.Record.Clone()}
	}
	return out
}

// Pages returns every entry except the index page, sorted by slug.
func (g *Graph) Pages() []models.Entry {
	out := make([]models.Entry, 0, len(g.entries))
	for _, e := range g.entries {
		if e.Record.IsIndexPage {
			continue
		}
		out = append(out, models.Entry{Slug: e.Slug, Record: e.Record.Clone()})
	}
	return out
}

// Lookup returns a copy of the record at slug.
func (g *Graph) Lookup(slug string) (models.PageRecord, bool) {
	i, ok := g.bySlug[slug]
	if !ok {
		return models.PageRecord{}, false
	}
	return g.entries[i].Record.Clone(), true
}

// Index returns the index page record, if one was registered.
func (g *Graph) Index() (models.Entry, bool) {
	if g.indexSlug == "" {
		return models.Entry{}, false
	}
	rec, _ := g.Lookup(g.indexSlug)
	return models.Entry{Slug: g.indexSlug, Record: rec}, true
}

// Stats summarizes the graph.
type Stats struct {
	Pages int
	Stubs int
	Links int
}

// Stats counts real pages, stubs, and backlink edges, excluding the index page.
func (g *Graph) Stats() Stats {
	var s Stats
	for _, e := range g.entries {
		if e.Record.IsIndexPage {
			continue
		}
		if e.Record.Exists {
			s.Pages++
		} else {
			s.Stubs++
		}
		s.Links += len(e.Record.Backlinks)
	}
	return s
}
