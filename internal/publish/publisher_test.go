package publish

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/starford/swiki/internal/apperr"
	"github.com/starford/swiki/internal/models"
	"github.com/starford/swiki/internal/registry"
	"github.com/starford/swiki/internal/render"
	"github.com/starford/swiki/internal/storage"
	"github.com/starford/swiki/internal/testutil"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixtureGraph() *registry.Graph {
	r := registry.New()
	r.MergeReal("index", models.Document{Title: "Home", Content: "Hello", IsIndexPage: true})
	r.AddBacklink("b", "B", models.Backlink{Title: "A", Slug: "a"})
	r.AddBacklink("ghost", "Ghost", models.Backlink{Title: "A", Slug: "a"})
	r.MergeReal("a", models.Document{Title: "A", Content: "# Intro\n{{B}} {{Ghost}}"})
	r.MergeReal("b", models.Document{Title: "B", Folder: "Zoo", Content: "## Part\nb body"})
	r.MergeReal("c", models.Document{Title: "c", Folder: "apple", Content: "c body"})
	return r.Freeze()
}

func newPublisher(t *testing.T, src, out storage.Provider, opts Options) *Publisher {
	t.Helper()
	return NewPublisher(src, out, render.New(render.Options{}), testutil.Frame, opts, quietLogger())
}

func read(t *testing.T, s storage.Provider, name string) string {
	t.Helper()
	data, err := s.Read(name)
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(data)
}

func TestPublish_WritesPagesSitemapAndFatfile(t *testing.T) {
	_, src := testutil.TestSource(t, nil)
	_, out := testutil.TestOutput(t)

	res, err := newPublisher(t, src, out, Options{Fatfile: true, SystemDir: "_swiki"}).Publish(context.Background(), fixtureGraph())
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if res.Pages != 3 || res.Stubs != 1 {
		t.Errorf("result = %+v", res)
	}
	for _, name := range []string{"a.html", "b.html", "c.html", "ghost.html", "index.html", "fatfile.html"} {
		if !out.Exists(name) {
			t.Errorf("%s not written", name)
		}
	}

	b := read(t, out, "b.html")
	if !strings.Contains(b, "<title>B</title>") || !strings.Contains(b, `<a href="a.html">A</a>`) {
		t.Errorf("b.html = %s", b)
	}

	index := read(t, out, "index.html")
	wantOrder := []string{"<h2>[root]</h2>", "<h2>apple</h2>", "<h2>Zoo</h2>", "<h2>[stubs]</h2>"}
	last := -1
	for _, w := range wantOrder {
		i := strings.Index(index, w)
		if i < 0 || i < last {
			t.Fatalf("sitemap group %q missing or out of order:\n%s", w, index)
		}
		last = i
	}
	if strings.Contains(index, `href="index.html"`) {
		t.Error("index page listed in its own sitemap")
	}

	fat := read(t, out, "fatfile.html")
	if strings.Contains(fat, ` id="`) {
		t.Errorf("fatfile contains id attributes: %s", fat)
	}
	for _, title := range []string{"<h1>A</h1>", "<h1>B</h1>", "<h1>c</h1>"} {
		if strings.Count(fat, title) != 1 {
			t.Errorf("fatfile should contain %q exactly once", title)
		}
	}
	if strings.Contains(fat, "Ghost</h1>") {
		t.Error("fatfile should exclude stubs")
	}
}

func TestSitemap_RootGroupFirst(t *testing.T) {
	s := newSitemap()
	for _, e := range []models.Entry{
		{Slug: "guide", Record: models.PageRecord{Title: "Guide", Folder: "0docs", Exists: true}},
		{Slug: "home", Record: models.PageRecord{Title: "Home", Exists: true}},
		{Slug: "lit", Record: models.PageRecord{Title: "Literal", Folder: "[root]", Exists: true}},
		{Slug: "ghost", Record: models.PageRecord{Title: "Ghost"}},
	} {
		s.add(e, e.Record.Title)
	}

	groups := s.sorted()
	want := [][2]string{
		{render.RootGroup, "home"},
		{"0docs", "guide"},
		{"[root]", "lit"},
		{render.StubGroup, "ghost"},
	}
	if len(groups) != len(want) {
		t.Fatalf("groups = %+v", groups)
	}
	for i, w := range want {
		g := groups[i]
		if g.Name != w[0] || len(g.Links) != 1 || g.Links[0].Slug != w[1] {
			t.Errorf("group %d = %+v, want %s with %s", i, g, w[0], w[1])
		}
	}
}

func TestPublish_NoFatfile(t *testing.T) {
	_, src := testutil.TestSource(t, nil)
	_, out := testutil.TestOutput(t)
	if _, err := newPublisher(t, src, out, Options{SystemDir: "_swiki"}).Publish(context.Background(), fixtureGraph()); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if out.Exists("fatfile.html") {
		t.Error("fatfile written while disabled")
	}
}

func TestPublish_CopiesStylesheet(t *testing.T) {
	css := "body { color: #333; }\n"
	_, src := testutil.TestSource(t, map[string]string{"_swiki/style.css": css})
	_, out := testutil.TestOutput(t)
	if _, err := newPublisher(t, src, out, Options{SystemDir: "_swiki"}).Publish(context.Background(), fixtureGraph()); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got := read(t, out, "style.css"); got != css {
		t.Errorf("style.css = %q", got)
	}
}

func TestPublish_RequiresIndex(t *testing.T) {
	_, src := testutil.TestSource(t, nil)
	_, out := testutil.TestOutput(t)
	r := registry.New()
	r.MergeReal("a", models.Document{Title: "A"})
	_, err := newPublisher(t, src, out, Options{}).Publish(context.Background(), r.Freeze())
	if !errors.Is(err, apperr.ErrMissingSystemFile) {
		t.Errorf("err = %v, want ErrMissingSystemFile", err)
	}
}

func TestPurge(t *testing.T) {
	_, src := testutil.TestSource(t, nil)
	_, out := testutil.TestOutput(t)
	_ = out.Write("text.html", []byte("old"))
	_ = out.Write("keep.css", []byte("css"))

	n, err := newPublisher(t, src, out, Options{}).Purge()
	if err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if n != 1 || out.Exists("text.html") {
		t.Errorf("purged %d, text.html exists = %v", n, out.Exists("text.html"))
	}
	if !out.Exists("keep.css") {
		t.Error("non-HTML file removed")
	}
}
