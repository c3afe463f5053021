// Package testutil provides shared test helpers for setting up source trees.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/swiki/internal/storage"
)

// Frame is a minimal page template carrying the three placeholders.
const Frame = `<!DOCTYPE html><html><head><title>{{title}}</title>` +
	`<meta name="description" content="{{description}}"></head>` +
	`<body>{{content}}</body></html>`

// Index is a minimal index document.
const Index = "---\ntitle: My Wiki\ndescription: All pages\n---\nWelcome to the wiki.\n"

// WriteTree writes files (root-relative path → content) under dir.
func WriteTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

// TestSource creates a temporary source tree containing the system frame and
// index plus the given pages, and returns its path and a storage.Provider.
func TestSource(t *testing.T, pages map[string]string) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"_swiki/frame.html": Frame,
		"_swiki/index.md":   Index,
	}
	for k, v := range pages {
		files[k] = v
	}
	WriteTree(t, dir, files)
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// TestOutput creates an empty output directory with a storage.Provider.
func TestOutput(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}
