package index

import "github.com/starford/swiki/internal/registry"

// GraphIndex defines the queries available on an exported graph.
type GraphIndex interface {
	Export(g *registry.Graph) error
	GetPage(slug string) (*PageRow, error)
	Stubs() ([]PageRow, error)
	Close() error
}

// Verify *DB satisfies GraphIndex at compile time.
var _ GraphIndex = (*DB)(nil)
