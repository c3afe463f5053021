// Package storage defines the file-system abstraction for source and output trees.
package storage

import "github.com/starford/swiki/internal/models"

// Provider is the interface for file operations relative to a root directory.
type Provider interface {
	// Root returns the absolute root directory.
	Root() string
	// List returns metadata for every file under dir whose name ends in ext.
	List(dir, ext string) ([]models.FileMeta, error)
	// Glob returns root-relative paths matching pattern directly under dir.
	Glob(dir, pattern string) ([]string, error)
	// Exists reports whether a regular file exists at path.
	Exists(path string) bool
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Delete removes the file at path.
	Delete(path string) error
}
