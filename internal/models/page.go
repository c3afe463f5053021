// Package models defines the domain types for swiki.
package models

import "time"

// Backlink is a directed edge from the page that references another page.
type Backlink struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// Document holds the fields parsed from a real source file.
type Document struct {
	Folder      string
	Title       string
	Description string
	Content     string
	Links       []string
	Checksum    string
	IsIndexPage bool
}

// PageRecord is one wiki page, either backed by a source document or a stub
// created because another page linked to it.
type PageRecord struct {
	Folder        string     `json:"folder,omitempty"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	RawContent    *string    `json:"raw_content,omitempty"`
	OutgoingLinks []string   `json:"outgoing_links,omitempty"`
	Backlinks     []Backlink `json:"backlinks,omitempty"`
	Checksum      string     `json:"checksum,omitempty"`
	IsIndexPage   bool       `json:"is_index_page"`
	Exists        bool       `json:"exists"`
}

// Entry pairs a record with its slug for ordered iteration.
type Entry struct {
	Slug   string
	Record PageRecord
}

// Clone returns a deep copy so callers cannot alias registry-owned slices.
func (p PageRecord) Clone() PageRecord {
	out := p
	if p.RawContent != nil {
		c := *p.RawContent
		out.RawContent = &c
	}
	out.OutgoingLinks = append([]string(nil), p.OutgoingLinks...)
	out.Backlinks = append([]Backlink(nil), p.Backlinks...)
	return out
}

// FileMeta describes a file found under a storage root.
type FileMeta struct {
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}
