// Package slug maps page titles to the identifiers used as registry keys and
// output file stems.
package slug

import "strings"

// ReservedSuffix is appended to a slug that collides with a system page name.
const ReservedSuffix = "_"

// Reserved names are owned by generated system pages.
const (
	Index   = "index"
	Fatfile = "fatfile"
)

var reserved = map[string]struct{}{
	Index:   {},
	Fatfile: {},
}

// Normalize replaces every space with a hyphen and lowercases the result.
func Normalize(title string) string {
	return strings.ToLower(strings.ReplaceAll(title, " ", "-"))
}

// IsReserved reports whether s names a system page.
func IsReserved(s string) bool {
	_, ok := reserved[s]
	return ok
}

// Disambiguate appends ReservedSuffix when s collides with a reserved name.
func Disambiguate(s string) string {
	if IsReserved(s) {
		return s + ReservedSuffix
	}
	return s
}

// Resolve returns the page slug for a title: Normalize followed by
// Disambiguate. Link targets and document titles both go through Resolve so
// that a link to "Index" reaches the user page, not the sitemap.
func Resolve(title string) string {
	return Disambiguate(Normalize(title))
}

// FileStem maps a slug to a flat, path-safe output file stem. Path
// separators and leading dots become hyphens so every page lands directly in
// the output folder. Registry keys keep the unmapped slug.
func FileStem(s string) string {
	s = strings.NewReplacer("/", "-", `\`, "-").Replace(s)
	trimmed := strings.TrimLeft(s, ".")
	if n := len(s) - len(trimmed); n > 0 {
		s = strings.Repeat("-", n) + trimmed
	}
	if s == "" {
		return "-"
	}
	return s
}

// FileName returns the output file name for a slug.
func FileName(s string) string {
	return FileStem(s) + ".html"
}
