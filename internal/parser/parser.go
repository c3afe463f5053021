// Package parser extracts frontmatter and wikilinks from Markdown content.
package parser

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/starford/swiki/internal/slug"
)

var wikilinkRe = regexp.MustCompile(`\{\{(.+?)\}\}`)

// Result holds the output of parsing a Markdown file.
type Result struct {
	Metadata map[string]any
	Body     string
	Links    []string
	// Malformed is set when a frontmatter block was present but could not be
	// decoded; Metadata is then empty and Body is the raw input.
	Malformed bool
}

// Title returns the frontmatter title, or "" when absent.
func (r *Result) Title() string {
	return stringField(r.Metadata, "title")
}

// Description returns the frontmatter description, or "" when absent.
func (r *Result) Description() string {
	return stringField(r.Metadata, "description")
}

// Parse splits frontmatter from the body and extracts wikilinks from the body.
// It never fails: unreadable frontmatter yields empty metadata and the raw
// input as body.
func Parse(data []byte) *Result {
	meta, body, ok := splitFrontmatter(data)
	return &Result{
		Metadata:  meta,
		Body:      body,
		Links:     ExtractLinks(body),
		Malformed: !ok,
	}
}

// splitFrontmatter decodes a leading YAML/TOML/JSON frontmatter block.
// Documents without frontmatter return an empty map and the full text.
func splitFrontmatter(data []byte) (map[string]any, string, bool) {
	meta := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(data), &meta)
	if err != nil {
		return map[string]any{}, string(data), false
	}
	if meta == nil {
		meta = map[string]any{}
	}
	return meta, string(body), true
}

// ExtractLinks returns the trimmed text of every {{...}} placeholder, once per
// occurrence, in order of appearance. Empty placeholders are skipped.
func ExtractLinks(text string) []string {
	matches := wikilinkRe.FindAllStringSubmatch(text, -1)
	var out []string
	for _, m := range matches {
		target := strings.TrimSpace(m[1])
		if target == "" {
			continue
		}
		out = append(out, target)
	}
	return out
}

// RewriteLinks replaces each {{...}} placeholder in rendered HTML with an
// anchor pointing at the resolved slug's output file. Entities in the
// placeholder are decoded before resolving so the href matches the slug
// derived from the raw Markdown.
func RewriteLinks(fragment string) string {
	return wikilinkRe.ReplaceAllStringFunc(fragment, func(match string) string {
		text := strings.TrimSpace(match[2 : len(match)-2])
		if text == "" {
			return match
		}
		href := html.EscapeString(slug.FileName(slug.Resolve(html.UnescapeString(text))))
		return fmt.Sprintf(`<a href="%s">%s</a>`, href, text)
	})
}

func stringField(meta map[string]any, key string) string {
	v, ok := meta[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
