// Package render turns frozen page records into HTML fragments and fills the
// page frame.
package render

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/starford/swiki/internal/models"
	"github.com/starford/swiki/internal/parser"
	"github.com/starford/swiki/internal/slug"
)

// Placeholder body for pages that are only referenced by links.
const StubContent = "There's currently nothing here."

// DefaultIndexTitle heads the sitemap when the index document has no title.
const DefaultIndexTitle = "Sitemap"

// Frame placeholders.
const (
	TitlePlaceholder       = "{{title}}"
	DescriptionPlaceholder = "{{description}}"
	ContentPlaceholder     = "{{content}}"
)

var startTagRe = regexp.MustCompile(`<[a-zA-Z][^>]*>`)

var idAttrRe = regexp.MustCompile(`(?i)\s+id\s*=\s*("[^"]*"|'[^']*'|[^\s>]+)`)

// Options configures a Renderer.
type Options struct {
	HighlightStyle string
}

// Renderer converts page records to HTML. It is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// New creates a Renderer.
func New(opts Options) *Renderer {
	return &Renderer{md: newEngine(opts.HighlightStyle)}
}

// Page is a rendered page ready to be placed in the frame.
type Page struct {
	Slug        string
	Title       string
	Description string
	// Article is the content section: heading and converted body.
	Article string
	// Main is the article plus backlinks, wrapped in the main container.
	Main string
}

// Markdown converts src to HTML and rewrites wikilinks into anchors.
func (r *Renderer) Markdown(src string) (string, error) {
	out, err := convert(r.md, src)
	if err != nil {
		return "", err
	}
	return parser.RewriteLinks(out), nil
}

// Page renders one registry entry. Stubs get placeholder content.
func (r *Renderer) Page(e models.Entry) (Page, error) {
	rec := e.Record
	title := rec.Title
	if title == "" {
		title = e.Slug
	}

	src := StubContent
	if rec.RawContent != nil {
		src = *rec.RawContent
	}
	body, err := r.Markdown(src)
	if err != nil {
		return Page{}, fmt.Errorf("render: page %s: %w", e.Slug, err)
	}

	article := fmt.Sprintf(`<h1 id="title">%s</h1>`+"\n%s", html.EscapeString(title), body)
	article = PlaceInContainer("section", "content", article)

	return Page{
		Slug:        e.Slug,
		Title:       title,
		Description: rec.Description,
		Article:     article,
		Main:        PlaceInContainer("main", "main", AddBacklinks(article, rec.Backlinks)),
	}, nil
}

// PlaceInContainer wraps content in element, with an id attribute when id is
// non-empty.
func PlaceInContainer(element, id, content string) string {
	if id == "" {
		return fmt.Sprintf("<%s>%s</%s>", element, content, element)
	}
	return fmt.Sprintf(`<%s id="%s">%s</%s>`, element, id, content, element)
}

// AddBacklinks appends a backlinks section listing each distinct source title
// once, in first-seen order. Content is returned unchanged when there are no
// backlinks.
func AddBacklinks(content string, backlinks []models.Backlink) string {
	if len(backlinks) == 0 {
		return content
	}
	var sb strings.Builder
	sb.WriteString(content)
	sb.WriteString(`<section id="backlinks"><h2>Backlinks:</h2><ul>`)
	seen := make(map[string]struct{}, len(backlinks))
	for _, bl := range backlinks {
		if _, dup := seen[bl.Title]; dup {
			continue
		}
		seen[bl.Title] = struct{}{}
		sb.WriteString(listItem(bl.Slug, bl.Title))
	}
	sb.WriteString(`</ul></section>`)
	return sb.String()
}

// FillFrame substitutes the title, description, and content placeholders.
func FillFrame(frame, title, description, content string) string {
	frame = strings.ReplaceAll(frame, TitlePlaceholder, html.EscapeString(title))
	frame = strings.ReplaceAll(frame, DescriptionPlaceholder, html.EscapeString(description))
	return strings.ReplaceAll(frame, ContentPlaceholder, content)
}

// StripIDs removes every id attribute from fragment.
func StripIDs(fragment string) string {
	return startTagRe.ReplaceAllStringFunc(fragment, func(tag string) string {
		return idAttrRe.ReplaceAllString(tag, "")
	})
}

func listItem(target, title string) string {
	return fmt.Sprintf(`<li><a href="%s">%s</a></li>`, html.EscapeString(slug.FileName(target)), html.EscapeString(title))
}
