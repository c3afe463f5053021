package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/starford/swiki/internal/models"
)

// Sitemap group names for pages outside any folder.
const (
	RootGroup = "[root]"
	StubGroup = "[stubs]"
)

// Link is one sitemap entry.
type Link struct {
	Title string
	Slug  string
}

// Group is a sitemap heading and its pages.
type Group struct {
	Name  string
	Links []Link
}

// Sitemap renders the index document followed by the grouped page list.
func (r *Renderer) Sitemap(index models.Entry, groups []Group) (Page, error) {
	title := index.Record.Title
	if title == "" {
		title = DefaultIndexTitle
	}
	src := ""
	if index.Record.RawContent != nil {
		src = *index.Record.RawContent
	}
	body, err := r.Markdown(src)
	if err != nil {
		return Page{}, fmt.Errorf("render: index: %w", err)
	}
	intro := PlaceInContainer("section", "index",
		fmt.Sprintf(`<h1 id="title">%s</h1>%s`, html.EscapeString(title), body))

	var sb strings.Builder
	for _, g := range groups {
		sb.WriteString("<h2>")
		sb.WriteString(html.EscapeString(g.Name))
		sb.WriteString("</h2><ul>")
		for _, l := range g.Links {
			sb.WriteString(listItem(l.Slug, l.Title))
		}
		sb.WriteString("</ul>")
	}
	list := PlaceInContainer("section", "sitemap", sb.String())

	return Page{
		Slug:        index.Slug,
		Title:       title,
		Description: index.Record.Description,
		Article:     intro,
		Main:        PlaceInContainer("main", "main", intro+list),
	}, nil
}
