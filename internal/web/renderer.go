package web

import (
	"embed"
	"io"

	"github.com/google/safehtml"
	"github.com/google/safehtml/template"
)

//go:embed templates/*
var templateFS embed.FS

// Renderer renders the viewer pages.
type Renderer struct {
	tableTemplate *template.Template
	indexTemplate *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	trustedFS := template.TrustedFSFromEmbed(templateFS)

	tableTemplate, err := template.New("table.html").ParseFS(trustedFS, "templates/layout.html", "templates/table.html")
	if err != nil {
		return nil, err
	}

	indexTemplate, err := template.New("index.html").ParseFS(trustedFS, "templates/layout.html", "templates/index.html")
	if err != nil {
		return nil, err
	}

	return &Renderer{
		tableTemplate: tableTemplate,
		indexTemplate: indexTemplate,
	}, nil
}

// RenderTable renders one table page.
func (r *Renderer) RenderTable(w io.Writer, vm TableViewModel) error {
	return r.tableTemplate.Execute(w, vm)
}

// RenderIndex renders the table list.
func (r *Renderer) RenderIndex(w io.Writer, vm IndexViewModel) error {
	return r.indexTemplate.Execute(w, vm)
}

// MenuLink is one side menu entry.
type MenuLink struct {
	Text   string
	URL    safehtml.URL
	Active bool
}

// NavLink is a First/Prev/Next/Last button.
type NavLink struct {
	Enabled bool
	URL     safehtml.URL
}

// PageLink is one visible page number.
type PageLink struct {
	Number int
	Active bool
	URL    safehtml.URL
}

// TableSummary is one entry of the index page.
type TableSummary struct {
	Name  string
	Total string
	URL   safehtml.URL
}

// IndexViewModel feeds index.html.
type IndexViewModel struct {
	Menu   []MenuLink
	Tables []TableSummary
}
