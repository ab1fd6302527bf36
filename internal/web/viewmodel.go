package web

import (
	"net/url"
	"strconv"

	"github.com/google/safehtml"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/lfs-lab/certtrack/internal/cli/pagination"
	"github.com/lfs-lab/certtrack/internal/menu"
	"github.com/lfs-lab/certtrack/internal/pager"
)

//nolint:gochecknoglobals // Stateless printer shared by all requests.
var printer = message.NewPrinter(language.English)

// TableViewModel feeds table.html.
type TableViewModel struct {
	Name      string
	Menu      []MenuLink
	Columns   []string
	Rows      [][]string
	Controls  []PageLink
	First     NavLink
	Prev      NavLink
	Next      NavLink
	Last      NavLink
	Total     string
	NoResults bool
	Message   string
	Query     string
	FormURL   safehtml.URL
	Meta      pager.Meta
}

// formatCount renders n with thousands separators.
func formatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// pageURL links to page of the table at path, keeping the search and filters.
func pageURL(path string, params pagination.Params, page int) safehtml.URL {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if params.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(params.PageSize))
	}
	if params.Search != "" {
		q.Set("q", params.Search)
	}
	if params.SearchColumn != "" {
		q.Set("col", params.SearchColumn)
	}
	for _, f := range params.Filters {
		q.Add("filter", f)
	}
	u := url.URL{Path: path, RawQuery: q.Encode()}
	return safehtml.URLSanitized(u.String())
}

// NewTableViewModel turns a pager view into the template model.
func NewTableViewModel(name, path string, columns []string, params pagination.Params, v pager.View, links []MenuLink) TableViewModel {
	vm := TableViewModel{
		Name:      name,
		Menu:      links,
		Columns:   columns,
		Rows:      make([][]string, 0, len(v.Rows)),
		Total:     formatCount(v.Total),
		NoResults: v.NoResults,
		Message:   v.Message,
		Query:     params.Search,
		FormURL:   safehtml.URLSanitized(path),
		Meta:      pager.NewMeta(v.State),
	}
	for _, r := range v.Rows {
		vm.Rows = append(vm.Rows, r.Cells)
	}
	for _, c := range v.VisibleControls() {
		vm.Controls = append(vm.Controls, PageLink{
			Number: c.Number,
			Active: c.Active,
			URL:    pageURL(path, params, c.Number),
		})
	}

	cur := v.State.CurrentPage
	vm.First = NavLink{Enabled: v.Nav.First, URL: pageURL(path, params, 1)}
	vm.Prev = NavLink{Enabled: v.Nav.Prev, URL: pageURL(path, params, max(cur-1, 1))}
	vm.Next = NavLink{Enabled: v.Nav.Next, URL: pageURL(path, params, min(cur+1, max(v.PageCount, 1)))}
	vm.Last = NavLink{Enabled: v.Nav.Last, URL: pageURL(path, params, max(v.PageCount, 1))}
	return vm
}

// menuLinks builds the side menu for the table names, marking the one that
// matches requestPath.
func menuLinks(requestPath string, names []string) []MenuLink {
	items := make([]menu.Item, 0, len(names))
	for _, n := range names {
		items = append(items, menu.Item{Text: n, Href: tablePath(n)})
	}
	items = menu.Active(requestPath, items)

	links := make([]MenuLink, 0, len(items))
	for _, it := range items {
		links = append(links, MenuLink{
			Text:   it.Text,
			URL:    safehtml.URLSanitized(it.Href),
			Active: it.Active,
		})
	}
	return links
}

func tablePath(name string) string {
	return "/tables/" + url.PathEscape(name) + "/"
}
