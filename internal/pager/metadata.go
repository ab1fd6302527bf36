package pager

// Meta contains metadata about a paginated result.
type Meta struct {
	CurrentPage int  `json:"current_page" yaml:"current_page"`
	PageSize    int  `json:"page_size"    yaml:"page_size"`
	TotalPages  int  `json:"total_pages"  yaml:"total_pages"`
	TotalItems  int  `json:"total_items"  yaml:"total_items"`
	FirstItem   int  `json:"first_item"   yaml:"first_item"`
	LastItem    int  `json:"last_item"    yaml:"last_item"`
	HasPrevious bool `json:"has_previous" yaml:"has_previous"`
	HasNext     bool `json:"has_next"     yaml:"has_next"`
}

// NewMeta derives metadata from a page state.
func NewMeta(s State) Meta {
	totalPages := s.PageCount()
	start, end := s.Range()

	m := Meta{
		CurrentPage: s.CurrentPage,
		PageSize:    s.PageSize,
		TotalPages:  totalPages,
		TotalItems:  s.TotalRows,
		HasPrevious: s.CurrentPage > 1,
		HasNext:     s.CurrentPage < totalPages,
	}
	if end > start {
		m.FirstItem = start + 1
		m.LastItem = end
	}
	return m
}

// Meta returns metadata for the pager's current page.
func (p *Pager) Meta() Meta {
	return NewMeta(p.state)
}

// ClampPage returns page limited to [1, pageCount], or 1 when there are no pages.
// Front ends call it before Goto for user-supplied page numbers; the pager
// itself never corrects a page.
func ClampPage(page, pageCount int) int {
	if pageCount < 1 || page < 1 {
		return 1
	}
	if page > pageCount {
		return pageCount
	}
	return page
}
