package pagination

import (
	"github.com/lfs-lab/certtrack/internal/pager"
	"github.com/lfs-lab/certtrack/internal/table"
)

// Apply builds a pager over t, applies the search and filters in p and moves
// to p.Page. Pages past the end are clamped to the last page.
func Apply(t *table.Table, p Params, defaultPageSize int, opts ...pager.Option) (*pager.Pager, error) {
	pred, err := p.Predicate(t)
	if err != nil {
		return nil, err
	}

	opts = append([]pager.Option{pager.WithNoResultsMessage(pager.NoResultsMessage(t.Name))}, opts...)
	pg, err := pager.New(t.Rows, p.EffectivePageSize(defaultPageSize), opts...)
	if err != nil {
		return nil, err
	}
	if p.IsFiltered() {
		pg.Filter(pred)
	}

	page := pager.ClampPage(p.Page, pg.PageCount())
	if page != pg.State().CurrentPage {
		pg.Goto(page)
	}
	return pg, nil
}
